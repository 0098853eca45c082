package commands

import (
	"os"

	"github.com/spf13/cobra"

	"econdata-backend/services/reports"
)

func init() {
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Summarizes the most recent calendar and indicator exports.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		calendarPath, err := reports.LatestFile(cfg.Calendar.OutputDir, "calendar_US_*.csv")
		if err != nil {
			fatal("no calendar export found", err)
		}
		if err := reports.RenderCalendar(os.Stdout, calendarPath); err != nil {
			fatal("failed to summarize calendar export", err)
		}

		indicatorsPath, err := reports.LatestFile(cfg.Indicators.OutputDir, "indicators_US_*.csv")
		if err != nil {
			fatal("no indicators export found", err)
		}
		if err := reports.RenderIndicators(os.Stdout, indicatorsPath); err != nil {
			fatal("failed to summarize indicators export", err)
		}
	},
}
