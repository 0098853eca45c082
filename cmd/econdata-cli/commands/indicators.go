package commands

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"econdata-backend/services/indicators"
)

func init() {
	rootCmd.AddCommand(indicatorsCmd)
}

var indicatorsCmd = &cobra.Command{
	Use:   "indicators",
	Short: "Fetches the indicator watch list from the charts API and writes a CSV.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		service, err := indicators.NewService(cfg.Indicators)
		if err != nil {
			fatal("failed to initialize indicators service", err)
		}

		t1 := time.Now()
		result, err := service.Run(cmd.Context())
		if err != nil {
			fatal("indicator collection failed", err)
		}
		slog.Info("indicators written",
			"path", result.Path,
			"rows", len(result.Observations),
			"seconds", time.Since(t1).Seconds())
	},
}
