package commands

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	fomcservice "econdata-backend/services/fomc"
)

func init() {
	rootCmd.AddCommand(fomcCmd)
	rootCmd.AddCommand(speechesCmd)
}

var fomcCmd = &cobra.Command{
	Use:   "fomc",
	Short: "Resolves recent FOMC meetings, downloads their documents and writes a CSV.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		service, err := fomcservice.NewService(cfg.Fomc)
		if err != nil {
			fatal("failed to initialize fomc service", err)
		}
		defer service.Close()

		t1 := time.Now()
		result, err := service.Run(cmd.Context())
		if err != nil {
			fatal("fomc pipeline failed", err)
		}
		slog.Info("meetings written",
			"path", result.Path,
			"meetings", len(result.Meetings),
			"dateless", len(result.Dateless),
			"seconds", time.Since(t1).Seconds())
	},
}

var speechesCmd = &cobra.Command{
	Use:   "speeches",
	Short: "Downloads recent Federal Reserve speech transcripts.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		service, err := fomcservice.NewService(cfg.Fomc)
		if err != nil {
			fatal("failed to initialize fomc service", err)
		}
		defer service.Close()

		t1 := time.Now()
		stats, err := service.Speeches(cmd.Context())
		if err != nil {
			fatal("speech download failed", err)
		}
		slog.Info("speeches downloaded",
			"downloaded", stats.Downloaded,
			"skipped", stats.Skipped,
			"failed", stats.Failed,
			"seconds", time.Since(t1).Seconds())
	},
}
