package commands

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"econdata-backend/lib/scrapers/tecalendar"
	"econdata-backend/services/calendar"
)

func init() {
	rootCmd.AddCommand(xhrCmd)
	rootCmd.AddCommand(domCmd)
}

var xhrCmd = &cobra.Command{
	Use:   "xhr",
	Short: "Scrapes the economic calendar over cookie-filtered HTTP.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		service, err := calendar.NewService(cfg.Calendar)
		if err != nil {
			fatal("failed to initialize calendar service", err)
		}

		t1 := time.Now()
		result, err := service.RunHTTP(cmd.Context())
		if err != nil {
			fatal("calendar scrape failed", err)
		}
		slog.Info("calendar written",
			"path", result.Path,
			"events", len(result.Events),
			"seconds", time.Since(t1).Seconds())
	},
}

var domCmd = &cobra.Command{
	Use:   "dom",
	Short: "Scrapes the economic calendar through a headless browser session.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		service, err := calendar.NewService(cfg.Calendar)
		if err != nil {
			fatal("failed to initialize calendar service", err)
		}

		session, err := tecalendar.NewBrowserSession(
			cmd.Context(),
			cfg.Calendar.Scraper.UserAgent,
			cfg.Calendar.Scraper.CookieDomain,
		)
		if err != nil {
			fatal("failed to start browser session", err)
		}
		defer session.Close()

		t1 := time.Now()
		result, err := service.RunDOM(cmd.Context(), session)
		if err != nil {
			fatal("calendar scrape failed", err)
		}
		slog.Info("calendar written",
			"path", result.Path,
			"events", len(result.Events),
			"seconds", time.Since(t1).Seconds())
	},
}
