package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"econdata-backend/lib/configutil"
	"econdata-backend/services/calendar"
	fomcservice "econdata-backend/services/fomc"
	"econdata-backend/services/indicators"
)

var rootCmd = &cobra.Command{
	Use:   "econdata-cli",
	Short: "econdata-cli scrapes economic calendars, indicators and central-bank documents into CSV.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func fatal(message string, err error) {
	slog.Error(message, "err", err)
	os.Exit(1)
}

type Config struct {
	Calendar   calendar.Config    `json:"calendar"`
	Indicators indicators.Config  `json:"indicators"`
	Fomc       fomcservice.Config `json:"fomc"`
}

// loadConfig reads econdata.json5 (plus a .local override) and fills
// anything left unset from the built-in defaults. A missing file is
// fine, the defaults cover a full run.
func loadConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("econdata.json5")
	if err != nil && !os.IsNotExist(err) {
		fatal("failed to read config", err)
	}

	defaults := Config{
		Calendar:   calendar.DefaultConfig(),
		Indicators: indicators.DefaultConfig(),
		Fomc:       fomcservice.DefaultConfig(),
	}
	if err := configutil.MergeKeepExisting(&cfg, defaults); err != nil {
		fatal("failed to merge config defaults", err)
	}
	return cfg
}
