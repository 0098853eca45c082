package main

import (
	"context"
	"log/slog"
	"os"

	"econdata-backend/cmd/econdata-cli/commands"
	"econdata-backend/lib/telemetry"
)

func main() {
	ctx := context.Background()

	telemetry.InitSlog(true)
	tel, err := telemetry.SetupFromEnv(ctx, "econdata-cli")
	if err != nil && !os.IsNotExist(err) {
		slog.Warn("telemetry setup failed, continuing without exporters", "err", err)
	}
	defer tel.Shutdown(ctx)
	telemetry.InstrumentPerfStats(ctx)

	commands.ExecuteContext(ctx)
}
