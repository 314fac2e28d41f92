package main

import (
	"context"
	"log/slog"
	"os"

	"coursesync-backend/cmd/portal-cli/commands"
	"coursesync-backend/internal/components/telemetry"
)

func main() {
	ctx := context.Background()

	otel, err := telemetry.SetupFromEnv(ctx, "portal-cli")
	if err != nil {
		slog.Warn("failed to setup telemetry", "err", err)
	}
	telemetry.InitSlog(os.Getenv("PORTAL_DEBUG") != "")

	code := commands.ExecuteContext(ctx)

	err = otel.Shutdown(ctx)
	if err != nil {
		slog.Warn("failed to shutdown telemetry", "err", err)
	}
	os.Exit(code)
}
