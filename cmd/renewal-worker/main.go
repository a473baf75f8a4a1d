package main

import (
	"context"
	"os"
	"time"

	"finlytics/internal/cli"
	"finlytics/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentRenewal)
	logger.Info("Starting renewal-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	b := cli.InitBackend(context.Background(), logger, cfg)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := b.Renewals.Stop(shutdownCtx); err != nil {
			logger.Error("Renewal processor stop error", log.FieldError, err)
		}
		if err := b.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", log.FieldError, err)
		}
	})

	logger.Info("Renewal processor configured",
		"interval", cfg.RenewalInterval,
		"db_path", cfg.DBPath,
		"amqp_enabled", b.AMQP != nil)

	if err := b.Renewals.Start(ctx); err != nil {
		logger.Error("Failed to start renewal processor", log.FieldError, err)
		_ = b.Cleanup()
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Renewal-worker shutdown complete")
}
