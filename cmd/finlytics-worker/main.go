package main

import (
	"context"
	"errors"
	"os"
	"time"

	"finlytics/internal/cache"
	"finlytics/internal/cli"
	"finlytics/internal/log"
	"finlytics/internal/worker"
)

const cacheSweepInterval = 10 * time.Minute

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)
	logger.Info("Starting finlytics-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required by the report worker")
		os.Exit(1)
	}

	b := cli.InitBackend(context.Background(), logger, cfg)
	if b.AMQP == nil {
		logger.Error("AMQP broker unreachable, report worker cannot start", "exchange", cfg.AMQPExchange)
		_ = b.Cleanup()
		os.Exit(1)
	}

	reportWorker := worker.NewReportWorker(b.Reports)
	caches := cache.NewManager()
	caches.Register(reportWorker.Seen())

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(context.Context) {
		caches.Stop()
		if err := b.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", log.FieldError, err)
		}
	})

	caches.StartCleanup(ctx, cacheSweepInterval)

	logger.Info("Consuming report requests",
		"queue", cfg.AMQPReportQueue,
		"exporter", cfg.ReportExporter)

	go func() {
		err := b.AMQP.ConsumeReportRequests(ctx, cfg.AMQPReportQueue, reportWorker.HandleReportRequest)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Report consumption stopped", log.FieldError, err)
		}
	}()

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker shutdown complete")
}
