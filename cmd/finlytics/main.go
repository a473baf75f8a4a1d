package main

import (
	"context"
	"os"
	"time"

	"finlytics/internal/cli"
	"finlytics/internal/config"
	apphttp "finlytics/internal/http"
	"finlytics/internal/log"
	"finlytics/internal/middleware/ratelimit"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	b := cli.InitBackend(context.Background(), logger, cfg)

	srv := apphttp.NewServer(b, apphttp.Options{
		Addr:           ":" + cfg.Port,
		RequestTimeout: cfg.RequestTimeout,
		Limiter:        newLimiter(logger, cfg),
		Logger:         logger,
	})

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		if err := b.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", log.FieldError, err)
		}
	})

	logger.Info("Starting finlytics server",
		"port", cfg.Port,
		"db_path", cfg.DBPath,
		"amqp_enabled", b.AMQP != nil,
		"exporter", cfg.ReportExporter)

	if err := srv.ListenAndServe(); err != nil {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		_ = b.Cleanup()
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}

// newLimiter shares counters through Redis when FINLYTICS_REDIS_ADDR is set
// and reachable, and keeps them in memory otherwise.
func newLimiter(logger *log.Logger, cfg *config.Config) *ratelimit.Limiter {
	rlCfg := ratelimit.DefaultConfig()
	rlCfg.RequestsPerMinute = cfg.RateLimitRPM

	if cfg.RedisAddr == "" {
		return ratelimit.NewLimiter(rlCfg, nil)
	}

	store := ratelimit.NewRedisStore(cfg.RedisAddr)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		logger.Warn("Redis unavailable, rate limiting in memory",
			log.FieldError, err,
			"redis_addr", cfg.RedisAddr)
		_ = store.Close()
		return ratelimit.NewLimiter(rlCfg, nil)
	}

	logger.Info("Rate limiting through Redis", "redis_addr", cfg.RedisAddr)
	return ratelimit.NewLimiter(rlCfg, store)
}
