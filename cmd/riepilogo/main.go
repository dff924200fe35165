package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"riepilogo/internal/backend"
	"riepilogo/internal/cache"
	"riepilogo/internal/cli"
	apphttp "riepilogo/internal/http"
	"riepilogo/internal/log"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)
	style := cli.LoadChartStyle(logger, cfg)

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	res, err := backend.NewFactory(logger).CreateBackend(context.Background(), bcfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	summaries := cli.NewSummaryService(logger, cfg, res.Store, style)
	deps := apphttp.Deps{
		Expenses:  res.Expenses,
		Summaries: summaries,
		Logger:    logger,
	}
	if p, ok := res.Store.(apphttp.Pinger); ok {
		deps.Pinger = p
	}
	srv := apphttp.NewServer(":"+cfg.Port, deps)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", log.FieldError, err)
		}
	})

	if c := summaries.Cache(); c != nil {
		sweeper := cache.NewManager(logger)
		sweeper.Register(c)
		sweeper.StartCleanup(ctx, cfg.SummaryCacheTTL)
	}

	logger.Info("Starting riepilogo server", "port", cfg.Port, "backend", cfg.DataBackend, "events", cfg.EventsEnabled())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
