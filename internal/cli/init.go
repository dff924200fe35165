// Package cli provides the process bootstrap shared by cmd/riepilogo,
// cmd/riepilogo-worker and cmd/riepilogo-cli.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"riepilogo/internal/chart"
	"riepilogo/internal/config"
	"riepilogo/internal/log"
	"riepilogo/internal/ports"
	"riepilogo/internal/services"
)

// SetupLogger builds the process logger at the given LOG_LEVEL and installs
// it as the slog default. An unknown level falls back to info.
func SetupLogger(level, component string) *log.Logger {
	return SetupLoggerTo(os.Stdout, level, component)
}

// SetupLoggerTo is SetupLogger writing to w.
func SetupLoggerTo(w io.Writer, level, component string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	logger := log.New(log.Config{Level: lvl, Component: component, Output: w})
	if err != nil {
		logger.Warn("Unknown log level, using info", log.FieldError, err)
	}
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// LoadChartStyle reads CHART_STYLE_FILE, or exits the process when the file
// is malformed.
func LoadChartStyle(logger *log.Logger, cfg *config.Config) chart.Style {
	style, err := config.LoadChartStyle(cfg.ChartStyleFile)
	if err != nil {
		logger.Error("Failed to load chart style", log.FieldError, err, log.FieldFile, cfg.ChartStyleFile)
		os.Exit(1)
	}
	return style
}

// NewSummaryService wires the summary service to store with the configured
// style and, when enabled, the summary cache.
func NewSummaryService(logger *log.Logger, cfg *config.Config, store ports.Store, style chart.Style) *services.SummaryService {
	opts := []services.SummaryOption{services.WithStyle(style), services.WithLogger(logger)}
	if cfg.CacheEnabled() {
		opts = append(opts, services.WithCache(cfg.SummaryCacheSize, cfg.SummaryCacheTTL, store))
		logger.Info("Summary cache enabled", "size", cfg.SummaryCacheSize, "ttl", cfg.SummaryCacheTTL)
	}
	return services.NewSummaryService(store, opts...)
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that is closed once cleanup has run or timed out.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func(context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		cancel()

		finished := make(chan struct{})
		go func() {
			if cleanup != nil {
				cleanup(shutdownCtx)
			}
			close(finished)
		}()

		select {
		case <-shutdownCtx.Done():
			logger.Warn("Shutdown timeout reached")
		case <-finished:
			logger.Info("Shutdown complete")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled and cleanup is done.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
