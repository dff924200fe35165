package main

import (
	"context"
	"os"
	"time"

	"riepilogo/internal/amqp"
	"riepilogo/internal/backend"
	"riepilogo/internal/cli"
	"riepilogo/internal/log"
	"riepilogo/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), log.ComponentWorker)
	logger.Info("Starting riepilogo-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if !cfg.EventsEnabled() {
		logger.Error("AMQP_URL is required by the export worker")
		os.Exit(1)
	}
	if cfg.DataBackend == string(backend.MemoryBackend) {
		logger.Warn("Memory backend only sees this process's writes; exports will stay empty",
			"backend", cfg.DataBackend)
	}
	style := cli.LoadChartStyle(logger, cfg)

	// The worker only reads; it publishes nothing.
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	bcfg.AMQPURL = ""
	res, err := backend.NewFactory(logger).CreateBackend(context.Background(), bcfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer res.Cleanup()

	consumer, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer consumer.Close()

	summaries := cli.NewSummaryService(logger, cfg, res.Store, style)
	exporter := worker.NewExportWorker(summaries, cfg.ExportDir, logger)

	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, nil)

	logger.Info("Worker ready", "export_dir", cfg.ExportDir, "interval", cfg.ExportInterval, "queue", cfg.AMQPQueue)
	if err := exporter.Run(ctx, consumer, cfg.ExportInterval); err != nil {
		logger.Error("Export worker stopped", log.FieldError, err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
