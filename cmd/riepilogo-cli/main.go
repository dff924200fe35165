package main

import (
	"context"
	"os"

	"riepilogo/internal/backend"
	"riepilogo/internal/cli"
	"riepilogo/internal/commands"
	"riepilogo/internal/log"
)

func main() {
	cli.LoadEnvFile()

	// Diagnostics go to stderr so command output stays clean.
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	logger := cli.SetupLoggerTo(os.Stderr, level, log.ComponentCLI)
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

	env := &commands.Env{
		Expenses:  res.Expenses,
		Summaries: cli.NewSummaryService(logger, cfg, res.Store, style),
	}
	err = commands.NewRootCommand(env).Execute()

	_ = res.Cleanup()
	if err != nil {
		os.Exit(1)
	}
}
