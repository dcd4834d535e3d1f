// Command fuelsched is the CLI entrypoint: it solves one planning request
// per invocation (spec.md §6) and, when a database is configured, persists
// every run so it can be looked up later.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alessandroavenali/fuel-logistics/adapter/cli"
	"github.com/alessandroavenali/fuel-logistics/internal/app"
	"github.com/alessandroavenali/fuel-logistics/pkg/config"
	"github.com/alessandroavenali/fuel-logistics/pkg/observability"
)

func main() {
	logger := observability.NewLogger(observability.DefaultLogConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if cfg.IsDevelopment() {
		logger = observability.NewLogger(observability.LogConfig{
			Level:       observability.LogLevelDebug,
			Format:      observability.LogFormatText,
			Output:      os.Stderr,
			ServiceName: "fuelsched",
		})
	}
	cli.SetLogger(logger)

	var container *app.Container
	if cfg.IsSQLite() {
		logger.Info("starting in local mode with SQLite", "database", cfg.SQLitePath)
		container, err = app.NewLocalContainer(ctx, cfg, logger)
	} else {
		container, err = app.NewContainer(ctx, cfg, logger)
	}
	if err != nil {
		logger.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	if container.OutboxProcessor != nil {
		go func() {
			if err := container.OutboxProcessor.Start(ctx); err != nil {
				logger.Error("outbox processor stopped", "error", err)
			}
		}()
	}

	cliApp := cli.NewApp(container.SolveRunHandler, container.GetRunHandler, container.ListRunsHandler)
	cli.SetApp(cliApp)

	cli.Execute()
}
