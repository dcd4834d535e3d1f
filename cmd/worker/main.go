// Command worker is the async entrypoint: it drains the outbox (publishing
// run.completed/run.failed to RabbitMQ) and consumes the solve-requested
// work queue, running each queued planning request through the engine.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alessandroavenali/fuel-logistics/internal/app"
	"github.com/alessandroavenali/fuel-logistics/internal/logistics/application/commands"
	"github.com/alessandroavenali/fuel-logistics/internal/logistics/wire"
	"github.com/alessandroavenali/fuel-logistics/internal/shared/infrastructure/eventbus"
	"github.com/alessandroavenali/fuel-logistics/internal/shared/infrastructure/outbox"
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
		logger.Info("shutdown signal received")
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
			ServiceName: "fuelsched-worker",
		})
	}

	var container *app.Container
	if cfg.IsSQLite() {
		logger.Info("starting worker in local mode with SQLite", "database", cfg.SQLitePath)
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
			if err := container.OutboxProcessor.Start(ctx); err != nil && ctx.Err() == nil {
				logger.Error("outbox processor stopped", "error", err)
			}
		}()

		go runCleanupLoop(ctx, container.OutboxRepo, cfg, logger)
		go runStatsLoop(ctx, container.OutboxProcessor, cfg, logger)
	}

	var consumer *eventbus.RabbitMQWorkQueueConsumer
	if !cfg.IsSQLite() {
		consumer, err = eventbus.NewRabbitMQWorkQueueConsumer(eventbus.WorkQueueConsumerConfig{
			URL:       cfg.RabbitMQURL,
			QueueName: cfg.WorkerQueueName,
			Logger:    logger,
		})
		if err != nil {
			if cfg.IsDevelopment() {
				logger.Warn("rabbitmq not available, solve-request consumer disabled", "error", err)
			} else {
				logger.Error("failed to connect solve-request consumer", "error", err)
				os.Exit(1)
			}
		}
	}

	if consumer != nil {
		go func() {
			handler := solveRequestHandler(container.SolveRunHandler, logger)
			if err := consumer.Start(ctx, handler); err != nil && ctx.Err() == nil {
				logger.Error("solve-request consumer stopped", "error", err)
			}
		}()
		defer consumer.Close()
	}

	var healthServer *http.Server
	if cfg.WorkerHealthAddr != "" {
		healthServer = newHealthServer(cfg.WorkerHealthAddr, container, logger)
		go func() {
			if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("health server stopped", "error", err)
			}
		}()
	}

	logger.Info("worker started", "queue", cfg.WorkerQueueName)
	<-ctx.Done()

	logger.Info("shutting down worker")
	if container.OutboxProcessor != nil {
		container.OutboxProcessor.Stop()
	}
	if healthServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := healthServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("health server shutdown error", "error", err)
		}
	}
	logger.Info("Goodbye!")
}

// solveRequestHandler decodes a queued request document, runs it through the
// handler that persists the Run and enqueues its run.completed/run.failed
// outbox message, and reports errors that should requeue the delivery.
func solveRequestHandler(solveRunHandler *commands.SolveRunHandler, logger *slog.Logger) eventbus.MessageHandler {
	return func(ctx context.Context, body []byte) error {
		var doc wire.RequestDocument
		if err := json.Unmarshal(body, &doc); err != nil {
			logger.Error("discarding malformed solve request", "error", err)
			return nil
		}

		req := doc.ToRequest()
		if err := req.Validate(); err != nil {
			logger.Error("discarding invalid solve request", "error", err)
			return nil
		}

		result, err := solveRunHandler.Handle(ctx, commands.SolveRunCommand{Request: req})
		if err != nil {
			return fmt.Errorf("solve failed: %w", err)
		}

		logger.Info("solve request processed",
			"run_id", result.RunID,
			"status", result.Status,
			"cached", result.Cached,
		)
		return nil
	}
}

func runCleanupLoop(ctx context.Context, outboxRepo outbox.Repository, cfg *config.Config, logger *slog.Logger) {
	ticker := time.NewTicker(cfg.OutboxCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := outboxRepo.DeleteOld(ctx, cfg.OutboxRetentionDays)
			if err != nil {
				logger.Error("outbox cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("outbox cleanup removed old messages", "count", n)
			}
		}
	}
}

func runStatsLoop(ctx context.Context, processor *outbox.Processor, cfg *config.Config, logger *slog.Logger) {
	ticker := time.NewTicker(cfg.OutboxStatsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := processor.GetStats()
			logger.Info("outbox stats",
				"published", stats.PublishedCount,
				"failed", stats.FailedCount,
				"dead_lettered", stats.DeadCount,
				"lag_seconds", stats.LagSeconds,
			)
		}
	}
}

func newHealthServer(addr string, container *app.Container, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		response := map[string]any{"status": "ok"}
		if container.OutboxProcessor != nil {
			stats := container.OutboxProcessor.GetStats()
			response["running"] = stats.IsRunning
			response["published"] = stats.PublishedCount
			response["failed"] = stats.FailedCount
			response["dead"] = stats.DeadCount
			response["last_processed_at"] = stats.LastProcessedAt
			response["last_error"] = stats.LastError
		}
		_ = json.NewEncoder(w).Encode(response)
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		var pingErr error
		switch {
		case container.PgxPool != nil:
			pingErr = container.PgxPool.Ping(checkCtx)
		case container.SQLDB != nil:
			pingErr = container.SQLDB.PingContext(checkCtx)
		}

		w.Header().Set("Content-Type", "application/json")
		if pingErr != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]any{"status": "not_ready", "error": pingErr.Error()})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ready"})
	})

	logger.Info("worker health server listening", "addr", addr)
	return &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
}
