// Package app wires a Container of repositories, handlers, and ambient
// infrastructure for the two entrypoints (cmd/fuelsched, cmd/worker),
// mirroring the teacher's own bootstrap-container pattern.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"github.com/alessandroavenali/fuel-logistics/internal/logistics/application/commands"
	"github.com/alessandroavenali/fuel-logistics/internal/logistics/application/queries"
	"github.com/alessandroavenali/fuel-logistics/internal/logistics/domain"
	"github.com/alessandroavenali/fuel-logistics/internal/logistics/infrastructure/cache"
	"github.com/alessandroavenali/fuel-logistics/internal/logistics/infrastructure/persistence"
	"github.com/alessandroavenali/fuel-logistics/internal/logistics/infrastructure/resilience"
	sharedApplication "github.com/alessandroavenali/fuel-logistics/internal/shared/application"
	"github.com/alessandroavenali/fuel-logistics/internal/shared/infrastructure/eventbus"
	"github.com/alessandroavenali/fuel-logistics/internal/shared/infrastructure/migrations"
	"github.com/alessandroavenali/fuel-logistics/internal/shared/infrastructure/outbox"
	sharedPersistence "github.com/alessandroavenali/fuel-logistics/internal/shared/infrastructure/persistence"
	"github.com/alessandroavenali/fuel-logistics/pkg/config"
)

// Container holds every dependency an entrypoint needs: the database
// handles, the repositories built on top of them, and the command/query
// handlers that the CLI and worker both drive.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	PgxPool *pgxpool.Pool
	SQLDB   *sql.DB

	RunRepo    domain.RunRepository
	OutboxRepo outbox.Repository
	Cache      commands.SolutionCache
	Guard      *resilience.Guard

	UnitOfWork     sharedApplication.UnitOfWork
	EventPublisher eventbus.Publisher
	OutboxProcessor *outbox.Processor

	SolveRunHandler *commands.SolveRunHandler
	GetRunHandler   *queries.GetRunHandler
	ListRunsHandler *queries.ListRunsHandler
}

// Close releases every open connection the container holds.
func (c *Container) Close() {
	if c.OutboxProcessor != nil {
		c.OutboxProcessor.Stop()
	}
	if c.EventPublisher != nil {
		_ = c.EventPublisher.Close()
	}
	if c.PgxPool != nil {
		c.PgxPool.Close()
	}
	if c.SQLDB != nil {
		_ = c.SQLDB.Close()
	}
}

// NewContainer wires the full Postgres/Redis/RabbitMQ stack.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	c.PgxPool = pool
	logger.Info("connected to postgres")

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	c.RunRepo = persistence.NewPostgresRunRepository(pool)
	c.OutboxRepo = outbox.NewPostgresRepository(pool)
	c.UnitOfWork = sharedPersistence.NewPostgresUnitOfWork(pool)

	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			if !cfg.IsDevelopment() {
				pool.Close()
				return nil, fmt.Errorf("failed to parse redis URL: %w", err)
			}
			logger.Warn("invalid REDIS_URL, solution cache disabled", "error", err)
		} else {
			redisClient := redis.NewClient(opt)
			if err := redisClient.Ping(ctx).Err(); err != nil {
				if !cfg.IsDevelopment() {
					pool.Close()
					return nil, fmt.Errorf("failed to connect to redis: %w", err)
				}
				logger.Warn("redis not available, solution cache disabled", "error", err)
			} else {
				c.Cache = cache.NewRedisCache(redisClient, cfg.CacheTTL)
				logger.Info("connected to redis")
			}
		}
	}

	c.Guard = resilience.NewGuard(resilience.BreakerConfig{
		MaxRequests:      cfg.BreakerMaxRequests,
		Interval:         cfg.BreakerInterval,
		Timeout:          cfg.BreakerTimeout,
		FailureThreshold: cfg.BreakerFailureThreshold,
	}, logger)

	publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
	if err != nil {
		if cfg.IsDevelopment() {
			logger.Warn("rabbitmq not available, using noop publisher", "error", err)
			c.EventPublisher = eventbus.NewNoopPublisher(logger)
		} else {
			pool.Close()
			return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
		}
	} else {
		c.EventPublisher = publisher
	}

	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, outbox.ProcessorConfig{
		PollInterval: cfg.OutboxPollInterval,
		BatchSize:    cfg.OutboxBatchSize,
		MaxRetries:   cfg.OutboxMaxRetries,
	}, logger)

	c.wireHandlers(logger)
	return c, nil
}

// NewLocalContainer wires a zero-config SQLite-backed container: no
// Postgres, Redis, or RabbitMQ required. Matches the teacher's local-mode
// story for a laptop-friendly first run.
func NewLocalContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	db, err := sql.Open("sqlite", cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	c.SQLDB = db

	if err := migrations.RunSQLiteMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	c.RunRepo = persistence.NewSQLiteRunRepository(db)
	c.OutboxRepo = outbox.NewSQLiteRepository(db)
	c.UnitOfWork = sharedPersistence.NewSQLiteUnitOfWork(db)
	c.Cache = cache.NewInMemoryCache()
	c.EventPublisher = eventbus.NewNoopPublisher(logger)

	c.wireHandlers(logger)
	return c, nil
}

func (c *Container) wireHandlers(logger *slog.Logger) {
	c.SolveRunHandler = commands.NewSolveRunHandler(c.RunRepo, c.OutboxRepo, c.UnitOfWork, c.Cache, c.Guard, logger)
	c.GetRunHandler = queries.NewGetRunHandler(c.RunRepo)
	c.ListRunsHandler = queries.NewListRunsHandler(c.RunRepo)
}
