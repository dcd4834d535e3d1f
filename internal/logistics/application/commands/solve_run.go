package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alessandroavenali/fuel-logistics/internal/csp"
	"github.com/alessandroavenali/fuel-logistics/internal/logistics/domain"
	sharedApplication "github.com/alessandroavenali/fuel-logistics/internal/shared/application"
	"github.com/alessandroavenali/fuel-logistics/internal/shared/infrastructure/outbox"
)

// cacheHash hashes the normalized request document so identical planning
// requests map to the same cache key, independent of the caller's SolutionCache
// implementation.
func cacheHash(req domain.Request) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:]), nil
}

// SolveRunCommand contains the data needed to run one planning request
// through the engine.
type SolveRunCommand struct {
	Request domain.Request
}

// SolveRunResult is returned after a solve attempt completes or fails.
type SolveRunResult struct {
	RunID    uuid.UUID
	Status   domain.Status
	Solution *domain.Solution
	Cached   bool
}

// SolutionCache is the idempotency/result cache a SolveRunHandler consults
// before running the solver, keyed by a hash of the normalized request
// document (see internal/logistics/infrastructure/cache.RequestHash).
// A cache miss is reported as an error so callers can distinguish it from a
// transport failure; RedisCache.Get and InMemoryCache.Get both return
// cache.ErrNotFound for a miss.
type SolutionCache interface {
	Get(ctx context.Context, hash string) (*domain.Solution, error)
	Set(ctx context.Context, hash string, solution domain.Solution) error
}

// CacheGuard protects a SolveRunHandler's cache round trips with a circuit
// breaker, so a degraded Redis instance fails fast instead of adding
// latency to every solve request. Satisfied by *resilience.Guard.
type CacheGuard interface {
	Call(ctx context.Context, name string, fn func(ctx context.Context) (any, error)) (any, error)
}

// SolveRunHandler orchestrates validation, model build/solve, persistence,
// and event publication for one planning request, mirroring the teacher's
// AutoScheduleHandler command pattern (validate -> domain call -> save ->
// outbox, all inside one unit of work).
type SolveRunHandler struct {
	runRepo    domain.RunRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	cache      SolutionCache
	guard      CacheGuard
	logger     *slog.Logger
}

// NewSolveRunHandler creates a new SolveRunHandler. cache and guard may both
// be nil, in which case every request is solved fresh with no breaker
// protection around the cache round trip.
func NewSolveRunHandler(
	runRepo domain.RunRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	cache SolutionCache,
	guard CacheGuard,
	logger *slog.Logger,
) *SolveRunHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SolveRunHandler{
		runRepo:    runRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		cache:      cache,
		guard:      guard,
		logger:     logger,
	}
}

// cacheGet consults the cache directly, or through the breaker guard when
// one is configured.
func (h *SolveRunHandler) cacheGet(ctx context.Context, hash string) (*domain.Solution, error) {
	if h.guard == nil {
		return h.cache.Get(ctx, hash)
	}
	result, err := h.guard.Call(ctx, "logistics.cache.get", func(ctx context.Context) (any, error) {
		return h.cache.Get(ctx, hash)
	})
	if err != nil {
		return nil, err
	}
	solution, _ := result.(*domain.Solution)
	return solution, nil
}

// cacheSet stores a solution directly, or through the breaker guard when
// one is configured. Cache-store failures are non-fatal to the solve.
func (h *SolveRunHandler) cacheSet(ctx context.Context, hash string, solution domain.Solution) {
	if h.guard == nil {
		_ = h.cache.Set(ctx, hash, solution)
		return
	}
	_, _ = h.guard.Call(ctx, "logistics.cache.set", func(ctx context.Context) (any, error) {
		return nil, h.cache.Set(ctx, hash, solution)
	})
}

// Handle executes the SolveRunCommand: it always persists a Run row, win or
// lose, so a caller can look up what happened to a planning request by ID.
// A cache hit on the normalized request document short-circuits the solver
// entirely; re-submitting the same planning request is then just a
// persistence write, not a fresh constructive search.
func (h *SolveRunHandler) Handle(ctx context.Context, cmd SolveRunCommand) (*SolveRunResult, error) {
	run := domain.NewRun(cmd.Request)
	start := time.Now()

	hash, hashErr := cacheHash(cmd.Request)
	var cached *domain.Solution
	if h.cache != nil && hashErr == nil {
		if solution, err := h.cacheGet(ctx, hash); err == nil {
			cached = solution
		}
	}

	var (
		solution domain.Solution
		err      error
	)
	switch {
	case cached != nil:
		solution = *cached
	default:
		solution, err = csp.Solve(ctx, cmd.Request)
		if err == nil && h.cache != nil && hashErr == nil {
			h.cacheSet(ctx, hash, solution)
		}
	}

	if err != nil {
		run.Fail(err.Error())
	} else {
		run.Complete(solution)
	}

	result := &SolveRunResult{RunID: run.ID(), Status: run.Status, Cached: cached != nil}
	if err == nil {
		result.Solution = run.Solution
	}

	saveErr := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if saveErr := h.runRepo.Save(txCtx, run); saveErr != nil {
			return saveErr
		}

		events := run.DomainEvents()
		metadata := sharedApplication.NewEventMetadata()
		sharedApplication.ApplyEventMetadata(events, metadata)

		msgs := make([]*outbox.Message, 0, len(events))
		for _, event := range events {
			msg, msgErr := outbox.NewMessage(event)
			if msgErr != nil {
				return msgErr
			}
			msgs = append(msgs, msg)
		}
		return h.outboxRepo.SaveBatch(txCtx, msgs)
	})
	if saveErr != nil {
		return nil, saveErr
	}

	objectiveDeliveries := 0
	if result.Solution != nil {
		objectiveDeliveries = result.Solution.ObjectiveDeliveries
	}
	h.logger.Info("solve run completed",
		"run_id", run.ID(),
		"status", run.Status,
		"objective_deliveries", objectiveDeliveries,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if err != nil {
		return result, err
	}
	return result, nil
}
