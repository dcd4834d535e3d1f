package main

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alessandroavenali/fuel-logistics/internal/logistics/application/commands"
	"github.com/alessandroavenali/fuel-logistics/internal/logistics/domain"
	"github.com/alessandroavenali/fuel-logistics/internal/shared/infrastructure/outbox"
)

type stubUnitOfWork struct{}

func (s stubUnitOfWork) Begin(ctx context.Context) (context.Context, error) { return ctx, nil }
func (s stubUnitOfWork) Commit(ctx context.Context) error                   { return nil }
func (s stubUnitOfWork) Rollback(ctx context.Context) error                 { return nil }

type stubRunRepo struct {
	runs map[uuid.UUID]*domain.Run
}

func newStubRunRepo() *stubRunRepo {
	return &stubRunRepo{runs: make(map[uuid.UUID]*domain.Run)}
}

func (s *stubRunRepo) Save(ctx context.Context, run *domain.Run) error {
	s.runs[run.ID()] = run
	return nil
}

func (s *stubRunRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Run, error) {
	run, ok := s.runs[id]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	return run, nil
}

func (s *stubRunRepo) List(ctx context.Context, limit, offset int) ([]*domain.Run, error) {
	runs := make([]*domain.Run, 0, len(s.runs))
	for _, r := range s.runs {
		runs = append(runs, r)
	}
	return runs, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

const validSolveRequestJSON = `{
  "days": [{"date": "2026-08-03", "D_T": 1, "D_L": 1}],
  "initial_state": {"FT": 2, "ET": 0, "Tf": 2, "Te": 0}
}`

func TestSolveRequestHandler_SolvesAndPersistsRun(t *testing.T) {
	runRepo := newStubRunRepo()
	outboxRepo := outbox.NewInMemoryRepository()
	solveRunHandler := commands.NewSolveRunHandler(runRepo, outboxRepo, stubUnitOfWork{}, nil, nil, testLogger())

	handler := solveRequestHandler(solveRunHandler, testLogger())
	err := handler(context.Background(), []byte(validSolveRequestJSON))
	require.NoError(t, err)
	assert.Len(t, runRepo.runs, 1)
}

func TestSolveRequestHandler_DiscardsMalformedJSON(t *testing.T) {
	runRepo := newStubRunRepo()
	outboxRepo := outbox.NewInMemoryRepository()
	solveRunHandler := commands.NewSolveRunHandler(runRepo, outboxRepo, stubUnitOfWork{}, nil, nil, testLogger())

	handler := solveRequestHandler(solveRunHandler, testLogger())
	err := handler(context.Background(), []byte(`not json`))

	require.NoError(t, err, "malformed payloads are discarded, not requeued")
	assert.Empty(t, runRepo.runs)
}

func TestSolveRequestHandler_DiscardsInvalidRequest(t *testing.T) {
	runRepo := newStubRunRepo()
	outboxRepo := outbox.NewInMemoryRepository()
	solveRunHandler := commands.NewSolveRunHandler(runRepo, outboxRepo, stubUnitOfWork{}, nil, nil, testLogger())

	handler := solveRequestHandler(solveRunHandler, testLogger())
	err := handler(context.Background(), []byte(`{"days": [], "initial_state": {}}`))

	require.NoError(t, err)
	assert.Empty(t, runRepo.runs)
}
