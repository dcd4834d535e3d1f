package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alessandroavenali/fuel-logistics/internal/logistics/application/commands"
	"github.com/alessandroavenali/fuel-logistics/internal/logistics/application/queries"
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

// setupTestApp wires an App around an in-memory run repository and outbox,
// suitable for exercising the CLI commands without a database.
func setupTestApp(t *testing.T) (*App, *stubRunRepo) {
	t.Helper()

	runRepo := newStubRunRepo()
	outboxRepo := outbox.NewInMemoryRepository()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	solveHandler := commands.NewSolveRunHandler(runRepo, outboxRepo, stubUnitOfWork{}, nil, nil, logger)
	getHandler := queries.NewGetRunHandler(runRepo)
	listHandler := queries.NewListRunsHandler(runRepo)

	return NewApp(solveHandler, getHandler, listHandler), runRepo
}

const testRequestJSON = `{
  "days": [{"date": "2026-08-03", "D_T": 1, "D_L": 1}],
  "initial_state": {"FT": 2, "ET": 0, "Tf": 2, "Te": 0}
}`

func TestSolveCmd_SolvesFromFileArg(t *testing.T) {
	app, _ := setupTestApp(t)
	SetApp(app)
	defer SetApp(nil)

	dir := t.TempDir()
	reqPath := dir + "/request.json"
	require.NoError(t, os.WriteFile(reqPath, []byte(testRequestJSON), 0o644))

	var out bytes.Buffer
	solveCmd.SetOut(&out)
	solveCmd.SetArgs([]string{reqPath})
	defer solveCmd.SetArgs(nil)

	require.NoError(t, solveCmd.RunE(solveCmd, []string{reqPath}))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Contains(t, doc, "status")
	assert.Contains(t, doc, "objective_deliveries")
}

func TestSolveCmd_RejectsInvalidRequest(t *testing.T) {
	app, _ := setupTestApp(t)
	SetApp(app)
	defer SetApp(nil)

	dir := t.TempDir()
	reqPath := dir + "/request.json"
	require.NoError(t, os.WriteFile(reqPath, []byte(`{"days": [], "initial_state": {}}`), 0o644))

	var out bytes.Buffer
	solveCmd.SetOut(&out)
	err := solveCmd.RunE(solveCmd, []string{reqPath})
	assert.Error(t, err)
}

func TestSolveCmd_RequiresInitializedApp(t *testing.T) {
	SetApp(nil)

	dir := t.TempDir()
	reqPath := dir + "/request.json"
	require.NoError(t, os.WriteFile(reqPath, []byte(testRequestJSON), 0o644))

	err := solveCmd.RunE(solveCmd, []string{reqPath})
	assert.Error(t, err)
}

func TestValidateCmd_ValidRequest(t *testing.T) {
	dir := t.TempDir()
	reqPath := dir + "/request.json"
	require.NoError(t, os.WriteFile(reqPath, []byte(testRequestJSON), 0o644))

	var out bytes.Buffer
	validateCmd.SetOut(&out)
	require.NoError(t, validateCmd.RunE(validateCmd, []string{reqPath}))
	assert.Contains(t, out.String(), "valid")
}

func TestValidateCmd_InvalidRequest(t *testing.T) {
	dir := t.TempDir()
	reqPath := dir + "/request.json"
	require.NoError(t, os.WriteFile(reqPath, []byte(`{"days": [], "initial_state": {}}`), 0o644))

	var out bytes.Buffer
	validateCmd.SetOut(&out)
	err := validateCmd.RunE(validateCmd, []string{reqPath})
	assert.Error(t, err)
	assert.Contains(t, out.String(), "invalid")
}

func TestShowCmd_ShowsPersistedRun(t *testing.T) {
	app, runRepo := setupTestApp(t)
	SetApp(app)
	defer SetApp(nil)

	req := domain.NewRequest(
		[]domain.Day{{Date: "2026-08-03", DT: 1, DL: 1}},
		domain.FleetState{FT: 2, ET: 0, Tf: 2, Te: 0},
	)
	run := domain.NewRun(req)
	run.Complete(domain.Solution{Status: domain.StatusOptimal, ObjectiveDeliveries: 1})
	require.NoError(t, runRepo.Save(context.Background(), run))

	var out bytes.Buffer
	showCmd.SetOut(&out)
	require.NoError(t, showCmd.RunE(showCmd, []string{run.ID().String()}))
	assert.Contains(t, out.String(), run.ID().String())
	assert.Contains(t, out.String(), "OPTIMAL")
}

func TestShowCmd_RejectsInvalidRunID(t *testing.T) {
	app, _ := setupTestApp(t)
	SetApp(app)
	defer SetApp(nil)

	err := showCmd.RunE(showCmd, []string{"not-a-uuid"})
	assert.Error(t, err)
}

func TestListRunsCmd_ListsPersistedRuns(t *testing.T) {
	app, runRepo := setupTestApp(t)
	SetApp(app)
	defer SetApp(nil)

	req := domain.NewRequest(
		[]domain.Day{{Date: "2026-08-03", DT: 1, DL: 1}},
		domain.FleetState{FT: 2, ET: 0, Tf: 2, Te: 0},
	)
	run := domain.NewRun(req)
	require.NoError(t, runRepo.Save(context.Background(), run))

	var out bytes.Buffer
	listRunsCmd.SetOut(&out)
	listRunsCmd.Flags().Set("limit", "10")
	require.NoError(t, listRunsCmd.RunE(listRunsCmd, nil))
	assert.Contains(t, out.String(), run.ID().String())
}
