package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/alessandroavenali/fuel-logistics/internal/logistics/domain"
)

func setupRunTestDB(t *testing.T) *sql.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)

	_, err = sqlDB.Exec(`
		CREATE TABLE runs (
			id TEXT PRIMARY KEY,
			request TEXT NOT NULL,
			solution TEXT,
			status TEXT NOT NULL,
			error TEXT,
			started_at TEXT NOT NULL,
			ended_at TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			version INTEGER NOT NULL DEFAULT 0
		)
	`)
	require.NoError(t, err)

	return sqlDB
}

func testRequest() domain.Request {
	return domain.NewRequest(
		[]domain.Day{{Date: "2026-01-05", DT: 1, DL: 1}},
		domain.FleetState{FT: 2, ET: 0, Tf: 2, Te: 0},
	)
}

func TestSQLiteRunRepository_Save_Create(t *testing.T) {
	sqlDB := setupRunTestDB(t)
	defer sqlDB.Close()

	repo := NewSQLiteRunRepository(sqlDB)
	ctx := context.Background()

	run := domain.NewRun(testRequest())
	require.NoError(t, repo.Save(ctx, run))

	found, err := repo.FindByID(ctx, run.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, run.ID(), found.ID())
	assert.Equal(t, domain.StatusUnknown, found.Status)
	assert.Nil(t, found.Solution)
}

func TestSQLiteRunRepository_Save_CompletedWithSolution(t *testing.T) {
	sqlDB := setupRunTestDB(t)
	defer sqlDB.Close()

	repo := NewSQLiteRunRepository(sqlDB)
	ctx := context.Background()

	run := domain.NewRun(testRequest())
	run.Complete(domain.Solution{
		Status:              domain.StatusOptimal,
		ObjectiveDeliveries: 3,
		Days: []domain.DayResult{
			{Date: "2026-01-05", CountU: 2},
		},
	})
	require.NoError(t, repo.Save(ctx, run))

	found, err := repo.FindByID(ctx, run.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, domain.StatusOptimal, found.Status)
	require.NotNil(t, found.Solution)
	assert.Equal(t, 3, found.Solution.ObjectiveDeliveries)
	require.Len(t, found.Solution.Days, 1)
	assert.Equal(t, 2, found.Solution.Days[0].CountU)
	require.NotNil(t, found.EndedAt)
}

func TestSQLiteRunRepository_Save_Failed(t *testing.T) {
	sqlDB := setupRunTestDB(t)
	defer sqlDB.Close()

	repo := NewSQLiteRunRepository(sqlDB)
	ctx := context.Background()

	run := domain.NewRun(testRequest())
	run.Fail("model invalid: negative fleet count")
	require.NoError(t, repo.Save(ctx, run))

	found, err := repo.FindByID(ctx, run.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, domain.StatusModelInvalid, found.Status)
	assert.Equal(t, "model invalid: negative fleet count", found.Error)
}

func TestSQLiteRunRepository_Save_Upsert(t *testing.T) {
	sqlDB := setupRunTestDB(t)
	defer sqlDB.Close()

	repo := NewSQLiteRunRepository(sqlDB)
	ctx := context.Background()

	run := domain.NewRun(testRequest())
	require.NoError(t, repo.Save(ctx, run))

	run.Complete(domain.Solution{Status: domain.StatusFeasible, ObjectiveDeliveries: 1})
	require.NoError(t, repo.Save(ctx, run))

	found, err := repo.FindByID(ctx, run.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, domain.StatusFeasible, found.Status)
	assert.Equal(t, 1, found.Version())
}

func TestSQLiteRunRepository_FindByID_NotFound(t *testing.T) {
	sqlDB := setupRunTestDB(t)
	defer sqlDB.Close()

	repo := NewSQLiteRunRepository(sqlDB)
	ctx := context.Background()

	found, err := repo.FindByID(ctx, uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, found)
}

func TestSQLiteRunRepository_List_OrderedNewestFirst(t *testing.T) {
	sqlDB := setupRunTestDB(t)
	defer sqlDB.Close()

	repo := NewSQLiteRunRepository(sqlDB)
	ctx := context.Background()

	run1 := domain.NewRun(testRequest())
	require.NoError(t, repo.Save(ctx, run1))

	run2 := domain.NewRun(testRequest())
	run2.StartedAt = run1.StartedAt.Add(time.Hour)
	require.NoError(t, repo.Save(ctx, run2))

	runs, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, run2.ID(), runs[0].ID())
	assert.Equal(t, run1.ID(), runs[1].ID())
}

func TestSQLiteRunRepository_List_Pagination(t *testing.T) {
	sqlDB := setupRunTestDB(t)
	defer sqlDB.Close()

	repo := NewSQLiteRunRepository(sqlDB)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		run := domain.NewRun(testRequest())
		require.NoError(t, repo.Save(ctx, run))
	}

	runs, err := repo.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	runs, err = repo.List(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
