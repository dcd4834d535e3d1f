package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"github.com/alessandroavenali/fuel-logistics/internal/logistics/domain"
	shareddomain "github.com/alessandroavenali/fuel-logistics/internal/shared/domain"
	sharedPersistence "github.com/alessandroavenali/fuel-logistics/internal/shared/infrastructure/persistence"
)

// ErrRunNotFound is not returned by any method of this package: FindByID
// reports a missing run as (nil, nil), matching the teacher's
// PostgresScheduleRepository.FindByID convention.
var ErrRunNotFound = errors.New("run not found")

// PostgresRunRepository implements domain.RunRepository using PostgreSQL.
// Unlike the teacher's per-column relational schedule table, one run is one
// row: the request and solution documents are stored as jsonb, since a
// Request/Solution's shape is fixed Go structs the application layer never
// queries by field — only ever fetched whole by run ID.
type PostgresRunRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRunRepository creates a new PostgreSQL run repository.
func NewPostgresRunRepository(pool *pgxpool.Pool) *PostgresRunRepository {
	return &PostgresRunRepository{pool: pool}
}

type runRow struct {
	id           uuid.UUID
	requestJSON  []byte
	solutionJSON []byte
	status       string
	errMsg       string
	startedAt    time.Time
	endedAt      *time.Time
	createdAt    time.Time
	updatedAt    time.Time
	version      int
}

// Save upserts a run. Runs are append-mostly (created once, completed or
// failed once), so this is a plain upsert rather than the teacher's
// delete-then-reinsert child-row pattern.
func (r *PostgresRunRepository) Save(ctx context.Context, run *domain.Run) error {
	requestJSON, err := json.Marshal(run.Request)
	if err != nil {
		return err
	}

	var solutionJSON []byte
	if run.Solution != nil {
		solutionJSON, err = json.Marshal(run.Solution)
		if err != nil {
			return err
		}
	}

	query := `
		INSERT INTO runs (
			id, request, solution, status, error, started_at, ended_at,
			created_at, updated_at, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			solution = EXCLUDED.solution,
			status = EXCLUDED.status,
			error = EXCLUDED.error,
			ended_at = EXCLUDED.ended_at,
			updated_at = EXCLUDED.updated_at,
			version = EXCLUDED.version
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	_, err = execer.Exec(ctx, query,
		run.ID(),
		requestJSON,
		solutionJSON,
		string(run.Status),
		run.Error,
		run.StartedAt,
		run.EndedAt,
		run.CreatedAt(),
		run.UpdatedAt(),
		run.Version(),
	)
	if err != nil {
		return err
	}

	if run.Solution != nil {
		return r.saveDriverTasks(ctx, run.ID(), run.Solution)
	}
	return nil
}

// saveDriverTasks rewrites the denormalized per-driver task-kind rows for a
// run's solution, keyed by (run, date, depot, driver index).
func (r *PostgresRunRepository) saveDriverTasks(ctx context.Context, runID uuid.UUID, solution *domain.Solution) error {
	execer := sharedPersistence.Executor(ctx, r.pool)

	if _, err := execer.Exec(ctx, `DELETE FROM run_day_driver_tasks WHERE run_id = $1`, runID); err != nil {
		return err
	}

	for _, day := range solution.Days {
		if err := r.saveDepotDrivers(ctx, execer, runID, day.Date, "T", day.DriversT); err != nil {
			return err
		}
		if err := r.saveDepotDrivers(ctx, execer, runID, day.Date, "L", day.DriversL); err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresRunRepository) saveDepotDrivers(ctx context.Context, execer sharedPersistence.DBExecutor, runID uuid.UUID, date, depot string, drivers []domain.DriverSchedule) error {
	for idx, driver := range drivers {
		if len(driver.Starts) == 0 {
			continue
		}
		kinds := make([]string, len(driver.Starts))
		for i, start := range driver.Starts {
			kinds[i] = string(start.Task)
		}
		_, err := execer.Exec(ctx, `
			INSERT INTO run_day_driver_tasks (run_id, date, depot, driver_index, task_kinds)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (run_id, date, depot, driver_index) DO UPDATE SET task_kinds = EXCLUDED.task_kinds
		`, runID, date, depot, idx, pq.Array(kinds))
		if err != nil {
			return err
		}
	}
	return nil
}

// FindByID retrieves a run by its ID, returning (nil, nil) if not found.
func (r *PostgresRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Run, error) {
	query := `
		SELECT id, request, solution, status, error, started_at, ended_at,
		       created_at, updated_at, version
		FROM runs
		WHERE id = $1
	`

	var row runRow
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&row.id, &row.requestJSON, &row.solutionJSON, &row.status, &row.errMsg,
		&row.startedAt, &row.endedAt, &row.createdAt, &row.updatedAt, &row.version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return rowToRun(row)
}

// List returns the most recently started runs, newest first.
func (r *PostgresRunRepository) List(ctx context.Context, limit, offset int) ([]*domain.Run, error) {
	query := `
		SELECT id, request, solution, status, error, started_at, ended_at,
		       created_at, updated_at, version
		FROM runs
		ORDER BY started_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]*domain.Run, 0)
	for rows.Next() {
		var row runRow
		if err := rows.Scan(
			&row.id, &row.requestJSON, &row.solutionJSON, &row.status, &row.errMsg,
			&row.startedAt, &row.endedAt, &row.createdAt, &row.updatedAt, &row.version,
		); err != nil {
			return nil, err
		}
		run, err := rowToRun(row)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func rowToRun(row runRow) (*domain.Run, error) {
	var request domain.Request
	if err := json.Unmarshal(row.requestJSON, &request); err != nil {
		return nil, err
	}

	var solution *domain.Solution
	if len(row.solutionJSON) > 0 {
		solution = &domain.Solution{}
		if err := json.Unmarshal(row.solutionJSON, solution); err != nil {
			return nil, err
		}
	}

	entity := shareddomain.RehydrateBaseEntity(row.id, row.createdAt, row.updatedAt)
	return domain.RehydrateRun(entity, row.version, request, solution, domain.Status(row.status), row.errMsg, row.startedAt, row.endedAt), nil
}
