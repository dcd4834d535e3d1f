package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/alessandroavenali/fuel-logistics/internal/logistics/domain"
	shareddomain "github.com/alessandroavenali/fuel-logistics/internal/shared/domain"
	sharedPersistence "github.com/alessandroavenali/fuel-logistics/internal/shared/infrastructure/persistence"
)

// sqliteQuerier is the common surface of *sql.DB and *sql.Tx this repository
// needs, mirroring the outbox package's SQLite repository.
type sqliteQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLiteRunRepository implements domain.RunRepository for local/offline mode.
type SQLiteRunRepository struct {
	dbConn *sql.DB
}

// NewSQLiteRunRepository creates a new SQLite run repository.
func NewSQLiteRunRepository(dbConn *sql.DB) *SQLiteRunRepository {
	return &SQLiteRunRepository{dbConn: dbConn}
}

func (r *SQLiteRunRepository) querier(ctx context.Context) sqliteQuerier {
	if info, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		return info.Tx
	}
	return r.dbConn
}

// Save upserts a run.
func (r *SQLiteRunRepository) Save(ctx context.Context, run *domain.Run) error {
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

	var endedAt *string
	if run.EndedAt != nil {
		s := run.EndedAt.Format(time.RFC3339)
		endedAt = &s
	}

	_, err = r.querier(ctx).ExecContext(ctx, `
		INSERT INTO runs (
			id, request, solution, status, error, started_at, ended_at,
			created_at, updated_at, version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			solution = excluded.solution,
			status = excluded.status,
			error = excluded.error,
			ended_at = excluded.ended_at,
			updated_at = excluded.updated_at,
			version = excluded.version
	`,
		run.ID().String(), string(requestJSON), string(solutionJSON), string(run.Status), run.Error,
		run.StartedAt.Format(time.RFC3339), endedAt,
		run.CreatedAt().Format(time.RFC3339), run.UpdatedAt().Format(time.RFC3339), run.Version(),
	)
	return err
}

// FindByID retrieves a run by its ID, returning (nil, nil) if not found.
func (r *SQLiteRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Run, error) {
	row := r.querier(ctx).QueryRowContext(ctx, `
		SELECT id, request, solution, status, error, started_at, ended_at,
		       created_at, updated_at, version
		FROM runs
		WHERE id = ?
	`, id.String())

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return run, err
}

// List returns the most recently started runs, newest first.
func (r *SQLiteRunRepository) List(ctx context.Context, limit, offset int) ([]*domain.Run, error) {
	rows, err := r.querier(ctx).QueryContext(ctx, `
		SELECT id, request, solution, status, error, started_at, ended_at,
		       created_at, updated_at, version
		FROM runs
		ORDER BY started_at DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]*domain.Run, 0)
	for rows.Next() {
		run, err := scanRunRows(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row *sql.Row) (*domain.Run, error) {
	return scanRunInto(row)
}

func scanRunRows(rows *sql.Rows) (*domain.Run, error) {
	return scanRunInto(rows)
}

func scanRunInto(s rowScanner) (*domain.Run, error) {
	var (
		idStr, requestJSON, status, createdAtStr, updatedAtStr, startedAtStr string
		solutionJSON                                                        sql.NullString
		errMsg                                                              sql.NullString
		endedAtStr                                                          sql.NullString
		version                                                             int
	)

	if err := s.Scan(
		&idStr, &requestJSON, &solutionJSON, &status, &errMsg,
		&startedAtStr, &endedAtStr, &createdAtStr, &updatedAtStr, &version,
	); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}

	var request domain.Request
	if err := json.Unmarshal([]byte(requestJSON), &request); err != nil {
		return nil, err
	}

	var solution *domain.Solution
	if solutionJSON.Valid && solutionJSON.String != "" {
		solution = &domain.Solution{}
		if err := json.Unmarshal([]byte(solutionJSON.String), solution); err != nil {
			return nil, err
		}
	}

	createdAt, err := time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, err
	}
	updatedAt, err := time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, err
	}
	startedAt, err := time.Parse(time.RFC3339, startedAtStr)
	if err != nil {
		return nil, err
	}

	var endedAt *time.Time
	if endedAtStr.Valid && endedAtStr.String != "" {
		t, err := time.Parse(time.RFC3339, endedAtStr.String)
		if err != nil {
			return nil, err
		}
		endedAt = &t
	}

	var runErr string
	if errMsg.Valid {
		runErr = errMsg.String
	}

	entity := shareddomain.RehydrateBaseEntity(id, createdAt, updatedAt)
	return domain.RehydrateRun(entity, version, request, solution, domain.Status(status), runErr, startedAt, endedAt), nil
}
