package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	sharedPersistence "github.com/alessandroavenali/fuel-logistics/internal/shared/infrastructure/persistence"
)

// sqliteQuerier is the common surface of *sql.DB and *sql.Tx this
// repository needs.
type sqliteQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLiteRepository implements Repository using SQLite for local/offline mode.
type SQLiteRepository struct {
	dbConn *sql.DB
}

// NewSQLiteRepository creates a new SQLite outbox repository.
func NewSQLiteRepository(dbConn *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{dbConn: dbConn}
}

func (r *SQLiteRepository) querier(ctx context.Context) sqliteQuerier {
	if info, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		return info.Tx
	}
	return r.dbConn
}

// Save stores a new outbox message.
func (r *SQLiteRepository) Save(ctx context.Context, msg *Message) error {
	q := r.querier(ctx)
	result, err := q.ExecContext(ctx, `
		INSERT INTO outbox (
			event_id, aggregate_type, aggregate_id, event_type, routing_key,
			payload, metadata, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		msg.EventID.String(), msg.AggregateType, msg.AggregateID.String(), msg.EventType,
		msg.RoutingKey, string(msg.Payload), string(msg.Metadata), msg.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	msg.ID = id
	return nil
}

// SaveBatch stores multiple outbox messages, inside the caller's transaction
// if one is already open on ctx, otherwise its own.
func (r *SQLiteRepository) SaveBatch(ctx context.Context, msgs []*Message) error {
	if len(msgs) == 0 {
		return nil
	}

	if _, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		for _, msg := range msgs {
			if err := r.Save(ctx, msg); err != nil {
				return err
			}
		}
		return nil
	}

	tx, err := r.dbConn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	txCtx := sharedPersistence.WithSQLiteTx(ctx, tx, true)
	for _, msg := range msgs {
		if err := r.Save(txCtx, msg); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetUnpublished retrieves unpublished messages ordered by creation time.
func (r *SQLiteRepository) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	rows, err := r.querier(ctx).QueryContext(ctx, `
		SELECT id, event_id, aggregate_type, aggregate_id, event_type, routing_key,
		       payload, metadata, created_at, published_at, next_retry_at, retry_count,
		       last_error, dead_lettered_at, dead_letter_reason
		FROM outbox
		WHERE published_at IS NULL
		  AND dead_lettered_at IS NULL
		  AND (next_retry_at IS NULL OR next_retry_at <= ?)
		ORDER BY created_at
		LIMIT ?
	`, time.Now().Format(time.RFC3339), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanMessages(rows)
}

// MarkPublished marks a message as successfully published.
func (r *SQLiteRepository) MarkPublished(ctx context.Context, id int64) error {
	_, err := r.querier(ctx).ExecContext(ctx,
		`UPDATE outbox SET published_at = ?, dead_lettered_at = NULL WHERE id = ?`,
		time.Now().Format(time.RFC3339), id,
	)
	return err
}

// MarkFailed records a publish failure with error message.
func (r *SQLiteRepository) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	_, err := r.querier(ctx).ExecContext(ctx, `
		UPDATE outbox
		SET retry_count = retry_count + 1, last_error = ?, next_retry_at = ?
		WHERE id = ?
	`, errMsg, nextRetryAt.Format(time.RFC3339), id)
	return err
}

// MarkDead marks a message as dead-lettered.
func (r *SQLiteRepository) MarkDead(ctx context.Context, id int64, reason string) error {
	_, err := r.querier(ctx).ExecContext(ctx, `
		UPDATE outbox SET dead_lettered_at = ?, dead_letter_reason = ? WHERE id = ?
	`, time.Now().Format(time.RFC3339), reason, id)
	return err
}

// GetFailed retrieves failed messages eligible for retry.
func (r *SQLiteRepository) GetFailed(ctx context.Context, maxRetries, limit int) ([]*Message, error) {
	rows, err := r.querier(ctx).QueryContext(ctx, `
		SELECT id, event_id, aggregate_type, aggregate_id, event_type, routing_key,
		       payload, metadata, created_at, published_at, next_retry_at, retry_count,
		       last_error, dead_lettered_at, dead_letter_reason
		FROM outbox
		WHERE published_at IS NULL
		  AND dead_lettered_at IS NULL
		  AND retry_count > 0
		  AND retry_count < ?
		  AND (next_retry_at IS NULL OR next_retry_at <= ?)
		ORDER BY created_at
		LIMIT ?
	`, maxRetries, time.Now().Format(time.RFC3339), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanMessages(rows)
}

// DeleteOld removes successfully published messages older than the
// retention period.
func (r *SQLiteRepository) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -olderThanDays).Format(time.RFC3339)
	result, err := r.querier(ctx).ExecContext(ctx, `
		DELETE FROM outbox WHERE published_at IS NOT NULL AND published_at < ?
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *SQLiteRepository) scanMessages(rows *sql.Rows) ([]*Message, error) {
	var messages []*Message
	for rows.Next() {
		var (
			msg                                        Message
			eventID, aggregateID, createdAt            string
			payload, metadata                           string
			publishedAt, nextRetryAt, lastError         sql.NullString
			deadLetteredAt, deadLetterReason            sql.NullString
		)
		err := rows.Scan(
			&msg.ID, &eventID, &msg.AggregateType, &aggregateID, &msg.EventType, &msg.RoutingKey,
			&payload, &metadata, &createdAt, &publishedAt, &nextRetryAt, &msg.RetryCount,
			&lastError, &deadLetteredAt, &deadLetterReason,
		)
		if err != nil {
			return nil, err
		}

		msg.EventID, _ = uuid.Parse(eventID)
		msg.AggregateID, _ = uuid.Parse(aggregateID)
		msg.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		msg.Payload = json.RawMessage(payload)
		if metadata != "" {
			msg.Metadata = json.RawMessage(metadata)
		}
		if publishedAt.Valid {
			t, _ := time.Parse(time.RFC3339, publishedAt.String)
			msg.PublishedAt = &t
		}
		if nextRetryAt.Valid {
			t, _ := time.Parse(time.RFC3339, nextRetryAt.String)
			msg.NextRetryAt = &t
		}
		if lastError.Valid {
			msg.LastError = &lastError.String
		}
		if deadLetteredAt.Valid {
			t, _ := time.Parse(time.RFC3339, deadLetteredAt.String)
			msg.DeadLetteredAt = &t
		}
		if deadLetterReason.Valid {
			msg.DeadLetterReason = &deadLetterReason.String
		}

		messages = append(messages, &msg)
	}
	return messages, rows.Err()
}
