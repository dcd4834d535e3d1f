package observability

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	correlationIDCtxKey contextKey = "correlation_id"
	runIDCtxKey         contextKey = "run_id"
	operationCtxKey     contextKey = "operation"
)

// Standard attribute keys used in logs.
const (
	CorrelationIDKey = "correlation_id"
	RunIDKey         = "run_id"
	OperationKey     = "operation"
	DurationKey      = "duration_ms"
	ErrorKey         = "error"
	StatusKey        = "status"
)

// WithCorrelationID adds a correlation ID to the context. If id is empty, a
// new UUID is generated.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.New().String()
	}
	return context.WithValue(ctx, correlationIDCtxKey, id)
}

// CorrelationIDFromContext extracts the correlation ID from context.
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(correlationIDCtxKey).(string); ok {
		return id
	}
	return ""
}

// WithRunID adds a run ID to the context. A solve run's ID doubles as its
// correlation ID, so every log line emitted while processing it can be
// traced back to the persisted Run row.
func WithRunID(ctx context.Context, runID uuid.UUID) context.Context {
	ctx = context.WithValue(ctx, runIDCtxKey, runID.String())
	return WithCorrelationID(ctx, runID.String())
}

// RunIDFromContext extracts the run ID from context.
func RunIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(runIDCtxKey).(string); ok {
		return id
	}
	return ""
}

// WithOperation adds an operation name to the context.
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, operationCtxKey, operation)
}

// OperationFromContext extracts the operation name from context.
func OperationFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if op, ok := ctx.Value(operationCtxKey).(string); ok {
		return op
	}
	return ""
}
