package observability

import (
	"log/slog"
	"time"
)

// Timer tracks the duration of an operation and logs it on Stop.
type Timer struct {
	operation string
	start     time.Time
	logger    *slog.Logger
}

// StartTimer creates a new timer for the given operation.
func StartTimer(operation string) *Timer {
	return &Timer{operation: operation, start: time.Now()}
}

// WithLogger adds a logger to the timer for automatic logging on stop.
func (t *Timer) WithLogger(logger *slog.Logger) *Timer {
	t.logger = logger
	return t
}

// Stop records and logs the operation duration.
func (t *Timer) Stop() time.Duration {
	duration := time.Since(t.start)
	if t.logger != nil {
		t.logger.Info("operation completed",
			"operation", t.operation,
			"duration_ms", duration.Milliseconds(),
		)
	}
	return duration
}

// StopWithError records the operation duration, logging at error level when
// err is non-nil.
func (t *Timer) StopWithError(err error) time.Duration {
	duration := time.Since(t.start)
	if t.logger != nil {
		if err != nil {
			t.logger.Error("operation failed",
				"operation", t.operation,
				"duration_ms", duration.Milliseconds(),
				"error", err.Error(),
			)
		} else {
			t.logger.Info("operation completed",
				"operation", t.operation,
				"duration_ms", duration.Milliseconds(),
			)
		}
	}
	return duration
}

// Elapsed returns the elapsed time without stopping the timer.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// TimeOperation times a function and logs its outcome.
func TimeOperation(logger *slog.Logger, operation string, fn func() error) error {
	timer := StartTimer(operation).WithLogger(logger)
	err := fn()
	timer.StopWithError(err)
	return err
}

// TimeOperationResult times a function that returns a value and logs its
// outcome.
func TimeOperationResult[T any](logger *slog.Logger, operation string, fn func() (T, error)) (T, error) {
	timer := StartTimer(operation).WithLogger(logger)
	result, err := fn()
	timer.StopWithError(err)
	return result, err
}
