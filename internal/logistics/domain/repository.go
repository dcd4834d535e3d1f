package domain

import (
	"context"
	"time"

	"github.com/google/uuid"

	shareddomain "github.com/alessandroavenali/fuel-logistics/internal/shared/domain"
)

// Run is the persisted aggregate wrapping one solve attempt: the request
// that produced it, its terminal status, and (once finished) its solution.
// It carries domain events the outbox publishes on save (spec.md §AMBIENT).
type Run struct {
	shareddomain.BaseAggregateRoot

	Request   Request
	Solution  *Solution
	Status    Status
	Error     string
	StartedAt time.Time
	EndedAt   *time.Time
}

// NewRun starts a run in the UNKNOWN status, pending solve.
func NewRun(request Request) *Run {
	return &Run{
		BaseAggregateRoot: shareddomain.NewBaseAggregateRoot(),
		Request:           request,
		Status:            StatusUnknown,
		StartedAt:         time.Now().UTC(),
	}
}

// RehydrateRun reconstructs a Run from persisted state, without re-raising
// domain events.
func RehydrateRun(entity shareddomain.BaseEntity, version int, request Request, solution *Solution, status Status, runErr string, startedAt time.Time, endedAt *time.Time) *Run {
	return &Run{
		BaseAggregateRoot: shareddomain.RehydrateBaseAggregateRoot(entity, version),
		Request:           request,
		Solution:          solution,
		Status:            status,
		Error:             runErr,
		StartedAt:         startedAt,
		EndedAt:           endedAt,
	}
}

// Complete records a terminal solution and raises RunCompleted.
func (r *Run) Complete(solution Solution) {
	now := time.Now().UTC()
	r.Solution = &solution
	r.Status = solution.Status
	r.EndedAt = &now
	r.Touch()
	r.IncrementVersion()
	r.AddDomainEvent(NewRunCompleted(r.ID(), solution.Status, solution.ObjectiveDeliveries))
}

// Fail records a hard error (MODEL_INVALID) and raises RunFailed.
func (r *Run) Fail(reason string) {
	now := time.Now().UTC()
	r.Status = StatusModelInvalid
	r.Error = reason
	r.EndedAt = &now
	r.Touch()
	r.IncrementVersion()
	r.AddDomainEvent(NewRunFailed(r.ID(), reason))
}

// RunRepository persists and retrieves solve runs.
type RunRepository interface {
	Save(ctx context.Context, run *Run) error
	FindByID(ctx context.Context, id uuid.UUID) (*Run, error)
	List(ctx context.Context, limit, offset int) ([]*Run, error)
}
