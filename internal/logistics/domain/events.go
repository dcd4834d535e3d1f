package domain

import (
	"github.com/google/uuid"

	shareddomain "github.com/alessandroavenali/fuel-logistics/internal/shared/domain"
)

const aggregateTypeRun = "fuel_logistics.run"

// RunCompleted fires once a solve attempt reaches a terminal, non-error
// status (OPTIMAL/FEASIBLE/INFEASIBLE/UNKNOWN).
type RunCompleted struct {
	shareddomain.BaseEvent
	RunStatus           Status
	ObjectiveDeliveries int
}

// NewRunCompleted builds a RunCompleted event for the given run.
func NewRunCompleted(runID uuid.UUID, status Status, objectiveDeliveries int) RunCompleted {
	return RunCompleted{
		BaseEvent:           shareddomain.NewBaseEvent(runID, aggregateTypeRun, "run.completed"),
		RunStatus:           status,
		ObjectiveDeliveries: objectiveDeliveries,
	}
}

// RunFailed fires when a solve attempt is rejected before or during search,
// i.e. the MODEL_INVALID error kind (spec.md §7 kind 4).
type RunFailed struct {
	shareddomain.BaseEvent
	Reason string
}

// NewRunFailed builds a RunFailed event for the given run.
func NewRunFailed(runID uuid.UUID, reason string) RunFailed {
	return RunFailed{
		BaseEvent: shareddomain.NewBaseEvent(runID, aggregateTypeRun, "run.failed"),
		Reason:    reason,
	}
}
