package queries

import (
	"context"

	"github.com/google/uuid"

	"github.com/alessandroavenali/fuel-logistics/internal/logistics/domain"
)

// GetRunQuery contains the parameters for looking up one persisted run.
type GetRunQuery struct {
	RunID uuid.UUID
}

// GetRunHandler handles the GetRunQuery.
type GetRunHandler struct {
	runRepo domain.RunRepository
}

// NewGetRunHandler creates a new GetRunHandler.
func NewGetRunHandler(runRepo domain.RunRepository) *GetRunHandler {
	return &GetRunHandler{runRepo: runRepo}
}

// Handle executes the GetRunQuery.
func (h *GetRunHandler) Handle(ctx context.Context, query GetRunQuery) (*domain.Run, error) {
	return h.runRepo.FindByID(ctx, query.RunID)
}
