package queries

import (
	"context"

	"github.com/alessandroavenali/fuel-logistics/internal/logistics/domain"
)

// ListRunsQuery contains the parameters for paging through persisted runs.
type ListRunsQuery struct {
	Limit  int
	Offset int
}

// ListRunsHandler handles the ListRunsQuery.
type ListRunsHandler struct {
	runRepo domain.RunRepository
}

// NewListRunsHandler creates a new ListRunsHandler.
func NewListRunsHandler(runRepo domain.RunRepository) *ListRunsHandler {
	return &ListRunsHandler{runRepo: runRepo}
}

// Handle executes the ListRunsQuery.
func (h *ListRunsHandler) Handle(ctx context.Context, query ListRunsQuery) ([]*domain.Run, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = 50
	}
	return h.runRepo.List(ctx, limit, query.Offset)
}
