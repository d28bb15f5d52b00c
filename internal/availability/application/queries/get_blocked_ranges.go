package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/stagehandhq/stagehand/internal/availability/domain"
	sharedDomain "github.com/stagehandhq/stagehand/internal/shared/domain"
)

// GetBlockedRangesQuery requests the blocked ranges in a date window, with
// recurring blocks expanded into contiguous runs.
type GetBlockedRangesQuery struct {
	ArtistID uuid.UUID
	Start    time.Time
	End      time.Time
}

// GetBlockedRangesHandler handles the GetBlockedRangesQuery.
type GetBlockedRangesHandler struct {
	blocks domain.BlockRepository
}

// NewGetBlockedRangesHandler creates a new GetBlockedRangesHandler.
func NewGetBlockedRangesHandler(blocks domain.BlockRepository) *GetBlockedRangesHandler {
	return &GetBlockedRangesHandler{blocks: blocks}
}

// Handle expands the artist's blocks into blocked ranges within the window.
func (h *GetBlockedRangesHandler) Handle(ctx context.Context, q GetBlockedRangesQuery) ([]domain.BlockedRange, error) {
	start := domain.DateOnly(q.Start)
	end := domain.DateOnly(q.End)
	if end.Before(start) {
		return nil, sharedDomain.NewValidationError("end date before start date")
	}

	blocks, err := h.blocks.ListByArtist(ctx, q.ArtistID)
	if err != nil {
		return nil, err
	}
	return domain.BlockedRangesIn(blocks, start, end), nil
}
