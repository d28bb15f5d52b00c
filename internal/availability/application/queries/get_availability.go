// Package queries holds the read side of the availability surface.
package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/stagehandhq/stagehand/internal/availability/domain"
	sharedDomain "github.com/stagehandhq/stagehand/internal/shared/domain"
)

// GetAvailabilityQuery requests the explicit entries in a date window.
type GetAvailabilityQuery struct {
	ArtistID uuid.UUID
	Start    time.Time
	End      time.Time
}

// GetAvailabilityHandler handles the GetAvailabilityQuery.
type GetAvailabilityHandler struct {
	entries domain.EntryRepository
}

// NewGetAvailabilityHandler creates a new GetAvailabilityHandler.
func NewGetAvailabilityHandler(entries domain.EntryRepository) *GetAvailabilityHandler {
	return &GetAvailabilityHandler{entries: entries}
}

// Handle returns the artist's explicit entries within [Start, End].
func (h *GetAvailabilityHandler) Handle(ctx context.Context, q GetAvailabilityQuery) ([]domain.Entry, error) {
	start := domain.DateOnly(q.Start)
	end := domain.DateOnly(q.End)
	if end.Before(start) {
		return nil, sharedDomain.NewValidationError("end date before start date")
	}
	return h.entries.QueryRange(ctx, q.ArtistID, start, end)
}
