package queries

import (
	"context"

	"github.com/google/uuid"

	"github.com/stagehandhq/stagehand/internal/availability/domain"
)

// ListBlocksQuery requests all stored blocks of an artist.
type ListBlocksQuery struct {
	ArtistID uuid.UUID
}

// ListBlocksHandler handles the ListBlocksQuery.
type ListBlocksHandler struct {
	blocks domain.BlockRepository
}

// NewListBlocksHandler creates a new ListBlocksHandler.
func NewListBlocksHandler(blocks domain.BlockRepository) *ListBlocksHandler {
	return &ListBlocksHandler{blocks: blocks}
}

// Handle returns the artist's blocks, oldest first.
func (h *ListBlocksHandler) Handle(ctx context.Context, q ListBlocksQuery) ([]*domain.Block, error) {
	return h.blocks.ListByArtist(ctx, q.ArtistID)
}
