package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/stagehandhq/stagehand/internal/availability/domain"
	sharedApplication "github.com/stagehandhq/stagehand/internal/shared/application"
	"github.com/stagehandhq/stagehand/internal/shared/infrastructure/eventbus"
	"github.com/stagehandhq/stagehand/internal/shared/infrastructure/locking"
)

// CreateBlockCommand declares a blackout range for an artist.
type CreateBlockCommand struct {
	ArtistID   uuid.UUID
	StartDate  time.Time
	EndDate    time.Time
	Reason     string
	Recurrence *domain.Recurrence
}

// CreateBlockResult contains the id of the created block.
type CreateBlockResult struct {
	BlockID uuid.UUID
}

// CreateBlockHandler handles the CreateBlockCommand.
type CreateBlockHandler struct {
	blocks    domain.BlockRepository
	locks     *locking.ArtistLocks
	uow       sharedApplication.UnitOfWork
	publisher eventbus.Publisher
	logger    *slog.Logger
}

// NewCreateBlockHandler creates a new CreateBlockHandler.
func NewCreateBlockHandler(
	blocks domain.BlockRepository,
	locks *locking.ArtistLocks,
	uow sharedApplication.UnitOfWork,
	publisher eventbus.Publisher,
	logger *slog.Logger,
) *CreateBlockHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CreateBlockHandler{blocks: blocks, locks: locks, uow: uow, publisher: publisher, logger: logger}
}

// Handle validates, persists and announces the new block.
func (h *CreateBlockHandler) Handle(ctx context.Context, cmd CreateBlockCommand) (*CreateBlockResult, error) {
	block, err := domain.NewBlock(cmd.ArtistID, cmd.StartDate, cmd.EndDate, cmd.Reason, cmd.Recurrence)
	if err != nil {
		return nil, err
	}

	err = h.locks.WithLock(cmd.ArtistID, func() error {
		return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
			return h.blocks.Save(txCtx, block)
		})
	})
	if err != nil {
		return nil, err
	}

	if err := eventbus.PublishDomainEvents(ctx, h.publisher, block.DomainEvents()); err != nil {
		h.logger.Warn("failed to publish block events", "block_id", block.ID(), "error", err)
	}
	block.ClearDomainEvents()

	h.logger.Info("availability block created",
		"artist_id", cmd.ArtistID,
		"block_id", block.ID(),
		"recurring", block.IsRecurring(),
	)

	return &CreateBlockResult{BlockID: block.ID()}, nil
}
