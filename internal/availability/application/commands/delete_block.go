package commands

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/stagehandhq/stagehand/internal/availability/domain"
	sharedApplication "github.com/stagehandhq/stagehand/internal/shared/application"
	sharedDomain "github.com/stagehandhq/stagehand/internal/shared/domain"
	"github.com/stagehandhq/stagehand/internal/shared/infrastructure/eventbus"
	"github.com/stagehandhq/stagehand/internal/shared/infrastructure/locking"
)

// DeleteBlockCommand removes one of the artist's blocks. Blocks are only
// ever deleted through this explicit action.
type DeleteBlockCommand struct {
	ArtistID uuid.UUID
	BlockID  uuid.UUID
}

// DeleteBlockHandler handles the DeleteBlockCommand.
type DeleteBlockHandler struct {
	blocks    domain.BlockRepository
	locks     *locking.ArtistLocks
	uow       sharedApplication.UnitOfWork
	publisher eventbus.Publisher
	logger    *slog.Logger
}

// NewDeleteBlockHandler creates a new DeleteBlockHandler.
func NewDeleteBlockHandler(
	blocks domain.BlockRepository,
	locks *locking.ArtistLocks,
	uow sharedApplication.UnitOfWork,
	publisher eventbus.Publisher,
	logger *slog.Logger,
) *DeleteBlockHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeleteBlockHandler{blocks: blocks, locks: locks, uow: uow, publisher: publisher, logger: logger}
}

// Handle deletes the block, reporting whether it existed.
func (h *DeleteBlockHandler) Handle(ctx context.Context, cmd DeleteBlockCommand) (bool, error) {
	var deleted bool
	err := h.locks.WithLock(cmd.ArtistID, func() error {
		return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
			var err error
			deleted, err = h.blocks.Delete(txCtx, cmd.ArtistID, cmd.BlockID)
			return err
		})
	})
	if err != nil {
		return false, err
	}

	if deleted {
		events := []sharedDomain.DomainEvent{domain.NewBlockDeleted(cmd.BlockID, cmd.ArtistID)}
		if err := eventbus.PublishDomainEvents(ctx, h.publisher, events); err != nil {
			h.logger.Warn("failed to publish block deleted event", "block_id", cmd.BlockID, "error", err)
		}
	}

	return deleted, nil
}
