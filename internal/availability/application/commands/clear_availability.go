package commands

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/stagehandhq/stagehand/internal/availability/domain"
	sharedApplication "github.com/stagehandhq/stagehand/internal/shared/application"
	"github.com/stagehandhq/stagehand/internal/shared/infrastructure/locking"
)

// ClearAvailabilityCommand removes the explicit entry for one calendar date,
// returning the date to its implicit state.
type ClearAvailabilityCommand struct {
	ArtistID uuid.UUID
	Date     time.Time
}

// ClearAvailabilityHandler handles the ClearAvailabilityCommand.
type ClearAvailabilityHandler struct {
	entries domain.EntryRepository
	locks   *locking.ArtistLocks
	uow     sharedApplication.UnitOfWork
}

// NewClearAvailabilityHandler creates a new ClearAvailabilityHandler.
func NewClearAvailabilityHandler(
	entries domain.EntryRepository,
	locks *locking.ArtistLocks,
	uow sharedApplication.UnitOfWork,
) *ClearAvailabilityHandler {
	return &ClearAvailabilityHandler{entries: entries, locks: locks, uow: uow}
}

// Handle deletes the entry. Clearing an absent entry is not an error.
func (h *ClearAvailabilityHandler) Handle(ctx context.Context, cmd ClearAvailabilityCommand) error {
	return h.locks.WithLock(cmd.ArtistID, func() error {
		return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
			return h.entries.Delete(txCtx, cmd.ArtistID, cmd.Date)
		})
	})
}
