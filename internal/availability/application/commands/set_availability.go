// Package commands holds the artist-facing availability write operations.
package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/stagehandhq/stagehand/internal/availability/domain"
	sharedApplication "github.com/stagehandhq/stagehand/internal/shared/application"
	sharedDomain "github.com/stagehandhq/stagehand/internal/shared/domain"
	"github.com/stagehandhq/stagehand/internal/shared/infrastructure/eventbus"
	"github.com/stagehandhq/stagehand/internal/shared/infrastructure/locking"
)

// SetAvailabilityCommand writes an explicit status for one calendar date.
type SetAvailabilityCommand struct {
	ArtistID uuid.UUID
	Date     time.Time
	Status   domain.EntryStatus
	Notes    string
}

// SetAvailabilityHandler handles the SetAvailabilityCommand.
type SetAvailabilityHandler struct {
	entries   domain.EntryRepository
	locks     *locking.ArtistLocks
	uow       sharedApplication.UnitOfWork
	publisher eventbus.Publisher
	logger    *slog.Logger
}

// NewSetAvailabilityHandler creates a new SetAvailabilityHandler.
func NewSetAvailabilityHandler(
	entries domain.EntryRepository,
	locks *locking.ArtistLocks,
	uow sharedApplication.UnitOfWork,
	publisher eventbus.Publisher,
	logger *slog.Logger,
) *SetAvailabilityHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SetAvailabilityHandler{entries: entries, locks: locks, uow: uow, publisher: publisher, logger: logger}
}

// Handle validates and upserts the entry, then publishes the change.
func (h *SetAvailabilityHandler) Handle(ctx context.Context, cmd SetAvailabilityCommand) (domain.Entry, error) {
	entry, err := domain.NewEntry(cmd.ArtistID, cmd.Date, cmd.Status, cmd.Notes)
	if err != nil {
		return domain.Entry{}, err
	}

	err = h.locks.WithLock(cmd.ArtistID, func() error {
		return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
			return h.entries.Upsert(txCtx, entry)
		})
	})
	if err != nil {
		return domain.Entry{}, err
	}

	events := []sharedDomain.DomainEvent{domain.NewAvailabilitySet(entry)}
	if err := eventbus.PublishDomainEvents(ctx, h.publisher, events); err != nil {
		h.logger.Warn("failed to publish availability event", "error", err)
	}

	return entry, nil
}
