package commands

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	availability "github.com/stagehandhq/stagehand/internal/availability/domain"
	"github.com/stagehandhq/stagehand/internal/booking/application/services"
	"github.com/stagehandhq/stagehand/internal/booking/domain"
	sharedApplication "github.com/stagehandhq/stagehand/internal/shared/application"
	sharedDomain "github.com/stagehandhq/stagehand/internal/shared/domain"
	"github.com/stagehandhq/stagehand/internal/shared/infrastructure/eventbus"
	"github.com/stagehandhq/stagehand/internal/shared/infrastructure/locking"
)

// UpdateBookingStatusCommand moves a booking through its lifecycle.
type UpdateBookingStatusCommand struct {
	BookingID uuid.UUID
	Status    domain.Status
}

// UpdateBookingStatusHandler applies lifecycle transitions and their
// calendar side effects. Confirming writes booked entries owned by the
// booking; cancelling a confirmed booking reopens only the dates it still
// owns, so a date another booking has since claimed stays booked.
type UpdateBookingStatusHandler struct {
	bookings  domain.Repository
	entries   availability.EntryRepository
	locks     *locking.ArtistLocks
	uow       sharedApplication.UnitOfWork
	publisher eventbus.Publisher
	notifier  services.Notifier
	logger    *slog.Logger
}

// NewUpdateBookingStatusHandler creates a new UpdateBookingStatusHandler.
func NewUpdateBookingStatusHandler(
	bookings domain.Repository,
	entries availability.EntryRepository,
	locks *locking.ArtistLocks,
	uow sharedApplication.UnitOfWork,
	publisher eventbus.Publisher,
	notifier services.Notifier,
	logger *slog.Logger,
) *UpdateBookingStatusHandler {
	if notifier == nil {
		notifier = services.NewLogNotifier(logger)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UpdateBookingStatusHandler{
		bookings:  bookings,
		entries:   entries,
		locks:     locks,
		uow:       uow,
		publisher: publisher,
		notifier:  notifier,
		logger:    logger,
	}
}

// Handle applies the transition. Repeating the current status is an
// idempotent no-op with no side effects and no notification.
func (h *UpdateBookingStatusHandler) Handle(ctx context.Context, cmd UpdateBookingStatusCommand) (*domain.Booking, error) {
	// A first read resolves the artist so the transition can run under
	// that artist's lock. The locked section re-reads to observe any
	// transition that won the race.
	booking, err := h.bookings.FindByID(ctx, cmd.BookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, sharedDomain.NewNotFoundError("booking %s not found", cmd.BookingID)
	}

	var oldStatus domain.Status
	changed := false
	err = h.locks.WithLock(booking.ArtistID(), func() error {
		return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
			booking, err = h.bookings.FindByID(txCtx, cmd.BookingID)
			if err != nil {
				return err
			}
			if booking == nil {
				return sharedDomain.NewNotFoundError("booking %s not found", cmd.BookingID)
			}

			oldStatus = booking.Status()
			changed, err = booking.TransitionTo(cmd.Status)
			if err != nil {
				return err
			}
			if !changed {
				return nil
			}

			if err := h.applyCalendarEffect(txCtx, booking, oldStatus); err != nil {
				return err
			}
			return h.bookings.Save(txCtx, booking)
		})
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		return booking, nil
	}

	if err := eventbus.PublishDomainEvents(ctx, h.publisher, booking.DomainEvents()); err != nil {
		h.logger.Warn("failed to publish booking events", "booking_id", booking.ID(), "error", err)
	}
	booking.ClearDomainEvents()

	if err := h.notifier.Notify(ctx, services.Notification{
		BookingID: booking.ID(),
		ArtistID:  booking.ArtistID(),
		VenueID:   booking.VenueID(),
		EventDate: booking.EventDate(),
		OldStatus: oldStatus,
		NewStatus: booking.Status(),
	}); err != nil {
		h.logger.Warn("booking notification failed", "booking_id", booking.ID(), "error", err)
	}

	return booking, nil
}

func (h *UpdateBookingStatusHandler) applyCalendarEffect(ctx context.Context, booking *domain.Booking, oldStatus domain.Status) error {
	switch {
	case booking.Status() == domain.StatusConfirmed:
		for _, d := range booking.EventDates() {
			entry, err := availability.NewEntry(booking.ArtistID(), d, availability.StatusBooked, "")
			if err != nil {
				return err
			}
			entry.BookingID = booking.ID()
			if err := h.entries.Upsert(ctx, entry); err != nil {
				return err
			}
		}
	case oldStatus == domain.StatusConfirmed && booking.Status() == domain.StatusCancelled:
		for _, d := range booking.EventDates() {
			entry, err := h.entries.Get(ctx, booking.ArtistID(), d)
			if err != nil {
				return err
			}
			if entry == nil || !entry.OwnedBy(booking.ID()) {
				continue
			}
			reopened, err := availability.NewEntry(booking.ArtistID(), d, availability.StatusAvailable, entry.Notes)
			if err != nil {
				return err
			}
			if err := h.entries.Upsert(ctx, reopened); err != nil {
				return err
			}
		}
	}
	return nil
}
