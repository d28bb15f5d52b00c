// Package commands holds the venue-facing booking write operations.
package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	availabilityServices "github.com/stagehandhq/stagehand/internal/availability/application/services"
	"github.com/stagehandhq/stagehand/internal/booking/application/services"
	"github.com/stagehandhq/stagehand/internal/booking/domain"
	sharedApplication "github.com/stagehandhq/stagehand/internal/shared/application"
	sharedDomain "github.com/stagehandhq/stagehand/internal/shared/domain"
	"github.com/stagehandhq/stagehand/internal/shared/infrastructure/eventbus"
	"github.com/stagehandhq/stagehand/internal/shared/infrastructure/locking"
)

// CreateBookingCommand requests a new booking for an artist. A zero
// EventEndDate means a single-day booking.
type CreateBookingCommand struct {
	ArtistID     uuid.UUID
	VenueID      uuid.UUID
	EventDate    time.Time
	EventEndDate time.Time
	Notes        string
}

// CreateBookingHandler admits bookings against the artist's calendar. The
// admission check and the insert run under the artist's lock so a
// concurrent request for the same date cannot slip between them.
type CreateBookingHandler struct {
	bookings  domain.Repository
	checker   *availabilityServices.ConflictChecker
	locks     *locking.ArtistLocks
	uow       sharedApplication.UnitOfWork
	publisher eventbus.Publisher
	notifier  services.Notifier
	logger    *slog.Logger
}

// NewCreateBookingHandler creates a new CreateBookingHandler.
func NewCreateBookingHandler(
	bookings domain.Repository,
	checker *availabilityServices.ConflictChecker,
	locks *locking.ArtistLocks,
	uow sharedApplication.UnitOfWork,
	publisher eventbus.Publisher,
	notifier services.Notifier,
	logger *slog.Logger,
) *CreateBookingHandler {
	if notifier == nil {
		notifier = services.NewLogNotifier(logger)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CreateBookingHandler{
		bookings:  bookings,
		checker:   checker,
		locks:     locks,
		uow:       uow,
		publisher: publisher,
		notifier:  notifier,
		logger:    logger,
	}
}

// Handle admits and persists a pending booking. An inadmissible date range
// fails with a conflict error and leaves the calendar untouched.
func (h *CreateBookingHandler) Handle(ctx context.Context, cmd CreateBookingCommand) (*domain.Booking, error) {
	booking, err := domain.NewBooking(cmd.ArtistID, cmd.VenueID, cmd.EventDate, cmd.EventEndDate, cmd.Notes)
	if err != nil {
		return nil, err
	}

	err = h.locks.WithLock(cmd.ArtistID, func() error {
		return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
			ok, err := h.checker.CanBook(txCtx, booking.ArtistID(), booking.EventDate(), booking.EventEndDate())
			if err != nil {
				return err
			}
			if !ok {
				return sharedDomain.NewConflictError("artist %s is not available between %s and %s",
					booking.ArtistID(),
					booking.EventDate().Format("2006-01-02"),
					booking.EventEndDate().Format("2006-01-02"))
			}
			return h.bookings.Save(txCtx, booking)
		})
	})
	if err != nil {
		return nil, err
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
		NewStatus: booking.Status(),
	}); err != nil {
		h.logger.Warn("booking notification failed", "booking_id", booking.ID(), "error", err)
	}

	return booking, nil
}
