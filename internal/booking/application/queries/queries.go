// Package queries holds the read side of the booking surface.
package queries

import (
	"context"

	"github.com/google/uuid"

	"github.com/stagehandhq/stagehand/internal/booking/domain"
	sharedDomain "github.com/stagehandhq/stagehand/internal/shared/domain"
)

// GetBookingQuery requests one booking by id.
type GetBookingQuery struct {
	BookingID uuid.UUID
}

// GetBookingHandler handles the GetBookingQuery.
type GetBookingHandler struct {
	bookings domain.Repository
}

// NewGetBookingHandler creates a new GetBookingHandler.
func NewGetBookingHandler(bookings domain.Repository) *GetBookingHandler {
	return &GetBookingHandler{bookings: bookings}
}

// Handle returns the booking or a not-found error.
func (h *GetBookingHandler) Handle(ctx context.Context, q GetBookingQuery) (*domain.Booking, error) {
	booking, err := h.bookings.FindByID(ctx, q.BookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, sharedDomain.NewNotFoundError("booking %s not found", q.BookingID)
	}
	return booking, nil
}

// ListBookingsQuery requests bookings for an artist or a venue. Exactly one
// of the two ids should be set; when both are, the artist filter wins.
type ListBookingsQuery struct {
	ArtistID uuid.UUID
	VenueID  uuid.UUID
}

// ListBookingsHandler handles the ListBookingsQuery.
type ListBookingsHandler struct {
	bookings domain.Repository
}

// NewListBookingsHandler creates a new ListBookingsHandler.
func NewListBookingsHandler(bookings domain.Repository) *ListBookingsHandler {
	return &ListBookingsHandler{bookings: bookings}
}

// Handle returns the matching bookings, oldest first.
func (h *ListBookingsHandler) Handle(ctx context.Context, q ListBookingsQuery) ([]*domain.Booking, error) {
	switch {
	case q.ArtistID != uuid.Nil:
		return h.bookings.ListByArtist(ctx, q.ArtistID)
	case q.VenueID != uuid.Nil:
		return h.bookings.ListByVenue(ctx, q.VenueID)
	default:
		return nil, sharedDomain.NewValidationError("artist id or venue id is required")
	}
}
