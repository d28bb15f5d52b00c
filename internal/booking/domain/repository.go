package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists bookings.
type Repository interface {
	// Save persists a booking.
	Save(ctx context.Context, booking *Booking) error
	// FindByID returns the booking, or nil when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	// ListByArtist returns the artist's bookings, oldest first.
	ListByArtist(ctx context.Context, artistID uuid.UUID) ([]*Booking, error)
	// ListByVenue returns the venue's bookings, oldest first.
	ListByVenue(ctx context.Context, venueID uuid.UUID) ([]*Booking, error)
	// ListByStatus returns bookings in the given lifecycle state, oldest first.
	ListByStatus(ctx context.Context, status Status) ([]*Booking, error)
}
