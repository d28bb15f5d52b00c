// Package persistence provides the booking repository implementations.
package persistence

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/stagehandhq/stagehand/internal/booking/domain"
)

// MemoryBookingRepository is an in-memory Repository for tests.
type MemoryBookingRepository struct {
	mu       sync.RWMutex
	bookings map[uuid.UUID]*domain.Booking
	order    []uuid.UUID
}

// NewMemoryBookingRepository creates an empty in-memory repository.
func NewMemoryBookingRepository() *MemoryBookingRepository {
	return &MemoryBookingRepository{bookings: make(map[uuid.UUID]*domain.Booking)}
}

// Save persists a booking.
func (r *MemoryBookingRepository) Save(_ context.Context, booking *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.bookings[booking.ID()]; !exists {
		r.order = append(r.order, booking.ID())
	}
	r.bookings[booking.ID()] = booking
	return nil
}

// FindByID returns the booking, or nil when absent.
func (r *MemoryBookingRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bookings[id], nil
}

// ListByArtist returns the artist's bookings, oldest first.
func (r *MemoryBookingRepository) ListByArtist(_ context.Context, artistID uuid.UUID) ([]*domain.Booking, error) {
	return r.list(func(b *domain.Booking) bool { return b.ArtistID() == artistID }), nil
}

// ListByVenue returns the venue's bookings, oldest first.
func (r *MemoryBookingRepository) ListByVenue(_ context.Context, venueID uuid.UUID) ([]*domain.Booking, error) {
	return r.list(func(b *domain.Booking) bool { return b.VenueID() == venueID }), nil
}

// ListByStatus returns bookings in the given lifecycle state, oldest first.
func (r *MemoryBookingRepository) ListByStatus(_ context.Context, status domain.Status) ([]*domain.Booking, error) {
	return r.list(func(b *domain.Booking) bool { return b.Status() == status }), nil
}

func (r *MemoryBookingRepository) list(match func(*domain.Booking) bool) []*domain.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*domain.Booking
	for _, id := range r.order {
		if b := r.bookings[id]; match(b) {
			result = append(result, b)
		}
	}
	return result
}
