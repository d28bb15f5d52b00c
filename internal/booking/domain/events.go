package domain

import (
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/stagehandhq/stagehand/internal/shared/domain"
)

const aggregateTypeBooking = "booking"

// BookingCreated is emitted when a venue's request is admitted as pending.
type BookingCreated struct {
	sharedDomain.BaseEvent
	ArtistID     uuid.UUID `json:"artist_id"`
	VenueID      uuid.UUID `json:"venue_id"`
	EventDate    time.Time `json:"event_date"`
	EventEndDate time.Time `json:"event_end_date"`
}

// NewBookingCreated creates a BookingCreated event.
func NewBookingCreated(b *Booking) *BookingCreated {
	return &BookingCreated{
		BaseEvent:    sharedDomain.NewBaseEvent(b.ID(), aggregateTypeBooking, "booking.created"),
		ArtistID:     b.ArtistID(),
		VenueID:      b.VenueID(),
		EventDate:    b.EventDate(),
		EventEndDate: b.EventEndDate(),
	}
}

// BookingStatusChanged is emitted on every actual lifecycle transition.
type BookingStatusChanged struct {
	sharedDomain.BaseEvent
	ArtistID  uuid.UUID `json:"artist_id"`
	VenueID   uuid.UUID `json:"venue_id"`
	OldStatus Status    `json:"old_status"`
	NewStatus Status    `json:"new_status"`
}

// NewBookingStatusChanged creates a BookingStatusChanged event.
func NewBookingStatusChanged(b *Booking, oldStatus, newStatus Status) *BookingStatusChanged {
	return &BookingStatusChanged{
		BaseEvent: sharedDomain.NewBaseEvent(b.ID(), aggregateTypeBooking, "booking.status."+string(newStatus)),
		ArtistID:  b.ArtistID(),
		VenueID:   b.VenueID(),
		OldStatus: oldStatus,
		NewStatus: newStatus,
	}
}
