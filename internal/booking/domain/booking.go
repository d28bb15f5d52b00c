// Package domain holds the booking lifecycle model.
package domain

import (
	"time"

	"github.com/google/uuid"

	availability "github.com/stagehandhq/stagehand/internal/availability/domain"
	sharedDomain "github.com/stagehandhq/stagehand/internal/shared/domain"
)

// Status is a booking lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// IsValid reports whether the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// PaymentStatus tracks the money side of a booking independently of its
// lifecycle state.
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// validTransitions is the booking state machine. Absent pairs are invalid.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
}

// CanTransition reports whether from -> to is a legal lifecycle move.
func CanTransition(from, to Status) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Booking is a venue's request for an artist on a date range. Single-day
// bookings have EventEndDate equal to EventDate.
type Booking struct {
	sharedDomain.BaseAggregateRoot
	artistID      uuid.UUID
	venueID       uuid.UUID
	eventDate     time.Time
	eventEndDate  time.Time
	status        Status
	paymentStatus PaymentStatus
	notes         string
}

// NewBooking creates a pending booking and records a BookingCreated event.
// Admission against the artist's calendar is the caller's responsibility.
func NewBooking(artistID, venueID uuid.UUID, eventDate, eventEndDate time.Time, notes string) (*Booking, error) {
	if artistID == uuid.Nil {
		return nil, sharedDomain.NewValidationError("artist id is required")
	}
	if venueID == uuid.Nil {
		return nil, sharedDomain.NewValidationError("venue id is required")
	}

	eventDate = availability.DateOnly(eventDate)
	if eventEndDate.IsZero() {
		eventEndDate = eventDate
	} else {
		eventEndDate = availability.DateOnly(eventEndDate)
	}
	if eventEndDate.Before(eventDate) {
		return nil, sharedDomain.NewValidationError("event end date %s before event date %s",
			eventEndDate.Format("2006-01-02"), eventDate.Format("2006-01-02"))
	}

	b := &Booking{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		artistID:          artistID,
		venueID:           venueID,
		eventDate:         eventDate,
		eventEndDate:      eventEndDate,
		status:            StatusPending,
		paymentStatus:     PaymentUnpaid,
		notes:             notes,
	}
	b.AddDomainEvent(NewBookingCreated(b))
	return b, nil
}

// Getters
func (b *Booking) ArtistID() uuid.UUID          { return b.artistID }
func (b *Booking) VenueID() uuid.UUID           { return b.venueID }
func (b *Booking) EventDate() time.Time         { return b.eventDate }
func (b *Booking) EventEndDate() time.Time      { return b.eventEndDate }
func (b *Booking) Status() Status               { return b.status }
func (b *Booking) PaymentStatus() PaymentStatus { return b.paymentStatus }
func (b *Booking) Notes() string                { return b.notes }

// EventDates returns every calendar date the booking spans, in order.
func (b *Booking) EventDates() []time.Time {
	var dates []time.Time
	for d := b.eventDate; !d.After(b.eventEndDate); d = availability.NextDay(d) {
		dates = append(dates, d)
	}
	return dates
}

// TransitionTo moves the booking to a new lifecycle state. Moving to the
// current state is a no-op reported via changed=false, so re-confirming an
// already-confirmed booking has no side effects. Illegal moves fail with a
// validation error.
func (b *Booking) TransitionTo(newStatus Status) (changed bool, err error) {
	if !newStatus.IsValid() {
		return false, sharedDomain.NewValidationError("invalid booking status %q", newStatus)
	}
	if newStatus == b.status {
		return false, nil
	}
	if !CanTransition(b.status, newStatus) {
		return false, sharedDomain.NewValidationError("invalid booking transition %s -> %s", b.status, newStatus)
	}

	oldStatus := b.status
	b.status = newStatus
	b.Touch()
	b.AddDomainEvent(NewBookingStatusChanged(b, oldStatus, newStatus))
	return true, nil
}

// MarkPayment updates the payment status.
func (b *Booking) MarkPayment(status PaymentStatus) error {
	switch status {
	case PaymentUnpaid, PaymentPaid, PaymentRefunded:
		b.paymentStatus = status
		b.Touch()
		return nil
	default:
		return sharedDomain.NewValidationError("invalid payment status %q", status)
	}
}

// RehydrateBooking recreates a booking from persisted state.
func RehydrateBooking(
	id uuid.UUID,
	artistID, venueID uuid.UUID,
	eventDate, eventEndDate time.Time,
	status Status,
	paymentStatus PaymentStatus,
	notes string,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)),
		artistID:      artistID,
		venueID:       venueID,
		eventDate:     availability.DateOnly(eventDate),
		eventEndDate:  availability.DateOnly(eventEndDate),
		status:        status,
		paymentStatus: paymentStatus,
		notes:         notes,
	}
}
