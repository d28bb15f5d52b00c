// Package domain holds the availability model: explicit per-date calendar
// entries and blackout blocks with recurrence rules.
package domain

import (
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/stagehandhq/stagehand/internal/shared/domain"
)

// EntryStatus is the explicit availability status of a calendar date.
type EntryStatus string

const (
	StatusAvailable   EntryStatus = "available"
	StatusBooked      EntryStatus = "booked"
	StatusUnavailable EntryStatus = "unavailable"
)

// IsValid reports whether the status is a known value.
func (s EntryStatus) IsValid() bool {
	switch s {
	case StatusAvailable, StatusBooked, StatusUnavailable:
		return true
	default:
		return false
	}
}

// Entry is the explicit availability record for one (artist, date) pair.
// Later writes overwrite earlier ones for the same key. BookingID records
// the confirmed booking that owns a booked date, so a stale cancellation
// cannot reopen a date another booking has since claimed.
type Entry struct {
	ArtistID  uuid.UUID
	Date      time.Time // normalized to midnight UTC
	Status    EntryStatus
	Notes     string
	BookingID uuid.UUID // uuid.Nil unless Status == StatusBooked
}

// NewEntry creates a validated entry with a normalized date.
func NewEntry(artistID uuid.UUID, date time.Time, status EntryStatus, notes string) (Entry, error) {
	if artistID == uuid.Nil {
		return Entry{}, sharedDomain.NewValidationError("artist id is required")
	}
	if !status.IsValid() {
		return Entry{}, sharedDomain.NewValidationError("invalid availability status %q", status)
	}
	return Entry{
		ArtistID: artistID,
		Date:     DateOnly(date),
		Status:   status,
		Notes:    notes,
	}, nil
}

// OwnedBy reports whether the entry is booked and owned by the given booking.
func (e Entry) OwnedBy(bookingID uuid.UUID) bool {
	return e.Status == StatusBooked && e.BookingID == bookingID
}

// DateOnly normalizes a time to midnight UTC, the canonical calendar-date form.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NextDay returns the day after d.
func NextDay(d time.Time) time.Time {
	return d.AddDate(0, 0, 1)
}
