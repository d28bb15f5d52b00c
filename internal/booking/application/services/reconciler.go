package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	availability "github.com/stagehandhq/stagehand/internal/availability/domain"
	"github.com/stagehandhq/stagehand/internal/booking/domain"
	sharedDomain "github.com/stagehandhq/stagehand/internal/shared/domain"
)

// DriftKind classifies a calendar/booking mismatch.
type DriftKind string

const (
	// DriftOrphanedEntry is a booked calendar date with no confirmed
	// booking that owns it.
	DriftOrphanedEntry DriftKind = "orphaned_entry"
	// DriftMissingEntry is a confirmed booking date the calendar does not
	// mark as booked.
	DriftMissingEntry DriftKind = "missing_entry"
)

// Drift is one detected mismatch between the calendar and the bookings.
type Drift struct {
	Kind      DriftKind
	ArtistID  uuid.UUID
	Date      time.Time
	BookingID uuid.UUID // owning or expected booking, uuid.Nil when unknown
}

// Reconciler detects drift between booked calendar entries and the set of
// confirmed bookings. It only reports; repairs are an operator decision.
type Reconciler struct {
	entries  availability.EntryRepository
	bookings domain.Repository
	logger   *slog.Logger
}

// NewReconciler creates a Reconciler.
func NewReconciler(entries availability.EntryRepository, bookings domain.Repository, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{entries: entries, bookings: bookings, logger: logger}
}

// CheckArtist compares the artist's calendar window against their confirmed
// bookings and returns every mismatch found.
func (r *Reconciler) CheckArtist(ctx context.Context, artistID uuid.UUID, start, end time.Time) ([]Drift, error) {
	start = availability.DateOnly(start)
	end = availability.DateOnly(end)
	if end.Before(start) {
		return nil, sharedDomain.NewValidationError("end date before start date")
	}

	entries, err := r.entries.QueryRange(ctx, artistID, start, end)
	if err != nil {
		return nil, err
	}
	bookings, err := r.bookings.ListByArtist(ctx, artistID)
	if err != nil {
		return nil, err
	}

	// Confirmed booking dates inside the window, keyed by date.
	confirmed := make(map[time.Time]uuid.UUID)
	for _, b := range bookings {
		if b.Status() != domain.StatusConfirmed {
			continue
		}
		for _, d := range b.EventDates() {
			if d.Before(start) || d.After(end) {
				continue
			}
			confirmed[d] = b.ID()
		}
	}

	var drifts []Drift
	seen := make(map[time.Time]bool)
	for _, entry := range entries {
		seen[entry.Date] = true
		if entry.Status != availability.StatusBooked {
			continue
		}
		if owner, ok := confirmed[entry.Date]; !ok || (entry.BookingID != uuid.Nil && entry.BookingID != owner) {
			drifts = append(drifts, Drift{
				Kind:      DriftOrphanedEntry,
				ArtistID:  artistID,
				Date:      entry.Date,
				BookingID: entry.BookingID,
			})
		}
	}
	for d := start; !d.After(end); d = availability.NextDay(d) {
		owner, ok := confirmed[d]
		if !ok {
			continue
		}
		if !seen[d] {
			drifts = append(drifts, Drift{Kind: DriftMissingEntry, ArtistID: artistID, Date: d, BookingID: owner})
			continue
		}
		for _, entry := range entries {
			if entry.Date.Equal(d) && entry.Status != availability.StatusBooked {
				drifts = append(drifts, Drift{Kind: DriftMissingEntry, ArtistID: artistID, Date: d, BookingID: owner})
			}
		}
	}

	for _, drift := range drifts {
		r.logger.Warn("calendar drift detected",
			"kind", string(drift.Kind),
			"artist_id", drift.ArtistID,
			"date", drift.Date.Format("2006-01-02"),
			"booking_id", drift.BookingID,
		)
	}
	return drifts, nil
}
