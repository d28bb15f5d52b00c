package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	availability "github.com/stagehandhq/stagehand/internal/availability/domain"
	availabilityPersistence "github.com/stagehandhq/stagehand/internal/availability/infrastructure/persistence"
	"github.com/stagehandhq/stagehand/internal/booking/domain"
	"github.com/stagehandhq/stagehand/internal/booking/infrastructure/persistence"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// failingNotifier fails every delivery.
type failingNotifier struct {
	calls int
}

func (n *failingNotifier) Notify(context.Context, Notification) error {
	n.calls++
	return errors.New("smtp down")
}

func TestCircuitBreakerNotifier_OpensAfterConsecutiveFailures(t *testing.T) {
	inner := &failingNotifier{}
	notifier := NewCircuitBreakerNotifier(inner, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := notifier.Notify(ctx, Notification{BookingID: uuid.New()})
		require.Error(t, err)
	}

	err := notifier.Notify(ctx, Notification{BookingID: uuid.New()})
	require.Error(t, err)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, inner.calls, "open circuit must not reach the channel")
}

func TestReconciler_CleanCalendar(t *testing.T) {
	entries := availabilityPersistence.NewMemoryEntryRepository()
	bookings := persistence.NewMemoryBookingRepository()
	r := NewReconciler(entries, bookings, nil)
	ctx := context.Background()
	artistID := uuid.New()

	booking, err := domain.NewBooking(artistID, uuid.New(), date(2026, 3, 3), time.Time{}, "")
	require.NoError(t, err)
	_, err = booking.TransitionTo(domain.StatusConfirmed)
	require.NoError(t, err)
	require.NoError(t, bookings.Save(ctx, booking))

	entry, err := availability.NewEntry(artistID, date(2026, 3, 3), availability.StatusBooked, "")
	require.NoError(t, err)
	entry.BookingID = booking.ID()
	require.NoError(t, entries.Upsert(ctx, entry))

	drifts, err := r.CheckArtist(ctx, artistID, date(2026, 3, 1), date(2026, 3, 31))
	require.NoError(t, err)
	assert.Empty(t, drifts)
}

func TestReconciler_OrphanedEntry(t *testing.T) {
	entries := availabilityPersistence.NewMemoryEntryRepository()
	bookings := persistence.NewMemoryBookingRepository()
	r := NewReconciler(entries, bookings, nil)
	ctx := context.Background()
	artistID := uuid.New()

	entry, err := availability.NewEntry(artistID, date(2026, 3, 3), availability.StatusBooked, "")
	require.NoError(t, err)
	entry.BookingID = uuid.New()
	require.NoError(t, entries.Upsert(ctx, entry))

	drifts, err := r.CheckArtist(ctx, artistID, date(2026, 3, 1), date(2026, 3, 31))
	require.NoError(t, err)
	require.Len(t, drifts, 1)
	assert.Equal(t, DriftOrphanedEntry, drifts[0].Kind)
	assert.Equal(t, date(2026, 3, 3), drifts[0].Date)
}

func TestReconciler_MissingEntry(t *testing.T) {
	entries := availabilityPersistence.NewMemoryEntryRepository()
	bookings := persistence.NewMemoryBookingRepository()
	r := NewReconciler(entries, bookings, nil)
	ctx := context.Background()
	artistID := uuid.New()

	booking, err := domain.NewBooking(artistID, uuid.New(), date(2026, 3, 3), time.Time{}, "")
	require.NoError(t, err)
	_, err = booking.TransitionTo(domain.StatusConfirmed)
	require.NoError(t, err)
	require.NoError(t, bookings.Save(ctx, booking))

	drifts, err := r.CheckArtist(ctx, artistID, date(2026, 3, 1), date(2026, 3, 31))
	require.NoError(t, err)
	require.Len(t, drifts, 1)
	assert.Equal(t, DriftMissingEntry, drifts[0].Kind)
	assert.Equal(t, booking.ID(), drifts[0].BookingID)
}
