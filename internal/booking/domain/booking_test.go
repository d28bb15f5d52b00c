package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedDomain "github.com/stagehandhq/stagehand/internal/shared/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestBooking(t *testing.T) *Booking {
	t.Helper()
	b, err := NewBooking(uuid.New(), uuid.New(), date(2026, 3, 3), time.Time{}, "")
	require.NoError(t, err)
	return b
}

func TestNewBooking(t *testing.T) {
	artistID, venueID := uuid.New(), uuid.New()
	b, err := NewBooking(artistID, venueID, date(2026, 3, 3), time.Time{}, "warehouse party")
	require.NoError(t, err)

	assert.Equal(t, StatusPending, b.Status())
	assert.Equal(t, PaymentUnpaid, b.PaymentStatus())
	assert.Equal(t, artistID, b.ArtistID())
	assert.Equal(t, venueID, b.VenueID())
	assert.Equal(t, date(2026, 3, 3), b.EventDate())
	assert.Equal(t, date(2026, 3, 3), b.EventEndDate(), "zero end date collapses to single day")

	events := b.DomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "booking.created", events[0].RoutingKey())
}

func TestNewBooking_MultiDay(t *testing.T) {
	b, err := NewBooking(uuid.New(), uuid.New(), date(2026, 3, 3), date(2026, 3, 5), "")
	require.NoError(t, err)

	dates := b.EventDates()
	require.Len(t, dates, 3)
	assert.Equal(t, date(2026, 3, 3), dates[0])
	assert.Equal(t, date(2026, 3, 5), dates[2])
}

func TestNewBooking_Invalid(t *testing.T) {
	_, err := NewBooking(uuid.Nil, uuid.New(), date(2026, 3, 3), time.Time{}, "")
	assert.True(t, sharedDomain.IsValidation(err))

	_, err = NewBooking(uuid.New(), uuid.Nil, date(2026, 3, 3), time.Time{}, "")
	assert.True(t, sharedDomain.IsValidation(err))

	_, err = NewBooking(uuid.New(), uuid.New(), date(2026, 3, 5), date(2026, 3, 3), "")
	assert.True(t, sharedDomain.IsValidation(err))
}

func TestTransitionTo_LegalMoves(t *testing.T) {
	tests := []struct {
		name string
		path []Status
	}{
		{"confirm then complete", []Status{StatusConfirmed, StatusCompleted}},
		{"confirm then cancel", []Status{StatusConfirmed, StatusCancelled}},
		{"cancel while pending", []Status{StatusCancelled}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBooking(t)
			for _, next := range tt.path {
				changed, err := b.TransitionTo(next)
				require.NoError(t, err)
				assert.True(t, changed)
				assert.Equal(t, next, b.Status())
			}
		})
	}
}

func TestTransitionTo_IllegalMoves(t *testing.T) {
	tests := []struct {
		name string
		prep []Status
		to   Status
	}{
		{"pending to completed", nil, StatusCompleted},
		{"cancelled to confirmed", []Status{StatusCancelled}, StatusConfirmed},
		{"completed to cancelled", []Status{StatusConfirmed, StatusCompleted}, StatusCancelled},
		{"unknown status", nil, Status("archived")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBooking(t)
			for _, next := range tt.prep {
				_, err := b.TransitionTo(next)
				require.NoError(t, err)
			}
			before := b.Status()

			changed, err := b.TransitionTo(tt.to)
			require.Error(t, err)
			assert.True(t, sharedDomain.IsValidation(err))
			assert.False(t, changed)
			assert.Equal(t, before, b.Status(), "failed transition must not change state")
		})
	}
}

func TestTransitionTo_SameStateIsNoOp(t *testing.T) {
	b := newTestBooking(t)
	_, err := b.TransitionTo(StatusConfirmed)
	require.NoError(t, err)
	b.ClearDomainEvents()

	changed, err := b.TransitionTo(StatusConfirmed)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, b.DomainEvents(), "re-confirm must not emit an event")
}

func TestTransitionTo_EmitsStatusChanged(t *testing.T) {
	b := newTestBooking(t)
	b.ClearDomainEvents()

	changed, err := b.TransitionTo(StatusConfirmed)
	require.NoError(t, err)
	require.True(t, changed)

	events := b.DomainEvents()
	require.Len(t, events, 1)
	evt, ok := events[0].(*BookingStatusChanged)
	require.True(t, ok)
	assert.Equal(t, StatusPending, evt.OldStatus)
	assert.Equal(t, StatusConfirmed, evt.NewStatus)
	assert.Equal(t, "booking.status.confirmed", evt.RoutingKey())
}

func TestMarkPayment(t *testing.T) {
	b := newTestBooking(t)

	require.NoError(t, b.MarkPayment(PaymentPaid))
	assert.Equal(t, PaymentPaid, b.PaymentStatus())

	err := b.MarkPayment(PaymentStatus("iou"))
	assert.True(t, sharedDomain.IsValidation(err))
}

func TestRehydrateBooking(t *testing.T) {
	id := uuid.New()
	created := time.Now().UTC().Add(-time.Hour)
	b := RehydrateBooking(id, uuid.New(), uuid.New(),
		date(2026, 3, 3), date(2026, 3, 4),
		StatusConfirmed, PaymentPaid, "two nights", created, created)

	assert.Equal(t, id, b.ID())
	assert.Equal(t, StatusConfirmed, b.Status())
	assert.Equal(t, PaymentPaid, b.PaymentStatus())
	assert.Empty(t, b.DomainEvents(), "rehydration must not emit events")
}
