package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/stagehandhq/stagehand/internal/booking/domain"
	"github.com/stagehandhq/stagehand/internal/shared/infrastructure/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.RunSQLiteMigrations(context.Background(), db))
	return db
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSQLiteBookingRepository_SaveAndFind(t *testing.T) {
	repo := NewSQLiteBookingRepository(setupTestDB(t))
	ctx := context.Background()

	booking, err := domain.NewBooking(uuid.New(), uuid.New(), day(2026, 3, 3), day(2026, 3, 4), "two nights")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, booking))

	stored, err := repo.FindByID(ctx, booking.ID())
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, booking.ID(), stored.ID())
	assert.Equal(t, domain.StatusPending, stored.Status())
	assert.Equal(t, domain.PaymentUnpaid, stored.PaymentStatus())
	assert.Equal(t, day(2026, 3, 3), stored.EventDate())
	assert.Equal(t, day(2026, 3, 4), stored.EventEndDate())
	assert.Equal(t, "two nights", stored.Notes())
}

func TestSQLiteBookingRepository_FindMissing(t *testing.T) {
	repo := NewSQLiteBookingRepository(setupTestDB(t))

	stored, err := repo.FindByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestSQLiteBookingRepository_SaveUpdatesStatus(t *testing.T) {
	repo := NewSQLiteBookingRepository(setupTestDB(t))
	ctx := context.Background()

	booking, err := domain.NewBooking(uuid.New(), uuid.New(), day(2026, 3, 3), time.Time{}, "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, booking))

	_, err = booking.TransitionTo(domain.StatusConfirmed)
	require.NoError(t, err)
	require.NoError(t, booking.MarkPayment(domain.PaymentPaid))
	require.NoError(t, repo.Save(ctx, booking))

	stored, err := repo.FindByID(ctx, booking.ID())
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, domain.StatusConfirmed, stored.Status())
	assert.Equal(t, domain.PaymentPaid, stored.PaymentStatus())
}

func TestSQLiteBookingRepository_Lists(t *testing.T) {
	repo := NewSQLiteBookingRepository(setupTestDB(t))
	ctx := context.Background()
	artistID, venueID := uuid.New(), uuid.New()

	first, err := domain.NewBooking(artistID, venueID, day(2026, 3, 3), time.Time{}, "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	second, err := domain.NewBooking(artistID, uuid.New(), day(2026, 3, 10), time.Time{}, "")
	require.NoError(t, err)
	_, err = second.TransitionTo(domain.StatusConfirmed)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, second))

	byArtist, err := repo.ListByArtist(ctx, artistID)
	require.NoError(t, err)
	assert.Len(t, byArtist, 2)

	byVenue, err := repo.ListByVenue(ctx, venueID)
	require.NoError(t, err)
	require.Len(t, byVenue, 1)
	assert.Equal(t, first.ID(), byVenue[0].ID())

	confirmed, err := repo.ListByStatus(ctx, domain.StatusConfirmed)
	require.NoError(t, err)
	require.Len(t, confirmed, 1)
	assert.Equal(t, second.ID(), confirmed[0].ID())
}
