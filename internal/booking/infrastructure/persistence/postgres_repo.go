package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	availability "github.com/stagehandhq/stagehand/internal/availability/domain"
	"github.com/stagehandhq/stagehand/internal/booking/domain"
	sharedPersistence "github.com/stagehandhq/stagehand/internal/shared/infrastructure/persistence"
)

// PostgresBookingRepository persists bookings in PostgreSQL.
type PostgresBookingRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresBookingRepository creates a new PostgresBookingRepository.
func NewPostgresBookingRepository(pool *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{pool: pool}
}

const pgBookingColumns = `id, artist_id, venue_id, event_date, event_end_date,
	status, payment_status, notes, created_at, updated_at`

// Save persists a booking.
func (r *PostgresBookingRepository) Save(ctx context.Context, booking *domain.Booking) error {
	exec := sharedPersistence.Executor(ctx, r.pool)

	_, err := exec.Exec(ctx, `
		INSERT INTO bookings (id, artist_id, venue_id, event_date, event_end_date,
			status, payment_status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			payment_status = EXCLUDED.payment_status,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at`,
		booking.ID(), booking.ArtistID(), booking.VenueID(),
		booking.EventDate(), booking.EventEndDate(),
		string(booking.Status()), string(booking.PaymentStatus()), booking.Notes(),
		booking.CreatedAt(), booking.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// FindByID returns the booking, or nil when absent.
func (r *PostgresBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)

	row := exec.QueryRow(ctx, `SELECT `+pgBookingColumns+` FROM bookings WHERE id = $1`, id)

	booking, err := scanPgBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return booking, nil
}

// ListByArtist returns the artist's bookings, oldest first.
func (r *PostgresBookingRepository) ListByArtist(ctx context.Context, artistID uuid.UUID) ([]*domain.Booking, error) {
	return r.listWhere(ctx, "artist_id = $1", artistID)
}

// ListByVenue returns the venue's bookings, oldest first.
func (r *PostgresBookingRepository) ListByVenue(ctx context.Context, venueID uuid.UUID) ([]*domain.Booking, error) {
	return r.listWhere(ctx, "venue_id = $1", venueID)
}

// ListByStatus returns bookings in the given lifecycle state, oldest first.
func (r *PostgresBookingRepository) ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Booking, error) {
	return r.listWhere(ctx, "status = $1", string(status))
}

func (r *PostgresBookingRepository) listWhere(ctx context.Context, where string, arg any) ([]*domain.Booking, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)

	rows, err := exec.Query(ctx,
		`SELECT `+pgBookingColumns+` FROM bookings WHERE `+where+` ORDER BY created_at, id`, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		booking, err := scanPgBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

func scanPgBooking(row pgx.Row) (*domain.Booking, error) {
	var (
		id, artistID, venueID        uuid.UUID
		eventDate, eventEndDate      time.Time
		status, paymentStatus, notes string
		createdAt, updatedAt         time.Time
	)
	if err := row.Scan(&id, &artistID, &venueID, &eventDate, &eventEndDate,
		&status, &paymentStatus, &notes, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	return domain.RehydrateBooking(id, artistID, venueID,
		availability.DateOnly(eventDate), availability.DateOnly(eventEndDate),
		domain.Status(status), domain.PaymentStatus(paymentStatus), notes, createdAt, updatedAt), nil
}
