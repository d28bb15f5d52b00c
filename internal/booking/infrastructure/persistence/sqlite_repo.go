package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/stagehandhq/stagehand/internal/booking/domain"
	sharedPersistence "github.com/stagehandhq/stagehand/internal/shared/infrastructure/persistence"
)

const dateLayout = "2006-01-02"

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getQuerier(ctx context.Context, db *sql.DB) querier {
	if info, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		return info.Tx
	}
	return db
}

// SQLiteBookingRepository persists bookings in SQLite.
type SQLiteBookingRepository struct {
	db *sql.DB
}

// NewSQLiteBookingRepository creates a new SQLiteBookingRepository.
func NewSQLiteBookingRepository(db *sql.DB) *SQLiteBookingRepository {
	return &SQLiteBookingRepository{db: db}
}

const sqliteBookingColumns = `id, artist_id, venue_id, event_date, event_end_date,
	status, payment_status, notes, created_at, updated_at`

// Save persists a booking.
func (r *SQLiteBookingRepository) Save(ctx context.Context, booking *domain.Booking) error {
	q := getQuerier(ctx, r.db)

	_, err := q.ExecContext(ctx, `
		INSERT INTO bookings (id, artist_id, venue_id, event_date, event_end_date,
			status, payment_status, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			status = excluded.status,
			payment_status = excluded.payment_status,
			notes = excluded.notes,
			updated_at = excluded.updated_at`,
		booking.ID().String(), booking.ArtistID().String(), booking.VenueID().String(),
		booking.EventDate().Format(dateLayout), booking.EventEndDate().Format(dateLayout),
		string(booking.Status()), string(booking.PaymentStatus()), booking.Notes(),
		booking.CreatedAt().UTC().Format(time.RFC3339), booking.UpdatedAt().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// FindByID returns the booking, or nil when absent.
func (r *SQLiteBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	q := getQuerier(ctx, r.db)

	row := q.QueryRowContext(ctx,
		`SELECT `+sqliteBookingColumns+` FROM bookings WHERE id = ?`, id.String())

	booking, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return booking, nil
}

// ListByArtist returns the artist's bookings, oldest first.
func (r *SQLiteBookingRepository) ListByArtist(ctx context.Context, artistID uuid.UUID) ([]*domain.Booking, error) {
	return r.listWhere(ctx, "artist_id = ?", artistID.String())
}

// ListByVenue returns the venue's bookings, oldest first.
func (r *SQLiteBookingRepository) ListByVenue(ctx context.Context, venueID uuid.UUID) ([]*domain.Booking, error) {
	return r.listWhere(ctx, "venue_id = ?", venueID.String())
}

// ListByStatus returns bookings in the given lifecycle state, oldest first.
func (r *SQLiteBookingRepository) ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Booking, error) {
	return r.listWhere(ctx, "status = ?", string(status))
}

func (r *SQLiteBookingRepository) listWhere(ctx context.Context, where string, arg any) ([]*domain.Booking, error) {
	q := getQuerier(ctx, r.db)

	rows, err := q.QueryContext(ctx,
		`SELECT `+sqliteBookingColumns+` FROM bookings WHERE `+where+` ORDER BY created_at, id`, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var bookings []*domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		idStr, artistIDStr, venueIDStr string
		eventDateStr, eventEndDateStr  string
		status, paymentStatus, notes   string
		createdAtStr, updatedAtStr     string
	)
	if err := row.Scan(&idStr, &artistIDStr, &venueIDStr, &eventDateStr, &eventEndDateStr,
		&status, &paymentStatus, &notes, &createdAtStr, &updatedAtStr); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid booking id %q: %w", idStr, err)
	}
	artistID, err := uuid.Parse(artistIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid artist id %q: %w", artistIDStr, err)
	}
	venueID, err := uuid.Parse(venueIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid venue id %q: %w", venueIDStr, err)
	}
	eventDate, err := time.ParseInLocation(dateLayout, eventDateStr, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid event date %q: %w", eventDateStr, err)
	}
	eventEndDate, err := time.ParseInLocation(dateLayout, eventEndDateStr, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid event end date %q: %w", eventEndDateStr, err)
	}
	createdAt, err := time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", createdAtStr, err)
	}
	updatedAt, err := time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("invalid updated_at %q: %w", updatedAtStr, err)
	}

	return domain.RehydrateBooking(id, artistID, venueID, eventDate, eventEndDate,
		domain.Status(status), domain.PaymentStatus(paymentStatus), notes, createdAt, updatedAt), nil
}
