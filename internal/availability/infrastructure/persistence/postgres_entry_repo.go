package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stagehandhq/stagehand/internal/availability/domain"
	sharedPersistence "github.com/stagehandhq/stagehand/internal/shared/infrastructure/persistence"
)

// PostgresEntryRepository persists availability entries in PostgreSQL.
type PostgresEntryRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresEntryRepository creates a new PostgresEntryRepository.
func NewPostgresEntryRepository(pool *pgxpool.Pool) *PostgresEntryRepository {
	return &PostgresEntryRepository{pool: pool}
}

// Get returns the entry for (artistID, date), or nil when absent.
func (r *PostgresEntryRepository) Get(ctx context.Context, artistID uuid.UUID, date time.Time) (*domain.Entry, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)

	row := exec.QueryRow(ctx, `
		SELECT artist_id, entry_date, status, notes, booking_id
		FROM availability_entries
		WHERE artist_id = $1 AND entry_date = $2`,
		artistID, domain.DateOnly(date))

	entry, err := scanPgEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get availability entry: %w", err)
	}
	return entry, nil
}

// Upsert writes the entry, overwriting any existing one for the same key.
func (r *PostgresEntryRepository) Upsert(ctx context.Context, entry domain.Entry) error {
	exec := sharedPersistence.Executor(ctx, r.pool)

	var bookingID *uuid.UUID
	if entry.BookingID != uuid.Nil {
		bookingID = &entry.BookingID
	}

	_, err := exec.Exec(ctx, `
		INSERT INTO availability_entries (artist_id, entry_date, status, notes, booking_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		ON CONFLICT (artist_id, entry_date) DO UPDATE SET
			status = EXCLUDED.status,
			notes = EXCLUDED.notes,
			booking_id = EXCLUDED.booking_id,
			updated_at = now()`,
		entry.ArtistID, entry.Date, string(entry.Status), entry.Notes, bookingID)
	if err != nil {
		return fmt.Errorf("failed to upsert availability entry: %w", err)
	}
	return nil
}

// QueryRange returns entries for the artist within [start, end], ordered by date.
func (r *PostgresEntryRepository) QueryRange(ctx context.Context, artistID uuid.UUID, start, end time.Time) ([]domain.Entry, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)

	rows, err := exec.Query(ctx, `
		SELECT artist_id, entry_date, status, notes, booking_id
		FROM availability_entries
		WHERE artist_id = $1 AND entry_date >= $2 AND entry_date <= $3
		ORDER BY entry_date`,
		artistID, domain.DateOnly(start), domain.DateOnly(end))
	if err != nil {
		return nil, fmt.Errorf("failed to query availability entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		entry, err := scanPgEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan availability entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

// Delete removes the entry for (artistID, date). Missing entries are not an error.
func (r *PostgresEntryRepository) Delete(ctx context.Context, artistID uuid.UUID, date time.Time) error {
	exec := sharedPersistence.Executor(ctx, r.pool)

	_, err := exec.Exec(ctx, `
		DELETE FROM availability_entries
		WHERE artist_id = $1 AND entry_date = $2`,
		artistID, domain.DateOnly(date))
	if err != nil {
		return fmt.Errorf("failed to delete availability entry: %w", err)
	}
	return nil
}

func scanPgEntry(row pgx.Row) (*domain.Entry, error) {
	var (
		artistID  uuid.UUID
		date      time.Time
		status    string
		notes     string
		bookingID *uuid.UUID
	)
	if err := row.Scan(&artistID, &date, &status, &notes, &bookingID); err != nil {
		return nil, err
	}

	entry := domain.Entry{
		ArtistID: artistID,
		Date:     domain.DateOnly(date),
		Status:   domain.EntryStatus(status),
		Notes:    notes,
	}
	if bookingID != nil {
		entry.BookingID = *bookingID
	}
	return &entry, nil
}
