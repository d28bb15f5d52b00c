package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/stagehandhq/stagehand/internal/availability/domain"
)

// SQLiteEntryRepository persists availability entries in SQLite.
type SQLiteEntryRepository struct {
	db *sql.DB
}

// NewSQLiteEntryRepository creates a new SQLiteEntryRepository.
func NewSQLiteEntryRepository(db *sql.DB) *SQLiteEntryRepository {
	return &SQLiteEntryRepository{db: db}
}

// Get returns the entry for (artistID, date), or nil when absent.
func (r *SQLiteEntryRepository) Get(ctx context.Context, artistID uuid.UUID, date time.Time) (*domain.Entry, error) {
	q := getQuerier(ctx, r.db)

	row := q.QueryRowContext(ctx, `
		SELECT artist_id, entry_date, status, notes, booking_id
		FROM availability_entries
		WHERE artist_id = ? AND entry_date = ?`,
		artistID.String(), domain.DateOnly(date).Format(dateLayout))

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get availability entry: %w", err)
	}
	return entry, nil
}

// Upsert writes the entry, overwriting any existing one for the same key.
func (r *SQLiteEntryRepository) Upsert(ctx context.Context, entry domain.Entry) error {
	q := getQuerier(ctx, r.db)

	var bookingID any
	if entry.BookingID != uuid.Nil {
		bookingID = entry.BookingID.String()
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := q.ExecContext(ctx, `
		INSERT INTO availability_entries (artist_id, entry_date, status, notes, booking_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (artist_id, entry_date) DO UPDATE SET
			status = excluded.status,
			notes = excluded.notes,
			booking_id = excluded.booking_id,
			updated_at = excluded.updated_at`,
		entry.ArtistID.String(), entry.Date.Format(dateLayout), string(entry.Status),
		entry.Notes, bookingID, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert availability entry: %w", err)
	}
	return nil
}

// QueryRange returns entries for the artist within [start, end], ordered by date.
func (r *SQLiteEntryRepository) QueryRange(ctx context.Context, artistID uuid.UUID, start, end time.Time) ([]domain.Entry, error) {
	q := getQuerier(ctx, r.db)

	rows, err := q.QueryContext(ctx, `
		SELECT artist_id, entry_date, status, notes, booking_id
		FROM availability_entries
		WHERE artist_id = ? AND entry_date >= ? AND entry_date <= ?
		ORDER BY entry_date`,
		artistID.String(),
		domain.DateOnly(start).Format(dateLayout),
		domain.DateOnly(end).Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to query availability entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []domain.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan availability entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

// Delete removes the entry for (artistID, date). Missing entries are not an error.
func (r *SQLiteEntryRepository) Delete(ctx context.Context, artistID uuid.UUID, date time.Time) error {
	q := getQuerier(ctx, r.db)

	_, err := q.ExecContext(ctx, `
		DELETE FROM availability_entries
		WHERE artist_id = ? AND entry_date = ?`,
		artistID.String(), domain.DateOnly(date).Format(dateLayout))
	if err != nil {
		return fmt.Errorf("failed to delete availability entry: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*domain.Entry, error) {
	var (
		artistIDStr  string
		dateStr      string
		status       string
		notes        string
		bookingIDStr sql.NullString
	)
	if err := row.Scan(&artistIDStr, &dateStr, &status, &notes, &bookingIDStr); err != nil {
		return nil, err
	}

	artistID, err := uuid.Parse(artistIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid artist id %q: %w", artistIDStr, err)
	}
	date, err := time.ParseInLocation(dateLayout, dateStr, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid entry date %q: %w", dateStr, err)
	}

	entry := domain.Entry{
		ArtistID: artistID,
		Date:     date,
		Status:   domain.EntryStatus(status),
		Notes:    notes,
	}
	if bookingIDStr.Valid {
		bookingID, err := uuid.Parse(bookingIDStr.String)
		if err != nil {
			return nil, fmt.Errorf("invalid booking id %q: %w", bookingIDStr.String, err)
		}
		entry.BookingID = bookingID
	}
	return &entry, nil
}
