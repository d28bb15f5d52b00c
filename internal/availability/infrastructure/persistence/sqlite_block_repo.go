package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stagehandhq/stagehand/internal/availability/domain"
)

// SQLiteBlockRepository persists availability blocks in SQLite.
type SQLiteBlockRepository struct {
	db *sql.DB
}

// NewSQLiteBlockRepository creates a new SQLiteBlockRepository.
func NewSQLiteBlockRepository(db *sql.DB) *SQLiteBlockRepository {
	return &SQLiteBlockRepository{db: db}
}

// Save persists a block.
func (r *SQLiteBlockRepository) Save(ctx context.Context, block *domain.Block) error {
	q := getQuerier(ctx, r.db)

	var pattern, recurEnd, recurDays any
	if rec := block.Recurrence(); rec != nil {
		pattern = string(rec.Pattern)
		if rec.EndDate != nil {
			recurEnd = rec.EndDate.Format(dateLayout)
		}
		if len(rec.DaysOfWeek) > 0 {
			recurDays = encodeWeekdays(rec.DaysOfWeek)
		}
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO availability_blocks (id, artist_id, start_date, end_date, reason,
			recur_pattern, recur_end_date, recur_days, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			reason = excluded.reason,
			recur_pattern = excluded.recur_pattern,
			recur_end_date = excluded.recur_end_date,
			recur_days = excluded.recur_days,
			updated_at = excluded.updated_at`,
		block.ID().String(), block.ArtistID().String(),
		block.StartDate().Format(dateLayout), block.EndDate().Format(dateLayout),
		block.Reason(), pattern, recurEnd, recurDays,
		block.CreatedAt().UTC().Format(time.RFC3339), block.UpdatedAt().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save availability block: %w", err)
	}
	return nil
}

// FindByID returns the artist's block, or nil when absent.
func (r *SQLiteBlockRepository) FindByID(ctx context.Context, artistID, blockID uuid.UUID) (*domain.Block, error) {
	q := getQuerier(ctx, r.db)

	row := q.QueryRowContext(ctx, `
		SELECT id, artist_id, start_date, end_date, reason,
			recur_pattern, recur_end_date, recur_days, created_at, updated_at
		FROM availability_blocks
		WHERE id = ? AND artist_id = ?`,
		blockID.String(), artistID.String())

	block, err := scanBlock(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find availability block: %w", err)
	}
	return block, nil
}

// ListByArtist returns all blocks for the artist, oldest first.
func (r *SQLiteBlockRepository) ListByArtist(ctx context.Context, artistID uuid.UUID) ([]*domain.Block, error) {
	q := getQuerier(ctx, r.db)

	rows, err := q.QueryContext(ctx, `
		SELECT id, artist_id, start_date, end_date, reason,
			recur_pattern, recur_end_date, recur_days, created_at, updated_at
		FROM availability_blocks
		WHERE artist_id = ?
		ORDER BY created_at, id`,
		artistID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list availability blocks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var blocks []*domain.Block
	for rows.Next() {
		block, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan availability block: %w", err)
		}
		blocks = append(blocks, block)
	}
	return blocks, rows.Err()
}

// Delete removes the artist's block, reporting whether it existed.
func (r *SQLiteBlockRepository) Delete(ctx context.Context, artistID, blockID uuid.UUID) (bool, error) {
	q := getQuerier(ctx, r.db)

	result, err := q.ExecContext(ctx, `
		DELETE FROM availability_blocks
		WHERE id = ? AND artist_id = ?`,
		blockID.String(), artistID.String())
	if err != nil {
		return false, fmt.Errorf("failed to delete availability block: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func scanBlock(row rowScanner) (*domain.Block, error) {
	var (
		idStr, artistIDStr         string
		startStr, endStr           string
		reason                     string
		pattern, recurEnd          sql.NullString
		recurDays                  sql.NullString
		createdAtStr, updatedAtStr string
	)
	if err := row.Scan(&idStr, &artistIDStr, &startStr, &endStr, &reason,
		&pattern, &recurEnd, &recurDays, &createdAtStr, &updatedAtStr); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid block id %q: %w", idStr, err)
	}
	artistID, err := uuid.Parse(artistIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid artist id %q: %w", artistIDStr, err)
	}
	start, err := time.ParseInLocation(dateLayout, startStr, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", startStr, err)
	}
	end, err := time.ParseInLocation(dateLayout, endStr, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", endStr, err)
	}
	createdAt, err := time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", createdAtStr, err)
	}
	updatedAt, err := time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("invalid updated_at %q: %w", updatedAtStr, err)
	}

	var recurrence *domain.Recurrence
	if pattern.Valid {
		recurrence = &domain.Recurrence{Pattern: domain.RecurrencePattern(pattern.String)}
		if recurEnd.Valid {
			recEnd, err := time.ParseInLocation(dateLayout, recurEnd.String, time.UTC)
			if err != nil {
				return nil, fmt.Errorf("invalid recurrence end date %q: %w", recurEnd.String, err)
			}
			recurrence.EndDate = &recEnd
		}
		if recurDays.Valid && recurDays.String != "" {
			days, err := decodeWeekdays(recurDays.String)
			if err != nil {
				return nil, err
			}
			recurrence.DaysOfWeek = days
		}
	}

	return domain.RehydrateBlock(id, artistID, start, end, reason, recurrence, createdAt, updatedAt), nil
}

func encodeWeekdays(days []time.Weekday) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(int(d))
	}
	return strings.Join(parts, ",")
}

func decodeWeekdays(s string) ([]time.Weekday, error) {
	parts := strings.Split(s, ",")
	days := make([]time.Weekday, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid weekday %q: %w", p, err)
		}
		days = append(days, time.Weekday(n))
	}
	return days, nil
}
