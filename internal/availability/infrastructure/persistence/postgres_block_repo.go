package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"github.com/stagehandhq/stagehand/internal/availability/domain"
	sharedPersistence "github.com/stagehandhq/stagehand/internal/shared/infrastructure/persistence"
)

// PostgresBlockRepository persists availability blocks in PostgreSQL.
type PostgresBlockRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresBlockRepository creates a new PostgresBlockRepository.
func NewPostgresBlockRepository(pool *pgxpool.Pool) *PostgresBlockRepository {
	return &PostgresBlockRepository{pool: pool}
}

// Save persists a block.
func (r *PostgresBlockRepository) Save(ctx context.Context, block *domain.Block) error {
	exec := sharedPersistence.Executor(ctx, r.pool)

	var pattern *string
	var recurEnd *time.Time
	var recurDays []int64
	if rec := block.Recurrence(); rec != nil {
		p := string(rec.Pattern)
		pattern = &p
		recurEnd = rec.EndDate
		for _, d := range rec.DaysOfWeek {
			recurDays = append(recurDays, int64(d))
		}
	}

	_, err := exec.Exec(ctx, `
		INSERT INTO availability_blocks (id, artist_id, start_date, end_date, reason,
			recur_pattern, recur_end_date, recur_days, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			reason = EXCLUDED.reason,
			recur_pattern = EXCLUDED.recur_pattern,
			recur_end_date = EXCLUDED.recur_end_date,
			recur_days = EXCLUDED.recur_days,
			updated_at = EXCLUDED.updated_at`,
		block.ID(), block.ArtistID(), block.StartDate(), block.EndDate(), block.Reason(),
		pattern, recurEnd, pq.Array(recurDays), block.CreatedAt(), block.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to save availability block: %w", err)
	}
	return nil
}

// FindByID returns the artist's block, or nil when absent.
func (r *PostgresBlockRepository) FindByID(ctx context.Context, artistID, blockID uuid.UUID) (*domain.Block, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)

	row := exec.QueryRow(ctx, `
		SELECT id, artist_id, start_date, end_date, reason,
			recur_pattern, recur_end_date, recur_days, created_at, updated_at
		FROM availability_blocks
		WHERE id = $1 AND artist_id = $2`,
		blockID, artistID)

	block, err := scanPgBlock(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find availability block: %w", err)
	}
	return block, nil
}

// ListByArtist returns all blocks for the artist, oldest first.
func (r *PostgresBlockRepository) ListByArtist(ctx context.Context, artistID uuid.UUID) ([]*domain.Block, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)

	rows, err := exec.Query(ctx, `
		SELECT id, artist_id, start_date, end_date, reason,
			recur_pattern, recur_end_date, recur_days, created_at, updated_at
		FROM availability_blocks
		WHERE artist_id = $1
		ORDER BY created_at, id`,
		artistID)
	if err != nil {
		return nil, fmt.Errorf("failed to list availability blocks: %w", err)
	}
	defer rows.Close()

	var blocks []*domain.Block
	for rows.Next() {
		block, err := scanPgBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan availability block: %w", err)
		}
		blocks = append(blocks, block)
	}
	return blocks, rows.Err()
}

// Delete removes the artist's block, reporting whether it existed.
func (r *PostgresBlockRepository) Delete(ctx context.Context, artistID, blockID uuid.UUID) (bool, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)

	tag, err := exec.Exec(ctx, `
		DELETE FROM availability_blocks
		WHERE id = $1 AND artist_id = $2`,
		blockID, artistID)
	if err != nil {
		return false, fmt.Errorf("failed to delete availability block: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanPgBlock(row pgx.Row) (*domain.Block, error) {
	var (
		id, artistID         uuid.UUID
		start, end           time.Time
		reason               string
		pattern              *string
		recurEnd             *time.Time
		recurDays            []int64
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &artistID, &start, &end, &reason,
		&pattern, &recurEnd, pq.Array(&recurDays), &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var recurrence *domain.Recurrence
	if pattern != nil {
		recurrence = &domain.Recurrence{Pattern: domain.RecurrencePattern(*pattern)}
		if recurEnd != nil {
			recEnd := domain.DateOnly(*recurEnd)
			recurrence.EndDate = &recEnd
		}
		for _, d := range recurDays {
			recurrence.DaysOfWeek = append(recurrence.DaysOfWeek, time.Weekday(d))
		}
	}

	return domain.RehydrateBlock(id, artistID, start, end, reason, recurrence, createdAt, updatedAt), nil
}
