// Package services holds the availability query services used by booking
// admission.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/stagehandhq/stagehand/internal/availability/domain"
	sharedDomain "github.com/stagehandhq/stagehand/internal/shared/domain"
)

// ConflictChecker answers "can this artist be booked for this date range?"
// by combining explicit calendar entries with block coverage. It is a pure
// query layer; it never mutates state.
type ConflictChecker struct {
	entries domain.EntryRepository
	blocks  domain.BlockRepository
	logger  *slog.Logger
}

// NewConflictChecker creates a conflict checker.
func NewConflictChecker(entries domain.EntryRepository, blocks domain.BlockRepository, logger *slog.Logger) *ConflictChecker {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConflictChecker{entries: entries, blocks: blocks, logger: logger}
}

// IsDateBlocked reports whether the date is inadmissible: an explicit entry
// with status other than available, or any block covering the date. Absent
// both, the date is implicitly available.
func (c *ConflictChecker) IsDateBlocked(ctx context.Context, artistID uuid.UUID, date time.Time) (bool, error) {
	date = domain.DateOnly(date)

	entry, err := c.entries.Get(ctx, artistID, date)
	if err != nil {
		return false, err
	}
	if entry != nil && entry.Status != domain.StatusAvailable {
		return true, nil
	}

	blocks, err := c.blocks.ListByArtist(ctx, artistID)
	if err != nil {
		return false, err
	}
	for _, block := range blocks {
		if block.Covers(date) {
			return true, nil
		}
	}
	return false, nil
}

// CanBook reports whether every date in [start, end] inclusive is
// admissible, stopping at the first blocked date.
func (c *ConflictChecker) CanBook(ctx context.Context, artistID uuid.UUID, start, end time.Time) (bool, error) {
	start = domain.DateOnly(start)
	end = domain.DateOnly(end)
	if end.Before(start) {
		return false, sharedDomain.NewValidationError("end date %s before start date %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	for d := start; !d.After(end); d = domain.NextDay(d) {
		blocked, err := c.IsDateBlocked(ctx, artistID, d)
		if err != nil {
			return false, err
		}
		if blocked {
			c.logger.Debug("booking conflict",
				"artist_id", artistID,
				"date", d.Format("2006-01-02"),
			)
			return false, nil
		}
	}
	return true, nil
}
