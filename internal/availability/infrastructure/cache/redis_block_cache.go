// Package cache decorates the block repository with a Redis read-through
// cache for the block list, the hot path of every admission check.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/stagehandhq/stagehand/internal/availability/domain"
)

// DefaultTTL bounds staleness when an invalidation is lost.
const DefaultTTL = 5 * time.Minute

// RedisBlockCache wraps a BlockRepository and caches per-artist block lists.
// Cache failures degrade to the inner repository; they are logged, never
// surfaced to callers.
type RedisBlockCache struct {
	inner  domain.BlockRepository
	client redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisBlockCache creates a caching decorator around inner.
func NewRedisBlockCache(inner domain.BlockRepository, client redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *RedisBlockCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisBlockCache{inner: inner, client: client, ttl: ttl, logger: logger}
}

func blockListKey(artistID uuid.UUID) string {
	return "stagehand:blocks:" + artistID.String()
}

// Save writes through to the inner repository and drops the cached list.
func (c *RedisBlockCache) Save(ctx context.Context, block *domain.Block) error {
	if err := c.inner.Save(ctx, block); err != nil {
		return err
	}
	c.invalidate(ctx, block.ArtistID())
	return nil
}

// FindByID is not cached; single-block lookups are rare.
func (c *RedisBlockCache) FindByID(ctx context.Context, artistID, blockID uuid.UUID) (*domain.Block, error) {
	return c.inner.FindByID(ctx, artistID, blockID)
}

// ListByArtist serves the cached list when present, otherwise loads and caches.
func (c *RedisBlockCache) ListByArtist(ctx context.Context, artistID uuid.UUID) ([]*domain.Block, error) {
	key := blockListKey(artistID)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		blocks, decodeErr := decodeBlockList(payload)
		if decodeErr == nil {
			return blocks, nil
		}
		c.logger.Warn("discarding undecodable block cache entry", "key", key, "error", decodeErr)
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("block cache read failed", "key", key, "error", err)
	}

	blocks, err := c.inner.ListByArtist(ctx, artistID)
	if err != nil {
		return nil, err
	}

	if payload, err := encodeBlockList(blocks); err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.Warn("block cache write failed", "key", key, "error", err)
		}
	}
	return blocks, nil
}

// Delete removes through to the inner repository and drops the cached list.
func (c *RedisBlockCache) Delete(ctx context.Context, artistID, blockID uuid.UUID) (bool, error) {
	deleted, err := c.inner.Delete(ctx, artistID, blockID)
	if err != nil {
		return false, err
	}
	if deleted {
		c.invalidate(ctx, artistID)
	}
	return deleted, nil
}

func (c *RedisBlockCache) invalidate(ctx context.Context, artistID uuid.UUID) {
	key := blockListKey(artistID)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Warn("block cache invalidation failed", "key", key, "error", err)
	}
}

type blockRecord struct {
	ID           uuid.UUID  `json:"id"`
	ArtistID     uuid.UUID  `json:"artist_id"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      time.Time  `json:"end_date"`
	Reason       string     `json:"reason"`
	RecurPattern string     `json:"recur_pattern,omitempty"`
	RecurEndDate *time.Time `json:"recur_end_date,omitempty"`
	RecurDays    []int      `json:"recur_days,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func encodeBlockList(blocks []*domain.Block) ([]byte, error) {
	records := make([]blockRecord, 0, len(blocks))
	for _, b := range blocks {
		record := blockRecord{
			ID:        b.ID(),
			ArtistID:  b.ArtistID(),
			StartDate: b.StartDate(),
			EndDate:   b.EndDate(),
			Reason:    b.Reason(),
			CreatedAt: b.CreatedAt(),
			UpdatedAt: b.UpdatedAt(),
		}
		if rec := b.Recurrence(); rec != nil {
			record.RecurPattern = string(rec.Pattern)
			record.RecurEndDate = rec.EndDate
			for _, d := range rec.DaysOfWeek {
				record.RecurDays = append(record.RecurDays, int(d))
			}
		}
		records = append(records, record)
	}
	return json.Marshal(records)
}

func decodeBlockList(payload []byte) ([]*domain.Block, error) {
	var records []blockRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, err
	}

	blocks := make([]*domain.Block, 0, len(records))
	for _, record := range records {
		var recurrence *domain.Recurrence
		if record.RecurPattern != "" {
			recurrence = &domain.Recurrence{
				Pattern: domain.RecurrencePattern(record.RecurPattern),
				EndDate: record.RecurEndDate,
			}
			for _, d := range record.RecurDays {
				recurrence.DaysOfWeek = append(recurrence.DaysOfWeek, time.Weekday(d))
			}
		}
		blocks = append(blocks, domain.RehydrateBlock(
			record.ID, record.ArtistID, record.StartDate, record.EndDate,
			record.Reason, recurrence, record.CreatedAt, record.UpdatedAt))
	}
	return blocks, nil
}
