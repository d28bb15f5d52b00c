package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EntryRepository persists explicit per-date availability entries.
type EntryRepository interface {
	// Get returns the entry for (artistID, date), or nil when absent.
	Get(ctx context.Context, artistID uuid.UUID, date time.Time) (*Entry, error)
	// Upsert writes the entry, overwriting any existing one for the same key.
	Upsert(ctx context.Context, entry Entry) error
	// QueryRange returns entries for the artist within [start, end], ordered by date.
	QueryRange(ctx context.Context, artistID uuid.UUID, start, end time.Time) ([]Entry, error)
	// Delete removes the entry for (artistID, date). Missing entries are not an error.
	Delete(ctx context.Context, artistID uuid.UUID, date time.Time) error
}

// BlockRepository persists availability blocks.
type BlockRepository interface {
	// Save persists a block.
	Save(ctx context.Context, block *Block) error
	// FindByID returns the artist's block, or nil when absent.
	FindByID(ctx context.Context, artistID, blockID uuid.UUID) (*Block, error)
	// ListByArtist returns all blocks for the artist, oldest first.
	ListByArtist(ctx context.Context, artistID uuid.UUID) ([]*Block, error)
	// Delete removes the artist's block, reporting whether it existed.
	Delete(ctx context.Context, artistID, blockID uuid.UUID) (bool, error)
}
