package persistence

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stagehandhq/stagehand/internal/availability/domain"
)

// MemoryEntryRepository is an in-memory EntryRepository used in tests.
type MemoryEntryRepository struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]map[time.Time]domain.Entry
}

// NewMemoryEntryRepository creates an empty in-memory entry repository.
func NewMemoryEntryRepository() *MemoryEntryRepository {
	return &MemoryEntryRepository{entries: make(map[uuid.UUID]map[time.Time]domain.Entry)}
}

func (r *MemoryEntryRepository) Get(ctx context.Context, artistID uuid.UUID, date time.Time) (*domain.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[artistID][domain.DateOnly(date)]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (r *MemoryEntryRepository) Upsert(ctx context.Context, entry domain.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byDate, ok := r.entries[entry.ArtistID]
	if !ok {
		byDate = make(map[time.Time]domain.Entry)
		r.entries[entry.ArtistID] = byDate
	}
	entry.Date = domain.DateOnly(entry.Date)
	byDate[entry.Date] = entry
	return nil
}

func (r *MemoryEntryRepository) QueryRange(ctx context.Context, artistID uuid.UUID, start, end time.Time) ([]domain.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	start = domain.DateOnly(start)
	end = domain.DateOnly(end)

	var result []domain.Entry
	for d, entry := range r.entries[artistID] {
		if !d.Before(start) && !d.After(end) {
			result = append(result, entry)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (r *MemoryEntryRepository) Delete(ctx context.Context, artistID uuid.UUID, date time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries[artistID], domain.DateOnly(date))
	return nil
}

// MemoryBlockRepository is an in-memory BlockRepository used in tests.
type MemoryBlockRepository struct {
	mu     sync.RWMutex
	blocks map[uuid.UUID][]*domain.Block
}

// NewMemoryBlockRepository creates an empty in-memory block repository.
func NewMemoryBlockRepository() *MemoryBlockRepository {
	return &MemoryBlockRepository{blocks: make(map[uuid.UUID][]*domain.Block)}
}

func (r *MemoryBlockRepository) Save(ctx context.Context, block *domain.Block) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.blocks[block.ArtistID()]
	for i, existing := range list {
		if existing.ID() == block.ID() {
			list[i] = block
			return nil
		}
	}
	r.blocks[block.ArtistID()] = append(list, block)
	return nil
}

func (r *MemoryBlockRepository) FindByID(ctx context.Context, artistID, blockID uuid.UUID) (*domain.Block, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, block := range r.blocks[artistID] {
		if block.ID() == blockID {
			return block, nil
		}
	}
	return nil, nil
}

func (r *MemoryBlockRepository) ListByArtist(ctx context.Context, artistID uuid.UUID) ([]*domain.Block, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]*domain.Block(nil), r.blocks[artistID]...), nil
}

func (r *MemoryBlockRepository) Delete(ctx context.Context, artistID, blockID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.blocks[artistID]
	for i, block := range list {
		if block.ID() == blockID {
			r.blocks[artistID] = append(list[:i], list[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
