// Package locking serializes mutating operations per artist. The calendar
// and block state for one artist is shared across all requests, and the
// check-then-act admission sequence must not interleave with a concurrent
// create or cancel for the same artist.
package locking

import (
	"sync"

	"github.com/google/uuid"
)

// ArtistLocks hands out one mutex per artist ID. Locks are created lazily
// and never released; the set of active artists is small and bounded.
type ArtistLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewArtistLocks creates an empty lock registry.
func NewArtistLocks() *ArtistLocks {
	return &ArtistLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (l *ArtistLocks) get(artistID uuid.UUID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[artistID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[artistID] = m
	}
	return m
}

// Lock acquires the lock for an artist and returns the unlock function.
func (l *ArtistLocks) Lock(artistID uuid.UUID) func() {
	m := l.get(artistID)
	m.Lock()
	return m.Unlock
}

// WithLock runs fn while holding the artist's lock.
func (l *ArtistLocks) WithLock(artistID uuid.UUID, fn func() error) error {
	unlock := l.Lock(artistID)
	defer unlock()
	return fn()
}
