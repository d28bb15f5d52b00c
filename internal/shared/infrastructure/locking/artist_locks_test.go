package locking

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtistLocks_SerializesSameArtist(t *testing.T) {
	locks := NewArtistLocks()
	artistID := uuid.New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := locks.WithLock(artistID, func() error {
				counter++
				return nil
			})
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestArtistLocks_IndependentArtists(t *testing.T) {
	locks := NewArtistLocks()
	a := uuid.New()
	b := uuid.New()

	// Holding artist A's lock must not block artist B.
	unlockA := locks.Lock(a)
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := locks.Lock(b)
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock for independent artist blocked")
	}
}

func TestArtistLocks_ReusesLockPerArtist(t *testing.T) {
	locks := NewArtistLocks()
	artistID := uuid.New()

	assert.Same(t, locks.get(artistID), locks.get(artistID))
}
