package commands

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagehandhq/stagehand/internal/availability/domain"
	"github.com/stagehandhq/stagehand/internal/availability/infrastructure/persistence"
	sharedDomain "github.com/stagehandhq/stagehand/internal/shared/domain"
	"github.com/stagehandhq/stagehand/internal/shared/infrastructure/eventbus"
	"github.com/stagehandhq/stagehand/internal/shared/infrastructure/locking"
	sharedPersistence "github.com/stagehandhq/stagehand/internal/shared/infrastructure/persistence"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	entries *persistence.MemoryEntryRepository
	blocks  *persistence.MemoryBlockRepository
	locks   *locking.ArtistLocks
	uow     *sharedPersistence.NoopUnitOfWork
	bus     *eventbus.InProcessBus
}

func newFixture() *fixture {
	return &fixture{
		entries: persistence.NewMemoryEntryRepository(),
		blocks:  persistence.NewMemoryBlockRepository(),
		locks:   locking.NewArtistLocks(),
		uow:     sharedPersistence.NewNoopUnitOfWork(),
		bus:     eventbus.NewInProcessBus(nil),
	}
}

func TestSetAvailabilityHandler(t *testing.T) {
	f := newFixture()
	h := NewSetAvailabilityHandler(f.entries, f.locks, f.uow, f.bus, nil)
	ctx := context.Background()
	artistID := uuid.New()

	published := 0
	f.bus.Subscribe("availability.entry.", func(ctx context.Context, key string, payload []byte) error {
		published++
		return nil
	})

	entry, err := h.Handle(ctx, SetAvailabilityCommand{
		ArtistID: artistID,
		Date:     date(2026, 3, 3),
		Status:   domain.StatusUnavailable,
		Notes:    "family event",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnavailable, entry.Status)
	assert.Equal(t, 1, published)

	stored, err := f.entries.Get(ctx, artistID, date(2026, 3, 3))
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "family event", stored.Notes)
}

func TestSetAvailabilityHandler_OverwritesSameDate(t *testing.T) {
	f := newFixture()
	h := NewSetAvailabilityHandler(f.entries, f.locks, f.uow, f.bus, nil)
	ctx := context.Background()
	artistID := uuid.New()

	_, err := h.Handle(ctx, SetAvailabilityCommand{ArtistID: artistID, Date: date(2026, 3, 3), Status: domain.StatusUnavailable})
	require.NoError(t, err)
	_, err = h.Handle(ctx, SetAvailabilityCommand{ArtistID: artistID, Date: date(2026, 3, 3), Status: domain.StatusAvailable})
	require.NoError(t, err)

	stored, err := f.entries.Get(ctx, artistID, date(2026, 3, 3))
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, domain.StatusAvailable, stored.Status)
}

func TestSetAvailabilityHandler_InvalidStatus(t *testing.T) {
	f := newFixture()
	h := NewSetAvailabilityHandler(f.entries, f.locks, f.uow, f.bus, nil)

	_, err := h.Handle(context.Background(), SetAvailabilityCommand{
		ArtistID: uuid.New(),
		Date:     date(2026, 3, 3),
		Status:   "maybe",
	})
	require.Error(t, err)
	assert.True(t, sharedDomain.IsValidation(err))
}

func TestClearAvailabilityHandler(t *testing.T) {
	f := newFixture()
	set := NewSetAvailabilityHandler(f.entries, f.locks, f.uow, f.bus, nil)
	clear := NewClearAvailabilityHandler(f.entries, f.locks, f.uow)
	ctx := context.Background()
	artistID := uuid.New()

	_, err := set.Handle(ctx, SetAvailabilityCommand{ArtistID: artistID, Date: date(2026, 3, 3), Status: domain.StatusUnavailable})
	require.NoError(t, err)

	require.NoError(t, clear.Handle(ctx, ClearAvailabilityCommand{ArtistID: artistID, Date: date(2026, 3, 3)}))

	stored, err := f.entries.Get(ctx, artistID, date(2026, 3, 3))
	require.NoError(t, err)
	assert.Nil(t, stored)

	// Clearing again stays quiet.
	assert.NoError(t, clear.Handle(ctx, ClearAvailabilityCommand{ArtistID: artistID, Date: date(2026, 3, 3)}))
}

func TestCreateBlockHandler(t *testing.T) {
	f := newFixture()
	h := NewCreateBlockHandler(f.blocks, f.locks, f.uow, f.bus, nil)
	ctx := context.Background()
	artistID := uuid.New()

	var createdKeys []string
	f.bus.Subscribe("availability.block.", func(ctx context.Context, key string, payload []byte) error {
		createdKeys = append(createdKeys, key)
		return nil
	})

	result, err := h.Handle(ctx, CreateBlockCommand{
		ArtistID:  artistID,
		StartDate: date(2026, 3, 1),
		EndDate:   date(2026, 3, 5),
		Reason:    "Tour",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, result.BlockID)
	assert.Equal(t, []string{"availability.block.created"}, createdKeys)

	stored, err := f.blocks.FindByID(ctx, artistID, result.BlockID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Tour", stored.Reason())
}

func TestCreateBlockHandler_UniqueIDs(t *testing.T) {
	f := newFixture()
	h := NewCreateBlockHandler(f.blocks, f.locks, f.uow, f.bus, nil)
	ctx := context.Background()
	artistID := uuid.New()

	seen := make(map[uuid.UUID]bool)
	for i := 0; i < 20; i++ {
		result, err := h.Handle(ctx, CreateBlockCommand{
			ArtistID:  artistID,
			StartDate: date(2026, 3, 1),
			EndDate:   date(2026, 3, 1),
			Reason:    "Rehearsal",
		})
		require.NoError(t, err)
		assert.False(t, seen[result.BlockID], "block ids must be unique")
		seen[result.BlockID] = true
	}
}

func TestCreateBlockHandler_InvalidRange(t *testing.T) {
	f := newFixture()
	h := NewCreateBlockHandler(f.blocks, f.locks, f.uow, f.bus, nil)

	_, err := h.Handle(context.Background(), CreateBlockCommand{
		ArtistID:  uuid.New(),
		StartDate: date(2026, 3, 5),
		EndDate:   date(2026, 3, 1),
		Reason:    "Tour",
	})
	require.Error(t, err)
	assert.True(t, sharedDomain.IsValidation(err))
}

func TestDeleteBlockHandler(t *testing.T) {
	f := newFixture()
	create := NewCreateBlockHandler(f.blocks, f.locks, f.uow, f.bus, nil)
	del := NewDeleteBlockHandler(f.blocks, f.locks, f.uow, f.bus, nil)
	ctx := context.Background()
	artistID := uuid.New()

	result, err := create.Handle(ctx, CreateBlockCommand{
		ArtistID:  artistID,
		StartDate: date(2026, 3, 1),
		EndDate:   date(2026, 3, 5),
		Reason:    "Tour",
	})
	require.NoError(t, err)

	deleted, err := del.Handle(ctx, DeleteBlockCommand{ArtistID: artistID, BlockID: result.BlockID})
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = del.Handle(ctx, DeleteBlockCommand{ArtistID: artistID, BlockID: result.BlockID})
	require.NoError(t, err)
	assert.False(t, deleted, "second delete reports the block is gone")
}

func TestDeleteBlockHandler_WrongArtist(t *testing.T) {
	f := newFixture()
	create := NewCreateBlockHandler(f.blocks, f.locks, f.uow, f.bus, nil)
	del := NewDeleteBlockHandler(f.blocks, f.locks, f.uow, f.bus, nil)
	ctx := context.Background()

	result, err := create.Handle(ctx, CreateBlockCommand{
		ArtistID:  uuid.New(),
		StartDate: date(2026, 3, 1),
		EndDate:   date(2026, 3, 5),
		Reason:    "Tour",
	})
	require.NoError(t, err)

	deleted, err := del.Handle(ctx, DeleteBlockCommand{ArtistID: uuid.New(), BlockID: result.BlockID})
	require.NoError(t, err)
	assert.False(t, deleted, "another artist cannot delete the block")
}
