package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedDomain "github.com/stagehandhq/stagehand/internal/shared/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewBlock(t *testing.T) {
	artistID := uuid.New()

	block, err := NewBlock(artistID, date(2026, 3, 1), date(2026, 3, 5), "Tour", nil)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, block.ID())
	assert.Equal(t, artistID, block.ArtistID())
	assert.Equal(t, date(2026, 3, 1), block.StartDate())
	assert.Equal(t, date(2026, 3, 5), block.EndDate())
	assert.Equal(t, "Tour", block.Reason())
	assert.False(t, block.IsRecurring())
	assert.Len(t, block.DomainEvents(), 1)
}

func TestNewBlock_NormalizesDates(t *testing.T) {
	start := time.Date(2026, 3, 1, 14, 30, 0, 0, time.UTC)
	block, err := NewBlock(uuid.New(), start, start, "Rehearsal", nil)
	require.NoError(t, err)

	assert.Equal(t, date(2026, 3, 1), block.StartDate())
}

func TestNewBlock_Validation(t *testing.T) {
	artistID := uuid.New()

	t.Run("end before start", func(t *testing.T) {
		_, err := NewBlock(artistID, date(2026, 3, 5), date(2026, 3, 1), "Tour", nil)
		require.Error(t, err)
		assert.True(t, sharedDomain.IsValidation(err))
	})

	t.Run("nil artist", func(t *testing.T) {
		_, err := NewBlock(uuid.Nil, date(2026, 3, 1), date(2026, 3, 5), "Tour", nil)
		require.Error(t, err)
		assert.True(t, sharedDomain.IsValidation(err))
	})

	t.Run("unknown pattern", func(t *testing.T) {
		_, err := NewBlock(artistID, date(2026, 3, 1), date(2026, 3, 1), "Tour",
			&Recurrence{Pattern: "fortnightly"})
		require.Error(t, err)
		assert.True(t, sharedDomain.IsValidation(err))
	})

	t.Run("weekday out of range", func(t *testing.T) {
		_, err := NewBlock(artistID, date(2026, 3, 1), date(2026, 3, 1), "Tour",
			&Recurrence{Pattern: PatternWeekly, DaysOfWeek: []time.Weekday{time.Weekday(9)}})
		require.Error(t, err)
		assert.True(t, sharedDomain.IsValidation(err))
	})

	t.Run("recurrence end before start", func(t *testing.T) {
		end := date(2026, 2, 1)
		_, err := NewBlock(artistID, date(2026, 3, 1), date(2026, 3, 1), "Tour",
			&Recurrence{Pattern: PatternDaily, EndDate: &end})
		require.Error(t, err)
		assert.True(t, sharedDomain.IsValidation(err))
	})
}

func TestBlock_Covers_DirectRange(t *testing.T) {
	// Spec scenario: block 2026-03-01..2026-03-05 "Tour".
	block, err := NewBlock(uuid.New(), date(2026, 3, 1), date(2026, 3, 5), "Tour", nil)
	require.NoError(t, err)

	assert.True(t, block.Covers(date(2026, 3, 1)))
	assert.True(t, block.Covers(date(2026, 3, 3)))
	assert.True(t, block.Covers(date(2026, 3, 5)))
	assert.False(t, block.Covers(date(2026, 2, 28)))
	assert.False(t, block.Covers(date(2026, 3, 6)))
}

func TestRehydrateBlock(t *testing.T) {
	id := uuid.New()
	artistID := uuid.New()
	created := date(2026, 1, 1)

	block := RehydrateBlock(id, artistID, date(2026, 3, 1), date(2026, 3, 5), "Tour",
		&Recurrence{Pattern: PatternWeekly}, created, created)

	assert.Equal(t, id, block.ID())
	assert.Equal(t, artistID, block.ArtistID())
	assert.True(t, block.IsRecurring())
	assert.Empty(t, block.DomainEvents())
}
