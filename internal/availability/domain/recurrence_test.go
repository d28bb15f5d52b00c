package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlock_Covers_Daily(t *testing.T) {
	recEnd := date(2026, 1, 10)
	block, err := NewBlock(uuid.New(), date(2026, 1, 1), date(2026, 1, 1), "Residency",
		&Recurrence{Pattern: PatternDaily, EndDate: &recEnd})
	require.NoError(t, err)

	assert.True(t, block.Covers(date(2026, 1, 1)))
	assert.True(t, block.Covers(date(2026, 1, 7)))
	assert.True(t, block.Covers(date(2026, 1, 10)))
	assert.False(t, block.Covers(date(2026, 1, 11)), "past recurrence end")
	assert.False(t, block.Covers(date(2025, 12, 31)), "before block start")
}

func TestBlock_Covers_DailyOpenEnded(t *testing.T) {
	block, err := NewBlock(uuid.New(), date(2026, 1, 1), date(2026, 1, 1), "Hiatus",
		&Recurrence{Pattern: PatternDaily})
	require.NoError(t, err)

	assert.True(t, block.Covers(date(2030, 6, 15)))
}

func TestBlock_Covers_WeeklyWithDaysOfWeek(t *testing.T) {
	// Spec scenario: weekly, daysOfWeek=[Sunday, Saturday], start 2026-01-03
	// (a Saturday), no end date. Every later weekend day is blocked.
	block, err := NewBlock(uuid.New(), date(2026, 1, 3), date(2026, 1, 3), "Weekends off",
		&Recurrence{Pattern: PatternWeekly, DaysOfWeek: []time.Weekday{time.Sunday, time.Saturday}})
	require.NoError(t, err)

	require.Equal(t, time.Saturday, date(2026, 1, 3).Weekday())

	assert.True(t, block.Covers(date(2026, 1, 3)), "Saturday")
	assert.True(t, block.Covers(date(2026, 1, 4)), "Sunday")
	assert.True(t, block.Covers(date(2026, 1, 10)), "next Saturday")
	assert.True(t, block.Covers(date(2026, 4, 26)), "Sunday months later")

	for d := date(2026, 1, 5); d.Weekday() != time.Saturday; d = NextDay(d) {
		assert.False(t, block.Covers(d), "weekday %s should not match", d.Format("2006-01-02"))
	}
}

func TestBlock_Covers_WeeklyDefaultsToStartWeekday(t *testing.T) {
	// 2026-01-06 is a Tuesday; without daysOfWeek only Tuesdays match.
	block, err := NewBlock(uuid.New(), date(2026, 1, 6), date(2026, 1, 6), "Teaching",
		&Recurrence{Pattern: PatternWeekly})
	require.NoError(t, err)

	require.Equal(t, time.Tuesday, date(2026, 1, 6).Weekday())

	assert.True(t, block.Covers(date(2026, 1, 13)))
	assert.True(t, block.Covers(date(2026, 2, 3)))
	assert.False(t, block.Covers(date(2026, 1, 14)), "Wednesday")
}

func TestBlock_Covers_Monthly(t *testing.T) {
	block, err := NewBlock(uuid.New(), date(2026, 1, 15), date(2026, 1, 15), "Studio day",
		&Recurrence{Pattern: PatternMonthly})
	require.NoError(t, err)

	assert.True(t, block.Covers(date(2026, 2, 15)))
	assert.True(t, block.Covers(date(2026, 12, 15)))
	assert.False(t, block.Covers(date(2026, 2, 14)))
}

func TestBlock_Covers_MonthlyIgnoresShortMonths(t *testing.T) {
	// Day-of-month matching is literal: a block anchored on the 31st
	// never matches February.
	block, err := NewBlock(uuid.New(), date(2026, 1, 31), date(2026, 1, 31), "Month end",
		&Recurrence{Pattern: PatternMonthly})
	require.NoError(t, err)

	assert.True(t, block.Covers(date(2026, 3, 31)))
	assert.False(t, block.Covers(date(2026, 2, 28)))
	for d := date(2026, 2, 1); d.Month() == time.February; d = NextDay(d) {
		assert.False(t, block.Covers(d))
	}
}

func TestBlock_Covers_NeverBeforeStart(t *testing.T) {
	block, err := NewBlock(uuid.New(), date(2026, 6, 1), date(2026, 6, 1), "Sabbatical",
		&Recurrence{Pattern: PatternDaily})
	require.NoError(t, err)

	assert.False(t, block.Covers(date(2026, 5, 31)))
}

func TestBlockedRangesIn_ClipsOneOffBlocks(t *testing.T) {
	block, err := NewBlock(uuid.New(), date(2026, 3, 1), date(2026, 3, 10), "Tour", nil)
	require.NoError(t, err)

	ranges := BlockedRangesIn([]*Block{block}, date(2026, 3, 5), date(2026, 3, 20))

	require.Len(t, ranges, 1)
	assert.Equal(t, date(2026, 3, 5), ranges[0].Start)
	assert.Equal(t, date(2026, 3, 10), ranges[0].End)
	assert.Equal(t, "Tour", ranges[0].Reason)
}

func TestBlockedRangesIn_OutsideWindow(t *testing.T) {
	block, err := NewBlock(uuid.New(), date(2026, 3, 1), date(2026, 3, 10), "Tour", nil)
	require.NoError(t, err)

	ranges := BlockedRangesIn([]*Block{block}, date(2026, 4, 1), date(2026, 4, 30))
	assert.Empty(t, ranges)
}

func TestBlockedRangesIn_MergesAdjacentRecurringDays(t *testing.T) {
	// Saturday+Sunday merge into one two-day range per weekend.
	block, err := NewBlock(uuid.New(), date(2026, 1, 3), date(2026, 1, 3), "Weekends off",
		&Recurrence{Pattern: PatternWeekly, DaysOfWeek: []time.Weekday{time.Sunday, time.Saturday}})
	require.NoError(t, err)

	ranges := BlockedRangesIn([]*Block{block}, date(2026, 1, 1), date(2026, 1, 14))

	require.Len(t, ranges, 2)
	assert.Equal(t, date(2026, 1, 3), ranges[0].Start)
	assert.Equal(t, date(2026, 1, 4), ranges[0].End)
	assert.Equal(t, date(2026, 1, 10), ranges[1].Start)
	assert.Equal(t, date(2026, 1, 11), ranges[1].End)
}

func TestBlockedRangesIn_DailyProducesSingleRun(t *testing.T) {
	recEnd := date(2026, 1, 5)
	block, err := NewBlock(uuid.New(), date(2026, 1, 1), date(2026, 1, 1), "Residency",
		&Recurrence{Pattern: PatternDaily, EndDate: &recEnd})
	require.NoError(t, err)

	ranges := BlockedRangesIn([]*Block{block}, date(2026, 1, 1), date(2026, 1, 31))

	require.Len(t, ranges, 1)
	assert.Equal(t, date(2026, 1, 1), ranges[0].Start)
	assert.Equal(t, date(2026, 1, 5), ranges[0].End)
}

func TestBlockedRangesIn_EmptyWindow(t *testing.T) {
	block, err := NewBlock(uuid.New(), date(2026, 3, 1), date(2026, 3, 10), "Tour", nil)
	require.NoError(t, err)

	assert.Nil(t, BlockedRangesIn([]*Block{block}, date(2026, 3, 10), date(2026, 3, 1)))
}
