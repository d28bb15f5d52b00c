package domain

import "time"

// Covers reports whether date falls inside the block, either directly
// within [startDate, endDate] or through the recurrence rule.
func (b *Block) Covers(date time.Time) bool {
	date = DateOnly(date)

	if !date.Before(b.startDate) && !date.After(b.endDate) {
		return true
	}
	return b.recursOn(date)
}

// recursOn evaluates the recurrence rule for a single date. Dates before
// the block's own start, or past the recurrence end when set, never match.
func (b *Block) recursOn(date time.Time) bool {
	if b.recurrence == nil {
		return false
	}
	if date.Before(b.startDate) {
		return false
	}
	if b.recurrence.EndDate != nil && date.After(*b.recurrence.EndDate) {
		return false
	}

	switch b.recurrence.Pattern {
	case PatternDaily:
		return true
	case PatternWeekly:
		if len(b.recurrence.DaysOfWeek) > 0 {
			for _, day := range b.recurrence.DaysOfWeek {
				if date.Weekday() == day {
					return true
				}
			}
			return false
		}
		return date.Weekday() == b.startDate.Weekday()
	case PatternMonthly:
		// Day-of-month match with no short-month adjustment: a block
		// anchored on the 31st never recurs in February.
		return date.Day() == b.startDate.Day()
	default:
		return false
	}
}

// BlockedRange is a contiguous run of blocked dates inside a query window.
type BlockedRange struct {
	Start  time.Time
	End    time.Time
	Reason string
}

// BlockedRangesIn collects the blocked ranges of the given blocks within
// [start, end]. Non-recurring blocks are clipped to the window; recurring
// blocks are walked day by day and adjacent matched days merge into one
// range per run.
func BlockedRangesIn(blocks []*Block, start, end time.Time) []BlockedRange {
	start = DateOnly(start)
	end = DateOnly(end)
	if end.Before(start) {
		return nil
	}

	ranges := make([]BlockedRange, 0)
	for _, b := range blocks {
		if b.IsRecurring() {
			ranges = append(ranges, b.recurringRangesIn(start, end)...)
			continue
		}
		if clipped, ok := b.clipTo(start, end); ok {
			ranges = append(ranges, clipped)
		}
	}
	return ranges
}

// clipTo intersects the block's literal range with the window.
func (b *Block) clipTo(start, end time.Time) (BlockedRange, bool) {
	if b.endDate.Before(start) || b.startDate.After(end) {
		return BlockedRange{}, false
	}

	clipStart := b.startDate
	if clipStart.Before(start) {
		clipStart = start
	}
	clipEnd := b.endDate
	if clipEnd.After(end) {
		clipEnd = end
	}
	return BlockedRange{Start: clipStart, End: clipEnd, Reason: b.reason}, true
}

// recurringRangesIn walks the window one day at a time, testing each day
// against the recurrence rule and emitting contiguous matched runs.
func (b *Block) recurringRangesIn(start, end time.Time) []BlockedRange {
	var ranges []BlockedRange
	var runStart, runEnd time.Time
	open := false

	for d := start; !d.After(end); d = NextDay(d) {
		if b.Covers(d) {
			if !open {
				runStart = d
				open = true
			}
			runEnd = d
			continue
		}
		if open {
			ranges = append(ranges, BlockedRange{Start: runStart, End: runEnd, Reason: b.reason})
			open = false
		}
	}
	if open {
		ranges = append(ranges, BlockedRange{Start: runStart, End: runEnd, Reason: b.reason})
	}
	return ranges
}
