package domain

import (
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/stagehandhq/stagehand/internal/shared/domain"
)

// RecurrencePattern expands a block into repeated blocked dates.
type RecurrencePattern string

const (
	PatternDaily   RecurrencePattern = "daily"
	PatternWeekly  RecurrencePattern = "weekly"
	PatternMonthly RecurrencePattern = "monthly"
)

// IsValid reports whether the pattern is a known value.
func (p RecurrencePattern) IsValid() bool {
	switch p {
	case PatternDaily, PatternWeekly, PatternMonthly:
		return true
	default:
		return false
	}
}

// Recurrence is the optional repeat rule of a block. The recurring envelope
// is bounded below by the block's own start date and above by EndDate when
// set, otherwise unbounded.
type Recurrence struct {
	Pattern    RecurrencePattern
	EndDate    *time.Time // nil = open-ended
	DaysOfWeek []time.Weekday
}

// Block is an artist-declared blackout range, possibly recurring. Blocks
// are never auto-deleted; removal is an explicit artist action.
type Block struct {
	sharedDomain.BaseAggregateRoot
	artistID   uuid.UUID
	startDate  time.Time
	endDate    time.Time
	reason     string
	recurrence *Recurrence
}

// NewBlock creates a block and records a BlockCreated event.
func NewBlock(artistID uuid.UUID, startDate, endDate time.Time, reason string, recurrence *Recurrence) (*Block, error) {
	if artistID == uuid.Nil {
		return nil, sharedDomain.NewValidationError("artist id is required")
	}

	startDate = DateOnly(startDate)
	endDate = DateOnly(endDate)
	if endDate.Before(startDate) {
		return nil, sharedDomain.NewValidationError("block end date %s before start date %s",
			endDate.Format("2006-01-02"), startDate.Format("2006-01-02"))
	}

	if recurrence != nil {
		if !recurrence.Pattern.IsValid() {
			return nil, sharedDomain.NewValidationError("invalid recurrence pattern %q", recurrence.Pattern)
		}
		for _, day := range recurrence.DaysOfWeek {
			if day < time.Sunday || day > time.Saturday {
				return nil, sharedDomain.NewValidationError("invalid weekday %d in recurrence", day)
			}
		}
		if recurrence.EndDate != nil {
			end := DateOnly(*recurrence.EndDate)
			if end.Before(startDate) {
				return nil, sharedDomain.NewValidationError("recurrence end date before block start date")
			}
			recurrence = &Recurrence{Pattern: recurrence.Pattern, EndDate: &end, DaysOfWeek: recurrence.DaysOfWeek}
		}
	}

	b := &Block{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		artistID:          artistID,
		startDate:         startDate,
		endDate:           endDate,
		reason:            reason,
		recurrence:        recurrence,
	}
	b.AddDomainEvent(NewBlockCreated(b))
	return b, nil
}

// Getters
func (b *Block) ArtistID() uuid.UUID     { return b.artistID }
func (b *Block) StartDate() time.Time    { return b.startDate }
func (b *Block) EndDate() time.Time      { return b.endDate }
func (b *Block) Reason() string          { return b.reason }
func (b *Block) Recurrence() *Recurrence { return b.recurrence }
func (b *Block) IsRecurring() bool       { return b.recurrence != nil }

// RehydrateBlock recreates a block from persisted state.
func RehydrateBlock(
	id uuid.UUID,
	artistID uuid.UUID,
	startDate, endDate time.Time,
	reason string,
	recurrence *Recurrence,
	createdAt, updatedAt time.Time,
) *Block {
	return &Block{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)),
		artistID:   artistID,
		startDate:  DateOnly(startDate),
		endDate:    DateOnly(endDate),
		reason:     reason,
		recurrence: recurrence,
	}
}
