package domain

import (
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/stagehandhq/stagehand/internal/shared/domain"
)

const aggregateTypeBlock = "availability_block"

// BlockCreated is emitted when an artist declares a new blackout block.
type BlockCreated struct {
	sharedDomain.BaseEvent
	ArtistID  uuid.UUID `json:"artist_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Reason    string    `json:"reason"`
	Recurring bool      `json:"recurring"`
}

// NewBlockCreated creates a BlockCreated event.
func NewBlockCreated(b *Block) *BlockCreated {
	return &BlockCreated{
		BaseEvent: sharedDomain.NewBaseEvent(b.ID(), aggregateTypeBlock, "availability.block.created"),
		ArtistID:  b.ArtistID(),
		StartDate: b.StartDate(),
		EndDate:   b.EndDate(),
		Reason:    b.Reason(),
		Recurring: b.IsRecurring(),
	}
}

// BlockDeleted is emitted when an artist removes a blackout block.
type BlockDeleted struct {
	sharedDomain.BaseEvent
	ArtistID uuid.UUID `json:"artist_id"`
}

// NewBlockDeleted creates a BlockDeleted event.
func NewBlockDeleted(blockID, artistID uuid.UUID) *BlockDeleted {
	return &BlockDeleted{
		BaseEvent: sharedDomain.NewBaseEvent(blockID, aggregateTypeBlock, "availability.block.deleted"),
		ArtistID:  artistID,
	}
}

// AvailabilitySet is emitted when an explicit calendar entry is written.
type AvailabilitySet struct {
	sharedDomain.BaseEvent
	ArtistID uuid.UUID   `json:"artist_id"`
	Date     time.Time   `json:"date"`
	Status   EntryStatus `json:"status"`
}

// NewAvailabilitySet creates an AvailabilitySet event.
func NewAvailabilitySet(entry Entry) *AvailabilitySet {
	return &AvailabilitySet{
		BaseEvent: sharedDomain.NewBaseEvent(entry.ArtistID, "availability_entry", "availability.entry.set"),
		ArtistID:  entry.ArtistID,
		Date:      entry.Date,
		Status:    entry.Status,
	}
}
