// Package application holds the external calendar sync operations: pulling
// foreign events in as blocks and publishing blocks back out as iCalendar.
package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	availabilityCommands "github.com/stagehandhq/stagehand/internal/availability/application/commands"
)

// DefaultBlockReason is used when an imported event carries no description.
const DefaultBlockReason = "Calendar block"

// CalendarEvent is one event from an external calendar feed.
type CalendarEvent struct {
	Type        string
	Title       string
	Description string
	Start       time.Time
	End         time.Time
}

// blockWorthy reports whether the event should become a block: an explicit
// blocked type, or a title carrying the literal marker "Unavailable".
func (e CalendarEvent) blockWorthy() bool {
	return e.Type == "blocked" || strings.Contains(e.Title, "Unavailable")
}

// ImportError records one failed item of a batch.
type ImportError struct {
	Index int
	Title string
	Err   error
}

func (e ImportError) Error() string {
	return fmt.Sprintf("event %d (%q): %v", e.Index, e.Title, e.Err)
}

// ImportResult summarizes a batch import. Failed items never abort the
// batch; they are collected in Errors.
type ImportResult struct {
	Imported int
	Skipped  int
	Errors   []ImportError
}

// Importer turns external calendar events into availability blocks.
type Importer struct {
	createBlock *availabilityCommands.CreateBlockHandler
	logger      *slog.Logger
}

// NewImporter creates an Importer.
func NewImporter(createBlock *availabilityCommands.CreateBlockHandler, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{createBlock: createBlock, logger: logger}
}

// ImportEvents creates a non-recurring block for every block-worthy event.
// Each event is processed independently.
func (i *Importer) ImportEvents(ctx context.Context, artistID uuid.UUID, events []CalendarEvent) (*ImportResult, error) {
	result := &ImportResult{}
	for idx, event := range events {
		if !event.blockWorthy() {
			result.Skipped++
			continue
		}

		reason := event.Description
		if reason == "" {
			reason = DefaultBlockReason
		}
		end := event.End
		if end.IsZero() {
			end = event.Start
		}

		_, err := i.createBlock.Handle(ctx, availabilityCommands.CreateBlockCommand{
			ArtistID:  artistID,
			StartDate: event.Start,
			EndDate:   end,
			Reason:    reason,
		})
		if err != nil {
			i.logger.Warn("skipping unimportable calendar event",
				"artist_id", artistID,
				"index", idx,
				"title", event.Title,
				"error", err,
			)
			result.Errors = append(result.Errors, ImportError{Index: idx, Title: event.Title, Err: err})
			continue
		}
		result.Imported++
	}
	return result, nil
}

// ImportICS reads an iCalendar stream and imports its events. Events whose
// summary does not mark them unavailable are skipped like any other feed
// event.
func (i *Importer) ImportICS(ctx context.Context, artistID uuid.UUID, r io.Reader) (*ImportResult, error) {
	dec := ical.NewDecoder(r)

	var events []CalendarEvent
	for {
		cal, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode calendar: %w", err)
		}

		for _, child := range cal.Children {
			if child.Name != ical.CompEvent {
				continue
			}
			events = append(events, parseEvent(child))
		}
	}

	return i.ImportEvents(ctx, artistID, events)
}

func parseEvent(component *ical.Component) CalendarEvent {
	event := CalendarEvent{}
	if props := component.Props[ical.PropSummary]; len(props) > 0 {
		event.Title = props[0].Value
	}
	if props := component.Props[ical.PropDescription]; len(props) > 0 {
		event.Description = props[0].Value
	}

	icalEvent := &ical.Event{Component: component}
	if start, err := icalEvent.DateTimeStart(time.UTC); err == nil {
		event.Start = start
	}
	if end, err := icalEvent.DateTimeEnd(time.UTC); err == nil {
		event.End = end
	}
	return event
}
