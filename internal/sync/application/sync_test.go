package application

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	availabilityCommands "github.com/stagehandhq/stagehand/internal/availability/application/commands"
	availability "github.com/stagehandhq/stagehand/internal/availability/domain"
	availabilityPersistence "github.com/stagehandhq/stagehand/internal/availability/infrastructure/persistence"
	"github.com/stagehandhq/stagehand/internal/shared/infrastructure/eventbus"
	"github.com/stagehandhq/stagehand/internal/shared/infrastructure/locking"
	sharedPersistence "github.com/stagehandhq/stagehand/internal/shared/infrastructure/persistence"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newImporter(t *testing.T) (*Importer, *availabilityPersistence.MemoryBlockRepository) {
	t.Helper()
	blocks := availabilityPersistence.NewMemoryBlockRepository()
	create := availabilityCommands.NewCreateBlockHandler(
		blocks,
		locking.NewArtistLocks(),
		sharedPersistence.NewNoopUnitOfWork(),
		eventbus.NewInProcessBus(nil),
		nil,
	)
	return NewImporter(create, nil), blocks
}

func TestImportEvents(t *testing.T) {
	importer, blocks := newImporter(t)
	ctx := context.Background()
	artistID := uuid.New()

	result, err := importer.ImportEvents(ctx, artistID, []CalendarEvent{
		{Type: "blocked", Title: "Tour leg", Description: "European tour", Start: date(2026, 3, 1), End: date(2026, 3, 5)},
		{Title: "Unavailable - dentist", Start: date(2026, 3, 10)},
		{Type: "gig", Title: "Show at Roxy", Start: date(2026, 3, 12)},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, result.Errors)

	stored, err := blocks.ListByArtist(ctx, artistID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "European tour", stored[0].Reason())
	assert.Equal(t, date(2026, 3, 5), stored[0].EndDate())
	assert.Equal(t, DefaultBlockReason, stored[1].Reason(), "missing description falls back")
	assert.Equal(t, date(2026, 3, 10), stored[1].EndDate(), "missing end collapses to start")
}

func TestImportEvents_MalformedItemDoesNotAbortBatch(t *testing.T) {
	importer, blocks := newImporter(t)
	ctx := context.Background()
	artistID := uuid.New()

	result, err := importer.ImportEvents(ctx, artistID, []CalendarEvent{
		{Type: "blocked", Title: "Backwards", Start: date(2026, 3, 5), End: date(2026, 3, 1)},
		{Type: "blocked", Title: "Fine", Start: date(2026, 3, 10), End: date(2026, 3, 11)},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 0, result.Errors[0].Index)
	assert.Equal(t, "Backwards", result.Errors[0].Title)

	stored, err := blocks.ListByArtist(ctx, artistID)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestImportICS(t *testing.T) {
	importer, blocks := newImporter(t)
	ctx := context.Background()
	artistID := uuid.New()

	ics := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Test//Test//EN",
		"BEGIN:VEVENT",
		"UID:abc@example.com",
		"DTSTAMP:20260101T000000Z",
		"DTSTART:20260301T000000Z",
		"DTEND:20260305T000000Z",
		"SUMMARY:Unavailable - on tour",
		"DESCRIPTION:European tour",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:def@example.com",
		"DTSTAMP:20260101T000000Z",
		"DTSTART:20260312T000000Z",
		"DTEND:20260312T000000Z",
		"SUMMARY:Show at Roxy",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")

	result, err := importer.ImportICS(ctx, artistID, strings.NewReader(ics))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Skipped)

	stored, err := blocks.ListByArtist(ctx, artistID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "European tour", stored[0].Reason())
	assert.Equal(t, date(2026, 3, 1), stored[0].StartDate())
}

func TestExportICal(t *testing.T) {
	blocks := availabilityPersistence.NewMemoryBlockRepository()
	exporter := NewExporter(blocks).WithClock(func() time.Time {
		return time.Date(2026, 2, 1, 12, 30, 0, 0, time.UTC)
	})
	ctx := context.Background()
	artistID := uuid.New()

	block, err := availability.NewBlock(artistID, date(2026, 3, 1), date(2026, 3, 5), "European tour", nil)
	require.NoError(t, err)
	require.NoError(t, blocks.Save(ctx, block))

	doc, err := exporter.ExportICal(ctx, artistID)
	require.NoError(t, err)

	expected := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Stagehand//Artist Availability Blocks//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"BEGIN:VEVENT",
		fmt.Sprintf("UID:block-%s@stagehand.app", block.ID()),
		"DTSTAMP:20260201T123000Z",
		"DTSTART:20260301T000000Z",
		"DTEND:20260305T000000Z",
		"SUMMARY:Unavailable - European tour",
		"DESCRIPTION:European tour",
		"STATUS:CONFIRMED",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")
	assert.Equal(t, expected, doc)
}

func TestExportICal_RecurringBlockStaysSingleEvent(t *testing.T) {
	blocks := availabilityPersistence.NewMemoryBlockRepository()
	exporter := NewExporter(blocks)
	ctx := context.Background()
	artistID := uuid.New()

	block, err := availability.NewBlock(artistID, date(2026, 1, 3), date(2026, 1, 3), "Weekend residency", &availability.Recurrence{
		Pattern:    availability.PatternWeekly,
		DaysOfWeek: []time.Weekday{time.Saturday, time.Sunday},
	})
	require.NoError(t, err)
	require.NoError(t, blocks.Save(ctx, block))

	doc, err := exporter.ExportICal(ctx, artistID)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(doc, "BEGIN:VEVENT"), "one VEVENT per stored block, recurrence not expanded")
}

func TestExportICal_EscapesReason(t *testing.T) {
	blocks := availabilityPersistence.NewMemoryBlockRepository()
	exporter := NewExporter(blocks)
	ctx := context.Background()
	artistID := uuid.New()

	block, err := availability.NewBlock(artistID, date(2026, 3, 1), date(2026, 3, 1), "travel, rest; prep", nil)
	require.NoError(t, err)
	require.NoError(t, blocks.Save(ctx, block))

	doc, err := exporter.ExportICal(ctx, artistID)
	require.NoError(t, err)
	assert.Contains(t, doc, "SUMMARY:Unavailable - travel\\, rest\\; prep")
}
