package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	availability "github.com/stagehandhq/stagehand/internal/availability/domain"
)

const (
	productID = "-//Stagehand//Artist Availability Blocks//EN"
	uidDomain = "stagehand.app"

	// Basic UTC form required by consumers of the feed.
	stampLayout = "20060102T150405Z"
)

// Exporter renders an artist's stored blocks as an iCalendar document, one
// VEVENT per stored block. Recurrences are not expanded; the consumer sees
// the block's literal range.
type Exporter struct {
	blocks availability.BlockRepository
	now    func() time.Time
}

// NewExporter creates an Exporter.
func NewExporter(blocks availability.BlockRepository) *Exporter {
	return &Exporter{blocks: blocks, now: time.Now}
}

// WithClock overrides the DTSTAMP clock.
func (e *Exporter) WithClock(now func() time.Time) *Exporter {
	e.now = now
	return e
}

// ExportICal renders the artist's blocks. The property layout is fixed;
// downstream parsers match on it.
func (e *Exporter) ExportICal(ctx context.Context, artistID uuid.UUID) (string, error) {
	blocks, err := e.blocks.ListByArtist(ctx, artistID)
	if err != nil {
		return "", err
	}

	stamp := e.now().UTC().Format(stampLayout)

	var b strings.Builder
	writeLine := func(line string) {
		b.WriteString(line)
		b.WriteString("\r\n")
	}

	writeLine("BEGIN:VCALENDAR")
	writeLine("VERSION:2.0")
	writeLine("PRODID:" + productID)
	writeLine("CALSCALE:GREGORIAN")
	writeLine("METHOD:PUBLISH")
	for _, block := range blocks {
		writeLine("BEGIN:VEVENT")
		writeLine("UID:block-" + block.ID().String() + "@" + uidDomain)
		writeLine("DTSTAMP:" + stamp)
		writeLine("DTSTART:" + block.StartDate().UTC().Format(stampLayout))
		writeLine("DTEND:" + block.EndDate().UTC().Format(stampLayout))
		writeLine("SUMMARY:Unavailable - " + escapeText(block.Reason()))
		writeLine("DESCRIPTION:" + escapeText(block.Reason()))
		writeLine("STATUS:CONFIRMED")
		writeLine("END:VEVENT")
	}
	writeLine("END:VCALENDAR")

	return b.String(), nil
}

// escapeText escapes the characters RFC 5545 reserves in text values.
func escapeText(s string) string {
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\n", "\\n",
	)
	return replacer.Replace(s)
}
