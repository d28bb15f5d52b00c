// Package caldav pulls events from a CalDAV calendar (Apple Calendar,
// Fastmail, Nextcloud, etc.) for import as availability blocks.
package caldav

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"

	syncApp "github.com/stagehandhq/stagehand/internal/sync/application"
)

// Common CalDAV server URLs
const (
	AppleCalDAVURL    = "https://caldav.icloud.com"
	FastmailCalDAVURL = "https://caldav.fastmail.com"
)

// Puller fetches events from a CalDAV calendar. It is read-only; nothing is
// ever written back to the remote calendar.
type Puller struct {
	baseURL      string
	username     string
	password     string // App-specific password for Apple
	calendarPath string // Specific calendar path, or empty for default
}

// NewPuller creates a CalDAV puller.
func NewPuller(baseURL, username, password string) *Puller {
	return &Puller{baseURL: baseURL, username: username, password: password}
}

// WithCalendarPath sets the specific calendar path to use.
func (p *Puller) WithCalendarPath(path string) *Puller {
	p.calendarPath = path
	return p
}

// FetchEvents returns the remote events within [start, end].
func (p *Puller) FetchEvents(ctx context.Context, start, end time.Time) ([]syncApp.CalendarEvent, error) {
	client, err := p.getClient()
	if err != nil {
		return nil, err
	}

	calPath, err := p.findCalendarPath(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("failed to find calendar: %w", err)
	}

	query := &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name:  "VCALENDAR",
			Props: []string{"VERSION"},
			Comps: []caldav.CalendarCompRequest{
				{
					Name:  "VEVENT",
					Props: []string{"SUMMARY", "DTSTART", "DTEND", "UID", "DESCRIPTION", "STATUS"},
				},
			},
		},
		CompFilter: caldav.CompFilter{
			Name: "VCALENDAR",
			Comps: []caldav.CompFilter{
				{
					Name:  "VEVENT",
					Start: start,
					End:   end,
				},
			},
		},
	}

	objects, err := client.QueryCalendar(ctx, calPath, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query calendar: %w", err)
	}

	var events []syncApp.CalendarEvent
	for _, obj := range objects {
		if obj.Data == nil {
			continue
		}
		for _, child := range obj.Data.Children {
			if child.Name != ical.CompEvent {
				continue
			}
			events = append(events, parseComponent(child))
		}
	}
	return events, nil
}

func (p *Puller) getClient() (*caldav.Client, error) {
	httpClient := &http.Client{Timeout: 30 * time.Second}

	client, err := caldav.NewClient(webdav.HTTPClientWithBasicAuth(httpClient, p.username, p.password), p.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create caldav client: %w", err)
	}
	return client, nil
}

func (p *Puller) findCalendarPath(ctx context.Context, client *caldav.Client) (string, error) {
	if p.calendarPath != "" {
		return p.calendarPath, nil
	}

	principal, err := client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to find principal: %w", err)
	}

	homeSet, err := client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return "", fmt.Errorf("failed to find calendar home set: %w", err)
	}

	cals, err := client.FindCalendars(ctx, homeSet)
	if err != nil {
		return "", fmt.Errorf("failed to find calendars: %w", err)
	}
	if len(cals) == 0 {
		return "", fmt.Errorf("no calendars found")
	}

	// Use first calendar as default
	return cals[0].Path, nil
}

func parseComponent(component *ical.Component) syncApp.CalendarEvent {
	event := syncApp.CalendarEvent{}
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
