// Package gcal wraps the Google Calendar collaborator behind a narrow
// interface so the scheduling and booking services can be tested against
// fakes and, if needed, pointed at a different calendar backend.
package gcal

import (
	"context"
	"time"
)

// CalendarSource identifies one calendar owned by the provider.
type CalendarSource struct {
	ID      string
	Name    string
	Primary bool
}

// Event is a single calendar event. All-day entries carry no timestamps;
// their Start and End are left as zero values.
type Event struct {
	ID      string
	Summary string
	Start   time.Time
	End     time.Time
}

// Timed reports whether the event has both a start and an end timestamp.
func (e Event) Timed() bool {
	return !e.Start.IsZero() && !e.End.IsZero()
}

// EventInput is the payload for creating a new event.
type EventInput struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	TimeZone    string
}

// CreatedEvent is returned after a successful insert.
type CreatedEvent struct {
	ID       string
	HTMLLink string
}

// API is the calendar collaborator surface consumed by the core.
type API interface {
	// ListCalendars enumerates all calendars visible to the provider.
	ListCalendars(ctx context.Context) ([]CalendarSource, error)

	// ListEvents returns the events of one calendar within [timeMin, timeMax).
	ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]Event, error)

	// InsertEvent creates an event in the given calendar.
	InsertEvent(ctx context.Context, calendarID string, input EventInput) (*CreatedEvent, error)
}
