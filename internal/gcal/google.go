package gcal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/mrossi-dev/lesson-booking/pkg/logging"
)

// Client talks to Google Calendar v3 using a stored OAuth token.
type Client struct {
	svc    *calendar.Service
	logger *logging.Logger
}

// Credentials locates the OAuth client secret and the stored user token.
// Token refresh is handled by the oauth2 token source; producing the token
// file in the first place is the job of a separate authorization flow.
type Credentials struct {
	CredentialsFile string
	TokenFile       string
}

// NewClient builds a calendar client from stored credentials.
func NewClient(ctx context.Context, creds Credentials, logger *logging.Logger) (*Client, error) {
	if logger == nil {
		logger = logging.Default()
	}

	secret, err := os.ReadFile(creds.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("gcal: read client secret: %w", err)
	}
	conf, err := google.ConfigFromJSON(secret, calendar.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("gcal: parse client secret: %w", err)
	}

	raw, err := os.ReadFile(creds.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("gcal: read token: %w", err)
	}
	tok := &oauth2.Token{}
	if err := json.Unmarshal(raw, tok); err != nil {
		return nil, fmt.Errorf("gcal: parse token: %w", err)
	}

	svc, err := calendar.NewService(ctx, option.WithTokenSource(conf.TokenSource(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("gcal: build calendar service: %w", err)
	}

	return &Client{svc: svc, logger: logger}, nil
}

// ListCalendars enumerates all calendars on the provider's calendar list.
func (c *Client) ListCalendars(ctx context.Context) ([]CalendarSource, error) {
	list, err := c.svc.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("gcal: list calendars: %w", err)
	}

	sources := make([]CalendarSource, 0, len(list.Items))
	for _, item := range list.Items {
		sources = append(sources, CalendarSource{
			ID:      item.Id,
			Name:    item.Summary,
			Primary: item.Primary,
		})
	}
	return sources, nil
}

// ListEvents returns the single (non-recurring-expanded) events of one
// calendar within [timeMin, timeMax), ordered by start time.
func (c *Client) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]Event, error) {
	res, err := c.svc.Events.List(calendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("gcal: list events for %s: %w", calendarID, err)
	}

	events := make([]Event, 0, len(res.Items))
	for _, item := range res.Items {
		ev, err := eventFromAPI(item)
		if err != nil {
			c.logger.Warn("skipping event with unparseable time", "calendar_id", calendarID, "event_id", item.Id, "error", err)
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

// InsertEvent creates an event with explicit timezone-qualified bounds.
func (c *Client) InsertEvent(ctx context.Context, calendarID string, input EventInput) (*CreatedEvent, error) {
	ev := &calendar.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Start: &calendar.EventDateTime{
			DateTime: input.Start.Format(time.RFC3339),
			TimeZone: input.TimeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: input.End.Format(time.RFC3339),
			TimeZone: input.TimeZone,
		},
	}

	created, err := c.svc.Events.Insert(calendarID, ev).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("gcal: insert event into %s: %w", calendarID, err)
	}

	c.logger.Info("event created", "calendar_id", calendarID, "event_id", created.Id)
	return &CreatedEvent{ID: created.Id, HTMLLink: created.HtmlLink}, nil
}

// eventFromAPI translates an API event to the domain type. All-day entries
// (date only, no dateTime) keep zero timestamps.
func eventFromAPI(item *calendar.Event) (Event, error) {
	ev := Event{ID: item.Id, Summary: item.Summary}

	if item.Start != nil && item.Start.DateTime != "" {
		start, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			return Event{}, fmt.Errorf("start time %q: %w", item.Start.DateTime, err)
		}
		ev.Start = start
	}
	if item.End != nil && item.End.DateTime != "" {
		end, err := time.Parse(time.RFC3339, item.End.DateTime)
		if err != nil {
			return Event{}, fmt.Errorf("end time %q: %w", item.End.DateTime, err)
		}
		ev.End = end
	}
	return ev, nil
}

// Ensure interface compliance
var _ API = (*Client)(nil)
