package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrossi-dev/lesson-booking/internal/gcal"
	"github.com/mrossi-dev/lesson-booking/internal/notify"
)

type insertCall struct {
	calendarID string
	input      gcal.EventInput
}

// fakeCalendar implements gcal.API and records every call, so tests can
// assert that validation failures reach no collaborator.
type fakeCalendar struct {
	insertErr error
	created   gcal.CreatedEvent
	inserts   []insertCall
	listCalls int
}

func (f *fakeCalendar) ListCalendars(ctx context.Context) ([]gcal.CalendarSource, error) {
	f.listCalls++
	return nil, nil
}

func (f *fakeCalendar) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]gcal.Event, error) {
	f.listCalls++
	return nil, nil
}

func (f *fakeCalendar) InsertEvent(ctx context.Context, calendarID string, input gcal.EventInput) (*gcal.CreatedEvent, error) {
	f.inserts = append(f.inserts, insertCall{calendarID: calendarID, input: input})
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	created := f.created
	return &created, nil
}

type fakeNotifier struct {
	err   error
	calls []notify.BookingNotification
}

func (f *fakeNotifier) BookingCreated(ctx context.Context, n notify.BookingNotification) error {
	f.calls = append(f.calls, n)
	return f.err
}

func validRequest() *Request {
	return &Request{
		Name:            "Anna Bianchi",
		Email:           "anna@example.com",
		Phone:           "+39 333 1234567",
		Date:            "2026-09-01",
		Time:            "10:00",
		DurationMinutes: 30,
	}
}

func romeLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)
	return loc
}

func TestBook_MissingPhoneRejectedBeforeCollaborators(t *testing.T) {
	cal := &fakeCalendar{}
	notifier := &fakeNotifier{}
	svc := NewService(cal, notifier, "primary", time.UTC, nil, nil)

	req := validRequest()
	req.Phone = ""

	outcome, err := svc.Book(context.Background(), req)
	require.Error(t, err)
	assert.Nil(t, outcome)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "phone", vErr.Field)

	assert.Zero(t, cal.listCalls, "validation failures must trigger no calendar calls")
	assert.Empty(t, cal.inserts)
	assert.Empty(t, notifier.calls)
}

func TestBook_NegativeDurationRejected(t *testing.T) {
	svc := NewService(&fakeCalendar{}, nil, "primary", time.UTC, nil, nil)

	req := validRequest()
	req.DurationMinutes = -15

	_, err := svc.Book(context.Background(), req)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "duration", vErr.Field)
}

func TestBook_UnparseableDateRejected(t *testing.T) {
	cal := &fakeCalendar{}
	svc := NewService(cal, nil, "primary", time.UTC, nil, nil)

	req := validRequest()
	req.Time = "25:99"

	_, err := svc.Book(context.Background(), req)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Empty(t, cal.inserts)
}

func TestBook_EventPayload(t *testing.T) {
	loc := romeLocation(t)
	cal := &fakeCalendar{created: gcal.CreatedEvent{ID: "evt-1", HTMLLink: "https://cal/evt-1"}}
	notifier := &fakeNotifier{}
	svc := NewService(cal, notifier, "lessons@group.calendar.google.com", loc, nil, nil)

	outcome, err := svc.Book(context.Background(), validRequest())
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.Equal(t, "evt-1", outcome.EventID)
	assert.Equal(t, "https://cal/evt-1", outcome.EventLink)
	assert.NoError(t, outcome.NotifyErr)

	require.Len(t, cal.inserts, 1)
	call := cal.inserts[0]
	assert.Equal(t, "lessons@group.calendar.google.com", call.calendarID)
	assert.Equal(t, "Lesson with Anna Bianchi", call.input.Summary)
	assert.Contains(t, call.input.Description, "+39 333 1234567")
	assert.Contains(t, call.input.Description, "anna@example.com")
	assert.Equal(t, "Europe/Rome", call.input.TimeZone)

	wantStart := time.Date(2026, 9, 1, 10, 0, 0, 0, loc)
	assert.True(t, call.input.Start.Equal(wantStart), "start should be parsed in the configured timezone")
	assert.Equal(t, 30*time.Minute, call.input.End.Sub(call.input.Start))

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, "https://cal/evt-1", notifier.calls[0].EventLink)
}

func TestBook_DefaultDurationApplied(t *testing.T) {
	cal := &fakeCalendar{created: gcal.CreatedEvent{ID: "evt-2"}}
	notifier := &fakeNotifier{}
	svc := NewService(cal, notifier, "", time.UTC, nil, nil)

	req := validRequest()
	req.DurationMinutes = 0

	_, err := svc.Book(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, cal.inserts, 1)
	call := cal.inserts[0]
	assert.Equal(t, "primary", call.calendarID, "empty calendar ID should fall back to primary")
	assert.Equal(t, 30*time.Minute, call.input.End.Sub(call.input.Start))
	require.Len(t, notifier.calls, 1)
	assert.Equal(t, DefaultDurationMinutes, notifier.calls[0].DurationMinutes)
}

func TestBook_InsertFailureAbortsFlow(t *testing.T) {
	cal := &fakeCalendar{insertErr: errors.New("quota exceeded")}
	notifier := &fakeNotifier{}
	svc := NewService(cal, notifier, "primary", time.UTC, nil, nil)

	outcome, err := svc.Book(context.Background(), validRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCalendarInsert)
	assert.Nil(t, outcome)
	assert.Empty(t, notifier.calls, "no notifications after a failed insert")
}

func TestBook_NotifyFailureKeepsBooking(t *testing.T) {
	cal := &fakeCalendar{created: gcal.CreatedEvent{ID: "evt-3", HTMLLink: "https://cal/evt-3"}}
	notifier := &fakeNotifier{err: errors.New("smtp relay down")}
	svc := NewService(cal, notifier, "primary", time.UTC, nil, nil)

	outcome, err := svc.Book(context.Background(), validRequest())
	require.NoError(t, err, "a notification failure is not a booking failure")
	require.NotNil(t, outcome)
	assert.Equal(t, "evt-3", outcome.EventID, "the event must be reported as created")
	assert.Error(t, outcome.NotifyErr)
}

func TestBook_NoNotifierConfigured(t *testing.T) {
	cal := &fakeCalendar{created: gcal.CreatedEvent{ID: "evt-4"}}
	svc := NewService(cal, nil, "primary", time.UTC, nil, nil)

	outcome, err := svc.Book(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "evt-4", outcome.EventID)
	assert.NoError(t, outcome.NotifyErr)
}
