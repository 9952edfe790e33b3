package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/mrossi-dev/lesson-booking/internal/gcal"
	"github.com/mrossi-dev/lesson-booking/internal/notify"
	"github.com/mrossi-dev/lesson-booking/internal/observability/metrics"
	"github.com/mrossi-dev/lesson-booking/pkg/logging"
)

// Notifier dispatches post-booking notifications.
type Notifier interface {
	BookingCreated(ctx context.Context, n notify.BookingNotification) error
}

// Outcome is the result of a booking whose calendar event was created.
// NotifyErr is set when one of the notification dispatches failed after the
// fact; the event stands either way.
type Outcome struct {
	EventID   string
	EventLink string
	NotifyErr error
}

// Service coordinates booking creation against the calendar collaborator.
type Service struct {
	api        gcal.API
	notifier   Notifier
	calendarID string
	location   *time.Location
	metrics    *metrics.BookingMetrics
	logger     *logging.Logger
}

// NewService creates a booking service targeting the given lessons calendar.
func NewService(api gcal.API, notifier Notifier, calendarID string, location *time.Location, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if calendarID == "" {
		calendarID = "primary"
	}
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		api:        api,
		notifier:   notifier,
		calendarID: calendarID,
		location:   location,
		metrics:    m,
		logger:     logger,
	}
}

// Book validates the request, inserts the event, and dispatches the two
// notification emails. There is no availability re-check at insert time:
// the caller is trusted to have fetched current availability, and two
// concurrent requests for the same slot can both succeed if the calendar
// backend accepts overlapping events.
func (s *Service) Book(ctx context.Context, req *Request) (*Outcome, error) {
	started := time.Now()

	req.Normalize()
	if err := req.Validate(); err != nil {
		s.metrics.ObserveBooking(metrics.OutcomeRejected, time.Since(started).Seconds())
		return nil, err
	}
	start, err := req.StartTime(s.location)
	if err != nil {
		s.metrics.ObserveBooking(metrics.OutcomeRejected, time.Since(started).Seconds())
		return nil, err
	}
	end := start.Add(time.Duration(req.DurationMinutes) * time.Minute)

	input := gcal.EventInput{
		Summary:     fmt.Sprintf("Lesson with %s", req.Name),
		Description: fmt.Sprintf("Phone: %s\nEmail: %s", req.Phone, req.Email),
		Start:       start,
		End:         end,
		TimeZone:    s.location.String(),
	}

	created, err := s.api.InsertEvent(ctx, s.calendarID, input)
	if err != nil {
		s.logger.Error("event insert failed", "calendar_id", s.calendarID, "error", err)
		s.metrics.ObserveBooking(metrics.OutcomeFailed, time.Since(started).Seconds())
		return nil, fmt.Errorf("%w: %v", ErrCalendarInsert, err)
	}

	s.logger.Info("booking created",
		"calendar_id", s.calendarID,
		"event_id", created.ID,
		"start", start.Format(time.RFC3339),
		"duration_minutes", req.DurationMinutes,
	)

	outcome := &Outcome{EventID: created.ID, EventLink: created.HTMLLink}

	if s.notifier != nil {
		notification := notify.BookingNotification{
			Name:            req.Name,
			Email:           req.Email,
			Phone:           req.Phone,
			Date:            req.Date,
			Time:            req.Time,
			DurationMinutes: req.DurationMinutes,
			EventLink:       created.HTMLLink,
		}
		if err := s.notifier.BookingCreated(ctx, notification); err != nil {
			// The event stays created; there is no compensating delete.
			s.logger.Error("booking created but notification failed", "event_id", created.ID, "error", err)
			s.metrics.ObserveBooking(metrics.OutcomeNotifyFailed, time.Since(started).Seconds())
			outcome.NotifyErr = err
			return outcome, nil
		}
	}

	s.metrics.ObserveBooking(metrics.OutcomeBooked, time.Since(started).Seconds())
	return outcome, nil
}
