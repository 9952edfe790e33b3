package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrossi-dev/lesson-booking/pkg/logging"
)

// BookingNotification carries the details of a confirmed booking for the
// operator and requester emails.
type BookingNotification struct {
	Name            string
	Email           string
	Phone           string
	Date            string
	Time            string
	DurationMinutes int
	EventLink       string
}

// Service sends booking notifications to the operator and the requester.
type Service struct {
	email         EmailSender
	operatorEmail string
	logger        *logging.Logger
}

// NewService creates a notification service.
func NewService(email EmailSender, operatorEmail string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:         email,
		operatorEmail: operatorEmail,
		logger:        logger,
	}
}

// BookingCreated dispatches the operator and requester emails for a booking
// that has already been created. Both sends are always attempted; failures
// are collected and returned together so the caller can surface a partial
// outcome. The booking itself is never affected by a send failure.
func (s *Service) BookingCreated(ctx context.Context, n BookingNotification) error {
	if s.email == nil {
		s.logger.Warn("notify: no email sender configured, skipping booking notifications")
		return nil
	}

	var errs []error

	if s.operatorEmail != "" {
		msg := EmailMessage{
			To:      s.operatorEmail,
			Subject: fmt.Sprintf("New lesson booking: %s", n.Name),
			Body:    s.operatorBody(n),
		}
		if err := s.email.Send(ctx, msg); err != nil {
			s.logger.Error("notify: operator email failed", "error", err, "to", s.operatorEmail)
			errs = append(errs, err)
		}
	} else {
		s.logger.Warn("notify: operator email not configured, skipping operator notification")
	}

	msg := EmailMessage{
		To:      n.Email,
		ToName:  n.Name,
		Subject: "Lesson booking confirmed",
		Body:    s.requesterBody(n),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Error("notify: requester email failed", "error", err, "to", n.Email)
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify: %d notification(s) failed: %w", len(errs), errors.Join(errs...))
	}
	return nil
}

func (s *Service) operatorBody(n BookingNotification) string {
	link := n.EventLink
	if link == "" {
		link = "N/A"
	}
	return fmt.Sprintf(`You have received a new booking:

Name: %s
Email: %s
Phone: %s
Date: %s
Time: %s
Duration: %d minutes

Event link: %s
`, n.Name, n.Email, n.Phone, n.Date, n.Time, n.DurationMinutes, link)
}

func (s *Service) requesterBody(n BookingNotification) string {
	return fmt.Sprintf(`Hi %s,

Your lesson has been booked!

Date: %s
Time: %s
Duration: %d minutes

Teacher contact:
Email: %s

See you soon!
`, n.Name, n.Date, n.Time, n.DurationMinutes, s.operatorEmail)
}
