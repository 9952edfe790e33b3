// Package booking validates booking requests, creates the calendar event,
// and coordinates the post-booking notifications.
package booking

import (
	"strings"
	"time"
)

// DefaultDurationMinutes is applied when the client omits the duration.
const DefaultDurationMinutes = 30

// Request is the client-submitted booking payload.
type Request struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	DurationMinutes int    `json:"duration"`
}

// Normalize applies defaults for optional fields.
func (r *Request) Normalize() {
	if r.DurationMinutes == 0 {
		r.DurationMinutes = DefaultDurationMinutes
	}
}

// Validate checks field presence and shape. It performs no collaborator calls.
func (r *Request) Validate() error {
	checks := []struct {
		field string
		value string
	}{
		{"name", r.Name},
		{"email", r.Email},
		{"phone", r.Phone},
		{"date", r.Date},
		{"time", r.Time},
	}
	for _, c := range checks {
		if strings.TrimSpace(c.value) == "" {
			return &ValidationError{Field: c.field, Reason: "required"}
		}
	}
	if r.DurationMinutes < 0 {
		return &ValidationError{Field: "duration", Reason: "must be positive"}
	}
	return nil
}

// StartTime parses the date and time fields into an instant in the given
// timezone.
func (r *Request) StartTime(loc *time.Location) (time.Time, error) {
	start, err := time.ParseInLocation("2006-01-02 15:04", r.Date+" "+r.Time, loc)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date", Reason: "date and time must form a valid instant (YYYY-MM-DD HH:MM)"}
	}
	return start, nil
}
