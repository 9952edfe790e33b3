package booking

import (
	"errors"
	"fmt"
)

// ValidationError reports a missing or malformed booking request field.
// Validation always runs before any collaborator call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("booking: invalid field %q: %s", e.Field, e.Reason)
}

// ErrCalendarInsert marks a failed event insert: nothing was created and no
// notifications were attempted.
var ErrCalendarInsert = errors.New("booking: calendar insert failed")
