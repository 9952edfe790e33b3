// Package scheduling computes the provider's bookable slot grid and resolves
// it against busy time pulled from the calendar collaborator.
package scheduling

import (
	"fmt"
	"time"
)

// TimeOfDay is a clock time expressed as minutes since midnight.
type TimeOfDay int

// NewTimeOfDay builds a TimeOfDay from an hour and minute.
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay parses an "HH:MM" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return 0, fmt.Errorf("scheduling: invalid time of day %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("scheduling: time of day %q out of range", s)
	}
	return NewTimeOfDay(hour, minute), nil
}

// TimeOfDayFrom projects a wall-clock instant onto its time-of-day component.
// The caller is responsible for converting the instant to the business
// timezone first.
func TimeOfDayFrom(t time.Time) TimeOfDay {
	return NewTimeOfDay(t.Hour(), t.Minute())
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Slot is one fixed-duration candidate appointment window.
type Slot struct {
	Start TimeOfDay
	End   TimeOfDay
}

// Grid describes the provider's bookable day: business-hour bounds and the
// fixed slot length.
type Grid struct {
	Open       TimeOfDay
	Close      TimeOfDay
	SlotLength time.Duration
}

// DefaultGrid is the provider's standard day: 09:00-20:00, 30-minute slots.
func DefaultGrid() Grid {
	return Grid{
		Open:       NewTimeOfDay(9, 0),
		Close:      NewTimeOfDay(20, 0),
		SlotLength: 30 * time.Minute,
	}
}

// Slots generates the ordered candidate grid: starts at Open, steps by
// SlotLength, and stops at the last start strictly before Close. The grid is
// a pure function of the configuration and is recomputed per request.
func (g Grid) Slots() []Slot {
	step := TimeOfDay(g.SlotLength / time.Minute)
	if step <= 0 {
		return nil
	}

	var slots []Slot
	for start := g.Open; start < g.Close; start += step {
		slots = append(slots, Slot{Start: start, End: start + step})
	}
	return slots
}
