package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/mrossi-dev/lesson-booking/internal/gcal"
)

// BusyInterval is a time-of-day range occupied by an existing calendar
// event, tagged with the calendar it came from. Intervals from different
// sources may overlap each other; overlap merges naturally at resolution.
type BusyInterval struct {
	Start      TimeOfDay
	End        TimeOfDay
	CalendarID string
}

// Overlaps applies the half-open intersection test against a slot.
// Touching edges do not conflict.
func (b BusyInterval) Overlaps(s Slot) bool {
	return s.Start < b.End && s.End > b.Start
}

// SourceError records one calendar source that failed to answer a query.
type SourceError struct {
	CalendarID string
	Err        error
}

func (e SourceError) Error() string {
	return fmt.Sprintf("scheduling: calendar source %s: %v", e.CalendarID, e.Err)
}

func (e SourceError) Unwrap() error { return e.Err }

// collectBusyIntervals queries each source for the day-long window
// [dayStart, dayStart+24h) and projects timed events onto time-of-day in
// the service timezone. A failing source is recorded and skipped; the
// union of the successful sources is still returned. Sources are queried
// independently, with no retries and no rollback.
func (s *Service) collectBusyIntervals(ctx context.Context, date time.Time, sources []gcal.CalendarSource) ([]BusyInterval, []SourceError) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, s.location)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var busy []BusyInterval
	var srcErrs []SourceError
	for _, src := range sources {
		events, err := s.api.ListEvents(ctx, src.ID, dayStart, dayEnd)
		if err != nil {
			srcErrs = append(srcErrs, SourceError{CalendarID: src.ID, Err: err})
			continue
		}
		for _, ev := range events {
			if !ev.Timed() {
				continue
			}
			busy = append(busy, BusyInterval{
				Start:      TimeOfDayFrom(ev.Start.In(s.location)),
				End:        TimeOfDayFrom(ev.End.In(s.location)),
				CalendarID: src.ID,
			})
		}
	}
	return busy, srcErrs
}
