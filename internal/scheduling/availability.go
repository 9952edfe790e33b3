package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/mrossi-dev/lesson-booking/internal/gcal"
	"github.com/mrossi-dev/lesson-booking/internal/observability/metrics"
	"github.com/mrossi-dev/lesson-booking/pkg/logging"
)

// DayAvailability is the resolved availability for one calendar day.
// SourceErrors lists calendars that failed to answer; their busy time is
// missing from the result, which is best-effort by design.
type DayAvailability struct {
	Date         time.Time
	Slots        []Slot
	SourceErrors []SourceError
}

// Service computes availability from the live calendar collaborator.
// It holds no state across requests; every call re-derives busy time.
type Service struct {
	api      gcal.API
	grid     Grid
	location *time.Location
	metrics  *metrics.SchedulerMetrics
	logger   *logging.Logger
}

// NewService creates an availability service.
func NewService(api gcal.API, grid Grid, location *time.Location, m *metrics.SchedulerMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if location == nil {
		location = time.UTC
	}
	return &Service{
		api:      api,
		grid:     grid,
		location: location,
		metrics:  m,
		logger:   logger,
	}
}

// Calendars enumerates the provider's calendar sources.
func (s *Service) Calendars(ctx context.Context) ([]gcal.CalendarSource, error) {
	sources, err := s.api.ListCalendars(ctx)
	if err != nil {
		return nil, fmt.Errorf("scheduling: list calendars: %w", err)
	}
	return sources, nil
}

// AvailableSlots computes the free slot grid for the given day. Busy time
// is aggregated across every calendar source; a source that fails to
// answer is logged, counted, and treated as empty for this request.
func (s *Service) AvailableSlots(ctx context.Context, date time.Time) (*DayAvailability, error) {
	started := time.Now()

	sources, err := s.api.ListCalendars(ctx)
	if err != nil {
		s.metrics.ObserveAvailability("error", 0, time.Since(started).Seconds())
		return nil, fmt.Errorf("scheduling: list calendar sources: %w", err)
	}

	busy, srcErrs := s.collectBusyIntervals(ctx, date, sources)
	for _, se := range srcErrs {
		s.logger.Warn("calendar source query failed, treating as empty",
			"calendar_id", se.CalendarID,
			"date", date.Format("2006-01-02"),
			"error", se.Err,
		)
		s.metrics.ObserveSourceFailure(se.CalendarID)
	}

	free := Resolve(s.grid.Slots(), busy)

	s.logger.Info("availability resolved",
		"date", date.Format("2006-01-02"),
		"sources", len(sources),
		"failed_sources", len(srcErrs),
		"busy_intervals", len(busy),
		"free_slots", len(free),
	)
	s.metrics.ObserveAvailability("ok", len(free), time.Since(started).Seconds())

	return &DayAvailability{Date: date, Slots: free, SourceErrors: srcErrs}, nil
}

// Resolve returns the slots that overlap no busy interval, preserving the
// grid's chronological order. Any overlap, even partial, excludes a slot.
func Resolve(grid []Slot, busy []BusyInterval) []Slot {
	free := make([]Slot, 0, len(grid))
	for _, slot := range grid {
		blocked := false
		for _, b := range busy {
			if b.Overlaps(slot) {
				blocked = true
				break
			}
		}
		if !blocked {
			free = append(free, slot)
		}
	}
	return free
}
