package metrics

import "github.com/prometheus/client_golang/prometheus"

// SchedulerMetrics exposes counters/histograms for availability lookups.
type SchedulerMetrics struct {
	availabilityTotal  *prometheus.CounterVec
	sourceFailures     *prometheus.CounterVec
	availabilitySlots  prometheus.Histogram
	resolutionDuration prometheus.Histogram
}

func NewSchedulerMetrics(reg prometheus.Registerer) *SchedulerMetrics {
	m := &SchedulerMetrics{
		availabilityTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lessons",
			Subsystem: "scheduling",
			Name:      "availability_requests_total",
			Help:      "Total availability computations",
		}, []string{"status"}),
		sourceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lessons",
			Subsystem: "scheduling",
			Name:      "source_query_failures_total",
			Help:      "Calendar sources that failed to answer an availability query",
		}, []string{"calendar_id"}),
		availabilitySlots: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lessons",
			Subsystem: "scheduling",
			Name:      "free_slots",
			Help:      "Free slots returned per availability computation",
			Buckets:   prometheus.LinearBuckets(0, 2, 12),
		}),
		resolutionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lessons",
			Subsystem: "scheduling",
			Name:      "resolution_duration_seconds",
			Help:      "Latency of a full availability computation",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.availabilityTotal, m.sourceFailures, m.availabilitySlots, m.resolutionDuration)
	return m
}

func (m *SchedulerMetrics) ObserveAvailability(status string, freeSlots int, seconds float64) {
	if m == nil {
		return
	}
	m.availabilityTotal.WithLabelValues(status).Inc()
	if status == "ok" {
		m.availabilitySlots.Observe(float64(freeSlots))
	}
	m.resolutionDuration.Observe(seconds)
}

func (m *SchedulerMetrics) ObserveSourceFailure(calendarID string) {
	if m == nil {
		return
	}
	m.sourceFailures.WithLabelValues(calendarID).Inc()
}

// BookingMetrics exposes counters for booking outcomes.
type BookingMetrics struct {
	bookingsTotal   *prometheus.CounterVec
	bookingDuration prometheus.Histogram
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lessons",
			Subsystem: "booking",
			Name:      "requests_total",
			Help:      "Total booking attempts by outcome",
		}, []string{"outcome"}),
		bookingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lessons",
			Subsystem: "booking",
			Name:      "duration_seconds",
			Help:      "Latency of booking attempts",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.bookingDuration)
	return m
}

// Outcome labels for ObserveBooking.
const (
	OutcomeBooked       = "booked"
	OutcomeNotifyFailed = "booked_notify_failed"
	OutcomeFailed       = "failed"
	OutcomeRejected     = "rejected"
)

func (m *BookingMetrics) ObserveBooking(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
	m.bookingDuration.Observe(seconds)
}
