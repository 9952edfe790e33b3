package scheduling

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mrossi-dev/lesson-booking/pkg/logging"
)

// Handler handles HTTP requests for availability and calendar listings
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

// NewHandler creates a new scheduling handler
func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// AvailableSlotsResponse is the response for GET /available-slots
type AvailableSlotsResponse struct {
	Date           string   `json:"date"`
	AvailableSlots []string `json:"available_slots"`
}

// GetAvailableSlots handles GET /available-slots?date=YYYY-MM-DD
func (h *Handler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		http.Error(w, "missing date parameter", http.StatusBadRequest)
		return
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		http.Error(w, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	avail, err := h.svc.AvailableSlots(r.Context(), date)
	if err != nil {
		h.logger.Error("failed to compute availability", "date", dateStr, "error", err)
		http.Error(w, "failed to compute availability", http.StatusInternalServerError)
		return
	}

	slots := make([]string, 0, len(avail.Slots))
	for _, slot := range avail.Slots {
		slots = append(slots, slot.Start.String())
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(AvailableSlotsResponse{
		Date:           dateStr,
		AvailableSlots: slots,
	})
}

// CalendarInfo describes one calendar source in API responses
type CalendarInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Primary bool   `json:"primary"`
}

// CalendarsResponse is the response for GET /calendars
type CalendarsResponse struct {
	Calendars []CalendarInfo `json:"calendars"`
}

// ListCalendars handles GET /calendars
func (h *Handler) ListCalendars(w http.ResponseWriter, r *http.Request) {
	sources, err := h.svc.Calendars(r.Context())
	if err != nil {
		h.logger.Error("failed to list calendars", "error", err)
		http.Error(w, "failed to list calendars", http.StatusInternalServerError)
		return
	}

	resp := CalendarsResponse{Calendars: make([]CalendarInfo, 0, len(sources))}
	for _, src := range sources {
		resp.Calendars = append(resp.Calendars, CalendarInfo{
			ID:      src.ID,
			Name:    src.Name,
			Primary: src.Primary,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
