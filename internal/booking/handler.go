package booking

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mrossi-dev/lesson-booking/pkg/logging"
)

// Handler handles HTTP requests for bookings
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

// NewHandler creates a new booking handler
func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// BookLessonResponse is the response for a successful POST /book-lesson
type BookLessonResponse struct {
	Message   string `json:"message"`
	EventLink string `json:"event_link,omitempty"`
}

// BookLesson handles POST /book-lesson
func (h *Handler) BookLesson(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	outcome, err := h.svc.Book(r.Context(), &req)
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			http.Error(w, vErr.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("booking failed", "error", err)
		http.Error(w, "failed to create the booking in the calendar", http.StatusInternalServerError)
		return
	}

	// The event exists even when notifications fail; the distinct message
	// tells callers not to treat this as a failed booking.
	if outcome.NotifyErr != nil {
		http.Error(w, "booking created, but the confirmation email could not be sent", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(BookLessonResponse{
		Message:   "Booking confirmed!",
		EventLink: outcome.EventLink,
	})
}
