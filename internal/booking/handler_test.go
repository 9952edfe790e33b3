package booking

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mrossi-dev/lesson-booking/internal/gcal"
)

func postBookLesson(t *testing.T, handler *Handler, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/book-lesson", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.BookLesson(w, req)
	return w
}

func TestBookLesson_Success(t *testing.T) {
	cal := &fakeCalendar{created: gcal.CreatedEvent{ID: "evt-1", HTMLLink: "https://cal/evt-1"}}
	svc := NewService(cal, &fakeNotifier{}, "primary", time.UTC, nil, nil)
	handler := NewHandler(svc, nil)

	w := postBookLesson(t, handler, validRequest())

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp BookLessonResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Message == "" {
		t.Error("expected a confirmation message")
	}
	if resp.EventLink != "https://cal/evt-1" {
		t.Errorf("expected event link in response, got %q", resp.EventLink)
	}
}

func TestBookLesson_InvalidJSON(t *testing.T) {
	svc := NewService(&fakeCalendar{}, nil, "primary", time.UTC, nil, nil)
	handler := NewHandler(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/book-lesson", strings.NewReader("{"))
	w := httptest.NewRecorder()

	handler.BookLesson(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestBookLesson_MissingField(t *testing.T) {
	cal := &fakeCalendar{}
	svc := NewService(cal, nil, "primary", time.UTC, nil, nil)
	handler := NewHandler(svc, nil)

	req := validRequest()
	req.Email = ""
	w := postBookLesson(t, handler, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	if len(cal.inserts) != 0 {
		t.Error("rejected requests must not reach the calendar")
	}
}

func TestBookLesson_InsertFailure(t *testing.T) {
	cal := &fakeCalendar{insertErr: errors.New("backend down")}
	svc := NewService(cal, nil, "primary", time.UTC, nil, nil)
	handler := NewHandler(svc, nil)

	w := postBookLesson(t, handler, validRequest())

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
	if !strings.Contains(w.Body.String(), "failed to create the booking") {
		t.Errorf("expected booking-failed message, got %q", w.Body.String())
	}
}

func TestBookLesson_NotifyFailureDistinctMessage(t *testing.T) {
	cal := &fakeCalendar{created: gcal.CreatedEvent{ID: "evt-2"}}
	notifier := &fakeNotifier{err: errors.New("relay down")}
	svc := NewService(cal, notifier, "primary", time.UTC, nil, nil)
	handler := NewHandler(svc, nil)

	w := postBookLesson(t, handler, validRequest())

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "booking created") {
		t.Errorf("response must say the booking was created, got %q", body)
	}
	if strings.Contains(body, "failed to create the booking") {
		t.Errorf("notify failure must not reuse the booking-failed message, got %q", body)
	}
}
