package handlers

import (
	"net/http"

	"github.com/zatekoja/hospitaladmin/internal/application/services"
)

// SchedulerHandler handles the AI appointment scheduler
type SchedulerHandler struct {
	scheduler *services.SchedulerService
	bookings  *services.BookingService
}

// NewSchedulerHandler creates a new scheduler handler
func NewSchedulerHandler(scheduler *services.SchedulerService, bookings *services.BookingService) *SchedulerHandler {
	return &SchedulerHandler{scheduler: scheduler, bookings: bookings}
}

type suggestRequest struct {
	Text string `json:"text"`
}

type prefillRequest struct {
	DoctorName string `json:"doctorName"`
}

// Suggest handles POST /api/scheduler/suggestions
func (h *SchedulerHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	suggestion, err := h.scheduler.Suggest(r.Context(), sessionOwner(r), req.Text)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, suggestion)
}

// Confirm handles POST /api/scheduler/confirm
func (h *SchedulerHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req services.ConfirmRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, created, err := h.scheduler.Confirm(r.Context(), req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondWithJSON(w, status, booking)
}

// Status handles GET /api/scheduler/status
func (h *SchedulerHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"available": h.scheduler.Available(),
		"state":     h.scheduler.Status(sessionOwner(r)),
	})
}

// SetPrefill handles PUT /api/scheduler/prefill
func (h *SchedulerHandler) SetPrefill(w http.ResponseWriter, r *http.Request) {
	var req prefillRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	h.bookings.SetPrefill(r.Context(), sessionOwner(r), req.DoctorName)
	w.WriteHeader(http.StatusNoContent)
}

// TakePrefill handles GET /api/scheduler/prefill. The prefill is consumed:
// a second read returns an empty text.
func (h *SchedulerHandler) TakePrefill(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{
		"text": h.scheduler.PrefillText(sessionOwner(r)),
	})
}
