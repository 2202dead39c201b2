package handlers

import (
	"net/http"
	"time"

	"github.com/zatekoja/hospitaladmin/internal/application/services"
	"github.com/zatekoja/hospitaladmin/internal/domain/entities"
)

// BookingHandler handles the committed bookings list
type BookingHandler struct {
	bookings *services.BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookings *services.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

type createBookingRequest struct {
	DoctorName     string    `json:"doctorName"`
	Specialization string    `json:"specialization"`
	Date           time.Time `json:"date"`
	Time           string    `json:"time"`
}

// ListBookings handles GET /api/bookings. Bookings are ordered by date.
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings := h.bookings.Sorted()
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"bookings": bookings,
		"count":    len(bookings),
	})
}

// CreateBooking handles POST /api/bookings. Re-booking an existing slot
// answers 200 with the stored booking instead of 201.
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	doctor := entities.Doctor{Name: req.DoctorName, Specialization: req.Specialization}
	booking, created, err := h.bookings.Book(r.Context(), doctor, req.Date, req.Time)
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

// CancelBooking handles DELETE /api/bookings/{id}. Cancelling an unknown id
// succeeds with removed=false.
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "booking ID is required")
		return
	}

	removed, err := h.bookings.Cancel(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"id":      id,
		"removed": removed,
	})
}
