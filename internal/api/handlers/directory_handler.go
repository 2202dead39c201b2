package handlers

import (
	"net/http"

	"github.com/zatekoja/hospitaladmin/internal/application/services"
	"github.com/zatekoja/hospitaladmin/internal/domain/entities"
)

// DirectoryHandler handles the doctor and patient directories and the
// schedule board
type DirectoryHandler struct {
	directory *services.DirectoryService
}

// NewDirectoryHandler creates a new directory handler
func NewDirectoryHandler(directory *services.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

// ListDoctors handles GET /api/doctors
func (h *DirectoryHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.directory.ListDoctors(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"doctors": doctors,
		"count":   len(doctors),
	})
}

// AddDoctor handles POST /api/doctors
func (h *DirectoryHandler) AddDoctor(w http.ResponseWriter, r *http.Request) {
	var in entities.NewDoctor
	if !decodeJSON(w, r, &in) {
		return
	}

	doctor, err := h.directory.AddDoctor(r.Context(), in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, doctor)
}

// DeleteDoctor handles DELETE /api/doctors/{id}
func (h *DirectoryHandler) DeleteDoctor(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "doctor ID is required")
		return
	}

	if err := h.directory.DeleteDoctor(r.Context(), id); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListPatients handles GET /api/patients
func (h *DirectoryHandler) ListPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.directory.ListPatients(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"patients": patients,
		"count":    len(patients),
	})
}

// AddPatient handles POST /api/patients
func (h *DirectoryHandler) AddPatient(w http.ResponseWriter, r *http.Request) {
	var in entities.NewPatient
	if !decodeJSON(w, r, &in) {
		return
	}

	patient, err := h.directory.AddPatient(r.Context(), in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, patient)
}

// DeletePatient handles DELETE /api/patients/{id}
func (h *DirectoryHandler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "patient ID is required")
		return
	}

	if err := h.directory.DeletePatient(r.Context(), id); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListBoard handles GET /api/appointments/board
func (h *DirectoryHandler) ListBoard(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.directory.ListAppointments(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"appointments": appointments,
		"count":        len(appointments),
	})
}
