package handlers

import (
	"net/http"

	"github.com/zatekoja/hospitaladmin/internal/application/services"
)

// SymptomHandler handles the AI symptom checker
type SymptomHandler struct {
	symptoms *services.SymptomService
}

// NewSymptomHandler creates a new symptom handler
func NewSymptomHandler(symptoms *services.SymptomService) *SymptomHandler {
	return &SymptomHandler{symptoms: symptoms}
}

type symptomRequest struct {
	Symptoms string `json:"symptoms"`
}

// Check handles POST /api/symptoms/check
func (h *SymptomHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req symptomRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	assessment, err := h.symptoms.Check(r.Context(), sessionOwner(r), req.Symptoms)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, assessment)
}

// Status handles GET /api/symptoms/status
func (h *SymptomHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.symptoms.Status(sessionOwner(r)))
}
