package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/zatekoja/hospitaladmin/internal/application/services"
	"github.com/zatekoja/hospitaladmin/internal/domain/entities"
	"github.com/zatekoja/hospitaladmin/internal/infrastructure/charts"
	"github.com/zatekoja/hospitaladmin/internal/infrastructure/observability"
)

// DashboardHandler serves dashboard figures and charts
type DashboardHandler struct {
	dashboard *services.DashboardService
	renderer  *charts.Renderer
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboard *services.DashboardService, renderer *charts.Renderer) *DashboardHandler {
	if renderer == nil {
		renderer = charts.NewRenderer()
	}
	return &DashboardHandler{dashboard: dashboard, renderer: renderer}
}

// Stats handles GET /api/dashboard/stats
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.Stats(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

// Chart handles GET /api/dashboard/charts/{chart}. A ".svg" suffix renders
// the chart; otherwise the series is returned as JSON.
func (h *DashboardHandler) Chart(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("chart")
	svg := strings.HasSuffix(name, ".svg")
	name = strings.TrimSuffix(name, ".svg")

	data, err := h.dashboard.ChartData(r.Context(), name)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	if !svg {
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"chart": name,
			"data":  data,
		})
		return
	}

	// Render into a buffer so a failed render can still answer with JSON.
	var buf bytes.Buffer
	if err := h.render(&buf, data); err != nil {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Str("chart", name).Msg("Failed to render chart")
		respondWithError(w, http.StatusInternalServerError, "failed to render chart")
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *DashboardHandler) render(w io.Writer, data interface{}) error {
	switch series := data.(type) {
	case []entities.ConditionCount:
		return h.renderer.ConditionDonut(w, series)
	case []entities.DoctorWorkload:
		return h.renderer.WorkloadBars(w, series)
	case []entities.DailyAdmissions:
		return h.renderer.AdmissionsLine(w, series)
	default:
		return errUnknownSeries
	}
}

var errUnknownSeries = errors.New("no renderer for chart series")
