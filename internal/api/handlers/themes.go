package handlers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/quantlens/backend/internal/contracts"
	"github.com/wonny/quantlens/backend/internal/themes"
	"github.com/wonny/quantlens/backend/pkg/logger"
)

// ThemeHandler handles theme listing and analysis endpoints
type ThemeHandler struct {
	store     *themes.Store
	analytics contracts.ThemeAnalyzer
	logger    *logger.Logger
}

// NewThemeHandler creates a new theme handler
func NewThemeHandler(store *themes.Store, analytics contracts.ThemeAnalyzer, log *logger.Logger) *ThemeHandler {
	return &ThemeHandler{
		store:     store,
		analytics: analytics,
		logger:    log,
	}
}

// List returns all theme definitions
// GET /api/themes
func (h *ThemeHandler) List(w http.ResponseWriter, r *http.Request) {
	all := h.store.List()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(all),
		"themes": all,
	})
}

// Get returns one theme definition
// GET /api/themes/{id}
func (h *ThemeHandler) Get(w http.ResponseWriter, r *http.Request) {
	theme, err := h.store.Get(mux.Vars(r)["id"])
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, theme)
}

// Reload re-reads theme definitions from disk; a broken file keeps the
// previous set loaded
// POST /api/themes/reload
func (h *ThemeHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Reload(); err != nil {
		h.logger.WithError(err).Error("Theme reload failed")
		respondError(w, http.StatusInternalServerError, "theme reload failed")
		return
	}

	all := h.store.List()
	h.logger.WithField("themes", len(all)).Info("Theme definitions reloaded")
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "reloaded",
		"count":  len(all),
	})
}

// themeAnalysisResponse adds display-formatted performance strings to
// the raw analysis. Formatting lives only at this boundary; the engine
// keeps numbers (and nil for N/A).
type themeAnalysisResponse struct {
	*contracts.ThemeAnalysisResult
	PerformanceFormatted map[string]string `json:"theme_performance_formatted"`
}

// Analyze runs the full basket analysis for one theme
// GET /api/themes/{id}/analysis
func (h *ThemeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	result, err := h.analytics.Analyze(r.Context(), id)
	if err != nil {
		h.logger.WithField("theme", id).WithError(err).Error("Theme analysis failed")
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, themeAnalysisResponse{
		ThemeAnalysisResult:  result,
		PerformanceFormatted: formatPerformance(result.Performance),
	})
}

// formatPerformance renders horizon returns as signed percent strings,
// with "N/A" for horizons that could not be computed
func formatPerformance(performance map[string]*float64) map[string]string {
	out := make(map[string]string, len(performance))
	for label, value := range performance {
		if value == nil {
			out[label] = "N/A"
			continue
		}
		out[label] = fmt.Sprintf("%+.2f%%", *value)
	}
	return out
}
