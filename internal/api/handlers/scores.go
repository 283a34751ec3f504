package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/quantlens/backend/internal/scoring"
	"github.com/wonny/quantlens/backend/pkg/logger"
)

const maxBatchSymbols = 20

// ScoreHandler handles disruption and earnings-quality endpoints
type ScoreHandler struct {
	disruption *scoring.DisruptionScorer
	batch      *scoring.BatchScorer
	earnings   *scoring.EarningsQualityGrader
	logger     *logger.Logger
}

// NewScoreHandler creates a new scoring handler
func NewScoreHandler(
	disruption *scoring.DisruptionScorer,
	batch *scoring.BatchScorer,
	earnings *scoring.EarningsQualityGrader,
	log *logger.Logger,
) *ScoreHandler {
	return &ScoreHandler{
		disruption: disruption,
		batch:      batch,
		earnings:   earnings,
		logger:     log,
	}
}

// Disruption scores one symbol
// GET /api/scores/disruption/{symbol}
func (h *ScoreHandler) Disruption(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	result, err := h.disruption.Score(r.Context(), symbol)
	if err != nil {
		h.logger.WithField("symbol", symbol).WithError(err).Error("Disruption scoring failed")
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// BatchRequest is the disruption ranking request body
type BatchRequest struct {
	Symbols []string `json:"symbols"`
}

// DisruptionBatch ranks disruption profiles across symbols
// POST /api/scores/disruption/batch
func (h *ScoreHandler) DisruptionBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Symbols) == 0 {
		respondError(w, http.StatusBadRequest, "symbols is required")
		return
	}
	if len(req.Symbols) > maxBatchSymbols {
		respondError(w, http.StatusBadRequest, "too many symbols in one batch")
		return
	}

	respondJSON(w, http.StatusOK, h.batch.ScoreBatch(r.Context(), req.Symbols))
}

// Earnings grades earnings quality for one symbol
// GET /api/scores/earnings/{symbol}
func (h *ScoreHandler) Earnings(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	result, err := h.earnings.Grade(r.Context(), symbol)
	if err != nil {
		h.logger.WithField("symbol", symbol).WithError(err).Error("Earnings grading failed")
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
