package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/wonny/quantlens/backend/internal/contracts"
	"github.com/wonny/quantlens/backend/pkg/logger"
)

// PeerHandler handles peer discovery and comparison endpoints
// ⭐ SSOT: 피어 API 핸들러는 이 구조체에서만
type PeerHandler struct {
	discoverer contracts.PeerDiscoverer
	comparer   contracts.PeerComparer
	logger     *logger.Logger
}

// NewPeerHandler creates a new peer handler
func NewPeerHandler(discoverer contracts.PeerDiscoverer, comparer contracts.PeerComparer, log *logger.Logger) *PeerHandler {
	return &PeerHandler{
		discoverer: discoverer,
		comparer:   comparer,
		logger:     log,
	}
}

// Discover returns comparable companies for a symbol
// GET /api/peers/{symbol}?limit=5
func (h *PeerHandler) Discover(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	result, err := h.discoverer.DiscoverPeers(r.Context(), symbol, limit)
	if err != nil {
		h.logger.WithField("symbol", symbol).WithError(err).Error("Peer discovery failed")
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Compare runs the cross-sectional comparison for a symbol. With an
// explicit peers list the group is used as-is; without one the
// discovery engine picks the group first.
// GET /api/peers/{symbol}/comparison?peers=MSFT,GOOGL&limit=5
func (h *PeerHandler) Compare(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	var peers []string
	if raw := r.URL.Query().Get("peers"); raw != "" {
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				peers = append(peers, p)
			}
		}
	}

	if len(peers) == 0 {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				respondError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = parsed
		}

		discovery, err := h.discoverer.DiscoverPeers(r.Context(), symbol, limit)
		if err != nil {
			h.logger.WithField("symbol", symbol).WithError(err).Error("Peer discovery failed")
			respondEngineError(w, err)
			return
		}
		peers = discovery.Peers
	}

	result, err := h.comparer.Compare(r.Context(), symbol, peers)
	if err != nil {
		h.logger.WithField("symbol", symbol).WithError(err).Error("Peer comparison failed")
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
