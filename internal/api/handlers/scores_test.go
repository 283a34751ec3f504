package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/quantlens/backend/internal/contracts"
	"github.com/wonny/quantlens/backend/internal/scoring"
	"github.com/wonny/quantlens/backend/pkg/config"
)

func scoringProvider() *fakeFinancials {
	provider := newFakeFinancials()
	provider.metadata["HYPR"] = &contracts.Metadata{
		Symbol:   "HYPR",
		Name:     "Hypergrowth Corp",
		Sector:   "Technology",
		Industry: "Semiconductors",
	}
	provider.financials["HYPR"] = &contracts.FinancialHistory{
		Symbol:      "HYPR",
		Name:        "Hypergrowth Corp",
		Periodicity: contracts.PeriodicityAnnual,
		Periods: []contracts.FinancialPeriod{
			{Label: "2022", EndDate: "2022-12-31", Revenue: 100, GrossProfit: 65, OperatingIncome: 20, NetIncome: 15, RDExpense: 20},
			{Label: "2023", EndDate: "2023-12-31", Revenue: 140, GrossProfit: 92, OperatingIncome: 30, NetIncome: 22, RDExpense: 30},
			{Label: "2024", EndDate: "2024-12-31", Revenue: 210, GrossProfit: 137, OperatingIncome: 48, NetIncome: 35, RDExpense: 47},
		},
	}
	provider.errors["FLAKY"] = fmt.Errorf("%w: quote api returned 503", contracts.ErrUpstreamUnavailable)
	return provider
}

func newScoreRouter(provider contracts.MarketDataProvider) *mux.Router {
	log := testLogger()
	cfg := &config.Config{Engine: config.EngineConfig{FetchWorkers: 2}}

	disruption := scoring.NewDisruptionScorer(provider, log)
	h := NewScoreHandler(
		disruption,
		scoring.NewBatchScorer(cfg, disruption, log),
		scoring.NewEarningsQualityGrader(provider, log),
		log,
	)

	r := mux.NewRouter()
	r.HandleFunc("/api/scores/disruption/batch", h.DisruptionBatch).Methods("POST")
	r.HandleFunc("/api/scores/disruption/{symbol}", h.Disruption).Methods("GET")
	r.HandleFunc("/api/scores/earnings/{symbol}", h.Earnings).Methods("GET")
	return r
}

func TestDisruptionEndpoint(t *testing.T) {
	router := newScoreRouter(scoringProvider())

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/api/scores/disruption/HYPR", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body contracts.DisruptionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "HYPR", body.Symbol)
	assert.Equal(t, "Semiconductors", body.Industry)
	assert.NotEmpty(t, body.Classification)
	assert.GreaterOrEqual(t, body.Score, 0)
	assert.LessOrEqual(t, body.Score, 100)
}

func TestDisruptionEndpointErrors(t *testing.T) {
	router := newScoreRouter(scoringProvider())

	tests := []struct {
		name       string
		symbol     string
		wantStatus int
	}{
		{"unknown symbol", "ZZZZ", http.StatusNotFound},
		{"upstream failure", "FLAKY", http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, httptest.NewRequest(http.MethodGet, "/api/scores/disruption/"+tt.symbol, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestDisruptionBatchEndpoint(t *testing.T) {
	router := newScoreRouter(scoringProvider())

	payload := `{"symbols": ["HYPR", "GHOST"]}`
	rec := serve(router, httptest.NewRequest(http.MethodPost, "/api/scores/disruption/batch", strings.NewReader(payload)))

	require.Equal(t, http.StatusOK, rec.Code)

	var body contracts.DisruptionRanking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Compared)
	assert.Equal(t, "HYPR", body.MostDisruptive)
	require.Len(t, body.Entries, 2)
	assert.Equal(t, "HYPR", body.Entries[0].Symbol)
	assert.NotEmpty(t, body.Entries[1].Error)
}

func TestDisruptionBatchValidation(t *testing.T) {
	router := newScoreRouter(scoringProvider())

	tooMany := make([]string, maxBatchSymbols+1)
	for i := range tooMany {
		tooMany[i] = fmt.Sprintf("SYM%d", i)
	}
	tooManyJSON, err := json.Marshal(map[string][]string{"symbols": tooMany})
	require.NoError(t, err)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"symbols": [`},
		{"missing symbols", `{}`},
		{"empty symbols", `{"symbols": []}`},
		{"oversized batch", string(tooManyJSON)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, httptest.NewRequest(http.MethodPost, "/api/scores/disruption/batch", strings.NewReader(tt.body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestEarningsEndpointInsufficientQuarters(t *testing.T) {
	provider := newFakeFinancials()
	provider.metadata["THIN"] = &contracts.Metadata{Symbol: "THIN", Name: "Thin Data Inc"}
	provider.financials["THIN"] = &contracts.FinancialHistory{
		Symbol:      "THIN",
		Periodicity: contracts.PeriodicityQuarterly,
		Periods: []contracts.FinancialPeriod{
			{Label: "Q1 2024", EndDate: "2024-03-31", Revenue: 100, GrossProfit: 40, OperatingIncome: 12, NetIncome: 10},
			{Label: "Q2 2024", EndDate: "2024-06-30", Revenue: 104, GrossProfit: 42, OperatingIncome: 13, NetIncome: 11},
			{Label: "Q3 2024", EndDate: "2024-09-30", Revenue: 108, GrossProfit: 43, OperatingIncome: 13, NetIncome: 11},
		},
	}
	router := newScoreRouter(provider)

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/api/scores/earnings/THIN", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
