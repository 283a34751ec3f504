package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/quantlens/backend/internal/contracts"
	"github.com/wonny/quantlens/backend/pkg/config"
	"github.com/wonny/quantlens/backend/pkg/httputil"
	"github.com/wonny/quantlens/backend/pkg/logger"
)

func newTestProvider(baseURL string) *Provider {
	cfg := &config.Config{
		MarketData: config.MarketDataConfig{
			BaseURL:        baseURL,
			UserAgent:      "test-agent",
			Timeout:        5 * time.Second,
			RequestsPerSec: 1000,
			Burst:          100,
		},
	}
	log := logger.NewNop()
	httpClient := httputil.New(cfg, log).DisableRetry()
	return NewProvider(cfg, httpClient, log)
}

const chartBody = `{
	"chart": {
		"result": [{
			"meta": {"symbol": "AAPL", "regularMarketPrice": 196.5},
			"timestamp": [1704153600, 1704240000, 1704326400, 1704412800],
			"indicators": {"quote": [{"close": [190.0, null, 192.5, 196.5]}]}
		}],
		"error": null
	}
}`

func TestGetPriceHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/v8/finance/chart/AAPL"))
		assert.Equal(t, "1y", r.URL.Query().Get("range"))
		w.Write([]byte(chartBody))
	}))
	defer srv.Close()

	series, err := newTestProvider(srv.URL).GetPriceHistory(context.Background(), "aapl", "1y")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", series.Symbol)
	assert.Equal(t, []float64{190.0, 192.5, 196.5}, series.Closes, "null closes are dropped")
	assert.Len(t, series.Dates, 3)
	assert.Len(t, series.Returns, 2)
	assert.Equal(t, 196.5, series.CurrentPrice())
}

func TestGetPriceHistoryNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart": {"result": null, "error": {"code": "Not Found", "description": "No data found"}}}`))
	}))
	defer srv.Close()

	_, err := newTestProvider(srv.URL).GetPriceHistory(context.Background(), "NOPE", "1y")
	assert.ErrorIs(t, err, contracts.ErrNotFound)
}

func TestGetPriceHistoryUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestProvider(srv.URL).GetPriceHistory(context.Background(), "AAPL", "1y")
	assert.ErrorIs(t, err, contracts.ErrUpstreamUnavailable)
}

const summaryBody = `{
	"quoteSummary": {
		"result": [{
			"summaryProfile": {"sector": "Technology", "industry": "Consumer Electronics"},
			"price": {
				"symbol": "AAPL",
				"longName": "Apple Inc.",
				"regularMarketPrice": {"raw": 196.5, "fmt": "196.50"},
				"marketCap": {"raw": 3000000000000, "fmt": "3T"}
			},
			"summaryDetail": {
				"trailingPE": {"raw": 32.1, "fmt": "32.10"},
				"beta": {"raw": 1.25, "fmt": "1.25"}
			},
			"defaultKeyStatistics": {
				"priceToBook": {"raw": 45.2, "fmt": "45.20"}
			},
			"financialData": {
				"profitMargins": {"raw": 0.253, "fmt": "25.30%"},
				"returnOnEquity": {"raw": 1.47, "fmt": "147%"}
			}
		}],
		"error": null
	}
}`

func TestGetMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/v10/finance/quoteSummary/AAPL"))
		w.Write([]byte(summaryBody))
	}))
	defer srv.Close()

	meta, err := newTestProvider(srv.URL).GetMetadata(context.Background(), " aapl ")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", meta.Symbol)
	assert.Equal(t, "Apple Inc.", meta.Name)
	assert.Equal(t, "Technology", meta.Sector)
	assert.Equal(t, "Consumer Electronics", meta.Industry)
	assert.Equal(t, 3000000000000.0, meta.MarketCap)
}

func TestGetMetricSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(summaryBody))
	}))
	defer srv.Close()

	snap, err := newTestProvider(srv.URL).GetMetricSnapshot(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, 196.5, snap.Price)
	assert.Equal(t, "Technology", snap.Sector)

	pe, ok := snap.Value(contracts.MetricPERatio)
	require.True(t, ok)
	assert.Equal(t, 32.1, pe)

	pb, ok := snap.Value(contracts.MetricPBRatio)
	require.True(t, ok)
	assert.Equal(t, 45.2, pb)

	_, ok = snap.Value(contracts.MetricForwardPE)
	assert.False(t, ok, "unreported metric stays nil, never zero")
	_, ok = snap.Value(contracts.MetricDebtToEquity)
	assert.False(t, ok)
}

const financialsBody = `{
	"quoteSummary": {
		"result": [{
			"price": {"symbol": "NVDA", "longName": "NVIDIA Corporation"},
			"incomeStatementHistory": {
				"incomeStatementHistory": [
					{
						"endDate": {"raw": 1706400000},
						"totalRevenue": {"raw": 60922000000},
						"grossProfit": {"raw": 44301000000},
						"operatingIncome": {"raw": 32972000000},
						"netIncome": {"raw": 29760000000},
						"researchDevelopment": {"raw": 8675000000}
					},
					{
						"endDate": {"raw": 1674864000},
						"totalRevenue": {"raw": 26974000000},
						"grossProfit": {"raw": 15356000000},
						"operatingIncome": {"raw": 4224000000},
						"netIncome": {"raw": 4368000000},
						"researchDevelopment": {"raw": 7339000000}
					}
				]
			}
		}],
		"error": null
	}
}`

func TestGetFinancialHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("modules"), "incomeStatementHistory")
		w.Write([]byte(financialsBody))
	}))
	defer srv.Close()

	history, err := newTestProvider(srv.URL).GetFinancialHistory(context.Background(), "NVDA", contracts.PeriodicityAnnual)
	require.NoError(t, err)

	assert.Equal(t, "NVDA", history.Symbol)
	assert.Equal(t, "NVIDIA Corporation", history.Name)
	require.Len(t, history.Periods, 2)

	// Upstream order is newest-first; history must be oldest-first
	assert.Equal(t, "2023", history.Periods[0].Label)
	assert.Equal(t, "2024", history.Periods[1].Label)
	assert.Equal(t, 26974000000.0, history.Periods[0].Revenue)
	assert.Equal(t, 60922000000.0, history.Periods[1].Revenue)
	assert.Equal(t, []float64{26974000000, 60922000000}, history.Revenues())
}

func TestGetFinancialHistoryEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteSummary": {"result": [{}], "error": null}}`))
	}))
	defer srv.Close()

	_, err := newTestProvider(srv.URL).GetFinancialHistory(context.Background(), "NVDA", contracts.PeriodicityQuarterly)
	assert.ErrorIs(t, err, contracts.ErrNotFound)
}

func TestPeriodLabelQuarterly(t *testing.T) {
	end := time.Date(2024, time.September, 30, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Q3 2024", periodLabel(end, contracts.PeriodicityQuarterly))

	end = time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Q1 2024", periodLabel(end, contracts.PeriodicityQuarterly))
}
