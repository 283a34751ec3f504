package themes

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/quantlens/backend/internal/contracts"
	"github.com/wonny/quantlens/backend/pkg/config"
	"github.com/wonny/quantlens/backend/pkg/logger"
)

type fakeProvider struct {
	mu       sync.Mutex
	series   map[string]*contracts.PriceSeries
	metadata map[string]*contracts.Metadata
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		series:   make(map[string]*contracts.PriceSeries),
		metadata: make(map[string]*contracts.Metadata),
	}
}

func (f *fakeProvider) GetPriceHistory(_ context.Context, symbol string, _ string) (*contracts.PriceSeries, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.series[symbol]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %s", contracts.ErrNotFound, symbol)
}

func (f *fakeProvider) GetMetadata(_ context.Context, symbol string) (*contracts.Metadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.metadata[symbol]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("%w: %s", contracts.ErrNotFound, symbol)
}

func (f *fakeProvider) GetMetricSnapshot(_ context.Context, symbol string) (*contracts.MetricSnapshot, error) {
	return nil, fmt.Errorf("%w: %s", contracts.ErrNotFound, symbol)
}

func (f *fakeProvider) GetFinancialHistory(_ context.Context, symbol string, _ contracts.Periodicity) (*contracts.FinancialHistory, error) {
	return nil, fmt.Errorf("%w: %s", contracts.ErrNotFound, symbol)
}

// addSeries builds a 260-day history ending 2024-06-28 whose closes
// follow the supplied growth function
func (f *fakeProvider) addSeries(t *testing.T, symbol string, closeAt func(day int) float64) {
	t.Helper()

	const points = 260
	end := time.Date(2024, time.June, 28, 0, 0, 0, 0, time.UTC)

	dates := make([]string, points)
	closes := make([]float64, points)
	for i := 0; i < points; i++ {
		dates[i] = end.AddDate(0, 0, i-points+1).Format("2006-01-02")
		closes[i] = closeAt(i)
	}

	series, err := contracts.NewPriceSeries(symbol, dates, closes)
	require.NoError(t, err)
	f.series[symbol] = series
}

func newTestAnalytics(t *testing.T, provider *fakeProvider, themesYAML string) *Analytics {
	t.Helper()
	store, err := NewStore(writeThemes(t, themesYAML))
	require.NoError(t, err)

	cfg := &config.Config{Engine: config.EngineConfig{FetchWorkers: 4}}
	return NewAnalytics(cfg, store, provider, logger.NewNop())
}

const analyticsThemes = `
themes:
  - id: test-theme
    name: Test Theme
    description: Basket under test
    constituents: [AAA, BBB, CCC, GHOST]
    risk_level: High
    growth_stage: Early
`

func TestAnalyzeUnknownTheme(t *testing.T) {
	a := newTestAnalytics(t, newFakeProvider(), analyticsThemes)

	_, err := a.Analyze(context.Background(), "missing-theme")
	assert.ErrorIs(t, err, contracts.ErrNotFound)
}

func TestAnalyzeFullBasket(t *testing.T) {
	provider := newFakeProvider()
	// AAA rallies, BBB drifts up, CCC declines; GHOST has no data
	provider.addSeries(t, "AAA", func(day int) float64 { return 100 + float64(day)*0.5 })
	provider.addSeries(t, "BBB", func(day int) float64 { return 50 + float64(day)*0.05 })
	provider.addSeries(t, "CCC", func(day int) float64 { return 80 - float64(day)*0.1 })
	provider.metadata["AAA"] = &contracts.Metadata{Symbol: "AAA", Name: "Alpha Corp", Sector: "Technology", MarketCap: 1e12}
	provider.metadata["BBB"] = &contracts.Metadata{Symbol: "BBB", Name: "Beta Inc", Sector: "Technology", MarketCap: 5e11}
	provider.metadata["CCC"] = &contracts.Metadata{Symbol: "CCC", Name: "Gamma Ltd", Sector: "Healthcare", MarketCap: 2e11}

	a := newTestAnalytics(t, provider, analyticsThemes)

	result, err := a.Analyze(context.Background(), "test-theme")
	require.NoError(t, err)

	assert.Equal(t, "test-theme", result.ThemeID)
	assert.Equal(t, 4, result.TotalConstituents)
	assert.Equal(t, 3, result.ValidConstituents)
	assert.Equal(t, []string{"GHOST"}, result.FailedConstituents)

	require.NotNil(t, result.Performance["1W"])
	require.NotNil(t, result.Performance["1Y"])
	require.NotNil(t, result.Performance["YTD"])
	_, has2Y := result.Performance["2Y"]
	assert.False(t, has2Y, "only configured horizons appear")

	require.NotEmpty(t, result.TopPerformers)
	assert.Equal(t, "AAA", result.TopPerformers[0].Symbol)
	require.NotEmpty(t, result.Laggards)
	assert.Equal(t, "CCC", result.Laggards[0].Symbol)

	require.Len(t, result.SectorOverlap, 2)
	assert.Equal(t, "Technology", result.SectorOverlap[0].Sector)
	assert.Equal(t, 2, result.SectorOverlap[0].Count)
	assert.InDelta(t, 66.67, result.SectorOverlap[0].Pct, 0.01)

	assert.GreaterOrEqual(t, result.MomentumScore, 0)
	assert.LessOrEqual(t, result.MomentumScore, 100)
	assert.GreaterOrEqual(t, result.HealthScore, 0)
	assert.LessOrEqual(t, result.HealthScore, 100)

	detail, ok := result.ConstituentDetails["AAA"]
	require.True(t, ok)
	assert.Equal(t, "Alpha Corp", detail.Name)
	assert.Equal(t, "Technology", detail.Sector)
	require.NotNil(t, detail.ReturnPct)
	assert.Greater(t, *detail.ReturnPct, 0.0)
}

func TestAnalyzeEmptyTheme(t *testing.T) {
	a := newTestAnalytics(t, newFakeProvider(), `
themes:
  - id: hollow
    name: Hollow
    constituents: []
`)

	_, err := a.Analyze(context.Background(), "hollow")
	assert.ErrorIs(t, err, contracts.ErrInvalidInput)
}

func TestAnalyzeAllConstituentsFail(t *testing.T) {
	a := newTestAnalytics(t, newFakeProvider(), analyticsThemes)

	result, err := a.Analyze(context.Background(), "test-theme")
	require.NoError(t, err, "an upstream outage is degraded data, not a missing theme")

	assert.Equal(t, 0, result.ValidConstituents)
	assert.Len(t, result.FailedConstituents, 4)
	assert.Nil(t, result.Performance["1Y"])
	assert.Nil(t, result.Performance["YTD"])
	assert.Empty(t, result.TopPerformers)
}

func TestAnalyzeLockstepBasketScoresLowDiversification(t *testing.T) {
	provider := newFakeProvider()
	wave := func(day int) float64 { return 100 + 10*math.Sin(float64(day)/5) }
	provider.addSeries(t, "AAA", wave)
	provider.addSeries(t, "BBB", wave)
	provider.metadata["AAA"] = &contracts.Metadata{Symbol: "AAA", Sector: "Technology"}
	provider.metadata["BBB"] = &contracts.Metadata{Symbol: "BBB", Sector: "Technology"}

	a := newTestAnalytics(t, provider, `
themes:
  - id: lockstep
    name: Lockstep
    constituents: [AAA, BBB]
`)

	result, err := a.Analyze(context.Background(), "lockstep")
	require.NoError(t, err)

	require.NotNil(t, result.Risk.IntraCorrelation)
	assert.Equal(t, 1.0, *result.Risk.IntraCorrelation, "identical series correlate at exactly 1.0")
	assert.Equal(t, "Low", result.Risk.Diversification)
	assert.InDelta(t, 0.0, result.HealthComponents.Diversification, 0.01)
}

func TestDiversificationBandBoundaries(t *testing.T) {
	tests := []struct {
		avgCorr float64
		want    string
	}{
		{0.90, "Low"},
		{0.75, "Low"},
		{0.60, "Moderate"},
		{0.50, "Moderate"},
		{0.30, "Good"},
		{0.25, "Good"},
		{0.10, "Excellent"},
		{-0.20, "Excellent"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("corr_%.2f", tt.avgCorr), func(t *testing.T) {
			label, _ := classifyDiversification(tt.avgCorr)
			assert.Equal(t, tt.want, label)
		})
	}
}
