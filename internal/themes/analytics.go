package themes

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/wonny/quantlens/backend/internal/contracts"
	"github.com/wonny/quantlens/backend/internal/statskit"
	"github.com/wonny/quantlens/backend/pkg/config"
	"github.com/wonny/quantlens/backend/pkg/logger"
)

// performanceHorizon is one rolling return window, in trading days
type performanceHorizon struct {
	label string
	days  int
}

// horizons are evaluated against a 1-year daily history; YTD is
// handled separately because its window depends on the calendar.
var horizons = []performanceHorizon{
	{label: "1W", days: 5},
	{label: "1M", days: 21},
	{label: "3M", days: 63},
	{label: "6M", days: 126},
	{label: "1Y", days: 252},
}

// diversificationBands classify average intra-theme correlation,
// highest (worst) first; each band's lower bound is inclusive
var diversificationBands = []struct {
	minCorr     float64
	label       string
	description string
}{
	{0.75, "Low", "The basket trades as a single position"},
	{0.50, "Moderate", "Constituents tend to move together"},
	{0.25, "Good", "Moderate co-movement across the basket"},
	{math.Inf(-1), "Excellent", "Constituents move largely independently"},
}

const historyPeriod = "1y"

// Analytics runs the full thematic basket analysis
// ⭐ SSOT: 테마 분석은 여기서만
type Analytics struct {
	store    *Store
	provider contracts.MarketDataProvider
	workers  int
	logger   *logger.Logger
}

// NewAnalytics creates the theme analytics engine
func NewAnalytics(cfg *config.Config, store *Store, provider contracts.MarketDataProvider, log *logger.Logger) *Analytics {
	return &Analytics{
		store:    store,
		provider: provider,
		workers:  cfg.Engine.FetchWorkers,
		logger:   log,
	}
}

var _ contracts.ThemeAnalyzer = (*Analytics)(nil)

// constituentData is one successfully fetched theme member
type constituentData struct {
	symbol string
	series *contracts.PriceSeries
	meta   *contracts.Metadata
}

// Analyze fetches history and classification for every constituent and
// derives performance, momentum, risk and health for the basket.
// Individual constituent failures degrade the basket; a theme whose
// constituents all fail still yields a result with empty analytics, so
// a transient upstream outage reads as "no data", not "no theme".
func (a *Analytics) Analyze(ctx context.Context, themeID string) (*contracts.ThemeAnalysisResult, error) {
	theme, err := a.store.Get(themeID)
	if err != nil {
		return nil, err
	}
	if len(theme.Constituents) == 0 {
		return nil, fmt.Errorf("%w: theme %s has no constituents", contracts.ErrInvalidInput, theme.ID)
	}

	data, failed := a.fetchConstituents(ctx, theme.Constituents)

	result := &contracts.ThemeAnalysisResult{
		ThemeID:            theme.ID,
		Name:               theme.Name,
		Description:        theme.Description,
		Constituents:       theme.Constituents,
		ReferenceETFs:      theme.ReferenceETFs,
		RiskLevel:          theme.RiskLevel,
		GrowthStage:        theme.GrowthStage,
		Performance:        make(map[string]*float64, len(horizons)+1),
		ConstituentDetails: make(map[string]contracts.ConstituentDetail, len(data)),
		FailedConstituents: failed,
		TotalConstituents:  len(theme.Constituents),
		ValidConstituents:  len(data),
		AnalyzedAt:         time.Now().UTC(),
	}

	for _, h := range horizons {
		result.Performance[h.label] = nil
	}
	result.Performance["YTD"] = nil

	if len(data) == 0 {
		a.logger.WithField("theme", theme.ID).Warn("no constituent data available")
		return result, nil
	}

	a.computePerformance(result, data)
	a.rankConstituents(result, data)
	a.computeSectorOverlap(result, data)

	scoring := a.store.Scoring()
	avgCorr := a.computeRisk(result, data)
	result.MomentumScore = momentumScore(data, scoring.Momentum)
	a.computeHealth(result, avgCorr, scoring.Health)

	for _, d := range data {
		detail := contracts.ConstituentDetail{
			CurrentPrice: d.series.CurrentPrice(),
		}
		if r, ok := d.series.TotalReturnPct(); ok {
			rounded := statskit.Round2(r)
			detail.ReturnPct = &rounded
		}
		if d.meta != nil {
			detail.Name = d.meta.Name
			detail.MarketCap = d.meta.MarketCap
			detail.Sector = d.meta.Sector
		}
		result.ConstituentDetails[d.symbol] = detail
	}

	return result, nil
}

// fetchConstituents pulls history and metadata per symbol with a
// bounded worker pool. A symbol without usable price history fails;
// missing metadata alone does not.
func (a *Analytics) fetchConstituents(ctx context.Context, symbols []string) ([]constituentData, []string) {
	jobs := make(chan string, len(symbols))
	type fetchResult struct {
		data   *constituentData
		symbol string
	}
	results := make(chan fetchResult, len(symbols))

	var wg sync.WaitGroup
	for w := 0; w < a.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				series, err := a.provider.GetPriceHistory(ctx, symbol, historyPeriod)
				if err != nil {
					a.logger.WithField("symbol", symbol).WithError(err).
						Warn("constituent history fetch failed")
					results <- fetchResult{symbol: symbol}
					continue
				}
				meta, err := a.provider.GetMetadata(ctx, symbol)
				if err != nil {
					meta = nil // classification is optional
				}
				results <- fetchResult{data: &constituentData{symbol: symbol, series: series, meta: meta}, symbol: symbol}
			}
		}()
	}

	for _, symbol := range symbols {
		jobs <- symbol
	}
	close(jobs)

	wg.Wait()
	close(results)

	data := make([]constituentData, 0, len(symbols))
	var failed []string
	for r := range results {
		if r.data == nil {
			failed = append(failed, r.symbol)
			continue
		}
		data = append(data, *r.data)
	}

	sort.Slice(data, func(i, j int) bool { return data[i].symbol < data[j].symbol })
	sort.Strings(failed)
	return data, failed
}

// computePerformance averages per-constituent returns for each rolling
// horizon plus YTD. A horizon stays nil when no constituent has enough
// history for it.
func (a *Analytics) computePerformance(result *contracts.ThemeAnalysisResult, data []constituentData) {
	for _, h := range horizons {
		var returns []float64
		for _, d := range data {
			if r, ok := statskit.PeriodReturn(d.series.Closes, h.days); ok {
				returns = append(returns, r)
			}
		}
		if avg, ok := statskit.Mean(returns); ok {
			rounded := statskit.Round2(avg)
			result.Performance[h.label] = &rounded
		}
	}

	var ytdReturns []float64
	for _, d := range data {
		if r, ok := ytdReturn(d.series); ok {
			ytdReturns = append(ytdReturns, r)
		}
	}
	if avg, ok := statskit.Mean(ytdReturns); ok {
		rounded := statskit.Round2(avg)
		result.Performance["YTD"] = &rounded
	}
}

// ytdReturn computes one constituent's return since the first trading
// day of the last date's calendar year
func ytdReturn(series *contracts.PriceSeries) (float64, bool) {
	if len(series.Dates) < 2 || len(series.Dates) != len(series.Closes) {
		return 0, false
	}

	yearStart := series.Dates[len(series.Dates)-1][:4] + "-01-01"
	start := -1
	for i, date := range series.Dates {
		if date >= yearStart {
			start = i
			break
		}
	}
	if start < 0 || start == len(series.Closes)-1 || series.Closes[start] <= 0 {
		return 0, false
	}

	first := series.Closes[start]
	last := series.Closes[len(series.Closes)-1]
	return statskit.Round2((last - first) / first * 100), true
}

// rankConstituents fills top performers and laggards by full-window return
func (a *Analytics) rankConstituents(result *contracts.ThemeAnalysisResult, data []constituentData) {
	ranked := make([]contracts.ConstituentReturn, 0, len(data))
	for _, d := range data {
		if r, ok := d.series.TotalReturnPct(); ok {
			ranked = append(ranked, contracts.ConstituentReturn{
				Symbol:    d.symbol,
				ReturnPct: statskit.Round2(r),
			})
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].ReturnPct != ranked[j].ReturnPct {
			return ranked[i].ReturnPct > ranked[j].ReturnPct
		}
		return ranked[i].Symbol < ranked[j].Symbol
	})

	top := len(ranked)
	if top > 3 {
		top = 3
	}
	result.TopPerformers = append([]contracts.ConstituentReturn(nil), ranked[:top]...)

	laggards := make([]contracts.ConstituentReturn, 0, top)
	for i := len(ranked) - 1; i >= len(ranked)-top; i-- {
		laggards = append(laggards, ranked[i])
	}
	result.Laggards = laggards
}

// computeSectorOverlap counts constituent sectors; unknown sectors
// group under "Unknown" rather than vanishing
func (a *Analytics) computeSectorOverlap(result *contracts.ThemeAnalysisResult, data []constituentData) {
	counts := make(map[string]int)
	for _, d := range data {
		sector := "Unknown"
		if d.meta != nil && d.meta.Sector != "" {
			sector = d.meta.Sector
		}
		counts[sector]++
	}

	weights := make([]contracts.SectorWeight, 0, len(counts))
	for sector, count := range counts {
		weights = append(weights, contracts.SectorWeight{
			Sector: sector,
			Count:  count,
			Pct:    statskit.Round2(float64(count) / float64(len(data)) * 100),
		})
	}
	sort.Slice(weights, func(i, j int) bool {
		if weights[i].Count != weights[j].Count {
			return weights[i].Count > weights[j].Count
		}
		return weights[i].Sector < weights[j].Sector
	})
	result.SectorOverlap = weights
}

// computeRisk fills the correlation-based risk block and returns the
// average intra-theme correlation (NaN when not computable)
func (a *Analytics) computeRisk(result *contracts.ThemeAnalysisResult, data []constituentData) float64 {
	returnsBySymbol := make(map[string][]float64, len(data))
	for _, d := range data {
		returnsBySymbol[d.symbol] = d.series.Returns
	}

	corr, err := statskit.CorrelationMatrix(returnsBySymbol, statskit.MinCorrelationPoints)
	if err != nil {
		result.Risk = contracts.ThemeRisk{
			Diversification: "Unknown",
			Description:     "Not enough overlapping history to measure co-movement",
		}
		return math.NaN()
	}

	avg := corr.AvgCorrelation
	label, description := classifyDiversification(avg)
	result.Risk = contracts.ThemeRisk{
		IntraCorrelation: &avg,
		Diversification:  label,
		Description:      description,
	}
	return avg
}

// classifyDiversification maps average intra-theme correlation to its
// band label
func classifyDiversification(avgCorr float64) (string, string) {
	for _, band := range diversificationBands {
		if avgCorr >= band.minCorr {
			return band.label, band.description
		}
	}
	return "Unknown", ""
}

// momentumScore blends short-term (1W/1M), medium-term (3M) and
// long-term (6M/1Y) average returns and squashes through a logistic,
// so 0% net return sits at 50 and the score saturates instead of
// exploding on meme moves. A horizon with no data contributes flat.
func momentumScore(data []constituentData, weights MomentumWeights) int {
	avgReturn := func(days int) float64 {
		var returns []float64
		for _, d := range data {
			if r, ok := statskit.PeriodReturn(d.series.Closes, days); ok {
				returns = append(returns, r)
			}
		}
		avg, _ := statskit.Mean(returns)
		return avg
	}

	shortTerm := (avgReturn(5) + avgReturn(21)) / 2
	mediumTerm := avgReturn(63)
	longTerm := (avgReturn(126) + avgReturn(252)) / 2

	raw := shortTerm*weights.ShortTerm + mediumTerm*weights.MediumTerm + longTerm*weights.LongTerm

	score := int(100 / (1 + math.Exp(-raw/10)))
	return int(statskit.Clamp(float64(score), 0, 100))
}

// computeHealth blends performance, momentum, diversification and risk
// into the 0–100 theme health score
func (a *Analytics) computeHealth(result *contracts.ThemeAnalysisResult, avgCorr float64, weights HealthWeights) {
	// Performance factor anchors on the 1Y theme return: -30% maps to
	// 0, flat to 40, +60% to 100. Missing history reads as flat.
	perfReturn := 0.0
	if r := result.Performance["1Y"]; r != nil {
		perfReturn = *r
	}
	perfScore := statskit.Clamp((perfReturn+30)*(100.0/90.0), 0, 100)

	momentum := float64(result.MomentumScore)

	divScore := 50.0
	if !math.IsNaN(avgCorr) {
		divScore = statskit.Clamp((1-avgCorr)*100, 0, 100)
	}

	// Risk factor penalizes violent 1Y moves in either direction
	riskScore := statskit.Clamp(100-math.Abs(perfReturn)*0.5, 0, 100)

	result.HealthComponents = contracts.HealthComponents{
		Performance:     statskit.Round2(perfScore),
		Momentum:        statskit.Round2(momentum),
		Diversification: statskit.Round2(divScore),
		Risk:            statskit.Round2(riskScore),
	}

	health := perfScore*weights.Performance +
		momentum*weights.Momentum +
		divScore*weights.Diversification +
		riskScore*weights.Risk
	result.HealthScore = int(statskit.Clamp(health, 0, 100))
}

// AnalyzeAll runs Analyze for every stored theme, skipping failures
func (a *Analytics) AnalyzeAll(ctx context.Context) []*contracts.ThemeAnalysisResult {
	themes := a.store.List()
	out := make([]*contracts.ThemeAnalysisResult, 0, len(themes))
	for _, theme := range themes {
		result, err := a.Analyze(ctx, theme.ID)
		if err != nil {
			a.logger.WithField("theme", theme.ID).WithError(err).Error("theme analysis failed")
			continue
		}
		out = append(out, result)
	}
	return out
}
