package peers

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/wonny/quantlens/backend/internal/contracts"
	"github.com/wonny/quantlens/backend/internal/statskit"
	"github.com/wonny/quantlens/backend/pkg/config"
	"github.com/wonny/quantlens/backend/pkg/logger"
)

// lowerIsBetter marks metrics where a smaller value is the favorable
// side of the distribution. Percentile output carries this flag so the
// consumer can read "8th percentile P/E" as cheap, not weak.
var lowerIsBetter = map[contracts.Metric]bool{
	contracts.MetricPERatio:      true,
	contracts.MetricForwardPE:    true,
	contracts.MetricPEGRatio:     true,
	contracts.MetricPBRatio:      true,
	contracts.MetricPSRatio:      true,
	contracts.MetricEVEBITDA:     true,
	contracts.MetricDebtToEquity: true,
	contracts.MetricBeta:         true,
}

// valuationMetrics get Premium/Discount tagging vs the peer median
var valuationMetrics = []contracts.Metric{
	contracts.MetricPERatio,
	contracts.MetricForwardPE,
	contracts.MetricPEGRatio,
	contracts.MetricPBRatio,
	contracts.MetricPSRatio,
	contracts.MetricEVEBITDA,
}

// Comparer runs cross-sectional metric comparison of a target against
// an explicit peer group
// ⭐ SSOT: 피어 비교 통계는 여기서만
type Comparer struct {
	provider           contracts.MarketDataProvider
	workers            int
	deviationThreshold float64 // percent, strength/weakness trigger
	valuationThreshold float64 // percent, valuation premium trigger
	logger             *logger.Logger
}

// NewComparer creates a comparison engine
func NewComparer(cfg *config.Config, provider contracts.MarketDataProvider, log *logger.Logger) *Comparer {
	return &Comparer{
		provider:           provider,
		workers:            cfg.Engine.FetchWorkers,
		deviationThreshold: cfg.Engine.DeviationThreshold,
		valuationThreshold: cfg.Engine.ValuationThreshold,
		logger:             log,
	}
}

var _ contracts.PeerComparer = (*Comparer)(nil)

// Compare fetches snapshots for the target and its peers and computes
// aggregates, percentile rankings, relative valuation and narrative
// strengths/weaknesses. Individual peer failures degrade the
// population; a target failure or an empty surviving population is an
// error.
func (c *Comparer) Compare(ctx context.Context, symbol string, peers []string) (*contracts.ComparisonResult, error) {
	symbol = contracts.NormalizeSymbol(symbol)
	if len(peers) == 0 {
		return nil, fmt.Errorf("%w: peer group for %s is empty", contracts.ErrInvalidInput, symbol)
	}

	target, err := c.provider.GetMetricSnapshot(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("target snapshot for %s: %w", symbol, err)
	}

	peerSnaps, failed := c.fetchSnapshots(ctx, symbol, peers)
	if len(peerSnaps) == 0 {
		return nil, fmt.Errorf("%w: no peer snapshots available for %s", contracts.ErrInsufficientData, symbol)
	}

	result := &contracts.ComparisonResult{
		Target:            symbol,
		PeerGroup:         peerGroupOf(peerSnaps),
		FailedSymbols:     failed,
		Snapshots:         map[string]*contracts.MetricSnapshot{symbol: target},
		Aggregates:        make(map[contracts.Metric]contracts.MetricAggregate),
		Percentiles:       make(map[contracts.Metric]contracts.PercentileRanking),
		RelativeValuation: make(map[contracts.Metric]contracts.RelativeValuation),
		GeneratedAt:       time.Now().UTC(),
	}
	for _, snap := range peerSnaps {
		result.Snapshots[snap.Symbol] = snap
	}

	for _, metric := range contracts.AllMetrics {
		// Aggregates run over every reporting symbol, target included
		population := metricPopulation(peerSnaps, metric)
		targetValue, targetReports := target.Value(metric)
		if targetReports {
			population = append(population, targetValue)
		}
		if len(population) == 0 {
			continue // nobody reports it, no aggregate
		}

		result.Aggregates[metric] = aggregate(population)

		if !targetReports {
			continue
		}
		result.Percentiles[metric] = contracts.PercentileRanking{
			Percentile:    statskit.PercentileRank(targetValue, population),
			LowerIsBetter: lowerIsBetter[metric],
		}
	}

	c.tagValuation(result, target)
	c.assess(result, target)

	return result, nil
}

// fetchSnapshots pulls peer snapshots with a bounded worker pool.
// Failures collect into a sorted slice instead of aborting the batch.
func (c *Comparer) fetchSnapshots(ctx context.Context, target string, peers []string) ([]*contracts.MetricSnapshot, []string) {
	jobs := make(chan string, len(peers))
	type fetchResult struct {
		snap   *contracts.MetricSnapshot
		symbol string
		err    error
	}
	results := make(chan fetchResult, len(peers))

	var wg sync.WaitGroup
	for w := 0; w < c.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for peer := range jobs {
				snap, err := c.provider.GetMetricSnapshot(ctx, peer)
				results <- fetchResult{snap: snap, symbol: peer, err: err}
			}
		}()
	}

	seen := make(map[string]bool, len(peers)+1)
	seen[target] = true // the target never counts as its own peer
	queued := 0
	for _, peer := range peers {
		peer = contracts.NormalizeSymbol(peer)
		if seen[peer] {
			continue
		}
		seen[peer] = true
		jobs <- peer
		queued++
	}
	close(jobs)

	wg.Wait()
	close(results)

	snaps := make([]*contracts.MetricSnapshot, 0, queued)
	var failed []string
	for r := range results {
		if r.err != nil {
			c.logger.WithField("symbol", r.symbol).WithError(r.err).
				Warn("peer snapshot fetch failed")
			failed = append(failed, r.symbol)
			continue
		}
		snaps = append(snaps, r.snap)
	}

	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Symbol < snaps[j].Symbol })
	sort.Strings(failed)
	return snaps, failed
}

// metricPopulation collects reported values for one metric across the
// peer snapshots. Unreported values are excluded, not zero-filled.
func metricPopulation(snaps []*contracts.MetricSnapshot, metric contracts.Metric) []float64 {
	values := make([]float64, 0, len(snaps))
	for _, snap := range snaps {
		if v, ok := snap.Value(metric); ok {
			values = append(values, v)
		}
	}
	return values
}

func aggregate(population []float64) contracts.MetricAggregate {
	median, _ := statskit.Median(population)
	mean, _ := statskit.Mean(population)
	lo, hi, _ := statskit.MinMax(population)
	return contracts.MetricAggregate{
		Median: statskit.Round2(median),
		Mean:   statskit.Round2(mean),
		Min:    statskit.Round2(lo),
		Max:    statskit.Round2(hi),
		Count:  len(population),
	}
}

// tagValuation computes signed deviation vs the peer median for each
// valuation metric both sides report
func (c *Comparer) tagValuation(result *contracts.ComparisonResult, target *contracts.MetricSnapshot) {
	for _, metric := range valuationMetrics {
		agg, ok := result.Aggregates[metric]
		if !ok || agg.Median == 0 {
			continue
		}
		targetValue, ok := target.Value(metric)
		if !ok {
			continue
		}

		deviation := (targetValue - agg.Median) / abs(agg.Median) * 100
		tag := contracts.ValuationDiscount
		if deviation > 0 {
			tag = contracts.ValuationPremium
		}
		result.RelativeValuation[metric] = contracts.RelativeValuation{
			DeviationPct: statskit.Round2(deviation),
			Tag:          tag,
		}
	}
}

// assessmentRule is one strength/weakness trigger against the peer median
type assessmentRule struct {
	metric   contracts.Metric
	label    string
	inverted bool // true when a LOWER target value is the favorable side
}

var assessmentRules = []assessmentRule{
	{metric: contracts.MetricProfitMargin, label: "profit margin"},
	{metric: contracts.MetricOperatingMargin, label: "operating margin"},
	{metric: contracts.MetricRevenueGrowth, label: "revenue growth"},
	{metric: contracts.MetricEarningsGrowth, label: "earnings growth"},
	{metric: contracts.MetricROE, label: "return on equity"},
	{metric: contracts.MetricROA, label: "return on assets"},
	{metric: contracts.MetricDebtToEquity, label: "debt load", inverted: true},
}

// assess turns deviations from the population median into narrative
// strengths and weaknesses. Operational metrics and valuation
// discounts trigger at the deviation threshold; valuation premiums at
// the wider valuation threshold.
func (c *Comparer) assess(result *contracts.ComparisonResult, target *contracts.MetricSnapshot) {
	for _, rule := range assessmentRules {
		agg, ok := result.Aggregates[rule.metric]
		if !ok || agg.Median == 0 {
			continue
		}
		targetValue, ok := target.Value(rule.metric)
		if !ok {
			continue
		}

		deviation := (targetValue - agg.Median) / abs(agg.Median) * 100
		favorable := deviation
		if rule.inverted {
			favorable = -deviation
		}

		switch {
		case favorable >= c.deviationThreshold:
			result.Strengths = append(result.Strengths,
				fmt.Sprintf("%s is %.1f%% better than the peer median", rule.label, abs(deviation)))
		case favorable <= -c.deviationThreshold:
			result.Weaknesses = append(result.Weaknesses,
				fmt.Sprintf("%s trails the peer median by %.1f%%", rule.label, abs(deviation)))
		}
	}

	// A meaningful discount is already a strength at the deviation
	// threshold; only a steep premium reads as a weakness
	for _, metric := range valuationMetrics {
		rv, ok := result.RelativeValuation[metric]
		if !ok {
			continue
		}
		switch {
		case rv.DeviationPct >= c.valuationThreshold:
			result.Weaknesses = append(result.Weaknesses,
				fmt.Sprintf("%s trades at a %.1f%% premium to peers", metric, rv.DeviationPct))
		case rv.DeviationPct <= -c.deviationThreshold:
			result.Strengths = append(result.Strengths,
				fmt.Sprintf("%s trades at a %.1f%% discount to peers", metric, abs(rv.DeviationPct)))
		}
	}
}

func peerGroupOf(snaps []*contracts.MetricSnapshot) []string {
	group := make([]string, len(snaps))
	for i, snap := range snaps {
		group[i] = snap.Symbol
	}
	return group
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
