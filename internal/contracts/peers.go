package contracts

import "time"

// PeerDiscoveryResult is the output of a peer discovery call
type PeerDiscoveryResult struct {
	Symbol          string   `json:"symbol"`
	TargetSector    string   `json:"target_sector"`
	TargetIndustry  string   `json:"target_industry"`
	TargetMarketCap float64  `json:"target_market_cap"`
	Peers           []string `json:"peers"`
	PeerCount       int      `json:"peer_count"`
	FromCache       bool     `json:"from_cache"`
}

// MetricAggregate holds cross-sectional statistics for one metric.
// Symbols that do not report the metric are excluded from the population.
type MetricAggregate struct {
	Median float64 `json:"median"`
	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Count  int     `json:"count"`
}

// PercentileRanking places the target within the peer population
type PercentileRanking struct {
	Percentile    int  `json:"percentile"` // 1–100
	LowerIsBetter bool `json:"lower_is_better"`
}

// ValuationTag classifies deviation from the peer median
type ValuationTag string

const (
	ValuationPremium  ValuationTag = "Premium"
	ValuationDiscount ValuationTag = "Discount"
)

// RelativeValuation holds target deviation vs the peer median
type RelativeValuation struct {
	DeviationPct float64      `json:"deviation_pct"` // signed, percent of |median|
	Tag          ValuationTag `json:"tag"`
}

// ComparisonResult is the output of a peer comparison call
type ComparisonResult struct {
	Target            string                       `json:"target"`
	PeerGroup         []string                     `json:"peer_group"`
	FailedSymbols     []string                     `json:"failed_symbols,omitempty"`
	Snapshots         map[string]*MetricSnapshot   `json:"metrics"`
	Aggregates        map[Metric]MetricAggregate   `json:"peer_aggregates"`
	Percentiles       map[Metric]PercentileRanking `json:"percentile_rankings"`
	RelativeValuation map[Metric]RelativeValuation `json:"relative_valuation"`
	Strengths         []string                     `json:"strengths"`
	Weaknesses        []string                     `json:"weaknesses"`
	GeneratedAt       time.Time                    `json:"generated_at"`
}
