package contracts

import "time"

// ScoreWeights holds the disruption factor weights (must sum to 1.0)
type ScoreWeights struct {
	RDIntensity         float64 `json:"rd_intensity"`
	RevenueAcceleration float64 `json:"revenue_acceleration"`
	MarginTrajectory    float64 `json:"margin_trajectory"`
}

// RDIntensitySignal describes R&D spend relative to revenue and industry
type RDIntensitySignal struct {
	CurrentPct         float64   `json:"rd_to_revenue_pct"`
	ByPeriod           []float64 `json:"rd_ratios_by_period"`
	Trend              string    `json:"trend"` // Increasing | Decreasing | Stable
	TrendChangePct     float64   `json:"trend_change_pct"`
	IndustryAvgPct     float64   `json:"industry_average_pct"`
	VsIndustryMultiple float64   `json:"vs_industry_multiple"`
	Assessment         string    `json:"assessment"`
}

// RevenueAccelerationSignal describes growth rate and its trajectory
type RevenueAccelerationSignal struct {
	YoYGrowthPct         float64   `json:"yoy_growth_pct"`
	CAGRPct              float64   `json:"cagr_pct"`
	GrowthRatesByPeriod  []float64 `json:"growth_rates_by_period"`
	AccelerationPct      float64   `json:"growth_acceleration_pct"`
	Trajectory           string    `json:"trajectory"`
	IndustryAvgGrowthPct float64   `json:"industry_average_growth_pct"`
	Assessment           string    `json:"assessment"`
}

// MarginTrajectorySignal describes gross/operating margin direction
type MarginTrajectorySignal struct {
	GrossMarginPct     float64   `json:"current_gross_margin_pct"`
	OperatingMarginPct float64   `json:"current_operating_margin_pct"`
	GrossMargins       []float64 `json:"gross_margins_by_period"`
	OperatingMargins   []float64 `json:"operating_margins_by_period"`
	ChangePct          float64   `json:"gross_margin_change_pct"`
	Trend              string    `json:"trend"` // Expanding | Contracting | Stable
	IndustryAvgPct     float64   `json:"industry_average_gm_pct"`
	Assessment         string    `json:"assessment"`
}

// DisruptionComponents breaks the disruption score into sub-scores
type DisruptionComponents struct {
	RDScore     float64 `json:"rd_score"`
	GrowthScore float64 `json:"growth_score"`
	MarginScore float64 `json:"margin_score"`
}

// DisruptionResult is the output of a disruption scoring call
type DisruptionResult struct {
	Symbol         string                    `json:"symbol"`
	Name           string                    `json:"name"`
	Sector         string                    `json:"sector"`
	Industry       string                    `json:"industry"`
	Score          int                       `json:"disruption_score"` // 0–100
	Classification string                    `json:"classification"`
	Description    string                    `json:"classification_description"`
	Components     DisruptionComponents      `json:"score_components"`
	Weights        ScoreWeights              `json:"score_weights"`
	RDIntensity    RDIntensitySignal         `json:"rd_intensity"`
	Revenue        RevenueAccelerationSignal `json:"revenue_acceleration"`
	Margins        MarginTrajectorySignal    `json:"gross_margin_trajectory"`
	Strengths      []string                  `json:"strengths"`
	RiskFactors    []string                  `json:"risk_factors"`
	PeriodsUsed    []string                  `json:"periods_analyzed"`
	AnalyzedAt     time.Time                 `json:"analyzed_at"`
}

// DisruptionRanking compares disruption profiles across symbols
type DisruptionRanking struct {
	Compared       int                      `json:"companies_compared"`
	Entries        []DisruptionRankingEntry `json:"comparison"`
	MostDisruptive string                   `json:"most_disruptive,omitempty"`
	AnalyzedAt     time.Time                `json:"analyzed_at"`
}

// DisruptionRankingEntry is one symbol's row in a disruption ranking
type DisruptionRankingEntry struct {
	Symbol         string  `json:"symbol"`
	Name           string  `json:"name,omitempty"`
	Industry       string  `json:"industry,omitempty"`
	Score          int     `json:"disruption_score"`
	Classification string  `json:"classification,omitempty"`
	RDIntensityPct float64 `json:"rd_intensity_pct"`
	GrowthPct      float64 `json:"revenue_growth_pct"`
	MarginTrend    string  `json:"margin_trend,omitempty"`
	Error          string  `json:"error,omitempty"`
}

// QuarterSummary is one quarter's line items in an earnings result
type QuarterSummary struct {
	Label     string  `json:"quarter"`
	EndDate   string  `json:"date"`
	Revenue   float64 `json:"revenue"`
	NetIncome float64 `json:"net_income"`
}

// QuarterlyTrends holds QoQ growth series and their direction labels
type QuarterlyTrends struct {
	RevenueQoQPct    []float64 `json:"revenue_qoq_growth_pct"`
	RevenueTrend     string    `json:"revenue_trend"`
	IncomeQoQPct     []float64 `json:"net_income_qoq_growth_pct"`
	IncomeTrend      string    `json:"income_trend"`
	GrossMarginsPct  []float64 `json:"gross_margins_by_quarter_pct"`
	MarginTrajectory string    `json:"margin_trajectory"`
}

// YoYComparison compares the latest quarter to the same quarter last year
type YoYComparison struct {
	Period           string   `json:"comparison_period"`
	RevenueGrowthPct *float64 `json:"revenue_growth_pct"`
	IncomeGrowthPct  *float64 `json:"net_income_growth_pct"`
	Turnaround       bool     `json:"turnaround_to_profitability,omitempty"`
}

// EarningsQualityResult is the output of an earnings-quality grading call
type EarningsQualityResult struct {
	Symbol       string           `json:"symbol"`
	Name         string           `json:"name"`
	Score        float64          `json:"score"` // 1.0–10.0
	Assessment   string           `json:"assessment"`
	Factors      []string         `json:"factors"`
	LastQuarters []QuarterSummary `json:"last_quarters"`
	Trends       QuarterlyTrends  `json:"quarterly_trends"`
	YoY          *YoYComparison   `json:"yoy_comparison,omitempty"`
	AnalyzedAt   time.Time        `json:"analyzed_at"`
}
