// Package scoring implements the disruption and earnings-quality
// composite scorers over multi-period financial statements.
package scoring

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/wonny/quantlens/backend/internal/contracts"
	"github.com/wonny/quantlens/backend/internal/statskit"
	"github.com/wonny/quantlens/backend/pkg/logger"
)

// DefaultWeights blend the three disruption factors. Revenue
// acceleration carries the most weight: R&D spend without growth is
// just cost.
var DefaultWeights = contracts.ScoreWeights{
	RDIntensity:         0.35,
	RevenueAcceleration: 0.40,
	MarginTrajectory:    0.25,
}

// disruptionBands classify the composite score, highest first
var disruptionBands = []statskit.Band{
	{Min: 70, Label: "Active Disruptor", Description: "Investing aggressively with accelerating results"},
	{Min: 50, Label: "Moderate Innovator", Description: "Meaningful innovation signals, not yet compounding"},
	{Min: 30, Label: "Stable Incumbent", Description: "Defending position rather than attacking the market"},
	{Min: 0, Label: "At Risk", Description: "Weak innovation signals across the board"},
}

// Trend classification thresholds, in percentage points
const (
	rdTrendThreshold     = 0.5
	marginTrendThreshold = 1.0
	growthAccelThreshold = 2.0
)

const minAnnualPeriods = 2

// DisruptionScorer grades how aggressively a company is investing in
// and converting innovation
// ⭐ SSOT: 디스럽션 점수는 여기서만 계산
type DisruptionScorer struct {
	provider contracts.MarketDataProvider
	weights  contracts.ScoreWeights
	logger   *logger.Logger
}

// NewDisruptionScorer creates a scorer with the default factor weights
func NewDisruptionScorer(provider contracts.MarketDataProvider, log *logger.Logger) *DisruptionScorer {
	return &DisruptionScorer{
		provider: provider,
		weights:  DefaultWeights,
		logger:   log,
	}
}

// Score analyzes annual statements and produces the 0–100 disruption
// score with its factor breakdown. Fewer than two annual periods is
// not enough to observe any trajectory.
func (s *DisruptionScorer) Score(ctx context.Context, symbol string) (*contracts.DisruptionResult, error) {
	symbol = contracts.NormalizeSymbol(symbol)

	history, err := s.provider.GetFinancialHistory(ctx, symbol, contracts.PeriodicityAnnual)
	if err != nil {
		return nil, fmt.Errorf("financial history for %s: %w", symbol, err)
	}

	periods := usablePeriods(history.Periods)
	if len(periods) < minAnnualPeriods {
		return nil, fmt.Errorf("%w: %s has %d usable annual periods, need %d",
			contracts.ErrInsufficientData, symbol, len(periods), minAnnualPeriods)
	}

	meta, err := s.provider.GetMetadata(ctx, symbol)
	if err != nil {
		// Scoring still works against the default benchmark
		s.logger.WithField("symbol", symbol).WithError(err).Debug("metadata unavailable, using default benchmark")
		meta = &contracts.Metadata{Symbol: symbol, Name: history.Name}
	}
	benchmark := benchmarkFor(meta.Industry)

	rd := analyzeRDIntensity(periods, benchmark)
	revenue := analyzeRevenue(periods, benchmark)
	margins := analyzeMargins(periods, benchmark)

	components := contracts.DisruptionComponents{
		RDScore:     rdScore(rd),
		GrowthScore: growthScore(revenue),
		MarginScore: marginScore(margins),
	}

	score := statskit.CompositeScore([]statskit.Subscore{
		{Name: "rd_intensity", Value: components.RDScore, Weight: s.weights.RDIntensity},
		{Name: "revenue_acceleration", Value: components.GrowthScore, Weight: s.weights.RevenueAcceleration},
		{Name: "margin_trajectory", Value: components.MarginScore, Weight: s.weights.MarginTrajectory},
	})
	band := statskit.Classify(float64(score), disruptionBands)

	labels := make([]string, len(periods))
	for i, p := range periods {
		labels[i] = p.Label
	}

	result := &contracts.DisruptionResult{
		Symbol:         symbol,
		Name:           firstNonEmpty(meta.Name, history.Name),
		Sector:         meta.Sector,
		Industry:       meta.Industry,
		Score:          score,
		Classification: band.Label,
		Description:    band.Description,
		Components:     components,
		Weights:        s.weights,
		RDIntensity:    rd,
		Revenue:        revenue,
		Margins:        margins,
		PeriodsUsed:    labels,
		AnalyzedAt:     time.Now().UTC(),
	}
	result.Strengths, result.RiskFactors = narrate(rd, revenue, margins)

	return result, nil
}

// usablePeriods drops periods without reported revenue; ratios against
// a zero denominator are meaningless
func usablePeriods(periods []contracts.FinancialPeriod) []contracts.FinancialPeriod {
	out := make([]contracts.FinancialPeriod, 0, len(periods))
	for _, p := range periods {
		if p.Revenue > 0 {
			out = append(out, p)
		}
	}
	return out
}

// analyzeRDIntensity derives R&D-to-revenue ratios and their trend
func analyzeRDIntensity(periods []contracts.FinancialPeriod, benchmark industryBenchmark) contracts.RDIntensitySignal {
	ratios := make([]float64, len(periods))
	for i, p := range periods {
		ratios[i] = statskit.Round2(p.RDExpense / p.Revenue * 100)
	}

	current := ratios[len(ratios)-1]
	change := statskit.Round2(current - ratios[0])

	trend := "Stable"
	switch {
	case change > rdTrendThreshold:
		trend = "Increasing"
	case change < -rdTrendThreshold:
		trend = "Decreasing"
	}

	multiple := 0.0
	if benchmark.RDIntensityPct > 0 {
		multiple = statskit.Round2(current / benchmark.RDIntensityPct)
	}

	assessment := "In line with the industry"
	switch {
	case multiple >= 1.5:
		assessment = fmt.Sprintf("Outspends the industry %.1fx on R&D", multiple)
	case multiple > 0 && multiple <= 0.5:
		assessment = "Underinvests in R&D relative to the industry"
	case current == 0:
		assessment = "No reported R&D spend"
	}

	return contracts.RDIntensitySignal{
		CurrentPct:         current,
		ByPeriod:           ratios,
		Trend:              trend,
		TrendChangePct:     change,
		IndustryAvgPct:     benchmark.RDIntensityPct,
		VsIndustryMultiple: multiple,
		Assessment:         assessment,
	}
}

// analyzeRevenue derives period-over-period growth and its trajectory
func analyzeRevenue(periods []contracts.FinancialPeriod, benchmark industryBenchmark) contracts.RevenueAccelerationSignal {
	growthRates := make([]float64, 0, len(periods)-1)
	for i := 1; i < len(periods); i++ {
		growthRates = append(growthRates,
			statskit.Round2((periods[i].Revenue-periods[i-1].Revenue)/periods[i-1].Revenue*100))
	}

	yoy := growthRates[len(growthRates)-1]

	revenues := make([]float64, len(periods))
	for i, p := range periods {
		revenues[i] = p.Revenue
	}
	cagr, _ := statskit.CAGR(revenues)

	acceleration := 0.0
	trajectory := "Steady"
	if len(growthRates) >= 2 {
		acceleration = statskit.Round2(yoy - growthRates[len(growthRates)-2])
		switch {
		case acceleration > growthAccelThreshold:
			trajectory = "Accelerating"
		case acceleration < -growthAccelThreshold:
			trajectory = "Decelerating"
		}
	}

	assessment := "Growth near the industry norm"
	switch {
	case yoy >= benchmark.RevenueGrowth*2:
		assessment = "Growing far ahead of the industry"
	case yoy > benchmark.RevenueGrowth:
		assessment = "Growing faster than the industry"
	case yoy < 0:
		assessment = "Revenue is shrinking"
	}

	return contracts.RevenueAccelerationSignal{
		YoYGrowthPct:         yoy,
		CAGRPct:              cagr,
		GrowthRatesByPeriod:  growthRates,
		AccelerationPct:      acceleration,
		Trajectory:           trajectory,
		IndustryAvgGrowthPct: benchmark.RevenueGrowth,
		Assessment:           assessment,
	}
}

// analyzeMargins derives gross/operating margin levels and direction
func analyzeMargins(periods []contracts.FinancialPeriod, benchmark industryBenchmark) contracts.MarginTrajectorySignal {
	gross := make([]float64, len(periods))
	operating := make([]float64, len(periods))
	for i, p := range periods {
		gross[i] = statskit.Round2(p.GrossProfit / p.Revenue * 100)
		operating[i] = statskit.Round2(p.OperatingIncome / p.Revenue * 100)
	}

	currentGross := gross[len(gross)-1]
	change := statskit.Round2(currentGross - gross[0])

	trend := "Stable"
	switch {
	case change > marginTrendThreshold:
		trend = "Expanding"
	case change < -marginTrendThreshold:
		trend = "Contracting"
	}

	assessment := "Margins hold the industry level"
	switch {
	case currentGross > benchmark.GrossMarginPct && trend == "Expanding":
		assessment = "Above-industry margins, still expanding"
	case trend == "Contracting":
		assessment = "Margins are eroding"
	case currentGross < benchmark.GrossMarginPct*0.7:
		assessment = "Margins well below the industry"
	}

	return contracts.MarginTrajectorySignal{
		GrossMarginPct:     currentGross,
		OperatingMarginPct: operating[len(operating)-1],
		GrossMargins:       gross,
		OperatingMargins:   operating,
		ChangePct:          change,
		Trend:              trend,
		IndustryAvgPct:     benchmark.GrossMarginPct,
		Assessment:         assessment,
	}
}

// rdScore maps R&D intensity vs industry to 0–100. The industry
// multiple anchors the score; the spending trend shifts it 15 points.
func rdScore(rd contracts.RDIntensitySignal) float64 {
	base := math.Min(100, rd.VsIndustryMultiple*50)
	switch rd.Trend {
	case "Increasing":
		base += 15
	case "Decreasing":
		base -= 15
	}
	return statskit.Clamp(base, 0, 100)
}

// growthScore maps latest growth to a tiered 0–100 with an
// acceleration kicker
func growthScore(revenue contracts.RevenueAccelerationSignal) float64 {
	var base float64
	switch {
	case revenue.YoYGrowthPct >= 50:
		base = 100
	case revenue.YoYGrowthPct >= 30:
		base = 85
	case revenue.YoYGrowthPct >= 15:
		base = 70
	case revenue.YoYGrowthPct >= 5:
		base = 50
	case revenue.YoYGrowthPct >= 0:
		base = 30
	default:
		// Shrinking revenue bleeds the score point for point
		base = math.Max(0, 20+revenue.YoYGrowthPct)
	}

	switch revenue.Trajectory {
	case "Accelerating":
		base += 15
	case "Decelerating":
		base -= 15
	}
	return statskit.Clamp(base, 0, 100)
}

// marginScore maps the margin direction and change magnitude to 0–100.
// The margin level itself does not score; a fat but eroding margin is
// a warning, not an asset.
func marginScore(margins contracts.MarginTrajectorySignal) float64 {
	switch {
	case margins.Trend == "Expanding" && margins.ChangePct > 5:
		return 90
	case margins.Trend == "Expanding":
		return 75
	case margins.Trend == "Stable":
		return 50
	case margins.Trend == "Contracting" && margins.ChangePct > -5:
		return 30
	default:
		return 15
	}
}

// narrate turns the three signals into plain-language strengths and
// risk factors
func narrate(rd contracts.RDIntensitySignal, revenue contracts.RevenueAccelerationSignal, margins contracts.MarginTrajectorySignal) (strengths, risks []string) {
	if rd.VsIndustryMultiple >= 1.5 {
		strengths = append(strengths, fmt.Sprintf("R&D intensity %.1fx the industry average", rd.VsIndustryMultiple))
	}
	if rd.Trend == "Increasing" {
		strengths = append(strengths, "R&D investment is ramping")
	}
	if revenue.YoYGrowthPct > revenue.IndustryAvgGrowthPct {
		strengths = append(strengths, fmt.Sprintf("Revenue growing %.1f%% vs %.1f%% for the industry",
			revenue.YoYGrowthPct, revenue.IndustryAvgGrowthPct))
	}
	if revenue.Trajectory == "Accelerating" {
		strengths = append(strengths, "Revenue growth is accelerating")
	}
	if margins.Trend == "Expanding" {
		strengths = append(strengths, fmt.Sprintf("Gross margin expanded %.1f points", margins.ChangePct))
	}

	if rd.Trend == "Decreasing" {
		risks = append(risks, "R&D investment is being cut")
	}
	if rd.VsIndustryMultiple > 0 && rd.VsIndustryMultiple <= 0.5 {
		risks = append(risks, "R&D spend lags the industry")
	}
	if revenue.YoYGrowthPct < 0 {
		risks = append(risks, fmt.Sprintf("Revenue shrank %.1f%% in the latest period", math.Abs(revenue.YoYGrowthPct)))
	}
	if revenue.Trajectory == "Decelerating" {
		risks = append(risks, "Revenue growth is decelerating")
	}
	if margins.Trend == "Contracting" {
		risks = append(risks, fmt.Sprintf("Gross margin contracted %.1f points", math.Abs(margins.ChangePct)))
	}

	return strengths, risks
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
