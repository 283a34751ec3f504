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

const minQuarters = 4

// Quality score adjustments. The grade starts neutral at 5.0 and each
// factor nudges it; the final score is clamped to [1,10].
const (
	qualityBase = 5.0

	revenueCVTight       = 0.10
	revenueCVModerate    = 0.20
	revenueCVLoose       = 0.30
	revenueTightBonus    = 1.5
	revenueModerateBonus = 0.5
	revenueLoosePenalty  = 1.0

	marginStdTight     = 0.02
	marginStdLoose     = 0.05
	marginTightBonus   = 1.0
	marginLoosePenalty = 0.5

	netOpRatioLow     = 0.6
	netOpRatioHigh    = 1.2
	netOpRatioPenalty = 0.25

	growthCompositionDelta = 0.5
)

// qualityBands classify the 1–10 score, highest first
var qualityBands = []statskit.Band{
	{Min: 8.0, Label: "High Quality", Description: "Consistent, well-composed earnings"},
	{Min: 6.5, Label: "Good Quality", Description: "Mostly steady results with minor noise"},
	{Min: 5.0, Label: "Average Quality", Description: "Typical variability for the size"},
	{Min: 3.5, Label: "Below Average Quality", Description: "Choppy results or weak composition"},
	{Min: 0, Label: "Poor Quality", Description: "Erratic earnings, treat reported numbers with care"},
}

// EarningsQualityGrader grades consistency and composition of recent
// quarterly results on a 1–10 scale
// ⭐ SSOT: 실적 품질 등급은 여기서만 계산
type EarningsQualityGrader struct {
	provider contracts.MarketDataProvider
	logger   *logger.Logger
}

// NewEarningsQualityGrader creates the grader
func NewEarningsQualityGrader(provider contracts.MarketDataProvider, log *logger.Logger) *EarningsQualityGrader {
	return &EarningsQualityGrader{provider: provider, logger: log}
}

// Grade analyzes quarterly statements and produces the quality score,
// the factor narrative and the QoQ/YoY trend blocks. Fewer than four
// usable quarters cannot support a consistency judgment.
func (g *EarningsQualityGrader) Grade(ctx context.Context, symbol string) (*contracts.EarningsQualityResult, error) {
	symbol = contracts.NormalizeSymbol(symbol)

	history, err := g.provider.GetFinancialHistory(ctx, symbol, contracts.PeriodicityQuarterly)
	if err != nil {
		return nil, fmt.Errorf("quarterly history for %s: %w", symbol, err)
	}

	quarters := usablePeriods(history.Periods)
	if len(quarters) < minQuarters {
		return nil, fmt.Errorf("%w: %s has %d usable quarters, need %d",
			contracts.ErrInsufficientData, symbol, len(quarters), minQuarters)
	}

	score, factors := gradeQuarters(quarters)
	band := statskit.Classify(score, qualityBands)

	result := &contracts.EarningsQualityResult{
		Symbol:     symbol,
		Name:       history.Name,
		Score:      score,
		Assessment: band.Label,
		Factors:    factors,
		Trends:     quarterlyTrends(quarters),
		YoY:        yoyComparison(quarters),
		AnalyzedAt: time.Now().UTC(),
	}

	// Most recent four quarters, oldest first
	recent := quarters[len(quarters)-minQuarters:]
	result.LastQuarters = make([]contracts.QuarterSummary, len(recent))
	for i, q := range recent {
		result.LastQuarters[i] = contracts.QuarterSummary{
			Label:     q.Label,
			EndDate:   q.EndDate,
			Revenue:   q.Revenue,
			NetIncome: q.NetIncome,
		}
	}

	return result, nil
}

// gradeQuarters applies the factor adjustments and returns the clamped
// score plus the narrative for each applied factor
func gradeQuarters(quarters []contracts.FinancialPeriod) (float64, []string) {
	score := qualityBase
	var factors []string

	revenues := make([]float64, len(quarters))
	grossMargins := make([]float64, len(quarters))
	for i, q := range quarters {
		revenues[i] = q.Revenue
		grossMargins[i] = q.GrossProfit / q.Revenue
	}

	// Revenue consistency: coefficient of variation
	revMean, _ := statskit.Mean(revenues)
	revStd, _ := statskit.StdDev(revenues)
	cv := revStd / revMean
	switch {
	case cv < revenueCVTight:
		score += revenueTightBonus
		factors = append(factors, fmt.Sprintf("Very consistent revenue (CV %.2f)", cv))
	case cv < revenueCVModerate:
		score += revenueModerateBonus
		factors = append(factors, fmt.Sprintf("Reasonably consistent revenue (CV %.2f)", cv))
	case cv > revenueCVLoose:
		score -= revenueLoosePenalty
		factors = append(factors, fmt.Sprintf("Volatile revenue (CV %.2f)", cv))
	}

	// Margin stability: gross margin standard deviation
	marginStd, _ := statskit.StdDev(grossMargins)
	switch {
	case marginStd < marginStdTight:
		score += marginTightBonus
		factors = append(factors, "Stable gross margins")
	case marginStd > marginStdLoose:
		score -= marginLoosePenalty
		factors = append(factors, "Unstable gross margins")
	}

	// Earnings composition: net income far from operating income in any
	// recent quarter suggests non-operating noise in the bottom line.
	// The first misaligned quarter, newest first, takes the penalty.
	recent := quarters[len(quarters)-minQuarters:]
	for i := len(recent) - 1; i >= 0; i-- {
		q := recent[i]
		if q.OperatingIncome <= 0 {
			continue
		}
		ratio := q.NetIncome / q.OperatingIncome
		if ratio >= netOpRatioLow && ratio <= netOpRatioHigh {
			continue
		}
		score -= netOpRatioPenalty
		switch {
		case ratio > 1.5:
			factors = append(factors, fmt.Sprintf("%s net income well above operating income points to non-operating gains", q.Label))
		case ratio < 0.5:
			factors = append(factors, fmt.Sprintf("%s net income well below operating income points to non-operating losses", q.Label))
		}
		break
	}

	// Growth composition: income outpacing revenue over the past year is
	// operating leverage; income growth without revenue growth is
	// cost-cutting
	latest, yearBack := quarters[len(quarters)-1], quarters[len(quarters)-4]
	var revGrowth, incGrowth float64
	if yearBack.Revenue > 0 {
		revGrowth = (latest.Revenue - yearBack.Revenue) / yearBack.Revenue
	}
	if yearBack.NetIncome > 0 {
		incGrowth = (latest.NetIncome - yearBack.NetIncome) / yearBack.NetIncome
	}
	switch {
	case revGrowth > 0 && incGrowth > revGrowth:
		score += growthCompositionDelta
		factors = append(factors, "Income growing faster than revenue")
	case revGrowth > 0:
		factors = append(factors, "Revenue-driven growth")
	case incGrowth > 0:
		score -= growthCompositionDelta
		factors = append(factors, "Income grew without revenue growth")
	}

	return statskit.Clamp(math.Round(score*100)/100, 1, 10), factors
}

// quarterlyTrends builds the QoQ growth series and direction labels
func quarterlyTrends(quarters []contracts.FinancialPeriod) contracts.QuarterlyTrends {
	revQoQ := make([]float64, 0, len(quarters)-1)
	incQoQ := make([]float64, 0, len(quarters)-1)
	grossMargins := make([]float64, 0, len(quarters))

	for i, q := range quarters {
		grossMargins = append(grossMargins, statskit.Round2(q.GrossProfit/q.Revenue*100))
		if i == 0 {
			continue
		}
		prev := quarters[i-1]
		revQoQ = append(revQoQ, statskit.Round2((q.Revenue-prev.Revenue)/prev.Revenue*100))
		if prev.NetIncome != 0 {
			incQoQ = append(incQoQ, statskit.Round2((q.NetIncome-prev.NetIncome)/math.Abs(prev.NetIncome)*100))
		}
	}

	return contracts.QuarterlyTrends{
		RevenueQoQPct:    revQoQ,
		RevenueTrend:     directionOf(revQoQ),
		IncomeQoQPct:     incQoQ,
		IncomeTrend:      directionOf(incQoQ),
		GrossMarginsPct:  grossMargins,
		MarginTrajectory: marginDirection(grossMargins),
	}
}

// directionOf labels a growth series by the balance of its signs
func directionOf(growthRates []float64) string {
	if len(growthRates) == 0 {
		return "Unknown"
	}
	positive := 0
	for _, r := range growthRates {
		if r > 0 {
			positive++
		}
	}
	switch {
	case positive == len(growthRates):
		return "Improving"
	case positive == 0:
		return "Declining"
	default:
		return "Mixed"
	}
}

func marginDirection(margins []float64) string {
	if len(margins) < 2 {
		return "Unknown"
	}
	change := margins[len(margins)-1] - margins[0]
	switch {
	case change > marginTrendThreshold:
		return "Expanding"
	case change < -marginTrendThreshold:
		return "Contracting"
	default:
		return "Stable"
	}
}

// yoyComparison compares the latest quarter to the same quarter a year
// earlier; nil when fewer than five quarters are available
func yoyComparison(quarters []contracts.FinancialPeriod) *contracts.YoYComparison {
	if len(quarters) < 5 {
		return nil
	}

	latest := quarters[len(quarters)-1]
	yearAgo := quarters[len(quarters)-5]

	yoy := &contracts.YoYComparison{
		Period: fmt.Sprintf("%s vs %s", latest.Label, yearAgo.Label),
	}

	if yearAgo.Revenue > 0 {
		growth := statskit.Round2((latest.Revenue - yearAgo.Revenue) / yearAgo.Revenue * 100)
		yoy.RevenueGrowthPct = &growth
	}
	switch {
	case yearAgo.NetIncome > 0:
		growth := statskit.Round2((latest.NetIncome - yearAgo.NetIncome) / yearAgo.NetIncome * 100)
		yoy.IncomeGrowthPct = &growth
	case yearAgo.NetIncome < 0 && latest.NetIncome > 0:
		yoy.Turnaround = true
	}

	return yoy
}
