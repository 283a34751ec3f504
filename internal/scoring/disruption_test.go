package scoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/quantlens/backend/internal/contracts"
)

func TestScoreActiveDisruptor(t *testing.T) {
	provider := newFakeProvider()
	provider.metadata["HYPR"] = &contracts.Metadata{
		Symbol: "HYPR", Name: "Hypergrowth Inc", Sector: "Technology", Industry: "Semiconductors",
	}
	provider.addFinancials(&contracts.FinancialHistory{
		Symbol:      "HYPR",
		Name:        "Hypergrowth Inc",
		Periodicity: contracts.PeriodicityAnnual,
		Periods: []contracts.FinancialPeriod{
			annualPeriod("2021", 100, 60, 25, 20, 20),
			annualPeriod("2022", 140, 88, 38, 30, 30),
			annualPeriod("2023", 210, 137, 60, 48, 47),
		},
	})

	result, err := NewDisruptionScorer(provider, testLogger()).Score(context.Background(), "hypr")
	require.NoError(t, err)

	// rd 89.5 (1.49x industry + increasing), growth 100, margin 90
	// (expanding by 5.24 points): 89.5*0.35 + 100*0.40 + 90*0.25 = 93.8
	assert.Equal(t, "HYPR", result.Symbol)
	assert.Equal(t, 93, result.Score)
	assert.Equal(t, "Active Disruptor", result.Classification)

	assert.Equal(t, "Increasing", result.RDIntensity.Trend)
	assert.InDelta(t, 22.38, result.RDIntensity.CurrentPct, 0.01)
	assert.InDelta(t, 1.49, result.RDIntensity.VsIndustryMultiple, 0.01)

	assert.Equal(t, 50.0, result.Revenue.YoYGrowthPct)
	assert.Equal(t, "Accelerating", result.Revenue.Trajectory)
	assert.Equal(t, []float64{40, 50}, result.Revenue.GrowthRatesByPeriod)

	assert.Equal(t, "Expanding", result.Margins.Trend)
	assert.InDelta(t, 65.24, result.Margins.GrossMarginPct, 0.01)

	assert.Equal(t, []string{"2021", "2022", "2023"}, result.PeriodsUsed)
	assert.NotEmpty(t, result.Strengths)
	assert.Empty(t, result.RiskFactors)
}

func TestScoreDecliningCompany(t *testing.T) {
	provider := newFakeProvider()
	provider.metadata["FADE"] = &contracts.Metadata{
		Symbol: "FADE", Name: "Fading Corp", Sector: "Technology", Industry: "Consumer Electronics",
	}
	provider.addFinancials(&contracts.FinancialHistory{
		Symbol:      "FADE",
		Periodicity: contracts.PeriodicityAnnual,
		Periods: []contracts.FinancialPeriod{
			annualPeriod("2021", 200, 80, 30, 25, 10),
			annualPeriod("2022", 180, 63, 20, 16, 7),
			annualPeriod("2023", 150, 45, 10, 8, 4),
		},
	})

	result, err := NewDisruptionScorer(provider, testLogger()).Score(context.Background(), "FADE")
	require.NoError(t, err)

	assert.Equal(t, "At Risk", result.Classification)
	assert.Less(t, result.Score, 30)

	assert.Equal(t, "Decreasing", result.RDIntensity.Trend)
	assert.Equal(t, "Decelerating", result.Revenue.Trajectory)
	assert.Equal(t, "Contracting", result.Margins.Trend)
	assert.Empty(t, result.Strengths)
	assert.NotEmpty(t, result.RiskFactors)
}

func TestScoreInsufficientHistory(t *testing.T) {
	provider := newFakeProvider()
	provider.addFinancials(&contracts.FinancialHistory{
		Symbol:      "ONEYR",
		Periodicity: contracts.PeriodicityAnnual,
		Periods:     []contracts.FinancialPeriod{annualPeriod("2023", 100, 50, 20, 15, 10)},
	})

	_, err := NewDisruptionScorer(provider, testLogger()).Score(context.Background(), "ONEYR")
	assert.ErrorIs(t, err, contracts.ErrInsufficientData)
}

func TestScoreDropsZeroRevenuePeriods(t *testing.T) {
	provider := newFakeProvider()
	provider.addFinancials(&contracts.FinancialHistory{
		Symbol:      "GAPPY",
		Periodicity: contracts.PeriodicityAnnual,
		Periods: []contracts.FinancialPeriod{
			annualPeriod("2021", 0, 0, 0, 0, 0), // unreported year
			annualPeriod("2022", 100, 50, 20, 15, 12),
			annualPeriod("2023", 120, 62, 26, 20, 15),
		},
	})

	result, err := NewDisruptionScorer(provider, testLogger()).Score(context.Background(), "GAPPY")
	require.NoError(t, err)
	assert.Equal(t, []string{"2022", "2023"}, result.PeriodsUsed)
}

func TestMarginScoreFollowsTrendNotLevel(t *testing.T) {
	tests := []struct {
		name   string
		signal contracts.MarginTrajectorySignal
		want   float64
	}{
		{"strongly expanding", contracts.MarginTrajectorySignal{Trend: "Expanding", ChangePct: 6.2}, 90},
		{"mildly expanding", contracts.MarginTrajectorySignal{Trend: "Expanding", ChangePct: 2.1}, 75},
		{"stable", contracts.MarginTrajectorySignal{Trend: "Stable", ChangePct: 0.4}, 50},
		{"mildly contracting", contracts.MarginTrajectorySignal{Trend: "Contracting", ChangePct: -3}, 30},
		{"strongly contracting", contracts.MarginTrajectorySignal{Trend: "Contracting", ChangePct: -9}, 15},
		{
			// A fat margin that is eroding is a warning, not an asset
			"high level but eroding",
			contracts.MarginTrajectorySignal{GrossMarginPct: 80, Trend: "Contracting", ChangePct: -6},
			15,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, marginScore(tt.signal))
		})
	}
}

func TestGrowthScoreNegativeAndKicker(t *testing.T) {
	tests := []struct {
		name   string
		signal contracts.RevenueAccelerationSignal
		want   float64
	}{
		{"mild decline", contracts.RevenueAccelerationSignal{YoYGrowthPct: -5, Trajectory: "Steady"}, 15},
		{"steep decline floors at zero", contracts.RevenueAccelerationSignal{YoYGrowthPct: -30, Trajectory: "Steady"}, 0},
		{"accelerating kicker", contracts.RevenueAccelerationSignal{YoYGrowthPct: 20, Trajectory: "Accelerating"}, 85},
		{"decelerating kicker", contracts.RevenueAccelerationSignal{YoYGrowthPct: 20, Trajectory: "Decelerating"}, 55},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, growthScore(tt.signal))
		})
	}
}

func TestScoreUnknownSymbol(t *testing.T) {
	_, err := NewDisruptionScorer(newFakeProvider(), testLogger()).Score(context.Background(), "NOPE")
	assert.ErrorIs(t, err, contracts.ErrNotFound)
}

func TestScoreUnknownIndustryFallsBackToDefault(t *testing.T) {
	provider := newFakeProvider()
	provider.metadata["ODD"] = &contracts.Metadata{
		Symbol: "ODD", Sector: "Industrials", Industry: "Niche Widgets",
	}
	provider.addFinancials(&contracts.FinancialHistory{
		Symbol:      "ODD",
		Periodicity: contracts.PeriodicityAnnual,
		Periods: []contracts.FinancialPeriod{
			annualPeriod("2022", 100, 40, 15, 10, 5),
			annualPeriod("2023", 110, 45, 17, 12, 6),
		},
	})

	result, err := NewDisruptionScorer(provider, testLogger()).Score(context.Background(), "ODD")
	require.NoError(t, err)
	assert.Equal(t, 5.0, result.RDIntensity.IndustryAvgPct, "unlisted industries use the default benchmark")
}
