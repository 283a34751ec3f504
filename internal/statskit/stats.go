// Package statskit holds the shared pure statistics used by every engine.
// No I/O, no logging; callers own error surfacing.
package statskit

import (
	"math"
	"sort"
)

// Round2 rounds to 2 decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round3 rounds to 3 decimal places
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Clamp bounds v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Mean returns the arithmetic mean; false for an empty slice
func Mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), true
}

// Median returns the median; false for an empty slice
func Median(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2], true
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2, true
}

// StdDev returns the population standard deviation; false when empty
func StdDev(values []float64) (float64, bool) {
	mean, ok := Mean(values)
	if !ok {
		return 0, false
	}
	sumSq := 0.0
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values))), true
}

// MinMax returns the smallest and largest values; false when empty
func MinMax(values []float64) (float64, float64, bool) {
	if len(values) == 0 {
		return 0, 0, false
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi, true
}

// PeriodReturn computes the percent return over the trailing lookbackDays
// trading days. false when the series is too short or the anchor price is
// not positive.
func PeriodReturn(closes []float64, lookbackDays int) (float64, bool) {
	if lookbackDays < 1 || len(closes) < lookbackDays+1 {
		return 0, false
	}
	start := closes[len(closes)-1-lookbackDays]
	end := closes[len(closes)-1]
	if start <= 0 {
		return 0, false
	}
	return Round2((end - start) / start * 100), true
}

// CAGR computes the compound annual growth rate in percent over
// len(values)-1 periods. false with fewer than 2 points or a non-positive
// starting value.
func CAGR(values []float64) (float64, bool) {
	if len(values) < 2 || values[0] <= 0 {
		return 0, false
	}
	if values[len(values)-1] <= 0 {
		return 0, false
	}
	periods := float64(len(values) - 1)
	growth := math.Pow(values[len(values)-1]/values[0], 1/periods) - 1
	return Round2(growth * 100), true
}

// PercentileRank places value within the population, expressed 1–100.
// The rank of the first occurrence in the sorted population is used, so
// the result is deterministic for tied values. lowerIsBetter is carried
// by the caller as presentation metadata; it does not change the number.
func PercentileRank(value float64, population []float64) int {
	if len(population) == 0 {
		return 0
	}
	sorted := make([]float64, len(population))
	copy(sorted, population)
	sort.Float64s(sorted)

	rank := len(sorted) // values above the whole population rank last
	for i, v := range sorted {
		if value <= v {
			rank = i + 1
			break
		}
	}

	pct := int(float64(rank) / float64(len(sorted)) * 100)
	if pct < 1 {
		pct = 1
	}
	if pct > 100 {
		pct = 100
	}
	return pct
}
