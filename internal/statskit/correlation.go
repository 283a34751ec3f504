package statskit

import (
	"fmt"
	"math"
	"sort"

	"github.com/wonny/quantlens/backend/internal/contracts"
)

// MinCorrelationPoints is the minimum aligned return points per series
const MinCorrelationPoints = 20

// CorrelationResult holds the pairwise Pearson matrix for a symbol set
type CorrelationResult struct {
	Symbols        []string                      // sorted ascending
	Matrix         map[string]map[string]float64 // rounded to 3 decimals
	AvgCorrelation float64                       // mean of upper triangle
	AlignedPoints  int                           // common series length used
}

// CorrelationMatrix computes the pairwise Pearson correlation matrix over
// daily returns. All series are right-aligned to the shortest common
// length (most recent points win). Requires at least 2 symbols, each with
// more than minPoints aligned points; otherwise ErrInsufficientData.
func CorrelationMatrix(returnsBySymbol map[string][]float64, minPoints int) (*CorrelationResult, error) {
	if minPoints <= 0 {
		minPoints = MinCorrelationPoints
	}

	symbols := make([]string, 0, len(returnsBySymbol))
	for sym, returns := range returnsBySymbol {
		if len(returns) > minPoints {
			symbols = append(symbols, sym)
		}
	}
	if len(symbols) < 2 {
		return nil, fmt.Errorf("%w: need >=2 series with more than %d return points", contracts.ErrInsufficientData, minPoints)
	}
	sort.Strings(symbols)

	// Align to the shortest series, keeping the most recent points
	minLen := len(returnsBySymbol[symbols[0]])
	for _, sym := range symbols[1:] {
		if l := len(returnsBySymbol[sym]); l < minLen {
			minLen = l
		}
	}

	aligned := make(map[string][]float64, len(symbols))
	for _, sym := range symbols {
		series := returnsBySymbol[sym]
		aligned[sym] = series[len(series)-minLen:]
	}

	matrix := make(map[string]map[string]float64, len(symbols))
	upperSum := 0.0
	upperCount := 0
	for i, a := range symbols {
		matrix[a] = make(map[string]float64, len(symbols))
		for j, b := range symbols {
			corr := Round3(pearson(aligned[a], aligned[b]))
			matrix[a][b] = corr
			if i < j {
				upperSum += corr
				upperCount++
			}
		}
	}

	avg := 0.0
	if upperCount > 0 {
		avg = Round3(upperSum / float64(upperCount))
	}

	return &CorrelationResult{
		Symbols:        symbols,
		Matrix:         matrix,
		AvgCorrelation: avg,
		AlignedPoints:  minLen,
	}, nil
}

// pearson computes the Pearson correlation coefficient of two equal-length
// series. Degenerate (zero variance) series yield 0.
func pearson(x, y []float64) float64 {
	n := float64(len(x))
	if n == 0 {
		return 0
	}

	meanX, _ := Mean(x)
	meanY, _ := Mean(y)

	var cov, varX, varY float64
	for i := range x {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}
