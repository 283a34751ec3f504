package statskit

// Subscore is one weighted component of a composite score.
// Value is expected pre-normalized to 0–100 by its producer; out-of-range
// inputs are tolerated because the final score is clamped.
type Subscore struct {
	Name   string
	Value  float64
	Weight float64
}

// CompositeScore combines weighted sub-scores into an integer in [0,100].
// The weighted sum is clamped and truncated, never rounded, so a boundary
// value only crosses a classification band when it is genuinely reached.
func CompositeScore(subscores []Subscore) int {
	total := 0.0
	for _, s := range subscores {
		total += s.Value * s.Weight
	}
	return int(Clamp(total, 0, 100))
}

// Band is one classification threshold: scores >= Min earn the label.
// Bands must be supplied in descending Min order.
type Band struct {
	Min         float64
	Label       string
	Description string
}

// Classify maps a score onto the caller's classification bands. The last
// band acts as the catch-all when its Min is not reached by any score.
func Classify(score float64, bands []Band) Band {
	for _, b := range bands {
		if score >= b.Min {
			return b
		}
	}
	if len(bands) > 0 {
		return bands[len(bands)-1]
	}
	return Band{}
}
