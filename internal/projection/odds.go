package projection

import (
	"github.com/shopspring/decimal"
)

// HitProbability returns the share of values at or above the line.
// It reports false for an empty sample.
func HitProbability(values []float64, line float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	hits := 0
	for _, v := range values {
		if v >= line {
			hits++
		}
	}
	return float64(hits) / float64(len(values)), true
}

// FairAmericanOdds converts a probability to break-even American odds, rounding half
// to even. Favorites (p >= 0.5) are negative. Probabilities outside (0, 1) report false.
func FairAmericanOdds(p float64) (int, bool) {
	if !(p > 0 && p < 1) {
		return 0, false
	}
	var raw float64
	if p >= 0.5 {
		raw = -100 * p / (1 - p)
	} else {
		raw = 100 * (1 - p) / p
	}
	return int(decimal.NewFromFloat(raw).RoundBank(0).IntPart()), true
}
