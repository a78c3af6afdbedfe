// Package projection computes cluster-conditioned statistics, blended projections and
// fair odds for a player's stat line.
package projection

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/chiefotto/clustercalculator/internal/models"
)

// Values extracts the usable values of a stat. Missing values are skipped, not zeroed.
func Values(rows []models.GameLogRow, col models.StatColumn) []float64 {
	out := make([]float64, 0, len(rows))
	for _, r := range rows {
		if v, ok := r.Value(col); ok {
			out = append(out, v)
		}
	}
	return out
}

// Describe computes count, mean, median, sample standard deviation, min, quartiles
// and max. Quartiles interpolate linearly between closest ranks. One value gives a
// standard deviation of 0; no values give an empty summary.
func Describe(values []float64) models.Summary {
	n := len(values)
	if n == 0 {
		return models.Summary{}
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	mean, std := stat.MeanStdDev(sorted, nil)
	if n == 1 {
		std = 0
	}

	return models.Summary{
		N:      n,
		Mean:   mean,
		Median: quantile(sorted, 0.5),
		Std:    std,
		Min:    sorted[0],
		P25:    quantile(sorted, 0.25),
		P75:    quantile(sorted, 0.75),
		Max:    sorted[n-1],
	}
}

// quantile expects sorted, non-empty input. It interpolates between closest ranks
// (h = q*(n-1)), which gonum's stat.Quantile does not offer.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}
