package dvp

import (
	"fmt"
	"math"

	"github.com/chiefotto/clustercalculator/internal/models"
)

// LeagueAverages returns the mean of each category over every row that has a value.
// Categories with no values are absent.
func LeagueAverages(rows []models.DVPRow) map[models.DVPStat]float64 {
	sums := make(map[models.DVPStat]float64)
	counts := make(map[models.DVPStat]int)
	for _, r := range rows {
		for stat, v := range r.Values {
			sums[stat] += v
			counts[stat]++
		}
	}

	avgs := make(map[models.DVPStat]float64, len(sums))
	for stat, sum := range sums {
		avgs[stat] = sum / float64(counts[stat])
	}
	return avgs
}

// ApplyDefFactors returns copies of rows with def_factor = value / league average.
// The baseline is the whole table, not each position. A category whose average is
// zero or undefined gets no factor.
func ApplyDefFactors(rows []models.DVPRow) ([]models.DVPRow, map[models.DVPStat]float64) {
	avgs := LeagueAverages(rows)

	out := make([]models.DVPRow, len(rows))
	for i, r := range rows {
		r.DefFactors = make(map[models.DVPStat]float64, len(r.Values))
		for stat, v := range r.Values {
			avg, ok := avgs[stat]
			if !ok || avg == 0 {
				continue
			}
			r.DefFactors[stat] = v / avg
		}
		out[i] = r
	}
	return out, avgs
}

// FormatDefFactor renders a factor as a signed whole-percent deviation from league average,
// e.g. 1.12 -> "+12%", 0.91 -> "-9%".
func FormatDefFactor(defFactor float64) string {
	pct := math.RoundToEven((defFactor - 1) * 100)
	if pct == 0 {
		return "+0%"
	}
	if pct > 0 {
		return fmt.Sprintf("+%.0f%%", pct)
	}
	return fmt.Sprintf("%.0f%%", pct)
}
