package projection

import (
	"github.com/chiefotto/clustercalculator/internal/dvp"
	"github.com/chiefotto/clustercalculator/internal/models"
	"github.com/shopspring/decimal"
)

// averageColumns maps counting DVP categories to the game log column averaged for them
var averageColumns = map[models.DVPStat]models.StatColumn{
	models.DVPPoints:     models.StatPoints,
	models.DVPThreesMade: models.StatFG3Made,
	models.DVPRebounds:   models.StatRebounds,
	models.DVPAssists:    models.StatAssists,
	models.DVPSteals:     models.StatSteals,
	models.DVPBlocks:     models.StatBlocks,
	models.DVPTurnovers:  models.StatTurnovers,
}

// ratioColumns maps percentage categories to (made, attempted) columns
var ratioColumns = map[models.DVPStat][2]models.StatColumn{
	models.DVPFieldGoalPct: {models.StatFGMade, models.StatFGAttempted},
	models.DVPFreeThrowPct: {models.StatFTMade, models.StatFTAttempted},
}

// SeasonAverage returns a player's season value for a DVP category. Counting stats
// are per-game means; FG% and FT% are made over attempted across all games, in percent.
func SeasonAverage(rows []models.GameLogRow, stat models.DVPStat) (float64, bool) {
	if col, ok := averageColumns[stat]; ok {
		s := Describe(Values(rows, col))
		if s.Empty() {
			return 0, false
		}
		return s.Mean, true
	}

	cols, ok := ratioColumns[stat]
	if !ok {
		return 0, false
	}
	var made, attempted float64
	for _, r := range rows {
		m, okM := r.Value(cols[0])
		a, okA := r.Value(cols[1])
		if okM && okA {
			made += m
			attempted += a
		}
	}
	if attempted == 0 {
		return 0, false
	}
	return made / attempted * 100, true
}

// DVPAdjusted scales the player's season averages by the opponent's factors, keeping
// the factor ranking. Categories without a season average are left out.
func DVPAdjusted(rows []models.GameLogRow, factors []models.StatFactor) []models.AdjustedStat {
	out := make([]models.AdjustedStat, 0, len(factors))
	for _, f := range factors {
		avg, ok := SeasonAverage(rows, f.Stat)
		if !ok {
			continue
		}
		out = append(out, models.AdjustedStat{
			Stat:          f.Stat,
			DefFactor:     f.DefFactor,
			Display:       dvp.FormatDefFactor(f.DefFactor),
			Rank:          f.Rank,
			SeasonAverage: round2(avg),
			Projected:     round2(avg * f.DefFactor),
		})
	}
	return out
}

func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
