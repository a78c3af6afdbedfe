package dvp

import (
	"sort"

	"github.com/chiefotto/clustercalculator/internal/models"
	"github.com/shopspring/decimal"
)

// Target/avoid defaults
const (
	DefaultTargetCount = 6
	DefaultMinEdge     = 0.02
)

// FilterByTeam returns the resolved rows belonging to a team
func FilterByTeam(rows []models.DVPRow, teamID int) []models.DVPRow {
	var out []models.DVPRow
	for _, r := range rows {
		if r.Resolved && r.TeamID == teamID {
			out = append(out, r)
		}
	}
	return out
}

// OpponentFactors averages a team's def_factor per category over the DVP positions a
// player covers, ranked with the most favorable matchup first. An unknown position,
// an unknown team or no matching rows gives an empty result.
func OpponentFactors(rows []models.DVPRow, teamID int, position string) []models.StatFactor {
	positions := ResolvePositions(position)
	if len(positions) == 0 {
		return nil
	}
	wanted := make(map[string]bool, len(positions))
	for _, p := range positions {
		wanted[p] = true
	}

	var matched []models.DVPRow
	for _, r := range FilterByTeam(rows, teamID) {
		if wanted[r.Position] {
			matched = append(matched, r)
		}
	}
	if len(matched) == 0 {
		return nil
	}

	var out []models.StatFactor
	for _, stat := range models.AllDVPStats {
		var sum float64
		var n int
		for _, r := range matched {
			if f, ok := r.DefFactor(stat); ok {
				sum += f
				n++
			}
		}
		if n == 0 {
			continue
		}
		out = append(out, models.StatFactor{Stat: stat, DefFactor: round(sum/float64(n), 4)})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].DefFactor > out[j].DefFactor })
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// TargetAvoid flattens a team's rows into (position, category, factor) triples and picks
// up to n exploitable matchups above 1+minEdge and up to n tough ones below 1-minEdge.
// Targets are strongest first; avoids are the toughest first.
func TargetAvoid(teamRows []models.DVPRow, n int, minEdge float64) (targets, avoids []models.PositionStatFactor) {
	var triples []models.PositionStatFactor
	for _, r := range teamRows {
		for _, stat := range models.AllDVPStats {
			f, ok := r.DefFactor(stat)
			if !ok {
				continue
			}
			triples = append(triples, models.PositionStatFactor{
				Position:  r.Position,
				Stat:      stat,
				DefFactor: f,
				Display:   FormatDefFactor(f),
			})
		}
	}
	sort.SliceStable(triples, func(i, j int) bool { return triples[i].DefFactor > triples[j].DefFactor })

	for _, t := range triples {
		if t.DefFactor > 1+minEdge && len(targets) < n {
			targets = append(targets, t)
		}
	}

	var below []models.PositionStatFactor
	for _, t := range triples {
		if t.DefFactor < 1-minEdge {
			below = append(below, t)
		}
	}
	if len(below) > n {
		below = below[len(below)-n:]
	}
	for i := len(below) - 1; i >= 0; i-- {
		avoids = append(avoids, below[i])
	}
	return targets, avoids
}

func round(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}
