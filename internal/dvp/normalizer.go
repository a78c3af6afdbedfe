// Package dvp turns the defense-vs-position feed into league-relative defensive factors
// and resolves them against a player's position and opponent.
package dvp

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/chiefotto/clustercalculator/internal/models"
)

// RankSuffix names the sibling column holding the rank half of a split cell
const RankSuffix = "_rank"

var valueRankSeparator = regexp.MustCompile(`\s{2,}`)

// abbreviationMap maps DVP feed abbreviations to registry abbreviations
var abbreviationMap = map[string]string{
	"NY":  "NYK",
	"PHO": "PHX",
	"GS":  "GSW",
	"SA":  "SAS",
	"NO":  "NOP",
}

// TranslateAbbreviation maps a feed abbreviation to its canonical form.
// Canonical and unknown abbreviations are returned unchanged.
func TranslateAbbreviation(abbr string) string {
	abbr = strings.ToUpper(strings.TrimSpace(abbr))
	if canonical, ok := abbreviationMap[abbr]; ok {
		return canonical
	}
	return abbr
}

// SplitValueAndRank splits packed "value  rank" cells. A column where any cell splits
// keeps the first part and gains a trailing "<col>_rank" column with the second part.
// The input is not modified.
func SplitValueAndRank(table models.RawTable) models.RawTable {
	out := models.RawTable{
		Columns: append([]string(nil), table.Columns...),
		Rows:    make([][]string, len(table.Rows)),
	}
	for i, row := range table.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}

	for col := range table.Columns {
		values := make([]string, len(table.Rows))
		ranks := make([]string, len(table.Rows))
		split := false

		for i, row := range table.Rows {
			if col >= len(row) {
				continue
			}
			parts := valueRankSeparator.Split(row[col], 2)
			values[i] = parts[0]
			if len(parts) == 2 {
				ranks[i] = parts[1]
				split = true
			}
		}
		if !split {
			continue
		}

		out.Columns = append(out.Columns, table.Columns[col]+RankSuffix)
		for i := range out.Rows {
			if col < len(out.Rows[i]) {
				out.Rows[i][col] = values[i]
			}
			out.Rows[i] = append(out.Rows[i], ranks[i])
		}
	}
	return out
}

// Normalizer converts the raw feed into typed rows joined against the team registry
type Normalizer struct {
	registry *models.TeamRegistry
}

// NewNormalizer creates a normalizer over the given registry
func NewNormalizer(registry *models.TeamRegistry) *Normalizer {
	return &Normalizer{registry: registry}
}

// Normalize splits packed cells and parses every row. Rows whose team does not resolve
// are kept with Resolved=false.
func (n *Normalizer) Normalize(raw models.RawTable) ([]models.DVPRow, error) {
	return n.ParseRows(SplitValueAndRank(raw))
}

// ParseRows parses an already split table
func (n *Normalizer) ParseRows(table models.RawTable) ([]models.DVPRow, error) {
	posIdx := table.ColumnIndex(models.DVPPositionColumn)
	teamIdx := table.ColumnIndex(models.DVPTeamColumn)
	if posIdx < 0 || teamIdx < 0 {
		return nil, fmt.Errorf("dvp table needs %q and %q: %w",
			models.DVPPositionColumn, models.DVPTeamColumn, models.ErrMissingColumn)
	}

	valueIdx := make(map[models.DVPStat]int, len(models.AllDVPStats))
	rankIdx := make(map[models.DVPStat]int, len(models.AllDVPStats))
	for _, stat := range models.AllDVPStats {
		if idx := table.ColumnIndex(stat.SourceColumn()); idx >= 0 {
			valueIdx[stat] = idx
		}
		if idx := table.ColumnIndex(stat.SourceColumn() + RankSuffix); idx >= 0 {
			rankIdx[stat] = idx
		}
	}

	rows := make([]models.DVPRow, 0, len(table.Rows))
	for _, cells := range table.Rows {
		row := models.DVPRow{
			Position: strings.ToUpper(strings.TrimSpace(cell(cells, posIdx))),
			TeamAbbr: TranslateAbbreviation(cell(cells, teamIdx)),
			Values:   make(map[models.DVPStat]float64),
			Ranks:    make(map[models.DVPStat]int),
		}
		if team, ok := n.registry.LookupAbbreviation(row.TeamAbbr); ok {
			row.TeamID = team.ID
			row.TeamName = team.FullName
			row.Resolved = true
		}

		for stat, idx := range valueIdx {
			if v, ok := parseNumber(cell(cells, idx)); ok {
				row.Values[stat] = v
			}
		}
		for stat, idx := range rankIdx {
			if r, err := strconv.Atoi(strings.TrimSpace(cell(cells, idx))); err == nil {
				row.Ranks[stat] = r
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Unresolved returns the distinct abbreviations that did not match the registry
func Unresolved(rows []models.DVPRow) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rows {
		if r.Resolved || seen[r.TeamAbbr] {
			continue
		}
		seen[r.TeamAbbr] = true
		out = append(out, r.TeamAbbr)
	}
	return out
}

func cell(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return cells[idx]
}

// parseNumber coerces a cell to a finite float. Anything else is missing.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
