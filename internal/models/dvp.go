package models

// DVP positions
const (
	PositionPG = "PG"
	PositionSG = "SG"
	PositionSF = "SF"
	PositionPF = "PF"
	PositionC  = "C"
)

// AllPositions lists DVP positions in canonical order
var AllPositions = []string{PositionPG, PositionSG, PositionSF, PositionPF, PositionC}

// DVPRow is one (team, position) row of the defense-vs-position table
type DVPRow struct {
	Position   string              `json:"position"`
	TeamAbbr   string              `json:"team_abbr"`
	TeamID     int                 `json:"team_id,omitempty"`
	TeamName   string              `json:"team_name,omitempty"`
	Resolved   bool                `json:"resolved"`
	Values     map[DVPStat]float64 `json:"values"`
	Ranks      map[DVPStat]int     `json:"ranks,omitempty"`
	DefFactors map[DVPStat]float64 `json:"def_factors,omitempty"`
}

// Value returns the numeric value for a category
func (r DVPRow) Value(stat DVPStat) (float64, bool) {
	v, ok := r.Values[stat]
	return v, ok
}

// DefFactor returns the league-relative factor for a category
func (r DVPRow) DefFactor(stat DVPStat) (float64, bool) {
	v, ok := r.DefFactors[stat]
	return v, ok
}

// StatFactor is one ranked category of an opponent's defense against a position
type StatFactor struct {
	Stat      DVPStat `json:"stat"`
	DefFactor float64 `json:"def_factor"`
	Rank      int     `json:"rank"`
}

// PositionStatFactor is one (position, category, factor) triple used for target/avoid lists
type PositionStatFactor struct {
	Position  string  `json:"position"`
	Stat      DVPStat `json:"stat"`
	DefFactor float64 `json:"def_factor"`
	Display   string  `json:"display"`
}

// TeamDefense is one team's defensive profile against a roster position
type TeamDefense struct {
	Team      TeamRecord           `json:"team"`
	Position  string               `json:"position,omitempty"`
	Positions []string             `json:"positions,omitempty"`
	Factors   []StatFactor         `json:"factors"`
	Targets   []PositionStatFactor `json:"targets"`
	Avoids    []PositionStatFactor `json:"avoids"`
}
