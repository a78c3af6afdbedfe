package models

import (
	"math"
	"time"
)

// GameLogKey identifies a game log row
type GameLogKey struct {
	GameID   string
	PlayerID int
}

// GameLogRow is one player's line in one game
type GameLogRow struct {
	GameID           string                 `json:"game_id" db:"game_id"`
	GameDate         time.Time              `json:"game_date" db:"game_date"`
	SeasonYear       string                 `json:"season_year" db:"season_year"`
	PlayerID         int                    `json:"player_id" db:"player_id"`
	PlayerName       string                 `json:"player_name" db:"player_name"`
	TeamID           int                    `json:"team_id" db:"team_id"`
	TeamAbbreviation string                 `json:"team_abbreviation" db:"team_abbreviation"`
	TeamName         string                 `json:"team_name" db:"team_name"`
	OpponentTeamID   int                    `json:"opponent_team_id,omitempty" db:"opponent_team_id"`
	OpponentName     string                 `json:"opponent_team_name,omitempty" db:"opponent_team_name"`
	Matchup          string                 `json:"matchup" db:"matchup"`
	WL               string                 `json:"wl" db:"wl"`
	Stats            map[StatColumn]float64 `json:"stats" db:"stats"`
}

// Key returns the dedup key of the row
func (r GameLogRow) Key() GameLogKey {
	return GameLogKey{GameID: r.GameID, PlayerID: r.PlayerID}
}

// Value returns a stat value. Missing and non-finite values report false.
func (r GameLogRow) Value(stat StatColumn) (float64, bool) {
	v, ok := r.Stats[stat]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// HasOpponent reports whether the opponent id has been resolved
func (r GameLogRow) HasOpponent() bool {
	return r.OpponentTeamID != 0
}
