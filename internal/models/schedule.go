package models

import "time"

// ScheduledGame is one game from the league schedule
type ScheduledGame struct {
	GameID     string    `json:"game_id"`
	GameDate   time.Time `json:"game_date"`
	HomeTeamID int       `json:"home_team_id"`
	AwayTeamID int       `json:"away_team_id"`
}

// SlateTeam is one side of a slate game annotated with registry and cluster data
type SlateTeam struct {
	TeamID       int    `json:"team_id"`
	Name         string `json:"name,omitempty"`
	Abbreviation string `json:"abbreviation,omitempty"`
	Cluster      *int   `json:"cluster,omitempty"`
}

// SlateGame is a scheduled game with both teams annotated
type SlateGame struct {
	GameID   string    `json:"game_id"`
	GameDate time.Time `json:"game_date"`
	Home     SlateTeam `json:"home"`
	Away     SlateTeam `json:"away"`
}

// Label renders the game as "Away @ Home"
func (g SlateGame) Label() string {
	return teamLabel(g.Away) + " @ " + teamLabel(g.Home)
}

func teamLabel(t SlateTeam) string {
	if t.Name != "" {
		return t.Name
	}
	if t.Abbreviation != "" {
		return t.Abbreviation
	}
	return "?"
}
