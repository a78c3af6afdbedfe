package models

// RosterEntry is one player on a team's current roster
type RosterEntry struct {
	PlayerID   int    `json:"player_id"`
	PlayerName string `json:"player_name"`
	TeamID     int    `json:"team_id"`
	Position   string `json:"position"`
	Number     string `json:"number,omitempty"`
}

// MatchupPlayer is a currently rostered, sufficiently logged player in a matchup
type MatchupPlayer struct {
	PlayerID    int    `json:"player_id"`
	PlayerName  string `json:"player_name"`
	TeamID      int    `json:"team_id"`
	TeamName    string `json:"team_name"`
	Position    string `json:"position"`
	GamesLogged int    `json:"games_logged"`
}
