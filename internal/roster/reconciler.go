// Package roster reconciles game-log participation with current roster snapshots.
package roster

import (
	"sort"

	"github.com/chiefotto/clustercalculator/internal/models"
)

// DefaultMinGames is the fewest logged games a player needs to be listed
const DefaultMinGames = 3

// Reconciler lists the players eligible for analysis in a matchup
type Reconciler struct {
	minGames int
}

// NewReconciler creates a reconciler. A non-positive minGames uses DefaultMinGames.
func NewReconciler(minGames int) *Reconciler {
	if minGames <= 0 {
		minGames = DefaultMinGames
	}
	return &Reconciler{minGames: minGames}
}

// MinGames returns the configured threshold
func (r *Reconciler) MinGames() int {
	return r.minGames
}

type playerTeam struct {
	playerID int
	teamID   int
}

// Reconcile returns one row per player who logged at least MinGames games for either
// team in the selection and is on that team's current roster. Game logs decide who
// played; the roster decides who is still there and supplies the position. A team
// with an empty roster snapshot keeps its logged players with a blank position.
// The result is never nil.
func (r *Reconciler) Reconcile(logs []models.GameLogRow, roster []models.RosterEntry, sel models.Selection) []models.MatchupPlayer {
	teamOrder := map[int]int{sel.HomeTeamID: 0, sel.AwayTeamID: 1}

	games := make(map[int]int)
	var identities []models.GameLogRow
	seen := make(map[playerTeam]bool)
	for _, row := range logs {
		if _, ok := teamOrder[row.TeamID]; !ok {
			continue
		}
		games[row.PlayerID]++
		key := playerTeam{row.PlayerID, row.TeamID}
		if !seen[key] {
			seen[key] = true
			identities = append(identities, row)
		}
	}

	rostered := make(map[playerTeam]models.RosterEntry)
	hasRoster := make(map[int]bool)
	for _, e := range roster {
		if _, ok := teamOrder[e.TeamID]; !ok {
			continue
		}
		hasRoster[e.TeamID] = true
		rostered[playerTeam{e.PlayerID, e.TeamID}] = e
	}

	out := make([]models.MatchupPlayer, 0, len(identities))
	for _, row := range identities {
		if games[row.PlayerID] < r.minGames {
			continue
		}

		player := models.MatchupPlayer{
			PlayerID:    row.PlayerID,
			PlayerName:  row.PlayerName,
			TeamID:      row.TeamID,
			TeamName:    row.TeamName,
			GamesLogged: games[row.PlayerID],
		}
		if hasRoster[row.TeamID] {
			entry, ok := rostered[playerTeam{row.PlayerID, row.TeamID}]
			if !ok {
				continue
			}
			player.Position = entry.Position
		}
		out = append(out, player)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TeamID != out[j].TeamID {
			return teamOrder[out[i].TeamID] < teamOrder[out[j].TeamID]
		}
		return out[i].PlayerName < out[j].PlayerName
	})
	return out
}
