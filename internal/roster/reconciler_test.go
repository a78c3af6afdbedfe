package roster

import (
	"fmt"
	"testing"

	"github.com/chiefotto/clustercalculator/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	home  = 100
	away  = 200
	other = 300
)

func logsFor(playerID int, name string, teamID, games int) []models.GameLogRow {
	rows := make([]models.GameLogRow, games)
	for i := range rows {
		rows[i] = models.GameLogRow{
			GameID:     fmt.Sprintf("g-%d-%d", playerID, i),
			PlayerID:   playerID,
			PlayerName: name,
			TeamID:     teamID,
			TeamName:   fmt.Sprintf("Team %d", teamID),
		}
	}
	return rows
}

func matchup() models.Selection {
	return models.Selection{HomeTeamID: home, AwayTeamID: away}
}

func TestReconcileFiltersAndAttachesPosition(t *testing.T) {
	var logs []models.GameLogRow
	logs = append(logs, logsFor(1, "Zed Home", home, 5)...)
	logs = append(logs, logsFor(2, "Amy Home", home, 3)...)
	logs = append(logs, logsFor(3, "Bench Home", home, 2)...)
	logs = append(logs, logsFor(4, "Cal Away", away, 4)...)
	logs = append(logs, logsFor(5, "Elsewhere", other, 10)...)
	logs = append(logs, logsFor(6, "Waived Away", away, 8)...)

	roster := []models.RosterEntry{
		{PlayerID: 1, TeamID: home, Position: "G"},
		{PlayerID: 2, TeamID: home, Position: "F-C"},
		{PlayerID: 3, TeamID: home, Position: "C"},
		{PlayerID: 4, TeamID: away, Position: "SG-PF"},
		{PlayerID: 5, TeamID: other, Position: "F"},
	}

	got := NewReconciler(DefaultMinGames).Reconcile(logs, roster, matchup())

	require.Len(t, got, 3)
	assert.Equal(t, "Amy Home", got[0].PlayerName)
	assert.Equal(t, "F-C", got[0].Position)
	assert.Equal(t, 3, got[0].GamesLogged)
	assert.Equal(t, "Zed Home", got[1].PlayerName)
	assert.Equal(t, "Cal Away", got[2].PlayerName)
	assert.Equal(t, "SG-PF", got[2].Position)
	assert.Equal(t, "Team 200", got[2].TeamName)
}

func TestReconcileTradedPlayerKeepsCurrentTeamOnly(t *testing.T) {
	var logs []models.GameLogRow
	logs = append(logs, logsFor(7, "Traded", home, 2)...)
	logs = append(logs, logsFor(7, "Traded", away, 2)...)

	roster := []models.RosterEntry{
		{PlayerID: 7, TeamID: away, Position: "PF"},
		{PlayerID: 99, TeamID: home, Position: "PG"},
	}

	got := NewReconciler(3).Reconcile(logs, roster, matchup())

	require.Len(t, got, 1)
	assert.Equal(t, away, got[0].TeamID)
	assert.Equal(t, 4, got[0].GamesLogged, "games are counted across both teams")
}

func TestReconcileWithoutRosterKeepsPlayersWithBlankPosition(t *testing.T) {
	logs := logsFor(8, "No Roster", away, 3)

	got := NewReconciler(3).Reconcile(logs, nil, matchup())

	require.Len(t, got, 1)
	assert.Empty(t, got[0].Position)
}

func TestReconcileEmptyResultIsNotNil(t *testing.T) {
	got := NewReconciler(3).Reconcile(logsFor(9, "Cameo", home, 1), nil, matchup())

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestNewReconcilerDefault(t *testing.T) {
	assert.Equal(t, DefaultMinGames, NewReconciler(0).MinGames())
	assert.Equal(t, 5, NewReconciler(5).MinGames())
}
