package duck

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chiefotto/clustercalculator/internal/logger"
	"github.com/chiefotto/clustercalculator/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReader(t *testing.T) *Reader {
	t.Helper()
	r, err := NewReader(logger.Discard(), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadTableKeepsCSVTextVerbatim(t *testing.T) {
	r := newTestReader(t)
	path := writeFile(t, "dvp.csv", "Sort: Position,Sort: Team,Sort: PTS\nPG,NY,25.3  12\nC,GSW,19.1  3\n")

	table, err := r.ReadTable(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Sort: Position", "Sort: Team", "Sort: PTS"}, table.Columns)
	require.Equal(t, 2, table.Len())
	cell, ok := table.Cell(0, "Sort: PTS")
	require.True(t, ok)
	assert.Equal(t, "25.3  12", cell)
}

func TestReadTableMissingFile(t *testing.T) {
	r := newTestReader(t)

	_, err := r.ReadTable(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTeams(t *testing.T) {
	r := newTestReader(t)
	path := writeFile(t, "teams.csv", "id,full_name,abbreviation\n1610612747,Los Angeles Lakers,LAL\n1610612744,Golden State Warriors,GSW\n")

	teams, err := r.Teams(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []models.TeamRecord{
		{ID: 1610612747, FullName: "Los Angeles Lakers", Abbreviation: "LAL"},
		{ID: 1610612744, FullName: "Golden State Warriors", Abbreviation: "GSW"},
	}, teams)
}

func TestTeamsRequiresColumns(t *testing.T) {
	r := newTestReader(t)
	path := writeFile(t, "teams.csv", "id,full_name\n1,Somebody\n")

	_, err := r.Teams(context.Background(), path)
	assert.ErrorIs(t, err, models.ErrMissingColumn)
}

func TestClusterAssignments(t *testing.T) {
	r := newTestReader(t)
	path := writeFile(t, "clusters.csv", "TEAM_ID,cluster\n1610612747,2\n1610612744,2.0\n1610612738,0\n")

	got, err := r.ClusterAssignments(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []models.ClusterAssignment{
		{TeamID: 1610612747, Cluster: 2},
		{TeamID: 1610612744, Cluster: 2},
		{TeamID: 1610612738, Cluster: 0},
	}, got)
}

func TestParquetGameLogStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := newTestReader(t)
	store := NewParquetGameLogStore(r, filepath.Join(t.TempDir(), "logs", "gamelogs.parquet"))

	empty, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	day := time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC)
	rows := []models.GameLogRow{
		{
			GameID: "0022500101", GameDate: day, SeasonYear: "2025-26", PlayerID: 2544,
			PlayerName: "LeBron James", TeamID: 1610612747, TeamAbbreviation: "LAL",
			OpponentTeamID: 1610612738, Matchup: "LAL @ BOS", WL: "L",
			Stats: map[models.StatColumn]float64{models.StatPoints: 21, models.StatRebounds: 7},
		},
		{
			GameID: "0022500101", GameDate: day, SeasonYear: "2025-26", PlayerID: 1628369,
			PlayerName: "Jayson Tatum", TeamID: 1610612738, TeamAbbreviation: "BOS",
			Matchup: "BOS vs. LAL", WL: "W",
			Stats: map[models.StatColumn]float64{models.StatPoints: 33},
		},
	}
	require.NoError(t, store.ReplaceAll(ctx, rows))

	got, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2544, got[0].PlayerID)
	assert.Equal(t, 1610612738, got[0].OpponentTeamID)
	assert.True(t, got[0].GameDate.Equal(day))
	assert.Equal(t, 21.0, got[0].Stats[models.StatPoints])
	_, hasAssists := got[0].Stats[models.StatAssists]
	assert.False(t, hasAssists)
	assert.False(t, got[1].HasOpponent())

	tatum, err := store.GetByPlayer(ctx, 1628369)
	require.NoError(t, err)
	assert.Len(t, tatum, 1)

	require.NoError(t, store.ReplaceAll(ctx, rows[:1]))
	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
