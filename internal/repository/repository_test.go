package repository

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/chiefotto/clustercalculator/internal/database"
	"github.com/chiefotto/clustercalculator/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []models.GameLogRow {
	day := time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC)
	return []models.GameLogRow{
		{
			GameID: "0022500120", GameDate: day.AddDate(0, 0, 2), SeasonYear: "2025-26",
			PlayerID: 2544, PlayerName: "LeBron James", TeamID: 1610612747, TeamAbbreviation: "LAL",
			OpponentTeamID: 1610612744, Matchup: "LAL vs. GSW", WL: "W",
			Stats: map[models.StatColumn]float64{models.StatPoints: 28, models.StatRebounds: 8},
		},
		{
			GameID: "0022500101", GameDate: day, SeasonYear: "2025-26",
			PlayerID: 2544, PlayerName: "LeBron James", TeamID: 1610612747, TeamAbbreviation: "LAL",
			OpponentTeamID: 1610612738, Matchup: "LAL @ BOS", WL: "L",
			Stats: map[models.StatColumn]float64{models.StatPoints: 21, models.StatAssists: math.NaN()},
		},
		{
			GameID: "0022500101", GameDate: day, SeasonYear: "2025-26",
			PlayerID: 1628369, PlayerName: "Jayson Tatum", TeamID: 1610612738, TeamAbbreviation: "BOS",
			OpponentTeamID: 1610612747, Matchup: "BOS vs. LAL", WL: "W",
			Stats: map[models.StatColumn]float64{models.StatPoints: 33},
		},
	}
}

func TestMemoryGameLogRepositoryReplaceAndLoad(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryGameLogRepository()

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, repo.ReplaceAll(ctx, sampleRows()))

	all, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "0022500101", all[0].GameID)
	assert.Equal(t, 1628369, all[1].PlayerID)
	assert.Equal(t, "0022500120", all[2].GameID)

	mine, err := repo.GetByPlayer(ctx, 2544)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestMemoryGameLogRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	rows := sampleRows()
	repo := NewMemoryGameLogRepository(rows...)

	rows[0].Stats[models.StatPoints] = 0

	all, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	all[0].Stats[models.StatPoints] = -1

	again, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 28.0, again[0].Stats[models.StatPoints])
}

func TestMemoryGameLogRepositoryRespectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := NewMemoryGameLogRepository(sampleRows()...)
	require.ErrorIs(t, repo.ReplaceAll(ctx, nil), context.Canceled)

	n, _ := repo.Count(context.Background())
	assert.Equal(t, 3, n)
}

func TestFiniteStats(t *testing.T) {
	got := finiteStats(map[models.StatColumn]float64{
		models.StatPoints:   10,
		models.StatAssists:  math.NaN(),
		models.StatRebounds: math.Inf(1),
	})
	assert.Equal(t, map[models.StatColumn]float64{models.StatPoints: 10}, got)
}

func TestPostgresGameLogRepositoryRoundTrip(t *testing.T) {
	db := database.SetupTestDB(t)
	repo := NewPostgresGameLogRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	require.NoError(t, repo.ReplaceAll(ctx, sampleRows()))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	mine, err := repo.GetByPlayer(ctx, 2544)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	_, hasAssists := mine[0].Stats[models.StatAssists]
	assert.False(t, hasAssists)

	require.NoError(t, repo.ReplaceAll(ctx, sampleRows()[:1]))
	n, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
