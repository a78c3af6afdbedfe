package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/chiefotto/clustercalculator/internal/logger"
	"github.com/chiefotto/clustercalculator/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rosterBody = `{
  "resource": "commonteamroster",
  "resultSets": [{
    "name": "CommonTeamRoster",
    "headers": ["TeamID", "SEASON", "PLAYER", "NUM", "POSITION", "PLAYER_ID"],
    "rowSet": [
      [1610612747, "2025", "LeBron James", "23", "F", 2544],
      [1610612747, "2025", "Austin Reaves", "15", "G", 1630559]
    ]
  }]
}`

const gameLogsBody = `{
  "resultSets": [{
    "name": "PlayerGameLogs",
    "headers": ["SEASON_YEAR", "PLAYER_ID", "PLAYER_NAME", "TEAM_ID", "TEAM_ABBREVIATION", "GAME_ID", "GAME_DATE", "MATCHUP", "WL", "MIN", "PTS", "REB", "AST"],
    "rowSet": [
      ["2025-26", 2544, "LeBron James", 1610612747, "LAL", "0022500101", "2025-11-02T00:00:00", "LAL @ BOS", "L", 35.2, 21, 7, null]
    ]
  }]
}`

const scheduleBody = `{
  "leagueSchedule": {
    "seasonYear": "2025-26",
    "gameDates": [{
      "gameDate": "11/02/2025 00:00:00",
      "games": [
        {"gameId": "0022500101", "gameDateEst": "2025-11-02T00:00:00Z", "homeTeam": {"teamId": 1610612738}, "awayTeam": {"teamId": 1610612747}}
      ]
    }]
  }
}`

func testHTTPConfig() HTTPClientConfig {
	cfg := DefaultHTTPClientConfig()
	cfg.Timeout = 2 * time.Second
	cfg.MaxRetries = 0
	cfg.RetryWaitMin = time.Millisecond
	cfg.RetryWaitMax = time.Millisecond
	cfg.RateLimit = 1000
	return cfg
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *NBAStatsClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	httpClient := NewRateLimitedHTTPClient(testHTTPConfig(), logger.Discard())
	return NewNBAStatsClient(httpClient, server.URL+"/", "2025-26", "Regular Season", logger.Discard())
}

func TestFetchTeamRoster(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/commonteamroster", r.URL.Path)
		assert.Equal(t, "1610612747", r.URL.Query().Get("TeamID"))
		assert.Equal(t, "2025-26", r.URL.Query().Get("Season"))
		assert.NotEmpty(t, r.Header.Get("Referer"))
		_, _ = w.Write([]byte(rosterBody))
	})

	roster, err := client.FetchTeamRoster(context.Background(), 1610612747)
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, models.RosterEntry{
		PlayerID: 2544, PlayerName: "LeBron James", TeamID: 1610612747, Position: "F", Number: "23",
	}, roster[0])
}

func TestFetchPlayerGameLogs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/playergamelogs", r.URL.Path)
		assert.Equal(t, "Regular Season", r.URL.Query().Get("SeasonType"))
		_, _ = w.Write([]byte(gameLogsBody))
	})

	rows, err := client.FetchPlayerGameLogs(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "0022500101", row.GameID)
	assert.Equal(t, 2544, row.PlayerID)
	assert.Equal(t, "LAL @ BOS", row.Matchup)
	assert.Equal(t, 21.0, row.Stats[models.StatPoints])
	assert.Equal(t, 35.2, row.Stats[models.StatMinutes])
	_, hasAssists := row.Stats[models.StatAssists]
	assert.False(t, hasAssists, "null cells are missing, not zero")
	assert.Equal(t, time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC), row.GameDate)
}

func TestFetchSchedule(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/scheduleleaguev2", r.URL.Path)
		_, _ = w.Write([]byte(scheduleBody))
	})

	games, err := client.FetchSchedule(context.Background())
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, models.ScheduledGame{
		GameID:     "0022500101",
		GameDate:   time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC),
		HomeTeamID: 1610612738,
		AwayTeamID: 1610612747,
	}, games[0])
}

func TestProviderErrorsAreUpstreamUnavailable(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   string
	}{
		{name: "server error", status: http.StatusInternalServerError, code: ErrCodeNetworkError},
		{name: "not found", status: http.StatusNotFound, code: ErrCodeNotFound},
		{name: "forbidden", status: http.StatusForbidden, code: ErrCodeInvalidData},
		{name: "malformed body", status: http.StatusOK, body: "<html>", code: ErrCodeInvalidData},
		{name: "no result sets", status: http.StatusOK, body: `{"resultSets": []}`, code: ErrCodeInvalidData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.FetchPlayerGameLogs(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)

			var dsErr DataSourceError
			require.True(t, errors.As(err, &dsErr))
			assert.Equal(t, tt.code, dsErr.Code)
		})
	}
}

func TestCircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := testHTTPConfig()
	cfg.CircuitBreakerMax = 2
	cfg.CircuitBreakerCooloff = time.Hour
	client := NewRateLimitedHTTPClient(cfg, logger.Discard())

	for i := 0; i < 2; i++ {
		_, err := client.Get(context.Background(), server.URL, nil)
		require.Error(t, err)
	}
	assert.True(t, client.IsOpen())

	_, err := client.Get(context.Background(), server.URL, nil)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCircuitBreakerClosesOnSuccessAfterCooloff(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testHTTPConfig()
	cfg.CircuitBreakerMax = 1
	cfg.CircuitBreakerCooloff = 10 * time.Millisecond
	client := NewRateLimitedHTTPClient(cfg, logger.Discard())

	_, err := client.Get(context.Background(), server.URL, nil)
	require.Error(t, err)
	require.True(t, client.IsOpen())

	fail.Store(false)
	time.Sleep(20 * time.Millisecond)

	resp, err := client.Get(context.Background(), server.URL, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.False(t, client.IsOpen())
}

func TestDataSourceErrorMessage(t *testing.T) {
	err := NewDataSourceError("nba_stats", ErrCodeServerError, "boom", ErrServerError)
	assert.Equal(t, "nba_stats: server_error: boom (server error)", err.Error())
	assert.ErrorIs(t, err, ErrServerError)

	bare := NewDataSourceError("nba_stats", ErrCodeNotFound, "gone", nil)
	assert.Equal(t, "nba_stats: not_found: gone", bare.Error())
	assert.ErrorIs(t, bare, models.ErrUpstreamUnavailable)
}
