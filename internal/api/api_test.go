package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chiefotto/clustercalculator/internal/logger"
	"github.com/chiefotto/clustercalculator/internal/models"
)

const (
	lakersID  = 1610612747
	celticsID = 1610612738
	knicksID  = 1610612752
)

type fakeAnalyzer struct {
	lastSel      models.Selection
	lastDay      time.Time
	lastTeam     int
	lastPosition string
	reportErr    error
}

func (f *fakeAnalyzer) Registry(ctx context.Context) (*models.TeamRegistry, error) {
	return models.NewTeamRegistry([]models.TeamRecord{
		{ID: lakersID, FullName: "Los Angeles Lakers", Abbreviation: "LAL"},
		{ID: celticsID, FullName: "Boston Celtics", Abbreviation: "BOS"},
		{ID: knicksID, FullName: "New York Knicks", Abbreviation: "NYK"},
	}), nil
}

func (f *fakeAnalyzer) Slate(ctx context.Context, day time.Time) ([]models.SlateGame, error) {
	f.lastDay = day
	return []models.SlateGame{{GameID: "0022600001", Home: models.SlateTeam{TeamID: lakersID}}}, nil
}

func (f *fakeAnalyzer) Matchup(ctx context.Context, sel models.Selection) (models.MatchupView, error) {
	f.lastSel = sel
	if err := sel.ValidateMatchup(); err != nil {
		return models.MatchupView{}, err
	}
	return models.MatchupView{Selection: sel}, nil
}

func (f *fakeAnalyzer) PlayerReport(ctx context.Context, sel models.Selection) (models.PlayerReport, error) {
	f.lastSel = sel
	if f.reportErr != nil {
		return models.PlayerReport{}, f.reportErr
	}
	return models.PlayerReport{Selection: sel, PlayerName: "LeBron James"}, nil
}

func (f *fakeAnalyzer) TeamDVP(ctx context.Context, teamID int, position string) (models.TeamDefense, error) {
	f.lastTeam = teamID
	f.lastPosition = position
	return models.TeamDefense{Team: models.TeamRecord{ID: teamID}, Position: position}, nil
}

type fakeDB struct{ err error }

func (d fakeDB) Ping(ctx context.Context) error { return d.err }

func newTestServer(analyzer Analyzer, refresh RefreshFunc, db DatabasePinger) *Server {
	return NewServer(Config{
		ServiceName: "clustercalc",
		Version:     "test",
		DefaultLine: 5.5,
		Logger:      logger.Discard(),
		DB:          db,
		Analysis:    analyzer,
		Refresh:     refresh,
	})
}

func do(t *testing.T, s *Server, method, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var body map[string]interface{}
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(&fakeAnalyzer{}, nil, fakeDB{})

	rec, body := do(t, s, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])

	rec, _ = do(t, s, http.MethodGet, "/live")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body = do(t, s, http.MethodGet, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not_ready", body["status"])

	s.SetReady(true)
	rec, _ = do(t, s, http.MethodGet, "/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyReportsDatabaseFailure(t *testing.T) {
	s := newTestServer(&fakeAnalyzer{}, nil, fakeDB{err: errors.New("connection refused")})
	s.SetReady(true)

	rec, body := do(t, s, http.MethodGet, "/ready")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	checks := body["checks"].(map[string]interface{})
	assert.Contains(t, checks["database"], "connection refused")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(&fakeAnalyzer{}, nil, nil)

	rec, _ := do(t, s, http.MethodGet, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetSlate(t *testing.T) {
	f := &fakeAnalyzer{}
	s := newTestServer(f, nil, nil)

	rec, body := do(t, s, http.MethodGet, "/api/v1/slate?date=2026-10-20")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2026-10-20", body["date"])
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, time.Date(2026, time.October, 20, 0, 0, 0, 0, time.UTC), f.lastDay)

	rec, _ = do(t, s, http.MethodGet, "/api/v1/slate?date=20-10-2026")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetMatchupResolvesTeams(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"abbreviations", "/api/v1/matchups/LAL/BOS", http.StatusOK},
		{"ids", "/api/v1/matchups/1610612747/1610612738", http.StatusOK},
		{"short form", "/api/v1/matchups/lal/ny", http.StatusOK},
		{"unknown team", "/api/v1/matchups/LAL/XXX", http.StatusNotFound},
		{"same team", "/api/v1/matchups/LAL/LAL", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&fakeAnalyzer{}, nil, nil)
			rec, _ := do(t, s, http.MethodGet, tt.path)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestGetPlayerReport(t *testing.T) {
	f := &fakeAnalyzer{}
	s := newTestServer(f, nil, nil)

	rec, body := do(t, s, http.MethodGet, "/api/v1/matchups/LAL/BOS/players/2544?stat=reb&line=7.5&position=F")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "LeBron James", body["player_name"])
	assert.Equal(t, models.Selection{
		HomeTeamID:     lakersID,
		AwayTeamID:     celticsID,
		PlayerID:       2544,
		PlayerPosition: "F",
		Stat:           models.StatRebounds,
		Line:           7.5,
	}, f.lastSel)

	rec, _ = do(t, s, http.MethodGet, "/api/v1/matchups/LAL/BOS/players/2544")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatPoints, f.lastSel.Stat)
	assert.Equal(t, 5.5, f.lastSel.Line)
}

func TestGetPlayerReportErrors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		err    error
		status int
	}{
		{"bad player", "/api/v1/matchups/LAL/BOS/players/abc", nil, http.StatusBadRequest},
		{"bad stat", "/api/v1/matchups/LAL/BOS/players/2544?stat=XYZ", nil, http.StatusBadRequest},
		{"bad line", "/api/v1/matchups/LAL/BOS/players/2544?line=high", nil, http.StatusBadRequest},
		{"nan line", "/api/v1/matchups/LAL/BOS/players/2544?stat=PTS&line=NaN", nil, http.StatusBadRequest},
		{"infinite line", "/api/v1/matchups/LAL/BOS/players/2544?stat=PTS&line=-Inf", nil, http.StatusBadRequest},
		{"no logs", "/api/v1/matchups/LAL/BOS/players/2544", models.ErrInsufficientSample, http.StatusUnprocessableEntity},
		{"upstream", "/api/v1/matchups/LAL/BOS/players/2544", models.ErrUpstreamUnavailable, http.StatusServiceUnavailable},
		{"not clustered", "/api/v1/matchups/LAL/BOS/players/2544", models.ErrTeamNotClustered, http.StatusNotFound},
		{"internal", "/api/v1/matchups/LAL/BOS/players/2544", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&fakeAnalyzer{reportErr: tt.err}, nil, nil)
			rec, body := do(t, s, http.MethodGet, tt.path)
			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestGetTeamDVP(t *testing.T) {
	f := &fakeAnalyzer{}
	s := newTestServer(f, nil, nil)

	rec, _ := do(t, s, http.MethodGet, "/api/v1/teams/BOS/dvp?position=SG-PF")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, celticsID, f.lastTeam)
	assert.Equal(t, "SG-PF", f.lastPosition)
}

func TestRefreshGameLogs(t *testing.T) {
	calls := 0
	refresh := func(ctx context.Context) (models.UpsertResult, error) {
		calls++
		return models.UpsertResult{Added: 12, Total: 340}, nil
	}
	s := newTestServer(&fakeAnalyzer{}, refresh, nil)

	rec, body := do(t, s, http.MethodPost, "/api/v1/gamelogs/refresh")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(12), body["added"])
	assert.Equal(t, 1, calls)

	rec, _ = do(t, s, http.MethodGet, "/api/v1/gamelogs/refresh")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	failing := newTestServer(&fakeAnalyzer{}, func(ctx context.Context) (models.UpsertResult, error) {
		return models.UpsertResult{}, models.ErrUpstreamUnavailable
	}, nil)
	rec, _ = do(t, failing, http.MethodPost, "/api/v1/gamelogs/refresh")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	unset := newTestServer(&fakeAnalyzer{}, nil, nil)
	rec, _ = do(t, unset, http.MethodPost, "/api/v1/gamelogs/refresh")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	s := newTestServer(&fakeAnalyzer{}, nil, nil)
	s.router.HandleFunc("/panic", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec, body := do(t, s, http.MethodGet, "/panic")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", body["error"])
}
