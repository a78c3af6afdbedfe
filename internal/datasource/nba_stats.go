package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/chiefotto/clustercalculator/internal/metrics"
	"github.com/chiefotto/clustercalculator/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	nbaStatsSource = "nba_stats"

	endpointRoster   = "commonteamroster"
	endpointGameLogs = "playergamelogs"
	endpointSchedule = "scheduleleaguev2"

	leagueID = "00"
)

// NBAStatsClient implements StatsProvider against the league stats endpoints
type NBAStatsClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	season     string
	seasonType string
	logger     *logrus.Entry
}

// NewNBAStatsClient creates a new stats client
func NewNBAStatsClient(httpClient *RateLimitedHTTPClient, baseURL, season, seasonType string, logger *logrus.Logger) *NBAStatsClient {
	return &NBAStatsClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		season:     season,
		seasonType: seasonType,
		logger:     logger.WithField("source", nbaStatsSource),
	}
}

// Name returns the provider name
func (c *NBAStatsClient) Name() string {
	return nbaStatsSource
}

// resultSet is one table of a stats response
type resultSet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	RowSet  [][]any  `json:"rowSet"`
}

// resultSetsResponse is the envelope of most stats endpoints. A few use a single resultSet.
type resultSetsResponse struct {
	ResultSets []resultSet `json:"resultSets"`
	ResultSet  *resultSet  `json:"resultSet"`
}

type scheduleResponse struct {
	LeagueSchedule struct {
		SeasonYear string `json:"seasonYear"`
		GameDates  []struct {
			GameDate string `json:"gameDate"`
			Games    []struct {
				GameID      string `json:"gameId"`
				GameDateEst string `json:"gameDateEst"`
				HomeTeam    struct {
					TeamID int `json:"teamId"`
				} `json:"homeTeam"`
				AwayTeam struct {
					TeamID int `json:"teamId"`
				} `json:"awayTeam"`
			} `json:"games"`
		} `json:"gameDates"`
	} `json:"leagueSchedule"`
}

// FetchTeamRoster retrieves the current roster of a team
func (c *NBAStatsClient) FetchTeamRoster(ctx context.Context, teamID int) ([]models.RosterEntry, error) {
	params := url.Values{}
	params.Set("TeamID", strconv.Itoa(teamID))
	params.Set("Season", c.season)
	params.Set("LeagueID", leagueID)

	var resp resultSetsResponse
	if err := c.getJSON(ctx, endpointRoster, params, &resp); err != nil {
		return nil, err
	}
	table, err := firstTable(resp)
	if err != nil {
		return nil, c.invalid(endpointRoster, err)
	}

	players := make([]models.RosterEntry, 0, table.Len())
	for i := range table.Rows {
		idText, _ := table.Cell(i, "PLAYER_ID")
		id, err := models.ParseID(idText)
		if err != nil {
			return nil, c.invalid(endpointRoster, fmt.Errorf("row %d: %w", i, err))
		}
		name, _ := table.Cell(i, "PLAYER")
		position, _ := table.Cell(i, "POSITION")
		number, _ := table.Cell(i, "NUM")
		players = append(players, models.RosterEntry{
			PlayerID:   id,
			PlayerName: name,
			TeamID:     teamID,
			Position:   position,
			Number:     number,
		})
	}
	return players, nil
}

// FetchPlayerGameLogs retrieves every player game log of the configured season
func (c *NBAStatsClient) FetchPlayerGameLogs(ctx context.Context) ([]models.GameLogRow, error) {
	params := url.Values{}
	params.Set("Season", c.season)
	params.Set("SeasonType", c.seasonType)
	params.Set("LeagueID", leagueID)

	var resp resultSetsResponse
	if err := c.getJSON(ctx, endpointGameLogs, params, &resp); err != nil {
		return nil, err
	}
	table, err := firstTable(resp)
	if err != nil {
		return nil, c.invalid(endpointGameLogs, err)
	}
	rows, err := models.ParseGameLogTable(table)
	if err != nil {
		return nil, c.invalid(endpointGameLogs, err)
	}
	return rows, nil
}

// FetchSchedule retrieves the league schedule of the configured season
func (c *NBAStatsClient) FetchSchedule(ctx context.Context) ([]models.ScheduledGame, error) {
	params := url.Values{}
	params.Set("LeagueID", leagueID)
	params.Set("Season", c.season)

	var resp scheduleResponse
	if err := c.getJSON(ctx, endpointSchedule, params, &resp); err != nil {
		return nil, err
	}

	var games []models.ScheduledGame
	for _, day := range resp.LeagueSchedule.GameDates {
		for _, g := range day.Games {
			date, err := models.ParseGameDate(g.GameDateEst)
			if err != nil {
				return nil, c.invalid(endpointSchedule, fmt.Errorf("game %s: %w", g.GameID, err))
			}
			games = append(games, models.ScheduledGame{
				GameID:     g.GameID,
				GameDate:   time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
				HomeTeamID: g.HomeTeam.TeamID,
				AwayTeamID: g.AwayTeam.TeamID,
			})
		}
	}
	return games, nil
}

func (c *NBAStatsClient) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	start := time.Now()
	target := c.baseURL + "/" + endpoint + "?" + params.Encode()

	resp, err := c.httpClient.Get(ctx, target, statsHeaders())
	if err != nil {
		metrics.RecordProviderRequest(endpoint, "error")
		return NewDataSourceError(nbaStatsSource, ErrCodeNetworkError, "request to "+endpoint+" failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		metrics.RecordProviderRequest(endpoint, "rate_limited")
		return NewDataSourceError(nbaStatsSource, ErrCodeRateLimitExceeded, endpoint, ErrRateLimitExceeded)
	case resp.StatusCode == http.StatusNotFound:
		metrics.RecordProviderRequest(endpoint, "not_found")
		return NewDataSourceError(nbaStatsSource, ErrCodeNotFound, endpoint, ErrNotFound)
	case resp.StatusCode >= 500:
		metrics.RecordProviderRequest(endpoint, "server_error")
		return NewDataSourceError(nbaStatsSource, ErrCodeServerError, fmt.Sprintf("%s returned %d", endpoint, resp.StatusCode), ErrServerError)
	case resp.StatusCode >= 400:
		metrics.RecordProviderRequest(endpoint, "client_error")
		return NewDataSourceError(nbaStatsSource, ErrCodeInvalidData, fmt.Sprintf("%s returned %d", endpoint, resp.StatusCode), ErrInvalidData)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordProviderRequest(endpoint, "error")
		return NewDataSourceError(nbaStatsSource, ErrCodeNetworkError, "reading "+endpoint+" body", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		metrics.RecordProviderRequest(endpoint, "invalid")
		return c.invalid(endpoint, err)
	}

	metrics.RecordProviderRequest(endpoint, "success")
	c.logger.WithFields(logrus.Fields{
		"endpoint":    endpoint,
		"bytes":       len(body),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Stats request completed")
	return nil
}

func (c *NBAStatsClient) invalid(endpoint string, err error) error {
	return NewDataSourceError(nbaStatsSource, ErrCodeInvalidData, "unexpected "+endpoint+" payload", fmt.Errorf("%w: %v", ErrInvalidData, err))
}

// statsHeaders are required by the stats host, which rejects bare clients
func statsHeaders() http.Header {
	h := http.Header{}
	h.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")
	h.Set("Accept", "application/json, text/plain, */*")
	h.Set("Referer", "https://www.nba.com/")
	h.Set("Origin", "https://www.nba.com")
	return h
}

func firstTable(resp resultSetsResponse) (models.RawTable, error) {
	var set *resultSet
	switch {
	case len(resp.ResultSets) > 0:
		set = &resp.ResultSets[0]
	case resp.ResultSet != nil:
		set = resp.ResultSet
	default:
		return models.RawTable{}, fmt.Errorf("no result sets")
	}

	table := models.RawTable{Columns: set.Headers, Rows: make([][]string, 0, len(set.RowSet))}
	for i, raw := range set.RowSet {
		if len(raw) != len(set.Headers) {
			return models.RawTable{}, fmt.Errorf("row %d has %d cells, want %d", i, len(raw), len(set.Headers))
		}
		row := make([]string, len(raw))
		for j, v := range raw {
			row[j] = cellText(v)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
