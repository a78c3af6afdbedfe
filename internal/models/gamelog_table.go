package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Game log identity columns, as named by the upstream feed
const (
	ColSeasonYear       = "SEASON_YEAR"
	ColPlayerID         = "PLAYER_ID"
	ColPlayerName       = "PLAYER_NAME"
	ColTeamID           = "TEAM_ID"
	ColTeamAbbreviation = "TEAM_ABBREVIATION"
	ColTeamName         = "TEAM_NAME"
	ColGameID           = "GAME_ID"
	ColGameDate         = "GAME_DATE"
	ColMatchup          = "MATCHUP"
	ColWL               = "WL"
	ColOpponentTeamID   = "OPP_TEAM_ID"
	ColOpponentTeamName = "OPP_TEAM_NAME"
)

// GameLogIdentityColumns lists the non-stat columns in storage order
var GameLogIdentityColumns = []string{
	ColSeasonYear, ColPlayerID, ColPlayerName, ColTeamID, ColTeamAbbreviation, ColTeamName,
	ColGameID, ColGameDate, ColMatchup, ColWL, ColOpponentTeamID, ColOpponentTeamName,
}

var gameDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05-07",
	"2006-01-02",
}

// ParseGameDate accepts the date layouts produced by the feed and by storage casts
func ParseGameDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range gameDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized game date %q", s)
}

// ParseOptionalFloat parses a numeric cell. Blank, null and non-finite cells report false.
func ParseOptionalFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "nan", "null", "none", "<na>":
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseID parses an integer id that may have been written as a float
func ParseID(s string) (int, error) {
	v, ok := ParseOptionalFloat(s)
	if !ok || v != math.Trunc(v) {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return int(v), nil
}

// ParseGameLogTable converts a raw table into game log rows. GAME_ID, PLAYER_ID,
// TEAM_ID and GAME_DATE are required; stat columns that are absent or blank are
// left out of the row's stats.
func ParseGameLogTable(t RawTable) ([]GameLogRow, error) {
	idx := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		idx[strings.ToUpper(strings.TrimSpace(c))] = i
	}
	for _, col := range []string{ColGameID, ColPlayerID, ColTeamID, ColGameDate} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("game log column %s: %w", col, ErrMissingColumn)
		}
	}
	cell := func(row []string, col string) string {
		if i, ok := idx[col]; ok && i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	out := make([]GameLogRow, 0, len(t.Rows))
	for n, row := range t.Rows {
		var r GameLogRow
		var err error
		r.GameID = cell(row, ColGameID)
		if r.PlayerID, err = ParseID(cell(row, ColPlayerID)); err != nil {
			return nil, fmt.Errorf("row %d: player: %w", n, err)
		}
		if r.TeamID, err = ParseID(cell(row, ColTeamID)); err != nil {
			return nil, fmt.Errorf("row %d: team: %w", n, err)
		}
		if r.GameDate, err = ParseGameDate(cell(row, ColGameDate)); err != nil {
			return nil, fmt.Errorf("row %d: %w", n, err)
		}
		if opp := cell(row, ColOpponentTeamID); opp != "" {
			if id, err := ParseID(opp); err == nil {
				r.OpponentTeamID = id
			}
		}
		r.SeasonYear = cell(row, ColSeasonYear)
		r.PlayerName = cell(row, ColPlayerName)
		r.TeamAbbreviation = cell(row, ColTeamAbbreviation)
		r.TeamName = cell(row, ColTeamName)
		r.Matchup = cell(row, ColMatchup)
		r.WL = cell(row, ColWL)
		r.OpponentName = cell(row, ColOpponentTeamName)

		r.Stats = make(map[StatColumn]float64)
		for _, stat := range AllStatColumns {
			if v, ok := ParseOptionalFloat(cell(row, string(stat))); ok {
				r.Stats[stat] = v
			}
		}
		out = append(out, r)
	}
	return out, nil
}
