package service

import (
	"fmt"
	"strings"

	"github.com/chiefotto/clustercalculator/internal/logger"
	"github.com/chiefotto/clustercalculator/internal/models"
)

// GameLogValidator validates fetched game log rows before they are merged
type GameLogValidator struct {
	logger *logger.IngestionLogger
}

// NewGameLogValidator creates a new game log validator
func NewGameLogValidator(logger *logger.IngestionLogger) *GameLogValidator {
	return &GameLogValidator{logger: logger}
}

// Validate returns the reasons a row is unusable; an empty result means valid
func (v *GameLogValidator) Validate(row models.GameLogRow) []string {
	var errors []string

	if strings.TrimSpace(row.GameID) == "" {
		errors = append(errors, "game_id is required")
	}
	if row.PlayerID <= 0 {
		errors = append(errors, fmt.Sprintf("player_id must be positive, got %d", row.PlayerID))
	}
	if row.TeamID <= 0 {
		errors = append(errors, fmt.Sprintf("team_id must be positive, got %d", row.TeamID))
	}
	if row.GameDate.IsZero() {
		errors = append(errors, "game_date is required")
	}
	if _, _, ok := ParseMatchup(row.Matchup); !ok {
		errors = append(errors, fmt.Sprintf("unparseable matchup %q", row.Matchup))
	}

	return errors
}

// Filter keeps valid rows and logs a summary of the rejected ones
func (v *GameLogValidator) Filter(rows []models.GameLogRow) []models.GameLogRow {
	valid := make([]models.GameLogRow, 0, len(rows))
	var reasons []string
	rejected := 0
	for _, row := range rows {
		errs := v.Validate(row)
		if len(errs) == 0 {
			valid = append(valid, row)
			continue
		}
		rejected++
		if len(reasons) < 10 {
			reasons = append(reasons, fmt.Sprintf("game %s player %d: %s", row.GameID, row.PlayerID, strings.Join(errs, "; ")))
		}
	}

	if rejected > 0 && v.logger != nil {
		v.logger.LogRowsRejected(rejected, reasons)
	}
	return valid
}

// ParseMatchup splits "LAL vs. BOS" or "LAL @ BOS" into the team and opponent
// abbreviations. The first token is the team and the last is the opponent.
func ParseMatchup(matchup string) (team, opponent string, ok bool) {
	fields := strings.Fields(matchup)
	if len(fields) < 3 {
		return "", "", false
	}
	sep := strings.ToLower(fields[1])
	if sep != "vs." && sep != "vs" && sep != "@" {
		return "", "", false
	}
	return strings.ToUpper(fields[0]), strings.ToUpper(fields[len(fields)-1]), true
}
