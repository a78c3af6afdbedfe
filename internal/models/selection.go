package models

import (
	"fmt"
	"math"
)

// Selection carries the chosen matchup, player, stat and line through the pipeline.
// It is passed by value.
type Selection struct {
	HomeTeamID     int        `json:"home_team_id"`
	AwayTeamID     int        `json:"away_team_id"`
	PlayerID       int        `json:"player_id,omitempty"`
	PlayerTeamID   int        `json:"player_team_id,omitempty"`
	PlayerPosition string     `json:"player_position,omitempty"`
	Stat           StatColumn `json:"stat,omitempty"`
	Line           float64    `json:"line"`
}

// OpponentTeamID returns the team the selected player is facing
func (s Selection) OpponentTeamID() int {
	if s.PlayerTeamID == s.HomeTeamID {
		return s.AwayTeamID
	}
	return s.HomeTeamID
}

// TeamIDs returns home then away
func (s Selection) TeamIDs() []int {
	return []int{s.HomeTeamID, s.AwayTeamID}
}

// ValidateMatchup checks the two team ids
func (s Selection) ValidateMatchup() error {
	if s.HomeTeamID <= 0 || s.AwayTeamID <= 0 {
		return fmt.Errorf("home and away team ids are required: %w", ErrInvalidSelection)
	}
	if s.HomeTeamID == s.AwayTeamID {
		return fmt.Errorf("home and away team must differ: %w", ErrInvalidSelection)
	}
	return nil
}

// ValidatePlayer checks the matchup plus the player fields
func (s Selection) ValidatePlayer() error {
	if err := s.ValidateMatchup(); err != nil {
		return err
	}
	if s.PlayerID <= 0 {
		return fmt.Errorf("player id is required: %w", ErrInvalidSelection)
	}
	if s.PlayerTeamID != s.HomeTeamID && s.PlayerTeamID != s.AwayTeamID {
		return fmt.Errorf("player team %d is not in the matchup: %w", s.PlayerTeamID, ErrInvalidSelection)
	}
	if s.Stat == "" {
		return fmt.Errorf("stat is required: %w", ErrInvalidSelection)
	}
	return s.ValidateLine()
}

// ValidateLine rejects NaN and infinite lines
func (s Selection) ValidateLine() error {
	if math.IsNaN(s.Line) || math.IsInf(s.Line, 0) {
		return fmt.Errorf("line %v is not a finite number: %w", s.Line, ErrInvalidSelection)
	}
	return nil
}
