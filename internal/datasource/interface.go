package datasource

import (
	"context"
	"errors"

	"github.com/chiefotto/clustercalculator/internal/models"
)

// StatsProvider defines the upstream league statistics feed
type StatsProvider interface {
	// FetchTeamRoster retrieves the current roster of a team
	FetchTeamRoster(ctx context.Context, teamID int) ([]models.RosterEntry, error)

	// FetchPlayerGameLogs retrieves every player game log of the configured season
	FetchPlayerGameLogs(ctx context.Context) ([]models.GameLogRow, error)

	// FetchSchedule retrieves the league schedule of the configured season
	FetchSchedule(ctx context.Context) ([]models.ScheduledGame, error)

	// Name returns the name of the provider
	Name() string
}

// DataSourceError represents errors from provider operations. It matches
// models.ErrUpstreamUnavailable under errors.Is.
type DataSourceError struct {
	Source  string // Provider name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

// Unwrap exposes both the upstream sentinel and the cause
func (e DataSourceError) Unwrap() []error {
	if e.Err == nil {
		return []error{models.ErrUpstreamUnavailable}
	}
	return []error{models.ErrUpstreamUnavailable, e.Err}
}

// Common error codes
const (
	ErrCodeRateLimitExceeded = "rate_limit_exceeded"
	ErrCodeNotFound          = "not_found"
	ErrCodeInvalidData       = "invalid_data"
	ErrCodeNetworkError      = "network_error"
	ErrCodeServerError       = "server_error"
	ErrCodeCircuitOpen       = "circuit_open"
)

// Error causes
var (
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrNotFound          = errors.New("data not found")
	ErrInvalidData       = errors.New("invalid data format")
	ErrServerError       = errors.New("server error")
	ErrCircuitOpen       = errors.New("circuit breaker open")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
