package models

import "errors"

// Lookup and data errors
var (
	// ErrNotFound is returned when a record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrTeamNotFound is returned when a team id or abbreviation is not in the registry
	ErrTeamNotFound = errors.New("team not found")

	// ErrTeamNotClustered is returned when a team has no cluster assignment
	ErrTeamNotClustered = errors.New("team has no cluster assignment")

	// ErrClusterNotFound is returned when a cluster id has no member teams
	ErrClusterNotFound = errors.New("cluster not found")

	// ErrConflictingCluster is returned when one team is assigned to two clusters
	ErrConflictingCluster = errors.New("team assigned to more than one cluster")

	ErrInsufficientSample  = errors.New("insufficient sample")
	ErrUpstreamUnavailable = errors.New("stats provider unavailable")
	ErrUnknownStat         = errors.New("unknown stat column")
	ErrInvalidSelection    = errors.New("invalid selection")
	ErrMissingColumn       = errors.New("missing required column")
)
