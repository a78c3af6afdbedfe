package models

import (
	"fmt"
	"sort"
	"strings"
)

// TeamRecord is one row of the canonical team registry
type TeamRecord struct {
	ID           int    `json:"team_id" db:"id"`
	FullName     string `json:"full_name" db:"full_name"`
	Abbreviation string `json:"abbreviation" db:"abbreviation"`
}

// TeamRegistry indexes the team registry by id and canonical abbreviation
type TeamRegistry struct {
	byID   map[int]TeamRecord
	byAbbr map[string]TeamRecord
}

// NewTeamRegistry builds a registry. Later duplicates of an id or abbreviation replace earlier ones.
func NewTeamRegistry(teams []TeamRecord) *TeamRegistry {
	r := &TeamRegistry{
		byID:   make(map[int]TeamRecord, len(teams)),
		byAbbr: make(map[string]TeamRecord, len(teams)),
	}
	for _, t := range teams {
		r.byID[t.ID] = t
		r.byAbbr[strings.ToUpper(strings.TrimSpace(t.Abbreviation))] = t
	}
	return r
}

// Lookup returns the team with the given id
func (r *TeamRegistry) Lookup(id int) (TeamRecord, bool) {
	if r == nil {
		return TeamRecord{}, false
	}
	t, ok := r.byID[id]
	return t, ok
}

// LookupAbbreviation returns the team with the given canonical abbreviation
func (r *TeamRegistry) LookupAbbreviation(abbr string) (TeamRecord, bool) {
	if r == nil {
		return TeamRecord{}, false
	}
	t, ok := r.byAbbr[strings.ToUpper(strings.TrimSpace(abbr))]
	return t, ok
}

// MustLookup returns the team or an ErrTeamNotFound error
func (r *TeamRegistry) MustLookup(id int) (TeamRecord, error) {
	t, ok := r.Lookup(id)
	if !ok {
		return TeamRecord{}, fmt.Errorf("team %d: %w", id, ErrTeamNotFound)
	}
	return t, nil
}

// Teams returns every team ordered by id
func (r *TeamRegistry) Teams() []TeamRecord {
	if r == nil {
		return nil
	}
	out := make([]TeamRecord, 0, len(r.byID))
	for _, t := range r.byID {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of teams
func (r *TeamRegistry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.byID)
}
