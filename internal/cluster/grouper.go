// Package cluster maps teams to defensive clusters and clusters back to their member teams.
package cluster

import (
	"fmt"
	"sort"

	"github.com/chiefotto/clustercalculator/internal/models"
)

// Grouper is an immutable team -> cluster and cluster -> teams index
type Grouper struct {
	byTeam  map[int]int
	members map[int][]int
}

// NewGrouper builds the index. A team listed twice with the same cluster is accepted once;
// a team listed under two clusters is rejected.
func NewGrouper(assignments []models.ClusterAssignment) (*Grouper, error) {
	g := &Grouper{
		byTeam:  make(map[int]int, len(assignments)),
		members: make(map[int][]int),
	}
	for _, a := range assignments {
		if existing, ok := g.byTeam[a.TeamID]; ok {
			if existing != a.Cluster {
				return nil, fmt.Errorf("team %d in clusters %d and %d: %w",
					a.TeamID, existing, a.Cluster, models.ErrConflictingCluster)
			}
			continue
		}
		g.byTeam[a.TeamID] = a.Cluster
		g.members[a.Cluster] = append(g.members[a.Cluster], a.TeamID)
	}
	return g, nil
}

// ClusterOf returns the cluster a team belongs to
func (g *Grouper) ClusterOf(teamID int) (int, error) {
	c, ok := g.byTeam[teamID]
	if !ok {
		return 0, fmt.Errorf("team %d: %w", teamID, models.ErrTeamNotClustered)
	}
	return c, nil
}

// Members returns a copy of the team ids in a cluster
func (g *Grouper) Members(cluster int) ([]int, error) {
	m, ok := g.members[cluster]
	if !ok {
		return nil, fmt.Errorf("cluster %d: %w", cluster, models.ErrClusterNotFound)
	}
	return append([]int(nil), m...), nil
}

// Peers returns the cluster of a team together with every member of that cluster
func (g *Grouper) Peers(teamID int) (int, []int, error) {
	c, err := g.ClusterOf(teamID)
	if err != nil {
		return 0, nil, err
	}
	m, err := g.Members(c)
	return c, m, err
}

// MemberSet returns the members of a cluster as a set
func (g *Grouper) MemberSet(cluster int) map[int]bool {
	set := make(map[int]bool, len(g.members[cluster]))
	for _, id := range g.members[cluster] {
		set[id] = true
	}
	return set
}

// Clusters returns every cluster id in ascending order
func (g *Grouper) Clusters() []int {
	out := make([]int, 0, len(g.members))
	for c := range g.members {
		out = append(out, c)
	}
	sort.Ints(out)
	return out
}

// Len returns the number of clustered teams
func (g *Grouper) Len() int {
	return len(g.byTeam)
}

// Teams annotates a cluster's members with registry data. Teams missing from the
// registry are returned with only their id set.
func (g *Grouper) Teams(cluster int, registry *models.TeamRegistry) []models.TeamRecord {
	ids := g.members[cluster]
	out := make([]models.TeamRecord, 0, len(ids))
	for _, id := range ids {
		if t, ok := registry.Lookup(id); ok {
			out = append(out, t)
			continue
		}
		out = append(out, models.TeamRecord{ID: id})
	}
	return out
}
