package models

// ClusterAssignment maps a team to its defensive cluster
type ClusterAssignment struct {
	TeamID  int `json:"team_id"`
	Cluster int `json:"cluster"`
}
