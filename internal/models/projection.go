package models

import (
	"time"

	"github.com/google/uuid"
)

// Summary holds descriptive statistics over one partition. N == 0 means undefined.
type Summary struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	P25    float64 `json:"p25"`
	P75    float64 `json:"p75"`
	Max    float64 `json:"max"`
}

// Empty reports whether the partition had no usable values
func (s Summary) Empty() bool {
	return s.N == 0
}

// Verdict classifies how a player performs against the opponent cluster
type Verdict string

// Verdicts
const (
	VerdictValue        Verdict = "value"
	VerdictBadMatchup   Verdict = "bad_matchup"
	VerdictNeutral      Verdict = "neutral"
	VerdictInsufficient Verdict = "insufficient_data"
)

// Projection is the cluster-conditioned estimate for one (player, stat, line).
// Nil fields are undefined.
type Projection struct {
	Stat                 StatColumn `json:"stat"`
	Line                 float64    `json:"line"`
	Cluster              Summary    `json:"cluster"`
	SeasonExCluster      Summary    `json:"season_ex_cluster"`
	Blended              *float64   `json:"blended,omitempty"`
	HitProbability       *float64   `json:"hit_probability,omitempty"`
	FairOdds             *int       `json:"fair_odds,omitempty"`
	SeasonHitProbability *float64   `json:"season_hit_probability,omitempty"`
	HitRateDelta         *float64   `json:"hit_rate_delta,omitempty"`
	MeanDelta            *float64   `json:"mean_delta,omitempty"`
	DeltaPct             *float64   `json:"delta_pct,omitempty"`
	Verdict              Verdict    `json:"verdict"`
	InsufficientData     bool       `json:"insufficient_data"`
}

// BlendedStat is the 70/30 blend for one stat
type BlendedStat struct {
	Stat                StatColumn `json:"stat"`
	ClusterMean         *float64   `json:"cluster_mean,omitempty"`
	SeasonExClusterMean *float64   `json:"season_ex_cluster_mean,omitempty"`
	Blended             *float64   `json:"blended,omitempty"`
	ClusterGames        int        `json:"cluster_games"`
	SeasonGames         int        `json:"season_games"`
}

// AdjustedStat is a season average scaled by the opponent's def_factor
type AdjustedStat struct {
	Stat          DVPStat `json:"stat"`
	DefFactor     float64 `json:"def_factor"`
	Display       string  `json:"display"`
	Rank          int     `json:"rank"`
	SeasonAverage float64 `json:"season_average"`
	Projected     float64 `json:"projected"`
}

// PlayerReport is the per-player output combining both projection streams
type PlayerReport struct {
	ReportID        uuid.UUID      `json:"report_id"`
	GeneratedAt     time.Time      `json:"generated_at"`
	Selection       Selection      `json:"selection"`
	PlayerName      string         `json:"player_name"`
	Opponent        TeamRecord     `json:"opponent"`
	OpponentCluster int            `json:"opponent_cluster"`
	ClusterTeams    []TeamRecord   `json:"cluster_teams"`
	GamesLogged     int            `json:"games_logged"`
	Projection      Projection     `json:"projection"`
	Blended         []BlendedStat  `json:"blended"`
	DVPAdjusted     []AdjustedStat `json:"dvp_adjusted"`
}

// TeamMatchup is the target/avoid view of one team's defense
type TeamMatchup struct {
	Team    TeamRecord           `json:"team"`
	Targets []PositionStatFactor `json:"targets"`
	Avoids  []PositionStatFactor `json:"avoids"`
}

// MatchupView is the game-level view: both defenses and the eligible players
type MatchupView struct {
	Selection Selection       `json:"selection"`
	Home      TeamMatchup     `json:"home"`
	Away      TeamMatchup     `json:"away"`
	Players   []MatchupPlayer `json:"players"`
}

// UpsertResult reports the outcome of a game log refresh
type UpsertResult struct {
	Added    int  `json:"added"`
	Total    int  `json:"total"`
	WasEmpty bool `json:"was_empty"`
}
