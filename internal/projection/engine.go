package projection

import (
	"github.com/chiefotto/clustercalculator/internal/models"
)

// Blend weights
const (
	ClusterWeight = 0.7
	SeasonWeight  = 1 - ClusterWeight
)

// ValueThreshold is the delta percentage beyond which a matchup is called value or bad
const ValueThreshold = 0.10

// Partition splits a player's rows into games against the cluster and every other game.
// A game id in the cluster partition never appears in the other one.
func Partition(rows []models.GameLogRow, members map[int]bool) (vsCluster, rest []models.GameLogRow) {
	clusterGames := make(map[string]bool)
	for _, r := range rows {
		if r.HasOpponent() && members[r.OpponentTeamID] {
			vsCluster = append(vsCluster, r)
			clusterGames[r.GameID] = true
		}
	}
	for _, r := range rows {
		if !clusterGames[r.GameID] {
			rest = append(rest, r)
		}
	}
	return vsCluster, rest
}

// Blend weights the cluster mean 70% and the rest-of-season mean 30%
func Blend(clusterMean, seasonMean float64) float64 {
	return ClusterWeight*clusterMean + SeasonWeight*seasonMean
}

// MeanDelta returns cluster minus season and that delta relative to season.
// A zero season mean gives a zero percentage.
func MeanDelta(clusterMean, seasonMean float64) (delta, pct float64) {
	delta = clusterMean - seasonMean
	if seasonMean != 0 {
		pct = delta / seasonMean
	}
	return delta, pct
}

// Classify turns a delta percentage into a verdict
func Classify(deltaPct float64) models.Verdict {
	switch {
	case deltaPct > ValueThreshold:
		return models.VerdictValue
	case deltaPct < -ValueThreshold:
		return models.VerdictBadMatchup
	default:
		return models.VerdictNeutral
	}
}

// Project computes the cluster-conditioned projection of one stat against a line.
// With no usable games against the cluster every cluster quantity is left nil and
// InsufficientData is set.
func Project(rows []models.GameLogRow, members map[int]bool, stat models.StatColumn, line float64) models.Projection {
	vs, rest := Partition(rows, members)
	clusterValues := Values(vs, stat)
	seasonValues := Values(rest, stat)

	p := models.Projection{
		Stat:            stat,
		Line:            line,
		Cluster:         Describe(clusterValues),
		SeasonExCluster: Describe(seasonValues),
		Verdict:         models.VerdictInsufficient,
	}

	seasonP, seasonOK := HitProbability(seasonValues, line)
	if seasonOK {
		p.SeasonHitProbability = ptr(seasonP)
	}

	clusterP, ok := HitProbability(clusterValues, line)
	if !ok {
		p.InsufficientData = true
		return p
	}
	p.HitProbability = ptr(clusterP)
	if odds, ok := FairAmericanOdds(clusterP); ok {
		p.FairOdds = ptr(odds)
	}
	if seasonOK {
		p.HitRateDelta = ptr(clusterP - seasonP)
	}

	if p.SeasonExCluster.Empty() {
		return p
	}
	p.Blended = ptr(Blend(p.Cluster.Mean, p.SeasonExCluster.Mean))
	delta, pct := MeanDelta(p.Cluster.Mean, p.SeasonExCluster.Mean)
	p.MeanDelta = ptr(delta)
	p.DeltaPct = ptr(pct)
	p.Verdict = Classify(pct)
	return p
}

// BlendStats computes the blended projection for each stat independently
func BlendStats(rows []models.GameLogRow, members map[int]bool, stats []models.StatColumn) []models.BlendedStat {
	vs, rest := Partition(rows, members)

	out := make([]models.BlendedStat, 0, len(stats))
	for _, stat := range stats {
		c := Describe(Values(vs, stat))
		s := Describe(Values(rest, stat))
		b := models.BlendedStat{Stat: stat, ClusterGames: c.N, SeasonGames: s.N}
		if !c.Empty() {
			b.ClusterMean = ptr(c.Mean)
		}
		if !s.Empty() {
			b.SeasonExClusterMean = ptr(s.Mean)
		}
		if !c.Empty() && !s.Empty() {
			b.Blended = ptr(Blend(c.Mean, s.Mean))
		}
		out = append(out, b)
	}
	return out
}

func ptr[T any](v T) *T {
	return &v
}
