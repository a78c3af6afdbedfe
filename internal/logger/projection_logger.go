// Package logger provides projection-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// ProjectionLogger provides dedicated logging for matchup analysis.
type ProjectionLogger struct {
	*logrus.Entry
}

// NewProjectionLogger creates a new projection logger.
func NewProjectionLogger(baseLogger *logrus.Logger) *ProjectionLogger {
	return &ProjectionLogger{
		Entry: baseLogger.WithField("component", "projection"),
	}
}

// LogDefensiveTable logs a rebuild of the defensive factor table.
func (pl *ProjectionLogger) LogDefensiveTable(rows, unresolvedTeams int, durationMs float64) {
	entry := pl.WithFields(logrus.Fields{
		"rows":             rows,
		"unresolved_teams": unresolvedTeams,
		"duration_ms":      durationMs,
	})
	if unresolvedTeams > 0 {
		entry.Warn("Defensive table built with unresolved team abbreviations")
		return
	}
	entry.Info("Defensive table built")
}

// LogReport logs a completed player report.
func (pl *ProjectionLogger) LogReport(reportID string, playerID, opponentID, cluster int, stat string, line float64, clusterGames int, verdict string, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"report_id":     reportID,
		"player_id":     playerID,
		"opponent_id":   opponentID,
		"cluster":       cluster,
		"stat":          stat,
		"line":          line,
		"cluster_games": clusterGames,
		"verdict":       verdict,
		"duration_ms":   durationMs,
	}).Info("Player report generated")
}

// LogInsufficientSample logs a projection that had no games against the cluster.
func (pl *ProjectionLogger) LogInsufficientSample(playerID, cluster int, stat string) {
	pl.WithFields(logrus.Fields{
		"player_id":  playerID,
		"cluster":    cluster,
		"stat":       stat,
		"event_type": "insufficient_sample",
	}).Warn("No games against opponent cluster")
}

// LogUnresolved logs a reference lookup that could not be resolved.
func (pl *ProjectionLogger) LogUnresolved(kind string, key interface{}) {
	pl.WithFields(logrus.Fields{
		"kind":       kind,
		"key":        key,
		"event_type": "missing_reference_data",
	}).Warn("Reference lookup unresolved")
}
