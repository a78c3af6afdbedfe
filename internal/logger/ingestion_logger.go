// Package logger provides ingestion-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// IngestionLogger provides dedicated logging for upstream fetches and game log upserts.
type IngestionLogger struct {
	*logrus.Entry
}

// NewIngestionLogger creates a new ingestion logger.
func NewIngestionLogger(baseLogger *logrus.Logger) *IngestionLogger {
	return &IngestionLogger{
		Entry: baseLogger.WithField("component", "ingestion"),
	}
}

// LogUpsert logs the outcome of a game log upsert.
func (il *IngestionLogger) LogUpsert(added, total int, wasEmpty bool, durationMs float64) {
	il.WithFields(logrus.Fields{
		"added":       added,
		"total":       total,
		"was_empty":   wasEmpty,
		"duration_ms": durationMs,
	}).Info("Game logs upserted")
}

// LogUpstreamFailure logs a failed fetch from the stats provider.
func (il *IngestionLogger) LogUpstreamFailure(endpoint string, err error) {
	il.WithFields(logrus.Fields{
		"endpoint":   endpoint,
		"event_type": "upstream_unavailable",
	}).WithError(err).Warn("Stats provider unavailable, degrading to empty result")
}

// LogRowsRejected logs rows dropped by validation.
func (il *IngestionLogger) LogRowsRejected(rejected int, reasons []string) {
	il.WithFields(logrus.Fields{
		"rejected": rejected,
		"reasons":  reasons,
	}).Warn("Rejected invalid game log rows")
}

// LogMatchupMismatch logs rows whose MATCHUP team token disagrees with the team abbreviation.
func (il *IngestionLogger) LogMatchupMismatch(count int) {
	il.WithFields(logrus.Fields{
		"count":      count,
		"event_type": "matchup_mismatch",
	}).Warn("Found rows where MATCHUP doesn't start with the team abbreviation")
}
