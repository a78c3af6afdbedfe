// Package metrics provides the centralized Prometheus registry for the projection engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "clustercalc"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	MemoHitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "memo_hits_total",
		Help:      "Total number of memoized lookups served from cache",
	}, []string{"kind"})
	MemoMissesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "memo_misses_total",
		Help:      "Total number of memoized lookups that had to be computed",
	}, []string{"kind"})
	DVPRebuildsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dvp_rebuilds_total",
		Help:      "Total number of defensive table rebuilds",
	})
	ReportsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "player_reports_total",
		Help:      "Total number of player reports by verdict",
	}, []string{"verdict"})
	GameLogRowsAddedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gamelog_rows_added_total",
		Help:      "Total number of game log rows added by refreshes",
	})
	ProviderRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provider_requests_total",
		Help:      "Total number of stats provider requests by endpoint and outcome",
	}, []string{"endpoint", "outcome"})
)

// Gauge metrics
var (
	GameLogRows = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "gamelog_rows",
		Help:      "Number of rows in the game log store",
	})
	UnresolvedDVPRows = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "dvp_unresolved_rows",
		Help:      "Number of defensive table rows whose team could not be resolved",
	})
)

// Histogram metrics
var (
	ReportDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "player_report_duration_seconds",
		Help:      "Duration of player report generation in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	RefreshDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gamelog_refresh_duration_seconds",
		Help:      "Duration of game log refreshes in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(MemoHitsTotal)
		registry.MustRegister(MemoMissesTotal)
		registry.MustRegister(DVPRebuildsTotal)
		registry.MustRegister(ReportsTotal)
		registry.MustRegister(GameLogRowsAddedTotal)
		registry.MustRegister(ProviderRequestsTotal)

		registry.MustRegister(GameLogRows)
		registry.MustRegister(UnresolvedDVPRows)

		registry.MustRegister(ReportDuration)
		registry.MustRegister(RefreshDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordMemoHit records a memoized lookup served from cache.
func RecordMemoHit(kind string) {
	MemoHitsTotal.WithLabelValues(kind).Inc()
}

// RecordMemoMiss records a memoized lookup that was computed.
func RecordMemoMiss(kind string) {
	MemoMissesTotal.WithLabelValues(kind).Inc()
}

// RecordDVPRebuild records a defensive table rebuild and its unresolved row count.
func RecordDVPRebuild(unresolved int) {
	DVPRebuildsTotal.Inc()
	UnresolvedDVPRows.Set(float64(unresolved))
}

// RecordReport records a generated player report.
func RecordReport(verdict string, durationSeconds float64) {
	ReportsTotal.WithLabelValues(verdict).Inc()
	ReportDuration.Observe(durationSeconds)
}

// RecordRefresh records a completed game log refresh.
func RecordRefresh(added, total int, durationSeconds float64) {
	GameLogRowsAddedTotal.Add(float64(added))
	GameLogRows.Set(float64(total))
	RefreshDuration.Observe(durationSeconds)
}

// RecordProviderRequest records a stats provider request outcome.
func RecordProviderRequest(endpoint, outcome string) {
	ProviderRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
}
