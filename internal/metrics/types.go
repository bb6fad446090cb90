package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	MatchesRecorded    prometheus.Counter
	MatchesCorrected   prometheus.Counter
	MatchesDeleted     prometheus.Counter
	PlayersRegistered  prometheus.Counter
	PlayersDeleted     prometheus.Counter
	AggregateAnomalies prometheus.Counter
	ReconcileRuns      prometheus.Counter
	ReconcileDrift     prometheus.Gauge
	ReconcileDuration  prometheus.Histogram
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
