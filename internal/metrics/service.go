package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		MatchesRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rivalry_matches_recorded_total",
			Help: "The total number of matches recorded.",
		}),
		MatchesCorrected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rivalry_matches_corrected_total",
			Help: "The total number of match score corrections applied.",
		}),
		MatchesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rivalry_matches_deleted_total",
			Help: "The total number of matches deleted, including player cascades.",
		}),
		PlayersRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rivalry_players_registered_total",
			Help: "The total number of players registered.",
		}),
		PlayersDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rivalry_players_deleted_total",
			Help: "The total number of players deleted.",
		}),
		AggregateAnomalies: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rivalry_aggregate_anomalies_total",
			Help: "Aggregate updates skipped because a referenced player was missing.",
		}),
		ReconcileRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rivalry_reconcile_runs_total",
			Help: "The total number of aggregate consistency audits run.",
		}),
		ReconcileDrift: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rivalry_reconcile_drift_players",
			Help: "Players whose stored aggregate differed from the match log in the last audit.",
		}),
		ReconcileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rivalry_reconcile_duration_seconds",
			Help:    "The duration of aggregate consistency audits.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rivalry_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rivalry_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rivalry_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.MatchesRecorded,
		s.MatchesCorrected,
		s.MatchesDeleted,
		s.PlayersRegistered,
		s.PlayersDeleted,
		s.AggregateAnomalies,
		s.ReconcileRuns,
		s.ReconcileDrift,
		s.ReconcileDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncMatchesRecorded() {
	s.MatchesRecorded.Inc()
}

func (s *Service) IncMatchesCorrected() {
	s.MatchesCorrected.Inc()
}

func (s *Service) IncMatchesDeleted() {
	s.MatchesDeleted.Inc()
}

func (s *Service) IncPlayersRegistered() {
	s.PlayersRegistered.Inc()
}

func (s *Service) IncPlayersDeleted() {
	s.PlayersDeleted.Inc()
}

func (s *Service) IncAggregateAnomalies() {
	s.AggregateAnomalies.Inc()
}

func (s *Service) IncReconcileRuns() {
	s.ReconcileRuns.Inc()
}

func (s *Service) SetReconcileDrift(players int) {
	s.ReconcileDrift.Set(float64(players))
}

func (s *Service) ObserveReconcileDuration(duration float64) {
	s.ReconcileDuration.Observe(duration)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
