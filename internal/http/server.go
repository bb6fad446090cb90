package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mauv0809/fifa-rivalry/internal/config"
	"github.com/mauv0809/fifa-rivalry/internal/http/handlers"
	"github.com/mauv0809/fifa-rivalry/internal/league"
	"github.com/mauv0809/fifa-rivalry/internal/metrics"
	"github.com/mauv0809/fifa-rivalry/internal/notifier"
	"github.com/mauv0809/fifa-rivalry/internal/pubsub"
)

func NewServer(svc *league.Service, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		League:         svc,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Router:         mux.NewRouter(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	r := s.Router
	r.Use(recoveryMiddleware)
	slackAuth := slackVerificationMiddleware(s.Cfg.Slack.SigningSecret)

	r.Handle("/metrics", s.MetricsHandler).Methods(http.MethodGet)
	r.Handle("/health", Chain(handlers.HealthCheckHandler(), paramsMiddleware)).Methods(http.MethodGet)

	// Players
	r.Handle("/players", Chain(handlers.RegisterPlayerHandler(s.League), paramsMiddleware)).Methods(http.MethodPost)
	r.Handle("/players", Chain(handlers.ListPlayersHandler(s.League), paramsMiddleware)).Methods(http.MethodGet)
	r.Handle("/stats", Chain(handlers.StandingsHandler(s.League), paramsMiddleware)).Methods(http.MethodGet)
	r.Handle("/player/{id}", Chain(handlers.RenamePlayerHandler(s.League), paramsMiddleware)).Methods(http.MethodPut)
	r.Handle("/player/{id}", Chain(handlers.DeletePlayerHandler(s.League), paramsMiddleware)).Methods(http.MethodDelete)
	r.Handle("/player/{id}/matches", Chain(handlers.PlayerMatchesHandler(s.League), paramsMiddleware)).Methods(http.MethodGet)
	r.Handle("/player/{id}/stats", Chain(handlers.PlayerStatsHandler(s.League), paramsMiddleware)).Methods(http.MethodGet)

	// Matches
	r.Handle("/matches", Chain(handlers.RecordMatchHandler(s.League), paramsMiddleware)).Methods(http.MethodPost)
	r.Handle("/matches", Chain(handlers.ListMatchesHandler(s.League), paramsMiddleware)).Methods(http.MethodGet)
	r.Handle("/matches/{id}", Chain(handlers.GetMatchHandler(s.League), paramsMiddleware)).Methods(http.MethodGet)
	r.Handle("/matches/{id}", Chain(handlers.UpdateMatchHandler(s.League), paramsMiddleware)).Methods(http.MethodPut)
	r.Handle("/matches/{id}", Chain(handlers.DeleteMatchHandler(s.League), paramsMiddleware)).Methods(http.MethodDelete)
	r.Handle("/head-to-head/{player1}/{player2}", Chain(handlers.HeadToHeadHandler(s.League), paramsMiddleware)).Methods(http.MethodGet)

	// Tournaments
	r.Handle("/tournaments", Chain(handlers.CreateTournamentHandler(s.League), paramsMiddleware)).Methods(http.MethodPost)
	r.Handle("/tournaments", Chain(handlers.ListTournamentsHandler(s.League), paramsMiddleware)).Methods(http.MethodGet)
	r.Handle("/tournaments/{id}/matches", Chain(handlers.TournamentMatchesHandler(s.League), paramsMiddleware)).Methods(http.MethodGet)
	r.Handle("/tournaments/{id}/standings", Chain(handlers.TournamentStandingsHandler(s.League), paramsMiddleware)).Methods(http.MethodGet)

	r.Handle("/admin/reconcile", Chain(handlers.ReconcileHandler(s.League), paramsMiddleware)).Methods(http.MethodPost)

	// Slack
	r.Handle("/slack/command/standings", Chain(handlers.StandingsCommandHandler(s.League, s.Notifier), paramsMiddleware, slackAuth)).Methods(http.MethodPost)
	r.Handle("/slack/command/player-stats", Chain(handlers.PlayerStatsCommandHandler(s.League, s.Notifier), paramsMiddleware, slackAuth)).Methods(http.MethodPost)
	r.Handle("/slack/command/head-to-head", Chain(handlers.HeadToHeadCommandHandler(s.League, s.Notifier), paramsMiddleware, slackAuth)).Methods(http.MethodPost)

	// Pub/Sub push subscription
	r.Handle("/events/match-result", Chain(handlers.MatchEventPushHandler(s.eventHandler()), paramsMiddleware)).Methods(http.MethodPost)
}

// eventHandler decodes pushed events with the server's client. The dry-run
// flag comes from config because push requests carry no query string we control.
func (s *Server) eventHandler() pubsub.Handler {
	return notifier.EventHandler(s.Notifier, s.pubsub, s.Cfg.DryRun)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
