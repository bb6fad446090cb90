package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mauv0809/fifa-rivalry/internal/config"
	"github.com/mauv0809/fifa-rivalry/internal/league"
	"github.com/mauv0809/fifa-rivalry/internal/metrics"
	"github.com/mauv0809/fifa-rivalry/internal/notifier"
	"github.com/mauv0809/fifa-rivalry/internal/pubsub"
)

type Server struct {
	League         *league.Service
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Router         *mux.Router
	pubsub         pubsub.PubSubClient
}
