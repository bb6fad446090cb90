package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mauv0809/fifa-rivalry/internal/config"
	"github.com/mauv0809/fifa-rivalry/internal/database"
	server "github.com/mauv0809/fifa-rivalry/internal/http"
	"github.com/mauv0809/fifa-rivalry/internal/league"
	"github.com/mauv0809/fifa-rivalry/internal/metrics"
	"github.com/mauv0809/fifa-rivalry/internal/notifier"
	"github.com/mauv0809/fifa-rivalry/internal/notifier/slack"
	"github.com/mauv0809/fifa-rivalry/internal/pubsub"
	"github.com/mauv0809/fifa-rivalry/internal/scheduler"
	redisstore "github.com/mauv0809/fifa-rivalry/internal/storage/redis"
	"github.com/mauv0809/fifa-rivalry/internal/storage/sqlite"
)

const localEventBuffer = 256

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()

	store, storeTeardown := openStore(cfg)
	storeInitDuration := time.Since(startTime)
	log.Info("Storage initialization time recorded", "backend", cfg.Storage.Backend, "duration_ms", storeInitDuration.Milliseconds())
	defer func() {
		log.Info("Closing storage connection")
		storeTeardown()
	}()

	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()

	if !cfg.Slack.Enabled() {
		log.Warn("Slack is not configured, match notifications will only be logged")
		cfg.DryRun = true
	}
	slackNotifier := slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)

	var events pubsub.PubSubClient
	if cfg.ProjectID != "" {
		events = pubsub.New(cfg.ProjectID)
	} else {
		log.Info("No GCP project configured, delivering match events in-process")
		local := pubsub.NewLocal()
		for _, topic := range pubsub.Topics {
			local.Subscribe(topic, notifier.EventHandler(slackNotifier, local, cfg.DryRun))
		}
		// Slack posts must not hold up the request that published the event.
		events = local.WithAsyncDelivery(localEventBuffer)
	}
	defer events.Close()

	svc := league.New(store, metricsSvc, events)

	jobs, err := scheduler.New(svc, slackNotifier, cfg.DryRun)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %s", err)
	}
	if cfg.Reconcile.Interval > 0 {
		if err := jobs.ScheduleReconcile(cfg.Reconcile.Interval, cfg.Reconcile.Repair); err != nil {
			log.Fatalf("Failed to schedule reconcile: %s", err)
		}
	}
	if cfg.Digest.Cron != "" {
		if err := jobs.ScheduleStandingsDigest(cfg.Digest.Cron); err != nil {
			log.Fatalf("Failed to schedule standings digest: %s", err)
		}
	}
	jobs.Start()
	defer func() {
		if err := jobs.Shutdown(); err != nil {
			log.Error("Scheduler shutdown failed", "error", err)
		}
	}()

	s := server.NewServer(
		svc,
		metricsSvc,
		metricsHandler,
		cfg,
		slackNotifier,
		events,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}

// openStore connects the configured storage backend.
func openStore(cfg config.Config) (league.Store, func()) {
	switch cfg.Storage.Backend {
	case config.StorageRedis:
		redisCfg := redisstore.DefaultConfig()
		redisCfg.URL = cfg.Redis.URL
		st, err := redisstore.New(redisCfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %s", err)
		}
		return st, func() {
			if err := st.Close(); err != nil {
				log.Error("Failed to close Redis client", "error", err)
			}
		}
	default:
		db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
		if err != nil {
			log.Fatalf("Failed to initialize database: %s", err)
		}
		return sqlite.New(db, "sqlite3"), dbTeardown
	}
}
