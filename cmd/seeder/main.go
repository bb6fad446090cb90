package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mauv0809/fifa-rivalry/internal/database"
	"github.com/mauv0809/fifa-rivalry/internal/league"
	"github.com/mauv0809/fifa-rivalry/internal/metrics"
	"github.com/mauv0809/fifa-rivalry/internal/model"
	"github.com/mauv0809/fifa-rivalry/internal/pubsub"
	"github.com/mauv0809/fifa-rivalry/internal/storage/sqlite"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{"DB_NAME": "rivalry.db"}
	optional := []string{"DB_NAME", "TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"}

	for _, key := range optional {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		}
	}
	return config
}

var (
	seedPlayers = []string{"Seeder Player A", "Seeder Player B", "Seeder Player C", "Seeder Player D"}
	seedTeams   = []string{"Real Madrid", "FC Barcelona", "Manchester City", "Bayern München", "Liverpool", "PSG", "Inter", "Arsenal"}
)

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	log.Info("Successfully connected to the database.")

	// Matches go through the league service so aggregates stay consistent.
	// Events are published to an in-process client with no subscribers.
	svc := league.New(
		sqlite.New(db, "sqlite3"),
		metrics.NewService(prometheus.NewRegistry()),
		pubsub.NewLocal(),
	)
	ctx := context.Background()

	players := make([]*model.Player, 0, len(seedPlayers))
	for _, name := range seedPlayers {
		p, err := ensurePlayer(ctx, svc, name)
		if err != nil {
			log.Fatalf("Failed to ensure player %s: %s", name, err)
		}
		players = append(players, p)
	}
	log.Info("Ensured dummy players exist.")

	now := time.Now().UTC()
	tournament, err := svc.CreateTournament(ctx, league.TournamentInput{
		Name:        fmt.Sprintf("Seeded Cup %s", now.Format("2006-01-02 15:04:05")),
		StartDate:   now.AddDate(0, 0, -30),
		EndDate:     now,
		Description: "Matches generated by the seeder",
	})
	if err != nil {
		log.Fatalf("Failed to create tournament: %s", err)
	}

	const numMatches = 500

	log.Info("Preparing to record dummy matches...", "total", numMatches)
	startTime := time.Now()

	for i := 0; i < numMatches; i++ {
		perm := rand.Perm(len(players))
		home, away := players[perm[0]], players[perm[1]]
		in := league.MatchInput{
			Player1ID:    home.ID,
			Player2ID:    away.ID,
			Player1Goals: rand.Intn(6),
			Player2Goals: rand.Intn(6),
			Team1:        seedTeams[rand.Intn(len(seedTeams))],
			Team2:        seedTeams[rand.Intn(len(seedTeams))],
			Date:         now.Add(-time.Duration(rand.Intn(365*24)) * time.Hour),
		}
		if now.Sub(in.Date) < 30*24*time.Hour {
			in.TournamentID = tournament.ID
		}
		if _, err := svc.RecordMatch(ctx, in); err != nil {
			log.Fatalf("Failed to record match: %s", err)
		}
		if (i+1)%100 == 0 {
			log.Info("Recorded batch", "completed", i+1, "total", numMatches)
		}
	}

	report, err := svc.Reconcile(ctx, false)
	if err != nil {
		log.Fatalf("Failed to verify aggregates: %s", err)
	}
	if len(report.Drift) > 0 {
		log.Fatalf("Seeded aggregates drifted for %d players", len(report.Drift))
	}

	duration := time.Since(startTime)
	log.Info("Successfully recorded all dummy matches.", "duration", duration)
}

func ensurePlayer(ctx context.Context, svc *league.Service, name string) (*model.Player, error) {
	p, err := svc.RegisterPlayer(ctx, name)
	if errors.Is(err, model.ErrDuplicate) {
		return svc.FindPlayerByName(ctx, name)
	}
	return p, err
}
