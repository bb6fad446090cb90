package league

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mauv0809/fifa-rivalry/internal/model"
	"github.com/mauv0809/fifa-rivalry/internal/stats"
)

// Reconcile recomputes every player's totals from the match log and compares
// them with the stored aggregates. With repair set, each difference is
// applied back as an increment; aggregates are never overwritten.
func (s *Service) Reconcile(ctx context.Context, repair bool) (*ReconcileReport, error) {
	start := time.Now()
	defer func() {
		s.metrics.IncReconcileRuns()
		s.metrics.ObserveReconcileDuration(time.Since(start).Seconds())
	}()

	players, err := s.store.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	matches, err := s.store.ListMatches(ctx, model.MatchFilter{})
	if err != nil {
		return nil, err
	}

	report := &ReconcileReport{
		PlayersChecked: len(players),
		MatchesScanned: len(matches),
		Drift:          []PlayerDrift{},
	}

	known := make(map[string]bool, len(players))
	for _, p := range players {
		known[p.ID] = true
	}
	for _, m := range matches {
		if !known[m.Player1ID] || !known[m.Player2ID] {
			report.OrphanMatches++
			log.Warn("Match references missing player", "matchID", m.ID, "error", model.ErrInconsistentState)
		}
	}

	for _, p := range players {
		if stats.FieldsOf(p) == stats.Recompute(p.ID, matches) {
			continue
		}
		// The two listings above are not a snapshot. Re-read this player so a
		// write that landed between them is not mistaken for drift.
		stored, expected, err := s.playerState(ctx, p.ID)
		if errors.Is(err, model.ErrNotFound) {
			continue
		}
		if err != nil {
			log.Error("Failed to re-read player during reconcile", "playerID", p.ID, "error", err)
			continue
		}
		if stored == expected {
			log.Debug("Player settled during reconcile", "playerID", p.ID)
			continue
		}
		report.Drift = append(report.Drift, PlayerDrift{
			PlayerID: p.ID,
			Name:     p.Name,
			Stored:   stored,
			Expected: expected,
		})
		log.Warn("Player aggregate drifted from match log", "playerID", p.ID, "name", p.Name, "stored", stored, "expected", expected)

		if !repair {
			continue
		}
		// Only repair when a second read agrees with the first one.
		storedAgain, expectedAgain, err := s.playerState(ctx, p.ID)
		if err != nil || storedAgain != stored || expectedAgain != expected {
			log.Warn("Player changed during reconcile, leaving repair to the next run", "playerID", p.ID, "error", err)
			continue
		}
		if err := s.store.IncrementPlayerFields(ctx, p.ID, expected.Sub(stored)); err != nil {
			log.Error("Failed to repair player aggregate", "playerID", p.ID, "error", err)
			continue
		}
		report.Repaired++
	}

	s.metrics.SetReconcileDrift(len(report.Drift))
	log.Info("Reconcile finished", "players", report.PlayersChecked, "matches", report.MatchesScanned,
		"drifted", len(report.Drift), "repaired", report.Repaired, "orphans", report.OrphanMatches)
	return report, nil
}

// playerState reads one player's stored totals and recomputes them from that
// player's matches.
func (s *Service) playerState(ctx context.Context, id string) (stored, expected stats.Fields, err error) {
	p, err := s.store.FindPlayer(ctx, id)
	if err != nil {
		return stats.Fields{}, stats.Fields{}, err
	}
	matches, err := s.store.FindMatchesForPlayer(ctx, id)
	if err != nil {
		return stats.Fields{}, stats.Fields{}, err
	}
	return stats.FieldsOf(*p), stats.Recompute(id, matches), nil
}
