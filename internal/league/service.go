package league

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gosimple/slug"

	"github.com/mauv0809/fifa-rivalry/internal/metrics"
	"github.com/mauv0809/fifa-rivalry/internal/model"
	"github.com/mauv0809/fifa-rivalry/internal/pubsub"
	"github.com/mauv0809/fifa-rivalry/internal/stats"
)

// New creates a new Service. events may be nil, in which case no domain
// events are published.
func New(store Store, metrics metrics.Metrics, events pubsub.PubSubClient) *Service {
	return &Service{
		store:   store,
		metrics: metrics,
		events:  events,
		now:     time.Now,
	}
}

// WithClock replaces the time source used to stamp new matches.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", model.ErrInvalidInput, fmt.Sprintf(format, args...))
}

func validateGoals(g1, g2 int) error {
	if g1 < 0 || g2 < 0 {
		return invalid("goals cannot be negative")
	}
	return nil
}

// Players

func (s *Service) RegisterPlayer(ctx context.Context, name string) (*model.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("player name is required")
	}
	p := &model.Player{ID: model.NewID(), Name: name}
	if err := s.store.InsertPlayer(ctx, p); err != nil {
		return nil, err
	}
	s.metrics.IncPlayersRegistered()
	log.Info("Registered player", "playerID", p.ID, "name", p.Name)
	return p, nil
}

func (s *Service) RenamePlayer(ctx context.Context, id, name string) (*model.Player, error) {
	if err := model.ValidateID("player", id); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("player name is required")
	}
	if err := s.store.RenamePlayer(ctx, id, name); err != nil {
		return nil, err
	}
	log.Info("Renamed player", "playerID", id, "name", name)
	return s.store.FindPlayer(ctx, id)
}

func (s *Service) GetPlayer(ctx context.Context, id string) (*model.Player, error) {
	if err := model.ValidateID("player", id); err != nil {
		return nil, err
	}
	return s.store.FindPlayer(ctx, id)
}

func (s *Service) ListPlayers(ctx context.Context) ([]model.Player, error) {
	return s.store.ListPlayers(ctx)
}

// Standings lists players by points, then goal difference.
func (s *Service) Standings(ctx context.Context) ([]model.Player, error) {
	return s.store.Standings(ctx)
}

// FindPlayerByName tries an exact match first and then falls back to a
// case-insensitive substring search ("ali" finds "Alice").
func (s *Service) FindPlayerByName(ctx context.Context, name string) (*model.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("player name is required")
	}
	p, err := s.store.FindPlayerByName(ctx, name)
	if err == nil || !errors.Is(err, model.ErrNotFound) {
		return p, err
	}
	players, err := s.store.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(name)
	for i := range players {
		if strings.Contains(strings.ToLower(players[i].Name), needle) {
			return &players[i], nil
		}
	}
	return nil, fmt.Errorf("player matching %q: %w", name, model.ErrNotFound)
}

// DeletePlayer removes the player and every match they played. The matches go
// first and are then reversed out of each opponent's aggregate, so a failure
// never leaves a reversal applied for a match that still exists and a retry
// cannot reverse the same match twice.
func (s *Service) DeletePlayer(ctx context.Context, id string) (*DeletePlayerResult, error) {
	if err := model.ValidateID("player", id); err != nil {
		return nil, err
	}
	player, err := s.store.FindPlayer(ctx, id)
	if err != nil {
		return nil, err
	}
	matches, err := s.store.FindMatchesForPlayer(ctx, id)
	if err != nil {
		return nil, err
	}
	views := s.views(ctx, matches)

	reversals := make(map[string]stats.Fields)
	var order []string
	for _, m := range matches {
		opp := m.Opponent(id)
		if _, seen := reversals[opp]; !seen {
			order = append(order, opp)
		}
		reversals[opp] = reversals[opp].Add(stats.Delta(stats.KindRemove, stats.Perspective(m, opp), stats.Score{}))
	}

	deleted, err := s.store.DeleteMatchesForPlayer(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, opp := range order {
		if err := s.applyDelta(ctx, opp, reversals[opp]); err != nil {
			return nil, err
		}
	}
	if err := s.store.DeletePlayer(ctx, id); err != nil {
		return nil, err
	}

	s.metrics.IncPlayersDeleted()
	for _, v := range views {
		s.metrics.IncMatchesDeleted()
		s.publish(pubsub.EventMatchDeleted, &pubsub.MatchEvent{Type: pubsub.EventMatchDeleted, Match: v})
	}
	log.Info("Deleted player", "playerID", id, "name", player.Name, "deleted_matches", deleted)
	return &DeletePlayerResult{PlayerID: id, DeletedMatches: deleted}, nil
}

// applyDelta increments one player's aggregate. A player that no longer
// exists is logged and counted, not treated as a failure.
func (s *Service) applyDelta(ctx context.Context, playerID string, delta stats.Fields) error {
	if delta.IsZero() {
		return nil
	}
	err := s.store.IncrementPlayerFields(ctx, playerID, delta)
	if errors.Is(err, model.ErrNotFound) {
		s.metrics.IncAggregateAnomalies()
		log.Warn("Skipping aggregate update for missing player", "playerID", playerID, "error", model.ErrInconsistentState)
		return nil
	}
	return err
}

// Matches

// RecordMatch validates the input, resolves both players and stores the
// match together with both aggregate increments.
func (s *Service) RecordMatch(ctx context.Context, in MatchInput) (*model.MatchView, error) {
	if err := model.ValidateID("player", in.Player1ID); err != nil {
		return nil, err
	}
	if err := model.ValidateID("player", in.Player2ID); err != nil {
		return nil, err
	}
	if in.Player1ID == in.Player2ID {
		return nil, invalid("a player cannot play against themselves")
	}
	if err := validateGoals(in.Player1Goals, in.Player2Goals); err != nil {
		return nil, err
	}

	var tournamentName string
	if in.TournamentID != "" {
		if err := model.ValidateID("tournament", in.TournamentID); err != nil {
			return nil, err
		}
		t, err := s.store.FindTournament(ctx, in.TournamentID)
		if err != nil {
			return nil, err
		}
		tournamentName = t.Name
	}

	p1, err := s.store.FindPlayer(ctx, in.Player1ID)
	if err != nil {
		return nil, err
	}
	p2, err := s.store.FindPlayer(ctx, in.Player2ID)
	if err != nil {
		return nil, err
	}

	date := in.Date
	if date.IsZero() {
		date = s.now()
	}
	m := &model.Match{
		Player1ID:    in.Player1ID,
		Player2ID:    in.Player2ID,
		Player1Goals: in.Player1Goals,
		Player2Goals: in.Player2Goals,
		Date:         date.UTC(),
		Team1:        strings.TrimSpace(in.Team1),
		Team2:        strings.TrimSpace(in.Team2),
		TournamentID: in.TournamentID,
	}
	d1, d2 := stats.MatchDeltas(*m)
	if _, err := s.store.RecordMatch(ctx, m, d1, d2); err != nil {
		return nil, err
	}
	s.metrics.IncMatchesRecorded()

	view := viewOf(*m,
		map[string]string{p1.ID: p1.Name, p2.ID: p2.Name},
		map[string]string{in.TournamentID: tournamentName})
	log.Info("Recorded match", "matchID", m.ID, "player1", p1.Name, "player2", p2.Name, "score", fmt.Sprintf("%d-%d", m.Player1Goals, m.Player2Goals))
	s.publish(pubsub.EventMatchResult, &pubsub.MatchEvent{Type: pubsub.EventMatchResult, Match: view})
	return &view, nil
}

func (s *Service) GetMatch(ctx context.Context, id string) (*model.MatchView, error) {
	if err := model.ValidateID("match", id); err != nil {
		return nil, err
	}
	m, err := s.store.FindMatch(ctx, id)
	if err != nil {
		return nil, err
	}
	view := s.views(ctx, []model.Match{*m})[0]
	return &view, nil
}

// ListMatches returns matches newest first, optionally narrowed to one
// player or tournament.
func (s *Service) ListMatches(ctx context.Context, filter model.MatchFilter) ([]model.MatchView, error) {
	if filter.PlayerID != "" {
		if err := model.ValidateID("player", filter.PlayerID); err != nil {
			return nil, err
		}
	}
	if filter.TournamentID != "" {
		if err := model.ValidateID("tournament", filter.TournamentID); err != nil {
			return nil, err
		}
	}
	matches, err := s.store.ListMatches(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, matches), nil
}

func (s *Service) PlayerMatches(ctx context.Context, playerID string) ([]model.MatchView, error) {
	if _, err := s.GetPlayer(ctx, playerID); err != nil {
		return nil, err
	}
	return s.ListMatches(ctx, model.MatchFilter{PlayerID: playerID})
}

// UpdateMatchScore corrects the goals of a recorded match and moves both
// aggregates by the difference between the old and the new result.
func (s *Service) UpdateMatchScore(ctx context.Context, id string, player1Goals, player2Goals int) (*model.MatchView, error) {
	if err := model.ValidateID("match", id); err != nil {
		return nil, err
	}
	if err := validateGoals(player1Goals, player2Goals); err != nil {
		return nil, err
	}
	m, err := s.store.FindMatch(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Player1Goals == player1Goals && m.Player2Goals == player2Goals {
		log.Debug("Match score unchanged, skipping update", "matchID", id)
		view := s.views(ctx, []model.Match{*m})[0]
		return &view, nil
	}

	old := *m
	m.Player1Goals, m.Player2Goals = player1Goals, player2Goals
	if err := s.store.UpdateMatchGoals(ctx, id, player1Goals, player2Goals); err != nil {
		return nil, err
	}
	for _, playerID := range []string{m.Player1ID, m.Player2ID} {
		delta := stats.Delta(stats.KindEdit, stats.Perspective(old, playerID), stats.Perspective(*m, playerID))
		if err := s.applyDelta(ctx, playerID, delta); err != nil {
			return nil, err
		}
	}
	s.metrics.IncMatchesCorrected()

	view := s.views(ctx, []model.Match{*m})[0]
	log.Info("Corrected match score", "matchID", id,
		"old", fmt.Sprintf("%d-%d", old.Player1Goals, old.Player2Goals),
		"new", fmt.Sprintf("%d-%d", player1Goals, player2Goals))
	s.publish(pubsub.EventMatchCorrected, &pubsub.MatchEvent{
		Type:                 pubsub.EventMatchCorrected,
		Match:                view,
		PreviousPlayer1Goals: old.Player1Goals,
		PreviousPlayer2Goals: old.Player2Goals,
	})
	return &view, nil
}

// DeleteMatch removes a match and reverses it out of both aggregates.
func (s *Service) DeleteMatch(ctx context.Context, id string) error {
	if err := model.ValidateID("match", id); err != nil {
		return err
	}
	m, err := s.store.FindMatch(ctx, id)
	if err != nil {
		return err
	}
	view := s.views(ctx, []model.Match{*m})[0]

	if err := s.store.DeleteMatch(ctx, id); err != nil {
		return err
	}
	for _, playerID := range []string{m.Player1ID, m.Player2ID} {
		delta := stats.Delta(stats.KindRemove, stats.Perspective(*m, playerID), stats.Score{})
		if err := s.applyDelta(ctx, playerID, delta); err != nil {
			return err
		}
	}
	s.metrics.IncMatchesDeleted()
	log.Info("Deleted match", "matchID", id)
	s.publish(pubsub.EventMatchDeleted, &pubsub.MatchEvent{Type: pubsub.EventMatchDeleted, Match: view})
	return nil
}

// Derived statistics

func (s *Service) HeadToHead(ctx context.Context, playerA, playerB string) (*model.HeadToHeadStats, error) {
	a, err := s.GetPlayer(ctx, playerA)
	if err != nil {
		return nil, err
	}
	b, err := s.GetPlayer(ctx, playerB)
	if err != nil {
		return nil, err
	}
	matches, err := s.store.FindMatchesForPair(ctx, a.ID, b.ID)
	if err != nil {
		return nil, err
	}
	h := stats.HeadToHead(*a, *b, matches)
	return &h, nil
}

func (s *Service) PlayerDetailedStats(ctx context.Context, id string) (*model.PlayerDetailedStats, error) {
	p, err := s.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detailed(ctx, p)
}

func (s *Service) detailed(ctx context.Context, p *model.Player) (*model.PlayerDetailedStats, error) {
	matches, err := s.store.FindMatchesForPlayer(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	names, err := s.playerNames(ctx)
	if err != nil {
		return nil, err
	}
	d := stats.Detailed(*p, matches, names)
	return &d, nil
}

// PlayerStatsByName resolves a player the way FindPlayerByName does and
// returns their detailed statistics.
func (s *Service) PlayerStatsByName(ctx context.Context, name string) (*model.PlayerDetailedStats, error) {
	p, err := s.FindPlayerByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.detailed(ctx, p)
}

// Tournaments

func (s *Service) CreateTournament(ctx context.Context, in TournamentInput) (*model.Tournament, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("tournament name is required")
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return nil, invalid("tournament start and end dates are required")
	}
	if in.EndDate.Before(in.StartDate) {
		return nil, invalid("tournament cannot end before it starts")
	}
	t := &model.Tournament{
		ID:          model.NewID(),
		Name:        name,
		Slug:        slug.Make(name),
		StartDate:   in.StartDate.UTC(),
		EndDate:     in.EndDate.UTC(),
		Description: strings.TrimSpace(in.Description),
	}
	if t.Slug == "" {
		return nil, invalid("tournament name %q has no usable characters", name)
	}
	if err := s.store.InsertTournament(ctx, t); err != nil {
		return nil, err
	}
	log.Info("Created tournament", "tournamentID", t.ID, "slug", t.Slug)
	return t, nil
}

func (s *Service) GetTournament(ctx context.Context, id string) (*model.Tournament, error) {
	if err := model.ValidateID("tournament", id); err != nil {
		return nil, err
	}
	return s.store.FindTournament(ctx, id)
}

func (s *Service) ListTournaments(ctx context.Context) ([]model.Tournament, error) {
	return s.store.ListTournaments(ctx)
}

func (s *Service) TournamentMatches(ctx context.Context, id string) ([]model.MatchView, error) {
	if _, err := s.GetTournament(ctx, id); err != nil {
		return nil, err
	}
	return s.ListMatches(ctx, model.MatchFilter{TournamentID: id})
}

func (s *Service) TournamentStandings(ctx context.Context, id string) ([]model.TournamentStanding, error) {
	if _, err := s.GetTournament(ctx, id); err != nil {
		return nil, err
	}
	matches, err := s.store.ListMatches(ctx, model.MatchFilter{TournamentID: id})
	if err != nil {
		return nil, err
	}
	names, err := s.playerNames(ctx)
	if err != nil {
		return nil, err
	}
	return stats.TournamentStandings(matches, names), nil
}

// Helpers

func (s *Service) playerNames(ctx context.Context) (map[string]string, error) {
	players, err := s.store.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
	}
	return names, nil
}

// views joins matches with player and tournament names. Lookups that fail
// degrade to placeholders instead of failing the read.
func (s *Service) views(ctx context.Context, matches []model.Match) []model.MatchView {
	players, err := s.playerNames(ctx)
	if err != nil {
		log.Error("Failed to load player names for matches", "error", err)
		players = map[string]string{}
	}
	tournaments := map[string]string{}
	for _, m := range matches {
		if m.TournamentID == "" {
			continue
		}
		if _, done := tournaments[m.TournamentID]; done {
			continue
		}
		t, err := s.store.FindTournament(ctx, m.TournamentID)
		if err != nil {
			log.Warn("Match references unknown tournament", "matchID", m.ID, "tournamentID", m.TournamentID, "error", err)
			tournaments[m.TournamentID] = ""
			continue
		}
		tournaments[m.TournamentID] = t.Name
	}

	views := make([]model.MatchView, 0, len(matches))
	for _, m := range matches {
		for _, id := range []string{m.Player1ID, m.Player2ID} {
			if _, ok := players[id]; !ok {
				log.Warn("Match references unknown player", "matchID", m.ID, "playerID", id, "error", model.ErrInconsistentState)
			}
		}
		views = append(views, viewOf(m, players, tournaments))
	}
	return views
}

func (s *Service) publish(topic pubsub.EventType, ev *pubsub.MatchEvent) {
	if s.events == nil {
		return
	}
	ev.OccurredAt = s.now().UTC()
	if err := s.events.SendMessage(topic, ev); err != nil {
		log.Error("Failed to publish match event", "error", err, "topic", topic, "matchID", ev.Match.ID)
	}
}
