package league

import (
	"context"

	"github.com/mauv0809/fifa-rivalry/internal/model"
	"github.com/mauv0809/fifa-rivalry/internal/stats"
)

// Store is the persistence gateway for players, matches and tournaments.
// Aggregate columns are only ever changed through IncrementPlayerFields or
// RecordMatch, both of which apply relative increments at the storage layer.
type Store interface {
	FindPlayer(ctx context.Context, id string) (*model.Player, error)
	FindPlayerByName(ctx context.Context, name string) (*model.Player, error)
	// ListPlayers returns every player ordered by name.
	ListPlayers(ctx context.Context) ([]model.Player, error)
	// Standings returns every player ordered by points, then goal difference.
	Standings(ctx context.Context) ([]model.Player, error)
	InsertPlayer(ctx context.Context, p *model.Player) error
	RenamePlayer(ctx context.Context, id, name string) error
	DeletePlayer(ctx context.Context, id string) error
	IncrementPlayerFields(ctx context.Context, id string, delta stats.Fields) error

	// RecordMatch assigns the match a new id, stores it and applies both
	// players' increments as one unit.
	RecordMatch(ctx context.Context, m *model.Match, p1, p2 stats.Fields) (string, error)
	FindMatch(ctx context.Context, id string) (*model.Match, error)
	UpdateMatchGoals(ctx context.Context, id string, player1Goals, player2Goals int) error
	DeleteMatch(ctx context.Context, id string) error
	DeleteMatchesForPlayer(ctx context.Context, playerID string) (int, error)
	// FindMatchesForPlayer and FindMatchesForPair return matches oldest first.
	FindMatchesForPlayer(ctx context.Context, playerID string) ([]model.Match, error)
	FindMatchesForPair(ctx context.Context, a, b string) ([]model.Match, error)
	// ListMatches returns matches newest first.
	ListMatches(ctx context.Context, filter model.MatchFilter) ([]model.Match, error)

	InsertTournament(ctx context.Context, t *model.Tournament) error
	FindTournament(ctx context.Context, id string) (*model.Tournament, error)
	ListTournaments(ctx context.Context) ([]model.Tournament, error)
}
