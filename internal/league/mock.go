package league

import (
	"context"
	"sync"

	"github.com/mauv0809/fifa-rivalry/internal/model"
	"github.com/mauv0809/fifa-rivalry/internal/stats"
)

var _ Store = (*MockStore)(nil)

// MockStore is a mock implementation of the Store interface for testing.
// Methods without a Func return zero values. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	FindPlayerFunc             func(ctx context.Context, id string) (*model.Player, error)
	FindPlayerByNameFunc       func(ctx context.Context, name string) (*model.Player, error)
	ListPlayersFunc            func(ctx context.Context) ([]model.Player, error)
	StandingsFunc              func(ctx context.Context) ([]model.Player, error)
	InsertPlayerFunc           func(ctx context.Context, p *model.Player) error
	RenamePlayerFunc           func(ctx context.Context, id, name string) error
	DeletePlayerFunc           func(ctx context.Context, id string) error
	IncrementPlayerFieldsFunc  func(ctx context.Context, id string, delta stats.Fields) error
	RecordMatchFunc            func(ctx context.Context, m *model.Match, p1, p2 stats.Fields) (string, error)
	FindMatchFunc              func(ctx context.Context, id string) (*model.Match, error)
	UpdateMatchGoalsFunc       func(ctx context.Context, id string, player1Goals, player2Goals int) error
	DeleteMatchFunc            func(ctx context.Context, id string) error
	DeleteMatchesForPlayerFunc func(ctx context.Context, playerID string) (int, error)
	FindMatchesForPlayerFunc   func(ctx context.Context, playerID string) ([]model.Match, error)
	FindMatchesForPairFunc     func(ctx context.Context, a, b string) ([]model.Match, error)
	ListMatchesFunc            func(ctx context.Context, filter model.MatchFilter) ([]model.Match, error)
	InsertTournamentFunc       func(ctx context.Context, t *model.Tournament) error
	FindTournamentFunc         func(ctx context.Context, id string) (*model.Tournament, error)
	ListTournamentsFunc        func(ctx context.Context) ([]model.Tournament, error)

	// Call records
	InsertPlayerCalls          []*model.Player
	IncrementPlayerFieldsCalls []IncrementCall
	RecordMatchCalls           []*model.Match
	UpdateMatchGoalsCalls      []UpdateGoalsCall
	DeleteMatchCalls           []string
	DeletePlayerCalls          []string
}

// IncrementCall holds the arguments for a call to IncrementPlayerFields.
type IncrementCall struct {
	PlayerID string
	Delta    stats.Fields
}

// UpdateGoalsCall holds the arguments for a call to UpdateMatchGoals.
type UpdateGoalsCall struct {
	MatchID      string
	Player1Goals int
	Player2Goals int
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InsertPlayerCalls = nil
	m.IncrementPlayerFieldsCalls = nil
	m.RecordMatchCalls = nil
	m.UpdateMatchGoalsCalls = nil
	m.DeleteMatchCalls = nil
	m.DeletePlayerCalls = nil
}

func (m *MockStore) FindPlayer(ctx context.Context, id string) (*model.Player, error) {
	if m.FindPlayerFunc != nil {
		return m.FindPlayerFunc(ctx, id)
	}
	return nil, model.ErrNotFound
}

func (m *MockStore) FindPlayerByName(ctx context.Context, name string) (*model.Player, error) {
	if m.FindPlayerByNameFunc != nil {
		return m.FindPlayerByNameFunc(ctx, name)
	}
	return nil, model.ErrNotFound
}

func (m *MockStore) ListPlayers(ctx context.Context) ([]model.Player, error) {
	if m.ListPlayersFunc != nil {
		return m.ListPlayersFunc(ctx)
	}
	return []model.Player{}, nil
}

func (m *MockStore) Standings(ctx context.Context) ([]model.Player, error) {
	if m.StandingsFunc != nil {
		return m.StandingsFunc(ctx)
	}
	return []model.Player{}, nil
}

func (m *MockStore) InsertPlayer(ctx context.Context, p *model.Player) error {
	m.mu.Lock()
	m.InsertPlayerCalls = append(m.InsertPlayerCalls, p)
	m.mu.Unlock()
	if m.InsertPlayerFunc != nil {
		return m.InsertPlayerFunc(ctx, p)
	}
	return nil
}

func (m *MockStore) RenamePlayer(ctx context.Context, id, name string) error {
	if m.RenamePlayerFunc != nil {
		return m.RenamePlayerFunc(ctx, id, name)
	}
	return nil
}

func (m *MockStore) DeletePlayer(ctx context.Context, id string) error {
	m.mu.Lock()
	m.DeletePlayerCalls = append(m.DeletePlayerCalls, id)
	m.mu.Unlock()
	if m.DeletePlayerFunc != nil {
		return m.DeletePlayerFunc(ctx, id)
	}
	return nil
}

func (m *MockStore) IncrementPlayerFields(ctx context.Context, id string, delta stats.Fields) error {
	m.mu.Lock()
	m.IncrementPlayerFieldsCalls = append(m.IncrementPlayerFieldsCalls, IncrementCall{PlayerID: id, Delta: delta})
	m.mu.Unlock()
	if m.IncrementPlayerFieldsFunc != nil {
		return m.IncrementPlayerFieldsFunc(ctx, id, delta)
	}
	return nil
}

func (m *MockStore) RecordMatch(ctx context.Context, match *model.Match, p1, p2 stats.Fields) (string, error) {
	m.mu.Lock()
	m.RecordMatchCalls = append(m.RecordMatchCalls, match)
	m.mu.Unlock()
	if m.RecordMatchFunc != nil {
		return m.RecordMatchFunc(ctx, match, p1, p2)
	}
	match.ID = model.NewID()
	return match.ID, nil
}

func (m *MockStore) FindMatch(ctx context.Context, id string) (*model.Match, error) {
	if m.FindMatchFunc != nil {
		return m.FindMatchFunc(ctx, id)
	}
	return nil, model.ErrNotFound
}

func (m *MockStore) UpdateMatchGoals(ctx context.Context, id string, player1Goals, player2Goals int) error {
	m.mu.Lock()
	m.UpdateMatchGoalsCalls = append(m.UpdateMatchGoalsCalls, UpdateGoalsCall{MatchID: id, Player1Goals: player1Goals, Player2Goals: player2Goals})
	m.mu.Unlock()
	if m.UpdateMatchGoalsFunc != nil {
		return m.UpdateMatchGoalsFunc(ctx, id, player1Goals, player2Goals)
	}
	return nil
}

func (m *MockStore) DeleteMatch(ctx context.Context, id string) error {
	m.mu.Lock()
	m.DeleteMatchCalls = append(m.DeleteMatchCalls, id)
	m.mu.Unlock()
	if m.DeleteMatchFunc != nil {
		return m.DeleteMatchFunc(ctx, id)
	}
	return nil
}

func (m *MockStore) DeleteMatchesForPlayer(ctx context.Context, playerID string) (int, error) {
	if m.DeleteMatchesForPlayerFunc != nil {
		return m.DeleteMatchesForPlayerFunc(ctx, playerID)
	}
	return 0, nil
}

func (m *MockStore) FindMatchesForPlayer(ctx context.Context, playerID string) ([]model.Match, error) {
	if m.FindMatchesForPlayerFunc != nil {
		return m.FindMatchesForPlayerFunc(ctx, playerID)
	}
	return []model.Match{}, nil
}

func (m *MockStore) FindMatchesForPair(ctx context.Context, a, b string) ([]model.Match, error) {
	if m.FindMatchesForPairFunc != nil {
		return m.FindMatchesForPairFunc(ctx, a, b)
	}
	return []model.Match{}, nil
}

func (m *MockStore) ListMatches(ctx context.Context, filter model.MatchFilter) ([]model.Match, error) {
	if m.ListMatchesFunc != nil {
		return m.ListMatchesFunc(ctx, filter)
	}
	return []model.Match{}, nil
}

func (m *MockStore) InsertTournament(ctx context.Context, t *model.Tournament) error {
	if m.InsertTournamentFunc != nil {
		return m.InsertTournamentFunc(ctx, t)
	}
	return nil
}

func (m *MockStore) FindTournament(ctx context.Context, id string) (*model.Tournament, error) {
	if m.FindTournamentFunc != nil {
		return m.FindTournamentFunc(ctx, id)
	}
	return nil, model.ErrNotFound
}

func (m *MockStore) ListTournaments(ctx context.Context) ([]model.Tournament, error) {
	if m.ListTournamentsFunc != nil {
		return m.ListTournamentsFunc(ctx)
	}
	return []model.Tournament{}, nil
}
