package notifier

import (
	"sync"

	"github.com/mauv0809/fifa-rivalry/internal/model"
	"github.com/mauv0809/fifa-rivalry/internal/pubsub"
)

var _ Notifier = (*Mock)(nil)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Call records
	SendMatchEventCalls []MatchEventCall
	SendStandingsCalls  [][]model.Player

	// Spies
	SendMatchEventFunc               func(event *pubsub.MatchEvent, dryRun bool) error
	FormatStandingsResponseFunc      func(players []model.Player) (any, error)
	FormatPlayerStatsResponseFunc    func(stats *model.PlayerDetailedStats, query string) (any, error)
	FormatPlayerNotFoundResponseFunc func(query string) (any, error)
	FormatHeadToHeadResponseFunc     func(stats *model.HeadToHeadStats) (any, error)

	// Last values passed to the format functions
	LastStandings     []model.Player
	LastPlayerStats   *model.PlayerDetailedStats
	LastNotFoundQuery string
	LastHeadToHead    *model.HeadToHeadStats
}

// MatchEventCall holds the arguments for a call to SendMatchEvent.
type MatchEventCall struct {
	Event  *pubsub.MatchEvent
	DryRun bool
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchEventCalls = nil
	m.SendStandingsCalls = nil
	m.LastStandings = nil
	m.LastPlayerStats = nil
	m.LastNotFoundQuery = ""
	m.LastHeadToHead = nil
}

func (m *Mock) SendMatchEvent(event *pubsub.MatchEvent, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchEventCalls = append(m.SendMatchEventCalls, MatchEventCall{Event: event, DryRun: dryRun})
	if m.SendMatchEventFunc != nil {
		return m.SendMatchEventFunc(event, dryRun)
	}
	return nil
}

func (m *Mock) SendStandings(players []model.Player, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendStandingsCalls = append(m.SendStandingsCalls, players)
	return nil
}

func (m *Mock) FormatStandingsResponse(players []model.Player) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastStandings = players
	if m.FormatStandingsResponseFunc != nil {
		return m.FormatStandingsResponseFunc(players)
	}
	return map[string]any{"players": len(players)}, nil
}

func (m *Mock) FormatPlayerStatsResponse(stats *model.PlayerDetailedStats, query string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastPlayerStats = stats
	if m.FormatPlayerStatsResponseFunc != nil {
		return m.FormatPlayerStatsResponseFunc(stats, query)
	}
	return map[string]any{"player": stats.Name}, nil
}

func (m *Mock) FormatPlayerNotFoundResponse(query string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastNotFoundQuery = query
	if m.FormatPlayerNotFoundResponseFunc != nil {
		return m.FormatPlayerNotFoundResponseFunc(query)
	}
	return map[string]any{"not_found": query}, nil
}

func (m *Mock) FormatHeadToHeadResponse(stats *model.HeadToHeadStats) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastHeadToHead = stats
	if m.FormatHeadToHeadResponseFunc != nil {
		return m.FormatHeadToHeadResponseFunc(stats)
	}
	return map[string]any{"total_matches": stats.TotalMatches}, nil
}
