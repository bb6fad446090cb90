package metrics

import "sync"

var _ Metrics = (*Mock)(nil)

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                 sync.Mutex
	matchesRecorded    int
	matchesCorrected   int
	matchesDeleted     int
	playersRegistered  int
	playersDeleted     int
	aggregateAnomalies int
	reconcileRuns      int
	reconcileDrift     int
	reconcileDurations []float64
	slackNotifSent     int
	slackNotifFailed   int
	startupTime        float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		reconcileDurations: make([]float64, 0),
	}
}

func (m *Mock) IncMatchesRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesRecorded++
}

func (m *Mock) IncMatchesCorrected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesCorrected++
}

func (m *Mock) IncMatchesDeleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesDeleted++
}

func (m *Mock) IncPlayersRegistered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playersRegistered++
}

func (m *Mock) IncPlayersDeleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playersDeleted++
}

func (m *Mock) IncAggregateAnomalies() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.aggregateAnomalies++
}

func (m *Mock) IncReconcileRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reconcileRuns++
}

func (m *Mock) SetReconcileDrift(players int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reconcileDrift = players
}

func (m *Mock) ObserveReconcileDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reconcileDurations = append(m.reconcileDurations, duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// Getters for assertions in tests

func (m *Mock) MatchesRecorded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesRecorded
}

func (m *Mock) MatchesCorrected() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesCorrected
}

func (m *Mock) MatchesDeleted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesDeleted
}

func (m *Mock) PlayersRegistered() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playersRegistered
}

func (m *Mock) PlayersDeleted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playersDeleted
}

func (m *Mock) AggregateAnomalies() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.aggregateAnomalies
}

func (m *Mock) ReconcileRuns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reconcileRuns
}

func (m *Mock) ReconcileDrift() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reconcileDrift
}

func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
