package league_test

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mauv0809/fifa-rivalry/internal/database"
	"github.com/mauv0809/fifa-rivalry/internal/league"
	"github.com/mauv0809/fifa-rivalry/internal/metrics"
	"github.com/mauv0809/fifa-rivalry/internal/model"
	"github.com/mauv0809/fifa-rivalry/internal/pubsub"
	"github.com/mauv0809/fifa-rivalry/internal/stats"
	redisstore "github.com/mauv0809/fifa-rivalry/internal/storage/redis"
	"github.com/mauv0809/fifa-rivalry/internal/storage/sqlite"
)

type fixture struct {
	svc     *league.Service
	store   league.Store
	metrics *metrics.Mock
	events  *pubsub.MockPubSubClient
	ctx     context.Context
}

var backends = map[string]func(t *testing.T) league.Store{
	"sqlite": func(t *testing.T) league.Store {
		db, teardown, err := database.InitDB(":memory:", "", "")
		require.NoError(t, err)
		t.Cleanup(teardown)
		return sqlite.New(db, "sqlite3")
	},
	"redis": func(t *testing.T) league.Store {
		mini := miniredis.RunT(t)
		client := goredis.NewClient(&goredis.Options{Addr: mini.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		return redisstore.NewWithClient(client, redisstore.DefaultConfig())
	},
}

// forEachBackend runs fn once per storage backend with a fresh service.
func forEachBackend(t *testing.T, fn func(t *testing.T, f *fixture)) {
	for name, newStore := range backends {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			m := metrics.NewMock()
			events := pubsub.NewMock()
			fn(t, &fixture{
				svc:     league.New(store, m, events),
				store:   store,
				metrics: m,
				events:  events,
				ctx:     context.Background(),
			})
		})
	}
}

func (f *fixture) register(t *testing.T, name string) *model.Player {
	t.Helper()
	p, err := f.svc.RegisterPlayer(f.ctx, name)
	require.NoError(t, err)
	return p
}

func (f *fixture) record(t *testing.T, p1, p2 *model.Player, g1, g2 int) *model.MatchView {
	t.Helper()
	v, err := f.svc.RecordMatch(f.ctx, league.MatchInput{Player1ID: p1.ID, Player2ID: p2.ID, Player1Goals: g1, Player2Goals: g2})
	require.NoError(t, err)
	return v
}

func (f *fixture) player(t *testing.T, id string) model.Player {
	t.Helper()
	p, err := f.svc.GetPlayer(f.ctx, id)
	require.NoError(t, err)
	return *p
}

func assertConsistent(t *testing.T, p model.Player) {
	t.Helper()
	assert.Equal(t, 3*p.Wins+p.Draws, p.Points, "points of %s", p.Name)
	assert.Equal(t, p.GoalsScored-p.GoalsConceded, p.GoalDifference, "goal difference of %s", p.Name)
	assert.Equal(t, p.Wins+p.Losses+p.Draws, p.TotalMatches, "matches of %s", p.Name)
}

func TestRecordAndCorrectMatch(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		alice := f.register(t, "Alice")
		bob := f.register(t, "Bob")

		m := f.record(t, alice, bob, 3, 1)
		assert.Equal(t, "Alice", m.Player1Name)
		assert.Equal(t, "Bob", m.Player2Name)

		a, b := f.player(t, alice.ID), f.player(t, bob.ID)
		assert.Equal(t, 1, a.Wins)
		assert.Equal(t, 3, a.Points)
		assert.Equal(t, 2, a.GoalDifference)
		assert.Equal(t, 1, b.Losses)
		assert.Equal(t, 0, b.Points)
		assert.Equal(t, -2, b.GoalDifference)

		_, err := f.svc.UpdateMatchScore(f.ctx, m.ID, 1, 1)
		require.NoError(t, err)

		a, b = f.player(t, alice.ID), f.player(t, bob.ID)
		assert.Equal(t, 0, a.Wins)
		assert.Equal(t, 1, a.Draws)
		assert.Equal(t, 1, a.Points)
		assert.Equal(t, 0, a.GoalDifference)
		assert.Equal(t, 0, b.Losses)
		assert.Equal(t, 1, b.Draws)
		assert.Equal(t, 1, b.Points)
		assert.Equal(t, 0, b.GoalDifference)
		assert.Equal(t, 1, a.TotalMatches)

		assert.Equal(t, 1, f.metrics.MatchesRecorded())
		assert.Equal(t, 1, f.metrics.MatchesCorrected())
		calls := f.events.Calls()
		require.Len(t, calls, 2)
		assert.Equal(t, pubsub.EventMatchResult, calls[0].Topic)
		assert.Equal(t, pubsub.EventMatchCorrected, calls[1].Topic)
		corrected := calls[1].Data.(*pubsub.MatchEvent)
		assert.Equal(t, 3, corrected.PreviousPlayer1Goals)
		assert.Equal(t, 1, corrected.Match.Player1Goals)
	})
}

func TestEditRoundTripLeavesAggregatesUnchanged(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		alice := f.register(t, "Alice")
		bob := f.register(t, "Bob")
		f.record(t, bob, alice, 2, 2)
		m := f.record(t, alice, bob, 4, 0)

		before := []model.Player{f.player(t, alice.ID), f.player(t, bob.ID)}
		_, err := f.svc.UpdateMatchScore(f.ctx, m.ID, 0, 5)
		require.NoError(t, err)
		_, err = f.svc.UpdateMatchScore(f.ctx, m.ID, 4, 0)
		require.NoError(t, err)

		assert.Equal(t, before, []model.Player{f.player(t, alice.ID), f.player(t, bob.ID)})
	})
}

func TestUnchangedScoreIsNoOp(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		alice := f.register(t, "Alice")
		bob := f.register(t, "Bob")
		m := f.record(t, alice, bob, 1, 0)
		f.events.Reset()

		v, err := f.svc.UpdateMatchScore(f.ctx, m.ID, 1, 0)
		require.NoError(t, err)
		assert.Equal(t, m.ID, v.ID)
		assert.Empty(t, f.events.Calls())
		assert.Zero(t, f.metrics.MatchesCorrected())
	})
}

func TestDeleteMatchReversesAggregates(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		alice := f.register(t, "Alice")
		bob := f.register(t, "Bob")
		keep := f.record(t, alice, bob, 0, 0)
		drop := f.record(t, alice, bob, 5, 2)

		require.NoError(t, f.svc.DeleteMatch(f.ctx, drop.ID))

		_, err := f.svc.GetMatch(f.ctx, drop.ID)
		assert.ErrorIs(t, err, model.ErrNotFound)
		_, err = f.svc.GetMatch(f.ctx, keep.ID)
		require.NoError(t, err)

		a := f.player(t, alice.ID)
		assert.Equal(t, model.Player{ID: alice.ID, Name: "Alice", TotalMatches: 1, Draws: 1, Points: 1}, a)
		b := f.player(t, bob.ID)
		assert.Equal(t, model.Player{ID: bob.ID, Name: "Bob", TotalMatches: 1, Draws: 1, Points: 1}, b)

		assert.ErrorIs(t, f.svc.DeleteMatch(f.ctx, drop.ID), model.ErrNotFound)
	})
}

func TestDeletePlayerCascades(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		alice := f.register(t, "Alice")
		bob := f.register(t, "Bob")
		carol := f.register(t, "Carol")
		m1 := f.record(t, alice, bob, 3, 0)
		m2 := f.record(t, carol, alice, 1, 1)
		kept := f.record(t, bob, carol, 2, 1)

		res, err := f.svc.DeletePlayer(f.ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, res.DeletedMatches)

		for _, id := range []string{m1.ID, m2.ID} {
			_, err := f.svc.GetMatch(f.ctx, id)
			assert.ErrorIs(t, err, model.ErrNotFound)
		}
		_, err = f.svc.GetPlayer(f.ctx, alice.ID)
		assert.ErrorIs(t, err, model.ErrNotFound)

		b := f.player(t, bob.ID)
		assert.Equal(t, model.Player{ID: bob.ID, Name: "Bob", TotalMatches: 1, GoalsScored: 2, GoalsConceded: 1, GoalDifference: 1, Wins: 1, Points: 3}, b)
		c := f.player(t, carol.ID)
		assert.Equal(t, model.Player{ID: carol.ID, Name: "Carol", TotalMatches: 1, GoalsScored: 1, GoalsConceded: 2, GoalDifference: -1, Losses: 1}, c)

		remaining, err := f.svc.ListMatches(f.ctx, model.MatchFilter{})
		require.NoError(t, err)
		require.Len(t, remaining, 1)
		assert.Equal(t, kept.ID, remaining[0].ID)

		report, err := f.svc.Reconcile(f.ctx, false)
		require.NoError(t, err)
		assert.Empty(t, report.Drift)
		assert.Equal(t, 1, f.metrics.PlayersDeleted())
		assert.Equal(t, 2, f.metrics.MatchesDeleted())
	})
}

func TestRecordMatchValidation(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		alice := f.register(t, "Alice")
		bob := f.register(t, "Bob")

		_, err := f.svc.RecordMatch(f.ctx, league.MatchInput{Player1ID: alice.ID, Player2ID: bob.ID, Player1Goals: -1})
		assert.ErrorIs(t, err, model.ErrInvalidInput)

		_, err = f.svc.RecordMatch(f.ctx, league.MatchInput{Player1ID: "not-an-id", Player2ID: bob.ID})
		assert.ErrorIs(t, err, model.ErrInvalidInput)

		_, err = f.svc.RecordMatch(f.ctx, league.MatchInput{Player1ID: alice.ID, Player2ID: alice.ID})
		assert.ErrorIs(t, err, model.ErrInvalidInput)

		_, err = f.svc.RecordMatch(f.ctx, league.MatchInput{Player1ID: alice.ID, Player2ID: model.NewID(), Player1Goals: 2})
		assert.ErrorIs(t, err, model.ErrNotFound)

		_, err = f.svc.RecordMatch(f.ctx, league.MatchInput{Player1ID: alice.ID, Player2ID: bob.ID, TournamentID: model.NewID()})
		assert.ErrorIs(t, err, model.ErrNotFound)

		assert.Equal(t, model.Player{ID: alice.ID, Name: "Alice"}, f.player(t, alice.ID))
		matches, err := f.svc.ListMatches(f.ctx, model.MatchFilter{})
		require.NoError(t, err)
		assert.Empty(t, matches)
		assert.Empty(t, f.events.Calls())
	})
}

func TestUpdateMatchScoreValidation(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		alice := f.register(t, "Alice")
		bob := f.register(t, "Bob")
		m := f.record(t, alice, bob, 1, 0)

		_, err := f.svc.UpdateMatchScore(f.ctx, m.ID, 2, -3)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
		_, err = f.svc.UpdateMatchScore(f.ctx, model.NewID(), 2, 3)
		assert.ErrorIs(t, err, model.ErrNotFound)
		_, err = f.svc.UpdateMatchScore(f.ctx, "bad", 2, 3)
		assert.ErrorIs(t, err, model.ErrInvalidInput)

		got, err := f.svc.GetMatch(f.ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Player1Goals)
		assert.Equal(t, 3, f.player(t, alice.ID).Points)
	})
}

func TestUpdateMatchScoreSkipsMissingPlayer(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		alice := f.register(t, "Alice")
		bob := f.register(t, "Bob")
		m := f.record(t, alice, bob, 2, 1)

		// Remove Bob behind the service's back to leave a dangling reference.
		require.NoError(t, f.store.DeletePlayer(f.ctx, bob.ID))

		v, err := f.svc.UpdateMatchScore(f.ctx, m.ID, 0, 1)
		require.NoError(t, err)
		assert.Equal(t, model.UnknownPlayerName, v.Player2Name)
		assert.Equal(t, 1, f.metrics.AggregateAnomalies())

		a := f.player(t, alice.ID)
		assert.Equal(t, 1, a.Losses)
		assert.Equal(t, 0, a.Wins)
		assertConsistent(t, a)

		got, err := f.svc.GetMatch(f.ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Player2Goals)
	})
}

func TestRegisterAndRenamePlayer(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		alice := f.register(t, "Alice")
		f.register(t, "Bob")

		_, err := f.svc.RegisterPlayer(f.ctx, "Alice")
		assert.ErrorIs(t, err, model.ErrDuplicate)
		_, err = f.svc.RegisterPlayer(f.ctx, "   ")
		assert.ErrorIs(t, err, model.ErrInvalidInput)

		_, err = f.svc.RenamePlayer(f.ctx, alice.ID, "Bob")
		assert.ErrorIs(t, err, model.ErrDuplicate)
		renamed, err := f.svc.RenamePlayer(f.ctx, alice.ID, "Alicia")
		require.NoError(t, err)
		assert.Equal(t, "Alicia", renamed.Name)

		found, err := f.svc.FindPlayerByName(f.ctx, "lici")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, found.ID)

		players, err := f.svc.ListPlayers(f.ctx)
		require.NoError(t, err)
		assert.Len(t, players, 2)
		assert.Equal(t, 2, f.metrics.PlayersRegistered())
	})
}

func TestHeadToHeadIsSymmetric(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		alice := f.register(t, "Alice")
		bob := f.register(t, "Bob")
		carol := f.register(t, "Carol")
		f.record(t, alice, bob, 3, 1)
		f.record(t, bob, alice, 2, 0)
		f.record(t, alice, bob, 2, 2)
		f.record(t, alice, carol, 9, 0)

		ab, err := f.svc.HeadToHead(f.ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		ba, err := f.svc.HeadToHead(f.ctx, bob.ID, alice.ID)
		require.NoError(t, err)

		assert.Equal(t, 3, ab.TotalMatches)
		assert.Equal(t, ab.TotalMatches, ab.Player1Wins+ba.Player1Wins+ab.Draws)
		assert.Equal(t, ab.Player1Goals, ba.Player2Goals)
		assert.Equal(t, "Bob", ab.Player2Name)

		_, err = f.svc.HeadToHead(f.ctx, alice.ID, model.NewID())
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestPlayerDetailedStats(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		pat := f.register(t, "Pat")
		quinn := f.register(t, "Quinn")
		day1 := time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)
		day2 := day1.AddDate(0, 0, 1)
		for i, in := range []league.MatchInput{
			{Player1ID: pat.ID, Player2ID: quinn.ID, Player1Goals: 2, Player2Goals: 0, Date: day1},
			{Player1ID: quinn.ID, Player2ID: pat.ID, Player1Goals: 0, Player2Goals: 1, Date: day1.Add(time.Hour)},
			{Player1ID: pat.ID, Player2ID: quinn.ID, Player1Goals: 3, Player2Goals: 2, Date: day1.Add(2 * time.Hour)},
			{Player1ID: pat.ID, Player2ID: quinn.ID, Player1Goals: 0, Player2Goals: 1, Date: day2},
		} {
			_, err := f.svc.RecordMatch(f.ctx, in)
			require.NoError(t, err, "match %d", i)
		}

		d, err := f.svc.PlayerDetailedStats(f.ctx, pat.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, d.TotalMatches)
		assert.InDelta(t, 0.75, d.WinRate, 1e-9)
		assert.InDelta(t, 1.5, d.AverageGoalsScored, 1e-9)
		require.NotNil(t, d.HighestWinsAgainst)
		assert.Equal(t, "Quinn", d.HighestWinsAgainst.Name)
		assert.Equal(t, 3, d.HighestWinsAgainst.Count)
		assert.Equal(t, []model.WinratePoint{
			{Date: "2024-04-01", Winrate: 1.0},
			{Date: "2024-04-02", Winrate: 0.75},
		}, d.WinrateOverTime)

		byName, err := f.svc.PlayerStatsByName(f.ctx, "pat")
		require.NoError(t, err)
		assert.Equal(t, pat.ID, byName.ID)
	})
}

func TestTournaments(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		alice := f.register(t, "Alice")
		bob := f.register(t, "Bob")
		start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

		cup, err := f.svc.CreateTournament(f.ctx, league.TournamentInput{Name: "Summer Cup 2024", StartDate: start, EndDate: start.AddDate(0, 0, 14)})
		require.NoError(t, err)
		assert.Equal(t, "summer-cup-2024", cup.Slug)

		_, err = f.svc.CreateTournament(f.ctx, league.TournamentInput{Name: "Summer cup 2024!", StartDate: start, EndDate: start})
		assert.ErrorIs(t, err, model.ErrDuplicate)
		_, err = f.svc.CreateTournament(f.ctx, league.TournamentInput{Name: "Backwards", StartDate: start, EndDate: start.AddDate(0, 0, -1)})
		assert.ErrorIs(t, err, model.ErrInvalidInput)

		_, err = f.svc.RecordMatch(f.ctx, league.MatchInput{Player1ID: alice.ID, Player2ID: bob.ID, Player1Goals: 1, TournamentID: cup.ID})
		require.NoError(t, err)
		f.record(t, bob, alice, 4, 0)

		matches, err := f.svc.TournamentMatches(f.ctx, cup.ID)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "Summer Cup 2024", matches[0].TournamentName)

		table, err := f.svc.TournamentStandings(f.ctx, cup.ID)
		require.NoError(t, err)
		require.Len(t, table, 2)
		assert.Equal(t, "Alice", table[0].PlayerName)
		assert.Equal(t, 3, table[0].Points)

		list, err := f.svc.ListTournaments(f.ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, 1, list[0].MatchesCount)

		_, err = f.svc.TournamentMatches(f.ctx, model.NewID())
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestReconcileDetectsAndRepairsDrift(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		alice := f.register(t, "Alice")
		bob := f.register(t, "Bob")
		f.record(t, alice, bob, 2, 0)

		report, err := f.svc.Reconcile(f.ctx, false)
		require.NoError(t, err)
		assert.Empty(t, report.Drift)
		assert.Equal(t, 2, report.PlayersChecked)

		require.NoError(t, f.store.IncrementPlayerFields(f.ctx, bob.ID, stats.Fields{Points: 7, Wins: 1}))

		report, err = f.svc.Reconcile(f.ctx, false)
		require.NoError(t, err)
		require.Len(t, report.Drift, 1)
		assert.Equal(t, bob.ID, report.Drift[0].PlayerID)
		assert.Zero(t, report.Repaired)
		assert.Equal(t, 1, f.metrics.ReconcileDrift())

		report, err = f.svc.Reconcile(f.ctx, true)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Repaired)

		b := f.player(t, bob.ID)
		assertConsistent(t, b)
		assert.Zero(t, b.Points)

		report, err = f.svc.Reconcile(f.ctx, false)
		require.NoError(t, err)
		assert.Empty(t, report.Drift)
		assert.Equal(t, 4, f.metrics.ReconcileRuns())
	})
}

// listHookStore runs beforeListMatches once, right before the next ListMatches.
type listHookStore struct {
	league.Store
	beforeListMatches func()
}

func (s *listHookStore) ListMatches(ctx context.Context, filter model.MatchFilter) ([]model.Match, error) {
	if fn := s.beforeListMatches; fn != nil {
		s.beforeListMatches = nil
		fn()
	}
	return s.Store.ListMatches(ctx, filter)
}

func TestReconcileIgnoresMatchRecordedMidAudit(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		alice := f.register(t, "Alice")
		bob := f.register(t, "Bob")

		hooked := &listHookStore{Store: f.store}
		auditor := league.New(hooked, metrics.NewMock(), pubsub.NewMock())
		hooked.beforeListMatches = func() { f.record(t, alice, bob, 2, 0) }

		report, err := auditor.Reconcile(f.ctx, true)
		require.NoError(t, err)
		assert.Equal(t, 1, report.MatchesScanned)
		assert.Empty(t, report.Drift)
		assert.Zero(t, report.Repaired)

		a := f.player(t, alice.ID)
		assertConsistent(t, a)
		assert.Equal(t, 1, a.TotalMatches)
		assert.Equal(t, 1, a.Wins)
		assert.Equal(t, 3, a.Points)
		assert.Equal(t, 2, a.GoalsScored)
		b := f.player(t, bob.ID)
		assertConsistent(t, b)
		assert.Equal(t, 1, b.TotalMatches)
		assert.Equal(t, 1, b.Losses)

		report, err = f.svc.Reconcile(f.ctx, false)
		require.NoError(t, err)
		assert.Empty(t, report.Drift)
	})
}

func TestRandomOperationsKeepInvariants(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		rng := rand.New(rand.NewSource(7))
		players := []*model.Player{f.register(t, "A"), f.register(t, "B"), f.register(t, "C"), f.register(t, "D")}
		var matchIDs []string

		for i := 0; i < 60; i++ {
			switch op := rng.Intn(4); {
			case op <= 1 || len(matchIDs) == 0:
				p1 := players[rng.Intn(len(players))]
				p2 := players[rng.Intn(len(players))]
				if p1.ID == p2.ID {
					continue
				}
				m := f.record(t, p1, p2, rng.Intn(5), rng.Intn(5))
				matchIDs = append(matchIDs, m.ID)
			case op == 2:
				id := matchIDs[rng.Intn(len(matchIDs))]
				_, err := f.svc.UpdateMatchScore(f.ctx, id, rng.Intn(5), rng.Intn(5))
				require.NoError(t, err)
			default:
				idx := rng.Intn(len(matchIDs))
				require.NoError(t, f.svc.DeleteMatch(f.ctx, matchIDs[idx]))
				matchIDs = append(matchIDs[:idx], matchIDs[idx+1:]...)
			}

			for _, p := range players {
				assertConsistent(t, f.player(t, p.ID))
			}
		}

		report, err := f.svc.Reconcile(f.ctx, false)
		require.NoError(t, err)
		assert.Empty(t, report.Drift, "incremental aggregates must match a full recompute")
		assert.Equal(t, len(matchIDs), report.MatchesScanned)
	})
}
