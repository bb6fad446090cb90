package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/mauv0809/fifa-rivalry/internal/database"
	"github.com/mauv0809/fifa-rivalry/internal/league"
	"github.com/mauv0809/fifa-rivalry/internal/model"
	"github.com/mauv0809/fifa-rivalry/internal/stats"
	"github.com/mauv0809/fifa-rivalry/internal/storage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ league.Store = (*sqlite.Store)(nil)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (*sqlite.Store, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	return sqlite.New(db, "sqlite3"), teardown
}

func addPlayer(t *testing.T, store *sqlite.Store, name string) *model.Player {
	t.Helper()
	p := &model.Player{Name: name}
	require.NoError(t, store.InsertPlayer(context.Background(), p))
	return p
}

func TestInsertAndFindPlayer(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	alice := addPlayer(t, store, "Alice")
	assert.NotEmpty(t, alice.ID)

	found, err := store.FindPlayer(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", found.Name)
	assert.Zero(t, found.TotalMatches)

	byName, err := store.FindPlayerByName(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byName.ID)

	_, err = store.FindPlayer(ctx, model.NewID())
	assert.ErrorIs(t, err, model.ErrNotFound)

	err = store.InsertPlayer(ctx, &model.Player{Name: "Alice"})
	assert.ErrorIs(t, err, model.ErrDuplicate)
}

func TestRenamePlayer(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	alice := addPlayer(t, store, "Alice")
	addPlayer(t, store, "Bob")

	require.NoError(t, store.RenamePlayer(ctx, alice.ID, "Alicia"))
	require.NoError(t, store.RenamePlayer(ctx, alice.ID, "Alicia"), "renaming to own name is allowed")
	assert.ErrorIs(t, store.RenamePlayer(ctx, alice.ID, "Bob"), model.ErrDuplicate)
	assert.ErrorIs(t, store.RenamePlayer(ctx, model.NewID(), "Carol"), model.ErrNotFound)

	found, err := store.FindPlayer(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", found.Name)
}

func TestIncrementPlayerFields(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	alice := addPlayer(t, store, "Alice")
	delta := stats.Delta(stats.KindCreate, stats.Score{}, stats.Score{For: 3, Against: 1})
	require.NoError(t, store.IncrementPlayerFields(ctx, alice.ID, delta))
	require.NoError(t, store.IncrementPlayerFields(ctx, alice.ID, delta))

	found, err := store.FindPlayer(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, found.TotalMatches)
	assert.Equal(t, 6, found.Points)
	assert.Equal(t, 4, found.GoalDifference)

	require.NoError(t, store.IncrementPlayerFields(ctx, alice.ID, stats.Fields{}))
	assert.ErrorIs(t, store.IncrementPlayerFields(ctx, model.NewID(), delta), model.ErrNotFound)
}

func TestRecordMatchIsAtomic(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	alice := addPlayer(t, store, "Alice")
	m := &model.Match{Player1ID: alice.ID, Player2ID: model.NewID(), Player1Goals: 2, Player2Goals: 0, Date: time.Now()}
	p1, p2 := stats.MatchDeltas(*m)

	_, err := store.RecordMatch(ctx, m, p1, p2)
	assert.ErrorIs(t, err, model.ErrNotFound)

	matches, err := store.ListMatches(ctx, model.MatchFilter{})
	require.NoError(t, err)
	assert.Empty(t, matches)

	found, err := store.FindPlayer(ctx, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, found.TotalMatches, "aggregate must be rolled back with the match")
}

func TestMatchLifecycle(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	alice := addPlayer(t, store, "Alice")
	bob := addPlayer(t, store, "Bob")
	date := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	m := &model.Match{Player1ID: alice.ID, Player2ID: bob.ID, Player1Goals: 3, Player2Goals: 1, Date: date, Team1: "Arsenal", Team2: "Chelsea"}
	p1, p2 := stats.MatchDeltas(*m)
	id, err := store.RecordMatch(ctx, m, p1, p2)
	require.NoError(t, err)
	assert.Equal(t, id, m.ID)

	found, err := store.FindMatch(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, date, found.Date)
	assert.Equal(t, "Arsenal", found.Team1)
	assert.Empty(t, found.TournamentID)

	a, err := store.FindPlayer(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, a.Wins)
	assert.Equal(t, 3, a.Points)
	b, err := store.FindPlayer(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, b.Losses)
	assert.Equal(t, -2, b.GoalDifference)

	require.NoError(t, store.UpdateMatchGoals(ctx, id, 1, 1))
	found, err = store.FindMatch(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, found.Player1Goals)

	require.NoError(t, store.DeleteMatch(ctx, id))
	_, err = store.FindMatch(ctx, id)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.ErrorIs(t, store.DeleteMatch(ctx, id), model.ErrNotFound)
	assert.ErrorIs(t, store.UpdateMatchGoals(ctx, id, 0, 0), model.ErrNotFound)
}

func TestMatchQueries(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	alice := addPlayer(t, store, "Alice")
	bob := addPlayer(t, store, "Bob")
	carol := addPlayer(t, store, "Carol")
	cup := &model.Tournament{Name: "Cup", Slug: "cup", StartDate: time.Now(), EndDate: time.Now().Add(time.Hour)}
	require.NoError(t, store.InsertTournament(ctx, cup))

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	record := func(p1, p2 string, days int, tournament string) string {
		m := &model.Match{Player1ID: p1, Player2ID: p2, Player1Goals: 1, Player2Goals: 0, Date: base.AddDate(0, 0, days), TournamentID: tournament}
		d1, d2 := stats.MatchDeltas(*m)
		id, err := store.RecordMatch(ctx, m, d1, d2)
		require.NoError(t, err)
		return id
	}
	m1 := record(alice.ID, bob.ID, 0, "")
	m2 := record(bob.ID, alice.ID, 2, cup.ID)
	m3 := record(alice.ID, carol.ID, 1, cup.ID)
	m4 := record(bob.ID, carol.ID, 3, "")

	forAlice, err := store.FindMatchesForPlayer(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{m1, m3, m2}, ids(forAlice))

	pair, err := store.FindMatchesForPair(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{m1, m2}, ids(pair))

	all, err := store.ListMatches(ctx, model.MatchFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{m4, m2, m3, m1}, ids(all))

	inCup, err := store.ListMatches(ctx, model.MatchFilter{TournamentID: cup.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{m2, m3}, ids(inCup))

	carolsCup, err := store.ListMatches(ctx, model.MatchFilter{PlayerID: carol.ID, TournamentID: cup.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{m3}, ids(carolsCup))

	tournament, err := store.FindTournament(ctx, cup.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, tournament.MatchesCount)

	deleted, err := store.DeleteMatchesForPlayer(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)
	all, err = store.ListMatches(ctx, model.MatchFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{m4}, ids(all))
}

func TestStandingsOrder(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	alice := addPlayer(t, store, "Alice")
	bob := addPlayer(t, store, "Bob")
	carol := addPlayer(t, store, "Carol")
	require.NoError(t, store.IncrementPlayerFields(ctx, bob.ID, stats.Fields{Points: 3, GoalDifference: 1}))
	require.NoError(t, store.IncrementPlayerFields(ctx, carol.ID, stats.Fields{Points: 3, GoalDifference: 4}))

	standings, err := store.Standings(ctx)
	require.NoError(t, err)
	require.Len(t, standings, 3)
	assert.Equal(t, []string{carol.ID, bob.ID, alice.ID}, []string{standings[0].ID, standings[1].ID, standings[2].ID})

	players, err := store.ListPlayers(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alice", players[0].Name)
}

func TestTournaments(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	summer := &model.Tournament{Name: "Summer Cup", Slug: "summer-cup", StartDate: start, EndDate: start.AddDate(0, 1, 0), Description: "group stage"}
	require.NoError(t, store.InsertTournament(ctx, summer))
	assert.NotEmpty(t, summer.ID)

	err := store.InsertTournament(ctx, &model.Tournament{Name: "Summer cup", Slug: "summer-cup", StartDate: start, EndDate: start})
	assert.ErrorIs(t, err, model.ErrDuplicate)

	found, err := store.FindTournament(ctx, summer.ID)
	require.NoError(t, err)
	assert.Equal(t, start, found.StartDate)
	assert.Equal(t, "group stage", found.Description)
	assert.Zero(t, found.MatchesCount)

	list, err := store.ListTournaments(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = store.FindTournament(ctx, model.NewID())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func ids(matches []model.Match) []string {
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.ID)
	}
	return out
}
