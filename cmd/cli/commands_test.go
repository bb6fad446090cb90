package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mauv0809/fifa-rivalry/internal/model"
)

func TestStandingsTable(t *testing.T) {
	out := standingsTable([]model.Player{
		{Name: "Alice", TotalMatches: 2, Wins: 1, Draws: 1, GoalsScored: 4, GoalsConceded: 2, GoalDifference: 2, Points: 4},
		{Name: "Bob", TotalMatches: 2, Losses: 1, Draws: 1, GoalsScored: 2, GoalsConceded: 4, GoalDifference: -2, Points: 1},
	})
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "Bob")
	assert.Contains(t, out, "+2")
	assert.Contains(t, out, "-2")
	assert.Contains(t, out, "Pts")
}

func TestRequest(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		switch r.URL.Path {
		case "/players":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"id":"p1","name":"Alice"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"player not found"}`))
		}
	}))
	defer srv.Close()

	origHost, origDryRun := host, dryRun
	t.Cleanup(func() { host, dryRun = origHost, origDryRun })
	host = srv.URL

	t.Run("decodes success body", func(t *testing.T) {
		dryRun = false
		var players []model.Player
		require.NoError(t, request(http.MethodGet, "/players", nil, nil, &players))
		require.Len(t, players, 1)
		assert.Equal(t, "Alice", players[0].Name)
		assert.Empty(t, gotQuery)
	})

	t.Run("surfaces error detail", func(t *testing.T) {
		dryRun = false
		err := request(http.MethodGet, "/player/missing", nil, nil, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
		assert.Contains(t, err.Error(), "player not found")
	})

	t.Run("forwards dry run", func(t *testing.T) {
		dryRun = true
		var players []model.Player
		require.NoError(t, request(http.MethodGet, "/players", nil, nil, &players))
		assert.Equal(t, "dry_run=true", gotQuery)
	})
}
