package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)

	s.IncMatchesRecorded()
	s.IncMatchesRecorded()
	s.IncAggregateAnomalies()
	s.SetReconcileDrift(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(s.MatchesRecorded))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.AggregateAnomalies))
	assert.Equal(t, 3.0, testutil.ToFloat64(s.ReconcileDrift))
}

func TestMetricsHandlerExposesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)
	s.IncPlayersRegistered()

	rec := httptest.NewRecorder()
	NewMetricsHandler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "rivalry_players_registered_total 1")
}
