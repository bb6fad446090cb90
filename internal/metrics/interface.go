package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncMatchesRecorded()
	IncMatchesCorrected()
	IncMatchesDeleted()
	IncPlayersRegistered()
	IncPlayersDeleted()
	IncAggregateAnomalies()
	IncReconcileRuns()
	SetReconcileDrift(players int)
	ObserveReconcileDuration(duration float64)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}
