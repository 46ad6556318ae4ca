package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	ObserveOperation(operation, result string)
	ObserveSaveDuration(duration float64)
	IncSaveFailures()
	SetEntityCount(kind string, count int)
	SetStartupTime(duration float64)
}
