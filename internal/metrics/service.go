package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arena_operations_total",
			Help: "The total number of store operations by operation and result (ok, rejected, failed).",
		}, []string{"operation", "result"}),
		SaveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "arena_save_duration_seconds",
			Help:    "The duration of full-document saves.",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		SaveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arena_save_failures_total",
			Help: "The total number of document saves that failed and were rolled back.",
		}),
		Entities: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "arena_entities",
			Help: "The number of stored entities by kind.",
		}, []string{"kind"}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "arena_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.Operations,
		s.SaveDuration,
		s.SaveFailures,
		s.Entities,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) ObserveOperation(operation, result string) {
	s.Operations.WithLabelValues(operation, result).Inc()
}

func (s *Service) ObserveSaveDuration(duration float64) {
	s.SaveDuration.Observe(duration)
}

func (s *Service) IncSaveFailures() {
	s.SaveFailures.Inc()
}

func (s *Service) SetEntityCount(kind string, count int) {
	s.Entities.WithLabelValues(kind).Set(float64(count))
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
