package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	Operations         *prometheus.CounterVec
	SaveDuration       prometheus.Histogram
	SaveFailures       prometheus.Counter
	Entities           *prometheus.GaugeVec
	StartupTimeSeconds prometheus.Gauge
}
