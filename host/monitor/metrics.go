package monitor

import "github.com/prometheus/client_golang/prometheus"

const namespace = "tickmon"

type metrics struct {
	Samples       prometheus.Counter
	Backwards     prometheus.Counter
	DriftExceeded prometheus.Counter
	Malformed     prometheus.Counter
	DriftPPM      prometheus.Gauge
	Uptime        prometheus.Gauge
}

func newMetrics() metrics {
	return metrics{
		Samples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_total",
			Help:      "Uptime reports received.",
		}),
		Backwards: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backwards_total",
			Help:      "Reports whose tick count was below the previous one.",
		}),
		DriftExceeded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drift_exceeded_total",
			Help:      "Reports whose rate error exceeded the tolerance.",
		}),
		Malformed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "malformed_total",
			Help:      "Report lines that could not be parsed.",
		}),
		DriftPPM: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "drift_ppm",
			Help:      "Rate error of the device counter against the host clock.",
		}),
		Uptime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "device_uptime_seconds",
			Help:      "Last reported device uptime.",
		}),
	}
}

// Metrics returns the collectors to register.
func (m *Monitor) Metrics() []prometheus.Collector {
	return []prometheus.Collector{
		m.metrics.Samples,
		m.metrics.Backwards,
		m.metrics.DriftExceeded,
		m.metrics.Malformed,
		m.metrics.DriftPPM,
		m.metrics.Uptime,
	}
}
