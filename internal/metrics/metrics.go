package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry holds the process metrics.
type Registry struct {
	FetchTotal    *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec

	EngineRuns     prometheus.Counter
	EngineDuration prometheus.Histogram

	WSClients prometheus.Gauge
}

// New creates the registry and registers everything on the default
// Prometheus registerer.
func New() *Registry {
	r := &Registry{
		FetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flipsentinel_fetch_total",
				Help: "Upstream fetches by series and result",
			},
			[]string{"series", "result"},
		),
		FetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flipsentinel_fetch_duration_seconds",
				Help:    "Upstream fetch duration by series",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"series"},
		),
		EngineRuns: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "flipsentinel_engine_runs_total",
				Help: "Recommendation engine invocations",
			},
		),
		EngineDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "flipsentinel_engine_duration_seconds",
				Help:    "Recommendation engine invocation duration",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
		),
		WSClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "flipsentinel_ws_clients",
				Help: "Connected websocket clients",
			},
		),
	}

	prometheus.MustRegister(
		r.FetchTotal,
		r.FetchDuration,
		r.EngineRuns,
		r.EngineDuration,
		r.WSClients,
	)
	return r
}
