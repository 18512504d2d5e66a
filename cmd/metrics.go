package cmd

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "lightcone"

// Metrics are the counters a run accumulates. They are registered with their
// own registry so that tests and repeated runs in one process never collide.
type Metrics struct {
	Registry *prometheus.Registry

	Tasks           *prometheus.CounterVec
	Tracers         prometheus.Counter
	ReplicasVisited prometheus.Counter
	ReplicasCulled  prometheus.Counter
	CatalogLoads    prometheus.Counter
	TaskDuration    prometheus.Histogram
}

// NewMetrics creates and registers a fresh set of run metrics.
func NewMetrics() *Metrics {
	m := &Metrics{Registry: prometheus.NewRegistry()}

	m.Tasks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "tasks",
		Name:      "total",
		Help:      "Shell tasks by outcome",
	}, []string{"outcome"})

	m.Tracers = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "shells",
		Name:      "tracers_total",
		Help:      "Rows written to shell files",
	})

	m.ReplicasVisited = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "shells",
		Name:      "replicas_visited_total",
		Help:      "Periodic replicas projected onto shells",
	})

	m.ReplicasCulled = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "shells",
		Name:      "replicas_culled_total",
		Help:      "Periodic replicas skipped because they cannot reach a shell",
	})

	m.CatalogLoads = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "catalogs",
		Name:      "loads_total",
		Help:      "Tracer catalogs read from disk",
	})

	m.TaskDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: "tasks",
		Name:      "duration_seconds",
		Help:      "Time spent building a single shell",
		Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
	})

	m.Registry.MustRegister(
		m.Tasks,
		m.Tracers,
		m.ReplicasVisited,
		m.ReplicasCulled,
		m.CatalogLoads,
		m.TaskDuration,
	)
	return m
}

// WriteTextfile writes the metrics to fname in the node-exporter textfile
// format.
func (m *Metrics) WriteTextfile(fname string) error {
	return prometheus.WriteToTextfile(fname, m.Registry)
}
