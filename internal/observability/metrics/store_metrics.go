package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// NewRegistry returns the registry served on /metrics, preloaded with the Go
// runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

// StoreMetrics tracks entity store mutations. It implements
// entitystore.Observer.
type StoreMetrics struct {
	mutations *prometheus.CounterVec
	size      *prometheus.GaugeVec
	version   *prometheus.GaugeVec
}

func NewStoreMetrics(registry *prometheus.Registry, cfg Config) *StoreMetrics {
	labels := constLabels(cfg)
	m := &StoreMetrics{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "hostelhub_store_mutations_total",
			Help:        "Committed mutations per entity store.",
			ConstLabels: labels,
		}, []string{"store"}),
		size: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "hostelhub_store_records",
			Help:        "Records held per entity store.",
			ConstLabels: labels,
		}, []string{"store"}),
		version: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "hostelhub_store_version",
			Help:        "Current version of each entity store.",
			ConstLabels: labels,
		}, []string{"store"}),
	}
	if registry != nil {
		registry.MustRegister(m.mutations, m.size, m.version)
	}
	return m
}

func (m *StoreMetrics) StoreChanged(name string, version uint64, size int) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(name).Inc()
	m.size.WithLabelValues(name).Set(float64(size))
	m.version.WithLabelValues(name).Set(float64(version))
}

func constLabels(cfg Config) prometheus.Labels {
	service := strings.TrimSpace(cfg.ServiceName)
	if service == "" {
		service = "hostelhub"
	}
	env := strings.TrimSpace(cfg.Environment)
	if env == "" {
		env = "unknown"
	}
	return prometheus.Labels{"service": service, "env": env}
}
