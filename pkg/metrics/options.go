// Package metrics provides Prometheus metrics for the rankmerge pipelines.
package metrics

import (
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Manager built by NewManager or Configure.
type Option func(*Manager)

// WithNamespace replaces the "rankmerge" namespace. Empty keeps the default.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithMetricPrefix inserts prefix_ between the subsystem and every metric name.
func WithMetricPrefix(prefix string) Option {
	return func(m *Manager) {
		m.metricPrefix = prefix
	}
}

// WithDurationBuckets sets the pipeline duration histogram buckets, in
// seconds. The slice is copied and sorted; empty keeps prometheus.DefBuckets.
func WithDurationBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) == 0 {
			return
		}
		b := append([]float64(nil), buckets...)
		sort.Float64s(b)
		m.durationBuckets = b
	}
}

// WithConstLabels attaches labels such as env or host to every collector.
// Entries with an empty key or value are ignored.
func WithConstLabels(labels map[string]string) Option {
	return func(m *Manager) {
		for k, v := range labels {
			if k == "" || v == "" {
				continue
			}
			m.constLabels[k] = v
		}
	}
}

// WithMetricsEnabled turns recording on or off. Collectors are registered
// either way so /metrics keeps a stable shape.
func WithMetricsEnabled(enabled bool) Option {
	return func(m *Manager) {
		m.enabled = enabled
	}
}

// WithRefreshInterval sets how often serve refreshes the system gauges.
func WithRefreshInterval(interval time.Duration) Option {
	return func(m *Manager) {
		if interval > 0 {
			m.refreshInterval = interval
		}
	}
}

// WithPrometheusRegistry registers the collectors with registry instead of
// the default registerer.
func WithPrometheusRegistry(registry prometheus.Registerer) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}
