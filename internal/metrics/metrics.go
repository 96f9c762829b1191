// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics exposes Prometheus counters for cache and external-call
// activity. Components accept a nil *Metrics and run unobserved, so tests
// and library users need no registry wiring.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the counter vectors registered for one engine instance.
type Metrics struct {
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	providerLookups *prometheus.CounterVec
	classifierCalls *prometheus.CounterVec
}

// New registers the counters with the given registerer under
// "{namespace}_sdg_". Pass prometheus.DefaultRegisterer in production.
func New(namespace string, registerer prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "sdg_engine"
	}

	cacheHits := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sdg",
			Name:      "cache_hits_total",
			Help:      "Total number of cache hits",
		},
		[]string{"cache"},
	)
	cacheMisses := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sdg",
			Name:      "cache_misses_total",
			Help:      "Total number of cache misses",
		},
		[]string{"cache"},
	)
	providerLookups := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sdg",
			Name:      "provider_lookups_total",
			Help:      "Total number of abstract provider lookups by outcome",
		},
		[]string{"provider", "outcome"},
	)
	classifierCalls := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sdg",
			Name:      "classifier_calls_total",
			Help:      "Total number of external classifier calls by status",
		},
		[]string{"model", "status"},
	)

	registerer.MustRegister(cacheHits, cacheMisses, providerLookups, classifierCalls)

	return &Metrics{
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		providerLookups: providerLookups,
		classifierCalls: classifierCalls,
	}
}

// CacheHit counts a hit in the named cache ("abstract" or "classification").
func (m *Metrics) CacheHit(cache string) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(cache).Inc()
}

// CacheMiss counts a miss in the named cache.
func (m *Metrics) CacheMiss(cache string) {
	if m == nil {
		return
	}
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// ProviderLookup counts one provider call with its outcome
// ("found", "not_found", or "error").
func (m *Metrics) ProviderLookup(provider, outcome string) {
	if m == nil {
		return
	}
	m.providerLookups.WithLabelValues(provider, outcome).Inc()
}

// ClassifierCall counts one classification decision ("ok", "error", or
// "skipped" for texts below the model minimum length).
func (m *Metrics) ClassifierCall(model, status string) {
	if m == nil {
		return
	}
	m.classifierCalls.WithLabelValues(model, status).Inc()
}
