// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New("test", reg)

	m.CacheHit("abstract")
	m.CacheHit("abstract")
	m.CacheMiss("classification")
	m.ProviderLookup("semantic_scholar", "found")
	m.ClassifierCall("aurora-sdg", "ok")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheHits.WithLabelValues("abstract")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheMisses.WithLabelValues("classification")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.providerLookups.WithLabelValues("semantic_scholar", "found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.classifierCalls.WithLabelValues("aurora-sdg", "ok")))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.CacheHit("abstract")
		m.CacheMiss("abstract")
		m.ProviderLookup("openalex", "transient")
		m.ClassifierCall("aurora-sdg", "error")
	})
}
