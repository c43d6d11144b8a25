// Package observability provides Prometheus metrics for context resolution,
// configuration caching and authorization decisions. Metrics are registered
// on an injected registry so embedding services control exposure; this
// package serves no endpoint itself.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics. A nil *Metrics is valid and records
// nothing, so instrumented components never need nil checks at call sites.
type Metrics struct {
	// Context resolution metrics
	ResolutionsTotal   *prometheus.CounterVec
	ResolutionDuration *prometheus.HistogramVec

	// Tenant configuration cache metrics
	ConfigCacheHitsTotal   prometheus.Counter
	ConfigCacheMissesTotal prometheus.Counter
	ConfigFetchesTotal     *prometheus.CounterVec
	ConfigEvictionsTotal   prometheus.Counter

	// Authorization metrics
	AuthzDecisionsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all metrics on the given registry.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		ResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "appcontext_resolutions_total",
				Help: "Total number of execution context resolutions",
			},
			[]string{"outcome"},
		),
		ResolutionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "appcontext_resolution_duration_seconds",
				Help:    "Execution context resolution duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		ConfigCacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "appcontext_config_cache_hits_total",
				Help: "Tenant configuration cache hits",
			},
		),
		ConfigCacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "appcontext_config_cache_misses_total",
				Help: "Tenant configuration cache misses",
			},
		),
		ConfigFetchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "appcontext_config_fetches_total",
				Help: "Tenant configuration fetches against the platform",
			},
			[]string{"outcome"},
		),
		ConfigEvictionsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "appcontext_config_evictions_total",
				Help: "Tenant configuration cache evictions",
			},
		),
		AuthzDecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "appcontext_authz_decisions_total",
				Help: "Authorization verdicts by requirement source and reason",
			},
			[]string{"source", "granted", "reason"},
		),
	}

	registry.MustRegister(
		m.ResolutionsTotal,
		m.ResolutionDuration,
		m.ConfigCacheHitsTotal,
		m.ConfigCacheMissesTotal,
		m.ConfigFetchesTotal,
		m.ConfigEvictionsTotal,
		m.AuthzDecisionsTotal,
	)

	return m
}

// RecordResolution records one context resolution with its duration.
func (m *Metrics) RecordResolution(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.ResolutionsTotal.WithLabelValues(outcome).Inc()
	m.ResolutionDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordConfigCacheHit records a tenant configuration cache hit.
func (m *Metrics) RecordConfigCacheHit() {
	if m == nil {
		return
	}
	m.ConfigCacheHitsTotal.Inc()
}

// RecordConfigCacheMiss records a tenant configuration cache miss.
func (m *Metrics) RecordConfigCacheMiss() {
	if m == nil {
		return
	}
	m.ConfigCacheMissesTotal.Inc()
}

// RecordConfigFetch records one fetch against the platform collaborator.
func (m *Metrics) RecordConfigFetch(outcome string) {
	if m == nil {
		return
	}
	m.ConfigFetchesTotal.WithLabelValues(outcome).Inc()
}

// RecordConfigEviction records an explicit cache eviction.
func (m *Metrics) RecordConfigEviction() {
	if m == nil {
		return
	}
	m.ConfigEvictionsTotal.Inc()
}

// RecordAuthzDecision records one authorization verdict.
func (m *Metrics) RecordAuthzDecision(source string, granted bool, reason string) {
	if m == nil {
		return
	}
	grantedLabel := "false"
	if granted {
		grantedLabel = "true"
		reason = ""
	}
	m.AuthzDecisionsTotal.WithLabelValues(source, grantedLabel, reason).Inc()
}
