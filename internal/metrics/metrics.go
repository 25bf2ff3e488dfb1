// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DiscoveryRequests counts pipeline invocations.
	// Labels:
	//   - shape: "browse", "category", "techstack", "leaderboard", "search"
	DiscoveryRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_requests_total",
			Help: "Total number of discovery pipeline runs",
		},
		[]string{"shape"},
	)

	// DiscoveryDuration measures pipeline latency including pool loading.
	DiscoveryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "discovery_request_duration_seconds",
			Help:    "Duration of discovery pipeline runs in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"shape"},
	)

	// UpstreamFailures counts failed reads from the candidate sources that
	// were degraded to empty results.
	// Labels:
	//   - source: "pool", "likes"
	UpstreamFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_upstream_failures_total",
			Help: "Total number of candidate or membership fetch failures",
		},
		[]string{"source"},
	)

	// PoolCacheLookups counts candidate pool cache lookups.
	// Labels:
	//   - result: "hit", "miss"
	PoolCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pool_cache_lookups_total",
			Help: "Total number of candidate pool cache lookups",
		},
		[]string{"result"},
	)

	// BreakerState reports circuit breaker state: 0 closed, 1 half-open, 2 open.
	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pool_breaker_state",
			Help: "Circuit breaker state for candidate sources (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// BreakerRequests counts calls made through a circuit breaker.
	// Labels:
	//   - name: breaker name
	//   - result: "success", "failure", "rejected"
	BreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pool_breaker_requests_total",
			Help: "Total number of candidate source calls by circuit breaker outcome",
		},
		[]string{"name", "result"},
	)
)

// TimeDiscovery counts a pipeline run for shape and returns a function that
// records its duration when called.
func TimeDiscovery(shape string) func() {
	DiscoveryRequests.WithLabelValues(shape).Inc()
	start := time.Now()
	return func() {
		DiscoveryDuration.WithLabelValues(shape).Observe(time.Since(start).Seconds())
	}
}
