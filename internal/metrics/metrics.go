// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Decision cycle metrics
	CyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "touchgrass_cycles_total",
			Help: "Total number of decision cycles by outcome",
		},
		[]string{"outcome"}, // "success", "aborted"
	)

	CycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "touchgrass_cycle_duration_seconds",
			Help:    "Duration of decision cycles in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	DecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "touchgrass_decisions_total",
			Help: "Total number of rendered decisions by reason",
		},
		[]string{"reason"},
	)

	Candidates = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "touchgrass_candidates",
			Help: "Number of candidates at each stage of the last cycle",
		},
		[]string{"stage"}, // "catalog", "active", "scored", "ranked"
	)

	CandidateErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "touchgrass_candidate_errors_total",
			Help: "Candidates excluded or degraded because of per-candidate errors",
		},
		[]string{"kind"}, // "route_failed", "route_fallback", "invalid_place"
	)

	// Routing metrics
	RoutingRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "touchgrass_routing_requests_total",
			Help: "Total number of routing API requests by result",
		},
		[]string{"result"}, // "success", "error", "rejected"
	)

	RoutingCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "touchgrass_routing_cache_total",
			Help: "Routing cache lookups by result",
		},
		[]string{"result"}, // "hit", "miss"
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "touchgrass_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "touchgrass_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Storage and source metrics
	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "touchgrass_store_operations_total",
			Help: "Payload store operations by backend, operation and result",
		},
		[]string{"backend", "op", "result"},
	)

	SourceQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "touchgrass_source_query_duration_seconds",
			Help:    "Duration of DuckDB queries against staged datasets",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"dataset"},
	)

	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "touchgrass_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "touchgrass_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

// RecordCycle records the outcome and duration of one decision cycle.
func RecordCycle(outcome string, duration time.Duration) {
	CyclesTotal.WithLabelValues(outcome).Inc()
	CycleDuration.Observe(duration.Seconds())
}

// RecordDecision counts a rendered decision.
func RecordDecision(reason string) {
	DecisionsTotal.WithLabelValues(reason).Inc()
}

// SetCandidates records the candidate count at a pipeline stage.
func SetCandidates(stage string, n int) {
	Candidates.WithLabelValues(stage).Set(float64(n))
}

// RecordCandidateError counts a per-candidate failure.
func RecordCandidateError(kind string) {
	CandidateErrors.WithLabelValues(kind).Inc()
}

// RecordRoutingRequest counts a routing API call.
func RecordRoutingRequest(result string) {
	RoutingRequests.WithLabelValues(result).Inc()
}

// RecordRoutingCache counts a route cache lookup.
func RecordRoutingCache(hit bool) {
	if hit {
		RoutingCache.WithLabelValues("hit").Inc()
		return
	}
	RoutingCache.WithLabelValues("miss").Inc()
}

// RecordStoreOperation counts a payload store call. result is one of
// success, not_found or error.
func RecordStoreOperation(backend, op, result string) {
	StoreOperations.WithLabelValues(backend, op, result).Inc()
}

// RecordSourceQuery observes a staged-dataset query.
func RecordSourceQuery(dataset string, duration time.Duration) {
	SourceQueryDuration.WithLabelValues(dataset).Observe(duration.Seconds())
}

// RecordAPIRequest records an API request.
func RecordAPIRequest(method, endpoint, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
