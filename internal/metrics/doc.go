// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

/*
Package metrics declares the Prometheus collectors for Touchgrass.

Collectors are registered with the default registry through promauto and
exposed by the HTTP server at /metrics. Callers use the Record* helpers so
that label values stay consistent:

	metrics.RecordCycle("success", time.Since(start))
	metrics.RecordDecision(string(d.Reason))
	metrics.RecordRoutingRequest("error")

Metric families:

  - touchgrass_cycles_total{outcome}, touchgrass_cycle_duration_seconds
  - touchgrass_decisions_total{reason}
  - touchgrass_candidates{stage}
  - touchgrass_candidate_errors_total{kind}
  - touchgrass_routing_requests_total{result}, touchgrass_routing_cache_total{result}
  - touchgrass_circuit_breaker_state{name}, touchgrass_circuit_breaker_transitions_total{name,from,to}
  - touchgrass_store_operations_total{backend,op,result}
  - touchgrass_source_query_duration_seconds{dataset}
  - touchgrass_api_requests_total{method,endpoint,status}, touchgrass_api_request_duration_seconds{method,endpoint}
*/
package metrics
