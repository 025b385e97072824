// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

/*
Package middleware provides chi-compatible HTTP middleware.

  - RequestID: X-Request-ID propagation plus request and correlation IDs and
    a request-scoped zerolog logger in the context
  - PrometheusMetrics: request counts and latency labeled by route pattern

Stack order in the API router:

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)

Route patterns ("/api/decisions/latest") are used as metric labels instead
of raw paths so label cardinality stays bounded.
*/
package middleware
