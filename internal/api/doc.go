// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

/*
Package api exposes decision payloads over HTTP using the chi router.

Endpoints:

	GET  /api/recommendations     presentation view of the latest payload, 204 when none exists
	GET  /api/decisions/latest    latest payload in the standard APIResponse envelope
	POST /api/decisions/run       run one decision cycle now (strictly rate limited)
	GET  /health                  dependency health, 200 when healthy and 503 otherwise
	GET  /health/live             liveness probe
	GET  /metrics                 Prometheus exposition

The API is read-only apart from the run trigger, which goes through the same
pipeline.Runner as the scheduler so cycles never overlap.

JSON responses carry an ETag derived from the body; a matching If-None-Match
yields 304 Not Modified.
*/
package api
