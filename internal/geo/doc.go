// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

// Package geo converts coordinate pairs into travel distances.
//
// Two sources of distance exist:
//
//   - HaversineKM: great-circle distance, pure and always available
//   - ORSClient: routed distance from the OpenRouteService directions API,
//     protected by a rate limiter, retries, a circuit breaker and a TTL cache
//
// Estimator applies one of them to a candidate list. In routed mode lookups
// run in parallel, and a failed lookup drops only that candidate (or falls
// back to the great-circle distance when configured).
package geo
