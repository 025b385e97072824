// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

/*
Package models defines data structures for the Touchgrass application.

This package is the single source of truth for the records exchanged between
the upstream collaborators, the decision engine, the payload store, and the
presentation API.

Key Components:

  - Context: snapshot of the world at decision time (screen time, weather,
    location, active hours, cooldown)
  - Candidate: a place evaluated for recommendation in one decision cycle
  - Decision: the single output judgment with exactly one reason
  - Payload: the persisted artifact of one decision cycle
  - ScreenTimeRecord, LocationRecord, WeatherRecord, Place: normalized
    upstream inputs produced by the snapshot package
  - APIResponse: standardized HTTP response wrapper

Immutability:

Context, Candidate and Decision values are created once per cycle and are
never mutated after the decision is rendered. Payloads are append-only; the
store never rewrites a timestamped artifact.
*/
package models
