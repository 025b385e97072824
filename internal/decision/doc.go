// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

/*
Package decision renders the single "should the user go outside" judgment
for one decision cycle.

The engine runs these steps for every cycle:

 1. Evaluator builds the Context (screen-time level, weather suitability,
    active hours, location availability)
 2. CooldownGate checks time and movement since the last prompt
 3. active places become candidates, distances are estimated
 4. a Scorer assigns each candidate a priority in [0, 10]
 5. Rank orders candidates by score, ties kept in catalog order
 6. Gate walks an ordered veto chain and returns exactly one reason

Gate order:

	outside_active_hours
	cooldown_active
	screen_time_too_low | screen_time_not_high   (numeric | categorical policy)
	weather_not_ok                               (when weather_gate)
	location_unavailable                         (when require_location)
	no_candidates
	no_high_score
	viable_location | eligible                   (success)

Every step except distance estimation is a pure function of its inputs.
Scoring strategies are pluggable through the Scorer interface and selected
by rules.scoring.strategy.
*/
package decision
