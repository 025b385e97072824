// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

/*
Package config provides centralized configuration management for Touchgrass.

Configuration is loaded once per process with Koanf v2 from three layers,
later layers overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, ./config.yaml, /etc/touchgrass/config.yaml
 3. Mapped environment variables (see envTransformFunc)

The result is validated before it is returned. Any malformed or
contradictory value is fatal: the process refuses to start rather than run
with nonsensical thresholds or weights.

# Decision Rules

The Rules section holds every numeric policy used by the decision engine:

  - screen-time thresholds (medium < high < critical, minutes)
  - active-hours window and its comparison mode
  - cooldown window and reset distance
  - distance scoring (linear decay or band table)
  - scoring strategy, weights and lookup tables
  - recommendation count and recommend threshold
  - gate policy (numeric or categorical screen-time gate)

Rules is constructed once and passed by pointer to the components that need
it. Nothing reloads it from disk while the process runs.

# Example

	rules:
	  screen_time:
	    thresholds_minutes: {medium: 180, high: 300, critical: 480}
	  user_activity:
	    active_hours: {start: "07:00", end: "22:00"}
	  cooldown:
	    minutes: 120
	    reset_distance_km: 0.1
	  recommendation:
	    max_results: 5
	    recommend_threshold: 3.5
	storage:
	  backend: s3
	  s3:
	    bucket: touchgrass
	    endpoint: http://minio:9000
*/
package config
