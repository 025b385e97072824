// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

package models

import "time"

// Payload is the persisted artifact of one decision cycle.
// Recommendations is a prefix of the ranked candidate list.
type Payload struct {
	GeneratedAt     time.Time   `json:"generated_at"`
	Context         Context     `json:"context"`
	Decision        Decision    `json:"decision"`
	Recommendations []Candidate `json:"recommendations"`
}
