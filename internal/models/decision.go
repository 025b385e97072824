// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

package models

// Reason is the single code explaining a Decision.
type Reason string

const (
	ReasonOutsideActiveHours  Reason = "outside_active_hours"
	ReasonCooldownActive      Reason = "cooldown_active"
	ReasonScreenTimeNotHigh   Reason = "screen_time_not_high"
	ReasonScreenTimeTooLow    Reason = "screen_time_too_low"
	ReasonWeatherNotOK        Reason = "weather_not_ok"
	ReasonLocationUnavailable Reason = "location_unavailable"
	ReasonNoCandidates        Reason = "no_candidates"
	ReasonNoHighScore         Reason = "no_high_score"
	ReasonEligible            Reason = "eligible"
	ReasonViableLocation      Reason = "viable_location"
)

// IsSuccess reports whether r is a terminal success code.
func (r Reason) IsSuccess() bool {
	return r == ReasonEligible || r == ReasonViableLocation
}

// CooldownReason explains why the cooldown gate is active.
type CooldownReason string

const (
	CooldownNone               CooldownReason = "none"
	CooldownUserNotMoved       CooldownReason = "user_not_moved"
	CooldownOutsideActiveHours CooldownReason = "outside_active_hours"
)

// Cooldown is the result of the cooldown gate.
// SecondsRemaining is nil when no countdown applies.
type Cooldown struct {
	Active           bool           `json:"active"`
	Reason           CooldownReason `json:"reason"`
	SecondsRemaining *int           `json:"seconds_remaining"`
}

// Decision is the single output judgment of a cycle.
// ShouldGoOut is true iff Reason is a success code.
type Decision struct {
	ShouldGoOut              bool           `json:"should_go_out"`
	Reason                   Reason         `json:"reason"`
	Cooldown                 bool           `json:"cooldown"`
	Score                    *float64       `json:"score,omitempty"`
	CooldownReason           CooldownReason `json:"cooldown_reason,omitempty"`
	CooldownSecondsRemaining *int           `json:"cooldown_seconds_remaining,omitempty"`
}
