// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

package decision

import (
	"math"
	"time"

	"github.com/tomtom215/touchgrass/internal/config"
	"github.com/tomtom215/touchgrass/internal/geo"
	"github.com/tomtom215/touchgrass/internal/models"
)

// CooldownGate suppresses repeat prompts.
type CooldownGate struct {
	rules *config.Rules
	loc   *time.Location
}

// NewCooldownGate returns a gate using the rules' cooldown and active-hours settings.
func NewCooldownGate(rules *config.Rules) *CooldownGate {
	return &CooldownGate{rules: rules, loc: rules.UserActivity.Location()}
}

// Check evaluates, in order:
//
//  1. outside active hours: active, no countdown
//  2. no prior prompt: inactive
//  3. cooldown window elapsed: inactive
//  4. moved at least the reset distance: inactive
//  5. otherwise active with the remaining window
//
// An unknown current or prior location counts as not moved.
func (g *CooldownGate) Check(now time.Time, prior *models.PriorDecision, current *geo.Point) models.Cooldown {
	if !WithinActiveHours(now.In(g.loc), &g.rules.UserActivity.ActiveHours, g.rules.UserActivity.WindowMode) {
		return models.Cooldown{Active: true, Reason: models.CooldownOutsideActiveHours}
	}

	inactive := models.Cooldown{Reason: models.CooldownNone}
	if prior == nil {
		return inactive
	}

	window := g.rules.Cooldown.Window()
	elapsed := max(now.Sub(prior.GeneratedAt), 0)
	if elapsed >= window {
		return inactive
	}

	if current != nil && prior.Lat != nil && prior.Lon != nil {
		moved := geo.HaversineKM(geo.Point{Lat: *prior.Lat, Lon: *prior.Lon}, *current)
		if moved >= g.rules.Cooldown.ResetDistanceKM {
			return inactive
		}
	}

	remaining := int(math.Ceil((window - elapsed).Seconds()))
	return models.Cooldown{Active: true, Reason: models.CooldownUserNotMoved, SecondsRemaining: &remaining}
}
