// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

package decision

import (
	"github.com/tomtom215/touchgrass/internal/config"
	"github.com/tomtom215/touchgrass/internal/models"
)

// Gate is the ordered veto chain. The first failing check sets the reason.
type Gate struct {
	rules *config.Rules
}

// NewGate returns a Gate for rules.
func NewGate(rules *config.Rules) *Gate {
	return &Gate{rules: rules}
}

// Decide returns exactly one Decision for the inputs. It never fails.
func (g *Gate) Decide(c *models.Context, cooldown models.Cooldown, ranked []models.Candidate) models.Decision {
	d := models.Decision{
		Cooldown:                 cooldown.Active,
		CooldownReason:           cooldown.Reason,
		CooldownSecondsRemaining: cooldown.SecondsRemaining,
	}
	if len(ranked) > 0 {
		top := ranked[0].PriorityScore
		d.Score = &top
	}

	d.Reason = g.reason(c, cooldown, ranked)
	d.ShouldGoOut = d.Reason.IsSuccess()
	return d
}

func (g *Gate) reason(c *models.Context, cooldown models.Cooldown, ranked []models.Candidate) models.Reason {
	categorical := g.rules.Decision.ScreenTimePolicy == config.ScreenTimePolicyCategorical

	switch {
	case !c.ActiveHoursOK:
		return models.ReasonOutsideActiveHours
	case cooldown.Active:
		return models.ReasonCooldownActive
	case categorical && c.ScreenTimeLevel != models.ScreenTimeHigh:
		return models.ReasonScreenTimeNotHigh
	case !categorical && c.ScreenTimeMinutes < g.rules.ScreenTime.Thresholds.Medium:
		return models.ReasonScreenTimeTooLow
	case g.rules.Decision.WeatherGate && !c.WeatherOK:
		return models.ReasonWeatherNotOK
	case g.rules.Decision.RequireLocation && !c.LocationAvailable:
		return models.ReasonLocationUnavailable
	case len(ranked) == 0:
		return models.ReasonNoCandidates
	case ranked[0].PriorityScore < g.rules.Recommendation.RecommendThreshold:
		return models.ReasonNoHighScore
	case categorical:
		return models.ReasonEligible
	default:
		return models.ReasonViableLocation
	}
}
