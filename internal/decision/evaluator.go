// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

package decision

import (
	"time"

	"github.com/tomtom215/touchgrass/internal/config"
	"github.com/tomtom215/touchgrass/internal/models"
	"github.com/tomtom215/touchgrass/internal/snapshot"
)

// Evaluator aggregates a snapshot into a Context. It always succeeds.
type Evaluator struct {
	rules *config.Rules
	loc   *time.Location
}

// NewEvaluator returns an Evaluator reading the local clock in the rules' timezone.
func NewEvaluator(rules *config.Rules) *Evaluator {
	return &Evaluator{rules: rules, loc: rules.UserActivity.Location()}
}

// Evaluate builds the Context for now. CooldownActive is left false; the
// engine fills it from the cooldown gate.
func (e *Evaluator) Evaluate(s *snapshot.Snapshot, now time.Time) models.Context {
	local := now.In(e.loc)

	c := models.Context{
		ScreenTimeMinutes: s.ScreenTime.MinutesSpent,
		ScreenTimeLevel:   Classify(s.ScreenTime.MinutesSpent, &e.rules.ScreenTime.Thresholds),
		WeatherCategory:   models.WeatherUnknown,
		ActiveHoursOK:     WithinActiveHours(local, &e.rules.UserActivity.ActiveHours, e.rules.UserActivity.WindowMode),
		LocalTime:         local.Format("15:04"),
	}

	if w := s.Weather; w != nil {
		c.WeatherCategory = w.Category
		c.TemperatureC = w.TemperatureC
	}
	c.WeatherOK = e.weatherOK(s.Weather)

	if l := s.Location; l != nil {
		lat, lon := l.Latitude, l.Longitude
		c.UserLat, c.UserLon = &lat, &lon
		c.LocationAvailable = true
	}

	return c
}

// weatherOK prefers an explicit upstream flag, then the category.
func (e *Evaluator) weatherOK(w *models.WeatherRecord) bool {
	if w == nil {
		return e.rules.Weather.UnknownOK
	}
	if w.OK != nil {
		return *w.OK
	}
	switch w.Category {
	case models.WeatherClear, models.WeatherCloudy:
		return true
	case models.WeatherRain, models.WeatherStorm:
		return false
	default:
		return e.rules.Weather.UnknownOK
	}
}
