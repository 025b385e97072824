// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

package models

import "strings"

// ScreenTimeLevel buckets the screen-time minutes against configured thresholds.
type ScreenTimeLevel string

const (
	// ScreenTimeLow is below the medium threshold.
	ScreenTimeLow ScreenTimeLevel = "low"
	// ScreenTimeMedium meets the medium threshold.
	ScreenTimeMedium ScreenTimeLevel = "medium"
	// ScreenTimeHigh meets the high threshold.
	ScreenTimeHigh ScreenTimeLevel = "high"
	// ScreenTimeCritical meets the critical threshold.
	ScreenTimeCritical ScreenTimeLevel = "critical"
)

// Rank orders levels so that low < medium < high < critical.
func (l ScreenTimeLevel) Rank() int {
	switch l {
	case ScreenTimeMedium:
		return 1
	case ScreenTimeHigh:
		return 2
	case ScreenTimeCritical:
		return 3
	default:
		return 0
	}
}

// WeatherCategory is the normalized weather condition.
type WeatherCategory string

const (
	WeatherClear   WeatherCategory = "clear"
	WeatherCloudy  WeatherCategory = "cloudy"
	WeatherRain    WeatherCategory = "rain"
	WeatherStorm   WeatherCategory = "storm"
	WeatherUnknown WeatherCategory = "unknown"
)

// ParseWeatherCategory maps free-form upstream text onto a WeatherCategory.
// Anything unrecognized becomes WeatherUnknown.
func ParseWeatherCategory(s string) WeatherCategory {
	switch WeatherCategory(strings.ToLower(strings.TrimSpace(s))) {
	case WeatherClear:
		return WeatherClear
	case WeatherCloudy:
		return WeatherCloudy
	case WeatherRain:
		return WeatherRain
	case WeatherStorm:
		return WeatherStorm
	default:
		return WeatherUnknown
	}
}

// Context is the snapshot of the world at decision time.
// It is created fresh each cycle and embedded in the Payload.
type Context struct {
	ScreenTimeMinutes int             `json:"screen_time_minutes"`
	ScreenTimeLevel   ScreenTimeLevel `json:"screen_time_level"`
	WeatherCategory   WeatherCategory `json:"weather_category"`
	WeatherOK         bool            `json:"weather_ok"`
	TemperatureC      *float64        `json:"temperature_c"`
	UserLat           *float64        `json:"user_lat"`
	UserLon           *float64        `json:"user_lon"`
	LocationAvailable bool            `json:"location_available"`
	ActiveHoursOK     bool            `json:"active_hours_ok"`
	CooldownActive    bool            `json:"cooldown_active"`
	LocalTime         string          `json:"local_time,omitempty"`
}

// Origin returns the user coordinate when both components are present.
func (c *Context) Origin() (lat, lon float64, ok bool) {
	if c.UserLat == nil || c.UserLon == nil {
		return 0, 0, false
	}
	return *c.UserLat, *c.UserLon, true
}
