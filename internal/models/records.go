// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

package models

import "time"

// ScreenTimeRecord is the latest normalized device-usage record.
type ScreenTimeRecord struct {
	Device       string    `json:"device"`
	MinutesSpent int       `json:"minutes_spent" validate:"gte=0"`
	Timestamp    time.Time `json:"timestamp"`
}

// LocationRecord is the latest normalized user location.
type LocationRecord struct {
	Latitude   float64   `json:"latitude" validate:"latitude"`
	Longitude  float64   `json:"longitude" validate:"longitude"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// WeatherRecord is the latest normalized weather observation.
// OK is set only when the upstream row carries an explicit suitability flag.
type WeatherRecord struct {
	Category     WeatherCategory `json:"weather_category"`
	OK           *bool           `json:"weather_ok,omitempty"`
	TemperatureC *float64        `json:"temperature_c"`
	Code         *int            `json:"weather_code,omitempty"`
	Timestamp    time.Time       `json:"timestamp"`
}

// PriorDecision is the cooldown baseline extracted from the previous payload.
type PriorDecision struct {
	GeneratedAt time.Time
	Lat         *float64
	Lon         *float64
}

// PriorFromPayload extracts the cooldown baseline from a stored payload.
// A nil payload yields nil.
func PriorFromPayload(p *Payload) *PriorDecision {
	if p == nil || p.GeneratedAt.IsZero() {
		return nil
	}
	return &PriorDecision{
		GeneratedAt: p.GeneratedAt,
		Lat:         p.Context.UserLat,
		Lon:         p.Context.UserLon,
	}
}
