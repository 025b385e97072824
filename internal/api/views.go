// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

package api

import (
	"time"

	"github.com/tomtom215/touchgrass/internal/models"
)

// RecommendationsView is the frontend shape of a payload.
type RecommendationsView struct {
	Timestamp       time.Time            `json:"timestamp"`
	Context         ContextView          `json:"context"`
	Decision        models.Decision      `json:"decision"`
	Recommendations []RecommendationView `json:"recommendations"`
}

// ContextView is the subset of Context shown to users.
type ContextView struct {
	ScreenTimeMinutes int                    `json:"screen_time_minutes"`
	ScreenTimeLevel   models.ScreenTimeLevel `json:"screen_time_level"`
	WeatherCategory   models.WeatherCategory `json:"weather_category"`
	WeatherOK         bool                   `json:"weather_ok"`
	TemperatureC      *float64               `json:"temperature_c"`
	UserLocation      UserLocationView       `json:"user_location"`
}

// UserLocationView uses lat/lng keys for map widgets.
type UserLocationView struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// RecommendationView is one ranked place.
type RecommendationView struct {
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Category   string   `json:"category"`
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	DistanceKM *float64 `json:"distance_km"`
	Score      float64  `json:"score"`
	MapLink    string   `json:"map_link"`
}

// NewRecommendationsView normalizes p for the frontend.
func NewRecommendationsView(p *models.Payload) RecommendationsView {
	recs := make([]RecommendationView, 0, len(p.Recommendations))
	for i := range p.Recommendations {
		c := &p.Recommendations[i]
		recs = append(recs, RecommendationView{
			Name:       c.Name,
			Address:    c.Address,
			Category:   c.Category,
			Latitude:   c.Latitude,
			Longitude:  c.Longitude,
			DistanceKM: c.DistanceKM,
			Score:      c.PriorityScore,
			MapLink:    c.MapLink,
		})
	}

	return RecommendationsView{
		Timestamp: p.GeneratedAt,
		Context: ContextView{
			ScreenTimeMinutes: p.Context.ScreenTimeMinutes,
			ScreenTimeLevel:   p.Context.ScreenTimeLevel,
			WeatherCategory:   p.Context.WeatherCategory,
			WeatherOK:         p.Context.WeatherOK,
			TemperatureC:      p.Context.TemperatureC,
			UserLocation:      UserLocationView{Lat: p.Context.UserLat, Lng: p.Context.UserLon},
		},
		Decision:        p.Decision,
		Recommendations: recs,
	}
}
