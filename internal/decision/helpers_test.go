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

// oneKmNorth is the latitude offset of a point 1.000 km north.
const oneKmNorth = 0.008993216

var (
	homeLat = 52.5
	homeLon = 13.4
)

func testRules() *config.Rules {
	r := config.DefaultRules()
	r.UserActivity.Timezone = "UTC"
	return &r
}

// at returns a UTC instant on a fixed day.
func at(hhmm string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", "2026-01-10 "+hhmm)
	if err != nil {
		panic(err)
	}
	return t
}

func floatPtr(v float64) *float64 { return &v }

func park(id string, lat, lon float64) models.Place {
	return models.Place{ID: id, Name: id, Category: "park", Latitude: lat, Longitude: lon, IsActive: true}
}

// goodSnapshot passes every gate: high screen time, clear weather, known location.
func goodSnapshot(places ...models.Place) *snapshot.Snapshot {
	return &snapshot.Snapshot{
		ScreenTime: models.ScreenTimeRecord{Device: "phone", MinutesSpent: 320},
		Location:   &models.LocationRecord{Latitude: homeLat, Longitude: homeLon},
		Weather:    &models.WeatherRecord{Category: models.WeatherClear, TemperatureC: floatPtr(18)},
		Places:     places,
	}
}
