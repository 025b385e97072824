// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

package source

import (
	"context"
	"errors"

	"github.com/tomtom215/touchgrass/internal/snapshot"
)

var (
	// ErrNoScreenTime is returned when no screen-time record can be read.
	ErrNoScreenTime = errors.New("source: no screen-time record")

	// ErrNoPlaces is returned when the place catalog is missing or empty.
	ErrNoPlaces = errors.New("source: place catalog is empty")
)

// Dataset file names inside the silver directory.
const (
	ScreenTimeFile = "screen_time.csv"
	LocationFile   = "user_location.csv"
	WeatherFile    = "weather.csv"
	PlacesFile     = "places.csv"
)

// Files lists every silver dataset in staging order.
var Files = []string{ScreenTimeFile, LocationFile, WeatherFile, PlacesFile}

// Source yields the raw upstream rows for one decision cycle.
type Source interface {
	Load(ctx context.Context) (*snapshot.Raw, error)
}

// Stager refreshes the local silver directory before a read.
type Stager interface {
	Stage(ctx context.Context, dir string) error
}
