// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

// Package snapshot normalizes raw upstream rows into typed records once, at
// the boundary of the decision engine. Components downstream never coerce
// strings themselves.
//
// Missing optional inputs degrade to nil (location, weather) and malformed
// fields degrade to safe defaults. Places with unusable coordinates or no id
// are dropped and counted.
package snapshot

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/touchgrass/internal/metrics"
	"github.com/tomtom215/touchgrass/internal/models"
	"github.com/tomtom215/touchgrass/internal/validation"
)

// Timestamp columns accepted per dataset, in order of preference. Readers
// that pick the latest row must order by the same columns.
var (
	ScreenTimeTimestampColumns = []string{"timestamp_utc", "timestamp"}
	LocationTimestampColumns   = []string{"resolved_at_utc", "resolved_at", "timestamp_utc"}
	WeatherTimestampColumns    = []string{"timestamp_utc", "timestamp"}
)

// Row is one record from a staged dataset, keyed by column name.
type Row map[string]string

// Raw holds the latest row of each dataset plus the full place catalog.
// A nil row means the dataset had no rows.
type Raw struct {
	ScreenTime Row
	Location   Row
	Weather    Row
	Places     []Row
}

// Snapshot is the normalized input of one decision cycle.
type Snapshot struct {
	ScreenTime     models.ScreenTimeRecord
	Location       *models.LocationRecord
	Weather        *models.WeatherRecord
	Places         []models.Place
	RejectedPlaces int
}

// Normalize converts raw rows into a Snapshot. It never fails; the caller
// decides whether a missing screen-time row or catalog aborts the cycle.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Normalize(raw *Raw, logger zerolog.Logger) *Snapshot {
	log := logger.With().Str("component", "snapshot").Logger()

	s := &Snapshot{
		ScreenTime: normalizeScreenTime(raw.ScreenTime, log),
		Location:   normalizeLocation(raw.Location, log),
		Weather:    normalizeWeather(raw.Weather),
	}

	s.Places = make([]models.Place, 0, len(raw.Places))
	for i, row := range raw.Places {
		p, ok := normalizePlace(row)
		if !ok {
			s.RejectedPlaces++
			metrics.RecordCandidateError("invalid_place")
			log.Warn().Int("row", i).Str("place_id", p.ID).Msg("Dropping place with invalid id or coordinates")
			continue
		}
		s.Places = append(s.Places, p)
	}

	return s
}

// first returns the first non-empty value among the given column names.
func (r Row) first(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(r[k]); v != "" {
			return v
		}
	}
	return ""
}

func normalizeScreenTime(row Row, log zerolog.Logger) models.ScreenTimeRecord {
	rec := models.ScreenTimeRecord{
		Device:    row.first("device"),
		Timestamp: parseTime(row.first(ScreenTimeTimestampColumns...)),
	}

	raw := row.first("minutes_spent", "minutes")
	if raw == "" {
		return rec
	}
	minutes, ok := parseFloat(raw)
	if !ok || minutes < 0 {
		log.Warn().Str("minutes_spent", raw).Msg("Unparseable screen-time minutes, using 0")
		return rec
	}
	rec.MinutesSpent = int(minutes)
	return rec
}

type coordinate struct {
	Lat float64 `validate:"latitude"`
	Lon float64 `validate:"longitude"`
}

func parseCoordinate(row Row) (coordinate, bool) {
	lat, okLat := parseFloat(row.first("latitude", "lat", "user_lat"))
	lon, okLon := parseFloat(row.first("longitude", "lon", "lng", "user_lon"))
	if !okLat || !okLon {
		return coordinate{}, false
	}
	c := coordinate{Lat: lat, Lon: lon}
	if err := validation.ValidateStruct(&c); err != nil {
		return coordinate{}, false
	}
	return c, true
}

func normalizeLocation(row Row, log zerolog.Logger) *models.LocationRecord {
	if row == nil {
		return nil
	}
	c, ok := parseCoordinate(row)
	if !ok {
		log.Debug().Msg("Location row has no usable coordinate")
		return nil
	}
	return &models.LocationRecord{
		Latitude:   c.Lat,
		Longitude:  c.Lon,
		ResolvedAt: parseTime(row.first(LocationTimestampColumns...)),
	}
}

func normalizeWeather(row Row) *models.WeatherRecord {
	if row == nil {
		return nil
	}
	rec := &models.WeatherRecord{
		Timestamp: parseTime(row.first(WeatherTimestampColumns...)),
		Category:  models.ParseWeatherCategory(row.first("weather_category", "category")),
	}
	if v, ok := parseFloat(row.first("temperature_c")); ok {
		rec.TemperatureC = &v
	}
	if v, ok := parseFloat(row.first("weather_code")); ok {
		code := int(v)
		rec.Code = &code
		if rec.Category == models.WeatherUnknown {
			rec.Category = CategoryFromWMO(code)
		}
	}
	if v := row.first("weather_ok"); v != "" {
		ok := IsTruthy(v)
		rec.OK = &ok
	}
	return rec
}

func normalizePlace(row Row) (models.Place, bool) {
	p := models.Place{
		ID:         row.first("location_id", "id"),
		Name:       row.first("location_name", "name"),
		Category:   row.first("category", "location_category"),
		Address:    row.first("address"),
		MapLink:    row.first("google_maps_link", "map_link"),
		IsActive:   IsTruthy(row.first("is_active")),
		CrowdLevel: strings.ToLower(row.first("crowd_level")),
	}
	c, ok := parseCoordinate(row)
	if !ok {
		return p, false
	}
	p.Latitude, p.Longitude = c.Lat, c.Lon
	if err := validation.ValidateStruct(&p); err != nil {
		return p, false
	}
	return p, true
}

// CategoryFromWMO maps a WMO weather interpretation code to a category:
// below 3 clear, below 60 cloudy, below 80 rain, otherwise storm.
func CategoryFromWMO(code int) models.WeatherCategory {
	switch {
	case code < 0:
		return models.WeatherUnknown
	case code < 3:
		return models.WeatherClear
	case code < 60:
		return models.WeatherCloudy
	case code < 80:
		return models.WeatherRain
	default:
		return models.WeatherStorm
	}
}

// IsTruthy reports whether s spells true. Anything else, including an empty
// or unparseable value, is false.
func IsTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "t", "1.0":
		return true
	default:
		return false
	}
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// parseTime accepts ISO-8601 variants written by pandas and DuckDB.
// Timestamps without a zone are read as UTC. Unparseable values yield zero time.
func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
