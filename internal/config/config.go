// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

package config

import (
	"time"
)

// Config holds all application configuration.
type Config struct {
	Rules     Rules           `koanf:"rules"`
	Source    SourceConfig    `koanf:"source"`
	Database  DatabaseConfig  `koanf:"database"`
	Storage   StorageConfig   `koanf:"storage"`
	Routing   RoutingConfig   `koanf:"routing"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// Rules is the complete decision policy.
type Rules struct {
	ScreenTime     ScreenTimeRules     `koanf:"screen_time"`
	UserActivity   UserActivityRules   `koanf:"user_activity"`
	Cooldown       CooldownRules       `koanf:"cooldown"`
	Distance       DistanceRules       `koanf:"distance"`
	Scoring        ScoringRules        `koanf:"scoring"`
	Recommendation RecommendationRules `koanf:"recommendation"`
	Decision       DecisionRules       `koanf:"decision"`
	Weather        WeatherRules        `koanf:"weather"`
}

// ScreenTimeRules holds the level thresholds.
type ScreenTimeRules struct {
	Thresholds Thresholds `koanf:"thresholds_minutes"`
}

// Thresholds are minimum minutes for each level, strictly increasing.
type Thresholds struct {
	Medium   int `koanf:"medium" validate:"gt=0"`
	High     int `koanf:"high" validate:"gt=0"`
	Critical int `koanf:"critical" validate:"gt=0"`
}

// Window modes for the active-hours check.
const (
	WindowModeClock   = "clock"
	WindowModeLexical = "lexical"
)

// UserActivityRules controls when prompts are allowed.
type UserActivityRules struct {
	ActiveHours ActiveHours `koanf:"active_hours"`

	// WindowMode is "clock" (minutes since midnight, wrap-around allowed)
	// or "lexical" (HH:MM string comparison, never crosses midnight).
	WindowMode string `koanf:"window_mode" validate:"oneof=clock lexical"`

	// Timezone is the IANA zone used to read the local clock.
	Timezone string `koanf:"timezone" validate:"iana_tz"`
}

// ActiveHours is an inclusive [Start, End] window of HH:MM strings.
type ActiveHours struct {
	Start string `koanf:"start" validate:"required,hhmm"`
	End   string `koanf:"end" validate:"required,hhmm"`
}

// Location resolves Timezone. Invalid names are rejected by Validate.
func (u *UserActivityRules) Location() *time.Location {
	switch u.Timezone {
	case "", "Local":
		return time.Local
	case "UTC":
		return time.UTC
	}
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// CooldownRules controls repeat-prompt suppression.
type CooldownRules struct {
	Minutes         int     `koanf:"minutes" validate:"gte=0"`
	ResetDistanceKM float64 `koanf:"reset_distance_km" validate:"gte=0"`
}

// Window returns the cooldown window as a duration.
func (c *CooldownRules) Window() time.Duration {
	return time.Duration(c.Minutes) * time.Minute
}

// Distance modes.
const (
	DistanceModeHaversine = "haversine"
	DistanceModeRouted    = "routed"
)

// DistanceRules controls distance estimation and the distance score component.
type DistanceRules struct {
	Mode string `koanf:"mode" validate:"oneof=haversine routed"`

	// NearKM and FarKM bound the linear decay: 1.0 at or below near, 0 at or above far.
	NearKM float64 `koanf:"near_km" validate:"gte=0"`
	FarKM  float64 `koanf:"far_km" validate:"gt=0"`

	// UnknownKM is the sentinel distance used to score candidates without one.
	UnknownKM float64 `koanf:"unknown_km" validate:"gt=0"`

	// Bands replaces linear decay when non-empty. Ordered by MaxKM ascending.
	Bands []DistanceBand `koanf:"bands" validate:"dive"`

	// FallbackHaversine keeps a candidate whose route lookup failed, using
	// the great-circle distance instead of excluding it.
	FallbackHaversine bool `koanf:"fallback_haversine"`
}

// DistanceBand scores every distance up to MaxKM.
type DistanceBand struct {
	MaxKM float64 `koanf:"max_km" validate:"gt=0"`
	Score float64 `koanf:"score" validate:"gte=0,lte=1"`
}

// Scoring strategies.
const (
	StrategyWeightedSum    = "weighted_sum"
	StrategyMultiplicative = "multiplicative"
)

// ScoringRules controls the priority scorer.
type ScoringRules struct {
	Strategy string  `koanf:"strategy" validate:"oneof=weighted_sum multiplicative"`
	Weights  Weights `koanf:"weights"`

	CategoryScore        map[string]float64 `koanf:"category_score"`
	DefaultCategoryScore float64            `koanf:"default_category_score" validate:"gt=0,lte=1"`
	CrowdScore           map[string]float64 `koanf:"crowd_score"`
	WeatherScore         map[string]float64 `koanf:"weather_score"`

	// Precision is the number of decimal digits kept in a score.
	Precision int `koanf:"precision" validate:"gte=2,lte=3"`
}

// Weights of the four score components. They must sum to 1.0.
type Weights struct {
	Distance float64 `koanf:"distance" validate:"gte=0,lte=1"`
	Category float64 `koanf:"category" validate:"gte=0,lte=1"`
	Crowd    float64 `koanf:"crowd" validate:"gte=0,lte=1"`
	Weather  float64 `koanf:"weather" validate:"gte=0,lte=1"`
}

// Sum returns the total weight.
func (w Weights) Sum() float64 {
	return w.Distance + w.Category + w.Crowd + w.Weather
}

// RecommendationRules controls how many candidates are shown and when.
type RecommendationRules struct {
	MaxResults         int     `koanf:"max_results" validate:"gte=1"`
	RecommendThreshold float64 `koanf:"recommend_threshold" validate:"gte=0,lte=10"`
}

// Screen-time gate policies.
const (
	ScreenTimePolicyNumeric     = "numeric"
	ScreenTimePolicyCategorical = "categorical"
)

// DecisionRules selects the gate variants.
type DecisionRules struct {
	ScreenTimePolicy string `koanf:"screen_time_policy" validate:"oneof=numeric categorical"`
	WeatherGate      bool   `koanf:"weather_gate"`
	RequireLocation  bool   `koanf:"require_location"`
}

// WeatherRules controls weather suitability.
type WeatherRules struct {
	// UnknownOK treats an unknown weather category as suitable.
	UnknownOK bool `koanf:"unknown_ok"`
}

// SourceConfig locates the normalized upstream datasets.
type SourceConfig struct {
	// SilverDir holds screen_time.csv, user_location.csv, weather.csv, places.csv.
	SilverDir string `koanf:"silver_dir" validate:"required"`

	// S3Prefix, when set, downloads the silver files from object storage
	// into SilverDir before each read.
	S3Prefix string `koanf:"s3_prefix"`
}

// DatabaseConfig configures the embedded DuckDB used to query staged data.
type DatabaseConfig struct {
	Path    string `koanf:"path"`
	Threads int    `koanf:"threads" validate:"gte=0"`
}

// Storage backends.
const (
	StorageBackendS3     = "s3"
	StorageBackendBadger = "badger"
)

// StorageConfig selects where decision payloads are written.
type StorageConfig struct {
	Backend string       `koanf:"backend" validate:"oneof=s3 badger"`
	S3      S3Config     `koanf:"s3"`
	Badger  BadgerConfig `koanf:"badger"`
}

// S3Config configures an S3 or MinIO bucket.
type S3Config struct {
	Bucket    string `koanf:"bucket"`
	Region    string `koanf:"region"`
	Endpoint  string `koanf:"endpoint" validate:"omitempty,url"`
	Prefix    string `koanf:"prefix"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
}

// BadgerConfig configures the local payload store.
type BadgerConfig struct {
	Path string `koanf:"path"`
}

// RoutingConfig configures the OpenRouteService client used in routed mode.
type RoutingConfig struct {
	BaseURL       string        `koanf:"base_url" validate:"omitempty,url"`
	APIKey        string        `koanf:"api_key"`
	Profile       string        `koanf:"profile" validate:"required"`
	Timeout       time.Duration `koanf:"timeout" validate:"gt=0"`
	RetryAttempts uint          `koanf:"retry_attempts" validate:"gte=1,lte=10"`
	RatePerSecond float64       `koanf:"rate_per_second" validate:"gte=0"`
	CacheTTL      time.Duration `koanf:"cache_ttl" validate:"gte=0"`
	CacheSize     int           `koanf:"cache_size" validate:"gte=1"`
	Concurrency   int           `koanf:"concurrency" validate:"gte=1,lte=64"`
}

// SchedulerConfig controls the periodic decision cycle.
type SchedulerConfig struct {
	Interval     time.Duration `koanf:"interval" validate:"gte=1s"`
	RunOnStartup bool          `koanf:"run_on_startup"`
	CycleTimeout time.Duration `koanf:"cycle_timeout" validate:"gt=0"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port    int           `koanf:"port" validate:"gte=1,lte=65535"`
	Host    string        `koanf:"host"`
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
}

// SecurityConfig holds HTTP-facing protection settings.
type SecurityConfig struct {
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs" validate:"gte=1"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window" validate:"gt=0"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}
