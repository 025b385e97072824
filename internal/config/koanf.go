// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config file locations searched in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/touchgrass/config.yaml",
	"/etc/touchgrass/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultRules returns the built-in decision policy.
func DefaultRules() Rules {
	return Rules{
		ScreenTime: ScreenTimeRules{
			Thresholds: Thresholds{Medium: 180, High: 300, Critical: 480},
		},
		UserActivity: UserActivityRules{
			ActiveHours: ActiveHours{Start: "07:00", End: "22:00"},
			WindowMode:  WindowModeClock,
			Timezone:    "Local",
		},
		Cooldown: CooldownRules{
			Minutes:         120,
			ResetDistanceKM: 0.1,
		},
		Distance: DistanceRules{
			Mode:      DistanceModeHaversine,
			NearKM:    0.5,
			FarKM:     10,
			UnknownKM: 9999,
		},
		Scoring: ScoringRules{
			Strategy: StrategyWeightedSum,
			Weights:  Weights{Distance: 0.4, Category: 0.3, Crowd: 0.1, Weather: 0.2},
			CategoryScore: map[string]float64{
				"park":       1.0,
				"nature":     1.0,
				"trail":      0.9,
				"beach":      0.9,
				"garden":     0.85,
				"playground": 0.7,
				"sports":     0.7,
				"viewpoint":  0.7,
				"plaza":      0.5,
				"cafe":       0.3,
				"museum":     0.2,
				"shopping":   0.1,
			},
			DefaultCategoryScore: 0.2,
			CrowdScore: map[string]float64{
				"low":     1.0,
				"medium":  0.6,
				"high":    0.2,
				"unknown": 0.5,
			},
			WeatherScore: map[string]float64{
				"clear":   1.0,
				"cloudy":  0.8,
				"rain":    0.2,
				"storm":   0.0,
				"unknown": 0.4,
			},
			Precision: 2,
		},
		Recommendation: RecommendationRules{
			MaxResults:         10,
			RecommendThreshold: 3.5,
		},
		Decision: DecisionRules{
			ScreenTimePolicy: ScreenTimePolicyNumeric,
			WeatherGate:      true,
			RequireLocation:  true,
		},
	}
}

// defaultConfig returns a Config with all defaults applied.
func defaultConfig() *Config {
	return &Config{
		Rules: DefaultRules(),
		Source: SourceConfig{
			SilverDir: "/data/silver",
		},
		Database: DatabaseConfig{
			Path:    ":memory:",
			Threads: 0,
		},
		Storage: StorageConfig{
			Backend: StorageBackendBadger,
			S3: S3Config{
				Region: "us-east-1",
				Prefix: "gold/recommendations",
			},
			Badger: BadgerConfig{
				Path: "/data/payloads",
			},
		},
		Routing: RoutingConfig{
			BaseURL:       "https://api.openrouteservice.org",
			Profile:       "driving-car",
			Timeout:       15 * time.Second,
			RetryAttempts: 3,
			RatePerSecond: 1,
			CacheTTL:      30 * time.Minute,
			CacheSize:     10000,
			Concurrency:   4,
		},
		Scheduler: SchedulerConfig{
			Interval:     15 * time.Minute,
			RunOnStartup: true,
			CycleTimeout: 2 * time.Minute,
		},
		Server: ServerConfig{
			Port:    8080,
			Host:    "0.0.0.0",
			Timeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   10,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load reads configuration from defaults, an optional YAML file and the
// environment, in that order of precedence, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	fillScoreTables(&cfg.Rules.Scoring)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// fillScoreTables adds built-in entries missing from the configured lookup
// tables. A file that sets category_score replaces the whole map in koanf,
// so defaults are merged back key by key here.
func fillScoreTables(s *ScoringRules) {
	defaults := DefaultRules().Scoring
	s.CategoryScore = mergeTable(s.CategoryScore, defaults.CategoryScore)
	s.CrowdScore = mergeTable(s.CrowdScore, defaults.CrowdScore)
	s.WeatherScore = mergeTable(s.WeatherScore, defaults.WeatherScore)
}

func mergeTable(configured, defaults map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(configured)+len(defaults))
	for k, v := range defaults {
		out[strings.ToLower(k)] = v
	}
	for k, v := range configured {
		out[strings.ToLower(k)] = v
	}
	return out
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to config paths.
// Variables not listed here are ignored.
var envMappings = map[string]string{
	// Screen time
	"screen_time_medium_minutes":   "rules.screen_time.thresholds_minutes.medium",
	"screen_time_high_minutes":     "rules.screen_time.thresholds_minutes.high",
	"screen_time_critical_minutes": "rules.screen_time.thresholds_minutes.critical",

	// Active hours
	"active_hours_start": "rules.user_activity.active_hours.start",
	"active_hours_end":   "rules.user_activity.active_hours.end",
	"active_hours_mode":  "rules.user_activity.window_mode",
	"tz_name":            "rules.user_activity.timezone",

	// Cooldown
	"cooldown_minutes":           "rules.cooldown.minutes",
	"cooldown_reset_distance_km": "rules.cooldown.reset_distance_km",

	// Distance and scoring
	"distance_mode":               "rules.distance.mode",
	"distance_near_km":            "rules.distance.near_km",
	"distance_far_km":             "rules.distance.far_km",
	"distance_fallback_haversine": "rules.distance.fallback_haversine",
	"scoring_strategy":            "rules.scoring.strategy",
	"scoring_precision":           "rules.scoring.precision",
	"max_results":                 "rules.recommendation.max_results",
	"top_n":                       "rules.recommendation.max_results",
	"recommend_threshold":         "rules.recommendation.recommend_threshold",
	"screen_time_policy":          "rules.decision.screen_time_policy",
	"weather_gate":                "rules.decision.weather_gate",
	"require_location":            "rules.decision.require_location",
	"weather_unknown_ok":          "rules.weather.unknown_ok",

	// Upstream data
	"silver_dir":       "source.silver_dir",
	"silver_s3_prefix": "source.s3_prefix",
	"duckdb_path":      "database.path",
	"duckdb_threads":   "database.threads",

	// Payload storage
	"storage_backend":  "storage.backend",
	"minio_bucket":     "storage.s3.bucket",
	"s3_bucket":        "storage.s3.bucket",
	"s3_region":        "storage.s3.region",
	"minio_endpoint":   "storage.s3.endpoint",
	"s3_endpoint":      "storage.s3.endpoint",
	"s3_prefix":        "storage.s3.prefix",
	"minio_access_key": "storage.s3.access_key",
	"minio_secret_key": "storage.s3.secret_key",
	"badger_path":      "storage.badger.path",

	// Routing
	"ors_base_url":        "routing.base_url",
	"ors_api_key":         "routing.api_key",
	"ors_profile":         "routing.profile",
	"ors_timeout":         "routing.timeout",
	"ors_retry_attempts":  "routing.retry_attempts",
	"ors_rate_per_second": "routing.rate_per_second",
	"ors_cache_ttl":       "routing.cache_ttl",
	"ors_cache_size":      "routing.cache_size",
	"ors_concurrency":     "routing.concurrency",

	// Scheduler
	"decision_interval":       "scheduler.interval",
	"decision_run_on_startup": "scheduler.run_on_startup",
	"decision_cycle_timeout":  "scheduler.cycle_timeout",

	// Server
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",

	// Security
	"cors_origins":      "security.cors_origins",
	"rate_limit_reqs":   "security.rate_limit_reqs",
	"rate_limit_window": "security.rate_limit_window",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to a koanf path.
//
//	COOLDOWN_MINUTES -> rules.cooldown.minutes
//	MINIO_BUCKET     -> storage.s3.bucket
//	HTTP_PORT        -> server.port
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
