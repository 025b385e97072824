// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/tomtom215/touchgrass/internal/validation"
)

// weightTolerance is the allowed deviation of the weight sum from 1.0.
const weightTolerance = 0.001

// Validate checks struct tags and every cross-field constraint.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}
	if err := c.Rules.Validate(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	return c.validateRouting()
}

// Validate checks the decision policy on its own. Components that receive
// Rules directly call this so that a hand-built value gets the same checks.
func (r *Rules) Validate() error {
	if err := validation.ValidateStruct(r); err != nil {
		return err
	}

	t := r.ScreenTime.Thresholds
	if t.Medium >= t.High || t.High >= t.Critical {
		return fmt.Errorf("rules.screen_time.thresholds_minutes must be strictly increasing (medium < high < critical), got %d/%d/%d",
			t.Medium, t.High, t.Critical)
	}

	d := r.Distance
	if d.NearKM >= d.FarKM {
		return fmt.Errorf("rules.distance.near_km must be less than far_km, got %f >= %f", d.NearKM, d.FarKM)
	}
	for i := 1; i < len(d.Bands); i++ {
		if d.Bands[i].MaxKM <= d.Bands[i-1].MaxKM {
			return fmt.Errorf("rules.distance.bands must be ordered by max_km ascending, band %d has %f after %f",
				i, d.Bands[i].MaxKM, d.Bands[i-1].MaxKM)
		}
	}

	s := r.Scoring
	if sum := s.Weights.Sum(); math.Abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("rules.scoring.weights must sum to 1.0, got %f", sum)
	}
	if s.Strategy == StrategyMultiplicative && s.Weights.Distance+s.Weights.Category <= 0 {
		return fmt.Errorf("rules.scoring.weights distance+category must be positive for the multiplicative strategy")
	}
	for name, table := range map[string]map[string]float64{
		"category_score": s.CategoryScore,
		"crowd_score":    s.CrowdScore,
		"weather_score":  s.WeatherScore,
	} {
		for key, v := range table {
			if v < 0 || v > 1 || math.IsNaN(v) {
				return fmt.Errorf("rules.scoring.%s[%s] must be between 0 and 1, got %f", name, key, v)
			}
		}
	}
	if len(s.WeatherScore) == 0 {
		return fmt.Errorf("rules.scoring.weather_score must not be empty")
	}
	if len(s.CrowdScore) == 0 {
		return fmt.Errorf("rules.scoring.crowd_score must not be empty")
	}

	return nil
}

func (c *Config) validateStorage() error {
	if c.Storage.Backend == StorageBackendS3 && strings.TrimSpace(c.Storage.S3.Bucket) == "" {
		return fmt.Errorf("storage.s3.bucket is required when storage.backend=s3")
	}
	if c.Storage.Backend == StorageBackendBadger && strings.TrimSpace(c.Storage.Badger.Path) == "" {
		return fmt.Errorf("storage.badger.path is required when storage.backend=badger")
	}
	if c.Source.S3Prefix != "" && strings.TrimSpace(c.Storage.S3.Bucket) == "" {
		return fmt.Errorf("storage.s3.bucket is required when source.s3_prefix is set")
	}
	return nil
}

func (c *Config) validateRouting() error {
	if c.Rules.Distance.Mode != DistanceModeRouted {
		return nil
	}
	if c.Routing.BaseURL == "" {
		return fmt.Errorf("routing.base_url is required when rules.distance.mode=routed")
	}
	if c.Routing.APIKey == "" {
		return fmt.Errorf("routing.api_key is required when rules.distance.mode=routed")
	}
	return nil
}
