// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

package decision

import (
	"fmt"
	"math"
	"strings"

	"github.com/tomtom215/touchgrass/internal/config"
	"github.com/tomtom215/touchgrass/internal/models"
)

// MaxScore is the upper bound of a priority score.
const MaxScore = 10.0

// unknownKey is the lookup key used when a crowd or weather value is absent.
const unknownKey = "unknown"

// ScoreInput is everything a Scorer may look at.
type ScoreInput struct {
	DistanceKM *float64
	Category   string
	CrowdLevel string
	Weather    models.WeatherCategory
}

// Scorer maps a candidate into a score in [0, MaxScore].
// Implementations must be pure: equal inputs give equal scores.
type Scorer interface {
	Score(in ScoreInput) float64
	Name() string
}

// NewScorer returns the Scorer selected by rules.scoring.strategy.
func NewScorer(rules *config.Rules) (Scorer, error) {
	base := newComponents(rules)
	switch rules.Scoring.Strategy {
	case config.StrategyWeightedSum, "":
		return &WeightedSum{components: base}, nil
	case config.StrategyMultiplicative:
		return &Multiplicative{components: base}, nil
	default:
		return nil, fmt.Errorf("unknown scoring strategy %q", rules.Scoring.Strategy)
	}
}

// components holds the normalized [0,1] component functions shared by all strategies.
type components struct {
	weights         config.Weights
	distance        *config.DistanceRules
	category        map[string]float64
	defaultCategory float64
	crowd           map[string]float64
	weather         map[string]float64
	precision       int
}

func newComponents(rules *config.Rules) components {
	s := rules.Scoring
	return components{
		weights:         s.Weights,
		distance:        &rules.Distance,
		category:        lowerKeys(s.CategoryScore),
		defaultCategory: s.DefaultCategoryScore,
		crowd:           lowerKeys(s.CrowdScore),
		weather:         lowerKeys(s.WeatherScore),
		precision:       s.Precision,
	}
}

func lowerKeys(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return out
}

// distanceScore is 1 at or below near_km and 0 at or beyond far_km, linear
// in between. A non-empty band table replaces the linear decay.
func (c *components) distanceScore(km *float64) float64 {
	d := c.distance.UnknownKM
	if km != nil {
		d = *km
	}

	if len(c.distance.Bands) > 0 {
		for _, b := range c.distance.Bands {
			if d <= b.MaxKM {
				return b.Score
			}
		}
		return 0
	}

	switch {
	case d <= c.distance.NearKM:
		return 1
	case d >= c.distance.FarKM:
		return 0
	default:
		return 1 - (d-c.distance.NearKM)/(c.distance.FarKM-c.distance.NearKM)
	}
}

// categoryScore never returns zero for an unknown category.
func (c *components) categoryScore(category string) float64 {
	if v, ok := c.category[strings.ToLower(strings.TrimSpace(category))]; ok {
		return v
	}
	return c.defaultCategory
}

func (c *components) crowdScore(level string) float64 {
	return lookup(c.crowd, level)
}

func (c *components) weatherScore(w models.WeatherCategory) float64 {
	return lookup(c.weather, string(w))
}

// lookup falls back to the "unknown" entry, then to 0.
func lookup(table map[string]float64, key string) float64 {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		key = unknownKey
	}
	if v, ok := table[key]; ok {
		return v
	}
	return table[unknownKey]
}

// finish scales a [0,1] value to the score range, clamps and rounds it.
func (c *components) finish(unit float64) float64 {
	v := unit * MaxScore
	if math.IsNaN(v) || v < 0 {
		v = 0
	}
	if v > MaxScore {
		v = MaxScore
	}
	p := math.Pow(10, float64(c.precision))
	return math.Round(v*p) / p
}

// WeightedSum is the canonical strategy: a weighted sum of the four
// normalized components, scaled to [0, 10].
type WeightedSum struct {
	components
}

// Name returns the strategy name.
func (*WeightedSum) Name() string { return config.StrategyWeightedSum }

// Score implements Scorer.
func (s *WeightedSum) Score(in ScoreInput) float64 {
	w := s.weights
	return s.finish(w.Distance*s.distanceScore(in.DistanceKM) +
		w.Category*s.categoryScore(in.Category) +
		w.Crowd*s.crowdScore(in.CrowdLevel) +
		w.Weather*s.weatherScore(in.Weather))
}

// Multiplicative combines distance and category by their relative weights
// and suppresses the result with the weather score as a multiplier.
// Crowd level is ignored.
type Multiplicative struct {
	components
}

// Name returns the strategy name.
func (*Multiplicative) Name() string { return config.StrategyMultiplicative }

// Score implements Scorer.
func (s *Multiplicative) Score(in ScoreInput) float64 {
	w := s.weights
	denom := w.Distance + w.Category
	if denom <= 0 {
		return 0
	}
	base := (w.Distance*s.distanceScore(in.DistanceKM) + w.Category*s.categoryScore(in.Category)) / denom
	return s.finish(base * s.weatherScore(in.Weather))
}
