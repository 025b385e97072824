// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

package decision

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/touchgrass/internal/config"
	"github.com/tomtom215/touchgrass/internal/geo"
	"github.com/tomtom215/touchgrass/internal/logging"
	"github.com/tomtom215/touchgrass/internal/metrics"
	"github.com/tomtom215/touchgrass/internal/models"
	"github.com/tomtom215/touchgrass/internal/snapshot"
)

// DistanceEstimator fills in candidate distances from an optional origin.
// Candidates it cannot measure are left out of the result.
type DistanceEstimator interface {
	Estimate(ctx context.Context, origin *geo.Point, candidates []models.Candidate) ([]models.Candidate, error)
}

// Engine runs one decision cycle over a normalized snapshot.
// It holds no state between cycles. Evaluate is safe for concurrent use once
// construction (including any SetClock call) is complete.
type Engine struct {
	rules     *config.Rules
	evaluator *Evaluator
	cooldown  *CooldownGate
	estimator DistanceEstimator
	scorer    Scorer
	gate      *Gate
	now       func() time.Time
	logger    zerolog.Logger
}

// NewEngine validates rules and wires the components. A nil estimator
// falls back to great-circle distances.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEngine(rules *config.Rules, estimator DistanceEstimator, logger zerolog.Logger) (*Engine, error) {
	if rules == nil {
		return nil, fmt.Errorf("rules are required")
	}
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}

	scorer, err := NewScorer(rules)
	if err != nil {
		return nil, err
	}
	if estimator == nil {
		estimator = geo.NewEstimator(&rules.Distance, nil, 1, logger)
	}

	return &Engine{
		rules:     rules,
		evaluator: NewEvaluator(rules),
		cooldown:  NewCooldownGate(rules),
		estimator: estimator,
		scorer:    scorer,
		gate:      NewGate(rules),
		now:       time.Now,
		logger:    logger.With().Str("component", "decision").Logger(),
	}, nil
}

// SetClock replaces the time source for tests and replays. It must be called
// before the engine is shared and never concurrently with Evaluate.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// Evaluate renders the payload for one cycle. prior is the last prompt, or
// nil if the user was never prompted. The only error is context cancellation
// during distance estimation.
func (e *Engine) Evaluate(ctx context.Context, snap *snapshot.Snapshot, prior *models.PriorDecision) (*models.Payload, error) {
	now := e.now()
	log := logging.CtxWith(ctx, e.logger)

	c := e.evaluator.Evaluate(snap, now)

	var origin *geo.Point
	if lat, lon, ok := c.Origin(); ok {
		origin = &geo.Point{Lat: lat, Lon: lon}
	}

	cd := e.cooldown.Check(now, prior, origin)
	c.CooldownActive = cd.Active

	active := ActiveCandidates(snap.Places)
	metrics.SetCandidates("catalog", len(snap.Places))
	metrics.SetCandidates("active", len(active))

	measured, err := e.estimator.Estimate(ctx, origin, active)
	if err != nil {
		return nil, fmt.Errorf("estimating distances: %w", err)
	}
	for i := range measured {
		measured[i].PriorityScore = e.scorer.Score(ScoreInput{
			DistanceKM: measured[i].DistanceKM,
			Category:   measured[i].Category,
			CrowdLevel: measured[i].CrowdLevel,
			Weather:    c.WeatherCategory,
		})
	}
	metrics.SetCandidates("scored", len(measured))

	ranked := Rank(measured, e.rules.Recommendation.MaxResults)
	metrics.SetCandidates("ranked", len(ranked))

	d := e.gate.Decide(&c, cd, ranked)
	metrics.RecordDecision(string(d.Reason))

	ev := log.Info().
		Str("reason", string(d.Reason)).
		Bool("should_go_out", d.ShouldGoOut).
		Int("screen_time_minutes", c.ScreenTimeMinutes).
		Str("screen_time_level", string(c.ScreenTimeLevel)).
		Str("weather", string(c.WeatherCategory)).
		Bool("cooldown", cd.Active).
		Int("candidates", len(measured)).
		Str("strategy", e.scorer.Name())
	if d.Score != nil {
		ev = ev.Float64("top_score", *d.Score)
	}
	ev.Msg("Decision rendered")

	return &models.Payload{
		GeneratedAt:     now.UTC(),
		Context:         c,
		Decision:        d,
		Recommendations: ranked,
	}, nil
}
