// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

// Package pipeline runs one decision cycle end to end: read the staged
// inputs, normalize them, evaluate, and persist the payload.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/touchgrass/internal/logging"
	"github.com/tomtom215/touchgrass/internal/metrics"
	"github.com/tomtom215/touchgrass/internal/models"
	"github.com/tomtom215/touchgrass/internal/snapshot"
	"github.com/tomtom215/touchgrass/internal/source"
	"github.com/tomtom215/touchgrass/internal/store"
)

// ErrCycleAborted wraps every cycle-fatal condition. No payload is written
// when a cycle aborts.
var ErrCycleAborted = errors.New("decision cycle aborted")

// Evaluator renders a payload from a snapshot and the prior prompt.
type Evaluator interface {
	Evaluate(ctx context.Context, snap *snapshot.Snapshot, prior *models.PriorDecision) (*models.Payload, error)
}

// Store is the part of store.PayloadStore a cycle needs.
type Store interface {
	Save(ctx context.Context, p *models.Payload) (string, error)
	LatestPrompt(ctx context.Context) (*models.Payload, error)
}

// Result describes a completed cycle.
type Result struct {
	CorrelationID string
	Artifact      string
	Payload       *models.Payload
	Duration      time.Duration
}

// Runner executes decision cycles one at a time.
type Runner struct {
	source source.Source
	engine Evaluator
	store  Store
	logger zerolog.Logger

	mu sync.Mutex
}

// NewRunner wires a runner.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRunner(src source.Source, engine Evaluator, st Store, logger zerolog.Logger) *Runner {
	return &Runner{
		source: src,
		engine: engine,
		store:  st,
		logger: logger.With().Str("component", "pipeline").Logger(),
	}
}

// RunOnce executes one cycle. Concurrent callers are serialized so cycles
// never overlap. Errors wrap ErrCycleAborted.
func (r *Runner) RunOnce(ctx context.Context) (*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctx = logging.ContextWithNewCorrelationID(ctx)
	cid := logging.CorrelationIDFromContext(ctx)
	log := r.logger.With().Str("correlation_id", cid).Logger()
	ctx = logging.ContextWithLogger(ctx, log)

	start := time.Now()
	res, err := r.run(ctx, log)
	elapsed := time.Since(start)

	if err != nil {
		metrics.RecordCycle("aborted", elapsed)
		log.Error().Err(err).Dur("duration", elapsed).Msg("Decision cycle aborted")
		return nil, fmt.Errorf("%w: %w", ErrCycleAborted, err)
	}

	metrics.RecordCycle("success", elapsed)
	res.CorrelationID = cid
	res.Duration = elapsed
	log.Info().
		Str("artifact", res.Artifact).
		Str("reason", string(res.Payload.Decision.Reason)).
		Dur("duration", elapsed).
		Msg("Decision cycle complete")
	return res, nil
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func (r *Runner) run(ctx context.Context, log zerolog.Logger) (*Result, error) {
	raw, err := r.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading inputs: %w", err)
	}

	snap := snapshot.Normalize(raw, log)
	if len(snap.Places) == 0 {
		return nil, fmt.Errorf("normalizing inputs: %w", source.ErrNoPlaces)
	}

	prior, err := r.prior(ctx, log)
	if err != nil {
		return nil, err
	}

	payload, err := r.engine.Evaluate(ctx, snap, prior)
	if err != nil {
		return nil, fmt.Errorf("evaluating: %w", err)
	}

	name, err := r.store.Save(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("saving payload: %w", err)
	}

	return &Result{Artifact: name, Payload: payload}, nil
}

// prior returns the last prompting decision. A missing or unreadable one
// degrades to nil; only cancellation is fatal.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func (r *Runner) prior(ctx context.Context, log zerolog.Logger) (*models.PriorDecision, error) {
	last, err := r.store.LatestPrompt(ctx)
	switch {
	case err == nil:
		return models.PriorFromPayload(last), nil
	case errors.Is(err, store.ErrNotFound):
		log.Debug().Msg("No prior prompt, cooldown starts fresh")
		return nil, nil
	case ctx.Err() != nil:
		return nil, ctx.Err()
	default:
		log.Warn().Err(err).Msg("Prior prompt unreadable, evaluating without cooldown history")
		return nil, nil
	}
}
