// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/touchgrass/internal/pipeline"
)

// CycleRunner runs one decision cycle. *pipeline.Runner satisfies it.
type CycleRunner interface {
	RunOnce(ctx context.Context) (*pipeline.Result, error)
}

// DecisionServiceConfig controls the schedule.
type DecisionServiceConfig struct {
	// Interval between cycles. Non-positive means 15 minutes.
	Interval time.Duration

	// RunOnStartup runs a cycle as soon as the service starts.
	RunOnStartup bool

	// CycleTimeout bounds a single cycle. Non-positive means 2 minutes.
	CycleTimeout time.Duration
}

const (
	defaultCycleInterval = 15 * time.Minute
	defaultCycleTimeout  = 2 * time.Minute
)

// DecisionService runs the decision cycle on a fixed interval.
//
// An aborted cycle is logged and the schedule continues: missing inputs are
// expected between upstream refreshes, and a restart would not fix them.
type DecisionService struct {
	runner CycleRunner
	config DecisionServiceConfig
	logger zerolog.Logger
}

// NewDecisionService creates the service.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewDecisionService(runner CycleRunner, cfg DecisionServiceConfig, logger zerolog.Logger) *DecisionService {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultCycleInterval
	}
	if cfg.CycleTimeout <= 0 {
		cfg.CycleTimeout = defaultCycleTimeout
	}
	return &DecisionService{
		runner: runner,
		config: cfg,
		logger: logger.With().Str("service", "decision").Logger(),
	}
}

// Serve implements suture.Service.
func (s *DecisionService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("run_on_startup", s.config.RunOnStartup).
		Dur("interval", s.config.Interval).
		Msg("Decision scheduler starting")

	if s.config.RunOnStartup {
		s.cycle(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Decision scheduler stopping")
			return ctx.Err()
		case <-ticker.C:
			s.cycle(ctx)
		}
	}
}

func (s *DecisionService) cycle(ctx context.Context) {
	cycleCtx, cancel := context.WithTimeout(ctx, s.config.CycleTimeout)
	defer cancel()

	res, err := s.runner.RunOnce(cycleCtx)
	switch {
	case err == nil:
		s.logger.Info().
			Str("cycle_correlation_id", res.CorrelationID).
			Str("artifact", res.Artifact).
			Bool("should_go_out", res.Payload.Decision.ShouldGoOut).
			Str("reason", string(res.Payload.Decision.Reason)).
			Dur("duration", res.Duration).
			Msg("Scheduled decision cycle completed")
	case ctx.Err() != nil:
		// Shutdown in progress.
	case errors.Is(err, context.DeadlineExceeded):
		s.logger.Error().Err(err).Dur("timeout", s.config.CycleTimeout).Msg("Scheduled decision cycle timed out")
	default:
		s.logger.Warn().Err(err).Msg("Scheduled decision cycle aborted")
	}
}

// String names the service in supervisor events.
func (s *DecisionService) String() string {
	return "decision-scheduler"
}
