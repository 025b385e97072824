// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

package geo

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/touchgrass/internal/config"
	"github.com/tomtom215/touchgrass/internal/metrics"
	"github.com/tomtom215/touchgrass/internal/models"
)

// distancePrecision is the number of decimals kept on a candidate distance.
const distancePrecision = 3

// Estimator fills in Candidate.DistanceKM.
type Estimator struct {
	rules       *config.DistanceRules
	router      Router
	concurrency int
	logger      zerolog.Logger
}

// NewEstimator returns an Estimator. router may be nil in haversine mode.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEstimator(rules *config.DistanceRules, router Router, concurrency int, logger zerolog.Logger) *Estimator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Estimator{
		rules:       rules,
		router:      router,
		concurrency: concurrency,
		logger:      logger.With().Str("component", "distance").Logger(),
	}
}

// Estimate returns candidates with DistanceKM set, preserving input order.
//
// With no origin every candidate is returned with a nil distance. In routed
// mode a candidate whose lookup fails is dropped unless fallback is enabled.
// Only context cancellation is returned as an error.
func (e *Estimator) Estimate(ctx context.Context, origin *Point, candidates []models.Candidate) ([]models.Candidate, error) {
	out := make([]models.Candidate, len(candidates))
	copy(out, candidates)

	if origin == nil {
		for i := range out {
			out[i].DistanceKM = nil
		}
		return out, nil
	}

	if e.rules.Mode != config.DistanceModeRouted || e.router == nil {
		for i := range out {
			km := roundTo(HaversineKM(*origin, Point{Lat: out[i].Latitude, Lon: out[i].Longitude}), distancePrecision)
			out[i].DistanceKM = &km
		}
		return out, nil
	}

	ok := make([]bool, len(out))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i := range out {
		g.Go(func() error {
			dest := Point{Lat: out[i].Latitude, Lon: out[i].Longitude}
			km, err := e.router.RouteKM(gctx, *origin, dest)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if !e.rules.FallbackHaversine {
					metrics.RecordCandidateError("route_failed")
					e.logger.Warn().Err(err).Str("place_id", out[i].ID).Msg("Route lookup failed, excluding candidate")
					return nil
				}
				metrics.RecordCandidateError("route_fallback")
				e.logger.Warn().Err(err).Str("place_id", out[i].ID).Msg("Route lookup failed, using great-circle distance")
				km = HaversineKM(*origin, dest)
			}
			km = roundTo(km, distancePrecision)
			out[i].DistanceKM = &km
			ok[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	kept := out[:0]
	for i := range out {
		if ok[i] {
			kept = append(kept, out[i])
		}
	}
	return kept, nil
}
