// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/touchgrass/internal/logging"
	"github.com/tomtom215/touchgrass/internal/source"
	"github.com/tomtom215/touchgrass/internal/store"
)

// Recommendations serves the presentation view of the latest payload.
// Without any payload it answers 204 No Content.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	p, err := h.payloads.Latest(r.Context())
	if errors.Is(err, store.ErrNotFound) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		respondError(w, http.StatusBadGateway, "STORE_ERROR", "Failed to read latest recommendations", err)
		return
	}

	respondJSON(w, r, http.StatusOK, NewRecommendationsView(p))
}

// LatestDecision serves the latest raw payload.
func (h *Handler) LatestDecision(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	p, err := h.payloads.Latest(r.Context())
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "NO_DATA", "No decision available yet", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusBadGateway, "STORE_ERROR", "Failed to read latest decision", err)
		return
	}

	respondSuccess(w, r, p, start)
}

// RunResult is returned by the trigger endpoint.
type RunResult struct {
	CorrelationID string      `json:"correlation_id"`
	Artifact      string      `json:"artifact"`
	DurationMS    int64       `json:"duration_ms"`
	Payload       interface{} `json:"payload"`
}

// RunDecision runs one cycle synchronously.
func (h *Handler) RunDecision(w http.ResponseWriter, r *http.Request) {
	if h.runner == nil {
		respondError(w, http.StatusServiceUnavailable, "RUNNER_DISABLED", "Decision runner is not configured", nil)
		return
	}

	start := time.Now()
	// The cycle outlives a client disconnect; the handler timeout still bounds it.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), h.timeout)
	defer cancel()

	res, err := h.runner.RunOnce(ctx)
	if err != nil {
		status, code := http.StatusInternalServerError, "CYCLE_ABORTED"
		switch {
		case errors.Is(err, source.ErrNoScreenTime), errors.Is(err, source.ErrNoPlaces):
			status, code = http.StatusUnprocessableEntity, "MISSING_INPUT"
		case errors.Is(err, context.DeadlineExceeded):
			status, code = http.StatusGatewayTimeout, "CYCLE_TIMEOUT"
		}
		respondError(w, status, code, "Decision cycle aborted", err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("cycle_correlation_id", res.CorrelationID).
		Str("reason", string(res.Payload.Decision.Reason)).
		Msg("Manual decision cycle completed")

	respondSuccess(w, r, RunResult{
		CorrelationID: res.CorrelationID,
		Artifact:      res.Artifact,
		DurationMS:    res.Duration.Milliseconds(),
		Payload:       res.Payload,
	}, start)
}
