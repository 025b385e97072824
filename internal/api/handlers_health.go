// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/tomtom215/touchgrass/internal/models"
)

// HealthStatus reports dependency reachability.
type HealthStatus struct {
	Status string          `json:"status"`
	Checks map[string]bool `json:"checks"`
	Uptime float64         `json:"uptime_seconds"`
}

// healthCheckTimeout bounds each dependency probe.
const healthCheckTimeout = 5 * time.Second

// Health answers 200 when every dependency responds and 503 otherwise.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	health := HealthStatus{
		Status: "healthy",
		Checks: make(map[string]bool, len(names)),
		Uptime: time.Since(h.startTime).Seconds(),
	}
	for _, name := range names {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		err := h.checks[name].Ping(ctx)
		cancel()

		health.Checks[name] = err == nil
		if err != nil {
			health.Status = "degraded"
		}
	}

	status := http.StatusOK
	if health.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}

	respondJSON(w, nil, status, models.NewSuccess(health, time.Time{}))
}

// HealthLive reports that the process is up.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, nil, http.StatusOK, models.NewSuccess(map[string]any{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, time.Time{}))
}
