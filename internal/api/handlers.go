// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

package api

import (
	"context"
	"time"

	"github.com/tomtom215/touchgrass/internal/models"
	"github.com/tomtom215/touchgrass/internal/pipeline"
)

// PayloadReader reads stored decision payloads.
type PayloadReader interface {
	Latest(ctx context.Context) (*models.Payload, error)
}

// CycleRunner runs one decision cycle on demand.
type CycleRunner interface {
	RunOnce(ctx context.Context) (*pipeline.Result, error)
}

// Pinger is a dependency reported by /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the HTTP endpoints.
type Handler struct {
	payloads  PayloadReader
	runner    CycleRunner
	checks    map[string]Pinger
	timeout   time.Duration
	startTime time.Time
}

// NewHandler creates a Handler. runner may be nil, which disables the
// trigger endpoint. checks are reported by name on /health.
func NewHandler(payloads PayloadReader, runner CycleRunner, checks map[string]Pinger, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Handler{
		payloads:  payloads,
		runner:    runner,
		checks:    checks,
		timeout:   timeout,
		startTime: time.Now(),
	}
}
