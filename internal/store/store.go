// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

// Package store persists decision payloads.
//
// Every payload is written as an immutable, uniquely named artifact
// (recommendations_YYYYMMDD_HHMMSS_<id>.json) and then copied to an
// overwritten latest pointer. Payloads that prompted the user are also
// copied to a last-prompt pointer, which the cooldown gate reads.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/touchgrass/internal/metrics"
	"github.com/tomtom215/touchgrass/internal/models"
)

// ErrNotFound is returned when no payload has been stored yet.
var ErrNotFound = errors.New("store: payload not found")

const (
	artifactPrefix   = "recommendations_"
	artifactSuffix   = ".json"
	latestName       = "latest.json"
	lastPromptName   = "last_prompt.json"
	artifactTimeForm = "20060102_150405"
)

// PayloadStore is implemented by every payload backend.
type PayloadStore interface {
	// Save writes p as a new artifact, updates the pointers and returns the
	// artifact name.
	Save(ctx context.Context, p *models.Payload) (string, error)

	// Latest returns the most recent payload.
	Latest(ctx context.Context) (*models.Payload, error)

	// LatestPrompt returns the most recent payload with should_go_out set.
	LatestPrompt(ctx context.Context) (*models.Payload, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}

// ArtifactName returns the unique file name for p.
func ArtifactName(p *models.Payload) string {
	return artifactPrefix +
		p.GeneratedAt.UTC().Format(artifactTimeForm) + "_" +
		uuid.NewString()[:8] +
		artifactSuffix
}

func isArtifact(name string) bool {
	return strings.HasPrefix(name, artifactPrefix) && strings.HasSuffix(name, artifactSuffix)
}

func encode(p *models.Payload) ([]byte, error) {
	if p == nil {
		return nil, errors.New("store: nil payload")
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return data, nil
}

func decode(data []byte) (*models.Payload, error) {
	var p models.Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return &p, nil
}

func record(backend, op string, err error) {
	switch {
	case err == nil:
		metrics.RecordStoreOperation(backend, op, "success")
	case errors.Is(err, ErrNotFound):
		metrics.RecordStoreOperation(backend, op, "not_found")
	default:
		metrics.RecordStoreOperation(backend, op, "error")
	}
}
