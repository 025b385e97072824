// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

func openTestBadger(t *testing.T) *BadgerStore {
	t.Helper()
	s, err := OpenBadger(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("OpenBadger() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBadgerStore_SaveAndLatest(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestBadger(t)

	if _, err := s.Latest(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Latest() on empty store error = %v, want ErrNotFound", err)
	}
	if _, err := s.LatestPrompt(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("LatestPrompt() on empty store error = %v, want ErrNotFound", err)
	}

	t0 := time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC)
	if _, err := s.Save(ctx, payloadAt(t0, true)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := s.Save(ctx, payloadAt(t0.Add(15*time.Minute), false)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	latest, err := s.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if !latest.GeneratedAt.Equal(t0.Add(15 * time.Minute)) {
		t.Errorf("Latest().GeneratedAt = %v, want %v", latest.GeneratedAt, t0.Add(15*time.Minute))
	}

	prompt, err := s.LatestPrompt(ctx)
	if err != nil {
		t.Fatalf("LatestPrompt() error = %v", err)
	}
	if !prompt.GeneratedAt.Equal(t0) {
		t.Errorf("LatestPrompt().GeneratedAt = %v, want %v", prompt.GeneratedAt, t0)
	}
	if len(prompt.Recommendations) != 1 || prompt.Recommendations[0].PriorityScore != 9.29 {
		t.Errorf("LatestPrompt().Recommendations = %+v", prompt.Recommendations)
	}
}

func TestBadgerStore_LatestFallsBackToNewestArtifact(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestBadger(t)

	t0 := time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC)
	for _, ts := range []time.Time{t0.Add(2 * time.Hour), t0, t0.Add(time.Hour)} {
		if _, err := s.Save(ctx, payloadAt(ts, false)); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(keyPrefix + latestName))
	}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if !got.GeneratedAt.Equal(t0.Add(2 * time.Hour)) {
		t.Errorf("Latest().GeneratedAt = %v, want %v", got.GeneratedAt, t0.Add(2*time.Hour))
	}
}

func TestBadgerStore_CancelledContextAndPing(t *testing.T) {
	t.Parallel()

	s := openTestBadger(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Save(ctx, payloadAt(time.Now(), true)); !errors.Is(err, context.Canceled) {
		t.Errorf("Save() error = %v, want context.Canceled", err)
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestBadgerStore_PingAfterClose(t *testing.T) {
	t.Parallel()

	s, err := OpenBadger(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("OpenBadger() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.Ping(context.Background()); err == nil {
		t.Error("Ping() after Close error = nil")
	}
}
