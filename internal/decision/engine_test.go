// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

package decision

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/touchgrass/internal/geo"
	"github.com/tomtom215/touchgrass/internal/models"
	"github.com/tomtom215/touchgrass/internal/snapshot"
)

func newTestEngine(t *testing.T, now time.Time) *Engine {
	t.Helper()
	e, err := NewEngine(testRules(), nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	e.SetClock(func() time.Time { return now })
	return e
}

func TestEngine_Scenarios(t *testing.T) {
	t.Parallel()

	nearPark := park("park-1", homeLat+oneKmNorth, homeLon)

	tests := []struct {
		name      string
		now       string
		snap      func() *snapshot.Snapshot
		wantGo    bool
		wantWhy   models.Reason
		wantScore *float64
		wantRecs  int
	}{
		{
			name:      "high screen time near a park",
			now:       "10:00",
			snap:      func() *snapshot.Snapshot { return goodSnapshot(nearPark) },
			wantGo:    true,
			wantWhy:   models.ReasonViableLocation,
			wantScore: floatPtr(9.29),
			wantRecs:  1,
		},
		{
			name: "low screen time",
			now:  "10:00",
			snap: func() *snapshot.Snapshot {
				s := goodSnapshot(nearPark)
				s.ScreenTime.MinutesSpent = 50
				return s
			},
			wantWhy:   models.ReasonScreenTimeTooLow,
			wantScore: floatPtr(9.29),
			wantRecs:  1,
		},
		{
			name:      "late evening",
			now:       "23:10",
			snap:      func() *snapshot.Snapshot { return goodSnapshot(nearPark) },
			wantWhy:   models.ReasonOutsideActiveHours,
			wantScore: floatPtr(9.29),
			wantRecs:  1,
		},
		{
			name: "catalog has nothing open",
			now:  "10:00",
			snap: func() *snapshot.Snapshot {
				closed := nearPark
				closed.IsActive = false
				return goodSnapshot(closed)
			},
			wantWhy: models.ReasonNoCandidates,
		},
		{
			name: "only a distant shop on a cloudy day",
			now:  "10:00",
			snap: func() *snapshot.Snapshot {
				shop := models.Place{ID: "mall", Name: "Mall", Category: "shopping", Latitude: homeLat + 0.2, Longitude: homeLon, IsActive: true, CrowdLevel: "high"}
				s := goodSnapshot(shop)
				s.Weather = &models.WeatherRecord{Category: models.WeatherCloudy}
				return s
			},
			wantWhy:   models.ReasonNoHighScore,
			wantScore: floatPtr(2.1),
			wantRecs:  1,
		},
		{
			name: "rain",
			now:  "10:00",
			snap: func() *snapshot.Snapshot {
				s := goodSnapshot(nearPark)
				s.Weather = &models.WeatherRecord{Category: models.WeatherRain}
				return s
			},
			wantWhy:  models.ReasonWeatherNotOK,
			wantRecs: 1,
		},
		{
			name: "no location",
			now:  "10:00",
			snap: func() *snapshot.Snapshot {
				s := goodSnapshot(nearPark)
				s.Location = nil
				return s
			},
			wantWhy:  models.ReasonLocationUnavailable,
			wantRecs: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := newTestEngine(t, at(tt.now))

			p, err := e.Evaluate(context.Background(), tt.snap(), nil)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if p.Decision.ShouldGoOut != tt.wantGo || p.Decision.Reason != tt.wantWhy {
				t.Errorf("Decision = %v/%q, want %v/%q", p.Decision.ShouldGoOut, p.Decision.Reason, tt.wantGo, tt.wantWhy)
			}
			if tt.wantScore != nil && (p.Decision.Score == nil || *p.Decision.Score != *tt.wantScore) {
				t.Errorf("Score = %v, want %v", p.Decision.Score, *tt.wantScore)
			}
			if len(p.Recommendations) != tt.wantRecs {
				t.Errorf("len(Recommendations) = %d, want %d", len(p.Recommendations), tt.wantRecs)
			}
			if !p.GeneratedAt.Equal(at(tt.now)) || p.GeneratedAt.Location() != time.UTC {
				t.Errorf("GeneratedAt = %v, want %v in UTC", p.GeneratedAt, at(tt.now))
			}
		})
	}
}

func TestEngine_ConcurrentEvaluate(t *testing.T) {
	t.Parallel()

	// The clock is fixed before the engine is shared.
	e := newTestEngine(t, at("10:00"))
	snap := goodSnapshot(park("park-1", homeLat+oneKmNorth, homeLon))

	const workers = 8
	payloads := make([]*models.Payload, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			payloads[i], errs[i] = e.Evaluate(context.Background(), snap, nil)
		}(i)
	}
	wg.Wait()

	for i := range workers {
		if errs[i] != nil {
			t.Fatalf("worker %d: Evaluate() error = %v", i, errs[i])
		}
		if payloads[i].Decision.Reason != payloads[0].Decision.Reason ||
			!payloads[i].GeneratedAt.Equal(payloads[0].GeneratedAt) ||
			len(payloads[i].Recommendations) != len(payloads[0].Recommendations) {
			t.Errorf("worker %d payload differs: %+v vs %+v", i, payloads[i].Decision, payloads[0].Decision)
		}
	}
}

func TestEngine_CooldownLifecycle(t *testing.T) {
	t.Parallel()

	snap := goodSnapshot(park("park-1", homeLat+oneKmNorth, homeLon))

	first := newTestEngine(t, at("10:00"))
	p1, err := first.Evaluate(context.Background(), snap, nil)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if !p1.Decision.ShouldGoOut {
		t.Fatalf("first run reason = %q, want a prompt", p1.Decision.Reason)
	}
	prior := models.PriorFromPayload(p1)

	// 15 minutes later, same spot.
	second := newTestEngine(t, at("10:15"))
	p2, err := second.Evaluate(context.Background(), snap, prior)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if p2.Decision.Reason != models.ReasonCooldownActive || !p2.Context.CooldownActive {
		t.Fatalf("second run reason = %q, want cooldown", p2.Decision.Reason)
	}
	if p2.Decision.CooldownReason != models.CooldownUserNotMoved {
		t.Errorf("CooldownReason = %q, want %q", p2.Decision.CooldownReason, models.CooldownUserNotMoved)
	}
	if r := p2.Decision.CooldownSecondsRemaining; r == nil || *r != 105*60 {
		t.Errorf("CooldownSecondsRemaining = %v, want %d", r, 105*60)
	}

	// The user walked to the park.
	moved := goodSnapshot(park("park-1", homeLat+oneKmNorth, homeLon))
	moved.Location = &models.LocationRecord{Latitude: homeLat + oneKmNorth, Longitude: homeLon}
	p3, err := second.Evaluate(context.Background(), moved, prior)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if p3.Decision.Cooldown {
		t.Errorf("cooldown should reset after moving, got reason %q", p3.Decision.Reason)
	}

	// Two hours on, the window has elapsed.
	third := newTestEngine(t, at("12:00"))
	p4, err := third.Evaluate(context.Background(), snap, prior)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if !p4.Decision.ShouldGoOut {
		t.Errorf("after the window reason = %q, want a prompt", p4.Decision.Reason)
	}
}

type failingEstimator struct{ err error }

func (f failingEstimator) Estimate(context.Context, *geo.Point, []models.Candidate) ([]models.Candidate, error) {
	return nil, f.err
}

func TestEngine_EstimatorError(t *testing.T) {
	t.Parallel()

	e, err := NewEngine(testRules(), failingEstimator{err: context.Canceled}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	e.SetClock(func() time.Time { return at("10:00") })

	_, err = e.Evaluate(context.Background(), goodSnapshot(park("p", homeLat, homeLon)), nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Evaluate() error = %v, want context.Canceled", err)
	}
}

func TestNewEngine_RejectsInvalidRules(t *testing.T) {
	t.Parallel()

	rules := testRules()
	rules.ScreenTime.Thresholds.High = rules.ScreenTime.Thresholds.Medium
	if _, err := NewEngine(rules, nil, zerolog.Nop()); err == nil {
		t.Error("NewEngine() error = nil, want error for non-increasing thresholds")
	}
	if _, err := NewEngine(nil, nil, zerolog.Nop()); err == nil {
		t.Error("NewEngine(nil) error = nil, want error")
	}
}
