// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/touchgrass/internal/models"
	"github.com/tomtom215/touchgrass/internal/pipeline"
	"github.com/tomtom215/touchgrass/internal/source"
	"github.com/tomtom215/touchgrass/internal/store"
)

type stubPayloads struct {
	p   *models.Payload
	err error
}

func (s *stubPayloads) Latest(context.Context) (*models.Payload, error) {
	return s.p, s.err
}

type stubRunner struct {
	calls atomic.Int32
	res   *pipeline.Result
	err   error
}

func (s *stubRunner) RunOnce(context.Context) (*pipeline.Result, error) {
	s.calls.Add(1)
	return s.res, s.err
}

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func samplePayload() *models.Payload {
	lat, lon, km, score := 52.5, 13.4, 1.0, 9.29
	return &models.Payload{
		GeneratedAt: time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC),
		Context: models.Context{
			ScreenTimeMinutes: 320,
			ScreenTimeLevel:   models.ScreenTimeHigh,
			WeatherCategory:   models.WeatherClear,
			WeatherOK:         true,
			UserLat:           &lat,
			UserLon:           &lon,
			LocationAvailable: true,
			ActiveHoursOK:     true,
		},
		Decision: models.Decision{ShouldGoOut: true, Reason: models.ReasonViableLocation, Score: &score},
		Recommendations: []models.Candidate{{
			ID: "p1", Name: "Tiergarten", Category: "park", Address: "Berlin",
			Latitude: 52.509, Longitude: 13.4, DistanceKM: &km, PriorityScore: 9.29,
			IsActive: true, MapLink: "https://maps.example/p1",
		}},
	}
}

func newTestServer(payloads PayloadReader, runner CycleRunner, checks map[string]Pinger, triggerLimit int) http.Handler {
	h := NewHandler(payloads, runner, checks, 5*time.Second)
	mw := NewChiMiddleware(&ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{"*"},
		Trigger:            RateLimitConfig{Requests: triggerLimit, Window: time.Minute},
	})
	return NewRouter(h, mw).Setup()
}

func do(t *testing.T, h http.Handler, method, path string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRecommendations(t *testing.T) {
	t.Parallel()

	srv := newTestServer(&stubPayloads{p: samplePayload()}, nil, nil, 10)
	rec := do(t, srv, http.MethodGet, "/api/recommendations", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var view RecommendationsView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.Context.UserLocation.Lat == nil || *view.Context.UserLocation.Lng != 13.4 {
		t.Errorf("user_location = %+v", view.Context.UserLocation)
	}
	if len(view.Recommendations) != 1 || view.Recommendations[0].Score != 9.29 || view.Recommendations[0].Name != "Tiergarten" {
		t.Errorf("recommendations = %+v", view.Recommendations)
	}
	if !view.Decision.ShouldGoOut {
		t.Error("decision.should_go_out = false")
	}
	if !strings.Contains(rec.Body.String(), `"lng":13.4`) {
		t.Errorf("body should use lat/lng keys: %s", rec.Body.String())
	}
}

func TestRecommendations_ETag(t *testing.T) {
	t.Parallel()

	srv := newTestServer(&stubPayloads{p: samplePayload()}, nil, nil, 10)
	first := do(t, srv, http.MethodGet, "/api/recommendations", nil)
	etag := first.Header().Get("ETag")
	if etag == "" {
		t.Fatal("ETag header missing")
	}

	second := do(t, srv, http.MethodGet, "/api/recommendations", map[string]string{"If-None-Match": etag})
	if second.Code != http.StatusNotModified || second.Body.Len() != 0 {
		t.Errorf("conditional GET = %d with %d bytes, want 304 and empty body", second.Code, second.Body.Len())
	}
}

func TestRecommendations_NoData(t *testing.T) {
	t.Parallel()

	srv := newTestServer(&stubPayloads{err: store.ErrNotFound}, nil, nil, 10)
	if rec := do(t, srv, http.MethodGet, "/api/recommendations", nil); rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}

	broken := newTestServer(&stubPayloads{err: errors.New("bucket gone")}, nil, nil, 10)
	rec := do(t, broken, http.MethodGet, "/api/recommendations", nil)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "bucket gone") {
		t.Error("internal error text leaked to client")
	}
}

func TestLatestDecision(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		stub   *stubPayloads
		status int
		code   string
	}{
		{"found", &stubPayloads{p: samplePayload()}, http.StatusOK, ""},
		{"none yet", &stubPayloads{err: store.ErrNotFound}, http.StatusNotFound, "NO_DATA"},
		{"store failure", &stubPayloads{err: errors.New("timeout")}, http.StatusBadGateway, "STORE_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := do(t, newTestServer(tt.stub, nil, nil, 10), http.MethodGet, "/api/decisions/latest", nil)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}

			var resp struct {
				Status string           `json:"status"`
				Data   *models.Payload  `json:"data"`
				Error  *models.APIError `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if tt.code == "" {
				if resp.Status != "success" || resp.Data == nil || resp.Data.Decision.Reason != models.ReasonViableLocation {
					t.Errorf("response = %+v", resp)
				}
				return
			}
			if resp.Status != "error" || resp.Error == nil || resp.Error.Code != tt.code {
				t.Errorf("error = %+v, want code %s", resp.Error, tt.code)
			}
		})
	}
}

func TestRunDecision(t *testing.T) {
	t.Parallel()

	ok := &pipeline.Result{CorrelationID: "abcd1234", Artifact: "recommendations_x.json", Payload: samplePayload(), Duration: 40 * time.Millisecond}

	tests := []struct {
		name   string
		runner CycleRunner
		status int
	}{
		{"success", &stubRunner{res: ok}, http.StatusOK},
		{"missing input", &stubRunner{err: fmt.Errorf("%w: %w", pipeline.ErrCycleAborted, source.ErrNoScreenTime)}, http.StatusUnprocessableEntity},
		{"timeout", &stubRunner{err: fmt.Errorf("%w: %w", pipeline.ErrCycleAborted, context.DeadlineExceeded)}, http.StatusGatewayTimeout},
		{"other failure", &stubRunner{err: pipeline.ErrCycleAborted}, http.StatusInternalServerError},
		{"disabled", nil, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := newTestServer(&stubPayloads{}, tt.runner, nil, 10)
			rec := do(t, srv, http.MethodPost, "/api/decisions/run", nil)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
		})
	}
}

func TestRunDecision_RateLimited(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{res: &pipeline.Result{Payload: samplePayload()}}
	srv := newTestServer(&stubPayloads{}, runner, nil, 2)

	var codes []int
	for range 3 {
		codes = append(codes, do(t, srv, http.MethodPost, "/api/decisions/run", nil).Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 200 429]", codes)
	}
	if n := runner.calls.Load(); n != 2 {
		t.Errorf("runner calls = %d, want 2", n)
	}
}

func TestRunDecision_WrongMethod(t *testing.T) {
	t.Parallel()

	srv := newTestServer(&stubPayloads{}, &stubRunner{}, nil, 10)
	if rec := do(t, srv, http.MethodGet, "/api/decisions/run", nil); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	healthy := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("unreachable") })

	tests := []struct {
		name   string
		checks map[string]Pinger
		status int
	}{
		{"no checks", nil, http.StatusOK},
		{"all healthy", map[string]Pinger{"store": healthy, "source": healthy}, http.StatusOK},
		{"store down", map[string]Pinger{"store": down, "source": healthy}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := do(t, newTestServer(&stubPayloads{}, nil, tt.checks, 10), http.MethodGet, "/health", nil)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}

			var resp struct {
				Data HealthStatus `json:"data"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			for name := range tt.checks {
				if _, ok := resp.Data.Checks[name]; !ok {
					t.Errorf("check %q missing from %v", name, resp.Data.Checks)
				}
			}
		})
	}
}

func TestHealthLiveAndMetrics(t *testing.T) {
	t.Parallel()

	srv := newTestServer(&stubPayloads{}, nil, nil, 10)
	if rec := do(t, srv, http.MethodGet, "/health/live", nil); rec.Code != http.StatusOK {
		t.Errorf("/health/live status = %d", rec.Code)
	}

	rec := do(t, srv, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "touchgrass_") {
		t.Errorf("/metrics status = %d, touchgrass metrics present = %v", rec.Code, strings.Contains(rec.Body.String(), "touchgrass_"))
	}
}

func TestNotFoundAndCORS(t *testing.T) {
	t.Parallel()

	srv := newTestServer(&stubPayloads{}, nil, nil, 10)
	if rec := do(t, srv, http.MethodGet, "/nope", nil); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	rec := do(t, srv, http.MethodGet, "/health/live", map[string]string{"Origin": "https://example.com"})
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}
}

func TestSanitizeLogValue(t *testing.T) {
	t.Parallel()

	if got := sanitizeLogValue("a\nb\x7f"); got != `a\x0ab\x7f` {
		t.Errorf("sanitizeLogValue() = %q", got)
	}
}
