// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

package geo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/goccy/go-json"
	"github.com/maypok86/otter/v2"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/tomtom215/touchgrass/internal/config"
	"github.com/tomtom215/touchgrass/internal/metrics"
)

var (
	// ErrNoRoute is returned when the routing response holds no usable distance.
	ErrNoRoute = errors.New("geo: no route")

	// ErrCircuitOpen is returned while the routing circuit breaker rejects calls.
	ErrCircuitOpen = errors.New("geo: routing circuit open")
)

// Router returns the travel distance between two points in km.
type Router interface {
	RouteKM(ctx context.Context, from, to Point) (float64, error)
}

const breakerName = "ors-directions"

// ORSClient queries the OpenRouteService directions endpoint.
type ORSClient struct {
	http     *http.Client
	endpoint string
	apiKey   string
	attempts uint
	limiter  *rate.Limiter
	cb       *gobreaker.CircuitBreaker[float64]
	cache    *otter.Cache[string, float64]
	logger   zerolog.Logger
}

// NewORSClient builds a routing client from cfg.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewORSClient(cfg *config.RoutingConfig, logger zerolog.Logger) *ORSClient {
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	log := logger.With().Str("component", "routing").Logger()

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	cb := gobreaker.NewCircuitBreaker[float64](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info().Str("from", stateToString(from)).Str("to", stateToString(to)).Msg("Circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, stateToString(from), stateToString(to)).Inc()
		},
	})

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	cache := otter.Must(&otter.Options[string, float64]{
		MaximumSize:      cfg.CacheSize,
		InitialCapacity:  min(cfg.CacheSize, 256),
		ExpiryCalculator: otter.ExpiryWriting[string, float64](ttl),
	})

	attempts := cfg.RetryAttempts
	if attempts == 0 {
		attempts = 1
	}

	return &ORSClient{
		http:     &http.Client{Timeout: cfg.Timeout},
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + "/v2/directions/" + cfg.Profile,
		apiKey:   cfg.APIKey,
		attempts: attempts,
		limiter:  rate.NewLimiter(limit, 1),
		cb:       cb,
		cache:    cache,
		logger:   log,
	}
}

// cacheKey rounds coordinates to ~1 m so that jitter does not defeat the cache.
func cacheKey(from, to Point) string {
	return fmt.Sprintf("%.5f,%.5f>%.5f,%.5f", from.Lat, from.Lon, to.Lat, to.Lon)
}

// RouteKM returns the routed distance in km between from and to.
func (c *ORSClient) RouteKM(ctx context.Context, from, to Point) (float64, error) {
	key := cacheKey(from, to)
	if km, ok := c.cache.GetIfPresent(key); ok {
		metrics.RecordRoutingCache(true)
		return km, nil
	}
	metrics.RecordRoutingCache(false)

	km, err := c.cb.Execute(func() (float64, error) {
		return c.fetch(ctx, from, to)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordRoutingRequest("rejected")
			return 0, fmt.Errorf("%w: %w", ErrCircuitOpen, err)
		}
		metrics.RecordRoutingRequest("error")
		return 0, err
	}

	metrics.RecordRoutingRequest("success")
	c.cache.Set(key, km)
	return km, nil
}

type directionsRequest struct {
	Coordinates [][2]float64 `json:"coordinates"`
}

// fetch performs the HTTP call with rate limiting and retries on 429/5xx.
func (c *ORSClient) fetch(ctx context.Context, from, to Point) (float64, error) {
	body, err := json.Marshal(directionsRequest{
		Coordinates: [][2]float64{{from.Lon, from.Lat}, {to.Lon, to.Lat}},
	})
	if err != nil {
		return 0, fmt.Errorf("encoding directions request: %w", err)
	}

	var payload []byte
	err = retry.Do(
		func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return retry.Unrecoverable(err)
			}

			req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("Authorization", c.apiKey)
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Accept", "application/json")

			resp, err := c.http.Do(req)
			if err != nil {
				return err
			}
			defer func() { _ = resp.Body.Close() }()

			data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
			if err != nil {
				return err
			}

			switch {
			case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
				return fmt.Errorf("directions API returned %d", resp.StatusCode)
			case resp.StatusCode != http.StatusOK:
				return retry.Unrecoverable(fmt.Errorf("directions API returned %d: %s",
					resp.StatusCode, gjson.GetBytes(data, "error.message").String()))
			}

			payload = data
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(500*time.Millisecond),
		retry.MaxDelay(10*time.Second),
		retry.DelayType(retry.FullJitterBackoffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug().Uint("attempt", n+1).Err(err).Msg("Retrying directions request")
		}),
	)
	if err != nil {
		return 0, err
	}

	return parseDistanceKM(payload)
}

// parseDistanceKM reads routes[0].summary.distance, falling back to the sum
// of routes[0].segments[].distance. Distances are in metres.
func parseDistanceKM(body []byte) (float64, error) {
	if !gjson.ValidBytes(body) {
		return 0, fmt.Errorf("%w: invalid JSON", ErrNoRoute)
	}

	if d := gjson.GetBytes(body, "routes.0.summary.distance"); d.Exists() {
		return d.Float() / 1000.0, nil
	}

	segments := gjson.GetBytes(body, "routes.0.segments.#.distance")
	if !segments.Exists() || len(segments.Array()) == 0 {
		return 0, ErrNoRoute
	}
	var metres float64
	for _, s := range segments.Array() {
		metres += s.Float()
	}
	if math.IsNaN(metres) {
		return 0, ErrNoRoute
	}
	return metres / 1000.0, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
