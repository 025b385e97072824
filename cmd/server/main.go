// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

// Package main is the Touchgrass server: a scheduled decision engine that
// prompts a user to go outside when screen time is high, and serves the
// latest recommendation over HTTP.
//
// Startup order:
//
//  1. Configuration (Koanf v2: defaults, YAML file, environment)
//  2. Logging (zerolog)
//  3. Payload store (S3/MinIO or local BadgerDB)
//  4. Input source (DuckDB over the staged silver CSV files, optionally
//     refreshed from object storage before each cycle)
//  5. Distance estimator (haversine, or OpenRouteService in routed mode)
//  6. Decision engine and cycle runner
//  7. Supervisor tree: decision scheduler and HTTP server
//
// SIGINT and SIGTERM stop the tree gracefully.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/touchgrass/internal/api"
	"github.com/tomtom215/touchgrass/internal/config"
	"github.com/tomtom215/touchgrass/internal/decision"
	"github.com/tomtom215/touchgrass/internal/logging"
	"github.com/tomtom215/touchgrass/internal/pipeline"
	"github.com/tomtom215/touchgrass/internal/supervisor"
	"github.com/tomtom215/touchgrass/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
		Output: os.Stderr,
	})

	logging.Info().
		Str("storage_backend", cfg.Storage.Backend).
		Str("distance_mode", cfg.Rules.Distance.Mode).
		Str("silver_dir", cfg.Source.SilverDir).
		Dur("interval", cfg.Scheduler.Interval).
		Msg("Starting Touchgrass")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	comps, err := pipeline.NewComponents(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize components")
	}
	defer comps.Close()

	engine, err := decision.NewEngine(&cfg.Rules, comps.Estimator, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create decision engine")
	}
	runner := pipeline.NewRunner(comps.Source, engine, comps.Store, logging.Logger())

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	handler := api.NewHandler(comps.Store, runner, map[string]api.Pinger{
		"store":  comps.Store,
		"source": comps.Source,
	}, cfg.Scheduler.CycleTimeout)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security)))

	// A manual cycle may run for the full cycle timeout.
	writeTimeout := max(cfg.Server.Timeout, cfg.Scheduler.CycleTimeout+5*time.Second)
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}

	tree.AddDecisionService(services.NewDecisionService(runner, services.DecisionServiceConfig{
		Interval:     cfg.Scheduler.Interval,
		RunOnStartup: cfg.Scheduler.RunOnStartup,
		CycleTimeout: cfg.Scheduler.CycleTimeout,
	}, logging.Logger()))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, logging.Logger()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Touchgrass stopped")
}
