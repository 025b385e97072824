// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

// Package logging provides centralized zerolog-based logging for Touchgrass.
//
// A single process-global logger is configured once at startup and every
// component derives a child logger from it:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	log := logging.WithComponent("decision")
//	log.Info().Str("reason", "eligible").Msg("Decision rendered")
//
// Decision cycles and HTTP requests carry identifiers on their context:
//
//	ctx = logging.ContextWithNewCorrelationID(ctx)
//	logging.Ctx(ctx).Warn().Err(err).Msg("Route lookup failed")
//	// {"level":"warn","correlation_id":"1a2b3c4d","error":"...","message":"Route lookup failed"}
//
// Libraries that want a *slog.Logger (sutureslog) get one through
// NewSlogLogger, which writes back into zerolog.
//
// Always terminate log chains with .Msg() or .Send(); an event that is never
// sent is never written.
package logging
