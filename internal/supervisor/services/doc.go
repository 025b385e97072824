// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

// Package services adapts Touchgrass components to suture.Service.
//
// DecisionService runs the decision cycle on a ticker. HTTPServerService
// turns http.Server's blocking ListenAndServe into a context-aware Serve
// with graceful shutdown.
package services
