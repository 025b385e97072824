// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

/*
Package supervisor runs the long-lived parts of Touchgrass under a suture v4
supervision tree.

The tree has two layers below the root:

  - decision: the scheduled decision cycle (services.DecisionService)
  - api: the HTTP server (services.HTTPServerService)

A crashing layer is restarted with backoff without tearing down its sibling,
so the API keeps serving the last stored payload while the scheduler
recovers. Supervisor events are logged through sutureslog on top of the
zerolog-backed slog handler from the logging package.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddDecisionService(services.NewDecisionService(runner, cfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	err = tree.Serve(ctx)
*/
package supervisor
