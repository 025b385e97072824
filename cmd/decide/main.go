// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

// Command decide runs a single decision cycle, stores the payload and prints
// a summary. It exits 1 when the cycle is aborted, for example because the
// screen-time or places dataset is missing.
//
// Usage:
//
//	decide [-json] [-timeout 2m]
//
// Configuration is read the same way as the server (config.yaml and
// environment variables).
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/goccy/go-json"

	"github.com/tomtom215/touchgrass/internal/config"
	"github.com/tomtom215/touchgrass/internal/decision"
	"github.com/tomtom215/touchgrass/internal/logging"
	"github.com/tomtom215/touchgrass/internal/models"
	"github.com/tomtom215/touchgrass/internal/pipeline"
)

var (
	jsonOut = flag.Bool("json", false, "Print the full payload as JSON instead of a summary")
	timeout = flag.Duration("timeout", 0, "Cycle timeout (default: scheduler.cycle_timeout)")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 2
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: "console",
		Caller: cfg.Logging.Caller,
		Output: os.Stderr,
	})

	d := cfg.Scheduler.CycleTimeout
	if *timeout > 0 {
		d = *timeout
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	comps, err := pipeline.NewComponents(ctx, cfg)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to initialize components")
		return 2
	}
	defer comps.Close()

	engine, err := decision.NewEngine(&cfg.Rules, comps.Estimator, logging.Logger())
	if err != nil {
		logging.Error().Err(err).Msg("Failed to create decision engine")
		return 2
	}

	res, err := pipeline.NewRunner(comps.Source, engine, comps.Store, logging.Logger()).RunOnce(ctx)
	if err != nil {
		color.New(color.FgRed, color.Bold).Fprintln(os.Stderr, "Decision cycle aborted")
		fmt.Fprintf(os.Stderr, "  %v\n", err)
		return 1
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res.Payload); err != nil {
			logging.Error().Err(err).Msg("Failed to encode payload")
			return 2
		}
		return 0
	}

	printSummary(os.Stdout, res)
	return 0
}

func printSummary(w io.Writer, res *pipeline.Result) {
	p := res.Payload
	bold := color.New(color.Bold)
	dim := color.New(color.FgHiBlack)

	if p.Decision.ShouldGoOut {
		color.New(color.FgGreen, color.Bold).Fprintln(w, "Go outside!")
	} else {
		color.New(color.FgYellow, color.Bold).Fprintln(w, "Stay put")
	}
	fmt.Fprintf(w, "  reason       %s\n", p.Decision.Reason)
	if p.Decision.Score != nil {
		fmt.Fprintf(w, "  top score    %.2f\n", *p.Decision.Score)
	}
	if p.Decision.CooldownSecondsRemaining != nil {
		fmt.Fprintf(w, "  cooldown     %s remaining\n", time.Duration(*p.Decision.CooldownSecondsRemaining)*time.Second)
	}

	c := p.Context
	fmt.Fprintf(w, "  screen time  %d min (%s)\n", c.ScreenTimeMinutes, levelColor(c.ScreenTimeLevel).Sprint(c.ScreenTimeLevel))
	fmt.Fprintf(w, "  weather      %s\n", c.WeatherCategory)
	if c.UserLat != nil && c.UserLon != nil {
		fmt.Fprintf(w, "  location     %.5f, %.5f\n", *c.UserLat, *c.UserLon)
	} else {
		fmt.Fprintf(w, "  location     %s\n", dim.Sprint("unknown"))
	}

	if len(p.Recommendations) > 0 {
		fmt.Fprintln(w)
		bold.Fprintln(w, "Recommendations")
		for i, r := range p.Recommendations {
			dist := "?"
			if r.DistanceKM != nil {
				dist = fmt.Sprintf("%.2f km", *r.DistanceKM)
			}
			fmt.Fprintf(w, "  %d. %-30s %-10s %8s  %s\n", i+1, r.Name, r.Category, dist, bold.Sprintf("%.2f", r.PriorityScore))
			if r.MapLink != "" {
				dim.Fprintf(w, "     %s\n", r.MapLink)
			}
		}
	}

	fmt.Fprintln(w)
	dim.Fprintf(w, "artifact %s  cycle %s  %s\n", res.Artifact, res.CorrelationID, res.Duration.Round(time.Millisecond))
}

func levelColor(level models.ScreenTimeLevel) *color.Color {
	palette := [...][]color.Attribute{
		{color.FgGreen},
		{color.FgYellow},
		{color.FgRed},
		{color.FgRed, color.Bold},
	}
	return color.New(palette[level.Rank()]...)
}
