// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

package pipeline

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tomtom215/touchgrass/internal/config"
	"github.com/tomtom215/touchgrass/internal/geo"
	"github.com/tomtom215/touchgrass/internal/logging"
	"github.com/tomtom215/touchgrass/internal/source"
	"github.com/tomtom215/touchgrass/internal/store"
)

// Components are the long-lived dependencies of a decision cycle, built
// from configuration.
type Components struct {
	Store     store.PayloadStore
	Source    *source.DuckDBSource
	Estimator *geo.Estimator
	closers   []func() error
}

// Close releases components in reverse order of creation.
func (c *Components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			logging.Error().Err(err).Msg("Error closing component")
		}
	}
}

// NewComponents opens the payload store, the DuckDB source and the distance
// estimator selected by cfg. On error everything opened so far is closed.
func NewComponents(ctx context.Context, cfg *config.Config) (_ *Components, err error) {
	c := &Components{}
	defer func() {
		if err != nil {
			c.Close()
		}
	}()

	// One S3 client serves both the payload store and silver staging.
	var client *s3.Client
	if cfg.Storage.Backend == config.StorageBackendS3 || cfg.Source.S3Prefix != "" {
		if client, err = store.NewS3Client(ctx, &cfg.Storage.S3); err != nil {
			return nil, err
		}
	}

	switch cfg.Storage.Backend {
	case config.StorageBackendS3:
		c.Store = store.NewS3Store(client, cfg.Storage.S3.Bucket, cfg.Storage.S3.Prefix, logging.Logger())
		logging.Info().Str("bucket", cfg.Storage.S3.Bucket).Str("endpoint", cfg.Storage.S3.Endpoint).Msg("S3 payload store configured")

	case config.StorageBackendBadger:
		bs, err := store.OpenBadger(cfg.Storage.Badger.Path, logging.Logger())
		if err != nil {
			return nil, err
		}
		c.Store = bs
		c.closers = append(c.closers, bs.Close)
		logging.Info().Str("path", cfg.Storage.Badger.Path).Msg("Badger payload store opened")

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	var stager source.Stager
	if cfg.Source.S3Prefix != "" {
		stager = source.NewS3Stager(client, cfg.Storage.S3.Bucket, cfg.Source.S3Prefix, logging.Logger())
		logging.Info().Str("prefix", cfg.Source.S3Prefix).Msg("Silver staging from object storage enabled")
	}

	src, err := source.NewDuckDB(&cfg.Database, &cfg.Source, stager, logging.Logger())
	if err != nil {
		return nil, err
	}
	c.Source = src
	c.closers = append(c.closers, src.Close)

	var router geo.Router
	if cfg.Rules.Distance.Mode == config.DistanceModeRouted {
		router = geo.NewORSClient(&cfg.Routing, logging.Logger())
		logging.Info().Str("profile", cfg.Routing.Profile).Msg("Routed distances enabled")
	}
	c.Estimator = geo.NewEstimator(&cfg.Rules.Distance, router, cfg.Routing.Concurrency, logging.Logger())

	return c, nil
}
