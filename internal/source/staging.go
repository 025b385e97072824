// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/codeGROOVE-dev/retry"
	"github.com/rs/zerolog"
)

// ObjectGetter is the subset of the S3 client used for staging.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Stager downloads the silver CSVs from a bucket prefix.
type S3Stager struct {
	client   ObjectGetter
	bucket   string
	prefix   string
	attempts uint
	logger   zerolog.Logger
}

// NewS3Stager returns a stager reading s3://bucket/prefix/<file>.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewS3Stager(client ObjectGetter, bucket, prefix string, logger zerolog.Logger) *S3Stager {
	return &S3Stager{
		client:   client,
		bucket:   bucket,
		prefix:   prefix,
		attempts: 3,
		logger:   logger.With().Str("component", "staging").Logger(),
	}
}

// Stage downloads every silver file into dir. A key missing from the bucket
// removes the local copy so stale data is never read.
func (s *S3Stager) Stage(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create silver directory %s: %w", dir, err)
	}

	for _, file := range Files {
		key := path.Join(s.prefix, file)
		dst := filepath.Join(dir, file)

		err := s.download(ctx, key, dst)
		var missing *types.NoSuchKey
		switch {
		case err == nil:
			s.logger.Debug().Str("key", key).Msg("Staged silver file")
		case errors.As(err, &missing):
			s.logger.Warn().Str("key", key).Msg("Silver file not in bucket")
			if rmErr := os.Remove(dst); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				return fmt.Errorf("removing stale %s: %w", dst, rmErr)
			}
		default:
			return fmt.Errorf("downloading %s: %w", key, err)
		}
	}
	return nil
}

func (s *S3Stager) download(ctx context.Context, key, dst string) error {
	return retry.Do(
		func() error {
			out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
				Bucket: aws.String(s.bucket),
				Key:    aws.String(key),
			})
			if err != nil {
				var missing *types.NoSuchKey
				if errors.As(err, &missing) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			defer func() { _ = out.Body.Close() }()
			return writeAtomic(dst, out.Body)
		},
		retry.Context(ctx),
		retry.Attempts(s.attempts),
		retry.Delay(200*time.Millisecond),
		retry.MaxDelay(2*time.Second),
		retry.DelayType(retry.FullJitterBackoffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			s.logger.Warn().Err(err).Uint("attempt", n+1).Str("key", key).Msg("Retrying silver download")
		}),
	)
}

// writeAtomic writes r to a temp file beside dst and renames it into place.
func writeAtomic(dst string, r io.Reader) error {
	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
