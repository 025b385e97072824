// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"

	"github.com/tomtom215/touchgrass/internal/config"
	"github.com/tomtom215/touchgrass/internal/models"
)

const backendS3 = "s3"

// S3API is the subset of the S3 client used by S3Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// NewS3Client builds an S3 client from cfg. A custom endpoint switches to
// path-style addressing for MinIO. Static keys override the default chain.
func NewS3Client(ctx context.Context, cfg *config.S3Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// S3Store keeps payloads in an S3 or MinIO bucket under a key prefix.
type S3Store struct {
	client S3API
	bucket string
	prefix string
	logger zerolog.Logger
}

// NewS3Store returns a store writing to s3://bucket/prefix.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewS3Store(client S3API, bucket, prefix string, logger zerolog.Logger) *S3Store {
	return &S3Store{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger.With().Str("component", "store").Str("backend", backendS3).Logger(),
	}
}

func (s *S3Store) key(name string) string {
	return path.Join(s.prefix, name)
}

// Save uploads the artifact first so the pointers never reference a
// payload that failed to persist.
func (s *S3Store) Save(ctx context.Context, p *models.Payload) (name string, err error) {
	defer func() { record(backendS3, "save", err) }()

	data, err := encode(p)
	if err != nil {
		return "", err
	}

	name = ArtifactName(p)
	if err := s.put(ctx, s.key(name), data); err != nil {
		return "", err
	}
	if err := s.put(ctx, s.key(latestName), data); err != nil {
		return "", err
	}
	if p.Decision.ShouldGoOut {
		if err := s.put(ctx, s.key(lastPromptName), data); err != nil {
			return "", err
		}
	}

	s.logger.Info().
		Str("key", s.key(name)).
		Bool("should_go_out", p.Decision.ShouldGoOut).
		Msg("Payload stored")
	return name, nil
}

// Latest reads the latest pointer, falling back to the greatest artifact key.
func (s *S3Store) Latest(ctx context.Context) (p *models.Payload, err error) {
	defer func() { record(backendS3, "latest", err) }()

	p, err = s.get(ctx, s.key(latestName))
	if !errors.Is(err, ErrNotFound) {
		return p, err
	}

	key, err := s.newestArtifact(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Warn().Str("key", key).Msg("Latest pointer missing, using newest artifact")
	return s.get(ctx, key)
}

// LatestPrompt reads the last-prompt pointer.
func (s *S3Store) LatestPrompt(ctx context.Context) (p *models.Payload, err error) {
	defer func() { record(backendS3, "latest_prompt", err) }()
	return s.get(ctx, s.key(lastPromptName))
}

// Ping checks that the bucket is reachable.
func (s *S3Store) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		return fmt.Errorf("s3 head bucket %s: %w", s.bucket, err)
	}
	return nil
}

func (s *S3Store) put(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3 put %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) get(ctx context.Context, key string) (*models.Payload, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if errors.As(err, &missing) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("s3 get %s: %w", key, err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read %s: %w", key, err)
	}
	return decode(data)
}

// newestArtifact lists the prefix and returns the lexically greatest
// artifact key. The timestamp in the name makes that the newest one.
func (s *S3Store) newestArtifact(ctx context.Context) (string, error) {
	listPrefix := s.key(artifactPrefix)
	pager := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(listPrefix),
	})

	var newest string
	for pager.HasMorePages() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return "", fmt.Errorf("s3 list %s: %w", listPrefix, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if isArtifact(path.Base(key)) && key > newest {
				newest = key
			}
		}
	}

	if newest == "" {
		return "", ErrNotFound
	}
	return newest, nil
}
