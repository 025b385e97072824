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
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/touchgrass/internal/models"
)

const (
	backendBadger = "badger"
	keyPrefix     = "payload:"
)

// BadgerStore keeps payloads in a local BadgerDB. Keys mirror the S3 object
// names under a "payload:" prefix.
type BadgerStore struct {
	db     *badger.DB
	logger zerolog.Logger
}

// OpenBadger opens (or creates) a BadgerDB at dir.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func OpenBadger(dir string, logger zerolog.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.SyncWrites = true
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	log := logger.With().Str("component", "store").Str("backend", backendBadger).Logger()
	log.Info().Str("path", dir).Msg("Payload store opened")
	return &BadgerStore{db: db, logger: log}, nil
}

// Close flushes and closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// Save writes the artifact and pointers in one transaction.
func (s *BadgerStore) Save(ctx context.Context, p *models.Payload) (name string, err error) {
	defer func() { record(backendBadger, "save", err) }()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := encode(p)
	if err != nil {
		return "", err
	}

	name = ArtifactName(p)
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(keyPrefix+name), data); err != nil {
			return err
		}
		if err := txn.Set([]byte(keyPrefix+latestName), data); err != nil {
			return err
		}
		if p.Decision.ShouldGoOut {
			return txn.Set([]byte(keyPrefix+lastPromptName), data)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("badger save %s: %w", name, err)
	}

	s.logger.Info().
		Str("key", name).
		Bool("should_go_out", p.Decision.ShouldGoOut).
		Msg("Payload stored")
	return name, nil
}

// Latest reads the latest pointer, falling back to the greatest artifact key.
func (s *BadgerStore) Latest(ctx context.Context) (p *models.Payload, err error) {
	defer func() { record(backendBadger, "latest", err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p, err = s.get(keyPrefix + latestName)
	if !errors.Is(err, ErrNotFound) {
		return p, err
	}

	var data []byte
	err = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(keyPrefix + artifactPrefix)
		seek := append(bytes.Clone(prefix), 0xff)
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			if !strings.HasSuffix(string(item.Key()), artifactSuffix) {
				continue
			}
			var verr error
			data, verr = item.ValueCopy(nil)
			return verr
		}
		return ErrNotFound
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("badger scan artifacts: %w", err)
	}
	s.logger.Warn().Msg("Latest pointer missing, using newest artifact")
	return decode(data)
}

// LatestPrompt reads the last-prompt pointer.
func (s *BadgerStore) LatestPrompt(ctx context.Context) (p *models.Payload, err error) {
	defer func() { record(backendBadger, "latest_prompt", err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.get(keyPrefix + lastPromptName)
}

// Ping reports an error once the database has been closed.
func (s *BadgerStore) Ping(context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger store is closed")
	}
	return nil
}

func (s *BadgerStore) get(key string) (*models.Payload, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("badger get %s: %w", key, err)
	}
	return decode(data)
}
