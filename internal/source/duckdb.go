// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"

	"github.com/tomtom215/touchgrass/internal/config"
	"github.com/tomtom215/touchgrass/internal/metrics"
	"github.com/tomtom215/touchgrass/internal/snapshot"
)

// DuckDBSource reads the silver CSVs through an embedded DuckDB.
type DuckDBSource struct {
	conn   *sql.DB
	dir    string
	stager Stager
	logger zerolog.Logger
}

// NewDuckDB opens the DuckDB connection described by db and reads silver
// files from src.SilverDir. stager may be nil.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewDuckDB(db *config.DatabaseConfig, src *config.SourceConfig, stager Stager, logger zerolog.Logger) (*DuckDBSource, error) {
	path := db.Path
	if path == "" {
		path = ":memory:"
	}
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
	}

	// Extensions stay off: the CSV reader is built in and nothing else is needed.
	connStr := path + "?autoinstall_known_extensions=false&autoload_known_extensions=false"
	if db.Threads > 0 {
		connStr += fmt.Sprintf("&threads=%d", db.Threads)
	}

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps in-memory state on one DuckDB instance.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &DuckDBSource{
		conn:   conn,
		dir:    src.SilverDir,
		stager: stager,
		logger: logger.With().Str("component", "source").Logger(),
	}, nil
}

// Close releases the DuckDB connection.
func (s *DuckDBSource) Close() error {
	return s.conn.Close()
}

// Ping checks that DuckDB answers queries.
func (s *DuckDBSource) Ping(ctx context.Context) error {
	var one int
	return s.conn.QueryRowContext(ctx, "SELECT 1").Scan(&one)
}

// Load stages the silver files when a Stager is configured and returns the
// latest screen-time, location and weather rows plus the place catalog.
func (s *DuckDBSource) Load(ctx context.Context) (*snapshot.Raw, error) {
	if s.stager != nil {
		if err := s.stager.Stage(ctx, s.dir); err != nil {
			return nil, fmt.Errorf("staging silver files: %w", err)
		}
	}

	screen, err := s.latest(ctx, ScreenTimeFile, snapshot.ScreenTimeTimestampColumns)
	if err != nil {
		return nil, fmt.Errorf("reading screen time: %w", err)
	}
	if screen == nil {
		return nil, ErrNoScreenTime
	}

	places, err := s.all(ctx, PlacesFile)
	if err != nil {
		return nil, fmt.Errorf("reading places: %w", err)
	}
	if len(places) == 0 {
		return nil, ErrNoPlaces
	}

	// Location and weather are optional: failures degrade to a nil row.
	location, err := s.latest(ctx, LocationFile, snapshot.LocationTimestampColumns)
	if err != nil {
		s.logger.Warn().Err(err).Str("dataset", LocationFile).Msg("Optional dataset unreadable, continuing without it")
		location = nil
	}
	weather, err := s.latest(ctx, WeatherFile, snapshot.WeatherTimestampColumns)
	if err != nil {
		s.logger.Warn().Err(err).Str("dataset", WeatherFile).Msg("Optional dataset unreadable, continuing without it")
		weather = nil
	}

	s.logger.Debug().
		Int("places", len(places)).
		Bool("location", location != nil).
		Bool("weather", weather != nil).
		Msg("Silver datasets loaded")

	return &snapshot.Raw{
		ScreenTime: screen,
		Location:   location,
		Weather:    weather,
		Places:     places,
	}, nil
}

// latest returns the row with the greatest value in the first of tsColumns
// present in the file, or nil when the file is missing or empty. Unparseable
// timestamps fall back to text order.
func (s *DuckDBSource) latest(ctx context.Context, file string, tsColumns []string) (snapshot.Row, error) {
	path, ok := s.present(file)
	if !ok {
		return nil, nil
	}

	scan := readCSV(path)
	cols, err := s.columns(ctx, scan)
	if err != nil {
		return nil, err
	}

	query := "SELECT * FROM " + scan
	if tsColumn, ok := firstPresent(cols, tsColumns); ok {
		col := quoteIdent(tsColumn)
		query += fmt.Sprintf(" ORDER BY TRY_CAST(%s AS TIMESTAMP) DESC NULLS LAST, %s DESC NULLS LAST", col, col)
	}
	query += " LIMIT 1"

	rows, err := s.query(ctx, file, query)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// all returns every row of file in file order.
func (s *DuckDBSource) all(ctx context.Context, file string) ([]snapshot.Row, error) {
	path, ok := s.present(file)
	if !ok {
		return nil, nil
	}
	return s.query(ctx, file, "SELECT * FROM "+readCSV(path))
}

func (s *DuckDBSource) present(file string) (string, bool) {
	path := filepath.Join(s.dir, file)
	info, err := os.Stat(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn().Err(err).Str("path", path).Msg("Cannot stat silver file")
		}
		return "", false
	}
	// DuckDB cannot sniff a zero-byte file.
	return path, info.Size() > 0
}

func (s *DuckDBSource) columns(ctx context.Context, scan string) ([]string, error) {
	rows, err := s.conn.QueryContext(ctx, "SELECT * FROM "+scan+" LIMIT 0")
	if err != nil {
		return nil, fmt.Errorf("describing %s: %w", scan, err)
	}
	defer func() { _ = rows.Close() }()
	return rows.Columns()
}

func (s *DuckDBSource) query(ctx context.Context, dataset, query string) ([]snapshot.Row, error) {
	start := time.Now()
	defer func() { metrics.RecordSourceQuery(dataset, time.Since(start)) }()

	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", dataset, err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []snapshot.Row
	values := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i := range values {
		dest[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", dataset, err)
		}
		row := make(snapshot.Row, len(cols))
		for i, c := range cols {
			if values[i].Valid {
				row[strings.ToLower(strings.TrimSpace(c))] = values[i].String
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", dataset, err)
	}
	return out, nil
}

func readCSV(path string) string {
	return fmt.Sprintf("read_csv_auto(%s, header=true, all_varchar=true)", quoteLiteral(path))
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// firstPresent returns the header from cols matching the earliest entry of
// candidates, case-insensitively.
func firstPresent(cols, candidates []string) (string, bool) {
	for _, want := range candidates {
		for _, c := range cols {
			if strings.EqualFold(strings.TrimSpace(c), want) {
				return c, true
			}
		}
	}
	return "", false
}
