// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/touchgrass/internal/config"
)

const (
	screenCSV = `device,minutes_spent,timestamp_utc
phone,120,2026-01-10T08:00:00+00:00
phone,320,2026-01-10T10:00:00+00:00
phone,200,2026-01-10T09:00:00+00:00
`
	locationCSV = `device,latitude,longitude,location_source,resolved_at_utc
phone,52.5,13.4,last_known,2026-01-10T10:01:00+00:00
`
	weatherCSV = `timestamp_utc,temperature_c,uv_index,weather_code,weather_category,horizon_hours
2026-01-10T10:00:00+00:00,18.5,3.1,1,clear,72
`
	placesCSV = `location_id,location_name,address,category,latitude,longitude,google_maps_link,is_active,updated_at_utc
p1,Tiergarten,Str. des 17. Juni,park,52.514,13.350,https://maps.example/p1,True,2026-01-01T00:00:00+00:00
p2,"Cafe, Mitte",Unter den Linden 1,cafe,52.517,13.389,https://maps.example/p2,False,2026-01-01T00:00:00+00:00
`
)

func writeSilver(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func newTestSource(t *testing.T, dir string, stager Stager) *DuckDBSource {
	t.Helper()
	src, err := NewDuckDB(&config.DatabaseConfig{Path: ":memory:"}, &config.SourceConfig{SilverDir: dir}, stager, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewDuckDB() error = %v", err)
	}
	t.Cleanup(func() { _ = src.Close() })
	return src
}

func TestDuckDBSource_Load(t *testing.T) {
	t.Parallel()

	dir := writeSilver(t, map[string]string{
		ScreenTimeFile: screenCSV,
		LocationFile:   locationCSV,
		WeatherFile:    weatherCSV,
		PlacesFile:     placesCSV,
	})
	src := newTestSource(t, dir, nil)

	raw, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := raw.ScreenTime["minutes_spent"]; got != "320" {
		t.Errorf("latest minutes_spent = %q, want 320", got)
	}
	if got := raw.Location["latitude"]; got != "52.5" {
		t.Errorf("latitude = %q, want 52.5", got)
	}
	if got := raw.Weather["weather_category"]; got != "clear" {
		t.Errorf("weather_category = %q, want clear", got)
	}
	if len(raw.Places) != 2 {
		t.Fatalf("len(Places) = %d, want 2", len(raw.Places))
	}
	if raw.Places[0]["location_id"] != "p1" || raw.Places[1]["location_name"] != "Cafe, Mitte" {
		t.Errorf("Places = %v, want file order with quoted names intact", raw.Places)
	}
	if raw.Places[1]["is_active"] != "False" {
		t.Errorf("is_active = %q, want the raw text False", raw.Places[1]["is_active"])
	}
}

func TestDuckDBSource_OptionalDatasetsMissing(t *testing.T) {
	t.Parallel()

	dir := writeSilver(t, map[string]string{
		ScreenTimeFile: screenCSV,
		PlacesFile:     placesCSV,
		WeatherFile:    "",
	})
	src := newTestSource(t, dir, nil)

	raw, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if raw.Location != nil || raw.Weather != nil {
		t.Errorf("Location = %v, Weather = %v, want both nil", raw.Location, raw.Weather)
	}
}

func TestDuckDBSource_RequiredDatasets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		files map[string]string
		want  error
	}{
		{"no screen time file", map[string]string{PlacesFile: placesCSV}, ErrNoScreenTime},
		{"screen time header only", map[string]string{ScreenTimeFile: "device,minutes_spent,timestamp_utc\n", PlacesFile: placesCSV}, ErrNoScreenTime},
		{"no places file", map[string]string{ScreenTimeFile: screenCSV}, ErrNoPlaces},
		{"places header only", map[string]string{
			ScreenTimeFile: screenCSV,
			PlacesFile:     "location_id,location_name,category,latitude,longitude,is_active\n",
		}, ErrNoPlaces},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			src := newTestSource(t, writeSilver(t, tt.files), nil)
			if _, err := src.Load(context.Background()); !errors.Is(err, tt.want) {
				t.Errorf("Load() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDuckDBSource_NoTimestampColumn(t *testing.T) {
	t.Parallel()

	dir := writeSilver(t, map[string]string{
		ScreenTimeFile: "device,minutes_spent\nphone,42\n",
		PlacesFile:     placesCSV,
	})
	src := newTestSource(t, dir, nil)

	raw, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if raw.ScreenTime["minutes_spent"] != "42" {
		t.Errorf("minutes_spent = %q, want 42", raw.ScreenTime["minutes_spent"])
	}
}

func TestDuckDBSource_AlternateTimestampColumns(t *testing.T) {
	t.Parallel()

	// Newest rows come last in every file.
	dir := writeSilver(t, map[string]string{
		ScreenTimeFile: "device,minutes_spent,timestamp\n" +
			"phone,50,2026-01-10T08:00:00+00:00\n" +
			"phone,320,2026-01-10T10:00:00+00:00\n",
		LocationFile: "device,latitude,longitude,resolved_at\n" +
			"phone,48.1,11.5,2026-01-09T10:00:00+00:00\n" +
			"phone,52.5,13.4,2026-01-10T10:00:00+00:00\n",
		WeatherFile: "timestamp,temperature_c,weather_category\n" +
			"2026-01-10T07:00:00+00:00,4.0,rain\n" +
			"2026-01-10T10:00:00+00:00,18.5,clear\n",
		PlacesFile: placesCSV,
	})
	src := newTestSource(t, dir, nil)

	raw, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"screen time by timestamp", raw.ScreenTime["minutes_spent"], "320"},
		{"location by resolved_at", raw.Location["latitude"], "52.5"},
		{"weather by timestamp", raw.Weather["weather_category"], "clear"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestFirstPresent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		cols       []string
		candidates []string
		want       string
		wantOK     bool
	}{
		{"preferred wins over file order", []string{"timestamp", "timestamp_utc"}, []string{"timestamp_utc", "timestamp"}, "timestamp_utc", true},
		{"fallback name", []string{"device", "Timestamp"}, []string{"timestamp_utc", "timestamp"}, "Timestamp", true},
		{"none present", []string{"device", "minutes"}, []string{"timestamp_utc", "timestamp"}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := firstPresent(tt.cols, tt.candidates)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("firstPresent() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

type stubStager struct {
	calls int
	err   error
}

func (s *stubStager) Stage(context.Context, string) error {
	s.calls++
	return s.err
}

func TestDuckDBSource_Stager(t *testing.T) {
	t.Parallel()

	dir := writeSilver(t, map[string]string{ScreenTimeFile: screenCSV, PlacesFile: placesCSV})

	ok := &stubStager{}
	if _, err := newTestSource(t, dir, ok).Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ok.calls != 1 {
		t.Errorf("Stage calls = %d, want 1", ok.calls)
	}

	boom := errors.New("bucket unreachable")
	failing := &stubStager{err: boom}
	if _, err := newTestSource(t, dir, failing).Load(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Load() error = %v, want %v", err, boom)
	}
}

func TestDuckDBSource_Ping(t *testing.T) {
	t.Parallel()

	src := newTestSource(t, t.TempDir(), nil)
	if err := src.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestQuoting(t *testing.T) {
	t.Parallel()

	if got := quoteLiteral("/tmp/it's.csv"); got != "'/tmp/it''s.csv'" {
		t.Errorf("quoteLiteral() = %s", got)
	}
	if got := quoteIdent(`a"b`); got != `"a""b"` {
		t.Errorf("quoteIdent() = %s", got)
	}
}
