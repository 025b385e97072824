// Touchgrass - Screen-Time Aware Outdoor Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/touchgrass

/*
Package source reads the staged silver datasets that feed a decision cycle.

The silver tier is four CSV files produced by upstream ingestion jobs:

	screen_time.csv     device, minutes_spent, timestamp_utc
	user_location.csv   latitude, longitude, resolved_at_utc
	weather.csv         timestamp_utc, temperature_c, uv_index, weather_code, weather_category
	places.csv          location_id, location_name, address, category, latitude,
	                    longitude, google_maps_link, is_active, updated_at_utc

DuckDBSource queries the files with an embedded DuckDB using read_csv_auto
with all_varchar=true, so every value reaches the snapshot package as text
and type coercion happens in exactly one place. For the three single-record
datasets the latest row by timestamp is returned; places are returned whole
and in file order.

When source.s3_prefix is configured, an S3Stager downloads the four files
from object storage into the silver directory before every read.

Missing screen time or an empty place catalog is cycle-fatal and reported as
ErrNoScreenTime or ErrNoPlaces. Location and weather are optional.
*/
package source
