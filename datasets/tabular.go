// Copyright 2025 Sample Data Authors

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package datasets

import (
	"context"

	"github.com/sampledata/sampledata/frame"
)

// Penguins loads the Palmer Penguins dataset: body measurements of three
// penguin species observed on islands of the Palmer Archipelago. Missing
// measurements are encoded as "NA" in the file and load as nulls.
func Penguins(ctx context.Context, cfg *LoadConfig) (any, error) {
	defaults := map[string]any{
		"null_values": []string{"NA"},
	}
	return load(ctx, "penguins", defaults, cfg)
}

var (
	depthLevels = frame.Categories{
		Levels:  []string{"Shallow", "Intermediate", "Deep"},
		Ordered: true,
	}
	magLevels = frame.Categories{
		Levels:  []string{"Light", "Moderate", "Strong", "Major"},
		Ordered: true,
	}
)

// Earthquakes loads a sample of earthquake events. The time column parses as
// a timestamp, and the depth_class and mag_class columns are ordered
// categoricals (Shallow < Intermediate < Deep, Light < Moderate < Strong <
// Major).
func Earthquakes(ctx context.Context, cfg *LoadConfig) (any, error) {
	defaults := map[string]any{
		"parse_dates": []string{"time"},
		"categories": map[string]frame.Categories{
			"depth_class": depthLevels,
			"mag_class":   magLevels,
		},
	}
	// Lazy reads apply options at collect time, but an engine override may
	// drop the category ordering; re-impose it after the read.
	reorder := func(f *frame.Frame) error {
		if err := f.WithCategories("depth_class", depthLevels); err != nil {
			return err
		}
		return f.WithCategories("mag_class", magLevels)
	}
	return load(ctx, "earthquakes", defaults, cfg, reorder)
}

// LargeTimeseries loads a multi-year sensor time series from a remote
// Parquet file. The file is downloaded into the user cache on first access.
func LargeTimeseries(ctx context.Context, cfg *LoadConfig) (any, error) {
	defaults := map[string]any{
		"parse_dates": []string{"time"},
	}
	return load(ctx, "large_timeseries", defaults, cfg)
}

// NYCTaxi loads a sample of NYC taxi trips from a remote Parquet file. The
// download is verified against a known SHA-256 checksum and cached.
func NYCTaxi(ctx context.Context, cfg *LoadConfig) (any, error) {
	defaults := map[string]any{
		"parse_dates": []string{"tpep_pickup_datetime", "tpep_dropoff_datetime"},
	}
	return load(ctx, "nyc_taxi", defaults, cfg)
}
