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

// Package datasets exposes one accessor per dataset.
//
// Currently available datasets:
//
//	| Name               | Type    | Online |
//	| ------------------ | ------- | ------ |
//	| penguins           | Tabular | No     |
//	| earthquakes        | Tabular | No     |
//	| air_temperature    | Gridded | No     |
//	| airplane           | Gridded | No     |
//	| large_timeseries   | Tabular | Yes    |
//	| nyc_taxi           | Tabular | Yes    |
//	| synthetic_clusters | Tabular | No     |
//
// Each accessor resolves its dataset to a local path (downloading remote
// files into the user cache on first access), dispatches to a reader engine
// and returns the engine's container: *frame.Frame or *frame.Lazy for the
// "table" engine, arrow.Record or arrow.Table for "arrow", *grid.Dataset or
// *grid.Array for "grid". Importing this package links all engines; use the
// engine and resolve packages directly for a smaller binary.
package datasets

import (
	"context"

	"github.com/stockparfait/errors"

	"github.com/sampledata/sampledata/catalog"
	"github.com/sampledata/sampledata/engine"
	"github.com/sampledata/sampledata/frame"
	"github.com/sampledata/sampledata/options"
	"github.com/sampledata/sampledata/resolve"

	_ "github.com/sampledata/sampledata/engine/arrowtab"
	_ "github.com/sampledata/sampledata/engine/gridded"
	_ "github.com/sampledata/sampledata/engine/tabular"
)

// Descriptors is the catalog backing the accessors. It may be overridden in
// tests before any accessor is called.
var Descriptors = catalog.Default()

// LoadConfig selects the engine and laziness for an accessor call. A nil
// config means auto-selected engine, eager load, no option overrides.
type LoadConfig struct {
	// Engine names the reader engine; empty auto-selects.
	Engine string
	// Lazy defers the read until the returned lazy container is collected.
	Lazy bool
	// EngineArgs overrides the accessor's default reader options; the
	// caller's values win on key collision.
	EngineArgs map[string]any
	// DownloadOnly resolves (and caches) the dataset without reading it; the
	// accessor returns the local path as a string.
	DownloadOnly bool
}

func (c *LoadConfig) orDefault() *LoadConfig {
	if c == nil {
		return &LoadConfig{}
	}
	return c
}

// load is the shared accessor body: resolve path, resolve reader, merge
// options, read, apply post-read corrections.
func load(ctx context.Context, name string, defaults map[string]any, cfg *LoadConfig, post ...frame.Op) (any, error) {
	cfg = cfg.orDefault()
	d, err := Descriptors.Get(name)
	if err != nil {
		return nil, err
	}
	path, err := resolve.Resolve(ctx, d)
	if err != nil {
		return nil, err
	}
	if cfg.DownloadOnly {
		return path, nil
	}
	fn, err := engine.Resolve(
		cfg.Engine, engine.Shape(d.Shape), cfg.Lazy, engine.Format(d.Format))
	if err != nil {
		return nil, err
	}
	opts, err := options.New(options.Merge(defaults, cfg.EngineArgs))
	if err != nil {
		return nil, errors.Annotate(err, "bad options for dataset '%s'", name)
	}
	res, err := fn(ctx, path, opts)
	if err != nil {
		return nil, errors.Annotate(err, "failed to load dataset '%s'", name)
	}
	res, err = applyPost(res, post)
	if err != nil {
		return nil, errors.Annotate(err, "failed to normalize dataset '%s'", name)
	}
	return res, nil
}

// applyPost attaches post-read corrections: applied immediately to a native
// frame, deferred to Collect for a lazy one, and skipped for containers of
// other engines.
func applyPost(res any, post []frame.Op) (any, error) {
	if len(post) == 0 {
		return res, nil
	}
	switch v := res.(type) {
	case *frame.Frame:
		for _, op := range post {
			if err := op(v); err != nil {
				return nil, err
			}
		}
		return v, nil
	case *frame.Lazy:
		for _, op := range post {
			v = v.With(op)
		}
		return v, nil
	}
	return res, nil
}
