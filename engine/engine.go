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

// Package engine implements the reader registry and dispatch: given an
// optional engine name, a data shape, a laziness flag and a format, it
// selects the reader function to invoke against a resolved path.
//
// Engines register themselves in their package init, the way database/sql
// drivers do; importing an engine package makes it available. The registry is
// not mutated after program init.
package engine

import (
	"context"
	"fmt"

	"github.com/stockparfait/errors"

	"github.com/sampledata/sampledata/options"
)

// Shape classifies a dataset as rows/columns or a labeled n-d array.
type Shape string

const (
	Tabular = Shape("tabular")
	Gridded = Shape("gridded")
)

// Format is the declared on-disk format of a dataset.
type Format string

const (
	CSV       = Format("csv")
	Parquet   = Format("parquet")
	Dataset   = Format("dataset")   // gridded, multi-variable
	DataArray = Format("dataarray") // gridded, single variable

	// Generated marks data produced in process rather than read from a file.
	// No reader is ever registered for it; it exists so that requesting a
	// foreign engine for a generated dataset fails with a LookupError.
	Generated = Format("generated")
)

// ReadFunc reads the file at path and returns an engine-specific container.
type ReadFunc func(ctx context.Context, path string, opts *options.Reader) (any, error)

// ErrNoEngine is returned by auto-selection when no engine is registered for
// the requested shape and laziness.
var ErrNoEngine = errors.Reason("no engine available")

// UnavailableError reports an explicitly requested engine that is not linked
// into the binary.
type UnavailableError struct {
	Engine string
	Shape  Shape
	Lazy   bool
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("engine '%s' is not available for %s (lazy=%v); "+
		"import its package to register it", e.Engine, e.Shape, e.Lazy)
}

// LookupError reports a format with no registered reader for the resolved
// engine, shape and laziness.
type LookupError struct {
	Engine string
	Shape  Shape
	Lazy   bool
	Format Format
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("format '%s' is not registered for engine '%s' (%s, lazy=%v)",
		e.Format, e.Engine, e.Shape, e.Lazy)
}

type key struct {
	shape Shape
	lazy  bool
}

// Registry holds, per (shape, laziness), an ordered table of engine name to
// per-format reader.
type Registry struct {
	order   map[key][]string
	readers map[key]map[string]map[Format]ReadFunc
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		order:   make(map[key][]string),
		readers: make(map[key]map[string]map[Format]ReadFunc),
	}
}

// preference fixes the auto-selection order. Registered engines missing from
// the list are tried after it, in registration order.
var preference = map[key][]string{
	{Tabular, false}: {"table", "arrow"},
	{Tabular, true}:  {"table"},
	{Gridded, false}: {"grid"},
}

// Register adds a reader for (engine, shape, lazy, format). Registering the
// same combination twice panics; it indicates conflicting engine packages.
func (r *Registry) Register(name string, shape Shape, lazy bool, format Format, fn ReadFunc) {
	k := key{shape, lazy}
	engines, ok := r.readers[k]
	if !ok {
		engines = make(map[string]map[Format]ReadFunc)
		r.readers[k] = engines
	}
	formats, ok := engines[name]
	if !ok {
		formats = make(map[Format]ReadFunc)
		engines[name] = formats
		r.order[k] = append(r.order[k], name)
	}
	if _, ok := formats[format]; ok {
		panic(errors.Reason("duplicate registration: %s/%v/%s/%s",
			shape, lazy, name, format))
	}
	formats[format] = fn
}

// Engines lists the available engines for (shape, lazy) in auto-selection
// order.
func (r *Registry) Engines(shape Shape, lazy bool) []string {
	k := key{shape, lazy}
	var res []string
	seen := make(map[string]struct{})
	for _, name := range preference[k] {
		if _, ok := r.readers[k][name]; ok {
			res = append(res, name)
			seen[name] = struct{}{}
		}
	}
	for _, name := range r.order[k] {
		if _, ok := seen[name]; !ok {
			res = append(res, name)
		}
	}
	return res
}

// Formats lists the formats registered for an engine under (shape, lazy).
func (r *Registry) Formats(name string, shape Shape, lazy bool) []Format {
	var res []Format
	for _, f := range []Format{CSV, Parquet, Dataset, DataArray} {
		if _, ok := r.readers[key{shape, lazy}][name][f]; ok {
			res = append(res, f)
		}
	}
	return res
}

// Resolve returns the reader for the given engine, shape, laziness and
// format. An empty engine name auto-selects the first available engine in
// preference order; ErrNoEngine is returned when there is none.
func (r *Registry) Resolve(name string, shape Shape, lazy bool, format Format) (ReadFunc, error) {
	if name == "" {
		engines := r.Engines(shape, lazy)
		if len(engines) == 0 {
			return nil, ErrNoEngine
		}
		return r.Resolve(engines[0], shape, lazy, format)
	}
	k := key{shape, lazy}
	formats, ok := r.readers[k][name]
	if !ok {
		return nil, &UnavailableError{Engine: name, Shape: shape, Lazy: lazy}
	}
	fn, ok := formats[format]
	if !ok {
		return nil, &LookupError{Engine: name, Shape: shape, Lazy: lazy, Format: format}
	}
	return fn, nil
}

// defaultRegistry is the process-wide registry populated at init.
var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry { return defaultRegistry }

// Register adds a reader to the process-wide registry.
func Register(name string, shape Shape, lazy bool, format Format, fn ReadFunc) {
	defaultRegistry.Register(name, shape, lazy, format, fn)
}

// Resolve dispatches on the process-wide registry.
func Resolve(name string, shape Shape, lazy bool, format Format) (ReadFunc, error) {
	return defaultRegistry.Resolve(name, shape, lazy, format)
}
