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

// Package arrowtab implements the "arrow" engine: eager tabular reads into
// Apache Arrow containers. CSV loads return an arrow.Record, Parquet loads an
// arrow.Table; both must be Release()d by the caller.
//
// Date parsing and categorical options are inference-driven or not
// applicable under Arrow and are ignored here; schemas therefore differ from
// the native engine in the documented string/dictionary representations.
package arrowtab

import (
	"context"
	"os"

	"github.com/apache/arrow/go/v17/arrow/csv"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/parquet/file"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"
	"github.com/stockparfait/errors"

	"github.com/sampledata/sampledata/engine"
	"github.com/sampledata/sampledata/options"
)

func init() {
	engine.Register("arrow", engine.Tabular, false, engine.CSV, ReadCSV)
	engine.Register("arrow", engine.Tabular, false, engine.Parquet, ReadParquet)
}

// ReadCSV reads a whole CSV file into a single arrow.Record with an inferred
// schema.
func ReadCSV(ctx context.Context, path string, opts *options.Reader) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Annotate(err, "failed to open '%s'", path)
	}
	defer f.Close()

	copts := []csv.Option{
		csv.WithAllocator(memory.DefaultAllocator),
		csv.WithHeader(opts.Header),
		csv.WithChunk(-1),
	}
	if opts.Delimiter != "" {
		copts = append(copts, csv.WithComma([]rune(opts.Delimiter)[0]))
	}
	if len(opts.NullValues) > 0 {
		copts = append(copts, csv.WithNullReader(true, opts.NullValues...))
	}
	if len(opts.Columns) > 0 {
		copts = append(copts, csv.WithIncludeColumns(opts.Columns))
	}
	r := csv.NewInferringReader(f, copts...)
	defer r.Release()

	if !r.Next() {
		if err := r.Err(); err != nil {
			return nil, errors.Annotate(err, "failed to read CSV '%s'", path)
		}
		return nil, errors.Reason("no rows in CSV '%s'", path)
	}
	rec := r.Record()
	rec.Retain()
	if err := r.Err(); err != nil {
		rec.Release()
		return nil, errors.Annotate(err, "failed to read CSV '%s'", path)
	}
	return rec, nil
}

// ReadParquet reads a Parquet file into an arrow.Table.
func ReadParquet(ctx context.Context, path string, opts *options.Reader) (any, error) {
	pf, err := file.OpenParquetFile(path, false)
	if err != nil {
		return nil, errors.Annotate(err, "failed to open parquet '%s'", path)
	}
	defer pf.Close()

	fr, err := pqarrow.NewFileReader(
		pf, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, errors.Annotate(err, "failed to read parquet '%s'", path)
	}
	tbl, err := fr.ReadTable(ctx)
	if err != nil {
		return nil, errors.Annotate(err, "failed to decode parquet '%s'", path)
	}
	return tbl, nil
}
