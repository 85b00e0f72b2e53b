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

// Package tabular implements the "table" engine: the native CSV and Parquet
// readers producing frame.Frame (eager) or frame.Lazy (deferred) containers.
package tabular

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/stockparfait/errors"

	"github.com/sampledata/sampledata/engine"
	"github.com/sampledata/sampledata/frame"
	"github.com/sampledata/sampledata/options"
)

func init() {
	engine.Register("table", engine.Tabular, false, engine.CSV, ReadCSV)
	engine.Register("table", engine.Tabular, false, engine.Parquet, ReadParquet)
	engine.Register("table", engine.Tabular, true, engine.CSV, ScanCSV)
	engine.Register("table", engine.Tabular, true, engine.Parquet, ScanParquet)
}

// ReadCSV reads a CSV file eagerly into a *frame.Frame, inferring column
// dtypes unless overridden by the options.
func ReadCSV(ctx context.Context, path string, opts *options.Reader) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Annotate(err, "failed to open '%s'", path)
	}
	defer f.Close()
	fr, err := readCSV(f, opts)
	if err != nil {
		return nil, errors.Annotate(err, "failed to read CSV '%s'", path)
	}
	return fr, nil
}

// ScanCSV defers the CSV read until the returned *frame.Lazy is collected.
func ScanCSV(ctx context.Context, path string, opts *options.Reader) (any, error) {
	return frame.NewLazy(func(ctx context.Context) (*frame.Frame, error) {
		res, err := ReadCSV(ctx, path, opts)
		if err != nil {
			return nil, err
		}
		return res.(*frame.Frame), nil
	}), nil
}

func readCSV(r io.Reader, opts *options.Reader) (*frame.Frame, error) {
	cr := csv.NewReader(r)
	if opts.Delimiter != "" {
		cr.Comma = []rune(opts.Delimiter)[0]
	}
	skipBad := opts.OnBadLines == "skip"
	if skipBad {
		cr.FieldsPerRecord = -1
	}
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Annotate(err, "failed to parse CSV")
	}
	if len(rows) == 0 {
		return frame.New()
	}
	var header []string
	if opts.Header {
		header = rows[0]
		rows = rows[1:]
	} else {
		header = make([]string, len(rows[0]))
		for i := range header {
			header[i] = fmt.Sprintf("column_%d", i)
		}
	}
	if skipBad {
		kept := rows[:0]
		for _, row := range rows {
			if len(row) == len(header) {
				kept = append(kept, row)
			}
		}
		rows = kept
	}
	if opts.Rows > 0 && len(rows) > opts.Rows {
		rows = rows[:opts.Rows]
	}

	nulls := make(map[string]struct{}, len(opts.NullValues)+1)
	nulls[""] = struct{}{}
	for _, n := range opts.NullValues {
		nulls[n] = struct{}{}
	}
	dates := make(map[string]struct{}, len(opts.ParseDates))
	for _, n := range opts.ParseDates {
		dates[n] = struct{}{}
	}

	cols := make([]*frame.Column, len(header))
	for j, name := range header {
		raw := make([]string, len(rows))
		valid := make([]bool, len(rows))
		anyNull := false
		for i, row := range rows {
			raw[i] = row[j]
			if _, isNull := nulls[row[j]]; isNull {
				anyNull = true
			} else {
				valid[i] = true
			}
		}
		var mask []bool
		if anyNull {
			mask = valid
		}
		dtype, forced := opts.DTypes[name]
		if !forced {
			if _, ok := dates[name]; ok {
				dtype, forced = frame.Time, true
			}
		}
		col, err := buildColumn(name, raw, valid, mask, dtype, forced)
		if err != nil {
			return nil, errors.Annotate(err, "column '%s'", name)
		}
		cols[j] = col
	}
	f, err := frame.New(cols...)
	if err != nil {
		return nil, err
	}
	for name, cats := range opts.Categories {
		if f.Column(name) == nil {
			continue
		}
		if err := f.WithCategories(name, cats); err != nil {
			return nil, err
		}
	}
	if len(opts.Columns) > 0 {
		return f.Select(opts.Columns...)
	}
	return f, nil
}

// buildColumn parses raw strings into a typed column. When the dtype is not
// forced, it is inferred: int, then float, then bool, then string; an int
// column containing nulls is promoted to float so missing values can be
// represented.
func buildColumn(name string, raw []string, valid, mask []bool, dtype frame.DType, forced bool) (*frame.Column, error) {
	if !forced {
		dtype = inferDType(raw, valid)
		if dtype == frame.Int && mask != nil {
			dtype = frame.Float
		}
	}
	col := &frame.Column{Name: name, Type: dtype, Valid: mask}
	switch dtype {
	case frame.Int:
		col.Ints = make([]int64, len(raw))
		for i, s := range raw {
			if !valid[i] {
				continue
			}
			v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
			if err != nil {
				return nil, errors.Annotate(err, "failed to parse int: '%s'", s)
			}
			col.Ints[i] = v
		}
	case frame.Float:
		col.Floats = make([]float64, len(raw))
		for i, s := range raw {
			if !valid[i] {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, errors.Annotate(err, "failed to parse float: '%s'", s)
			}
			col.Floats[i] = v
		}
	case frame.Bool:
		col.Bools = make([]bool, len(raw))
		for i, s := range raw {
			if !valid[i] {
				continue
			}
			v, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(s)))
			if err != nil {
				return nil, errors.Annotate(err, "failed to parse bool: '%s'", s)
			}
			col.Bools[i] = v
		}
	case frame.Time:
		col.Times = make([]time.Time, len(raw))
		for i, s := range raw {
			if !valid[i] {
				continue
			}
			v, err := frame.ParseTime(strings.TrimSpace(s))
			if err != nil {
				return nil, err
			}
			col.Times[i] = v
		}
	case frame.String, frame.Categorical:
		col.Type = frame.String
		col.Strings = make([]string, len(raw))
		for i, s := range raw {
			if valid[i] {
				col.Strings[i] = s
			}
		}
	default:
		return nil, errors.Reason("unsupported dtype: %s", dtype)
	}
	return col, nil
}

func inferDType(raw []string, valid []bool) frame.DType {
	isInt, isFloat, isBool := true, true, true
	seen := false
	for i, s := range raw {
		if !valid[i] {
			continue
		}
		seen = true
		s = strings.TrimSpace(s)
		if isInt {
			if _, err := strconv.ParseInt(s, 10, 64); err != nil {
				isInt = false
			}
		}
		if isFloat {
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				isFloat = false
			}
		}
		if isBool {
			switch strings.ToLower(s) {
			case "true", "false":
			default:
				isBool = false
			}
		}
		if !isInt && !isFloat && !isBool {
			break
		}
	}
	switch {
	case !seen:
		return frame.String
	case isInt:
		return frame.Int
	case isFloat:
		return frame.Float
	case isBool:
		return frame.Bool
	}
	return frame.String
}
