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

package tabular

import (
	"context"
	"io"
	"os"
	"time"

	goparquet "github.com/fraugster/parquet-go"
	"github.com/stockparfait/errors"

	"github.com/sampledata/sampledata/frame"
	"github.com/sampledata/sampledata/options"
)

// ReadParquet reads a Parquet file eagerly into a *frame.Frame. Decoding is
// delegated to parquet-go; values are converted column-wise, float32 widened
// to float64 and byte arrays decoded as strings.
func ReadParquet(ctx context.Context, path string, opts *options.Reader) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Annotate(err, "failed to open '%s'", path)
	}
	defer f.Close()

	pr, err := goparquet.NewFileReader(f, opts.Columns...)
	if err != nil {
		return nil, errors.Annotate(err, "failed to read parquet '%s'", path)
	}
	names, err := parquetColumns(pr, opts)
	if err != nil {
		return nil, errors.Annotate(err, "bad parquet schema in '%s'", path)
	}

	var rows []map[string]interface{}
	for {
		if opts.Rows > 0 && len(rows) >= opts.Rows {
			break
		}
		row, err := pr.NextRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Annotate(err, "failed to read parquet row %d", len(rows))
		}
		rows = append(rows, row)
	}

	dates := make(map[string]struct{}, len(opts.ParseDates))
	for _, n := range opts.ParseDates {
		dates[n] = struct{}{}
	}
	cols := make([]*frame.Column, len(names))
	for j, name := range names {
		_, asDate := dates[name]
		col, err := parquetColumn(name, rows, asDate)
		if err != nil {
			return nil, errors.Annotate(err, "column '%s'", name)
		}
		cols[j] = col
	}
	fr, err := frame.New(cols...)
	if err != nil {
		return nil, err
	}
	for name, cats := range opts.Categories {
		if fr.Column(name) == nil {
			continue
		}
		if err := fr.WithCategories(name, cats); err != nil {
			return nil, err
		}
	}
	return fr, nil
}

// ScanParquet defers the Parquet read until the returned *frame.Lazy is
// collected.
func ScanParquet(ctx context.Context, path string, opts *options.Reader) (any, error) {
	return frame.NewLazy(func(ctx context.Context) (*frame.Frame, error) {
		res, err := ReadParquet(ctx, path, opts)
		if err != nil {
			return nil, err
		}
		return res.(*frame.Frame), nil
	}), nil
}

// parquetColumns returns the top-level column names in schema order,
// restricted to opts.Columns when set.
func parquetColumns(pr *goparquet.FileReader, opts *options.Reader) ([]string, error) {
	root := pr.GetSchemaDefinition().RootColumn
	var names []string
	for _, child := range root.Children {
		if len(child.Children) > 0 {
			return nil, errors.Reason(
				"nested column '%s' is not supported", child.SchemaElement.Name)
		}
		names = append(names, child.SchemaElement.Name)
	}
	if len(opts.Columns) == 0 {
		return names, nil
	}
	present := make(map[string]struct{}, len(names))
	for _, n := range names {
		present[n] = struct{}{}
	}
	var res []string
	for _, n := range opts.Columns {
		if _, ok := present[n]; !ok {
			return nil, errors.Reason("no such column: '%s'", n)
		}
		res = append(res, n)
	}
	return res, nil
}

// parquetColumn assembles one typed column from decoded row maps. A key
// missing from a row map is a null.
func parquetColumn(name string, rows []map[string]interface{}, asDate bool) (*frame.Column, error) {
	n := len(rows)
	valid := make([]bool, n)
	anyNull := false
	var sample interface{}
	for i, row := range rows {
		v, ok := row[name]
		if !ok || v == nil {
			anyNull = true
			continue
		}
		valid[i] = true
		if sample == nil {
			sample = v
		}
	}
	var mask []bool
	if anyNull {
		mask = valid
	}
	col := &frame.Column{Name: name, Valid: mask}
	if asDate {
		col.Type = frame.Time
		col.Times = make([]time.Time, n)
		for i, row := range rows {
			if !valid[i] {
				continue
			}
			t, err := parquetTime(row[name])
			if err != nil {
				return nil, err
			}
			col.Times[i] = t
		}
		return col, nil
	}
	switch sample.(type) {
	case nil: // all-null column
		col.Type = frame.String
		col.Strings = make([]string, n)
	case bool:
		col.Type = frame.Bool
		col.Bools = make([]bool, n)
		for i, row := range rows {
			if valid[i] {
				col.Bools[i] = row[name].(bool)
			}
		}
	case int32, int64:
		col.Type = frame.Int
		if mask != nil {
			// Missing values cannot be represented in an int column.
			col.Type = frame.Float
		}
		if col.Type == frame.Int {
			col.Ints = make([]int64, n)
			for i, row := range rows {
				if valid[i] {
					col.Ints[i] = asInt64(row[name])
				}
			}
		} else {
			col.Floats = make([]float64, n)
			for i, row := range rows {
				if valid[i] {
					col.Floats[i] = float64(asInt64(row[name]))
				}
			}
		}
	case float32, float64:
		col.Type = frame.Float
		col.Floats = make([]float64, n)
		for i, row := range rows {
			if valid[i] {
				col.Floats[i] = asFloat64(row[name])
			}
		}
	case []byte, string:
		col.Type = frame.String
		col.Strings = make([]string, n)
		for i, row := range rows {
			if valid[i] {
				col.Strings[i] = asString(row[name])
			}
		}
	default:
		return nil, errors.Reason("unsupported parquet value type %T", sample)
	}
	return col, nil
}

func asInt64(v interface{}) int64 {
	switch x := v.(type) {
	case int32:
		return int64(x)
	case int64:
		return x
	}
	return 0
}

func asFloat64(v interface{}) float64 {
	switch x := v.(type) {
	case float32:
		return float64(x)
	case float64:
		return x
	}
	return 0
}

func asString(v interface{}) string {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case string:
		return x
	}
	return ""
}

// parquetTime decodes a date value: epoch milliseconds for integer columns,
// or a textual date.
func parquetTime(v interface{}) (time.Time, error) {
	switch x := v.(type) {
	case int32:
		// DATE logical type: days since epoch.
		return time.Unix(int64(x)*86400, 0).UTC(), nil
	case int64:
		return time.UnixMilli(x).UTC(), nil
	case []byte:
		return frame.ParseTime(string(x))
	case string:
		return frame.ParseTime(x)
	}
	return time.Time{}, errors.Reason("cannot parse %T as a date", v)
}
