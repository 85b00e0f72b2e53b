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

package gridded

import (
	"reflect"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/stockparfait/errors"

	"github.com/sampledata/sampledata/grid"
)

// readNetCDF decodes a NetCDF file into a dataset. When vars is non-empty,
// only the named variables are loaded.
func readNetCDF(path string, vars []string) (any, error) {
	g, err := netcdf.Open(path)
	if err != nil {
		return nil, errors.Annotate(err, "failed to open NetCDF '%s'", path)
	}
	defer g.Close()

	want := make(map[string]struct{}, len(vars))
	for _, v := range vars {
		want[v] = struct{}{}
	}
	ds := grid.NewDataset()
	for _, k := range g.Attributes().Keys() {
		if v, ok := g.Attributes().Get(k); ok {
			ds.Attrs[k] = v
		}
	}
	for _, name := range g.ListVariables() {
		if len(want) > 0 {
			if _, ok := want[name]; !ok {
				continue
			}
		}
		v, err := g.GetVariable(name)
		if err != nil {
			return nil, errors.Annotate(err, "failed to read variable '%s'", name)
		}
		a, err := toArray(name, v.Values, v.Dimensions)
		if err != nil {
			return nil, errors.Annotate(err, "failed to convert variable '%s'", name)
		}
		for _, k := range v.Attributes.Keys() {
			if av, ok := v.Attributes.Get(k); ok {
				a.Attrs[k] = av
			}
		}
		if err := ds.Add(a); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// toArray flattens a possibly nested slice of numeric values into a
// row-major float64 array. All numeric element types are widened to float64
// so downstream schemas do not depend on the on-disk encoding.
func toArray(name string, values any, dims []string) (*grid.Array, error) {
	rv := reflect.ValueOf(values)
	var shape []int
	for t := rv; t.Kind() == reflect.Slice; {
		shape = append(shape, t.Len())
		if t.Len() == 0 {
			break
		}
		t = t.Index(0)
	}
	if len(shape) == 0 {
		shape = []int{1} // scalar
	}
	if len(dims) == 0 {
		dims = make([]string, len(shape))
		for i := range dims {
			dims[i] = "dim_" + string(rune('0'+i))
		}
	}
	if len(dims) != len(shape) {
		return nil, errors.Reason(
			"variable '%s' has %d dimensions but %d dimension names",
			name, len(shape), len(dims))
	}
	a := &grid.Array{
		Name:       name,
		Dims:       dims,
		Shape:      shape,
		Attrs:      make(map[string]any),
		SourceType: elemTypeName(rv.Type()),
	}
	a.Values = make([]float64, 0, a.Len())
	if err := flatten(rv, &a.Values); err != nil {
		return nil, errors.Annotate(err, "variable '%s'", name)
	}
	return a, nil
}

func elemTypeName(t reflect.Type) string {
	for t.Kind() == reflect.Slice {
		t = t.Elem()
	}
	return t.String()
}

func flatten(v reflect.Value, out *[]float64) error {
	switch v.Kind() {
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			if err := flatten(v.Index(i), out); err != nil {
				return err
			}
		}
		return nil
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
		*out = append(*out, float64(v.Int()))
		return nil
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
		*out = append(*out, float64(v.Uint()))
		return nil
	case reflect.Float32, reflect.Float64:
		*out = append(*out, v.Float())
		return nil
	}
	return errors.Reason("unsupported element type %s", v.Kind())
}
