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

// Package grid implements the gridded container returned by the "grid"
// engine: named multi-dimensional variables with dimension names and
// attributes.
package grid

import (
	"fmt"
	"strings"

	"github.com/stockparfait/errors"
)

// Array is a single labeled n-dimensional variable. Values are stored
// flattened in row-major order and widened to float64 for consistency across
// file encodings.
type Array struct {
	Name   string
	Dims   []string
	Shape  []int
	Values []float64
	Attrs  map[string]any
	// SourceType records the on-disk element type, e.g. "float32".
	SourceType string
}

// Len is the total number of elements.
func (a *Array) Len() int {
	n := 1
	for _, s := range a.Shape {
		n *= s
	}
	if len(a.Shape) == 0 {
		return 0
	}
	return n
}

// At returns the element at the given index vector.
func (a *Array) At(idx ...int) (float64, error) {
	if len(idx) != len(a.Shape) {
		return 0, errors.Reason(
			"index has %d dimensions, array '%s' has %d", len(idx), a.Name, len(a.Shape))
	}
	flat := 0
	for i, x := range idx {
		if x < 0 || x >= a.Shape[i] {
			return 0, errors.Reason(
				"index %d out of range for dimension '%s' of size %d",
				x, a.Dims[i], a.Shape[i])
		}
		flat = flat*a.Shape[i] + x
	}
	return a.Values[flat], nil
}

// String summarizes the array as "name(dim1: n1, dim2: n2)".
func (a *Array) String() string {
	dims := make([]string, len(a.Dims))
	for i, d := range a.Dims {
		dims[i] = fmt.Sprintf("%s: %d", d, a.Shape[i])
	}
	return fmt.Sprintf("%s(%s)", a.Name, strings.Join(dims, ", "))
}

// Dataset is an ordered collection of named arrays sharing a dimension
// space, plus file-level attributes.
type Dataset struct {
	names  []string
	arrays map[string]*Array
	Attrs  map[string]any
}

// NewDataset creates an empty dataset.
func NewDataset() *Dataset {
	return &Dataset{arrays: make(map[string]*Array), Attrs: make(map[string]any)}
}

// Add appends an array; duplicate names are an error.
func (d *Dataset) Add(a *Array) error {
	if _, ok := d.arrays[a.Name]; ok {
		return errors.Reason("duplicate variable: '%s'", a.Name)
	}
	d.names = append(d.names, a.Name)
	d.arrays[a.Name] = a
	return nil
}

// Names lists the variables in insertion order.
func (d *Dataset) Names() []string { return d.names }

// Var returns the named variable, or nil.
func (d *Dataset) Var(name string) *Array { return d.arrays[name] }

// DataVars lists the variables that are not dimension coordinates, i.e. whose
// name differs from all of their dimension names.
func (d *Dataset) DataVars() []string {
	coords := make(map[string]struct{})
	for _, n := range d.names {
		for _, dim := range d.arrays[n].Dims {
			coords[dim] = struct{}{}
		}
	}
	var vars []string
	for _, n := range d.names {
		if _, ok := coords[n]; !ok {
			vars = append(vars, n)
		}
	}
	return vars
}
