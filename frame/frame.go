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

// Package frame implements the native tabular container returned by the
// "table" engine: typed columns with null masks, ordered categoricals, and a
// lazy variant that defers reading until collected.
package frame

import (
	"fmt"
	"strings"
	"time"

	"github.com/stockparfait/errors"
)

// DType enumerates column value types.
type DType int

const (
	Bool DType = iota
	Int
	Float
	String
	Time
	Categorical
)

var dtypeNames = map[DType]string{
	Bool:        "bool",
	Int:         "int",
	Float:       "float",
	String:      "string",
	Time:        "time",
	Categorical: "categorical",
}

func (t DType) String() string {
	if s, ok := dtypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("dtype(%d)", int(t))
}

// ParseDType converts a dtype name as used in option maps.
func ParseDType(s string) (DType, error) {
	for t, n := range dtypeNames {
		if n == s {
			return t, nil
		}
	}
	return 0, errors.Reason("unknown dtype: '%s'", s)
}

// Categories is the level set of a categorical column. When Ordered, the
// slice order is the category order.
type Categories struct {
	Levels  []string
	Ordered bool
}

// Index returns the position of s among the levels, or -1.
func (c Categories) Index(s string) int {
	for i, l := range c.Levels {
		if l == s {
			return i
		}
	}
	return -1
}

// Column is a single typed column. Exactly one of the value slices is
// populated, matching Type; Categorical columns store their values in
// Strings. A nil Valid mask means all values are present.
type Column struct {
	Name    string
	Type    DType
	Bools   []bool
	Ints    []int64
	Floats  []float64
	Strings []string
	Times   []time.Time
	Valid   []bool
	Cats    Categories
}

// Len is the number of values in the column.
func (c *Column) Len() int {
	switch c.Type {
	case Bool:
		return len(c.Bools)
	case Int:
		return len(c.Ints)
	case Float:
		return len(c.Floats)
	case String, Categorical:
		return len(c.Strings)
	case Time:
		return len(c.Times)
	}
	return 0
}

// IsNull reports whether the i'th value is missing.
func (c *Column) IsNull(i int) bool {
	return c.Valid != nil && !c.Valid[i]
}

// Value returns the i'th value boxed as any, or nil when missing.
func (c *Column) Value(i int) any {
	if c.IsNull(i) {
		return nil
	}
	switch c.Type {
	case Bool:
		return c.Bools[i]
	case Int:
		return c.Ints[i]
	case Float:
		return c.Floats[i]
	case String, Categorical:
		return c.Strings[i]
	case Time:
		return c.Times[i]
	}
	return nil
}

// cell renders the i'th value for text output.
func (c *Column) cell(i int) string {
	if c.IsNull(i) {
		return ""
	}
	switch c.Type {
	case Bool:
		return fmt.Sprintf("%v", c.Bools[i])
	case Int:
		return fmt.Sprintf("%d", c.Ints[i])
	case Float:
		return fmt.Sprintf("%g", c.Floats[i])
	case String, Categorical:
		return c.Strings[i]
	case Time:
		return c.Times[i].Format("2006-01-02 15:04:05")
	}
	return ""
}

// Field is a single entry of a Schema.
type Field struct {
	Name string
	Type DType
}

// Schema is the ordered column-name-to-dtype mapping of a Frame.
type Schema []Field

// Equal tests two schemas for exact equality, including field order.
func (s Schema) Equal(s2 Schema) bool {
	if len(s) != len(s2) {
		return false
	}
	for i, f := range s {
		if f != s2[i] {
			return false
		}
	}
	return true
}

// String prints a string representation of the schema.
func (s Schema) String() string {
	fields := make([]string, len(s))
	for i, f := range s {
		fields[i] = fmt.Sprintf("%s: %s", f.Name, f.Type)
	}
	return "{" + strings.Join(fields, ", ") + "}"
}

// Frame is an eagerly materialized table.
type Frame struct {
	columns []*Column
	byName  map[string]int
}

// New creates a Frame from columns, which must have unique names and equal
// lengths.
func New(cols ...*Column) (*Frame, error) {
	f := &Frame{byName: make(map[string]int, len(cols))}
	for i, c := range cols {
		if _, ok := f.byName[c.Name]; ok {
			return nil, errors.Reason("duplicate column name: '%s'", c.Name)
		}
		if i > 0 && c.Len() != cols[0].Len() {
			return nil, errors.Reason(
				"column '%s' has %d values, expected %d", c.Name, c.Len(), cols[0].Len())
		}
		f.byName[c.Name] = i
		f.columns = append(f.columns, c)
	}
	return f, nil
}

// NumRows is the number of rows in the frame.
func (f *Frame) NumRows() int {
	if len(f.columns) == 0 {
		return 0
	}
	return f.columns[0].Len()
}

// NumCols is the number of columns in the frame.
func (f *Frame) NumCols() int { return len(f.columns) }

// Columns returns the columns in order. The slice is shared, not copied.
func (f *Frame) Columns() []*Column { return f.columns }

// Column returns the named column, or nil.
func (f *Frame) Column(name string) *Column {
	i, ok := f.byName[name]
	if !ok {
		return nil
	}
	return f.columns[i]
}

// Schema returns the frame's schema.
func (f *Frame) Schema() Schema {
	s := make(Schema, len(f.columns))
	for i, c := range f.columns {
		s[i] = Field{Name: c.Name, Type: c.Type}
	}
	return s
}

// Select returns a new Frame with only the named columns, in the given
// order. The columns themselves are shared.
func (f *Frame) Select(names ...string) (*Frame, error) {
	cols := make([]*Column, len(names))
	for i, n := range names {
		c := f.Column(n)
		if c == nil {
			return nil, errors.Reason("no such column: '%s'", n)
		}
		cols[i] = c
	}
	return New(cols...)
}

// WithCategories re-types the named string or categorical column as
// categorical with the given level set and ordering. Values outside the
// level set become nulls.
func (f *Frame) WithCategories(name string, cats Categories) error {
	c := f.Column(name)
	if c == nil {
		return errors.Reason("no such column: '%s'", name)
	}
	if c.Type != String && c.Type != Categorical {
		return errors.Reason(
			"column '%s' is %s; only string columns can be categorical", name, c.Type)
	}
	valid := c.Valid
	if valid == nil {
		valid = make([]bool, len(c.Strings))
		for i := range valid {
			valid[i] = true
		}
	}
	for i, s := range c.Strings {
		if valid[i] && cats.Index(s) < 0 {
			valid[i] = false
		}
	}
	c.Type = Categorical
	c.Cats = cats
	c.Valid = valid
	return nil
}
