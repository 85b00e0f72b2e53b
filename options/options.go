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

// Package options implements the reader-option container shared by all
// engines, and the single place where per-dataset default options are
// overlaid with caller-supplied overrides.
package options

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/stockparfait/errors"

	"github.com/sampledata/sampledata/frame"
)

// Reader holds the options understood by the reader engines. Engines are free
// to ignore options that don't apply to their format; unknown option keys are
// an error in Init, so typos surface early.
type Reader struct {
	// Columns restricts the result to the named columns, in the given order.
	Columns []string `json:"columns"`
	// Delimiter is the CSV field separator.
	Delimiter string `json:"delimiter" default:","`
	// Header indicates that the first CSV row is a header.
	Header bool `json:"header" default:"true"`
	// NullValues are string tokens decoded as missing values.
	NullValues []string `json:"null_values"`
	// ParseDates names columns to be decoded as dates.
	ParseDates []string `json:"parse_dates"`
	// DTypes forces the named columns to a dtype, bypassing inference.
	DTypes map[string]frame.DType `json:"dtypes"`
	// Categories declares categorical columns and their level ordering.
	Categories map[string]frame.Categories `json:"categories"`
	// Rows limits the number of data rows read; 0 = unlimited.
	Rows int `json:"rows"`
	// Variable selects the variable for dataarray loads of multi-variable
	// gridded files; empty selects the single data variable.
	Variable string `json:"variable"`
	// OnBadLines controls handling of malformed CSV rows.
	OnBadLines string `json:"on_bad_lines" default:"error" choices:"error,skip"`
}

// New returns a Reader populated from the given option map. A nil map yields
// all defaults.
func New(js map[string]any) (*Reader, error) {
	var r Reader
	if js == nil {
		js = map[string]any{}
	}
	if err := Init(&r, js); err != nil {
		return nil, errors.Annotate(err, "failed to init reader options")
	}
	return &r, nil
}

// Merge overlays override on top of defaults, the override winning on key
// collision. Neither input is modified.
func Merge(defaults, override map[string]any) map[string]any {
	m := make(map[string]any, len(defaults)+len(override))
	for k, v := range defaults {
		m[k] = v
	}
	for k, v := range override {
		m[k] = v
	}
	return m
}

// Init populates a struct pointer from a map keyed by the fields' json tags.
// Missing keys receive the `default:` tag value or the zero value; `choices:`
// restricts string fields; unrecognized keys are an error.
func Init(msg any, js map[string]any) error {
	rt := reflect.TypeOf(msg)
	if !(rt.Kind() == reflect.Ptr && rt.Elem().Kind() == reflect.Struct) {
		return errors.Reason("expected a struct pointer, got %s", rt.String())
	}
	rt = rt.Elem()
	rv := reflect.ValueOf(msg).Elem()
	found := make(map[string]struct{})
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag := f.Tag.Get("json"); tag != "" {
			parts := strings.Split(tag, ",")
			if parts[0] == "-" {
				continue
			}
			if parts[0] != "" {
				name = parts[0]
			}
		}
		fv := rv.FieldByName(f.Name)
		jv, ok := js[name]
		if !ok {
			if d, ok := f.Tag.Lookup("default"); ok {
				v, err := fromString(d, f.Type)
				if err != nil {
					return errors.Annotate(err, "bad default for option '%s'", name)
				}
				fv.Set(v)
			}
			continue
		}
		found[name] = struct{}{}
		v, err := convert(jv, f.Type)
		if err != nil {
			return errors.Annotate(err, "bad value for option '%s'", name)
		}
		if choices, ok := f.Tag.Lookup("choices"); ok {
			s, ok := v.Interface().(string)
			if !ok {
				return errors.Reason("option '%s' with choices must be a string", name)
			}
			if !stringIn(s, strings.Split(choices, ",")...) {
				return errors.Reason("option '%s' value '%s' is not one of %s",
					name, s, choices)
			}
		}
		fv.Set(v)
	}
	var extra []string
	for k := range js {
		if _, ok := found[k]; !ok {
			extra = append(extra, k)
		}
	}
	if len(extra) > 0 {
		return errors.Reason("unsupported options: %s", strings.Join(extra, ", "))
	}
	return nil
}

var dtypeType = reflect.TypeOf(frame.DType(0))

// convert coerces a generic option value to the target field type. Values
// already of the target type are assigned as is, which is how typed values
// such as frame.Categories travel through an option map; dtype names parse
// from strings.
func convert(jv any, t reflect.Type) (reflect.Value, error) {
	var Nil reflect.Value
	if jv == nil {
		return reflect.Zero(t), nil
	}
	v := reflect.ValueOf(jv)
	if v.Type().AssignableTo(t) {
		return v, nil
	}
	if t == dtypeType {
		s, ok := jv.(string)
		if !ok {
			return Nil, errors.Reason("not a dtype name: %v", jv)
		}
		d, err := frame.ParseDType(s)
		if err != nil {
			return Nil, err
		}
		return reflect.ValueOf(d), nil
	}
	switch t.Kind() {
	case reflect.Bool:
		b, ok := jv.(bool)
		if !ok {
			return Nil, errors.Reason("not a bool: %v", jv)
		}
		return reflect.ValueOf(b).Convert(t), nil
	case reflect.Int:
		switch n := jv.(type) {
		case int:
			return reflect.ValueOf(n).Convert(t), nil
		case int64:
			return reflect.ValueOf(int(n)).Convert(t), nil
		case float64:
			return reflect.ValueOf(int(n)).Convert(t), nil
		}
		return Nil, errors.Reason("not an int: %v", jv)
	case reflect.Float64:
		switch n := jv.(type) {
		case float64:
			return reflect.ValueOf(n).Convert(t), nil
		case int:
			return reflect.ValueOf(float64(n)).Convert(t), nil
		}
		return Nil, errors.Reason("not a float: %v", jv)
	case reflect.String:
		s, ok := jv.(string)
		if !ok {
			return Nil, errors.Reason("not a string: %v", jv)
		}
		return reflect.ValueOf(s).Convert(t), nil
	case reflect.Slice:
		vs, ok := jv.([]any)
		if !ok {
			return Nil, errors.Reason("not a slice: %v", jv)
		}
		res := reflect.MakeSlice(t, len(vs), len(vs))
		for i, el := range vs {
			ev, err := convert(el, t.Elem())
			if err != nil {
				return Nil, errors.Annotate(err, "element %d", i)
			}
			res.Index(i).Set(ev)
		}
		return res, nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return Nil, errors.Reason("map[%s] is not supported", t.Key().String())
		}
		vm, ok := jv.(map[string]any)
		if !ok {
			return Nil, errors.Reason("not a map: %v", jv)
		}
		res := reflect.MakeMap(t)
		for k, el := range vm {
			ev, err := convert(el, t.Elem())
			if err != nil {
				return Nil, errors.Annotate(err, "key '%s'", k)
			}
			res.SetMapIndex(reflect.ValueOf(k), ev)
		}
		return res, nil
	}
	return Nil, errors.Reason("cannot assign %T to %s", jv, t.String())
}

// fromString parses a `default:` tag value into the field type.
func fromString(s string, t reflect.Type) (reflect.Value, error) {
	var Nil reflect.Value
	switch t.Kind() {
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return Nil, errors.Annotate(err, "invalid bool '%s'", s)
		}
		return reflect.ValueOf(b), nil
	case reflect.Int:
		n, err := strconv.Atoi(s)
		if err != nil {
			return Nil, errors.Annotate(err, "invalid int '%s'", s)
		}
		return reflect.ValueOf(n), nil
	case reflect.Float64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Nil, errors.Annotate(err, "invalid float '%s'", s)
		}
		return reflect.ValueOf(f), nil
	case reflect.String:
		return reflect.ValueOf(s), nil
	}
	return Nil, errors.Reason("default tag unsupported for %s", t.String())
}

func stringIn(s string, values ...string) bool {
	for _, v := range values {
		if s == v {
			return true
		}
	}
	return false
}
