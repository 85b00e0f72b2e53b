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

package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/sampledata/sampledata/options"

	. "github.com/smartystreets/goconvey/convey"
)

func reader(tag string) ReadFunc {
	return func(ctx context.Context, path string, opts *options.Reader) (any, error) {
		return tag, nil
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	opts, _ := options.New(nil)

	Convey("Resolve() works", t, func() {
		r := NewRegistry()
		r.Register("arrow", Tabular, false, CSV, reader("arrow-csv"))
		r.Register("table", Tabular, false, CSV, reader("table-csv"))
		r.Register("table", Tabular, false, Parquet, reader("table-parquet"))
		r.Register("table", Tabular, true, CSV, reader("table-lazy-csv"))
		r.Register("grid", Gridded, false, Dataset, reader("grid-ds"))

		run := func(name string, shape Shape, lazy bool, format Format) (any, error) {
			fn, err := r.Resolve(name, shape, lazy, format)
			if err != nil {
				return nil, err
			}
			return fn(ctx, "unused", opts)
		}

		Convey("explicit engine", func() {
			v, err := run("arrow", Tabular, false, CSV)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "arrow-csv")
		})

		Convey("auto-selection follows preference order, not registration", func() {
			v, err := run("", Tabular, false, CSV)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "table-csv")

			v, err = run("", Tabular, true, CSV)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "table-lazy-csv")

			v, err = run("", Gridded, false, Dataset)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "grid-ds")
		})

		Convey("unavailable engine", func() {
			_, err := run("polars", Tabular, false, CSV)
			var uerr *UnavailableError
			So(errors.As(err, &uerr), ShouldBeTrue)
			So(uerr.Engine, ShouldEqual, "polars")

			// Registered name, wrong laziness.
			_, err = run("arrow", Tabular, true, CSV)
			So(errors.As(err, &uerr), ShouldBeTrue)
		})

		Convey("registered engine without the format", func() {
			_, err := run("arrow", Tabular, false, Parquet)
			var lerr *LookupError
			So(errors.As(err, &lerr), ShouldBeTrue)
			So(lerr.Format, ShouldEqual, Parquet)
		})

		Convey("no engine at all", func() {
			empty := NewRegistry()
			_, err := empty.Resolve("", Tabular, false, CSV)
			So(errors.Is(err, ErrNoEngine), ShouldBeTrue)

			_, err = r.Resolve("", Gridded, true, Dataset)
			So(errors.Is(err, ErrNoEngine), ShouldBeTrue)
		})
	})

	Convey("Engines() and Formats() work", t, func() {
		r := NewRegistry()
		r.Register("custom", Tabular, false, CSV, reader("c"))
		r.Register("arrow", Tabular, false, CSV, reader("a"))
		r.Register("table", Tabular, false, CSV, reader("t"))
		r.Register("table", Tabular, false, Parquet, reader("tp"))

		// Preferred engines first, then extras in registration order.
		So(r.Engines(Tabular, false), ShouldResemble, []string{"table", "arrow", "custom"})
		So(r.Engines(Gridded, false), ShouldBeNil)
		So(r.Formats("table", Tabular, false), ShouldResemble, []Format{CSV, Parquet})
		So(r.Formats("table", Gridded, false), ShouldBeNil)
	})

	Convey("duplicate registration panics", t, func() {
		r := NewRegistry()
		r.Register("table", Tabular, false, CSV, reader("t"))
		So(func() {
			r.Register("table", Tabular, false, CSV, reader("t2"))
		}, ShouldPanic)
	})
}
