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

package frame

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stockparfait/errors"

	. "github.com/smartystreets/goconvey/convey"
)

func testFrame() *Frame {
	f, err := New(
		&Column{Name: "name", Type: String, Strings: []string{"ant", "bee", "cat"}},
		&Column{Name: "legs", Type: Int, Ints: []int64{6, 6, 4}},
		&Column{Name: "mass", Type: Float, Floats: []float64{0.01, 0.1, 4000},
			Valid: []bool{true, false, true}},
	)
	if err != nil {
		panic(err)
	}
	return f
}

func TestFrame(t *testing.T) {
	t.Parallel()

	Convey("New() works", t, func() {
		Convey("builds a frame with schema", func() {
			f := testFrame()
			So(f.NumRows(), ShouldEqual, 3)
			So(f.NumCols(), ShouldEqual, 3)
			So(f.Schema(), ShouldResemble, Schema{
				{Name: "name", Type: String},
				{Name: "legs", Type: Int},
				{Name: "mass", Type: Float},
			})
		})

		Convey("rejects duplicate column names", func() {
			_, err := New(
				&Column{Name: "a", Type: Int, Ints: []int64{1}},
				&Column{Name: "a", Type: Int, Ints: []int64{2}},
			)
			So(err, ShouldNotBeNil)
		})

		Convey("rejects mismatched lengths", func() {
			_, err := New(
				&Column{Name: "a", Type: Int, Ints: []int64{1, 2}},
				&Column{Name: "b", Type: Int, Ints: []int64{3}},
			)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Column values and nulls work", t, func() {
		f := testFrame()
		mass := f.Column("mass")
		So(mass.IsNull(0), ShouldBeFalse)
		So(mass.IsNull(1), ShouldBeTrue)
		So(mass.Value(1), ShouldBeNil)
		So(mass.Value(2), ShouldEqual, 4000.0)
		So(f.Column("nope"), ShouldBeNil)
	})

	Convey("Select() works", t, func() {
		f := testFrame()
		s, err := f.Select("legs", "name")
		So(err, ShouldBeNil)
		So(s.Schema(), ShouldResemble, Schema{
			{Name: "legs", Type: Int},
			{Name: "name", Type: String},
		})

		_, err = f.Select("wings")
		So(err, ShouldNotBeNil)
	})

	Convey("WithCategories() works", t, func() {
		cats := Categories{Levels: []string{"ant", "cat"}, Ordered: true}

		Convey("re-types a string column", func() {
			f := testFrame()
			So(f.WithCategories("name", cats), ShouldBeNil)
			c := f.Column("name")
			So(c.Type, ShouldEqual, Categorical)
			So(c.Cats.Ordered, ShouldBeTrue)
			So(c.Cats.Index("cat"), ShouldEqual, 1)
			// "bee" is outside the level set.
			So(c.IsNull(1), ShouldBeTrue)
			So(c.IsNull(0), ShouldBeFalse)
		})

		Convey("is idempotent on a categorical column", func() {
			f := testFrame()
			So(f.WithCategories("name", cats), ShouldBeNil)
			So(f.WithCategories("name", cats), ShouldBeNil)
			So(f.Column("name").Type, ShouldEqual, Categorical)
		})

		Convey("rejects non-string columns", func() {
			f := testFrame()
			So(f.WithCategories("legs", cats), ShouldNotBeNil)
			So(f.WithCategories("nope", cats), ShouldNotBeNil)
		})
	})
}

func TestLazy(t *testing.T) {
	t.Parallel()

	Convey("Lazy frame works", t, func() {
		ctx := context.Background()

		Convey("defers the source until Collect", func() {
			calls := 0
			l := NewLazy(func(context.Context) (*Frame, error) {
				calls++
				return testFrame(), nil
			})
			So(calls, ShouldEqual, 0)
			f, err := l.Collect(ctx)
			So(err, ShouldBeNil)
			So(calls, ShouldEqual, 1)
			So(f.NumRows(), ShouldEqual, 3)
		})

		Convey("applies ops in order; With copies", func() {
			l := NewLazy(func(context.Context) (*Frame, error) {
				return testFrame(), nil
			})
			var order []string
			l2 := l.With(func(f *Frame) error {
				order = append(order, "first")
				return nil
			}).With(func(f *Frame) error {
				order = append(order, "second")
				return nil
			})
			_, err := l.Collect(ctx) // original has no ops
			So(err, ShouldBeNil)
			So(len(order), ShouldEqual, 0)

			_, err = l2.Collect(ctx)
			So(err, ShouldBeNil)
			So(order, ShouldResemble, []string{"first", "second"})
		})

		Convey("propagates source and op errors", func() {
			l := NewLazy(func(context.Context) (*Frame, error) {
				return nil, errors.Reason("no data")
			})
			_, err := l.Collect(ctx)
			So(err, ShouldNotBeNil)

			l = NewLazy(func(context.Context) (*Frame, error) {
				return testFrame(), nil
			}).With(func(f *Frame) error { return errors.Reason("bad op") })
			_, err = l.Collect(ctx)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestParseTime(t *testing.T) {
	t.Parallel()

	Convey("ParseTime works", t, func() {
		Convey("for supported formats", func() {
			for _, s := range []string{
				"2021-03-04 19:28:33",
				"2021-03-04T19:28:33",
				"2021-03-04T19:28:33.123",
				"2021-03-04",
				"2021/03/04",
			} {
				tm, err := ParseTime(s)
				So(err, ShouldBeNil)
				So(tm.Year(), ShouldEqual, 2021)
				So(tm.Month(), ShouldEqual, time.March)
				So(tm.Day(), ShouldEqual, 4)
			}
		})

		Convey("for zero dates", func() {
			tm, err := ParseTime("0000-00-00")
			So(err, ShouldBeNil)
			So(tm.IsZero(), ShouldBeTrue)
		})

		Convey("fails for garbage", func() {
			_, err := ParseTime("yesterday")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestRender(t *testing.T) {
	t.Parallel()

	Convey("WriteCSV works", t, func() {
		var buf bytes.Buffer
		So(testFrame().WriteCSV(&buf, Params{}), ShouldBeNil)
		So(buf.String(), ShouldEqual, `name,legs,mass
ant,6,0.01
bee,6,
cat,4,4000
`)

		Convey("respects Rows and NoHeader", func() {
			buf.Reset()
			So(testFrame().WriteCSV(&buf, Params{Rows: 1, NoHeader: true}), ShouldBeNil)
			So(buf.String(), ShouldEqual, "ant,6,0.01\n")
		})
	})

	Convey("WriteText works", t, func() {
		var buf bytes.Buffer
		So(testFrame().WriteText(&buf, Params{}), ShouldBeNil)
		lines := strings.Split(buf.String(), "\n")
		So(lines[0], ShouldEqual, "name | legs | mass")
		So(lines[1], ShouldEqual, "---- | ---- | ----")
		So(lines[2], ShouldEqual, " ant |    6 | 0.01")
		So(strings.TrimRight(lines[3], " "), ShouldEqual, " bee |    6 |")
		So(lines[4], ShouldEqual, " cat |    4 | 4000")

		Convey("rejects a too small MaxColWidth", func() {
			So(testFrame().WriteText(&buf, Params{MaxColWidth: 3}), ShouldNotBeNil)
		})
	})
}
