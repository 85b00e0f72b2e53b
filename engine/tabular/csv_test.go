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
	"os"
	"path/filepath"
	"testing"

	"github.com/sampledata/sampledata/frame"
	"github.com/sampledata/sampledata/options"

	. "github.com/smartystreets/goconvey/convey"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readerOpts(t *testing.T, js map[string]any) *options.Reader {
	t.Helper()
	opts, err := options.New(js)
	if err != nil {
		t.Fatal(err)
	}
	return opts
}

func TestReadCSV(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	Convey("ReadCSV() works", t, func() {
		Convey("infers column dtypes", func() {
			path := writeFile(t, "basic.csv", `name,legs,mass,tame
ant,6,0.01,false
bee,6,0.1,false
dog,4,12.5,true
`)
			res, err := ReadCSV(ctx, path, readerOpts(t, nil))
			So(err, ShouldBeNil)
			f := res.(*frame.Frame)
			So(f.Schema(), ShouldResemble, frame.Schema{
				{Name: "name", Type: frame.String},
				{Name: "legs", Type: frame.Int},
				{Name: "mass", Type: frame.Float},
				{Name: "tame", Type: frame.Bool},
			})
			So(f.NumRows(), ShouldEqual, 3)
			So(f.Column("legs").Ints, ShouldResemble, []int64{6, 6, 4})
			So(f.Column("tame").Bools[2], ShouldBeTrue)
		})

		Convey("decodes null tokens and promotes int to float", func() {
			path := writeFile(t, "nulls.csv", `name,count
ant,3
bee,NA
cat,
`)
			res, err := ReadCSV(ctx, path, readerOpts(t, map[string]any{
				"null_values": []string{"NA"},
			}))
			So(err, ShouldBeNil)
			f := res.(*frame.Frame)
			c := f.Column("count")
			So(c.Type, ShouldEqual, frame.Float)
			So(c.IsNull(0), ShouldBeFalse)
			So(c.IsNull(1), ShouldBeTrue)
			So(c.IsNull(2), ShouldBeTrue)
			So(c.Floats[0], ShouldEqual, 3)
		})

		Convey("parses date columns", func() {
			path := writeFile(t, "dates.csv", `time,mag
2021-03-04T19:28:33,8.1
2021-08-14,7.2
`)
			res, err := ReadCSV(ctx, path, readerOpts(t, map[string]any{
				"parse_dates": []string{"time"},
			}))
			So(err, ShouldBeNil)
			f := res.(*frame.Frame)
			c := f.Column("time")
			So(c.Type, ShouldEqual, frame.Time)
			So(c.Times[0].Year(), ShouldEqual, 2021)
			So(c.Times[1].Day(), ShouldEqual, 14)
		})

		Convey("applies forced dtypes", func() {
			path := writeFile(t, "dtypes.csv", `zip,city
02134,Boston
10001,New York
`)
			res, err := ReadCSV(ctx, path, readerOpts(t, map[string]any{
				"dtypes": map[string]frame.DType{"zip": frame.String},
			}))
			So(err, ShouldBeNil)
			f := res.(*frame.Frame)
			So(f.Column("zip").Type, ShouldEqual, frame.String)
			So(f.Column("zip").Strings[0], ShouldEqual, "02134")
		})

		Convey("applies categories with ordering", func() {
			path := writeFile(t, "cats.csv", `name,size
ant,S
dog,M
cow,XL
`)
			res, err := ReadCSV(ctx, path, readerOpts(t, map[string]any{
				"categories": map[string]frame.Categories{
					"size": {Levels: []string{"S", "M", "L"}, Ordered: true},
				},
			}))
			So(err, ShouldBeNil)
			c := res.(*frame.Frame).Column("size")
			So(c.Type, ShouldEqual, frame.Categorical)
			So(c.Cats.Ordered, ShouldBeTrue)
			// "XL" is outside the level set.
			So(c.IsNull(2), ShouldBeTrue)
		})

		Convey("selects and orders columns", func() {
			path := writeFile(t, "cols.csv", "a,b,c\n1,2,3\n")
			res, err := ReadCSV(ctx, path, readerOpts(t, map[string]any{
				"columns": []string{"c", "a"},
			}))
			So(err, ShouldBeNil)
			f := res.(*frame.Frame)
			So(f.Schema(), ShouldResemble, frame.Schema{
				{Name: "c", Type: frame.Int},
				{Name: "a", Type: frame.Int},
			})
		})

		Convey("honors delimiter, header and rows options", func() {
			path := writeFile(t, "semi.csv", "1;ant\n2;bee\n3;cat\n")
			res, err := ReadCSV(ctx, path, readerOpts(t, map[string]any{
				"delimiter": ";",
				"header":    false,
				"rows":      2,
			}))
			So(err, ShouldBeNil)
			f := res.(*frame.Frame)
			So(f.NumRows(), ShouldEqual, 2)
			So(f.Column("column_0").Ints, ShouldResemble, []int64{1, 2})
			So(f.Column("column_1").Strings, ShouldResemble, []string{"ant", "bee"})
		})

		Convey("handles malformed rows", func() {
			content := "a,b\n1,2\n3\n4,5\n"

			Convey("error by default", func() {
				path := writeFile(t, "bad.csv", content)
				_, err := ReadCSV(ctx, path, readerOpts(t, nil))
				So(err, ShouldNotBeNil)
			})

			Convey("skipped on request", func() {
				path := writeFile(t, "bad.csv", content)
				res, err := ReadCSV(ctx, path, readerOpts(t, map[string]any{
					"on_bad_lines": "skip",
				}))
				So(err, ShouldBeNil)
				f := res.(*frame.Frame)
				So(f.NumRows(), ShouldEqual, 2)
				So(f.Column("a").Ints, ShouldResemble, []int64{1, 4})
			})
		})

		Convey("fails for a missing file", func() {
			_, err := ReadCSV(ctx, "/no/such/file.csv", readerOpts(t, nil))
			So(err, ShouldNotBeNil)
		})
	})

	Convey("ScanCSV() defers the read", t, func() {
		path := writeFile(t, "lazy.csv", "a\n1\n2\n")
		res, err := ScanCSV(ctx, path, readerOpts(t, nil))
		So(err, ShouldBeNil)
		l := res.(*frame.Lazy)

		f, err := l.Collect(ctx)
		So(err, ShouldBeNil)
		So(f.Column("a").Ints, ShouldResemble, []int64{1, 2})
	})

	Convey("ScanCSV() reads nothing until Collect", t, func() {
		path := writeFile(t, "gone.csv", "a\n1\n")
		res, err := ScanCSV(ctx, path, readerOpts(t, nil))
		So(err, ShouldBeNil)
		So(os.Remove(path), ShouldBeNil)

		_, err = res.(*frame.Lazy).Collect(ctx)
		So(err, ShouldNotBeNil)
	})
}
