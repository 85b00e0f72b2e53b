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

package arrowtab

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	goparquet "github.com/fraugster/parquet-go"
	"github.com/fraugster/parquet-go/parquetschema"

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
		Convey("reads a whole file into one record", func() {
			path := writeFile(t, "basic.csv", `name,legs,mass
ant,6,0.01
bee,6,0.1
dog,4,12.5
`)
			res, err := ReadCSV(ctx, path, readerOpts(t, nil))
			So(err, ShouldBeNil)
			rec := res.(arrow.Record)
			defer rec.Release()

			So(rec.NumRows(), ShouldEqual, 3)
			So(rec.NumCols(), ShouldEqual, 3)
			So(rec.Schema().Field(0).Name, ShouldEqual, "name")
			So(rec.Schema().Field(1).Name, ShouldEqual, "legs")
		})

		Convey("respects include columns and null tokens", func() {
			path := writeFile(t, "nulls.csv", `name,count
ant,3
bee,NA
`)
			res, err := ReadCSV(ctx, path, readerOpts(t, map[string]any{
				"columns":     []string{"count"},
				"null_values": []string{"NA"},
			}))
			So(err, ShouldBeNil)
			rec := res.(arrow.Record)
			defer rec.Release()

			So(rec.NumCols(), ShouldEqual, 1)
			So(rec.Schema().Field(0).Name, ShouldEqual, "count")
			So(rec.Column(0).IsNull(1), ShouldBeTrue)
		})

		Convey("honors the delimiter", func() {
			path := writeFile(t, "semi.csv", "a;b\n1;2\n")
			res, err := ReadCSV(ctx, path, readerOpts(t, map[string]any{
				"delimiter": ";",
			}))
			So(err, ShouldBeNil)
			rec := res.(arrow.Record)
			defer rec.Release()
			So(rec.NumCols(), ShouldEqual, 2)
		})

		Convey("fails for a missing file", func() {
			_, err := ReadCSV(ctx, "/no/such/file.csv", readerOpts(t, nil))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestReadParquet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	Convey("ReadParquet() works", t, func() {
		def, err := parquetschema.ParseSchemaDefinition(`message test {
	required int64 id;
	optional double mass;
}`)
		So(err, ShouldBeNil)
		path := filepath.Join(t.TempDir(), "test.parq")
		f, err := os.Create(path)
		So(err, ShouldBeNil)
		w := goparquet.NewFileWriter(f, goparquet.WithSchemaDefinition(def))
		So(w.AddData(map[string]interface{}{"id": int64(1), "mass": 0.5}), ShouldBeNil)
		So(w.AddData(map[string]interface{}{"id": int64(2)}), ShouldBeNil)
		So(w.Close(), ShouldBeNil)
		So(f.Close(), ShouldBeNil)

		res, err := ReadParquet(ctx, path, readerOpts(t, nil))
		So(err, ShouldBeNil)
		tbl := res.(arrow.Table)
		defer tbl.Release()

		So(tbl.NumRows(), ShouldEqual, 2)
		So(tbl.NumCols(), ShouldEqual, 2)
		So(tbl.Schema().Field(0).Name, ShouldEqual, "id")

		Convey("fails for an invalid file", func() {
			bad := writeFile(t, "bad.parq", "not parquet")
			_, err := ReadParquet(ctx, bad, readerOpts(t, nil))
			So(err, ShouldNotBeNil)
		})
	})
}
