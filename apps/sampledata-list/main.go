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

// Command sampledata-list prints the dataset catalog with each dataset's
// cache status, or the matrix of available reader engines with -engines.
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/iterator"
	"github.com/stockparfait/logging"

	"github.com/sampledata/sampledata/catalog"
	"github.com/sampledata/sampledata/engine"
	"github.com/sampledata/sampledata/frame"
	"github.com/sampledata/sampledata/resolve"

	_ "github.com/sampledata/sampledata/engine/arrowtab"
	_ "github.com/sampledata/sampledata/engine/gridded"
	_ "github.com/sampledata/sampledata/engine/tabular"
)

type Flags struct {
	CacheDir string // default: <user cache dir>/sampledata
	LogLevel logging.Level
	Engines  bool // print the engine matrix instead of the catalog
	CSV      bool // dump CSV format; default: text
}

func parseFlags(args []string) (*Flags, error) {
	var flags Flags
	fs := flag.NewFlagSet("sampledata-list", flag.ExitOnError)
	fs.StringVar(&flags.CacheDir, "cache", "",
		"cache directory; default: <user cache dir>/sampledata")
	flags.LogLevel = logging.Info
	fs.Var(&flags.LogLevel, "log-level", "Log level: debug, info, warning, error")
	fs.BoolVar(&flags.Engines, "engines", false, "print available reader engines")
	fs.BoolVar(&flags.CSV, "csv", false, "print table in CSV format; default: text")

	err := fs.Parse(args)
	return &flags, err
}

// cacheStatus computes the cached column for all datasets concurrently.
func cacheStatus(ctx context.Context, cat *catalog.Catalog, names []string) map[string]string {
	type status struct{ name, cached string }
	f := func(name string) status {
		d, err := cat.Get(name)
		if err != nil {
			return status{name, "?"}
		}
		if d.Generated {
			return status{name, "n/a"}
		}
		ok, err := resolve.Cached(d)
		if err != nil {
			logging.Warningf(ctx, "failed to check cache for %s: %s", name, err.Error())
			return status{name, "?"}
		}
		if ok {
			return status{name, "yes"}
		}
		return status{name, "no"}
	}
	pm := iterator.ParallelMap(ctx, 2*runtime.NumCPU(), iterator.FromSlice(names), f)
	defer pm.Close()

	return iterator.Reduce[status, map[string]string](
		pm, map[string]string{}, func(s status, m map[string]string) map[string]string {
			m[s.name] = s.cached
			return m
		})
}

func catalogFrame(ctx context.Context) (*frame.Frame, error) {
	cat := catalog.Default()
	names := cat.Names()
	cached := cacheStatus(ctx, cat, names)

	cols := map[string][]string{}
	for _, n := range names {
		d, err := cat.Get(n)
		if err != nil {
			return nil, err
		}
		source := "bundled"
		if d.Generated {
			source = "generated"
		} else if d.Remote() {
			source = d.URL
		}
		cols["name"] = append(cols["name"], d.Name)
		cols["title"] = append(cols["title"], d.Title)
		cols["type"] = append(cols["type"], d.Shape)
		cols["format"] = append(cols["format"], d.Format)
		cols["source"] = append(cols["source"], source)
		cols["cached"] = append(cols["cached"], cached[n])
	}
	var fcols []*frame.Column
	for _, n := range []string{"name", "title", "type", "format", "source", "cached"} {
		fcols = append(fcols, &frame.Column{
			Name: n, Type: frame.String, Strings: cols[n]})
	}
	return frame.New(fcols...)
}

func enginesFrame() (*frame.Frame, error) {
	reg := engine.Default()
	var names, shapes, lazies, formats []string
	for _, sl := range []struct {
		shape engine.Shape
		lazy  bool
	}{
		{engine.Tabular, false},
		{engine.Tabular, true},
		{engine.Gridded, false},
		{engine.Gridded, true},
	} {
		for _, name := range reg.Engines(sl.shape, sl.lazy) {
			var fmts []string
			for _, f := range reg.Formats(name, sl.shape, sl.lazy) {
				fmts = append(fmts, string(f))
			}
			names = append(names, name)
			shapes = append(shapes, string(sl.shape))
			lazies = append(lazies, strconv.FormatBool(sl.lazy))
			formats = append(formats, strings.Join(fmts, ","))
		}
	}
	return frame.New(
		&frame.Column{Name: "engine", Type: frame.String, Strings: names},
		&frame.Column{Name: "type", Type: frame.String, Strings: shapes},
		&frame.Column{Name: "lazy", Type: frame.String, Strings: lazies},
		&frame.Column{Name: "formats", Type: frame.String, Strings: formats},
	)
}

func printData(ctx context.Context, flags *Flags, w io.Writer) error {
	if flags.CacheDir != "" {
		resolve.CacheRoot = flags.CacheDir
	}
	var f *frame.Frame
	var err error
	if flags.Engines {
		f, err = enginesFrame()
	} else {
		f, err = catalogFrame(ctx)
	}
	if err != nil {
		return errors.Annotate(err, "failed to build the table")
	}
	if flags.CSV {
		return f.WriteCSV(w, frame.Params{})
	}
	return f.WriteText(w, frame.Params{MaxColWidth: 60})
}

func main() {
	ctx := context.Background()
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		ctx = logging.Use(ctx, logging.DefaultGoLogger(logging.Info))
		logging.Errorf(ctx, "failed to parse flags: %s", err.Error())
		os.Exit(1)
	}
	ctx = logging.Use(ctx, logging.DefaultGoLogger(flags.LogLevel))

	if err := printData(ctx, flags, os.Stdout); err != nil {
		logging.Errorf(ctx, err.Error())
		os.Exit(1)
	}
}
