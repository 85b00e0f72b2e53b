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

// Command sampledata-fetch downloads remote sample datasets into the user
// cache, so later loads work offline. Without arguments it fetches all remote
// datasets; dataset names given as arguments restrict the set.
package main

import (
	"context"
	"flag"
	"os"
	"runtime"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/iterator"
	"github.com/stockparfait/logging"

	"github.com/sampledata/sampledata/catalog"
	"github.com/sampledata/sampledata/resolve"
)

type Flags struct {
	CacheDir string // default: <user cache dir>/sampledata
	LogLevel logging.Level
	Force    bool
	Datasets []string // positional args; default: all remote datasets
}

func parseFlags(args []string) (*Flags, error) {
	var flags Flags
	fs := flag.NewFlagSet("sampledata-fetch", flag.ExitOnError)
	fs.StringVar(&flags.CacheDir, "cache", "",
		"cache directory; default: <user cache dir>/sampledata")
	flags.LogLevel = logging.Info
	fs.Var(&flags.LogLevel, "log-level", "Log level: debug, info, warning, error")
	fs.BoolVar(&flags.Force, "force", false,
		"re-download datasets that are already cached")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	flags.Datasets = fs.Args()
	return &flags, nil
}

func fetch(ctx context.Context, flags *Flags) error {
	if flags.CacheDir != "" {
		resolve.CacheRoot = flags.CacheDir
	}
	cat := catalog.Default()
	names := flags.Datasets
	if len(names) == 0 {
		for _, n := range cat.Names() {
			d, err := cat.Get(n)
			if err != nil {
				return err
			}
			if d.Remote() {
				names = append(names, n)
			}
		}
	}
	f := func(name string) error {
		d, err := cat.Get(name)
		if err != nil {
			return err
		}
		if d.Generated {
			logging.Infof(ctx, "%s is generated on the fly, nothing to fetch", name)
			return nil
		}
		if flags.Force {
			path, err := resolve.CachePath(d)
			if err != nil {
				return err
			}
			if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
				return errors.Annotate(err, "failed to remove cached '%s'", path)
			}
		}
		path, err := resolve.Resolve(ctx, d)
		if err != nil {
			return errors.Annotate(err, "failed to fetch '%s'", name)
		}
		logging.Infof(ctx, "%s: %s", name, path)
		return nil
	}
	pm := iterator.ParallelMap(ctx, 2*runtime.NumCPU(), iterator.FromSlice(names), f)
	defer pm.Close()

	return iterator.Reduce[error, error](pm, nil, func(e, res error) error {
		if res != nil {
			return res
		}
		return e
	})
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

	if err := fetch(ctx, flags); err != nil {
		logging.Errorf(ctx, err.Error())
		os.Exit(1)
	}
}
