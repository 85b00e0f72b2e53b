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

// Package gridded implements the "grid" engine: NetCDF and TIFF reads into
// grid.Dataset / grid.Array containers. The container format is detected
// from the file's magic bytes, so both NetCDF and TIFF files load under the
// same declared "dataset"/"dataarray" formats.
package gridded

import (
	"bytes"
	"context"
	"io"
	"os"

	"github.com/stockparfait/errors"

	"github.com/sampledata/sampledata/engine"
	"github.com/sampledata/sampledata/grid"
	"github.com/sampledata/sampledata/options"
)

func init() {
	engine.Register("grid", engine.Gridded, false, engine.Dataset, ReadDataset)
	engine.Register("grid", engine.Gridded, false, engine.DataArray, ReadDataArray)
}

var (
	magicTIFFLE = []byte("II*\x00")
	magicTIFFBE = []byte("MM\x00*")
	magicCDF    = []byte("CDF")
	magicHDF5   = []byte("\x89HDF")
)

func sniff(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Annotate(err, "failed to open '%s'", path)
	}
	defer f.Close()
	head := make([]byte, 4)
	if _, err := io.ReadFull(f, head); err != nil {
		return "", errors.Annotate(err, "failed to read magic of '%s'", path)
	}
	switch {
	case bytes.Equal(head, magicTIFFLE) || bytes.Equal(head, magicTIFFBE):
		return "tiff", nil
	case bytes.HasPrefix(head, magicCDF) || bytes.Equal(head, magicHDF5):
		return "netcdf", nil
	}
	return "", errors.Reason("'%s' is neither NetCDF nor TIFF", path)
}

// ReadDataset reads a gridded file into a *grid.Dataset.
func ReadDataset(ctx context.Context, path string, opts *options.Reader) (any, error) {
	kind, err := sniff(path)
	if err != nil {
		return nil, err
	}
	if kind == "tiff" {
		a, err := readTIFF(path)
		if err != nil {
			return nil, err
		}
		ds := grid.NewDataset()
		if err := ds.Add(a); err != nil {
			return nil, err
		}
		return ds, nil
	}
	return readNetCDF(path, opts.Columns)
}

// ReadDataArray reads a gridded file into a single *grid.Array. For
// multi-variable files the options' Variable selects the array; without it
// the file must have exactly one data variable.
func ReadDataArray(ctx context.Context, path string, opts *options.Reader) (any, error) {
	kind, err := sniff(path)
	if err != nil {
		return nil, err
	}
	if kind == "tiff" {
		return readTIFF(path)
	}
	res, err := readNetCDF(path, nil)
	if err != nil {
		return nil, err
	}
	ds := res.(*grid.Dataset)
	name := opts.Variable
	if name == "" {
		vars := ds.DataVars()
		if len(vars) != 1 {
			return nil, errors.Reason(
				"'%s' has %d data variables; set the 'variable' option", path, len(vars))
		}
		name = vars[0]
	}
	a := ds.Var(name)
	if a == nil {
		return nil, errors.Reason("no such variable in '%s': '%s'", path, name)
	}
	return a, nil
}
