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

// Package resolve turns dataset identifiers into local file paths:
// bundled files are materialized from the embedded data directory, remote
// URLs are downloaded into a per-user cache on first access.
package resolve

import (
	"context"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"

	"github.com/sampledata/sampledata/catalog"
)

// CacheRoot overrides the cache directory when non-empty. Tests and apps may
// set it; the default is <user cache dir>/sampledata.
var CacheRoot string

func cacheRoot() (string, error) {
	if CacheRoot != "" {
		return CacheRoot, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", errors.Annotate(err, "failed to locate the user cache directory")
	}
	return filepath.Join(dir, "sampledata"), nil
}

// CachePath returns the local path a dataset resolves to, without fetching
// or materializing anything.
func CachePath(d *catalog.Dataset) (string, error) {
	root, err := cacheRoot()
	if err != nil {
		return "", err
	}
	if d.Remote() {
		u, err := url.Parse(d.URL)
		if err != nil {
			return "", errors.Annotate(err, "invalid dataset URL: '%s'", d.URL)
		}
		rel := strings.TrimPrefix(u.Path, "/")
		if rel == "" {
			return "", errors.Reason("dataset URL has an empty path: '%s'", d.URL)
		}
		return filepath.Join(root, filepath.FromSlash(rel)), nil
	}
	return filepath.Join(root, "bundled", d.File), nil
}

// Cached reports whether the dataset's local path already exists.
func Cached(d *catalog.Dataset) (bool, error) {
	path, err := CachePath(d)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, errors.Annotate(err, "failed to stat '%s'", path)
}

// Resolve returns a local filesystem path for the dataset, downloading a
// remote file or materializing a bundled one on first access. The path is
// returned as is once it exists; freshness is never re-checked.
func Resolve(ctx context.Context, d *catalog.Dataset) (string, error) {
	path, err := CachePath(d)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", errors.Annotate(err, "failed to create cache directory for '%s'", path)
	}
	if d.Remote() {
		if err := Download(ctx, d.URL, path, d.SHA256); err != nil {
			return "", errors.Annotate(err, "failed to fetch dataset '%s'", d.Name)
		}
		return path, nil
	}
	if err := materialize(d.File, path); err != nil {
		return "", errors.Annotate(err, "failed to materialize dataset '%s'", d.Name)
	}
	logging.Debugf(ctx, "materialized bundled file to %s", path)
	return path, nil
}

// materialize copies a bundled file from the embedded data directory to
// dest, via a temp file renamed into place on success.
func materialize(name, dest string) (err error) {
	b, err := fs.ReadFile(catalog.Data(), name)
	if err != nil {
		return errors.Annotate(err, "no bundled file '%s'", name)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".part-*")
	if err != nil {
		return errors.Annotate(err, "failed to create temp file for '%s'", dest)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(b); err != nil {
		return errors.Annotate(err, "failed to write '%s'", tmp.Name())
	}
	if err = tmp.Close(); err != nil {
		return errors.Annotate(err, "failed to close '%s'", tmp.Name())
	}
	if err = os.Rename(tmp.Name(), dest); err != nil {
		return errors.Annotate(err, "failed to rename '%s' to '%s'", tmp.Name(), dest)
	}
	return nil
}
