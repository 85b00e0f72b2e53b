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

// Package catalog holds the immutable dataset descriptors: which file or URL
// backs each dataset, its declared format and shape class, and the expected
// content hash for remote files. The manifest and the bundled data files are
// embedded in the binary.
package catalog

import (
	"embed"
	"io/fs"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/stockparfait/errors"
)

// Version of the sampledata package, reported in the download User-Agent.
const Version = "0.1.0"

// UserAgent identifies this client in remote fetches.
const UserAgent = "sampledata " + Version

//go:embed catalog.toml
var manifest []byte

//go:embed data
var dataFS embed.FS

// Dataset describes one dataset. Exactly one of File (bundled) or URL
// (remote) is set for file-backed datasets; Generated marks datasets that
// are synthesized at call time.
type Dataset struct {
	Name      string `toml:"name"`
	Title     string `toml:"title"`
	File      string `toml:"file"`
	URL       string `toml:"url"`
	Format    string `toml:"format"`
	Shape     string `toml:"shape"`
	SHA256    string `toml:"sha256"`
	Generated bool   `toml:"generated"`
}

// Remote reports whether the dataset is fetched over the network.
func (d *Dataset) Remote() bool { return d.URL != "" }

// Identifier is the bundled filename or the remote URL.
func (d *Dataset) Identifier() string {
	if d.Remote() {
		return d.URL
	}
	return d.File
}

// Catalog is the full set of descriptors, ordered as declared in the
// manifest.
type Catalog struct {
	Datasets []*Dataset `toml:"dataset"`
	byName   map[string]*Dataset
}

// Parse decodes and validates a TOML manifest.
func Parse(b []byte) (*Catalog, error) {
	var c Catalog
	if err := toml.Unmarshal(b, &c); err != nil {
		return nil, errors.Annotate(err, "failed to decode catalog manifest")
	}
	c.byName = make(map[string]*Dataset, len(c.Datasets))
	for _, d := range c.Datasets {
		if d.Name == "" {
			return nil, errors.Reason("dataset with empty name in manifest")
		}
		if _, ok := c.byName[d.Name]; ok {
			return nil, errors.Reason("duplicate dataset: '%s'", d.Name)
		}
		switch d.Shape {
		case "tabular", "gridded":
		default:
			return nil, errors.Reason("dataset '%s': unknown shape '%s'", d.Name, d.Shape)
		}
		switch d.Format {
		case "csv", "parquet", "dataset", "dataarray":
		default:
			return nil, errors.Reason("dataset '%s': unknown format '%s'", d.Name, d.Format)
		}
		if !d.Generated && (d.File == "") == (d.URL == "") {
			return nil, errors.Reason(
				"dataset '%s' must set exactly one of file or url", d.Name)
		}
		c.byName[d.Name] = d
	}
	return &c, nil
}

// Get returns the named descriptor.
func (c *Catalog) Get(name string) (*Dataset, error) {
	d, ok := c.byName[name]
	if !ok {
		return nil, errors.Reason("unknown dataset: '%s'", name)
	}
	return d, nil
}

// Names lists dataset names in manifest order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Datasets))
	for i, d := range c.Datasets {
		names[i] = d.Name
	}
	return names
}

// KnownHash returns the expected SHA-256 for a URL, or "" when the URL is
// not registered and no verification is to be performed.
func (c *Catalog) KnownHash(url string) string {
	for _, d := range c.Datasets {
		if d.URL == url {
			return d.SHA256
		}
	}
	return ""
}

var def = func() *Catalog {
	c, err := Parse(manifest)
	if err != nil {
		panic(errors.Annotate(err, "embedded catalog manifest is invalid"))
	}
	return c
}()

// Default returns the process-wide catalog decoded from the embedded
// manifest.
func Default() *Catalog { return def }

// Data returns the embedded bundled-data directory.
func Data() fs.FS {
	sub, err := fs.Sub(dataFS, "data")
	if err != nil {
		panic(errors.Annotate(err, "embedded data directory is missing"))
	}
	return sub
}
