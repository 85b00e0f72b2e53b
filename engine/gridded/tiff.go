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

package gridded

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/stockparfait/errors"
	"golang.org/x/image/tiff"

	"github.com/sampledata/sampledata/grid"
)

// readTIFF decodes a TIFF image into a 2-d array of luminance values with
// dims (y, x). The variable is named after the file.
func readTIFF(path string) (*grid.Array, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Annotate(err, "failed to open '%s'", path)
	}
	defer f.Close()

	img, err := tiff.Decode(f)
	if err != nil {
		return nil, errors.Annotate(err, "failed to decode TIFF '%s'", path)
	}
	b := img.Bounds()
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	a := &grid.Array{
		Name:       name,
		Dims:       []string{"y", "x"},
		Shape:      []int{b.Dy(), b.Dx()},
		Attrs:      map[string]any{"source": filepath.Base(path)},
		SourceType: "uint8",
	}
	a.Values = make([]float64, 0, b.Dy()*b.Dx())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			a.Values = append(a.Values, float64(g.Y))
		}
	}
	return a, nil
}
