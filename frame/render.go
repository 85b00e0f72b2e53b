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
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/stockparfait/errors"
)

// Params are parameters for pretty-printing or CSV export of Frame data.
type Params struct {
	Rows        int  // max. number of rows to write; 0 = unlimited (default)
	NoHeader    bool // whether to print the header, default - yes
	MaxColWidth int  // for WriteText only; 0 = unlimited, otherwise must be >= 4
}

func (f *Frame) header() []string {
	h := make([]string, len(f.columns))
	for i, c := range f.columns {
		h[i] = c.Name
	}
	return h
}

func (f *Frame) row(i int) []string {
	r := make([]string, len(f.columns))
	for j, c := range f.columns {
		r[j] = c.cell(i)
	}
	return r
}

func (f *Frame) numOutRows(p Params) int {
	n := f.NumRows()
	if p.Rows > 0 && p.Rows < n {
		n = p.Rows
	}
	return n
}

// WriteCSV writes the frame to w in CSV format.
func (f *Frame) WriteCSV(w io.Writer, p Params) error {
	cw := csv.NewWriter(w)
	if !p.NoHeader {
		if err := cw.Write(f.header()); err != nil {
			return errors.Annotate(err, "failed to write header")
		}
	}
	for i := 0; i < f.numOutRows(p); i++ {
		if err := cw.Write(f.row(i)); err != nil {
			return errors.Annotate(err, "failed to write row %d", i)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Annotate(err, "failed to flush written rows")
	}
	return nil
}

// WriteText writes the frame as a text table formatted for ease of reading.
func (f *Frame) WriteText(w io.Writer, p Params) error {
	if p.MaxColWidth != 0 && p.MaxColWidth < 4 {
		return errors.Reason("MaxColWidth [%d] must be 0 or >= 4", p.MaxColWidth)
	}
	widths := make([]int, len(f.columns))
	update := func(row []string) {
		for i := range widths {
			if widths[i] < len(row[i]) {
				widths[i] = len(row[i])
				if p.MaxColWidth > 0 && widths[i] > p.MaxColWidth {
					widths[i] = p.MaxColWidth
				}
			}
		}
	}
	write := func(row []string) error {
		trimmed := make([]string, len(row))
		for i, s := range row {
			trimmed[i] = s
			if len([]rune(s)) > widths[i] {
				r := []rune(s)[:widths[i]-2]
				trimmed[i] = string(r) + ".."
			}
			trimmed[i] = fmt.Sprintf("%[2]*[1]s", trimmed[i], widths[i])
		}
		_, err := fmt.Fprintf(w, "%s\n", strings.Join(trimmed, " | "))
		return err
	}

	if !p.NoHeader {
		update(f.header())
	}
	for i := 0; i < f.numOutRows(p); i++ {
		update(f.row(i))
	}

	if !p.NoHeader {
		if err := write(f.header()); err != nil {
			return errors.Annotate(err, "failed to write header")
		}
		dashes := make([]string, len(widths))
		for i, w := range widths {
			dashes[i] = strings.Repeat("-", w)
		}
		if err := write(dashes); err != nil {
			return errors.Annotate(err, "failed to write header separator")
		}
	}
	for i := 0; i < f.numOutRows(p); i++ {
		if err := write(f.row(i)); err != nil {
			return errors.Annotate(err, "failed to write row %d", i)
		}
	}
	return nil
}
