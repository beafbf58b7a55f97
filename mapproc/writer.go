/*
Copyright © 2026 the PIQUANT authors.
This file is part of PIQUANT.

PIQUANT is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

PIQUANT is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with PIQUANT.  If not, see <http://www.gnu.org/licenses/>.
*/

package mapproc

import (
	"encoding/csv"
	"sort"
	"strconv"

	"github.com/pixlise/piquant-go"
	"github.com/spf13/afero"
)

// WriteCSV writes the completed, input-ordered Jobs to path as a
// single CSV with a header derived from the first successful job's
// element list (spec §4.10 "writer ... writes a single CSV with a
// header derived from the first job's element list"). Jobs that
// failed produce a row of empty fields.
func WriteCSV(fs afero.Fs, path string, jobs []*Job) error {
	f, err := fs.Create(path)
	if err != nil {
		return piquant.IOError("create", path, err)
	}
	defer f.Close()

	var symbols []string
	for _, j := range jobs {
		if j != nil && j.Err == nil && len(j.Row) > 0 {
			symbols = make([]string, 0, len(j.Row))
			for sym := range j.Row {
				symbols = append(symbols, sym)
			}
			sort.Strings(symbols)
			break
		}
	}

	w := csv.NewWriter(f)
	header := append([]string{"file", "seq"}, symbols...)
	if err := w.Write(header); err != nil {
		return piquant.IOError("write", path, err)
	}
	for _, j := range jobs {
		if j == nil {
			continue
		}
		row := make([]string, 0, len(header))
		row = append(row, j.Input.SpectrumFile, strconv.Itoa(j.Input.SeqNumber))
		for _, sym := range symbols {
			if j.Err != nil {
				row = append(row, "")
				continue
			}
			row = append(row, strconv.FormatFloat(j.Row[sym], 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return piquant.IOError("write", path, err)
		}
	}
	w.Flush()
	return w.Error()
}
