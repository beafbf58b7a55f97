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

// Package plotcsv writes the per-channel plot CSV consumed by the
// "plot" and "primary_spectrum" sub-commands (spec §4.6, §6): one row
// per channel giving energy, measured counts, net counts, background,
// calculated counts, residual, and one column per enabled component.
package plotcsv

import (
	"encoding/csv"
	"strconv"

	"github.com/pixlise/piquant-go"
	"github.com/spf13/afero"
)

// Write emits s as a plot CSV at path.
func Write(fs afero.Fs, path string, s *piquant.Spectrum) error {
	f, err := fs.Create(path)
	if err != nil {
		return piquant.IOError("create", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write([]string{s.FileName, "PIQUANT plot v1"}); err != nil {
		return piquant.IOError("write", path, err)
	}

	header := []string{"energy", "measured", "net", "background", "calculated", "residual"}
	active := make([]*piquant.SpectrumComponent, 0, len(s.Components))
	for _, c := range s.Components {
		if c.Enabled {
			active = append(active, c)
			header = append(header, c.Label)
		}
	}
	if err := w.Write(header); err != nil {
		return piquant.IOError("write", path, err)
	}

	n := len(s.Measured)
	row := make([]string, len(header))
	for i := 0; i < n; i++ {
		row[0] = strconv.FormatFloat(s.Calibration.Energy(float64(i)), 'g', -1, 64)
		row[1] = strconv.FormatFloat(s.Measured[i], 'g', -1, 64)
		row[2] = valueAt(s.Net, i)
		row[3] = valueAt(s.Background, i)
		row[4] = valueAt(s.Calc, i)
		row[5] = valueAt(s.Residual, i)
		for j, c := range active {
			row[6+j] = strconv.FormatFloat(c.Coefficient*valueAtFloat(c.Spectrum, i), 'g', -1, 64)
		}
		if err := w.Write(row); err != nil {
			return piquant.IOError("write", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return piquant.IOError("flush", path, err)
	}
	return nil
}

func valueAt(v []float64, i int) string {
	return strconv.FormatFloat(valueAtFloat(v, i), 'g', -1, 64)
}

func valueAtFloat(v []float64, i int) float64 {
	if i < len(v) {
		return v[i]
	}
	return 0
}
