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

// Package ems converts an SDD CSV (one column per detector histogram,
// one row per channel) into an EDR CSV (one row per combined detector
// pair, spec §6 "ems <sdd-csv> <edr-csv>"). PIXL carries its four SDDs
// as two physically paired detectors per EDR channel, so every pair of
// adjacent SDD histograms sums into a single EDR line (spec §8 end-to-
// end scenario 6: "Input CSV with 4 histograms produces 2 lines in EDR
// CSV (two histograms per line)").
package ems

import (
	"encoding/csv"
	"strconv"

	"github.com/pixlise/piquant-go"
	"github.com/spf13/afero"
)

// ReadSDD reads an SDD CSV of nHistograms columns and returns one
// []float64 per column (per detector histogram), all the same length.
func ReadSDD(fs afero.Fs, path string) ([][]float64, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, piquant.IOError("open", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, piquant.IOError("read", path, err)
	}
	if len(rows) == 0 {
		return nil, piquant.InputFormat(path, 0)
	}

	nCols := len(rows[0])
	hists := make([][]float64, nCols)
	for i, row := range rows {
		if len(row) != nCols {
			return nil, piquant.InputFormat(path, i+1)
		}
		for col, field := range row {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, piquant.InputFormat(path, i+1)
			}
			hists[col] = append(hists[col], v)
		}
	}
	return hists, nil
}

// CombinePairs sums each adjacent pair of histograms into one combined
// row, so 4 input histograms produce 2 output rows.
func CombinePairs(hists [][]float64) ([][]float64, error) {
	if len(hists) == 0 || len(hists)%2 != 0 {
		return nil, piquant.InvalidParameter("histogramCount", strconv.Itoa(len(hists)))
	}
	n := len(hists[0])
	var out [][]float64
	for i := 0; i < len(hists); i += 2 {
		a, b := hists[i], hists[i+1]
		if len(a) != n || len(b) != n {
			return nil, piquant.InvalidParameter("histogramLength", "mismatched")
		}
		combined := make([]float64, n)
		for ch := range combined {
			combined[ch] = a[ch] + b[ch]
		}
		out = append(out, combined)
	}
	return out, nil
}

// WriteEDR writes each combined histogram as one comma-separated line.
func WriteEDR(fs afero.Fs, path string, rows [][]float64) error {
	f, err := fs.Create(path)
	if err != nil {
		return piquant.IOError("create", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, row := range rows {
		fields := make([]string, len(row))
		for i, v := range row {
			fields[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(fields); err != nil {
			return piquant.IOError("write", path, err)
		}
	}
	w.Flush()
	return w.Error()
}

// Convert runs the full SDD -> EDR pipeline (spec §6 "ems").
func Convert(fs afero.Fs, sddPath, edrPath string) error {
	hists, err := ReadSDD(fs, sddPath)
	if err != nil {
		return err
	}
	combined, err := CombinePairs(hists)
	if err != nil {
		return err
	}
	return WriteEDR(fs, edrPath, combined)
}
