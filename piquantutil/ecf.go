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

package piquantutil

import (
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/pixlise/piquant-go"
	"github.com/pixlise/piquant-go/science/quantify"
	"github.com/pixlise/piquant-go/tables"
	"github.com/spf13/afero"
)

// WriteECFTable writes the calibrate sub-command's output: one row per
// (symbol, series, value, stddev, n) calibrated entry, so the quantify
// and evaluate sub-commands' <calibration> argument round-trips through
// a plain CSV rather than a binary format (spec §6 "calibrate ...
// writes a calibration file").
func WriteECFTable(fs afero.Fs, path string, stats []quantify.ElementECFStat) error {
	f, err := fs.Create(path)
	if err != nil {
		return piquant.IOError("create", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"symbol", "series", "value", "stddev", "n"}); err != nil {
		return piquant.IOError("write", path, err)
	}
	for _, st := range stats {
		el, ok := piquant.ElementByZ(st.Z)
		if !ok {
			continue
		}
		row := []string{
			el.Symbol,
			st.Series.String(),
			strconv.FormatFloat(st.WeightedMean, 'g', -1, 64),
			strconv.FormatFloat(st.Uncertainty, 'g', -1, 64),
			strconv.Itoa(st.N),
		}
		if err := w.Write(row); err != nil {
			return piquant.IOError("write", path, err)
		}
	}
	w.Flush()
	return w.Error()
}

// ReadECFTable reads a calibration file written by WriteECFTable back
// into a quantify.ECFTable for the quantify/evaluate sub-commands.
func ReadECFTable(fs afero.Fs, path string) (*quantify.ECFTable, error) {
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

	var entries []quantify.ECFEntry
	for i, row := range rows {
		if i == 0 && strings.EqualFold(row[0], "symbol") {
			continue
		}
		if len(row) < 4 {
			return nil, piquant.InputFormat(path, i+1)
		}
		el, ok := piquant.ElementBySymbol(strings.TrimSpace(row[0]))
		if !ok {
			return nil, piquant.InputFormat(path, i+1)
		}
		series, ok := parseSeries(strings.TrimSpace(row[1]))
		if !ok {
			return nil, piquant.InputFormat(path, i+1)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil {
			return nil, piquant.InputFormat(path, i+1)
		}
		entries = append(entries, quantify.ECFEntry{Z: el.Z, Series: series, Value: value})
	}
	return quantify.NewECFTable(entries), nil
}

func parseSeries(s string) (tables.Series, bool) {
	switch s {
	case "K":
		return tables.K, true
	case "L":
		return tables.L, true
	case "M":
		return tables.M, true
	default:
		return 0, false
	}
}
