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
	"path/filepath"
	"strings"

	"github.com/pixlise/piquant-go"
	"github.com/pixlise/piquant-go/ioformats/csvstd"
	"github.com/pixlise/piquant-go/ioformats/txtstd"
	"github.com/spf13/afero"
)

// ReadStandards dispatches to the csvstd or txtstd reader based on
// path's extension (spec §6 file formats), then loads each standard's
// own spectrum file.
func ReadStandards(fs afero.Fs, path string, cal piquant.EnergyCalibration) ([]*piquant.Standard, error) {
	var stds []*piquant.Standard
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		stds, err = txtstd.Read(fs, path)
	default:
		stds, err = csvstd.Read(fs, path)
	}
	if err != nil {
		return nil, err
	}
	if err := LoadStandardSpectra(fs, stds, cal); err != nil {
		return nil, err
	}
	return stds, nil
}

// StandardByIndexOrName resolves the -s,standardIndexOrName option
// against a loaded standards list: a parseable non-negative integer is
// treated as a 0-based index, anything else as a name match (spec §6
// "-s,standardIndexOrName").
func StandardByIndexOrName(stds []*piquant.Standard, sel string) (*piquant.Standard, error) {
	if sel == "" {
		if len(stds) == 0 {
			return nil, &piquant.Error{Kind: piquant.ErrNoStandardsLoaded}
		}
		return stds[0], nil
	}
	if idx, ok := parseIndex(sel); ok {
		if idx < 0 || idx >= len(stds) {
			return nil, piquant.InvalidParameter("standardIndex", sel)
		}
		return stds[idx], nil
	}
	for _, s := range stds {
		if s.HasName(sel) {
			return s, nil
		}
	}
	return nil, &piquant.Error{Kind: piquant.ErrUnknownStandard, Value: sel}
}

func parseIndex(s string) (int, bool) {
	n := 0
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
