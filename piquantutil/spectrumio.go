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
	"github.com/pixlise/piquant-go/ioformats/mca"
	"github.com/pixlise/piquant-go/ioformats/msa"
	"github.com/pixlise/piquant-go/ioformats/xia"
	"github.com/pixlise/piquant-go/ioformats/xsp"
	"github.com/spf13/afero"
)

// ReadSpectrum dispatches to the appropriate ioformats reader based on
// path's extension (spec §6 file formats), falling back to the given
// calibration for formats that don't carry their own.
func ReadSpectrum(fs afero.Fs, path string, cal piquant.EnergyCalibration) (*piquant.Spectrum, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".msa", ".emsa":
		return msa.Read(fs, path, cal)
	case ".mca":
		return mca.Read(fs, path)
	case ".xia":
		return xia.Read(fs, path, cal)
	case ".xsp":
		return xsp.Read(fs, path)
	default:
		return msa.Read(fs, path, cal)
	}
}

// LoadStandardSpectra reads each standard's SpectrumFile into its
// Spectrum field in place, using cal as the fallback calibration for
// formats that don't carry their own (spec §4.9 "fit one standard"
// needs a loaded Spectrum before it can run).
func LoadStandardSpectra(fs afero.Fs, stds []*piquant.Standard, cal piquant.EnergyCalibration) error {
	for _, std := range stds {
		s, err := ReadSpectrum(fs, std.SpectrumFile, cal)
		if err != nil {
			return err
		}
		std.Spectrum = s
	}
	return nil
}
