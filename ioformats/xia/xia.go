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

// Package xia reads the XIA/Ketek ProSpect MCA export format (spec §6
// "XIA/Ketek MCA"): `File Version = 2` / `MCA Data = ProSpect` followed
// by `key = value` metadata lines including `NUMBER MCA BINS`, `INPUT
// COUNT RATE`, `OUTPUT COUNT RATE`, `REALTIME`, `LIVETIME`, then a
// channel-count header line and that many counts, one per line.
package xia

import (
	"bufio"
	"strings"

	"github.com/pixlise/piquant-go"
	"github.com/spf13/afero"
	"github.com/spf13/cast"
)

// Read parses a XIA/Ketek export at path, using cal as the file's
// energy calibration (the format carries no calibration of its own).
func Read(fs afero.Fs, path string, cal piquant.EnergyCalibration) (*piquant.Spectrum, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, piquant.IOError("open", path, err)
	}
	defer f.Close()

	header := map[string]string{}
	nBins := -1
	inCounts := false
	var counts []float64
	lineNo := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if inCounts {
			v, err := cast.ToFloat64E(line)
			if err != nil {
				return nil, piquant.InputFormat(path, lineNo)
			}
			counts = append(counts, v)
			continue
		}
		if idx := strings.Index(line, "="); idx >= 0 {
			key := strings.ToUpper(strings.TrimSpace(line[:idx]))
			value := strings.TrimSpace(line[idx+1:])
			header[key] = value
			if key == "NUMBER MCA BINS" {
				if n, err := cast.ToIntE(value); err == nil {
					nBins = n
				}
			}
			continue
		}
		// first line without "=" after the key/value header block is the
		// channel-count header (used as the bin count only when no
		// NUMBER MCA BINS key set one); everything after it is raw counts
		if n, err := cast.ToIntE(line); err == nil && nBins < 0 {
			nBins = n
		}
		inCounts = true
		counts = make([]float64, 0, maxInt(nBins, 0))
	}
	if err := scanner.Err(); err != nil {
		return nil, piquant.IOError("read", path, err)
	}
	if counts == nil || (nBins > 0 && len(counts) != nBins) {
		return nil, piquant.InputFormat(path, lineNo)
	}

	s := piquant.NewSpectrum(counts, cal)
	s.FileName = path
	s.HeaderInfo = header
	if lt, ok := header["LIVETIME"]; ok {
		if v, err := cast.ToFloat64E(lt); err == nil {
			s.LiveTime = v
		}
	}
	if rt, ok := header["REALTIME"]; ok {
		if v, err := cast.ToFloat64E(rt); err == nil {
			s.RealTime = v
		}
	}
	return s, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
