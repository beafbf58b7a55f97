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

// Package xsp reads the legacy XSP spectrum format (spec §6 "XSP"): an
// older EMSA-like keyword set, `#KEY : value` lines followed by
// `#SPECTRUM`/`#ENDOFDATA`, differing from MSA in using a smaller
// keyword vocabulary and a WINDOW thickness given in micrometres
// (values ≤ 1 are instead treated as already being in centimetres).
package xsp

import (
	"bufio"
	"strings"

	"github.com/pixlise/piquant-go"
	"github.com/spf13/afero"
	"github.com/spf13/cast"
)

const (
	dataStart = "#SPECTRUM"
	dataEnd   = "#ENDOFDATA"
)

// Read parses a legacy XSP file at path.
func Read(fs afero.Fs, path string) (*piquant.Spectrum, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, piquant.IOError("open", path, err)
	}
	defer f.Close()

	header := map[string]string{}
	var counts []float64
	inData := false
	lineNo := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(strings.TrimSpace(scanner.Text()), "\r")
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, dataEnd) {
			break
		}
		if strings.HasPrefix(line, dataStart) {
			inData = true
			continue
		}
		if inData {
			for _, tok := range strings.Split(line, ",") {
				tok = strings.TrimSpace(tok)
				if tok == "" {
					continue
				}
				v, err := cast.ToFloat64E(tok)
				if err != nil {
					return nil, piquant.InputFormat(path, lineNo)
				}
				counts = append(counts, v)
			}
			continue
		}
		if !strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := splitKeyword(line)
		if !ok {
			continue
		}
		header[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, piquant.IOError("read", path, err)
	}
	if counts == nil {
		return nil, piquant.InputFormat(path, lineNo)
	}

	cal := piquant.NewEnergyCalibration(0, 10)
	if off, ok := header["OFFSET"]; ok {
		if v, err := cast.ToFloat64E(off); err == nil {
			cal.OffsetEV = v * 1000
		}
	}
	if xper, ok := header["XPERCHAN"]; ok {
		if v, err := cast.ToFloat64E(xper); err == nil {
			cal.EVPerChannel = v * 1000
		}
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
	if win, ok := header["WINDOW"]; ok {
		if v, err := cast.ToFloat64E(win); err == nil {
			if v > 1 {
				v = v * 1e-4 // um -> cm
			}
			header["WINDOW_CM"] = cast.ToString(v)
		}
	}
	return s, nil
}

// splitKeyword splits a `#KEY : value` (or `#KEY: value`) header line.
func splitKeyword(line string) (key, value string, ok bool) {
	rest := strings.TrimPrefix(line, "#")
	idx := strings.Index(rest, ":")
	if idx < 0 {
		return "", "", false
	}
	key = strings.ToUpper(strings.TrimSpace(rest[:idx]))
	value = strings.TrimSpace(rest[idx+1:])
	return key, value, true
}
