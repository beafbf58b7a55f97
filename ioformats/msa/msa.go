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

// Package msa reads and writes the EMSA/MAS spectral data format (spec
// §6 "MSA"): a line-oriented `#KEYWORD : value` header followed by a
// `#SPECTRUM :` block of data rows whose comma-separated values are all
// read as successive channel counts, terminated by `#ENDOFDATA`. Reads go through afero.Fs so
// callers (and tests) can substitute an in-memory filesystem.
package msa

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/pixlise/piquant-go"
	"github.com/spf13/afero"
	"github.com/spf13/cast"
)

const (
	dataStart = "#SPECTRUM"
	dataEnd   = "#ENDOFDATA"
)

// Read parses an EMSA file at path into a Spectrum, using cal as the
// file's calibration unless the header itself carries OFFSET/XPERCHAN
// keys, which take precedence.
func Read(fs afero.Fs, path string, cal piquant.EnergyCalibration) (*piquant.Spectrum, error) {
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
		line := strings.TrimSpace(scanner.Text())
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

	if off, ok := header["OFFSET"]; ok {
		if v, err := cast.ToFloat64E(off); err == nil {
			cal.OffsetEV = v * 1000 // MSA stores keV
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

// Write emits s as an EMSA file at path, including a minimal mandatory
// header (FORMAT, VERSION, OFFSET, XPERCHAN, NPOINTS) plus any entries
// already present in s.HeaderInfo.
func Write(fs afero.Fs, path string, s *piquant.Spectrum) error {
	f, err := fs.Create(path)
	if err != nil {
		return piquant.IOError("create", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "#FORMAT      : EMSA/MAS Spectral Data File")
	fmt.Fprintln(w, "#VERSION     : 1.0")
	fmt.Fprintf(w, "#OFFSET      : %s\n", strconv.FormatFloat(s.Calibration.OffsetEV/1000, 'g', -1, 64))
	fmt.Fprintf(w, "#XPERCHAN    : %s\n", strconv.FormatFloat(s.Calibration.EVPerChannel/1000, 'g', -1, 64))
	fmt.Fprintf(w, "#NPOINTS     : %d\n", s.NumChannels())
	if s.LiveTime > 0 {
		fmt.Fprintf(w, "#LIVETIME    : %s\n", strconv.FormatFloat(s.LiveTime, 'g', -1, 64))
	}
	if s.RealTime > 0 {
		fmt.Fprintf(w, "#REALTIME    : %s\n", strconv.FormatFloat(s.RealTime, 'g', -1, 64))
	}
	for k, v := range s.HeaderInfo {
		switch k {
		case "OFFSET", "XPERCHAN", "NPOINTS", "LIVETIME", "REALTIME", "FORMAT", "VERSION":
			continue
		}
		fmt.Fprintf(w, "#%-13s: %s\n", k, v)
	}
	fmt.Fprintln(w, dataStart+"    : ")
	for _, v := range s.Measured {
		fmt.Fprintln(w, strconv.FormatFloat(v, 'g', -1, 64))
	}
	fmt.Fprintln(w, dataEnd+"   : ")
	return w.Flush()
}
