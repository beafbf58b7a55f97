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

// Package txtstd reads the flat-list TXT standards format (spec §4.9,
// §6 "TXT standards"): a first non-comment line listing the full set
// of element symbols tracked across the file, then one block per
// standard made up of a spectrum-file line, an integer element count,
// and that many `symbol percent` pairs.
package txtstd

import (
	"bufio"
	"strings"

	"github.com/pixlise/piquant-go"
	"github.com/spf13/afero"
	"github.com/spf13/cast"
)

// Read parses a TXT standards file at path.
func Read(fs afero.Fs, path string) ([]*piquant.Standard, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, piquant.IOError("open", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0

	nextLine := func() (string, bool) {
		for scanner.Scan() {
			lineNo++
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			return line, true
		}
		return "", false
	}

	header, ok := nextLine()
	if !ok {
		return nil, piquant.InputFormat(path, lineNo)
	}
	knownSymbols := strings.Fields(header)
	if len(knownSymbols) == 0 {
		return nil, piquant.InputFormat(path, lineNo)
	}
	for _, sym := range knownSymbols {
		if _, ok := piquant.ElementBySymbol(sym); !ok {
			return nil, piquant.InputFormat(path, lineNo)
		}
	}

	var stds []*piquant.Standard
	for {
		specLine, ok := nextLine()
		if !ok {
			break
		}
		countLine, ok := nextLine()
		if !ok {
			return nil, piquant.InputFormat(path, lineNo)
		}
		n, err := cast.ToIntE(countLine)
		if err != nil || n <= 0 {
			return nil, piquant.InputFormat(path, lineNo)
		}

		mat := piquant.NewMaterial()
		std := &piquant.Standard{Names: []string{specLine}, SpectrumFile: specLine, Material: mat}
		for i := 0; i < n; i++ {
			pairLine, ok := nextLine()
			if !ok {
				return nil, piquant.InputFormat(path, lineNo)
			}
			fields := strings.Fields(pairLine)
			if len(fields) != 2 {
				return nil, piquant.InputFormat(path, lineNo)
			}
			el, ok := piquant.ElementBySymbol(fields[0])
			if !ok {
				return nil, piquant.InputFormat(path, lineNo)
			}
			pct, err := cast.ToFloat64E(fields[1])
			if err != nil {
				return nil, piquant.InputFormat(path, lineNo)
			}
			if err := mat.AddElement(el, pct/100.0, piquant.LightElementFormula{}); err != nil {
				return nil, err
			}
			std.ElementList = append(std.ElementList, el)
		}
		stds = append(stds, std)
	}
	if err := scanner.Err(); err != nil {
		return nil, piquant.IOError("read", path, err)
	}
	if len(stds) == 0 {
		return nil, piquant.InputFormat(path, lineNo)
	}
	return stds, nil
}
