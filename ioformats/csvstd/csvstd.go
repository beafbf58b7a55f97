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

// Package csvstd reads the calibrate/evaluate standards table (spec
// §4.9, §6 "CSV standards"): directive-keyword rows (STANDARD,
// COMMENT, SPECTRUM, THICKNESS, DENSITY, FRACTIONS, CARBONATES)
// interleaved with element rows `symbol,series,qualifier,
// componentType,%,uncertainty,formulaRatio,weight,ECF,ECFsigma`.
package csvstd

import (
	"encoding/csv"
	"strings"

	"github.com/pixlise/piquant-go"
	"github.com/spf13/afero"
	"github.com/spf13/cast"
)

const (
	elSymbol      = 0
	elPercent     = 4
	elUncertainty = 5
	elWeight      = 7
)

// Read parses a CSV standards table at path into a slice of Standards.
func Read(fs afero.Fs, path string) ([]*piquant.Standard, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, piquant.IOError("open", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, piquant.IOError("read", path, err)
	}

	var stds []*piquant.Standard
	var cur *piquant.Standard
	var mat *piquant.Material

	for i, row := range rows {
		lineNo := i + 1
		if len(row) == 0 {
			continue
		}
		directive := strings.ToUpper(strings.TrimSpace(row[0]))
		switch directive {
		case "STANDARD":
			name := ""
			if len(row) > 1 {
				name = strings.TrimSpace(row[1])
			}
			mat = piquant.NewMaterial()
			cur = &piquant.Standard{Names: []string{name}, Material: mat}
			stds = append(stds, cur)
			continue
		case "COMMENT":
			if cur == nil {
				return nil, piquant.InputFormat(path, lineNo)
			}
			if len(row) > 1 {
				cur.Comments = append(cur.Comments, strings.TrimSpace(row[1]))
			}
			continue
		case "SPECTRUM":
			if cur == nil || len(row) < 2 {
				return nil, piquant.InputFormat(path, lineNo)
			}
			cur.SpectrumFile = strings.TrimSpace(row[1])
			continue
		case "THICKNESS":
			if cur == nil || len(row) < 2 {
				return nil, piquant.InputFormat(path, lineNo)
			}
			v, err := cast.ToFloat64E(strings.TrimSpace(row[1]))
			if err != nil {
				return nil, piquant.InputFormat(path, lineNo)
			}
			mat.SetThickness(v)
			continue
		case "DENSITY":
			if cur == nil || len(row) < 2 {
				return nil, piquant.InputFormat(path, lineNo)
			}
			v, err := cast.ToFloat64E(strings.TrimSpace(row[1]))
			if err != nil {
				return nil, piquant.InputFormat(path, lineNo)
			}
			mat.SetDensity(v)
			continue
		case "FRACTIONS":
			if cur == nil || len(row) < 2 {
				return nil, piquant.InputFormat(path, lineNo)
			}
			cur.InputFractionsAreFormula = strings.EqualFold(strings.TrimSpace(row[1]), "FORMULA")
			continue
		case "CARBONATES":
			if cur == nil {
				return nil, piquant.InputFormat(path, lineNo)
			}
			cur.Carbonates = true
			continue
		}

		// element data row
		if cur == nil || mat == nil || len(row) <= elPercent {
			return nil, piquant.InputFormat(path, lineNo)
		}
		el, ok := piquant.ElementBySymbol(strings.TrimSpace(row[elSymbol]))
		if !ok {
			return nil, piquant.InputFormat(path, lineNo)
		}
		pct, err := cast.ToFloat64E(strings.TrimSpace(row[elPercent]))
		if err != nil {
			return nil, piquant.InputFormat(path, lineNo)
		}
		if err := mat.AddElement(el, pct/100.0, piquant.LightElementFormula{}); err != nil {
			return nil, err
		}
		if len(row) > elUncertainty {
			if u, err := cast.ToFloat64E(strings.TrimSpace(row[elUncertainty])); err == nil {
				mat.SetUncertainty(el, u/100.0)
			}
		}
		if len(row) > elWeight {
			if w, err := cast.ToFloat64E(strings.TrimSpace(row[elWeight])); err == nil {
				if cur.UserWeights == nil {
					cur.UserWeights = map[int]float64{}
				}
				cur.UserWeights[el.Z] = w
			}
		}
		cur.ElementList = append(cur.ElementList, el)
	}
	if len(stds) == 0 {
		return nil, piquant.InputFormat(path, 0)
	}
	return stds, nil
}
