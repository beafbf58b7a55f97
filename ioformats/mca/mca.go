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

// Package mca reads the AmpTek MCA text export format (spec §6 "AmpTek
// MCA"): a `<<SECTION>>`-tagged file with a `TAG - value` metadata
// section, a `<<DATA>>`/`<<END>>` counts block, and an optional
// `<<CALIBRATION>>` block giving two or more (channel, energy) points
// that this reader reduces to a linear fit for OffsetEV/EVPerChannel.
package mca

import (
	"bufio"
	"strings"

	"github.com/pixlise/piquant-go"
	"github.com/spf13/afero"
	"github.com/spf13/cast"
)

// Read parses an AmpTek-style MCA export at path.
func Read(fs afero.Fs, path string) (*piquant.Spectrum, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, piquant.IOError("open", path, err)
	}
	defer f.Close()

	header := map[string]string{}
	var counts []float64
	var calPoints [][2]float64
	section := ""
	lineNo := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "<<") && strings.HasSuffix(line, ">>") {
			tag := strings.TrimSuffix(strings.TrimPrefix(line, "<<"), ">>")
			if tag == "END" {
				section = ""
			} else {
				section = tag
			}
			continue
		}
		switch section {
		case "DATA":
			v, err := cast.ToFloat64E(line)
			if err != nil {
				return nil, piquant.InputFormat(path, lineNo)
			}
			counts = append(counts, v)
		case "CALIBRATION":
			fields := strings.Fields(line)
			if len(fields) != 2 {
				continue
			}
			ch, err1 := cast.ToFloat64E(fields[0])
			ev, err2 := cast.ToFloat64E(fields[1])
			if err1 == nil && err2 == nil {
				calPoints = append(calPoints, [2]float64{ch, ev * 1000})
			}
		default:
			if idx := strings.Index(line, "-"); idx > 0 {
				key := strings.ToUpper(strings.TrimSpace(line[:idx]))
				val := strings.TrimSpace(line[idx+1:])
				header[key] = val
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, piquant.IOError("read", path, err)
	}
	if counts == nil {
		return nil, piquant.InputFormat(path, lineNo)
	}

	cal := calibrationFromPoints(calPoints)
	s := piquant.NewSpectrum(counts, cal)
	s.FileName = path
	s.HeaderInfo = header
	if lt, ok := header["LIVE_TIME"]; ok {
		if v, err := cast.ToFloat64E(lt); err == nil {
			s.LiveTime = v
		}
	}
	if rt, ok := header["REAL_TIME"]; ok {
		if v, err := cast.ToFloat64E(rt); err == nil {
			s.RealTime = v
		}
	}
	return s, nil
}

// calibrationFromPoints fits a linear (offset, slope) calibration
// through two-or-more (channel, energyEV) points by least squares,
// falling back to a 10eV/channel default with zero offset when fewer
// than two points were supplied.
func calibrationFromPoints(points [][2]float64) piquant.EnergyCalibration {
	if len(points) < 2 {
		return piquant.NewEnergyCalibration(0, 10)
	}
	n := float64(len(points))
	var sx, sy, sxx, sxy float64
	for _, p := range points {
		sx += p[0]
		sy += p[1]
		sxx += p[0] * p[0]
		sxy += p[0] * p[1]
	}
	denom := n*sxx - sx*sx
	if denom == 0 {
		return piquant.NewEnergyCalibration(0, 10)
	}
	slope := (n*sxy - sx*sy) / denom
	offset := (sy - slope*sx) / n
	return piquant.NewEnergyCalibration(offset, slope)
}
