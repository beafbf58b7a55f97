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
	"github.com/pixlise/piquant-go"
)

// peakSearchHalfWidthFrac is the fractional energy half-window (around
// the seed calibration's predicted channel) that energy_calibrate
// searches for each element's strongest line's actual peak channel.
const peakSearchHalfWidthFrac = 0.04

// EnergyCalibrate locates each element's strongest K/L line as the
// tallest local maximum near the seed calibration's predicted channel,
// then fits a new linear calibration through the (channel, energy)
// pairs found (spec §6 "energy_calibrate <spectrum> <element-list>").
// It requires at least two elements to resolve both slope and offset.
func EnergyCalibrate(s *piquant.Spectrum, elements []*piquant.Element) (piquant.EnergyCalibration, error) {
	if len(elements) < 2 {
		return piquant.EnergyCalibration{}, &piquant.Error{Kind: piquant.ErrEmptyElementList}
	}
	seed := s.Calibration
	if !seed.Good() {
		seed = piquant.NewEnergyCalibration(0, 10)
	}

	var channels, energies []float64
	for _, el := range elements {
		lines := el.Lines()
		if len(lines) == 0 {
			continue
		}
		strongest := lines[0]
		for _, ln := range lines[1:] {
			if ln.Weight > strongest.Weight {
				strongest = ln
			}
		}
		if strongest.EnergyEV <= 0 {
			continue
		}
		predictedCh := seed.Channel(strongest.EnergyEV)
		halfWidth := peakSearchHalfWidthFrac * predictedCh
		if halfWidth < 2 {
			halfWidth = 2
		}
		lo := clampChannel(int(predictedCh-halfWidth), s.NumChannels())
		hi := clampChannel(int(predictedCh+halfWidth), s.NumChannels())
		peakCh, ok := localMaxChannel(s.Measured, lo, hi)
		if !ok {
			continue
		}
		channels = append(channels, float64(peakCh))
		energies = append(energies, strongest.EnergyEV)
	}
	if len(channels) < 2 {
		return piquant.EnergyCalibration{}, &piquant.Error{Kind: piquant.ErrBadCalibration}
	}
	return fitLinear(channels, energies), nil
}

func clampChannel(ch, n int) int {
	if ch < 0 {
		return 0
	}
	if ch >= n {
		return n - 1
	}
	return ch
}

// localMaxChannel returns the channel index of the largest value in
// measured[lo:hi+1].
func localMaxChannel(measured []float64, lo, hi int) (int, bool) {
	if lo > hi || hi >= len(measured) || lo < 0 {
		return 0, false
	}
	best := lo
	for i := lo; i <= hi; i++ {
		if measured[i] > measured[best] {
			best = i
		}
	}
	return best, true
}

// fitLinear ordinary-least-squares fits y = a + b*x to the (channel,
// energy) pairs EnergyCalibrate finds.
func fitLinear(x, y []float64) piquant.EnergyCalibration {
	n := float64(len(x))
	var sx, sy, sxx, sxy float64
	for i := range x {
		sx += x[i]
		sy += y[i]
		sxx += x[i] * x[i]
		sxy += x[i] * y[i]
	}
	denom := n*sxx - sx*sx
	if denom == 0 {
		return piquant.NewEnergyCalibration(0, 10)
	}
	slope := (n*sxy - sx*sy) / denom
	offset := (sy - slope*sx) / n
	return piquant.NewEnergyCalibration(offset, slope)
}
