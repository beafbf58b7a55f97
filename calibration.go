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

package piquant

import (
	"fmt"
	"math"
)

// EnergyCalibration maps detector channel to photon energy and back
// (spec §3, §4.1). OffsetEV and EVPerChannel are the base linear
// calibration; DeltaOffset/DeltaSlope are the fit-spectrum outer loop's
// per-pass adjustments (spec §4.7); Quadratic is an optional quadratic
// term; LinearCorrectionSlope/Offset implement a secondary linear
// correction that is suppressed above a crossover energy.
type EnergyCalibration struct {
	OffsetEV     float64
	EVPerChannel float64
	Quadratic    float64

	DeltaOffset float64
	DeltaSlope  float64

	// LinearCorrectionSlope and LinearCorrectionOffset parameterize
	// linear_correction(E) = slope*(E/1000) + offset, suppressed for E
	// above -offset/slope*1000 (spec §4.1). Zero slope disables the
	// correction entirely.
	LinearCorrectionSlope  float64
	LinearCorrectionOffset float64
}

// NewEnergyCalibration builds a calibration from the base offset and
// slope; all other fields start at zero (no quadratic term, no pass
// adjustments, no linear correction).
func NewEnergyCalibration(offsetEV, evPerChannel float64) EnergyCalibration {
	return EnergyCalibration{OffsetEV: offsetEV, EVPerChannel: evPerChannel}
}

// Good reports whether this calibration is usable: eV/channel must be
// positive and finite (spec §4.1).
func (c EnergyCalibration) Good() bool {
	return c.EVPerChannel > 0 && !math.IsNaN(c.EVPerChannel) && !math.IsInf(c.EVPerChannel, 0)
}

// linearCorrection evaluates linear_correction(E) = slope*(E/1000) +
// offset, suppressed above the crossover energy -offset/slope*1000.
func (c EnergyCalibration) linearCorrection(energyEV float64) float64 {
	if c.LinearCorrectionSlope == 0 {
		return 0
	}
	crossoverEV := -c.LinearCorrectionOffset / c.LinearCorrectionSlope * 1000.0
	if energyEV > crossoverEV {
		return 0
	}
	return c.LinearCorrectionSlope*(energyEV/1000.0) + c.LinearCorrectionOffset
}

// Energy converts a (possibly fractional) channel number to energy in eV:
//
//	energy(ch) = offset + Δoffset + ch*(eV_per_ch + Δslope) + ch^2*quadratic
//	             - linear_correction(energy)
//
// Since linear_correction depends on the very energy being computed, it
// is applied as a fixed-point correction evaluated at the
// pre-correction energy, matching spec §4.1.
func (c EnergyCalibration) Energy(channel float64) float64 {
	base := c.OffsetEV + c.DeltaOffset + channel*(c.EVPerChannel+c.DeltaSlope) + channel*channel*c.Quadratic
	return base - c.linearCorrection(base)
}

// Channel converts an energy in eV back to a (possibly fractional)
// channel number, inverting Energy. When Quadratic is non-negligible,
// the positive root of eV_per_ch*ch + quadratic*ch^2 + offset - E = 0 is
// returned; if the discriminant is negative, Channel returns 0 (spec
// §4.1).
func (c EnergyCalibration) Channel(energyEV float64) float64 {
	offset := c.OffsetEV + c.DeltaOffset
	slope := c.EVPerChannel + c.DeltaSlope
	e := energyEV + c.linearCorrection(energyEV)

	const quadEpsilon = 1e-12
	if math.Abs(c.Quadratic) < quadEpsilon {
		if slope == 0 {
			return 0
		}
		return (e - offset) / slope
	}
	a := c.Quadratic
	b := slope
	cc := offset - e
	disc := b*b - 4*a*cc
	if disc < 0 {
		return 0
	}
	sq := math.Sqrt(disc)
	ch1 := (-b + sq) / (2 * a)
	ch2 := (-b - sq) / (2 * a)
	if ch1 >= 0 {
		return ch1
	}
	return ch2
}

// FormatCalibrationSignal renders the machine-parseable signal line
// `(-e,evStart,evPerCh)` emitted after any energy-calibration change, so
// a GUI consuming PIQUANT's terminal output can reuse the new
// calibration (spec §7 "User-visible"). This mirrors the original
// implementation's write_conditions.cpp signal format.
func FormatCalibrationSignal(c EnergyCalibration) string {
	return fmt.Sprintf("(-e,%g,%g)", c.OffsetEV+c.DeltaOffset, c.EVPerChannel+c.DeltaSlope)
}
