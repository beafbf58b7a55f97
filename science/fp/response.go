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

package fp

import (
	"math"

	"github.com/pixlise/piquant-go"
)

// siIonizationEnergyEV is the mean energy to create one electron-hole
// pair in silicon, used by the Fano-limited resolution formula.
const siIonizationEnergyEV = 3.65

// defaultFano is the Fano factor used when a Spectrum's conditions don't
// override it (spec §4.6 AdjustWidth co-fits around this default).
const defaultFano = 0.114

// gaussianSigmaEV returns the detector's 1-sigma resolution at energyEV,
// combining electronic noise (quoted as the detector's ResolutionEV FWHM
// at ReferenceEnergyEV) in quadrature with Fano-limited charge-collection
// statistics, per spec §4.4 "detector response convolution".
func gaussianSigmaEV(energyEV float64, det piquant.Detector, fano float64) float64 {
	if fano <= 0 {
		fano = defaultFano
	}
	refFWHM := det.ResolutionEV
	if refFWHM <= 0 {
		refFWHM = 150
	}
	refEnergy := det.ReferenceEnergyEV
	if refEnergy <= 0 {
		refEnergy = 5895
	}
	noiseTermEV2 := refFWHM*refFWHM - 2.3548*2.3548*fano*siIonizationEnergyEV*refEnergy
	if noiseTermEV2 < 0 {
		noiseTermEV2 = 0
	}
	fwhm2 := noiseTermEV2 + 2.3548*2.3548*fano*siIonizationEnergyEV*energyEV
	if fwhm2 < 0 {
		fwhm2 = 0
	}
	return math.Sqrt(fwhm2) / 2.3548
}

// addGaussianPeak adds a Gaussian of the given area centered at
// centerEV, with 1-sigma width sigmaEV, onto dst using cal to map
// channel to energy. Channels beyond +/-6 sigma are skipped.
func addGaussianPeak(dst []float64, cal piquant.EnergyCalibration, centerEV, sigmaEV, area float64) {
	if sigmaEV <= 0 || area == 0 {
		return
	}
	norm := area / (sigmaEV * math.Sqrt(2*math.Pi))
	for ch := range dst {
		e := cal.Energy(float64(ch))
		d := e - centerEV
		if math.Abs(d) > 6*sigmaEV {
			continue
		}
		dst[ch] += norm * math.Exp(-(d*d)/(2*sigmaEV*sigmaEV))
	}
}

// addShelfAndTail adds the detector's low-energy shelf to a single line:
// a flat step of height area*ShelfFactor/(50*sigmaEV) on every channel
// below centerEV (and at or above ShelfSlopeStartEV when that is set).
// It adds nothing when ShelfFactor is not positive. No exponential tail
// is added; the line response is the Gaussian plus this shelf.
func addShelfAndTail(dst []float64, cal piquant.EnergyCalibration, centerEV, sigmaEV, area float64, det piquant.Detector) {
	if area == 0 {
		return
	}
	shelfFraction := det.ShelfFactor
	if shelfFraction <= 0 {
		return
	}
	shelfStart := det.ShelfSlopeStartEV
	for ch := range dst {
		e := cal.Energy(float64(ch))
		if e >= centerEV || (shelfStart > 0 && e < shelfStart) {
			continue
		}
		dst[ch] += area * shelfFraction / (sigmaEV * 50)
	}
}

// expNeg is exp(-x), clamped so very large x doesn't underflow into
// denormals that slow down the channel loop.
func expNeg(x float64) float64 {
	if x > 700 {
		return 0
	}
	if x < 0 {
		x = 0
	}
	return math.Exp(-x)
}
