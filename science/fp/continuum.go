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
	"github.com/pixlise/piquant-go/tables"
)

// scatterPeakAngleRad is the single effective scattering angle used for
// the coherent/incoherent continuum components: pi minus the sum of the
// excitation and emergence angles, i.e. the angle between the incident
// and detected rays for a reflection-geometry instrument (spec §4.4
// "primary continuum with coherent/incoherent scatter").
func scatterPeakAngleRad(c piquant.Conditions) float64 {
	return math.Pi - c.ExcitAngleDeg*math.Pi/180.0 - c.EmergAngleDeg*math.Pi/180.0
}

// rayleighContinuum builds the coherent (Rayleigh) scatter component: a
// Gaussian peak per source energy sample, at the same energy it arrived
// with, weighted by the material's doubly-differential coherent cross
// section and the incident/emergent path absorption.
func rayleighContinuum(n int, mat *piquant.Material, c piquant.Conditions, samples []sourceSample, cal piquant.EnergyCalibration, det piquant.Detector, fano float64) []float64 {
	out := make([]float64, n)
	theta := scatterPeakAngleRad(c)
	for _, s := range samples {
		muTotal := mat.TotalMassAttenuation(s.EnergyEV)
		if muTotal <= 0 {
			continue
		}
		denom := muTotal*(c.ExcitCosecant+c.EmergCosecant)
		if denom <= 0 {
			continue
		}
		diff := mat.DoublyDifferentialCoherent(s.EnergyEV, theta)
		sourceIntensity := s.Intensity * attenuateSourcePath(s.EnergyEV, c)
		area := sourceIntensity * diff / denom
		if area <= 0 {
			continue
		}
		sigma := gaussianSigmaEV(s.EnergyEV, det, fano)
		addGaussianPeak(out, cal, s.EnergyEV, sigma, area)
	}
	return out
}

// comptonContinuum builds the incoherent (Compton) scatter component,
// shifting each source energy sample down via the Compton formula before
// placing it in the output spectrum, per spec §4.4. By default each
// shifted sample is binned directly into its nearest channel (cheap: one
// scatter continuum point per source sample, no per-point detector
// response). When convolve is true (the -v EnableComptonConvolve flag),
// each sample instead gets its own Gaussian at the detector's resolution
// for that energy -- the smoother, noticeably more expensive form, since
// it evaluates gaussianSigmaEV/addGaussianPeak once per source sample
// rather than once per output channel.
func comptonContinuum(n int, mat *piquant.Material, c piquant.Conditions, samples []sourceSample, cal piquant.EnergyCalibration, det piquant.Detector, fano float64, convolve bool) []float64 {
	out := make([]float64, n)
	theta := scatterPeakAngleRad(c)
	for _, s := range samples {
		muTotal := mat.TotalMassAttenuation(s.EnergyEV)
		if muTotal <= 0 {
			continue
		}
		shifted := tables.ComptonShiftedEnergy(s.EnergyEV, theta)
		muEmerg := mat.TotalMassAttenuation(shifted)
		denom := muTotal*c.ExcitCosecant + muEmerg*c.EmergCosecant
		if denom <= 0 {
			continue
		}
		diff := mat.DoublyDifferentialIncoherent(s.EnergyEV, theta)
		sourceIntensity := s.Intensity * attenuateSourcePath(s.EnergyEV, c)
		area := sourceIntensity * diff / denom
		if area <= 0 {
			continue
		}
		if convolve {
			sigma := gaussianSigmaEV(shifted, det, fano)
			addGaussianPeak(out, cal, shifted, sigma, area)
			continue
		}
		addChannelSpike(out, cal, shifted, area)
	}
	return out
}

// addChannelSpike deposits area into the single channel nearest centerEV,
// the un-convolved (cheap) form of the Compton continuum.
func addChannelSpike(dst []float64, cal piquant.EnergyCalibration, centerEV, area float64) {
	ch := cal.Channel(centerEV)
	i := int(ch + 0.5)
	if i < 0 || i >= len(dst) {
		return
	}
	dst[i] += area
}
