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
	"github.com/pixlise/piquant-go"
	"github.com/pixlise/piquant-go/tables"
	"gonum.org/v1/gonum/integrate"
)

// linePrimaryIntensity evaluates the Sherman-equation primary-excitation
// intensity of one emission line (spec §4.4 "primary line intensities
// via Sherman equation absorption-layer term"):
//
//	I(line) = integral over incident energy E0 of
//	    S(E0) * [mu_photo,el(E0) / mu_total(material, E0)] * omega * p
//	    / (mu_total(material,E0)*csc(psi1) + mu_total(material,Eline)*csc(psi2))
//	    dE0
//
// where S(E0) is the path-attenuated source intensity, omega is the
// shell fluorescence yield, and p is the line's relative weight within
// its series. The specimen is assumed semi-infinite (or thick enough
// relative to the absorption-layer depth that MassThickness's finite-
// thickness case reduces to the same term, per Design Note "Open
// questions" (thin-film correction out of scope)).
func linePrimaryIntensity(el *tables.Element, line tables.Line, mat *piquant.Material, c piquant.Conditions, samples []sourceSample) float64 {
	edge := el.EdgeEnergy(line.Series)
	if edge <= 0 || len(samples) == 0 {
		return 0
	}
	omega := el.FluorescenceYield(line.Series)
	muLine := mat.TotalMassAttenuation(line.EnergyEV)
	denomOut := muLine * c.EmergCosecant

	xs := make([]float64, 0, len(samples))
	ys := make([]float64, 0, len(samples))
	for _, samp := range samples {
		if samp.EnergyEV <= edge {
			continue
		}
		muTotal := mat.TotalMassAttenuation(samp.EnergyEV)
		if muTotal <= 0 {
			continue
		}
		muPhoto := el.PhotoelectricMassAttenuation(samp.EnergyEV)
		sourceIntensity := samp.Intensity * attenuateSourcePath(samp.EnergyEV, c)
		denom := muTotal*c.ExcitCosecant + denomOut
		if denom <= 0 {
			continue
		}
		integrand := sourceIntensity * (muPhoto / muTotal) * omega * line.Weight / denom
		xs = append(xs, samp.EnergyEV)
		ys = append(ys, integrand)
	}
	if len(xs) < 2 {
		return 0
	}
	return integrate.Trapezoidal(xs, ys)
}

// secondaryEnhancement approximates the two-element secondary
// fluorescence contribution to el's line from every other element in
// mat whose own line lies above el's absorption edge (spec §4.4
// "secondary fluorescence enhancement"). It uses the same Sherman-style
// absorption-layer term as the primary term but with the exciting
// element's own characteristic line (rather than the continuum) as the
// source, attenuated by the emitting element's fractional contribution
// to total absorption at that line's energy (a single-enhancer
// approximation: third-element/tertiary fluorescence is out of scope).
func secondaryEnhancement(el *tables.Element, line tables.Line, mat *piquant.Material, c piquant.Conditions, primaryByZ map[int]float64) float64 {
	edge := el.EdgeEnergy(line.Series)
	if edge <= 0 {
		return 0
	}
	omega := el.FluorescenceYield(line.Series)
	muLine := mat.TotalMassAttenuation(line.EnergyEV)
	total := 0.0
	for _, other := range mat.Elements() {
		if other.Z == el.Z {
			continue
		}
		fraction := mat.Fraction(other)
		if fraction <= 0 {
			continue
		}
		for _, exciter := range other.Lines() {
			if exciter.EnergyEV <= edge {
				continue
			}
			otherPrimary := primaryByZ[other.Z]
			if otherPrimary <= 0 {
				continue
			}
			muPhoto := el.PhotoelectricMassAttenuation(exciter.EnergyEV)
			muTotal := mat.TotalMassAttenuation(exciter.EnergyEV)
			if muTotal <= 0 {
				continue
			}
			denom := muTotal*c.ExcitCosecant + muLine*c.EmergCosecant
			if denom <= 0 {
				continue
			}
			// Scale by 0.5*exciter.Weight: secondary fluorescence is
			// proportional to the exciter's own emitted intensity, which
			// otherPrimary (its computed primary intensity) already stands
			// in for; the 0.5 reflects the isotropic-emission geometry
			// factor commonly used for this two-element approximation.
			total += 0.5 * otherPrimary * exciter.Weight * (muPhoto / muTotal) * omega * line.Weight / denom
		}
	}
	return total
}
