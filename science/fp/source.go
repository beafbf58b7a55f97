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
)

// sourceSamples discretizes the X-ray tube's continuum + characteristic
// output into nBins energy samples from sourceEMin to the tube's kV
// (spec §4.4 "primary continuum"), so the primary-line integral
// (primary.go) and the scatter continuum (continuum.go) can both
// integrate over the same incident spectrum. The continuum always
// follows Kramers' law and the characteristic lines are the anode
// element's own K lines, per Design Note "no external tube-spectrum
// dataset" (spec §1 scope); a loaded Source.TubeCurve is not consulted.
type sourceSample struct {
	EnergyEV  float64
	Intensity float64 // relative units; absolute scale is absorbed into the fit coefficient
}

const sourceEMinEV = 500.0

func sourceSamples(src piquant.Source, nBins int) []sourceSample {
	kvEV := src.KV * 1000.0
	if kvEV <= sourceEMinEV || nBins < 2 {
		return nil
	}
	out := make([]sourceSample, 0, nBins)
	step := (kvEV - sourceEMinEV) / float64(nBins-1)
	for i := 0; i < nBins; i++ {
		e := sourceEMinEV + float64(i)*step
		out = append(out, sourceSample{EnergyEV: e, Intensity: kramers(e, kvEV, src.AnodeZ)})
	}
	if el, ok := tables.ByZ(src.AnodeZ); ok {
		for _, ln := range el.Lines() {
			if ln.EnergyEV > 0 && ln.EnergyEV < kvEV {
				out = append(out, sourceSample{EnergyEV: ln.EnergyEV, Intensity: ln.Weight * kvEV * 0.5})
			}
		}
	}
	return out
}

// PrimarySpectrum discretizes the tube's own continuum+characteristic
// output (the same samples primary.go and continuum.go integrate
// against) onto a Spectrum's channel grid, so the primary_spectrum
// sub-command can plot the incident beam independent of any specimen
// (spec §6 "primary_spectrum").
func PrimarySpectrum(c piquant.Conditions, cal piquant.EnergyCalibration, nChannels int) *piquant.Spectrum {
	measured := make([]float64, nChannels)
	for _, sample := range sourceSamples(c.Source, sourceBins) {
		t := attenuateSourcePath(sample.EnergyEV, c)
		ch := cal.Channel(sample.EnergyEV)
		i := int(ch + 0.5)
		if i < 0 || i >= nChannels {
			continue
		}
		measured[i] += sample.Intensity * t
	}
	s := piquant.NewSpectrum(measured, cal)
	comp := piquant.NewSpectrumComponent(piquant.ComponentPrimaryContinuum, "Source")
	comp.Enabled = true
	comp.Plot = true
	comp.Spectrum = append([]float64(nil), measured...)
	comp.Coefficient = 1
	s.Components = []*piquant.SpectrumComponent{comp}
	for i, v := range measured {
		s.Calc[i] = v
	}
	s.RecomputeResidual()
	return s
}

// kramers evaluates the classic Kramers'-law bremsstrahlung continuum:
// intensity per unit energy is proportional to Z*(kvEV-E)/E.
func kramers(energyEV, kvEV float64, anodeZ int) float64 {
	if energyEV <= 0 || energyEV >= kvEV {
		return 0
	}
	return float64(anodeZ) * (kvEV - energyEV) / energyEV
}

// attenuateSourcePath applies the tube Be window, any selected filter,
// the optic transmission curve (T_optic, spec §4.4), and the
// specimen/detector window absorption to a source-side or detector-side
// photon energy, per spec §4.4's path-absorption chain.
func attenuateSourcePath(energyEV float64, c piquant.Conditions) float64 {
	t := 1.0
	if c.Source.BeWindowUM > 0 {
		if be, ok := tables.ByZ(4); ok {
			t *= transmission(be, energyEV, c.Source.BeWindowUM*1e-4)
		}
	}
	if c.Filter.Z > 0 && c.Filter.ThicknessUM > 0 {
		if el, ok := tables.ByZ(c.Filter.Z); ok {
			t *= transmission(el, energyEV, c.Filter.ThicknessUM*1e-4)
		}
	}
	t *= c.Optic.Transmission(energyEV)
	if c.Window.ThicknessUM > 0 {
		t *= windowTransmission(c.Window.Kind, energyEV, c.Window.ThicknessUM*1e-4)
	}
	return t
}

// transmission returns exp(-mu/rho * rho * pathCM) for a pure-element
// absorber.
func transmission(el *tables.Element, energyEV, pathCM float64) float64 {
	mu := el.TotalMassAttenuation(energyEV)
	return expNeg(mu * el.Density * pathCM)
}

// windowTransmission resolves a named window material (Be, polymer,
// etc.) to its element record when recognized, else treats it as a thin
// generic light-element (Be-equivalent) window.
func windowTransmission(kind string, energyEV, pathCM float64) float64 {
	z := 4 // Be
	switch kind {
	case "Al":
		z = 13
	case "Mylar", "Polymer", "":
		z = 6
	}
	el, ok := tables.ByZ(z)
	if !ok {
		el, _ = tables.ByZ(6)
	}
	return transmission(el, energyEV, pathCM)
}
