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

// Package fp implements the fundamental-parameters forward model (spec
// §4.4): primary line intensities via the Sherman equation, two-element
// secondary fluorescence enhancement, Gaussian+shelf detector response
// (no exponential tail) with optional escape peaks, a coherent/incoherent scatter
// continuum, and pulse-pileup self-convolution. It builds one
// piquant.SpectrumComponent per physical contribution and assigns it
// directly to a Spectrum, implementing the science/quantify.Builder and
// science/outerloop input contract.
package fp

import (
	"github.com/pixlise/piquant-go"
	"github.com/pixlise/piquant-go/science/snip"
	"github.com/pixlise/piquant-go/tables"
)

// sourceBins is the number of energy samples used to discretize the
// tube's continuum for the primary/secondary/scatter integrals. Higher
// values trade runtime for a smoother high-energy tail; 120 resolves the
// Kramers continuum to well under 1% integration error for PIXL's 28kV
// tube.
const sourceBins = 120

// minAnalyteZ is the lowest atomic number this model builds a
// characteristic-line element component for: below Na (Z=11) the K
// lines fall below the silicon detector's practical cutoff, so lighter
// elements (spec's O, C, etc.) only ever contribute through absorption
// in Material, never their own SpectrumComponent.
const minAnalyteZ = 11

// pileupFractionPerKCPS is the fraction of total counts redistributed
// into pileup sums per 1000 input counts/sec: at 20 kcps the pileup
// component carries at most 3% of total counts.
const pileupFractionPerKCPS = 0.0015

// Model implements science/quantify.Builder and provides the forward
// model entry point used directly by the calculate/compare/primary_spectrum
// CLI sub-commands (spec §6).
type Model struct {
	// Fano overrides the detector Fano factor used for peak widths; zero
	// uses the package default (spec §4.6's AdjustWidth co-fits around
	// whichever value is in force).
	Fano float64
}

// SetFano implements science/outerloop's width-adjustment rebuild hook:
// it lets the outer loop propagate a newly bounded Fano factor back into
// the model before the next forward-model build.
func (mo *Model) SetFano(fano float64) { mo.Fano = fano }

// Build computes every SpectrumComponent spec §4.4 describes for
// Material m under Conditions c, replacing s.Components, and recomputes
// s.Background from the new background component at its initial unit
// coefficient; s.Calc and s.Residual are left untouched (the caller's
// subsequent fit or outer-loop pass computes those).
func (mo *Model) Build(m *piquant.Material, c piquant.Conditions, s *piquant.Spectrum) error {
	if !s.Calibration.Good() {
		return &piquant.Error{Kind: piquant.ErrBadCalibration}
	}
	n := s.NumChannels()
	samples := sourceSamples(c.Source, sourceBins)
	fano := mo.Fano

	var components []*piquant.SpectrumComponent

	primaryByZ := map[int]float64{}
	for _, el := range m.Elements() {
		if el.Z < minAnalyteZ {
			continue
		}
		fraction := m.Fraction(el)
		if fraction <= 0 {
			continue
		}
		sum := 0.0
		for _, line := range el.Lines() {
			sum += fraction * linePrimaryIntensity(el, line, m, c, samples)
		}
		primaryByZ[el.Z] = sum
	}

	for _, el := range m.Elements() {
		if el.Z < minAnalyteZ {
			continue
		}
		fraction := m.Fraction(el)
		if fraction <= 0 {
			continue
		}
		lines := el.Lines()
		comp := piquant.NewSpectrumComponent(piquant.ComponentElement, el.Symbol)
		comp.Element = el
		comp.Series = lines[0].Series
		comp.Fit = true
		comp.Quant = true
		comp.Spectrum = make([]float64, n)

		for _, line := range lines {
			if line.EnergyEV <= 0 {
				continue
			}
			area := fraction*linePrimaryIntensity(el, line, m, c, samples) +
				secondaryEnhancement(el, line, m, c, primaryByZ)
			if area <= 0 {
				continue
			}
			sigma := gaussianSigmaEV(line.EnergyEV, c.Detector, fano)
			addGaussianPeak(comp.Spectrum, s.Calibration, line.EnergyEV, sigma, area)
			addShelfAndTail(comp.Spectrum, s.Calibration, line.EnergyEV, sigma, area, c.Detector)
			if c.Detector.ComptonEscapeOn {
				addEscapePeak(comp.Spectrum, s.Calibration, line.EnergyEV, sigma, area, c.Detector)
			}
		}
		components = append(components, comp)
	}

	rayleigh := piquant.NewSpectrumComponent(piquant.ComponentRayleigh, "Rayleigh")
	rayleigh.Fit = true
	rayleigh.Spectrum = rayleighContinuum(n, m, c, samples, s.Calibration, c.Detector, fano)
	components = append(components, rayleigh)

	compton := piquant.NewSpectrumComponent(piquant.ComponentCompton, "Compton")
	compton.Fit = true
	compton.Spectrum = comptonContinuum(n, m, c, samples, s.Calibration, c.Detector, fano, s.Flags.ConvolveCompton)
	components = append(components, compton)

	if len(s.Measured) == n && n > 0 {
		bkg := piquant.NewSpectrumComponent(piquant.ComponentSnipBkg, "SnipBkg")
		bkg.Fit = true
		bkg.Bkg = true
		bkg.Spectrum = snip.EstimateLSQ(s.Measured, snip.Params{
			Primary:    snip.Zone{Ch1: 0, Ch2: n - 1, FWHM: snipFWHMChannels(c.Detector, s.Calibration)},
			Iterations: 24,
		})
		components = append(components, bkg)
	}

	if s.LiveTime > 0 {
		cps := s.TotalCounts() / s.LiveTime
		pileupFraction := pileupFractionPerKCPS * (cps / 1000.0)
		calcSoFar := make([]float64, n)
		for _, comp := range components {
			for i, v := range comp.Spectrum {
				calcSoFar[i] += v
			}
		}
		pileup := piquant.NewSpectrumComponent(piquant.ComponentPileup, "Pileup")
		pileup.Fit = false // fixed-scale contribution, not solved by the LSQ fitter (spec §4.4)
		pileup.Enabled = pileupFraction > 0
		pileup.Spectrum = selfConvolve(calcSoFar, pileupFraction)
		components = append(components, pileup)
	}

	s.Components = components
	s.RecomputeBackground()
	return nil
}

// snipFWHMChannels converts the detector's resolution FWHM (in eV) to a
// channel count, for SNIP's boxcar smoothing width.
func snipFWHMChannels(det piquant.Detector, cal piquant.EnergyCalibration) float64 {
	if cal.EVPerChannel <= 0 {
		return 8
	}
	fwhmEV := det.ResolutionEV
	if fwhmEV <= 0 {
		fwhmEV = 150
	}
	ch := fwhmEV / cal.EVPerChannel
	if ch < 2 {
		ch = 2
	}
	return ch
}

// addEscapePeak adds a silicon-escape satellite peak below centerEV,
// shifted down by the detector's own Si K-alpha energy (spec §4.4
// "detector response convolution ... escape peaks"), with area scaled
// by a fixed 1-2% escape probability typical of thin SDDs.
func addEscapePeak(dst []float64, cal piquant.EnergyCalibration, centerEV, sigmaEV, area float64, det piquant.Detector) {
	si, ok := tables.ByZ(14)
	if !ok {
		return
	}
	siKa := si.EdgeEnergy(tables.K) * 0.8972
	escapeEnergy := centerEV - siKa
	if escapeEnergy <= 0 {
		return
	}
	const escapeProbability = 0.015
	addGaussianPeak(dst, cal, escapeEnergy, sigmaEV, area*escapeProbability)
}
