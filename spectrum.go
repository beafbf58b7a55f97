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

import "math"

// Flags bundles the three outer-loop toggles that spec §4.7/§4.4
// attach to a Spectrum: whether the fitter may adjust the energy
// calibration or detector width, and whether Compton components are
// re-convolved with the detector response (expensive, off by default
// per Design Note "Open questions" (a)).
type Flags struct {
	AdjustEnergy   bool
	AdjustWidth    bool
	ConvolveCompton bool
}

// Spectrum owns the measured counts, derived arrays, and the list of
// SpectrumComponents that the forward model and fitter operate on (spec
// §3). Every per-channel array has the same length, NumChannels.
type Spectrum struct {
	Measured []float64
	Sigma    []float64
	Background []float64
	Net      []float64
	Calc     []float64
	Residual []float64

	LiveTime float64
	RealTime float64
	Geometry float64

	Calibration EnergyCalibration
	Components  []*SpectrumComponent

	AuxInfo    map[string]string
	HeaderInfo map[string]string
	FileName   string
	SeqNumber  int

	Iterations int
	Flags      Flags
}

// NewSpectrum builds a Spectrum from a raw measured-counts vector and a
// calibration, computing Sigma per spec §3 (`sigma[i] =
// sqrt(max(measured[i]+2, 2))`) and zero-filling Background/Net/Calc/
// Residual.
func NewSpectrum(measured []float64, cal EnergyCalibration) *Spectrum {
	n := len(measured)
	s := &Spectrum{
		Measured:    append([]float64(nil), measured...),
		Sigma:       make([]float64, n),
		Background:  make([]float64, n),
		Net:         make([]float64, n),
		Calc:        make([]float64, n),
		Residual:    make([]float64, n),
		Calibration: cal,
		AuxInfo:     map[string]string{},
		HeaderInfo:  map[string]string{},
	}
	s.recomputeSigma()
	s.recomputeNet()
	return s
}

// NumChannels returns the spectrum's channel count.
func (s *Spectrum) NumChannels() int { return len(s.Measured) }

func (s *Spectrum) recomputeSigma() {
	for i, v := range s.Measured {
		s.Sigma[i] = math.Sqrt(math.Max(v+2, 2))
	}
}

// recomputeNet enforces net[i] = measured[i] - background[i].
func (s *Spectrum) recomputeNet() {
	if len(s.Net) != len(s.Measured) {
		s.Net = make([]float64, len(s.Measured))
	}
	for i := range s.Measured {
		s.Net[i] = s.Measured[i] - s.Background[i]
	}
}

// RecomputeResidual enforces residual[i] = measured[i] - calc[i].
func (s *Spectrum) RecomputeResidual() {
	if len(s.Residual) != len(s.Measured) {
		s.Residual = make([]float64, len(s.Measured))
	}
	for i := range s.Measured {
		s.Residual[i] = s.Measured[i] - s.Calc[i]
	}
}

// RecomputeBackground sets Background to the sum of Coefficient*Spectrum
// over every enabled Bkg component, then recomputes Net (spec §3
// invariant: "background total equals sum of coefficients x spectra of
// enabled bkg components").
func (s *Spectrum) RecomputeBackground() {
	n := s.NumChannels()
	bg := make([]float64, n)
	for _, c := range s.Components {
		if !c.Enabled || !c.Bkg || len(c.Spectrum) != n {
			continue
		}
		for i, v := range c.Spectrum {
			bg[i] += c.Coefficient * v
		}
	}
	s.Background = bg
	s.recomputeNet()
}

// TotalCounts returns the sum of measured counts.
func (s *Spectrum) TotalCounts() float64 {
	sum := 0.0
	for _, v := range s.Measured {
		sum += v
	}
	return sum
}

// measuredIsAllZero reports whether every measured count is zero.
func (s *Spectrum) measuredIsAllZero() bool {
	for _, v := range s.Measured {
		if v != 0 {
			return false
		}
	}
	return true
}

// RegionCounts sums counts in the 1-7.25 keV region used for
// quick-look reporting, falling back to Calc when Measured is all zero
// (spec §3 invariant).
func (s *Spectrum) RegionCounts() float64 {
	src := s.Measured
	if s.measuredIsAllZero() {
		src = s.Calc
	}
	sum := 0.0
	for ch, v := range src {
		e := s.Calibration.Energy(float64(ch))
		if e >= 1000 && e <= 7250 {
			sum += v
		}
	}
	return sum
}

// MaxValue returns the channel index and value of the largest measured count.
func (s *Spectrum) MaxValue() (channel int, value float64) {
	for i, v := range s.Measured {
		if v > value {
			value = v
			channel = i
		}
	}
	return
}

// RecomputeMaxValue is the bulk-sum-stage entry point for the sum
// sub-command; it simply re-derives the current max via MaxValue.
func (s *Spectrum) RecomputeMaxValue() (channel int, value float64) {
	return s.MaxValue()
}

// CombineDetectors sums the measured counts, live time, and real time
// of same-length spectra from multiple detectors into a single bulk
// spectrum whose sigma is recomputed from the summed counts. It is used
// by the `sum` sub-command; the map orchestrator does not combine
// detectors.
func CombineDetectors(spectra []*Spectrum) (*Spectrum, error) {
	if len(spectra) == 0 {
		return nil, &Error{Kind: ErrEmptyElementList}
	}
	n := spectra[0].NumChannels()
	cal := spectra[0].Calibration
	centers := channelCenters(cal, n)
	measured := make([]float64, n)
	var liveTime, realTime float64
	for _, sp := range spectra {
		if sp.NumChannels() != n {
			return nil, InvalidParameter("combine-detectors", "mismatched channel counts")
		}
		vals := sp.Measured
		if sp.Calibration != cal {
			// Same channel count but a different energy/channel mapping:
			// rebin onto the first detector's grid before summing so
			// channels line up by energy, not by raw index.
			rebinned, err := Rebin(channelCenters(sp.Calibration, n), sp.Measured, centers)
			if err != nil {
				return nil, err
			}
			vals = rebinned
		}
		for i, v := range vals {
			measured[i] += v
		}
		liveTime += sp.LiveTime
		realTime += sp.RealTime
	}
	combined := NewSpectrum(measured, cal)
	combined.LiveTime = liveTime
	combined.RealTime = realTime
	return combined, nil
}

// channelCenters returns the energy (eV) of each of n channel centers under
// cal, the bin-center axis CombineDetectors rebins onto when two spectra
// share a channel count but not a calibration.
func channelCenters(cal EnergyCalibration, n int) []float64 {
	centers := make([]float64, n)
	for i := range centers {
		centers[i] = cal.Energy(float64(i))
	}
	return centers
}

// QuantComponent returns the single Quant-marked component for el, or
// nil if none exists, per the Spectrum invariant that at most one quant
// component exists per element.
func (s *Spectrum) QuantComponent(el *Element) *SpectrumComponent {
	for _, c := range s.Components {
		if c.Quant && SameElement(c.Element, el) {
			return c
		}
	}
	return nil
}

// Clean drops every component's per-channel spectrum buffer, per the
// Spectrum lifecycle (spec §3, §5 resource bounds): called once a
// standard's coefficients have been recorded and the raw component
// shapes are no longer needed.
func (s *Spectrum) Clean() {
	for _, c := range s.Components {
		c.Clean()
	}
}

// Reset drops all components and recomputed arrays, keeping only the
// measured counts and calibration (spec §3 lifecycle invariant).
func (s *Spectrum) Reset() {
	n := s.NumChannels()
	s.Components = nil
	s.Background = make([]float64, n)
	s.Calc = make([]float64, n)
	s.Residual = make([]float64, n)
	s.recomputeNet()
	s.Iterations = 0
}
