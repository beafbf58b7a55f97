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

import "github.com/pixlise/piquant-go/tables"

// ComponentType tags a SpectrumComponent's role (spec §3). Rather than
// the original implementation's runtime type-inspection polymorphism
// (Design Note "Component polymorphism"), PIQUANT expresses this as a
// plain enum tag that every component-consuming function switches on
// explicitly.
type ComponentType int

const (
	ComponentElement ComponentType = iota
	ComponentCompton
	ComponentRayleigh
	ComponentContinuum
	ComponentSnipBkg
	ComponentPrimaryLines
	ComponentPrimaryContinuum
	ComponentLAlpha
	ComponentLBeta1
	ComponentDetectorComptonEscape
	ComponentOpticTransmission
	ComponentPileup
)

func (t ComponentType) String() string {
	switch t {
	case ComponentElement:
		return "Element"
	case ComponentCompton:
		return "Compton"
	case ComponentRayleigh:
		return "Rayleigh"
	case ComponentContinuum:
		return "Continuum"
	case ComponentSnipBkg:
		return "SnipBkg"
	case ComponentPrimaryLines:
		return "PrimaryLines"
	case ComponentPrimaryContinuum:
		return "PrimaryContinuum"
	case ComponentLAlpha:
		return "L-alpha"
	case ComponentLBeta1:
		return "L-beta1"
	case ComponentDetectorComptonEscape:
		return "DetectorComptonEscape"
	case ComponentOpticTransmission:
		return "OpticTransmission"
	case ComponentPileup:
		return "Pileup"
	default:
		return "?"
	}
}

// SpectrumComponent is one labeled, additive contribution to a
// Spectrum's calculated counts (spec §3). Its Spectrum[] buffer is
// owned exclusively by the Spectrum it belongs to and is never shared
// between Spectrum instances.
type SpectrumComponent struct {
	Type   ComponentType
	Label  string
	Series tables.Series

	// Element is set for component types tied to a specific analyte
	// (ComponentElement, ComponentLAlpha, ComponentLBeta1).
	Element *Element

	// Spectrum holds one value per detector channel. Cleared to nil by
	// Clean() once the component's Coefficient has been recorded.
	Spectrum []float64

	Coefficient         float64
	AdjustedCoefficient float64
	Variance            float64
	ResidualError       float64

	Enabled       bool
	Fit           bool
	Quant         bool
	Bkg           bool
	Plot          bool
	Included      bool
	Ignore        bool
	Matrix        bool
	NonFitFactor  float64
}

// NewSpectrumComponent builds a component of the given type and label
// with Coefficient defaulted to 1, enabled and plotted but not yet fit
// or included.
func NewSpectrumComponent(t ComponentType, label string) *SpectrumComponent {
	return &SpectrumComponent{
		Type:                t,
		Label:               label,
		Coefficient:         1,
		AdjustedCoefficient: 1,
		NonFitFactor:        1,
		Enabled:             true,
		Plot:                true,
	}
}

// Sum returns the sum of the component's spectrum values.
func (c *SpectrumComponent) Sum() float64 {
	s := 0.0
	for _, v := range c.Spectrum {
		s += v
	}
	return s
}

// max returns the largest value in the component's spectrum.
func (c *SpectrumComponent) max() float64 {
	m := 0.0
	for _, v := range c.Spectrum {
		if v > m {
			m = v
		}
	}
	return m
}

// EligibleForFit reports whether this component may be included in the
// fitter's design matrix: it must be enabled, marked Fit, have a
// spectrum of the expected channel count, and have a sum that is
// positive and not vanishingly small relative to its own peak (spec §3,
// §4.6 exclusion policy).
func (c *SpectrumComponent) EligibleForFit(nChannels int) bool {
	if !c.Enabled || !c.Fit || c.Ignore {
		return false
	}
	if len(c.Spectrum) != nChannels {
		return false
	}
	sum := c.Sum()
	if sum != sum || sum <= 0 { // NaN check via self-inequality
		return false
	}
	peak := c.max()
	if peak <= 0 || sum < 1e-10*peak {
		return false
	}
	return true
}

// Clean drops the component's per-channel spectrum buffer, reclaiming
// its memory once the coefficient has been recorded (spec §3 lifecycle,
// §5 resource bounds).
func (c *SpectrumComponent) Clean() {
	c.Spectrum = nil
}
