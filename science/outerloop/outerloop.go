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

// Package outerloop implements the fit-spectrum outer loop of spec
// §4.7: it iterates the linear fit (science/fit), disabling any
// component whose coefficient comes back non-positive, and propagates
// one energy-calibration and one detector-width adjustment per pass
// into the spectrum before the next iteration.
package outerloop

import (
	"math"

	"github.com/pixlise/piquant-go"
	"github.com/pixlise/piquant-go/science/fit"
)

const (
	maxIterations    = 40
	convergenceDelta = 1e-3
	defaultFanoLow   = 0.6 // 1 - 40%
	defaultFanoHigh  = 1.4 // 1 + 40%

	// packageDefaultFano mirrors fp's own default Fano factor (spec
	// §4.6), used to bound AdjustWidth's correction when a caller leaves
	// Options.DefaultFano unset.
	packageDefaultFano = 0.114
)

// Options configures the outer loop's calibration/width adjustment policy.
type Options struct {
	MaxShiftChannels float64 // one FWHM in channels, for the energy-cal bound
	DefaultFano      float64 // used to bound AdjustWidth's Fano correction

	// Rebuild, if set, re-runs the forward model at a newly proposed Fano
	// factor so a width (AdjustWidth) co-fit pass actually reshapes the
	// Gaussian components rather than only reporting a delta; left nil,
	// Run still co-fits the width term but has no way to act on it, so no
	// broadening/narrowing ever happens (equivalent to AdjustWidth off).
	Rebuild func(fano float64) error
}

// Run iterates science/fit.Fit over s until convergence, the iteration
// cap, or a pass with no newly-disabled component, per spec §4.7. It
// always leaves s in the state of its best (most recent) fit; if the
// loop hits the 40-iteration cap without meeting the convergence
// tolerance, Run returns a non-fatal piquant.ConvergenceWarning error
// alongside the final *fit.Result (spec §7 propagation policy).
func Run(s *piquant.Spectrum, opt Options) (*fit.Result, error) {
	var lastResult *fit.Result
	var prevChi2 float64
	first := true

	defaultFano := opt.DefaultFano
	if defaultFano <= 0 {
		defaultFano = packageDefaultFano
	}
	currentFano := defaultFano
	adjustWidth := s.Flags.AdjustWidth && opt.Rebuild != nil

	for iter := 1; iter <= maxIterations; iter++ {
		res, err := fit.Fit(s, fit.Options{
			AdjustEnergy:     s.Flags.AdjustEnergy,
			MaxShiftChannels: opt.MaxShiftChannels,
			AdjustWidth:      adjustWidth,
		})
		if err != nil {
			return nil, err
		}
		lastResult = res
		s.Iterations = iter

		disabledCount := 0
		for _, c := range res.Included {
			if c.Coefficient <= 0 {
				c.Fit = false
				c.Enabled = false
				disabledCount++
			}
		}

		s.RecomputeBackground()
		s.RecomputeResidual()

		if s.Flags.AdjustEnergy && res.EnergyShiftChannels != 0 {
			applyEnergyShift(s, res.EnergyShiftChannels, opt.MaxShiftChannels)
		}

		if adjustWidth && res.WidthDeltaFraction != 0 {
			proposed := currentFano * (1 + res.WidthDeltaFraction)
			bounded := BoundFanoCorrection(defaultFano, proposed)
			if bounded != currentFano {
				if err := opt.Rebuild(bounded); err != nil {
					return nil, err
				}
				currentFano = bounded
			}
		}

		if !first {
			if prevChi2 != 0 && math.Abs(res.ReducedChiSquare-prevChi2)/prevChi2 < convergenceDelta {
				return lastResult, nil
			}
			if disabledCount == 0 {
				return lastResult, nil
			}
		}
		first = false
		prevChi2 = res.ReducedChiSquare
	}
	return lastResult, piquant.ConvergenceWarning("fit-spectrum", maxIterations)
}

// applyEnergyShift propagates a co-fit channel-axis shift into the
// spectrum's calibration, bounded to one detector FWHM in channels
// (spec §4.6).
func applyEnergyShift(s *piquant.Spectrum, shiftChannels, maxShift float64) {
	if maxShift > 0 {
		if shiftChannels > maxShift {
			shiftChannels = maxShift
		}
		if shiftChannels < -maxShift {
			shiftChannels = -maxShift
		}
	}
	s.Calibration.DeltaOffset += shiftChannels * s.Calibration.EVPerChannel
}

// BoundFanoCorrection clamps a proposed Fano-factor correction so the
// resulting Fano stays within +/-40% of defaultFano and positive (spec
// §4.6 AdjustWidth policy).
func BoundFanoCorrection(defaultFano, proposed float64) float64 {
	lo := defaultFano * defaultFanoLow
	hi := defaultFano * defaultFanoHigh
	if proposed < lo {
		return lo
	}
	if proposed > hi {
		return hi
	}
	if proposed <= 0 {
		return lo
	}
	return proposed
}
