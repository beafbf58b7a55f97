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

// Package fit implements the weighted linear least-squares fitter of
// spec §4.6: it builds a design matrix from a Spectrum's enabled+fit
// components, solves the weighted normal equations via a QR
// decomposition (gonum/mat), and returns per-component coefficients,
// variances, and the fit's reduced chi-squared.
package fit

import (
	"math"

	"github.com/pixlise/piquant-go"
	"gonum.org/v1/gonum/mat"
)

// Result is the outcome of one linear fit.
type Result struct {
	// Included lists the components that were actually placed in the
	// design matrix, in column order.
	Included []*piquant.SpectrumComponent

	// EnergyShiftChannels is the co-fit channel-axis shift when
	// AdjustEnergy was requested, else 0.
	EnergyShiftChannels float64

	// WidthDeltaFraction is the co-fit fractional detector-width
	// (Fano) correction when AdjustWidth was requested, else 0. The
	// caller (science/outerloop) converts this into a new Fano factor
	// and bounds it per spec §4.6's clamp policy.
	WidthDeltaFraction float64

	ReducedChiSquare float64
}

// Options controls the optional calibration/width co-fit columns (spec
// §4.6 policies).
type Options struct {
	AdjustEnergy bool
	MaxShiftChannels float64 // bound: |shift| <= one FWHM in channels
	AdjustWidth  bool
}

// Fit solves the weighted normal equations (AᵀWA)x = AᵀWy for the
// spectrum's eligible components, writes the resulting Coefficient,
// Variance, Included, and ResidualError fields back onto each component,
// recomputes s.Calc and s.Residual, and returns the reduced chi-squared.
// It returns piquant's FitSingular error if, after exclusions, no
// columns remain or the normal-equations matrix can't be inverted.
func Fit(s *piquant.Spectrum, opt Options) (*Result, error) {
	n := s.NumChannels()
	var included []*piquant.SpectrumComponent
	fixed := make([]float64, n)
	for _, c := range s.Components {
		if c.EligibleForFit(n) {
			included = append(included, c)
			continue
		}
		c.Included = false
		// A component with a fixed (non-fit) scale, such as fp's pulse-
		// pileup contribution, still adds to the calculated spectrum at
		// its own Coefficient*NonFitFactor; it is subtracted out of the
		// observation before solving and added back into Calc afterward,
		// rather than occupying a design-matrix column.
		if c.Enabled && !c.Fit && !c.Ignore && len(c.Spectrum) == n {
			scale := c.Coefficient * c.NonFitFactor
			if scale != 0 {
				for i, v := range c.Spectrum {
					fixed[i] += scale * v
				}
			}
		}
	}
	ncols := len(included)
	if opt.AdjustEnergy {
		ncols++
	}
	if opt.AdjustWidth {
		ncols++
	}
	if ncols == 0 {
		return nil, &piquant.Error{Kind: piquant.ErrFitSingular}
	}

	a := mat.NewDense(n, ncols, nil)
	y := mat.NewVecDense(n, nil)
	w := make([]float64, n)

	for i := 0; i < n; i++ {
		sigma := s.Sigma[i]
		if sigma <= 0 {
			sigma = 1
		}
		w[i] = 1.0 / (sigma * sigma)
		y.SetVec(i, s.Measured[i]-fixed[i])
	}
	for j, c := range included {
		for i := 0; i < n; i++ {
			a.Set(i, j, c.Spectrum[i])
		}
	}
	if opt.AdjustEnergy {
		shiftCol := len(included)
		for i := 0; i < n; i++ {
			var lo, hi float64
			if i > 0 {
				lo = s.Measured[i-1]
			}
			if i < n-1 {
				hi = s.Measured[i+1]
			}
			a.Set(i, shiftCol, 0.5*(hi-lo))
		}
	}
	if opt.AdjustWidth {
		// A first-order Taylor term for peak broadening: the curvature
		// (discrete second derivative) of the measured spectrum is the
		// same local-linearization trick as the energy column's first
		// derivative, but for the width axis instead of the channel
		// axis.
		widthCol := len(included)
		if opt.AdjustEnergy {
			widthCol++
		}
		for i := 0; i < n; i++ {
			var lo, hi float64
			if i > 0 {
				lo = s.Measured[i-1]
			}
			if i < n-1 {
				hi = s.Measured[i+1]
			}
			a.Set(i, widthCol, hi-2*s.Measured[i]+lo)
		}
	}

	// Weighted design matrix/observation: scale each row by sqrt(w).
	aw := mat.NewDense(n, ncols, nil)
	yw := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		sw := math.Sqrt(w[i])
		for j := 0; j < ncols; j++ {
			aw.Set(i, j, a.At(i, j)*sw)
		}
		yw.SetVec(i, y.AtVec(i)*sw)
	}

	var qr mat.QR
	qr.Factorize(aw)
	var x mat.VecDense
	if err := qr.SolveVecTo(&x, false, yw); err != nil {
		return nil, &piquant.Error{Kind: piquant.ErrFitSingular, Wrapped: err}
	}

	// (AᵀWA)^-1 diagonal gives per-coefficient variance.
	var atwa mat.Dense
	atwa.Mul(aw.T(), aw)
	var inv mat.Dense
	if err := inv.Inverse(&atwa); err != nil {
		return nil, &piquant.Error{Kind: piquant.ErrFitSingular, Wrapped: err}
	}

	for j, c := range included {
		coef := x.AtVec(j)
		c.Coefficient = coef
		c.AdjustedCoefficient = coef
		c.Variance = inv.At(j, j)
		c.Included = true
	}

	calc := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := fixed[i]
		for j, c := range included {
			sum += x.AtVec(j) * c.Spectrum[i]
		}
		calc[i] = sum
	}
	s.Calc = calc
	s.RecomputeResidual()

	for _, c := range included {
		num, den := 0.0, 0.0
		for i := 0; i < n; i++ {
			num += math.Abs(s.Residual[i]) * c.Spectrum[i]
			den += c.Spectrum[i] * c.Spectrum[i]
		}
		if den > 0 {
			c.ResidualError = num / den
		}
	}

	dof := n - ncols
	if dof < 1 {
		dof = 1
	}
	chi2 := 0.0
	for i := 0; i < n; i++ {
		chi2 += w[i] * s.Residual[i] * s.Residual[i]
	}
	reduced := chi2 / float64(dof)

	res := &Result{Included: included, ReducedChiSquare: reduced}
	if opt.AdjustEnergy {
		shift := x.AtVec(len(included))
		if opt.MaxShiftChannels > 0 {
			if shift > opt.MaxShiftChannels {
				shift = opt.MaxShiftChannels
			}
			if shift < -opt.MaxShiftChannels {
				shift = -opt.MaxShiftChannels
			}
		}
		res.EnergyShiftChannels = shift
	}
	if opt.AdjustWidth {
		widthCol := len(included)
		if opt.AdjustEnergy {
			widthCol++
		}
		res.WidthDeltaFraction = x.AtVec(widthCol)
	}
	return res, nil
}
