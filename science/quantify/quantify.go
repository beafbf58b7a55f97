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

// Package quantify implements the quantify-as-unknown outer loop (spec
// §4.8) and the standards calibrate/evaluate machinery (spec §4.9) built
// on top of science/outerloop's fit-spectrum loop.
package quantify

import (
	"math"
	"sort"

	"github.com/pixlise/piquant-go"
	"github.com/pixlise/piquant-go/science/fit"
	"github.com/pixlise/piquant-go/science/outerloop"
	"github.com/pixlise/piquant-go/tables"
	"gonum.org/v1/gonum/interp"
)

const (
	maxIterations     = 10
	convergenceDelta  = 1e-3
	defaultMatrixSymbol = "O"
)

// ECFEntry is one calibrated Element Calibration Factor: net fitted
// coefficient per unit mass fraction, for one element's emission series.
// RelativeVariance is only meaningful on the raw, per-standard entries
// StandardFitResult.ECFs carries before Calibrate pools them (spec §4.9
// "weighted mean of per-fit relative variances"); pooled table entries
// leave it zero.
type ECFEntry struct {
	Z                int
	Series           tables.Series
	Value            float64
	RelativeVariance float64
}

// ECFTable is the calibrated coefficient-to-mass-fraction conversion used
// by Run (spec §4.8). Lookup interpolates in Z across the calibrated
// entries of the same series when z itself isn't directly calibrated
// (spec's "ECF with Z-interpolation within series"), and extrapolates
// flat from the nearest entry at a series' edge.
type ECFTable struct {
	entries []ECFEntry
	curves  map[tables.Series]ecfCurve
}

// ecfCurve is one series' Z-interpolated ECF: a fitted gonum/interp
// piecewise-linear curve over the calibrated Z values, or a flat value
// when only one Z was calibrated for the series (too few points to fit).
type ecfCurve struct {
	fn        interp.PiecewiseLinear
	lo, hi    float64
	flat      bool
	flatValue float64
}

// NewECFTable builds a table from calibrated entries, e.g. the output of
// Calibrate.
func NewECFTable(entries []ECFEntry) *ECFTable {
	t := &ECFTable{entries: append([]ECFEntry(nil), entries...)}
	sort.Slice(t.entries, func(i, j int) bool {
		if t.entries[i].Series != t.entries[j].Series {
			return t.entries[i].Series < t.entries[j].Series
		}
		return t.entries[i].Z < t.entries[j].Z
	})

	bySeries := map[tables.Series][]ECFEntry{}
	for _, e := range t.entries {
		bySeries[e.Series] = append(bySeries[e.Series], e)
	}
	t.curves = make(map[tables.Series]ecfCurve, len(bySeries))
	for series, es := range bySeries {
		xs := make([]float64, len(es))
		ys := make([]float64, len(es))
		for i, e := range es {
			xs[i] = float64(e.Z)
			ys[i] = e.Value
		}
		if len(xs) < 2 {
			t.curves[series] = ecfCurve{flat: true, flatValue: ys[0]}
			continue
		}
		var pl interp.PiecewiseLinear
		if err := pl.Fit(xs, ys); err != nil {
			t.curves[series] = ecfCurve{flat: true, flatValue: ys[0]}
			continue
		}
		t.curves[series] = ecfCurve{fn: pl, lo: xs[0], hi: xs[len(xs)-1]}
	}
	return t
}

// Lookup returns the ECF for (z, series) and true, or (0, false) if no
// entry of that series exists at all.
func (t *ECFTable) Lookup(z int, series tables.Series) (float64, bool) {
	c, ok := t.curves[series]
	if !ok {
		return 0, false
	}
	if c.flat {
		return c.flatValue, true
	}
	zf := float64(z)
	switch {
	case zf <= c.lo:
		zf = c.lo
	case zf >= c.hi:
		zf = c.hi
	}
	return c.fn.Predict(zf), true
}

// Builder constructs the forward-model spectrum components for a
// Material under a Conditions and writes them onto spectrum, replacing
// whatever components were there before (science/fp implements this;
// Run depends only on this interface so the quantify loop stays
// decoupled from the forward model, per the component boundary in spec
// §4.4/§4.8).
type Builder interface {
	Build(m *piquant.Material, c piquant.Conditions, s *piquant.Spectrum) error
}

// Options configures one quantify-as-unknown run.
type Options struct {
	// MatrixElementSymbol names the element whose fraction absorbs the
	// 1-sum(others) deficit each iteration (spec §4.8 "update the matrix
	// element to absorb the deficit"). Defaults to "O".
	MatrixElementSymbol string
	OuterLoop           outerloop.Options
}

// Result is the outcome of a converged (or capped) quantify-as-unknown run.
type Result struct {
	Iterations int
	Fractions  map[int]float64 // Z -> final mass fraction
	Fit        *fit.Result
}

// Run iterates: build forward-model components for material's current
// composition, run the fit-spectrum outer loop, convert each fitted
// element coefficient to a mass fraction via ecf, update the matrix
// element to absorb the 1-sum(others) deficit, and re-seed material with
// the new fractions. It terminates when the largest per-element fraction
// change falls below 1e-3, after 10 iterations (returning a non-fatal
// piquant.ConvergenceWarning), spec §4.8.
func Run(s *piquant.Spectrum, material *piquant.Material, conditions piquant.Conditions, ecf *ECFTable, builder Builder, opt Options) (*Result, error) {
	matrixSymbol := opt.MatrixElementSymbol
	if matrixSymbol == "" {
		matrixSymbol = defaultMatrixSymbol
	}
	matrixEl, ok := piquant.ElementBySymbol(matrixSymbol)
	if !ok {
		return nil, piquant.InvalidParameter("matrixElement", matrixSymbol)
	}

	var lastFit *fit.Result
	var lastWarn error
	prevFractions := map[int]float64{}

	for iter := 1; iter <= maxIterations; iter++ {
		if err := builder.Build(material, conditions, s); err != nil {
			return nil, err
		}
		oopt := opt.OuterLoop
		oopt.Rebuild = func(fano float64) error {
			if wa, ok := builder.(interface{ SetFano(float64) }); ok {
				wa.SetFano(fano)
			}
			return builder.Build(material, conditions, s)
		}
		res, err := outerloop.Run(s, oopt)
		if err != nil {
			if !piquant.IsWarning(err) {
				return nil, err
			}
			lastWarn = err
		}
		lastFit = res

		newFractions := map[int]float64{}
		otherSum := 0.0
		for _, c := range res.Included {
			if c.Type != piquant.ComponentElement || c.Element == nil || c.Element.Z == matrixEl.Z {
				continue
			}
			ecfVal, ok := ecf.Lookup(c.Element.Z, c.Series)
			if !ok || ecfVal <= 0 {
				continue
			}
			frac := c.Coefficient / ecfVal
			if frac < 0 {
				frac = 0
			}
			newFractions[c.Element.Z] = frac
			otherSum += frac
		}
		matrixFraction := 1.0 - otherSum
		if matrixFraction < 0 {
			matrixFraction = 0
		}
		newFractions[matrixEl.Z] = matrixFraction

		maxDelta := 0.0
		for z, f := range newFractions {
			if d := math.Abs(f - prevFractions[z]); d > maxDelta {
				maxDelta = d
			}
		}

		for z, f := range newFractions {
			el, ok := piquant.ElementByZ(z)
			if !ok {
				continue
			}
			if material.HasElement(el) {
				material.SetFraction(el, f)
			} else {
				material.AddElement(el, f, piquant.NewPureElement())
			}
		}
		material.Normalize(1.0)

		if iter > 1 && maxDelta < convergenceDelta {
			return &Result{Iterations: iter, Fractions: newFractions, Fit: lastFit}, lastWarn
		}
		prevFractions = newFractions
	}

	return &Result{Iterations: maxIterations, Fractions: prevFractions, Fit: lastFit},
		piquant.ConvergenceWarning("quantify", maxIterations)
}
