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

package quantify

import (
	"math"

	"github.com/GaryBoone/GoStats/stats"
	"github.com/pixlise/piquant-go"
	"github.com/pixlise/piquant-go/science/fit"
	"github.com/pixlise/piquant-go/science/outerloop"
	"github.com/pixlise/piquant-go/tables"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// StandardFitResult is the per-element outcome of fitting one Standard's
// spectrum: the fitted coefficient and the raw ECF implied by the
// standard's known composition (spec §4.9 "fit one standard").
type StandardFitResult struct {
	Standard *piquant.Standard
	Fit      *fit.Result
	ECFs     []ECFEntry // one entry per quantified element present in the standard
}

// FitOneStandard builds the forward model for std's Material and
// Conditions, runs the fit-spectrum outer loop against std.Spectrum, and
// derives one raw ECF = coefficient/known_fraction per fitted element
// component whose element has a non-zero known mass fraction in the
// standard's Material (spec §4.9).
func FitOneStandard(std *piquant.Standard, conditions piquant.Conditions, builder Builder, opt outerloop.Options) (*StandardFitResult, error) {
	if std.Disable {
		return nil, piquant.InvalidParameter("standard", std.Name()+" is disabled")
	}
	if err := builder.Build(std.Material, conditions, std.Spectrum); err != nil {
		return nil, err
	}
	opt.Rebuild = func(fano float64) error {
		if wa, ok := builder.(interface{ SetFano(float64) }); ok {
			wa.SetFano(fano)
		}
		return builder.Build(std.Material, conditions, std.Spectrum)
	}
	res, err := outerloop.Run(std.Spectrum, opt)
	warn := piquant.IsWarning(err)
	if err != nil && !warn {
		return nil, err
	}

	var ecfs []ECFEntry
	for _, c := range res.Included {
		if c.Type != piquant.ComponentElement || c.Element == nil {
			continue
		}
		known := std.Material.Fraction(c.Element)
		if known <= 0 || c.Coefficient <= 0 {
			continue
		}
		var relVar float64
		if c.Coefficient != 0 {
			relVar = c.Variance / (c.Coefficient * c.Coefficient)
		}
		ecfs = append(ecfs, ECFEntry{Z: c.Element.Z, Series: c.Series, Value: c.Coefficient / known, RelativeVariance: relVar})
	}

	result := &StandardFitResult{Standard: std, Fit: res, ECFs: ecfs}
	if warn {
		return result, err
	}
	return result, nil
}

// ElementECFStat summarizes the dispersion of one element's ECF across
// the calibration standards it appeared in (spec §4.9 evaluate report).
type ElementECFStat struct {
	Z              int
	Series         tables.Series
	WeightedMean   float64
	WeightedStdDev float64
	N              int

	// RelativeVarianceMean is the weighted mean of the per-fit relative
	// variances contributing to this element's pooled ECF (spec §4.9
	// term (b)). Uncertainty is the larger of WeightedStdDev (term (a))
	// and RelativeVarianceMean, the ECF uncertainty spec §4.9 actually
	// specifies; WeightedStdDev alone is kept for diagnostic visibility.
	RelativeVarianceMean float64
	Uncertainty          float64

	// UnweightedMean and UnweightedStdDev are the plain (GoStats) sample
	// mean and sample standard deviation of the same raw per-standard
	// ECFs, kept alongside the weighted figures; neither the calibration
	// file nor the evaluate report writes them.
	UnweightedMean   float64
	UnweightedStdDev float64
}

// Calibrate fits every enabled standard in stds and pools their raw ECFs
// into one ECFTable, one entry per (Z, series) observed across any
// standard. Each standard's ECF contributes with weight
// std.Weight(element); the pooled value is the weighted mean, and the
// companion stat's Uncertainty is the larger of the weighted standard
// deviation across standards and the weighted mean of each contributing
// fit's own relative variance (spec §4.9 "ECF uncertainty is the larger
// of (a) ... and (b) the weighted mean of per-fit relative variances").
func Calibrate(stds []*piquant.Standard, conditions piquant.Conditions, builder Builder, opt outerloop.Options) (*ECFTable, []ElementECFStat, error) {
	type sample struct {
		value, weight, relVar float64
	}
	samples := map[[2]int][]sample{} // key: {Z, int(Series)}

	for _, std := range stds {
		if std.Disable {
			continue
		}
		fitRes, err := FitOneStandard(std, conditions, builder, opt)
		if err != nil && !piquant.IsWarning(err) {
			return nil, nil, err
		}
		for _, e := range fitRes.ECFs {
			el, _ := piquant.ElementByZ(e.Z)
			w := std.Weight(el)
			key := [2]int{e.Z, int(e.Series)}
			samples[key] = append(samples[key], sample{value: e.Value, weight: w, relVar: e.RelativeVariance})
		}
	}

	if len(samples) == 0 {
		return nil, nil, &piquant.Error{Kind: piquant.ErrNoStandardsLoaded}
	}

	var entries []ECFEntry
	var stats_ []ElementECFStat
	for key, s := range samples {
		z, series := key[0], tables.Series(key[1])

		weights := make([]float64, len(s))
		values := make([]float64, len(s))
		relVars := make([]float64, len(s))
		for i, v := range s {
			weights[i] = v.weight
			values[i] = v.value
			relVars[i] = v.relVar
		}
		wsum := floats.Sum(weights)

		mean := 0.0
		if wsum > 0 {
			mean = stat.Mean(values, weights)
		}

		// Weighted standard deviation of the relative deviations from mean
		// (term (a)).
		stddev := 0.0
		if wsum > 0 && mean != 0 {
			sqRel := make([]float64, len(values))
			for i, v := range values {
				rel := (v - mean) / mean
				sqRel[i] = rel * rel
			}
			stddev = math.Sqrt(stat.Mean(sqRel, weights))
		}

		// Weighted mean of per-fit relative variances (term (b)).
		relVarMean := 0.0
		if wsum > 0 {
			relVarMean = stat.Mean(relVars, weights)
		}
		uncertainty := stddev
		if relVarMean > uncertainty {
			uncertainty = relVarMean
		}

		uMean, uStdDev := poolUnweightedSpread(values)

		entries = append(entries, ECFEntry{Z: z, Series: series, Value: mean})
		stats_ = append(stats_, ElementECFStat{
			Z: z, Series: series,
			WeightedMean: mean, WeightedStdDev: stddev, N: len(s),
			RelativeVarianceMean: relVarMean, Uncertainty: uncertainty,
			UnweightedMean: uMean, UnweightedStdDev: uStdDev,
		})
	}

	return NewECFTable(entries), stats_, nil
}

// poolUnweightedSpread is a diagnostic, unweighted companion to
// Calibrate's weighted statistics: it reports the plain sample mean and
// sample standard deviation of raw values. The results are stored on
// ElementECFStat; neither the calibration file nor the evaluate report
// writes them.
func poolUnweightedSpread(values []float64) (mean, sampleStdDev float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean = stats.StatsMean(values)
	if len(values) < 2 {
		return mean, 0
	}
	return mean, math.Sqrt(stats.StatsSampleVariance(values))
}

// EvaluateResult is the per-standard outcome of Evaluate (spec §4.9
// evaluate): the standard's own data is excluded from the ECF table used
// to quantify it, so the reported fraction is a genuine held-out check.
type EvaluateResult struct {
	Standard       *piquant.Standard
	Quantified     *Result
	KnownFractions map[int]float64
}

// Evaluate runs Calibrate once per standard in stds, excluding that
// standard's own fits from the pooled ECF table (spec §4.9 "evaluate
// excludes the standard's own data"), then quantifies it as an unknown
// against the resulting table, so every reported recovery is a leave-
// one-out cross-check.
func Evaluate(stds []*piquant.Standard, conditions piquant.Conditions, builder Builder, opt Options) ([]EvaluateResult, error) {
	var results []EvaluateResult
	for i, held := range stds {
		if held.Disable {
			continue
		}
		var others []*piquant.Standard
		for j, s := range stds {
			if j != i {
				others = append(others, s)
			}
		}
		ecf, _, err := Calibrate(others, conditions, builder, opt.OuterLoop)
		if err != nil {
			return nil, err
		}

		known := map[int]float64{}
		for _, el := range held.Material.Elements() {
			known[el.Z] = held.Material.Fraction(el)
		}

		quant, err := Run(held.Spectrum, held.Material, conditions, ecf, builder, opt)
		if err != nil && !piquant.IsWarning(err) {
			return nil, err
		}
		results = append(results, EvaluateResult{Standard: held, Quantified: quant, KnownFractions: known})
	}
	return results, nil
}
