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

// Package piquantutil wires the science packages and ioformats readers
// into the 13 piquant sub-commands (spec §6), the way inmaputil wires
// InMAP's science packages into its own cobra sub-commands.
package piquantutil

import (
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"

	"github.com/pixlise/piquant-go"
	"github.com/pixlise/piquant-go/ioformats/ems"
	"github.com/pixlise/piquant-go/ioformats/plotcsv"
	"github.com/pixlise/piquant-go/mapproc"
	"github.com/pixlise/piquant-go/science/fp"
	"github.com/pixlise/piquant-go/science/outerloop"
	"github.com/pixlise/piquant-go/science/quantify"
	"github.com/spf13/afero"
)

// RunOptions carries the option-flag values shared across most
// sub-commands (spec §6 "Options"), so each Run* function takes one
// struct instead of a dozen positional parameters.
type RunOptions struct {
	EVStart, EVPerCh float64

	DisableEnergyAdjust  bool
	DisableWidthAdjust   bool
	EnableComptonConvolve bool

	Carbonates bool

	Threads    int
	MaxSpectra int

	StandardSelector string
	MinWeight        float64

	OutputSelector string

	NormalizePercent float64
	IronOxideRatio   float64

	DetectorIndex int
}

func seedCalibration(opt RunOptions) piquant.EnergyCalibration {
	if opt.EVPerCh > 0 {
		return piquant.NewEnergyCalibration(opt.EVStart, opt.EVPerCh)
	}
	return piquant.NewEnergyCalibration(0, 10)
}

func outerLoopOptions(opt RunOptions) outerloop.Options {
	return outerloop.Options{MaxShiftChannels: 2}
}

// outerLoopOptionsRebuilding adds a width-adjustment rebuild hook to
// outerLoopOptions: when the fit-spectrum loop co-fits a Fano delta, it
// re-runs model.Build at the newly bounded Fano so the width adjustment
// actually reshapes the spectrum's Gaussian components.
func outerLoopOptionsRebuilding(opt RunOptions, model *fp.Model, material *piquant.Material, cond piquant.Conditions, s *piquant.Spectrum) outerloop.Options {
	o := outerLoopOptions(opt)
	o.Rebuild = func(fano float64) error {
		model.Fano = fano
		return model.Build(material, cond, s)
	}
	return o
}

func quantifyOptions(opt RunOptions) quantify.Options {
	return quantify.Options{OuterLoop: outerLoopOptions(opt)}
}

func applyFlags(s *piquant.Spectrum, opt RunOptions) {
	s.Flags.AdjustEnergy = !opt.DisableEnergyAdjust
	s.Flags.AdjustWidth = !opt.DisableWidthAdjust
	s.Flags.ConvolveCompton = opt.EnableComptonConvolve
}

// seedMaterial builds a starting composition for quantify/evaluate/map:
// every listed element at an equal starting fraction, normalized to 1
// (spec §4.8 "quantify-as-unknown" needs an initial guess to fluoresce
// against before the first fit pass).
func seedMaterial(elements []*piquant.Element) *piquant.Material {
	m := piquant.NewMaterial()
	if len(elements) == 0 {
		return m
	}
	frac := 1.0 / float64(len(elements))
	for _, el := range elements {
		m.AddElement(el, frac, piquant.NewPureElement())
	}
	if m.Density() == 0 {
		m.SetDensity(2.7)
	}
	m.Normalize(1.0)
	return m
}

// --- energy_calibrate ---

func RunEnergyCalibrate(fs afero.Fs, spectrumPath, elementListPath string, opt RunOptions) error {
	s, err := ReadSpectrum(fs, spectrumPath, seedCalibration(opt))
	if err != nil {
		return err
	}
	elements, err := ReadElementList(elementListPath)
	if err != nil {
		return err
	}
	cal, err := EnergyCalibrate(s, elements)
	if err != nil {
		return err
	}
	fmt.Println(piquant.FormatCalibrationSignal(cal))
	return nil
}

// --- plot ---

func RunPlot(fs afero.Fs, spectrumPath, plotPath string, opt RunOptions) error {
	s, err := ReadSpectrum(fs, spectrumPath, seedCalibration(opt))
	if err != nil {
		return err
	}
	return plotcsv.Write(fs, plotPath, s)
}

// --- primary_spectrum ---

func RunPrimarySpectrum(fs afero.Fs, configPath, plotPath string, opt RunOptions) error {
	cond, err := ReadConditions(fs, configPath)
	if err != nil {
		return err
	}
	cal := seedCalibration(opt)
	s := fp.PrimarySpectrum(cond, cal, 2048)
	return plotcsv.Write(fs, plotPath, s)
}

// --- calculate ---

func RunCalculate(fs afero.Fs, configPath, standardsPath, plotPath string, opt RunOptions) error {
	cond, err := ReadConditions(fs, configPath)
	if err != nil {
		return err
	}
	cal := seedCalibration(opt)
	stds, err := ReadStandards(fs, standardsPath, cal)
	if err != nil {
		return err
	}
	std, err := StandardByIndexOrName(stds, opt.StandardSelector)
	if err != nil {
		return err
	}
	if opt.IronOxideRatio > 0 {
		std.Material.SetIronOxideRatio(opt.IronOxideRatio)
	}
	model := &fp.Model{}
	if err := model.Build(std.Material, cond, std.Spectrum); err != nil {
		return err
	}
	sumComponentsIntoCalc(std.Spectrum)
	return plotcsv.Write(fs, plotPath, std.Spectrum)
}

// sumComponentsIntoCalc sets Calc to the sum of every enabled
// component's contribution at its current Coefficient, for the
// calculate/optic sub-commands that forward-model a spectrum without
// running the fitter.
func sumComponentsIntoCalc(s *piquant.Spectrum) {
	n := s.NumChannels()
	calc := make([]float64, n)
	for _, c := range s.Components {
		if !c.Enabled || len(c.Spectrum) != n {
			continue
		}
		for ch, v := range c.Spectrum {
			calc[ch] += c.Coefficient * v
		}
	}
	s.Calc = calc
	s.RecomputeResidual()
}

// --- compare ---

func RunCompare(fs afero.Fs, configPath, standardsPath, spectrumPath, plotPath string, opt RunOptions) error {
	cond, err := ReadConditions(fs, configPath)
	if err != nil {
		return err
	}
	cal := seedCalibration(opt)
	stds, err := ReadStandards(fs, standardsPath, cal)
	if err != nil {
		return err
	}
	std, err := StandardByIndexOrName(stds, opt.StandardSelector)
	if err != nil {
		return err
	}
	measured, err := ReadSpectrum(fs, spectrumPath, cal)
	if err != nil {
		return err
	}
	std.Spectrum.Measured = measured.Measured
	std.Spectrum.LiveTime = measured.LiveTime
	std.Spectrum.RealTime = measured.RealTime
	applyFlags(std.Spectrum, opt)

	model := &fp.Model{}
	if err := model.Build(std.Material, cond, std.Spectrum); err != nil {
		return err
	}
	oopt := outerLoopOptionsRebuilding(opt, model, std.Material, cond, std.Spectrum)
	if _, err := outerloop.Run(std.Spectrum, oopt); err != nil && !piquant.IsWarning(err) {
		return err
	}
	return plotcsv.Write(fs, plotPath, std.Spectrum)
}

// --- optic ---

func RunOptic(fs afero.Fs, configPath, standardsPath, spectrumPath, elementListPath, plotPath string, opt RunOptions) error {
	cond, err := ReadConditions(fs, configPath)
	if err != nil {
		return err
	}
	cal := seedCalibration(opt)
	stds, err := ReadStandards(fs, standardsPath, cal)
	if err != nil {
		return err
	}
	std, err := StandardByIndexOrName(stds, opt.StandardSelector)
	if err != nil {
		return err
	}
	elements, err := ReadElementList(elementListPath)
	if err != nil {
		return err
	}
	wanted := map[int]bool{}
	for _, el := range elements {
		wanted[el.Z] = true
	}

	measured, err := ReadSpectrum(fs, spectrumPath, cal)
	if err != nil {
		return err
	}
	std.Spectrum.Measured = measured.Measured
	std.Spectrum.LiveTime = measured.LiveTime
	std.Spectrum.RealTime = measured.RealTime
	applyFlags(std.Spectrum, opt)

	model := &fp.Model{}
	if err := model.Build(std.Material, cond, std.Spectrum); err != nil {
		return err
	}
	// Scope the fit to the listed elements' components plus the
	// non-analyte scatter/background continuum, per spec's "optic"
	// sub-command scoping an analysis to a subset of elements.
	for _, c := range std.Spectrum.Components {
		if c.Type == piquant.ComponentElement && c.Element != nil && !wanted[c.Element.Z] {
			c.Enabled = false
			c.Fit = false
		}
	}
	oopt := outerLoopOptionsRebuilding(opt, model, std.Material, cond, std.Spectrum)
	if _, err := outerloop.Run(std.Spectrum, oopt); err != nil && !piquant.IsWarning(err) {
		return err
	}
	return plotcsv.Write(fs, plotPath, std.Spectrum)
}

// --- calibrate ---

func RunCalibrate(fs afero.Fs, configPath, standardsPath, calibrationPath, elementListPath string, opt RunOptions) error {
	cond, err := ReadConditions(fs, configPath)
	if err != nil {
		return err
	}
	cal := seedCalibration(opt)
	stds, err := ReadStandards(fs, standardsPath, cal)
	if err != nil {
		return err
	}
	for _, std := range stds {
		applyFlags(std.Spectrum, opt)
	}
	model := &fp.Model{}
	_, stats, err := quantify.Calibrate(stds, cond, model, outerLoopOptions(opt))
	if err != nil {
		return err
	}
	return WriteECFTable(fs, calibrationPath, stats)
}

// --- quantify ---

func RunQuantify(fs afero.Fs, configPath, calibrationPath, spectrumPath, elementListPath, plotPath string, opt RunOptions) error {
	cond, err := ReadConditions(fs, configPath)
	if err != nil {
		return err
	}
	ecf, err := ReadECFTable(fs, calibrationPath)
	if err != nil {
		return err
	}
	elements, err := ReadElementList(elementListPath)
	if err != nil {
		return err
	}
	cal := seedCalibration(opt)
	s, err := ReadSpectrum(fs, spectrumPath, cal)
	if err != nil {
		return err
	}
	applyFlags(s, opt)
	material := seedMaterial(elements)
	if opt.IronOxideRatio > 0 {
		material.SetIronOxideRatio(opt.IronOxideRatio)
	}
	model := &fp.Model{}
	result, err := quantify.Run(s, material, cond, ecf, model, quantifyOptions(opt))
	if err != nil && !piquant.IsWarning(err) {
		return err
	}
	scale := 100.0
	if opt.NormalizePercent > 0 {
		scale = opt.NormalizePercent
	}
	for z, frac := range result.Fractions {
		el, ok := piquant.ElementByZ(z)
		if !ok {
			continue
		}
		fmt.Printf("%s: %.3f%%\n", el.Symbol, frac*scale)
	}
	if plotPath != "" {
		return plotcsv.Write(fs, plotPath, s)
	}
	return nil
}

// --- evaluate ---

func RunEvaluate(fs afero.Fs, configPath, standardsPath, calibrationPath, elementListPath, mapPath string, opt RunOptions) error {
	cond, err := ReadConditions(fs, configPath)
	if err != nil {
		return err
	}
	cal := seedCalibration(opt)
	stds, err := ReadStandards(fs, standardsPath, cal)
	if err != nil {
		return err
	}
	model := &fp.Model{}
	results, err := quantify.Evaluate(stds, cond, model, quantifyOptions(opt))
	if err != nil {
		return err
	}
	return writeEvaluateCSV(fs, mapPath, results)
}

// writeEvaluateCSV writes one row per standard per element, comparing
// the standard's certified composition against its leave-one-out
// quantified recovery (spec §4.9 "evaluate").
func writeEvaluateCSV(fs afero.Fs, path string, results []quantify.EvaluateResult) error {
	f, err := fs.Create(path)
	if err != nil {
		return piquant.IOError("create", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"standard", "symbol", "known", "quantified", "delta"}); err != nil {
		return piquant.IOError("write", path, err)
	}
	for _, r := range results {
		seen := map[int]bool{}
		var zs []int
		for z := range r.KnownFractions {
			if !seen[z] {
				seen[z] = true
				zs = append(zs, z)
			}
		}
		if r.Quantified != nil {
			for z := range r.Quantified.Fractions {
				if !seen[z] {
					seen[z] = true
					zs = append(zs, z)
				}
			}
		}
		sort.Ints(zs)
		for _, z := range zs {
			el, ok := piquant.ElementByZ(z)
			if !ok {
				continue
			}
			known := r.KnownFractions[z]
			var quantified float64
			if r.Quantified != nil {
				quantified = r.Quantified.Fractions[z]
			}
			row := []string{
				r.Standard.Name(),
				el.Symbol,
				strconv.FormatFloat(known, 'g', -1, 64),
				strconv.FormatFloat(quantified, 'g', -1, 64),
				strconv.FormatFloat(quantified-known, 'g', -1, 64),
			}
			if err := w.Write(row); err != nil {
				return piquant.IOError("write", path, err)
			}
		}
	}
	w.Flush()
	return w.Error()
}

// --- map ---

func RunMap(fs afero.Fs, configPath, calibrationPath, spectrumListPath, elementListPath, mapPath string, opt RunOptions) error {
	cond, err := ReadConditions(fs, configPath)
	if err != nil {
		return err
	}
	ecf, err := ReadECFTable(fs, calibrationPath)
	if err != nil {
		return err
	}
	elements, err := ReadElementList(elementListPath)
	if err != nil {
		return err
	}
	paths, err := ReadSpectrumList(spectrumListPath)
	if err != nil {
		return err
	}
	cal := seedCalibration(opt)

	jobs := make([]mapproc.JobInput, len(paths))
	for i, p := range paths {
		jobs[i] = mapproc.JobInput{SpectrumFile: p, SeqNumber: i}
	}

	model := &fp.Model{}
	read := func(input mapproc.JobInput) (*piquant.Spectrum, error) {
		s, err := ReadSpectrum(fs, input.SpectrumFile, cal)
		if err != nil {
			return nil, err
		}
		applyFlags(s, opt)
		return s, nil
	}
	setup := func(input mapproc.JobInput) (*piquant.Material, error) {
		return seedMaterial(elements), nil
	}

	results, err := mapproc.Run(jobs, mapproc.Options{
		Workers:    opt.Threads,
		MaxSpectra: opt.MaxSpectra,
		Read:       read,
		Setup:      setup,
		Conditions: cond,
		ECF:        ecf,
		Builder:    model,
		Quantify:   quantifyOptions(opt),
	})
	if err != nil {
		return err
	}
	return mapproc.WriteCSV(fs, mapPath, results)
}

// --- sum ---

func RunSum(fs afero.Fs, configPath, calibrationPath, spectrumListPath, elementListPath, plotPath string, opt RunOptions) error {
	cond, err := ReadConditions(fs, configPath)
	if err != nil {
		return err
	}
	ecf, err := ReadECFTable(fs, calibrationPath)
	if err != nil {
		return err
	}
	elements, err := ReadElementList(elementListPath)
	if err != nil {
		return err
	}
	paths, err := ReadSpectrumList(spectrumListPath)
	if err != nil {
		return err
	}
	cal := seedCalibration(opt)

	var spectra []*piquant.Spectrum
	for _, p := range paths {
		s, err := ReadSpectrum(fs, p, cal)
		if err != nil {
			return err
		}
		spectra = append(spectra, s)
	}
	combined, err := piquant.CombineDetectors(spectra)
	if err != nil {
		return err
	}
	applyFlags(combined, opt)
	combined.RecomputeMaxValue()

	material := seedMaterial(elements)
	model := &fp.Model{}
	if _, err := quantify.Run(combined, material, cond, ecf, model, quantifyOptions(opt)); err != nil && !piquant.IsWarning(err) {
		return err
	}
	return plotcsv.Write(fs, plotPath, combined)
}

// --- ems ---

func RunEms(fs afero.Fs, sddPath, edrPath string) error {
	return ems.Convert(fs, sddPath, edrPath)
}

// --- version ---

func RunVersion() {
	fmt.Printf("PIQUANT v%s\n", piquant.Version)
}
