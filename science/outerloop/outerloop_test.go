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

package outerloop

import (
	"math"
	"testing"

	"github.com/pixlise/piquant-go"
)

func gaussianShape(n int, center, sigma float64) []float64 {
	y := make([]float64, n)
	for i := range y {
		x := float64(i) - center
		y[i] = math.Exp(-(x * x) / (2 * sigma * sigma))
	}
	return y
}

func TestRunDisablesNegativeComponent(t *testing.T) {
	cal := piquant.NewEnergyCalibration(0, 10)
	n := 256
	measured := gaussianShape(n, 100, 4)
	for i := range measured {
		measured[i] *= 1000
		measured[i] += 50
	}
	s := piquant.NewSpectrum(measured, cal)

	good := piquant.NewSpectrumComponent(piquant.ComponentElement, "good")
	good.Fit = true
	good.Spectrum = gaussianShape(n, 100, 4)

	bad := piquant.NewSpectrumComponent(piquant.ComponentElement, "bad")
	bad.Fit = true
	bad.Spectrum = gaussianShape(n, 200, 4)
	for i := range bad.Spectrum {
		bad.Spectrum[i] *= -1
	}

	bkg := piquant.NewSpectrumComponent(piquant.ComponentSnipBkg, "bkg")
	bkg.Fit = true
	bkg.Bkg = true
	flat := make([]float64, n)
	for i := range flat {
		flat[i] = 1
	}
	bkg.Spectrum = flat

	s.Components = []*piquant.SpectrumComponent{good, bad, bkg}

	res, err := Run(s, Options{})
	if err != nil && !piquant.IsWarning(err) {
		t.Fatalf("Run: %v", err)
	}
	if res == nil {
		t.Fatal("expected a result")
	}
	if bad.Enabled {
		t.Errorf("expected negative-coefficient component to be disabled")
	}
	if !good.Enabled {
		t.Errorf("expected positive-coefficient component to stay enabled")
	}
}

func TestBoundFanoCorrectionClamps(t *testing.T) {
	if v := BoundFanoCorrection(0.114, 10); v > 0.114*1.4+1e-9 {
		t.Errorf("expected clamp to upper bound, got %v", v)
	}
	if v := BoundFanoCorrection(0.114, -1); v != 0.114*0.6 {
		t.Errorf("expected clamp to lower bound for non-positive input, got %v", v)
	}
}
