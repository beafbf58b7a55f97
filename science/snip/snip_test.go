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

package snip

import (
	"math"
	"testing"
)

func gaussianOnFlat(n int, flat, amp, center, sigma float64) []float64 {
	y := make([]float64, n)
	for i := range y {
		x := float64(i) - center
		y[i] = flat + amp*math.Exp(-(x*x)/(2*sigma*sigma))
	}
	return y
}

func TestEstimateStripsGaussianPeak(t *testing.T) {
	y := gaussianOnFlat(1024, 100, 1000, 500, 3)
	b := Estimate(y, Params{Primary: Zone{Ch1: 0, Ch2: 1023, FWHM: 8}, Iterations: 24})

	if b[500] > 105 {
		t.Errorf("snip at peak = %v, want <= 105", b[500])
	}
	if b[50] < 99 {
		t.Errorf("snip far from peak = %v, want >= 99", b[50])
	}
}

func TestEstimateMonotonicBelowBoxcar(t *testing.T) {
	y := gaussianOnFlat(512, 50, 500, 256, 4)
	boxcar := boxcarSmooth(y, 0, 511, 8)
	b := Estimate(y, Params{Primary: Zone{Ch1: 0, Ch2: 511, FWHM: 8}, Iterations: 24})
	for i := range y {
		if b[i] > boxcar[i]+1e-9 {
			t.Fatalf("snip[%d]=%v exceeds boxcar[%d]=%v", i, b[i], i, boxcar[i])
		}
	}
}

func TestEstimateLSQRescales(t *testing.T) {
	y := gaussianOnFlat(256, 100, 50, 128, 5)
	b := EstimateLSQ(y, Params{Primary: Zone{Ch1: 0, Ch2: 255, FWHM: 8}, Iterations: 24})
	if len(b) != len(y) {
		t.Fatalf("length mismatch")
	}
}

func TestWindowForIterationHalvesLast8(t *testing.T) {
	w24 := windowForIteration(8, 24, 24)
	w17 := windowForIteration(8, 17, 24)
	if w24 >= w17 {
		t.Errorf("expected final iteration window %v < earlier window %v", w24, w17)
	}
	if math.Abs(w17-8/math.Sqrt2) > 1e-12 {
		t.Errorf("iteration 17 of 24 is the first of the last 8 and should use fwhm/sqrt(2), got %v", w17)
	}
}
