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

package fit

import (
	"math"
	"testing"

	"github.com/pixlise/piquant-go"
)

func gaussianComponent(label string, n int, center, sigma float64) *piquant.SpectrumComponent {
	c := piquant.NewSpectrumComponent(piquant.ComponentElement, label)
	c.Fit = true
	c.Spectrum = make([]float64, n)
	for i := range c.Spectrum {
		d := float64(i) - center
		c.Spectrum[i] = math.Exp(-d * d / (2 * sigma * sigma))
	}
	return c
}

func TestFitRecoversKnownCoefficients(t *testing.T) {
	const n = 200
	c1 := gaussianComponent("A", n, 50, 5)
	c2 := gaussianComponent("B", n, 150, 8)

	measured := make([]float64, n)
	for i := range measured {
		measured[i] = 100*c1.Spectrum[i] + 40*c2.Spectrum[i]
	}
	s := piquant.NewSpectrum(measured, piquant.NewEnergyCalibration(0, 10))
	s.Components = []*piquant.SpectrumComponent{c1, c2}

	res, err := Fit(s, Options{})
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if len(res.Included) != 2 {
		t.Fatalf("len(Included) = %d, want 2", len(res.Included))
	}
	if math.Abs(c1.Coefficient-100) > 1 {
		t.Errorf("c1.Coefficient = %v, want ~100", c1.Coefficient)
	}
	if math.Abs(c2.Coefficient-40) > 1 {
		t.Errorf("c2.Coefficient = %v, want ~40", c2.Coefficient)
	}
}

func TestFitRejectsWithNoEligibleComponents(t *testing.T) {
	s := piquant.NewSpectrum(make([]float64, 50), piquant.NewEnergyCalibration(0, 10))
	c := piquant.NewSpectrumComponent(piquant.ComponentElement, "unfit")
	c.Fit = false
	c.Spectrum = make([]float64, 50)
	s.Components = []*piquant.SpectrumComponent{c}

	if _, err := Fit(s, Options{}); err == nil {
		t.Fatal("expected ErrFitSingular with no eligible components")
	}
}

func TestFitAdjustEnergyAddsShiftColumn(t *testing.T) {
	const n = 100
	c1 := gaussianComponent("A", n, 40, 4)
	measured := make([]float64, n)
	for i := range measured {
		measured[i] = 60 * c1.Spectrum[i]
	}
	s := piquant.NewSpectrum(measured, piquant.NewEnergyCalibration(0, 10))
	s.Components = []*piquant.SpectrumComponent{c1}

	res, err := Fit(s, Options{AdjustEnergy: true, MaxShiftChannels: 2})
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if math.Abs(res.EnergyShiftChannels) > 2 {
		t.Errorf("EnergyShiftChannels = %v, want within bound 2", res.EnergyShiftChannels)
	}
}
