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

package fp

import (
	"testing"

	"github.com/pixlise/piquant-go"
)

func testConditions() piquant.Conditions {
	c, err := piquant.AssembleConditions(piquant.Params{
		AnodeZ:               45,
		KV:                   28,
		ExcitAngleDeg:        60,
		EmergAngleDeg:        60,
		EmissionCurrentUA:    10,
		DetectorResolutionEV: 150,
		DetectorType:         "SiSDD",
		Atmosphere:           "Vacuum",
	}, nil)
	if err != nil {
		panic(err)
	}
	return c
}

func testSiO2() *piquant.Material {
	m := piquant.NewMaterial()
	si, _ := piquant.ElementBySymbol("Si")
	o, _ := piquant.ElementBySymbol("O")
	m.AddElement(si, 1, piquant.NewOxide(2))
	m.AddElement(o, 0, piquant.LightElementFormula{})
	m.Normalize(1.0)
	return m
}

func TestBuildProducesSiComponent(t *testing.T) {
	cal := piquant.NewEnergyCalibration(-200, 10)
	s := piquant.NewSpectrum(make([]float64, 2048), cal)
	s.LiveTime = 10

	mo := &Model{}
	if err := mo.Build(testSiO2(), testConditions(), s); err != nil {
		t.Fatalf("Build: %v", err)
	}

	var si *piquant.SpectrumComponent
	for _, c := range s.Components {
		if c.Type == piquant.ComponentElement && c.Element != nil && c.Element.Symbol == "Si" {
			si = c
		}
	}
	if si == nil {
		t.Fatal("expected a Si element component")
	}
	if si.Sum() <= 0 {
		t.Errorf("Si component sum = %v, want > 0", si.Sum())
	}

	peakCh := -1
	peakVal := 0.0
	for i, v := range si.Spectrum {
		if v > peakVal {
			peakVal = v
			peakCh = i
		}
	}
	if peakCh < 0 {
		t.Fatal("no peak found in Si component")
	}
	e := cal.Energy(float64(peakCh))
	if e < 1500 || e > 2200 {
		t.Errorf("Si Ka peak at %v eV, want near 1740 eV", e)
	}
}

func TestBuildRejectsBadCalibration(t *testing.T) {
	cal := piquant.EnergyCalibration{}
	s := piquant.NewSpectrum(make([]float64, 16), cal)
	mo := &Model{}
	err := mo.Build(piquant.NewMaterial(), testConditions(), s)
	if err == nil {
		t.Fatal("expected error for bad calibration")
	}
}

func TestSelfConvolveZeroFractionIsZero(t *testing.T) {
	calc := []float64{1, 2, 3, 4}
	out := selfConvolve(calc, 0)
	for _, v := range out {
		if v != 0 {
			t.Fatalf("expected all-zero pileup at fraction 0, got %v", out)
		}
	}
}
