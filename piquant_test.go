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

import (
	"math"
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func TestMaterialNormalizesPureElementsToOne(t *testing.T) {
	si, _ := ElementByZ(14)
	fe, _ := ElementByZ(26)

	m := NewMaterial()
	if err := m.AddElement(si, 30, NewPureElement()); err != nil {
		t.Fatalf("AddElement(Si): %v", err)
	}
	if err := m.AddElement(fe, 70, NewPureElement()); err != nil {
		t.Fatalf("AddElement(Fe): %v", err)
	}
	sum := m.Fraction(si) + m.Fraction(fe)
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("sum of fractions = %v, want 1.0", sum)
	}
	if math.Abs(m.Fraction(si)-0.3) > 1e-9 {
		t.Errorf("Fraction(Si) = %v, want 0.3", m.Fraction(si))
	}
}

func TestMaterialConvertToOxidesAddsOxygen(t *testing.T) {
	si, _ := ElementByZ(14)
	o, _ := ElementByZ(8)

	m := NewMaterial()
	if err := m.AddElement(si, 1, NewPureElement()); err != nil {
		t.Fatalf("AddElement: %v", err)
	}
	m.ConvertToOxides()
	if m.Fraction(o) <= 0 {
		t.Error("ConvertToOxides should add a nonzero oxygen fraction")
	}
	if math.Abs(m.Fraction(si)+m.Fraction(o)-1.0) > 1e-9 {
		t.Errorf("Si+O fractions = %v, want 1.0", m.Fraction(si)+m.Fraction(o))
	}

	f, ok := m.FormulaFor(si)
	if !ok || f.Kind != Oxide {
		t.Errorf("FormulaFor(Si) = %v, ok=%v, want Oxide", f, ok)
	}
}

func TestMaterialConvertToOxidesIsIdempotent(t *testing.T) {
	si, _ := ElementByZ(14)
	m := NewMaterial()
	m.AddElement(si, 1, NewPureElement())
	m.ConvertToOxides()
	first := m.Fraction(si)
	firstEntries := append([]MaterialEntry(nil), m.entries...)
	m.ConvertToOxides()
	if m.Fraction(si) != first {
		t.Errorf("second ConvertToOxides changed Si fraction from %v to %v", first, m.Fraction(si))
	}
	if !reflect.DeepEqual(firstEntries, m.entries) {
		t.Errorf("second ConvertToOxides changed the entry set:\nbefore: %s\nafter:  %s",
			spew.Sdump(firstEntries), spew.Sdump(m.entries))
	}
}

func TestMaterialRejectsNegativeFraction(t *testing.T) {
	si, _ := ElementByZ(14)
	m := NewMaterial()
	if err := m.AddElement(si, -1, NewPureElement()); err == nil {
		t.Fatal("expected an error for a negative fraction")
	}
}

func TestMaterialDensityIsVolumeWeighted(t *testing.T) {
	si, _ := ElementByZ(14) // density 2.33
	fe, _ := ElementByZ(26) // density 7.874

	m := NewMaterial()
	m.AddElement(si, 100, NewPureElement())
	rho := m.Density()
	if math.Abs(rho-si.Density) > 1e-6 {
		t.Errorf("pure-Si density = %v, want %v", rho, si.Density)
	}

	m.SetDensity(5.0)
	if m.Density() != 5.0 {
		t.Errorf("SetDensity override = %v, want 5.0", m.Density())
	}
	_ = fe
}

func TestEnergyCalibrationRoundTrips(t *testing.T) {
	c := NewEnergyCalibration(10, 12.5)
	for _, ch := range []float64{0, 1, 100, 999.5} {
		e := c.Energy(ch)
		back := c.Channel(e)
		if math.Abs(back-ch) > 1e-6 {
			t.Errorf("Channel(Energy(%v)) = %v, want %v", ch, back, ch)
		}
	}
}

func TestEnergyCalibrationGood(t *testing.T) {
	cases := []struct {
		cal  EnergyCalibration
		want bool
	}{
		{NewEnergyCalibration(0, 10), true},
		{NewEnergyCalibration(0, 0), false},
		{NewEnergyCalibration(0, -5), false},
		{NewEnergyCalibration(0, math.NaN()), false},
		{NewEnergyCalibration(0, math.Inf(1)), false},
	}
	for _, c := range cases {
		if got := c.cal.Good(); got != c.want {
			t.Errorf("Good(%+v) = %v, want %v", c.cal, got, c.want)
		}
	}
}

func TestStandardNameAndWeight(t *testing.T) {
	fe, _ := ElementByZ(26)
	s := &Standard{Names: []string{"BHVO-2", "Hawaiian basalt"}}
	if s.Name() != "BHVO-2" {
		t.Errorf("Name() = %q, want BHVO-2", s.Name())
	}
	if !s.HasName("Hawaiian basalt") {
		t.Error("HasName should match a non-primary name")
	}
	if s.Weight(fe) != 1 {
		t.Errorf("Weight with no UserWeights = %v, want 1", s.Weight(fe))
	}
	s.UserWeights = map[int]float64{fe.Z: 2.5}
	if s.Weight(fe) != 2.5 {
		t.Errorf("Weight with UserWeights[Fe]=2.5 = %v, want 2.5", s.Weight(fe))
	}
}

func TestCombineDetectorsSumsMeasuredAndTimes(t *testing.T) {
	cal := NewEnergyCalibration(0, 10)
	a := NewSpectrum([]float64{1, 2, 3}, cal)
	a.LiveTime, a.RealTime = 5, 6
	b := NewSpectrum([]float64{10, 20, 30}, cal)
	b.LiveTime, b.RealTime = 7, 8

	combined, err := CombineDetectors([]*Spectrum{a, b})
	if err != nil {
		t.Fatalf("CombineDetectors: %v", err)
	}
	want := []float64{11, 22, 33}
	for i, v := range want {
		if combined.Measured[i] != v {
			t.Errorf("Measured[%d] = %v, want %v", i, combined.Measured[i], v)
		}
	}
	if combined.LiveTime != 12 || combined.RealTime != 14 {
		t.Errorf("LiveTime/RealTime = %v/%v, want 12/14", combined.LiveTime, combined.RealTime)
	}
}

func TestCombineDetectorsRejectsMismatchedLengths(t *testing.T) {
	cal := NewEnergyCalibration(0, 10)
	a := NewSpectrum([]float64{1, 2, 3}, cal)
	b := NewSpectrum([]float64{1, 2}, cal)
	if _, err := CombineDetectors([]*Spectrum{a, b}); err == nil {
		t.Fatal("expected an error for mismatched channel counts")
	}
}

func TestCombineDetectorsRebinsDifferingCalibrations(t *testing.T) {
	calA := NewEnergyCalibration(0, 10)
	calB := NewEnergyCalibration(5, 10)
	a := NewSpectrum([]float64{10, 20, 30}, calA)
	b := NewSpectrum([]float64{10, 20, 30}, calB)

	combined, err := CombineDetectors([]*Spectrum{a, b})
	if err != nil {
		t.Fatalf("CombineDetectors: %v", err)
	}
	wantTotal := 60.0 + 60.0
	gotTotal := 0.0
	for _, v := range combined.Measured {
		gotTotal += v
	}
	if math.Abs(gotTotal-wantTotal) > 1e-9 {
		t.Errorf("combined total = %v, want %v", gotTotal, wantTotal)
	}
	if combined.Measured[0] <= a.Measured[0] {
		t.Errorf("Measured[0] = %v, want more than detector a's own %v once b's rebinned contribution is added", combined.Measured[0], a.Measured[0])
	}
}

func TestRebinOntoIdenticalGridIsExact(t *testing.T) {
	x := []float64{0, 10, 20, 30}
	y := []float64{1, 2, 3, 4}
	got, err := Rebin(x, y, x)
	if err != nil {
		t.Fatalf("Rebin: %v", err)
	}
	for i, v := range y {
		if math.Abs(got[i]-v) > 1e-9 {
			t.Errorf("got[%d] = %v, want %v", i, got[i], v)
		}
	}
}

func TestRebinConservesTotal(t *testing.T) {
	xOld := []float64{0, 10, 20}
	yOld := []float64{10, 20, 30}
	xNew := []float64{0, 5, 10, 15, 20}
	got, err := Rebin(xOld, yOld, xNew)
	if err != nil {
		t.Fatalf("Rebin: %v", err)
	}
	var oldTotal, newTotal float64
	for _, v := range yOld {
		oldTotal += v
	}
	for _, v := range got {
		newTotal += v
	}
	if math.Abs(oldTotal-newTotal) > 1e-9 {
		t.Errorf("total = %v, want %v", newTotal, oldTotal)
	}
}

func TestRebinRejectsShortInput(t *testing.T) {
	if _, err := Rebin([]float64{0}, []float64{1}, []float64{0, 1}); err == nil {
		t.Fatal("expected an error for xOld with fewer than 2 points")
	}
	if _, err := Rebin([]float64{0, 1}, []float64{1, 2}, []float64{0}); err == nil {
		t.Fatal("expected an error for xNew with fewer than 2 points")
	}
}

func TestParseElementListRejectsUnknownSymbol(t *testing.T) {
	if _, err := ParseElementList([]string{"Si", "Qq"}); err == nil {
		t.Fatal("expected an error for an unknown element symbol")
	}
}

func TestParseElementListRejectsEmpty(t *testing.T) {
	if _, err := ParseElementList(nil); err == nil {
		t.Fatal("expected an error for an empty element list")
	}
}
