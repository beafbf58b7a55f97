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

package piquantutil

import (
	"math"
	"testing"

	"github.com/pixlise/piquant-go"
	"github.com/pixlise/piquant-go/science/quantify"
	"github.com/pixlise/piquant-go/tables"
	"github.com/spf13/afero"
)

// gaussianPeak adds a Gaussian bump centered at (fractional) channel
// center into measured, used to synthesize a peak an energy_calibrate
// run can find.
func gaussianPeak(measured []float64, center, sigma, amplitude float64) {
	for i := range measured {
		d := float64(i) - center
		measured[i] += amplitude * math.Exp(-d*d/(2*sigma*sigma))
	}
}

func TestEnergyCalibrateRecoversSeedCalibration(t *testing.T) {
	ca, ok := piquant.ElementBySymbol("Ca")
	if !ok {
		t.Fatal("Ca not in element table")
	}
	zr, ok := piquant.ElementBySymbol("Zr")
	if !ok {
		t.Fatal("Zr not in element table")
	}

	seed := piquant.NewEnergyCalibration(0, 11.85)
	measured := make([]float64, 1400)
	for _, el := range []*piquant.Element{ca, zr} {
		lines := el.Lines()
		strongest := lines[0]
		for _, ln := range lines[1:] {
			if ln.Weight > strongest.Weight {
				strongest = ln
			}
		}
		gaussianPeak(measured, seed.Channel(strongest.EnergyEV), 3, 1000)
	}

	s := piquant.NewSpectrum(measured, seed)
	cal, err := EnergyCalibrate(s, []*piquant.Element{ca, zr})
	if err != nil {
		t.Fatalf("EnergyCalibrate: %v", err)
	}
	if math.Abs(cal.OffsetEV) > 10 {
		t.Errorf("OffsetEV = %v, want within +/-10 of 0", cal.OffsetEV)
	}
	if math.Abs(cal.EVPerChannel-11.85) > 0.5 {
		t.Errorf("EVPerChannel = %v, want within +/-0.5 of 11.85", cal.EVPerChannel)
	}
}

func TestEnergyCalibrateRejectsSingleElement(t *testing.T) {
	ca, _ := piquant.ElementBySymbol("Ca")
	s := piquant.NewSpectrum(make([]float64, 100), piquant.NewEnergyCalibration(0, 10))
	if _, err := EnergyCalibrate(s, []*piquant.Element{ca}); err == nil {
		t.Fatal("expected an error with fewer than two elements")
	}
}

func standardNamed(name string) *piquant.Standard {
	return &piquant.Standard{Names: []string{name}}
}

func TestStandardByIndexOrName(t *testing.T) {
	stds := []*piquant.Standard{standardNamed("BHVO-2"), standardNamed("BCR-2"), standardNamed("AGV-2")}

	if s, err := StandardByIndexOrName(stds, ""); err != nil || s != stds[0] {
		t.Fatalf("empty selector: got (%v, %v), want (stds[0], nil)", s, err)
	}
	if s, err := StandardByIndexOrName(stds, "1"); err != nil || s != stds[1] {
		t.Fatalf("index selector: got (%v, %v), want (stds[1], nil)", s, err)
	}
	if s, err := StandardByIndexOrName(stds, "BCR-2"); err != nil || s != stds[1] {
		t.Fatalf("name selector: got (%v, %v), want (stds[1], nil)", s, err)
	}
	if _, err := StandardByIndexOrName(stds, "nope"); err == nil {
		t.Fatal("expected error for an unknown standard name")
	}
	if _, err := StandardByIndexOrName(stds, "99"); err == nil {
		t.Fatal("expected error for an out-of-range index")
	}
}

func TestECFTableRoundTrips(t *testing.T) {
	fs := afero.NewMemMapFs()
	stats := []quantify.ElementECFStat{
		{Z: 14, Series: tables.K, WeightedMean: 123.4, WeightedStdDev: 1.2, N: 3},
		{Z: 26, Series: tables.K, WeightedMean: 987.6, WeightedStdDev: 4.5, N: 2},
	}
	if err := WriteECFTable(fs, "cal.csv", stats); err != nil {
		t.Fatalf("WriteECFTable: %v", err)
	}

	table, err := ReadECFTable(fs, "cal.csv")
	if err != nil {
		t.Fatalf("ReadECFTable: %v", err)
	}
	for _, st := range stats {
		v, ok := table.Lookup(st.Z, st.Series)
		if !ok {
			t.Errorf("Lookup(%d, %v) not found", st.Z, st.Series)
			continue
		}
		if v != st.WeightedMean {
			t.Errorf("Lookup(%d, %v) = %v, want %v", st.Z, st.Series, v, st.WeightedMean)
		}
	}
}

func TestReadECFTableRejectsEmptyFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "empty.csv", []byte(""), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadECFTable(fs, "empty.csv"); err == nil {
		t.Fatal("expected an error reading an empty calibration file")
	}
}
