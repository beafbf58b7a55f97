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

package tables

import (
	"math"
	"testing"
)

func TestByZAndBySymbolAgree(t *testing.T) {
	fe, ok := ByZ(26)
	if !ok {
		t.Fatal("ByZ(26) not found")
	}
	if fe.Symbol != "Fe" {
		t.Errorf("ByZ(26).Symbol = %q, want Fe", fe.Symbol)
	}
	bySym, ok := BySymbol("Fe")
	if !ok {
		t.Fatal("BySymbol(Fe) not found")
	}
	if bySym != fe {
		t.Error("ByZ and BySymbol returned different pointers for the same element")
	}

	if _, ok := ByZ(999); ok {
		t.Error("ByZ(999) should not be found")
	}
	if _, ok := BySymbol("Xx"); ok {
		t.Error(`BySymbol("Xx") should not be found`)
	}
}

func TestEdgeEnergyMonotonicIncreasingWithZ(t *testing.T) {
	o, _ := ByZ(8)
	zr, _ := ByZ(40)
	if !(o.EdgeEnergy(K) < zr.EdgeEnergy(K)) {
		t.Errorf("K edge energy should increase with Z: O=%v, Zr=%v", o.EdgeEnergy(K), zr.EdgeEnergy(K))
	}
}

func TestEdgeEnergyZeroBelowShellExistence(t *testing.T) {
	o, _ := ByZ(8) // Z=8 has no resolvable L or M shell in this dataset
	if o.EdgeEnergy(L) != 0 {
		t.Errorf("O.EdgeEnergy(L) = %v, want 0", o.EdgeEnergy(L))
	}
	if o.EdgeEnergy(M) != 0 {
		t.Errorf("O.EdgeEnergy(M) = %v, want 0", o.EdgeEnergy(M))
	}
}

func TestLinesStrongestIsFirst(t *testing.T) {
	fe, _ := ByZ(26)
	lines := fe.Lines()
	if len(lines) == 0 {
		t.Fatal("Fe.Lines() is empty")
	}
	for _, ln := range lines[1:] {
		if ln.Weight > lines[0].Weight {
			t.Errorf("line %s has weight %v > lines[0] weight %v", ln.Name, ln.Weight, lines[0].Weight)
		}
	}
}

func TestFluorescenceYieldIncreasesWithZ(t *testing.T) {
	mg, _ := ByZ(12)
	fe, _ := ByZ(26)
	if !(mg.FluorescenceYield(K) < fe.FluorescenceYield(K)) {
		t.Errorf("K fluorescence yield should increase with Z: Mg=%v, Fe=%v", mg.FluorescenceYield(K), fe.FluorescenceYield(K))
	}
}

func TestTotalMassAttenuationFallsWithEnergy(t *testing.T) {
	fe, _ := ByZ(26)
	low := fe.TotalMassAttenuation(5000)
	high := fe.TotalMassAttenuation(20000)
	if !(high < low) {
		t.Errorf("total mass attenuation should fall with energy above the edge: mu(5keV)=%v, mu(20keV)=%v", low, high)
	}
}

func TestComptonShiftedEnergyNeverExceedsIncident(t *testing.T) {
	for _, theta := range []float64{0, math.Pi / 4, math.Pi / 2, math.Pi} {
		shifted := ComptonShiftedEnergy(10000, theta)
		if shifted > 10000+1e-9 {
			t.Errorf("ComptonShiftedEnergy(10000, %v) = %v, want <= 10000", theta, shifted)
		}
	}
	if ComptonShiftedEnergy(10000, 0) != 10000 {
		t.Errorf("ComptonShiftedEnergy at theta=0 should leave energy unchanged, got %v", ComptonShiftedEnergy(10000, 0))
	}
}
