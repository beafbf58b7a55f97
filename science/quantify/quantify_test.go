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
	"testing"

	"github.com/pixlise/piquant-go/tables"
)

func TestECFTableInterpolatesWithinSeries(t *testing.T) {
	tbl := NewECFTable([]ECFEntry{
		{Z: 14, Series: tables.K, Value: 100},
		{Z: 20, Series: tables.K, Value: 160},
	})
	v, ok := tbl.Lookup(17, tables.K)
	if !ok {
		t.Fatal("expected interpolated entry")
	}
	if v < 120 || v > 140 {
		t.Errorf("interpolated ECF = %v, want ~130", v)
	}
}

func TestECFTableExtrapolatesFlatAtEdges(t *testing.T) {
	tbl := NewECFTable([]ECFEntry{
		{Z: 14, Series: tables.K, Value: 100},
		{Z: 20, Series: tables.K, Value: 160},
	})
	if v, ok := tbl.Lookup(5, tables.K); !ok || v != 100 {
		t.Errorf("below-range lookup = %v,%v want 100,true", v, ok)
	}
	if v, ok := tbl.Lookup(40, tables.K); !ok || v != 160 {
		t.Errorf("above-range lookup = %v,%v want 160,true", v, ok)
	}
	if _, ok := tbl.Lookup(14, tables.L); ok {
		t.Errorf("expected no entry for an unseen series")
	}
}
