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

package pixlise

import "testing"

func TestParseSelectorMultipleEntries(t *testing.T) {
	sel, err := ParseSelector("pmc1:101|Normal|A,202|Normal|B")
	if err != nil {
		t.Fatalf("ParseSelector: %v", err)
	}
	if len(sel) != 2 {
		t.Fatalf("len(sel) = %d, want 2", len(sel))
	}
	if sel[0].Tag != "pmc1" || sel[0].PMC != 101 || sel[0].ReadType != "Normal" || sel[0].Detector != "A" {
		t.Errorf("unexpected first selector: %+v", sel[0])
	}
	if sel[1].Tag != "" || sel[1].PMC != 202 || sel[1].Detector != "B" {
		t.Errorf("unexpected second selector: %+v", sel[1])
	}
}

func TestParseSelectorRejectsMalformed(t *testing.T) {
	if _, err := ParseSelector("not-a-selector"); err == nil {
		t.Fatal("expected error for malformed selector")
	}
}

func TestMarshalRoundTripsBytes(t *testing.T) {
	sel, err := ParseSelector("1|Normal|A")
	if err != nil {
		t.Fatalf("ParseSelector: %v", err)
	}
	out, err := Marshal(sel)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if len(out) != 1 || len(out[0]) == 0 {
		t.Errorf("expected non-empty encoded selector, got %v", out)
	}
}

func TestOpenReportsMissingAuxiliaryFile(t *testing.T) {
	sel, _ := ParseSelector("1|Normal|A")
	if _, err := Open("dataset.bin", sel[0]); err == nil {
		t.Fatal("expected error since dataset decoding is out of scope")
	}
}
