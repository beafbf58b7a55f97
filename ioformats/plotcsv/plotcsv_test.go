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

package plotcsv

import (
	"strings"
	"testing"

	"github.com/pixlise/piquant-go"
	"github.com/spf13/afero"
)

func TestWriteProducesHeaderAndRows(t *testing.T) {
	cal := piquant.NewEnergyCalibration(0, 10)
	s := piquant.NewSpectrum([]float64{1, 2, 3}, cal)
	s.Calc = []float64{1, 2, 3}

	comp := piquant.NewSpectrumComponent(piquant.ComponentElement, "Si-Ka")
	comp.Enabled = true
	comp.Coefficient = 2
	comp.Spectrum = []float64{0.5, 1, 1.5}
	s.Components = []*piquant.SpectrumComponent{comp}

	fs := afero.NewMemMapFs()
	if err := Write(fs, "out.csv", s); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := afero.ReadFile(fs, "out.csv")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 5 {
		t.Fatalf("len(lines) = %d, want 5 (title + header + 3 rows)", len(lines))
	}
	if !strings.Contains(lines[1], "Si-Ka") {
		t.Errorf("header missing component label: %q", lines[1])
	}
}
