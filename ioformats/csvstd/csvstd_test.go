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

package csvstd

import (
	"testing"

	"github.com/spf13/afero"
)

const sample = `STANDARD,BasaltGlass
COMMENT,USGS BHVO-2 reference glass
SPECTRUM,basalt.msa
DENSITY,2.9
Si,K,,Element,23.5,0.5,,1.0,,
Fe,K,,Element,8.1,0.3,,1.0,,
Ca,K,,Element,7.2,0.2,,1.0,,
STANDARD,Quartz
SPECTRUM,quartz.msa
Si,K,,Element,46.7,0.4,,1.0,,
`

func TestReadParsesStandardsTable(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "stds.csv", []byte(sample), 0644)

	stds, err := Read(fs, "stds.csv")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(stds) != 2 {
		t.Fatalf("len(stds) = %d, want 2", len(stds))
	}
	if stds[0].Name() != "BasaltGlass" {
		t.Errorf("Name = %q, want BasaltGlass", stds[0].Name())
	}
	if stds[0].SpectrumFile != "basalt.msa" {
		t.Errorf("SpectrumFile = %q, want basalt.msa", stds[0].SpectrumFile)
	}
	if len(stds[0].ElementList) != 3 {
		t.Errorf("len(ElementList) = %d, want 3", len(stds[0].ElementList))
	}
	if len(stds[0].Comments) != 1 {
		t.Errorf("len(Comments) = %d, want 1", len(stds[0].Comments))
	}
	if len(stds[1].ElementList) != 1 {
		t.Errorf("len(ElementList) = %d, want 1", len(stds[1].ElementList))
	}
}

func TestReadRejectsBadElementSymbol(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "bad.csv", []byte("STANDARD,X\nZz,K,,Element,1.0,,,1.0,,\n"), 0644)
	if _, err := Read(fs, "bad.csv"); err == nil {
		t.Fatal("expected error for unknown element symbol")
	}
}
