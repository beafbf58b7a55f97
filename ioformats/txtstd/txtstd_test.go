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

package txtstd

import (
	"testing"

	"github.com/spf13/afero"
)

const sample = `Si Fe Ca
basalt.msa
3
Si 23.5
Fe 8.1
Ca 7.2
quartz.msa
1
Si 46.7
`

func TestReadParsesBlocks(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "stds.txt", []byte(sample), 0644)

	stds, err := Read(fs, "stds.txt")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(stds) != 2 {
		t.Fatalf("len(stds) = %d, want 2", len(stds))
	}
	if stds[0].SpectrumFile != "basalt.msa" {
		t.Errorf("SpectrumFile = %q, want basalt.msa", stds[0].SpectrumFile)
	}
	if len(stds[0].ElementList) != 3 {
		t.Errorf("len(ElementList) = %d, want 3", len(stds[0].ElementList))
	}
	if len(stds[1].ElementList) != 1 {
		t.Errorf("len(ElementList) = %d, want 1", len(stds[1].ElementList))
	}
}

func TestReadMissingCountLineErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "bad.txt", []byte("Si\nbasalt.msa\n"), 0644)
	if _, err := Read(fs, "bad.txt"); err == nil {
		t.Fatal("expected error for missing element count line")
	}
}
