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

package ems

import (
	"testing"

	"github.com/spf13/afero"
)

func TestConvertProducesTwoLinesFromFourHistograms(t *testing.T) {
	fs := afero.NewMemMapFs()
	sdd := "1,2,3,4\n5,6,7,8\n9,10,11,12\n"
	if err := afero.WriteFile(fs, "sdd.csv", []byte(sdd), 0644); err != nil {
		t.Fatal(err)
	}
	if err := Convert(fs, "sdd.csv", "edr.csv"); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	data, err := afero.ReadFile(fs, "edr.csv")
	if err != nil {
		t.Fatal(err)
	}
	lines := splitLines(string(data))
	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(lines))
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, c := range s {
		if c == '\n' {
			if i > start {
				lines = append(lines, s[start:i])
			}
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

func TestCombinePairsRejectsOddCount(t *testing.T) {
	_, err := CombinePairs([][]float64{{1, 2}, {3, 4}, {5, 6}})
	if err == nil {
		t.Fatal("expected error for odd histogram count")
	}
}
