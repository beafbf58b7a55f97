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

package mca

import (
	"testing"

	"github.com/spf13/afero"
)

const sample = `<<PMCA SPECTRUM>>
TAG - DP5
DESCRIPTION - test detector
LIVE_TIME - 10.0
REAL_TIME - 10.5
<<DATA>>
0
5
20
5
0
<<END>>
<<CALIBRATION>>
LABEL - Energy
0 0.000
1023 20.460
<<END>>
<<END>>
`

func TestReadParsesDataAndCalibration(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "spec.mca", []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := Read(fs, "spec.mca")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if s.NumChannels() != 5 {
		t.Fatalf("NumChannels = %d, want 5", s.NumChannels())
	}
	if s.Measured[2] != 20 {
		t.Errorf("channel 2 = %v, want 20", s.Measured[2])
	}
	if s.LiveTime != 10.0 {
		t.Errorf("LiveTime = %v, want 10.0", s.LiveTime)
	}
	if s.Calibration.EVPerChannel <= 0 {
		t.Errorf("expected a positive slope from calibration points, got %v", s.Calibration.EVPerChannel)
	}
}

func TestReadMissingDataErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "empty.mca", []byte("<<PMCA SPECTRUM>>\nTAG - x\n"), 0644)
	if _, err := Read(fs, "empty.mca"); err == nil {
		t.Fatal("expected error for file with no data section")
	}
}
