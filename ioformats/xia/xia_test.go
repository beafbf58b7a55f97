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

package xia

import (
	"testing"

	"github.com/pixlise/piquant-go"
	"github.com/spf13/afero"
)

const sample = `File Version = 2
MCA Data = ProSpect
NUMBER MCA BINS = 5
INPUT COUNT RATE = 12000
OUTPUT COUNT RATE = 11500
REALTIME = 9.0
LIVETIME = 8.5
5
0
5
20
5
0
`

func TestReadParsesCountsAndTimes(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "x.mca", []byte(sample), 0644)

	cal := piquant.NewEnergyCalibration(0, 10)
	s, err := Read(fs, "x.mca", cal)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if s.NumChannels() != 5 {
		t.Fatalf("NumChannels = %d, want 5", s.NumChannels())
	}
	if s.Measured[2] != 20 {
		t.Errorf("channel 2 = %v, want 20", s.Measured[2])
	}
	if s.LiveTime != 8.5 {
		t.Errorf("LiveTime = %v, want 8.5", s.LiveTime)
	}
	if s.RealTime != 9.0 {
		t.Errorf("RealTime = %v, want 9.0", s.RealTime)
	}
}

func TestReadBinCountMismatchErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "bad.mca", []byte("NUMBER MCA BINS = 5\n3\n1\n2\n3\n"), 0644)
	cal := piquant.NewEnergyCalibration(0, 10)
	if _, err := Read(fs, "bad.mca", cal); err == nil {
		t.Fatal("expected error for bin-count mismatch")
	}
}
