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

package xsp

import (
	"testing"

	"github.com/spf13/afero"
)

const sample = "#OFFSET : 0.000\r\n#XPERCHAN : 0.010\r\n#LIVETIME : 10.0\r\n#WINDOW : 8\r\n#SPECTRUM :\r\n0\r\n5\r\n20\r\n5\r\n0\r\n#ENDOFDATA :\r\n"

func TestReadParsesHeaderAndData(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "s.xsp", []byte(sample), 0644)

	s, err := Read(fs, "s.xsp")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if s.NumChannels() != 5 {
		t.Fatalf("NumChannels = %d, want 5", s.NumChannels())
	}
	if s.Measured[2] != 20 {
		t.Errorf("channel 2 = %v, want 20", s.Measured[2])
	}
	if s.Calibration.EVPerChannel != 10 {
		t.Errorf("EVPerChannel = %v, want 10", s.Calibration.EVPerChannel)
	}
	if s.LiveTime != 10.0 {
		t.Errorf("LiveTime = %v, want 10.0", s.LiveTime)
	}
	if s.HeaderInfo["WINDOW_CM"] == "" {
		t.Errorf("expected WINDOW_CM to be derived from WINDOW header")
	}
}

func TestReadMissingDataErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "bad.xsp", []byte("#OFFSET : 0\r\n"), 0644)
	if _, err := Read(fs, "bad.xsp"); err == nil {
		t.Fatal("expected error for missing spectrum block")
	}
}
