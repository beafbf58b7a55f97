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

package msa

import (
	"testing"

	"github.com/pixlise/piquant-go"
	"github.com/spf13/afero"
)

func TestReadParsesHeaderAndCounts(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := `#FORMAT      : EMSA/MAS Spectral Data File
#VERSION     : 1.0
#OFFSET      : 0.0
#XPERCHAN    : 0.01
#NPOINTS     : 3
#LIVETIME    : 10.5
#REALTIME    : 11.0
#SPECTRUM    :
1
5
2
#ENDOFDATA   :
`
	if err := afero.WriteFile(fs, "test.msa", []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Read(fs, "test.msa", piquant.NewEnergyCalibration(0, 10))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if s.NumChannels() != 3 {
		t.Fatalf("NumChannels() = %d, want 3", s.NumChannels())
	}
	if s.Measured[1] != 5 {
		t.Errorf("Measured[1] = %v, want 5", s.Measured[1])
	}
	if s.LiveTime != 10.5 {
		t.Errorf("LiveTime = %v, want 10.5", s.LiveTime)
	}
	if s.Calibration.EVPerChannel != 10 {
		t.Errorf("EVPerChannel = %v, want 10 (0.01 keV/ch * 1000)", s.Calibration.EVPerChannel)
	}
}

func TestWriteThenReadRoundTrips(t *testing.T) {
	fs := afero.NewMemMapFs()
	orig := piquant.NewSpectrum([]float64{3, 7, 2, 9}, piquant.NewEnergyCalibration(5, 12))
	orig.LiveTime = 20
	orig.RealTime = 22

	if err := Write(fs, "out.msa", orig); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read(fs, "out.msa", piquant.EnergyCalibration{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.NumChannels() != 4 {
		t.Fatalf("NumChannels() = %d, want 4", got.NumChannels())
	}
	for i, v := range orig.Measured {
		if got.Measured[i] != v {
			t.Errorf("Measured[%d] = %v, want %v", i, got.Measured[i], v)
		}
	}
}

func TestReadRejectsMissingSpectrumBlock(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "bad.msa", []byte("#FORMAT : x\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(fs, "bad.msa", piquant.NewEnergyCalibration(0, 10)); err == nil {
		t.Fatal("expected error for file with no #SPECTRUM block")
	}
}
