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

package mapproc

import (
	"fmt"
	"testing"

	"github.com/pixlise/piquant-go"
	"github.com/pixlise/piquant-go/science/quantify"
	"github.com/spf13/afero"
)

type stubBuilder struct{}

func (stubBuilder) Build(m *piquant.Material, c piquant.Conditions, s *piquant.Spectrum) error {
	comp := piquant.NewSpectrumComponent(piquant.ComponentElement, "stub")
	comp.Fit = true
	comp.Enabled = true
	comp.Spectrum = make([]float64, s.NumChannels())
	for i := range comp.Spectrum {
		comp.Spectrum[i] = 1
	}
	s.Components = []*piquant.SpectrumComponent{comp}
	return nil
}

func fakeRead(input JobInput) (*piquant.Spectrum, error) {
	if input.SpectrumFile == "missing.msa" {
		return nil, fmt.Errorf("no such file")
	}
	cal := piquant.NewEnergyCalibration(0, 10)
	return piquant.NewSpectrum([]float64{1, 2, 3, 4}, cal), nil
}

func fakeSetup(input JobInput) (*piquant.Material, error) {
	return piquant.NewMaterial(), nil
}

func TestRunPreservesInputOrder(t *testing.T) {
	jobs := []JobInput{
		{SpectrumFile: "c.msa", SeqNumber: 2},
		{SpectrumFile: "a.msa", SeqNumber: 0},
		{SpectrumFile: "b.msa", SeqNumber: 1},
	}
	opt := Options{
		Workers:  2,
		Read:     fakeRead,
		Setup:    fakeSetup,
		Builder:  stubBuilder{},
		ECF:      quantify.NewECFTable(nil),
		Quantify: quantify.Options{},
	}
	results, err := Run(jobs, opt)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	want := []string{"c.msa", "a.msa", "b.msa"}
	for i, r := range results {
		if r == nil {
			t.Fatalf("result %d is nil", i)
		}
		if r.Input.SpectrumFile != want[i] {
			t.Errorf("result[%d].SpectrumFile = %q, want %q (input order)", i, r.Input.SpectrumFile, want[i])
		}
	}
}

func TestRunRecordsReadFailureAsJobError(t *testing.T) {
	jobs := []JobInput{{SpectrumFile: "missing.msa", SeqNumber: 0}}
	opt := Options{
		Workers: 1,
		Read:    fakeRead,
		Setup:   fakeSetup,
		Builder: stubBuilder{},
		ECF:     quantify.NewECFTable(nil),
	}
	results, err := Run(jobs, opt)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if results[0].Err == nil {
		t.Fatal("expected job error for unreadable spectrum file")
	}
	if results[0].State != Done {
		t.Errorf("State = %v, want Done", results[0].State)
	}
}

func TestWriteCSVWritesHeaderAndRows(t *testing.T) {
	jobs := []*Job{
		{Input: JobInput{SpectrumFile: "a.msa", SeqNumber: 0}, Row: map[string]float64{"Si": 0.5}},
		{Input: JobInput{SpectrumFile: "b.msa", SeqNumber: 1}, Err: fmt.Errorf("failed")},
	}
	fs := afero.NewMemMapFs()
	if err := WriteCSV(fs, "out.csv", jobs); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	data, err := afero.ReadFile(fs, "out.csv")
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty CSV output")
	}
}
