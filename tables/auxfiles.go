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

package tables

import (
	"context"
	"encoding/csv"
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/ctessum/requestcache"
	"github.com/spf13/afero"
	"gonum.org/v1/gonum/interp"
)

// Curve is a tabulated, piecewise-linear function of photon energy (eV).
// It backs both optic transmission curves and externally tabulated tube
// spectra: the two auxiliary files a Conditions may reference instead of
// the analytic source/window models.
type Curve struct {
	fn     interp.PiecewiseLinear
	lo, hi float64
}

// Value interpolates the curve at energyEV, holding the end value flat
// outside the tabulated range rather than extrapolating a measured
// transmission or spectrum curve beyond where it was measured.
func (c *Curve) Value(energyEV float64) float64 {
	switch {
	case energyEV <= c.lo:
		energyEV = c.lo
	case energyEV >= c.hi:
		energyEV = c.hi
	}
	return c.fn.Predict(energyEV)
}

// AuxLoader loads and memoizes the two-column (energy_eV, value) CSV
// auxiliary tables a conditions config may reference, the way EIO.loadExcelFile
// memoizes parsed workbook files: one parse per distinct path, however many
// times the forward model asks for it.
type AuxLoader struct {
	Fs afero.Fs

	once  sync.Once
	cache *requestcache.Cache
}

func (a *AuxLoader) cacheOnce() *requestcache.Cache {
	a.once.Do(func() {
		a.cache = requestcache.NewCache(func(ctx context.Context, req interface{}) (interface{}, error) {
			return a.parse(req.(string))
		}, runtime.GOMAXPROCS(-1), requestcache.Memory(100))
	})
	return a.cache
}

// Load returns the parsed Curve for path, reading and caching it on first use.
func (a *AuxLoader) Load(path string) (*Curve, error) {
	r := a.cacheOnce().NewRequest(context.Background(), path, path)
	v, err := r.Result()
	if err != nil {
		return nil, err
	}
	return v.(*Curve), nil
}

func (a *AuxLoader) parse(path string) (*Curve, error) {
	f, err := a.Fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tables: opening auxiliary file %s: %v", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.Comment = '#'

	var xs, ys []float64
	for {
		rec, err := r.Read()
		if err != nil {
			break
		}
		if len(rec) < 2 {
			continue
		}
		x, err1 := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		y, err2 := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	if len(xs) == 0 {
		return nil, fmt.Errorf("tables: auxiliary file %s has no numeric rows", path)
	}

	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("tables: fitting curve for %s: %v", path, err)
	}
	return &Curve{fn: pl, lo: xs[0], hi: xs[len(xs)-1]}, nil
}
