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

package piquant

// Rebin conservatively redistributes yOld, given at the bin centers xOld,
// onto the bin centers xNew: each old bin's total is split across whichever
// new bins it overlaps, and any part of the old grid lying beyond xNew's
// outer edges is folded into the first or last new bin, so sum(yNew) ==
// sum(yOld). Both xOld and xNew must be strictly increasing with at
// least two points each, and yOld must have the same length as xOld.
//
// Bin edges are the midpoints between adjacent centers; the outermost edge
// on either side is extrapolated from its own adjacent interval's width
// rather than the next one in, fixing the high-bin-bound ambiguity a prior
// rebin utility carried until a 2019 correction.
func Rebin(xOld, yOld, xNew []float64) ([]float64, error) {
	n := len(xOld)
	if n < 2 {
		return nil, InvalidParameter("rebin", "xOld needs at least 2 points")
	}
	if len(yOld) != n {
		return nil, InvalidParameter("rebin", "yOld length must match xOld")
	}
	m := len(xNew)
	if m < 2 {
		return nil, InvalidParameter("rebin", "xNew needs at least 2 points")
	}

	oldEdges := binEdges(xOld)
	newEdges := binEdges(xNew)

	yNew := make([]float64, m)
	i := 0
	for k := 0; k < m; k++ {
		newLo, newHi := newEdges[k], newEdges[k+1]
		if k == 0 && oldEdges[0] < newLo {
			newLo = oldEdges[0]
		}
		if k == m-1 && oldEdges[n] > newHi {
			newHi = oldEdges[n]
		}
		for i < n && oldEdges[i+1] <= newLo {
			i++
		}
		for j := i; j < n && oldEdges[j] < newHi; j++ {
			width := oldEdges[j+1] - oldEdges[j]
			if width <= 0 {
				continue
			}
			if ov := overlap(oldEdges[j], oldEdges[j+1], newLo, newHi); ov > 0 {
				yNew[k] += yOld[j] * ov / width
			}
		}
	}
	return yNew, nil
}

// binEdges turns n bin centers into n+1 boundaries: interior edges sit
// halfway between adjacent centers, and each outer edge reuses the width of
// its own adjacent interval.
func binEdges(centers []float64) []float64 {
	n := len(centers)
	edges := make([]float64, n+1)
	edges[0] = centers[0] - (centers[1]-centers[0])/2
	for i := 1; i < n; i++ {
		edges[i] = (centers[i-1] + centers[i]) / 2
	}
	edges[n] = centers[n-1] + (centers[n-1]-centers[n-2])/2
	return edges
}

// overlap returns the length of the intersection of [aLo,aHi) and
// [bLo,bHi), or 0 if they don't overlap.
func overlap(aLo, aHi, bLo, bHi float64) float64 {
	lo := aLo
	if bLo > lo {
		lo = bLo
	}
	hi := aHi
	if bHi < hi {
		hi = bHi
	}
	if hi <= lo {
		return 0
	}
	return hi - lo
}
