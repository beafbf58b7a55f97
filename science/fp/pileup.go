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

package fp

// selfConvolve computes the pulse-pileup shape (spec §4.4 "pulse pileup
// via self-convolution"): two photons arriving within the shaping time
// are recorded as one event at the sum of their energies, so the pileup
// spectrum is the autoconvolution of the calculated spectrum with
// itself, scaled by a small pileup fraction that grows with total count
// rate.
func selfConvolve(calc []float64, fraction float64) []float64 {
	n := len(calc)
	out := make([]float64, n)
	if fraction <= 0 || n == 0 {
		return out
	}
	total := 0.0
	for _, v := range calc {
		total += v
	}
	if total <= 0 {
		return out
	}
	// Normalize so the convolution's total area scales with fraction*total,
	// matching the original implementation's count-rate-dependent pileup
	// magnitude rather than growing with the square of raw counts.
	norm := fraction / total
	for i := 0; i < n; i++ {
		ci := calc[i]
		if ci == 0 {
			continue
		}
		for j := 0; j < n-i; j++ {
			cj := calc[j]
			if cj == 0 {
				continue
			}
			out[i+j] += ci * cj * norm
		}
	}
	return out
}
