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

// Package snip implements the two-zone Sensitive Non-linear Iterative
// Peak-stripping background estimator (spec §4.5), grounded on
// original_source/src/snip.cpp's window-halving schedule.
package snip

import "math"

// Zone describes one smoothing window applied over a channel range
// [Ch1, Ch2]. A second zone with an independent FWHM lets the caller
// smooth a high-energy region more aggressively than the primary zone.
type Zone struct {
	Ch1, Ch2 int
	FWHM     float64
}

// Params bundles the SNIP estimator's tunables (spec §4.5).
type Params struct {
	Primary    Zone
	Secondary  *Zone // optional second zone, nil to disable
	Iterations int   // default 24 if <= 0
}

// boxcarSmooth returns y boxcar-smoothed over [ch1,ch2] with half-width
// floor(fwhm/2), clamped at the array ends.
func boxcarSmooth(y []float64, ch1, ch2 int, fwhm float64) []float64 {
	halfWidth := int(math.Floor(fwhm / 2))
	out := append([]float64(nil), y...)
	if halfWidth <= 0 {
		return out
	}
	for i := ch1; i <= ch2 && i < len(y); i++ {
		lo := i - halfWidth
		hi := i + halfWidth
		if lo < 0 {
			lo = 0
		}
		if hi >= len(y) {
			hi = len(y) - 1
		}
		sum := 0.0
		n := 0
		for j := lo; j <= hi; j++ {
			sum += y[j]
			n++
		}
		if n > 0 {
			out[i] = sum / float64(n)
		}
	}
	return out
}

// Estimate runs the two-zone SNIP algorithm over y and returns the
// smooth continuum estimate, the same length as y. Channels outside
// params.Primary (and params.Secondary, if set) are left at y's boxcar-
// smoothed value and are not iteratively stripped.
func Estimate(y []float64, p Params) []float64 {
	n := len(y)
	ch1, ch2 := clampRange(p.Primary.Ch1, p.Primary.Ch2, n)
	fwhm := p.Primary.FWHM

	b := boxcarSmooth(y, ch1, ch2, fwhm)
	for i := ch1; i <= ch2 && i < n; i++ {
		b[i] = math.Sqrt(math.Max(b[i], 0))
	}

	iter := p.Iterations
	if iter <= 0 {
		iter = 24
	}

	var sch1, sch2 int
	var sfwhm float64
	hasSecondary := p.Secondary != nil
	if hasSecondary {
		sch1, sch2 = clampRange(p.Secondary.Ch1, p.Secondary.Ch2, n)
		sfwhm = p.Secondary.FWHM
	}

	for it := 1; it <= iter; it++ {
		w := windowForIteration(fwhm, it, iter)
		sw := w
		if hasSecondary {
			sw = windowForIteration(sfwhm, it, iter)
		}
		next := append([]float64(nil), b...)
		for i := ch1; i <= ch2 && i < n; i++ {
			width := w
			if hasSecondary && i >= sch1 && i <= sch2 {
				width = sw
			}
			wi := int(math.Round(width))
			if wi < 1 {
				wi = 1
			}
			lo, hi := i-wi, i+wi
			if lo < 0 {
				lo = 0
			}
			if hi >= n {
				hi = n - 1
			}
			avg := 0.5 * (b[lo] + b[hi])
			if avg < next[i] {
				next[i] = avg
			}
		}
		b = next
	}

	out := make([]float64, n)
	copy(out, y)
	for i := ch1; i <= ch2 && i < n; i++ {
		out[i] = b[i] * b[i]
	}
	return out
}

// windowForIteration returns the stripping half-width for pass `it` of
// `total`: the configured FWHM for all but the last 8 passes, halved by
// sqrt(2) each pass thereafter, per spec §4.5 step 3.
func windowForIteration(fwhm float64, it, total int) float64 {
	remaining := total - it
	if remaining >= 8 {
		return fwhm
	}
	halvings := 8 - remaining
	return fwhm / math.Pow(math.Sqrt2, float64(halvings))
}

func clampRange(ch1, ch2, n int) (int, int) {
	if ch1 < 0 {
		ch1 = 0
	}
	if ch2 >= n {
		ch2 = n - 1
	}
	if ch2 < ch1 {
		ch2 = ch1
	}
	return ch1, ch2
}

// EstimateLSQ runs Estimate and then rescales the result by
// alpha = sum(y*b) / sum(b^2), computed only over channels where
// |y-b| <= 3*sqrt(b) (spec §4.5 LSQ variant).
func EstimateLSQ(y []float64, p Params) []float64 {
	b := Estimate(y, p)
	num, den := 0.0, 0.0
	for i := range y {
		sb := math.Sqrt(math.Max(b[i], 0))
		if math.Abs(y[i]-b[i]) <= 3*sb {
			num += y[i] * b[i]
			den += b[i] * b[i]
		}
	}
	if den <= 0 {
		return b
	}
	alpha := num / den
	out := make([]float64, len(b))
	for i, v := range b {
		out[i] = alpha * v
	}
	return out
}
