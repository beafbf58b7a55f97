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

// Package piquant implements the PIXL Instrument Quantification (PIQUANT)
// fundamental-parameters fitting engine: a forward model that synthesizes
// a predicted X-ray fluorescence spectrum from a candidate specimen
// composition and instrument configuration, a linear least-squares fitter
// that adjusts the predicted spectrum's component amplitudes against a
// measured spectrum, and a composition-updating loop that converts fit
// amplitudes back to mass fractions and iterates to convergence.
//
// This package holds the core, instrument-independent data model
// (elements, materials, energy calibration, instrument conditions,
// spectra and their components, and standards). The algorithms that
// operate on this data model live in the science/... subpackages; file
// format readers live in ioformats/...; the bounded-concurrency map
// orchestrator lives in mapproc.
package piquant
