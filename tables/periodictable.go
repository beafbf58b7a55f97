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

// byZ is the process-wide, read-only element table, covering the
// elements PIXL routinely quantifies in Martian silicate, sulfate, and
// phosphate targets plus the Ca/Zr calibration-bead analytes used in
// spec §8 scenario 1. DefaultOxideRatio follows the common oxidation
// state per spec §4.2 (atoms of O per analyte atom); elements with Z<=10
// default to 0 since they are not normally expressed as oxides of
// themselves in these standards.
var byZ = map[int]*Element{
	1:  {Z: 1, Symbol: "H", Name: "Hydrogen", AtomicWeight: 1.008, Density: 0.00009},
	4:  {Z: 4, Symbol: "Be", Name: "Beryllium", AtomicWeight: 9.012, Density: 1.848},
	6:  {Z: 6, Symbol: "C", Name: "Carbon", AtomicWeight: 12.011, Density: 2.26},
	7:  {Z: 7, Symbol: "N", Name: "Nitrogen", AtomicWeight: 14.007, Density: 0.00125},
	8:  {Z: 8, Symbol: "O", Name: "Oxygen", AtomicWeight: 15.999, Density: 0.00143},
	9:  {Z: 9, Symbol: "F", Name: "Fluorine", AtomicWeight: 18.998, Density: 0.0017},
	11: {Z: 11, Symbol: "Na", Name: "Sodium", AtomicWeight: 22.990, Density: 0.971, DefaultOxideRatio: 0.5},
	12: {Z: 12, Symbol: "Mg", Name: "Magnesium", AtomicWeight: 24.305, Density: 1.738, DefaultOxideRatio: 1.0},
	13: {Z: 13, Symbol: "Al", Name: "Aluminum", AtomicWeight: 26.982, Density: 2.70, DefaultOxideRatio: 1.5},
	14: {Z: 14, Symbol: "Si", Name: "Silicon", AtomicWeight: 28.085, Density: 2.33, DefaultOxideRatio: 2.0},
	15: {Z: 15, Symbol: "P", Name: "Phosphorus", AtomicWeight: 30.974, Density: 1.823, DefaultOxideRatio: 2.5},
	16: {Z: 16, Symbol: "S", Name: "Sulfur", AtomicWeight: 32.06, Density: 2.07, DefaultOxideRatio: 3.0},
	17: {Z: 17, Symbol: "Cl", Name: "Chlorine", AtomicWeight: 35.45, Density: 0.0032, DefaultOxideRatio: 0.5},
	19: {Z: 19, Symbol: "K", Name: "Potassium", AtomicWeight: 39.098, Density: 0.862, DefaultOxideRatio: 0.5},
	20: {Z: 20, Symbol: "Ca", Name: "Calcium", AtomicWeight: 40.078, Density: 1.55, DefaultOxideRatio: 1.0, IsCarbonateFormer: true},
	22: {Z: 22, Symbol: "Ti", Name: "Titanium", AtomicWeight: 47.867, Density: 4.506, DefaultOxideRatio: 2.0},
	24: {Z: 24, Symbol: "Cr", Name: "Chromium", AtomicWeight: 51.996, Density: 7.19, DefaultOxideRatio: 1.5},
	25: {Z: 25, Symbol: "Mn", Name: "Manganese", AtomicWeight: 54.938, Density: 7.21, DefaultOxideRatio: 1.0},
	26: {Z: 26, Symbol: "Fe", Name: "Iron", AtomicWeight: 55.845, Density: 7.874, DefaultOxideRatio: 1.5, IsCarbonateFormer: true},
	27: {Z: 27, Symbol: "Co", Name: "Cobalt", AtomicWeight: 58.933, Density: 8.90, DefaultOxideRatio: 1.0},
	28: {Z: 28, Symbol: "Ni", Name: "Nickel", AtomicWeight: 58.693, Density: 8.908, DefaultOxideRatio: 1.0},
	29: {Z: 29, Symbol: "Cu", Name: "Copper", AtomicWeight: 63.546, Density: 8.96, DefaultOxideRatio: 1.0},
	30: {Z: 30, Symbol: "Zn", Name: "Zinc", AtomicWeight: 65.38, Density: 7.14, DefaultOxideRatio: 1.0},
	33: {Z: 33, Symbol: "As", Name: "Arsenic", AtomicWeight: 74.922, Density: 5.73, DefaultOxideRatio: 2.5},
	35: {Z: 35, Symbol: "Br", Name: "Bromine", AtomicWeight: 79.904, Density: 3.12, DefaultOxideRatio: 0.5},
	37: {Z: 37, Symbol: "Rb", Name: "Rubidium", AtomicWeight: 85.468, Density: 1.532, DefaultOxideRatio: 0.5},
	38: {Z: 38, Symbol: "Sr", Name: "Strontium", AtomicWeight: 87.62, Density: 2.64, DefaultOxideRatio: 1.0, IsCarbonateFormer: true},
	39: {Z: 39, Symbol: "Y", Name: "Yttrium", AtomicWeight: 88.906, Density: 4.47, DefaultOxideRatio: 1.5},
	40: {Z: 40, Symbol: "Zr", Name: "Zirconium", AtomicWeight: 91.224, Density: 6.52, DefaultOxideRatio: 2.0},
	56: {Z: 56, Symbol: "Ba", Name: "Barium", AtomicWeight: 137.327, Density: 3.51, DefaultOxideRatio: 1.0},
	82: {Z: 82, Symbol: "Pb", Name: "Lead", AtomicWeight: 207.2, Density: 11.34, DefaultOxideRatio: 1.0},
}

// ByZ looks up an element by atomic number. ok is false for any Z not in
// this dataset's subset.
func ByZ(z int) (*Element, bool) {
	e, ok := byZ[z]
	return e, ok
}

// BySymbol looks up an element by case-sensitive chemical symbol.
func BySymbol(sym string) (*Element, bool) {
	for _, e := range byZ {
		if e.Symbol == sym {
			return e, true
		}
	}
	return nil, false
}

// All returns every element in the dataset, ordered by increasing Z.
func All() []*Element {
	out := make([]*Element, 0, len(byZ))
	for _, e := range byZ {
		out = append(out, e)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].Z > out[j].Z; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// DefaultIronOxideRatio returns Fe's dataset DefaultOxideRatio. A run's
// Fe oxide-ratio override is not held here: per Design Note "Global
// mutable state", the
// original implementation held this as a process-wide static; PIQUANT
// instead threads it through piquant.Conditions.IronOxideRatio and never
// mutates this package-level table, which remains process-wide read-only
// as required by Design Note "Shared reference tables". This function
// exists only so callers can obtain the dataset default to seed that
// per-run field.
func DefaultIronOxideRatio() float64 {
	return byZ[26].DefaultOxideRatio
}
