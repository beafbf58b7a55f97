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

// Standard is a known-composition reference specimen used by the
// calibrate/evaluate sub-commands (spec §3, §4.9).
type Standard struct {
	Names              []string
	Material           *Material
	SpectrumFile       string
	ElementList        []*Element
	Comments           []string
	PrecedingComments  []string
	Spectrum           *Spectrum
	UserWeights        map[int]float64 // Z -> weight, for weighted ECF means
	Carbonates         bool
	InputFractionsAreFormula bool
	Disable            bool
}

// Name returns the Standard's primary (first) name, or "" if unnamed.
func (s *Standard) Name() string {
	if len(s.Names) == 0 {
		return ""
	}
	return s.Names[0]
}

// HasName reports whether n matches any of the Standard's names.
func (s *Standard) HasName(n string) bool {
	for _, nm := range s.Names {
		if nm == n {
			return true
		}
	}
	return false
}

// Weight returns the user-supplied ECF weight for el, defaulting to 1.
func (s *Standard) Weight(el *Element) float64 {
	if s.UserWeights == nil {
		return 1
	}
	if w, ok := s.UserWeights[el.Z]; ok {
		return w
	}
	return 1
}
