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

import "github.com/pixlise/piquant-go/tables"

// Element is an immutable reference record keyed by atomic number.
// Equality between two Elements is by Z alone (spec §3 Element). The
// type is the process-wide reference record from package tables;
// Material never copies the per-element cross-section tables it points
// to, only the (fraction, formula, uncertainty) tuple associated with
// it.
type Element = tables.Element

// ElementByZ looks up the shared reference Element for atomic number z.
func ElementByZ(z int) (*Element, bool) { return tables.ByZ(z) }

// ElementBySymbol looks up the shared reference Element by chemical symbol.
func ElementBySymbol(sym string) (*Element, bool) { return tables.BySymbol(sym) }

// SameElement reports whether a and b refer to the same atomic number,
// which is the only equality PIQUANT ever uses for elements.
func SameElement(a, b *Element) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Z == b.Z
}

// ParseElementList resolves an already-split list of element symbols
// (the `element-list` positional file's in-memory form, spec §6) into
// shared reference Elements, preserving input order and rejecting
// unknown symbols and an empty list.
func ParseElementList(symbols []string) ([]*Element, error) {
	if len(symbols) == 0 {
		return nil, &Error{Kind: ErrEmptyElementList}
	}
	out := make([]*Element, 0, len(symbols))
	for _, s := range symbols {
		el, ok := ElementBySymbol(s)
		if !ok {
			return nil, InvalidParameter("element", s)
		}
		out = append(out, el)
	}
	return out, nil
}
