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

import "sort"

// MaterialEntry is one (Element, input_fraction, formula, uncertainty)
// tuple of a Material (spec §3). Entries are keyed uniquely by the
// Element's Z; adding an entry for a Z already present replaces it.
type MaterialEntry struct {
	Element       *Element
	InputFraction float64
	Formula       LightElementFormula
	Uncertainty   float64
}

// Material is the semantic ordered set of element tuples described in
// spec §3, plus everything derived from them: normalized element
// fractions (with O/C added for oxide/carbonate formulas), density, mass
// thickness, and per-element cross-section access. Every mutator
// re-derives all of these in a single recalculate() pass, per the
// Material invariants.
type Material struct {
	entries []MaterialEntry

	fixedDensity *float64 // g/cm^3, user override
	thicknessCM  *float64 // nil => semi-infinite

	// ironOxideRatio overrides tables.DefaultIronOxideRatio for this
	// Material's ConvertToOxides call. Per Design Note "Global mutable
	// state", this replaces the original implementation's process-wide
	// static override; it is a field threaded through the call, never a
	// package-level mutable.
	ironOxideRatio *float64

	normalizeTarget float64

	// derived
	fractions   map[int]float64 // Z -> normalized mass fraction, includes added O/C
	elementList []*Element       // unique, sorted by Z
	density     float64
	hasO, hasC  bool
}

// NewMaterial returns an empty Material that normalizes to a fraction
// sum of 1.0 by default.
func NewMaterial() *Material {
	m := &Material{normalizeTarget: 1.0}
	m.recalculate()
	return m
}

// SetIronOxideRatio overrides the default Fe oxide ratio (Fe2O3 vs FeO)
// used by ConvertToOxides for this Material, per spec §4.2 "Iron's
// default may be overridden globally for the run".
func (m *Material) SetIronOxideRatio(ratio float64) {
	m.ironOxideRatio = &ratio
	m.recalculate()
}

// AddElement adds or replaces the tuple for el.
func (m *Material) AddElement(el *Element, fraction float64, formula LightElementFormula) error {
	if el == nil {
		return InvalidParameter("element", "nil")
	}
	if fraction < 0 {
		return InvalidParameter("fraction", "negative")
	}
	m.upsert(MaterialEntry{Element: el, InputFraction: fraction, Formula: formula})
	m.recalculate()
	return nil
}

// SetFraction updates the input fraction of an already-added element.
func (m *Material) SetFraction(el *Element, v float64) error {
	if v < 0 {
		return InvalidParameter("fraction", "negative")
	}
	i := m.indexOf(el)
	if i < 0 {
		return InvalidParameter("element", el.Symbol)
	}
	m.entries[i].InputFraction = v
	m.recalculate()
	return nil
}

// SetFormula updates the formula of an already-added element.
func (m *Material) SetFormula(el *Element, f LightElementFormula) error {
	i := m.indexOf(el)
	if i < 0 {
		return InvalidParameter("element", el.Symbol)
	}
	m.entries[i].Formula = f
	m.recalculate()
	return nil
}

// SetUncertainty updates the fractional uncertainty of an already-added element.
func (m *Material) SetUncertainty(el *Element, u float64) error {
	i := m.indexOf(el)
	if i < 0 {
		return InvalidParameter("element", el.Symbol)
	}
	m.entries[i].Uncertainty = u
	m.recalculate()
	return nil
}

// SetDensity fixes the Material's density (g/cm^3), overriding the
// volume-weighted theoretical density that would otherwise be derived.
func (m *Material) SetDensity(rho float64) {
	m.fixedDensity = &rho
	m.recalculate()
}

// SetThickness fixes the Material's thickness (cm). A Material with no
// thickness set is treated as semi-infinite by the forward model.
func (m *Material) SetThickness(cm float64) {
	m.thicknessCM = &cm
	m.recalculate()
}

// Normalize re-derives element fractions so they (plus any added O/C)
// sum to targetSum.
func (m *Material) Normalize(targetSum float64) {
	m.normalizeTarget = targetSum
	m.recalculate()
}

// ConvertToOxides replaces every currently-PureElement entry (other than
// O and C themselves) with an Oxide formula at the dataset default ratio
// (or the Material's IronOxideRatio override, for Fe). It is a no-op for
// entries already tagged Oxide or Carbonate, so calling it twice in a
// row is idempotent.
func (m *Material) ConvertToOxides() {
	for i := range m.entries {
		e := &m.entries[i]
		if e.Formula.Kind != PureElement {
			continue
		}
		if e.Element.Z == 8 || e.Element.Z == 6 {
			continue
		}
		ratio := e.Element.DefaultOxideRatio
		if e.Element.Z == 26 && m.ironOxideRatio != nil {
			ratio = *m.ironOxideRatio
		}
		if ratio <= 0 {
			continue
		}
		e.Formula = NewOxide(ratio)
	}
	m.recalculate()
}

// HasElement reports whether el already has an entry in this Material.
func (m *Material) HasElement(el *Element) bool {
	return m.indexOf(el) >= 0
}

// FormulaFor returns the currently-assigned formula for el and true, or
// the zero LightElementFormula and false if el has no entry.
func (m *Material) FormulaFor(el *Element) (LightElementFormula, bool) {
	i := m.indexOf(el)
	if i < 0 {
		return LightElementFormula{}, false
	}
	return m.entries[i].Formula, true
}

func (m *Material) indexOf(el *Element) int {
	for i, e := range m.entries {
		if SameElement(e.Element, el) {
			return i
		}
	}
	return -1
}

func (m *Material) upsert(entry MaterialEntry) {
	if i := m.indexOf(entry.Element); i >= 0 {
		m.entries[i] = entry
		return
	}
	m.entries = append(m.entries, entry)
}

// recalculate re-derives normalized fractions, density, mass thickness,
// and the element list in one pass, per the Material invariant that any
// mutation re-derives all of these together.
func (m *Material) recalculate() {
	o, _ := ElementByZ(8)
	c, _ := ElementByZ(6)

	raw := map[int]float64{}
	m.hasO, m.hasC = false, false

	for _, e := range m.entries {
		switch e.Formula.Kind {
		case Oxide:
			m.hasO = true
		case Carbonate:
			m.hasO, m.hasC = true, true
		}
	}

	for _, e := range m.entries {
		elementFraction := e.InputFraction
		if e.Formula.InputIsFormula {
			oRatio := e.Formula.OxygenMassRatio(e.Element.AtomicWeight, o.AtomicWeight)
			cRatio := 0.0
			if c != nil {
				cRatio = e.Formula.CarbonMassRatio(e.Element.AtomicWeight, c.AtomicWeight)
			}
			denom := 1 + oRatio + cRatio
			if denom > 0 {
				elementFraction = e.InputFraction / denom
			}
		}
		raw[e.Element.Z] += elementFraction

		if m.hasO {
			oRatio := e.Formula.OxygenMassRatio(e.Element.AtomicWeight, o.AtomicWeight)
			if oRatio > 0 {
				raw[o.Z] += elementFraction * oRatio
			}
		}
		if m.hasC && c != nil {
			cRatio := e.Formula.CarbonMassRatio(e.Element.AtomicWeight, c.AtomicWeight)
			if cRatio > 0 {
				raw[c.Z] += elementFraction * cRatio
			}
		}
	}

	sum := 0.0
	for _, v := range raw {
		sum += v
	}
	target := m.normalizeTarget
	if target == 0 {
		target = 1.0
	}
	fractions := map[int]float64{}
	if sum > 0 {
		scale := target / sum
		for z, v := range raw {
			fractions[z] = v * scale
		}
	}
	m.fractions = fractions

	list := make([]*Element, 0, len(fractions))
	for z := range fractions {
		el, ok := ElementByZ(z)
		if !ok {
			continue
		}
		list = append(list, el)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Z < list[j].Z })
	m.elementList = list

	if m.fixedDensity != nil {
		m.density = *m.fixedDensity
		return
	}
	invRho := 0.0
	for _, el := range list {
		f := fractions[el.Z]
		if el.Density > 0 {
			invRho += f / el.Density
		}
	}
	if invRho > 0 {
		m.density = 1.0 / invRho
	} else {
		m.density = 0
	}
}

// Elements returns the derived element list, uniquely keyed by Z and
// sorted by increasing Z.
func (m *Material) Elements() []*Element { return m.elementList }

// Fraction returns the normalized mass fraction of el alone, or 0 if el
// is not present; oxygen/carbon added on its behalf is counted under O's
// or C's own entry.
func (m *Material) Fraction(el *Element) float64 {
	if el == nil {
		return 0
	}
	return m.fractions[el.Z]
}

// Density returns the Material's density in g/cm^3: the user-fixed value
// if SetDensity was called, otherwise the volume-weighted theoretical
// density rho = 1 / sum(fraction_i / rho_i).
func (m *Material) Density() float64 { return m.density }

// MassThickness returns density*thickness (g/cm^2) and true if a
// thickness has been set; otherwise it returns (0, false), signaling a
// semi-infinite specimen.
func (m *Material) MassThickness() (float64, bool) {
	if m.thicknessCM == nil {
		return 0, false
	}
	return m.density * (*m.thicknessCM), true
}

// Thickness returns the set thickness in cm and true, or (0, false) if unset.
func (m *Material) Thickness() (float64, bool) {
	if m.thicknessCM == nil {
		return 0, false
	}
	return *m.thicknessCM, true
}

// TotalMassAttenuation returns the Material's total mass attenuation
// coefficient (cm^2/g) at the given photon energy, as the
// fraction-weighted sum over its derived element list.
func (m *Material) TotalMassAttenuation(energyEV float64) float64 {
	sum := 0.0
	for _, el := range m.elementList {
		sum += m.fractions[el.Z] * el.TotalMassAttenuation(energyEV)
	}
	return sum
}

// PhotoelectricMassAttenuation returns the Material's photoelectric mass
// attenuation coefficient (cm^2/g) at the given photon energy.
func (m *Material) PhotoelectricMassAttenuation(energyEV float64) float64 {
	sum := 0.0
	for _, el := range m.elementList {
		sum += m.fractions[el.Z] * el.PhotoelectricMassAttenuation(energyEV)
	}
	return sum
}

// CoherentMassAttenuation returns the Material's coherent (Rayleigh)
// scatter mass attenuation coefficient (cm^2/g).
func (m *Material) CoherentMassAttenuation(energyEV float64) float64 {
	sum := 0.0
	for _, el := range m.elementList {
		sum += m.fractions[el.Z] * el.CoherentMassAttenuation(energyEV)
	}
	return sum
}

// IncoherentMassAttenuation returns the Material's incoherent (Compton)
// scatter mass attenuation coefficient (cm^2/g).
func (m *Material) IncoherentMassAttenuation(energyEV float64) float64 {
	sum := 0.0
	for _, el := range m.elementList {
		sum += m.fractions[el.Z] * el.IncoherentMassAttenuation(energyEV)
	}
	return sum
}

// DoublyDifferentialCoherent returns the Material's coherent
// doubly-differential cross section (cm^2/g/sr) at the given energy and
// scattering angle.
func (m *Material) DoublyDifferentialCoherent(energyEV, thetaRadians float64) float64 {
	sum := 0.0
	for _, el := range m.elementList {
		sum += m.fractions[el.Z] * el.DoublyDifferentialCoherent(energyEV, thetaRadians) * electronsPerGramFactor(el)
	}
	return sum
}

// DoublyDifferentialIncoherent returns the Material's incoherent
// doubly-differential cross section (cm^2/g/sr) at the given energy and
// scattering angle.
func (m *Material) DoublyDifferentialIncoherent(energyEV, thetaRadians float64) float64 {
	sum := 0.0
	for _, el := range m.elementList {
		sum += m.fractions[el.Z] * el.DoublyDifferentialIncoherent(energyEV, thetaRadians)
	}
	return sum
}

// electronsPerGramFactor is a unit-neutral scaling factor (1.0): kept as
// a named hook so the coherent-scatter weighting is visually symmetric
// with the incoherent case above and easy to adjust per element if a
// future dataset revision adds atomic form factors.
func electronsPerGramFactor(el *Element) float64 { return 1.0 }
