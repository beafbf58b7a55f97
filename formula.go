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

// FormulaKind tags a LightElementFormula's variant.
type FormulaKind int

const (
	// PureElement: the analyte contributes no coordinating light element.
	PureElement FormulaKind = iota
	// Oxide: the analyte is assumed present as an oxide; Ratio atoms of O
	// accompany each analyte atom (e.g. Na2O -> 0.5, Fe2O3 -> 1.5).
	Oxide
	// Carbonate: the analyte is assumed present as a carbonate; Ratio
	// atoms of C (each bringing 3 atoms of O) accompany each analyte atom
	// (e.g. CaCO3 -> 1).
	Carbonate
)

func (k FormulaKind) String() string {
	switch k {
	case PureElement:
		return "PureElement"
	case Oxide:
		return "Oxide"
	case Carbonate:
		return "Carbonate"
	default:
		return "?"
	}
}

// LightElementFormula is the tagged `{PureElement | Oxide{ratio} |
// Carbonate{ratio}}` variant of spec §3. Ratio is atoms of the
// coordinating element (O for Oxide, C for Carbonate) per atom of the
// analyte. InputIsFormula records whether a Material tuple's input
// fraction is to be interpreted as an element-mass-fraction or a
// formula-unit-mass-fraction.
type LightElementFormula struct {
	Kind            FormulaKind
	Ratio           float64
	InputIsFormula  bool
}

// NewPureElement builds a PureElement formula.
func NewPureElement() LightElementFormula {
	return LightElementFormula{Kind: PureElement}
}

// NewOxide builds an Oxide formula with the given O:analyte atom ratio.
func NewOxide(ratio float64) LightElementFormula {
	return LightElementFormula{Kind: Oxide, Ratio: ratio}
}

// NewCarbonate builds a Carbonate formula with the given C:analyte atom ratio.
func NewCarbonate(ratio float64) LightElementFormula {
	return LightElementFormula{Kind: Carbonate, Ratio: ratio}
}

// CoordinatingAtomsPerAnalyte returns the number of O atoms (for Oxide)
// or C atoms (for Carbonate) that accompany one atom of the analyte
// element under this formula. PureElement returns 0.
func (f LightElementFormula) CoordinatingAtomsPerAnalyte() float64 {
	switch f.Kind {
	case Oxide, Carbonate:
		return f.Ratio
	default:
		return 0
	}
}

// OxygenAtomsPerAnalyte returns the number of O atoms contributed per
// analyte atom: the formula's own ratio for Oxide, 3x the carbonate
// ratio for Carbonate (CO3 carries 3 oxygens per carbonate group), 0 for
// PureElement.
func (f LightElementFormula) OxygenAtomsPerAnalyte() float64 {
	switch f.Kind {
	case Oxide:
		return f.Ratio
	case Carbonate:
		return f.Ratio * 3
	default:
		return 0
	}
}

// massRatioToAnalyte returns (mass of coordinating element added per unit
// mass of analyte), given the analyte's atomic weight and the
// coordinating element's atomic weight (O for Oxide, C for Carbonate).
func (f LightElementFormula) massRatioToAnalyte(analyteWeight, coordinatingWeight float64) float64 {
	n := f.CoordinatingAtomsPerAnalyte()
	if n == 0 || analyteWeight <= 0 {
		return 0
	}
	return n * coordinatingWeight / analyteWeight
}

// OxygenMassRatio returns the mass of oxygen added per unit mass of
// analyte under this formula: OxygenAtomsPerAnalyte() atoms of O per
// analyte atom, converted through the atomic weights. Zero for
// PureElement.
func (f LightElementFormula) OxygenMassRatio(analyteWeight, oxygenWeight float64) float64 {
	n := f.OxygenAtomsPerAnalyte()
	if n == 0 || analyteWeight <= 0 {
		return 0
	}
	return n * oxygenWeight / analyteWeight
}

// CarbonMassRatio returns the mass of carbon added per unit mass of
// analyte under this formula: the Carbonate ratio's C atoms per analyte
// atom, converted through the atomic weights. Zero for PureElement and
// Oxide, which carry no carbon.
func (f LightElementFormula) CarbonMassRatio(analyteWeight, carbonWeight float64) float64 {
	if f.Kind != Carbonate {
		return 0
	}
	return f.massRatioToAnalyte(analyteWeight, carbonWeight)
}
