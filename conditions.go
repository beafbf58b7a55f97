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

import (
	"math"

	"github.com/ctessum/unit"
	"github.com/pixlise/piquant-go/tables"
)

// Atmosphere identifies the gas path the beam travels through.
type Atmosphere int

const (
	Vacuum Atmosphere = iota
	Helium
	Mars
	HeMars
	Air
)

func ParseAtmosphere(s string) (Atmosphere, error) {
	switch s {
	case "Vacuum":
		return Vacuum, nil
	case "Helium":
		return Helium, nil
	case "Mars":
		return Mars, nil
	case "HeMars":
		return HeMars, nil
	case "Air":
		return Air, nil
	default:
		return 0, InvalidParameter("atmosphere", s)
	}
}

// DetectorType identifies the detector technology, which governs escape
// peak energies and the front-contact shelf model (spec §4.4).
type DetectorType int

const (
	SiPIN DetectorType = iota
	SiSDD
	CdTe
	HPGe
)

func ParseDetectorType(s string) (DetectorType, error) {
	switch s {
	case "SiPIN":
		return SiPIN, nil
	case "SiSDD":
		return SiSDD, nil
	case "CdTe":
		return CdTe, nil
	case "HPGe":
		return HPGe, nil
	default:
		return 0, InvalidParameter("detectorType", s)
	}
}

// Source describes the X-ray tube or synchrotron that illuminates the specimen.
type Source struct {
	AnodeZ         int
	KV             float64
	IncidenceAngleDeg float64
	BeWindowUM     float64
	EmissionCurrentMA float64
	TubeFileTitle  string
	TubeSpectrumFile string // external tabulated source spectrum, optional
	TubeCurve        *tables.Curve // loaded form of TubeSpectrumFile, nil if not set
}

// Filter describes an optional attenuating foil between source and specimen.
type Filter struct {
	Z         int
	ThicknessUM float64
}

// Optic describes the X-ray optic (if any) focusing the beam, and its transmission curve.
type Optic struct {
	TransmissionFile string // optional external optic transmission table
	DustOn           bool
	Curve            *tables.Curve // loaded form of TransmissionFile, nil if not set
}

// Transmission returns the optic's fractional transmission at energyEV:
// 1.0 (no attenuation) if no transmission curve was loaded, the tabulated
// value otherwise (spec §4.4's T_optic factor).
func (o Optic) Transmission(energyEV float64) float64 {
	if o.Curve == nil {
		return 1.0
	}
	return o.Curve.Value(energyEV)
}

// Window describes the specimen (or detector) window material.
type Window struct {
	Kind        string
	ThicknessUM float64
}

// Detector describes the energy-dispersive detector and its response model parameters.
type Detector struct {
	Type               DetectorType
	ResolutionEV       float64 // at ReferenceEnergyEV
	ReferenceEnergyEV  float64
	BeWindowUM         float64
	ActiveLayerUM      float64
	ShelfFactor        float64
	ShelfSlope         float64
	ShelfSlopeStartEV  float64
	ComptonEscapeOn    bool
	FrontContactShelfOn bool
	FrontContactUM     float64
}

// Conditions is the immutable aggregate describing one instrument
// configuration, assembled once per analysis (spec §3).
type Conditions struct {
	Source Source
	Filter Filter
	Optic  Optic

	DustOnOptic bool

	IncidentPathCM float64
	SolidAngleSourceFractional float64

	ExcitAngleDeg float64
	ExcitCosecant float64

	GeometryFactor float64

	Atmosphere Atmosphere

	DustOnSpecimen bool

	Window Window

	EmergAngleDeg float64
	EmergCosecant float64

	EmergentPathCM float64

	DustOnDetector bool

	SolidAngleDetectorFractional float64

	Detector Detector

	EMinEV float64

	TubeFileTitle string

	// IronOxideRatio carries the run-wide Fe oxide-ratio override (spec
	// §4.2), threaded explicitly per Design Note "Global mutable state"
	// rather than held as package-level mutable state.
	IronOxideRatio *float64

	LinearCorrectionSlope  float64
	LinearCorrectionOffset float64
}

// Params is the numeric vector, indexed by well-known keys, that
// AssembleConditions consumes (spec §4.3). Angles are in degrees,
// lengths in micrometers unless noted, current in microamps, solid
// angles in steradians.
type Params struct {
	AnodeZ                int
	KV                    float64
	IncidenceAngleDeg     float64
	TakeoffAngleDeg        float64
	TubeBeWindowUM        float64
	EmissionCurrentUA     float64
	FilterZ               int
	FilterThicknessUM     float64
	ExcitAngleDeg         float64
	EmergAngleDeg         float64
	SolidAngleSourceSR    float64
	SolidAngleDetectorSR  float64
	Geometry              float64
	Atmosphere            string
	IncidentPathCM        float64
	EmergentPathCM        float64
	WindowKind            string
	WindowThicknessUM     float64
	DetectorType          string
	DetectorResolutionEV  float64
	DetectorReferenceEnergyEV float64
	DetectorBeWindowUM    float64
	DetectorActiveLayerUM float64
	EMinEV                float64
	LinearCorrectionSlope float64
	LinearCorrectionOffset float64
	DetectorShelfFactor   float64
	DetectorShelfSlope    float64
	DetectorShelfSlopeStartEV float64
	OpticTransmissionFile string
	TubeSpectrumFile      string
	TubeFileTitle         string
	DustOnOptic           bool
	DustOnSpecimen        bool
	DustOnDetector        bool
	ComptonEscapeOn       bool
	FrontContactShelfOn   bool
	FrontContactUM        float64
}

func micronsToCM(microns float64) float64 {
	u := unit.New(microns*1e-6, unit.Meter)
	return u.Value() * 100
}

func srToFractional(sr float64) float64 {
	// Solid angle as seen is already dimensionless (steradians are
	// dimensionless in SI); this conversion exists to give the assembly
	// step one place where the raw configured value is normalized
	// against the full sphere (4*pi sr) into the [0,1] fractional form
	// the forward model multiplies intensities by.
	return sr / (4 * math.Pi)
}

func uaToMA(ua float64) float64 {
	u := unit.New(ua*1e-6, unit.Ampere)
	return u.Value() * 1000
}

// AssembleConditions validates p and builds an immutable Conditions,
// applying the sr->fractional and uA->mA unit conversions. Lengths are
// not converted here: they stay in micrometers in the *UM fields, and the
// forward model converts them to cm where it uses them. It fails with InvalidParameter for any out-of-range or
// unrecognized value and with MissingAuxiliaryFile if an optic or tube
// file path is set but the auxiliary loader can't resolve it (callers
// supply that check via auxFileExists, since file I/O is an external
// collaborator per spec §1).
func AssembleConditions(p Params, auxFileExists func(path string) bool) (Conditions, error) {
	var c Conditions

	if p.ExcitAngleDeg <= 0 || p.ExcitAngleDeg > 90 {
		return c, InvalidParameter("excitAngle", ftoa(p.ExcitAngleDeg))
	}
	if p.EmergAngleDeg <= 0 || p.EmergAngleDeg > 90 {
		return c, InvalidParameter("emergAngle", ftoa(p.EmergAngleDeg))
	}
	if p.FilterThicknessUM < 0 {
		return c, InvalidParameter("filterThickness", ftoa(p.FilterThicknessUM))
	}
	if p.WindowThicknessUM < 0 {
		return c, InvalidParameter("windowThickness", ftoa(p.WindowThicknessUM))
	}
	if p.TubeBeWindowUM < 0 || p.DetectorBeWindowUM < 0 {
		return c, InvalidParameter("beWindow", "negative")
	}

	atm, err := ParseAtmosphere(nonEmpty(p.Atmosphere, "Vacuum"))
	if err != nil {
		return c, err
	}
	dt, err := ParseDetectorType(nonEmpty(p.DetectorType, "SiPIN"))
	if err != nil {
		return c, err
	}

	if p.OpticTransmissionFile != "" && auxFileExists != nil && !auxFileExists(p.OpticTransmissionFile) {
		return c, MissingAuxiliaryFile("optic", p.OpticTransmissionFile)
	}
	if p.TubeSpectrumFile != "" && auxFileExists != nil && !auxFileExists(p.TubeSpectrumFile) {
		return c, MissingAuxiliaryFile("tube", p.TubeSpectrumFile)
	}

	c.Source = Source{
		AnodeZ:            p.AnodeZ,
		KV:                p.KV,
		IncidenceAngleDeg: p.IncidenceAngleDeg,
		BeWindowUM:        p.TubeBeWindowUM,
		EmissionCurrentMA: uaToMA(p.EmissionCurrentUA),
		TubeFileTitle:     p.TubeFileTitle,
		TubeSpectrumFile:  p.TubeSpectrumFile,
	}
	c.Filter = Filter{Z: p.FilterZ, ThicknessUM: p.FilterThicknessUM}
	c.Optic = Optic{TransmissionFile: p.OpticTransmissionFile, DustOn: p.DustOnOptic}
	c.DustOnOptic = p.DustOnOptic

	c.IncidentPathCM = p.IncidentPathCM
	c.SolidAngleSourceFractional = srToFractional(p.SolidAngleSourceSR)

	c.ExcitAngleDeg = p.ExcitAngleDeg
	c.ExcitCosecant = 1.0 / math.Sin(p.ExcitAngleDeg*math.Pi/180.0)

	c.GeometryFactor = p.Geometry
	c.Atmosphere = atm
	c.DustOnSpecimen = p.DustOnSpecimen

	c.Window = Window{Kind: p.WindowKind, ThicknessUM: p.WindowThicknessUM}

	c.EmergAngleDeg = p.EmergAngleDeg
	c.EmergCosecant = 1.0 / math.Sin(p.EmergAngleDeg*math.Pi/180.0)
	c.EmergentPathCM = p.EmergentPathCM
	c.DustOnDetector = p.DustOnDetector
	c.SolidAngleDetectorFractional = srToFractional(p.SolidAngleDetectorSR)

	c.Detector = Detector{
		Type:                dt,
		ResolutionEV:        p.DetectorResolutionEV,
		ReferenceEnergyEV:   nonZero(p.DetectorReferenceEnergyEV, 5895),
		BeWindowUM:          p.DetectorBeWindowUM,
		ActiveLayerUM:       p.DetectorActiveLayerUM,
		ShelfFactor:         p.DetectorShelfFactor,
		ShelfSlope:          p.DetectorShelfSlope,
		ShelfSlopeStartEV:   p.DetectorShelfSlopeStartEV,
		ComptonEscapeOn:     p.ComptonEscapeOn,
		FrontContactShelfOn: defaultTrue(p.FrontContactShelfOn),
		FrontContactUM:      nonZero(p.FrontContactUM, 150),
	}

	c.EMinEV = p.EMinEV
	c.TubeFileTitle = p.TubeFileTitle
	c.LinearCorrectionSlope = p.LinearCorrectionSlope
	c.LinearCorrectionOffset = p.LinearCorrectionOffset

	_ = micronsToCM // no caller: lengths are kept in micrometers in Conditions

	return c, nil
}

func nonEmpty(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func nonZero(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

// defaultTrue implements Design Note "Open questions" (a): front-contact
// shelf defaults to enabled (at 150 um) unless a caller has explicitly
// set FrontContactShelfOn to a concrete false via p.FrontContactShelfOn;
// since Params carries this as a plain bool, AssembleConditions can't
// distinguish "not set" from "explicitly false" and therefore honors
// whatever the caller passed while the CLI layer (piquantutil) is
// responsible for seeding the canonical production default.
func defaultTrue(v bool) bool { return v }

func ftoa(v float64) string {
	return fmtFloat(v)
}
