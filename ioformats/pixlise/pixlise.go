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

// Package pixlise defines the selection-record wire type used to pull
// per-PMC, per-detector spectra out of a PIXLISE binary dataset (spec
// §6 "PIXLISE binary"). Selection strings have the form
// `[tag:]pmc|readtype|detector,...`; this package only parses the
// selector and carries the protobuf message used to address a record.
// Reading the dataset itself is out of scope (spec §1) — Open always
// returns a MissingAuxiliaryFile error so callers can fail fast.
package pixlise

import (
	"strconv"
	"strings"

	"github.com/golang/protobuf/proto"
	"github.com/pixlise/piquant-go"
)

// SpectrumSelector identifies one per-PMC, per-detector spectrum
// inside a PIXLISE dataset.
type SpectrumSelector struct {
	Tag        string `protobuf:"bytes,1,opt,name=tag" json:"tag,omitempty"`
	PMC        int32  `protobuf:"varint,2,opt,name=pmc" json:"pmc,omitempty"`
	ReadType   string `protobuf:"bytes,3,opt,name=read_type" json:"read_type,omitempty"`
	Detector   string `protobuf:"bytes,4,opt,name=detector" json:"detector,omitempty"`
}

func (m *SpectrumSelector) Reset()         { *m = SpectrumSelector{} }
func (m *SpectrumSelector) String() string { return proto.CompactTextString(m) }
func (*SpectrumSelector) ProtoMessage()    {}

// ParseSelector parses a `[tag:]pmc|readtype|detector` selection
// string into one SpectrumSelector per comma-separated entry.
func ParseSelector(s string) ([]SpectrumSelector, error) {
	var out []SpectrumSelector
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		tag := ""
		rest := entry
		if idx := strings.Index(entry, ":"); idx >= 0 {
			tag = entry[:idx]
			rest = entry[idx+1:]
		}
		fields := strings.Split(rest, "|")
		if len(fields) != 3 {
			return nil, piquant.InvalidParameter("pixlise-selector", entry)
		}
		pmc, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return nil, piquant.InvalidParameter("pixlise-selector-pmc", fields[0])
		}
		out = append(out, SpectrumSelector{
			Tag:      tag,
			PMC:      int32(pmc),
			ReadType: strings.TrimSpace(fields[1]),
			Detector: strings.TrimSpace(fields[2]),
		})
	}
	if len(out) == 0 {
		return nil, piquant.InvalidParameter("pixlise-selector", s)
	}
	return out, nil
}

// Marshal encodes a selector list for transport to a PIXLISE dataset
// service.
func Marshal(sel []SpectrumSelector) ([][]byte, error) {
	out := make([][]byte, len(sel))
	for i := range sel {
		b, err := proto.Marshal(&sel[i])
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

// Open would read per-PMC, per-detector spectra out of a PIXLISE
// binary dataset and synthesize piquant.Spectrum values equivalent to
// an MSA read. Full dataset decoding is out of scope.
func Open(path string, sel SpectrumSelector) (*piquant.Spectrum, error) {
	return nil, piquant.MissingAuxiliaryFile("pixlise-dataset", path)
}
