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

package piquantutil

import (
	"bufio"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pixlise/piquant-go"
	"github.com/pixlise/piquant-go/tables"
	"github.com/spf13/afero"
)

// ConditionsConfig is the on-disk representation of a `<config>` file
// (spec §6), decoded with encoding/toml into piquant.Params before
// AssembleConditions validates it.
type ConditionsConfig struct {
	Params piquant.Params
}

// ReadConditions decodes a TOML conditions config file, assembles it into
// a validated piquant.Conditions, and -- if the config names an optic
// transmission or external tube spectrum file -- loads and attaches its
// tabulated curve. The forward model consults the optic curve through
// Optic.Transmission; the attached tube curve is not read by its source
// sampling.
func ReadConditions(fs afero.Fs, path string) (piquant.Conditions, error) {
	var cfg ConditionsConfig
	// Front-contact shelf is on unless the config file sets it false.
	cfg.Params.FrontContactShelfOn = true
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return piquant.Conditions{}, piquant.IOError("read", path, err)
	}
	if _, err := toml.Decode(string(b), &cfg); err != nil {
		return piquant.Conditions{}, piquant.IOError("decode", path, err)
	}
	exists := func(p string) bool {
		if p == "" {
			return true
		}
		ok, err := afero.Exists(fs, p)
		return err == nil && ok
	}
	cond, err := piquant.AssembleConditions(cfg.Params, exists)
	if err != nil {
		return cond, err
	}

	loader := &tables.AuxLoader{Fs: fs}
	if cond.Optic.TransmissionFile != "" {
		curve, err := loader.Load(cond.Optic.TransmissionFile)
		if err != nil {
			return cond, piquant.IOError("parse", cond.Optic.TransmissionFile, err)
		}
		cond.Optic.Curve = curve
	}
	if cond.Source.TubeSpectrumFile != "" {
		curve, err := loader.Load(cond.Source.TubeSpectrumFile)
		if err != nil {
			return cond, piquant.IOError("parse", cond.Source.TubeSpectrumFile, err)
		}
		cond.Source.TubeCurve = curve
	}
	return cond, nil
}

// ReadElementList reads a plain-text element list file: one element
// symbol per line, blank lines and "#"-prefixed comments ignored.
func ReadElementList(path string) ([]*piquant.Element, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, piquant.IOError("open", path, err)
	}
	defer f.Close()

	var out []*piquant.Element
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sym := strings.Fields(line)[0]
		el, ok := piquant.ElementBySymbol(sym)
		if !ok {
			return nil, piquant.InvalidParameter("element", sym)
		}
		out = append(out, el)
	}
	if err := scanner.Err(); err != nil {
		return nil, piquant.IOError("read", path, err)
	}
	if len(out) == 0 {
		return nil, &piquant.Error{Kind: piquant.ErrEmptyElementList}
	}
	return out, nil
}

// ReadSpectrumList reads a plain-text list of spectrum file paths, one
// per line, for the map and sum sub-commands' <spectrum-list> argument.
func ReadSpectrumList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, piquant.IOError("open", path, err)
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, piquant.IOError("read", path, err)
	}
	return out, nil
}
