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
	"fmt"

	"github.com/lnashier/viper"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information for the piquant command line tool,
// following the same Viper-backed table-driven option registration as
// inmaputil.Cfg.
type Cfg struct {
	*viper.Viper

	Root                                             *cobra.Command
	energyCalibrateCmd, plotCmd, primarySpectrumCmd *cobra.Command
	calculateCmd, compareCmd, opticCmd              *cobra.Command
	calibrateCmd, quantifyCmd, evaluateCmd          *cobra.Command
	mapCmd, sumCmd, emsCmd, versionCmd              *cobra.Command
}

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

// runOptions reads the current flag values off cfg into a RunOptions,
// which every RunE closure below passes to its piquantutil.Run* function.
func runOptions(cfg *Cfg) RunOptions {
	return RunOptions{
		EVStart:               cfg.GetFloat64("evStart"),
		EVPerCh:               cfg.GetFloat64("evPerCh"),
		DisableEnergyAdjust:   cfg.GetBool("f"),
		DisableWidthAdjust:    cfg.GetBool("g"),
		EnableComptonConvolve: cfg.GetBool("v"),
		Carbonates:            cfg.GetBool("c"),
		Threads:               cfg.GetInt("threads"),
		MaxSpectra:            cfg.GetInt("maxSpectra"),
		StandardSelector:      cfg.GetString("standardIndexOrName"),
		MinWeight:             cfg.GetFloat64("minWeight"),
		OutputSelector:        cfg.GetString("outputSelector"),
		NormalizePercent:      cfg.GetFloat64("percent"),
		IronOxideRatio:        cfg.GetFloat64("ironOxideRatio"),
		DetectorIndex:         cfg.GetInt("detectorIndex"),
	}
}

// InitializeConfig builds the piquant command tree: a version command
// and the 12 analysis sub-commands from spec §6, each taking its
// arguments positionally and its options from a shared flag table.
func InitializeConfig() *Cfg {
	cfg := &Cfg{
		Viper: viper.New(),
	}

	cfg.Root = &cobra.Command{
		Use:   "piquant",
		Short: "A fundamental-parameters XRF quantification engine.",
		Long: `PIQUANT fits X-ray fluorescence spectra against a fundamental-parameters
forward model to calibrate instrument response, quantify unknown
compositions, and process spectrum maps.

Use the subcommands below to access individual analysis steps.`,
		DisableAutoGenTag: true,
	}

	fs := afero.NewOsFs()

	cfg.energyCalibrateCmd = &cobra.Command{
		Use:               "energy_calibrate <spectrum> <element-list>",
		Short:             "Derive an energy calibration from known element peaks.",
		Args:              cobra.ExactArgs(2),
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunEnergyCalibrate(fs, args[0], args[1], runOptions(cfg))
		},
	}

	cfg.plotCmd = &cobra.Command{
		Use:               "plot <spectrum> <plot-file>",
		Short:             "Write a spectrum's channel data to a plot CSV.",
		Args:              cobra.ExactArgs(2),
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunPlot(fs, args[0], args[1], runOptions(cfg))
		},
	}

	cfg.primarySpectrumCmd = &cobra.Command{
		Use:               "primary_spectrum <config> <plot-file>",
		Short:             "Plot the tube's primary beam independent of any specimen.",
		Args:              cobra.ExactArgs(2),
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunPrimarySpectrum(fs, args[0], args[1], runOptions(cfg))
		},
	}

	cfg.calculateCmd = &cobra.Command{
		Use:               "calculate <config> <standards> <plot-file>",
		Short:             "Forward-model one standard's spectrum without fitting.",
		Args:              cobra.ExactArgs(3),
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunCalculate(fs, args[0], args[1], args[2], runOptions(cfg))
		},
	}

	cfg.compareCmd = &cobra.Command{
		Use:               "compare <config> <standards> <spectrum> <plot-file>",
		Short:             "Fit a standard's forward model against a measured spectrum.",
		Args:              cobra.ExactArgs(4),
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunCompare(fs, args[0], args[1], args[2], args[3], runOptions(cfg))
		},
	}

	cfg.opticCmd = &cobra.Command{
		Use:               "optic <config> <standards> <spectrum> <element-list> <plot-file>",
		Short:             "Like compare, but fit only the listed elements.",
		Args:              cobra.ExactArgs(5),
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunOptic(fs, args[0], args[1], args[2], args[3], args[4], runOptions(cfg))
		},
	}

	cfg.calibrateCmd = &cobra.Command{
		Use:               "calibrate <config> <standards> <calibration> <element-list>",
		Short:             "Fit every standard and pool per-element ECFs into a calibration file.",
		Args:              cobra.ExactArgs(4),
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunCalibrate(fs, args[0], args[1], args[2], args[3], runOptions(cfg))
		},
	}

	cfg.quantifyCmd = &cobra.Command{
		Use:               "quantify <config> <calibration> <spectrum> <element-list> [plot-file]",
		Short:             "Quantify an unknown spectrum's composition.",
		Args:              cobra.RangeArgs(4, 5),
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			plotPath := ""
			if len(args) == 5 {
				plotPath = args[4]
			}
			return RunQuantify(fs, args[0], args[1], args[2], args[3], plotPath, runOptions(cfg))
		},
	}

	cfg.evaluateCmd = &cobra.Command{
		Use:               "evaluate <config> <standards> <calibration> <element-list> <map-file>",
		Short:             "Leave-one-out cross-check a standards set against its own pooled calibration.",
		Args:              cobra.ExactArgs(5),
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunEvaluate(fs, args[0], args[1], args[2], args[3], args[4], runOptions(cfg))
		},
	}

	cfg.mapCmd = &cobra.Command{
		Use:               "map <config> <calibration> <spectrum-list> <element-list> <map-file>",
		Short:             "Quantify a list of spectra in parallel into one map CSV.",
		Args:              cobra.ExactArgs(5),
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunMap(fs, args[0], args[1], args[2], args[3], args[4], runOptions(cfg))
		},
	}

	cfg.sumCmd = &cobra.Command{
		Use:               "sum <config> <calibration> <spectrum-list> <element-list> <plot-file>",
		Short:             "Combine a list of spectra from paired detectors and quantify the sum.",
		Args:              cobra.ExactArgs(5),
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunSum(fs, args[0], args[1], args[2], args[3], args[4], runOptions(cfg))
		},
	}

	cfg.emsCmd = &cobra.Command{
		Use:               "ems <sdd-csv> <edr-csv>",
		Short:             "Convert a raw SDD histogram CSV into a combined-detector EDR CSV.",
		Args:              cobra.ExactArgs(2),
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunEms(fs, args[0], args[1])
		},
	}

	cfg.versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Long:  "version prints the version number of this build of PIQUANT.",
		Run: func(cmd *cobra.Command, args []string) {
			RunVersion()
		},
		DisableAutoGenTag: true,
	}

	cfg.Root.AddCommand(
		cfg.energyCalibrateCmd,
		cfg.plotCmd,
		cfg.primarySpectrumCmd,
		cfg.calculateCmd,
		cfg.compareCmd,
		cfg.opticCmd,
		cfg.calibrateCmd,
		cfg.quantifyCmd,
		cfg.evaluateCmd,
		cfg.mapCmd,
		cfg.sumCmd,
		cfg.emsCmd,
		cfg.versionCmd,
	)

	analysisCmds := []*cobra.Command{
		cfg.energyCalibrateCmd, cfg.plotCmd, cfg.primarySpectrumCmd,
		cfg.calculateCmd, cfg.compareCmd, cfg.opticCmd,
		cfg.calibrateCmd, cfg.quantifyCmd, cfg.evaluateCmd,
		cfg.mapCmd, cfg.sumCmd,
	}
	flagsetsFor := func(cmds ...*cobra.Command) []*pflag.FlagSet {
		out := make([]*pflag.FlagSet, len(cmds))
		for i, c := range cmds {
			out[i] = c.Flags()
		}
		return out
	}

	// options are the flags shared across piquant's analysis sub-commands
	// (spec §6 "Options").
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name:       "evStart",
			usage:      `evStart overrides the energy calibration's zero-channel offset, in eV.`,
			defaultVal: 0.0,
			flagsets:   flagsetsFor(analysisCmds...),
		},
		{
			name:       "evPerCh",
			usage:      `evPerCh overrides the energy calibration's eV-per-channel slope.`,
			shorthand:  "e",
			defaultVal: 0.0,
			flagsets:   flagsetsFor(analysisCmds...),
		},
		{
			name:       "f",
			usage:      `f disables automatic energy-axis adjustment during fitting.`,
			shorthand:  "f",
			defaultVal: false,
			flagsets:   flagsetsFor(analysisCmds...),
		},
		{
			name:       "g",
			usage:      `g disables automatic peak-width adjustment during fitting.`,
			shorthand:  "g",
			defaultVal: false,
			flagsets:   flagsetsFor(analysisCmds...),
		},
		{
			name:       "v",
			usage:      `v enables incoherent (Compton) scatter peak convolution.`,
			shorthand:  "v",
			defaultVal: false,
			flagsets:   flagsetsFor(analysisCmds...),
		},
		{
			name:       "c",
			usage:      `c reports quantified compositions as carbonates rather than oxides.`,
			shorthand:  "c",
			defaultVal: false,
			flagsets:   flagsetsFor(analysisCmds...),
		},
		{
			name:       "detectorIndex",
			usage:      `detectorIndex selects which detector's conditions to use, for multi-detector configs.`,
			shorthand:  "d",
			defaultVal: 0,
			flagsets:   flagsetsFor(analysisCmds...),
		},
		{
			name:       "standardIndexOrName",
			usage:      `standardIndexOrName selects a standard from the standards file by 0-based index or name.`,
			shorthand:  "s",
			defaultVal: "",
			flagsets:   flagsetsFor(cfg.calculateCmd, cfg.compareCmd, cfg.opticCmd),
		},
		{
			name:       "minWeight",
			usage:      `minWeight excludes standards whose certified weight is below this fraction from calibration pooling.`,
			shorthand:  "w",
			defaultVal: 0.0,
			flagsets:   flagsetsFor(cfg.calibrateCmd),
		},
		{
			name:       "threads",
			usage:      `threads sets the number of worker goroutines used to process a spectrum map.`,
			shorthand:  "t",
			defaultVal: 1,
			flagsets:   flagsetsFor(cfg.mapCmd),
		},
		{
			name:       "maxSpectra",
			usage:      `maxSpectra caps the number of spectra read from a map's spectrum list, for quick partial runs.`,
			shorthand:  "m",
			defaultVal: 0,
			flagsets:   flagsetsFor(cfg.mapCmd),
		},
		{
			name:       "outputSelector",
			usage:      `outputSelector chooses which computed columns are written to a map or quantify CSV.`,
			shorthand:  "q",
			defaultVal: "",
			flagsets:   flagsetsFor(cfg.quantifyCmd, cfg.mapCmd),
		},
		{
			name:       "percent",
			usage:      `percent is the normalization target for reported element fractions (100 for weight percent).`,
			shorthand:  "n",
			defaultVal: 100.0,
			flagsets:   flagsetsFor(cfg.quantifyCmd, cfg.mapCmd, cfg.sumCmd),
		},
		{
			name:       "ironOxideRatio",
			usage:      `ironOxideRatio sets the FeO/Fe2O3 mass ratio used to split total iron between oxidation states.`,
			defaultVal: 0.0,
			flagsets:   flagsetsFor(cfg.calculateCmd, cfg.compareCmd, cfg.quantifyCmd, cfg.mapCmd, cfg.sumCmd),
		},
	}

	cfg.SetEnvPrefix("PIQUANT")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 {
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, v, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, v, option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, v, option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, v, option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, v, option.usage)
				} else {
					set.IntP(option.name, option.shorthand, v, option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, v, option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, v, option.usage)
				}
			default:
				panic(fmt.Errorf("invalid argument type: %T", option.defaultVal))
			}
			cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}

	return cfg
}
