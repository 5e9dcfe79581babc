/*
Copyright © 2025 the SwathGrid authors.
This file is part of SwathGrid.

SwathGrid is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

SwathGrid is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with SwathGrid.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package swathgridutil holds the command-line interface and
// configuration plumbing for the swathgrid tools.
package swathgridutil

import (
	"fmt"

	"github.com/lnashier/viper"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ssec/swathgrid"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to the swathgrid
	// tools.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "byteorder",
			usage: `
              byteorder is the byte order of every binary array file read
              or written: 'little' or 'big'.`,
			defaultVal: "little",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "griddef",
			usage: `
              griddef is the path of a grid definition file: 'key: value'
              lines naming the map projection, grid shape, and cell scale.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{locateCmd.Flags(), remapCmd.Flags()},
		},
		{
			name: "swathcols",
			usage: `
              swathcols is the number of columns in each swath row.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{locateCmd.Flags(), remapCmd.Flags()},
		},
		{
			name: "scans",
			usage: `
              scans is the number of swath scans to process.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{locateCmd.Flags(), remapCmd.Flags()},
		},
		{
			name: "rowsperscan",
			usage: `
              rowsperscan is the number of swath rows in each scan.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{locateCmd.Flags(), remapCmd.Flags()},
		},
		{
			name: "lat",
			usage: `
              lat is the path of the swath latitude file.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{locateCmd.Flags()},
		},
		{
			name: "lon",
			usage: `
              lon is the path of the swath longitude file.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{locateCmd.Flags()},
		},
		{
			name: "cols",
			usage: `
              cols is the path of the grid-column coordinate file: an
              output of locate, an input of remap.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{locateCmd.Flags(), remapCmd.Flags()},
		},
		{
			name: "rows",
			usage: `
              rows is the path of the grid-row coordinate file: an output
              of locate, an input of remap.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{locateCmd.Flags(), remapCmd.Flags()},
		},
		{
			name: "rind",
			usage: `
              rind inflates the grid extent by this many cells when
              deciding which swath pixels overlap it.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{locateCmd.Flags()},
		},
		{
			name: "trim",
			usage: `
              trim keeps only the contiguous run of scans that overlap the
              grid instead of emitting every scan.`,
			shorthand:  "t",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{locateCmd.Flags()},
		},
		{
			name: "fill",
			usage: `
              fill is the sentinel marking invalid latitude/longitude
              samples. The default 0 selects the conventional -1e30.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{locateCmd.Flags()},
		},
		{
			name: "scanfirst",
			usage: `
              scanfirst is the absolute index of the first scan to
              resample; channel files always begin at scan 0.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{remapCmd.Flags()},
		},
		{
			name: "coordscanfirst",
			usage: `
              coordscanfirst is the absolute scan index where the
              coordinate files begin, reported by locate in trim mode.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{remapCmd.Flags()},
		},
		{
			name: "startcol",
			usage: `
              startcol offsets the output grid window within the full
              grid, for tiled output.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{remapCmd.Flags()},
		},
		{
			name: "startrow",
			usage: `
              startrow offsets the output grid window within the full
              grid, for tiled output.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{remapCmd.Flags()},
		},
		{
			name: "input",
			usage: `
              input lists the swath channel files to resample.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{remapCmd.Flags()},
		},
		{
			name: "output",
			usage: `
              output lists the gridded destination files, one per input.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{remapCmd.Flags()},
		},
		{
			name: "inputtype",
			usage: `
              inputtype lists the element type of each input file (uint8,
              int16, uint16, int32, uint32, float32); a single entry
              applies to every channel.`,
			defaultVal: []string{"float32"},
			flagsets:   []*pflag.FlagSet{remapCmd.Flags()},
		},
		{
			name: "outputtype",
			usage: `
              outputtype lists the element type of each output file; a
              single entry applies to every channel.`,
			defaultVal: []string{"float32"},
			flagsets:   []*pflag.FlagSet{remapCmd.Flags()},
		},
		{
			name: "inputfill",
			usage: `
              inputfill lists the fill sentinel of each input channel; a
              single entry applies to every channel.`,
			defaultVal: []string{"0"},
			flagsets:   []*pflag.FlagSet{remapCmd.Flags()},
		},
		{
			name: "outputfill",
			usage: `
              outputfill lists the fill written to grid cells without
              valid data; a single entry applies to every channel.`,
			defaultVal: []string{"0"},
			flagsets:   []*pflag.FlagSet{remapCmd.Flags()},
		},
		{
			name: "maxweight",
			usage: `
              maxweight keeps only the single heaviest contribution per
              grid cell instead of averaging, for categorical data.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{remapCmd.Flags()},
		},
		{
			name: "weightcount",
			usage: `
              weightcount is the number of entries in the quantized
              weight kernel table.`,
			defaultVal: 10000,
			flagsets:   []*pflag.FlagSet{remapCmd.Flags()},
		},
		{
			name: "weightmin",
			usage: `
              weightmin is the kernel value at the footprint boundary.`,
			defaultVal: 0.01,
			flagsets:   []*pflag.FlagSet{remapCmd.Flags()},
		},
		{
			name: "weightdistancemax",
			usage: `
              weightdistancemax is the footprint boundary distance in
              source-pixel units.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{remapCmd.Flags()},
		},
		{
			name: "weightdeltamax",
			usage: `
              weightdeltamax caps the footprint half-widths in grid
              cells.`,
			defaultVal: 10.0,
			flagsets:   []*pflag.FlagSet{remapCmd.Flags()},
		},
		{
			name: "weightsummin",
			usage: `
              weightsummin is the minimum accumulated weight for a grid
              cell to be considered valid; 0 selects weightmin.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{remapCmd.Flags()},
		},
		{
			name: "src",
			usage: `
              src is the path of the source grid file.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{regridCmd.Flags()},
		},
		{
			name: "dst",
			usage: `
              dst is the path of the destination grid file, created by
              the command.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{regridCmd.Flags()},
		},
		{
			name: "srccols",
			usage: `
              srccols is the source grid width in cells.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{regridCmd.Flags()},
		},
		{
			name: "srcrows",
			usage: `
              srcrows is the source grid height in cells.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{regridCmd.Flags()},
		},
		{
			name: "dstcols",
			usage: `
              dstcols is the destination grid width in cells. For the
              factor-based methods it is derived from the factor and may
              be omitted.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{regridCmd.Flags()},
		},
		{
			name: "dstrows",
			usage: `
              dstrows is the destination grid height in cells. For the
              factor-based methods it is derived from the factor and may
              be omitted.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{regridCmd.Flags()},
		},
		{
			name: "method",
			usage: `
              method selects the resampling method: nearest, bilinear,
              bucket, minify, reduce, or majority.`,
			shorthand:  "m",
			defaultVal: "nearest",
			flagsets:   []*pflag.FlagSet{regridCmd.Flags()},
		},
		{
			name: "factor",
			usage: `
              factor is the integer reduction factor for the minify,
              reduce, and majority methods.`,
			defaultVal: 2,
			flagsets:   []*pflag.FlagSet{regridCmd.Flags()},
		},
		{
			name: "gridtype",
			usage: `
              gridtype is the element type of the source and destination
              grid files.`,
			defaultVal: "float32",
			flagsets:   []*pflag.FlagSet{regridCmd.Flags()},
		},
		{
			name: "gridfill",
			usage: `
              gridfill is the fill sentinel of both grids.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{regridCmd.Flags()},
		},
		{
			name: "windowrows",
			usage: `
              windowrows is the height of the row window buffering each
              grid file; 0 selects the default.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{regridCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("SWATHGRID")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(locateCmd)
	Root.AddCommand(remapCmd)
	Root.AddCommand(regridCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("swathgrid: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "swathgrid",
	Short: "Map satellite swath data onto projected grids.",
	Long: `SwathGrid converts satellite swath measurements into projected map grids.
Use the subcommands specified below: 'locate' converts per-pixel
latitude/longitude into grid coordinates, 'remap' resamples swath channels
onto the grid by elliptical weighted averaging, and 'regrid' converts
between two already-gridded datasets.

Configuration can be changed by using a configuration file (and providing
the path to the file using the --config flag), by using command-line
arguments, or by setting environment variables in the format
'SWATHGRID_var' where 'var' is the name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of SwathGrid.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("SwathGrid v%s\n", swathgrid.Version)
	},
	DisableAutoGenTag: true,
}

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Convert swath latitude/longitude to grid coordinates",
	Long: `locate converts per-pixel latitude/longitude files into continuous grid
column/row files for the grid named by --griddef. In trim mode only the
contiguous run of scans overlapping the grid is written; the index of the
first written scan is reported for feeding remap's --coordscanfirst.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Locate(Cfg)
	},
	DisableAutoGenTag: true,
}

var remapCmd = &cobra.Command{
	Use:   "remap",
	Short: "Resample swath channels onto a grid",
	Long: `remap distributes each swath pixel's elliptical footprint over the grid
cells it covers, weighting by distance from the footprint center, and
writes one gridded file per input channel. Coordinate files come from a
previous locate run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Remap(Cfg)
	},
	DisableAutoGenTag: true,
}

var regridCmd = &cobra.Command{
	Use:   "regrid",
	Short: "Resample between two gridded datasets",
	Long: `regrid converts one already-gridded file into another shape by
nearest-neighbor sampling, bilinear interpolation, drop-in-the-bucket
averaging, minification, block-average reduction, or per-block majority
vote.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Regrid(Cfg)
	},
	DisableAutoGenTag: true,
}
