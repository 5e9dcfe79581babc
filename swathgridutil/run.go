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

package swathgridutil

import (
	"fmt"
	"os"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"

	"github.com/ssec/swathgrid"
	"github.com/ssec/swathgrid/gridio"
	"github.com/ssec/swathgrid/internal/rawfile"
)

// Locate runs swath-to-grid coordinate conversion from configuration.
func Locate(cfg *viper.Viper) error {
	g, err := LoadGridDef(os.ExpandEnv(cfg.GetString("griddef")))
	if err != nil {
		return err
	}
	order, err := rawfile.Order(cfg.GetString("byteorder"))
	if err != nil {
		return err
	}
	res, err := swathgrid.LocateFiles(swathgrid.LocateFilesConfig{
		SwathCols:   cfg.GetInt("swathcols"),
		Scans:       cfg.GetInt("scans"),
		RowsPerScan: cfg.GetInt("rowsperscan"),
		LatPath:     os.ExpandEnv(cfg.GetString("lat")),
		LonPath:     os.ExpandEnv(cfg.GetString("lon")),
		InputFill:   cfg.GetFloat64("fill"),
		ColsPath:    os.ExpandEnv(cfg.GetString("cols")),
		RowsPath:    os.ExpandEnv(cfg.GetString("rows")),
		Order:       order,
		Grid:        g,
		Rind:        cfg.GetFloat64("rind"),
		Trim:        cfg.GetBool("trim"),
	})
	if err != nil {
		return err
	}
	if res.ScansWritten == 0 {
		logrus.Warn("the swath does not overlap the grid")
	}
	return nil
}

// Remap runs swath-to-grid resampling from configuration.
func Remap(cfg *viper.Viper) error {
	g, err := LoadGridDef(os.ExpandEnv(cfg.GetString("griddef")))
	if err != nil {
		return err
	}
	order, err := rawfile.Order(cfg.GetString("byteorder"))
	if err != nil {
		return err
	}
	channels, err := remapChannels(cfg)
	if err != nil {
		return err
	}
	_, err = swathgrid.Remap(swathgrid.RemapConfig{
		SwathCols:      cfg.GetInt("swathcols"),
		Scans:          cfg.GetInt("scans"),
		RowsPerScan:    cfg.GetInt("rowsperscan"),
		ScanFirst:      cfg.GetInt("scanfirst"),
		ColsPath:       os.ExpandEnv(cfg.GetString("cols")),
		RowsPath:       os.ExpandEnv(cfg.GetString("rows")),
		CoordScanFirst: cfg.GetInt("coordscanfirst"),
		Order:          order,
		GridCols:       g.Cols,
		GridRows:       g.Rows,
		StartCol:       cfg.GetInt("startcol"),
		StartRow:       cfg.GetInt("startrow"),
		MaxWeight:      cfg.GetBool("maxweight"),
		Weights: swathgrid.WeightConfig{
			Count:       cfg.GetInt("weightcount"),
			Min:         cfg.GetFloat64("weightmin"),
			DistanceMax: cfg.GetFloat64("weightdistancemax"),
			DeltaMax:    cfg.GetFloat64("weightdeltamax"),
			SumMin:      cfg.GetFloat64("weightsummin"),
		},
		Channels: channels,
	})
	return err
}

// remapChannels assembles the per-channel file list. Single-entry type
// and fill lists broadcast to every channel.
func remapChannels(cfg *viper.Viper) ([]swathgrid.RemapChannel, error) {
	inputs := cfg.GetStringSlice("input")
	outputs := cfg.GetStringSlice("output")
	if len(inputs) == 0 {
		return nil, fmt.Errorf("swathgrid: no input channel files")
	}
	if len(outputs) != len(inputs) {
		return nil, fmt.Errorf("swathgrid: %d input files but %d output files", len(inputs), len(outputs))
	}
	inTypes, err := channelTypes(cfg.GetStringSlice("inputtype"), len(inputs), "inputtype")
	if err != nil {
		return nil, err
	}
	outTypes, err := channelTypes(cfg.GetStringSlice("outputtype"), len(inputs), "outputtype")
	if err != nil {
		return nil, err
	}
	inFills, err := channelFills(cfg.GetStringSlice("inputfill"), len(inputs), "inputfill")
	if err != nil {
		return nil, err
	}
	outFills, err := channelFills(cfg.GetStringSlice("outputfill"), len(inputs), "outputfill")
	if err != nil {
		return nil, err
	}
	channels := make([]swathgrid.RemapChannel, len(inputs))
	for i := range inputs {
		channels[i] = swathgrid.RemapChannel{
			InputPath:  os.ExpandEnv(inputs[i]),
			InputType:  inTypes[i],
			InputFill:  inFills[i],
			OutputPath: os.ExpandEnv(outputs[i]),
			OutputType: outTypes[i],
			OutputFill: outFills[i],
		}
	}
	return channels, nil
}

func channelTypes(names []string, n int, option string) ([]rawfile.DType, error) {
	names, err := broadcast(names, n, option)
	if err != nil {
		return nil, err
	}
	types := make([]rawfile.DType, n)
	for i, name := range names {
		if types[i], err = rawfile.ParseDType(name); err != nil {
			return nil, err
		}
	}
	return types, nil
}

func channelFills(vals []string, n int, option string) ([]float64, error) {
	vals, err := broadcast(vals, n, option)
	if err != nil {
		return nil, err
	}
	fills := make([]float64, n)
	for i, v := range vals {
		if fills[i], err = cast.ToFloat64E(v); err != nil {
			return nil, fmt.Errorf("swathgrid: %s entry %q: %v", option, v, err)
		}
	}
	return fills, nil
}

func broadcast(vals []string, n int, option string) ([]string, error) {
	switch len(vals) {
	case n:
		return vals, nil
	case 1:
		out := make([]string, n)
		for i := range out {
			out[i] = vals[0]
		}
		return out, nil
	default:
		return nil, fmt.Errorf("swathgrid: %s has %d entries for %d channels", option, len(vals), n)
	}
}

// Regrid runs whole-grid resampling from configuration.
func Regrid(cfg *viper.Viper) error {
	order, err := rawfile.Order(cfg.GetString("byteorder"))
	if err != nil {
		return err
	}
	dt, err := rawfile.ParseDType(cfg.GetString("gridtype"))
	if err != nil {
		return err
	}
	method := cfg.GetString("method")
	factor := cfg.GetInt("factor")
	fill := cfg.GetFloat64("gridfill")
	window := cfg.GetInt("windowrows")
	srcCols, srcRows := cfg.GetInt("srccols"), cfg.GetInt("srcrows")
	dstCols, dstRows := cfg.GetInt("dstcols"), cfg.GetInt("dstrows")
	switch method {
	case "minify", "reduce", "majority":
		if dstCols == 0 && dstRows == 0 && factor > 0 {
			dstCols, dstRows = srcCols/factor, srcRows/factor
		}
	}

	src, err := gridio.Open(os.ExpandEnv(cfg.GetString("src")), dt, order, srcCols, srcRows, window)
	if err != nil {
		return err
	}
	defer src.Close()
	dstPath := os.ExpandEnv(cfg.GetString("dst"))
	dst, err := gridio.Create(dstPath, dt, order, dstCols, dstRows, window, fill)
	if err != nil {
		return err
	}

	switch method {
	case "nearest":
		err = gridio.Nearest(src, dst)
	case "bilinear":
		err = gridio.Bilinear(src, dst, fill)
	case "bucket":
		err = gridio.Bucket(src, dst, fill, "")
	case "minify":
		err = gridio.Minify(src, dst, factor)
	case "reduce":
		err = gridio.Reduce(src, dst, factor, fill)
	case "majority":
		err = gridio.Majority(src, dst, factor, fill)
	default:
		err = fmt.Errorf("swathgrid: unknown regrid method %q", method)
	}
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"path":   dstPath,
		"method": method,
		"shape":  fmt.Sprintf("%dx%d", dstCols, dstRows),
	}).Info("wrote regridded file")
	return nil
}
