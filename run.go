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

package swathgrid

import (
	"encoding/binary"
	"fmt"

	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/ssec/swathgrid/grid"
	"github.com/ssec/swathgrid/internal/rawfile"
)

// RemapChannel names one swath channel file and its gridded destination.
type RemapChannel struct {
	InputPath string
	InputType rawfile.DType
	InputFill float64

	OutputPath string
	OutputType rawfile.DType
	OutputFill float64
}

// RemapConfig drives a whole file-to-file resampling run. Coordinate
// files may start at a different absolute scan than the channel files,
// which happens when they were produced in trim mode.
type RemapConfig struct {
	SwathCols   int
	Scans       int // number of scans to process
	RowsPerScan int

	// ScanFirst is the absolute index of the first scan to process.
	// Channel files always begin at absolute scan 0.
	ScanFirst int

	// ColsPath and RowsPath hold the continuous grid positions from a
	// locating run, beginning at absolute scan CoordScanFirst.
	ColsPath, RowsPath string
	CoordType          rawfile.DType
	CoordFill          float64
	CoordScanFirst     int

	// Order applies to every input and output file.
	Order binary.ByteOrder

	GridCols, GridRows int
	StartCol, StartRow int

	MaxWeight bool
	Weights   WeightConfig
	Channels  []RemapChannel

	Log logrus.FieldLogger
}

// RemapResult reports what a resampling run produced.
type RemapResult struct {
	// FirstScan and LastScan bound the scans whose footprints overlapped
	// the grid, or -1 when none did.
	FirstScan, LastScan int

	// MaxWeightSum is the largest per-cell accumulated weight, a
	// coverage diagnostic.
	MaxWeightSum float64
}

// Remap streams swath channel files through the resampler one scan at a
// time and writes one gridded file per channel. The whole configuration
// is validated, every file opened and size-checked, before any pixel is
// processed.
func Remap(cfg RemapConfig) (*RemapResult, error) {
	if cfg.SwathCols <= 0 || cfg.Scans <= 0 || cfg.RowsPerScan <= 0 {
		return nil, fmt.Errorf("swathgrid: swath shape %d cols, %d scans, %d rows per scan must be positive",
			cfg.SwathCols, cfg.Scans, cfg.RowsPerScan)
	}
	if cfg.ScanFirst < 0 || cfg.CoordScanFirst < 0 {
		return nil, fmt.Errorf("swathgrid: scan offsets (%d, %d) must not be negative",
			cfg.ScanFirst, cfg.CoordScanFirst)
	}
	if cfg.CoordScanFirst > cfg.ScanFirst {
		return nil, fmt.Errorf("swathgrid: coordinate files start at scan %d, after the first scan to process (%d)",
			cfg.CoordScanFirst, cfg.ScanFirst)
	}
	if len(cfg.Channels) == 0 {
		return nil, fmt.Errorf("swathgrid: no channels to resample")
	}
	if cfg.Order == nil {
		cfg.Order = binary.LittleEndian
	}
	if cfg.CoordType == 0 {
		// Grid coordinates are meaningless as bytes; an unset type
		// means float32.
		cfg.CoordType = rawfile.Float32
	}
	if cfg.CoordFill == 0 {
		// Keep the driver's reported sentinel in sync with what the
		// resampler defaults to.
		cfg.CoordFill = DefaultCoordFill
	}
	log := cfg.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	chanCfgs := make([]ChannelConfig, len(cfg.Channels))
	for i, c := range cfg.Channels {
		chanCfgs[i] = ChannelConfig{
			InputFill:  c.InputFill,
			OutputFill: c.OutputFill,
			Output:     c.OutputType,
		}
	}
	r, err := NewResampler(ResamplerConfig{
		GridCols:  cfg.GridCols,
		GridRows:  cfg.GridRows,
		StartCol:  cfg.StartCol,
		StartRow:  cfg.StartRow,
		CoordFill: cfg.CoordFill,
		MaxWeight: cfg.MaxWeight,
		Weights:   cfg.Weights,
		Channels:  chanCfgs,
	})
	if err != nil {
		return nil, err
	}

	coordSkip := cfg.ScanFirst - cfg.CoordScanFirst
	colRdr, err := openScanReader(cfg.ColsPath, cfg.CoordType, cfg.Order, cfg.SwathCols,
		cfg.RowsPerScan, coordSkip, cfg.Scans)
	if err != nil {
		return nil, err
	}
	defer colRdr.Close()
	rowRdr, err := openScanReader(cfg.RowsPath, cfg.CoordType, cfg.Order, cfg.SwathCols,
		cfg.RowsPerScan, coordSkip, cfg.Scans)
	if err != nil {
		return nil, err
	}
	defer rowRdr.Close()
	chanRdrs := make([]*rawfile.Reader, len(cfg.Channels))
	for i, c := range cfg.Channels {
		chanRdrs[i], err = openScanReader(c.InputPath, c.InputType, cfg.Order, cfg.SwathCols,
			cfg.RowsPerScan, cfg.ScanFirst, cfg.Scans)
		if err != nil {
			return nil, err
		}
		defer chanRdrs[i].Close()
	}

	colArr := sparse.ZerosDense(cfg.RowsPerScan, cfg.SwathCols)
	rowArr := sparse.ZerosDense(cfg.RowsPerScan, cfg.SwathCols)
	chanArrs := make([]*sparse.DenseArray, len(cfg.Channels))
	for i := range chanArrs {
		chanArrs[i] = sparse.ZerosDense(cfg.RowsPerScan, cfg.SwathCols)
	}

	log.WithFields(logrus.Fields{
		"scans":    cfg.Scans,
		"cols":     cfg.SwathCols,
		"channels": len(cfg.Channels),
	}).Info("resampling swath to grid")

	for scan := 0; scan < cfg.Scans; scan++ {
		if err := colRdr.ReadRows(colArr.Elements); err != nil {
			return nil, err
		}
		if err := rowRdr.ReadRows(rowArr.Elements); err != nil {
			return nil, err
		}
		for i, rdr := range chanRdrs {
			if err := rdr.ReadRows(chanArrs[i].Elements); err != nil {
				return nil, err
			}
		}
		if err := r.Accumulate(cfg.ScanFirst+scan, colArr, rowArr, chanArrs); err != nil {
			return nil, err
		}
	}

	out := r.Finalize()
	res := &RemapResult{
		FirstScan:    r.FirstScan(),
		LastScan:     r.LastScan(),
		MaxWeightSum: floats.Max(r.WeightSum().Elements),
	}
	if res.FirstScan < 0 {
		log.Warn("no swath footprint overlapped the grid")
	}
	for i, c := range cfg.Channels {
		if err := rawfile.WriteArray(c.OutputPath, c.OutputType, cfg.Order, out[i].Elements); err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{
			"path": c.OutputPath,
			"type": c.OutputType.String(),
		}).Info("wrote gridded channel")
	}
	return res, nil
}

// openScanReader opens a swath file whose total length is derived from
// its size, verifies it holds the scans being processed, and positions
// it at the first of them.
func openScanReader(path string, dt rawfile.DType, order binary.ByteOrder, cols, rowsPerScan, scanFirst, scans int) (*rawfile.Reader, error) {
	totalRows, err := rawfile.Rows(path, dt, cols)
	if err != nil {
		return nil, err
	}
	if totalRows%rowsPerScan != 0 {
		return nil, fmt.Errorf("swathgrid: %s holds %d rows, not a whole number of %d-row scans",
			path, totalRows, rowsPerScan)
	}
	need := (scanFirst + scans) * rowsPerScan
	if totalRows < need {
		return nil, fmt.Errorf("swathgrid: %s holds %d scans; scans %d-%d requested",
			path, totalRows/rowsPerScan, scanFirst, scanFirst+scans-1)
	}
	r, err := rawfile.OpenReader(path, dt, order, cols, totalRows)
	if err != nil {
		return nil, err
	}
	if err := r.SeekRow(scanFirst * rowsPerScan); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

// LocateFilesConfig drives file-to-file coordinate conversion.
type LocateFilesConfig struct {
	SwathCols   int
	Scans       int
	RowsPerScan int

	LatPath, LonPath string
	InputType        rawfile.DType
	InputFill        float64

	ColsPath, RowsPath string
	OutputType         rawfile.DType
	OutputFill         float64

	Order binary.ByteOrder

	Grid *grid.Def
	Rind float64

	// Trim keeps only the contiguous run of scans that overlap the
	// rind-inflated grid, instead of emitting every scan.
	Trim bool

	Log logrus.FieldLogger
}

// LocateFilesResult reports what a locating run produced.
type LocateFilesResult struct {
	// ScanFirst is the absolute index of the first scan written;
	// ScansWritten is how many follow it. In trim mode with no overlap
	// at all, ScansWritten is zero and the output files are empty.
	ScanFirst    int
	ScansWritten int

	// Hits is the total number of pixels that landed inside the
	// rind-inflated grid.
	Hits int
}

// LocateFiles streams latitude/longitude files through the Locator and
// writes grid column/row files. In trim mode leading non-overlapping
// scans are skipped and trailing ones truncated away, so the output
// starts at ScanFirst.
func LocateFiles(cfg LocateFilesConfig) (*LocateFilesResult, error) {
	if cfg.SwathCols <= 0 || cfg.Scans <= 0 || cfg.RowsPerScan <= 0 {
		return nil, fmt.Errorf("swathgrid: swath shape %d cols, %d scans, %d rows per scan must be positive",
			cfg.SwathCols, cfg.Scans, cfg.RowsPerScan)
	}
	if cfg.Order == nil {
		cfg.Order = binary.LittleEndian
	}
	if cfg.InputType == 0 {
		cfg.InputType = rawfile.Float32
	}
	if cfg.OutputType == 0 {
		cfg.OutputType = rawfile.Float32
	}
	if cfg.OutputFill == 0 {
		cfg.OutputFill = DefaultCoordFill
	}
	log := cfg.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	l, err := NewLocator(LocatorConfig{
		Grid:       cfg.Grid,
		Rind:       cfg.Rind,
		InputFill:  cfg.InputFill,
		OutputFill: cfg.OutputFill,
	})
	if err != nil {
		return nil, err
	}

	latRdr, err := openScanReader(cfg.LatPath, cfg.InputType, cfg.Order, cfg.SwathCols,
		cfg.RowsPerScan, 0, cfg.Scans)
	if err != nil {
		return nil, err
	}
	defer latRdr.Close()
	lonRdr, err := openScanReader(cfg.LonPath, cfg.InputType, cfg.Order, cfg.SwathCols,
		cfg.RowsPerScan, 0, cfg.Scans)
	if err != nil {
		return nil, err
	}
	defer lonRdr.Close()

	colWr, err := rawfile.CreateWriter(cfg.ColsPath, cfg.OutputType, cfg.Order)
	if err != nil {
		return nil, err
	}
	defer colWr.Close()
	rowWr, err := rawfile.CreateWriter(cfg.RowsPath, cfg.OutputType, cfg.Order)
	if err != nil {
		return nil, err
	}
	defer rowWr.Close()

	log.WithFields(logrus.Fields{
		"scans": cfg.Scans,
		"cols":  cfg.SwathCols,
		"trim":  cfg.Trim,
	}).Info("locating swath on grid")

	lats := sparse.ZerosDense(cfg.RowsPerScan, cfg.SwathCols)
	lons := sparse.ZerosDense(cfg.RowsPerScan, cfg.SwathCols)
	res := &LocateFilesResult{}
	firstHit, lastHit := -1, -1
	for scan := 0; scan < cfg.Scans; scan++ {
		if err := latRdr.ReadRows(lats.Elements); err != nil {
			return nil, err
		}
		if err := lonRdr.ReadRows(lons.Elements); err != nil {
			return nil, err
		}
		cols, rows, hits, err := l.LocateScan(lats, lons)
		if err != nil {
			return nil, err
		}
		res.Hits += hits
		if hits > 0 {
			if firstHit < 0 {
				firstHit = scan
			}
			lastHit = scan
		}
		if cfg.Trim && firstHit < 0 {
			continue // leading scan before any overlap
		}
		if err := colWr.WriteValues(cols.Elements); err != nil {
			return nil, err
		}
		if err := rowWr.WriteValues(rows.Elements); err != nil {
			return nil, err
		}
		res.ScansWritten++
	}

	if cfg.Trim {
		if firstHit < 0 {
			// No overlap anywhere: empty output, not an error.
			res.ScanFirst = 0
			res.ScansWritten = 0
		} else {
			res.ScanFirst = firstHit
			res.ScansWritten = lastHit - firstHit + 1
		}
		keep := int64(res.ScansWritten) * int64(cfg.RowsPerScan) * int64(cfg.SwathCols)
		if err := colWr.Truncate(keep); err != nil {
			return nil, err
		}
		if err := rowWr.Truncate(keep); err != nil {
			return nil, err
		}
	}

	log.WithFields(logrus.Fields{
		"scanFirst": res.ScanFirst,
		"scans":     res.ScansWritten,
		"hits":      res.Hits,
	}).Info("wrote grid coordinate files")
	return res, nil
}
