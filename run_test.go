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
	"math"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/ssec/swathgrid/internal/rawfile"
)

func quietLog() logrus.FieldLogger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)
	return l
}

// writeSwathFile lays out vals as a rows x cols float32 array.
func writeSwathFile(t *testing.T, path string, vals []float64) {
	t.Helper()
	if err := rawfile.WriteArray(path, rawfile.Float32, binary.LittleEndian, vals); err != nil {
		t.Fatal(err)
	}
}

// TestLocateThenRemap runs the two file drivers back to back: a 2-scan
// swath covering an 8-column strip of a degree grid, located in trim
// mode and then resampled.
func TestLocateThenRemap(t *testing.T) {
	const (
		swathCols   = 8
		rowsPerScan = 2
		scans       = 3
	)
	dir := t.TempDir()
	g := degreeGrid(t, 8, 4)

	// Scan 0 sits far north of the grid; scans 1 and 2 cover grid rows
	// 0-1 and 2-3.
	lats := make([]float64, scans*rowsPerScan*swathCols)
	lons := make([]float64, scans*rowsPerScan*swathCols)
	data := make([]float64, scans*rowsPerScan*swathCols)
	for scan := 0; scan < scans; scan++ {
		for r := 0; r < rowsPerScan; r++ {
			for c := 0; c < swathCols; c++ {
				i := (scan*rowsPerScan+r)*swathCols + c
				switch scan {
				case 0:
					lats[i] = 60 + float64(r)
				default:
					// grid row (scan-1)*2 + r is latitude -(row)
					lats[i] = -float64((scan-1)*rowsPerScan + r)
				}
				lons[i] = float64(c)
				data[i] = float64(10*scan + c)
			}
		}
	}
	latPath := filepath.Join(dir, "lat.img")
	lonPath := filepath.Join(dir, "lon.img")
	dataPath := filepath.Join(dir, "chan.img")
	writeSwathFile(t, latPath, lats)
	writeSwathFile(t, lonPath, lons)
	writeSwathFile(t, dataPath, data)

	colsPath := filepath.Join(dir, "cols.img")
	rowsPath := filepath.Join(dir, "rows.img")
	lres, err := LocateFiles(LocateFilesConfig{
		SwathCols:   swathCols,
		Scans:       scans,
		RowsPerScan: rowsPerScan,
		LatPath:     latPath,
		LonPath:     lonPath,
		ColsPath:    colsPath,
		RowsPath:    rowsPath,
		Grid:        g,
		Trim:        true,
		Log:         quietLog(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if lres.ScanFirst != 1 || lres.ScansWritten != 2 {
		t.Fatalf("trim kept scans [%d, %d), want [1, 3)",
			lres.ScanFirst, lres.ScanFirst+lres.ScansWritten)
	}
	if want := 2 * rowsPerScan * swathCols; lres.Hits != want {
		t.Errorf("hits = %d, want %d", lres.Hits, want)
	}

	outPath := filepath.Join(dir, "grid.img")
	rres, err := Remap(RemapConfig{
		SwathCols:      swathCols,
		Scans:          2,
		RowsPerScan:    rowsPerScan,
		ScanFirst:      1,
		ColsPath:       colsPath,
		RowsPath:       rowsPath,
		CoordScanFirst: lres.ScanFirst,
		GridCols:       8,
		GridRows:       4,
		Channels: []RemapChannel{{
			InputPath:  dataPath,
			InputType:  rawfile.Float32,
			InputFill:  -999,
			OutputPath: outPath,
			OutputType: rawfile.Float32,
			OutputFill: -999,
		}},
		Log: quietLog(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if rres.FirstScan != 1 || rres.LastScan != 2 {
		t.Errorf("contributing scans = [%d, %d], want [1, 2]", rres.FirstScan, rres.LastScan)
	}
	if rres.MaxWeightSum <= 0 {
		t.Errorf("max weight sum = %g, want positive", rres.MaxWeightSum)
	}

	out, err := rawfile.ReadArray(outPath, rawfile.Float32, binary.LittleEndian, 8*4)
	if err != nil {
		t.Fatal(err)
	}
	// Pixels land exactly on cell centers, so each cell holds its
	// pixel's value: 10*scan + column.
	for row := 0; row < 4; row++ {
		scan := row/rowsPerScan + 1
		for col := 0; col < 8; col++ {
			want := float64(10*scan + col)
			got := out[row*8+col]
			if math.Abs(got-want) > 1e-4 {
				t.Errorf("cell (%d,%d) = %g, want %g", col, row, got, want)
			}
		}
	}
}

func TestLocateFilesNoOverlap(t *testing.T) {
	const (
		swathCols   = 4
		rowsPerScan = 2
		scans       = 2
	)
	dir := t.TempDir()
	g := degreeGrid(t, 4, 4)

	n := scans * rowsPerScan * swathCols
	lats := make([]float64, n)
	lons := make([]float64, n)
	for i := range lats {
		lats[i] = 80 // nowhere near the grid
		lons[i] = 100
	}
	latPath := filepath.Join(dir, "lat.img")
	lonPath := filepath.Join(dir, "lon.img")
	writeSwathFile(t, latPath, lats)
	writeSwathFile(t, lonPath, lons)

	res, err := LocateFiles(LocateFilesConfig{
		SwathCols:   swathCols,
		Scans:       scans,
		RowsPerScan: rowsPerScan,
		LatPath:     latPath,
		LonPath:     lonPath,
		ColsPath:    filepath.Join(dir, "cols.img"),
		RowsPath:    filepath.Join(dir, "rows.img"),
		Grid:        g,
		Trim:        true,
		Log:         quietLog(),
	})
	if err != nil {
		t.Fatalf("a swath with no grid overlap is not an error: %v", err)
	}
	if res.Hits != 0 || res.ScansWritten != 0 {
		t.Errorf("hits=%d written=%d, want 0 and 0", res.Hits, res.ScansWritten)
	}
	// Empty output files, not missing ones.
	if rows, err := rawfile.Rows(filepath.Join(dir, "cols.img"), rawfile.Float32, swathCols); err != nil || rows != 0 {
		t.Errorf("cols file holds %d rows (err %v), want empty", rows, err)
	}
}

func TestRemapValidation(t *testing.T) {
	if _, err := Remap(RemapConfig{SwathCols: 0, Scans: 1, RowsPerScan: 1,
		Channels: []RemapChannel{{}}}); err == nil {
		t.Error("expected an error for a zero-width swath")
	}
	if _, err := Remap(RemapConfig{SwathCols: 1, Scans: 1, RowsPerScan: 1,
		GridCols: 1, GridRows: 1}); err == nil {
		t.Error("expected an error for zero channels")
	}
	if _, err := Remap(RemapConfig{SwathCols: 1, Scans: 1, RowsPerScan: 1,
		GridCols: 1, GridRows: 1, ScanFirst: 0, CoordScanFirst: 2,
		Channels: []RemapChannel{{}}}); err == nil {
		t.Error("expected an error for coordinate files starting after the processed scans")
	}
	if _, err := Remap(RemapConfig{SwathCols: 1, Scans: 1, RowsPerScan: 1,
		GridCols: 1, GridRows: 1, ColsPath: "/nonexistent/cols.img", RowsPath: "/nonexistent/rows.img",
		Channels: []RemapChannel{{InputPath: "/nonexistent/chan.img"}}}); err == nil {
		t.Error("expected an error for missing input files")
	}
}
