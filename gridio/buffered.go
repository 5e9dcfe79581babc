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

// Package gridio provides row-windowed file-backed access to gridded
// arrays larger than memory, plus whole-grid resampling utilities
// between two already-gridded datasets.
package gridio

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/ssec/swathgrid/internal/rawfile"
)

// DefaultWindowRows is the row-window height used when a BufferedGrid
// is opened with no explicit window size.
const DefaultWindowRows = 256

// BufferedGrid is random cell access over a flat row-major array file,
// backed by a row window smaller than the full grid. Touching a row
// outside the current window flushes it (if dirty) and reloads at the
// new position. Access is not safe for concurrent use.
type BufferedGrid struct {
	f     *os.File
	dt    rawfile.DType
	order binary.ByteOrder

	cols, rows int
	winRows    int

	window []float64
	buf    []byte
	// winStart is the first grid row held in the window, or -1 before
	// the first access.
	winStart int
	winLen   int // rows actually in the window (short at the file tail)
	dirty    bool
}

// Open opens an existing array file for windowed access, verifying its
// size matches the declared shape. windowRows <= 0 selects
// DefaultWindowRows.
func Open(path string, dt rawfile.DType, order binary.ByteOrder, cols, rows, windowRows int) (*BufferedGrid, error) {
	g, err := newGrid(path, dt, order, cols, rows, windowRows, os.O_RDWR)
	if err != nil {
		return nil, err
	}
	fi, err := g.f.Stat()
	if err != nil {
		g.f.Close()
		return nil, fmt.Errorf("gridio: stat %s: %w", path, err)
	}
	want := int64(cols) * int64(rows) * int64(dt.Size())
	if fi.Size() != want {
		g.f.Close()
		return nil, fmt.Errorf("gridio: %s is %d bytes; declared shape %dx%d %s needs %d",
			path, fi.Size(), cols, rows, dt, want)
	}
	return g, nil
}

// Create creates (or truncates) an array file of the declared shape,
// initialized to fill.
func Create(path string, dt rawfile.DType, order binary.ByteOrder, cols, rows, windowRows int, fill float64) (*BufferedGrid, error) {
	g, err := newGrid(path, dt, order, cols, rows, windowRows, os.O_RDWR|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return nil, err
	}
	if err := g.f.Truncate(int64(cols) * int64(rows) * int64(dt.Size())); err != nil {
		g.f.Close()
		return nil, fmt.Errorf("gridio: size %s: %w", path, err)
	}
	if err := g.Fill(fill); err != nil {
		g.f.Close()
		return nil, err
	}
	return g, nil
}

func newGrid(path string, dt rawfile.DType, order binary.ByteOrder, cols, rows, windowRows, flag int) (*BufferedGrid, error) {
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("gridio: %s: declared shape %dx%d must be positive", path, cols, rows)
	}
	if windowRows <= 0 {
		windowRows = DefaultWindowRows
	}
	if windowRows > rows {
		windowRows = rows
	}
	f, err := os.OpenFile(path, flag, 0644)
	if err != nil {
		return nil, fmt.Errorf("gridio: open %s: %w", path, err)
	}
	return &BufferedGrid{
		f:        f,
		dt:       dt,
		order:    order,
		cols:     cols,
		rows:     rows,
		winRows:  windowRows,
		window:   make([]float64, windowRows*cols),
		buf:      make([]byte, windowRows*cols*dt.Size()),
		winStart: -1,
	}, nil
}

// Cols and Rows report the grid shape.
func (g *BufferedGrid) Cols() int { return g.cols }
func (g *BufferedGrid) Rows() int { return g.rows }

// Get returns the value at (row, col), swapping the window if needed.
func (g *BufferedGrid) Get(row, col int) (float64, error) {
	if err := g.seek(row, col); err != nil {
		return 0, err
	}
	return g.window[(row-g.winStart)*g.cols+col], nil
}

// Put stores a value at (row, col), swapping the window if needed. The
// value reaches the file on the next window swap or on Close.
func (g *BufferedGrid) Put(row, col int, v float64) error {
	if err := g.seek(row, col); err != nil {
		return err
	}
	g.window[(row-g.winStart)*g.cols+col] = v
	g.dirty = true
	return nil
}

func (g *BufferedGrid) seek(row, col int) error {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return fmt.Errorf("gridio: cell (%d,%d) outside %dx%d grid", row, col, g.cols, g.rows)
	}
	if g.winStart >= 0 && row >= g.winStart && row < g.winStart+g.winLen {
		return nil
	}
	if err := g.flush(); err != nil {
		return err
	}
	// Windows are aligned to multiples of the window height so repeated
	// nearby accesses map to the same window.
	start := (row / g.winRows) * g.winRows
	n := g.winRows
	if start+n > g.rows {
		n = g.rows - start
	}
	buf := g.buf[:n*g.cols*g.dt.Size()]
	if _, err := g.f.ReadAt(buf, int64(start)*int64(g.cols)*int64(g.dt.Size())); err != nil {
		return fmt.Errorf("gridio: read %s rows %d-%d: %w", g.f.Name(), start, start+n-1, err)
	}
	size := g.dt.Size()
	for i := 0; i < n*g.cols; i++ {
		g.window[i] = g.dt.Get(buf[i*size:], g.order)
	}
	g.winStart = start
	g.winLen = n
	return nil
}

func (g *BufferedGrid) flush() error {
	if !g.dirty || g.winStart < 0 {
		return nil
	}
	size := g.dt.Size()
	buf := g.buf[:g.winLen*g.cols*size]
	for i := 0; i < g.winLen*g.cols; i++ {
		g.dt.Put(buf[i*size:], g.order, g.window[i])
	}
	if _, err := g.f.WriteAt(buf, int64(g.winStart)*int64(g.cols)*int64(size)); err != nil {
		return fmt.Errorf("gridio: write %s rows %d-%d: %w",
			g.f.Name(), g.winStart, g.winStart+g.winLen-1, err)
	}
	g.dirty = false
	return nil
}

// Fill writes a constant to every cell, window by window, invalidating
// the current window.
func (g *BufferedGrid) Fill(v float64) error {
	if err := g.flush(); err != nil {
		return err
	}
	g.winStart = -1
	size := g.dt.Size()
	for i := 0; i < g.winRows*g.cols; i++ {
		g.dt.Put(g.buf[i*size:], g.order, v)
	}
	for start := 0; start < g.rows; start += g.winRows {
		n := g.winRows
		if start+n > g.rows {
			n = g.rows - start
		}
		buf := g.buf[:n*g.cols*size]
		if _, err := g.f.WriteAt(buf, int64(start)*int64(g.cols)*int64(size)); err != nil {
			return fmt.Errorf("gridio: fill %s rows %d-%d: %w",
				g.f.Name(), start, start+n-1, err)
		}
	}
	return nil
}

// Close flushes the final (possibly partial) window and closes the
// file.
func (g *BufferedGrid) Close() error {
	if err := g.flush(); err != nil {
		g.f.Close()
		return err
	}
	return g.f.Close()
}
