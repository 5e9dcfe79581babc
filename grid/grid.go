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

// Package grid composes a map projection with an affine map-plane to
// grid-cell scale, converting geographic coordinates to continuous
// (sub-pixel) grid column/row positions and back.
package grid

import (
	"fmt"

	"github.com/ctessum/geom"

	"github.com/ssec/swathgrid/proj"
)

// Config holds the grid-geometry part of a grid definition. Zero values
// take the documented defaults.
type Config struct {
	Cols, Rows int

	// MapOriginCol and MapOriginRow are the continuous grid coordinates
	// of the map origin. Default 0.
	MapOriginCol, MapOriginRow float64

	// ColsPerMapUnit and RowsPerMapUnit scale map units to grid cells,
	// independently per axis. ColsPerMapUnit defaults to 1;
	// RowsPerMapUnit defaults to ColsPerMapUnit.
	ColsPerMapUnit, RowsPerMapUnit float64
}

// Def is an initialized grid definition: a projection plus the affine
// cell scale. It is immutable after NewDef.
type Def struct {
	Cols, Rows                     int
	MapOriginCol, MapOriginRow     float64
	ColsPerMapUnit, RowsPerMapUnit float64

	Proj *proj.Projection
}

// NewDef validates a grid configuration against a projection.
func NewDef(p *proj.Projection, c Config) (*Def, error) {
	if p == nil {
		return nil, fmt.Errorf("grid: nil projection")
	}
	if c.Cols <= 0 || c.Rows <= 0 {
		return nil, fmt.Errorf("grid: dimensions %dx%d must be positive", c.Cols, c.Rows)
	}
	if c.ColsPerMapUnit == 0 {
		c.ColsPerMapUnit = 1
	}
	if c.RowsPerMapUnit == 0 {
		c.RowsPerMapUnit = c.ColsPerMapUnit
	}
	if c.ColsPerMapUnit < 0 || c.RowsPerMapUnit < 0 {
		return nil, fmt.Errorf("grid: cells per map unit (%g,%g) must be positive",
			c.ColsPerMapUnit, c.RowsPerMapUnit)
	}
	return &Def{
		Cols:           c.Cols,
		Rows:           c.Rows,
		MapOriginCol:   c.MapOriginCol,
		MapOriginRow:   c.MapOriginRow,
		ColsPerMapUnit: c.ColsPerMapUnit,
		RowsPerMapUnit: c.RowsPerMapUnit,
		Proj:           p,
	}, nil
}

// Forward converts geographic degrees to a continuous grid column/row.
// ok is false when the point does not project or falls outside
// [-0.5, cols-0.5) x [-0.5, rows-0.5).
func (d *Def) Forward(lat, lon float64) (col, row float64, ok bool) {
	col, row, ok = d.ForwardUnchecked(lat, lon)
	if !ok {
		return 0, 0, false
	}
	if !d.Contains(col, row, 0) {
		return 0, 0, false
	}
	return col, row, true
}

// ForwardUnchecked is Forward without the grid-extent test; the result
// may lie outside the grid. Callers that inflate the extent by a rind
// margin test containment themselves.
func (d *Def) ForwardUnchecked(lat, lon float64) (col, row float64, ok bool) {
	u, v, ok := d.Proj.Forward(lat, lon)
	if !ok {
		return 0, 0, false
	}
	col = d.MapOriginCol + u*d.ColsPerMapUnit
	row = d.MapOriginRow - v*d.RowsPerMapUnit
	return col, row, true
}

// Inverse converts a continuous grid column/row back to geographic
// degrees, re-validated against the projection's declared bounds.
func (d *Def) Inverse(col, row float64) (lat, lon float64, ok bool) {
	u := (col - d.MapOriginCol) / d.ColsPerMapUnit
	v := (d.MapOriginRow - row) / d.RowsPerMapUnit
	lat, lon, ok = d.Proj.Inverse(u, v)
	if !ok {
		return 0, 0, false
	}
	if !d.Proj.Within(lat, lon) {
		return 0, 0, false
	}
	return lat, lon, true
}

// Contains reports whether a continuous column/row lies within the grid
// extent inflated by rind cells on every side.
func (d *Def) Contains(col, row, rind float64) bool {
	return col >= -0.5-rind && col < float64(d.Cols)-0.5+rind &&
		row >= -0.5-rind && row < float64(d.Rows)-0.5+rind
}

// Extent returns the grid extent in continuous column/row space,
// inflated by rind cells on every side.
func (d *Def) Extent(rind float64) *geom.Bounds {
	return &geom.Bounds{
		Min: geom.Point{X: -0.5 - rind, Y: -0.5 - rind},
		Max: geom.Point{X: float64(d.Cols) - 0.5 + rind, Y: float64(d.Rows) - 0.5 + rind},
	}
}
