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
	"fmt"

	"github.com/ctessum/geom"
	"github.com/ctessum/sparse"

	"github.com/ssec/swathgrid/grid"
)

// DefaultCoordFill is the conventional fill sentinel for latitude,
// longitude, and the column/row arrays the Locator produces.
const DefaultCoordFill = -1e30

// LocatorConfig configures swath-to-grid coordinate conversion.
type LocatorConfig struct {
	Grid *grid.Def

	// Rind inflates the grid extent, in cells, when deciding which
	// pixels (and therefore which scans) overlap the grid. It avoids
	// edge-of-grid artifacts in the resampler; pixels inside the rind
	// but off the grid proper still receive their true positions.
	Rind float64

	// InputFill marks invalid latitude/longitude samples; OutputFill is
	// what such pixels (and off-extent pixels) become in the column/row
	// arrays. Both default to DefaultCoordFill.
	InputFill  float64
	OutputFill float64
}

// Locator bulk-converts per-pixel latitude/longitude into continuous grid
// column/row positions.
type Locator struct {
	cfg    LocatorConfig
	extent *geom.Bounds
}

// NewLocator validates the configuration.
func NewLocator(cfg LocatorConfig) (*Locator, error) {
	if cfg.Grid == nil {
		return nil, fmt.Errorf("swathgrid: locator needs a grid definition")
	}
	if cfg.Rind < 0 {
		return nil, fmt.Errorf("swathgrid: rind %g must not be negative", cfg.Rind)
	}
	if cfg.InputFill == 0 {
		cfg.InputFill = DefaultCoordFill
	}
	if cfg.OutputFill == 0 {
		cfg.OutputFill = DefaultCoordFill
	}
	return &Locator{cfg: cfg, extent: cfg.Grid.Extent(cfg.Rind)}, nil
}

// OutputFill returns the column/row fill sentinel the locator emits, for
// handing on to the resampler.
func (l *Locator) OutputFill() float64 { return l.cfg.OutputFill }

// LocateScan converts one scan. lats and lons are rowsPerScan x swathCols
// arrays; the returned cols and rows have the same shape. hits is the
// number of pixels inside the rind-inflated grid extent; a fill latitude
// or longitude propagates the output fill without touching the
// projection.
func (l *Locator) LocateScan(lats, lons *sparse.DenseArray) (cols, rows *sparse.DenseArray, hits int, err error) {
	if len(lats.Shape) != 2 || len(lons.Shape) != 2 {
		return nil, nil, 0, fmt.Errorf("swathgrid: coordinate arrays must be 2-D")
	}
	if lats.Shape[0] != lons.Shape[0] || lats.Shape[1] != lons.Shape[1] {
		return nil, nil, 0, fmt.Errorf("swathgrid: latitude array is %v but longitude array is %v",
			lats.Shape, lons.Shape)
	}
	cols = sparse.ZerosDense(lats.Shape...)
	rows = sparse.ZerosDense(lats.Shape...)
	for i, lat := range lats.Elements {
		lon := lons.Elements[i]
		if lat == l.cfg.InputFill || lon == l.cfg.InputFill {
			cols.Elements[i] = l.cfg.OutputFill
			rows.Elements[i] = l.cfg.OutputFill
			continue
		}
		col, row, ok := l.cfg.Grid.ForwardUnchecked(lat, lon)
		if !ok || !l.contains(col, row) {
			cols.Elements[i] = l.cfg.OutputFill
			rows.Elements[i] = l.cfg.OutputFill
			continue
		}
		cols.Elements[i] = col
		rows.Elements[i] = row
		hits++
	}
	return cols, rows, hits, nil
}

func (l *Locator) contains(col, row float64) bool {
	return col >= l.extent.Min.X && col < l.extent.Max.X &&
		row >= l.extent.Min.Y && row < l.extent.Max.Y
}
