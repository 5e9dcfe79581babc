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

package grid

import (
	"math"
	"testing"

	"github.com/ssec/swathgrid/proj"
)

// degreeGrid returns a grid whose cells are one degree on a side at the
// equator, with the map origin in the grid center.
func degreeGrid(t *testing.T, cols, rows int) *Def {
	t.Helper()
	p, err := proj.New(proj.Params{
		Kind:              "Cylindrical Equidistant",
		EquatorialRadius:  180 / math.Pi,
		HaveEquatorialRad: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	d, err := NewDef(p, Config{
		Cols: cols, Rows: rows,
		MapOriginCol: float64(cols-1) / 2,
		MapOriginRow: float64(rows-1) / 2,
	})
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestForwardInverse(t *testing.T) {
	d := degreeGrid(t, 21, 11)
	cases := []struct {
		lat, lon float64
		col, row float64
	}{
		{0, 0, 10, 5},
		{0, 10, 20, 5},
		{5, -10, 0, 0},
		{-5, 10, 20, 10},
		{2.5, -2.5, 7.5, 2.5},
	}
	for _, c := range cases {
		col, row, ok := d.Forward(c.lat, c.lon)
		if !ok {
			t.Errorf("forward(%g,%g): invalid", c.lat, c.lon)
			continue
		}
		if math.Abs(col-c.col) > 1e-9 || math.Abs(row-c.row) > 1e-9 {
			t.Errorf("forward(%g,%g) = (%g,%g), want (%g,%g)",
				c.lat, c.lon, col, row, c.col, c.row)
		}
		lat, lon, ok := d.Inverse(c.col, c.row)
		if !ok {
			t.Errorf("inverse(%g,%g): invalid", c.col, c.row)
			continue
		}
		if math.Abs(lat-c.lat) > 1e-9 || math.Abs(lon-c.lon) > 1e-9 {
			t.Errorf("inverse(%g,%g) = (%g,%g), want (%g,%g)",
				c.col, c.row, lat, lon, c.lat, c.lon)
		}
	}
}

func TestForwardOutsideGrid(t *testing.T) {
	d := degreeGrid(t, 21, 11)
	for _, pt := range [][2]float64{{0, 11}, {0, -11}, {6, 0}, {-6, 0}} {
		if _, _, ok := d.Forward(pt[0], pt[1]); ok {
			t.Errorf("forward(%g,%g) should be off-grid", pt[0], pt[1])
		}
	}
	// ForwardUnchecked still reports the off-grid position.
	col, _, ok := d.ForwardUnchecked(0, 11)
	if !ok || math.Abs(col-21) > 1e-9 {
		t.Errorf("unchecked forward(0,11) = %g, want 21", col)
	}
}

func TestContainsAndExtent(t *testing.T) {
	d := degreeGrid(t, 4, 4)
	if !d.Contains(-0.5, 0, 0) || d.Contains(3.5, 0, 0) {
		t.Error("containment window should be [-0.5, cols-0.5)")
	}
	if !d.Contains(4.2, 4.2, 1) {
		t.Error("rind of 1 should admit (4.2,4.2)")
	}
	b := d.Extent(2)
	if b.Min.X != -2.5 || b.Max.Y != 5.5 {
		t.Errorf("extent with rind 2 = %+v", b)
	}
}

func TestInverseRevalidatesBounds(t *testing.T) {
	p, err := proj.New(proj.Params{
		Kind:              "Cylindrical Equidistant",
		EquatorialRadius:  180 / math.Pi,
		HaveEquatorialRad: true,
		South:             -2, North: 2, West: -2, East: 2,
		HaveBounds: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	d, err := NewDef(p, Config{Cols: 21, Rows: 21, MapOriginCol: 10, MapOriginRow: 10})
	if err != nil {
		t.Fatal(err)
	}
	if _, _, ok := d.Inverse(10, 10); !ok {
		t.Error("center should invert")
	}
	// Cell (0,10) is longitude -10, outside the declared bounds.
	if _, _, ok := d.Inverse(0, 10); ok {
		t.Error("inverse outside declared bounds should be invalid")
	}
}

func TestNewDefValidation(t *testing.T) {
	p, err := proj.New(proj.Params{Kind: "Mercator"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewDef(p, Config{Cols: 0, Rows: 10}); err == nil {
		t.Error("zero width should be rejected")
	}
	if _, err := NewDef(p, Config{Cols: 10, Rows: 10, ColsPerMapUnit: -1}); err == nil {
		t.Error("negative cell scale should be rejected")
	}
	if _, err := NewDef(nil, Config{Cols: 10, Rows: 10}); err == nil {
		t.Error("nil projection should be rejected")
	}
}

func TestFromMap(t *testing.T) {
	d, err := FromMap(map[string]string{
		"Map Projection":                "Polar Stereographic",
		"Map Reference Latitude":        "90",
		"Map Reference Longitude":       "-45",
		"Map Second Reference Latitude": "70",
		"Grid Width":                    "304",
		"Grid Height":                   "448",
		"Grid Map Origin Column":        "151.5",
		"Grid Map Origin Row":           "223.5",
		"Grid Map Units Per Cell":       "25",
	})
	if err != nil {
		t.Fatal(err)
	}
	if d.Cols != 304 || d.Rows != 448 {
		t.Errorf("dimensions %dx%d, want 304x448", d.Cols, d.Rows)
	}
	if math.Abs(d.ColsPerMapUnit-0.04) > 1e-12 {
		t.Errorf("cols per map unit = %g, want 0.04", d.ColsPerMapUnit)
	}
	col, row, ok := d.Forward(90, 0)
	if !ok {
		t.Fatal("the pole should be on this grid")
	}
	if math.Abs(col-151.5) > 1e-9 || math.Abs(row-223.5) > 1e-9 {
		t.Errorf("pole at (%g,%g), want (151.5,223.5)", col, row)
	}
}

func TestFromMapMixedCellScale(t *testing.T) {
	// A per-axis key wins over the reciprocal form for its own axis;
	// the reciprocal only covers the axis left unset.
	d, err := FromMap(map[string]string{
		"Map Projection":          "Mercator",
		"Grid Width":              "10",
		"Grid Height":             "10",
		"Grid Map Units Per Cell": "25",
		"Grid Rows Per Map Unit":  "0.1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(d.ColsPerMapUnit-0.04) > 1e-12 {
		t.Errorf("cols per map unit = %g, want 0.04", d.ColsPerMapUnit)
	}
	if math.Abs(d.RowsPerMapUnit-0.1) > 1e-12 {
		t.Errorf("rows per map unit = %g, want 0.1", d.RowsPerMapUnit)
	}
}

func TestFromMapKeyNormalization(t *testing.T) {
	d, err := FromMap(map[string]string{
		"MAP_PROJECTION": "mercator",
		"grid-width":     "10",
		"Grid  Height":   "20",
	})
	if err != nil {
		t.Fatal(err)
	}
	if d.Cols != 10 || d.Rows != 20 {
		t.Errorf("dimensions %dx%d, want 10x20", d.Cols, d.Rows)
	}
	if d.ColsPerMapUnit != 1 || d.MapOriginCol != 0 {
		t.Error("defaults should be cells-per-map-unit 1, origin 0")
	}
}

func TestFromMapErrors(t *testing.T) {
	cases := []map[string]string{
		{"Grid Width": "10", "Grid Height": "10"},                              // no projection
		{"Map Projection": "Mercator", "Grid Height": "10"},                    // no width
		{"Map Projection": "No Such Projection", "Grid Width": "1", "Grid Height": "1"},
		{"Map Projection": "Mercator", "Grid Width": "x", "Grid Height": "10"}, // bad number
	}
	for i, kv := range cases {
		if _, err := FromMap(kv); err == nil {
			t.Errorf("case %d: expected an error", i)
		}
	}
}
