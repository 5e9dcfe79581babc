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
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/ssec/swathgrid/proj"
)

// FromMap builds a grid definition from an already-parsed key to value
// mapping. The declarative text format it came from is the loader's
// business; this function only interprets the keys.
//
// Recognized keys (matching is insensitive to case and to spaces,
// underscores, and hyphens):
//
//	grid width, grid height                    (required)
//	grid map origin column, grid map origin row
//	grid cells per map unit
//	grid columns per map unit, grid rows per map unit
//	grid map units per cell                    (reciprocal form)
//	map projection                             (required)
//	map reference latitude, map reference longitude
//	map second reference latitude, map second reference longitude
//	map rotation, map scale
//	map origin latitude, map origin longitude
//	map southern bound, map northern bound
//	map western bound, map eastern bound
//	map eccentricity, map equatorial radius
func FromMap(kv map[string]string) (*Def, error) {
	m := make(map[string]string, len(kv))
	for k, v := range kv {
		m[normalizeKey(k)] = strings.TrimSpace(v)
	}

	var pp proj.Params
	var err error

	pp.Kind, err = requireString(m, "map projection")
	if err != nil {
		return nil, err
	}
	if pp.Lat0, err = floatKey(m, "map reference latitude", 0); err != nil {
		return nil, err
	}
	if pp.Lon0, err = floatKey(m, "map reference longitude", 0); err != nil {
		return nil, err
	}
	if v, ok := m["map second reference latitude"]; ok {
		if pp.Lat1, err = toFloat("map second reference latitude", v); err != nil {
			return nil, err
		}
		pp.HaveLat1 = true
	}
	if v, ok := m["map second reference longitude"]; ok {
		if pp.Lon1, err = toFloat("map second reference longitude", v); err != nil {
			return nil, err
		}
		pp.HaveLon1 = true
	}
	if pp.Rotation, err = floatKey(m, "map rotation", 0); err != nil {
		return nil, err
	}
	if pp.Scale, err = floatKey(m, "map scale", 1); err != nil {
		return nil, err
	}
	if v, ok := m["map eccentricity"]; ok {
		if pp.Eccentricity, err = toFloat("map eccentricity", v); err != nil {
			return nil, err
		}
		pp.HaveEccentricity = true
	}
	if v, ok := m["map equatorial radius"]; ok {
		if pp.EquatorialRadius, err = toFloat("map equatorial radius", v); err != nil {
			return nil, err
		}
		pp.HaveEquatorialRad = true
	}

	_, hasSouth := m["map southern bound"]
	_, hasNorth := m["map northern bound"]
	_, hasWest := m["map western bound"]
	_, hasEast := m["map eastern bound"]
	if hasSouth || hasNorth || hasWest || hasEast {
		pp.HaveBounds = true
		if pp.South, err = floatKey(m, "map southern bound", -90); err != nil {
			return nil, err
		}
		if pp.North, err = floatKey(m, "map northern bound", 90); err != nil {
			return nil, err
		}
		if pp.West, err = floatKey(m, "map western bound", -180); err != nil {
			return nil, err
		}
		if pp.East, err = floatKey(m, "map eastern bound", 180); err != nil {
			return nil, err
		}
	}

	_, hasOriginLat := m["map origin latitude"]
	_, hasOriginLon := m["map origin longitude"]
	if hasOriginLat || hasOriginLon {
		pp.HaveCenter = true
		if pp.CenterLat, err = floatKey(m, "map origin latitude", pp.Lat0); err != nil {
			return nil, err
		}
		if pp.CenterLon, err = floatKey(m, "map origin longitude", pp.Lon0); err != nil {
			return nil, err
		}
	}

	p, err := proj.New(pp)
	if err != nil {
		return nil, err
	}

	var c Config
	width, err := requireString(m, "grid width")
	if err != nil {
		return nil, err
	}
	if c.Cols, err = toInt("grid width", width); err != nil {
		return nil, err
	}
	height, err := requireString(m, "grid height")
	if err != nil {
		return nil, err
	}
	if c.Rows, err = toInt("grid height", height); err != nil {
		return nil, err
	}
	if c.MapOriginCol, err = floatKey(m, "grid map origin column", 0); err != nil {
		return nil, err
	}
	if c.MapOriginRow, err = floatKey(m, "grid map origin row", 0); err != nil {
		return nil, err
	}

	// Cell scale: a shared value, per-axis values, or the reciprocal
	// map-units-per-cell form, in that order of precedence.
	perUnit, err := floatKey(m, "grid cells per map unit", 0)
	if err != nil {
		return nil, err
	}
	c.ColsPerMapUnit, c.RowsPerMapUnit = perUnit, perUnit
	if c.ColsPerMapUnit, err = floatKey(m, "grid columns per map unit", c.ColsPerMapUnit); err != nil {
		return nil, err
	}
	if c.RowsPerMapUnit, err = floatKey(m, "grid rows per map unit", c.RowsPerMapUnit); err != nil {
		return nil, err
	}
	if v, ok := m["grid map units per cell"]; ok && (c.ColsPerMapUnit == 0 || c.RowsPerMapUnit == 0) {
		unitsPerCell, err := toFloat("grid map units per cell", v)
		if err != nil {
			return nil, err
		}
		if unitsPerCell <= 0 {
			return nil, fmt.Errorf("grid: map units per cell %g must be positive", unitsPerCell)
		}
		// The reciprocal form only fills in axes the per-unit keys
		// left unset.
		if c.ColsPerMapUnit == 0 {
			c.ColsPerMapUnit = 1 / unitsPerCell
		}
		if c.RowsPerMapUnit == 0 {
			c.RowsPerMapUnit = 1 / unitsPerCell
		}
	}

	return NewDef(p, c)
}

func normalizeKey(k string) string {
	r := strings.NewReplacer("_", " ", "-", " ")
	return strings.Join(strings.Fields(strings.ToLower(r.Replace(k))), " ")
}

func requireString(m map[string]string, key string) (string, error) {
	v, ok := m[key]
	if !ok || v == "" {
		return "", fmt.Errorf("grid: missing required field %q", key)
	}
	return v, nil
}

func floatKey(m map[string]string, key string, def float64) (float64, error) {
	v, ok := m[key]
	if !ok {
		return def, nil
	}
	return toFloat(key, v)
}

func toFloat(key, v string) (float64, error) {
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, fmt.Errorf("grid: field %q: %v", key, err)
	}
	return f, nil
}

func toInt(key, v string) (int, error) {
	i, err := cast.ToIntE(v)
	if err != nil {
		return 0, fmt.Errorf("grid: field %q: %v", key, err)
	}
	return i, nil
}
