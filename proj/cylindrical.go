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

package proj

import (
	"fmt"
	"math"
)

// cylindricalEquidistant is the plate carrée with a standard parallel at
// Lat1: meridians and the parallel at Lat1 are true to scale.
func cylindricalEquidistant(p *Projection) (forward, inverse transformer, err error) {
	cosLat1 := p.cosLat1
	if cosLat1 < epsilon {
		return nil, nil, fmt.Errorf("proj: cylindrical equidistant standard parallel %g is a pole", p.params.Lat1)
	}

	forward = func(lat, lon float64) (x, y float64, ok bool) {
		x = p.rg * cosLat1 * adjustLon(lon-p.lon0)
		y = p.rg * lat
		return x, y, true
	}

	inverse = func(x, y float64) (lat, lon float64, ok bool) {
		lat = y / p.rg
		if math.Abs(lat) > math.Pi/2 {
			return 0, 0, false
		}
		lon = adjustLon(p.lon0 + x/(p.rg*cosLat1))
		return lat, lon, true
	}
	return forward, inverse, nil
}

// mercator is the spherical Mercator with a standard parallel at Lat1.
func mercator(p *Projection) (forward, inverse transformer, err error) {
	cosLat1 := p.cosLat1
	if cosLat1 < epsilon {
		return nil, nil, fmt.Errorf("proj: mercator standard parallel %g is a pole", p.params.Lat1)
	}

	forward = func(lat, lon float64) (x, y float64, ok bool) {
		if math.Pi/2-math.Abs(lat) < epsilon {
			return 0, 0, false // poles map to infinity
		}
		x = p.rg * cosLat1 * adjustLon(lon-p.lon0)
		y = p.rg * cosLat1 * math.Log(math.Tan(math.Pi/4+lat/2))
		return x, y, true
	}

	inverse = func(x, y float64) (lat, lon float64, ok bool) {
		lat = math.Pi/2 - 2*math.Atan(math.Exp(-y/(p.rg*cosLat1)))
		lon = adjustLon(p.lon0 + x/(p.rg*cosLat1))
		return lat, lon, true
	}
	return forward, inverse, nil
}

// sinusoidal is the sphere-model sinusoidal equal-area projection.
func sinusoidal(p *Projection) (forward, inverse transformer, err error) {
	forward = func(lat, lon float64) (x, y float64, ok bool) {
		x = p.rg * adjustLon(lon-p.lon0) * math.Cos(lat)
		y = p.rg * lat
		return x, y, true
	}

	inverse = func(x, y float64) (lat, lon float64, ok bool) {
		lat = y / p.rg
		if math.Abs(lat) > math.Pi/2 {
			return 0, 0, false
		}
		cosLat := math.Cos(lat)
		if cosLat < epsilon {
			// at the pole every x collapses to the reference meridian
			return lat, p.lon0, true
		}
		lon = adjustLon(p.lon0 + x/(p.rg*cosLat))
		return lat, lon, true
	}
	return forward, inverse, nil
}

// cylindricalEqualArea is the sphere-model Lambert cylindrical equal-area
// projection with a standard parallel at Lat1.
func cylindricalEqualArea(p *Projection) (forward, inverse transformer, err error) {
	cosLat1 := p.cosLat1
	if cosLat1 < epsilon {
		return nil, nil, fmt.Errorf("proj: cylindrical equal-area standard parallel %g is a pole", p.params.Lat1)
	}

	forward = func(lat, lon float64) (x, y float64, ok bool) {
		x = p.rg * cosLat1 * adjustLon(lon-p.lon0)
		y = p.rg * math.Sin(lat) / cosLat1
		return x, y, true
	}

	inverse = func(x, y float64) (lat, lon float64, ok bool) {
		arg := y * cosLat1 / p.rg
		if math.Abs(arg) > 1 {
			return 0, 0, false
		}
		lat = math.Asin(arg)
		lon = adjustLon(p.lon0 + x/(p.rg*cosLat1))
		return lat, lon, true
	}
	return forward, inverse, nil
}

// cylindricalEqualAreaEllipsoid is the ellipsoid-model cylindrical
// equal-area projection. The inverse recovers geodetic latitude from
// authalic latitude with a trigonometric series.
func cylindricalEqualAreaEllipsoid(p *Projection) (forward, inverse transformer, err error) {
	if p.cosLat1 < epsilon {
		return nil, nil, fmt.Errorf("proj: cylindrical equal-area standard parallel %g is a pole", p.params.Lat1)
	}
	k0 := msfnz(p.e, p.sinLat1, p.cosLat1)
	qp := qsfnz(p.e, 1)
	a2, a4, a6 := p.authalicCoefficients()

	forward = func(lat, lon float64) (x, y float64, ok bool) {
		x = p.rg * k0 * adjustLon(lon-p.lon0)
		y = p.rg * qsfnz(p.e, math.Sin(lat)) / (2 * k0)
		return x, y, true
	}

	inverse = func(x, y float64) (lat, lon float64, ok bool) {
		arg := 2 * y * k0 / (p.rg * qp)
		if math.Abs(arg) > 1 {
			return 0, 0, false
		}
		beta := math.Asin(arg)
		lat = latFromAuthalic(beta, a2, a4, a6)
		lon = adjustLon(p.lon0 + x/(p.rg*k0))
		return lat, lon, true
	}
	return forward, inverse, nil
}

func init() {
	register(cylindricalEquidistant,
		"Cylindrical Equidistant", "Cylindrical Equal Distance",
		"Equirectangular", "Plate Carree", "cylequidistant")
	register(mercator, "Mercator")
	register(sinusoidal, "Sinusoidal")
	register(cylindricalEqualArea,
		"Cylindrical Equal-Area", "Cylindrical Equal Area")
	register(cylindricalEqualAreaEllipsoid,
		"Cylindrical Equal-Area (Ellipsoid)", "Cylindrical Equal Area Ellipsoid")
}
