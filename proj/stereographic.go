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

import "math"

// polarStereographic is the sphere-model polar stereographic projection.
// The sign of Lat1 selects the pole; |Lat1| is the latitude of true scale.
func polarStereographic(p *Projection) (forward, inverse transformer, err error) {
	s := sign(p.lat1)
	sinLat1 := math.Abs(p.sinLat1)

	forward = func(lat, lon float64) (x, y float64, ok bool) {
		dLon := adjustLon(lon - p.lon0)
		rho := p.rg * (1 + sinLat1) * math.Tan(math.Pi/4-s*lat/2)
		x = rho * math.Sin(dLon)
		y = -s * rho * math.Cos(dLon)
		return x, y, true
	}

	inverse = func(x, y float64) (lat, lon float64, ok bool) {
		rho := math.Hypot(x, y)
		if rho < epsilon {
			// the pole: radius zero, longitude defined as the reference
			return s * math.Pi / 2, p.lon0, true
		}
		lat = s * (math.Pi/2 - 2*math.Atan(rho/(p.rg*(1+sinLat1))))
		lon = adjustLon(p.lon0 + math.Atan2(x, -s*y))
		return lat, lon, true
	}
	return forward, inverse, nil
}

// polarStereographicEllipsoid is the ellipsoid-model polar stereographic
// projection. The inverse recovers geodetic latitude from conformal
// latitude with the eighth-order eccentricity series.
func polarStereographicEllipsoid(p *Projection) (forward, inverse transformer, err error) {
	s := sign(p.lat1)
	lat1 := math.Abs(p.lat1)
	sinLat1 := math.Abs(p.sinLat1)
	c2, c4, c6, c8 := p.conformalCoefficients()

	// Scale constant: either true at the pole itself or at the standard
	// parallel |Lat1|.
	var rhoFactor float64
	if math.Pi/2-lat1 < epsilon {
		rhoFactor = 2 * p.rg / math.Sqrt(math.Pow(1+p.e, 1+p.e)*math.Pow(1-p.e, 1-p.e))
	} else {
		mc := msfnz(p.e, sinLat1, p.cosLat1)
		tc := tsfnz(p.e, lat1, sinLat1)
		rhoFactor = p.rg * mc / tc
	}

	forward = func(lat, lon float64) (x, y float64, ok bool) {
		dLon := adjustLon(lon - p.lon0)
		t := tsfnz(p.e, s*lat, s*math.Sin(lat))
		rho := rhoFactor * t
		x = rho * math.Sin(dLon)
		y = -s * rho * math.Cos(dLon)
		return x, y, true
	}

	inverse = func(x, y float64) (lat, lon float64, ok bool) {
		rho := math.Hypot(x, y)
		if rho < epsilon {
			return s * math.Pi / 2, p.lon0, true
		}
		t := rho / rhoFactor
		chi := math.Pi/2 - 2*math.Atan(t)
		lat = s * latFromConformal(chi, c2, c4, c6, c8)
		lon = adjustLon(p.lon0 + math.Atan2(x, -s*y))
		return lat, lon, true
	}
	return forward, inverse, nil
}

func init() {
	register(polarStereographic,
		"Polar Stereographic", "polarstereo")
	register(polarStereographicEllipsoid,
		"Polar Stereographic (Ellipsoid)", "Polar Stereographic Ellipsoid")
}
