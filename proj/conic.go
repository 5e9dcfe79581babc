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

// Conic projections take Lat0 and Lat1 as the two standard parallels and
// Lon0 as the central meridian. The raw map plane puts y=0 at the cone
// apex; the map origin offset shifts it to the configured origin.

// lambertConformalConic is the ellipsoid-model Lambert conformal conic
// projection.
func lambertConformalConic(p *Projection) (forward, inverse transformer, err error) {
	if math.Abs(p.lat0+p.lat1) < epsilon && math.Abs(p.lat0-p.lat1) > epsilon {
		return nil, nil, fmt.Errorf("proj: lambert conformal standard parallels %g and %g are opposite",
			p.params.Lat0, p.params.Lat1)
	}
	m1 := msfnz(p.e, p.sinLat0, p.cosLat0)
	t1 := tsfnz(p.e, p.lat0, p.sinLat0)
	var n float64
	if math.Abs(p.lat0-p.lat1) > epsilon {
		m2 := msfnz(p.e, p.sinLat1, p.cosLat1)
		t2 := tsfnz(p.e, p.lat1, p.sinLat1)
		n = math.Log(m1/m2) / math.Log(t1/t2)
	} else {
		n = p.sinLat0
	}
	if math.Abs(n) < epsilon {
		return nil, nil, fmt.Errorf("proj: lambert conformal cone constant vanishes at parallels %g, %g",
			p.params.Lat0, p.params.Lat1)
	}
	f := m1 / (n * math.Pow(t1, n))
	c2, c4, c6, c8 := p.conformalCoefficients()
	s := sign(n)

	forward = func(lat, lon float64) (x, y float64, ok bool) {
		if math.Pi/2-math.Abs(lat) < epsilon && sign(lat) != s {
			return 0, 0, false // the pole opposite the cone apex
		}
		t := tsfnz(p.e, lat, math.Sin(lat))
		rho := p.rg * f * math.Pow(t, n)
		theta := n * adjustLon(lon-p.lon0)
		x = rho * math.Sin(theta)
		y = -rho * math.Cos(theta)
		return x, y, true
	}

	inverse = func(x, y float64) (lat, lon float64, ok bool) {
		rho := s * math.Hypot(x, y)
		if math.Abs(rho) < epsilon {
			// cone apex: radius zero, reference longitude by convention
			return s * math.Pi / 2, p.lon0, true
		}
		theta := math.Atan2(s*x, -s*y)
		t := math.Pow(rho/(p.rg*f), 1/n)
		chi := math.Pi/2 - 2*math.Atan(t)
		lat = latFromConformal(chi, c2, c4, c6, c8)
		lon = adjustLon(p.lon0 + theta/n)
		return lat, lon, true
	}
	return forward, inverse, nil
}

// albersConicEqualArea is the sphere-model Albers conic equal-area
// projection.
func albersConicEqualArea(p *Projection) (forward, inverse transformer, err error) {
	if math.Abs(p.lat0+p.lat1) < epsilon && math.Abs(p.lat0-p.lat1) > epsilon {
		return nil, nil, fmt.Errorf("proj: albers standard parallels %g and %g are opposite",
			p.params.Lat0, p.params.Lat1)
	}
	n := (p.sinLat0 + p.sinLat1) / 2
	if math.Abs(n) < epsilon {
		return nil, nil, fmt.Errorf("proj: albers cone constant vanishes at parallels %g, %g",
			p.params.Lat0, p.params.Lat1)
	}
	c := p.cosLat0*p.cosLat0 + 2*n*p.sinLat0
	s := sign(n)

	forward = func(lat, lon float64) (x, y float64, ok bool) {
		arg := c - 2*n*math.Sin(lat)
		if arg < 0 {
			return 0, 0, false
		}
		rho := p.rg * math.Sqrt(arg) / n
		theta := n * adjustLon(lon-p.lon0)
		x = rho * math.Sin(theta)
		y = -rho * math.Cos(theta)
		return x, y, true
	}

	inverse = func(x, y float64) (lat, lon float64, ok bool) {
		rho := s * math.Hypot(x, y)
		theta := math.Atan2(s*x, -s*y)
		con := rho * n / p.rg
		arg := (c - con*con) / (2 * n)
		if math.Abs(arg) > 1 {
			return 0, 0, false
		}
		lat = math.Asin(arg)
		if math.Abs(rho) < epsilon {
			return lat, p.lon0, true
		}
		lon = adjustLon(p.lon0 + theta/n)
		return lat, lon, true
	}
	return forward, inverse, nil
}

// albersConicEqualAreaEllipsoid is the ellipsoid-model Albers conic
// equal-area projection. The inverse uses the iterative equal-area
// latitude solver; a per-point convergence failure invalidates only that
// point.
func albersConicEqualAreaEllipsoid(p *Projection) (forward, inverse transformer, err error) {
	if math.Abs(p.lat0+p.lat1) < epsilon && math.Abs(p.lat0-p.lat1) > epsilon {
		return nil, nil, fmt.Errorf("proj: albers standard parallels %g and %g are opposite",
			p.params.Lat0, p.params.Lat1)
	}
	m1 := msfnz(p.e, p.sinLat0, p.cosLat0)
	q1 := qsfnz(p.e, p.sinLat0)
	var n float64
	if math.Abs(p.lat0-p.lat1) > epsilon {
		m2 := msfnz(p.e, p.sinLat1, p.cosLat1)
		q2 := qsfnz(p.e, p.sinLat1)
		n = (m1*m1 - m2*m2) / (q2 - q1)
	} else {
		n = p.sinLat0
	}
	if math.Abs(n) < epsilon {
		return nil, nil, fmt.Errorf("proj: albers cone constant vanishes at parallels %g, %g",
			p.params.Lat0, p.params.Lat1)
	}
	c := m1*m1 + n*q1
	s := sign(n)

	forward = func(lat, lon float64) (x, y float64, ok bool) {
		q := qsfnz(p.e, math.Sin(lat))
		arg := c - n*q
		if arg < 0 {
			return 0, 0, false
		}
		rho := p.rg * math.Sqrt(arg) / n
		theta := n * adjustLon(lon-p.lon0)
		x = rho * math.Sin(theta)
		y = -rho * math.Cos(theta)
		return x, y, true
	}

	inverse = func(x, y float64) (lat, lon float64, ok bool) {
		rho := s * math.Hypot(x, y)
		theta := math.Atan2(s*x, -s*y)
		con := rho * n / p.rg
		q := (c - con*con) / n
		lat, err := phi1qz(p.e, q)
		if err != nil {
			return 0, 0, false
		}
		if math.Abs(rho) < epsilon {
			return lat, p.lon0, true
		}
		lon = adjustLon(p.lon0 + theta/n)
		return lat, lon, true
	}
	return forward, inverse, nil
}

func init() {
	register(lambertConformalConic,
		"Lambert Conformal Conic (Ellipsoid)", "Lambert Conic Conformal (Ellipsoid)",
		"Lambert Conformal Conic", "lcc")
	register(albersConicEqualArea,
		"Albers Conic Equal-Area", "Albers Conic Equal Area", "Albers Equal-Area Conic")
	register(albersConicEqualAreaEllipsoid,
		"Albers Conic Equal-Area (Ellipsoid)", "Albers Conic Equal Area Ellipsoid",
		"Albers Equal-Area Conic (Ellipsoid)")
}
