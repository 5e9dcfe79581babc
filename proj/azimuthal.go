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

// azimuthalEqualArea is the sphere-model Lambert azimuthal equal-area
// projection centered on (Lat0, Lon0).
func azimuthalEqualArea(p *Projection) (forward, inverse transformer, err error) {
	forward = func(lat, lon float64) (x, y float64, ok bool) {
		dLon := adjustLon(lon - p.lon0)
		sinLat, cosLat := math.Sincos(lat)
		g := 1 + p.sinLat0*sinLat + p.cosLat0*cosLat*math.Cos(dLon)
		if g < epsilon {
			return 0, 0, false // antipode of the projection center
		}
		k := math.Sqrt(2 / g)
		x = p.rg * k * cosLat * math.Sin(dLon)
		y = p.rg * k * (p.cosLat0*sinLat - p.sinLat0*cosLat*math.Cos(dLon))
		return x, y, true
	}

	inverse = func(x, y float64) (lat, lon float64, ok bool) {
		rho := math.Hypot(x, y)
		if rho < epsilon {
			return p.lat0, p.lon0, true
		}
		if rho > 2*p.rg {
			return 0, 0, false
		}
		c := 2 * asinClamped(rho/(2*p.rg))
		sinC, cosC := math.Sincos(c)
		lat = asinClamped(cosC*p.sinLat0 + y*sinC*p.cosLat0/rho)
		lon = adjustLon(p.lon0 + math.Atan2(x*sinC, rho*p.cosLat0*cosC-y*p.sinLat0*sinC))
		return lat, lon, true
	}
	return forward, inverse, nil
}

// azimuthalEqualAreaEllipsoid is the ellipsoid-model Lambert azimuthal
// equal-area projection. The polar aspects use the exact closed forms;
// the oblique aspect works through authalic latitude.
func azimuthalEqualAreaEllipsoid(p *Projection) (forward, inverse transformer, err error) {
	qp := qsfnz(p.e, 1)
	a2, a4, a6 := p.authalicCoefficients()

	if math.Pi/2-math.Abs(p.lat0) < epsilon { // polar aspect
		s := sign(p.lat0)

		forward = func(lat, lon float64) (x, y float64, ok bool) {
			dLon := adjustLon(lon - p.lon0)
			q := qsfnz(p.e, math.Sin(lat))
			arg := qp - s*q
			if arg < 0 {
				arg = 0
			}
			rho := p.rg * math.Sqrt(arg)
			x = rho * math.Sin(dLon)
			y = -s * rho * math.Cos(dLon)
			return x, y, true
		}

		inverse = func(x, y float64) (lat, lon float64, ok bool) {
			rho := math.Hypot(x, y)
			if rho < epsilon {
				// the pole itself; by convention the reference longitude
				return p.lat0, p.lon0, true
			}
			q := s * (qp - rho*rho/(p.rg*p.rg))
			if math.Abs(q) > qp {
				return 0, 0, false
			}
			beta := asinClamped(q / qp)
			lat = latFromAuthalic(beta, a2, a4, a6)
			lon = adjustLon(p.lon0 + math.Atan2(x, -s*y))
			return lat, lon, true
		}
		return forward, inverse, nil
	}

	// oblique (or equatorial) aspect
	sinBeta0 := qsfnz(p.e, p.sinLat0) / qp
	beta0 := asinClamped(sinBeta0)
	cosBeta0 := math.Cos(beta0)
	m0 := msfnz(p.e, p.sinLat0, p.cosLat0)
	rq := p.rg * math.Sqrt(qp/2)
	d := p.rg * m0 / (rq * cosBeta0)

	forward = func(lat, lon float64) (x, y float64, ok bool) {
		dLon := adjustLon(lon - p.lon0)
		sinBeta := qsfnz(p.e, math.Sin(lat)) / qp
		beta := asinClamped(sinBeta)
		cosBeta := math.Cos(beta)
		g := 1 + sinBeta0*sinBeta + cosBeta0*cosBeta*math.Cos(dLon)
		if g < epsilon {
			return 0, 0, false
		}
		b := rq * math.Sqrt(2/g)
		x = b * d * cosBeta * math.Sin(dLon)
		y = b / d * (cosBeta0*sinBeta - sinBeta0*cosBeta*math.Cos(dLon))
		return x, y, true
	}

	inverse = func(x, y float64) (lat, lon float64, ok bool) {
		xd := x / d
		yd := y * d
		rho := math.Hypot(xd, yd)
		if rho < epsilon {
			return p.lat0, p.lon0, true
		}
		if rho > 2*rq {
			return 0, 0, false
		}
		ce := 2 * asinClamped(rho/(2*rq))
		sinCe, cosCe := math.Sincos(ce)
		beta := asinClamped(cosCe*sinBeta0 + yd*sinCe*cosBeta0/rho)
		lat = latFromAuthalic(beta, a2, a4, a6)
		lon = adjustLon(p.lon0 + math.Atan2(xd*sinCe, rho*cosBeta0*cosCe-yd*sinBeta0*sinCe))
		return lat, lon, true
	}
	return forward, inverse, nil
}

// orthographic is the sphere-model orthographic projection centered on
// (Lat0, Lon0); only the visible hemisphere is projectable.
func orthographic(p *Projection) (forward, inverse transformer, err error) {
	forward = func(lat, lon float64) (x, y float64, ok bool) {
		dLon := adjustLon(lon - p.lon0)
		sinLat, cosLat := math.Sincos(lat)
		cosC := p.sinLat0*sinLat + p.cosLat0*cosLat*math.Cos(dLon)
		if cosC < 0 {
			return 0, 0, false // behind the horizon
		}
		x = p.rg * cosLat * math.Sin(dLon)
		y = p.rg * (p.cosLat0*sinLat - p.sinLat0*cosLat*math.Cos(dLon))
		return x, y, true
	}

	inverse = func(x, y float64) (lat, lon float64, ok bool) {
		rho := math.Hypot(x, y)
		if rho < epsilon {
			return p.lat0, p.lon0, true
		}
		if rho > p.rg {
			return 0, 0, false
		}
		sinC := rho / p.rg
		cosC := math.Sqrt(1 - sinC*sinC)
		lat = asinClamped(cosC*p.sinLat0 + y*sinC*p.cosLat0/rho)
		lon = adjustLon(p.lon0 + math.Atan2(x*sinC, rho*p.cosLat0*cosC-y*p.sinLat0*sinC))
		return lat, lon, true
	}
	return forward, inverse, nil
}

func init() {
	register(azimuthalEqualArea,
		"Azimuthal Equal-Area", "Azimuthal Equal Area",
		"Lambert Azimuthal Equal-Area", "laea")
	register(azimuthalEqualAreaEllipsoid,
		"Azimuthal Equal-Area (Ellipsoid)", "Azimuthal Equal Area Ellipsoid",
		"Equal Area (Ellipsoid)")
	register(orthographic, "Orthographic")
}
