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

// Goode interrupted homolosine constants. The projection is sinusoidal
// equatorward of 40°44'11.8" and Mollweide poleward, with the Mollweide
// lobes shifted so the two halves meet.
const (
	homolosineLatBreak   = 0.710987989993 // 40°44'11.8" in radians
	homolosineYOffset    = 0.052803527454 // Mollweide shift, in sphere radii
	homolosineIterations = 30
)

// Lobe central meridians, radians. Even-numbered entries pair with the
// Mollweide (polar) parts, odd-numbered with the sinusoidal (equatorial)
// parts of the same lobes.
var homolosineCenter = [12]float64{
	radians(-100), radians(-100), radians(30), radians(30),
	radians(-160), radians(-60), radians(-160), radians(-60),
	radians(20), radians(140), radians(20), radians(140),
}

// homolosineRegion picks the interruption lobe containing a geographic
// point (radians).
func homolosineRegion(lat, lon float64) int {
	switch {
	case lat >= homolosineLatBreak:
		if lon <= radians(-40) {
			return 0
		}
		return 2
	case lat >= 0:
		if lon <= radians(-40) {
			return 1
		}
		return 3
	case lat >= -homolosineLatBreak:
		switch {
		case lon <= radians(-100):
			return 4
		case lon <= radians(-20):
			return 5
		case lon <= radians(80):
			return 8
		default:
			return 9
		}
	default:
		switch {
		case lon <= radians(-100):
			return 6
		case lon <= radians(-20):
			return 7
		case lon <= radians(80):
			return 10
		default:
			return 11
		}
	}
}

// homolosineMollweide reports whether a lobe uses the Mollweide equations.
func homolosineMollweide(region int) bool {
	switch region {
	case 0, 2, 6, 7, 10, 11:
		return true
	}
	return false
}

// interruptedHomolosine is the sphere-model Goode interrupted homolosine
// equal-area projection. Lon0 rotates the whole interruption scheme.
func interruptedHomolosine(p *Projection) (forward, inverse transformer, err error) {
	forward = func(lat, lon float64) (x, y float64, ok bool) {
		lon = adjustLon(lon - p.lon0)
		region := homolosineRegion(lat, lon)
		dLon := adjustLon(lon - homolosineCenter[region])

		if !homolosineMollweide(region) {
			x = p.rg * dLon * math.Cos(lat)
			y = p.rg * lat
		} else {
			theta, ok := solveMollweideTheta(lat, homolosineIterations)
			if !ok {
				return 0, 0, false
			}
			x = p.rg * mollweideXScale * dLon * math.Cos(theta)
			y = p.rg * (mollweideYScale*math.Sin(theta) - homolosineYOffset*sign(lat))
		}
		x += p.rg * homolosineCenter[region]
		return x, y, true
	}

	inverse = func(x, y float64) (lat, lon float64, ok bool) {
		// Pick the lobe from the plotted position; the y break is the
		// arc length of the break latitude in both part projections.
		var region int
		switch {
		case y >= p.rg*homolosineLatBreak:
			if x <= p.rg*radians(-40) {
				region = 0
			} else {
				region = 2
			}
		case y >= 0:
			if x <= p.rg*radians(-40) {
				region = 1
			} else {
				region = 3
			}
		case y >= -p.rg*homolosineLatBreak:
			switch {
			case x <= p.rg*radians(-100):
				region = 4
			case x <= p.rg*radians(-20):
				region = 5
			case x <= p.rg*radians(80):
				region = 8
			default:
				region = 9
			}
		default:
			switch {
			case x <= p.rg*radians(-100):
				region = 6
			case x <= p.rg*radians(-20):
				region = 7
			case x <= p.rg*radians(80):
				region = 10
			default:
				region = 11
			}
		}
		x -= p.rg * homolosineCenter[region]

		if !homolosineMollweide(region) {
			lat = y / p.rg
			if math.Abs(lat) > math.Pi/2 {
				return 0, 0, false
			}
			cosLat := math.Cos(lat)
			if cosLat < epsilon {
				lon = homolosineCenter[region]
			} else {
				lon = homolosineCenter[region] + x/(p.rg*cosLat)
			}
		} else {
			arg := (y/p.rg + homolosineYOffset*sign(y)) / mollweideYScale
			if math.Abs(arg) > 1 {
				return 0, 0, false
			}
			theta := math.Asin(arg)
			lat = asinClamped((2*theta + math.Sin(2*theta)) / math.Pi)
			cosTheta := math.Cos(theta)
			if cosTheta < epsilon {
				lon = homolosineCenter[region]
			} else {
				lon = homolosineCenter[region] + x/(p.rg*mollweideXScale*cosTheta)
			}
		}
		if lon < -math.Pi-epsilon || lon > math.Pi+epsilon {
			return 0, 0, false
		}
		lon = adjustLon(lon)

		// Points in the breaks between lobes have no preimage. The
		// comparison is by lobe center so that roundoff at the
		// sinusoidal/Mollweide seam cannot invalidate a real point.
		if homolosineCenter[homolosineRegion(lat, lon)] != homolosineCenter[region] {
			return 0, 0, false
		}
		return lat, adjustLon(lon + p.lon0), true
	}
	return forward, inverse, nil
}

func init() {
	register(interruptedHomolosine,
		"Interrupted Homolosine Equal-Area", "Interrupted Homolosine Equal Area",
		"Interrupted Homolosine", "Goode Homolosine", "Goodes Homolosine")
}
