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

const (
	// 2*sqrt(2)/pi and sqrt(2): the Mollweide axis constants.
	mollweideXScale = 0.900316316157106
	mollweideYScale = math.Sqrt2

	mollweideIterations = 10
)

// solveMollweideTheta solves theta + sin(theta) = pi*sin(lat) by
// Newton-Raphson with a fixed iteration cap. The returned angle is
// half-theta, as used by the plotting equations. ok is false when the
// iteration did not converge within the cap.
func solveMollweideTheta(lat float64, maxIter int) (theta float64, ok bool) {
	c := math.Pi * math.Sin(lat)
	theta = lat
	for i := 0; i < maxIter; i++ {
		delta := -(theta + math.Sin(theta) - c) / (1 + math.Cos(theta))
		theta += delta
		if math.Abs(delta) < epsilon {
			return theta / 2, true
		}
	}
	// The derivative vanishes at the poles; accept the boundary value
	// there rather than reporting non-convergence.
	if math.Pi/2-math.Abs(lat) < epsilon {
		return sign(lat) * math.Pi / 2, true
	}
	return 0, false
}

// mollweide is the sphere-model Mollweide (homolographic) equal-area
// projection.
func mollweide(p *Projection) (forward, inverse transformer, err error) {
	forward = func(lat, lon float64) (x, y float64, ok bool) {
		theta, ok := solveMollweideTheta(lat, mollweideIterations)
		if !ok {
			return 0, 0, false
		}
		x = p.rg * mollweideXScale * adjustLon(lon-p.lon0) * math.Cos(theta)
		y = p.rg * mollweideYScale * math.Sin(theta)
		return x, y, true
	}

	inverse = func(x, y float64) (lat, lon float64, ok bool) {
		arg := y / (p.rg * mollweideYScale)
		if math.Abs(arg) > 1 {
			return 0, 0, false
		}
		theta := math.Asin(arg)
		lat = asinClamped((2*theta + math.Sin(2*theta)) / math.Pi)
		cosTheta := math.Cos(theta)
		if cosTheta < epsilon {
			// pole: the whole edge maps to the reference meridian
			return lat, p.lon0, true
		}
		lon = p.lon0 + x/(p.rg*mollweideXScale*cosTheta)
		if lon < -math.Pi-epsilon || lon > math.Pi+epsilon {
			return 0, 0, false
		}
		return lat, adjustLon(lon), true
	}
	return forward, inverse, nil
}

func init() {
	register(mollweide, "Mollweide", "Homolographic")
}
