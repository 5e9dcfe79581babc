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

func radians(deg float64) float64 { return deg * math.Pi / 180 }
func degrees(rad float64) float64 { return rad * 180 / math.Pi }

// normalizeLon wraps a longitude in degrees into [-180,180].
func normalizeLon(lon float64) float64 {
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return lon
}

// adjustLon wraps a longitude in radians into [-pi,pi].
func adjustLon(lon float64) float64 {
	for lon > math.Pi {
		lon -= 2 * math.Pi
	}
	for lon < -math.Pi {
		lon += 2 * math.Pi
	}
	return lon
}

// asinClamped is asin with its argument clamped to [-1,1], for arguments
// that drift out of range by floating roundoff only.
func asinClamped(x float64) float64 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}
	return math.Asin(x)
}

// sign returns 1 for non-negative x and -1 otherwise.
func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

// msfnz computes the small-m constant: the radius of a parallel of
// latitude divided by the semimajor axis.
func msfnz(e, sinPhi, cosPhi float64) float64 {
	con := e * sinPhi
	return cosPhi / math.Sqrt(1-con*con)
}

// qsfnz computes the small-q constant used by equal-area ellipsoid
// projections.
func qsfnz(e, sinPhi float64) float64 {
	if e < epsilon {
		return 2 * sinPhi
	}
	con := e * sinPhi
	return (1 - e*e) * (sinPhi/(1-con*con) - 0.5/e*math.Log((1-con)/(1+con)))
}

// tsfnz computes the small-t constant used by conformal ellipsoid
// projections.
func tsfnz(e, phi, sinPhi float64) float64 {
	con := e * sinPhi
	com := math.Pow((1-con)/(1+con), e/2)
	return math.Tan(math.Pi/4-phi/2) / com
}

// conformalCoefficients returns the sin(2chi)..sin(8chi) series
// coefficients for recovering geodetic latitude from conformal latitude.
// The series is carried to the eighth power of the eccentricity.
func (p *Projection) conformalCoefficients() (c2, c4, c6, c8 float64) {
	c2 = p.e2/2 + 5*p.e4/24 + p.e6/12 + 13*p.e8/360
	c4 = 7*p.e4/48 + 29*p.e6/240 + 811*p.e8/11520
	c6 = 7*p.e6/120 + 81*p.e8/1120
	c8 = 4279 * p.e8 / 161280
	return
}

// latFromConformal converts conformal latitude chi to geodetic latitude
// using the precomputed series coefficients.
func latFromConformal(chi, c2, c4, c6, c8 float64) float64 {
	return chi +
		c2*math.Sin(2*chi) +
		c4*math.Sin(4*chi) +
		c6*math.Sin(6*chi) +
		c8*math.Sin(8*chi)
}

// authalicCoefficients returns the sin(2beta)..sin(6beta) series
// coefficients for recovering geodetic latitude from authalic latitude.
func (p *Projection) authalicCoefficients() (a2, a4, a6 float64) {
	a2 = p.e2/3 + 31*p.e4/180 + 517*p.e6/5040
	a4 = 23*p.e4/360 + 251*p.e6/3780
	a6 = 761 * p.e6 / 45360
	return
}

// latFromAuthalic converts authalic latitude beta to geodetic latitude
// using the precomputed series coefficients.
func latFromAuthalic(beta, a2, a4, a6 float64) float64 {
	return beta +
		a2*math.Sin(2*beta) +
		a4*math.Sin(4*beta) +
		a6*math.Sin(6*beta)
}

// phi1qz iteratively recovers the latitude with equal-area constant q.
// Used by the conic equal-area ellipsoid inverse.
func phi1qz(e, q float64) (float64, error) {
	phi := asinClamped(0.5 * q)
	if e < epsilon {
		return phi, nil
	}
	e2 := e * e
	for i := 0; i < 25; i++ {
		sinPhi, cosPhi := math.Sincos(phi)
		con := e * sinPhi
		com := 1 - con*con
		dPhi := 0.5 * com * com / cosPhi *
			(q/(1-e2) - sinPhi/com + 0.5/e*math.Log((1-con)/(1+con)))
		phi += dPhi
		if math.Abs(dPhi) <= 1e-10 {
			return phi, nil
		}
	}
	return math.NaN(), fmt.Errorf("proj: equal-area latitude iteration did not converge for q=%g", q)
}
