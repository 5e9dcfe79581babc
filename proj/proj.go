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

// Package proj transforms geographic coordinates to and from map-plane
// coordinates for a closed set of map projections, including sphere and
// ellipsoid variants. All internal math is in float64 radians; the public
// interface is in degrees and map units.
package proj

import (
	"fmt"
	"math"
	"strings"
)

// Default ellipsoid (Clarke 1866, radius in kilometers).
const (
	DefaultEquatorialRadius = 6378.2064
	DefaultEccentricity     = 0.082271673
)

const epsilon = 1e-11

// Params describes a map projection. Zero-valued fields take the
// documented defaults when passed to New.
type Params struct {
	// Kind names the projection. Matching is insensitive to case,
	// spaces, underscores, hyphens, and parentheses, and historical
	// alias spellings are accepted.
	Kind string

	// Lat0 and Lon0 are the reference latitude and longitude, in
	// degrees. For azimuthal projections this is the projection center;
	// for conics it is the first standard parallel.
	Lat0, Lon0 float64

	// Lat1 and Lon1 are the second reference latitude and longitude,
	// used by projections with a standard parallel or second standard
	// parallel. They default to Lat0 and Lon0.
	Lat1, Lon1 float64
	HaveLat1   bool
	HaveLon1   bool

	// Rotation is a clockwise map-plane rotation in degrees.
	Rotation float64

	// Scale divides the equatorial radius to give the map unit.
	// Default 1.
	Scale float64

	// Eccentricity and EquatorialRadius describe the ellipsoid.
	// Defaults are the Clarke 1866 values above. Sphere-model
	// projections ignore Eccentricity.
	Eccentricity      float64
	HaveEccentricity  bool
	EquatorialRadius  float64
	HaveEquatorialRad bool

	// Geographic validity bounds in degrees. Default to the full
	// sphere. West and East are normalized into [-180,180]; a declared
	// west > east straddles the antimeridian.
	South, North float64
	West, East   float64
	HaveBounds   bool

	// CenterLat and CenterLon locate the map origin: the geographic
	// point that maps to (0,0). They default to Lat0 and Lon0, and may
	// be set independently of the reference point.
	CenterLat, CenterLon float64
	HaveCenter           bool
}

// A transformer converts one coordinate pair to another, reporting ok=false
// for points with no defined image (out of domain, or a solver that did
// not converge).
type transformer func(a, b float64) (c, d float64, ok bool)

// An initializer computes a projection kind's derived constants and
// returns its raw forward (lat,lon radians -> x,y map units) and inverse
// transformers.
type initializer func(p *Projection) (forward, inverse transformer, err error)

var kinds = map[string]initializer{}

// register adds a projection kind under its canonical name and aliases.
func register(init initializer, names ...string) {
	for _, n := range names {
		kinds[canonicalName(n)] = init
	}
}

// canonicalName strips spaces, underscores, hyphens, and parentheses and
// uppercases, so that historical spellings of one projection compare equal.
func canonicalName(name string) string {
	r := strings.NewReplacer(" ", "", "_", "", "-", "", "(", "", ")", "")
	return strings.ToUpper(r.Replace(name))
}

// Projection is an initialized bidirectional transform between geographic
// coordinates and map-plane coordinates. It is immutable after New.
type Projection struct {
	params Params

	// reference and second reference point, radians
	lat0, lon0, lat1, lon1 float64
	sinLat0, cosLat0       float64
	sinLat1, cosLat1       float64

	// ellipsoid
	e, e2, e4, e6, e8 float64

	// map-unit radius
	rg float64

	// rotation matrix and map origin offset
	t00, t01, t10, t11 float64
	u0, v0             float64

	// normalized bounds, degrees
	south, north, west, east float64
	straddle                 bool

	forward transformer
	inverse transformer
}

// New initializes a projection, computing all derived constants exactly
// once. It returns an error for an unknown kind or invalid parameters,
// with no partial state constructed.
func New(params Params) (*Projection, error) {
	init, ok := kinds[canonicalName(params.Kind)]
	if !ok {
		return nil, fmt.Errorf("proj: unknown projection %q", params.Kind)
	}

	if params.Scale == 0 {
		params.Scale = 1
	}
	if params.Scale < 0 {
		return nil, fmt.Errorf("proj: scale must be positive, got %g", params.Scale)
	}
	if !params.HaveEquatorialRad {
		params.EquatorialRadius = DefaultEquatorialRadius
	}
	if params.EquatorialRadius <= 0 {
		return nil, fmt.Errorf("proj: equatorial radius must be positive, got %g", params.EquatorialRadius)
	}
	if !params.HaveEccentricity {
		params.Eccentricity = DefaultEccentricity
	}
	if params.Eccentricity < 0 || params.Eccentricity >= 1 {
		return nil, fmt.Errorf("proj: eccentricity %g outside [0,1)", params.Eccentricity)
	}
	if !params.HaveLat1 {
		params.Lat1 = params.Lat0
	}
	if !params.HaveLon1 {
		params.Lon1 = params.Lon0
	}
	if !params.HaveBounds {
		params.South, params.North = -90, 90
		params.West, params.East = -180, 180
	}
	if !params.HaveCenter {
		params.CenterLat, params.CenterLon = params.Lat0, params.Lon0
	}

	if params.South > params.North {
		return nil, fmt.Errorf("proj: south bound %g exceeds north bound %g", params.South, params.North)
	}
	if span := params.East - params.West; span > 360 {
		return nil, fmt.Errorf("proj: longitude span %g exceeds 360 degrees", span)
	}

	p := &Projection{
		params: params,
		lat0:   radians(params.Lat0),
		lon0:   radians(params.Lon0),
		lat1:   radians(params.Lat1),
		lon1:   radians(params.Lon1),
		e:      params.Eccentricity,
		rg:     params.EquatorialRadius / params.Scale,
		south:  params.South,
		north:  params.North,
	}
	p.sinLat0, p.cosLat0 = math.Sincos(p.lat0)
	p.sinLat1, p.cosLat1 = math.Sincos(p.lat1)
	p.e2 = p.e * p.e
	p.e4 = p.e2 * p.e2
	p.e6 = p.e4 * p.e2
	p.e8 = p.e4 * p.e4

	if params.East-params.West >= 360 {
		p.west, p.east = -180, 180
	} else {
		p.west = normalizeLon(params.West)
		p.east = normalizeLon(params.East)
		p.straddle = p.west > p.east
	}

	fwd, inv, err := init(p)
	if err != nil {
		return nil, err
	}
	p.forward, p.inverse = fwd, inv

	// The rotation matrix and origin offset are applied on top of the
	// raw per-kind transform, so the map origin and the projection
	// reference point stay independently configurable.
	theta := radians(params.Rotation)
	sinTheta, cosTheta := math.Sincos(theta)
	p.t00, p.t01 = cosTheta, sinTheta
	p.t10, p.t11 = -sinTheta, cosTheta

	x, y, ok := fwd(radians(params.CenterLat), radians(params.CenterLon))
	if !ok {
		return nil, fmt.Errorf("proj: map origin (%g,%g) is not projectable",
			params.CenterLat, params.CenterLon)
	}
	p.u0 = p.t00*x + p.t01*y
	p.v0 = p.t10*x + p.t11*y

	return p, nil
}

// Params returns a copy of the parameters the projection was built from,
// with defaults filled in.
func (p *Projection) Params() Params { return p.params }

// Forward transforms geographic degrees to origin-relative map-plane
// coordinates. ok is false when the point has no defined image.
func (p *Projection) Forward(lat, lon float64) (u, v float64, ok bool) {
	x, y, ok := p.forward(radians(lat), radians(lon))
	if !ok {
		return 0, 0, false
	}
	u = p.t00*x + p.t01*y - p.u0
	v = p.t10*x + p.t11*y - p.v0
	return u, v, true
}

// Inverse transforms origin-relative map-plane coordinates back to
// geographic degrees. ok is false when the point has no defined preimage.
// The result is not bounds-checked; callers that need validity against the
// declared bounds follow up with Within.
func (p *Projection) Inverse(u, v float64) (lat, lon float64, ok bool) {
	u += p.u0
	v += p.v0
	x := p.t00*u + p.t10*v
	y := p.t01*u + p.t11*v
	phi, lam, ok := p.inverse(x, y)
	if !ok {
		return 0, 0, false
	}
	return degrees(phi), normalizeLon(degrees(lam)), true
}

// Within reports whether a geographic point in degrees lies inside the
// declared bounds, honoring an antimeridian-straddling longitude range.
func (p *Projection) Within(lat, lon float64) bool {
	if lat < p.south || lat > p.north {
		return false
	}
	lon = normalizeLon(lon)
	if p.straddle {
		return lon >= p.west || lon <= p.east
	}
	return lon >= p.west && lon <= p.east
}

// Straddle reports whether the declared longitude bounds cross the
// antimeridian.
func (p *Projection) Straddle() bool { return p.straddle }
