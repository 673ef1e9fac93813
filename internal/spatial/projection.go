// Package spatial holds the planar geometry operations behind the analysis
// modes: World Mercator projection, buffering, containment predicates and
// point-to-polygon spatial joins.
package spatial

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// Mercator is an ellipsoidal Mercator projection (EPSG:3395 when built on WGS84).
type Mercator struct {
	A float64 // semi-major axis, meters
	E float64 // first eccentricity
}

// WorldMercator is EPSG:3395 on the WGS84 ellipsoid.
var WorldMercator = Mercator{A: 6378137.0, E: 0.0818191908426215}

// maxLatitude keeps the projection finite near the poles.
const maxLatitude = 89.5

// Forward maps lon/lat degrees to projected meters.
func (m Mercator) Forward(p orb.Point) orb.Point {
	lat := math.Max(-maxLatitude, math.Min(maxLatitude, p.Lat()))
	phi := lat * math.Pi / 180
	lambda := p.Lon() * math.Pi / 180

	esin := m.E * math.Sin(phi)
	y := m.A * math.Log(math.Tan(math.Pi/4+phi/2)*math.Pow((1-esin)/(1+esin), m.E/2))
	return orb.Point{m.A * lambda, y}
}

// Inverse maps projected meters back to lon/lat degrees.
func (m Mercator) Inverse(p orb.Point) orb.Point {
	t := math.Exp(-p.Y() / m.A)
	phi := math.Pi/2 - 2*math.Atan(t)
	for i := 0; i < 15; i++ {
		esin := m.E * math.Sin(phi)
		next := math.Pi/2 - 2*math.Atan(t*math.Pow((1-esin)/(1+esin), m.E/2))
		if math.Abs(next-phi) < 1e-12 {
			phi = next
			break
		}
		phi = next
	}
	return orb.Point{p.X() / m.A * 180 / math.Pi, phi * 180 / math.Pi}
}

// ProjectMultiPolygon returns a projected copy of mp; the input is not modified.
func (m Mercator) ProjectMultiPolygon(mp orb.MultiPolygon) orb.MultiPolygon {
	return project.MultiPolygon(mp.Clone(), m.Forward)
}

// UnprojectMultiPolygon returns a geographic copy of a projected mp.
func (m Mercator) UnprojectMultiPolygon(mp orb.MultiPolygon) orb.MultiPolygon {
	return project.MultiPolygon(mp.Clone(), m.Inverse)
}
