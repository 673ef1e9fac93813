package spatial

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// DegreesFromKm converts a distance to degrees with a flat km-per-degree
// factor. The error grows with latitude and distance; no geodesic correction
// is applied.
func DegreesFromKm(km, kmPerDegree float64) float64 {
	if km <= 0 || kmPerDegree <= 0 {
		return 0
	}
	return km / kmPerDegree
}

// WithinCircle reports whether p lies strictly inside the circle of the given
// radius around center, measured in the coordinates' own units. Points on the
// circle are outside, so a zero radius never matches.
func WithinCircle(center, p orb.Point, radius float64) bool {
	if radius <= 0 {
		return false
	}
	return planar.Distance(center, p) < radius
}

// IntersectsPoint reports whether p lies in mp or on its boundary.
func IntersectsPoint(mp orb.MultiPolygon, p orb.Point) bool {
	for _, poly := range mp {
		if planar.PolygonContains(poly, p) {
			return true
		}
	}
	// PolygonContains treats a point on a hole's edge as outside.
	return DistanceToBoundary(mp, p) == 0
}

// DistanceToBoundary is the smallest distance from p to any ring edge of mp.
// It returns +Inf for an empty geometry.
func DistanceToBoundary(mp orb.MultiPolygon, p orb.Point) float64 {
	best := math.Inf(1)
	for _, poly := range mp {
		for _, ring := range poly {
			n := len(ring)
			if n == 0 {
				continue
			}
			if n == 1 {
				best = math.Min(best, planar.Distance(ring[0], p))
				continue
			}
			for i := 0; i < n-1; i++ {
				best = math.Min(best, planar.DistanceFromSegment(ring[i], ring[i+1], p))
			}
			if ring[0] != ring[n-1] {
				best = math.Min(best, planar.DistanceFromSegment(ring[n-1], ring[0], p))
			}
		}
	}
	return best
}

// WithinDistance reports whether p is in mp or no farther than d from it.
func WithinDistance(mp orb.MultiPolygon, p orb.Point, d float64) bool {
	if IntersectsPoint(mp, p) {
		return true
	}
	return d > 0 && DistanceToBoundary(mp, p) <= d
}
