package spatial

import "github.com/paulmach/orb"

// Pair is one row of an inner spatial join: a point index and a zone index.
type Pair struct {
	Point int
	Zone  int
}

// JoinPoints performs an inner join of points against zones. The result holds
// one Pair per matching (point, zone) combination, ordered by point then zone,
// so a point inside several overlapping zones appears several times.
func JoinPoints(points []orb.Point, zones int, match func(p orb.Point, zone int) bool) []Pair {
	var pairs []Pair
	for i, p := range points {
		for z := 0; z < zones; z++ {
			if match(p, z) {
				pairs = append(pairs, Pair{Point: i, Zone: z})
			}
		}
	}
	return pairs
}

// ExcludePoints drops every pair whose point index appears in exclude.
func ExcludePoints(pairs, exclude []Pair) []Pair {
	if len(exclude) == 0 {
		return pairs
	}
	drop := make(map[int]struct{}, len(exclude))
	for _, p := range exclude {
		drop[p.Point] = struct{}{}
	}
	out := make([]Pair, 0, len(pairs))
	for _, p := range pairs {
		if _, ok := drop[p.Point]; ok {
			continue
		}
		out = append(out, p)
	}
	return out
}
