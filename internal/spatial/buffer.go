package spatial

import (
	"github.com/paulmach/orb"
)

// Buffered is a polygon expanded by a fixed distance in projected meters.
// Membership is exact: a point is inside when it lies in the projected source
// polygon or within Meters of its boundary.
type Buffered struct {
	Projected  orb.MultiPolygon
	Meters     float64
	Projection Mercator
}

// BufferMeters projects a geographic mp with proj and buffers it by meters.
// Negative distances are treated as zero.
func BufferMeters(mp orb.MultiPolygon, meters float64, proj Mercator) Buffered {
	if meters < 0 {
		meters = 0
	}
	return Buffered{
		Projected:  proj.ProjectMultiPolygon(mp),
		Meters:     meters,
		Projection: proj,
	}
}

// Core returns the unbuffered source polygon after the projection round trip.
func (b Buffered) Core() orb.MultiPolygon {
	return b.Projection.UnprojectMultiPolygon(b.Projected)
}

// Bound is the geographic bounding box of the buffered area.
func (b Buffered) Bound() orb.Bound {
	pb := b.Projected.Bound().Pad(b.Meters)
	return orb.Bound{
		Min: b.Projection.Inverse(pb.Min),
		Max: b.Projection.Inverse(pb.Max),
	}
}

// Intersects reports whether the geographic point p falls in the buffered area.
func (b Buffered) Intersects(p orb.Point) bool {
	return WithinDistance(b.Projected, b.Projection.Forward(p), b.Meters)
}
