package dataset

import (
	"github.com/paulmach/orb"
)

// School is one row of the school table. Row is the zero-based data row and
// serves as the row identity in joins.
type School struct {
	Row       int               `json:"row"`
	Name      string            `json:"name"`
	Latitude  float64           `json:"latitude"`
	Longitude float64           `json:"longitude"`
	Extra     map[string]string `json:"extra,omitempty"`
}

// Point returns the school location as lon/lat.
func (s School) Point() orb.Point {
	return orb.Point{s.Longitude, s.Latitude}
}

// Region is the state outline.
type Region struct {
	Name       string           `json:"name"`
	Geometry   orb.MultiPolygon `json:"-"`
	Properties map[string]any   `json:"properties,omitempty"`
}

// HazardZone is one polygon feature from the hazard layer. Its attributes are
// carried through unchanged.
type HazardZone struct {
	Index      int              `json:"index"`
	Geometry   orb.MultiPolygon `json:"-"`
	Properties map[string]any   `json:"properties,omitempty"`
}
