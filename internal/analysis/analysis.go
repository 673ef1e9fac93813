// Package analysis runs the four map analyses over a loaded dataset. Every
// mode is a pure function from the dataset and request to a Plan of render
// instructions; nothing here mutates the dataset.
package analysis

import (
	"fmt"
	"iter"
	"slices"
	"strconv"

	"github.com/paulmach/orb/geojson"
	"github.com/rotisserie/eris"

	"github.com/sells-group/schoolmap/internal/dataset"
	"github.com/sells-group/schoolmap/internal/render"
	"github.com/sells-group/schoolmap/internal/spatial"
)

// DefaultKmPerDegree is the flat conversion used for the access radius. It
// ignores the shrinking of longitude degrees away from the equator.
const DefaultKmPerDegree = 111.0

// Status values in the hazard table.
const (
	StatusInZone   = "in zone"
	StatusNearZone = "near zone"
)

// Request is one user interaction.
type Request struct {
	Mode      Mode
	Latitude  float64
	Longitude float64
	RadiusKm  int
	BufferKm  int
}

// Options carries settings that do not change between requests.
type Options struct {
	KmPerDegree float64
	Projection  spatial.Mercator
	Weather     render.Embed
}

// DefaultOptions returns the flat 111 km degree, World Mercator and the
// Windy embed at 1200x700 inside a 1500x900 frame.
func DefaultOptions() Options {
	return Options{
		KmPerDegree: DefaultKmPerDegree,
		Projection:  spatial.WorldMercator,
		Weather: render.Embed{
			URL:         WindyURL,
			Width:       1200,
			Height:      700,
			FrameWidth:  1500,
			FrameHeight: 900,
		},
	}
}

func (o Options) withDefaults() Options {
	if o.KmPerDegree <= 0 {
		o.KmPerDegree = DefaultKmPerDegree
	}
	if o.Projection.A <= 0 {
		o.Projection = spatial.WorldMercator
	}
	return o
}

// Match is one result row. Zone is -1 outside the hazard analysis.
type Match struct {
	School dataset.School
	Zone   int
	Status string
}

// Plan is the output of one analysis: what to draw, what to list and, for the
// weather mode, what to embed.
type Plan struct {
	Mode         Mode
	Title        string
	Description  string
	Instructions []render.Instruction
	Matches      []Match
	Table        *render.Table
	Embed        *render.Embed
}

// All yields the draw instructions in order.
func (p *Plan) All() iter.Seq[render.Instruction] {
	return slices.Values(p.Instructions)
}

// Markers returns only the marker instructions.
func (p *Plan) Markers() []render.Marker {
	var out []render.Marker
	for _, ins := range p.Instructions {
		if m, ok := ins.(render.Marker); ok {
			out = append(out, m)
		}
	}
	return out
}

// Run dispatches req to the analysis for its mode.
func Run(ds *dataset.Dataset, req Request, opts Options) (*Plan, error) {
	if !req.Mode.Valid() {
		return nil, eris.Wrapf(ErrUnknownMode, "analysis: run mode %d", int(req.Mode))
	}
	if ds == nil && req.Mode != ModeWeather {
		return nil, eris.New("analysis: dataset not loaded")
	}

	switch req.Mode {
	case ModeAccess:
		return Access(ds, req.Latitude, req.Longitude, req.RadiusKm, opts), nil
	case ModeHazard:
		return Hazard(ds, req.BufferKm, opts), nil
	case ModeWeather:
		return Weather(opts), nil
	default:
		return ViewSchools(ds), nil
	}
}

func regionLayer(ds *dataset.Dataset) render.Polygons {
	region := ds.Region()
	f := geojson.NewFeature(region.Geometry)
	for k, v := range region.Properties {
		f.Properties[k] = v
	}
	return render.NewPolygons(region.Name, nil, f)
}

func schoolMarker(s dataset.School, color, icon, popup string) render.Marker {
	return render.Marker{Lat: s.Latitude, Lon: s.Longitude, Color: color, Icon: icon, Popup: popup}
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func schoolRow(s dataset.School) []string {
	return []string{s.Name, formatCoord(s.Latitude), formatCoord(s.Longitude)}
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
