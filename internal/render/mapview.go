package render

import (
	"encoding/json"
	"html/template"
	"iter"
	"maps"
	"strings"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rotisserie/eris"
)

// MapOptions positions and sizes the map widget.
type MapOptions struct {
	CenterLat   float64
	CenterLon   float64
	Zoom        int
	Width       int
	Height      int
	TileURL     string
	Attribution string
}

// DefaultMapOptions centers on Tamil Nadu at zoom 7 in a 700x500 frame.
func DefaultMapOptions() MapOptions {
	return MapOptions{
		CenterLat:   14,
		CenterLon:   81,
		Zoom:        7,
		Width:       700,
		Height:      500,
		TileURL:     "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
		Attribution: "&copy; OpenStreetMap contributors",
	}
}

// MapView collects the layers and markers of one rendered map.
type MapView struct {
	ID      string
	Options MapOptions

	layers  []Polygons
	markers []Marker
}

// NewMapView returns an empty map. Zero-valued size and tile options fall back
// to DefaultMapOptions.
func NewMapView(opts MapOptions) *MapView {
	def := DefaultMapOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.TileURL == "" {
		opts.TileURL = def.TileURL
		if opts.Attribution == "" {
			opts.Attribution = def.Attribution
		}
	}
	return &MapView{
		ID:      "map_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		Options: opts,
	}
}

// Add draws one instruction.
func (m *MapView) Add(ins Instruction) {
	switch v := ins.(type) {
	case Marker:
		m.markers = append(m.markers, v)
	case Polygons:
		m.layers = append(m.layers, v)
	}
}

// Draw consumes seq in order and returns the number of instructions drawn.
func (m *MapView) Draw(seq iter.Seq[Instruction]) int {
	var n int
	for ins := range seq {
		m.Add(ins)
		n++
	}
	return n
}

// Markers returns the drawn markers in draw order.
func (m *MapView) Markers() []Marker { return append([]Marker(nil), m.markers...) }

// Layers returns the drawn polygon layers in draw order.
func (m *MapView) Layers() []Polygons { return append([]Polygons(nil), m.layers...) }

// FeatureCollection flattens the map into one GeoJSON document: every polygon
// feature tagged with its layer name, then every marker as a Point feature.
func (m *MapView) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, l := range m.layers {
		if l.Features == nil {
			continue
		}
		for _, f := range l.Features.Features {
			out := geojson.NewFeature(f.Geometry)
			maps.Copy(out.Properties, f.Properties)
			out.Properties["layer"] = l.Name
			if l.Style != nil {
				out.Properties["fill"] = l.Style.FillColor
				out.Properties["stroke"] = l.Style.Color
				out.Properties["fill-opacity"] = l.Style.FillOpacity
			}
			fc.Append(out)
		}
	}
	for _, mk := range m.markers {
		f := geojson.NewFeature(orb.Point{mk.Lon, mk.Lat})
		f.Properties["layer"] = "markers"
		f.Properties["marker-color"] = mk.Color
		f.Properties["icon"] = mk.Icon
		f.Properties["popup"] = mk.Popup
		fc.Append(f)
	}
	return fc
}

type layerPayload struct {
	Name    string                     `json:"name"`
	Style   *Style                     `json:"style,omitempty"`
	GeoJSON *geojson.FeatureCollection `json:"geojson"`
}

type mapPayload struct {
	ID          string         `json:"id"`
	Center      [2]float64     `json:"center"`
	Zoom        int            `json:"zoom"`
	TileURL     string         `json:"tileURL"`
	Attribution string         `json:"attribution"`
	Layers      []layerPayload `json:"layers"`
	Markers     []Marker       `json:"markers"`
}

// Script returns the map state as a JSON literal for the page script.
func (m *MapView) Script() (template.JS, error) {
	p := mapPayload{
		ID:          m.ID,
		Center:      [2]float64{m.Options.CenterLat, m.Options.CenterLon},
		Zoom:        m.Options.Zoom,
		TileURL:     m.Options.TileURL,
		Attribution: m.Options.Attribution,
		Layers:      make([]layerPayload, 0, len(m.layers)),
		Markers:     m.markers,
	}
	if p.Markers == nil {
		p.Markers = []Marker{}
	}
	for _, l := range m.layers {
		p.Layers = append(p.Layers, layerPayload{Name: l.Name, Style: l.Style, GeoJSON: l.Features})
	}
	return toJS(p)
}

func toJS(v any) (template.JS, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", eris.Wrap(err, "render: marshal map state")
	}
	return template.JS(b), nil //nolint:gosec // json.Marshal escapes <, > and &
}
