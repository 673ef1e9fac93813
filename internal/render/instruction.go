// Package render turns analysis output into a Leaflet map page, GeoJSON and
// plain tables.
package render

import (
	"github.com/paulmach/orb/geojson"
)

// Marker colors understood by Leaflet.awesome-markers.
const (
	ColorBlue   = "blue"
	ColorRed    = "red"
	ColorGreen  = "green"
	ColorOrange = "orange"
)

// Glyphicon names used for markers.
const (
	IconInfo    = "info-sign"
	IconHome    = "home"
	IconWarning = "warning"
)

// Instruction is a single drawing step for a MapView. It is implemented by
// Marker and Polygons only.
type Instruction interface {
	instruction()
}

// Marker is a point with a colored icon and a popup label.
type Marker struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Color string  `json:"color"`
	Icon  string  `json:"icon"`
	Popup string  `json:"popup"`
}

func (Marker) instruction() {}

// Style is the Leaflet path style for a polygon layer.
type Style struct {
	FillColor   string  `json:"fillColor,omitempty"`
	Color       string  `json:"color,omitempty"`
	FillOpacity float64 `json:"fillOpacity,omitempty"`
}

// HazardStyle is the red fill used for hazard zones.
var HazardStyle = Style{FillColor: "red", Color: "red", FillOpacity: 0.5}

// Polygons is a named GeoJSON layer. A nil Style draws with Leaflet defaults.
type Polygons struct {
	Name     string
	Features *geojson.FeatureCollection
	Style    *Style
}

func (Polygons) instruction() {}

// NewPolygons builds a layer from features.
func NewPolygons(name string, style *Style, features ...*geojson.Feature) Polygons {
	fc := geojson.NewFeatureCollection()
	for _, f := range features {
		fc.Append(f)
	}
	return Polygons{Name: name, Features: fc, Style: style}
}
