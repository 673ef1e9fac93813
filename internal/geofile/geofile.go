// Package geofile reads polygon layers (region outlines, hazard zones) from
// GeoJSON documents and ESRI shapefiles into orb geometries.
package geofile

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb"
	"github.com/rotisserie/eris"
)

// ErrUnsupportedFormat is returned for layer files with an unknown extension.
var ErrUnsupportedFormat = eris.New("geofile: unsupported layer format")

// ErrNoPolygons is returned when a layer contains no polygonal features.
var ErrNoPolygons = eris.New("geofile: layer has no polygon features")

// Feature is one polygonal feature and its attributes.
type Feature struct {
	Geometry   orb.MultiPolygon
	Properties map[string]any
}

// ReadLayer reads the polygon features in path, choosing the decoder by extension.
func ReadLayer(path string) ([]Feature, error) {
	var (
		features []Feature
		err      error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		data, rerr := os.ReadFile(path)
		if rerr != nil {
			return nil, eris.Wrapf(rerr, "geofile: read %s", path)
		}
		features, err = ParseGeoJSON(data)
	case ".shp":
		features, err = ReadShapefile(path)
	default:
		return nil, eris.Wrapf(ErrUnsupportedFormat, "geofile: %s", path)
	}
	if err != nil {
		return nil, err
	}

	if len(features) == 0 {
		return nil, eris.Wrapf(ErrNoPolygons, "geofile: %s", path)
	}
	return features, nil
}

// AsMultiPolygon returns g as a MultiPolygon. Non-areal geometries report false.
func AsMultiPolygon(g orb.Geometry) (orb.MultiPolygon, bool) {
	switch v := g.(type) {
	case orb.Polygon:
		if len(v) == 0 {
			return nil, false
		}
		return orb.MultiPolygon{v}, true
	case orb.MultiPolygon:
		if len(v) == 0 {
			return nil, false
		}
		return v, true
	case orb.Collection:
		var mp orb.MultiPolygon
		for _, sub := range v {
			if part, ok := AsMultiPolygon(sub); ok {
				mp = append(mp, part...)
			}
		}
		return mp, len(mp) > 0
	default:
		return nil, false
	}
}
