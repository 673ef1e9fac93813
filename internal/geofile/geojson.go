package geofile

import (
	"encoding/json"
	"strings"

	"github.com/paulmach/orb/geojson"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ParseGeoJSON decodes a FeatureCollection, a single Feature or a bare geometry.
// Non-polygon features are skipped.
func ParseGeoJSON(data []byte) ([]Feature, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, eris.Wrap(err, "geofile: decode geojson")
	}

	var raw []*geojson.Feature
	switch strings.ToLower(head.Type) {
	case "featurecollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, eris.Wrap(err, "geofile: decode feature collection")
		}
		raw = fc.Features
	case "feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, eris.Wrap(err, "geofile: decode feature")
		}
		raw = []*geojson.Feature{f}
	case "":
		return nil, eris.New("geofile: geojson document has no type")
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, eris.Wrap(err, "geofile: decode geometry")
		}
		raw = []*geojson.Feature{geojson.NewFeature(g.Geometry())}
	}

	features := make([]Feature, 0, len(raw))
	var skipped int
	for _, f := range raw {
		if f == nil || f.Geometry == nil {
			skipped++
			continue
		}
		mp, ok := AsMultiPolygon(f.Geometry)
		if !ok {
			skipped++
			continue
		}
		props := make(map[string]any, len(f.Properties))
		for k, v := range f.Properties {
			props[k] = v
		}
		features = append(features, Feature{Geometry: mp, Properties: props})
	}

	if skipped > 0 {
		zap.L().Debug("geofile: skipped non-polygon features", zap.Int("skipped", skipped))
	}

	return features, nil
}
