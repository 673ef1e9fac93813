package geofile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hazardCollection = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"hazard": "flood", "level": 3},
     "geometry": {"type": "Polygon", "coordinates": [[[80.0,12.0],[80.5,12.0],[80.5,12.5],[80.0,12.5],[80.0,12.0]]]}},
    {"type": "Feature", "properties": {"hazard": "cyclone"},
     "geometry": {"type": "MultiPolygon", "coordinates": [
       [[[79.0,10.0],[79.2,10.0],[79.2,10.2],[79.0,10.0]]],
       [[[79.5,10.5],[79.7,10.5],[79.7,10.7],[79.5,10.5]]]
     ]}},
    {"type": "Feature", "properties": {"name": "gauge"},
     "geometry": {"type": "Point", "coordinates": [80.1, 12.1]}}
  ]
}`

func TestParseGeoJSON_FeatureCollection(t *testing.T) {
	features, err := ParseGeoJSON([]byte(hazardCollection))
	require.NoError(t, err)

	// The point feature is skipped.
	require.Len(t, features, 2)
	assert.Equal(t, "flood", features[0].Properties["hazard"])
	assert.Len(t, features[0].Geometry, 1)
	assert.Len(t, features[1].Geometry, 2)
	assert.Equal(t, orb.Point{80.0, 12.0}, features[0].Geometry[0][0][0])
}

func TestParseGeoJSON_SingleFeature(t *testing.T) {
	doc := `{"type":"Feature","properties":{"name":"Tamil Nadu"},
	  "geometry":{"type":"Polygon","coordinates":[[[76,8],[80.5,8],[80.5,13.6],[76,13.6],[76,8]]]}}`

	features, err := ParseGeoJSON([]byte(doc))
	require.NoError(t, err)
	require.Len(t, features, 1)
	assert.Equal(t, "Tamil Nadu", features[0].Properties["name"])
}

func TestParseGeoJSON_BareGeometry(t *testing.T) {
	doc := `{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}`

	features, err := ParseGeoJSON([]byte(doc))
	require.NoError(t, err)
	require.Len(t, features, 1)
	assert.Empty(t, features[0].Properties)
}

func TestParseGeoJSON_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", "{{"},
		{"missing type", `{"features":[]}`},
		{"bad collection", `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Polygon","coordinates":"x"}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGeoJSON([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestReadLayer_GeoJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hazards.geojson")
	require.NoError(t, os.WriteFile(path, []byte(hazardCollection), 0o644))

	features, err := ReadLayer(path)
	require.NoError(t, err)
	assert.Len(t, features, 2)
}

func TestReadLayer_NoPolygons(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.geojson")
	doc := `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[1,2]}}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	_, err := ReadLayer(path)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNoPolygons))
}

func TestReadLayer_Unsupported(t *testing.T) {
	_, err := ReadLayer("region.kml")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrUnsupportedFormat))
}

func TestReadLayer_MissingFile(t *testing.T) {
	_, err := ReadLayer(filepath.Join(t.TempDir(), "missing.geojson"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "geofile: read")
}

func TestAsMultiPolygon(t *testing.T) {
	poly := orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}

	mp, ok := AsMultiPolygon(poly)
	assert.True(t, ok)
	assert.Len(t, mp, 1)

	mp, ok = AsMultiPolygon(orb.Collection{poly, orb.Point{1, 1}, orb.MultiPolygon{poly, poly}})
	assert.True(t, ok)
	assert.Len(t, mp, 3)

	_, ok = AsMultiPolygon(orb.LineString{{0, 0}, {1, 1}})
	assert.False(t, ok)

	_, ok = AsMultiPolygon(orb.Polygon{})
	assert.False(t, ok)
}
