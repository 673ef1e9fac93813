package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/schoolmap/internal/config"
	"github.com/sells-group/schoolmap/internal/dataset"
)

const testRegionJSON = `{"type":"FeatureCollection","features":[
{"type":"Feature","properties":{"name":"Tamil Nadu"},"geometry":{"type":"Polygon","coordinates":[[[76,8],[81,8],[81,14],[76,14],[76,8]]]}}]}`

const testHazardsJSON = `{"type":"FeatureCollection","features":[
{"type":"Feature","properties":{"kind":"flood"},"geometry":{"type":"Polygon","coordinates":[[[80.1,12.8],[80.3,12.8],[80.3,13.0],[80.1,13.0],[80.1,12.8]]]}}]}`

const testSchoolsCSV = "name,latitude,longitude\n" +
	"Guindy School,12.9,80.2\n" +
	"Tambaram School,12.83,80.05\n" +
	"Madurai School,9.93,78.12\n"

// testConfig writes the three inputs into a temp dir and returns a config
// with defaults pointing at them.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	c := &config.Config{}
	c.Data.RegionPath = write("region.geojson", testRegionJSON)
	c.Data.SchoolsPath = write("schools.csv", testSchoolsCSV)
	c.Data.HazardsPath = write("hazards.geojson", testHazardsJSON)
	c.Data.RegionName = "Fallback"
	c.Data.CacheDir = filepath.Join(dir, ".cache")
	c.Map.Zoom = 7
	c.Map.Width = 700
	c.Map.Height = 500
	c.Server.Port = 8080
	c.Analysis.KmPerDegree = 111
	c.Analysis.DefaultLat = 12.8239
	c.Analysis.DefaultLon = 80.0450
	c.Analysis.DefaultRadiusKm = 5
	c.Analysis.DefaultBufferKm = 5
	c.Analysis.MaxDistanceKm = 100
	c.Weather.EmbedURL = config.DefaultWeatherURL
	c.Weather.Width = 1200
	c.Weather.Height = 700
	c.Log.Level = "info"
	c.Log.Format = "json"
	return c
}

func testDataset() *dataset.Dataset {
	region := dataset.Region{
		Name:     "Tamil Nadu",
		Geometry: orb.MultiPolygon{{{{76, 8}, {81, 8}, {81, 14}, {76, 14}, {76, 8}}}},
	}
	schools := []dataset.School{
		{Row: 0, Name: "Guindy School", Latitude: 12.9, Longitude: 80.2},
		{Row: 1, Name: "Tambaram School", Latitude: 12.83, Longitude: 80.05},
		{Row: 2, Name: "Madurai School", Latitude: 9.93, Longitude: 78.12},
	}
	hazards := []dataset.HazardZone{
		{Index: 0, Geometry: orb.MultiPolygon{{{{80.1, 12.8}, {80.3, 12.8}, {80.3, 13.0}, {80.1, 13.0}, {80.1, 12.8}}}}},
	}
	return dataset.New(region, schools, hazards)
}
