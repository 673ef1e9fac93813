package render

import (
	"bytes"
	"testing"

	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testModes() []Option {
	return []Option{
		{Value: "schools", Label: "View Schools"},
		{Value: "access", Label: "Access Analysis"},
		{Value: "hazard", Label: "Hazard Analysis"},
		{Value: "weather", Label: "Weather & Cyclone Status"},
	}
}

func TestWritePage_Map(t *testing.T) {
	m := NewMapView(DefaultMapOptions())
	m.Add(NewPolygons("Tamil Nadu", nil, geojson.NewFeature(square(76, 8, 81, 14))))
	m.Add(Marker{Lat: 12.8239, Lon: 80.045, Color: ColorRed, Icon: IconHome, Popup: "Your Location"})

	var buf bytes.Buffer
	err := WritePage(&buf, Page{
		Title:         "Geospatial School Mapping - Tamil Nadu",
		Region:        "Tamil Nadu",
		Modes:         testModes(),
		Selected:      "access",
		Heading:       "Access Analysis",
		Latitude:      12.8239,
		Longitude:     80.045,
		RadiusKm:      5,
		BufferKm:      5,
		MaxDistanceKm: 100,
		Map:           m,
		Table: &Table{
			Caption: "Nearby Schools",
			Columns: []string{"name", "latitude", "longitude"},
			Rows:    [][]string{{"<script>alert(1)</script>", "12.9", "80.2"}},
		},
	})
	require.NoError(t, err)
	html := buf.String()

	assert.Contains(t, html, `<div id="`+m.ID+`"`)
	assert.Contains(t, html, "width: 700px")
	assert.Contains(t, html, "leaflet.awesome-markers.js")
	assert.Contains(t, html, `value="access" selected`)
	assert.Contains(t, html, "Weather &amp; Cyclone Status")
	assert.Contains(t, html, "Enter Latitude")
	assert.Contains(t, html, `value="12.8239"`)
	assert.Contains(t, html, `name="radius"`)
	assert.Contains(t, html, "Nearby Schools")
	assert.Contains(t, html, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, `"popup":"Your Location"`)
	assert.NotContains(t, html, "<iframe")
}

func TestWritePage_HazardControls(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePage(&buf, Page{
		Title:    "t",
		Modes:    testModes(),
		Selected: "hazard",
		BufferKm: 12,
		Map:      NewMapView(DefaultMapOptions()),
	}))
	html := buf.String()

	assert.Contains(t, html, "Buffer Distance Around Hazard Zones (in km)")
	assert.Contains(t, html, `max="100"`)
	assert.Contains(t, html, `value="12"`)
	assert.NotContains(t, html, "Enter Latitude")
}

func TestWritePage_Embed(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePage(&buf, Page{
		Title:    "t",
		Modes:    testModes(),
		Selected: "weather",
		Heading:  "Current Weather and Cyclone Status",
		Embed: &Embed{
			URL:         "https://embed.windy.com/embed2.html?lat=12.98&lon=80.18",
			Width:       1200,
			Height:      700,
			FrameWidth:  1500,
			FrameHeight: 900,
		},
	}))
	html := buf.String()

	assert.Contains(t, html, "<iframe")
	assert.Contains(t, html, "embed.windy.com/embed2.html")
	assert.Contains(t, html, `width="1200"`)
	assert.Contains(t, html, `height="700"`)
	assert.Contains(t, html, "width: 1500px")
	assert.NotContains(t, html, "L.map(")
	assert.NotContains(t, html, "<table>")
}

func TestWritePage_Error(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePage(&buf, Page{Title: "t", Modes: testModes(), Error: "bad latitude"}))
	assert.Contains(t, buf.String(), `<p class="error">bad latitude</p>`)
}
