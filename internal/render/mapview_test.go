package render

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(minX, minY, maxX, maxY float64) orb.MultiPolygon {
	return orb.MultiPolygon{{{{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}, {minX, minY}}}}
}

func TestNewMapView_Defaults(t *testing.T) {
	m := NewMapView(MapOptions{CenterLat: 14, CenterLon: 81, Zoom: 7})

	assert.True(t, strings.HasPrefix(m.ID, "map_"))
	assert.NotContains(t, m.ID, "-")
	assert.Equal(t, 700, m.Options.Width)
	assert.Equal(t, 500, m.Options.Height)
	assert.NotEmpty(t, m.Options.TileURL)
	assert.NotEmpty(t, m.Options.Attribution)

	other := NewMapView(DefaultMapOptions())
	assert.NotEqual(t, m.ID, other.ID)
}

func TestNewMapView_KeepsExplicitOptions(t *testing.T) {
	m := NewMapView(MapOptions{Width: 320, Height: 240, TileURL: "https://tiles.example/{z}/{x}/{y}.png"})
	assert.Equal(t, 320, m.Options.Width)
	assert.Equal(t, 240, m.Options.Height)
	assert.Equal(t, "https://tiles.example/{z}/{x}/{y}.png", m.Options.TileURL)
	assert.Empty(t, m.Options.Attribution)
}

func TestMapView_Draw(t *testing.T) {
	m := NewMapView(DefaultMapOptions())
	ins := []Instruction{
		NewPolygons("Hazard Zones", &HazardStyle, geojson.NewFeature(square(0, 0, 1, 1))),
		Marker{Lat: 0.5, Lon: 0.5, Color: ColorRed, Icon: IconWarning, Popup: "a"},
		Marker{Lat: 2, Lon: 2, Color: ColorOrange, Icon: IconInfo, Popup: "b"},
	}

	n := m.Draw(slices.Values(ins))
	assert.Equal(t, 3, n)

	markers := m.Markers()
	require.Len(t, markers, 2)
	assert.Equal(t, "a", markers[0].Popup)
	assert.Equal(t, "b", markers[1].Popup)

	layers := m.Layers()
	require.Len(t, layers, 1)
	assert.Equal(t, "Hazard Zones", layers[0].Name)
	assert.Equal(t, 1, len(layers[0].Features.Features))
}

func TestMapView_FeatureCollection(t *testing.T) {
	zone := geojson.NewFeature(square(0, 0, 1, 1))
	zone.Properties["kind"] = "flood"

	m := NewMapView(DefaultMapOptions())
	m.Add(NewPolygons("Hazard Zones", &HazardStyle, zone))
	m.Add(NewPolygons("Tamil Nadu", nil, geojson.NewFeature(square(-1, -1, 2, 2))))
	m.Add(Marker{Lat: 12.9, Lon: 80.2, Color: ColorBlue, Icon: IconInfo, Popup: "School"})

	fc := m.FeatureCollection()
	require.Len(t, fc.Features, 3)

	hz := fc.Features[0]
	assert.Equal(t, "Hazard Zones", hz.Properties["layer"])
	assert.Equal(t, "flood", hz.Properties["kind"])
	assert.Equal(t, "red", hz.Properties["fill"])
	assert.Equal(t, 0.5, hz.Properties["fill-opacity"])

	outline := fc.Features[1]
	assert.Equal(t, "Tamil Nadu", outline.Properties["layer"])
	assert.NotContains(t, outline.Properties, "fill")

	pt := fc.Features[2]
	assert.Equal(t, orb.Point{80.2, 12.9}, pt.Geometry)
	assert.Equal(t, "blue", pt.Properties["marker-color"])
	assert.Equal(t, "info-sign", pt.Properties["icon"])
	assert.Equal(t, "School", pt.Properties["popup"])

	// Source features are left untouched.
	assert.NotContains(t, zone.Properties, "layer")
}

func TestMapView_Script(t *testing.T) {
	m := NewMapView(DefaultMapOptions())
	m.Add(Marker{Lat: 1, Lon: 2, Color: ColorGreen, Icon: IconInfo, Popup: "<b>x</b>"})

	js, err := m.Script()
	require.NoError(t, err)
	assert.NotContains(t, string(js), "<b>")

	var state struct {
		ID      string     `json:"id"`
		Center  [2]float64 `json:"center"`
		Zoom    int        `json:"zoom"`
		Layers  []any      `json:"layers"`
		Markers []Marker   `json:"markers"`
	}
	require.NoError(t, json.Unmarshal([]byte(js), &state))
	assert.Equal(t, m.ID, state.ID)
	assert.Equal(t, [2]float64{14, 81}, state.Center)
	assert.Equal(t, 7, state.Zoom)
	assert.Empty(t, state.Layers)
	require.Len(t, state.Markers, 1)
	assert.Equal(t, "<b>x</b>", state.Markers[0].Popup)
}

func TestMapView_ScriptEmpty(t *testing.T) {
	js, err := NewMapView(DefaultMapOptions()).Script()
	require.NoError(t, err)
	assert.Contains(t, string(js), `"markers":[]`)
	assert.Contains(t, string(js), `"layers":[]`)
}

func TestTable_WriteText(t *testing.T) {
	tbl := &Table{
		Columns: []string{"name", "latitude", "longitude"},
		Rows:    [][]string{{"Govt School", "12.9", "80.2"}},
	}
	var buf bytes.Buffer
	require.NoError(t, tbl.WriteText(&buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "NAME"))
	assert.Contains(t, lines[1], "----")
	assert.Contains(t, lines[2], "Govt School")
	assert.Equal(t, 1, tbl.Len())

	var nilTable *Table
	assert.Equal(t, 0, nilTable.Len())
}
