package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/schoolmap/internal/analysis"
	"github.com/sells-group/schoolmap/internal/render"
)

func parseAnalyzeFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("analyze", pflag.ContinueOnError)
	addAnalyzeFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestBuildRequest_Defaults(t *testing.T) {
	req, err := buildRequest(parseAnalyzeFlags(t), testConfig(t))
	require.NoError(t, err)
	assert.Equal(t, analysis.Request{
		Mode:      analysis.ModeViewSchools,
		Latitude:  12.8239,
		Longitude: 80.0450,
		RadiusKm:  5,
		BufferKm:  5,
	}, req)
}

func TestBuildRequest_Flags(t *testing.T) {
	req, err := buildRequest(parseAnalyzeFlags(t,
		"--mode", "Access Analysis", "--lat", "13.05", "--lon", "80.25", "--radius", "50", "--buffer", "0",
	), testConfig(t))
	require.NoError(t, err)
	assert.Equal(t, analysis.ModeAccess, req.Mode)
	assert.InDelta(t, 13.05, req.Latitude, 1e-9)
	assert.InDelta(t, 80.25, req.Longitude, 1e-9)
	assert.Equal(t, 50, req.RadiusKm)
	assert.Equal(t, 0, req.BufferKm)
}

func TestBuildRequest_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "mode", args: []string{"--mode", "flood"}, wantErr: "unknown mode"},
		{name: "latitude", args: []string{"--lat", "NaN"}, wantErr: "invalid latitude"},
		{name: "longitude", args: []string{"--lon=-Inf"}, wantErr: "invalid longitude"},
		{name: "radius", args: []string{"--radius", "101"}, wantErr: "radius must be between 0 and 100 km"},
		{name: "negative buffer", args: []string{"--buffer", "-1"}, wantErr: "buffer must be between 0 and 100 km"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildRequest(parseAnalyzeFlags(t, tt.args...), testConfig(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWriteAnalysis_Table(t *testing.T) {
	plan, err := analysis.Run(testDataset(), analysis.Request{
		Mode: analysis.ModeAccess, Latitude: 12.8239, Longitude: 80.0450, RadiusKm: 50,
	}, analysis.DefaultOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeAnalysis(&buf, plan, "table", render.DefaultMapOptions()))

	out := buf.String()
	assert.Contains(t, out, "Access Analysis")
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Guindy School")
	assert.Contains(t, out, "Tambaram School")
	assert.NotContains(t, out, "Madurai School")
}

func TestBuildRequest_OffMapCoordinates(t *testing.T) {
	req, err := buildRequest(parseAnalyzeFlags(t, "--mode", "access", "--lat", "95", "--lon=-200"), testConfig(t))
	require.NoError(t, err)
	assert.InDelta(t, 95.0, req.Latitude, 1e-9)
	assert.InDelta(t, -200.0, req.Longitude, 1e-9)

	plan, err := analysis.Run(testDataset(), req, analysis.DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, plan.Matches)
	require.Len(t, plan.Markers(), 1)
	assert.Equal(t, "Your Location", plan.Markers()[0].Popup)
}

func TestWriteAnalysis_EmptyTable(t *testing.T) {
	plan, err := analysis.Run(testDataset(), analysis.Request{
		Mode: analysis.ModeAccess, Latitude: 12.8239, Longitude: 80.0450, RadiusKm: 0,
	}, analysis.DefaultOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeAnalysis(&buf, plan, "table", render.DefaultMapOptions()))
	assert.Contains(t, buf.String(), "No matching schools.")
	assert.NotContains(t, buf.String(), "NAME")
}

func TestWriteAnalysis_Weather(t *testing.T) {
	plan, err := analysis.Run(nil, analysis.Request{Mode: analysis.ModeWeather}, analysis.DefaultOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeAnalysis(&buf, plan, "table", render.DefaultMapOptions()))
	assert.Contains(t, buf.String(), "Current Weather and Cyclone Status")
	assert.Contains(t, buf.String(), "Embed: https://embed.windy.com/")
}

func TestWriteAnalysis_GeoJSON(t *testing.T) {
	plan, err := analysis.Run(testDataset(), analysis.Request{Mode: analysis.ModeHazard, BufferKm: 0}, analysis.DefaultOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeAnalysis(&buf, plan, "geojson", render.DefaultMapOptions()))

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)

	var markers int
	for _, f := range fc.Features {
		if f.Properties["layer"] == "markers" {
			markers++
			assert.Equal(t, "red", f.Properties["marker-color"])
		}
	}
	assert.Equal(t, 1, markers, "only Guindy School lies inside the hazard box")
}
