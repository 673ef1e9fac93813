package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sells-group/schoolmap/internal/analysis"
	"github.com/sells-group/schoolmap/internal/config"
	"github.com/sells-group/schoolmap/internal/render"
	"github.com/sells-group/schoolmap/internal/web"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run one analysis and print the result",
	Long:  "Runs a single analysis against the configured data and prints the result table, or the map layers as GeoJSON.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		req, err := buildRequest(cmd.Flags(), cfg)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		if format != "table" && format != "geojson" {
			return eris.Errorf("analyze: unknown format %q", format)
		}

		opts := web.OptionsFromConfig(cfg)

		var plan *analysis.Plan
		if req.Mode == analysis.ModeWeather {
			plan, err = analysis.Run(nil, req, opts.Analysis)
		} else {
			ds, loadErr := loadDataset(ctx, cfg)
			if loadErr != nil {
				return loadErr
			}
			plan, err = analysis.Run(ds, req, opts.Analysis)
		}
		if err != nil {
			return eris.Wrap(err, "analyze")
		}

		return writeAnalysis(cmd.OutOrStdout(), plan, format, opts.Map)
	},
}

// buildRequest reads the analysis flags, falling back to the configured
// defaults for any flag left unset.
func buildRequest(flags *pflag.FlagSet, c *config.Config) (analysis.Request, error) {
	modeFlag, _ := flags.GetString("mode")
	mode, err := analysis.ParseMode(modeFlag)
	if err != nil {
		return analysis.Request{}, err
	}

	req := analysis.Request{
		Mode:      mode,
		Latitude:  c.Analysis.DefaultLat,
		Longitude: c.Analysis.DefaultLon,
		RadiusKm:  c.Analysis.DefaultRadiusKm,
		BufferKm:  c.Analysis.DefaultBufferKm,
	}
	if flags.Changed("lat") {
		req.Latitude, _ = flags.GetFloat64("lat")
	}
	if flags.Changed("lon") {
		req.Longitude, _ = flags.GetFloat64("lon")
	}
	if flags.Changed("radius") {
		req.RadiusKm, _ = flags.GetInt("radius")
	}
	if flags.Changed("buffer") {
		req.BufferKm, _ = flags.GetInt("buffer")
	}

	if math.IsNaN(req.Latitude) || math.IsInf(req.Latitude, 0) {
		return analysis.Request{}, eris.Errorf("analyze: invalid latitude %g", req.Latitude)
	}
	if math.IsNaN(req.Longitude) || math.IsInf(req.Longitude, 0) {
		return analysis.Request{}, eris.Errorf("analyze: invalid longitude %g", req.Longitude)
	}
	maxKm := c.Analysis.MaxDistanceKm
	if req.RadiusKm < 0 || req.RadiusKm > maxKm {
		return analysis.Request{}, eris.Errorf("analyze: radius must be between 0 and %d km", maxKm)
	}
	if req.BufferKm < 0 || req.BufferKm > maxKm {
		return analysis.Request{}, eris.Errorf("analyze: buffer must be between 0 and %d km", maxKm)
	}
	return req, nil
}

// writeAnalysis prints a plan as a text table or as a GeoJSON feature
// collection of its map layers.
func writeAnalysis(w io.Writer, plan *analysis.Plan, format string, mapOpts render.MapOptions) error {
	if format == "geojson" {
		view := render.NewMapView(mapOpts)
		view.Draw(plan.All())
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(view.FeatureCollection()); err != nil {
			return eris.Wrap(err, "analyze: encode geojson")
		}
		return nil
	}

	fmt.Fprintln(w, plan.Title)
	if plan.Description != "" {
		fmt.Fprintln(w, plan.Description)
	}
	if plan.Embed != nil {
		fmt.Fprintf(w, "Embed: %s\n", plan.Embed.URL)
	}
	if plan.Table.Len() == 0 {
		if plan.Table != nil {
			fmt.Fprintln(w, "No matching schools.")
		}
		return nil
	}
	fmt.Fprintln(w)
	return plan.Table.WriteText(w)
}

func addAnalyzeFlags(fs *pflag.FlagSet) {
	fs.String("mode", "schools", "analysis mode: schools, access, hazard or weather")
	fs.Float64("lat", 0, "your latitude (default from config)")
	fs.Float64("lon", 0, "your longitude (default from config)")
	fs.Int("radius", 0, "access radius in km (default from config)")
	fs.Int("buffer", 0, "hazard buffer in km (default from config)")
	fs.String("format", "table", "output format: table or geojson")
}

func init() {
	addAnalyzeFlags(analyzeCmd.Flags())
	rootCmd.AddCommand(analyzeCmd)
}
