package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/paulmach/orb/geojson"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/schoolmap/internal/analysis"
	"github.com/sells-group/schoolmap/internal/dataset"
	"github.com/sells-group/schoolmap/internal/render"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		zap.L().Error("web: encode response", zap.Error(err))
		http.Error(w, `{"error":"encode response"}`, http.StatusInternalServerError)
		return
	}
	writeBody(w, status, "application/json", body)
}

func writeBody(w http.ResponseWriter, status int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// parseRequest reads mode, lat, lon, radius and buffer from the query string.
// Missing values take the configured defaults.
func (s *Server) parseRequest(r *http.Request) (analysis.Request, error) {
	q := r.URL.Query()

	mode, err := analysis.ParseMode(q.Get("mode"))
	if err != nil {
		return analysis.Request{}, err
	}

	req := analysis.Request{
		Mode:      mode,
		Latitude:  s.opts.DefaultLat,
		Longitude: s.opts.DefaultLon,
		RadiusKm:  s.opts.DefaultRadiusKm,
		BufferKm:  s.opts.DefaultBufferKm,
	}
	if v := q.Get("lat"); v != "" {
		if req.Latitude, err = parseCoord(v, "lat"); err != nil {
			return analysis.Request{}, err
		}
	}
	if v := q.Get("lon"); v != "" {
		if req.Longitude, err = parseCoord(v, "lon"); err != nil {
			return analysis.Request{}, err
		}
	}
	if v := q.Get("radius"); v != "" {
		if req.RadiusKm, err = parseKm(v, "radius", s.opts.MaxDistanceKm); err != nil {
			return analysis.Request{}, err
		}
	}
	if v := q.Get("buffer"); v != "" {
		if req.BufferKm, err = parseKm(v, "buffer", s.opts.MaxDistanceKm); err != nil {
			return analysis.Request{}, err
		}
	}
	return req, nil
}

// parseCoord accepts any finite float. Coordinates off the map simply match
// nothing.
func parseCoord(raw, name string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, eris.Errorf("web: invalid %s %q", name, raw)
	}
	return v, nil
}

func parseKm(raw, name string, maxKm int) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, eris.Errorf("web: invalid %s %q", name, raw)
	}
	if v < 0 || v > maxKm {
		return 0, eris.Errorf("web: %s must be between 0 and %d km", name, maxKm)
	}
	return v, nil
}

// cacheKey identifies a request by the inputs its mode actually reads.
func cacheKey(req analysis.Request) string {
	switch req.Mode {
	case analysis.ModeAccess:
		return fmt.Sprintf("analysis:%s:%g:%g:%d", req.Mode.Slug(), req.Latitude, req.Longitude, req.RadiusKm)
	case analysis.ModeHazard:
		return fmt.Sprintf("analysis:%s:%d", req.Mode.Slug(), req.BufferKm)
	default:
		return "analysis:" + req.Mode.Slug()
	}
}

func (s *Server) basePage() render.Page {
	modes := analysis.Modes()
	opts := make([]render.Option, len(modes))
	for i, m := range modes {
		opts[i] = render.Option{Value: m.Slug(), Label: m.String()}
	}
	region := s.ds.Region().Name
	return render.Page{
		Title:         "Geospatial School Mapping - " + region,
		Region:        region,
		Modes:         opts,
		Selected:      analysis.ModeViewSchools.Slug(),
		Latitude:      s.opts.DefaultLat,
		Longitude:     s.opts.DefaultLon,
		RadiusKm:      s.opts.DefaultRadiusKm,
		BufferKm:      s.opts.DefaultBufferKm,
		MaxDistanceKm: s.opts.MaxDistanceKm,
	}
}

func (s *Server) writePage(w http.ResponseWriter, status int, page render.Page) {
	var buf bytes.Buffer
	if err := render.WritePage(&buf, page); err != nil {
		zap.L().Error("web: render page", zap.Error(err))
		http.Error(w, "render page", http.StatusInternalServerError)
		return
	}
	writeBody(w, status, "text/html; charset=utf-8", buf.Bytes())
}

// handleIndex reruns the selected analysis on every form change.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := s.basePage()

	req, err := s.parseRequest(r)
	if err != nil {
		page.Error = err.Error()
		s.writePage(w, http.StatusBadRequest, page)
		return
	}

	plan, err := analysis.Run(s.ds, req, s.opts.Analysis)
	if err != nil {
		zap.L().Error("web: run analysis", zap.String("mode", req.Mode.Slug()), zap.Error(err))
		http.Error(w, "analysis failed", http.StatusInternalServerError)
		return
	}

	page.Selected = req.Mode.Slug()
	page.Latitude = req.Latitude
	page.Longitude = req.Longitude
	page.RadiusKm = req.RadiusKm
	page.BufferKm = req.BufferKm
	page.Heading = plan.Title
	page.Description = plan.Description
	page.Table = plan.Table
	page.Embed = plan.Embed
	if plan.Mode != analysis.ModeWeather {
		mv := render.NewMapView(s.opts.Map)
		mv.Draw(plan.All())
		page.Map = mv
	}

	s.writePage(w, http.StatusOK, page)
}

type analysisResponse struct {
	Mode        string                     `json:"mode"`
	Label       string                     `json:"label"`
	Title       string                     `json:"title"`
	Description string                     `json:"description,omitempty"`
	Table       *render.Table              `json:"table,omitempty"`
	Embed       *render.Embed              `json:"embed,omitempty"`
	GeoJSON     *geojson.FeatureCollection `json:"geojson,omitempty"`
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := cacheKey(req)
	if cached := s.cache.Get(key); cached != nil {
		w.Header().Set("X-Cache", "hit")
		writeBody(w, http.StatusOK, "application/json", cached)
		return
	}

	plan, err := analysis.Run(s.ds, req, s.opts.Analysis)
	if err != nil {
		zap.L().Error("web: run analysis", zap.String("mode", req.Mode.Slug()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	resp := analysisResponse{
		Mode:        plan.Mode.Slug(),
		Label:       plan.Mode.String(),
		Title:       plan.Title,
		Description: plan.Description,
		Table:       plan.Table,
		Embed:       plan.Embed,
	}
	if plan.Mode != analysis.ModeWeather {
		mv := render.NewMapView(s.opts.Map)
		mv.Draw(plan.All())
		resp.GeoJSON = mv.FeatureCollection()
	}

	body, err := json.Marshal(resp)
	if err != nil {
		zap.L().Error("web: encode analysis", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "encode response")
		return
	}
	s.cache.Put(key, body)
	w.Header().Set("X-Cache", "miss")
	writeBody(w, http.StatusOK, "application/json", body)
}

func (s *Server) serveLayer(name string, build func(*dataset.Dataset) *geojson.FeatureCollection) http.HandlerFunc {
	key := "layer:" + name
	return func(w http.ResponseWriter, _ *http.Request) {
		if cached := s.cache.Get(key); cached != nil {
			w.Header().Set("X-Cache", "hit")
			writeBody(w, http.StatusOK, "application/geo+json", cached)
			return
		}

		body, err := build(s.ds).MarshalJSON()
		if err != nil {
			zap.L().Error("web: encode layer", zap.String("layer", name), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "encode layer")
			return
		}
		s.cache.Put(key, body)
		w.Header().Set("X-Cache", "miss")
		writeBody(w, http.StatusOK, "application/geo+json", body)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"schools":      s.ds.NumSchools(),
		"hazard_zones": len(s.ds.Hazards()),
		"cache":        s.cache.Stats(),
	})
}
