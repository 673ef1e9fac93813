// Package web serves the interactive map page and its JSON API.
package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/sells-group/schoolmap/internal/analysis"
	"github.com/sells-group/schoolmap/internal/config"
	"github.com/sells-group/schoolmap/internal/dataset"
	"github.com/sells-group/schoolmap/internal/render"
)

// Options configures a Server.
type Options struct {
	Map      render.MapOptions
	Analysis analysis.Options

	DefaultLat      float64
	DefaultLon      float64
	DefaultRadiusKm int
	DefaultBufferKm int
	MaxDistanceKm   int

	RateLimit    float64
	RateBurst    int
	CORSOrigins  []string
	CacheEntries int
	CacheTTL     time.Duration
}

// OptionsFromConfig maps the application config onto server options.
func OptionsFromConfig(cfg *config.Config) Options {
	aopts := analysis.DefaultOptions()
	aopts.KmPerDegree = cfg.Analysis.KmPerDegree
	aopts.Weather = render.Embed{
		URL:         cfg.Weather.EmbedURL,
		Width:       cfg.Weather.Width,
		Height:      cfg.Weather.Height,
		FrameWidth:  cfg.Weather.FrameWidth,
		FrameHeight: cfg.Weather.FrameHeight,
	}

	return Options{
		Map: render.MapOptions{
			CenterLat:   cfg.Map.CenterLat,
			CenterLon:   cfg.Map.CenterLon,
			Zoom:        cfg.Map.Zoom,
			Width:       cfg.Map.Width,
			Height:      cfg.Map.Height,
			TileURL:     cfg.Map.TileURL,
			Attribution: cfg.Map.Attribution,
		},
		Analysis:        aopts,
		DefaultLat:      cfg.Analysis.DefaultLat,
		DefaultLon:      cfg.Analysis.DefaultLon,
		DefaultRadiusKm: cfg.Analysis.DefaultRadiusKm,
		DefaultBufferKm: cfg.Analysis.DefaultBufferKm,
		MaxDistanceKm:   cfg.Analysis.MaxDistanceKm,
		RateLimit:       cfg.Server.RateLimit,
		RateBurst:       cfg.Server.RateBurst,
		CORSOrigins:     cfg.Server.CORSOrigins,
		CacheEntries:    cfg.Server.CacheEntries,
		CacheTTL:        cfg.Server.CacheTTL,
	}
}

// Server answers map and API requests from one loaded dataset. The dataset is
// shared read-only across concurrent requests.
type Server struct {
	ds      *dataset.Dataset
	opts    Options
	cache   *ResponseCache
	limiter *rate.Limiter
}

// NewServer builds a Server. A non-positive RateLimit disables rate limiting
// and a non-positive CacheEntries disables the response cache.
func NewServer(ds *dataset.Dataset, opts Options) *Server {
	if opts.MaxDistanceKm <= 0 {
		opts.MaxDistanceKm = 100
	}
	s := &Server{
		ds:    ds,
		opts:  opts,
		cache: NewResponseCache(opts.CacheEntries, opts.CacheTTL),
	}
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return s
}

// Routes returns the HTTP handler for all endpoints.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(accessLog)

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.limiter != nil {
			r.Use(rateLimit(s.limiter))
		}

		r.Get("/", s.handleIndex)

		r.Route("/api", func(r chi.Router) {
			origins := s.opts.CORSOrigins
			if len(origins) == 0 {
				origins = []string{"*"}
			}
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: origins,
				AllowedMethods: []string{http.MethodGet, http.MethodOptions},
				AllowedHeaders: []string{"Accept", "Content-Type"},
				MaxAge:         300,
			}))

			r.Get("/analysis", s.handleAnalysis)
			r.Get("/region.geojson", s.serveLayer("region", regionCollection))
			r.Get("/hazards.geojson", s.serveLayer("hazards", hazardCollection))
			r.Get("/schools.geojson", s.serveLayer("schools", schoolCollection))
		})
	})

	return r
}
