package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultWeatherURL is the Windy embed shown in the weather mode.
const DefaultWeatherURL = "https://embed.windy.com/embed2.html?lat=12.98&lon=80.18&zoom=6&level=surface&overlay=wind&menu=&message=true&marker=true&calendar=now&pressure=true&type=map&location=coordinates&detail=true&detailLat=12.98&detailLon=80.18&metricWind=default&metricTemp=default&radarRange=-1"

// Config holds the full application configuration.
type Config struct {
	Data     DataConfig     `yaml:"data" mapstructure:"data"`
	Map      MapConfig      `yaml:"map" mapstructure:"map"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Weather  WeatherConfig  `yaml:"weather" mapstructure:"weather"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// DataConfig points at the three input sources. Each path may be a local
// file, an http(s) or ftp URL, or a .zip bundle.
type DataConfig struct {
	RegionPath   string        `yaml:"region_path" mapstructure:"region_path"`
	SchoolsPath  string        `yaml:"schools_path" mapstructure:"schools_path"`
	HazardsPath  string        `yaml:"hazards_path" mapstructure:"hazards_path"`
	RegionName   string        `yaml:"region_name" mapstructure:"region_name"`
	CacheDir     string        `yaml:"cache_dir" mapstructure:"cache_dir"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" mapstructure:"fetch_timeout"`
}

// MapConfig configures the rendered Leaflet map.
type MapConfig struct {
	CenterLat   float64 `yaml:"center_lat" mapstructure:"center_lat"`
	CenterLon   float64 `yaml:"center_lon" mapstructure:"center_lon"`
	Zoom        int     `yaml:"zoom" mapstructure:"zoom"`
	Width       int     `yaml:"width" mapstructure:"width"`
	Height      int     `yaml:"height" mapstructure:"height"`
	TileURL     string  `yaml:"tile_url" mapstructure:"tile_url"`
	Attribution string  `yaml:"attribution" mapstructure:"attribution"`
}

// AnalysisConfig holds the analysis defaults shown in the UI controls.
type AnalysisConfig struct {
	KmPerDegree     float64 `yaml:"km_per_degree" mapstructure:"km_per_degree"`
	DefaultLat      float64 `yaml:"default_lat" mapstructure:"default_lat"`
	DefaultLon      float64 `yaml:"default_lon" mapstructure:"default_lon"`
	DefaultRadiusKm int     `yaml:"default_radius_km" mapstructure:"default_radius_km"`
	DefaultBufferKm int     `yaml:"default_buffer_km" mapstructure:"default_buffer_km"`
	MaxDistanceKm   int     `yaml:"max_distance_km" mapstructure:"max_distance_km"`
}

// WeatherConfig configures the external weather embed.
type WeatherConfig struct {
	EmbedURL    string `yaml:"embed_url" mapstructure:"embed_url"`
	Width       int    `yaml:"width" mapstructure:"width"`
	Height      int    `yaml:"height" mapstructure:"height"`
	FrameWidth  int    `yaml:"frame_width" mapstructure:"frame_width"`
	FrameHeight int    `yaml:"frame_height" mapstructure:"frame_height"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	RateLimit   float64  `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst   int      `yaml:"rate_burst" mapstructure:"rate_burst"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`

	CacheEntries int           `yaml:"cache_entries" mapstructure:"cache_entries"`
	CacheTTL     time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SCHOOLMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.region_path", "data/tamil_nadu.geojson")
	v.SetDefault("data.schools_path", "data/schools.csv")
	v.SetDefault("data.hazards_path", "data/hazards.geojson")
	v.SetDefault("data.region_name", "Tamil Nadu")
	v.SetDefault("data.cache_dir", "data/.cache")
	v.SetDefault("data.fetch_timeout", time.Minute)
	v.SetDefault("map.center_lat", 14.0)
	v.SetDefault("map.center_lon", 81.0)
	v.SetDefault("map.zoom", 7)
	v.SetDefault("map.width", 700)
	v.SetDefault("map.height", 500)
	v.SetDefault("map.tile_url", "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png")
	v.SetDefault("map.attribution", "&copy; OpenStreetMap contributors")
	v.SetDefault("analysis.km_per_degree", 111.0)
	v.SetDefault("analysis.default_lat", 12.8239)
	v.SetDefault("analysis.default_lon", 80.0450)
	v.SetDefault("analysis.default_radius_km", 5)
	v.SetDefault("analysis.default_buffer_km", 5)
	v.SetDefault("analysis.max_distance_km", 100)
	v.SetDefault("weather.embed_url", DefaultWeatherURL)
	v.SetDefault("weather.width", 1200)
	v.SetDefault("weather.height", 700)
	v.SetDefault("weather.frame_width", 1500)
	v.SetDefault("weather.frame_height", 900)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.rate_burst", 40)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.cache_entries", 256)
	v.SetDefault("server.cache_ttl", 10*time.Minute)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the values the server and analysis engine depend on.
func (c *Config) Validate() error {
	var missing []string
	if c.Data.RegionPath == "" {
		missing = append(missing, "data.region_path")
	}
	if c.Data.SchoolsPath == "" {
		missing = append(missing, "data.schools_path")
	}
	if c.Data.HazardsPath == "" {
		missing = append(missing, "data.hazards_path")
	}
	if len(missing) > 0 {
		return eris.Errorf("config: missing required fields: %s", strings.Join(missing, ", "))
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return eris.Errorf("config: server.port %d out of range", c.Server.Port)
	}
	if c.Map.Zoom < 0 || c.Map.Zoom > 22 {
		return eris.Errorf("config: map.zoom %d out of range 0-22", c.Map.Zoom)
	}
	if c.Analysis.KmPerDegree <= 0 {
		return eris.New("config: analysis.km_per_degree must be positive")
	}
	if c.Analysis.MaxDistanceKm < 1 {
		return eris.New("config: analysis.max_distance_km must be at least 1")
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
