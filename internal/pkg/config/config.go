package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/samirrijal/milelog/internal/core/viewport"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Map       MapConfig       `mapstructure:"map"`
	Mapbox    MapboxConfig    `mapstructure:"mapbox"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

// MapConfig fixes the geometry of every route map image.
type MapConfig struct {
	Width       int `mapstructure:"width"`
	Height      int `mapstructure:"height"`
	PaddingPx   int `mapstructure:"padding_px"`
	TileSizePx  int `mapstructure:"tile_size_px"`
	MinZoom     int `mapstructure:"min_zoom"`
	MaxZoom     int `mapstructure:"max_zoom"`
	DefaultZoom int `mapstructure:"default_zoom"`
}

func (m MapConfig) Geometry() viewport.Geometry {
	return viewport.Geometry{
		Width:      m.Width,
		Height:     m.Height,
		PaddingPx:  m.PaddingPx,
		TileSizePx: m.TileSizePx,
	}
}

func (m MapConfig) Fitter() viewport.Fitter {
	return viewport.Fitter{
		MinZoom:     m.MinZoom,
		MaxZoom:     m.MaxZoom,
		DefaultZoom: m.DefaultZoom,
	}
}

// MapboxConfig configures the static image and geocoding provider.
// AccessToken has no default; an empty token is reported per request.
type MapboxConfig struct {
	AccessToken    string `mapstructure:"access_token"`
	BaseURL        string `mapstructure:"base_url"`
	Username       string `mapstructure:"username"`
	LightStyle     string `mapstructure:"light_style"`
	DarkStyle      string `mapstructure:"dark_style"`
	MarkerColor    string `mapstructure:"marker_color"`
	PathColor      string `mapstructure:"path_color"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	MaxRetries     int    `mapstructure:"max_retries"`
}

func (m MapboxConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutSeconds) * time.Second
}

type ValkeyConfig struct {
	Addr    string `mapstructure:"addr"`
	Enabled bool   `mapstructure:"enabled"`
}

type TelemetryConfig struct {
	ServiceName  string `mapstructure:"service_name"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	Enabled      bool   `mapstructure:"enabled"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("map.width", 600)
	v.SetDefault("map.height", 400)
	v.SetDefault("map.padding_px", 48)
	v.SetDefault("map.tile_size_px", 512)
	v.SetDefault("map.min_zoom", 2)
	v.SetDefault("map.max_zoom", 16)
	v.SetDefault("map.default_zoom", 12)
	v.SetDefault("mapbox.access_token", "")
	v.SetDefault("mapbox.base_url", "https://api.mapbox.com")
	v.SetDefault("mapbox.username", "mapbox")
	v.SetDefault("mapbox.light_style", "light-v11")
	v.SetDefault("mapbox.dark_style", "dark-v11")
	v.SetDefault("mapbox.marker_color", "808080")
	v.SetDefault("mapbox.path_color", "#ADD8E6")
	v.SetDefault("mapbox.timeout_seconds", 10)
	v.SetDefault("mapbox.max_retries", 2)
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("valkey.enabled", true)
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.otlp_endpoint", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: MILELOG_MAPBOX_ACCESS_TOKEN → mapbox.access_token
	v.SetEnvPrefix("MILELOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The bare provider variable is what most deployments already export.
	_ = v.BindEnv("mapbox.access_token", "MILELOG_MAPBOX_ACCESS_TOKEN", "MAPBOX_TOKEN")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if err := c.Map.Geometry().Validate(); err != nil {
		errs = append(errs, "map: "+err.Error())
	}
	if err := c.Map.Fitter().Validate(); err != nil {
		errs = append(errs, "map: "+err.Error())
	}
	if c.Mapbox.BaseURL == "" {
		errs = append(errs, "mapbox.base_url is required")
	}
	if c.Mapbox.LightStyle == "" || c.Mapbox.DarkStyle == "" {
		errs = append(errs, "mapbox.light_style and mapbox.dark_style are required")
	}
	if c.Mapbox.TimeoutSeconds <= 0 {
		errs = append(errs, "mapbox.timeout_seconds must be positive")
	}
	if c.Mapbox.MaxRetries < 0 {
		errs = append(errs, "mapbox.max_retries must not be negative")
	}
	if c.Valkey.Enabled && c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required when valkey is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
