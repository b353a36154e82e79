// Package config defines environment configuration structs and loaders.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type AppConfig struct {
	DataEnvConfig
	ServerEnvConfig
	ChartEnvConfig
	CacheEnvConfig
	RedisEnvConfig
	Environment string `env:"ENVIRONMENT" envDefault:"prod"`
}

func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.ChartEnvConfig.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DataEnvConfig points at the two static datasets and the optional assets.
type DataEnvConfig struct {
	MatchesPath  string `env:"MATCHES_PATH" envDefault:"df_matches.parquet"`
	MomentumPath string `env:"MOMENTUM_PATH" envDefault:"momentum_data.h5"`
	BallIconPath string `env:"BALL_ICON_PATH" envDefault:"ball_icon.png"`
	FontDir      string `env:"FONT_DIR"`
	BrandingPath string `env:"BRANDING_PATH"`
	Watch        bool   `env:"DATA_WATCH" envDefault:"false"`
}

// ServerEnvConfig configures the dashboard server.
type ServerEnvConfig struct {
	Host          string `env:"VIEWER_HOST" envDefault:"0.0.0.0"`
	Port          int    `env:"VIEWER_PORT" envDefault:"8501"`
	BodySizeLimit int    `env:"SERVER_BODY_LIMIT" envDefault:"1048576"`
}

func (c ServerEnvConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ChartEnvConfig holds the slider bounds and render settings.
type ChartEnvConfig struct {
	SigmaMin     int    `env:"SIGMA_MIN" envDefault:"3"`
	SigmaMax     int    `env:"SIGMA_MAX" envDefault:"15"`
	SigmaDefault int    `env:"SIGMA_DEFAULT" envDefault:"6"`
	DisplayDPI   int    `env:"DISPLAY_DPI" envDefault:"150"`
	ExportDPI    int    `env:"EXPORT_DPI" envDefault:"300"`
	Watermark    string `env:"CHART_WATERMARK" envDefault:"RCI Model — v1.0"`
}

func (c ChartEnvConfig) Validate() error {
	if c.SigmaMin <= 0 || c.SigmaMin > c.SigmaMax {
		return fmt.Errorf("invalid sigma bounds [%d, %d]", c.SigmaMin, c.SigmaMax)
	}
	if c.SigmaDefault < c.SigmaMin || c.SigmaDefault > c.SigmaMax {
		return fmt.Errorf("default sigma %d outside [%d, %d]", c.SigmaDefault, c.SigmaMin, c.SigmaMax)
	}
	if c.DisplayDPI <= 0 || c.ExportDPI <= 0 {
		return fmt.Errorf("dpi must be positive")
	}
	return nil
}

// CacheEnvConfig configures the rendered chart cache.
type CacheEnvConfig struct {
	CacheTTL        time.Duration `env:"CACHE_TTL" envDefault:"10m"`
	CacheMaxEntries int           `env:"CACHE_MAX_ENTRIES" envDefault:"256"`
}

// RedisEnvConfig configures Redis connection.
type RedisEnvConfig struct {
	RedisEnabled  bool   `env:"REDIS_ENABLED" envDefault:"false"`
	RedisHost     string `env:"REDIS_HOST" envDefault:"127.0.0.1"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
}

type ReloadConfig struct {
	Debounce time.Duration
}

var (
	DevReloadConfig  = &ReloadConfig{Debounce: 200 * time.Millisecond}
	ProdReloadConfig = &ReloadConfig{Debounce: 500 * time.Millisecond}
)

func NewReloadConfig(environment string) *ReloadConfig {
	switch strings.ToLower(environment) {
	case "dev", "test":
		return DevReloadConfig
	case "prod":
		return ProdReloadConfig
	}

	return ProdReloadConfig
}
