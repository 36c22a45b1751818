// Package config loads penguin settings from a TOML file.
//
// Every field has a default, so a missing file or a partial file is valid:
//
//	[grid]
//	enabled = true
//	snap = true
//	size = 20.0
//
//	[viewport]
//	zoom_step = 0.1
//
//	[render]
//	delay = "20ms"
//	initial_delay = "100ms"
//	sample_interval = 5.0
//
//	[server]
//	addr = ":8080"
//	ping_interval = "30s"
//	session_ttl = "1h"
//
//	[cache]
//	redis_url = ""          # share SVG exports between servers
//	ttl = "24h"
//
//	[log]
//	level = "info"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/igloo/penguin/pkg/errors"
	"github.com/igloo/penguin/pkg/grid"
)

// Config holds penguin configuration.
type Config struct {
	Grid     grid.Settings  `toml:"grid"`
	Viewport ViewportConfig `toml:"viewport"`
	Render   RenderConfig   `toml:"render"`
	Server   ServerConfig   `toml:"server"`
	Cache    CacheConfig    `toml:"cache"`
	Log      LogConfig      `toml:"log"`
}

// ViewportConfig controls wheel zoom.
type ViewportConfig struct {
	ZoomStep float64 `toml:"zoom_step"`
}

// RenderConfig controls re-render timing and wire hit sampling.
type RenderConfig struct {
	Delay          Duration `toml:"delay"`
	InitialDelay   Duration `toml:"initial_delay"`
	SampleInterval float64  `toml:"sample_interval"`
}

// ServerConfig controls the live editing service.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	PingInterval Duration `toml:"ping_interval"`
	SessionTTL   Duration `toml:"session_ttl"`
}

// CacheConfig controls the SVG export cache. An empty RedisURL keeps the
// cache in memory (serve) or on disk (export).
type CacheConfig struct {
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// Duration is a time.Duration written as a Go duration string ("20ms").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Grid:     grid.Default(),
		Viewport: ViewportConfig{ZoomStep: 0.1},
		Render: RenderConfig{
			Delay:          Duration{20 * time.Millisecond},
			InitialDelay:   Duration{100 * time.Millisecond},
			SampleInterval: 5,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			PingInterval: Duration{30 * time.Second},
			SessionTTL:   Duration{time.Hour},
		},
		Cache: CacheConfig{TTL: Duration{24 * time.Hour}},
		Log:   LogConfig{Level: "info"},
	}
}

// Dir returns the penguin config directory path.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "penguin")
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file at path over the defaults. A missing file yields
// the defaults; a malformed or invalid one is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if err := c.Grid.Validate(); err != nil {
		return err
	}
	if c.Viewport.ZoomStep <= 0 || c.Viewport.ZoomStep >= 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "viewport.zoom_step must be in (0, 1), got %g", c.Viewport.ZoomStep)
	}
	if c.Render.Delay.Duration < 0 || c.Render.InitialDelay.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render delays must not be negative")
	}
	if c.Render.SampleInterval <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render.sample_interval must be positive, got %g", c.Render.SampleInterval)
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr is required")
	}
	if c.Server.PingInterval.Duration <= 0 || c.Server.SessionTTL.Duration <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server intervals must be positive")
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (log.Level, error) {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel, errors.Wrap(errors.ErrCodeInvalidConfig, err, "log.level")
	}
	return lvl, nil
}
