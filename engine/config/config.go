// Package config loads the engine configuration from TOML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/flatland/engine/core"
)

type WindowConfig struct {
	Name   string `toml:"name"`
	X      uint32 `toml:"x"`
	Y      uint32 `toml:"y"`
	Width  uint32 `toml:"width"`
	Height uint32 `toml:"height"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// RendererConfig holds the per-kind instance capacities and the frame clear color.
type RendererConfig struct {
	ClearColor [4]float32 `toml:"clear_color"`
	VSync      bool       `toml:"vsync"`
	MaxQuads   uint32     `toml:"max_quads"`
	MaxLines   uint32     `toml:"max_lines"`
	MaxCircles uint32     `toml:"max_circles"`
}

type AssetsConfig struct {
	Dir string `toml:"dir"`
}

type Config struct {
	Window   WindowConfig   `toml:"window"`
	Log      LogConfig      `toml:"log"`
	Renderer RendererConfig `toml:"renderer"`
	Assets   AssetsConfig   `toml:"assets"`
}

func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Name:   "Flatland",
			X:      100,
			Y:      100,
			Width:  800,
			Height: 600,
		},
		Log: LogConfig{Level: "info"},
		Renderer: RendererConfig{
			ClearColor: [4]float32{0.2, 0.3, 0.9, 1.0},
			VSync:      true,
			MaxQuads:   40,
			MaxLines:   40,
			MaxCircles: 20000,
		},
		Assets: AssetsConfig{Dir: "assets"},
	}
}

// Load reads path on top of the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			core.LogWarn("config file %s not found, using defaults", path)
			return Default(), nil
		}
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a TOML document on top of the defaults and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s", core.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MaxInstancesPerKind bounds each primitive capacity.
const MaxInstancesPerKind = 1 << 20

func (c *Config) Validate() error {
	if c.Window.Width == 0 || c.Window.Height == 0 {
		return fmt.Errorf("%w: window extents must be > 0, got %dx%d", core.ErrInvalidConfig, c.Window.Width, c.Window.Height)
	}
	if c.Renderer.MaxQuads == 0 || c.Renderer.MaxLines == 0 || c.Renderer.MaxCircles == 0 {
		return fmt.Errorf("%w: primitive capacities must be > 0", core.ErrInvalidConfig)
	}
	if max(c.Renderer.MaxQuads, c.Renderer.MaxLines, c.Renderer.MaxCircles) > MaxInstancesPerKind {
		return fmt.Errorf("%w: primitive capacities must be <= %d", core.ErrInvalidConfig, MaxInstancesPerKind)
	}
	for i, v := range c.Renderer.ClearColor {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: clear_color[%d]=%f outside [0,1]", core.ErrInvalidConfig, i, v)
		}
	}
	if _, err := core.ParseLogLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// LogLevel returns the parsed log level. Validate guarantees it parses.
func (c *Config) LogLevel() core.LogLevel {
	lvl, _ := core.ParseLogLevel(c.Log.Level)
	return lvl
}
