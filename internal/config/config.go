// Package config provides YAML-based configuration loading for the
// engine and its front-ends.
package config

import (
	"github.com/vovakirdan/tui-linka/internal/engine"
)

// Config is the top-level configuration file.
type Config struct {
	Engine EngineConfig `yaml:"engine"`
	Debug  DebugConfig  `yaml:"debug"`
	Render RenderConfig `yaml:"render"`
	World  WorldConfig  `yaml:"world"`
}

// EngineConfig defines frame loop and map grid parameters.
type EngineConfig struct {
	Framerate int   `yaml:"framerate"`
	MapWidth  int   `yaml:"map_width"`  // tiles
	MapHeight int   `yaml:"map_height"` // tiles
	Seed      int64 `yaml:"seed"`       // 0 = time based
}

// DebugConfig controls debug logging and overlays.
type DebugConfig struct {
	Enabled      bool `yaml:"enabled"`
	DrawHitBoxes bool `yaml:"draw_hit_boxes"`
}

// RenderConfig controls how the surface is presented.
type RenderConfig struct {
	Scale    int `yaml:"scale"`     // terminal pixels per surface pixel block, 0 = fit
	GUIScale int `yaml:"gui_scale"` // window pixels per surface pixel
}

// WorldConfig selects the world to play and where its maps come from.
type WorldConfig struct {
	ID      string `yaml:"id"`
	MapsDir string `yaml:"maps_dir"` // empty = built-in maps
	Watch   bool   `yaml:"watch"`    // reload edited map files
}

// EngineOptions converts the configuration into engine options.
// Hooks, assets and the logger are left for the caller to fill in.
func (c Config) EngineOptions() engine.Options {
	return engine.Options{
		Framerate:    c.Engine.Framerate,
		MapWidth:     c.Engine.MapWidth,
		MapHeight:    c.Engine.MapHeight,
		Seed:         c.Engine.Seed,
		Debug:        c.Debug.Enabled,
		DrawHitBoxes: c.Debug.DrawHitBoxes,
	}
}
