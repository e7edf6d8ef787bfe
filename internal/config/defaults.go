package config

import (
	_ "embed"

	"github.com/vovakirdan/tui-linka/internal/engine"
)

//go:embed defaults/linka.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			Framerate: engine.DefaultFramerate,
			MapWidth:  16,
			MapHeight: 12,
		},
		Render: RenderConfig{
			Scale:    0,
			GUIScale: 2,
		},
		World: WorldConfig{
			ID: "demo",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
