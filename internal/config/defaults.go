package config

import (
	_ "embed"
)

//go:embed defaults/ghshooter.yaml
var defaultYAML []byte

// Default returns the built-in configuration, used when no config file
// is found and as the fallback if the embedded YAML fails to parse.
func Default() Config {
	return Config{
		Game: GameConfig{
			FPS:            40,
			ShipSpeed:      10.0,
			BulletSpeed:    20.0,
			Cooldown:       0.5,
			ExplosionTTL:   0.4,
			Starfield:      100,
			MaxSeconds:     120,
			TrailingFrames: 12,
		},
		Theme: ThemeConfig{
			CellSize:  12,
			Padding:   24,
			Gap:       2,
			Bg:        "#0d1117",
			Ramp:      []string{"#161b22", "#0e4429", "#006d32", "#26a641", "#39d353"},
			Enemy:     "#39d353",
			Ship:      "#58a6ff",
			Bullet:    "#ffdf00",
			Explosion: "#ffa657",
			Star:      "#8b949e",
		},
	}
}
