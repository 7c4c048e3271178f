// Package config provides YAML-based configuration loading for the
// shooter: simulation parameters and the render theme.
package config

import (
	"fmt"
	"image/color"

	"github.com/vovakirdan/gh-space-shooter/internal/game"
)

// Config is the full job configuration as loaded from YAML.
type Config struct {
	Game  GameConfig  `yaml:"game"`
	Theme ThemeConfig `yaml:"theme"`
}

// GameConfig defines the simulation parameters.
type GameConfig struct {
	FPS            int     `yaml:"fps"`
	ShipSpeed      float64 `yaml:"ship_speed"`      // Cells per second
	BulletSpeed    float64 `yaml:"bullet_speed"`    // Cells per second
	Cooldown       float64 `yaml:"cooldown"`        // Seconds between shots
	ExplosionTTL   float64 `yaml:"explosion_ttl"`   // Seconds
	Starfield      int     `yaml:"starfield"`       // Particle count
	MaxSeconds     float64 `yaml:"max_seconds"`     // Run guard
	TrailingFrames int     `yaml:"trailing_frames"` // Idle frames after clearing
}

// ThemeConfig defines the render theme. Colors are hex strings.
type ThemeConfig struct {
	CellSize  int      `yaml:"cell_size"`
	Padding   int      `yaml:"padding"`
	Gap       int      `yaml:"gap"`
	Bg        string   `yaml:"background"`
	Ramp      []string `yaml:"ramp"` // Exactly 5 colors, empty..max intensity
	Enemy     string   `yaml:"enemy"`
	Ship      string   `yaml:"ship"`
	Bullet    string   `yaml:"bullet"`
	Explosion string   `yaml:"explosion"`
	Star      string   `yaml:"star"`
	Watermark string   `yaml:"watermark"`
}

// Core validates the game section and converts it into the simulation
// configuration. A positive fpsOverride replaces the configured rate.
func (c Config) Core(seed int64, fpsOverride int) (game.Config, error) {
	core := game.Config{
		FPS:            c.Game.FPS,
		ShipSpeed:      c.Game.ShipSpeed,
		BulletSpeed:    c.Game.BulletSpeed,
		Cooldown:       c.Game.Cooldown,
		ExplosionTTL:   c.Game.ExplosionTTL,
		StarCount:      c.Game.Starfield,
		MaxSeconds:     c.Game.MaxSeconds,
		TrailingFrames: c.Game.TrailingFrames,
		Seed:           seed,
	}
	if fpsOverride > 0 {
		core.FPS = fpsOverride
	}
	if err := core.Validate(); err != nil {
		return game.Config{}, err
	}
	return core, nil
}

// themeField pairs a hex string from the YAML with its destination.
type themeField struct {
	name string
	hex  string
	dst  *color.RGBA
}

// CoreTheme validates the theme section and converts it into the
// render theme.
func (c Config) CoreTheme() (game.Theme, error) {
	t := game.Theme{
		CellSize:  c.Theme.CellSize,
		Padding:   c.Theme.Padding,
		Gap:       c.Theme.Gap,
		Watermark: c.Theme.Watermark,
	}

	if len(c.Theme.Ramp) != len(t.Ramp) {
		return game.Theme{}, &game.ConfigError{
			Field:   "ramp",
			Message: fmt.Sprintf("need exactly %d colors, got %d", len(t.Ramp), len(c.Theme.Ramp)),
		}
	}

	fields := []themeField{
		{"background", c.Theme.Bg, &t.Bg},
		{"enemy", c.Theme.Enemy, &t.Enemy},
		{"ship", c.Theme.Ship, &t.Ship},
		{"bullet", c.Theme.Bullet, &t.Bullet},
		{"explosion", c.Theme.Explosion, &t.Explosion},
		{"star", c.Theme.Star, &t.Star},
	}
	for i := range c.Theme.Ramp {
		fields = append(fields, themeField{fmt.Sprintf("ramp[%d]", i), c.Theme.Ramp[i], &t.Ramp[i]})
	}

	for _, f := range fields {
		rgba, err := ParseHex(f.hex)
		if err != nil {
			return game.Theme{}, &game.ConfigError{Field: f.name, Message: err.Error()}
		}
		*f.dst = rgba
	}

	if err := t.Validate(); err != nil {
		return game.Theme{}, err
	}
	return t, nil
}

// ParseHex parses a "#rrggbb" or "rrggbb" color string.
func ParseHex(s string) (color.RGBA, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}
