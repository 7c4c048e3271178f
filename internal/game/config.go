package game

import "fmt"

// Config holds the simulation parameters for one run. Every job gets
// its own value; independent jobs never share configuration state.
type Config struct {
	FPS            int     // Frames (ticks) per second
	ShipSpeed      float64 // Ship horizontal speed, cells per second
	BulletSpeed    float64 // Bullet speed, cells per second
	Cooldown       float64 // Seconds between shots
	ExplosionTTL   float64 // Explosion lifetime in seconds
	StarCount      int     // Number of starfield particles
	MaxSeconds     float64 // Run guard: simulated seconds before aborting
	TrailingFrames int     // Idle frames appended after the world clears
	Seed           int64   // RNG seed; 0 means derive from current time
}

// DefaultConfig returns the simulation defaults.
func DefaultConfig() Config {
	return Config{
		FPS:            40,
		ShipSpeed:      10,
		BulletSpeed:    20,
		Cooldown:       0.5,
		ExplosionTTL:   0.4,
		StarCount:      100,
		MaxSeconds:     120,
		TrailingFrames: 12,
		Seed:           0,
	}
}

// Validate checks the configuration before a run starts.
func (c Config) Validate() error {
	switch {
	case c.FPS <= 0:
		return &ConfigError{Field: "fps", Message: fmt.Sprintf("must be positive, got %d", c.FPS)}
	case c.ShipSpeed <= 0:
		return &ConfigError{Field: "ship_speed", Message: fmt.Sprintf("must be positive, got %g", c.ShipSpeed)}
	case c.BulletSpeed <= 0:
		return &ConfigError{Field: "bullet_speed", Message: fmt.Sprintf("must be positive, got %g", c.BulletSpeed)}
	case c.Cooldown < 0:
		return &ConfigError{Field: "cooldown", Message: fmt.Sprintf("must not be negative, got %g", c.Cooldown)}
	case c.ExplosionTTL <= 0:
		return &ConfigError{Field: "explosion_ttl", Message: fmt.Sprintf("must be positive, got %g", c.ExplosionTTL)}
	case c.StarCount < 0:
		return &ConfigError{Field: "starfield", Message: fmt.Sprintf("must not be negative, got %d", c.StarCount)}
	case c.MaxSeconds <= 0:
		return &ConfigError{Field: "max_seconds", Message: fmt.Sprintf("must be positive, got %g", c.MaxSeconds)}
	case c.TrailingFrames < 0:
		return &ConfigError{Field: "trailing_frames", Message: fmt.Sprintf("must not be negative, got %d", c.TrailingFrames)}
	}
	return nil
}

// DeltaTime returns the fixed per-tick time step in seconds.
func (c Config) DeltaTime() float64 {
	return 1 / float64(c.FPS)
}

// MaxTicks returns the run guard in ticks.
func (c Config) MaxTicks() int {
	return int(c.MaxSeconds * float64(c.FPS))
}
