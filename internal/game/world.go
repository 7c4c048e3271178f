package game

import (
	"math/rand"
	"time"
)

// World owns the mutable simulation state for one run: the ship, the
// fixed enemy set, the dynamic bullet and explosion collections, the
// starfield and the elapsed time. The Animator is its only mutator;
// everything else gets a read-only view.
type World struct {
	grid       *Grid
	cfg        Config
	ship       *Ship
	enemies    []*Enemy
	bullets    []*Bullet
	explosions []*Explosion
	stars      []*Star
	elapsed    float64
}

// NewWorld validates the configuration and builds the initial state:
// one enemy per active grid cell and a seeded starfield. The enemy set
// never changes membership afterwards.
func NewWorld(grid *Grid, cfg Config) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	w := &World{
		grid: grid,
		cfg:  cfg,
		ship: newShip(cfg),
	}

	for _, c := range grid.ActiveCells() {
		w.enemies = append(w.enemies, &Enemy{
			Pos:   c,
			Alive: true,
			level: grid.Level(c),
		})
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	w.stars = make([]*Star, 0, cfg.StarCount)
	for i := 0; i < cfg.StarCount; i++ {
		size := 1
		if rng.Float64() < 0.25 {
			size = 2
		}
		brightness := 0.2 + rng.Float64()*0.8
		w.stars = append(w.stars, &Star{
			X:          rng.Float64() * NumWeeks,
			Y:          rng.Float64() * viewRows,
			brightness: brightness,
			size:       size,
			// Dimmer stars drift slower, for depth
			speed: 0.5 + brightness*0.8,
		})
	}

	return w, nil
}

// Grid returns the input grid.
func (w *World) Grid() *Grid { return w.grid }

// Ship returns the ship.
func (w *World) Ship() *Ship { return w.ship }

// Enemies returns the fixed enemy set.
func (w *World) Enemies() []*Enemy { return w.enemies }

// Bullets returns the bullets currently in flight.
func (w *World) Bullets() []*Bullet { return w.bullets }

// Explosions returns the explosions currently resolving.
func (w *World) Explosions() []*Explosion { return w.explosions }

// Stars returns the starfield.
func (w *World) Stars() []*Star { return w.stars }

// Elapsed returns the simulated time in seconds.
func (w *World) Elapsed() float64 { return w.elapsed }

// AliveCount returns the number of enemies still alive.
func (w *World) AliveCount() int {
	n := 0
	for _, e := range w.enemies {
		if e.Alive {
			n++
		}
	}
	return n
}

// Layout returns the initial enemy positions, in the enemy set's fixed
// order. Policies plan against this, never against live death state.
func (w *World) Layout() []Coord {
	layout := make([]Coord, len(w.enemies))
	for i, e := range w.enemies {
		layout[i] = e.Pos
	}
	return layout
}

// targetInColumn picks the alive enemy in the column nearest the ship,
// i.e. with the highest day row. Policies emit exactly one action per
// enemy, so killing bottom-up makes every action account for exactly
// one enemy.
func (w *World) targetInColumn(x int) *Enemy {
	var target *Enemy
	for _, e := range w.enemies {
		if !e.Alive || e.Pos.X != x {
			continue
		}
		if target == nil || e.Pos.Y > target.Pos.Y {
			target = e
		}
	}
	return target
}

// fire spawns a bullet from the ship aimed at the closest alive enemy
// in the given column and starts the ship's cooldown. It returns nil
// if the column holds no alive enemy.
func (w *World) fire(x int) *Bullet {
	target := w.targetInColumn(x)
	if target == nil {
		return nil
	}
	b := &Bullet{
		X:      w.ship.X,
		Y:      ShipRow - 0.6,
		target: target,
		speed:  w.cfg.BulletSpeed,
	}
	w.bullets = append(w.bullets, b)
	w.ship.beginCooldown()
	return b
}

// advance runs the per-tick entity phase: every entity updates its own
// state, impacts are resolved, and completed entities are swept out
// atomically at the end so the collections stay consistent for the
// whole tick.
func (w *World) advance(dt float64) {
	w.ship.Update(dt)

	for _, b := range w.bullets {
		already := b.Impacted()
		b.Update(dt)
		if b.Impacted() && !already {
			e := b.Target()
			if e.Alive {
				e.Alive = false
				w.explosions = append(w.explosions, &Explosion{
					X:   float64(e.Pos.X),
					Y:   float64(e.Pos.Y),
					ttl: w.cfg.ExplosionTTL,
				})
			}
		}
	}

	for _, ex := range w.explosions {
		ex.Update(dt)
	}
	for _, s := range w.stars {
		s.Update(dt)
	}

	w.sweep()
	w.elapsed += dt
}

// sweep removes impacted bullets and expired explosions.
func (w *World) sweep() {
	bullets := w.bullets[:0]
	for _, b := range w.bullets {
		if !b.Impacted() {
			bullets = append(bullets, b)
		}
	}
	w.bullets = bullets

	explosions := w.explosions[:0]
	for _, ex := range w.explosions {
		if !ex.Expired() {
			explosions = append(explosions, ex)
		}
	}
	w.explosions = explosions
}
