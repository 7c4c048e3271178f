package game

import (
	"errors"
	"testing"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Seed = 1
	cfg.StarCount = 0
	return cfg
}

func gridWith(t *testing.T, cells map[Coord]int) *Grid {
	t.Helper()
	var counts [NumWeeks][NumDays]int
	for c, n := range cells {
		counts[c.X][c.Y] = n
	}
	grid, err := NewGrid(counts)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return grid
}

func newTestAnimator(t *testing.T, grid *Grid, cfg Config, policy Policy) *Animator {
	t.Helper()
	world, err := NewWorld(grid, cfg)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	rc, err := NewRenderContext(DefaultTheme())
	if err != nil {
		t.Fatalf("NewRenderContext: %v", err)
	}
	return NewAnimator(world, policy, rc)
}

// stepAll drives the animator to completion without rendering and
// returns the ticks at which a shot was fired.
func stepAll(t *testing.T, a *Animator) (fireTicks []int) {
	t.Helper()
	prev := a.Phase()
	for {
		done, err := a.Step()
		if err != nil {
			t.Fatalf("Step at tick %d: %v", a.Tick(), err)
		}
		if a.Phase() == PhaseFiring && prev != PhaseFiring {
			fireTicks = append(fireTicks, a.Tick())
		}
		prev = a.Phase()
		if done {
			return fireTicks
		}
	}
}

func TestSingleEnemyRun(t *testing.T) {
	// One enemy three columns away: at 10 cells/s and 40 ticks/s the
	// ship needs 12 ticks to travel, then one bullet clears the world.
	grid := gridWith(t, map[Coord]int{C(3, 6): 1})
	anim := newTestAnimator(t, grid, testConfig(), ColumnPolicy{})

	arrivalTick := 0
	fireTicks := []int{}
	prev := anim.Phase()
	for {
		done, err := anim.Step()
		if err != nil {
			t.Fatalf("Step: %v", err)
		}
		ship := anim.World().Ship()
		if arrivalTick == 0 && ship.Arrived() && ship.X == 3 {
			arrivalTick = anim.Tick()
		}
		if anim.Phase() == PhaseFiring && prev != PhaseFiring {
			fireTicks = append(fireTicks, anim.Tick())
		}
		prev = anim.Phase()
		if done {
			break
		}
	}

	if arrivalTick == 0 || arrivalTick > 12 {
		t.Errorf("expected arrival within 12 ticks, got %d", arrivalTick)
	}
	if len(fireTicks) != 1 {
		t.Errorf("expected exactly 1 shot, got %d at %v", len(fireTicks), fireTicks)
	}
	if anim.Phase() != PhaseCleared {
		t.Errorf("expected cleared phase, got %s", anim.Phase())
	}
	if alive := anim.World().AliveCount(); alive != 0 {
		t.Errorf("expected 0 alive enemies, got %d", alive)
	}
}

func TestCooldownDelaysSecondShot(t *testing.T) {
	// Two enemies in the ship's starting column. The first shot goes
	// out immediately; the second waits out the 0.5s cooldown, which
	// is at least 20 ticks at 40 ticks/s.
	grid := gridWith(t, map[Coord]int{C(0, 5): 1, C(0, 6): 1})
	anim := newTestAnimator(t, grid, testConfig(), ColumnPolicy{})

	fireTicks := stepAll(t, anim)
	if len(fireTicks) != 2 {
		t.Fatalf("expected 2 shots, got %d at %v", len(fireTicks), fireTicks)
	}
	gap := fireTicks[1] - fireTicks[0]
	if gap < 20 {
		t.Errorf("expected at least 20 ticks between shots, got %d", gap)
	}
	if gap > 21 {
		t.Errorf("expected cooldown to elapse after ~20 ticks, got %d", gap)
	}
	if anim.Phase() != PhaseCleared {
		t.Errorf("expected cleared phase, got %s", anim.Phase())
	}
}

func TestBottomEnemyDiesFirst(t *testing.T) {
	grid := gridWith(t, map[Coord]int{C(4, 1): 1, C(4, 6): 1})
	world, err := NewWorld(grid, testConfig())
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}

	target := world.targetInColumn(4)
	if target == nil || target.Pos != C(4, 6) {
		t.Fatalf("expected target (4,6), got %v", target)
	}
	target.Alive = false
	target = world.targetInColumn(4)
	if target == nil || target.Pos != C(4, 1) {
		t.Fatalf("expected target (4,1) after bottom kill, got %v", target)
	}
	if world.targetInColumn(10) != nil {
		t.Error("expected no target in an empty column")
	}
}

func TestEmptyGridRunIsBounded(t *testing.T) {
	grid := gridWith(t, nil)
	anim := newTestAnimator(t, grid, testConfig(), RandomPolicy{Seed: 7})

	result, err := anim.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Cleared {
		t.Error("expected a cleared run")
	}
	if result.Ticks != 1 {
		t.Errorf("expected 1 simulation tick, got %d", result.Ticks)
	}
	// One frame for the clearing tick plus the trailing idle frames.
	want := 1 + testConfig().TrailingFrames
	if len(result.Frames) != want {
		t.Errorf("expected %d frames, got %d", want, len(result.Frames))
	}
}

func TestAliveCountNeverIncreases(t *testing.T) {
	grid := gridWith(t, map[Coord]int{
		C(0, 0): 2, C(3, 4): 1, C(3, 6): 5, C(10, 2): 3, C(25, 5): 1,
	})
	anim := newTestAnimator(t, grid, testConfig(), RowPolicy{})

	prevAlive := anim.World().AliveCount()
	for {
		done, err := anim.Step()
		if err != nil {
			t.Fatalf("Step: %v", err)
		}
		alive := anim.World().AliveCount()
		if alive > prevAlive {
			t.Fatalf("alive count increased from %d to %d at tick %d", prevAlive, alive, anim.Tick())
		}
		prevAlive = alive
		if done {
			break
		}
	}
	if prevAlive != 0 {
		t.Errorf("expected all enemies dead, got %d alive", prevAlive)
	}
}

func TestSameSeedSameRun(t *testing.T) {
	cells := map[Coord]int{
		C(1, 1): 1, C(5, 3): 4, C(5, 6): 2, C(17, 0): 1, C(44, 5): 9,
	}

	run := func() (ticks int, trajectory []float64) {
		anim := newTestAnimator(t, gridWith(t, cells), testConfig(), RandomPolicy{Seed: 1234})
		for {
			done, err := anim.Step()
			if err != nil {
				t.Fatalf("Step: %v", err)
			}
			trajectory = append(trajectory, anim.World().Ship().X)
			if done {
				return anim.Tick(), trajectory
			}
		}
	}

	ticksA, trajA := run()
	ticksB, trajB := run()
	if ticksA != ticksB {
		t.Fatalf("tick counts differ: %d vs %d", ticksA, ticksB)
	}
	if len(trajA) != len(trajB) {
		t.Fatalf("trajectory lengths differ: %d vs %d", len(trajA), len(trajB))
	}
	for i := range trajA {
		if trajA[i] != trajB[i] {
			t.Fatalf("ship position differs at step %d: %v vs %v", i, trajA[i], trajB[i])
		}
	}
}

func TestRunGuardExceeded(t *testing.T) {
	cfg := testConfig()
	cfg.MaxSeconds = 0.1 // 4 ticks, far too few to cross the grid

	grid := gridWith(t, map[Coord]int{C(51, 6): 1})
	anim := newTestAnimator(t, grid, cfg, ColumnPolicy{})

	result, err := anim.Run()
	if err == nil {
		t.Fatal("expected run guard error")
	}
	var guardErr *GuardExceededError
	if !errors.As(err, &guardErr) {
		t.Fatalf("expected GuardExceededError, got %T: %v", err, err)
	}
	if result != nil {
		t.Error("expected no result on an aborted run")
	}
}

// wildPolicy aims outside the grid to exercise action validation.
type wildPolicy struct{}

func (wildPolicy) Name() string { return "wild" }

func (wildPolicy) Plan(layout []Coord) *ActionQueue {
	return newActionQueue([]Action{{X: NumWeeks + 3, Shoot: true}})
}

func TestInvalidActionAborts(t *testing.T) {
	grid := gridWith(t, map[Coord]int{C(2, 2): 1})
	anim := newTestAnimator(t, grid, testConfig(), wildPolicy{})

	_, err := anim.Run()
	if err == nil {
		t.Fatal("expected invalid action error")
	}
	var actionErr *InvalidActionError
	if !errors.As(err, &actionErr) {
		t.Fatalf("expected InvalidActionError, got %T: %v", err, err)
	}
	if actionErr.X != NumWeeks+3 {
		t.Errorf("expected offending x %d, got %d", NumWeeks+3, actionErr.X)
	}
}

func TestConfigValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero fps", func(c *Config) { c.FPS = 0 }, "fps"},
		{"negative ship speed", func(c *Config) { c.ShipSpeed = -1 }, "ship_speed"},
		{"zero bullet speed", func(c *Config) { c.BulletSpeed = 0 }, "bullet_speed"},
		{"negative cooldown", func(c *Config) { c.Cooldown = -0.1 }, "cooldown"},
		{"zero explosion ttl", func(c *Config) { c.ExplosionTTL = 0 }, "explosion_ttl"},
		{"negative stars", func(c *Config) { c.StarCount = -1 }, "starfield"},
		{"zero guard", func(c *Config) { c.MaxSeconds = 0 }, "max_seconds"},
		{"negative trailing", func(c *Config) { c.TrailingFrames = -1 }, "trailing_frames"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %T", err)
			}
			if cfgErr.Field != tc.field {
				t.Errorf("expected field %q, got %q", tc.field, cfgErr.Field)
			}
		})
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config must validate, got %v", err)
	}
}
