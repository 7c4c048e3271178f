package game

import (
	"math"

	"github.com/fogleman/gg"
)

// arriveEpsilon is the distance below which a moving entity is
// considered to have reached its destination.
const arriveEpsilon = 1e-6

// Drawable is the shared capability of every entity: advance your own
// state by a fixed time step, and draw yourself without mutating
// anything. Update may only touch the entity's own fields; completion
// is signalled through flags (Impacted, Expired), never by removing
// entities mid-tick.
type Drawable interface {
	Update(dt float64)
	Draw(dc *gg.Context, rc *RenderContext)
}

// Ship is the player ship. It travels along the lane below the grid
// toward a pending target column and carries a shot cooldown.
type Ship struct {
	X        float64
	targetX  float64
	cooldown float64
	speed    float64
	reset    float64 // Cooldown value applied on firing
}

func newShip(cfg Config) *Ship {
	return &Ship{
		X:     0,
		speed: cfg.ShipSpeed,
		reset: cfg.Cooldown,
	}
}

// MoveTo sets the pending target column.
func (s *Ship) MoveTo(x float64) {
	s.targetX = x
}

// Arrived returns true once the ship sits on its target column.
func (s *Ship) Arrived() bool {
	return math.Abs(s.X-s.targetX) < arriveEpsilon
}

// CanFire returns true when the shot cooldown has elapsed.
func (s *Ship) CanFire() bool {
	return s.cooldown <= 0
}

// Cooldown returns the seconds remaining until the next shot.
func (s *Ship) Cooldown() float64 {
	return s.cooldown
}

func (s *Ship) beginCooldown() {
	s.cooldown = s.reset
}

// Update advances the ship toward its target, clamped to never
// overshoot, and counts the cooldown down to zero.
func (s *Ship) Update(dt float64) {
	step := s.speed * dt
	switch {
	case s.X < s.targetX:
		s.X = math.Min(s.X+step, s.targetX)
	case s.X > s.targetX:
		s.X = math.Max(s.X-step, s.targetX)
	}
	if s.X < 0 {
		s.X = 0
	} else if s.X > NumWeeks-1 {
		s.X = NumWeeks - 1
	}
	s.cooldown = math.Max(0, s.cooldown-dt)
}

// Draw renders the ship: nose, body, wings and an engine glow,
// built from shades of the theme's ship color.
func (s *Ship) Draw(dc *gg.Context, rc *RenderContext) {
	cs := rc.CellSize()
	cx, _ := rc.CellCenter(s.X, ShipRow)
	_, py := rc.CellPos(s.X, ShipRow)

	base := rc.theme.Ship

	// Engine glow
	dc.SetColor(lighten(base, 50))
	dc.DrawEllipse(cx, py+cs, cs/4, cs/6)
	dc.Fill()

	// Wings
	dc.SetColor(darken(base, 30))
	dc.MoveTo(cx-cs/6, py+cs*0.4)
	dc.LineTo(cx-cs/2, py+cs*0.8)
	dc.LineTo(cx-cs/6, py+cs*0.8)
	dc.ClosePath()
	dc.Fill()
	dc.MoveTo(cx+cs/6, py+cs*0.4)
	dc.LineTo(cx+cs/2, py+cs*0.8)
	dc.LineTo(cx+cs/6, py+cs*0.8)
	dc.ClosePath()
	dc.Fill()

	// Body
	dc.SetColor(base)
	dc.MoveTo(cx, py)
	dc.LineTo(cx-cs/4, py+cs)
	dc.LineTo(cx+cs/4, py+cs)
	dc.ClosePath()
	dc.Fill()

	// Cockpit
	dc.SetColor(lighten(base, 90))
	dc.DrawEllipse(cx, py+cs*0.35, cs/8, cs/6)
	dc.Fill()
}

// Enemy occupies one active grid cell. Membership in the enemy set is
// fixed at world construction; only the Alive flag ever changes, and
// only from true to false.
type Enemy struct {
	Pos   Coord
	Alive bool
	level int // Intensity level of the underlying cell, for shading
}

// Update is a no-op; enemies hold position until destroyed.
func (e *Enemy) Update(dt float64) {}

// Draw renders a live enemy as a filled cell in the enemy color.
// Dead enemies draw nothing; the baseline grid shading beneath them
// keeps showing the original activity.
func (e *Enemy) Draw(dc *gg.Context, rc *RenderContext) {
	if !e.Alive {
		return
	}
	cs := rc.CellSize()
	gap := float64(rc.theme.Gap)
	px, py := rc.CellPos(float64(e.Pos.X), float64(e.Pos.Y))
	dc.SetColor(rc.theme.Enemy)
	dc.DrawRectangle(px, py, cs-gap, cs-gap)
	dc.Fill()
	// Darker core so dense columns stay readable
	dc.SetColor(darken(rc.theme.Enemy, 40+20*e.level))
	dc.DrawRectangle(px+cs/4, py+cs/4, cs/2-gap, cs/2-gap)
	dc.Fill()
}

// Bullet travels from the ship toward the cell of its target enemy at
// constant speed and signals impact on arrival. The target reference
// is fixed at creation; a bullet always points at a still-tracked
// enemy even if that enemy is already dead.
type Bullet struct {
	X, Y     float64
	target   *Enemy
	speed    float64
	impacted bool
}

// Target returns the enemy this bullet was aimed at.
func (b *Bullet) Target() *Enemy {
	return b.target
}

// Impacted reports whether the bullet reached its target this run.
func (b *Bullet) Impacted() bool {
	return b.impacted
}

// Update moves the bullet toward its target's cell, clamped to not
// overshoot, and raises the impact signal on arrival.
func (b *Bullet) Update(dt float64) {
	if b.impacted {
		return
	}
	tx := float64(b.target.Pos.X)
	ty := float64(b.target.Pos.Y)
	dx := tx - b.X
	dy := ty - b.Y
	dist := math.Hypot(dx, dy)
	step := b.speed * dt
	if dist <= step || dist < arriveEpsilon {
		b.X, b.Y = tx, ty
		b.impacted = true
		return
	}
	b.X += dx / dist * step
	b.Y += dy / dist * step
}

// Draw renders the bullet as a short streak with a fading tail.
func (b *Bullet) Draw(dc *gg.Context, rc *RenderContext) {
	if b.impacted {
		return
	}
	c := rc.theme.Bullet
	cs := rc.CellSize()
	const tail = 4
	for i := tail; i >= 1; i-- {
		alpha := 255 * (tail - i + 1) / (tail + 1)
		px, py := rc.CellCenter(b.X, b.Y+float64(i)*0.3)
		dc.SetRGBA255(int(c.R), int(c.G), int(c.B), alpha*6/10)
		dc.DrawRectangle(px-1, py-cs/4, 2, cs/2)
		dc.Fill()
	}
	px, py := rc.CellCenter(b.X, b.Y)
	dc.SetColor(c)
	dc.DrawRectangle(px-1, py-cs/4, 2, cs/2)
	dc.Fill()
}

// Explosion is a short-lived burst spawned at a bullet impact. It ages
// every tick and signals expiry once its time-to-live has elapsed.
type Explosion struct {
	X, Y float64
	age  float64
	ttl  float64
}

// Expired reports whether the explosion has outlived its TTL.
func (e *Explosion) Expired() bool {
	return e.age >= e.ttl
}

// Age returns the elapsed lifetime in seconds.
func (e *Explosion) Age() float64 {
	return e.age
}

// Update advances the explosion's age. The sweep at tick end collects
// expired explosions, so the age never outlives a tick past the TTL.
func (e *Explosion) Update(dt float64) {
	e.age += dt
}

// Draw renders expanding, fading particles around the impact point
// plus a brief central flash.
func (e *Explosion) Draw(dc *gg.Context, rc *RenderContext) {
	progress := e.age / e.ttl
	if progress >= 1 {
		return
	}
	fade := 1 - progress
	c := rc.theme.Explosion
	cs := rc.CellSize()
	cx, cy := rc.CellCenter(e.X, e.Y)

	const particles = 6
	maxRadius := cs * 1.25
	for i := 0; i < particles; i++ {
		angle := 2 * math.Pi * float64(i) / particles
		dist := progress * maxRadius
		px := cx + math.Cos(angle)*dist
		py := cy + math.Sin(angle)*dist
		size := (1 - progress*0.5) * cs / 5
		dc.SetRGBA255(int(c.R), int(c.G), int(c.B), int(255*fade))
		dc.DrawCircle(px, py, size)
		dc.Fill()
	}

	if progress < 0.3 {
		flash := 1 - progress/0.3
		dc.SetRGBA255(255, 255, 255, int(255*flash))
		dc.DrawCircle(cx, cy, cs/3*flash)
		dc.Fill()
	}
}

// Star is one cosmetic starfield particle. It drifts downward at its
// own speed and wraps at the viewport edges; stars never expire.
type Star struct {
	X, Y       float64
	speed      float64
	brightness float64
	size       int
}

// Update drifts the star down and wraps it back above the viewport.
func (s *Star) Update(dt float64) {
	s.Y += s.speed * dt
	if s.Y > viewRows {
		s.Y -= viewRows + 2
	}
}

// Draw renders the star as a small dot scaled by its brightness.
func (s *Star) Draw(dc *gg.Context, rc *RenderContext) {
	c := rc.theme.Star
	a := int(255 * s.brightness)
	px, py := rc.CellPos(s.X, s.Y)
	dc.SetRGBA255(int(c.R), int(c.G), int(c.B), a)
	dc.DrawRectangle(px, py, float64(s.size), float64(s.size))
	dc.Fill()
}
