package game

import (
	"image"
	"time"
)

// Phase is the Animator's action state.
type Phase int

const (
	PhaseIdle    Phase = iota // No action in flight
	PhaseMoving               // Ship traveling to the target column
	PhaseStalled              // Arrived, waiting for the cooldown
	PhaseFiring               // Bullet in flight
	PhaseCleared              // Terminal: sequence exhausted, no enemy alive
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseMoving:
		return "moving"
	case PhaseStalled:
		return "stalled"
	case PhaseFiring:
		return "firing"
	case PhaseCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// RunResult is the outcome of a completed run.
type RunResult struct {
	Frames        []image.Image
	Ticks         int
	FrameDuration time.Duration
	Cleared       bool
}

// Animator drives the tick loop. It owns the world exclusively, pulls
// actions from the policy's queue one at a time, advances the world by
// a fixed time step per tick and renders one frame per tick.
//
// One Animator runs exactly one job; independent jobs build their own
// Animator and share no state.
type Animator struct {
	world    *World
	queue    *ActionQueue
	rc       *RenderContext
	phase    Phase
	action   *Action
	bullet   *Bullet
	tick     int
	maxTicks int
	trailing int
}

// NewAnimator plans the policy against the world's initial layout and
// prepares a run. The same Animator must not be run twice.
func NewAnimator(world *World, policy Policy, rc *RenderContext) *Animator {
	return &Animator{
		world:    world,
		queue:    policy.Plan(world.Layout()),
		rc:       rc,
		phase:    PhaseIdle,
		maxTicks: world.cfg.MaxTicks(),
		trailing: world.cfg.TrailingFrames,
	}
}

// World returns a read-only view of the simulation state. Callers must
// not mutate it.
func (a *Animator) World() *World { return a.world }

// Phase returns the current action state.
func (a *Animator) Phase() Phase { return a.phase }

// Tick returns the number of completed simulation ticks.
func (a *Animator) Tick() int { return a.tick }

// ActionsLeft returns the number of unconsumed actions.
func (a *Animator) ActionsLeft() int { return a.queue.Remaining() }

// Step advances the simulation by one tick and reports whether this
// was the final tick of the run. Exactly one frame should be rendered
// after each Step. A returned error aborts the run: either the policy
// emitted an out-of-grid action or the run guard was exceeded.
func (a *Animator) Step() (done bool, err error) {
	if a.phase == PhaseCleared {
		// Trailing idle frames: cosmetic motion only.
		a.world.advance(a.world.cfg.DeltaTime())
		a.trailing--
		return a.trailing <= 0, nil
	}

	if a.tick >= a.maxTicks {
		return false, &GuardExceededError{Ticks: a.tick}
	}
	a.tick++

	if a.action == nil {
		if act, ok := a.queue.Next(); ok {
			if act.X < 0 || act.X >= NumWeeks {
				return false, &InvalidActionError{X: act.X}
			}
			a.action = &act
			a.world.ship.MoveTo(float64(act.X))
			a.phase = PhaseMoving
		}
	}

	a.world.advance(a.world.cfg.DeltaTime())

	switch a.phase {
	case PhaseMoving:
		if a.world.ship.Arrived() {
			switch {
			case !a.action.Shoot:
				a.completeAction()
			case a.world.ship.CanFire():
				a.fire()
			default:
				// Cooldown still running: insert extra ticks, never
				// drop the shot.
				a.phase = PhaseStalled
			}
		}
	case PhaseStalled:
		if a.world.ship.CanFire() {
			a.fire()
		}
	case PhaseFiring:
		if a.bullet == nil || a.bullet.Impacted() {
			a.completeAction()
		}
	}

	if a.phase == PhaseIdle && a.queue.Remaining() == 0 && a.world.AliveCount() == 0 {
		a.phase = PhaseCleared
		return a.trailing <= 0, nil
	}

	return false, nil
}

func (a *Animator) fire() {
	a.bullet = a.world.fire(a.action.X)
	if a.bullet == nil {
		// No alive enemy in the column; the action resolves with no
		// shot. Unreachable under the one-action-per-enemy mapping.
		a.completeAction()
		return
	}
	a.phase = PhaseFiring
}

func (a *Animator) completeAction() {
	a.action = nil
	a.bullet = nil
	a.phase = PhaseIdle
}

// Run executes the whole job: it steps the simulation tick by tick,
// renders one frame per tick and returns the accumulated sequence.
// On error no result is returned; a partial frame sequence is never a
// successful result.
func (a *Animator) Run() (*RunResult, error) {
	frames := make([]image.Image, 0, a.queue.Len()*8+a.trailing+1)
	for {
		done, err := a.Step()
		if err != nil {
			return nil, err
		}
		frames = append(frames, RenderFrame(a.world, a.rc))
		if done {
			break
		}
	}
	return &RunResult{
		Frames:        frames,
		Ticks:         a.tick,
		FrameDuration: time.Second / time.Duration(a.world.cfg.FPS),
		Cleared:       true,
	}, nil
}
