package game

import (
	"fmt"
	"math/rand"
	"sort"
	"time"
)

// Action is one unit of intent from a targeting policy: steer the ship
// to column X and, if Shoot is set, fire once. Each action is consumed
// exactly once.
type Action struct {
	X     int
	Shoot bool
}

// ActionQueue is a finite, ordered, single-pass sequence of actions.
// It is computed once from the initial enemy layout and never
// restarted; the same enemy is never consulted twice.
type ActionQueue struct {
	actions []Action
	next    int
}

func newActionQueue(actions []Action) *ActionQueue {
	return &ActionQueue{actions: actions}
}

// Next pops the next action. The second return is false once the
// sequence is exhausted.
func (q *ActionQueue) Next() (Action, bool) {
	if q.next >= len(q.actions) {
		return Action{}, false
	}
	a := q.actions[q.next]
	q.next++
	return a, true
}

// Remaining returns how many actions have not been consumed yet.
func (q *ActionQueue) Remaining() int {
	return len(q.actions) - q.next
}

// Len returns the total length of the sequence.
func (q *ActionQueue) Len() int {
	return len(q.actions)
}

// Policy maps the initial enemy layout to an ordered action sequence,
// one shooting action per enemy, each aimed at that enemy's column.
// Policies observe only the initial layout, never live death state.
type Policy interface {
	// Name returns the identifier used by the CLI and HTTP API.
	Name() string

	// Plan computes the action sequence for the given layout.
	// An empty layout yields an empty queue.
	Plan(layout []Coord) *ActionQueue
}

// ColumnPolicy visits columns left to right; within a column, enemies
// are visited top to bottom.
type ColumnPolicy struct{}

func (ColumnPolicy) Name() string { return "column" }

func (ColumnPolicy) Plan(layout []Coord) *ActionQueue {
	order := append([]Coord(nil), layout...)
	sort.SliceStable(order, func(i, j int) bool {
		if order[i].X != order[j].X {
			return order[i].X < order[j].X
		}
		return order[i].Y < order[j].Y
	})
	return queueFor(order)
}

// RowPolicy visits enemies row-major: row ascending, then column
// ascending within a row.
type RowPolicy struct{}

func (RowPolicy) Name() string { return "row" }

func (RowPolicy) Plan(layout []Coord) *ActionQueue {
	order := append([]Coord(nil), layout...)
	sort.SliceStable(order, func(i, j int) bool {
		if order[i].Y != order[j].Y {
			return order[i].Y < order[j].Y
		}
		return order[i].X < order[j].X
	})
	return queueFor(order)
}

// RandomPolicy visits enemies in a uniform random permutation.
// A non-zero seed makes the order reproducible; seed 0 derives one
// from the current time, so unseeded runs differ by design.
type RandomPolicy struct {
	Seed int64
}

func (RandomPolicy) Name() string { return "random" }

func (p RandomPolicy) Plan(layout []Coord) *ActionQueue {
	seed := p.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	order := append([]Coord(nil), layout...)
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return queueFor(order)
}

func queueFor(order []Coord) *ActionQueue {
	actions := make([]Action, len(order))
	for i, c := range order {
		actions[i] = Action{X: c.X, Shoot: true}
	}
	return newActionQueue(actions)
}

// PolicyNames lists the selectable policy identifiers.
func PolicyNames() []string {
	return []string{"column", "row", "random"}
}

// PolicyByName resolves a policy identifier. The seed only affects the
// random policy.
func PolicyByName(name string, seed int64) (Policy, error) {
	switch name {
	case "column":
		return ColumnPolicy{}, nil
	case "row":
		return RowPolicy{}, nil
	case "random":
		return RandomPolicy{Seed: seed}, nil
	default:
		return nil, &ConfigError{
			Field:   "policy",
			Message: fmt.Sprintf("unknown policy %q, choose one of %v", name, PolicyNames()),
		}
	}
}
