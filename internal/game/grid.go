// Package game provides the simulation core for the contribution shooter.
// It turns a 52x7 grid of daily contribution counts into a deterministic
// animated run of a ship clearing enemies. The package is UI-agnostic:
// it knows nothing about GIF containers, HTTP, or terminals.
package game

import "fmt"

// Grid geometry. One column per week, one row per day (Sun..Sat).
const (
	NumWeeks = 52
	NumDays  = 7
)

// Coord is a cell position on the contribution grid.
// X is the week column, Y is the day row; Y increases downward.
type Coord struct {
	X int
	Y int
}

// C is a convenience constructor for Coord.
func C(x, y int) Coord {
	return Coord{X: x, Y: y}
}

// String returns a string representation of the coordinate.
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Grid is an immutable 52x7 grid of daily contribution counts.
// It is consumed once at world construction and only read afterwards.
type Grid struct {
	counts [NumWeeks][NumDays]int
	max    int
}

// NewGrid validates the counts and returns a read-only grid.
// Every count must be non-negative.
func NewGrid(counts [NumWeeks][NumDays]int) (*Grid, error) {
	g := &Grid{counts: counts}
	for x := 0; x < NumWeeks; x++ {
		for y := 0; y < NumDays; y++ {
			n := counts[x][y]
			if n < 0 {
				return nil, &ConfigError{
					Field:   "grid",
					Message: fmt.Sprintf("negative count %d at %s", n, C(x, y)),
				}
			}
			if n > g.max {
				g.max = n
			}
		}
	}
	return g, nil
}

// InBounds returns true if the coordinate lies on the grid.
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < NumWeeks && c.Y >= 0 && c.Y < NumDays
}

// Count returns the contribution count at a cell, or 0 out of bounds.
func (g *Grid) Count(c Coord) int {
	if !g.InBounds(c) {
		return 0
	}
	return g.counts[c.X][c.Y]
}

// Active returns true if the cell has at least one contribution.
func (g *Grid) Active(c Coord) bool {
	return g.Count(c) > 0
}

// ActiveCells returns all active cells ordered week-major
// (column ascending, then row ascending).
func (g *Grid) ActiveCells() []Coord {
	cells := make([]Coord, 0)
	for x := 0; x < NumWeeks; x++ {
		for y := 0; y < NumDays; y++ {
			if g.counts[x][y] > 0 {
				cells = append(cells, C(x, y))
			}
		}
	}
	return cells
}

// ActiveCount returns the number of active cells.
func (g *Grid) ActiveCount() int {
	return len(g.ActiveCells())
}

// MaxCount returns the highest count on the grid.
func (g *Grid) MaxCount() int {
	return g.max
}

// Level buckets a cell's count into a 0..4 intensity level, 0 meaning
// no activity. Levels follow the familiar contribution-graph quartiles
// relative to the grid's own maximum.
func (g *Grid) Level(c Coord) int {
	n := g.Count(c)
	if n <= 0 || g.max <= 0 {
		return 0
	}
	level := 1 + (n-1)*4/g.max
	if level > 4 {
		level = 4
	}
	return level
}

// Counts returns a copy of the raw counts, week-major.
func (g *Grid) Counts() [NumWeeks][NumDays]int {
	return g.counts
}
