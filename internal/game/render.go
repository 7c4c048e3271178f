package game

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// ShipRow is the vertical lane the ship flies in, in grid rows.
// The grid occupies rows 0..6; the ship stays one row below it.
const ShipRow = 8.0

// viewRows is the total vertical extent of the viewport in grid rows:
// seven day rows, a gap, the ship lane, and a bottom margin.
const viewRows = 10

// Theme fixes the colors and layout of a job's frames.
type Theme struct {
	CellSize  int // Cell edge in pixels
	Padding   int // Outer margin in pixels
	Gap       int // Spacing between cells in pixels
	Bg        color.RGBA
	Ramp      [5]color.RGBA // Baseline cell shading, index by Grid.Level
	Enemy     color.RGBA
	Ship      color.RGBA
	Bullet    color.RGBA
	Explosion color.RGBA
	Star      color.RGBA
	Watermark string // Caption drawn bottom-right; empty disables it
}

// DefaultTheme returns the stock contribution-graph look.
func DefaultTheme() Theme {
	return Theme{
		CellSize:  12,
		Padding:   24,
		Gap:       2,
		Bg:        color.RGBA{0x0d, 0x11, 0x17, 0xff},
		Ramp: [5]color.RGBA{
			{0x16, 0x1b, 0x22, 0xff},
			{0x0e, 0x44, 0x29, 0xff},
			{0x00, 0x6d, 0x32, 0xff},
			{0x26, 0xa6, 0x41, 0xff},
			{0x39, 0xd3, 0x53, 0xff},
		},
		Enemy:     color.RGBA{0x39, 0xd3, 0x53, 0xff},
		Ship:      color.RGBA{0x58, 0xa6, 0xff, 0xff},
		Bullet:    color.RGBA{0xff, 0xdf, 0x00, 0xff},
		Explosion: color.RGBA{0xff, 0xa6, 0x57, 0xff},
		Star:      color.RGBA{0x8b, 0x94, 0x9e, 0xff},
	}
}

// Validate checks the theme before a run starts.
func (t Theme) Validate() error {
	if t.CellSize <= 0 {
		return &ConfigError{Field: "cell_size", Message: fmt.Sprintf("must be positive, got %d", t.CellSize)}
	}
	if t.Padding < 0 {
		return &ConfigError{Field: "padding", Message: fmt.Sprintf("must not be negative, got %d", t.Padding)}
	}
	if t.Gap < 0 || t.Gap >= t.CellSize {
		return &ConfigError{Field: "gap", Message: fmt.Sprintf("must be in [0,cell_size), got %d", t.Gap)}
	}
	return nil
}

// RenderContext is the immutable per-job layout: it maps grid
// coordinates to pixels and carries the theme.
type RenderContext struct {
	theme  Theme
	width  int
	height int
}

// NewRenderContext validates the theme and fixes the viewport size.
func NewRenderContext(t Theme) (*RenderContext, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &RenderContext{
		theme:  t,
		width:  2*t.Padding + NumWeeks*t.CellSize,
		height: 2*t.Padding + viewRows*t.CellSize,
	}, nil
}

// Size returns the frame dimensions in pixels.
func (rc *RenderContext) Size() (w, h int) {
	return rc.width, rc.height
}

// Theme returns the theme in use.
func (rc *RenderContext) Theme() Theme {
	return rc.theme
}

// CellPos maps fractional grid coordinates to the pixel position of
// the cell's top-left corner.
func (rc *RenderContext) CellPos(fx, fy float64) (px, py float64) {
	cs := float64(rc.theme.CellSize)
	return float64(rc.theme.Padding) + fx*cs, float64(rc.theme.Padding) + fy*cs
}

// CellCenter maps fractional grid coordinates to the pixel position of
// the cell's center.
func (rc *RenderContext) CellCenter(fx, fy float64) (px, py float64) {
	cs := float64(rc.theme.CellSize)
	px, py = rc.CellPos(fx, fy)
	return px + cs/2, py + cs/2
}

// CellSize returns the cell edge in pixels.
func (rc *RenderContext) CellSize() float64 {
	return float64(rc.theme.CellSize)
}

// RenderFrame rasterizes one frame of the world. It is a pure function
// of the world and context: the world is only read, never mutated, and
// repeated calls on an unchanged world yield identical frames.
//
// Z-order is fixed: starfield, baseline grid shading, live enemies,
// explosions, bullets, ship. Baseline shading follows the original
// counts and ignores whether the enemy on a cell is alive.
func RenderFrame(w *World, rc *RenderContext) image.Image {
	dc := gg.NewContext(rc.width, rc.height)

	dc.SetColor(rc.theme.Bg)
	dc.Clear()

	for _, s := range w.stars {
		s.Draw(dc, rc)
	}

	drawGrid(dc, rc, w.grid)

	for _, e := range w.enemies {
		e.Draw(dc, rc)
	}
	for _, ex := range w.explosions {
		ex.Draw(dc, rc)
	}
	for _, b := range w.bullets {
		b.Draw(dc, rc)
	}
	w.ship.Draw(dc, rc)

	if rc.theme.Watermark != "" {
		drawWatermark(dc, rc)
	}

	return dc.Image()
}

// drawGrid shades every cell with its intensity level.
func drawGrid(dc *gg.Context, rc *RenderContext, g *Grid) {
	cs := rc.CellSize()
	gap := float64(rc.theme.Gap)
	for x := 0; x < NumWeeks; x++ {
		for y := 0; y < NumDays; y++ {
			px, py := rc.CellPos(float64(x), float64(y))
			dc.SetColor(rc.theme.Ramp[g.Level(C(x, y))])
			dc.DrawRectangle(px, py, cs-gap, cs-gap)
			dc.Fill()
		}
	}
}

func drawWatermark(dc *gg.Context, rc *RenderContext) {
	dc.SetFontFace(basicfont.Face7x13)
	c := rc.theme.Star
	dc.SetRGBA255(int(c.R), int(c.G), int(c.B), 160)
	margin := float64(rc.theme.Padding) / 2
	dc.DrawStringAnchored(rc.theme.Watermark, float64(rc.width)-margin, float64(rc.height)-margin, 1, 0)
}

// lighten shifts a color toward white by the given amount per channel.
func lighten(c color.RGBA, amount int) color.RGBA {
	return color.RGBA{
		R: clampByte(int(c.R) + amount),
		G: clampByte(int(c.G) + amount),
		B: clampByte(int(c.B) + amount),
		A: c.A,
	}
}

// darken shifts a color toward black by the given amount per channel.
func darken(c color.RGBA, amount int) color.RGBA {
	return lighten(c, -amount)
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
