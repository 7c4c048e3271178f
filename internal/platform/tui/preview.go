// Package tui provides a terminal preview of a shooter run and an SSH
// server that serves the preview per session via Wish.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/gh-space-shooter/internal/game"
)

// TickMsg advances the preview simulation by one tick.
type TickMsg time.Time

// tickCmd returns a command that sends tick messages at the given rate.
func tickCmd(fps int) tea.Cmd {
	interval := time.Second / time.Duration(fps)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// AnimatorLoader builds the animator for a preview, typically fetching
// the contribution grid first. It runs off the UI goroutine.
type AnimatorLoader func() (*game.Animator, error)

type loadedMsg struct{ anim *game.Animator }

type loadErrMsg struct{ err error }

// PreviewModel plays a shooter run live in the terminal. Playback is
// non-interactive; only quit keys are handled.
type PreviewModel struct {
	username string
	fps      int
	load     AnimatorLoader
	spin     spinner.Model
	anim     *game.Animator
	styles   previewStyles
	err      error
	done     bool
	quitting bool
}

type previewStyles struct {
	ramp      [5]lipgloss.Style
	enemy     lipgloss.Style
	ship      lipgloss.Style
	bullet    lipgloss.Style
	explosion lipgloss.Style
	status    lipgloss.Style
	errText   lipgloss.Style
}

func newPreviewStyles() previewStyles {
	cell := func(hex string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
	}
	return previewStyles{
		ramp: [5]lipgloss.Style{
			cell("#161b22"), cell("#0e4429"), cell("#006d32"), cell("#26a641"), cell("#39d353"),
		},
		enemy:     cell("#39d353"),
		ship:      cell("#58a6ff"),
		bullet:    cell("#ffdf00"),
		explosion: cell("#ffa657"),
		status:    lipgloss.NewStyle().Foreground(lipgloss.Color("#8b949e")),
		errText:   lipgloss.NewStyle().Foreground(lipgloss.Color("#f85149")),
	}
}

// NewPreviewModel creates a preview for a username. The loader runs
// asynchronously on Init; a spinner shows until it finishes.
func NewPreviewModel(username string, fps int, load AnimatorLoader) PreviewModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return PreviewModel{
		username: username,
		fps:      fps,
		load:     load,
		spin:     sp,
		styles:   newPreviewStyles(),
	}
}

// Init starts the spinner and kicks off the loader.
func (m PreviewModel) Init() tea.Cmd {
	load := m.load
	return tea.Batch(
		m.spin.Tick,
		func() tea.Msg {
			anim, err := load()
			if err != nil {
				return loadErrMsg{err: err}
			}
			return loadedMsg{anim: anim}
		},
	)
}

// Update handles messages.
func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case loadedMsg:
		m.anim = msg.anim
		return m, tickCmd(m.fps)

	case loadErrMsg:
		m.err = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		if m.anim != nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

func (m PreviewModel) handleTick() (tea.Model, tea.Cmd) {
	if m.anim == nil || m.done {
		return m, nil
	}
	done, err := m.anim.Step()
	if err != nil {
		m.err = err
		return m, tea.Quit
	}
	if done {
		m.done = true
		return m, nil
	}
	return m, tickCmd(m.fps)
}

// Err returns the fatal error that ended the preview, if any.
func (m PreviewModel) Err() error {
	return m.err
}

// View renders the world as a character grid: one rune per cell, the
// ship lane below, and a status footer.
func (m PreviewModel) View() string {
	if m.quitting {
		return ""
	}
	if m.err != nil {
		return m.styles.errText.Render("error: "+m.err.Error()) + "\n"
	}
	if m.anim == nil {
		return fmt.Sprintf("\n  %s fetching contributions for %s...\n", m.spin.View(), m.username)
	}

	w := m.anim.World()
	grid := w.Grid()

	alive := make(map[game.Coord]bool)
	for _, e := range w.Enemies() {
		if e.Alive {
			alive[e.Pos] = true
		}
	}
	exploding := make(map[game.Coord]bool)
	for _, ex := range w.Explosions() {
		exploding[game.C(int(ex.X+0.5), int(ex.Y+0.5))] = true
	}
	bullets := make(map[game.Coord]bool)
	for _, b := range w.Bullets() {
		bullets[game.C(int(b.X+0.5), int(b.Y+0.5))] = true
	}

	var out string
	for y := 0; y < game.NumDays; y++ {
		row := ""
		for x := 0; x < game.NumWeeks; x++ {
			c := game.C(x, y)
			switch {
			case exploding[c]:
				row += m.styles.explosion.Render("✶")
			case bullets[c]:
				row += m.styles.bullet.Render("╵")
			case alive[c]:
				row += m.styles.enemy.Render("■")
			default:
				row += m.styles.ramp[grid.Level(c)].Render("·")
			}
		}
		out += row + "\n"
	}

	// Bullet lane between grid and ship
	lane := ""
	for x := 0; x < game.NumWeeks; x++ {
		if bullets[game.C(x, 7)] || bullets[game.C(x, 8)] {
			lane += m.styles.bullet.Render("╵")
		} else {
			lane += " "
		}
	}
	out += lane + "\n"

	shipX := int(w.Ship().X + 0.5)
	shipRow := ""
	for x := 0; x < game.NumWeeks; x++ {
		if x == shipX {
			shipRow += m.styles.ship.Render("▲")
		} else {
			shipRow += " "
		}
	}
	out += shipRow + "\n"

	status := fmt.Sprintf("%s  tick %d  phase %s  alive %d  actions left %d",
		m.username, m.anim.Tick(), m.anim.Phase(), w.AliveCount(), m.anim.ActionsLeft())
	if m.done {
		status += "  cleared, press q to quit"
	}
	out += m.styles.status.Render(status) + "\n"
	return out
}

// RunPreview runs the preview program in the current terminal.
func RunPreview(m PreviewModel) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if pm, ok := final.(PreviewModel); ok && pm.Err() != nil {
		return pm.Err()
	}
	return nil
}
