package tui

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/gh-space-shooter/internal/game"
)

func testAnimator(t *testing.T) *game.Animator {
	t.Helper()
	var counts [game.NumWeeks][game.NumDays]int
	counts[0][6] = 1
	grid, err := game.NewGrid(counts)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}

	cfg := game.DefaultConfig()
	cfg.Seed = 1
	cfg.StarCount = 0
	cfg.TrailingFrames = 0
	world, err := game.NewWorld(grid, cfg)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	rc, err := game.NewRenderContext(game.DefaultTheme())
	if err != nil {
		t.Fatalf("NewRenderContext: %v", err)
	}
	return game.NewAnimator(world, game.ColumnPolicy{}, rc)
}

func TestPreviewShowsSpinnerWhileLoading(t *testing.T) {
	m := NewPreviewModel("octocat", 40, nil)
	view := m.View()
	if !strings.Contains(view, "fetching contributions for octocat") {
		t.Errorf("expected loading view, got %q", view)
	}
}

func TestPreviewQuitKeys(t *testing.T) {
	for _, key := range []string{"q", "esc", "ctrl+c"} {
		m := NewPreviewModel("octocat", 40, nil)
		updated, cmd := m.Update(keyMsg(key))
		pm := updated.(PreviewModel)
		if !pm.quitting {
			t.Errorf("key %q: expected quitting state", key)
		}
		if cmd == nil {
			t.Errorf("key %q: expected quit command", key)
		}
		if pm.View() != "" {
			t.Errorf("key %q: expected empty view while quitting", key)
		}
	}
}

func TestPreviewLoadError(t *testing.T) {
	m := NewPreviewModel("octocat", 40, nil)
	updated, cmd := m.Update(loadErrMsg{err: fmt.Errorf("boom")})
	pm := updated.(PreviewModel)
	if pm.Err() == nil {
		t.Fatal("expected load error to be recorded")
	}
	if cmd == nil {
		t.Fatal("expected quit command after load error")
	}
	if !strings.Contains(pm.View(), "boom") {
		t.Errorf("expected error in view, got %q", pm.View())
	}
}

func TestPreviewPlaysToCompletion(t *testing.T) {
	m := NewPreviewModel("octocat", 40, nil)
	updated, cmd := m.Update(loadedMsg{anim: testAnimator(t)})
	pm := updated.(PreviewModel)
	if cmd == nil {
		t.Fatal("expected tick command once loaded")
	}

	view := pm.View()
	if !strings.Contains(view, "■") {
		t.Errorf("expected an enemy cell in the view")
	}
	if !strings.Contains(view, "▲") {
		t.Errorf("expected the ship in the view")
	}

	for i := 0; i < 100 && !pm.done; i++ {
		updated, _ = pm.Update(TickMsg{})
		pm = updated.(PreviewModel)
	}
	if !pm.done {
		t.Fatal("expected the run to finish within 100 ticks")
	}
	if pm.anim.Phase() != game.PhaseCleared {
		t.Errorf("expected cleared phase, got %s", pm.anim.Phase())
	}
	if !strings.Contains(pm.View(), "cleared") {
		t.Errorf("expected cleared status in view")
	}
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}
