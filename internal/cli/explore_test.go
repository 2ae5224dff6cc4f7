package cli

import (
	"slices"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/sisi/pkg/errors"
	"github.com/matzehuels/sisi/pkg/line"
	"github.com/matzehuels/sisi/pkg/render"
)

func press(t *testing.T, m exploreModel, keys ...tea.KeyMsg) exploreModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(exploreModel)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestExploreInitialSolve(t *testing.T) {
	m := newExploreModel(10, []int{2, 7}, render.DefaultGlyphs())
	want, _ := line.DetermineCellStates(10, []int{2, 7})
	if diff := cmp.Diff(want, m.states); diff != "" {
		t.Errorf("initial states mismatch (-want +got):\n%s", diff)
	}
	if m.placements != 1 {
		t.Errorf("placements = %d, want 1", m.placements)
	}
}

func TestExploreMarkRefines(t *testing.T) {
	m := newExploreModel(5, []int{1}, render.DefaultGlyphs())
	right := tea.KeyMsg{Type: tea.KeyRight}
	m = press(t, m, right, right, runes("x"))

	if m.cursor != 2 {
		t.Fatalf("cursor = %d, want 2", m.cursor)
	}
	want := []line.CellState{line.Empty, line.Empty, line.Filled, line.Empty, line.Empty}
	if diff := cmp.Diff(want, m.states); diff != "" {
		t.Errorf("states mismatch (-want +got):\n%s", diff)
	}

	m = press(t, m, runes("r"))
	if m.placements != 5 {
		t.Errorf("placements after reset = %d, want 5", m.placements)
	}
}

func TestExploreCursorBounds(t *testing.T) {
	m := newExploreModel(2, nil, render.DefaultGlyphs())
	m = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
	right := tea.KeyMsg{Type: tea.KeyRight}
	m = press(t, m, right, right, right)
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}
}

func TestExploreResize(t *testing.T) {
	m := newExploreModel(3, []int{3}, render.DefaultGlyphs())
	m = press(t, m, runes("+"))
	if m.size != 4 || len(m.known) != 4 || len(m.states) != 4 {
		t.Fatalf("after + size=%d known=%d states=%d, want 4", m.size, len(m.known), len(m.states))
	}

	m = press(t, m, runes("-"), runes("-"), runes("-"), runes("-"), runes("-"))
	if m.size != 0 {
		t.Errorf("size = %d, want 0 (no negative sizes)", m.size)
	}
	if m.placements != 0 {
		t.Errorf("placements = %d, want 0", m.placements)
	}
}

func TestExploreSolveGivesUpOnHugeSlack(t *testing.T) {
	m := newExploreModel(5, []int{1}, render.DefaultGlyphs())
	m.timeout = 50 * time.Millisecond
	m.blocks = slices.Repeat([]int{1}, 30)

	start := time.Now()
	m.resize(200)
	if d := time.Since(start); d > 2*time.Second {
		t.Errorf("resize took %v, want the solve to stop near its timeout", d)
	}
	if !errors.Is(m.err, errors.ErrCodeTimeout) {
		t.Fatalf("err = %v, want %s", m.err, errors.ErrCodeTimeout)
	}
	if !strings.Contains(m.View(), "too many placements") {
		t.Error("view should explain why the line was not solved")
	}

	m.timeout = exploreSolveTimeout
	m.resize(31)
	if m.err != nil {
		t.Errorf("err = %v after shrinking below the clue length, want nil", m.err)
	}
}

func TestExploreEditClue(t *testing.T) {
	m := newExploreModel(10, []int{1}, render.DefaultGlyphs())
	m = press(t, m, runes("c"))
	if !m.editing || m.input != "1" {
		t.Fatalf("editing = %v, input = %q", m.editing, m.input)
	}

	m = press(t, m,
		tea.KeyMsg{Type: tea.KeyBackspace},
		runes("2"), tea.KeyMsg{Type: tea.KeySpace}, runes("7a"),
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	if m.editing {
		t.Fatal("enter should leave edit mode")
	}
	if diff := cmp.Diff([]int{2, 7}, m.blocks); diff != "" {
		t.Errorf("blocks mismatch (-want +got):\n%s", diff)
	}
	if m.placements != 1 {
		t.Errorf("placements = %d, want 1", m.placements)
	}
}

func TestExploreEditClueCancel(t *testing.T) {
	m := newExploreModel(4, []int{2}, render.DefaultGlyphs())
	m = press(t, m, runes("c"), runes("3"), tea.KeyMsg{Type: tea.KeyEsc})
	if m.editing {
		t.Error("esc should leave edit mode")
	}
	if diff := cmp.Diff([]int{2}, m.blocks); diff != "" {
		t.Errorf("cancelled edit changed blocks (-want +got):\n%s", diff)
	}
}

func TestExploreQuit(t *testing.T) {
	m := newExploreModel(3, nil, render.DefaultGlyphs())
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestExploreView(t *testing.T) {
	m := newExploreModel(4, []int{2, 2}, render.DefaultGlyphs())
	view := m.View()
	for _, want := range []string{"Line Explorer", "clue", "2 2", "1 placements"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	m = press(t, m, runes("o"))
	if !strings.Contains(m.View(), "no placement") {
		t.Errorf("view should report the contradiction:\n%s", m.View())
	}
}
