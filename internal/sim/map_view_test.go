package sim

import (
	"strconv"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestRenderMapDimensions(t *testing.T) {
	run, err := Execute(testConfig(), 9, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	out := RenderMap(run, 40, 12, false)
	lines := strings.Split(out, "\n")
	if len(lines) != 12 {
		t.Fatalf("map has %d lines, want 12", len(lines))
	}
	if !strings.Contains(out, "@") {
		t.Fatalf("observer missing from map")
	}
	// tiny sizes are raised to the minimum
	if got := len(strings.Split(RenderMap(run, 1, 1, true), "\n")); got != minMapHeight {
		t.Fatalf("small map has %d lines, want %d", got, minMapHeight)
	}
}

func TestMapModelKeys(t *testing.T) {
	run, err := Execute(testConfig(), 9, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	m := newMapModel(run, 60, 30)
	mi, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = mi.(mapModel)
	if !m.byRange {
		t.Fatalf("expected r to toggle range colouring")
	}
	if !strings.Contains(m.View(), "in range") {
		t.Fatalf("legend does not describe range colouring")
	}
	mi, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 50})
	m = mi.(mapModel)
	if m.width != 100 || m.height != 50 {
		t.Fatalf("size not applied: %dx%d", m.width, m.height)
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestMapModelTableCounts(t *testing.T) {
	run, err := Execute(testConfig(), 9, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	m := newMapModel(run, 80, 40)
	total := 0
	for _, r := range m.table.Rows() {
		n, err := strconv.Atoi(r[1])
		if err != nil {
			t.Fatalf("count %q: %v", r[1], err)
		}
		total += n
	}
	if total != len(run.Vehicles) {
		t.Fatalf("table counts sum to %d, want %d", total, len(run.Vehicles))
	}
}
