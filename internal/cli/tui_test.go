package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestCanonicalListNavigation(t *testing.T) {
	m := newCanonicalListModel([]string{"0:1:2:3", "0:2:1:3", "0:3:1:2"}, "3")

	next, _ := m.Update(keyMsg("j"))
	m = next.(canonicalListModel)
	if m.cursor != 1 {
		t.Errorf("cursor = %d after down, want 1", m.cursor)
	}

	next, _ = m.Update(keyMsg("k"))
	m = next.(canonicalListModel)
	if m.cursor != 0 {
		t.Errorf("cursor = %d after up, want 0", m.cursor)
	}

	// Cursor stops at the edges.
	next, _ = m.Update(keyMsg("k"))
	m = next.(canonicalListModel)
	if m.cursor != 0 {
		t.Errorf("cursor = %d at top edge, want 0", m.cursor)
	}
}

func TestCanonicalListSelect(t *testing.T) {
	m := newCanonicalListModel([]string{"0:1:2:3", "0:2:1:3"}, "3")

	next, _ := m.Update(keyMsg("j"))
	m = next.(canonicalListModel)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(canonicalListModel)

	if m.selected != "0:2:1:3" {
		t.Errorf("selected = %q, want 0:2:1:3", m.selected)
	}
	if cmd == nil {
		t.Error("enter should quit")
	}
}

func TestCanonicalListQuit(t *testing.T) {
	m := newCanonicalListModel([]string{"0:1"}, "1")
	next, cmd := m.Update(keyMsg("q"))
	m = next.(canonicalListModel)
	if m.selected != "" {
		t.Errorf("quit should not select, got %q", m.selected)
	}
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestCanonicalListView(t *testing.T) {
	m := newCanonicalListModel([]string{"0:1:2:3", "0:2:1:3"}, "3")
	view := m.View()
	if view == "" {
		t.Fatal("empty view")
	}
	for _, want := range []string{"0:1:2:3", "0:2:1:3", "Canonical Permutations"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
