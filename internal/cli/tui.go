package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// canonicalListModel - Interactive canonical permutation browser
// =============================================================================

// canonicalListModel is the bubbletea model for browsing canonical
// permutations. Enter selects the highlighted permutation; the caller reads
// it from the selected field after the program exits.
type canonicalListModel struct {
	canonicals []string
	classes    string
	cursor     int
	offset     int
	height     int
	selected   string
}

func newCanonicalListModel(canonicals []string, classes string) canonicalListModel {
	return canonicalListModel{
		canonicals: canonicals,
		classes:    classes,
		height:     15,
	}
}

func (m canonicalListModel) Init() tea.Cmd {
	return nil
}

func (m canonicalListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.canonicals)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			if len(m.canonicals) > 0 {
				m.selected = m.canonicals[m.cursor]
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m canonicalListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Canonical Permutations"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.canonicals) {
		end = len(m.canonicals)
	}

	for i := m.offset; i < end; i++ {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-6d %s", cursor, i, m.canonicals[i])
		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d shown, %s classes total]",
		m.cursor+1, len(m.canonicals), m.classes)))

	return b.String()
}
