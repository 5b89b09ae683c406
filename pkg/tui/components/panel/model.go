// Package panel renders framed information panels for the TUI.
package panel

import (
	"strings"

	"tableflip.dev/tierit/pkg/tui/theme"
)

// Model renders a framed panel with a title and body lines.
type Model struct {
	title string
	lines []string
	th    theme.ModalTheme
}

// New returns an empty panel styled by th.
func New(th theme.ModalTheme) Model {
	return Model{th: th}
}

// SetContent updates the panel title and body lines.
func (m *Model) SetContent(title string, lines []string) {
	m.title = title
	m.lines = lines
}

// Reset clears panel content.
func (m *Model) Reset() {
	m.title = ""
	m.lines = nil
}

// Empty reports whether there is anything to show.
func (m Model) Empty() bool {
	return m.title == "" && len(m.lines) == 0
}

// View returns the rendered panel string and its total height in lines.
func (m Model) View() (string, int) {
	if m.Empty() {
		return "", 0
	}
	var content []string
	if m.title != "" {
		content = append(content, m.th.Title.Render(m.title))
	}
	for _, line := range m.lines {
		content = append(content, m.th.Body.Render(line))
	}
	view := m.th.Frame.Render(strings.Join(content, "\n"))
	height := strings.Count(view, "\n") + 1
	return view, height
}
