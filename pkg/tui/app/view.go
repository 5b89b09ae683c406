package teaui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/tierit/pkg/app"
	"tableflip.dev/tierit/pkg/board"
	"tableflip.dev/tierit/pkg/item"
	"tableflip.dev/tierit/pkg/tui/components/panel"
	"tableflip.dev/tierit/pkg/tui/theme"
)

const placeholder = "▌"

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	r := app.Tally(m.board)
	header := m.theme.Board.Library.Render("tierit")
	b.WriteString(header)
	b.WriteString(m.theme.Footer.Status.Render(fmt.Sprintf("  %d of %d ranked", r.Ranked, r.Total)))
	b.WriteString("\n\n")

	for i, t := range m.board.Tiers() {
		b.WriteString(m.tierRow(i, t))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.libraryRow())
	b.WriteString("\n\n")

	if m.prompt != nil {
		b.WriteString(m.prompt.View())
		b.WriteString("\n")
	}

	if m.isErr {
		b.WriteString(m.theme.Footer.Error.Render(m.status))
	} else {
		b.WriteString(m.theme.Footer.Status.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.helpView())
	return b.String()
}

func (m *Model) tierRow(row int, t board.Tier) string {
	cursorRow := row == m.row
	cells := make([]string, 0, len(t.Items)+1)
	for i, it := range t.Items {
		mark := ""
		if m.drag.PlaceholderAt(t.ID, i) {
			mark = m.theme.Board.Placeholder.Render(placeholder)
		}
		cells = append(cells, mark+m.cell(it, cursorRow && !m.drag.Active() && i == m.col))
	}
	if m.drag.PlaceholderAt(t.ID, len(t.Items)) {
		cells = append(cells, m.theme.Board.Placeholder.Render(placeholder))
	}
	if len(cells) == 0 {
		empty := m.theme.Board.Empty.Render("empty")
		if cursorRow && !m.drag.Active() {
			empty = m.theme.Board.Empty.Reverse(true).Render("empty")
		}
		cells = append(cells, empty)
	}
	label := m.theme.Chip(t.Color).Render(truncate.StringWithTail(t.Name, theme.LabelWidth-1, "…"))
	return m.wrapRow(label, cells)
}

func (m *Model) libraryRow() string {
	lib := m.board.Library()
	title := fmt.Sprintf("Library (%d)", len(lib))
	style := m.theme.Board.Library
	if m.drag.Target != nil && m.drag.Target.IsLibrary() {
		style = m.theme.Board.LibraryDrop
		title += " ← drop here"
	}
	cursorRow := m.onLibrary()
	cells := make([]string, 0, len(lib))
	for i, it := range lib {
		cells = append(cells, m.cell(it, cursorRow && !m.drag.Active() && i == m.col))
	}
	if len(cells) == 0 {
		cells = append(cells, m.theme.Board.Empty.Render("add images with `tierit add`"))
	}
	return style.Render(title) + "\n" + m.wrapRow("", cells)
}

func (m *Model) cell(it item.Item, cursor bool) string {
	label := truncate.StringWithTail(it.Label(), theme.CellWidth-3, "…")
	switch {
	case it.ID == m.drag.DraggedID():
		return m.theme.Board.Dragged.Render(label)
	case cursor:
		return m.theme.Board.Cursor.Render(label)
	default:
		return m.theme.Board.Cell.Render(label)
	}
}

// wrapRow lays cells out after the label, wrapping to the window width.
func (m *Model) wrapRow(label string, cells []string) string {
	indent := strings.Repeat(" ", theme.LabelWidth)
	if label == "" {
		label = indent
	}
	width := m.width
	if width <= 0 {
		width = 120
	}
	var lines []string
	line := label
	for _, c := range cells {
		if lipgloss.Width(line)+lipgloss.Width(c) > width && lipgloss.Width(line) > theme.LabelWidth {
			lines = append(lines, line)
			line = indent
		}
		line += c
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func (m *Model) helpView() string {
	if !m.showHelp {
		return m.theme.Footer.Help.Render("space grab/drop • arrows move • esc cancel • x return • n new tier • ? help • q quit")
	}
	lines := make([]string, 0, len(m.keys.Bindings()))
	for _, kd := range Legend() {
		lines = append(lines, fmt.Sprintf("%-8s %s", kd[0], kd[1]))
	}
	p := panel.New(m.theme.Modal)
	p.SetContent("Keys", lines)
	view, _ := p.View()
	return view
}
