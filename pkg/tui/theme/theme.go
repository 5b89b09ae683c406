package theme

import (
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Footer FooterTheme
	Board  BoardTheme
	Modal  ModalTheme
}

// FooterTheme groups styles used by the bottom status and help lines.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
}

// BoardTheme styles tier rows and item cells.
type BoardTheme struct {
	Label       lipgloss.Style
	Cell        lipgloss.Style
	Cursor      lipgloss.Style
	Dragged     lipgloss.Style
	Placeholder lipgloss.Style
	Empty       lipgloss.Style
	Library     lipgloss.Style
	LibraryDrop lipgloss.Style
}

// ModalTheme styles centered modal overlays.
type ModalTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
	Error lipgloss.Style
}

// LabelWidth is the width of the tier label column.
const LabelWidth = 10

// CellWidth is the width of one item cell.
const CellWidth = 14

// Default returns the built-in theme used across the UI.
func Default() Theme {
	return Theme{
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("204")),
		},
		Board: BoardTheme{
			Label: lipgloss.NewStyle().
				Bold(true).
				Width(LabelWidth).
				Align(lipgloss.Center),
			Cell: lipgloss.NewStyle().
				Width(CellWidth).
				Padding(0, 1),
			Cursor: lipgloss.NewStyle().
				Width(CellWidth).
				Padding(0, 1).
				Reverse(true),
			Dragged: lipgloss.NewStyle().
				Width(CellWidth).
				Padding(0, 1).
				Faint(true).
				Strikethrough(true),
			Placeholder: lipgloss.NewStyle().
				Foreground(lipgloss.Color("212")).
				Bold(true),
			Empty: lipgloss.NewStyle().
				Foreground(lipgloss.Color("241")).
				Italic(true).
				Padding(0, 1),
			Library: lipgloss.NewStyle().
				Bold(true).
				Underline(true),
			LibraryDrop: lipgloss.NewStyle().
				Bold(true).
				Underline(true).
				Foreground(lipgloss.Color("212")),
		},
		Modal: ModalTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(1, 2),
			Title: lipgloss.NewStyle().Bold(true),
			Body:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Error: lipgloss.NewStyle().Foreground(lipgloss.Color("204")),
		},
	}
}

// Chip returns the label style for a tier color: the color as background and
// black or white text, whichever reads better.
func (t Theme) Chip(hex string) lipgloss.Style {
	c, err := colorful.Hex(hex)
	if err != nil {
		return t.Board.Label
	}
	fg := lipgloss.Color("#ffffff")
	if _, _, l := c.Hcl(); l > 0.6 {
		fg = lipgloss.Color("#000000")
	}
	return t.Board.Label.
		Background(lipgloss.Color(c.Hex())).
		Foreground(fg)
}
