// Package prompt is a one-line text entry overlay.
package prompt

import (
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/tierit/pkg/tui/theme"
)

// SubmitMsg carries the entered value and the prompt's purpose.
type SubmitMsg struct {
	Purpose string
	Value   string
}

// CancelMsg is sent when the prompt is dismissed.
type CancelMsg struct {
	Purpose string
}

// Model asks for a single value.
type Model struct {
	purpose  string
	title    string
	input    textinput.Model
	validate func(string) error
	errMsg   string
	theme    theme.Theme
}

// New builds a prompt. validate may be nil.
func New(purpose, title, initial string, limit int, validate func(string) error) *Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = limit
	ti.SetValue(initial)
	return &Model{
		purpose:  purpose,
		title:    title,
		input:    ti,
		validate: validate,
		theme:    theme.Default(),
	}
}

// Purpose says what the value is for.
func (m *Model) Purpose() string {
	return m.purpose
}

// Value returns the current text.
func (m *Model) Value() string {
	return m.input.Value()
}

func (m *Model) Init() tea.Cmd {
	return m.input.Focus()
}

func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	if v, ok := msg.(tea.KeyPressMsg); ok {
		switch v.String() {
		case "enter":
			value := strings.TrimSpace(m.input.Value())
			if m.validate != nil {
				if err := m.validate(value); err != nil {
					m.errMsg = err.Error()
					return m, nil
				}
			}
			m.input.Blur()
			purpose := m.purpose
			return m, func() tea.Msg { return SubmitMsg{Purpose: purpose, Value: value} }
		case "esc":
			m.input.Blur()
			purpose := m.purpose
			return m, func() tea.Msg { return CancelMsg{Purpose: purpose} }
		default:
			m.errMsg = ""
		}
	}
	model, cmd := m.input.Update(msg)
	m.input = model
	return m, cmd
}

func (m *Model) View() string {
	info := m.theme.Modal.Body.Render("Enter to confirm, Esc to cancel.")
	if m.errMsg != "" {
		info = m.theme.Modal.Error.Render(m.errMsg)
	}
	body := lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.Modal.Title.Render(m.title),
		m.input.View(),
		info,
	)
	return m.theme.Modal.Frame.Render(body)
}
