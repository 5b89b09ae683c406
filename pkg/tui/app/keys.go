package teaui

import "github.com/charmbracelet/bubbles/v2/key"

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Grab   key.Binding
	Cancel key.Binding
	Eject  key.Binding
	Delete key.Binding
	Add    key.Binding
	Rename key.Binding
	Color  key.Binding
	Reload key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Grab:   key.NewBinding(key.WithKeys("space", " ", "enter"), key.WithHelp("space", "pick up / drop")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel drag")),
		Eject:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "return to library")),
		Delete: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete tier or item")),
		Add:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new tier")),
		Rename: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename tier")),
		Color:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "tier color")),
		Reload: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Bindings lists every binding in help order.
func (k keyMap) Bindings() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Left, k.Right,
		k.Grab, k.Cancel, k.Eject, k.Delete,
		k.Add, k.Rename, k.Color, k.Reload,
		k.Help, k.Quit,
	}
}

// Legend returns key and description pairs for every binding.
func Legend() [][2]string {
	bindings := defaultKeys().Bindings()
	out := make([][2]string, len(bindings))
	for i, b := range bindings {
		h := b.Help()
		out[i] = [2]string{h.Key, h.Desc}
	}
	return out
}
