package tui

import "github.com/charmbracelet/bubbles/key"

type selectKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Invert key.Binding
	All    key.Binding
	None   key.Binding
	Accept key.Binding
	Quit   key.Binding
}

func newSelectKeyMap() selectKeyMap {
	return selectKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "toggle"),
		),
		Invert: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "invert"),
		),
		All: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "all"),
		),
		None: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "none"),
		),
		Accept: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "accept"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k selectKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Invert, k.All, k.None, k.Accept, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k selectKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, k.ShortHelp()}
}

type confirmKeyMap struct {
	Yes    key.Binding
	No     key.Binding
	Switch key.Binding
	Submit key.Binding
}

func newConfirmKeyMap() confirmKeyMap {
	return confirmKeyMap{
		Yes: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "yes"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "N", "q", "esc", "ctrl+c"),
			key.WithHelp("n", "no"),
		),
		Switch: key.NewBinding(
			key.WithKeys("left", "right", "h", "l", "tab"),
			key.WithHelp("←/→", "switch"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "choose"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k confirmKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Yes, k.No, k.Switch, k.Submit}
}

// FullHelp implements help.KeyMap.
func (k confirmKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
