package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings of the main view
type keyMap struct {
	NextPane key.Binding
	PrevPane key.Binding
	Search   key.Binding
	Toggle   key.Binding
	Open     key.Binding
	Add      key.Binding
	Delete   key.Binding
	Refresh  key.Binding
	Download key.Binding
	Import   key.Binding
	Preview  key.Binding
	Copy     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextPane: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next pane"),
		),
		PrevPane: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("shift+tab", "previous pane"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle selection"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add search text as item"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete matching or selected items"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "ctrl+r"),
			key.WithHelp("r", "export and reload lists"),
		),
		Download: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "download entire set"),
		),
		Import: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "import changes"),
		),
		Preview: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "preview xml"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy name"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextPane, k.Search, k.Toggle, k.Add, k.Delete, k.Import, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextPane, k.PrevPane, k.Search, k.Toggle, k.Open},
		{k.Add, k.Delete, k.Refresh, k.Download, k.Import},
		{k.Preview, k.Copy, k.Help, k.Quit},
	}
}
