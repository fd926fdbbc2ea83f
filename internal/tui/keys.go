package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the browser.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	NextPage    key.Binding
	PrevPage    key.Binding
	FirstPage   key.Binding
	LastPage    key.Binding
	Enter       key.Binding
	Back        key.Binding
	ClearSearch key.Binding
	Search      key.Binding
	Filter      key.Binding
	Sort        key.Binding
	Refresh     key.Binding
	Favorites   key.Binding
	Save        key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the standard key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("right", "n"),
			key.WithHelp("→/n", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "p"),
			key.WithHelp("←/p", "prev page"),
		),
		FirstPage: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "first page"),
		),
		LastPage: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "last page"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter", "l"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("backspace", "h"),
			key.WithHelp("bksp/h", "parent folder"),
		),
		ClearSearch: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear search"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "type filter"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "cycle sort"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Favorites: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "favorites"),
		),
		Save: key.NewBinding(
			key.WithKeys("B"),
			key.WithHelp("B", "save favorite"),
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

// ShortHelp returns the bindings shown in the collapsed help bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Back, k.Search, k.Filter, k.Help, k.Quit}
}

// FullHelp returns all bindings grouped into help columns.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter, k.Back},
		{k.NextPage, k.PrevPage, k.FirstPage, k.LastPage},
		{k.Search, k.ClearSearch, k.Filter, k.Sort},
		{k.Favorites, k.Save, k.Refresh, k.Help, k.Quit},
	}
}
