package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists the browser key bindings. The status bar renders the short help.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Top         key.Binding
	Bottom      key.Binding
	Search      key.Binding
	Sidebar     key.Binding
	Toggle      key.Binding
	Sort        key.Binding
	MinDown     key.Binding
	MinUp       key.Binding
	MaxDown     key.Binding
	MaxUp       key.Binding
	Rating      key.Binding
	LoadMore    key.Binding
	Clear       key.Binding
	Back        key.Binding
	Refresh     key.Binding
	Retry       key.Binding
	Debug       key.Binding
	Quit        key.Binding
	AcceptInput key.Binding
	CancelInput key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:          key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
		Down:        key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
		Top:         key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:      key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Sidebar:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "filters")),
		Toggle:      key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "toggle")),
		Sort:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		MinDown:     key.NewBinding(key.WithKeys("["), key.WithHelp("[", "min-")),
		MinUp:       key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "min+")),
		MaxDown:     key.NewBinding(key.WithKeys("{"), key.WithHelp("{", "max-")),
		MaxUp:       key.NewBinding(key.WithKeys("}"), key.WithHelp("}", "max+")),
		Rating:      key.NewBinding(key.WithKeys("0", "1", "2", "3", "4"), key.WithHelp("0-4", "rating")),
		LoadMore:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "more")),
		Clear:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		Back:        key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "back")),
		Refresh:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Retry:       key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "retry")),
		Debug:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "debug")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		AcceptInput: key.NewBinding(key.WithKeys("enter")),
		CancelInput: key.NewBinding(key.WithKeys("esc")),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Sidebar, k.Sort, k.LoadMore, k.Clear, k.Back, k.Quit}
}

// FullHelp returns every binding, grouped for the help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Search, k.Sort, k.Sidebar, k.Toggle},
		{k.MinDown, k.MinUp, k.MaxDown, k.MaxUp, k.Rating},
		{k.LoadMore, k.Clear, k.Back, k.Refresh, k.Retry, k.Debug, k.Quit},
	}
}
