package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap is the sidebar key layout.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Top       key.Binding
	Bottom    key.Binding
	Toggle    key.Binding
	Expand    key.Binding
	Collapse  key.Binding
	Activate  key.Binding
	Search    key.Binding
	Escape    key.Binding
	Edit      key.Binding
	Remove    key.Binding
	Bookmark  key.Binding
	AddGroup  key.Binding
	Clear     key.Binding
	AddRange  key.Binding
	Update    key.Binding
	Record    key.Binding
	Copy      key.Binding
	Cut       key.Binding
	Paste     key.Binding
	Help      key.Binding
	HidePanel key.Binding
	Quit      key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Top:       key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:    key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		Toggle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "expand/collapse")),
		Expand:    key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("→", "expand")),
		Collapse:  key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("←", "collapse")),
		Activate:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "activate")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit label")),
		Remove:    key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "remove")),
		Bookmark:  key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "bookmark/move")),
		AddGroup:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new group")),
		Clear:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear recents")),
		AddRange:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add active range")),
		Update:    key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "update range")),
		Record:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "record")),
		Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy frequency")),
		Cut:       key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "cut")),
		Paste:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "paste")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		HidePanel: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "hide panel")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp is the status line hint.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Activate, k.Search, k.Bookmark, k.Remove, k.Help, k.Quit}
}

// FullHelp groups every binding for the help overlay.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.Toggle, k.Expand, k.Collapse},
		{k.Activate, k.Edit, k.Remove, k.Bookmark, k.Cut, k.Paste},
		{k.AddGroup, k.Clear, k.AddRange, k.Update, k.Record, k.Copy},
		{k.Search, k.Escape, k.HidePanel, k.Help, k.Quit},
	}
}
