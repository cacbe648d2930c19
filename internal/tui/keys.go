package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the desktop bindings the terminal host adds on top of the
// desktop shortcuts (alt+tab, esc, ctrl+n, ctrl+c).
type keyMap struct {
	Quit     key.Binding
	Start    key.Binding
	Tile     key.Binding
	Cascade  key.Binding
	Close    key.Binding
	Minimize key.Binding
	Maximize key.Binding
	MenuUp   key.Binding
	MenuDown key.Binding
	Select   key.Binding

	// Browser.
	Address  key.Binding
	Back     key.Binding
	Forward  key.Binding
	Reload   key.Binding
	NewTab   key.Binding
	CloseTab key.Binding
	NextTab  key.Binding
	Bookmark key.Binding

	// Notes.
	Save key.Binding

	// Files.
	NewFile   key.Binding
	NewFolder key.Binding
	Delete    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("ctrl+q"), key.WithHelp("ctrl+q", "quit")),
		Start:    key.NewBinding(key.WithKeys("f2", "alt+s"), key.WithHelp("f2", "start menu")),
		Tile:     key.NewBinding(key.WithKeys("f3"), key.WithHelp("f3", "tile")),
		Cascade:  key.NewBinding(key.WithKeys("f4"), key.WithHelp("f4", "cascade")),
		Close:    key.NewBinding(key.WithKeys("alt+f4", "alt+w"), key.WithHelp("alt+w", "close window")),
		Minimize: key.NewBinding(key.WithKeys("alt+down", "alt+m"), key.WithHelp("alt+m", "minimize")),
		Maximize: key.NewBinding(key.WithKeys("alt+up", "alt+x"), key.WithHelp("alt+x", "maximize")),
		MenuUp:   key.NewBinding(key.WithKeys("up", "k")),
		MenuDown: key.NewBinding(key.WithKeys("down", "j")),
		Select:   key.NewBinding(key.WithKeys("enter")),

		Address:  key.NewBinding(key.WithKeys("ctrl+l", "/"), key.WithHelp("ctrl+l", "address bar")),
		Back:     key.NewBinding(key.WithKeys("alt+left", "backspace"), key.WithHelp("alt+←", "back")),
		Forward:  key.NewBinding(key.WithKeys("alt+right"), key.WithHelp("alt+→", "forward")),
		Reload:   key.NewBinding(key.WithKeys("ctrl+r", "f5"), key.WithHelp("ctrl+r", "reload")),
		NewTab:   key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "new tab")),
		CloseTab: key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("ctrl+w", "close tab")),
		NextTab:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Bookmark: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "bookmark")),

		Save: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),

		NewFile:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new file")),
		NewFolder: key.NewBinding(key.WithKeys("N", "f"), key.WithHelp("f", "new folder")),
		Delete:    key.NewBinding(key.WithKeys("delete", "d"), key.WithHelp("d", "delete")),
	}
}
