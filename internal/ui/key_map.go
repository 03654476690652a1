package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	left     key.Binding
	right    key.Binding
	up       key.Binding
	down     key.Binding
	grid     key.Binding
	add      key.Binding
	commit   key.Binding
	clear    key.Binding
	header   key.Binding
	title    key.Binding
	playlist key.Binding
	open     key.Binding
	story    key.Binding
	back     key.Binding
	help     key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev card")),
		right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next card")),
		up:       key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		down:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		grid:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "artists/tracks")),
		add:      key.NewBinding(key.WithKeys("enter", "a"), key.WithHelp("enter", "add")),
		commit:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		clear:    key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "clear card")),
		header:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit header")),
		title:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "edit title")),
		playlist: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "create playlist")),
		open:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open playlist")),
		story:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "download story")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.add, k.clear, k.grid, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.left, k.right, k.grid},
		{k.add, k.clear, k.header, k.title},
		{k.playlist, k.open, k.story},
		{k.help, k.quit},
	}
}
