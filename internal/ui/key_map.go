package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	enter    key.Binding
	back     key.Binding
	yes      key.Binding
	no       key.Binding
	sort     key.Binding
	reset    key.Binding
	moveUp   key.Binding
	moveDown key.Binding
	publish  key.Binding
	restart  key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		yes:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no")),
		sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "pyramid sort")),
		reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset order")),
		moveUp:   key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "move up")),
		moveDown: key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "move down")),
		publish:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "publish")),
		restart:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "start over")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.sort, k.reset, k.moveUp, k.moveDown},
		{k.back, k.yes, k.no},
		{k.restart, k.quit},
	}
}
