package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	Back    key.Binding
	Root    key.Binding
	Mark    key.Binding
	Select  key.Binding
	Here    key.Binding
	Reload  key.Binding
	Cancel  key.Binding
	Source  key.Binding
	Dest    key.Binding
	Sync    key.Binding
	Yes     key.Binding
	No      key.Binding
	Quit    key.Binding
	ForceQt key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Open:    key.NewBinding(key.WithKeys("enter", "right", "l"), key.WithHelp("enter", "open")),
	Back:    key.NewBinding(key.WithKeys("backspace", "left", "h"), key.WithHelp("←/h", "parent")),
	Root:    key.NewBinding(key.WithKeys("~"), key.WithHelp("~", "root")),
	Mark:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "mark")),
	Select:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "select")),
	Here:    key.NewBinding(key.WithKeys("."), key.WithHelp(".", "select current")),
	Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	Source:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "pick source")),
	Dest:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "pick destination")),
	Sync:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "sync")),
	Yes:     key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "create pair")),
	No:      key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "cancel")),
	Quit:    key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	ForceQt: key.NewBinding(key.WithKeys("ctrl+c")),
}

func (k keyMap) formHelp() []key.Binding {
	return []key.Binding{k.Source, k.Dest, k.Sync, k.Quit}
}

func (k keyMap) browserHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Back, k.Root, k.Mark, k.Select, k.Here, k.Cancel}
}

func (k keyMap) confirmHelp() []key.Binding {
	return []key.Binding{k.Yes, k.No}
}
