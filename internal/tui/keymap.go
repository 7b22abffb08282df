package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap documents the presenter keys for the help line. Only Help and Quit are
// matched here; everything else goes through the presentation's key grammar.
type keyMap struct {
	Next       key.Binding
	Prev       key.Binding
	Jump       key.Binding
	Last       key.Binding
	Overview   key.Binding
	Theme      key.Binding
	Fullscreen key.Binding
	Pen        key.Binding
	Eraser     key.Binding
	Clear      key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:       key.NewBinding(key.WithKeys("l", "right", " "), key.WithHelp("l/→/space", "next")),
		Prev:       key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "prev")),
		Jump:       key.NewBinding(key.WithKeys("g"), key.WithHelp("[n]gg", "go to")),
		Last:       key.NewBinding(key.WithKeys("g"), key.WithHelp("ge", "last")),
		Overview:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "overview")),
		Theme:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Fullscreen: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fullscreen")),
		Pen:        key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pen")),
		Eraser:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "eraser")),
		Clear:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear ink")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Jump, k.Last, k.Overview, k.Pen, k.Eraser, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Jump, k.Last},
		{k.Overview, k.Theme, k.Fullscreen},
		{k.Pen, k.Eraser, k.Clear},
		{k.Help, k.Quit},
	}
}
