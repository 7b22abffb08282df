// Package tui presents a deck in the terminal with Bubble Tea.
package tui

import (
	"log/slog"
	"time"

	"slides-cli/internal/deck"
	"slides-cli/internal/ink"
	"slides-cli/internal/location"

	tea "github.com/charmbracelet/bubbletea"
)

type Options struct {
	Deck *deck.Deck

	// Address seeds the starting slide and records every move (e.g. the per-deck state file).
	Address  location.Address
	URLField string
	Store    ink.Store

	QuietPeriod time.Duration
	Stroke      ink.StrokeConfig

	Footer string
	Topic  string
	// Theme is auto, dark or light.
	Theme   string
	OnTheme func(dark bool)

	Logger *slog.Logger
}

// Run presents the deck until the user quits. The current slide's ink is
// stored on the way out.
func Run(opts Options) error {
	applyColorProfilePreference()

	var prog *tea.Program
	dispatch := func(fn func()) { prog.Send(dispatchMsg{fn: fn}) }

	m, err := newModel(opts, dispatch)
	if err != nil {
		return err
	}
	prog = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	m.pres.Start()

	_, err = prog.Run()
	m.pres.Flush()
	return err
}
