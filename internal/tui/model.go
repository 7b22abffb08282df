package tui

import (
	"log/slog"

	"slides-cli/internal/deck"
	"slides-cli/internal/ink"
	"slides-cli/internal/keys"
	"slides-cli/internal/present"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Rows taken by the header and footer lines.
const (
	bodyTop     = 1
	chromeLines = 2
)

// dispatchMsg carries work posted from timers and decoders back onto the
// program's event loop.
type dispatchMsg struct{ fn func() }

// model is the Bubble Tea host. It is the presentation's renderer and view:
// the presentation mutates it through those ports and View reads it back.
type model struct {
	deck *deck.Deck
	pres *present.Presentation
	log  *slog.Logger

	footer string
	topic  string

	width    int
	height   int
	active   int
	prev     int
	overview bool
	dark     bool
	// fullscreen tracks the alternate screen.
	fullscreen bool
	showHelp   bool
	onTheme    func(dark bool)

	keys keyMap
	help help.Model

	cmds []tea.Cmd
}

func newModel(opts Options, dispatch func(func())) (*model, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	m := &model{
		deck:       opts.Deck,
		log:        log,
		footer:     opts.Footer,
		topic:      opts.Topic,
		prev:       -1,
		dark:       initialDark(opts.Theme),
		fullscreen: true,
		onTheme:    opts.OnTheme,
		keys:       defaultKeyMap(),
		help:       help.New(),
	}
	p, err := present.New(present.Options{
		Renderer:    m,
		View:        m,
		Address:     opts.Address,
		URLField:    opts.URLField,
		Store:       opts.Store,
		Dispatch:    dispatch,
		QuietPeriod: opts.QuietPeriod,
		Stroke:      opts.Stroke,
		Logger:      log,
	})
	if err != nil {
		return nil, err
	}
	m.pres = p
	return m, nil
}

// nav.Renderer

func (m *model) SlideCount() int {
	if m.deck == nil {
		return 0
	}
	return m.deck.Len()
}

func (m *model) ShowSlide(active, prev int) {
	m.active = active
	m.prev = prev
}

func (m *model) SetOverview(on bool) { m.overview = on }

// present.View

func (m *model) ToggleTheme() {
	m.dark = !m.dark
	if m.onTheme != nil {
		m.onTheme(m.dark)
	}
}

// ToggleFullscreen switches between the alternate screen and inline rendering.
func (m *model) ToggleFullscreen() error {
	if m.fullscreen {
		m.cmds = append(m.cmds, tea.ExitAltScreen)
	} else {
		m.cmds = append(m.cmds, tea.EnterAltScreen)
	}
	m.fullscreen = !m.fullscreen
	return nil
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dispatchMsg:
		msg.fn()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.pres.Resize(m.surfaceSize())

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		case msg.Type == tea.KeyEsc && m.overview:
			m.pres.ToggleOverview()
			return m, nil
		}
		m.pres.HandleKey(keys.Event{Key: msg.String()})

	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, m.takeCmds()
}

func (m *model) takeCmds() tea.Cmd {
	if len(m.cmds) == 0 {
		return nil
	}
	cmds := m.cmds
	m.cmds = nil
	return tea.Batch(cmds...)
}

func (m *model) bodyRows() int {
	return max(m.height-chromeLines, 0)
}

// surfaceSize is the ink raster size for the slide body.
func (m *model) surfaceSize() (int, int) {
	return m.width * cellW, m.bodyRows() * cellH
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	row := msg.Y - bodyTop
	if m.overview {
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if i, ok := m.overviewSlideAt(row); ok {
				m.pres.ClickSlide(i)
			}
		}
		return
	}

	ev := ink.PointerEvent{
		ID:   1,
		Type: ink.PointerMouse,
		X:    float64(msg.X*cellW + cellW/2),
		Y:    float64(row*cellH + cellH/2),
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.pres.PointerDown(ev)
		}
	case tea.MouseActionMotion:
		m.pres.PointerMove(ev)
	case tea.MouseActionRelease:
		m.pres.PointerUp(ev)
	}
}

// overviewOffset scrolls the overview list so the active slide stays visible.
func (m *model) overviewOffset() int {
	return max(m.active-m.bodyRows()+1, 0)
}

func (m *model) overviewSlideAt(row int) (int, bool) {
	if row < 0 || row >= m.bodyRows() {
		return 0, false
	}
	i := m.overviewOffset() + row
	if i >= m.SlideCount() {
		return 0, false
	}
	return i, true
}
