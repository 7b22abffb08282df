// Package present assembles one presentation instance: slide position,
// navigation, key grammar, ink surface and address sync. Hosts feed it
// discrete input events from a single event loop.
package present

import (
	"log/slog"
	"time"

	"slides-cli/internal/ink"
	"slides-cli/internal/keys"
	"slides-cli/internal/location"
	"slides-cli/internal/nav"
)

// View holds the host's presentation-wide toggles.
type View interface {
	ToggleTheme()
	// ToggleFullscreen requests or exits fullscreen. Rejections are not fatal.
	ToggleFullscreen() error
}

type Options struct {
	Renderer nav.Renderer
	View     View
	Capturer ink.Capturer

	Address  location.Address
	URLField string

	Store   ink.Store
	Decoder ink.Decoder
	Timer   keys.Timer
	// Dispatch posts a func onto the host event loop. When set it backs the
	// default key-reset timer and an asynchronous snapshot decoder.
	Dispatch func(func())

	QuietPeriod   time.Duration
	Stroke        ink.StrokeConfig
	Width, Height int

	Logger *slog.Logger
}

type Presentation struct {
	index   *nav.SlideIndex
	nav     *nav.Controller
	tools   *ink.ToolState
	surface *ink.Surface
	bridge  *ink.Bridge
	keys    *keys.Interpreter
	loc     *location.Sync
	view    View
	log     *slog.Logger
}

// New builds a presentation over the renderer's slides. A renderer with no
// slides yields a *nav.ConfigError.
func New(opts Options) (*Presentation, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	total := 0
	if opts.Renderer != nil {
		total = opts.Renderer.SlideCount()
	}
	index, err := nav.NewSlideIndex(total)
	if err != nil {
		return nil, err
	}

	stroke := opts.Stroke
	if stroke == (ink.StrokeConfig{}) {
		stroke = ink.DefaultStrokeConfig()
	}
	store := opts.Store
	if store == nil {
		store = ink.NewMemoryStore()
	}
	decoder := opts.Decoder
	if decoder == nil && opts.Dispatch != nil {
		decoder = ink.AsyncDecoder{Dispatch: opts.Dispatch}
	}
	timer := opts.Timer
	if timer == nil && opts.Dispatch != nil {
		timer = keys.NewDispatchTimer(opts.Dispatch)
	}

	p := &Presentation{
		index: index,
		tools: &ink.ToolState{},
		view:  opts.View,
		log:   log,
	}
	p.surface = ink.NewSurface(opts.Width, opts.Height, p.tools, stroke, opts.Capturer)
	p.bridge = ink.NewBridge(p.surface, store, decoder, index.Current, log)
	p.loc = location.NewSync(opts.Address, opts.URLField, total)
	p.nav = nav.NewController(index, opts.Renderer, p.bridge, p.loc)
	p.keys = keys.NewInterpreter(p, timer, opts.QuietPeriod)
	return p, nil
}

// Start seeds the position from the address state (0 when absent or invalid) and renders it.
func (p *Presentation) Start() {
	initial, ok := p.loc.ReadInitial()
	if !ok {
		initial = 0
	}
	p.log.Debug("presentation start", "slide", initial, "total", p.index.Total(), "from_address", ok)
	p.nav.Start(initial)
}

func (p *Presentation) Current() int            { return p.index.Current() }
func (p *Presentation) Overview() bool          { return p.nav.Overview() }
func (p *Presentation) Tools() *ink.ToolState   { return p.tools }
func (p *Presentation) Surface() *ink.Surface   { return p.surface }
func (p *Presentation) Keys() *keys.Interpreter { return p.keys }
func (p *Presentation) Bridge() *ink.Bridge     { return p.bridge }

func (p *Presentation) HandleKey(ev keys.Event) keys.Action {
	a := p.keys.HandleKey(ev)
	if a != keys.ActionIgnored && a != keys.ActionBuffered {
		p.log.Debug("key", "key", ev.Key, "action", string(a), "slide", p.index.Current())
	}
	return a
}

// ClickSlide handles a click on slide i; it only navigates in overview mode.
func (p *Presentation) ClickSlide(i int) bool {
	return p.nav.SelectFromOverview(i)
}

// SetTool is the toolbar entry point: selecting the active tool again turns drawing off.
func (p *Presentation) SetTool(t ink.Tool) {
	p.tools.SetTool(t)
	p.log.Debug("tool", "tool", t.String(), "active", p.tools.Active())
}

func (p *Presentation) PointerDown(ev ink.PointerEvent) bool   { return p.surface.PointerDown(ev) }
func (p *Presentation) PointerMove(ev ink.PointerEvent) bool   { return p.surface.PointerMove(ev) }
func (p *Presentation) PointerUp(ev ink.PointerEvent) bool     { return p.surface.PointerUp(ev) }
func (p *Presentation) PointerCancel(ev ink.PointerEvent) bool { return p.surface.PointerCancel(ev) }

// Flush stores the current slide's ink, as leaving the slide would. Hosts call it
// when the presentation ends.
func (p *Presentation) Flush() {
	p.bridge.CaptureAndStore(p.index.Current())
}

// Resize resizes the ink surface, keeping its pixels.
func (p *Presentation) Resize(width, height int) {
	p.surface.Resize(width, height)
}

// keys.Target

func (p *Presentation) Next()           { p.nav.Next() }
func (p *Presentation) Prev()           { p.nav.Prev() }
func (p *Presentation) Goto(n int)      { p.nav.Goto(n) }
func (p *Presentation) GotoLast()       { p.nav.GotoLast() }
func (p *Presentation) ToggleOverview() { p.nav.ToggleOverview() }

func (p *Presentation) ToggleTheme() {
	if p.view != nil {
		p.view.ToggleTheme()
	}
}

func (p *Presentation) ToggleFullscreen() {
	if p.view == nil {
		return
	}
	if err := p.view.ToggleFullscreen(); err != nil {
		p.log.Debug("fullscreen toggle rejected", "error", err)
	}
}

func (p *Presentation) SelectPen()    { p.SetTool(ink.ToolPen) }
func (p *Presentation) SelectEraser() { p.SetTool(ink.ToolEraser) }

func (p *Presentation) ClearInk() {
	p.bridge.Clear()
}
