package present

import (
	"bytes"
	"errors"
	"image"
	"strconv"
	"testing"
	"time"

	"slides-cli/internal/ink"
	"slides-cli/internal/keys"
	"slides-cli/internal/location"
	"slides-cli/internal/nav"
)

type stubRenderer struct {
	count    int
	active   int
	prev     int
	overview bool
	shows    int
}

func (r *stubRenderer) SlideCount() int { return r.count }
func (r *stubRenderer) ShowSlide(active, prev int) {
	r.active, r.prev = active, prev
	r.shows++
}
func (r *stubRenderer) SetOverview(on bool) { r.overview = on }

type stubView struct {
	dark          bool
	fullscreenErr error
	fullscreens   int
}

func (v *stubView) ToggleTheme() { v.dark = !v.dark }
func (v *stubView) ToggleFullscreen() error {
	v.fullscreens++
	return v.fullscreenErr
}

type manualTimer struct {
	fire func()
}

func (m *manualTimer) Schedule(_ time.Duration, fire func()) { m.fire = fire }
func (m *manualTimer) Cancel()                               { m.fire = nil }

type queuedDecoder struct {
	jobs []func()
}

func (q *queuedDecoder) Decode(snapshot []byte, done func(image.Image, error)) {
	q.jobs = append(q.jobs, func() { done(ink.Decode(snapshot)) })
}

func newTestPresentation(t *testing.T, count int, addr location.Address, dec ink.Decoder) (*Presentation, *stubRenderer, *stubView) {
	t.Helper()
	r := &stubRenderer{count: count}
	v := &stubView{}
	p, err := New(Options{
		Renderer: r,
		View:     v,
		Address:  addr,
		Decoder:  dec,
		Timer:    &manualTimer{},
		Width:    48,
		Height:   32,
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	p.Start()
	return p, r, v
}

func press(p *Presentation, ks ...string) {
	for _, k := range ks {
		p.HandleKey(keys.Event{Key: k})
	}
}

func drawStroke(p *Presentation, from, to image.Point) {
	p.PointerDown(ink.PointerEvent{ID: 1, X: float64(from.X), Y: float64(from.Y)})
	p.PointerMove(ink.PointerEvent{ID: 1, X: float64(to.X), Y: float64(to.Y)})
	p.PointerUp(ink.PointerEvent{ID: 1, X: float64(to.X), Y: float64(to.Y)})
}

func blank(img *image.RGBA) bool {
	for _, b := range img.Pix {
		if b != 0 {
			return false
		}
	}
	return true
}

func TestNew_NoSlidesIsConfigError(t *testing.T) {
	_, err := New(Options{Renderer: &stubRenderer{}})
	var cfgErr *nav.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestStart_SeedsFromAddress(t *testing.T) {
	tests := []struct {
		name string
		addr location.MemoryAddress
		want int
	}{
		{name: "absent", addr: location.MemoryAddress{}, want: 0},
		{name: "valid", addr: location.MemoryAddress{"slide": "2"}, want: 2},
		{name: "malformed", addr: location.MemoryAddress{"slide": "two"}, want: 0},
		{name: "out of range", addr: location.MemoryAddress{"slide": "9"}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, r, _ := newTestPresentation(t, 4, tt.addr, nil)
			if p.Current() != tt.want || r.active != tt.want {
				t.Fatalf("expected slide %d, got index=%d rendered=%d", tt.want, p.Current(), r.active)
			}
			if tt.addr["slide"] != strconv.Itoa(tt.want) {
				t.Fatalf("expected address rewritten to %d, got %q", tt.want, tt.addr["slide"])
			}
		})
	}
}

func TestHandleKey_CountedJumpWritesAddress(t *testing.T) {
	addr := location.MemoryAddress{}
	p, r, _ := newTestPresentation(t, 5, addr, nil)

	press(p, "3", "g", "g")
	if p.Current() != 3 || r.active != 3 || r.prev != 2 {
		t.Fatalf("expected slide 3 active after 3gg, got current=%d active=%d prev=%d", p.Current(), r.active, r.prev)
	}
	if addr["slide"] != "3" {
		t.Fatalf("expected address slide=3, got %q", addr["slide"])
	}

	press(p, "g", "e")
	if p.Current() != 4 {
		t.Fatalf("expected ge to reach the last slide, got %d", p.Current())
	}
	press(p, "l")
	if p.Current() != 0 {
		t.Fatalf("expected next to wrap to 0, got %d", p.Current())
	}
	press(p, "h")
	if p.Current() != 0 {
		t.Fatalf("expected prev at 0 to stay, got %d", p.Current())
	}
}

func TestInk_RoundTripsAcrossNavigation(t *testing.T) {
	p, _, _ := newTestPresentation(t, 3, nil, nil)
	press(p, "p")
	if !p.Tools().Active() || p.Tools().Tool() != ink.ToolPen {
		t.Fatalf("expected pen active after p")
	}
	drawStroke(p, image.Pt(4, 4), image.Pt(40, 20))
	drawn := bytes.Clone(p.Surface().Image().Pix)
	if blank(p.Surface().Image()) {
		t.Fatalf("expected stroke to paint pixels")
	}

	press(p, "l")
	if !blank(p.Surface().Image()) {
		t.Fatalf("expected slide 1 surface to be blank")
	}
	press(p, "h")
	if !bytes.Equal(p.Surface().Image().Pix, drawn) {
		t.Fatalf("expected slide 0 ink restored pixel-identical")
	}
}

func TestInk_PointerIgnoredWhenDrawingOff(t *testing.T) {
	p, _, _ := newTestPresentation(t, 2, nil, nil)
	drawStroke(p, image.Pt(2, 2), image.Pt(30, 30))
	if !blank(p.Surface().Image()) {
		t.Fatalf("expected no ink without an active tool")
	}
	p.SetTool(ink.ToolPen)
	p.SetTool(ink.ToolPen)
	if p.Tools().Active() {
		t.Fatalf("expected reselecting the active tool to turn drawing off")
	}
}

func TestInk_StaleRestoreDiscarded(t *testing.T) {
	dec := &queuedDecoder{}
	p, _, _ := newTestPresentation(t, 3, nil, dec)
	p.SetTool(ink.ToolPen)
	drawStroke(p, image.Pt(4, 4), image.Pt(40, 4))

	press(p, "l") // 0 stored
	press(p, "h") // restore of 0 queued
	press(p, "l") // leave before it decodes
	if len(dec.jobs) != 2 {
		t.Fatalf("expected restores of 0 and 1 queued, got %d", len(dec.jobs))
	}
	dec.jobs[0]()
	if !blank(p.Surface().Image()) {
		t.Fatalf("expected stale slide 0 ink not to land on slide 1")
	}
	dec.jobs[1]()
	if p.Bridge().Pending() {
		t.Fatalf("expected no restore pending after both decodes settled")
	}
}

func TestClearInk_BlankIsStored(t *testing.T) {
	p, _, _ := newTestPresentation(t, 2, nil, nil)
	p.SetTool(ink.ToolPen)
	drawStroke(p, image.Pt(4, 4), image.Pt(20, 20))
	press(p, "c")
	if !blank(p.Surface().Image()) {
		t.Fatalf("expected c to clear the surface")
	}
	press(p, "l", "h")
	if !blank(p.Surface().Image()) {
		t.Fatalf("expected cleared slide to restore blank")
	}
}

func TestClearInk_CancelsPendingRestore(t *testing.T) {
	dec := &queuedDecoder{}
	p, _, _ := newTestPresentation(t, 2, nil, dec)
	p.SetTool(ink.ToolPen)
	drawStroke(p, image.Pt(4, 4), image.Pt(40, 4))
	press(p, "l", "h") // restore of 0 queued
	press(p, "c")
	for _, job := range dec.jobs {
		job()
	}
	if !blank(p.Surface().Image()) {
		t.Fatalf("expected cleared slide to stay blank after the restore decoded")
	}
	press(p, "l")
	press(p, "h")
	for _, job := range dec.jobs {
		job()
	}
	if !blank(p.Surface().Image()) {
		t.Fatalf("expected the cleared slide to be stored blank")
	}
}

func TestInk_LeavingDuringRestoreKeepsInk(t *testing.T) {
	dec := &queuedDecoder{}
	st := ink.NewMemoryStore()
	p, err := New(Options{Renderer: &stubRenderer{count: 2}, Store: st, Decoder: dec, Timer: &manualTimer{}, Width: 48, Height: 32})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	p.Start()
	p.SetTool(ink.ToolPen)
	drawStroke(p, image.Pt(4, 4), image.Pt(40, 4))
	press(p, "l", "h", "l") // leave slide 0 while its restore is decoding

	snap, ok := st.Get(0)
	if !ok {
		t.Fatalf("expected slide 0 stored")
	}
	img, err := ink.Decode(snap)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, _, _, a := img.At(20, 4).RGBA(); a == 0 {
		t.Fatalf("expected slide 0 ink to survive leaving before its restore decoded")
	}
}

func TestView_TogglesAndFullscreenRejection(t *testing.T) {
	p, _, v := newTestPresentation(t, 2, nil, nil)
	v.fullscreenErr = errors.New("denied")

	press(p, "t")
	if !v.dark {
		t.Fatalf("expected theme toggled")
	}
	if a := p.HandleKey(keys.Event{Key: "f"}); a != keys.ActionFullscreen {
		t.Fatalf("expected fullscreen action, got %q", a)
	}
	if v.fullscreens != 1 {
		t.Fatalf("expected fullscreen requested once, got %d", v.fullscreens)
	}
	press(p, "l")
	if p.Current() != 1 {
		t.Fatalf("expected presentation to keep working after rejected fullscreen")
	}
}

func TestClickSlide_OnlyInOverview(t *testing.T) {
	p, r, _ := newTestPresentation(t, 4, nil, nil)
	if p.ClickSlide(2) {
		t.Fatalf("expected click outside overview to be ignored")
	}
	press(p, "-")
	if !r.overview {
		t.Fatalf("expected overview on")
	}
	if !p.ClickSlide(2) {
		t.Fatalf("expected overview click to select")
	}
	if p.Current() != 2 || r.overview || p.Overview() {
		t.Fatalf("expected slide 2 with overview off, got %d overview=%v", p.Current(), r.overview)
	}
}

func TestResize_KeepsInk(t *testing.T) {
	p, _, _ := newTestPresentation(t, 2, nil, nil)
	p.SetTool(ink.ToolPen)
	drawStroke(p, image.Pt(4, 4), image.Pt(10, 4))
	p.Resize(96, 64)
	if got := p.Surface().Bounds().Dx(); got != 96 {
		t.Fatalf("expected width 96, got %d", got)
	}
	if p.Surface().Image().RGBAAt(6, 4).A == 0 {
		t.Fatalf("expected stroke kept after resize")
	}
}

func TestFlush_StoresCurrentSlide(t *testing.T) {
	st := ink.NewMemoryStore()
	p, err := New(Options{Renderer: &stubRenderer{count: 3}, Store: st, Width: 20, Height: 20})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	p.Start()
	p.Goto(2)
	p.Flush()
	if got := st.Indexes(); len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Fatalf("expected snapshots for 0 and 2, got %v", got)
	}
}
