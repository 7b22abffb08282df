package ink

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
)

type PointerType int

const (
	PointerMouse PointerType = iota
	PointerTouch
	PointerPen
)

func ParsePointerType(s string) PointerType {
	switch s {
	case "touch":
		return PointerTouch
	case "pen":
		return PointerPen
	default:
		return PointerMouse
	}
}

// PointerEvent is one pointer sample in surface pixel coordinates.
type PointerEvent struct {
	ID          int
	Type        PointerType
	X, Y        float64
	Pressure    float64
	HasPressure bool
}

// coordLimit bounds pointer coordinates so far off-surface samples stay cheap to walk.
const coordLimit = 1 << 20

func (e PointerEvent) point() image.Point {
	return image.Pt(coord(e.X), coord(e.Y))
}

func coord(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Round(math.Max(-coordLimit, math.Min(v, coordLimit))))
}

// Capturer keeps delivering a pointer's events to the surface after it leaves the surface bounds.
type Capturer interface {
	CapturePointer(id int)
}

type StrokeConfig struct {
	PenColor      color.RGBA
	PenWidth      float64
	PressureScale float64
	MinPenWidth   float64
	EraserWidth   float64
}

func DefaultStrokeConfig() StrokeConfig {
	return StrokeConfig{
		PenColor:      color.RGBA{R: 0xe1, G: 0x1d, B: 0x48, A: 0xff},
		PenWidth:      3,
		PressureScale: 6,
		MinPenWidth:   1,
		EraserWidth:   24,
	}
}

// MaxSide caps each raster dimension.
const MaxSide = 8192

func clampSide(v int) int { return min(max(v, 0), MaxSide) }

// Surface is the freehand overlay raster for the current slide.
//
// Idle -> Drawing on pointer down (only while drawing mode is active),
// Drawing -> Idle on pointer up or cancel. Each move while drawing strokes one
// segment from the previous point with the active tool.
type Surface struct {
	img     *image.RGBA
	tools   *ToolState
	cfg     StrokeConfig
	capture Capturer

	drawing bool
	pointer int
	last    image.Point
	hasLast bool

	dirty image.Rectangle
}

func NewSurface(width, height int, tools *ToolState, cfg StrokeConfig, capture Capturer) *Surface {
	if tools == nil {
		tools = &ToolState{}
	}
	return &Surface{
		img:     image.NewRGBA(image.Rect(0, 0, clampSide(width), clampSide(height))),
		tools:   tools,
		cfg:     cfg,
		capture: capture,
	}
}

func (s *Surface) Tools() *ToolState       { return s.tools }
func (s *Surface) Image() *image.RGBA      { return s.img }
func (s *Surface) Bounds() image.Rectangle { return s.img.Bounds() }
func (s *Surface) Drawing() bool           { return s.drawing }

func (s *Surface) PointerDown(ev PointerEvent) bool {
	if s.drawing || !s.tools.Active() {
		return false
	}
	s.drawing = true
	s.pointer = ev.ID
	s.last = ev.point()
	s.hasLast = true
	if ev.Type != PointerMouse && s.capture != nil {
		s.capture.CapturePointer(ev.ID)
	}
	return true
}

func (s *Surface) PointerMove(ev PointerEvent) bool {
	if !s.drawing || ev.ID != s.pointer || !s.hasLast {
		return false
	}
	p := ev.point()
	switch s.tools.Tool() {
	case ToolEraser:
		s.erase(s.last, p, s.cfg.EraserWidth)
	default:
		s.paint(s.last, p, s.penWidth(ev))
	}
	s.last = p
	return true
}

func (s *Surface) PointerUp(ev PointerEvent) bool {
	if !s.drawing || ev.ID != s.pointer {
		return false
	}
	s.end()
	return true
}

func (s *Surface) PointerCancel(ev PointerEvent) bool { return s.PointerUp(ev) }

func (s *Surface) end() {
	s.drawing = false
	s.hasLast = false
	s.last = image.Point{}
}

func (s *Surface) penWidth(ev PointerEvent) float64 {
	if ev.HasPressure && ev.Pressure > 0 {
		return math.Max(math.Min(ev.Pressure, 1)*s.cfg.PressureScale, s.cfg.MinPenWidth)
	}
	return s.cfg.PenWidth
}

// paint composites the segment source-over in the pen colour.
func (s *Surface) paint(a, b image.Point, width float64) {
	mask := segmentMask(s.img.Bounds(), a, b, width)
	if mask == nil {
		return
	}
	draw.DrawMask(s.img, mask.Rect, image.NewUniform(s.cfg.PenColor), image.Point{}, mask, mask.Rect.Min, draw.Over)
	s.markDirty(mask.Rect)
}

// erase applies destination-out: covered pixels lose alpha in proportion to the mask.
func (s *Surface) erase(a, b image.Point, width float64) {
	mask := segmentMask(s.img.Bounds(), a, b, width)
	if mask == nil {
		return
	}
	r := mask.Rect
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			m := uint32(mask.Pix[mask.PixOffset(x, y)])
			if m == 0 {
				continue
			}
			keep := 0xff - m
			i := s.img.PixOffset(x, y)
			px := s.img.Pix[i : i+4 : i+4]
			for c := range px {
				px[c] = uint8(uint32(px[c]) * keep / 0xff)
			}
		}
	}
	s.markDirty(r)
}

// Clear makes the whole raster transparent.
func (s *Surface) Clear() {
	clear(s.img.Pix)
	s.markDirty(s.img.Bounds())
}

// DrawImage draws img at the origin over the current raster.
func (s *Surface) DrawImage(img image.Image) {
	b := img.Bounds()
	draw.Draw(s.img, image.Rectangle{Max: b.Size()}.Intersect(s.img.Bounds()), img, b.Min, draw.Over)
	s.markDirty(s.img.Bounds())
}

// Underlay draws img at the origin beneath the current raster.
func (s *Surface) Underlay(img image.Image) {
	base := image.NewRGBA(s.img.Bounds())
	b := img.Bounds()
	draw.Draw(base, image.Rectangle{Max: b.Size()}.Intersect(base.Bounds()), img, b.Min, draw.Src)
	draw.Draw(base, base.Bounds(), s.img, image.Point{}, draw.Over)
	s.img = base
	s.markDirty(base.Bounds())
}

// Resize changes the raster size, keeping existing pixels at the origin.
// Content outside the new bounds is clipped. Each side is capped at MaxSide.
func (s *Surface) Resize(width, height int) {
	width, height = clampSide(width), clampSide(height)
	if s.img.Bounds().Dx() == width && s.img.Bounds().Dy() == height {
		return
	}
	old := s.img
	s.img = image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.Copy(s.img, image.Point{}, old, old.Bounds(), xdraw.Src, nil)
	s.dirty = s.img.Bounds()
}

// TakeDirty returns the area changed since the previous call and resets it.
func (s *Surface) TakeDirty() image.Rectangle {
	d := s.dirty.Intersect(s.img.Bounds())
	s.dirty = image.Rectangle{}
	return d
}

func (s *Surface) markDirty(r image.Rectangle) {
	if s.dirty.Empty() {
		s.dirty = r
		return
	}
	s.dirty = s.dirty.Union(r)
}
