package tui

import (
	"image"
	"image/color"
	"strings"
	"testing"

	xansi "github.com/charmbracelet/x/ansi"
)

func TestInkRow_BrailleDots(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3*cellW, 2*cellH))
	red := color.RGBA{R: 0xe1, G: 0x1d, B: 0x48, A: 0xff}
	// Cell 1, top-left and bottom-right dots.
	img.SetRGBA(2, 0, red)
	img.SetRGBA(3, 3, red)
	// Faint pixels do not count.
	img.SetRGBA(0, 0, color.RGBA{A: 0x20})

	cells := inkRow(img, 0, 3)
	if cells == nil {
		t.Fatalf("expected ink on row 0")
	}
	if cells[0].dots != 0 || cells[2].dots != 0 {
		t.Fatalf("expected only cell 1 inked, got %+v", cells)
	}
	if got := cells[1].glyph(); got != string(rune(0x2800+0x01+0x80)) {
		t.Fatalf("unexpected glyph %q", got)
	}
	if inkRow(img, 1, 3) != nil {
		t.Fatalf("expected row 1 empty")
	}
}

func TestOverlayLine_KeepsWidthAndText(t *testing.T) {
	line := fitLine("abcdef", 8)
	cells := make([]inkCell, 8)
	cells[2] = inkCell{dots: 0xff, col: color.RGBA{R: 0xff, A: 0xff}}
	out := overlayLine(line, cells, 8)
	plain := xansi.Strip(out)
	if xansi.StringWidth(plain) != 8 {
		t.Fatalf("expected width 8, got %d (%q)", xansi.StringWidth(plain), plain)
	}
	if !strings.HasPrefix(plain, "ab⣿def") {
		t.Fatalf("unexpected overlay %q", plain)
	}
}

func TestFitLine(t *testing.T) {
	if got := fitLine("hello world", 5); got != "hello" {
		t.Fatalf("truncate: %q", got)
	}
	if got := fitLine("hi", 4); got != "hi  " {
		t.Fatalf("pad: %q", got)
	}
}

func TestSpread(t *testing.T) {
	got := spread("left", "right", 12)
	if got != "left   right" {
		t.Fatalf("unexpected %q", got)
	}
	if w := xansi.StringWidth(spread("a very long footer text", "0 / 4", 12)); w != 12 {
		t.Fatalf("expected width 12, got %d", w)
	}
}

func TestHexColor_Unpremultiplies(t *testing.T) {
	if got := hexColor(color.RGBA{R: 0x80, A: 0x80}); got != "#ff0000" {
		t.Fatalf("unexpected colour %q", got)
	}
}
