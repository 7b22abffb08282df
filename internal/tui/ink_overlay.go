package tui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// Each terminal cell covers a cellW x cellH block of ink pixels, drawn as one
// braille glyph.
const (
	cellW = 2
	cellH = 4
)

var brailleDots = [cellH][cellW]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

type inkCell struct {
	dots rune
	col  color.RGBA
}

func (c inkCell) glyph() string { return string(0x2800 + c.dots) }

// inkRow folds one text row of the raster into cells. It returns nil when the row has no ink.
func inkRow(img *image.RGBA, row, cols int) []inkCell {
	var out []inkCell
	for cx := 0; cx < cols; cx++ {
		var cell inkCell
		for dy := 0; dy < cellH; dy++ {
			for dx := 0; dx < cellW; dx++ {
				p := image.Pt(cx*cellW+dx, row*cellH+dy)
				if !p.In(img.Rect) {
					continue
				}
				px := img.RGBAAt(p.X, p.Y)
				if px.A < 0x80 {
					continue
				}
				cell.dots |= brailleDots[dy][dx]
				cell.col = px
			}
		}
		if cell.dots == 0 {
			continue
		}
		if out == nil {
			out = make([]inkCell, cols)
		}
		out[cx] = cell
	}
	return out
}

// overlayInk replaces the cells of each line that carry ink with coloured
// braille glyphs. Lines must already be padded to width.
func overlayInk(lines []string, img *image.RGBA, width int) []string {
	for y := range lines {
		cells := inkRow(img, y, width)
		if cells == nil {
			continue
		}
		lines[y] = overlayLine(lines[y], cells, width)
	}
	return lines
}

func overlayLine(line string, cells []inkCell, width int) string {
	var b strings.Builder
	start := 0
	for x := 0; x < width && x < len(cells); x++ {
		if cells[x].dots == 0 {
			continue
		}
		if x > start {
			b.WriteString(xansi.Cut(line, start, x))
		}
		b.WriteString(lipgloss.NewStyle().Foreground(hexColor(cells[x].col)).Render(cells[x].glyph()))
		start = x + 1
	}
	if start < width {
		b.WriteString(xansi.Cut(line, start, width))
	}
	return b.String()
}

// hexColor un-premultiplies a raster pixel.
func hexColor(c color.RGBA) lipgloss.Color {
	r, g, bl := c.R, c.G, c.B
	if c.A > 0 && c.A < 0xff {
		r = uint8(uint32(r) * 0xff / uint32(c.A))
		g = uint8(uint32(g) * 0xff / uint32(c.A))
		bl = uint8(uint32(bl) * 0xff / uint32(c.A))
	}
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, bl))
}

// fitLine truncates or pads s to exactly width cells.
func fitLine(s string, width int) string {
	s = xansi.Truncate(s, width, "")
	if w := xansi.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}
