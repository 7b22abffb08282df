package tui

import (
	"fmt"
	"strings"

	"slides-cli/internal/deck"

	xansi "github.com/charmbracelet/x/ansi"
)

func (m *model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	pal := palette{dark: m.dark}

	lines := make([]string, 0, m.height)
	lines = append(lines, m.headerLine(pal))
	if m.overview {
		lines = append(lines, m.overviewLines(pal)...)
	} else {
		lines = append(lines, m.slideLines()...)
	}
	lines = append(lines, m.footerLine(pal))
	return strings.Join(lines, "\n")
}

func (m *model) headerLine(pal palette) string {
	left := ""
	if m.active >= 0 && m.active < m.SlideCount() {
		left = m.deck.Slides[m.active].Title
	}
	return spread(pal.muted().Render(left), pal.text().Render(m.topic), m.width)
}

func (m *model) slideLines() []string {
	rows := m.bodyRows()
	if rows == 0 {
		return nil
	}
	rendered := ""
	if m.active >= 0 && m.active < m.SlideCount() {
		rendered = renderMarkdown(m.deck.Slides[m.active].Markdown, m.width, m.dark)
	}
	src := strings.Split(rendered, "\n")
	lines := make([]string, rows)
	for i := range lines {
		s := ""
		if i < len(src) {
			s = src[i]
		}
		lines[i] = fitLine(s, m.width)
	}
	return overlayInk(lines, m.pres.Surface().Image(), m.width)
}

func (m *model) overviewLines(pal palette) []string {
	rows := m.bodyRows()
	lines := make([]string, rows)
	off := m.overviewOffset()
	for r := range lines {
		i := off + r
		if i >= m.SlideCount() {
			lines[r] = fitLine("", m.width)
			continue
		}
		marker := "  "
		if i == m.prev {
			marker = "· "
		}
		row := fitLine(fmt.Sprintf("%s%3d  %s", marker, i, m.deck.Slides[i].Title), m.width)
		if i == m.active {
			lines[r] = pal.selected().Render(row)
		} else {
			lines[r] = pal.text().Render(row)
		}
	}
	return lines
}

func (m *model) footerLine(pal palette) string {
	if m.showHelp {
		return fitLine(m.help.View(m.keys), m.width)
	}
	var status []string
	if tools := m.pres.Tools(); tools.Active() {
		status = append(status, pal.badge().Render(tools.Tool().String()))
	}
	if kb := m.pres.Keys(); kb.Pending() {
		pending := kb.Buffer()
		if kb.PrefixArmed() {
			pending += "g"
		}
		status = append(status, pal.muted().Render(pending))
	}
	status = append(status, pal.text().Render(deck.PageLabel(m.active, m.SlideCount())))
	return spread(pal.muted().Render(m.footer), strings.Join(status, " "), m.width)
}

// spread places left and right at the edges of a width-wide line, truncating left when needed.
func spread(left, right string, width int) string {
	rw := xansi.StringWidth(right)
	if rw >= width {
		return xansi.Truncate(right, width, "")
	}
	avail := width - rw - 1
	left = xansi.Truncate(left, max(avail, 0), "…")
	gap := width - rw - xansi.StringWidth(left)
	return left + strings.Repeat(" ", max(gap, 0)) + right
}
