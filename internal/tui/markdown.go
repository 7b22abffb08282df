package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

type rendererKey struct {
	dark  bool
	width int
}

// slideRenderers holds one glamour renderer per theme and wrap width. The
// style is always explicit: auto-detection queries the terminal background,
// which can block while Bubble Tea owns stdin.
var slideRenderers = struct {
	sync.Mutex
	m map[rendererKey]*glamour.TermRenderer
}{m: map[rendererKey]*glamour.TermRenderer{}}

func slideRenderer(dark bool, width int) (*glamour.TermRenderer, error) {
	k := rendererKey{dark: dark, width: width}
	slideRenderers.Lock()
	defer slideRenderers.Unlock()
	if r, ok := slideRenderers.m[k]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(slideStyle(dark)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	slideRenderers.m[k] = r
	return r, nil
}

// renderMarkdown renders one slide body. Renderer errors fall back to the raw Markdown.
func renderMarkdown(md string, width int, dark bool) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	r, err := slideRenderer(dark, max(width, 10))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// slideStyle starts from glamour's stock style and pulls headings, text and
// links onto the presenter palette.
func slideStyle(dark bool) ansi.StyleConfig {
	cfg := styles.LightStyleConfig
	if dark {
		cfg = styles.DarkStyleConfig
	}
	col := func(c lipgloss.AdaptiveColor) *string {
		s := string(pick(c, dark))
		return &s
	}
	yes, no := true, false

	text := col(colorSurfaceFg)
	for _, b := range []*ansi.StyleBlock{&cfg.Heading, &cfg.H1, &cfg.H2, &cfg.H3} {
		b.Color = text
	}
	cfg.H1.Prefix, cfg.H1.Suffix = "", ""
	cfg.H1.BackgroundColor = nil
	cfg.H1.Bold = &yes
	cfg.Text.Color = text

	cfg.Link.Color = col(colorAccent)
	cfg.Link.Underline = &yes
	cfg.LinkText.Color = cfg.Link.Color

	if cfg.CodeBlock.BackgroundColor == nil {
		cfg.CodeBlock.BackgroundColor = col(colorControlBg)
	}
	cfg.BlockQuote.Faint = &no
	return cfg
}
