// Package deck loads a Markdown slide deck: slides are separated by lines
// consisting of "---" outside fenced code blocks.
package deck

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

type Slide struct {
	Index    int
	Title    string
	Markdown string
}

type Deck struct {
	Path   string
	Slides []Slide
}

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		emoji.Emoji,
	),
	// Raw HTML passthrough stays disabled (no html.WithUnsafe), so the output
	// can be embedded in the page as trusted markup.
	goldmark.WithRendererOptions(
		html.WithXHTML(),
	),
)

func Load(path string) (*Deck, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading deck %s: %w", path, err)
	}
	d := Parse(b)
	d.Path = path
	return d, nil
}

func Parse(src []byte) *Deck {
	d := &Deck{}
	for _, chunk := range split(string(src)) {
		body := strings.TrimSpace(chunk)
		if body == "" {
			continue
		}
		d.Slides = append(d.Slides, Slide{
			Index:    len(d.Slides),
			Title:    title([]byte(body)),
			Markdown: body,
		})
	}
	return d
}

func (d *Deck) Len() int { return len(d.Slides) }

// PageLabel is the footer page number: the zero-based position over the last
// position, so a title slide reads "0 / n".
func PageLabel(i, total int) string {
	return fmt.Sprintf("%d / %d", i, max(total-1, 0))
}

// HTML renders slide i.
func (d *Deck) HTML(i int) (string, error) {
	if i < 0 || i >= len(d.Slides) {
		return "", fmt.Errorf("slide %d out of range", i)
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(d.Slides[i].Markdown), &buf); err != nil {
		return "", fmt.Errorf("rendering slide %d: %w", i, err)
	}
	return buf.String(), nil
}

func split(src string) []string {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	var chunks []string
	var cur strings.Builder
	fence := ""
	for _, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)
		if fence == "" && (strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~")) {
			fence = trimmed[:3]
		} else if fence != "" && strings.HasPrefix(trimmed, fence) {
			fence = ""
		} else if fence == "" && trimmed == "---" {
			chunks = append(chunks, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteString(line)
		cur.WriteByte('\n')
	}
	return append(chunks, cur.String())
}

// title is the text of the first heading, or the first non-empty line.
func title(src []byte) string {
	doc := md.Parser().Parse(text.NewReader(src))
	var out string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		out = inlineText(h, src)
		return ast.WalkStop, nil
	})
	if out != "" {
		return out
	}
	for _, line := range strings.Split(string(src), "\n") {
		if l := strings.TrimSpace(line); l != "" {
			return l
		}
	}
	return ""
}

func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}
