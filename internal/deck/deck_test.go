package deck

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sample = "# Welcome\n\nHello.\n\n---\n\n## Second *slide*\n\n```md\n---\nnot a separator\n```\n\n---\n\nplain first line\nmore\n\n---\n\n"

func TestParse_SplitsOnSeparatorsOutsideFences(t *testing.T) {
	d := Parse([]byte(sample))
	if d.Len() != 3 {
		t.Fatalf("expected 3 slides, got %d", d.Len())
	}
	if !strings.Contains(d.Slides[1].Markdown, "not a separator") {
		t.Fatalf("expected fenced separator kept inside slide 1: %q", d.Slides[1].Markdown)
	}
	for i, s := range d.Slides {
		if s.Index != i {
			t.Fatalf("slide %d has index %d", i, s.Index)
		}
	}
}

func TestParse_Titles(t *testing.T) {
	d := Parse([]byte(sample))
	want := []string{"Welcome", "Second slide", "plain first line"}
	for i, w := range want {
		if d.Slides[i].Title != w {
			t.Fatalf("slide %d title %q want %q", i, d.Slides[i].Title, w)
		}
	}
}

func TestParse_EmptyDeck(t *testing.T) {
	if n := Parse([]byte("\n---\n  \n")).Len(); n != 0 {
		t.Fatalf("expected no slides, got %d", n)
	}
}

func TestDeck_HTML(t *testing.T) {
	d := Parse([]byte(sample))
	html, err := d.HTML(0)
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	if !strings.Contains(html, "<h1>Welcome</h1>") {
		t.Fatalf("unexpected html %q", html)
	}
	if _, err := d.HTML(9); err == nil {
		t.Fatalf("expected range error")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "talk.md")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	d, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if d.Path != path || d.Len() != 3 {
		t.Fatalf("unexpected deck %+v", d)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.md")); err == nil {
		t.Fatalf("expected error for missing deck")
	}
}

func TestPageLabel(t *testing.T) {
	tests := []struct {
		i, total int
		want     string
	}{
		{0, 5, "0 / 4"},
		{4, 5, "4 / 4"},
		{0, 1, "0 / 0"},
	}
	for _, tt := range tests {
		if got := PageLabel(tt.i, tt.total); got != tt.want {
			t.Fatalf("PageLabel(%d, %d)=%q want %q", tt.i, tt.total, got, tt.want)
		}
	}
}

func TestDeck_HTMLEmojiAndNoRawHTML(t *testing.T) {
	d := Parse([]byte("# Done :tada:\n\n<script>alert(1)</script>\n"))
	html, err := d.HTML(0)
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	if strings.Contains(html, ":tada:") {
		t.Fatalf("expected emoji shortcode rendered, got %q", html)
	}
	if strings.Contains(html, "<script>") {
		t.Fatalf("expected raw html omitted, got %q", html)
	}
}
