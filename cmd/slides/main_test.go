package main

import (
	"reflect"
	"testing"
)

func TestRewriteDeckShortcutArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"slides"},
			want: []string{"slides"},
		},
		{
			name: "deck first token",
			in:   []string{"slides", "talk.md"},
			want: []string{"slides", "present", "talk.md"},
		},
		{
			name: "deck after value flag",
			in:   []string{"slides", "--data-dir", "./tmp-data", "talk.md"},
			want: []string{"slides", "--data-dir", "./tmp-data", "present", "talk.md"},
		},
		{
			name: "deck after equals flag",
			in:   []string{"slides", "--config=./c.yaml", "notes/Talk.Markdown"},
			want: []string{"slides", "--config=./c.yaml", "present", "notes/Talk.Markdown"},
		},
		{
			name: "deck after bool flag",
			in:   []string{"slides", "--pretty", "talk.md"},
			want: []string{"slides", "--pretty", "present", "talk.md"},
		},
		{
			name: "deck after double dash",
			in:   []string{"slides", "--", "talk.md"},
			want: []string{"slides", "--", "present", "talk.md"},
		},
		{
			name: "subcommand not rewritten",
			in:   []string{"slides", "web", "talk.md"},
			want: []string{"slides", "web", "talk.md"},
		},
		{
			name: "value flag argument is not a deck",
			in:   []string{"slides", "--log-file", "x.md", "ink", "list"},
			want: []string{"slides", "--log-file", "x.md", "ink", "list"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rewriteDeckShortcutArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v want %v", got, tt.want)
			}
		})
	}
}
