package cli

import (
	"fmt"
	"strings"

	"slides-cli/internal/deck"
	"slides-cli/internal/store"

	"github.com/spf13/cobra"
)

func newDeckCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deck",
		Short: "Inspect decks",
	}
	cmd.AddCommand(newDeckInfoCmd(app))
	return cmd
}

type slideInfo struct {
	Index int    `json:"index"`
	Title string `json:"title"`
	Page  string `json:"page"`
}

type deckInfo struct {
	Deck   string      `json:"deck"`
	Slides []slideInfo `json:"slides"`
	// Resume is the slide a terminal session would start on.
	Resume string `json:"resume,omitempty"`
	Theme  string `json:"theme,omitempty"`
	Inked  []int  `json:"inked,omitempty"`
}

func (d deckInfo) Text() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%d slides)\n", d.Deck, len(d.Slides))
	for _, s := range d.Slides {
		title := s.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(&sb, "%6s  %s\n", s.Page, title)
	}
	if d.Resume != "" {
		fmt.Fprintf(&sb, "resumes at slide %s\n", d.Resume)
	}
	return sb.String()
}

func newDeckInfoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "info <deck.md>",
		Short: "Show slide titles and saved presenter state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := deck.Load(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			key := store.DeckKey(args[0])
			info := deckInfo{Deck: key, Slides: make([]slideInfo, 0, d.Len())}
			for _, s := range d.Slides {
				info.Slides = append(info.Slides, slideInfo{Index: s.Index, Title: s.Title, Page: deck.PageLabel(s.Index, d.Len())})
			}

			st, err := app.store()
			if err != nil {
				return writeErr(cmd, err)
			}
			if ps, err := st.LoadState(); err == nil {
				ds := ps.Decks[key]
				info.Resume = ds.Fields[app.cfg.URLField]
				info.Theme = ds.Theme
			}
			if app.cfg.Ink.Persist {
				if db, err := st.OpenInk(cmd.Context()); err == nil {
					if entries, err := db.List(cmd.Context(), key); err == nil {
						for _, e := range entries {
							info.Inked = append(info.Inked, e.Slide)
						}
					}
					_ = db.Close()
				}
			}
			return writeOut(cmd, app, info)
		},
	}
}
