package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"slides-cli/internal/store"

	"github.com/spf13/cobra"
)

func newInkCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ink",
		Short: "Inspect, export or clear saved ink",
		Long: strings.TrimSpace(`
Work with the ink database (written when ink.persist is enabled).

Decks are identified by the absolute path of their Markdown file.
`),
	}
	cmd.AddCommand(newInkListCmd(app))
	cmd.AddCommand(newInkExportCmd(app))
	cmd.AddCommand(newInkClearCmd(app))
	return cmd
}

func openInkDB(cmd *cobra.Command, app *App) (*store.InkDB, error) {
	st, err := app.store()
	if err != nil {
		return nil, err
	}
	return st.OpenInk(cmd.Context())
}

type deckList []store.DeckSummary

func (l deckList) Text() string {
	if len(l) == 0 {
		return "no saved ink"
	}
	var sb strings.Builder
	for _, d := range l {
		fmt.Fprintf(&sb, "%s\t%d slides\t%s\n", d.Deck, d.Slides, d.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return sb.String()
}

type entryList []store.InkEntry

func (l entryList) Text() string {
	if len(l) == 0 {
		return "no saved ink"
	}
	var sb strings.Builder
	for _, e := range l {
		fmt.Fprintf(&sb, "slide %d\t%d bytes\t%s\n", e.Slide, e.Bytes, e.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return sb.String()
}

func newInkListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list [deck.md]",
		Short: "List decks with saved ink, or one deck's annotated slides",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openInkDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer db.Close()

			if len(args) == 0 {
				decks, err := db.Decks(cmd.Context())
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, deckList(decks))
			}
			entries, err := db.List(cmd.Context(), store.DeckKey(args[0]))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, entryList(entries))
		},
	}
}

type exportedFile struct {
	Slide int    `json:"slide"`
	Path  string `json:"path"`
	Bytes int    `json:"bytes"`
}

type exportResult struct {
	Deck  string         `json:"deck"`
	Dir   string         `json:"dir"`
	Files []exportedFile `json:"files"`
}

func (r exportResult) Text() string {
	return fmt.Sprintf("exported %d slide(s) to %s", len(r.Files), r.Dir)
}

func newInkExportCmd(app *App) *cobra.Command {
	var outDir string
	var slide int

	cmd := &cobra.Command{
		Use:   "export <deck.md>",
		Short: "Write saved ink as PNG files (slide-NNN.png)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openInkDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer db.Close()

			key := store.DeckKey(args[0])
			snaps, err := db.Load(cmd.Context(), key)
			if err != nil {
				return writeErr(cmd, err)
			}
			if slide >= 0 {
				png, ok := snaps[slide]
				if !ok {
					return writeErr(cmd, errNotFound("ink", fmt.Sprintf("%s slide %d", key, slide)))
				}
				snaps = map[int][]byte{slide: png}
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return writeErr(cmd, err)
			}

			res := exportResult{Deck: key, Dir: outDir, Files: []exportedFile{}}
			for i := range maxSlide(snaps) + 1 {
				png, ok := snaps[i]
				if !ok {
					continue
				}
				path := filepath.Join(outDir, fmt.Sprintf("slide-%03d.png", i))
				if err := os.WriteFile(path, png, 0o644); err != nil {
					return writeErr(cmd, err)
				}
				res.Files = append(res.Files, exportedFile{Slide: i, Path: path, Bytes: len(png)})
			}
			return writeOut(cmd, app, res)
		},
	}

	cmd.Flags().StringVar(&outDir, "out", ".", "Directory to write PNG files into")
	cmd.Flags().IntVar(&slide, "slide", -1, "Export only this slide")
	return cmd
}

func maxSlide(snaps map[int][]byte) int {
	n := -1
	for i := range snaps {
		n = max(n, i)
	}
	return n
}

type clearResult struct {
	Deck    string `json:"deck"`
	Removed int64  `json:"removed"`
}

func (r clearResult) Text() string {
	return fmt.Sprintf("removed %d snapshot(s) for %s", r.Removed, r.Deck)
}

func newInkClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <deck.md>",
		Short: "Delete a deck's saved ink",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openInkDB(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer db.Close()

			key := store.DeckKey(args[0])
			n, err := db.Clear(cmd.Context(), key)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, clearResult{Deck: key, Removed: n})
		},
	}
}
