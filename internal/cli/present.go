package cli

import (
	"strings"

	"slides-cli/internal/deck"
	"slides-cli/internal/ink"
	"slides-cli/internal/store"
	"slides-cli/internal/tui"

	"github.com/spf13/cobra"
)

func newPresentCmd(app *App) *cobra.Command {
	var theme string
	var fresh bool

	cmd := &cobra.Command{
		Use:   "present <deck.md>",
		Short: "Present a deck in the terminal",
		Long: strings.TrimSpace(`
Present a Markdown deck full-screen in the terminal.

Slides are separated by lines containing only "---". The last slide shown is
remembered per deck, so a relaunch resumes there. With ink.persist enabled,
annotations are kept in the ink database across sessions.
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := deck.Load(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err := app.store()
			if err != nil {
				return writeErr(cmd, err)
			}
			log, closeLog, err := app.logger(nil)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeLog()

			key := store.DeckKey(args[0])
			log = log.With("deck", key)

			if fresh {
				if err := st.UpdateDeck(key, func(ds *store.DeckState) { ds.Fields = nil }); err != nil {
					log.Warn("reset presenter state", "error", err)
				}
			}

			if theme == "" {
				theme = app.cfg.Theme
				if ps, err := st.LoadState(); err == nil && ps.Decks[key].Theme != "" {
					theme = ps.Decks[key].Theme
				}
			}

			var snapshots ink.Store
			if app.cfg.Ink.Persist {
				db, err := st.OpenInk(cmd.Context())
				if err != nil {
					return writeErr(cmd, err)
				}
				defer db.Close()
				di, err := db.Deck(cmd.Context(), key, log)
				if err != nil {
					return writeErr(cmd, err)
				}
				snapshots = di
			}

			err = tui.Run(tui.Options{
				Deck:        d,
				Address:     store.NewDeckAddress(st, key, log),
				URLField:    app.cfg.URLField,
				Store:       snapshots,
				QuietPeriod: app.cfg.QuietPeriod(),
				Stroke:      app.strokeConfig(),
				Footer:      app.cfg.Footer,
				Topic:       app.cfg.Topic,
				Theme:       theme,
				OnTheme: func(dark bool) {
					name := "light"
					if dark {
						name = "dark"
					}
					if err := st.UpdateDeck(key, func(ds *store.DeckState) { ds.Theme = name }); err != nil {
						log.Warn("save theme", "error", err)
					}
				},
				Logger: log,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&theme, "theme", "", "Theme for this session (auto|dark|light); default: last used, then config")
	cmd.Flags().BoolVar(&fresh, "fresh", false, "Start at the first slide instead of resuming")
	return cmd
}
