package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"slides-cli/internal/deck"
	"slides-cli/internal/ink"
	"slides-cli/internal/store"
	"slides-cli/internal/web"

	"github.com/spf13/cobra"
)

const shutdownWait = 5 * time.Second

func newWebCmd(app *App) *cobra.Command {
	var addr string
	var open bool

	cmd := &cobra.Command{
		Use:   "web <deck.md>",
		Short: "Serve a deck to the browser",
		Long: strings.TrimSpace(`
Serve a Markdown deck from a local HTTP server.

Every browser tab gets its own presentation session over a websocket. The
?slide= query parameter picks the starting slide and is kept up to date while
presenting. With ink.persist enabled, all tabs share the deck's saved ink.
`),
		Example: strings.TrimSpace(`
# Serve on the configured address (web.addr)
slides web talk.md

# Serve on every interface, without opening a browser
slides web talk.md --addr :8080 --open=false
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := deck.Load(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				listenAddr = app.cfg.Web.Addr
			}
			if listenAddr == "" {
				return writeErr(cmd, errors.New("web: missing --addr"))
			}

			log, closeLog, err := app.logger(cmd.ErrOrStderr())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeLog()
			key := store.DeckKey(args[0])
			log = log.With("deck", key)

			var newStore func() ink.Store
			if app.cfg.Ink.Persist {
				st, err := app.store()
				if err != nil {
					return writeErr(cmd, err)
				}
				db, err := st.OpenInk(cmd.Context())
				if err != nil {
					return writeErr(cmd, err)
				}
				defer db.Close()
				shared, err := db.Deck(cmd.Context(), key, log)
				if err != nil {
					return writeErr(cmd, err)
				}
				newStore = func() ink.Store { return shared }
			}

			srv, err := web.NewServer(web.ServerConfig{
				Addr:           listenAddr,
				AllowedOrigins: app.cfg.Web.AllowedOrigins,
				Deck:           d,
				Footer:         app.cfg.Footer,
				Topic:          app.cfg.Topic,
				Theme:          app.cfg.Theme,
				URLField:       app.cfg.URLField,
				QuietPeriod:    app.cfg.QuietPeriod(),
				Stroke:         app.strokeConfig(),
				NewStore:       newStore,
				Logger:         log,
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}
			url := "http://" + ln.Addr().String() + "/"

			opened := false
			openErr := ""
			if open {
				if err := openPath(url); err != nil {
					openErr = err.Error()
				} else {
					opened = true
				}
			}
			var hints []string
			if !opened {
				hints = append(hints, "open "+url)
			}
			_ = writeOut(cmd, app, webStarted{
				Addr:      ln.Addr().String(),
				URL:       url,
				Deck:      key,
				Slides:    d.Len(),
				Opened:    opened,
				OpenError: openErr,
				StartedAt: time.Now().UTC().Format(time.RFC3339Nano),
			}, hints...)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			hs := &http.Server{
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
				BaseContext:       func(net.Listener) context.Context { return ctx },
			}
			errc := make(chan error, 1)
			go func() { errc <- hs.Serve(ln) }()

			select {
			case err := <-errc:
				if !errors.Is(err, http.ErrServerClosed) {
					return writeErr(cmd, err)
				}
				return nil
			case <-ctx.Done():
			}
			log.Info("shutting down")
			sctx, cancel := context.WithTimeout(context.Background(), shutdownWait)
			defer cancel()
			if err := hs.Shutdown(sctx); err != nil {
				return writeErr(cmd, fmt.Errorf("web: shutdown: %w", err))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Bind address (host:port or :port); default: web.addr from config")
	cmd.Flags().BoolVar(&open, "open", true, "Open the deck in your default browser")
	return cmd
}

type webStarted struct {
	Addr      string `json:"addr"`
	URL       string `json:"url"`
	Deck      string `json:"deck"`
	Slides    int    `json:"slides"`
	Opened    bool   `json:"opened"`
	OpenError string `json:"openError,omitempty"`
	StartedAt string `json:"startedAt"`
}

func (w webStarted) Text() string {
	return fmt.Sprintf("Presenting %s (%d slides) at %s", w.Deck, w.Slides, w.URL)
}
