package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"slides-cli/internal/config"
	"slides-cli/internal/format"
	"slides-cli/internal/ink"
	"slides-cli/internal/logs"
	"slides-cli/internal/store"

	"github.com/spf13/cobra"
)

type App struct {
	ConfigPath string
	DataDir    string
	Format     string
	PrettyJSON bool
	LogLevel   string
	LogFile    string

	cfg *config.Config
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "slides",
		Short:        "Present Markdown slide decks in the terminal or a browser, with ink",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Present a deck in the terminal (shortcut for: slides present talk.md)
  slides talk.md

  # Serve the same deck to a browser
  slides web talk.md --addr 127.0.0.1:8080

  # Inspect saved ink
  slides ink list
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if app.ConfigPath == "" {
			p, err := config.DefaultPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			app.ConfigPath = p
		}
		cfg, err := config.Load(app.ConfigPath)
		if err != nil {
			return writeErr(cmd, err)
		}
		if app.LogLevel != "" {
			cfg.Log.Level = app.LogLevel
		}
		if app.LogFile != "" {
			cfg.Log.File = app.LogFile
		}
		if err := cfg.Validate(); err != nil {
			return writeErr(cmd, fmt.Errorf("config %s: %w", app.ConfigPath, err))
		}
		app.cfg = cfg
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("SLIDES_CONFIG", ""), "Path to config.yaml (default: <user config dir>/slides/config.yaml)")
	cmd.PersistentFlags().StringVar(&app.DataDir, "data-dir", envOr("SLIDES_DATA_DIR", ""), "Directory for presenter state and the ink database")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("SLIDES_FORMAT", "json"), "Output format (json|edn|text)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error); overrides log.level")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", "", "Append JSON logs to this file; overrides log.file")

	cmd.AddCommand(newPresentCmd(app))
	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newInkCmd(app))
	cmd.AddCommand(newDeckCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func (app *App) store() (store.Store, error) {
	dir := strings.TrimSpace(app.DataDir)
	if dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return store.Store{}, err
		}
		dir = d
	}
	return store.Store{Dir: dir}, nil
}

// logger builds the command's logger. console is nil for the terminal host,
// which owns the screen.
func (app *App) logger(console io.Writer) (*slog.Logger, func() error, error) {
	level, err := logs.ParseLevel(app.cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	return logs.New(logs.Options{Level: level, File: app.cfg.Log.File, Console: console})
}

func (app *App) strokeConfig() ink.StrokeConfig {
	sc := ink.DefaultStrokeConfig()
	if c, err := app.cfg.Ink.PenRGBA(); err == nil {
		sc.PenColor = c
	}
	sc.PenWidth = app.cfg.Ink.PenWidth
	sc.PressureScale = app.cfg.Ink.PressureScale
	sc.MinPenWidth = app.cfg.Ink.MinPenWidth
	sc.EraserWidth = app.cfg.Ink.EraserWidth
	return sc
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// output is the envelope every scriptable command writes.
type output struct {
	Data  any      `json:"data"`
	Hints []string `json:"_hints,omitempty"`
}

func (o output) Text() string {
	var sb strings.Builder
	if t, ok := o.Data.(format.Texter); ok {
		sb.WriteString(t.Text())
	} else {
		fmt.Fprintf(&sb, "%v", o.Data)
	}
	for _, h := range o.Hints {
		if !strings.HasSuffix(sb.String(), "\n") {
			sb.WriteByte('\n')
		}
		sb.WriteString("hint: " + h)
	}
	return sb.String()
}

func writeOut(cmd *cobra.Command, app *App, data any, hints ...string) error {
	return format.Write(cmd.OutOrStdout(), output{Data: data, Hints: hints}, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
