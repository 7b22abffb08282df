// Package web presents a deck in the browser. The page is static; each
// WebSocket connection runs its own presentation on the server and streams
// view updates and ink patches back to the page.
package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"slides-cli/internal/deck"
	"slides-cli/internal/ink"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

//go:embed templates/*.html static/*.js static/*.css
var assetsFS embed.FS

type ServerConfig struct {
	Addr           string
	AllowedOrigins []string

	Deck   *deck.Deck
	Footer string
	Topic  string
	// Theme is auto, dark or light.
	Theme string

	URLField    string
	QuietPeriod time.Duration
	Stroke      ink.StrokeConfig
	// NewStore returns the snapshot store for one connection. Nil means a
	// fresh in-memory store per connection.
	NewStore func() ink.Store

	Logger *slog.Logger
}

type Server struct {
	cfg    ServerConfig
	tmpl   *template.Template
	slides []slideVM
	log    *slog.Logger
}

type slideVM struct {
	Index int
	Title string
	HTML  template.HTML
	Page  string
}

func NewServer(cfg ServerConfig) (*Server, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("web: missing addr")
	}
	if cfg.Deck == nil || cfg.Deck.Len() == 0 {
		return nil, errors.New("web: deck has no slides")
	}
	tmpl, err := template.ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	slides := make([]slideVM, 0, cfg.Deck.Len())
	for i, sl := range cfg.Deck.Slides {
		h, err := cfg.Deck.HTML(i)
		if err != nil {
			return nil, fmt.Errorf("web: %w", err)
		}
		slides = append(slides, slideVM{
			Index: i,
			Title: sl.Title,
			// goldmark output is trusted only because raw HTML is disabled in the deck renderer.
			HTML: template.HTML(h),
			Page: deck.PageLabel(i, cfg.Deck.Len()),
		})
	}
	return &Server{cfg: cfg, tmpl: tmpl, slides: slides, log: log}, nil
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	if len(s.cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.AllowedOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/", s.handleDeck)
	r.Get("/ws", s.handleWS)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/static/app.css", s.handleStatic("static/app.css", "text/css; charset=utf-8"))
	r.Get("/static/app.js", s.handleStatic("static/app.js", "text/javascript; charset=utf-8"))
	return r
}

func (s *Server) handleStatic(path, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := assetsFS.ReadFile(path)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(b)
	}
}

type deckVM struct {
	Title  string
	Footer string
	Topic  string
	Dark   bool
	Slides []slideVM
}

func (s *Server) handleDeck(w http.ResponseWriter, r *http.Request) {
	vm := deckVM{
		Title:  s.slides[0].Title,
		Footer: strings.TrimSpace(s.cfg.Footer),
		Topic:  strings.TrimSpace(s.cfg.Topic),
		Dark:   strings.EqualFold(strings.TrimSpace(s.cfg.Theme), "dark"),
		Slides: s.slides,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "deck.html", vm); err != nil {
		s.log.Error("render deck page", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"dur", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
