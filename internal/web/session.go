package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"slides-cli/internal/ink"
	"slides-cli/internal/keys"
	"slides-cli/internal/location"
	"slides-cli/internal/present"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait     = 10 * time.Second
	helloWait     = 10 * time.Second
	maxClientMsg  = 64 * 1024
	sessionEvents = 64
)

func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  32 * 1024,
		WriteBufferSize: 32 * 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" {
				return true
			}
			if slices.Contains(s.cfg.AllowedOrigins, origin) || slices.Contains(s.cfg.AllowedOrigins, "*") {
				return true
			}
			// Same-origin check.
			return strings.Contains(origin, "://"+strings.TrimSpace(r.Host))
		},
	}
}

// session is one browser tab. Every mutation of its presentation happens on
// the goroutine running run; other goroutines post closures through events.
type session struct {
	id   string
	conn *websocket.Conn
	log  *slog.Logger

	ctx    context.Context
	events chan func()

	pres *present.Presentation
	addr *location.URLAddress
	dark bool

	total int
	out   []serverMsg
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxClientMsg)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sess, err := s.openSession(ctx, conn)
	if err != nil {
		s.log.Debug("websocket session rejected", "error", err)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()),
			time.Now().Add(writeWait))
		return
	}
	sess.log.Info("presentation session opened", "slide", sess.pres.Current())

	go func() {
		defer cancel()
		sess.readLoop()
	}()
	sess.run()
	sess.pres.Flush()
	sess.log.Info("presentation session closed", "slide", sess.pres.Current())
}

// openSession waits for the page's hello and starts a presentation seeded from its URL.
func (s *Server) openSession(ctx context.Context, conn *websocket.Conn) (*session, error) {
	_ = conn.SetReadDeadline(time.Now().Add(helloWait))
	var hello clientMsg
	if err := conn.ReadJSON(&hello); err != nil {
		return nil, err
	}
	_ = conn.SetReadDeadline(time.Time{})
	if hello.Type != "hello" {
		return nil, errors.New("expected hello")
	}
	addr, err := location.NewURLAddress(hello.URL)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	sess := &session{
		id:     id,
		conn:   conn,
		log:    s.log.With("session", id),
		ctx:    ctx,
		events: make(chan func(), sessionEvents),
		addr:   addr,
		dark:   strings.EqualFold(strings.TrimSpace(s.cfg.Theme), "dark"),
		total:  s.cfg.Deck.Len(),
	}
	addr.OnReplace = func(u string) {
		sess.queue("replace", replaceData{URL: u})
	}

	var store ink.Store
	if s.cfg.NewStore != nil {
		store = s.cfg.NewStore()
	}
	sess.pres, err = present.New(present.Options{
		Renderer:    sess,
		View:        sess,
		Capturer:    sess,
		Address:     addr,
		URLField:    s.cfg.URLField,
		Store:       store,
		Dispatch:    sess.post,
		QuietPeriod: s.cfg.QuietPeriod,
		Stroke:      s.cfg.Stroke,
		Width:       max(hello.Width, 0),
		Height:      max(hello.Height, 0),
		Logger:      sess.log,
	})
	if err != nil {
		return nil, err
	}

	sess.queue("ready", readyData{Session: id, Total: sess.total})
	sess.queue("theme", themeData{Dark: sess.dark})
	sess.pres.Start()
	sess.queueTool()
	if err := sess.flush(); err != nil {
		return nil, err
	}
	return sess, nil
}

// post hands fn to the session loop. It drops fn once the session has ended.
func (ss *session) post(fn func()) {
	select {
	case ss.events <- fn:
	case <-ss.ctx.Done():
	}
}

func (ss *session) run() {
	for {
		select {
		case <-ss.ctx.Done():
			return
		case fn := <-ss.events:
			fn()
			if err := ss.flush(); err != nil {
				ss.log.Debug("websocket write failed", "error", err)
				return
			}
		}
	}
}

func (ss *session) readLoop() {
	for {
		var msg clientMsg
		if err := ss.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				ss.log.Debug("websocket read", "error", err)
			}
			return
		}
		ss.post(func() { ss.handle(msg) })
	}
}

func (ss *session) handle(msg clientMsg) {
	switch msg.Type {
	case "key":
		ss.pres.HandleKey(keys.Event{Key: msg.Key, InTextField: msg.InTextField})
		ss.queueTool()
		ss.queueKeys()
	case "pointer":
		ev := ink.PointerEvent{
			ID:          msg.PointerID,
			Type:        ink.ParsePointerType(msg.PointerType),
			X:           msg.X,
			Y:           msg.Y,
			Pressure:    msg.Pressure,
			HasPressure: msg.HasPressure,
		}
		switch msg.Phase {
		case "down":
			ss.pres.PointerDown(ev)
		case "move":
			ss.pres.PointerMove(ev)
		case "up":
			ss.pres.PointerUp(ev)
		case "cancel":
			ss.pres.PointerCancel(ev)
		}
	case "click":
		ss.pres.ClickSlide(msg.Slide)
	case "tool":
		if t, ok := ink.ParseTool(msg.Tool); ok {
			ss.pres.SetTool(t)
		}
		ss.queueTool()
	case "resize":
		ss.pres.Resize(max(msg.Width, 0), max(msg.Height, 0))
	case "log":
		ss.log.Debug("page", "message", msg.Message)
	default:
		ss.log.Debug("unknown page message", "type", msg.Type)
	}
}

func (ss *session) queue(typ string, data any) {
	ss.out = append(ss.out, serverMsg{Type: typ, Data: data})
}

func (ss *session) queueTool() {
	tools := ss.pres.Tools()
	ss.queue("tool", toolData{Tool: tools.Tool().String(), Active: tools.Active()})
}

func (ss *session) queueKeys() {
	kb := ss.pres.Keys()
	pending := kb.Buffer()
	if kb.PrefixArmed() {
		pending += "g"
	}
	ss.queue("keys", keysData{Pending: pending})
}

// queueInk sends the surface area changed since the last flush.
func (ss *session) queueInk() {
	surface := ss.pres.Surface()
	r := surface.TakeDirty()
	if r.Empty() {
		return
	}
	patch, err := ink.Encode(surface.Image().SubImage(r))
	if err != nil {
		ss.log.Warn("encode ink patch", "error", err)
		return
	}
	ss.queue("ink", inkData{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy(), PNG: patch})
}

func (ss *session) flush() error {
	if ss.pres != nil {
		ss.queueInk()
	}
	out := ss.out
	ss.out = nil
	for _, m := range out {
		_ = ss.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := ss.conn.WriteJSON(m); err != nil {
			return err
		}
	}
	return nil
}

// nav.Renderer

func (ss *session) SlideCount() int { return ss.total }

func (ss *session) ShowSlide(active, prev int) {
	ss.queue("show", showData{Active: active, Prev: prev})
}

func (ss *session) SetOverview(on bool) {
	ss.queue("overview", overviewData{On: on})
}

// present.View

func (ss *session) ToggleTheme() {
	ss.dark = !ss.dark
	ss.queue("theme", themeData{Dark: ss.dark})
}

// ToggleFullscreen asks the page to request or exit fullscreen. The browser may
// refuse; the page reports that back as a log message.
func (ss *session) ToggleFullscreen() error {
	ss.queue("fullscreen", nil)
	return nil
}

// ink.Capturer

func (ss *session) CapturePointer(id int) {
	ss.queue("capture", captureData{PointerID: id})
}
