// Package live serves the search-as-you-type WebSocket session. Each
// connection owns its own shell state; keystrokes are debounced before the
// filter runs and results are pushed back as they settle.
package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/docsearch/internal/analytics"
	"github.com/ziadkadry99/docsearch/internal/cards"
	"github.com/ziadkadry99/docsearch/internal/debounce"
	"github.com/ziadkadry99/docsearch/internal/events"
	"github.com/ziadkadry99/docsearch/internal/shell"
)

// DefaultToggleWindow is the minimum spacing between honored sidebar toggles.
const DefaultToggleWindow = 150 * time.Millisecond

// writeWait bounds a single write to the client.
const writeWait = 10 * time.Second

// checkOrigin accepts same-host and local origins, matching the HTTP CORS
// policy, or any origin when allowAll is set. Requests without an Origin
// header come from non-browser clients and are accepted.
func checkOrigin(allowAll bool) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if allowAll || origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		switch u.Hostname() {
		case "localhost", "127.0.0.1":
			return u.Scheme == "http" || u.Scheme == "https"
		}
		return strings.EqualFold(u.Host, r.Host)
	}
}

// Message types exchanged over the socket.
const (
	TypeQuery         = "query"
	TypeClear         = "clear"
	TypeToggleSidebar = "toggle_sidebar"
	TypeEscape        = "escape"

	TypeReady   = "ready"
	TypeResults = "results"
	TypeSidebar = "sidebar"
	TypeError   = "error"
)

// request is the incoming WebSocket message format.
type request struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// response is the outgoing WebSocket message format.
type response struct {
	Type      string            `json:"type"`
	SessionID string            `json:"session_id"`
	Result    *cards.ResultView `json:"result,omitempty"`
	Open      *bool             `json:"open,omitempty"`
	Total     int               `json:"total,omitempty"`
	Content   string            `json:"content,omitempty"`
}

// Config controls the scheduling of a live session.
type Config struct {
	// Debounce is how long input must settle before a query runs.
	Debounce time.Duration
	// ToggleWindow throttles sidebar toggles. Zero disables throttling.
	ToggleWindow time.Duration
	// AllowAll accepts connections from any browser origin.
	AllowAll bool
}

// Handler upgrades requests to live search sessions over a fixed snapshot.
type Handler struct {
	cfg      Config
	snapshot []cards.Card
	recorder analytics.Recorder
	upgrader websocket.Upgrader
}

// NewHandler returns a Handler. A nil recorder discards analytics.
func NewHandler(cfg Config, snapshot []cards.Card, recorder analytics.Recorder) *Handler {
	if recorder == nil {
		recorder = analytics.Nop{}
	}
	return &Handler{
		cfg:      cfg,
		snapshot: snapshot,
		recorder: recorder,
		upgrader: websocket.Upgrader{CheckOrigin: checkOrigin(cfg.AllowAll)},
	}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("live: websocket upgrade", "error", err)
		return
	}

	sess := h.newSession(conn)
	defer sess.close()

	sess.send(response{Type: TypeReady, Total: len(h.snapshot)})
	sess.run()
}

// session is one connected client.
type session struct {
	id       string
	conn     *websocket.Conn
	shell    *shell.Shell
	scope    *events.Scope
	debounce *debounce.Debouncer
	toggle   *debounce.Throttle
	recorder analytics.Recorder

	writeMu sync.Mutex
}

func (h *Handler) newSession(conn *websocket.Conn) *session {
	sh := shell.New(h.snapshot, nil)
	s := &session{
		id:       uuid.New().String(),
		conn:     conn,
		shell:    sh,
		scope:    sh.Bus().NewScope(),
		debounce: debounce.New(h.cfg.Debounce),
		toggle:   debounce.NewThrottle(h.cfg.ToggleWindow),
		recorder: h.recorder,
	}

	s.scope.Subscribe(events.Searched, s.onResult)
	s.scope.Subscribe(events.SearchCleared, s.onResult)
	s.scope.Subscribe(events.SidebarToggled, s.onSidebar)
	return s
}

func (s *session) run() {
	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("live: websocket read", "session", s.id, "error", err)
			}
			return
		}

		var req request
		if err := json.Unmarshal(msg, &req); err != nil {
			s.sendError("invalid message format")
			continue
		}

		switch req.Type {
		case TypeQuery:
			query := req.Content
			s.debounce.Trigger(func() { s.shell.Search(query) })
		case TypeClear:
			s.debounce.Flush(func() { s.shell.ClearSearch() })
		case TypeToggleSidebar:
			s.toggle.Do(func() { s.shell.ToggleSidebar() })
		case TypeEscape:
			// Cancel waits for a search already running, so Escape's clear
			// is always the last result sent.
			s.debounce.Cancel()
			s.shell.Escape()
		default:
			s.sendError("unknown message type: " + req.Type)
		}
	}
}

// close releases the session's subscriptions and pending work. It runs on
// every exit path of ServeHTTP.
func (s *session) close() {
	s.debounce.Stop()
	s.scope.Close()
	s.conn.Close()
}

func (s *session) onResult(e events.Event) {
	res, ok := e.Payload.(cards.Result)
	if !ok {
		return
	}
	if res.Query != "" {
		err := s.recorder.Record(context.Background(), analytics.Event{
			Query:   res.Query,
			Results: res.VisibleCount,
			Total:   res.Total,
			Source:  analytics.SourceLive,
		})
		if err != nil {
			slog.Warn("live: recording search", "session", s.id, "error", err)
		}
	}

	view := cards.NewResultView(s.shell.Cards(), res)
	s.send(response{Type: TypeResults, Result: &view})
}

func (s *session) onSidebar(e events.Event) {
	ev, ok := e.Payload.(shell.SidebarEvent)
	if !ok {
		return
	}
	open := ev.Open
	s.send(response{Type: TypeSidebar, Open: &open})
}

func (s *session) send(resp response) {
	resp.SessionID = s.id
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(resp); err != nil {
		slog.Debug("live: websocket write", "session", s.id, "error", err)
	}
}

func (s *session) sendError(message string) {
	s.send(response{Type: TypeError, Content: message})
}
