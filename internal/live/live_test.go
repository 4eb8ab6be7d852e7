package live

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/docsearch/internal/analytics"
	"github.com/ziadkadry99/docsearch/internal/cards"
)

type memRecorder struct {
	mu     sync.Mutex
	events []analytics.Event
}

func (m *memRecorder) Record(_ context.Context, ev analytics.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return nil
}

func (m *memRecorder) snapshot() []analytics.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]analytics.Event(nil), m.events...)
}

func testCards() []cards.Card {
	return cards.Reindex([]cards.Card{
		{Title: "Variables and Types", Tags: "basics,syntax", Href: "01.html"},
		{Title: "Concurrency Patterns", Tags: "advanced,goroutines", Href: "02.html"},
	})
}

func dial(t *testing.T, h *Handler) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	ready := read(t, conn)
	if ready.Type != TypeReady || ready.SessionID == "" {
		t.Fatalf("first message = %+v, want ready with session id", ready)
	}
	return conn
}

func read(t *testing.T, conn *websocket.Conn) response {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var resp response
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	return resp
}

func write(t *testing.T, conn *websocket.Conn, typ, content string) {
	t.Helper()
	if err := conn.WriteJSON(request{Type: typ, Content: content}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
}

func TestLiveQueryIsDebounced(t *testing.T) {
	rec := &memRecorder{}
	conn := dial(t, NewHandler(Config{Debounce: 50 * time.Millisecond}, testCards(), rec))

	for _, q := range []string{"c", "co", "con", "conc"} {
		write(t, conn, TypeQuery, q)
	}

	resp := read(t, conn)
	if resp.Type != TypeResults || resp.Result == nil {
		t.Fatalf("got %+v, want results", resp)
	}
	if resp.Result.Query != "conc" {
		t.Errorf("query = %q, want only the settled query", resp.Result.Query)
	}
	if !reflect.DeepEqual(resp.Result.VisibleIndices, []int{1}) {
		t.Errorf("visible = %v, want [1]", resp.Result.VisibleIndices)
	}
	if resp.Result.Results[0].Href != "02.html" {
		t.Errorf("href = %q", resp.Result.Results[0].Href)
	}

	// The next message must be the sidebar toggle, not a stale result.
	write(t, conn, TypeToggleSidebar, "")
	resp = read(t, conn)
	if resp.Type != TypeSidebar || resp.Open == nil || !*resp.Open {
		t.Fatalf("got %+v, want sidebar open", resp)
	}

	evs := rec.snapshot()
	if len(evs) != 1 {
		t.Fatalf("recorded %d events, want 1", len(evs))
	}
	if evs[0].Query != "conc" || evs[0].Results != 1 || evs[0].Total != 2 || evs[0].Source != analytics.SourceLive {
		t.Errorf("unexpected event: %+v", evs[0])
	}
}

func TestLiveEscapeClosesSidebarAndClearsSearch(t *testing.T) {
	conn := dial(t, NewHandler(Config{Debounce: 10 * time.Millisecond}, testCards(), nil))

	write(t, conn, TypeToggleSidebar, "")
	if resp := read(t, conn); resp.Type != TypeSidebar || !*resp.Open {
		t.Fatalf("got %+v, want sidebar open", resp)
	}

	write(t, conn, TypeQuery, "zzzz")
	resp := read(t, conn)
	if resp.Type != TypeResults || !resp.Result.NoResults {
		t.Fatalf("got %+v, want no results", resp)
	}

	write(t, conn, TypeEscape, "")
	resp = read(t, conn)
	if resp.Type != TypeSidebar || *resp.Open {
		t.Fatalf("got %+v, want sidebar closed", resp)
	}
	resp = read(t, conn)
	if resp.Type != TypeResults || resp.Result.Query != "" || resp.Result.VisibleCount != 2 {
		t.Fatalf("got %+v, want cleared results", resp)
	}
	if resp.Result.Stats != "" {
		t.Errorf("stats = %q, want empty when all cards are shown", resp.Result.Stats)
	}
}

func TestLiveClearRunsImmediately(t *testing.T) {
	conn := dial(t, NewHandler(Config{Debounce: time.Hour}, testCards(), nil))

	write(t, conn, TypeQuery, "vari")
	write(t, conn, TypeClear, "")

	resp := read(t, conn)
	if resp.Type != TypeResults || resp.Result.Query != "" {
		t.Fatalf("got %+v, want cleared results without waiting", resp)
	}
}

func TestLiveToggleIsThrottled(t *testing.T) {
	conn := dial(t, NewHandler(Config{ToggleWindow: time.Hour}, testCards(), nil))

	write(t, conn, TypeToggleSidebar, "")
	write(t, conn, TypeToggleSidebar, "")
	write(t, conn, "bogus", "")

	if resp := read(t, conn); resp.Type != TypeSidebar || !*resp.Open {
		t.Fatalf("got %+v, want sidebar open", resp)
	}
	if resp := read(t, conn); resp.Type != TypeError {
		t.Fatalf("got %+v, want the second toggle dropped", resp)
	}
}

func TestLiveRejectsBadMessages(t *testing.T) {
	conn := dial(t, NewHandler(Config{}, testCards(), nil))

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	resp := read(t, conn)
	if resp.Type != TypeError || resp.Content != "invalid message format" {
		t.Errorf("got %+v, want invalid format error", resp)
	}

	write(t, conn, "reload", "")
	resp = read(t, conn)
	if resp.Type != TypeError || !strings.Contains(resp.Content, "reload") {
		t.Errorf("got %+v, want unknown type error", resp)
	}
}

func TestLiveEscapeDuringSearchLeavesClearedResults(t *testing.T) {
	conn := dial(t, NewHandler(Config{Debounce: time.Millisecond}, testCards(), nil))

	for i := 0; i < 20; i++ {
		write(t, conn, TypeQuery, "conc")
		time.Sleep(time.Duration(i) * 100 * time.Microsecond)
		write(t, conn, TypeEscape, "")
		write(t, conn, "marker", "")

		var last *response
		for {
			resp := read(t, conn)
			if resp.Type == TypeError {
				break
			}
			if resp.Type == TypeResults {
				last = &resp
			}
		}
		if last != nil && last.Result.Query != "" {
			t.Fatalf("iteration %d: last result query = %q after escape, want cleared", i, last.Result.Query)
		}
	}
}

func TestLiveOriginCheck(t *testing.T) {
	tests := []struct {
		name     string
		allowAll bool
		origin   string
		want     bool
	}{
		{"no origin", false, "", true},
		{"localhost", false, "http://localhost:3000", true},
		{"loopback", false, "http://127.0.0.1:8080", true},
		{"foreign", false, "http://evil.example", false},
		{"foreign allowed", true, "http://evil.example", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(NewHandler(Config{AllowAll: tt.allowAll}, testCards(), nil))
			defer srv.Close()

			header := http.Header{}
			if tt.origin != "" {
				header.Set("Origin", tt.origin)
			}
			url := "ws" + strings.TrimPrefix(srv.URL, "http")
			conn, resp, err := websocket.DefaultDialer.Dial(url, header)
			if tt.want {
				if err != nil {
					t.Fatalf("Dial: %v", err)
				}
				conn.Close()
				return
			}
			if !errors.Is(err, websocket.ErrBadHandshake) {
				t.Fatalf("Dial error = %v, want bad handshake", err)
			}
			if resp == nil || resp.StatusCode != http.StatusForbidden {
				t.Errorf("response = %v, want 403", resp)
			}
		})
	}
}

func TestLiveOriginSameHost(t *testing.T) {
	srv := httptest.NewServer(NewHandler(Config{}, testCards(), nil))
	defer srv.Close()

	header := http.Header{
		"Host":   []string{"docs.example"},
		"Origin": []string{"https://docs.example"},
	}
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), header)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	conn.Close()
}
