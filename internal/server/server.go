package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/docsearch/internal/analytics"
	"github.com/ziadkadry99/docsearch/internal/cards"
	"github.com/ziadkadry99/docsearch/internal/live"
)

// Config holds server configuration.
type Config struct {
	Port     int
	SiteDir  string        // directory served as static files; empty disables
	AllowAll bool          // allow all CORS origins (dev mode)
	Debounce time.Duration // settling interval for live search sessions
}

// Server serves the card search API, the live search socket and the static
// documentation site.
type Server struct {
	cfg        Config
	snapshot   []cards.Card
	store      *analytics.Store
	recorder   analytics.Recorder
	router     chi.Router
	httpServer *http.Server
}

// New creates a server over snapshot. store may be nil, in which case
// searches are not recorded and analytics routes are not mounted.
func New(cfg Config, snapshot []cards.Card, store *analytics.Store) *Server {
	s := &Server{
		cfg:      cfg,
		snapshot: snapshot,
		store:    store,
		recorder: analytics.Nop{},
	}
	if store != nil {
		s.recorder = store
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// The websocket handler hijacks the connection, so it stays outside the
	// request timeout.
	r.Method(http.MethodGet, "/ws/search", live.NewHandler(live.Config{
		Debounce:     s.cfg.Debounce,
		ToggleWindow: live.DefaultToggleWindow,
		AllowAll:     s.cfg.AllowAll,
	}, s.snapshot, s.recorder))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Get("/api/cards", s.handleCards)
		r.Get("/api/search", s.handleSearch)
		if s.store != nil {
			analytics.RegisterRoutes(r, s.store)
		}
	})

	if s.cfg.SiteDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.cfg.SiteDir)))
	}

	return r
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	snapshot := s.snapshot
	if snapshot == nil {
		snapshot = []cards.Card{}
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	res := cards.Filter(s.snapshot, r.URL.Query().Get("q"))

	if res.Query != "" {
		err := s.recorder.Record(r.Context(), analytics.Event{
			Query:   res.Query,
			Results: res.VisibleCount,
			Total:   res.Total,
			Source:  analytics.SourceHTTP,
		})
		if err != nil {
			slog.Warn("server: recording search", "query", res.Query, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, cards.NewResultView(s.snapshot, res))
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// ServerConfig returns the server configuration.
func (s *Server) ServerConfig() Config { return s.cfg }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	slog.Info("docsearch server listening", "addr", addr, "cards", len(s.snapshot))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
