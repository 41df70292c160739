// Package web serves the snake game to browsers: an embedded canvas page,
// a small JSON API and a WebSocket endpoint that runs one game per
// connection on the server.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/snake/internal/config"
	"github.com/vovakirdan/snake/internal/storage"
)

//go:embed static
var staticFiles embed.FS

// shutdownTimeout bounds how long Shutdown waits for requests and sessions.
const shutdownTimeout = 10 * time.Second

// Config holds the web server settings.
type Config struct {
	// Addr is the host:port to listen on (e.g., ":8080").
	Addr string

	// Game is the configuration every session plays with.
	Game config.Config

	// Store records finished runs. Nil disables replays.
	Store *storage.Store

	// Logger defaults to a timestamped logger on stderr.
	Logger *log.Logger
}

// Server is the HTTP and WebSocket front end.
type Server struct {
	cfg      Config
	router   chi.Router
	http     *http.Server
	logger   *log.Logger
	upgrader websocket.Upgrader

	// Sessions derive their context from base so Shutdown can end them;
	// hijacked connections are not closed by http.Server.Shutdown.
	base     context.Context
	cancel   context.CancelFunc
	sessions sync.WaitGroup

	mu      sync.Mutex // Guards closing and sessions.Add
	closing bool
}

// NewServer builds the router. Nothing listens until ListenAndServe.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "snake-web",
		})
	}

	base, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:    cfg,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		base:   base,
		cancel: cancel,
	}
	s.router = s.routes()
	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// routes wires the handlers and middleware.
func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	static, _ := fs.Sub(staticFiles, "static")
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, static, "index.html")
	})
	r.Get("/healthz", s.handleHealth)
	r.Get("/ws", s.handleWS)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NoCache)
		r.Get("/config", s.handleConfig)
		r.Get("/replays", s.handleReplays)
		r.Get("/replays/{id}", s.handleReplay)
	})

	return r
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("web: listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting web server", "address", ln.Addr().String())

	errc := make(chan error, 1)
	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		s.cancel()
		return fmt.Errorf("web: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown stops accepting requests, ends live game sessions and waits for
// them to save their journals.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.mu.Lock()
	s.closing = true
	s.mu.Unlock()

	err := s.http.Shutdown(ctx)
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.sessions.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return fmt.Errorf("web: sessions did not finish: %w", ctx.Err())
	}

	if err != nil {
		return fmt.Errorf("web: shutdown: %w", err)
	}
	return nil
}

// trackSession registers a new game session. It reports false once Shutdown
// has started, so no session is added while Shutdown waits.
func (s *Server) trackSession() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.sessions.Add(1)
	return true
}

// requestLogger logs each request with its status and duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok")) //nolint:errcheck
}

// configResponse is what the page needs to size and colour the board.
type configResponse struct {
	Grid   int                `json:"grid"`
	CellPx int                `json:"cellPx"`
	Theme  config.ThemeConfig `json:"theme"`
}

func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, configResponse{
		Grid:   s.cfg.Game.Grid.Count,
		CellPx: s.cfg.Game.Grid.CellPx,
		Theme:  s.cfg.Game.Theme,
	})
}

// replayResponse is the API view of a stored run.
type replayResponse struct {
	ID        string    `json:"id"`
	Frontend  string    `json:"frontend"`
	Player    string    `json:"player"`
	Outcome   string    `json:"outcome"`
	Score     int       `json:"score"`
	Length    int       `json:"length"`
	Ticks     uint64    `json:"ticks"`
	CreatedAt time.Time `json:"createdAt"`
	Journal   any       `json:"journal,omitempty"`
}

func toReplayResponse(e storage.ReplayEntry, withJournal bool) replayResponse {
	resp := replayResponse{
		ID:        e.ID,
		Frontend:  e.Frontend,
		Player:    e.Player,
		Outcome:   e.Outcome,
		Score:     e.Journal.Score,
		Length:    e.Journal.Length,
		Ticks:     e.Journal.Ticks,
		CreatedAt: e.CreatedAt,
	}
	if withJournal {
		resp.Journal = e.Journal
	}
	return resp
}

func (s *Server) handleReplays(w http.ResponseWriter, _ *http.Request) {
	out := []replayResponse{}
	if s.cfg.Store != nil {
		entries, err := s.cfg.Store.RecentReplays(50)
		if err != nil {
			s.logger.Error("list replays", "error", err)
			writeError(w, http.StatusInternalServerError, "cannot list replays")
			return
		}
		for _, e := range entries {
			out = append(out, toReplayResponse(e, false))
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Store == nil {
		writeError(w, http.StatusNotFound, "replays are disabled")
		return
	}

	entry, err := s.cfg.Store.Replay(chi.URLParam(r, "id"))
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "replay not found")
		return
	}
	if err != nil {
		s.logger.Error("load replay", "error", err)
		writeError(w, http.StatusInternalServerError, "cannot load replay")
		return
	}
	writeJSON(w, http.StatusOK, toReplayResponse(*entry, true))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
