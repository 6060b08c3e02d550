// Package server exposes pack management and dealt game sessions over HTTP
// and WebSocket.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/lox/partycards/internal/packs"
)

// Server serves the pack API, the game endpoints and static pack files
type Server struct {
	addr        string
	manager     *packs.Manager
	sources     []packs.Source
	defaults    GameDefaults
	staticDir   string
	idleTimeout time.Duration
	clock       quartz.Clock
	upgrader    websocket.Upgrader
	logger      *log.Logger

	connections map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	runOnce     sync.Once
}

// Option configures a Server
type Option func(*Server)

// WithSources sets the sources that can be downloaded by name
func WithSources(sources []packs.Source) Option {
	return func(s *Server) { s.sources = sources }
}

// WithGameDefaults sets the parameters used when a request leaves them out
func WithGameDefaults(d GameDefaults) Option {
	return func(s *Server) { s.defaults = d }
}

// WithStaticDir serves files from dir for paths no route matches
func WithStaticDir(dir string) Option {
	return func(s *Server) { s.staticDir = dir }
}

// WithIdleTimeout closes WebSocket sessions that send nothing for d.
// Zero disables the timeout.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Server) { s.idleTimeout = d }
}

// WithClock sets the clock driving idle timeouts
func WithClock(c quartz.Clock) Option {
	return func(s *Server) { s.clock = c }
}

// NewServer creates a new server
func NewServer(addr string, manager *packs.Manager, logger *log.Logger, opts ...Option) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		addr:     addr,
		manager:  manager,
		sources:  packs.DefaultSources,
		defaults: GameDefaults{CardsPerPlayer: 7, Players: 1},
		clock:    quartz.NewReal(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Sessions carry no credentials
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:      logger.WithPrefix("server"),
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		ctx:         ctx,
		cancel:      cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the router. The connection registry starts with it.
func (s *Server) Handler() http.Handler {
	s.runOnce.Do(func() { go s.run() })

	r := chi.NewRouter()
	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)

	r.Route("/packs", func(r chi.Router) {
		r.Get("/", s.handleListPacks)
		r.Get("/{name}", s.handleGetCollection)
		r.Delete("/{name}", s.handleDeleteCollection)
		r.Post("/{name}/download", s.handleDownload)
		r.Get("/{name}/{pack}", s.handleGetPack)
	})

	r.Get("/game", s.handleDeal)
	r.Get("/game/ws", s.handleWebSocket)

	if s.staticDir != "" {
		r.NotFound(http.FileServer(http.Dir(s.staticDir)).ServeHTTP)
	}
	return r
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		_ = s.Stop()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.Stop()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("Server stopped")
	return nil
}

// Stop closes every open session
func (s *Server) Stop() error {
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	return nil
}

// ConnectionCount returns the number of open sessions
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}

// run handles connection lifecycle
func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client connected", "id", conn.ID(), "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.connections[conn]; ok {
				delete(s.connections, conn)
				_ = conn.Close()
			}
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client disconnected", "id", conn.ID(), "total", total)

		case <-s.ctx.Done():
			return
		}
	}
}

// handleWebSocket deals a session for the query parameters and streams it
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	params, err := parseGameParams(r.URL.Query(), s.defaults)
	if err != nil {
		writeError(w, err)
		return
	}
	session, err := newSession(s.manager, params, s.clock)
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, session, params, s.logger, s.clock, s.idleTimeout)
	select {
	case s.register <- client:
	case <-s.ctx.Done():
		_ = client.Close()
		return
	}
	client.Start()

	go func() {
		<-client.Done()
		select {
		case s.unregister <- client:
		case <-s.ctx.Done():
		}
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}
