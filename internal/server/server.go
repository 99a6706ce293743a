// Package server exposes the round engine over websockets. Each connection
// gets its own engine; frames are JSON.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lox/blackjack/internal/assets"
	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/randutil"
)

// Config holds server settings
type Config struct {
	Addr        string
	IdleTimeout time.Duration
	MaxSessions int
}

// DefaultConfig returns the default server settings
func DefaultConfig() Config {
	return Config{
		Addr:        ":8080",
		IdleTimeout: 5 * time.Minute,
		MaxSessions: 64,
	}
}

// Option configures a Server
type Option func(*Server)

// WithClock sets the clock used for idle timeouts.
func WithClock(clock quartz.Clock) Option {
	return func(s *Server) {
		s.clock = clock
	}
}

// WithSeed fixes the seed stream used when a client starts a round without a seed.
func WithSeed(seed int64) Option {
	return func(s *Server) {
		s.seeds = randutil.New(seed)
	}
}

// WithEngineOptions passes options to every session engine.
func WithEngineOptions(opts ...blackjack.EngineOption) Option {
	return func(s *Server) {
		s.engineOpts = append(s.engineOpts, opts...)
	}
}

// Server represents the WebSocket server
type Server struct {
	cfg        Config
	upgrader   websocket.Upgrader
	logger     *log.Logger
	clock      quartz.Clock
	engineOpts []blackjack.EngineOption

	seedMu sync.Mutex
	seeds  *rand.Rand

	mu       sync.RWMutex
	sessions map[string]*Session
	reserved int
}

// NewServer creates a new WebSocket server
func NewServer(cfg Config, logger *log.Logger, opts ...Option) *Server {
	s := &Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:   logger.WithPrefix("server"),
		clock:    quartz.NewReal(),
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.seeds == nil {
		s.seeds = randutil.New(randutil.NewSeed())
	}
	return s
}

// Handler returns the HTTP routes
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", s.handleHealth)
	r.Get("/assets/manifest", s.handleManifest)
	r.Get("/ws", s.handleWebSocket)

	return r
}

// ListenAndServe serves until ctx is cancelled, then closes every session.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting WebSocket server", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	s.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Stop closes all sessions
func (s *Server) Stop() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sess := range s.sessions {
		sess.Close("server shutting down")
	}
}

// SessionCount returns the number of open sessions
func (s *Server) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// nextSeed derives a round seed for a start frame without one.
func (s *Server) nextSeed() int64 {
	s.seedMu.Lock()
	defer s.seedMu.Unlock()
	return randutil.Derive(s.seeds)
}

// reserve claims a session slot before the upgrade so concurrent handshakes
// cannot exceed MaxSessions.
func (s *Server) reserve() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg.MaxSessions > 0 && len(s.sessions)+s.reserved >= s.cfg.MaxSessions {
		return false
	}
	s.reserved++
	return true
}

func (s *Server) register(sess *Session) {
	s.mu.Lock()
	s.reserved--
	s.sessions[sess.ID()] = sess
	total := len(s.sessions)
	s.mu.Unlock()
	s.logger.Info("Client connected", "session", sess.ID(), "total", total)
}

func (s *Server) unregister(sess *Session) {
	s.mu.Lock()
	delete(s.sessions, sess.ID())
	total := len(s.sessions)
	s.mu.Unlock()
	s.logger.Info("Client disconnected", "session", sess.ID(), "total", total)
}

func (s *Server) release() {
	s.mu.Lock()
	s.reserved--
	s.mu.Unlock()
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.reserve() {
		s.logger.Warn("Rejecting connection, session limit reached", "max_sessions", s.cfg.MaxSessions)
		http.Error(w, "too many sessions", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.release()
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	id := uuid.NewString()
	engine := blackjack.NewEngine(append([]blackjack.EngineOption{blackjack.WithLogger(s.logger)}, s.engineOpts...)...)
	sess := newSession(id, conn, engine, s.nextSeed, s.clock, s.cfg.IdleTimeout, s.logger)

	s.register(sess)
	sess.Start()

	go func() {
		<-sess.Done()
		s.unregister(sess)
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// handleManifest lists every card image the client needs
func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(assets.Names()); err != nil {
		s.logger.Error("Failed to write manifest", "error", err)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("Request", "method", r.Method, "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r)
	})
}
