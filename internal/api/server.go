package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pedrohwah/shadowsofavernus/internal/config"
)

// Server runs the HTTP listener hosting the companion API.
type Server struct {
	cfg     config.HTTPConfig
	handler http.Handler
	logger  *zap.Logger

	mu       sync.Mutex
	srv      *http.Server
	listener net.Listener
	running  bool
}

// NewServer creates an HTTP server for the given handler.
//
// Precondition: handler and logger must be non-nil.
// Postcondition: Returns a Server ready to be started with ListenAndServe.
func NewServer(cfg config.HTTPConfig, handler http.Handler, logger *zap.Logger) *Server {
	return &Server{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
	}
}

// ListenAndServe starts the listener and serves requests until Stop is
// called. This method blocks.
//
// Precondition: The server must not already be running.
func (s *Server) ListenAndServe() error {
	start := time.Now()

	listener, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr(), err)
	}

	srv := &http.Server{
		Handler: s.handler,
		// Only the header read gets a whole-request timeout. The
		// websocket feed holds connections open indefinitely, so body
		// and write deadlines are managed per message instead.
		ReadHeaderTimeout: s.cfg.ReadTimeout,
	}

	s.mu.Lock()
	s.srv = srv
	s.listener = listener
	s.running = true
	s.mu.Unlock()

	s.logger.Info("http server listening",
		zap.String("addr", listener.Addr().String()),
		zap.Duration("startup", time.Since(start)),
	)

	if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving http: %w", err)
	}
	return nil
}

// Stop gracefully shuts the server down, bounded by the configured
// shutdown timeout. In-flight requests get to finish; connections still
// open after the timeout are closed hard.
func (s *Server) Stop() {
	s.mu.Lock()
	srv := s.srv
	running := s.running
	s.running = false
	s.mu.Unlock()

	if !running || srv == nil {
		return
	}

	ctx := context.Background()
	if s.cfg.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
		defer cancel()
	}

	if err := srv.Shutdown(ctx); err != nil {
		s.logger.Warn("http shutdown incomplete, closing", zap.Error(err))
		_ = srv.Close()
	}
	s.logger.Info("http server stopped")
}

// IsRunning reports whether the server is currently accepting requests.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Addr returns the actual listening address, or empty string if not yet
// listening.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}
