package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/justsurfingit/job-posts/internal/logging"
)

// Server wraps the API handler with an HTTP listener
type Server struct {
	logger *logging.Logger

	srv     *http.Server
	started atomic.Bool

	stopOnce sync.Once
	stopped  chan struct{} // closed once Shutdown has drained connections
}

// New constructs a server listening on host:port
func New(log *logging.Logger, host, port string, handler http.Handler) *Server {
	return &Server{
		logger: log,
		srv: &http.Server{
			Addr:              net.JoinHostPort(host, port),
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		stopped: make(chan struct{}),
	}
}

func (s *Server) Addr() string {
	return s.srv.Addr
}

// Run starts the HTTP server and blocks until shutdown. After Shutdown is
// called, Run returns only once in-flight requests have finished or the
// shutdown deadline has passed.
func (s *Server) Run() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.serve(ln)
}

func (s *Server) serve(ln net.Listener) error {
	if !s.started.CompareAndSwap(false, true) {
		_ = ln.Close()
		return nil
	}

	s.logger.Info("API server listening", "addr", ln.Addr().String())

	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-s.stopped
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	defer s.stopOnce.Do(func() { close(s.stopped) })

	s.logger.Info("shutdown requested for API server")
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Warn("API server shutdown with error", "err", err)
		return err
	}

	s.logger.Info("API server shutdown complete")
	return nil
}
