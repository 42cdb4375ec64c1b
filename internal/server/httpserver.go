package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"
)

// Timeouts bounds the phases of an HTTP exchange. Zero values disable the
// corresponding timeout.
type Timeouts struct {
	Read     time.Duration
	Write    time.Duration
	Idle     time.Duration
	Shutdown time.Duration
}

// DefaultTimeouts suit a small badge service behind a cache.
var DefaultTimeouts = Timeouts{
	Read:     10 * time.Second,
	Write:    10 * time.Second,
	Idle:     60 * time.Second,
	Shutdown: 5 * time.Second,
}

// HTTPServer wraps http.Server with start and graceful shutdown helpers.
type HTTPServer struct {
	server   *http.Server
	shutdown time.Duration
}

// NewHTTPServer creates a server listening on addr.
func NewHTTPServer(addr string, handler http.Handler, t Timeouts) *HTTPServer {
	return &HTTPServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadTimeout:       t.Read,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      t.Write,
			IdleTimeout:       t.Idle,
		},
		shutdown: t.Shutdown,
	}
}

// Addr returns the configured listen address.
func (s *HTTPServer) Addr() string { return s.server.Addr }

// Serve accepts connections on l until the server is shut down.
func (s *HTTPServer) Serve(l net.Listener) error {
	if err := s.server.Serve(l); !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Run listens on the configured address and serves until ctx is done, then
// shuts down gracefully within the shutdown timeout.
func (s *HTTPServer) Run(ctx context.Context) error {
	l, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}

	errc := make(chan error, 1)
	go func() { errc <- s.Serve(l) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx := context.Background()
	if s.shutdown > 0 {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(shutdownCtx, s.shutdown)
		defer cancel()
	}
	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}

// Shutdown gracefully stops the server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
