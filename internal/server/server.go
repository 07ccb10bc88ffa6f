package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, panic recovery, rate limiting, etc.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers in the catalogue API.
// Implementations own a group of endpoints and report their mux patterns.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the method-qualified patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
// Implementations register handlers, apply middleware, and configure the HTTP server.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// DefaultShutdownTimeout bounds how long in-flight requests get once the server is asked to stop.
const DefaultShutdownTimeout = 5 * time.Second

// Server runs an [http.Server] until its context ends, then shuts it down gracefully.
type Server struct {
	httpServer      *http.Server
	logger          *log.Logger
	shutdownTimeout time.Duration
}

// New creates a Server listening on addr.
func New(addr string, handler http.Handler, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger:          logger,
		shutdownTimeout: DefaultShutdownTimeout,
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.httpServer.Addr }

// ListenAndServe listens on the configured address and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done or the server fails.
//
// A cancelled context is a clean stop and returns nil.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Infof("serving catalogue API at %v", ln.Addr())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
		close(serverErrors)
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("error shutting down server", "error", err)
		return err
	}

	s.logger.Info("server stopped")
	return nil
}
