// package server contains middleware & handlers for the progress tracker web service
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/smarterz/internal/repositories"
	"github.com/desertthunder/smarterz/internal/server/dashboard"
	"github.com/desertthunder/smarterz/internal/services"
	"github.com/desertthunder/smarterz/internal/shared"
	"github.com/desertthunder/smarterz/internal/tasks"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers that own their routes.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Options contains the dependencies of a [Server].
type Options struct {
	Addr       string
	Upstream   services.Upstream
	Aggregator *tasks.Aggregator
	Store      repositories.ProgressStore
	Logger     *log.Logger
	PlayerURL  string
}

// Server wires the API and dashboard onto a [BasicRouter].
type Server struct {
	addr   string
	router *BasicRouter
	logger *log.Logger
}

// New builds a Server with request ID, logging, CORS and metrics middleware installed.
func New(opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Aggregator == nil {
		opts.Aggregator = tasks.NewAggregator(opts.Upstream, opts.Logger)
	}

	page, err := dashboard.New(opts.PlayerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to render dashboard: %w", err)
	}

	router := NewBasicRouter()
	router.Use(RequestID(), Logging(opts.Logger), CORS(), Metrics())

	api := NewAPI(opts.Upstream, opts.Aggregator, opts.Store, opts.Logger)
	api.Register(router)
	router.Handle(http.MethodGet, "/metrics", MetricsHandler())
	router.Handler(page)

	return &Server{addr: opts.Addr, router: router, logger: opts.Logger}, nil
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	}
}
