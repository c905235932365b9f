package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/radar/internal/shared"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler is an [http.Handler] that owns a set of routes.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router registers handlers behind a middleware stack.
type Router interface {
	Use(middleware ...Middleware)
	Handle(method, path string, handler http.Handler)
	Handler(handler Handler)
	ServeHTTP(w http.ResponseWriter, r *http.Request)
}

// Logging logs every request at debug level.
func Logging(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("callback request", "method", r.Method, "path", r.URL.Path, "elapsed", time.Since(start))
		})
	}
}

// Callback is a one-shot listener for the OAuth redirect.
type Callback struct {
	handler *OAuthHandler
	router  *BasicRouter
	logger  *log.Logger
	server  *http.Server
	ln      net.Listener
}

// NewCallback binds addr and routes /callback to handler. The listener is open when it returns,
// so the browser can be sent to the authorization page immediately.
func NewCallback(addr string, handler *OAuthHandler, logger *log.Logger) (*Callback, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	router := NewBasicRouter()
	router.Use(Logging(logger))
	router.Handler(handler)

	return &Callback{
		handler: handler,
		router:  router,
		logger:  logger,
		server:  &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second},
		ln:      ln,
	}, nil
}

// Addr returns the bound address.
func (c *Callback) Addr() string {
	return c.ln.Addr().String()
}

// Wait serves until the handler publishes a result or ctx ends, then shuts the listener down.
func (c *Callback) Wait(ctx context.Context) (*OAuthResult, error) {
	serveErr := make(chan error, 1)
	go func() {
		if err := c.server.Serve(c.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.server.Shutdown(shutdownCtx); err != nil {
			c.logger.Warn("error shutting down callback listener", "error", err)
		}
	}()

	select {
	case result := <-c.handler.Result():
		return &result, nil
	case err := <-serveErr:
		return nil, fmt.Errorf("callback listener failed: %w", err)
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: no authorization callback received", shared.ErrTimeout)
		}
		return nil, ctx.Err()
	}
}
