// Package server assembles the chi router and the middleware chain.
package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Options configures the server's middleware chain.
type Options struct {
	Port           int
	AllowedOrigins []string
	RateLimiter    *RateLimiter
}

type Server struct {
	Router *chi.Mux
	Port   int
	logger *slog.Logger
}

// New builds the router with the relay's middleware chain applied in order.
func New(opts Options, logger *slog.Logger) *Server {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(logger))
	r.Use(CORSMiddleware(opts.AllowedOrigins))

	if opts.RateLimiter != nil {
		r.Use(RateLimitMiddleware(opts.RateLimiter))
	}

	r.Use(TimeoutMiddleware(30 * time.Second))
	r.Use(middleware.Recoverer)

	// Wrap with OpenTelemetry HTTP instrumentation
	r.Use(func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, "sendform")
	})

	return &Server{
		Router: r,
		Port:   opts.Port,
		logger: logger,
	}
}

// HTTPServer returns an http.Server bound to the configured port, so main
// can drive graceful shutdown.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:    fmt.Sprintf(":%d", s.Port),
		Handler: s.Router,
	}
}
