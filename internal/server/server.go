package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/avelex/tradehook/internal/server/handler"
	"github.com/avelex/tradehook/internal/server/middleware"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port            int
	ForwardedHeader string
}

// Handlers aggregates the HTTP handlers the server registers.
type Handlers struct {
	Health  *handler.HealthHandler
	Webhook *handler.WebhookHandler
}

// Server is the HTTP trigger surface for the trading webhook.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates a Server with all routes registered. The allow-list
// authorizer gates every route; request logging wraps the whole chain so
// denied requests are logged too.
func NewServer(cfg Config, handlers Handlers, authorizer middleware.Authorizer, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	// TradingView delivers either query-parameter GETs or JSON-body POSTs.
	mux.HandleFunc("POST /webhook", handlers.Webhook.HandleSignal)
	mux.HandleFunc("GET /webhook", handlers.Webhook.HandleSignal)

	mux.HandleFunc("GET /api/health", handlers.Health.HealthCheck)

	var h http.Handler = mux
	h = middleware.IPAllowList(authorizer, cfg.ForwardedHeader)(h)
	h = middleware.Logging(logger)(h)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
	}
}

// Start begins listening for HTTP requests. It blocks until the server
// encounters an error or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting",
		slog.String("addr", s.httpServer.Addr),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// to complete within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

// Handler exposes the composed middleware chain, used by end-to-end tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
