package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/langexch/langexch/internal/config"
	"github.com/langexch/langexch/internal/web/handlers"
	"github.com/langexch/langexch/internal/web/middleware"
)

const shutdownTimeout = 30 * time.Second

// MetricsSource observes requests and serves the exposition endpoint
type MetricsSource interface {
	middleware.RequestObserver
	Handler() http.Handler
}

// Server represents the web server
type Server struct {
	cfg      config.ServerConfig
	router   *chi.Mux
	handlers *handlers.Handlers
	metrics  MetricsSource
}

// NewServer creates a new web server. metrics may be nil.
func NewServer(cfg config.ServerConfig, h *handlers.Handlers, metrics MetricsSource) *Server {
	s := &Server{
		cfg:      cfg,
		router:   chi.NewRouter(),
		handlers: h,
		metrics:  metrics,
	}

	s.setupRoutes()
	return s
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	r := s.router
	h := s.handlers

	r.Use(chimiddleware.RequestID)
	// AllowSubnet must come BEFORE RealIP so we check the actual connection source
	r.Use(middleware.AllowSubnet(s.cfg.AllowedNet()))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger)
	if s.metrics != nil {
		r.Use(middleware.Metrics(s.metrics))
	}
	r.Use(chimiddleware.Recoverer)

	requestTimeout := s.cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 60 * time.Second
	}

	r.Route("/languages", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(requestTimeout))
		r.Post("/", h.CreateLanguage)
		r.Get("/", h.ListLanguages)
		r.Get("/{id}", h.GetLanguage)
		r.Put("/{id}", h.UpdateLanguage)
		r.Delete("/{id}", h.DeleteLanguage)
	})

	r.Get("/healthz", h.Health)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}
}

// Start starts the HTTP server and blocks until ctx is cancelled or the listener fails
func (s *Server) Start(ctx context.Context) error {
	addr := s.cfg.Addr()

	server := &http.Server{
		Addr:        addr,
		Handler:     s.router,
		ReadTimeout: s.cfg.ReadTimeout,
		// Chi middleware timeout protects regular requests
		WriteTimeout: 0,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}
