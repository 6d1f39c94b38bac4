package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/farmlabs/farming-engine/internal/config"
)

type Server struct {
	httpServer *http.Server
	handlers   *Handlers
}

func New(cfg *config.ServerConfig, service FarmingService) *Server {
	h := NewHandlers(service)

	r := chi.NewRouter()
	r.Use(tracingMiddleware, metricsMiddleware)
	h.routes(r, cfg.APIToken)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      r,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		handlers: h,
	}
}

// Start blocks until the server stops. A graceful shutdown returns nil.
func (s *Server) Start() error {
	log.Info().Msgf("Starting API server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
