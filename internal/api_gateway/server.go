package api_gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/payments-engine/internal/api_gateway/handler"
	"github.com/payments-engine/internal/api_gateway/middleware"
	"github.com/payments-engine/internal/api_gateway/service"
	"github.com/payments-engine/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// Services are the application services exposed over HTTP
type Services struct {
	Accounts service.AccountService
	Events   service.EventService
	Batches  service.BatchService
}

// Server handles HTTP requests and manages the application's lifecycle
type Server struct {
	logger     *slog.Logger // For structured logging
	httpServer *http.Server // Underlying HTTP server
	httpRouter *gin.Engine  // Gin router instance
	cfg        config.ServerConfig
}

// NewServer creates and configures a new HTTP server with the given services.
// A nil cache disables Idempotency-Key handling.
func NewServer(log *slog.Logger, cfg *config.Config, services Services, cache redis.Cmdable, registry *prometheus.Registry) (*Server, error) {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics, err := middleware.NewHTTPMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register HTTP metrics: %w", err)
	}

	var idempotency gin.HandlerFunc
	if cache != nil {
		idempotency = middleware.Idempotency(cache, cfg.Redis.IdempotencyTTL, log)
	}

	httpRouter := gin.New()
	setupRouter(log, httpRouter, routeHandlers{
		accounts: handler.NewAccountHandler(log, services.Accounts),
		events:   handler.NewEventHandler(log, services.Events),
		batches:  handler.NewBatchHandler(log, services.Batches, cfg.Server.MaxBatchBytes),
	}, metrics, registry, idempotency)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		logger:     log,
		httpServer: httpServer,
		httpRouter: httpRouter,
		cfg:        cfg.Server,
	}, nil
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server, waiting at most the configured shutdown timeout
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}
	return nil
}
