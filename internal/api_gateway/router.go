package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/payments-engine/internal/api_gateway/handler"
	"github.com/payments-engine/internal/api_gateway/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type routeHandlers struct {
	accounts *handler.AccountHandler
	events   *handler.EventHandler
	batches  *handler.BatchHandler
}

// setupRouter configures API routes and middleware for the application.
// idempotency may be nil, in which case unsafe requests are never replayed.
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	h routeHandlers,
	metrics *middleware.HTTPMetrics,
	gatherer prometheus.Gatherer,
	idempotency gin.HandlerFunc,
) {
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(metrics.Middleware())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	if idempotency != nil {
		v1.Use(idempotency)
	}
	{
		accounts := v1.Group("/accounts")
		{
			accounts.GET("", h.accounts.List)
			accounts.GET("/:client", h.accounts.GetByClient)
		}

		v1.POST("/events", h.events.Submit)

		batches := v1.Group("/batches")
		{
			batches.POST("", h.batches.Create)
			batches.GET("", h.batches.List)
			batches.GET("/:id", h.batches.GetByID)
		}
	}

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
