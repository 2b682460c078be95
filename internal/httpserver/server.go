package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/PratikDhanave/events-protocol-client/internal/auth"
	"github.com/PratikDhanave/events-protocol-client/internal/config"
	"github.com/PratikDhanave/events-protocol-client/internal/handlers"
	"github.com/PratikDhanave/events-protocol-client/internal/store"
)

// NewRouter wires public endpoints and the authenticated protocol API.
// Public: /health, /ready
// Authenticated: /events, /flows/:flowId
func NewRouter(cfg config.ServerConfig, reg *handlers.Registry, j store.Journal, log zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: confirms the journal is reachable.
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := j.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	// Auth group enforces tenant context via X-API-Key when keys are configured.
	authGroup := r.Group("/")
	authGroup.Use(auth.APIKeyMiddleware(cfg.APIKeys))

	handlers.RegisterEventRoutes(authGroup, reg, j, log)
	handlers.RegisterFlowRoutes(authGroup, j)

	return r
}
