package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/tickpulse/internal/middleware"
)

const requestTimeout = 10 * time.Second

// NewRouter builds the Gin engine: global middlewares, swagger, the metrics
// endpoint (when metricsHandler is non-nil) and the /api/v1 query routes.
// Health probes are mounted separately by the app package.
func NewRouter(handler *Handler, metricsHandler http.Handler) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		middleware.RateLimiter(),
	)

	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/top", handler.GetTopK)
		v1.GET("/vwap", handler.GetVWAP)
		v1.GET("/interval", handler.GetInterval)
	}

	return router
}
