// Package server exposes the split service over a JSON HTTP API.
package server

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/receiptsplit/receiptsplit/internal/service"
)

// Server wires the split service into HTTP routes.
type Server struct {
	svc *service.SplitService
}

// New creates a Server over the given service.
func New(svc *service.SplitService) *Server {
	return &Server{svc: svc}
}

// Router builds the gin engine with logging, metrics, and CORS applied.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), metricsMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/splits", s.listSplits)
		api.POST("/splits", s.createSplit)
		api.GET("/splits/:id", s.getSplit)
		api.PUT("/splits/:id", s.updateSplit)
		api.DELETE("/splits/:id", s.deleteSplit)
		api.GET("/splits/:id/breakdown", s.getBreakdown)
		api.GET("/splits/:id/share", s.getShareableText)
		api.GET("/spending/summary", s.getSpending)
		api.GET("/people/recent", s.getRecentPeople)
		api.GET("/money/validate", s.validateMoneyInput)
	}

	return r
}

// requestLogger logs every completed request with its duration.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		slog.Info("Request completed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
