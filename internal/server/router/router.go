package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/signcare/internal/metrics"
	"github.com/mamadbah2/signcare/internal/server/handlers"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// New wires the Gin engine with required routes and middlewares.
func New(expiryHandler *handlers.ExpiryHandler, calendarHandler *handlers.CalendarHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(metrics.GinMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := r.Group("/api/v1")
	{
		exp := v1.Group("/expiry")
		exp.GET("", expiryHandler.List)
		exp.GET("/summary", expiryHandler.Summary)
		exp.GET("/areas", expiryHandler.Areas)
		exp.GET("/digest", expiryHandler.Digest)
		exp.GET("/digest/latest", expiryHandler.LatestDigest)
		exp.POST("/compute", expiryHandler.Compute)

		cal := v1.Group("/calendar")
		cal.GET("/week", calendarHandler.Week)
		cal.GET("/day", calendarHandler.Day)

		v1.GET("/maintenance/transitions", calendarHandler.Transitions)
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
