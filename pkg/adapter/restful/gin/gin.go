// Package gin wraps the gin-gonic engine construction, so the config
// package can assemble an engine without importing gin directly.
package gin

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/momeni/fleetflow/pkg/core/log"
)

type HandlerFunc = gin.HandlerFunc
type Engine = gin.Engine

// MetricsPath is where the prometheus collectors are served.
const MetricsPath = "/metrics"

// RequestIDHeader carries the request identifier in both directions.
const RequestIDHeader = "X-Request-ID"

// New creates an engine whose handler contexts fall back to their
// request contexts, so the attributes which are attached by
// log.WithAttrs reach the use cases.
func New(middlewares ...HandlerFunc) *Engine {
	e := gin.New()
	e.ContextWithFallback = true
	e.Use(middlewares...)
	return e
}

// Logger logs each request, except the scrapes of MetricsPath.
func Logger() HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{MetricsPath},
	})
}

func Recovery() HandlerFunc {
	return gin.Recovery()
}

// RequestID reuses the UUID of the RequestIDHeader header, or creates
// one, and echoes it in the response. The identifier is attached to
// the request context, so every record which is logged while serving
// that request carries it.
func RequestID() HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(log.WithAttrs(
			c.Request.Context(), slog.String("request_id", id),
		))
		c.Next()
	}
}
