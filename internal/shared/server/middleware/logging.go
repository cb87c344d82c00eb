package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resume-screener/internal/shared/telemetry"
)

// Logging emits a structured log per request. Handlers can enrich the line by
// setting sessionId, fileCount, upstreamStatus or structured on the context.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		for ctxKey, logKey := range optionalLogFields {
			if v, ok := c.Get(ctxKey); ok {
				fields[logKey] = v
			}
		}

		telemetry.Info("request.complete", fields)
	}
}

var optionalLogFields = map[string]string{
	"sessionId":      "session_id",
	"fileCount":      "file_count",
	"upstreamStatus": "upstream_status",
	"structured":     "structured",
}
