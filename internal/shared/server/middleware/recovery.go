package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"resume-screener/internal/shared/server/respond"
	"resume-screener/internal/shared/telemetry"
)

// Recovery recovers from panics and returns a flat {"error": ...} 500 response,
// the shape both the relay and its clients understand.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				telemetry.Error("panic", map[string]any{
					"request_id": RequestIDFromContext(c),
					"error":      rec,
					"stack":      string(debug.Stack()),
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
				})
				respond.Message(c, http.StatusInternalServerError, "An internal server error occurred.")
			}
		}()
		c.Next()
	}
}
