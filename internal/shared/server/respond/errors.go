package respond

import (
	"github.com/gin-gonic/gin"

	"resume-screener/internal/shared/telemetry"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// MessageResponse is the flat error shape the relay endpoint speaks.
type MessageResponse struct {
	Error string `json:"error"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string, details any) {
	logError(c, status, code, message)
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// Message sends a flat {"error": message} response.
func Message(c *gin.Context, status int, message string) {
	logError(c, status, "", message)
	c.AbortWithStatusJSON(status, MessageResponse{Error: message})
}

func logError(c *gin.Context, status int, code, message string) {
	fields := map[string]any{
		"status":     status,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if code != "" {
		fields["code"] = code
	}
	if sessionID := c.GetString("sessionId"); sessionID != "" {
		fields["session_id"] = sessionID
	}
	telemetry.Error("http.error", fields)
}
