package rest

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// RequestIDHeader carries the request id in and out
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// RequestID tags every request with an id, reusing an incoming one
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// Logger logs each request once it completes
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		slog.InfoContext(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetString(requestIDKey))
	}
}

// errorBody is the JSON shape of every failed request
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := code.HTTPStatus()
	if status >= 500 {
		slog.ErrorContext(c.Request.Context(), "request failed",
			"path", c.FullPath(),
			"request_id", c.GetString(requestIDKey),
			"error", err.Error())
	}
	c.AbortWithStatusJSON(status, errorBody{
		Code:    code.String(),
		Message: errors.GetMessage(err),
	})
}
