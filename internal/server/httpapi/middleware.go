package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/holidaycal/internal/logging"
)

const (
	HeaderRequestID = "X-Request-ID"
	ctxKeyRequestID = "request_id"
	maxRequestIDLen = 128
)

// RequestID propagates the caller's X-Request-ID or assigns a new one, and
// echoes it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		c.Set(ctxKeyRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// AccessLog logs one line per request.
func AccessLog(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
			"request_id", c.GetString(ctxKeyRequestID),
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.Error(c.Request.Context(), "HTTP request", args...)
		case status >= http.StatusBadRequest:
			logger.Warn(c.Request.Context(), "HTTP request", args...)
		default:
			logger.Info(c.Request.Context(), "HTTP request", args...)
		}
	}
}

// Recovery turns handler panics into a 500 response.
func Recovery(logger logging.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, rec any) {
		logger.Error(c.Request.Context(), "Handler panicked", "panic", fmt.Sprint(rec), "request_id", c.GetString(ctxKeyRequestID))
		writeStatus(c, http.StatusInternalServerError, "Internal server error")
	})
}
