// internal/middleware/logging.go
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const requestIDHeader = "X-Request-ID"

// RequestID propagates the caller's X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}

		c.Set("request_id", requestID)
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		rawQuery := c.Request.URL.RawQuery

		c.Next()

		if path == "/health" {
			return
		}

		entry := logrus.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       path,
			"query":      rawQuery,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).Milliseconds(),
			"ip":         c.ClientIP(),
			"user_agent": c.Request.UserAgent(),
			"request_id": c.GetString("request_id"),
		})

		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("Request processed")
		case status >= 400:
			entry.Warn("Request processed")
		default:
			entry.Info("Request processed")
		}
	}
}
