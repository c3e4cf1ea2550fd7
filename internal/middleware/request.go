package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = "requestID"
	LoggerKey       = "logger"
)

// RequestID reuses the caller's X-Request-ID or generates one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// Logger attaches a request-scoped logrus entry to the context and writes one
// access line per request.
func Logger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		entry := log.WithField("request_id", c.GetString(RequestIDKey))
		c.Set(LoggerKey, entry)

		c.Next()

		status := c.Writer.Status()
		fields := logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		}
		switch {
		case status >= http.StatusInternalServerError:
			entry.WithFields(fields).Error("request failed")
		case status >= http.StatusBadRequest:
			entry.WithFields(fields).Warn("request rejected")
		default:
			entry.WithFields(fields).Info("request handled")
		}
	}
}

// LoggerFrom returns the request-scoped entry, or fallback when Logger did not run.
func LoggerFrom(c *gin.Context, fallback logrus.FieldLogger) logrus.FieldLogger {
	if v, ok := c.Get(LoggerKey); ok {
		if l, ok := v.(logrus.FieldLogger); ok {
			return l
		}
	}
	return fallback
}

// BodyLimit caps the request body at limit bytes.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
