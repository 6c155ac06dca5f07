package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/guttosm/scaffold-service/internal/domain/model"
	"github.com/guttosm/scaffold-service/internal/logger"
	"github.com/guttosm/scaffold-service/internal/service"
)

// quietPaths are probed constantly and would drown the access log.
var quietPaths = map[string]bool{
	"/healthz": true,
	"/readyz":  true,
	"/metrics": true,
}

// RequestLogger writes one access log line per request at a level derived
// from the status. When sink is set the line is also persisted.
func RequestLogger(sink service.LoggingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		if quietPaths[c.Request.URL.Path] && status < http.StatusInternalServerError {
			return
		}

		entry := &model.LogEntry{
			Timestamp:  time.Now(),
			Level:      statusLevel(status).String(),
			Message:    "HTTP request",
			RequestID:  GetRequestID(c),
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			StatusCode: status,
			Duration:   time.Since(start).Milliseconds(),
			IP:         c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
		}
		fillIdentity(c, entry)

		event := logger.Logger().WithLevel(statusLevel(status)).
			Str("request_id", entry.RequestID).
			Str("method", entry.Method).
			Str("path", entry.Path).
			Int("status_code", status).
			Int64("duration_ms", entry.Duration).
			Str("ip", entry.IP).
			Str("user_agent", entry.UserAgent)
		if entry.TenantID != "" || entry.UserID != "" {
			event = event.Str("tenant_id", entry.TenantID).Str("user_id", entry.UserID)
		}
		event.Msg(entry.Message)

		if sink != nil {
			storeEntry(sink, entry)
		}
	}
}

func statusLevel(status int) zerolog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zerolog.ErrorLevel
	case status >= http.StatusBadRequest:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}
