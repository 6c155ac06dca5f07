package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/guttosm/scaffold-service/internal/domain/dto"
	"github.com/guttosm/scaffold-service/internal/i18n"
	"github.com/guttosm/scaffold-service/internal/logger"
)

// ErrorHandler logs the errors handlers attach with c.Error. Client errors
// are logged at warn, server errors at error. A handler that attached an
// error without writing a response gets a generic 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		status := c.Writer.Status()
		if !c.Writer.Written() {
			status = http.StatusInternalServerError
		}

		level := statusLevel(status)
		if level < zerolog.WarnLevel {
			level = zerolog.WarnLevel
		}
		event := logger.Logger().WithLevel(level).
			Str("request_id", GetRequestID(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status_code", status).
			Strs("errors", c.Errors.Errors())
		if claims, ok := GetClaims(c); ok {
			event = event.Str("tenant_id", claims.TenantID).Str("user_id", claims.UserID)
		}
		event.Msg("Request failed")

		if !c.Writer.Written() {
			abortWithError(c, http.StatusInternalServerError, dto.ErrCodeInternal, i18n.ErrKeyInternalError)
		}
	}
}
