package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/scaffold-service/internal/domain/dto"
	"github.com/guttosm/scaffold-service/internal/i18n"
	"github.com/guttosm/scaffold-service/internal/logger"
	"github.com/guttosm/scaffold-service/internal/metrics"
)

// Recovery turns a handler panic into a 500 response. The panic value and
// stack are logged with the request ID and the caller's tenant.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			event := logger.Logger().Error().
				Str("request_id", GetRequestID(c)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Interface("panic", rec).
				Bytes("stack", debug.Stack())
			if claims, ok := GetClaims(c); ok {
				event = event.Str("tenant_id", claims.TenantID)
			}
			event.Msg("Handler panicked")

			metrics.RecordRejection(metrics.RejectPanic)
			if c.Writer.Written() {
				c.Abort()
				return
			}
			abortWithError(c, http.StatusInternalServerError, dto.ErrCodeInternal, i18n.ErrKeyInternalError)
		}()
		c.Next()
	}
}
