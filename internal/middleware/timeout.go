package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/scaffold-service/internal/domain/dto"
	"github.com/guttosm/scaffold-service/internal/i18n"
	"github.com/guttosm/scaffold-service/internal/metrics"
)

// Timeout puts a deadline of d on the request context. Handlers run on the
// request goroutine and see the deadline through the context they pass to
// the services; when it expires before anything was written, the client
// gets a 504. A non-positive d disables the deadline.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			metrics.RecordRejection(metrics.RejectTimeout)
			abortWithError(c, http.StatusGatewayTimeout, dto.ErrCodeTimeout, i18n.ErrKeyTimeout)
		}
	}
}
