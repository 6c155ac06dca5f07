package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/scaffold-service/internal/domain/model"
	"github.com/guttosm/scaffold-service/internal/service"
)

// Audited actions.
const (
	ActionScaffoldApply = "scaffold_apply"
	ActionStockWithdraw = "stock_withdraw"
	ActionStockAdjust   = "stock_adjust"
	ActionStockDelete   = "stock_delete"
)

const directWriteTimeout = 5 * time.Second

// AuditLog records a stock-changing action such as a withdrawal or an
// applied scaffold allocation.
func AuditLog(sink service.LoggingService, c *gin.Context, action, message string, fields map[string]interface{}) {
	if sink == nil {
		return
	}
	storeEntry(sink, newAuditEntry(c, "info", action, message, fields))
}

// AuditLogError records a rejected or failed action.
func AuditLogError(sink service.LoggingService, c *gin.Context, action, message string, err error, fields map[string]interface{}) {
	if sink == nil {
		return
	}
	entry := newAuditEntry(c, "error", action, message, fields)
	if err != nil {
		entry.Error = err.Error()
	}
	storeEntry(sink, entry)
}

func newAuditEntry(c *gin.Context, level, action, message string, fields map[string]interface{}) *model.LogEntry {
	entry := &model.LogEntry{
		Timestamp:  time.Now(),
		Level:      level,
		Message:    message,
		RequestID:  GetRequestID(c),
		Method:     c.Request.Method,
		Path:       c.Request.URL.Path,
		IP:         c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		ActionType: action,
	}
	entry.Annotate(fields)
	fillIdentity(c, entry)
	return entry
}

func fillIdentity(c *gin.Context, entry *model.LogEntry) {
	if claims, ok := GetClaims(c); ok {
		entry.UserID = claims.UserID
		entry.TenantID = claims.TenantID
	}
}

// storeEntry queues entry on the process-wide writer. Without one running,
// the entry is written directly off the request goroutine.
func storeEntry(sink service.LoggingService, entry *model.LogEntry) {
	if writer := GetAsyncLogger(); writer != nil {
		writer.Log(entry)
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), directWriteTimeout)
		defer cancel()
		_ = sink.CreateLog(ctx, entry)
	}()
}
