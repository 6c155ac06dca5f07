package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/scaffold-service/internal/domain/dto"
	"github.com/guttosm/scaffold-service/internal/domain/model"
	"github.com/guttosm/scaffold-service/internal/service"
)

const defaultAuditPageSize = 50

// AuditHandler serves the persisted request and audit log.
type AuditHandler struct {
	logs service.LoggingService
}

func NewAuditHandler(logs service.LoggingService) *AuditHandler {
	return &AuditHandler{logs: logs}
}

// List handles GET /api/audit-logs requests.
//
// @Summary      Audit log
// @Description  Returns persisted request and audit entries of the caller's tenant, newest first.
// @Tags         Audit
// @Produce      json
// @Param        action query string false "Action type, such as stock_withdraw"
// @Param        user_id query string false "Acting user"
// @Param        request_id query string false "Request ID"
// @Param        from query string false "Window start (RFC 3339)"
// @Param        to query string false "Window end (RFC 3339)"
// @Param        limit query int false "Page size (default 50, max 1000)"
// @Param        offset query int false "Entries to skip"
// @Param        tenant query string false "Target tenant (superadmin only)"
// @Success      200 {object} dto.AuditLogPage "Audit entries"
// @Failure      400 {object} dto.ErrorResponse "Bad request"
// @Failure      403 {object} dto.ErrorResponse "Forbidden"
// @Failure      503 {object} dto.ErrorResponse "Log store unavailable"
// @Security     BearerAuth
// @Router       /api/audit-logs [get]
func (h *AuditHandler) List(c *gin.Context) {
	tenantID, ok := tenantScope(c, c.Query(tenantQuery))
	if !ok {
		return
	}
	from, err := timeQuery(c, "from")
	if err != nil {
		return
	}
	to, err := timeQuery(c, "to")
	if err != nil {
		return
	}
	limit, err := intQuery(c, "limit", defaultAuditPageSize)
	if err != nil {
		return
	}
	offset, err := intQuery(c, "offset", 0)
	if err != nil {
		return
	}
	if limit <= 0 || offset < 0 {
		respondError(c, &dto.ValidationError{Field: "limit", Message: "paging must be positive"})
		return
	}

	opts := model.LogQueryOptions{
		TenantID:   tenantID,
		UserID:     c.Query("user_id"),
		ActionType: c.Query("action"),
		RequestID:  c.Query("request_id"),
		StartTime:  from,
		EndTime:    to,
		Limit:      limit,
		Skip:       offset,
	}

	ctx := c.Request.Context()
	entries, err := h.logs.QueryLogs(ctx, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	total, err := h.logs.CountLogs(ctx, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	if entries == nil {
		entries = []model.LogEntry{}
	}

	NewResponseBuilder(c).SuccessOK(dto.AuditLogPage{
		Entries: entries,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	})
}

// timeQuery parses an optional RFC 3339 query parameter. On a malformed value
// it writes the 400 response and returns the parse error.
func timeQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		respondError(c, &dto.ValidationError{Field: name, Message: "must be an RFC 3339 timestamp"})
		return nil, err
	}
	return &t, nil
}
