package http

import (
	"github.com/gin-gonic/gin"

	"github.com/guttosm/scaffold-service/internal/domain/dto"
	"github.com/guttosm/scaffold-service/internal/middleware"
	"github.com/guttosm/scaffold-service/internal/service"
)

// AuditRoutes exposes the audit log to tenant admins.
type AuditRoutes struct {
	handler *AuditHandler
}

func NewAuditRoutes(logs service.LoggingService) *AuditRoutes {
	return &AuditRoutes{handler: NewAuditHandler(logs)}
}

func (r *AuditRoutes) RegisterRoutes(rg *gin.RouterGroup, _ *RouterConfig) {
	rg.GET("/audit-logs", middleware.RequireRoles(dto.RoleAdmin), r.handler.List)
}
