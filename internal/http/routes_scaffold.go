package http

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/scaffold-service/internal/service"
)

// ScaffoldRoutes handles allocation engine route registration.
type ScaffoldRoutes struct {
	handler *ScaffoldHandler
}

// NewScaffoldRoutes creates a new ScaffoldRoutes instance.
func NewScaffoldRoutes(calculator service.ScaffoldCalculator, maxDimension float64) *ScaffoldRoutes {
	return &ScaffoldRoutes{handler: NewScaffoldHandler(calculator, maxDimension)}
}

// RegisterRoutes registers the scaffold endpoints.
func (r *ScaffoldRoutes) RegisterRoutes(rg *gin.RouterGroup, _ *RouterConfig) {
	scaffold := rg.Group("/scaffold")
	scaffold.POST("/calculate", r.handler.Calculate)
	scaffold.POST("/plan", r.handler.Plan)
}
