package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/scaffold-service/internal/circuitbreaker"
	"github.com/guttosm/scaffold-service/internal/domain/dto"
	"github.com/guttosm/scaffold-service/internal/i18n"
	"github.com/guttosm/scaffold-service/internal/middleware"
	"github.com/guttosm/scaffold-service/internal/scaffold"
	"github.com/guttosm/scaffold-service/internal/service"
)

// respondError maps a service error to its HTTP status, code and message.
func respondError(c *gin.Context, err error) {
	builder := NewResponseBuilder(c)

	var validationErr *dto.ValidationError
	switch {
	case errors.As(err, &validationErr):
		builder.ErrorWithMessage(http.StatusBadRequest, validationErr.Error(), err)
	case errors.Is(err, scaffold.ErrInvalidDimensions):
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidDimensions, err)
	case errors.Is(err, service.ErrInvalidStockItem):
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidStockItem, err)
	case errors.Is(err, service.ErrInvalidLogQuery):
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidLogWindow, err)
	case errors.Is(err, service.ErrInvalidQuantity):
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidQuantity, err)
	case errors.Is(err, middleware.ErrTenantForbidden):
		builder.Error(http.StatusForbidden, i18n.ErrKeyTenantForbidden, err)
	case errors.Is(err, middleware.ErrTenantRequired):
		builder.Error(http.StatusForbidden, i18n.ErrKeyTenantRequired, err)
	case errors.Is(err, service.ErrStockItemNotFound):
		builder.Error(http.StatusNotFound, i18n.ErrKeyStockItemNotFound, err)
	case errors.Is(err, service.ErrInsufficientStock):
		builder.ErrorWithCode(http.StatusConflict, dto.ErrCodeInsufficientStock, i18n.ErrKeyInsufficientStock, err)
	case errors.Is(err, service.ErrNegativeStock):
		builder.ErrorWithCode(http.StatusConflict, dto.ErrCodeInsufficientStock, i18n.ErrKeyNegativeStock, err)
	case errors.Is(err, service.ErrStockUnavailable):
		builder.Error(http.StatusServiceUnavailable, i18n.ErrKeyStockUnavailable, err)
	case errors.Is(err, circuitbreaker.ErrCircuitOpen):
		builder.Error(http.StatusServiceUnavailable, i18n.ErrKeyServiceUnavailable, err)
	case errors.Is(err, context.DeadlineExceeded):
		builder.ErrorWithCode(http.StatusGatewayTimeout, dto.ErrCodeTimeout, i18n.ErrKeyTimeout, err)
	default:
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
	}
}

// bindAndValidate decodes and validates the JSON body. It writes the 400
// response itself and reports whether the handler may go on.
func bindAndValidate[T any](c *gin.Context) (*T, bool) {
	req, err := BuildRequestAndValidate[T](c)
	if err == nil {
		return req, true
	}
	var validationErr *dto.ValidationError
	if errors.As(err, &validationErr) {
		respondError(c, err)
	} else {
		NewResponseBuilder(c).Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
	}
	return nil, false
}

// tenantScope resolves the tenant a request may act on.
func tenantScope(c *gin.Context, requested string) (string, bool) {
	tenantID, err := middleware.ResolveTenant(c, requested)
	if err != nil {
		respondError(c, err)
		return "", false
	}
	return tenantID, true
}

// auditLogger returns the logging service the router put on the context.
func auditLogger(c *gin.Context) service.LoggingService {
	if v, exists := c.Get(loggingServiceKey); exists {
		if ls, ok := v.(service.LoggingService); ok {
			return ls
		}
	}
	return nil
}
