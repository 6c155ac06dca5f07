package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/guttosm/scaffold-service/internal/domain/dto"
	"github.com/guttosm/scaffold-service/internal/i18n"
)

// abortWithError writes a localized error body carrying the request ID and
// stops the handler chain.
func abortWithError(c *gin.Context, status int, code, messageKey string) {
	message := i18n.GetTranslator().Translate(messageKey, i18n.GetLocale(c))
	c.AbortWithStatusJSON(status, dto.NewError(code, message).WithRequestID(GetRequestID(c)))
}
