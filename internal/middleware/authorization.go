package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/scaffold-service/internal/domain/dto"
	"github.com/guttosm/scaffold-service/internal/i18n"
)

// RequireRoles returns a middleware that lets through callers holding at
// least one of roles. Superadmins always pass. It must run after JWTAuth or
// HeaderIdentity.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetClaims(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, i18n.ErrKeyUnauthorized)
			return
		}

		if len(roles) == 0 || claims.IsSuperadmin() {
			c.Next()
			return
		}
		for _, role := range roles {
			if claims.HasRole(role) {
				c.Next()
				return
			}
		}

		abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, i18n.ErrKeyForbidden)
	}
}
