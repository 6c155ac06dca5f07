package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/scaffold-service/internal/domain/dto"
	"github.com/guttosm/scaffold-service/internal/i18n"
	"github.com/guttosm/scaffold-service/internal/service"
)

// JWTAuth returns a middleware that validates JWT access tokens and stores
// the caller identity in the context.
func JWTAuth(tokenService service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		unauthorized := func(key string) {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, key)
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			unauthorized(i18n.ErrKeyInvalidToken)
			return
		}
		if token == "" {
			unauthorized(i18n.ErrKeyTokenRequired)
			return
		}

		claims, err := tokenService.ValidateAccessToken(c.Request.Context(), token)
		if err != nil {
			unauthorized(i18n.ErrKeyInvalidToken)
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// bearerToken extracts the token from an Authorization header. An empty
// header yields ("", true); any scheme other than Bearer yields false.
func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", true
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	return strings.TrimSpace(token), true
}
