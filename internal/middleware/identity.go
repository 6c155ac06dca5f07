package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/scaffold-service/internal/domain/dto"
)

// Context keys set by the identity middlewares.
const (
	ContextKeyClaims   = "user_claims"
	ContextKeyUserID   = "user_id"
	ContextKeyTenantID = "tenant_id"
)

// Identity headers honoured when token authentication is disabled.
const (
	TenantIDHeader  = "X-Tenant-ID"
	UserIDHeader    = "X-User-ID"
	UserRolesHeader = "X-User-Roles"
)

var (
	// ErrTenantForbidden is returned when a caller targets another tenant.
	ErrTenantForbidden = errors.New("tenant not accessible")
	// ErrTenantRequired is returned when a non-superadmin has no tenant.
	ErrTenantRequired = errors.New("tenant required")
)

func setIdentity(c *gin.Context, claims *dto.Claims) {
	c.Set(ContextKeyClaims, claims)
	c.Set(ContextKeyUserID, claims.UserID)
	c.Set(ContextKeyTenantID, claims.TenantID)
}

// GetClaims returns the caller identity, if any.
func GetClaims(c *gin.Context) (*dto.Claims, bool) {
	v, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*dto.Claims)
	return claims, ok && claims != nil
}

// GetUserID returns the caller's user ID, or "" when anonymous.
func GetUserID(c *gin.Context) string {
	if claims, ok := GetClaims(c); ok {
		return claims.UserID
	}
	return ""
}

// HeaderIdentity trusts identity headers. It is meant for deployments that
// authenticate upstream, or for local development. Without a tenant header
// and without explicit roles the caller is a superadmin.
func HeaderIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := &dto.Claims{
			UserID:   strings.TrimSpace(c.GetHeader(UserIDHeader)),
			TenantID: strings.TrimSpace(c.GetHeader(TenantIDHeader)),
		}
		for _, role := range strings.Split(c.GetHeader(UserRolesHeader), ",") {
			if role = strings.TrimSpace(strings.ToLower(role)); role != "" {
				claims.Roles = append(claims.Roles, role)
			}
		}
		if len(claims.Roles) == 0 {
			if claims.TenantID == "" {
				claims.Roles = []string{dto.RoleSuperadmin}
			} else {
				claims.Roles = []string{dto.RoleUser}
			}
		}
		setIdentity(c, claims)
		c.Next()
	}
}

// ResolveTenant returns the tenant scope of a request. Superadmins may target
// any tenant, or none for the unscoped view. Other callers are pinned to their
// own tenant.
func ResolveTenant(c *gin.Context, requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	claims, ok := GetClaims(c)
	if !ok {
		return requested, nil
	}
	if claims.IsSuperadmin() {
		return requested, nil
	}
	if claims.TenantID == "" {
		return "", ErrTenantRequired
	}
	if requested != "" && requested != claims.TenantID {
		return "", ErrTenantForbidden
	}
	return claims.TenantID, nil
}
