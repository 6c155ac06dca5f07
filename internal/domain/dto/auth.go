// Package dto defines Data Transfer Objects for authentication.
package dto

import "slices"

// Roles carried in access tokens.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// Claims represents the identity carried by an access token.
type Claims struct {
	UserID   string   `json:"user_id"`
	TenantID string   `json:"tenant_id,omitempty"`
	Email    string   `json:"email,omitempty"`
	Roles    []string `json:"roles"`
}

// HasRole reports whether the claims carry role.
func (c Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// IsSuperadmin reports whether the claims may act on any tenant.
func (c Claims) IsSuperadmin() bool {
	return c.HasRole(RoleSuperadmin)
}

// TokenResponse is a freshly issued access token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"` // seconds
} // @name TokenResponse
