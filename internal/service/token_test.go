package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/scaffold-service/config"
	"github.com/guttosm/scaffold-service/internal/domain/dto"
	"github.com/guttosm/scaffold-service/internal/service"
)

func testTokenConfig() service.TokenConfig {
	return service.NewTokenConfigFromAuthConfig(config.AuthConfig{
		JWTSecretKey:   "test-secret",
		JWTIssuer:      "scaffold-service",
		AccessTokenTTL: 15 * time.Minute,
	})
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc := service.NewTokenService(testTokenConfig())
	claims := dto.Claims{UserID: "u1", TenantID: "t1", Email: "chef@example.com", Roles: []string{dto.RoleAdmin}}

	token, err := svc.GenerateAccessToken(claims)
	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, int64(900), token.ExpiresIn)

	got, err := svc.ValidateAccessToken(context.Background(), token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, claims, *got)
}

func TestTokenService_GenerateRequiresUser(t *testing.T) {
	svc := service.NewTokenService(testTokenConfig())
	_, err := svc.GenerateAccessToken(dto.Claims{TenantID: "t1"})
	assert.Error(t, err)
}

func TestTokenService_ValidateAccessToken(t *testing.T) {
	cfg := testTokenConfig()
	svc := service.NewTokenService(cfg)

	sign := func(method jwt.SigningMethod, key interface{}, claims service.ClaimsWithJWT) string {
		s, err := jwt.NewWithClaims(method, &claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	valid := func() service.ClaimsWithJWT {
		return service.ClaimsWithJWT{
			Claims: dto.Claims{UserID: "u1", TenantID: "t1"},
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    cfg.Issuer,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
		}
	}

	expired := valid()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	foreignIssuer := valid()
	foreignIssuer.Issuer = "someone-else"
	noUser := valid()
	noUser.UserID = ""

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", sign(jwt.SigningMethodHS256, []byte("other"), valid())},
		{"wrong algorithm", sign(jwt.SigningMethodHS512, []byte(cfg.SecretKey), valid())},
		{"expired", sign(jwt.SigningMethodHS256, []byte(cfg.SecretKey), expired)},
		{"foreign issuer", sign(jwt.SigningMethodHS256, []byte(cfg.SecretKey), foreignIssuer)},
		{"no user", sign(jwt.SigningMethodHS256, []byte(cfg.SecretKey), noUser)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateAccessToken(context.Background(), tt.token)
			assert.ErrorIs(t, err, service.ErrInvalidToken)
		})
	}

	t.Run("valid", func(t *testing.T) {
		got, err := svc.ValidateAccessToken(context.Background(), sign(jwt.SigningMethodHS256, []byte(cfg.SecretKey), valid()))
		require.NoError(t, err)
		assert.Equal(t, "t1", got.TenantID)
	})
}
