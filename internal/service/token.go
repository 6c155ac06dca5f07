package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/guttosm/scaffold-service/config"
	"github.com/guttosm/scaffold-service/internal/domain/dto"
)

// ErrInvalidToken is returned for malformed, expired or foreign tokens.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenService issues and validates access tokens.
type TokenService interface {
	// GenerateAccessToken signs a token carrying the given identity.
	GenerateAccessToken(claims dto.Claims) (*dto.TokenResponse, error)
	// ValidateAccessToken validates an access token and returns its claims.
	ValidateAccessToken(ctx context.Context, tokenString string) (*dto.Claims, error)
}

// ClaimsWithJWT embeds the identity into the registered JWT claims.
type ClaimsWithJWT struct {
	dto.Claims
	jwt.RegisteredClaims
}

// TokenConfig holds configuration for the token service.
type TokenConfig struct {
	SecretKey      string
	Issuer         string
	AccessTokenTTL time.Duration
}

// NewTokenConfigFromAuthConfig creates TokenConfig from config.AuthConfig.
func NewTokenConfigFromAuthConfig(authConfig config.AuthConfig) TokenConfig {
	return TokenConfig{
		SecretKey:      authConfig.JWTSecretKey,
		Issuer:         authConfig.JWTIssuer,
		AccessTokenTTL: authConfig.AccessTokenTTL,
	}
}

// TokenServiceImpl implements TokenService with HS256 tokens.
type TokenServiceImpl struct {
	secretKey      []byte
	issuer         string
	accessTokenTTL time.Duration
	now            func() time.Time
}

// NewTokenService creates a new token service.
func NewTokenService(cfg TokenConfig) *TokenServiceImpl {
	ttl := cfg.AccessTokenTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &TokenServiceImpl{
		secretKey:      []byte(cfg.SecretKey),
		issuer:         cfg.Issuer,
		accessTokenTTL: ttl,
		now:            time.Now,
	}
}

// GenerateAccessToken signs a token carrying the given identity.
func (s *TokenServiceImpl) GenerateAccessToken(claims dto.Claims) (*dto.TokenResponse, error) {
	if claims.UserID == "" {
		return nil, errors.New("user ID is empty, cannot create token")
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &ClaimsWithJWT{
		Claims: claims,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   claims.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	})

	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken: signed,
		ExpiresIn:   int64(s.accessTokenTTL.Seconds()),
	}, nil
}

// ValidateAccessToken validates an access token and returns its claims.
func (s *TokenServiceImpl) ValidateAccessToken(_ context.Context, tokenString string) (*dto.Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &ClaimsWithJWT{}, func(token *jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	}, opts...)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claimsWithJWT, ok := token.Claims.(*ClaimsWithJWT)
	if !ok || !token.Valid || claimsWithJWT.UserID == "" {
		return nil, ErrInvalidToken
	}
	return &claimsWithJWT.Claims, nil
}
