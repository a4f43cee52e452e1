// Package auth issues and validates the access tokens used by the API.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hirepath/hirepath/internal/models"
)

// DefaultAccessTokenTTL applies when no token lifetime is configured.
const DefaultAccessTokenTTL = 12 * time.Hour

// JWTConfig bundles the parameters needed to build a JWTService. Clock is
// overridable for tests.
type JWTConfig struct {
	Secret         string
	Issuer         string
	AccessTokenTTL time.Duration
	Clock          func() time.Time
}

// Claims are the application claims carried by every access token. The
// organization id is empty for platform admins.
type Claims struct {
	UserID         string      `json:"uid"`
	OrganizationID string      `json:"org,omitempty"`
	Role           models.Role `json:"role"`
	jwt.RegisteredClaims
}

// AccessTokenInput identifies the subject of a new access token.
type AccessTokenInput struct {
	UserID         string
	OrganizationID string
	Role           models.Role
}

// JWTService signs and verifies HS256 access tokens.
type JWTService struct {
	signingKey []byte
	issuer     string
	lifetime   time.Duration
	now        func() time.Time
}

func NewJWTService(cfg JWTConfig) (*JWTService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt: secret must be provided")
	}

	svc := &JWTService{
		signingKey: []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		lifetime:   cfg.AccessTokenTTL,
		now:        cfg.Clock,
	}
	if svc.lifetime <= 0 {
		svc.lifetime = DefaultAccessTokenTTL
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc, nil
}

// GenerateAccessToken issues a signed token for the given subject.
func (s *JWTService) GenerateAccessToken(input AccessTokenInput) (string, error) {
	if input.UserID == "" {
		return "", errors.New("jwt: user id is required")
	}
	if !input.Role.Valid() {
		return "", fmt.Errorf("jwt: unknown role %q", input.Role)
	}

	issuedAt := s.now()
	claims := &Claims{
		UserID:         input.UserID,
		OrganizationID: input.OrganizationID,
		Role:           input.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   input.UserID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.lifetime)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, nil
}

// ValidateAccessToken verifies the signature, expiry, issuer and role of a
// token and returns its claims.
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("jwt: token string is empty")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)

	claims := &Claims{}
	if _, err := parser.ParseWithClaims(tokenString, claims, s.keyFunc); err != nil {
		return nil, fmt.Errorf("jwt: parse token: %w", err)
	}

	if s.issuer != "" && claims.Issuer != s.issuer {
		return nil, errors.New("jwt: unexpected issuer")
	}
	if !claims.Role.Valid() {
		return nil, fmt.Errorf("jwt: unknown role %q", claims.Role)
	}
	return claims, nil
}

func (s *JWTService) keyFunc(*jwt.Token) (any, error) {
	return s.signingKey, nil
}

// TokenTTL exposes the configured validity period.
func (s *JWTService) TokenTTL() time.Duration {
	return s.lifetime
}
