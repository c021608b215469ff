// Package auth validates the bearer tokens minted by the organization's
// identity provider. Tokens are HS256 JWTs carrying the subject and a
// privilege tier in the "role" claim; this service never issues tokens for
// end users in production, but Issue backs tests and the local token CLI.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "fiscaldesk/pkg/domain-errors"
)

// Privilege tiers. Admins mutate; auditors read reports and reference data.
const (
	RoleAdmin   = "admin"
	RoleAuditor = "auditor"
)

// ValidRole reports whether the role claim names a known tier.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleAuditor
}

// Claims is the token payload this service understands.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService signs and validates access tokens with a shared HMAC key.
type TokenService struct {
	signingKey []byte
}

// NewTokenService constructs a TokenService over the configured signing key.
func NewTokenService(signingKey string) *TokenService {
	return &TokenService{signingKey: []byte(signingKey)}
}

// Issue mints a token for the given subject and role.
func (s *TokenService) Issue(subject, role string, ttl time.Duration) (string, error) {
	if !ValidRole(role) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "role must be 'admin' or 'auditor'")
	}
	now := time.Now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign token")
	}
	return signed, nil
}

// Validate parses and verifies a token, rejecting unknown signing methods,
// expired tokens, and unknown roles.
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return s.signingKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid or expired token")
	}
	if claims.Subject == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token has no subject")
	}
	if !ValidRole(claims.Role) {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token carries an unknown role")
	}
	return claims, nil
}
