package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taskly/taskly-api/internal/core/ports"
)

// ErrInvalidToken is returned for malformed, expired or tampered tokens.
var ErrInvalidToken = errors.New("invalid token")

// claims is the JWT payload.
type claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// JWTIssuer issues and verifies HS256-signed access tokens.
type JWTIssuer struct {
	secret []byte
	now    func() time.Time
}

func NewJWTIssuer(secret string) *JWTIssuer {
	return &JWTIssuer{secret: []byte(secret), now: time.Now}
}

// Issue signs a token for c that expires after ttl.
func (j *JWTIssuer) Issue(c ports.TokenClaims, ttl time.Duration) (string, time.Time, error) {
	issuedAt := j.now()
	expiresAt := issuedAt.Add(ttl)

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID: c.UserID,
		Email:  c.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.UserID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := t.SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify parses token and returns its claims.
func (j *JWTIssuer) Verify(token string) (*ports.TokenClaims, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return j.secret, nil
	}, jwt.WithTimeFunc(j.now))
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c.UserID == "" || c.Email == "" {
		return nil, fmt.Errorf("%w: missing identity claims", ErrInvalidToken)
	}
	return &ports.TokenClaims{UserID: c.UserID, Email: c.Email}, nil
}
