package ports

import "time"

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenClaims are the claims carried by an access token.
type TokenClaims struct {
	UserID string
	Email  string
}

// TokenIssuer issues and verifies access tokens.
type TokenIssuer interface {
	Issue(claims TokenClaims, ttl time.Duration) (token string, expiresAt time.Time, err error)
	Verify(token string) (*TokenClaims, error)
}
