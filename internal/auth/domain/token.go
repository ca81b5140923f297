package domain

import (
	"time"

	"github.com/google/uuid"
)

// Claims is the verified content of a session token.
type Claims struct {
	Subject   uuid.UUID
	ID        string
	Type      TokenType
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// MaxAge returns the cookie Max-Age in whole seconds for a token expiring at ExpiresAt.
// It never returns less than zero.
func (c *Claims) MaxAge(now time.Time) int {
	secs := int(c.ExpiresAt.Sub(now) / time.Second)
	if secs < 0 {
		return 0
	}
	return secs
}

// Expired reports whether the token is past its expiry at now.
func (c *Claims) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// IssuedToken pairs the encoded token with its claims.
type IssuedToken struct {
	Raw    string
	Claims Claims
}

// TokenPair is the result of a login.
type TokenPair struct {
	Access  *IssuedToken
	Refresh *IssuedToken
}

// OutstandingToken records an issued refresh token. Rows are never mutated.
type OutstandingToken struct {
	ID        uuid.UUID
	JTI       string
	UserID    uuid.UUID
	ExpiresAt time.Time
	CreatedAt time.Time
}

// NewOutstandingToken builds the outstanding record for issued refresh claims.
func NewOutstandingToken(claims Claims, now time.Time) *OutstandingToken {
	return &OutstandingToken{
		ID:        uuid.Must(uuid.NewV7()),
		JTI:       claims.ID,
		UserID:    claims.Subject,
		ExpiresAt: claims.ExpiresAt,
		CreatedAt: now,
	}
}

// BlacklistEntry marks an outstanding token as unusable.
type BlacklistEntry struct {
	TokenID       uuid.UUID
	BlacklistedAt time.Time
}

// Principal is the public projection of an authenticated user.
type Principal struct {
	ID       uuid.UUID
	Username string
	Email    string
}
