// Package domain defines the session authentication domain: token claims, outstanding
// refresh tokens, blacklist entries and the principal projection exposed to other contexts.
package domain

// TokenType distinguishes access tokens from refresh tokens. It is carried in the
// token_type claim and each type is signed with its own derived key.
type TokenType string

const (
	// TokenTypeAccess authorizes API requests for a short period.
	TokenTypeAccess TokenType = "access"

	// TokenTypeRefresh obtains new access tokens and is tracked server side.
	TokenTypeRefresh TokenType = "refresh"
)

// Valid reports whether t is a known token type.
func (t TokenType) Valid() bool {
	return t == TokenTypeAccess || t == TokenTypeRefresh
}

// Session cookie names.
const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)
