// Package service provides the technical services behind session authentication:
// JWT encoding and validation, and Argon2id password hashing.
package service

import (
	"github.com/google/uuid"

	authDomain "github.com/allisson/quizly/internal/auth/domain"
)

// TokenCodec issues and validates signed session tokens.
type TokenCodec interface {
	// IssueAccessToken signs a short-lived access token for subject.
	IssueAccessToken(subject uuid.UUID) (*authDomain.IssuedToken, error)

	// IssueRefreshToken signs a long-lived refresh token for subject.
	IssueRefreshToken(subject uuid.UUID) (*authDomain.IssuedToken, error)

	// Validate verifies algorithm, signature, issuer, expiry and token type. Every failure
	// matches authDomain.ErrInvalidToken. The blacklist is not consulted.
	Validate(raw string, expected authDomain.TokenType) (*authDomain.Claims, error)

	// DecodeClaims reads claims without verifying the signature. Use only on tokens that
	// were validated before, or for diagnostics.
	DecodeClaims(raw string) (*authDomain.Claims, error)
}

// PasswordService hashes and verifies user passwords.
type PasswordService interface {
	// Hash returns the PHC-formatted Argon2id hash of password.
	Hash(password string) (string, error)

	// Verify compares password against hash in constant time.
	Verify(password, hash string) bool

	// VerifyDummy burns the same work as Verify against a fixed hash so lookups of
	// unknown users take as long as wrong passwords.
	VerifyDummy(password string)
}
