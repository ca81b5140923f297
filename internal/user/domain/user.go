// Package domain defines the core user domain entities and types.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/quizly/internal/errors"
)

// User is a registered account. Password holds the Argon2id PHC string, never the plaintext.
type User struct {
	ID        uuid.UUID
	Username  string
	Email     string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeEmail lower-cases and trims an email address before storage or lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeUsername trims surrounding whitespace. Registration and login both apply it
// so a name is looked up exactly as it was stored.
func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

// Domain-specific errors for user operations.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates a concurrent registration won the unique index race.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "user already exists")
)

// Field messages returned by registration.
const (
	MsgPasswordsDoNotMatch = "Passwords do not match."
	MsgEmailExists         = "Email already exists"
	MsgUsernameExists      = "A user with that username already exists."
)
