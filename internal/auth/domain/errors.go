package domain

import (
	"github.com/allisson/quizly/internal/errors"
)

// Authentication errors. All of them map to 401.
var (
	// ErrInvalidToken covers bad signatures, expiry, wrong type, malformed input and blacklisted tokens.
	ErrInvalidToken = errors.Wrap(errors.ErrUnauthorized, "invalid token")

	// ErrNotAuthenticated indicates no credential was presented.
	ErrNotAuthenticated = errors.Wrap(errors.ErrUnauthorized, "authentication credentials were not provided")

	// ErrInvalidCredentials is returned for both unknown usernames and wrong passwords.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid username or password")
)
