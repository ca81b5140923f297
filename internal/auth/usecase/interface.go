// Package usecase implements the session lifecycle: login, refresh, logout and access
// token authentication, on top of the token store.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/quizly/internal/auth/domain"
	userDomain "github.com/allisson/quizly/internal/user/domain"
)

// TokenRepository persists outstanding refresh tokens and blacklist entries.
// Implementations must support transaction-aware operations via context propagation
// and must use idempotent inserts.
type TokenRepository interface {
	// CreateOutstanding inserts the record unless one with the same jti exists.
	CreateOutstanding(ctx context.Context, token *authDomain.OutstandingToken) error

	// Blacklist adds a blacklist entry for the outstanding token with jti.
	// Returns false when the entry already existed.
	Blacklist(ctx context.Context, jti string, at time.Time) (bool, error)

	// BlacklistAllExcept blacklists every outstanding token of userID other than exceptJTI.
	BlacklistAllExcept(ctx context.Context, userID uuid.UUID, exceptJTI string, at time.Time) (int64, error)

	// IsBlacklisted reports whether jti has a blacklist entry.
	IsBlacklisted(ctx context.Context, jti string) (bool, error)

	// CountExpired counts outstanding tokens that expired before the given time.
	CountExpired(ctx context.Context, before time.Time) (int64, error)

	// DeleteExpired deletes outstanding tokens that expired before the given time.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// BlacklistCache is an optional positive-only cache in front of the blacklist table.
type BlacklistCache interface {
	Add(ctx context.Context, jti string, expiresAt time.Time) error
	Contains(ctx context.Context, jti string) (bool, error)
}

// UserRepository is the subset of user persistence the session lifecycle needs.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error)
	GetByUsername(ctx context.Context, username string) (*userDomain.User, error)
}

// TokenStore tracks issued refresh tokens and the revocation set. Writes are idempotent
// and never fail on concurrent duplicates.
type TokenStore interface {
	// RecordOutstanding persists refresh claims as an outstanding token.
	RecordOutstanding(ctx context.Context, claims authDomain.Claims) error

	// Blacklist revokes the token, creating its outstanding record first if missing.
	// Returns false when the token had already been revoked.
	Blacklist(ctx context.Context, claims authDomain.Claims) (bool, error)

	// BlacklistAllExcept revokes every outstanding token of userID except exceptJTI.
	BlacklistAllExcept(ctx context.Context, userID uuid.UUID, exceptJTI string) (int64, error)

	// IsBlacklisted reports whether jti was revoked.
	IsBlacklisted(ctx context.Context, jti string) (bool, error)

	// CleanupExpired deletes (or with dryRun counts) outstanding tokens that expired
	// more than days ago.
	CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error)
}

// LoginOutput is the result of a successful login.
type LoginOutput struct {
	Tokens    authDomain.TokenPair
	Principal authDomain.Principal
}

// RefreshOutput carries the tokens minted by a refresh. Refresh is nil unless the
// refresh token was rotated.
type RefreshOutput struct {
	Access  *authDomain.IssuedToken
	Refresh *authDomain.IssuedToken
}

// SessionUseCase orchestrates the session state machine.
type SessionUseCase interface {
	// Login verifies credentials, issues a token pair and revokes every other
	// outstanding refresh token of the user. Unknown users and wrong passwords both
	// return authDomain.ErrInvalidCredentials.
	Login(ctx context.Context, username, password string) (*LoginOutput, error)

	// Refresh mints a new access token from a valid, non-blacklisted refresh token,
	// rotating the refresh token when configured.
	Refresh(ctx context.Context, rawRefresh string) (*RefreshOutput, error)

	// Logout revokes the refresh token when it validates. Token problems are
	// swallowed; only unexpected store errors are returned.
	Logout(ctx context.Context, rawRefresh string) error

	// Authenticate resolves the principal behind an access token.
	Authenticate(ctx context.Context, rawAccess string) (*authDomain.Principal, *authDomain.Claims, error)

	// CleanupExpired removes outstanding tokens expired for more than days.
	CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error)
}
