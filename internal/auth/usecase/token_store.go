package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/quizly/internal/auth/domain"
	"github.com/allisson/quizly/internal/database"
	apperrors "github.com/allisson/quizly/internal/errors"
)

// tokenStore implements TokenStore over a TokenRepository with an optional cache.
type tokenStore struct {
	txManager database.TxManager
	repo      TokenRepository
	cache     BlacklistCache
	cacheTTL  time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewTokenStore creates a TokenStore. cache may be nil. cacheTTL bounds how long a
// blacklist hit learned from the database stays cached; it should be at least the
// refresh token lifetime.
func NewTokenStore(
	txManager database.TxManager,
	repo TokenRepository,
	cache BlacklistCache,
	cacheTTL time.Duration,
	logger *slog.Logger,
) TokenStore {
	return &tokenStore{
		txManager: txManager,
		repo:      repo,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// RecordOutstanding persists refresh claims as an outstanding token.
func (s *tokenStore) RecordOutstanding(ctx context.Context, claims authDomain.Claims) error {
	if claims.Type != authDomain.TokenTypeRefresh {
		return apperrors.Wrapf(apperrors.ErrInvalidInput, "cannot record %s token as outstanding", claims.Type)
	}
	return s.repo.CreateOutstanding(ctx, authDomain.NewOutstandingToken(claims, s.now()))
}

// Blacklist revokes the token identified by claims. The outstanding record is created
// first when it does not exist. The result is false when the token was already revoked.
func (s *tokenStore) Blacklist(ctx context.Context, claims authDomain.Claims) (bool, error) {
	now := s.now()
	var revoked bool
	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := s.repo.CreateOutstanding(ctx, authDomain.NewOutstandingToken(claims, now)); err != nil {
			return err
		}
		var err error
		revoked, err = s.repo.Blacklist(ctx, claims.ID, now)
		return err
	})
	if err != nil {
		return false, err
	}

	if s.cache != nil {
		if err := s.cache.Add(ctx, claims.ID, claims.ExpiresAt); err != nil {
			s.logger.Warn("failed to cache blacklisted token", slog.String("jti", claims.ID), slog.Any("error", err))
		}
	}
	return revoked, nil
}

// BlacklistAllExcept revokes every outstanding token of userID other than exceptJTI.
func (s *tokenStore) BlacklistAllExcept(ctx context.Context, userID uuid.UUID, exceptJTI string) (int64, error) {
	return s.repo.BlacklistAllExcept(ctx, userID, exceptJTI, s.now())
}

// IsBlacklisted checks the cache first and falls back to the database. Cache failures
// are logged and never fail the lookup.
func (s *tokenStore) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	if s.cache != nil {
		hit, err := s.cache.Contains(ctx, jti)
		if err != nil {
			s.logger.Warn("blacklist cache lookup failed", slog.String("jti", jti), slog.Any("error", err))
		} else if hit {
			return true, nil
		}
	}

	blacklisted, err := s.repo.IsBlacklisted(ctx, jti)
	if err != nil {
		return false, err
	}

	if blacklisted && s.cache != nil {
		if err := s.cache.Add(ctx, jti, s.now().Add(s.cacheTTL)); err != nil {
			s.logger.Warn("failed to cache blacklisted token", slog.String("jti", jti), slog.Any("error", err))
		}
	}
	return blacklisted, nil
}

// CleanupExpired removes outstanding tokens whose expiry is more than days in the past.
// Blacklist entries go with them through the foreign key cascade.
func (s *tokenStore) CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error) {
	if days < 0 {
		return 0, apperrors.Wrapf(apperrors.ErrInvalidInput, "days must be non-negative, got %d", days)
	}

	before := s.now().Add(-time.Duration(days) * 24 * time.Hour)
	if dryRun {
		return s.repo.CountExpired(ctx, before)
	}
	return s.repo.DeleteExpired(ctx, before)
}
