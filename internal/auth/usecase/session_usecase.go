package usecase

import (
	"context"
	"log/slog"

	authDomain "github.com/allisson/quizly/internal/auth/domain"
	authService "github.com/allisson/quizly/internal/auth/service"
	"github.com/allisson/quizly/internal/database"
	apperrors "github.com/allisson/quizly/internal/errors"
	userDomain "github.com/allisson/quizly/internal/user/domain"
)

// SessionConfig holds the session lifecycle options.
type SessionConfig struct {
	RotateRefreshTokens bool
}

type sessionUseCase struct {
	cfg       SessionConfig
	txManager database.TxManager
	users     UserRepository
	store     TokenStore
	codec     authService.TokenCodec
	passwords authService.PasswordService
	logger    *slog.Logger
}

// NewSessionUseCase creates a SessionUseCase.
func NewSessionUseCase(
	cfg SessionConfig,
	txManager database.TxManager,
	users UserRepository,
	store TokenStore,
	codec authService.TokenCodec,
	passwords authService.PasswordService,
	logger *slog.Logger,
) SessionUseCase {
	return &sessionUseCase{
		cfg:       cfg,
		txManager: txManager,
		users:     users,
		store:     store,
		codec:     codec,
		passwords: passwords,
		logger:    logger,
	}
}

// Login verifies credentials and opens a new session. Any refresh token the user held
// before is blacklisted in the same transaction that records the new one.
func (s *sessionUseCase) Login(ctx context.Context, username, password string) (*LoginOutput, error) {
	user, err := s.users.GetByUsername(ctx, userDomain.NormalizeUsername(username))
	if err != nil {
		if apperrors.Is(err, userDomain.ErrUserNotFound) {
			s.passwords.VerifyDummy(password)
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.passwords.Verify(password, user.Password) {
		return nil, authDomain.ErrInvalidCredentials
	}

	access, err := s.codec.IssueAccessToken(user.ID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.codec.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := s.store.RecordOutstanding(ctx, refresh.Claims); err != nil {
			return err
		}
		revoked, err := s.store.BlacklistAllExcept(ctx, user.ID, refresh.Claims.ID)
		if err != nil {
			return err
		}
		if revoked > 0 {
			s.logger.Debug("revoked previous sessions",
				slog.String("user_id", user.ID.String()),
				slog.Int64("count", revoked),
			)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		Tokens: authDomain.TokenPair{Access: access, Refresh: refresh},
		Principal: authDomain.Principal{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		},
	}, nil
}

// Refresh mints a new access token. With rotation enabled the presented refresh token
// is blacklisted and a new one is recorded atomically. Only the first of several
// concurrent rotations of the same token wins; the others fail with ErrInvalidToken
// and their new outstanding record is rolled back.
func (s *sessionUseCase) Refresh(ctx context.Context, rawRefresh string) (*RefreshOutput, error) {
	if rawRefresh == "" {
		return nil, authDomain.ErrNotAuthenticated
	}

	claims, err := s.codec.Validate(rawRefresh, authDomain.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	blacklisted, err := s.store.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return nil, apperrors.Wrap(authDomain.ErrInvalidToken, "token is blacklisted")
	}

	if _, err := s.users.GetByID(ctx, claims.Subject); err != nil {
		if apperrors.Is(err, userDomain.ErrUserNotFound) {
			return nil, apperrors.Wrap(authDomain.ErrInvalidToken, "user not found")
		}
		return nil, err
	}

	access, err := s.codec.IssueAccessToken(claims.Subject)
	if err != nil {
		return nil, err
	}
	output := &RefreshOutput{Access: access}

	if !s.cfg.RotateRefreshTokens {
		return output, nil
	}

	refresh, err := s.codec.IssueRefreshToken(claims.Subject)
	if err != nil {
		return nil, err
	}
	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := s.store.RecordOutstanding(ctx, refresh.Claims); err != nil {
			return err
		}
		revoked, err := s.store.Blacklist(ctx, *claims)
		if err != nil {
			return err
		}
		if !revoked {
			return apperrors.Wrap(authDomain.ErrInvalidToken, "token already used")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	output.Refresh = refresh
	return output, nil
}

// Logout blacklists the refresh token when it validates. Invalid, expired or missing
// tokens are not an error: the session is considered closed either way.
func (s *sessionUseCase) Logout(ctx context.Context, rawRefresh string) error {
	if rawRefresh == "" {
		return nil
	}

	claims, err := s.codec.Validate(rawRefresh, authDomain.TokenTypeRefresh)
	if err != nil {
		s.logger.Debug("logout with unusable refresh token", slog.Any("error", err))
		return nil
	}

	_, err = s.store.Blacklist(ctx, *claims)
	return err
}

// Authenticate validates an access token and loads the user it was issued to.
func (s *sessionUseCase) Authenticate(
	ctx context.Context,
	rawAccess string,
) (*authDomain.Principal, *authDomain.Claims, error) {
	if rawAccess == "" {
		return nil, nil, authDomain.ErrNotAuthenticated
	}

	claims, err := s.codec.Validate(rawAccess, authDomain.TokenTypeAccess)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if apperrors.Is(err, userDomain.ErrUserNotFound) {
			return nil, nil, apperrors.Wrap(authDomain.ErrInvalidToken, "user not found")
		}
		return nil, nil, err
	}

	return &authDomain.Principal{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}, claims, nil
}

// CleanupExpired removes outstanding tokens expired for more than days.
func (s *sessionUseCase) CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error) {
	return s.store.CleanupExpired(ctx, days, dryRun)
}
