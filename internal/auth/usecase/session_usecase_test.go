package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/quizly/internal/auth/domain"
	authService "github.com/allisson/quizly/internal/auth/service"
	userDomain "github.com/allisson/quizly/internal/user/domain"
)

type sessionFixture struct {
	users     *mockUserRepository
	store     *mockTokenStore
	passwords *mockPasswordService
	tx        *fakeTxManager
	codec     authService.TokenCodec
	useCase   SessionUseCase
}

func newSessionFixture(t *testing.T, rotate bool) *sessionFixture {
	t.Helper()

	codec, err := authService.NewTokenCodec(authService.TokenCodecConfig{
		Secret:     []byte("0123456789abcdef0123456789abcdef"),
		Issuer:     "quizly",
		AccessTTL:  5 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	})
	require.NoError(t, err)

	f := &sessionFixture{
		users:     &mockUserRepository{},
		store:     &mockTokenStore{},
		passwords: &mockPasswordService{},
		tx:        &fakeTxManager{},
		codec:     codec,
	}
	f.useCase = NewSessionUseCase(
		SessionConfig{RotateRefreshTokens: rotate},
		f.tx, f.users, f.store, codec, f.passwords, discardLogger(),
	)
	return f
}

func testUser() *userDomain.User {
	return &userDomain.User{
		ID:       uuid.Must(uuid.NewV7()),
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hashed",
	}
}

func isRefreshClaims(claims authDomain.Claims) bool {
	return claims.Type == authDomain.TokenTypeRefresh
}

func TestSessionUseCase_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newSessionFixture(t, false)
		user := testUser()

		f.users.On("GetByUsername", ctx, "alice").Return(user, nil).Once()
		f.passwords.On("Verify", "s3cret-pass", "hashed").Return(true).Once()
		f.store.On("RecordOutstanding", ctx, mock.MatchedBy(isRefreshClaims)).Return(nil).Once()
		f.store.On("BlacklistAllExcept", ctx, user.ID, mock.AnythingOfType("string")).Return(int64(2), nil).Once()

		output, err := f.useCase.Login(ctx, "alice", "s3cret-pass")
		require.NoError(t, err)
		assert.Equal(t, user.ID, output.Principal.ID)
		assert.Equal(t, "alice", output.Principal.Username)
		assert.Equal(t, "alice@example.com", output.Principal.Email)
		assert.Equal(t, authDomain.TokenTypeAccess, output.Tokens.Access.Claims.Type)
		assert.Equal(t, authDomain.TokenTypeRefresh, output.Tokens.Refresh.Claims.Type)
		assert.Equal(t, user.ID, output.Tokens.Refresh.Claims.Subject)
		assert.Equal(t, 1, f.tx.calls)

		// The new refresh token is the one kept out of the revocation sweep.
		f.store.AssertCalled(t, "BlacklistAllExcept", ctx, user.ID, output.Tokens.Refresh.Claims.ID)
		f.store.AssertExpectations(t)
	})

	t.Run("Success_TrimsUsername", func(t *testing.T) {
		f := newSessionFixture(t, false)
		user := testUser()

		f.users.On("GetByUsername", ctx, "alice").Return(user, nil).Once()
		f.passwords.On("Verify", "s3cret-pass", "hashed").Return(true).Once()
		f.store.On("RecordOutstanding", ctx, mock.MatchedBy(isRefreshClaims)).Return(nil).Once()
		f.store.On("BlacklistAllExcept", ctx, user.ID, mock.AnythingOfType("string")).Return(int64(0), nil).Once()

		output, err := f.useCase.Login(ctx, "  alice ", "s3cret-pass")
		require.NoError(t, err)
		assert.Equal(t, user.ID, output.Principal.ID)
		f.users.AssertExpectations(t)
	})

	t.Run("Error_UnknownUserBurnsDummyHash", func(t *testing.T) {
		f := newSessionFixture(t, false)

		f.users.On("GetByUsername", ctx, "ghost").Return(nil, userDomain.ErrUserNotFound).Once()
		f.passwords.On("VerifyDummy", "whatever").Return().Once()

		output, err := f.useCase.Login(ctx, "ghost", "whatever")
		assert.Nil(t, output)
		assert.Equal(t, authDomain.ErrInvalidCredentials, err)
		f.passwords.AssertExpectations(t)
		f.store.AssertNotCalled(t, "RecordOutstanding", mock.Anything, mock.Anything)
	})

	t.Run("Error_WrongPassword", func(t *testing.T) {
		f := newSessionFixture(t, false)
		user := testUser()

		f.users.On("GetByUsername", ctx, "alice").Return(user, nil).Once()
		f.passwords.On("Verify", "wrong", "hashed").Return(false).Once()

		output, err := f.useCase.Login(ctx, "alice", "wrong")
		assert.Nil(t, output)
		assert.Equal(t, authDomain.ErrInvalidCredentials, err)
		assert.Equal(t, 0, f.tx.calls)
	})

	t.Run("Error_RepositoryFailure", func(t *testing.T) {
		f := newSessionFixture(t, false)
		dbErr := errors.New("connection refused")

		f.users.On("GetByUsername", ctx, "alice").Return(nil, dbErr).Once()

		_, err := f.useCase.Login(ctx, "alice", "pw")
		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, authDomain.ErrInvalidCredentials)
	})

	t.Run("Error_StoreFailure", func(t *testing.T) {
		f := newSessionFixture(t, false)
		user := testUser()
		storeErr := errors.New("disk full")

		f.users.On("GetByUsername", ctx, "alice").Return(user, nil).Once()
		f.passwords.On("Verify", "pw", "hashed").Return(true).Once()
		f.store.On("RecordOutstanding", ctx, mock.Anything).Return(storeErr).Once()

		output, err := f.useCase.Login(ctx, "alice", "pw")
		assert.Nil(t, output)
		assert.ErrorIs(t, err, storeErr)
		f.store.AssertNotCalled(t, "BlacklistAllExcept", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSessionUseCase_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_WithoutRotation", func(t *testing.T) {
		f := newSessionFixture(t, false)
		user := testUser()
		refresh, err := f.codec.IssueRefreshToken(user.ID)
		require.NoError(t, err)

		f.store.On("IsBlacklisted", ctx, refresh.Claims.ID).Return(false, nil).Once()
		f.users.On("GetByID", ctx, user.ID).Return(user, nil).Once()

		output, err := f.useCase.Refresh(ctx, refresh.Raw)
		require.NoError(t, err)
		assert.Nil(t, output.Refresh)
		require.NotNil(t, output.Access)
		assert.Equal(t, user.ID, output.Access.Claims.Subject)
		assert.Equal(t, authDomain.TokenTypeAccess, output.Access.Claims.Type)
		f.store.AssertNotCalled(t, "Blacklist", mock.Anything, mock.Anything)
	})

	t.Run("Success_WithRotation", func(t *testing.T) {
		f := newSessionFixture(t, true)
		user := testUser()
		refresh, err := f.codec.IssueRefreshToken(user.ID)
		require.NoError(t, err)

		f.store.On("IsBlacklisted", ctx, refresh.Claims.ID).Return(false, nil).Once()
		f.users.On("GetByID", ctx, user.ID).Return(user, nil).Once()
		f.store.On("RecordOutstanding", ctx, mock.MatchedBy(func(c authDomain.Claims) bool {
			return c.Type == authDomain.TokenTypeRefresh && c.ID != refresh.Claims.ID
		})).Return(nil).Once()
		f.store.On("Blacklist", ctx, mock.MatchedBy(func(c authDomain.Claims) bool {
			return c.ID == refresh.Claims.ID
		})).Return(true, nil).Once()

		output, err := f.useCase.Refresh(ctx, refresh.Raw)
		require.NoError(t, err)
		require.NotNil(t, output.Refresh)
		assert.NotEqual(t, refresh.Claims.ID, output.Refresh.Claims.ID)
		assert.Equal(t, 1, f.tx.calls)
		f.store.AssertExpectations(t)
	})

	t.Run("Error_Missing", func(t *testing.T) {
		f := newSessionFixture(t, false)

		_, err := f.useCase.Refresh(ctx, "")
		assert.ErrorIs(t, err, authDomain.ErrNotAuthenticated)
	})

	t.Run("Error_AccessTokenPresented", func(t *testing.T) {
		f := newSessionFixture(t, false)
		access, err := f.codec.IssueAccessToken(uuid.Must(uuid.NewV7()))
		require.NoError(t, err)

		_, err = f.useCase.Refresh(ctx, access.Raw)
		assert.ErrorIs(t, err, authDomain.ErrInvalidToken)
	})

	t.Run("Error_Garbage", func(t *testing.T) {
		f := newSessionFixture(t, false)

		_, err := f.useCase.Refresh(ctx, "garbage")
		assert.ErrorIs(t, err, authDomain.ErrInvalidToken)
	})

	t.Run("Error_Blacklisted", func(t *testing.T) {
		f := newSessionFixture(t, false)
		refresh, err := f.codec.IssueRefreshToken(uuid.Must(uuid.NewV7()))
		require.NoError(t, err)

		f.store.On("IsBlacklisted", ctx, refresh.Claims.ID).Return(true, nil).Once()

		output, err := f.useCase.Refresh(ctx, refresh.Raw)
		assert.Nil(t, output)
		assert.ErrorIs(t, err, authDomain.ErrInvalidToken)
		f.users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("Error_UserDeleted", func(t *testing.T) {
		f := newSessionFixture(t, false)
		userID := uuid.Must(uuid.NewV7())
		refresh, err := f.codec.IssueRefreshToken(userID)
		require.NoError(t, err)

		f.store.On("IsBlacklisted", ctx, refresh.Claims.ID).Return(false, nil).Once()
		f.users.On("GetByID", ctx, userID).Return(nil, userDomain.ErrUserNotFound).Once()

		_, err = f.useCase.Refresh(ctx, refresh.Raw)
		assert.ErrorIs(t, err, authDomain.ErrInvalidToken)
	})

	t.Run("Error_StoreFailure", func(t *testing.T) {
		f := newSessionFixture(t, false)
		refresh, err := f.codec.IssueRefreshToken(uuid.Must(uuid.NewV7()))
		require.NoError(t, err)
		storeErr := errors.New("timeout")

		f.store.On("IsBlacklisted", ctx, refresh.Claims.ID).Return(false, storeErr).Once()

		_, err = f.useCase.Refresh(ctx, refresh.Raw)
		assert.ErrorIs(t, err, storeErr)
		assert.NotErrorIs(t, err, authDomain.ErrInvalidToken)
	})
}

func TestSessionUseCase_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_BlacklistsValidToken", func(t *testing.T) {
		f := newSessionFixture(t, false)
		refresh, err := f.codec.IssueRefreshToken(uuid.Must(uuid.NewV7()))
		require.NoError(t, err)

		f.store.On("Blacklist", ctx, mock.MatchedBy(func(c authDomain.Claims) bool {
			return c.ID == refresh.Claims.ID
		})).Return(true, nil).Once()

		assert.NoError(t, f.useCase.Logout(ctx, refresh.Raw))
		f.store.AssertExpectations(t)
	})

	t.Run("Success_MissingToken", func(t *testing.T) {
		f := newSessionFixture(t, false)

		assert.NoError(t, f.useCase.Logout(ctx, ""))
		f.store.AssertNotCalled(t, "Blacklist", mock.Anything, mock.Anything)
	})

	t.Run("Success_GarbageTokenIgnored", func(t *testing.T) {
		f := newSessionFixture(t, false)

		assert.NoError(t, f.useCase.Logout(ctx, "not-a-token"))
		f.store.AssertNotCalled(t, "Blacklist", mock.Anything, mock.Anything)
	})

	t.Run("Error_StoreFailure", func(t *testing.T) {
		f := newSessionFixture(t, false)
		refresh, err := f.codec.IssueRefreshToken(uuid.Must(uuid.NewV7()))
		require.NoError(t, err)
		storeErr := errors.New("database unavailable")

		f.store.On("Blacklist", ctx, mock.Anything).Return(false, storeErr).Once()

		assert.ErrorIs(t, f.useCase.Logout(ctx, refresh.Raw), storeErr)
	})
}

func TestSessionUseCase_Authenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newSessionFixture(t, false)
		user := testUser()
		access, err := f.codec.IssueAccessToken(user.ID)
		require.NoError(t, err)

		f.users.On("GetByID", ctx, user.ID).Return(user, nil).Once()

		principal, claims, err := f.useCase.Authenticate(ctx, access.Raw)
		require.NoError(t, err)
		assert.Equal(t, &authDomain.Principal{ID: user.ID, Username: "alice", Email: "alice@example.com"}, principal)
		assert.Equal(t, access.Claims.ID, claims.ID)
	})

	t.Run("Error_Empty", func(t *testing.T) {
		f := newSessionFixture(t, false)

		_, _, err := f.useCase.Authenticate(ctx, "")
		assert.ErrorIs(t, err, authDomain.ErrNotAuthenticated)
	})

	t.Run("Error_RefreshTokenPresented", func(t *testing.T) {
		f := newSessionFixture(t, false)
		refresh, err := f.codec.IssueRefreshToken(uuid.Must(uuid.NewV7()))
		require.NoError(t, err)

		principal, _, err := f.useCase.Authenticate(ctx, refresh.Raw)
		assert.Nil(t, principal)
		assert.ErrorIs(t, err, authDomain.ErrInvalidToken)
	})

	t.Run("Error_UserDeleted", func(t *testing.T) {
		f := newSessionFixture(t, false)
		userID := uuid.Must(uuid.NewV7())
		access, err := f.codec.IssueAccessToken(userID)
		require.NoError(t, err)

		f.users.On("GetByID", ctx, userID).Return(nil, userDomain.ErrUserNotFound).Once()

		_, _, err = f.useCase.Authenticate(ctx, access.Raw)
		assert.ErrorIs(t, err, authDomain.ErrInvalidToken)
	})
}

func TestSessionUseCase_CleanupExpired(t *testing.T) {
	ctx := context.Background()
	f := newSessionFixture(t, false)

	f.store.On("CleanupExpired", ctx, 30, true).Return(int64(5), nil).Once()

	count, err := f.useCase.CleanupExpired(ctx, 30, true)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}
