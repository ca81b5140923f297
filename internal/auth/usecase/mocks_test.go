package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/quizly/internal/auth/domain"
	userDomain "github.com/allisson/quizly/internal/user/domain"
)

// fakeTxManager runs fn inline and counts invocations.
type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type mockTokenRepository struct {
	mock.Mock
}

func (m *mockTokenRepository) CreateOutstanding(ctx context.Context, token *authDomain.OutstandingToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockTokenRepository) Blacklist(ctx context.Context, jti string, at time.Time) (bool, error) {
	args := m.Called(ctx, jti, at)
	return args.Bool(0), args.Error(1)
}

func (m *mockTokenRepository) BlacklistAllExcept(
	ctx context.Context,
	userID uuid.UUID,
	exceptJTI string,
	at time.Time,
) (int64, error) {
	args := m.Called(ctx, userID, exceptJTI, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTokenRepository) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

func (m *mockTokenRepository) CountExpired(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

type mockBlacklistCache struct {
	mock.Mock
}

func (m *mockBlacklistCache) Add(ctx context.Context, jti string, expiresAt time.Time) error {
	args := m.Called(ctx, jti, expiresAt)
	return args.Error(0)
}

func (m *mockBlacklistCache) Contains(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*userDomain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

type mockTokenStore struct {
	mock.Mock
}

func (m *mockTokenStore) RecordOutstanding(ctx context.Context, claims authDomain.Claims) error {
	args := m.Called(ctx, claims)
	return args.Error(0)
}

func (m *mockTokenStore) Blacklist(ctx context.Context, claims authDomain.Claims) (bool, error) {
	args := m.Called(ctx, claims)
	return args.Bool(0), args.Error(1)
}

func (m *mockTokenStore) BlacklistAllExcept(ctx context.Context, userID uuid.UUID, exceptJTI string) (int64, error) {
	args := m.Called(ctx, userID, exceptJTI)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTokenStore) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

func (m *mockTokenStore) CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error) {
	args := m.Called(ctx, days, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

type mockPasswordService struct {
	mock.Mock
}

func (m *mockPasswordService) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *mockPasswordService) Verify(password, hash string) bool {
	args := m.Called(password, hash)
	return args.Bool(0)
}

func (m *mockPasswordService) VerifyDummy(password string) {
	m.Called(password)
}
