// Package mocks provides mock implementations of the auth use cases for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/quizly/internal/auth/domain"
	"github.com/allisson/quizly/internal/auth/usecase"
)

// MockSessionUseCase is a mock implementation of usecase.SessionUseCase.
type MockSessionUseCase struct {
	mock.Mock
}

// Login mocks the Login method.
func (m *MockSessionUseCase) Login(ctx context.Context, username, password string) (*usecase.LoginOutput, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.LoginOutput), args.Error(1)
}

// Refresh mocks the Refresh method.
func (m *MockSessionUseCase) Refresh(ctx context.Context, rawRefresh string) (*usecase.RefreshOutput, error) {
	args := m.Called(ctx, rawRefresh)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.RefreshOutput), args.Error(1)
}

// Logout mocks the Logout method.
func (m *MockSessionUseCase) Logout(ctx context.Context, rawRefresh string) error {
	args := m.Called(ctx, rawRefresh)
	return args.Error(0)
}

// Authenticate mocks the Authenticate method.
func (m *MockSessionUseCase) Authenticate(
	ctx context.Context,
	rawAccess string,
) (*authDomain.Principal, *authDomain.Claims, error) {
	args := m.Called(ctx, rawAccess)
	var principal *authDomain.Principal
	if p := args.Get(0); p != nil {
		principal = p.(*authDomain.Principal)
	}
	var claims *authDomain.Claims
	if c := args.Get(1); c != nil {
		claims = c.(*authDomain.Claims)
	}
	return principal, claims, args.Error(2)
}

// CleanupExpired mocks the CleanupExpired method.
func (m *MockSessionUseCase) CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error) {
	args := m.Called(ctx, days, dryRun)
	return args.Get(0).(int64), args.Error(1)
}
