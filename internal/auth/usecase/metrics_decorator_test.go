package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/quizly/internal/auth/domain"
	"github.com/allisson/quizly/internal/auth/usecase"
	usecaseMocks "github.com/allisson/quizly/internal/auth/usecase/mocks"
)

// mockBusinessMetrics is a local mock for metrics.BusinessMetrics to avoid dependency issues.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func expectMetrics(ctx context.Context, m *mockBusinessMetrics, operation, status string) {
	m.On("RecordOperation", ctx, "auth", operation, status).Return().Once()
	m.On("RecordDuration", ctx, "auth", operation, mock.AnythingOfType("time.Duration"), status).
		Return().
		Once()
}

func TestSessionUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()

	t.Run("Login success", func(t *testing.T) {
		mockNext := &usecaseMocks.MockSessionUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := usecase.NewSessionUseCaseWithMetrics(mockNext, mockMetrics)
		output := &usecase.LoginOutput{Principal: authDomain.Principal{Username: "alice"}}

		mockNext.On("Login", ctx, "alice", "pw").Return(output, nil).Once()
		expectMetrics(ctx, mockMetrics, "session_login", "success")

		res, err := uc.Login(ctx, "alice", "pw")
		assert.NoError(t, err)
		assert.Equal(t, output, res)
		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Login error", func(t *testing.T) {
		mockNext := &usecaseMocks.MockSessionUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := usecase.NewSessionUseCaseWithMetrics(mockNext, mockMetrics)

		mockNext.On("Login", ctx, "alice", "bad").Return(nil, authDomain.ErrInvalidCredentials).Once()
		expectMetrics(ctx, mockMetrics, "session_login", "error")

		res, err := uc.Login(ctx, "alice", "bad")
		assert.Nil(t, res)
		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Refresh success", func(t *testing.T) {
		mockNext := &usecaseMocks.MockSessionUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := usecase.NewSessionUseCaseWithMetrics(mockNext, mockMetrics)
		output := &usecase.RefreshOutput{Access: &authDomain.IssuedToken{Raw: "access"}}

		mockNext.On("Refresh", ctx, "raw").Return(output, nil).Once()
		expectMetrics(ctx, mockMetrics, "session_refresh", "success")

		res, err := uc.Refresh(ctx, "raw")
		assert.NoError(t, err)
		assert.Equal(t, output, res)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Logout error", func(t *testing.T) {
		mockNext := &usecaseMocks.MockSessionUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := usecase.NewSessionUseCaseWithMetrics(mockNext, mockMetrics)

		mockNext.On("Logout", ctx, "raw").Return(errors.New("db down")).Once()
		expectMetrics(ctx, mockMetrics, "session_logout", "error")

		assert.Error(t, uc.Logout(ctx, "raw"))
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Authenticate success", func(t *testing.T) {
		mockNext := &usecaseMocks.MockSessionUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := usecase.NewSessionUseCaseWithMetrics(mockNext, mockMetrics)
		principal := &authDomain.Principal{Username: "alice"}
		claims := &authDomain.Claims{ID: "jti"}

		mockNext.On("Authenticate", ctx, "raw").Return(principal, claims, nil).Once()
		expectMetrics(ctx, mockMetrics, "session_authenticate", "success")

		p, c, err := uc.Authenticate(ctx, "raw")
		assert.NoError(t, err)
		assert.Equal(t, principal, p)
		assert.Equal(t, claims, c)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("CleanupExpired success", func(t *testing.T) {
		mockNext := &usecaseMocks.MockSessionUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := usecase.NewSessionUseCaseWithMetrics(mockNext, mockMetrics)

		mockNext.On("CleanupExpired", ctx, 7, false).Return(int64(3), nil).Once()
		expectMetrics(ctx, mockMetrics, "token_cleanup", "success")

		count, err := uc.CleanupExpired(ctx, 7, false)
		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)
		mockMetrics.AssertExpectations(t)
	})
}
