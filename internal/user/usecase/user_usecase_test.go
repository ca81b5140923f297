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

	apperrors "github.com/allisson/quizly/internal/errors"
	"github.com/allisson/quizly/internal/user/domain"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockPasswordHasher is a mock implementation of PasswordHasher
type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func validInput() RegisterUserInput {
	return RegisterUserInput{
		Username:          "alice",
		Email:             "Alice@Example.com",
		Password:          "s3cret-pass",
		ConfirmedPassword: "s3cret-pass",
	}
}

func fieldErrors(t *testing.T, err error) map[string][]string {
	t.Helper()
	var verr *apperrors.ValidationError
	require.True(t, apperrors.As(err, &verr), "expected validation error, got %v", err)
	return verr.Fields
}

func newTestUseCase(repo *MockUserRepository, hasher *MockPasswordHasher) *UserUseCase {
	uc := NewUserUseCase(repo, hasher).(*UserUseCase)
	uc.now = func() time.Time { return time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC) }
	return uc
}

func TestUserUseCase_RegisterUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := &MockUserRepository{}
		hasher := &MockPasswordHasher{}
		uc := newTestUseCase(repo, hasher)

		repo.On("GetByEmail", ctx, "alice@example.com").Return(nil, domain.ErrUserNotFound).Once()
		repo.On("GetByUsername", ctx, "alice").Return(nil, domain.ErrUserNotFound).Once()
		hasher.On("Hash", "s3cret-pass").Return("$argon2id$hash", nil).Once()
		repo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.Username == "alice" &&
				u.Email == "alice@example.com" &&
				u.Password == "$argon2id$hash" &&
				u.ID != uuid.Nil &&
				!u.CreatedAt.IsZero()
		})).Return(nil).Once()

		user, err := uc.RegisterUser(ctx, validInput())
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", user.Email)
		repo.AssertExpectations(t)
		hasher.AssertExpectations(t)
	})

	t.Run("Error_FieldFormats", func(t *testing.T) {
		repo := &MockUserRepository{}
		uc := newTestUseCase(repo, &MockPasswordHasher{})

		_, err := uc.RegisterUser(ctx, RegisterUserInput{
			Username:          "bad name!",
			Email:             "not-an-email",
			Password:          "short",
			ConfirmedPassword: "short",
		})

		fields := fieldErrors(t, err)
		assert.Contains(t, fields, "username")
		assert.Contains(t, fields, "email")
		assert.Equal(t, []string{"password must be at least 8 characters"}, fields["password"])
		repo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	})

	t.Run("Error_MissingFields", func(t *testing.T) {
		uc := newTestUseCase(&MockUserRepository{}, &MockPasswordHasher{})

		_, err := uc.RegisterUser(ctx, RegisterUserInput{})

		fields := fieldErrors(t, err)
		for _, field := range []string{"username", "email", "password", "confirmed_password"} {
			assert.Contains(t, fields, field)
		}
	})

	t.Run("Error_PasswordsDoNotMatch", func(t *testing.T) {
		repo := &MockUserRepository{}
		uc := newTestUseCase(repo, &MockPasswordHasher{})
		input := validInput()
		input.ConfirmedPassword = "different-pass"

		repo.On("GetByEmail", ctx, "alice@example.com").Return(nil, domain.ErrUserNotFound).Once()
		repo.On("GetByUsername", ctx, "alice").Return(nil, domain.ErrUserNotFound).Once()

		_, err := uc.RegisterUser(ctx, input)

		assert.Equal(t, map[string][]string{
			"confirmed_password": {domain.MsgPasswordsDoNotMatch},
		}, fieldErrors(t, err))
	})

	t.Run("Error_EmailExists", func(t *testing.T) {
		repo := &MockUserRepository{}
		uc := newTestUseCase(repo, &MockPasswordHasher{})
		input := validInput()
		input.Username = "alice2"

		repo.On("GetByEmail", ctx, "alice@example.com").Return(&domain.User{Username: "alice"}, nil).Once()
		repo.On("GetByUsername", ctx, "alice2").Return(nil, domain.ErrUserNotFound).Once()

		_, err := uc.RegisterUser(ctx, input)

		assert.Equal(t, map[string][]string{"email": {domain.MsgEmailExists}}, fieldErrors(t, err))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_UsernameExists", func(t *testing.T) {
		repo := &MockUserRepository{}
		uc := newTestUseCase(repo, &MockPasswordHasher{})
		input := validInput()
		input.Email = "other@example.com"

		repo.On("GetByEmail", ctx, "other@example.com").Return(nil, domain.ErrUserNotFound).Once()
		repo.On("GetByUsername", ctx, "alice").Return(&domain.User{Username: "alice"}, nil).Once()

		_, err := uc.RegisterUser(ctx, input)

		assert.Equal(t, map[string][]string{"username": {domain.MsgUsernameExists}}, fieldErrors(t, err))
	})

	t.Run("Error_ConcurrentRegistration", func(t *testing.T) {
		repo := &MockUserRepository{}
		hasher := &MockPasswordHasher{}
		uc := newTestUseCase(repo, hasher)

		repo.On("GetByEmail", ctx, "alice@example.com").Return(nil, domain.ErrUserNotFound).Once()
		repo.On("GetByUsername", ctx, "alice").Return(nil, domain.ErrUserNotFound).Once()
		hasher.On("Hash", "s3cret-pass").Return("hash", nil).Once()
		repo.On("Create", ctx, mock.Anything).Return(domain.ErrUserAlreadyExists).Once()
		repo.On("GetByEmail", ctx, "alice@example.com").Return(nil, domain.ErrUserNotFound).Once()
		repo.On("GetByUsername", ctx, "alice").Return(&domain.User{Username: "alice"}, nil).Once()

		_, err := uc.RegisterUser(ctx, validInput())

		assert.Equal(t, map[string][]string{"username": {domain.MsgUsernameExists}}, fieldErrors(t, err))
	})

	t.Run("Error_RepositoryFailure", func(t *testing.T) {
		repo := &MockUserRepository{}
		uc := newTestUseCase(repo, &MockPasswordHasher{})
		dbErr := errors.New("connection refused")

		repo.On("GetByEmail", ctx, "alice@example.com").Return(nil, dbErr).Once()

		_, err := uc.RegisterUser(ctx, validInput())
		assert.ErrorIs(t, err, dbErr)
	})
}

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

type stubUseCase struct {
	err error
}

func (s *stubUseCase) RegisterUser(ctx context.Context, input RegisterUserInput) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.User{Username: input.Username}, nil
}

func TestUserUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()

	for _, tc := range []struct {
		name   string
		err    error
		status string
	}{
		{"success", nil, "success"},
		{"error", apperrors.NewValidationError("email", domain.MsgEmailExists), "error"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			m := &mockBusinessMetrics{}
			m.On("RecordOperation", ctx, "user", "user_register", tc.status).Return().Once()
			m.On("RecordDuration", ctx, "user", "user_register", mock.AnythingOfType("time.Duration"), tc.status).
				Return().
				Once()

			uc := NewUserUseCaseWithMetrics(&stubUseCase{err: tc.err}, m)
			_, err := uc.RegisterUser(ctx, validInput())

			assert.Equal(t, tc.err, err)
			m.AssertExpectations(t)
		})
	}
}
