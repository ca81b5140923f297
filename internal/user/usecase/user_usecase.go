// Package usecase implements user registration.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/quizly/internal/errors"
	"github.com/allisson/quizly/internal/user/domain"
	appValidation "github.com/allisson/quizly/internal/validation"
)

// RegisterUserInput contains the input data for user registration.
type RegisterUserInput struct {
	Username          string `json:"username"`
	Email             string `json:"email"`
	Password          string `json:"password"`
	ConfirmedPassword string `json:"confirmed_password"`
}

// UseCase defines the interface for user business logic operations.
type UseCase interface {
	// RegisterUser creates an account. Every rule violation is reported as a
	// *apperrors.ValidationError keyed by input field. No tokens are issued.
	RegisterUser(ctx context.Context, input RegisterUserInput) (*domain.User, error)
}

// UserRepository interface defines user repository operations.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// PasswordHasher produces the stored password hash.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// UserUseCase handles user-related business logic.
type UserUseCase struct {
	userRepo UserRepository
	hasher   PasswordHasher
	now      func() time.Time
}

// NewUserUseCase creates a new UserUseCase.
func NewUserUseCase(userRepo UserRepository, hasher PasswordHasher) UseCase {
	return &UserUseCase{
		userRepo: userRepo,
		hasher:   hasher,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

const (
	minPasswordLength = 8
	maxPasswordLength = 128
)

// validateRegisterUserInput checks field formats. Passwords are only bounded by length.
func (uc *UserUseCase) validateRegisterUserInput(input *RegisterUserInput) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.Username,
			validation.Required,
			appValidation.NotBlank,
			validation.Length(1, 150),
			appValidation.Username,
		),
		validation.Field(&input.Email,
			validation.Required,
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(3, 254),
		),
		validation.Field(&input.Password,
			validation.Required,
			appValidation.Password{Min: minPasswordLength, Max: maxPasswordLength},
		),
		validation.Field(&input.ConfirmedPassword, validation.Required),
	)
	return appValidation.WrapValidationError(err)
}

// checkAvailability reports password mismatch and taken email or username as field errors.
func (uc *UserUseCase) checkAvailability(ctx context.Context, input *RegisterUserInput) error {
	verr := &apperrors.ValidationError{}

	if input.Password != input.ConfirmedPassword {
		verr.Add("confirmed_password", domain.MsgPasswordsDoNotMatch)
	}

	_, err := uc.userRepo.GetByEmail(ctx, domain.NormalizeEmail(input.Email))
	switch {
	case err == nil:
		verr.Add("email", domain.MsgEmailExists)
	case !apperrors.Is(err, domain.ErrUserNotFound):
		return err
	}

	_, err = uc.userRepo.GetByUsername(ctx, input.Username)
	switch {
	case err == nil:
		verr.Add("username", domain.MsgUsernameExists)
	case !apperrors.Is(err, domain.ErrUserNotFound):
		return err
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

// RegisterUser validates the input, checks uniqueness and stores the new user.
func (uc *UserUseCase) RegisterUser(ctx context.Context, input RegisterUserInput) (*domain.User, error) {
	input.Username = domain.NormalizeUsername(input.Username)

	if err := uc.validateRegisterUserInput(&input); err != nil {
		return nil, err
	}
	if err := uc.checkAvailability(ctx, &input); err != nil {
		return nil, err
	}

	hashedPassword, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to hash password")
	}

	now := uc.now()
	user := &domain.User{
		ID:        uuid.Must(uuid.NewV7()),
		Username:  input.Username,
		Email:     domain.NormalizeEmail(input.Email),
		Password:  hashedPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		if apperrors.Is(err, domain.ErrUserAlreadyExists) {
			// Lost a race against a concurrent registration; report which field collided.
			if availErr := uc.checkAvailability(ctx, &input); availErr != nil {
				return nil, availErr
			}
		}
		return nil, err
	}

	return user, nil
}
