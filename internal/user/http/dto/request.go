// Package dto provides data transfer objects for the user HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	"github.com/allisson/quizly/internal/user/usecase"
	appValidation "github.com/allisson/quizly/internal/validation"
)

// RegisterUserRequest represents the API request for user registration.
type RegisterUserRequest struct {
	Username          string `json:"username"`
	Email             string `json:"email"`
	Password          string `json:"password"`
	ConfirmedPassword string `json:"confirmed_password"`
}

// Validate checks that every field was supplied. Format and uniqueness rules are
// enforced by the use case.
func (r *RegisterUserRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Username, validation.Required, appValidation.NotBlank),
		validation.Field(&r.Email, validation.Required, appValidation.NotBlank),
		validation.Field(&r.Password, validation.Required),
		validation.Field(&r.ConfirmedPassword, validation.Required),
	)
	return appValidation.WrapValidationError(err)
}

// ToRegisterUserInput converts the request to the use case input.
func (r *RegisterUserRequest) ToRegisterUserInput() usecase.RegisterUserInput {
	return usecase.RegisterUserInput{
		Username:          r.Username,
		Email:             r.Email,
		Password:          r.Password,
		ConfirmedPassword: r.ConfirmedPassword,
	}
}
