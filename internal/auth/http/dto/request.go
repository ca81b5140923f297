// Package dto provides data transfer objects for the session endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/quizly/internal/validation"
)

// LoginRequest contains the credentials posted to /login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks that both credentials were supplied.
func (r *LoginRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Username, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Password, validation.Required),
	)
	return customValidation.WrapValidationError(err)
}
