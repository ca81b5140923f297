// Package dto provides data transfer objects for the quiz HTTP layer.
package dto

import (
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/allisson/quizly/internal/quiz/usecase"
	appValidation "github.com/allisson/quizly/internal/validation"
)

// CreateQuizRequest represents the API request for quiz generation.
type CreateQuizRequest struct {
	URL string `json:"url"`
}

// Validate checks that a URL was supplied. Its format is checked by the use case.
func (r *CreateQuizRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.URL, validation.Required, appValidation.NotBlank),
	)
	return appValidation.WrapValidationError(err)
}

// ToCreateQuizInput converts the request to the use case input.
func (r *CreateQuizRequest) ToCreateQuizInput(ownerID uuid.UUID) usecase.CreateQuizInput {
	return usecase.CreateQuizInput{
		OwnerID:  ownerID,
		VideoURL: r.URL,
	}
}

// UpdateQuizRequest represents a partial quiz update. Absent fields are left unchanged.
type UpdateQuizRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// ToUpdateQuizInput converts the request to the use case input.
func (r *UpdateQuizRequest) ToUpdateQuizInput() usecase.UpdateQuizInput {
	return usecase.UpdateQuizInput{
		Title:       r.Title,
		Description: r.Description,
	}
}
