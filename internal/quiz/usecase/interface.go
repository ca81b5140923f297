// Package usecase implements quiz generation from videos, quiz listing and updates.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/allisson/quizly/internal/quiz/domain"
)

// CreateQuizInput contains the input data for quiz generation.
type CreateQuizInput struct {
	OwnerID  uuid.UUID
	VideoURL string
}

// UpdateQuizInput contains the mutable quiz fields. Nil fields are left unchanged.
type UpdateQuizInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// QuizRepository persists quizzes and their questions.
type QuizRepository interface {
	Create(ctx context.Context, quiz *domain.Quiz) error
	Update(ctx context.Context, quiz *domain.Quiz) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Quiz, error)
	GetByVideoURL(ctx context.Context, videoURL string) (*domain.Quiz, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Quiz, error)
	ReplaceQuestions(ctx context.Context, quizID uuid.UUID, questions []domain.Question) error
}

// UseCase defines the quiz business operations.
type UseCase interface {
	// CreateFromVideo transcribes the video, generates a quiz and stores it. Generating
	// again for a URL that already has a quiz replaces that quiz's content. An invalid
	// URL or invalid generated data is reported as a *apperrors.ValidationError.
	CreateFromVideo(ctx context.Context, input CreateQuizInput) (*domain.Quiz, error)

	// List returns quizzes, newest first.
	List(ctx context.Context, offset, limit int) ([]*domain.Quiz, error)

	// Get returns one quiz with its questions.
	Get(ctx context.Context, id uuid.UUID) (*domain.Quiz, error)

	// Update changes title and description. Ownership is checked by the caller.
	Update(ctx context.Context, id uuid.UUID, input UpdateQuizInput) (*domain.Quiz, error)
}
