// Package mocks provides mock implementations of the quiz use case for testing.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/allisson/quizly/internal/quiz/domain"
	"github.com/allisson/quizly/internal/quiz/usecase"
)

// MockQuizUseCase is a mock implementation of usecase.UseCase.
type MockQuizUseCase struct {
	mock.Mock
}

// CreateFromVideo mocks the CreateFromVideo method.
func (m *MockQuizUseCase) CreateFromVideo(ctx context.Context, input usecase.CreateQuizInput) (*domain.Quiz, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quiz), args.Error(1)
}

// List mocks the List method.
func (m *MockQuizUseCase) List(ctx context.Context, offset, limit int) ([]*domain.Quiz, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Quiz), args.Error(1)
}

// Get mocks the Get method.
func (m *MockQuizUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.Quiz, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quiz), args.Error(1)
}

// Update mocks the Update method.
func (m *MockQuizUseCase) Update(ctx context.Context, id uuid.UUID, input usecase.UpdateQuizInput) (*domain.Quiz, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quiz), args.Error(1)
}
