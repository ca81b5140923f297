package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/allisson/quizly/internal/quiz/domain"
)

// fakeTxManager runs fn inline and counts invocations.
type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type mockQuizRepository struct {
	mock.Mock
}

func (m *mockQuizRepository) Create(ctx context.Context, quiz *domain.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *mockQuizRepository) Update(ctx context.Context, quiz *domain.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *mockQuizRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quiz, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quiz), args.Error(1)
}

func (m *mockQuizRepository) GetByVideoURL(ctx context.Context, videoURL string) (*domain.Quiz, error) {
	args := m.Called(ctx, videoURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quiz), args.Error(1)
}

func (m *mockQuizRepository) List(ctx context.Context, offset, limit int) ([]*domain.Quiz, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Quiz), args.Error(1)
}

func (m *mockQuizRepository) ReplaceQuestions(
	ctx context.Context,
	quizID uuid.UUID,
	questions []domain.Question,
) error {
	args := m.Called(ctx, quizID, questions)
	return args.Error(0)
}

type mockTranscriber struct {
	mock.Mock
}

func (m *mockTranscriber) TranscribeVideo(ctx context.Context, url string) (string, error) {
	args := m.Called(ctx, url)
	return args.String(0), args.Error(1)
}

type mockQuizGenerator struct {
	mock.Mock
}

func (m *mockQuizGenerator) GenerateQuizFromTranscript(
	ctx context.Context,
	transcript string,
) (*domain.GeneratedQuiz, error) {
	args := m.Called(ctx, transcript)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeneratedQuiz), args.Error(1)
}
