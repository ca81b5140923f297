package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/quizly/internal/metrics"
	"github.com/allisson/quizly/internal/quiz/domain"
)

// quizUseCaseWithMetrics decorates UseCase with metrics instrumentation.
type quizUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewQuizUseCaseWithMetrics wraps a UseCase with metrics recording.
func NewQuizUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &quizUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (q *quizUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	metrics.ObserveOperation(ctx, q.metrics, "quiz", operation, start, err)
}

// CreateFromVideo records metrics for quiz generation.
func (q *quizUseCaseWithMetrics) CreateFromVideo(ctx context.Context, input CreateQuizInput) (*domain.Quiz, error) {
	start := time.Now()
	quiz, err := q.next.CreateFromVideo(ctx, input)
	q.record(ctx, "quiz_create", start, err)
	return quiz, err
}

// List records metrics for quiz listing.
func (q *quizUseCaseWithMetrics) List(ctx context.Context, offset, limit int) ([]*domain.Quiz, error) {
	start := time.Now()
	quizzes, err := q.next.List(ctx, offset, limit)
	q.record(ctx, "quiz_list", start, err)
	return quizzes, err
}

// Get records metrics for quiz retrieval.
func (q *quizUseCaseWithMetrics) Get(ctx context.Context, id uuid.UUID) (*domain.Quiz, error) {
	start := time.Now()
	quiz, err := q.next.Get(ctx, id)
	q.record(ctx, "quiz_get", start, err)
	return quiz, err
}

// Update records metrics for quiz updates.
func (q *quizUseCaseWithMetrics) Update(ctx context.Context, id uuid.UUID, input UpdateQuizInput) (*domain.Quiz, error) {
	start := time.Now()
	quiz, err := q.next.Update(ctx, id, input)
	q.record(ctx, "quiz_update", start, err)
	return quiz, err
}
