package usecase

import (
	"context"
	"time"

	"github.com/allisson/quizly/internal/metrics"
	"github.com/allisson/quizly/internal/user/domain"
)

// userUseCaseWithMetrics decorates UseCase with metrics instrumentation.
type userUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewUserUseCaseWithMetrics wraps a UseCase with metrics recording.
func NewUserUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &userUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// RegisterUser records metrics for user registration.
func (u *userUseCaseWithMetrics) RegisterUser(ctx context.Context, input RegisterUserInput) (*domain.User, error) {
	start := time.Now()
	user, err := u.next.RegisterUser(ctx, input)
	metrics.ObserveOperation(ctx, u.metrics, "user", "user_register", start, err)
	return user, err
}
