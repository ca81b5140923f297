package usecase

import (
	"context"
	"time"

	authDomain "github.com/allisson/quizly/internal/auth/domain"
	"github.com/allisson/quizly/internal/metrics"
)

// sessionUseCaseWithMetrics decorates SessionUseCase with metrics instrumentation.
type sessionUseCaseWithMetrics struct {
	next    SessionUseCase
	metrics metrics.BusinessMetrics
}

// NewSessionUseCaseWithMetrics wraps a SessionUseCase with metrics recording.
func NewSessionUseCaseWithMetrics(useCase SessionUseCase, m metrics.BusinessMetrics) SessionUseCase {
	return &sessionUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (s *sessionUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	metrics.ObserveOperation(ctx, s.metrics, "auth", operation, start, err)
}

// Login records metrics for login operations.
func (s *sessionUseCaseWithMetrics) Login(ctx context.Context, username, password string) (*LoginOutput, error) {
	start := time.Now()
	output, err := s.next.Login(ctx, username, password)
	s.record(ctx, "session_login", start, err)
	return output, err
}

// Refresh records metrics for refresh operations.
func (s *sessionUseCaseWithMetrics) Refresh(ctx context.Context, rawRefresh string) (*RefreshOutput, error) {
	start := time.Now()
	output, err := s.next.Refresh(ctx, rawRefresh)
	s.record(ctx, "session_refresh", start, err)
	return output, err
}

// Logout records metrics for logout operations.
func (s *sessionUseCaseWithMetrics) Logout(ctx context.Context, rawRefresh string) error {
	start := time.Now()
	err := s.next.Logout(ctx, rawRefresh)
	s.record(ctx, "session_logout", start, err)
	return err
}

// Authenticate records metrics for access token authentication.
func (s *sessionUseCaseWithMetrics) Authenticate(
	ctx context.Context,
	rawAccess string,
) (*authDomain.Principal, *authDomain.Claims, error) {
	start := time.Now()
	principal, claims, err := s.next.Authenticate(ctx, rawAccess)
	s.record(ctx, "session_authenticate", start, err)
	return principal, claims, err
}

// CleanupExpired records metrics for expired token cleanup.
func (s *sessionUseCaseWithMetrics) CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error) {
	start := time.Now()
	count, err := s.next.CleanupExpired(ctx, days, dryRun)
	s.record(ctx, "token_cleanup", start, err)
	return count, err
}
