package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/allisson/quizly/internal/database"
	apperrors "github.com/allisson/quizly/internal/errors"
	"github.com/allisson/quizly/internal/quiz/domain"
	quizService "github.com/allisson/quizly/internal/quiz/service"
	appValidation "github.com/allisson/quizly/internal/validation"
)

type quizUseCase struct {
	txManager   database.TxManager
	quizRepo    QuizRepository
	transcriber quizService.Transcriber
	generator   quizService.QuizGenerator
	logger      *slog.Logger
	now         func() time.Time
}

// NewQuizUseCase creates a new quiz UseCase.
func NewQuizUseCase(
	txManager database.TxManager,
	quizRepo QuizRepository,
	transcriber quizService.Transcriber,
	generator quizService.QuizGenerator,
	logger *slog.Logger,
) UseCase {
	return &quizUseCase{
		txManager:   txManager,
		quizRepo:    quizRepo,
		transcriber: transcriber,
		generator:   generator,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (q *quizUseCase) CreateFromVideo(ctx context.Context, input CreateQuizInput) (*domain.Quiz, error) {
	if !quizService.ValidateVideoURL(input.VideoURL) {
		return nil, apperrors.NewValidationError("url", domain.MsgInvalidVideoURL)
	}

	existing, err := q.quizRepo.GetByVideoURL(ctx, input.VideoURL)
	if err != nil && !apperrors.Is(err, domain.ErrQuizNotFound) {
		return nil, err
	}
	if existing != nil && existing.OwnerID != nil && !existing.IsOwnedBy(input.OwnerID) {
		return nil, domain.ErrNotQuizOwner
	}

	transcript, err := q.transcriber.TranscribeVideo(ctx, input.VideoURL)
	if err != nil {
		return nil, err
	}

	generated, err := q.generator.GenerateQuizFromTranscript(ctx, transcript)
	if err != nil {
		return nil, err
	}
	if err := generated.Validate(); err != nil {
		q.logger.Debug("generated quiz rejected",
			slog.String("video_url", input.VideoURL),
			slog.Any("error", err),
		)
		return nil, err
	}

	now := q.now()
	quiz := existing
	if quiz == nil {
		quiz = &domain.Quiz{
			ID:        uuid.Must(uuid.NewV7()),
			VideoURL:  input.VideoURL,
			CreatedAt: now,
		}
	}
	if quiz.OwnerID == nil {
		owner := input.OwnerID
		quiz.OwnerID = &owner
	}
	quiz.Title = strings.TrimSpace(generated.Title)
	quiz.Description = generated.Description
	quiz.UpdatedAt = now
	quiz.Questions = domain.NewQuestions(quiz.ID, generated.Questions, now)

	err = q.txManager.WithTx(ctx, func(ctx context.Context) error {
		if existing == nil {
			if err := q.quizRepo.Create(ctx, quiz); err != nil {
				return err
			}
		} else if err := q.quizRepo.Update(ctx, quiz); err != nil {
			return err
		}
		return q.quizRepo.ReplaceQuestions(ctx, quiz.ID, quiz.Questions)
	})
	if err != nil {
		return nil, err
	}

	q.logger.Info("quiz generated",
		slog.String("quiz_id", quiz.ID.String()),
		slog.Bool("replaced", existing != nil),
	)
	return quiz, nil
}

func (q *quizUseCase) List(ctx context.Context, offset, limit int) ([]*domain.Quiz, error) {
	return q.quizRepo.List(ctx, offset, limit)
}

func (q *quizUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.Quiz, error) {
	return q.quizRepo.GetByID(ctx, id)
}

func (q *quizUseCase) Update(ctx context.Context, id uuid.UUID, input UpdateQuizInput) (*domain.Quiz, error) {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Title, validation.NilOrNotEmpty, appValidation.NotBlank, validation.Length(1, 255)),
	)
	if err != nil {
		return nil, appValidation.WrapValidationError(err)
	}

	quiz, err := q.quizRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		quiz.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		quiz.Description = *input.Description
	}
	quiz.UpdatedAt = q.now()

	if err := q.quizRepo.Update(ctx, quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}
