package service

import (
	"context"
	"log/slog"

	"github.com/hashicorp/go-retryablehttp"

	apperrors "github.com/allisson/quizly/internal/errors"
	quizDomain "github.com/allisson/quizly/internal/quiz/domain"
)

type generationRequest struct {
	Transcript string `json:"transcript"`
	Questions  int    `json:"questions"`
}

type httpQuizGenerator struct {
	client   *retryablehttp.Client
	endpoint string
}

// NewHTTPQuizGenerator creates a QuizGenerator that posts the transcript to cfg.Endpoint
// and decodes a GeneratedQuiz from the response body.
func NewHTTPQuizGenerator(cfg CollaboratorConfig, logger *slog.Logger) QuizGenerator {
	return &httpQuizGenerator{
		client:   newRetryableClient(cfg, logger),
		endpoint: cfg.Endpoint,
	}
}

func (g *httpQuizGenerator) GenerateQuizFromTranscript(
	ctx context.Context,
	transcript string,
) (*quizDomain.GeneratedQuiz, error) {
	payload := generationRequest{Transcript: transcript, Questions: quizDomain.QuestionsPerQuiz}

	var quiz quizDomain.GeneratedQuiz
	if err := postJSON(ctx, g.client, g.endpoint, payload, &quiz); err != nil {
		return nil, apperrors.Wrapf(quizDomain.ErrGenerationFailed, "quiz generator: %v", err)
	}
	return &quiz, nil
}
