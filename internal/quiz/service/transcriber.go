package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	apperrors "github.com/allisson/quizly/internal/errors"
	quizDomain "github.com/allisson/quizly/internal/quiz/domain"
)

type transcriptionRequest struct {
	URL string `json:"url"`
}

type transcriptionResponse struct {
	Transcript string `json:"transcript"`
}

type httpTranscriber struct {
	client   *retryablehttp.Client
	endpoint string
}

// NewHTTPTranscriber creates a Transcriber that posts {"url": ...} to cfg.Endpoint and
// expects {"transcript": ...} back.
func NewHTTPTranscriber(cfg CollaboratorConfig, logger *slog.Logger) Transcriber {
	return &httpTranscriber{
		client:   newRetryableClient(cfg, logger),
		endpoint: cfg.Endpoint,
	}
}

func (t *httpTranscriber) TranscribeVideo(ctx context.Context, url string) (string, error) {
	var resp transcriptionResponse
	if err := postJSON(ctx, t.client, t.endpoint, transcriptionRequest{URL: url}, &resp); err != nil {
		return "", apperrors.Wrapf(quizDomain.ErrTranscriptionFailed, "transcriber: %v", err)
	}

	transcript := strings.TrimSpace(resp.Transcript)
	if transcript == "" {
		return "", apperrors.Wrap(quizDomain.ErrTranscriptionFailed, "transcriber returned an empty transcript")
	}
	return transcript, nil
}
