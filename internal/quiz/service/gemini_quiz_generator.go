package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	apperrors "github.com/allisson/quizly/internal/errors"
	quizDomain "github.com/allisson/quizly/internal/quiz/domain"
)

const quizPrompt = `Create a quiz from the transcript below.
Answer with a single JSON object and nothing else, shaped as:
{"title": string, "description": string, "questions": [
  {"question_title": string, "question_options": [4 strings], "answer": string}
]}
There must be exactly %d questions. Each answer must be copied verbatim from its options.

Transcript:
%s`

// GeminiConfig configures the Gemini-backed QuizGenerator.
type GeminiConfig struct {
	APIKey string
	Model  string
	// BaseURL overrides the Gemini API endpoint. Empty uses the SDK default.
	BaseURL string
	Timeout time.Duration
}

type geminiQuizGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiQuizGenerator creates a QuizGenerator that prompts a Gemini model for a
// JSON quiz.
func NewGeminiQuizGenerator(ctx context.Context, cfg GeminiConfig) (QuizGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("gemini model is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  &http.Client{Timeout: cfg.Timeout},
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiQuizGenerator{client: client, model: cfg.Model}, nil
}

func (g *geminiQuizGenerator) GenerateQuizFromTranscript(
	ctx context.Context,
	transcript string,
) (*quizDomain.GeneratedQuiz, error) {
	prompt := fmt.Sprintf(quizPrompt, quizDomain.QuestionsPerQuiz, transcript)

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, apperrors.Wrapf(quizDomain.ErrGenerationFailed, "gemini: %v", err)
	}

	var quiz quizDomain.GeneratedQuiz
	if err := json.Unmarshal([]byte(stripCodeFence(result.Text())), &quiz); err != nil {
		return nil, apperrors.Wrapf(quizDomain.ErrGenerationFailed, "gemini: decode quiz: %v", err)
	}
	return &quiz, nil
}

// stripCodeFence removes a surrounding ```json block, which models sometimes emit
// even when asked for raw JSON.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
