// Package service provides the collaborators behind quiz generation: video URL checks,
// transcription and quiz generation from a transcript.
package service

import (
	"context"

	quizDomain "github.com/allisson/quizly/internal/quiz/domain"
)

// Transcriber turns a video into plain text.
type Transcriber interface {
	// TranscribeVideo downloads the audio of url and returns its transcript. Failures
	// match quizDomain.ErrTranscriptionFailed.
	TranscribeVideo(ctx context.Context, url string) (string, error)
}

// QuizGenerator produces structured quiz data from a transcript.
type QuizGenerator interface {
	// GenerateQuizFromTranscript returns the generated quiz. The result is not validated;
	// failures to obtain or decode it match quizDomain.ErrGenerationFailed.
	GenerateQuizFromTranscript(ctx context.Context, transcript string) (*quizDomain.GeneratedQuiz, error)
}
