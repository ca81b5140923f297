package domain

import (
	"github.com/allisson/quizly/internal/errors"
)

// Field messages returned by quiz creation.
const (
	MsgInvalidVideoURL = "Invalid YouTube URL."
)

// Domain-specific errors for quiz operations.
var (
	// ErrQuizNotFound indicates the requested quiz does not exist.
	ErrQuizNotFound = errors.Wrap(errors.ErrNotFound, "quiz not found")

	// ErrQuizAlreadyExists indicates a concurrent creation for the same video won the unique index race.
	ErrQuizAlreadyExists = errors.Wrap(errors.ErrConflict, "quiz already exists for this video")

	// ErrNotQuizOwner indicates the quiz belongs to another user.
	ErrNotQuizOwner = errors.Wrap(errors.ErrForbidden, "quiz is owned by another user")

	// ErrTranscriptionFailed indicates the transcription service failed or returned nothing.
	ErrTranscriptionFailed = errors.Wrap(errors.ErrUnavailable, "transcription failed")

	// ErrGenerationFailed indicates the quiz generator failed or returned malformed data.
	ErrGenerationFailed = errors.Wrap(errors.ErrUnavailable, "quiz generation failed")
)
