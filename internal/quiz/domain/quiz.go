// Package domain defines the quiz entities, the shape of generated quiz data and the
// rules that generated data must satisfy before it is persisted.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// QuestionsPerQuiz is the exact number of questions a generated quiz must contain.
const QuestionsPerQuiz = 10

// Quiz is a set of questions generated from one video. A video URL maps to at most one
// quiz; generating again for the same URL replaces its content.
type Quiz struct {
	ID          uuid.UUID
	Title       string
	Description string
	VideoURL    string
	OwnerID     *uuid.UUID
	Questions   []Question
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsOwnedBy reports whether userID owns the quiz. A quiz without owner is owned by nobody.
func (q *Quiz) IsOwnedBy(userID uuid.UUID) bool {
	return q.OwnerID != nil && *q.OwnerID == userID
}

// Question is a single multiple-choice question. Answer is always one of Options.
type Question struct {
	ID        uuid.UUID
	QuizID    uuid.UUID
	Position  int
	Title     string
	Options   []string
	Answer    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewQuestions converts generated questions into Question records for quizID, keeping
// their order in Position.
func NewQuestions(quizID uuid.UUID, generated []GeneratedQuestion, now time.Time) []Question {
	questions := make([]Question, 0, len(generated))
	for i, g := range generated {
		questions = append(questions, Question{
			ID:        uuid.Must(uuid.NewV7()),
			QuizID:    quizID,
			Position:  i,
			Title:     g.Title,
			Options:   append([]string(nil), g.Options...),
			Answer:    g.Answer,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return questions
}
