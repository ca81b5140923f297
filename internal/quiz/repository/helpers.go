package repository

import (
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	apperrors "github.com/allisson/quizly/internal/errors"
	"github.com/allisson/quizly/internal/quiz/domain"
)

func toNullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func fromNullUUID(id uuid.NullUUID) *uuid.UUID {
	if !id.Valid {
		return nil
	}
	value := id.UUID
	return &value
}

func encodeOptions(options []string) (string, error) {
	if options == nil {
		options = []string{}
	}
	data, err := json.Marshal(options)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to encode question options")
	}
	return string(data), nil
}

func decodeOptions(data []byte) ([]string, error) {
	var options []string
	if err := json.Unmarshal(data, &options); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode question options")
	}
	return options, nil
}

// assignQuestions sets Questions on every quiz; quizzes without rows get an empty slice.
func assignQuestions(quizzes []*domain.Quiz, byQuiz map[uuid.UUID][]domain.Question) {
	for _, quiz := range quizzes {
		questions := byQuiz[quiz.ID]
		if questions == nil {
			questions = []domain.Question{}
		}
		quiz.Questions = questions
	}
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if affected == 0 {
		return domain.ErrQuizNotFound
	}
	return nil
}
