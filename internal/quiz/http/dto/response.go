package dto

import (
	"time"

	"github.com/allisson/quizly/internal/quiz/domain"
)

// QuestionResponse is the public projection of a question.
type QuestionResponse struct {
	ID              string   `json:"id"`
	QuestionTitle   string   `json:"question_title"`
	QuestionOptions []string `json:"question_options"`
	Answer          string   `json:"answer"`
}

// QuizResponse is the public projection of a quiz with its questions.
type QuizResponse struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	VideoURL    string             `json:"video_url"`
	Questions   []QuestionResponse `json:"questions"`
}

// MapQuizToResponse converts a quiz to its response body.
func MapQuizToResponse(quiz *domain.Quiz) QuizResponse {
	questions := make([]QuestionResponse, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		options := q.Options
		if options == nil {
			options = []string{}
		}
		questions = append(questions, QuestionResponse{
			ID:              q.ID.String(),
			QuestionTitle:   q.Title,
			QuestionOptions: options,
			Answer:          q.Answer,
		})
	}

	return QuizResponse{
		ID:          quiz.ID.String(),
		Title:       quiz.Title,
		Description: quiz.Description,
		CreatedAt:   quiz.CreatedAt,
		UpdatedAt:   quiz.UpdatedAt,
		VideoURL:    quiz.VideoURL,
		Questions:   questions,
	}
}

// MapQuizzesToResponse converts quizzes to a response list, never nil.
func MapQuizzesToResponse(quizzes []*domain.Quiz) []QuizResponse {
	responses := make([]QuizResponse, 0, len(quizzes))
	for _, quiz := range quizzes {
		responses = append(responses, MapQuizToResponse(quiz))
	}
	return responses
}
