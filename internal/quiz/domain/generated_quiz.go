package domain

import (
	validation "github.com/jellydator/validation"

	appValidation "github.com/allisson/quizly/internal/validation"
)

// Field messages for generated quiz data.
const (
	MsgExactQuestionCount = "must contain exactly 10 questions"
	MsgAnswerNotInOptions = "answer must be one of the question options"
)

// GeneratedQuiz is the structured output of the quiz generator.
type GeneratedQuiz struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Questions   []GeneratedQuestion `json:"questions"`
}

// GeneratedQuestion is one generated question.
type GeneratedQuestion struct {
	Title   string   `json:"question_title"`
	Options []string `json:"question_options"`
	Answer  string   `json:"answer"`
}

// Validate checks the generated quiz. Errors are reported per field: "title" for the quiz
// title and "questions" for the count or any invalid question.
func (g *GeneratedQuiz) Validate() error {
	err := validation.ValidateStruct(g,
		validation.Field(&g.Title,
			validation.Required,
			appValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&g.Questions,
			validation.Required.Error(MsgExactQuestionCount),
			validation.Length(QuestionsPerQuiz, QuestionsPerQuiz).Error(MsgExactQuestionCount),
		),
	)
	return appValidation.WrapValidationError(err)
}

// Validate checks a single question.
func (q GeneratedQuestion) Validate() error {
	options := make([]interface{}, 0, len(q.Options))
	for _, o := range q.Options {
		options = append(options, o)
	}

	return validation.ValidateStruct(&q,
		validation.Field(&q.Title, validation.Required, appValidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&q.Options, validation.Required, validation.Each(validation.Required)),
		validation.Field(&q.Answer,
			validation.Required,
			validation.In(options...).Error(MsgAnswerNotInOptions),
		),
	)
}
