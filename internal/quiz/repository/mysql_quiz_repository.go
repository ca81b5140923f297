package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/allisson/quizly/internal/database"
	apperrors "github.com/allisson/quizly/internal/errors"
	"github.com/allisson/quizly/internal/quiz/domain"
)

const (
	mysqlQuizColumns     = `id, title, description, video_url, owner_id, created_at, updated_at`
	mysqlQuestionColumns = `id, quiz_id, position, question_title, question_options, answer, created_at, updated_at`
)

// MySQLQuizRepository handles quiz persistence for MySQL. UUIDs are stored as BINARY(16).
type MySQLQuizRepository struct {
	db *sql.DB
}

// NewMySQLQuizRepository creates a new MySQLQuizRepository.
func NewMySQLQuizRepository(db *sql.DB) *MySQLQuizRepository {
	return &MySQLQuizRepository{db: db}
}

// Create inserts the quiz row. Questions are written by ReplaceQuestions.
func (r *MySQLQuizRepository) Create(ctx context.Context, quiz *domain.Quiz) error {
	querier := database.GetTx(ctx, r.db)

	id, err := quiz.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	owner, err := marshalOwner(quiz.OwnerID)
	if err != nil {
		return err
	}

	query := `INSERT INTO quizzes (` + mysqlQuizColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx, query, id, quiz.Title, quiz.Description, quiz.VideoURL, owner, quiz.CreatedAt, quiz.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return domain.ErrQuizAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create quiz")
	}
	return nil
}

// Update writes title, description, owner and updated_at. MySQL reports changed rows
// rather than matched rows, so a missing quiz is not detected here.
func (r *MySQLQuizRepository) Update(ctx context.Context, quiz *domain.Quiz) error {
	querier := database.GetTx(ctx, r.db)

	id, err := quiz.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	owner, err := marshalOwner(quiz.OwnerID)
	if err != nil {
		return err
	}

	query := `UPDATE quizzes SET title = ?, description = ?, owner_id = ?, updated_at = ? WHERE id = ?`

	if _, err := querier.ExecContext(ctx, query, quiz.Title, quiz.Description, owner, quiz.UpdatedAt, id); err != nil {
		return apperrors.Wrap(err, "failed to update quiz")
	}
	return nil
}

// GetByID retrieves a quiz with its questions.
func (r *MySQLQuizRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quiz, error) {
	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}
	return r.getOne(ctx, `SELECT `+mysqlQuizColumns+` FROM quizzes WHERE id = ?`, idBytes, "failed to get quiz by id")
}

// GetByVideoURL retrieves the quiz generated for videoURL with its questions.
func (r *MySQLQuizRepository) GetByVideoURL(ctx context.Context, videoURL string) (*domain.Quiz, error) {
	return r.getOne(
		ctx, `SELECT `+mysqlQuizColumns+` FROM quizzes WHERE video_url = ?`, videoURL, "failed to get quiz by video url",
	)
}

// List retrieves quizzes newest first, each with its questions.
func (r *MySQLQuizRepository) List(ctx context.Context, offset, limit int) ([]*domain.Quiz, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mysqlQuizColumns + ` FROM quizzes ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list quizzes")
	}
	defer func() {
		_ = rows.Close()
	}()

	quizzes := make([]*domain.Quiz, 0)
	for rows.Next() {
		quiz, err := scanMySQLQuiz(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan quiz")
		}
		quizzes = append(quizzes, quiz)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate quizzes")
	}

	if err := r.attachQuestions(ctx, quizzes); err != nil {
		return nil, err
	}
	return quizzes, nil
}

// ReplaceQuestions deletes the questions of quizID and inserts the given ones. Call it
// inside a transaction.
func (r *MySQLQuizRepository) ReplaceQuestions(ctx context.Context, quizID uuid.UUID, questions []domain.Question) error {
	querier := database.GetTx(ctx, r.db)

	quizIDBytes, err := quizID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	if _, err := querier.ExecContext(ctx, `DELETE FROM questions WHERE quiz_id = ?`, quizIDBytes); err != nil {
		return apperrors.Wrap(err, "failed to delete questions")
	}

	query := `INSERT INTO questions (` + mysqlQuestionColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	for _, q := range questions {
		id, err := q.ID.MarshalBinary()
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal UUID")
		}
		options, err := encodeOptions(q.Options)
		if err != nil {
			return err
		}
		_, err = querier.ExecContext(
			ctx, query, id, quizIDBytes, q.Position, q.Title, options, q.Answer, q.CreatedAt, q.UpdatedAt,
		)
		if err != nil {
			return apperrors.Wrap(err, "failed to create question")
		}
	}
	return nil
}

func (r *MySQLQuizRepository) getOne(ctx context.Context, query string, arg any, errMsg string) (*domain.Quiz, error) {
	querier := database.GetTx(ctx, r.db)

	quiz, err := scanMySQLQuiz(querier.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrQuizNotFound
		}
		return nil, apperrors.Wrap(err, errMsg)
	}

	if err := r.attachQuestions(ctx, []*domain.Quiz{quiz}); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (r *MySQLQuizRepository) attachQuestions(ctx context.Context, quizzes []*domain.Quiz) error {
	if len(quizzes) == 0 {
		return nil
	}

	args := make([]any, 0, len(quizzes))
	for _, quiz := range quizzes {
		id, err := quiz.ID.MarshalBinary()
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal UUID")
		}
		args = append(args, id)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(args)), ", ")
	query := `SELECT ` + mysqlQuestionColumns + ` FROM questions
			  WHERE quiz_id IN (` + placeholders + `) ORDER BY quiz_id, position`

	querier := database.GetTx(ctx, r.db)
	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return apperrors.Wrap(err, "failed to list questions")
	}
	defer func() {
		_ = rows.Close()
	}()

	byQuiz := make(map[uuid.UUID][]domain.Question, len(quizzes))
	for rows.Next() {
		var q domain.Question
		var idBytes, quizIDBytes, options []byte
		if err := rows.Scan(
			&idBytes, &quizIDBytes, &q.Position, &q.Title, &options, &q.Answer, &q.CreatedAt, &q.UpdatedAt,
		); err != nil {
			return apperrors.Wrap(err, "failed to scan question")
		}
		if err := q.ID.UnmarshalBinary(idBytes); err != nil {
			return apperrors.Wrap(err, "failed to unmarshal UUID")
		}
		if err := q.QuizID.UnmarshalBinary(quizIDBytes); err != nil {
			return apperrors.Wrap(err, "failed to unmarshal UUID")
		}
		if q.Options, err = decodeOptions(options); err != nil {
			return err
		}
		byQuiz[q.QuizID] = append(byQuiz[q.QuizID], q)
	}
	if err := rows.Err(); err != nil {
		return apperrors.Wrap(err, "failed to iterate questions")
	}

	assignQuestions(quizzes, byQuiz)
	return nil
}

// marshalOwner returns nil for a missing owner so the driver writes NULL.
func marshalOwner(owner *uuid.UUID) (any, error) {
	if owner == nil {
		return nil, nil
	}
	data, err := owner.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}
	return data, nil
}

func scanMySQLQuiz(row rowScanner) (*domain.Quiz, error) {
	var quiz domain.Quiz
	var idBytes, ownerBytes []byte

	if err := row.Scan(
		&idBytes, &quiz.Title, &quiz.Description, &quiz.VideoURL, &ownerBytes, &quiz.CreatedAt, &quiz.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := quiz.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if ownerBytes != nil {
		var owner uuid.UUID
		if err := owner.UnmarshalBinary(ownerBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
		}
		quiz.OwnerID = &owner
	}
	return &quiz, nil
}
