// Package repository provides quiz persistence for PostgreSQL and MySQL. Question options
// are stored as a JSON array next to each question.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/allisson/quizly/internal/database"
	apperrors "github.com/allisson/quizly/internal/errors"
	"github.com/allisson/quizly/internal/quiz/domain"
)

const (
	pgQuizColumns     = `id, title, description, video_url, owner_id, created_at, updated_at`
	pgQuestionColumns = `id, quiz_id, position, question_title, question_options, answer, created_at, updated_at`
)

// PostgreSQLQuizRepository handles quiz persistence for PostgreSQL.
type PostgreSQLQuizRepository struct {
	db *sql.DB
}

// NewPostgreSQLQuizRepository creates a new PostgreSQLQuizRepository.
func NewPostgreSQLQuizRepository(db *sql.DB) *PostgreSQLQuizRepository {
	return &PostgreSQLQuizRepository{db: db}
}

// Create inserts the quiz row. Questions are written by ReplaceQuestions.
func (r *PostgreSQLQuizRepository) Create(ctx context.Context, quiz *domain.Quiz) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO quizzes (` + pgQuizColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		quiz.ID,
		quiz.Title,
		quiz.Description,
		quiz.VideoURL,
		toNullUUID(quiz.OwnerID),
		quiz.CreatedAt,
		quiz.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return domain.ErrQuizAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create quiz")
	}
	return nil
}

// Update writes title, description, owner and updated_at.
func (r *PostgreSQLQuizRepository) Update(ctx context.Context, quiz *domain.Quiz) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE quizzes SET title = $1, description = $2, owner_id = $3, updated_at = $4 WHERE id = $5`

	result, err := querier.ExecContext(
		ctx, query, quiz.Title, quiz.Description, toNullUUID(quiz.OwnerID), quiz.UpdatedAt, quiz.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update quiz")
	}
	return requireAffected(result)
}

// GetByID retrieves a quiz with its questions.
func (r *PostgreSQLQuizRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quiz, error) {
	return r.getOne(ctx, `SELECT `+pgQuizColumns+` FROM quizzes WHERE id = $1`, id, "failed to get quiz by id")
}

// GetByVideoURL retrieves the quiz generated for videoURL with its questions.
func (r *PostgreSQLQuizRepository) GetByVideoURL(ctx context.Context, videoURL string) (*domain.Quiz, error) {
	return r.getOne(
		ctx, `SELECT `+pgQuizColumns+` FROM quizzes WHERE video_url = $1`, videoURL, "failed to get quiz by video url",
	)
}

// List retrieves quizzes newest first, each with its questions.
func (r *PostgreSQLQuizRepository) List(ctx context.Context, offset, limit int) ([]*domain.Quiz, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + pgQuizColumns + ` FROM quizzes ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list quizzes")
	}
	defer func() {
		_ = rows.Close()
	}()

	quizzes := make([]*domain.Quiz, 0)
	for rows.Next() {
		quiz, err := scanPgQuiz(rows)
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
func (r *PostgreSQLQuizRepository) ReplaceQuestions(
	ctx context.Context,
	quizID uuid.UUID,
	questions []domain.Question,
) error {
	querier := database.GetTx(ctx, r.db)

	if _, err := querier.ExecContext(ctx, `DELETE FROM questions WHERE quiz_id = $1`, quizID); err != nil {
		return apperrors.Wrap(err, "failed to delete questions")
	}

	query := `INSERT INTO questions (` + pgQuestionColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	for _, q := range questions {
		options, err := encodeOptions(q.Options)
		if err != nil {
			return err
		}
		_, err = querier.ExecContext(
			ctx, query, q.ID, quizID, q.Position, q.Title, options, q.Answer, q.CreatedAt, q.UpdatedAt,
		)
		if err != nil {
			return apperrors.Wrap(err, "failed to create question")
		}
	}
	return nil
}

func (r *PostgreSQLQuizRepository) getOne(ctx context.Context, query string, arg any, errMsg string) (*domain.Quiz, error) {
	querier := database.GetTx(ctx, r.db)

	quiz, err := scanPgQuiz(querier.QueryRowContext(ctx, query, arg))
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

func (r *PostgreSQLQuizRepository) attachQuestions(ctx context.Context, quizzes []*domain.Quiz) error {
	if len(quizzes) == 0 {
		return nil
	}

	ids := make([]string, 0, len(quizzes))
	for _, quiz := range quizzes {
		ids = append(ids, quiz.ID.String())
	}

	querier := database.GetTx(ctx, r.db)
	query := `SELECT ` + pgQuestionColumns + ` FROM questions
			  WHERE quiz_id = ANY($1::uuid[]) ORDER BY quiz_id, position`

	rows, err := querier.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return apperrors.Wrap(err, "failed to list questions")
	}
	defer func() {
		_ = rows.Close()
	}()

	byQuiz := make(map[uuid.UUID][]domain.Question, len(quizzes))
	for rows.Next() {
		var q domain.Question
		var options []byte
		if err := rows.Scan(
			&q.ID, &q.QuizID, &q.Position, &q.Title, &options, &q.Answer, &q.CreatedAt, &q.UpdatedAt,
		); err != nil {
			return apperrors.Wrap(err, "failed to scan question")
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPgQuiz(row rowScanner) (*domain.Quiz, error) {
	var quiz domain.Quiz
	var owner uuid.NullUUID

	if err := row.Scan(
		&quiz.ID, &quiz.Title, &quiz.Description, &quiz.VideoURL, &owner, &quiz.CreatedAt, &quiz.UpdatedAt,
	); err != nil {
		return nil, err
	}
	quiz.OwnerID = fromNullUUID(owner)
	return &quiz, nil
}
