package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/quizly/internal/auth/domain"
	"github.com/allisson/quizly/internal/database"
	apperrors "github.com/allisson/quizly/internal/errors"
)

// MySQLTokenRepository implements token persistence for MySQL. UUIDs are stored as
// BINARY(16) and idempotent inserts use INSERT IGNORE.
type MySQLTokenRepository struct {
	db *sql.DB
}

// NewMySQLTokenRepository creates a new MySQL token repository.
func NewMySQLTokenRepository(db *sql.DB) *MySQLTokenRepository {
	return &MySQLTokenRepository{db: db}
}

// CreateOutstanding inserts the record unless a record with the same jti exists.
func (m *MySQLTokenRepository) CreateOutstanding(ctx context.Context, token *authDomain.OutstandingToken) error {
	querier := database.GetTx(ctx, m.db)

	id, err := token.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal token id")
	}
	userID, err := token.UserID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `INSERT IGNORE INTO outstanding_tokens (id, jti, user_id, expires_at, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	if _, err := querier.ExecContext(ctx, query, id, token.JTI, userID, token.ExpiresAt, token.CreatedAt); err != nil {
		return apperrors.Wrap(err, "failed to create outstanding token")
	}
	return nil
}

// Blacklist marks the outstanding token with the given jti. Returns whether a new entry was written.
func (m *MySQLTokenRepository) Blacklist(ctx context.Context, jti string, at time.Time) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT IGNORE INTO blacklisted_tokens (token_id, blacklisted_at)
			  SELECT id, ? FROM outstanding_tokens WHERE jti = ?`

	result, err := querier.ExecContext(ctx, query, at, jti)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to blacklist token")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to get rows affected")
	}
	return affected > 0, nil
}

// BlacklistAllExcept blacklists every outstanding token of userID except exceptJTI.
func (m *MySQLTokenRepository) BlacklistAllExcept(
	ctx context.Context,
	userID uuid.UUID,
	exceptJTI string,
	at time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	userBytes, err := userID.MarshalBinary()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `INSERT IGNORE INTO blacklisted_tokens (token_id, blacklisted_at)
			  SELECT id, ? FROM outstanding_tokens WHERE user_id = ? AND jti <> ?`

	result, err := querier.ExecContext(ctx, query, at, userBytes, exceptJTI)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to blacklist outstanding tokens")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get rows affected")
	}
	return affected, nil
}

// IsBlacklisted reports whether the token with the given jti has a blacklist entry.
func (m *MySQLTokenRepository) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT EXISTS (
				SELECT 1 FROM blacklisted_tokens b
				JOIN outstanding_tokens o ON o.id = b.token_id
				WHERE o.jti = ?
			  )`

	var exists bool
	if err := querier.QueryRowContext(ctx, query, jti).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check blacklist")
	}
	return exists, nil
}

// CountExpired counts outstanding tokens that expired before the given time.
func (m *MySQLTokenRepository) CountExpired(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	var count int64
	query := `SELECT COUNT(*) FROM outstanding_tokens WHERE expires_at < ?`
	if err := querier.QueryRowContext(ctx, query, before).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired tokens")
	}
	return count, nil
}

// DeleteExpired removes outstanding tokens that expired before the given time.
func (m *MySQLTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM outstanding_tokens WHERE expires_at < ?`, before)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired tokens")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get rows affected")
	}
	return affected, nil
}
