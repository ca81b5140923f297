// Package repository persists outstanding refresh tokens and their blacklist entries,
// and caches blacklist lookups in Redis.
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

// PostgreSQLTokenRepository implements token persistence for PostgreSQL. Every write is
// an idempotent insert so concurrent logins for one user never fail on duplicate keys.
type PostgreSQLTokenRepository struct {
	db *sql.DB
}

// NewPostgreSQLTokenRepository creates a new PostgreSQL token repository.
func NewPostgreSQLTokenRepository(db *sql.DB) *PostgreSQLTokenRepository {
	return &PostgreSQLTokenRepository{db: db}
}

// CreateOutstanding inserts the record unless a record with the same jti exists.
func (p *PostgreSQLTokenRepository) CreateOutstanding(ctx context.Context, token *authDomain.OutstandingToken) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO outstanding_tokens (id, jti, user_id, expires_at, created_at)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (jti) DO NOTHING`

	_, err := querier.ExecContext(ctx, query, token.ID, token.JTI, token.UserID, token.ExpiresAt, token.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create outstanding token")
	}
	return nil
}

// Blacklist marks the outstanding token with the given jti. Returns whether a new entry was written.
func (p *PostgreSQLTokenRepository) Blacklist(ctx context.Context, jti string, at time.Time) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO blacklisted_tokens (token_id, blacklisted_at)
			  SELECT id, $1 FROM outstanding_tokens WHERE jti = $2
			  ON CONFLICT (token_id) DO NOTHING`

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
func (p *PostgreSQLTokenRepository) BlacklistAllExcept(
	ctx context.Context,
	userID uuid.UUID,
	exceptJTI string,
	at time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO blacklisted_tokens (token_id, blacklisted_at)
			  SELECT id, $1 FROM outstanding_tokens WHERE user_id = $2 AND jti <> $3
			  ON CONFLICT (token_id) DO NOTHING`

	result, err := querier.ExecContext(ctx, query, at, userID, exceptJTI)
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
func (p *PostgreSQLTokenRepository) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT EXISTS (
				SELECT 1 FROM blacklisted_tokens b
				JOIN outstanding_tokens o ON o.id = b.token_id
				WHERE o.jti = $1
			  )`

	var exists bool
	if err := querier.QueryRowContext(ctx, query, jti).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check blacklist")
	}
	return exists, nil
}

// CountExpired counts outstanding tokens that expired before the given time.
func (p *PostgreSQLTokenRepository) CountExpired(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	var count int64
	query := `SELECT COUNT(*) FROM outstanding_tokens WHERE expires_at < $1`
	if err := querier.QueryRowContext(ctx, query, before).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired tokens")
	}
	return count, nil
}

// DeleteExpired removes outstanding tokens that expired before the given time.
// Blacklist entries go with them through the foreign key cascade.
func (p *PostgreSQLTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM outstanding_tokens WHERE expires_at < $1`, before)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired tokens")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get rows affected")
	}
	return affected, nil
}
