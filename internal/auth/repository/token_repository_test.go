package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/quizly/internal/auth/domain"
	"github.com/allisson/quizly/internal/testutil"
)

func newOutstanding() *authDomain.OutstandingToken {
	now := time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)
	return &authDomain.OutstandingToken{
		ID:        uuid.Must(uuid.NewV7()),
		JTI:       uuid.Must(uuid.NewV7()).String(),
		UserID:    uuid.Must(uuid.NewV7()),
		ExpiresAt: now.Add(24 * time.Hour),
		CreatedAt: now,
	}
}

func TestPostgreSQLTokenRepository_CreateOutstanding(t *testing.T) {
	t.Run("Success_InsertIfAbsent", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewPostgreSQLTokenRepository(db)
		token := newOutstanding()

		mock.ExpectExec(`INSERT INTO outstanding_tokens .+ ON CONFLICT \(jti\) DO NOTHING`).
			WithArgs(token.ID, token.JTI, token.UserID, token.ExpiresAt, token.CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.CreateOutstanding(context.Background(), token))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success_DuplicateIsNoop", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewPostgreSQLTokenRepository(db)

		mock.ExpectExec(`INSERT INTO outstanding_tokens`).WillReturnResult(sqlmock.NewResult(0, 0))

		assert.NoError(t, repo.CreateOutstanding(context.Background(), newOutstanding()))
	})

	t.Run("Error_Database", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewPostgreSQLTokenRepository(db)

		mock.ExpectExec(`INSERT INTO outstanding_tokens`).WillReturnError(errors.New("disk full"))

		err := repo.CreateOutstanding(context.Background(), newOutstanding())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create outstanding token")
	})
}

func TestPostgreSQLTokenRepository_Blacklist(t *testing.T) {
	at := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)

	t.Run("Success_NewEntry", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewPostgreSQLTokenRepository(db)

		mock.ExpectExec(`INSERT INTO blacklisted_tokens .+ SELECT id, \$1 FROM outstanding_tokens WHERE jti = \$2 ON CONFLICT \(token_id\) DO NOTHING`).
			WithArgs(at, "jti-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		created, err := repo.Blacklist(context.Background(), "jti-1", at)
		require.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("Success_AlreadyBlacklisted", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewPostgreSQLTokenRepository(db)

		mock.ExpectExec(`INSERT INTO blacklisted_tokens`).
			WithArgs(at, "jti-1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		created, err := repo.Blacklist(context.Background(), "jti-1", at)
		require.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("Error_Database", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewPostgreSQLTokenRepository(db)

		mock.ExpectExec(`INSERT INTO blacklisted_tokens`).WillReturnError(errors.New("deadlock"))

		_, err := repo.Blacklist(context.Background(), "jti-1", at)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to blacklist token")
	})
}

func TestPostgreSQLTokenRepository_BlacklistAllExcept(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewPostgreSQLTokenRepository(db)
	userID := uuid.Must(uuid.NewV7())
	at := time.Now().UTC()

	mock.ExpectExec(`INSERT INTO blacklisted_tokens .+ WHERE user_id = \$2 AND jti <> \$3`).
		WithArgs(at, userID, "keep-me").
		WillReturnResult(sqlmock.NewResult(0, 3))

	count, err := repo.BlacklistAllExcept(context.Background(), userID, "keep-me", at)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLTokenRepository_IsBlacklisted(t *testing.T) {
	for _, want := range []bool{true, false} {
		db, mock := testutil.NewMockDB(t)
		repo := NewPostgreSQLTokenRepository(db)

		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("jti-1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(want))

		got, err := repo.IsBlacklisted(context.Background(), "jti-1")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	t.Run("Error_Database", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewPostgreSQLTokenRepository(db)

		mock.ExpectQuery(`SELECT EXISTS`).WillReturnError(errors.New("timeout"))

		got, err := repo.IsBlacklisted(context.Background(), "jti-1")
		assert.False(t, got)
		assert.Error(t, err)
	})
}

func TestPostgreSQLTokenRepository_Expired(t *testing.T) {
	before := time.Now().UTC()

	t.Run("CountExpired", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewPostgreSQLTokenRepository(db)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM outstanding_tokens WHERE expires_at < \$1`).
			WithArgs(before).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

		count, err := repo.CountExpired(context.Background(), before)
		require.NoError(t, err)
		assert.Equal(t, int64(7), count)
	})

	t.Run("DeleteExpired", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewPostgreSQLTokenRepository(db)

		mock.ExpectExec(`DELETE FROM outstanding_tokens WHERE expires_at < \$1`).
			WithArgs(before).
			WillReturnResult(sqlmock.NewResult(0, 7))

		count, err := repo.DeleteExpired(context.Background(), before)
		require.NoError(t, err)
		assert.Equal(t, int64(7), count)
	})
}

func TestMySQLTokenRepository(t *testing.T) {
	ctx := context.Background()
	at := time.Now().UTC()

	t.Run("CreateOutstanding", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewMySQLTokenRepository(db)
		token := newOutstanding()
		id, _ := token.ID.MarshalBinary()
		userID, _ := token.UserID.MarshalBinary()

		mock.ExpectExec(`INSERT IGNORE INTO outstanding_tokens`).
			WithArgs(id, token.JTI, userID, token.ExpiresAt, token.CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.CreateOutstanding(ctx, token))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Blacklist", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewMySQLTokenRepository(db)

		mock.ExpectExec(`INSERT IGNORE INTO blacklisted_tokens .+ WHERE jti = \?`).
			WithArgs(at, "jti-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		created, err := repo.Blacklist(ctx, "jti-1", at)
		require.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("BlacklistAllExcept", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewMySQLTokenRepository(db)
		user := uuid.Must(uuid.NewV7())
		userBytes, _ := user.MarshalBinary()

		mock.ExpectExec(`INSERT IGNORE INTO blacklisted_tokens .+ WHERE user_id = \? AND jti <> \?`).
			WithArgs(at, userBytes, "keep-me").
			WillReturnResult(sqlmock.NewResult(0, 2))

		count, err := repo.BlacklistAllExcept(ctx, user, "keep-me", at)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("IsBlacklisted", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewMySQLTokenRepository(db)

		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("jti-1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(int64(1)))

		got, err := repo.IsBlacklisted(ctx, "jti-1")
		require.NoError(t, err)
		assert.True(t, got)
	})

	t.Run("DeleteExpired", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewMySQLTokenRepository(db)

		mock.ExpectExec(`DELETE FROM outstanding_tokens WHERE expires_at < \?`).
			WithArgs(at).
			WillReturnResult(sqlmock.NewResult(0, 4))

		count, err := repo.DeleteExpired(ctx, at)
		require.NoError(t, err)
		assert.Equal(t, int64(4), count)
	})

	t.Run("CountExpired", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewMySQLTokenRepository(db)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM outstanding_tokens`).
			WithArgs(at).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

		count, err := repo.CountExpired(ctx, at)
		require.NoError(t, err)
		assert.Equal(t, int64(4), count)
	})
}
