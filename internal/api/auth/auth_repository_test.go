package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*AuthRepoFactory, pgxmock.PgxPoolIface) {
	t.Helper()
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return NewAuthRepoFactory(pool, nil, slog.New(slog.NewTextHandler(io.Discard, nil))), pool
}

func TestAuthRepoRegister(t *testing.T) {
	insert := regexp.QuoteMeta("INSERT INTO users (username, password_hash) VALUES ($1, $2) RETURNING id")

	t.Run("Success", func(t *testing.T) {
		repo, pool := newMockRepo(t)
		id := uuid.New()
		pool.ExpectQuery(insert).
			WithArgs("alice", "hash").
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(id))

		got, err := repo.Register(context.Background(), "alice", "hash")
		require.NoError(t, err)
		assert.Equal(t, id, got)
		assert.NoError(t, pool.ExpectationsWereMet())
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		repo, pool := newMockRepo(t)
		pool.ExpectQuery(insert).
			WithArgs("alice", "hash").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

		_, err := repo.Register(context.Background(), "alice", "hash")
		assert.ErrorIs(t, err, ErrDuplicateUsername)
		assert.NoError(t, pool.ExpectationsWereMet())
	})

	t.Run("OtherError", func(t *testing.T) {
		repo, pool := newMockRepo(t)
		boom := errors.New("connection reset")
		pool.ExpectQuery(insert).
			WithArgs("alice", "hash").
			WillReturnError(boom)

		_, err := repo.Register(context.Background(), "alice", "hash")
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, ErrDuplicateUsername)
		assert.NoError(t, pool.ExpectationsWereMet())
	})
}

func TestAuthRepoGetUserByUsername(t *testing.T) {
	query := regexp.QuoteMeta("SELECT id, username, password_hash, created_at FROM users WHERE username = $1")

	t.Run("Found", func(t *testing.T) {
		repo, pool := newMockRepo(t)
		id := uuid.New()
		created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		pool.ExpectQuery(query).
			WithArgs("alice").
			WillReturnRows(pgxmock.NewRows([]string{"id", "username", "password_hash", "created_at"}).
				AddRow(id, "alice", "hash", created))

		user, err := repo.GetUserByUsername(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "hash", user.Password)
		assert.Equal(t, created, user.CreatedAt)
		assert.NoError(t, pool.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		repo, pool := newMockRepo(t)
		pool.ExpectQuery(query).WithArgs("ghost").WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetUserByUsername(context.Background(), "ghost")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, pool.ExpectationsWereMet())
	})
}
