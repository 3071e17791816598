package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	database "github.com/FACorreiaa/go-trip-planner/app/db"
	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var (
	ErrDuplicateUsername = errors.New("username already exists")
	ErrNotFound          = errors.New("user not found")
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

var _ AuthRepo = (*AuthRepoFactory)(nil)

type AuthRepo interface {
	Register(ctx context.Context, username, passwordHash string) (uuid.UUID, error)
	GetUserByUsername(ctx context.Context, username string) (*types.UserAuth, error)
}

type AuthRepoFactory struct {
	logger  *slog.Logger
	pgpool  database.DBTX
	metrics *metrics.AppMetrics
}

func NewAuthRepoFactory(pgpool database.DBTX, m *metrics.AppMetrics, logger *slog.Logger) *AuthRepoFactory {
	return &AuthRepoFactory{
		logger:  logger,
		pgpool:  pgpool,
		metrics: m,
	}
}

// Register stores a new user with an already hashed password.
func (r *AuthRepoFactory) Register(ctx context.Context, username, passwordHash string) (uuid.UUID, error) {
	start := time.Now()
	var id uuid.UUID
	err := r.pgpool.QueryRow(ctx,
		"INSERT INTO users (username, password_hash) VALUES ($1, $2) RETURNING id",
		username, passwordHash).Scan(&id)
	r.metrics.RecordQuery(ctx, "users", time.Since(start).Seconds(), err)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			r.logger.WarnContext(ctx, "Username already registered", slog.String("username", username))
			return uuid.Nil, ErrDuplicateUsername
		}
		r.logger.ErrorContext(ctx, "Failed to insert user", slog.Any("error", err))
		return uuid.Nil, fmt.Errorf("failed to register user: %w", err)
	}
	return id, nil
}

func (r *AuthRepoFactory) GetUserByUsername(ctx context.Context, username string) (*types.UserAuth, error) {
	start := time.Now()
	var user types.UserAuth
	err := r.pgpool.QueryRow(ctx,
		"SELECT id, username, password_hash, created_at FROM users WHERE username = $1",
		username).Scan(&user.ID, &user.Username, &user.Password, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		r.metrics.RecordQuery(ctx, "users", time.Since(start).Seconds(), nil)
		return nil, ErrNotFound
	}
	r.metrics.RecordQuery(ctx, "users", time.Since(start).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %q: %w", username, err)
	}
	return &user, nil
}
