package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	uuid "github.com/vgarvardt/pgx-google-uuid/v5"

	"github.com/FACorreiaa/go-trip-planner/config"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 3 * time.Second
)

// DBTX is the part of *pgxpool.Pool the repositories use, so tests can pass a pgxmock pool.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ DBTX = (*pgxpool.Pool)(nil)

type DatabaseConfig struct {
	ConnectionURL string
}

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// WaitForDB pings until the database answers or maxWait elapses, doubling the
// pause between attempts up to maxBackoff.
func WaitForDB(ctx context.Context, db Pinger, maxWait time.Duration, logger *slog.Logger) bool {
	ctx, cancel := context.WithTimeout(ctx, maxWait)
	defer cancel()

	backoff := initialBackoff
	for attempt := 1; ; attempt++ {
		err := db.Ping(ctx)
		if err == nil {
			logger.InfoContext(ctx, "Database connection successful", slog.Int("attempts", attempt))
			return true
		}
		logger.WarnContext(ctx, "Database ping failed, retrying...",
			slog.Int("attempt", attempt),
			slog.Duration("backoff", backoff),
			slog.String("error", err.Error()),
		)

		select {
		case <-ctx.Done():
			logger.ErrorContext(ctx, "Database not reachable", slog.Duration("waited", maxWait))
			return false
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxBackoff)
	}
}

// RunMigrations brings the users and feedback tables up to the latest embedded version.
func RunMigrations(databaseURL string, logger *slog.Logger) error {
	if !strings.HasPrefix(databaseURL, "postgres://") && !strings.HasPrefix(databaseURL, "postgresql://") {
		return errors.New("migrate: database URL must use the postgres:// or postgresql:// scheme")
	}

	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("migrate: open embedded source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("migrate: connect: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			logger.Warn("migrate: close", slog.Any("source_error", srcErr), slog.Any("db_error", dbErr))
		}
	}()

	upErr := m.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("migrate: up: %w", upErr)
	}

	version, dirty, err := m.Version()
	if err != nil {
		logger.Warn("migrate: version unknown", slog.Any("error", err))
		return nil
	}
	if dirty {
		return fmt.Errorf("migrate: schema is dirty at version %d", version)
	}
	logger.Info("Schema up to date",
		slog.Uint64("version", uint64(version)),
		slog.Bool("changed", upErr == nil),
	)
	return nil
}

// NewDatabaseConfig builds a postgresql:// URL, the scheme both pgx and migrate accept.
func NewDatabaseConfig(cfg *config.Config, logger *slog.Logger) (*DatabaseConfig, error) {
	if cfg == nil || cfg.Repositories.Postgres.Host == "" {
		return nil, errors.New("repositories.postgres.host is not set")
	}
	pg := cfg.Repositories.Postgres

	sslMode := pg.SSLMODE
	if sslMode == "" {
		sslMode = "disable"
	}
	query := url.Values{}
	query.Set("sslmode", sslMode)
	query.Set("timezone", "utc")

	connURL := url.URL{
		Scheme:   "postgresql",
		User:     url.UserPassword(pg.Username, pg.Password),
		Host:     net.JoinHostPort(pg.Host, pg.Port),
		Path:     pg.DB,
		RawQuery: query.Encode(),
	}
	logger.Debug("Postgres target", slog.String("host", connURL.Host), slog.String("database", pg.DB))

	return &DatabaseConfig{ConnectionURL: connURL.String()}, nil
}

// MaxWait is how long startup waits for Postgres, from MAXCONWAITINGTIME seconds.
func MaxWait(cfg *config.Config) time.Duration {
	if cfg.Repositories.Postgres.MAXCONWAITINGTIME <= 0 {
		return 10 * time.Second
	}
	return time.Duration(cfg.Repositories.Postgres.MAXCONWAITINGTIME) * time.Second
}

// Init opens the pool and registers the google/uuid codec on every connection.
func Init(connectionURL string, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(connectionURL)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}
	poolCfg.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		uuid.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	logger.Info("Postgres pool ready", slog.Int("max_conns", int(poolCfg.MaxConns)))
	return pool, nil
}
