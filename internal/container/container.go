package container

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/go-trip-planner/app/db"
	appMiddleware "github.com/FACorreiaa/go-trip-planner/app/middleware"
	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/config"
	"github.com/FACorreiaa/go-trip-planner/internal/api/auth"
	"github.com/FACorreiaa/go-trip-planner/internal/api/dataset"
	"github.com/FACorreiaa/go-trip-planner/internal/api/feedback"
	"github.com/FACorreiaa/go-trip-planner/internal/api/recommend"
	"github.com/FACorreiaa/go-trip-planner/internal/router"
)

// Container holds all application dependencies
type Container struct {
	Config           *config.Config
	Logger           *slog.Logger
	Pool             *pgxpool.Pool
	Metrics          *metrics.AppMetrics
	Sessions         *recommend.SessionStore
	AuthHandler      *auth.AuthHandler
	RecommendHandler *recommend.HandlerImpl
	FeedbackHandler  *feedback.HandlerImpl
}

// NewContainer migrates and connects to the database, loads the dataset and
// wires every service and handler.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}
	if !database.WaitForDB(ctx, pool, database.MaxWait(cfg), logger) {
		pool.Close()
		return nil, fmt.Errorf("database not ready")
	}
	if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	places, err := dataset.NewRepository(cfg.Dataset.Path, logger)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	c := Build(cfg, pool, places, metrics.InitAppMetrics(), logger)
	c.Pool = pool
	return c, nil
}

// Build wires services and handlers on top of already opened resources.
func Build(cfg *config.Config, db database.DBTX, places dataset.Repository, m *metrics.AppMetrics, logger *slog.Logger) *Container {
	authRepo := auth.NewAuthRepoFactory(db, m, logger)
	authService := auth.NewAuthService(authRepo, cfg.JWT, m, logger)
	authHandler := auth.NewAuthHandler(authService, logger)

	sessions := recommend.NewSessionStore(cfg.Session.TTL, cfg.Session.CleanupInterval)
	recommendService := recommend.NewServiceImpl(places, sessions, recommend.NewRand(cfg.Recommend.Seed), recommend.Settings{
		City:    cfg.City,
		TopK:    cfg.Recommend.TopK,
		Metrics: m,
	}, logger)
	recommendHandler := recommend.NewHandlerImpl(recommendService, logger)

	feedbackRepo := feedback.NewRepositoryImpl(db, m, logger)
	feedbackService := feedback.NewServiceImpl(feedbackRepo, m, logger)
	feedbackHandler := feedback.NewHandlerImpl(feedbackService, logger)

	return &Container{
		Config:           cfg,
		Logger:           logger,
		Metrics:          m,
		Sessions:         sessions,
		AuthHandler:      authHandler,
		RecommendHandler: recommendHandler,
		FeedbackHandler:  feedbackHandler,
	}
}

// RouterConfig hands the handlers to the router.
func (c *Container) RouterConfig() *router.Config {
	return &router.Config{
		AuthHandler:            c.AuthHandler,
		RecommendHandler:       c.RecommendHandler,
		FeedbackHandler:        c.FeedbackHandler,
		AuthenticateMiddleware: appMiddleware.Authenticate([]byte(c.Config.JWT.SecretKey)),
		AllowedOrigins:         c.Config.Server.AllowedOrigins,
	}
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}
