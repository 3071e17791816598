package feedback

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	database "github.com/FACorreiaa/go-trip-planner/app/db"
	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	StoreFeedback(ctx context.Context, entry types.FeedbackEntry) (int64, error)
}

type RepositoryImpl struct {
	logger  *slog.Logger
	pgpool  database.DBTX
	metrics *metrics.AppMetrics
}

func NewRepositoryImpl(pgpool database.DBTX, m *metrics.AppMetrics, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger:  logger,
		pgpool:  pgpool,
		metrics: m,
	}
}

func (r *RepositoryImpl) StoreFeedback(ctx context.Context, e types.FeedbackEntry) (int64, error) {
	query := `
		INSERT INTO feedback (
			username, day, restaurant, restaurant_rating, hotel, hotel_rating,
			place, place_rating, additional_feedback, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	start := time.Now()
	var id int64
	err := r.pgpool.QueryRow(ctx, query,
		e.Username, e.Day, e.Restaurant, e.RestaurantRating, e.Hotel, e.HotelRating,
		e.Place, e.PlaceRating, e.Comment, e.CreatedAt,
	).Scan(&id)
	r.metrics.RecordQuery(ctx, "feedback", time.Since(start).Seconds(), err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert feedback", slog.Any("error", err), slog.String("username", e.Username))
		return 0, fmt.Errorf("failed to store feedback: %w", err)
	}
	return id, nil
}
