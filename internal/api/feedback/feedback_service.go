package feedback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var ErrInvalidFeedback = errors.New("invalid feedback")

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	StoreFeedback(ctx context.Context, username string, req types.FeedbackRequest) (int64, error)
}

type ServiceImpl struct {
	logger  *slog.Logger
	repo    Repository
	metrics *metrics.AppMetrics
	now     func() time.Time
}

func NewServiceImpl(repo Repository, m *metrics.AppMetrics, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:  logger,
		repo:    repo,
		metrics: m,
		now:     time.Now,
	}
}

// StoreFeedback validates req and stores it stamped with the service clock.
func (s *ServiceImpl) StoreFeedback(ctx context.Context, username string, req types.FeedbackRequest) (int64, error) {
	ctx, span := otel.Tracer("FeedbackService").Start(ctx, "StoreFeedback")
	defer span.End()
	span.SetAttributes(attribute.String("username", username), attribute.Int("day", req.Day))

	if err := api.ValidateStruct(req); err != nil {
		span.SetStatus(codes.Error, "invalid feedback")
		return 0, fmt.Errorf("%w: %s", ErrInvalidFeedback, err.Error())
	}

	id, err := s.repo.StoreFeedback(ctx, types.FeedbackEntry{
		Username:         username,
		Day:              req.Day,
		Restaurant:       req.Restaurant,
		RestaurantRating: req.RestaurantRating,
		Hotel:            req.Hotel,
		HotelRating:      req.HotelRating,
		Place:            req.Place,
		PlaceRating:      req.PlaceRating,
		Comment:          req.Comment,
		CreatedAt:        s.now().UTC(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store failed")
		return 0, err
	}

	s.metrics.RecordFeedback(ctx)
	s.logger.InfoContext(ctx, "Feedback stored", slog.Int64("id", id), slog.String("username", username))
	span.SetStatus(codes.Ok, "stored")
	return id, nil
}
