package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/config"
	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/api/dataset"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// NoRecommendationMessage is returned when nothing in the dataset matches.
const NoRecommendationMessage = "No suitable recommendations found based on the provided criteria."

var _ Service = (*ServiceImpl)(nil)

// Service plans trips for a user session.
type Service interface {
	Plan(ctx context.Context, sessionKey string, req types.TripRequest) (*types.TripPlan, error)
	Categories() []string
	ResetSession(ctx context.Context, sessionKey string)
}

// Settings are the tunables of the planner.
type Settings struct {
	City    config.CityConfig
	TopK    int
	Metrics *metrics.AppMetrics
}

type ServiceImpl struct {
	logger   *slog.Logger
	dataset  dataset.Repository
	sessions *SessionStore
	settings Settings

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewServiceImpl(repo dataset.Repository, sessions *SessionStore, rnd *rand.Rand, settings Settings, logger *slog.Logger) *ServiceImpl {
	if settings.TopK <= 0 {
		settings.TopK = DefaultTopK
	}
	return &ServiceImpl{
		logger:   logger,
		dataset:  repo,
		sessions: sessions,
		settings: settings,
		rnd:      rnd,
	}
}

// NewRand seeds a PCG source. A zero seed uses the clock.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1))
}

func (s *ServiceImpl) Categories() []string {
	out := make([]string, len(types.PlaceCategories))
	copy(out, types.PlaceCategories)
	return out
}

func (s *ServiceImpl) ResetSession(ctx context.Context, sessionKey string) {
	s.sessions.Delete(sessionKey)
	s.logger.DebugContext(ctx, "Trip session cleared", slog.String("session", sessionKey))
}

func (s *ServiceImpl) Plan(ctx context.Context, sessionKey string, req types.TripRequest) (*types.TripPlan, error) {
	ctx, span := otel.Tracer("RecommendService").Start(ctx, "Plan", trace.WithAttributes(
		attribute.Float64("budget", req.Budget),
		attribute.Int("days", req.Days),
		attribute.StringSlice("categories", req.Categories),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Plan"), slog.String("session", sessionKey))

	if err := api.ValidateStruct(req); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		s.settings.Metrics.RecordPlan(ctx, "invalid")
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err.Error())
	}
	criteria, err := ResolveCriteria(req)
	if err != nil {
		span.SetStatus(codes.Error, "invalid request")
		s.settings.Metrics.RecordPlan(ctx, "invalid")
		return nil, err
	}

	fingerprint := Fingerprint(req)
	plan := &types.TripPlan{
		City: s.settings.City.Name,
		MapCenter: types.MapPoint{
			Name:      s.settings.City.Name,
			Latitude:  types.Score(s.settings.City.Latitude),
			Longitude: types.Score(s.settings.City.Longitude),
			Type:      "City",
		},
		BudgetLevel: criteria.BudgetLevel,
		Fingerprint: fingerprint,
		Days:        []types.DayPlan{},
	}
	span.SetAttributes(attribute.Int("budget_level", criteria.BudgetLevel), attribute.String("fingerprint", fingerprint))

	rows := Filter(s.dataset.Records(), criteria)
	span.SetAttributes(attribute.Int("filtered_rows", len(rows)))
	if len(rows) == 0 {
		l.InfoContext(ctx, "No rows matched trip criteria", slog.Int("budget_level", criteria.BudgetLevel))
		plan.NoRecommendation = true
		plan.Message = NoRecommendationMessage
		s.settings.Metrics.RecordPlan(ctx, "empty")
		return plan, nil
	}

	session := s.sessions.Get(sessionKey)
	for day := 1; day <= req.Days; day++ {
		sel, cached, err := session.Selection(day, fingerprint, func() (*Selection, error) {
			return s.selectDay(ctx, rows, fingerprint)
		})
		if errors.Is(err, ErrNoAnchor) {
			l.InfoContext(ctx, "Filtered rows carry no restaurant", slog.Int("rows", len(rows)))
			plan.NoRecommendation = true
			plan.Message = NoRecommendationMessage
			plan.Days = []types.DayPlan{}
			s.settings.Metrics.RecordPlan(ctx, "empty")
			return plan, nil
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "selection failed")
			s.settings.Metrics.RecordPlan(ctx, "error")
			return nil, fmt.Errorf("failed to select day %d: %w", day, err)
		}
		if cached {
			s.settings.Metrics.RecordCacheHit(ctx)
		}
		plan.Days = append(plan.Days, dayPlan(day, sel, cached))
	}
	plan.Overview = Overview(rows, req.Budget)

	l.InfoContext(ctx, "Trip planned", slog.Int("days", len(plan.Days)), slog.Int("rows", len(rows)))
	span.SetStatus(codes.Ok, "trip planned")
	s.settings.Metrics.RecordPlan(ctx, "ok")
	return plan, nil
}

func (s *ServiceImpl) selectDay(ctx context.Context, rows []*types.PlaceRecord, fingerprint string) (*Selection, error) {
	s.rndMu.Lock()
	anchor, err := PickAnchor(rows, s.rnd)
	s.rndMu.Unlock()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	sel := Rank(rows, anchor, s.settings.TopK, fingerprint)
	s.settings.Metrics.RecordRank(ctx, time.Since(start).Seconds())
	return sel, nil
}

func dayPlan(day int, sel *Selection, cached bool) types.DayPlan {
	a := sel.Anchor
	dp := types.DayPlan{
		Day: day,
		Restaurant: types.Suggestion{
			Name:       a.Restaurant.Name,
			Latitude:   a.Restaurant.Latitude,
			Longitude:  a.Restaurant.Longitude,
			Rating:     a.Restaurant.Rating,
			Categories: a.Categories,
		},
		SimilarHotels: make([]types.Suggestion, 0, len(sel.SimilarHotels)),
		SimilarPlaces: make([]types.Suggestion, 0, len(sel.SimilarPlaces)),
		Cached:        cached,
	}
	if sel.NearestHotel != nil {
		h := hotelSuggestion(*sel.NearestHotel)
		h.Similarity = nil
		dp.Hotel = &h
	}
	if sel.NearestPlace != nil {
		p := placeSuggestion(*sel.NearestPlace)
		p.Similarity = nil
		dp.Place = &p
	}
	for _, c := range sel.SimilarHotels {
		dp.SimilarHotels = append(dp.SimilarHotels, hotelSuggestion(c))
	}
	for _, c := range sel.SimilarPlaces {
		dp.SimilarPlaces = append(dp.SimilarPlaces, placeSuggestion(c))
	}

	if dp.Hotel != nil && dp.Place != nil {
		dp.MapPoints = []types.MapPoint{
			{Name: dp.Restaurant.Name, Latitude: dp.Restaurant.Latitude, Longitude: dp.Restaurant.Longitude, Type: "Restaurant"},
			{Name: dp.Hotel.Name, Latitude: dp.Hotel.Latitude, Longitude: dp.Hotel.Longitude, Type: "Hotel"},
			{Name: dp.Place.Name, Latitude: dp.Place.Latitude, Longitude: dp.Place.Longitude, Type: "Place"},
		}
	}
	return dp
}

func hotelSuggestion(c Candidate) types.Suggestion {
	h := c.Row.Hotel
	stars := h.StarRating
	dist := types.Score(c.DistanceMeters)
	sim := c.Similarity
	return types.Suggestion{
		Name:           h.Name,
		Latitude:       h.Latitude,
		Longitude:      h.Longitude,
		Rating:         h.ReviewScore,
		StarRating:     &stars,
		DistanceMeters: &dist,
		Similarity:     &sim,
	}
}

func placeSuggestion(c Candidate) types.Suggestion {
	p := c.Row.Place
	dist := types.Score(c.DistanceMeters)
	sim := c.Similarity
	return types.Suggestion{
		Name:           p.Name,
		Latitude:       p.Latitude,
		Longitude:      p.Longitude,
		Rating:         p.Rating,
		DistanceMeters: &dist,
		Similarity:     &sim,
		Categories:     c.Row.Categories,
	}
}
