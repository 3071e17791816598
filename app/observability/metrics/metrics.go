package metrics

import (
	"context"
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
// Methods are safe to call on a nil receiver so tests can skip metrics entirely.
type AppMetrics struct {
	PlanRequestsTotal      metric.Int64Counter
	SessionCacheHitsTotal  metric.Int64Counter
	RankDurationSeconds    metric.Float64Histogram
	RegisterRequestsTotal  metric.Int64Counter
	FeedbackStoredTotal    metric.Int64Counter
	DbQueryDurationSeconds metric.Float64Histogram
	DbQueryErrorsTotal     metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics builds the instruments once on the global MeterProvider.
func InitAppMetrics() *AppMetrics {
	once.Do(func() {
		m, err := New(otel.GetMeterProvider().Meter("go-trip-planner"))
		if err != nil {
			log.Fatalf("Metrics: %v", err)
		}
		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
	return appMetrics
}

// New builds the instruments on meter.
func New(meter metric.Meter) (*AppMetrics, error) {
	var err error
	m := &AppMetrics{}

	if m.PlanRequestsTotal, err = meter.Int64Counter(
		"trip_plan_requests_total",
		metric.WithDescription("Total number of trip plans computed, by outcome"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, err
	}
	if m.SessionCacheHitsTotal, err = meter.Int64Counter(
		"trip_session_cache_hits_total",
		metric.WithDescription("Day selections served from the session cache"),
		metric.WithUnit("{day}"),
	); err != nil {
		return nil, err
	}
	if m.RankDurationSeconds, err = meter.Float64Histogram(
		"trip_rank_duration_seconds",
		metric.WithDescription("Duration of a single day ranking in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if m.RegisterRequestsTotal, err = meter.Int64Counter(
		"register_requests_total",
		metric.WithDescription("Total number of register requests completed"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, err
	}
	if m.FeedbackStoredTotal, err = meter.Int64Counter(
		"feedback_stored_total",
		metric.WithDescription("Total number of feedback entries stored"),
		metric.WithUnit("{entry}"),
	); err != nil {
		return nil, err
	}
	if m.DbQueryDurationSeconds, err = meter.Float64Histogram(
		"db_query_duration_seconds",
		metric.WithDescription("Duration of database queries in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if m.DbQueryErrorsTotal, err = meter.Int64Counter(
		"db_query_errors_total",
		metric.WithDescription("Total number of database query errors"),
		metric.WithUnit("{error}"),
	); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *AppMetrics) RecordPlan(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.PlanRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (m *AppMetrics) RecordCacheHit(ctx context.Context) {
	if m == nil {
		return
	}
	m.SessionCacheHitsTotal.Add(ctx, 1)
}

func (m *AppMetrics) RecordRank(ctx context.Context, seconds float64) {
	if m == nil {
		return
	}
	m.RankDurationSeconds.Record(ctx, seconds)
}

func (m *AppMetrics) RecordRegister(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.RegisterRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (m *AppMetrics) RecordFeedback(ctx context.Context) {
	if m == nil {
		return
	}
	m.FeedbackStoredTotal.Add(ctx, 1)
}

// RecordQuery records one database round trip for table.
func (m *AppMetrics) RecordQuery(ctx context.Context, table string, seconds float64, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("db.table", table))
	m.DbQueryDurationSeconds.Record(ctx, seconds, attrs)
	if err != nil {
		m.DbQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}
