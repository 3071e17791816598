package recommend

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	appMiddleware "github.com/FACorreiaa/go-trip-planner/app/middleware"
	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandlerImpl(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		service: service,
		logger:  logger,
	}
}

// Plan builds a multi-day itinerary for the authenticated user.
func (h *HandlerImpl) Plan(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RecommendHandler").Start(r.Context(), "Plan", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/trips/plan"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Plan"))
	l.DebugContext(ctx, "Plan trip handler invoked")

	username, ok := appMiddleware.GetUsernameFromContext(ctx)
	if !ok || username == "" {
		l.ErrorContext(ctx, "Username not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	span.SetAttributes(semconv.EnduserIDKey.String(username))
	l = l.With(slog.String("username", username))

	var req types.TripRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.service.Plan(ctx, username, req)
	if err != nil {
		if errors.Is(err, ErrInvalidRequest) {
			l.WarnContext(ctx, "Invalid trip request", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
			return
		}
		l.ErrorContext(ctx, "Failed to plan trip", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to plan trip")
		return
	}

	l.InfoContext(ctx, "Trip plan returned", slog.Bool("no_recommendation", plan.NoRecommendation))
	api.WriteJSONResponse(w, r, http.StatusOK, plan)
}

// Categories lists the place categories a request may filter on.
func (h *HandlerImpl) Categories(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RecommendHandler").Start(r.Context(), "Categories", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/trips/categories"),
	))
	defer span.End()

	h.logger.DebugContext(ctx, "Categories handler invoked")
	api.WriteJSONResponse(w, r, http.StatusOK, map[string][]string{"categories": h.service.Categories()})
}

// ResetSession forgets the cached days so the next plan draws fresh anchors.
func (h *HandlerImpl) ResetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RecommendHandler").Start(r.Context(), "ResetSession", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/trips/session"),
	))
	defer span.End()

	username, ok := appMiddleware.GetUsernameFromContext(ctx)
	if !ok || username == "" {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	h.service.ResetSession(ctx, username)
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}
