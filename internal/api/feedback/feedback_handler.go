package feedback

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

// StoreFeedback records the user's ratings for one day of their trip.
func (h *HandlerImpl) StoreFeedback(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("FeedbackHandler").Start(r.Context(), "StoreFeedback", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/api/v1/feedback"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "StoreFeedback"))

	username, ok := appMiddleware.GetUsernameFromContext(ctx)
	if !ok {
		l.ErrorContext(ctx, "Username not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	span.SetAttributes(semconv.EnduserIDKey.String(username))

	var req types.FeedbackRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.service.StoreFeedback(ctx, username, req)
	if err != nil {
		if errors.Is(err, ErrInvalidFeedback) {
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
			return
		}
		l.ErrorContext(ctx, "Failed to store feedback", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to store feedback")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, types.FeedbackResponse{ID: id, Message: "Thank you for your feedback!"})
}
