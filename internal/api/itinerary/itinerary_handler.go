package itinerary

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/FACorreiaa/go-itinerary-planner/internal/api"
	"github.com/FACorreiaa/go-itinerary-planner/internal/api/auth"
	"github.com/FACorreiaa/go-itinerary-planner/internal/types"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

type HandlerImpl struct {
	itineraryService Service
	logger           *slog.Logger
}

func NewHandlerImpl(itineraryService Service, logger *slog.Logger) *HandlerImpl {
	instanceLogger := logger.With(slog.String("handler", "itinerary"))
	return &HandlerImpl{
		itineraryService: itineraryService,
		logger:           instanceLogger,
	}
}

func userIDFromRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid user identity")
		return uuid.Nil, false
	}
	return userID, true
}

func itineraryIDFromRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid itinerary ID")
		return uuid.Nil, false
	}
	return id, true
}

// validationMessage strips the sentinel prefix so clients see only the
// human-readable part.
func validationMessage(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, ": "); idx >= 0 {
		return msg[idx+2:]
	}
	return msg
}

// Generate godoc
// @Summary      Generate an itinerary for a city and date range
// @Tags         itineraries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body types.GenerateItineraryRequest true "Trip parameters"
// @Success      201 {object} types.ItineraryDetailResponse
// @Failure      400 {object} map[string]interface{}
// @Failure      404 {object} map[string]interface{}
// @Router       /itineraries [post]
func (h *HandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "Generate", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itineraries"),
	))
	defer span.End()

	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	var req types.GenerateItineraryRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	detail, err := h.itineraryService.Generate(ctx, userID, req)
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, types.ErrValidation):
			api.ErrorResponse(w, r, http.StatusBadRequest, validationMessage(err))
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, validationMessage(err))
		default:
			h.logger.ErrorContext(ctx, "Generation failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to generate itinerary")
		}
		return
	}

	span.SetAttributes(attribute.String("itinerary.id", detail.Itinerary.ID.String()))
	span.SetStatus(codes.Ok, "itinerary generated")
	api.WriteJSONResponse(w, r, http.StatusCreated, detail)
}

// List godoc
// @Summary      List the caller's itineraries
// @Tags         itineraries
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} types.PaginatedItinerariesResponse
// @Router       /itineraries [get]
func (h *HandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "List")
	defer span.End()

	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	resp, err := h.itineraryService.ListItineraries(ctx, userID, page, pageSize)
	if err != nil {
		span.RecordError(err)
		h.logger.ErrorContext(ctx, "Failed to list itineraries", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list itineraries")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// Get godoc
// @Summary      Fetch one itinerary with its day-by-day plan
// @Tags         itineraries
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Itinerary ID"
// @Success      200 {object} types.ItineraryDetailResponse
// @Failure      404 {object} map[string]interface{}
// @Router       /itineraries/{id} [get]
func (h *HandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "Get")
	defer span.End()

	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	itineraryID, ok := itineraryIDFromRequest(w, r)
	if !ok {
		return
	}

	detail, err := h.itineraryService.GetItineraryDetail(ctx, userID, itineraryID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Itinerary not found")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to fetch itinerary", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch itinerary")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, detail)
}

// Update godoc
// @Summary      Edit an itinerary's title or dates
// @Tags         itineraries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Itinerary ID"
// @Param        request body types.UpdateItineraryRequest true "Fields to change"
// @Success      200 {object} types.ItineraryResponse
// @Failure      404 {object} map[string]interface{}
// @Router       /itineraries/{id} [patch]
func (h *HandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "Update")
	defer span.End()

	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	itineraryID, ok := itineraryIDFromRequest(w, r)
	if !ok {
		return
	}

	var req types.UpdateItineraryRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.itineraryService.UpdateItinerary(ctx, userID, itineraryID, req)
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, types.ErrValidation):
			api.ErrorResponse(w, r, http.StatusBadRequest, validationMessage(err))
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Itinerary not found")
		default:
			h.logger.ErrorContext(ctx, "Failed to update itinerary", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update itinerary")
		}
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// Delete godoc
// @Summary      Delete an itinerary and its activities
// @Tags         itineraries
// @Security     BearerAuth
// @Param        id path string true "Itinerary ID"
// @Success      204
// @Failure      404 {object} map[string]interface{}
// @Router       /itineraries/{id} [delete]
func (h *HandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "Delete")
	defer span.End()

	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	itineraryID, ok := itineraryIDFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.itineraryService.DeleteItinerary(ctx, userID, itineraryID); err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Itinerary not found")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to delete itinerary", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete itinerary")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

// MapData godoc
// @Summary      Flattened map markers for every activity
// @Tags         itineraries
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Itinerary ID"
// @Success      200 {object} types.MapDataResponse
// @Router       /itineraries/{id}/map_data [get]
func (h *HandlerImpl) MapData(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "MapData")
	defer span.End()

	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	itineraryID, ok := itineraryIDFromRequest(w, r)
	if !ok {
		return
	}

	resp, err := h.itineraryService.GetMapData(ctx, userID, itineraryID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Itinerary not found")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to build map data", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to build map data")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// DailyRoutes godoc
// @Summary      Per-day ordered waypoints
// @Tags         itineraries
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Itinerary ID"
// @Success      200 {object} types.DailyRoutesResponse
// @Router       /itineraries/{id}/daily_routes [get]
func (h *HandlerImpl) DailyRoutes(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "DailyRoutes")
	defer span.End()

	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	itineraryID, ok := itineraryIDFromRequest(w, r)
	if !ok {
		return
	}

	resp, err := h.itineraryService.GetDailyRoutes(ctx, userID, itineraryID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Itinerary not found")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to build daily routes", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to build daily routes")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}
