package location

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/FACorreiaa/go-itinerary-planner/internal/api"
	"github.com/FACorreiaa/go-itinerary-planner/internal/types"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

type HandlerImpl struct {
	locationService Service
	logger          *slog.Logger
}

func NewHandlerImpl(locationService Service, logger *slog.Logger) *HandlerImpl {
	instanceLogger := logger.With(slog.String("handler", "location"))
	return &HandlerImpl{
		locationService: locationService,
		logger:          instanceLogger,
	}
}

func validateLocation(loc types.CreateLocationRequest) error {
	if strings.TrimSpace(loc.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(loc.City) == "" {
		return errors.New("city is required")
	}
	if loc.Latitude < -90 || loc.Latitude > 90 {
		return errors.New("latitude must be between -90 and 90")
	}
	if loc.Longitude < -180 || loc.Longitude > 180 {
		return errors.New("longitude must be between -180 and 180")
	}
	return nil
}

// ListByCity godoc
// @Summary      List locations for a city
// @Tags         locations
// @Produce      json
// @Param        city query string true "City name"
// @Success      200 {array} types.Location
// @Router       /locations [get]
func (h *HandlerImpl) ListByCity(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("LocationHandler").Start(r.Context(), "ListByCity", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/locations"),
	))
	defer span.End()

	city := strings.TrimSpace(r.URL.Query().Get("city"))
	if city == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "query parameter 'city' is required")
		return
	}

	locations, err := h.locationService.GetLocationsByCity(ctx, city)
	if err != nil {
		span.RecordError(err)
		h.logger.ErrorContext(ctx, "Failed to list locations", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list locations")
		return
	}
	if locations == nil {
		locations = []types.Location{}
	}
	api.WriteJSONResponse(w, r, http.StatusOK, locations)
}

// Get godoc
// @Summary      Fetch a single location
// @Tags         locations
// @Produce      json
// @Param        id path string true "Location ID"
// @Success      200 {object} types.Location
// @Failure      404 {object} map[string]interface{}
// @Router       /locations/{id} [get]
func (h *HandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("LocationHandler").Start(r.Context(), "Get")
	defer span.End()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid location ID")
		return
	}

	loc, err := h.locationService.GetLocation(ctx, id)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Location not found")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to fetch location", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch location")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, loc)
}

// Create godoc
// @Summary      Add a location to the catalogue
// @Tags         locations
// @Accept       json
// @Produce      json
// @Param        request body types.CreateLocationRequest true "Location"
// @Success      201 {object} types.Location
// @Router       /locations [post]
func (h *HandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("LocationHandler").Start(r.Context(), "Create")
	defer span.End()

	var req types.CreateLocationRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateLocation(req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.locationService.CreateLocation(ctx, req)
	if err != nil {
		span.RecordError(err)
		h.logger.ErrorContext(ctx, "Failed to create location", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create location")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, created)
}

// Import godoc
// @Summary      Bulk import locations
// @Tags         locations
// @Accept       json
// @Produce      json
// @Param        request body types.ImportLocationsRequest true "Locations batch"
// @Success      201 {object} types.ImportLocationsResponse
// @Router       /locations/import [post]
func (h *HandlerImpl) Import(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("LocationHandler").Start(r.Context(), "Import")
	defer span.End()

	var req types.ImportLocationsRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Locations) == 0 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "locations batch must not be empty")
		return
	}
	for i, loc := range req.Locations {
		if err := validateLocation(loc); err != nil {
			api.ErrorResponse(w, r, http.StatusBadRequest, fmt.Sprintf("location %d: %s", i, err))
			return
		}
	}

	imported, err := h.locationService.ImportLocations(ctx, req.Locations)
	if err != nil {
		span.RecordError(err)
		h.logger.ErrorContext(ctx, "Failed to import locations", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to import locations")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, types.ImportLocationsResponse{Imported: imported})
}

// ListCities godoc
// @Summary      List all cities with seeded locations
// @Tags         locations
// @Produce      json
// @Success      200 {array} string
// @Router       /locations/cities [get]
func (h *HandlerImpl) ListCities(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("LocationHandler").Start(r.Context(), "ListCities")
	defer span.End()

	cities, err := h.locationService.ListCities(ctx)
	if err != nil {
		span.RecordError(err)
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list cities")
		return
	}
	if cities == nil {
		cities = []string{}
	}
	api.WriteJSONResponse(w, r, http.StatusOK, cities)
}
