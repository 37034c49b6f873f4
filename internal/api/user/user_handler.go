package user

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/go-itinerary-planner/internal/api"
	"github.com/FACorreiaa/go-itinerary-planner/internal/api/auth"
	"github.com/FACorreiaa/go-itinerary-planner/internal/types"
	"go.opentelemetry.io/otel"
)

type HandlerImpl struct {
	userService Service
	logger      *slog.Logger
}

func NewHandlerImpl(userService Service, logger *slog.Logger) *HandlerImpl {
	instanceLogger := logger.With(slog.String("handler", "user"))
	return &HandlerImpl{
		userService: userService,
		logger:      instanceLogger,
	}
}

// GetProfile godoc
// @Summary      Fetch the caller's profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} types.UserProfile
// @Router       /users/me [get]
func (h *HandlerImpl) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("UserHandler").Start(r.Context(), "GetProfile")
	defer span.End()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	profile, err := h.userService.GetProfile(ctx, userID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to fetch profile", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary      Update the caller's profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body types.UpdateProfileParams true "Fields to change"
// @Success      200 {object} types.UserProfile
// @Router       /users/me [patch]
func (h *HandlerImpl) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("UserHandler").Start(r.Context(), "UpdateProfile")
	defer span.End()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var params types.UpdateProfileParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if params.Username == nil && params.Email == nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "nothing to update")
		return
	}

	profile, err := h.userService.UpdateProfile(ctx, userID, params)
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, types.ErrValidation):
			api.ErrorResponse(w, r, http.StatusBadRequest, "invalid profile fields")
		case errors.Is(err, types.ErrConflict):
			api.ErrorResponse(w, r, http.StatusConflict, "Email already in use")
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
		default:
			h.logger.ErrorContext(ctx, "Failed to update profile", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update profile")
		}
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, profile)
}
