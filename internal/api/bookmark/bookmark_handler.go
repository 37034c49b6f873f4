package bookmark

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/go-itinerary-planner/internal/api"
	"github.com/FACorreiaa/go-itinerary-planner/internal/api/auth"
	"github.com/FACorreiaa/go-itinerary-planner/internal/types"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
)

type HandlerImpl struct {
	bookmarkService Service
	logger          *slog.Logger
}

func NewHandlerImpl(bookmarkService Service, logger *slog.Logger) *HandlerImpl {
	instanceLogger := logger.With(slog.String("handler", "bookmark"))
	return &HandlerImpl{
		bookmarkService: bookmarkService,
		logger:          instanceLogger,
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

// Add godoc
// @Summary      Bookmark a location
// @Tags         bookmarks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body types.AddBookmarkRequest true "Location to bookmark"
// @Success      201 {object} types.Bookmark
// @Failure      404 {object} map[string]interface{}
// @Failure      409 {object} map[string]interface{}
// @Router       /bookmarks [post]
func (h *HandlerImpl) Add(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("BookmarkHandler").Start(r.Context(), "Add")
	defer span.End()

	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	var req types.AddBookmarkRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	locationID, err := uuid.Parse(req.LocationID)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid location_id")
		return
	}

	b, err := h.bookmarkService.AddBookmark(ctx, userID, locationID)
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, types.ErrConflict):
			api.ErrorResponse(w, r, http.StatusConflict, "Location already bookmarked")
		case errors.Is(err, types.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Location not found")
		default:
			h.logger.ErrorContext(ctx, "Failed to add bookmark", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to add bookmark")
		}
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, b)
}

// Remove godoc
// @Summary      Delete a bookmark
// @Tags         bookmarks
// @Security     BearerAuth
// @Param        id path string true "Bookmark ID"
// @Success      204
// @Failure      404 {object} map[string]interface{}
// @Router       /bookmarks/{id} [delete]
func (h *HandlerImpl) Remove(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("BookmarkHandler").Start(r.Context(), "Remove")
	defer span.End()

	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	bookmarkID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "invalid bookmark ID")
		return
	}

	if err := h.bookmarkService.RemoveBookmark(ctx, userID, bookmarkID); err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Bookmark not found")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to remove bookmark", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to remove bookmark")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

// List godoc
// @Summary      List the caller's bookmarks
// @Tags         bookmarks
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} types.BookmarkDetail
// @Router       /bookmarks [get]
func (h *HandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("BookmarkHandler").Start(r.Context(), "List")
	defer span.End()

	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	bookmarks, err := h.bookmarkService.ListBookmarks(ctx, userID)
	if err != nil {
		span.RecordError(err)
		h.logger.ErrorContext(ctx, "Failed to list bookmarks", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list bookmarks")
		return
	}
	if bookmarks == nil {
		bookmarks = []types.BookmarkDetail{}
	}
	api.WriteJSONResponse(w, r, http.StatusOK, bookmarks)
}
