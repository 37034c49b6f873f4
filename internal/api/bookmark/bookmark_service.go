package bookmark

import (
	"context"
	"log/slog"

	"github.com/FACorreiaa/go-itinerary-planner/internal/types"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	AddBookmark(ctx context.Context, userID, locationID uuid.UUID) (*types.Bookmark, error)
	RemoveBookmark(ctx context.Context, userID, bookmarkID uuid.UUID) error
	ListBookmarks(ctx context.Context, userID uuid.UUID) ([]types.BookmarkDetail, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewBookmarkService(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *ServiceImpl) AddBookmark(ctx context.Context, userID, locationID uuid.UUID) (*types.Bookmark, error) {
	ctx, span := otel.Tracer("BookmarkService").Start(ctx, "AddBookmark")
	defer span.End()
	span.SetAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("location.id", locationID.String()),
	)

	b, err := s.repo.AddBookmark(ctx, userID, locationID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.logger.DebugContext(ctx, "Bookmark added", slog.String("bookmarkID", b.ID.String()))
	return b, nil
}

func (s *ServiceImpl) RemoveBookmark(ctx context.Context, userID, bookmarkID uuid.UUID) error {
	ctx, span := otel.Tracer("BookmarkService").Start(ctx, "RemoveBookmark")
	defer span.End()

	return s.repo.RemoveBookmark(ctx, userID, bookmarkID)
}

func (s *ServiceImpl) ListBookmarks(ctx context.Context, userID uuid.UUID) ([]types.BookmarkDetail, error) {
	ctx, span := otel.Tracer("BookmarkService").Start(ctx, "ListBookmarks")
	defer span.End()

	return s.repo.ListBookmarks(ctx, userID)
}
