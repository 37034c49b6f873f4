package bookmark

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/FACorreiaa/go-itinerary-planner/internal/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBookmarkRepo struct {
	mock.Mock
}

func (m *MockBookmarkRepo) AddBookmark(ctx context.Context, userID, locationID uuid.UUID) (*types.Bookmark, error) {
	args := m.Called(ctx, userID, locationID)
	b, _ := args.Get(0).(*types.Bookmark)
	return b, args.Error(1)
}

func (m *MockBookmarkRepo) RemoveBookmark(ctx context.Context, userID, bookmarkID uuid.UUID) error {
	args := m.Called(ctx, userID, bookmarkID)
	return args.Error(0)
}

func (m *MockBookmarkRepo) ListBookmarks(ctx context.Context, userID uuid.UUID) ([]types.BookmarkDetail, error) {
	args := m.Called(ctx, userID)
	details, _ := args.Get(0).([]types.BookmarkDetail)
	return details, args.Error(1)
}

var testLogger = slog.New(slog.DiscardHandler)

func TestBookmarkService_AddBookmark(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	locationID := uuid.New()

	t.Run("success", func(t *testing.T) {
		mockRepo := new(MockBookmarkRepo)
		service := NewBookmarkService(mockRepo, testLogger)

		want := &types.Bookmark{ID: uuid.New(), UserID: userID, LocationID: locationID, CreatedAt: time.Now()}
		mockRepo.On("AddBookmark", mock.Anything, userID, locationID).Return(want, nil).Once()

		b, err := service.AddBookmark(ctx, userID, locationID)
		require.NoError(t, err)
		assert.Equal(t, want.ID, b.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("duplicate surfaces conflict", func(t *testing.T) {
		mockRepo := new(MockBookmarkRepo)
		service := NewBookmarkService(mockRepo, testLogger)

		mockRepo.On("AddBookmark", mock.Anything, userID, locationID).
			Return(nil, types.ErrConflict).Once()

		_, err := service.AddBookmark(ctx, userID, locationID)
		assert.ErrorIs(t, err, types.ErrConflict)
	})
}

func TestBookmarkService_RemoveBookmark(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("unknown bookmark is not found", func(t *testing.T) {
		mockRepo := new(MockBookmarkRepo)
		service := NewBookmarkService(mockRepo, testLogger)

		bookmarkID := uuid.New()
		mockRepo.On("RemoveBookmark", mock.Anything, userID, bookmarkID).
			Return(types.ErrNotFound).Once()

		err := service.RemoveBookmark(ctx, userID, bookmarkID)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}
