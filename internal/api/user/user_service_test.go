package user

import (
	"context"
	"log/slog"
	"testing"

	"github.com/FACorreiaa/go-itinerary-planner/internal/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetProfile(ctx context.Context, userID string) (*types.UserProfile, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).(*types.UserProfile)
	return p, args.Error(1)
}

func (m *MockUserRepo) UpdateProfile(ctx context.Context, userID string, params types.UpdateProfileParams) (*types.UserProfile, error) {
	args := m.Called(ctx, userID, params)
	p, _ := args.Get(0).(*types.UserProfile)
	return p, args.Error(1)
}

var testLogger = slog.New(slog.DiscardHandler)

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	userID := uuid.NewString()

	t.Run("fields are trimmed before hitting the repository", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		service := NewUserService(mockRepo, testLogger)

		want := &types.UserProfile{ID: uuid.New(), Username: "alice"}
		mockRepo.On("UpdateProfile", mock.Anything, userID, mock.MatchedBy(func(p types.UpdateProfileParams) bool {
			return p.Username != nil && *p.Username == "alice"
		})).Return(want, nil).Once()

		username := "  alice  "
		profile, err := service.UpdateProfile(ctx, userID, types.UpdateProfileParams{Username: &username})
		require.NoError(t, err)
		assert.Equal(t, "alice", profile.Username)
		mockRepo.AssertExpectations(t)
	})

	t.Run("blank username rejected", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		service := NewUserService(mockRepo, testLogger)

		blank := "   "
		_, err := service.UpdateProfile(ctx, userID, types.UpdateProfileParams{Username: &blank})
		assert.ErrorIs(t, err, types.ErrValidation)
		mockRepo.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("email without @ rejected", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		service := NewUserService(mockRepo, testLogger)

		bad := "not-an-email"
		_, err := service.UpdateProfile(ctx, userID, types.UpdateProfileParams{Email: &bad})
		assert.ErrorIs(t, err, types.ErrValidation)
	})
}
