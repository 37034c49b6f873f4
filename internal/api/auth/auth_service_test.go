package auth

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

type MockAuthRepo struct {
	mock.Mock
}

func (m *MockAuthRepo) Register(ctx context.Context, username, email, password string) (uuid.UUID, error) {
	args := m.Called(ctx, username, email, password)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockAuthRepo) Login(ctx context.Context, email, password string) (string, string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockAuthRepo) RefreshSession(ctx context.Context, refreshToken string) (string, string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockAuthRepo) Logout(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func (m *MockAuthRepo) UpdatePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	args := m.Called(ctx, userID, oldPassword, newPassword)
	return args.Error(0)
}

var testLogger = slog.New(slog.DiscardHandler)

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testLogger)
		wantID := uuid.New()

		mockRepo.On("Register", mock.Anything, "alice", "alice@example.com", "s3cretpass").
			Return(wantID, nil).Once()

		id, err := service.Register(ctx, "alice", "alice@example.com", "s3cretpass")
		require.NoError(t, err)
		assert.Equal(t, wantID, id)
		mockRepo.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testLogger)

		mockRepo.On("Register", mock.Anything, "alice", "alice@example.com", "s3cretpass").
			Return(uuid.Nil, types.ErrConflict).Once()

		_, err := service.Register(ctx, "alice", "alice@example.com", "s3cretpass")
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrConflict)
		mockRepo.AssertExpectations(t)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success returns both tokens", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testLogger)

		mockRepo.On("Login", mock.Anything, "alice@example.com", "s3cretpass").
			Return("access-token", "refresh-token", nil).Once()

		access, refresh, err := service.Login(ctx, "alice@example.com", "s3cretpass")
		require.NoError(t, err)
		assert.Equal(t, "access-token", access)
		assert.Equal(t, "refresh-token", refresh)
		mockRepo.AssertExpectations(t)
	})

	t.Run("bad credentials", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testLogger)

		mockRepo.On("Login", mock.Anything, "alice@example.com", "wrong").
			Return("", "", types.ErrUnauthenticated).Once()

		_, _, err := service.Login(ctx, "alice@example.com", "wrong")
		assert.ErrorIs(t, err, types.ErrUnauthenticated)
		mockRepo.AssertExpectations(t)
	})
}

func TestAuthService_UpdatePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("wrong old password surfaces unauthenticated", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testLogger)
		userID := uuid.NewString()

		mockRepo.On("UpdatePassword", mock.Anything, userID, "wrong", "newpassword1").
			Return(types.ErrUnauthenticated).Once()

		err := service.UpdatePassword(ctx, userID, "wrong", "newpassword1")
		assert.ErrorIs(t, err, types.ErrUnauthenticated)
		mockRepo.AssertExpectations(t)
	})
}
