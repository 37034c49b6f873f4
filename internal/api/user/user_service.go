package user

import (
	"context"
	"log/slog"
	"strings"

	"github.com/FACorreiaa/go-itinerary-planner/internal/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	GetProfile(ctx context.Context, userID string) (*types.UserProfile, error)
	UpdateProfile(ctx context.Context, userID string, params types.UpdateProfileParams) (*types.UserProfile, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewUserService(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *ServiceImpl) GetProfile(ctx context.Context, userID string) (*types.UserProfile, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "GetProfile")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	return s.repo.GetProfile(ctx, userID)
}

func (s *ServiceImpl) UpdateProfile(ctx context.Context, userID string, params types.UpdateProfileParams) (*types.UserProfile, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "UpdateProfile")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	if params.Username != nil {
		trimmed := strings.TrimSpace(*params.Username)
		if trimmed == "" {
			return nil, types.ErrValidation
		}
		params.Username = &trimmed
	}
	if params.Email != nil {
		trimmed := strings.TrimSpace(*params.Email)
		if trimmed == "" || !strings.Contains(trimmed, "@") {
			return nil, types.ErrValidation
		}
		params.Email = &trimmed
	}

	profile, err := s.repo.UpdateProfile(ctx, userID, params)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.logger.InfoContext(ctx, "Profile updated", slog.String("userID", userID))
	return profile, nil
}
