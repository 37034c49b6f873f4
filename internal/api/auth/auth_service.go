package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var _ Service = (*ServiceImpl)(nil)

// Service defines the contract for authentication business logic.
type Service interface {
	Register(ctx context.Context, username, email, password string) (uuid.UUID, error)
	Login(ctx context.Context, email, password string) (string, string, error)
	RefreshSession(ctx context.Context, refreshToken string) (string, string, error)
	Logout(ctx context.Context, refreshToken string) error
	UpdatePassword(ctx context.Context, userID, oldPassword, newPassword string) error
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewAuthService(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *ServiceImpl) Register(ctx context.Context, username, email, password string) (uuid.UUID, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Register")
	defer span.End()
	span.SetAttributes(attribute.String("user.email", email))

	id, err := s.repo.Register(ctx, username, email, password)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "registration failed")
		return uuid.Nil, fmt.Errorf("register user: %w", err)
	}
	s.logger.InfoContext(ctx, "User registered", slog.String("userID", id.String()))
	return id, nil
}

func (s *ServiceImpl) Login(ctx context.Context, email, password string) (string, string, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Login")
	defer span.End()

	access, refresh, err := s.repo.Login(ctx, email, password)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "login failed")
		return "", "", err
	}
	return access, refresh, nil
}

func (s *ServiceImpl) RefreshSession(ctx context.Context, refreshToken string) (string, string, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "RefreshSession")
	defer span.End()

	return s.repo.RefreshSession(ctx, refreshToken)
}

func (s *ServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Logout")
	defer span.End()

	return s.repo.Logout(ctx, refreshToken)
}

func (s *ServiceImpl) UpdatePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "UpdatePassword")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	return s.repo.UpdatePassword(ctx, userID, oldPassword, newPassword)
}
