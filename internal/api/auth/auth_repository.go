package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/FACorreiaa/go-itinerary-planner/config"
	"github.com/FACorreiaa/go-itinerary-planner/internal/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

var _ Repository = (*PostgresAuthRepo)(nil)

type Repository interface {
	Register(ctx context.Context, username, email, password string) (uuid.UUID, error)
	Login(ctx context.Context, email, password string) (string, string, error)
	RefreshSession(ctx context.Context, refreshToken string) (string, string, error)
	Logout(ctx context.Context, refreshToken string) error
	UpdatePassword(ctx context.Context, userID, oldPassword, newPassword string) error
}

type PostgresAuthRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
	jwtCfg config.JWTConfig
}

func NewPostgresAuthRepo(pgpool *pgxpool.Pool, jwtCfg config.JWTConfig, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		pgpool: pgpool,
		jwtCfg: jwtCfg,
	}
}

func (r *PostgresAuthRepo) generateAccessToken(userID, username, email string) (string, error) {
	now := time.Now()
	claims := types.Claims{
		UserID:   userID,
		Username: username,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    r.jwtCfg.Issuer,
			Audience:  jwt.ClaimStrings{r.jwtCfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(r.jwtCfg.AccessTokenTTL)),
			Subject:   userID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(r.jwtCfg.SecretKey))
}

// generateRefreshToken creates a random refresh token.
func generateRefreshToken() string {
	return uuid.NewString()
}

// Register creates a new user with a bcrypt password hash.
func (r *PostgresAuthRepo) Register(ctx context.Context, username, email, password string) (uuid.UUID, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var id uuid.UUID
	err = r.pgpool.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash)
         VALUES ($1, $2, $3)
         ON CONFLICT (email) DO NOTHING
         RETURNING id`,
		username, email, string(hashedPassword)).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, types.ErrConflict
		}
		return uuid.Nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

// Login authenticates a user and returns access and refresh tokens.
func (r *PostgresAuthRepo) Login(ctx context.Context, email, password string) (string, string, error) {
	var user types.UserAuth
	err := r.pgpool.QueryRow(ctx,
		"SELECT id, username, email, password_hash FROM users WHERE email = $1",
		email).Scan(&user.ID, &user.Username, &user.Email, &user.Password)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", types.ErrUnauthenticated
		}
		return "", "", fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", types.ErrUnauthenticated
	}

	accessToken, err := r.generateAccessToken(user.ID, user.Username, user.Email)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	newRefreshToken := generateRefreshToken()
	expiresAt := time.Now().Add(r.jwtCfg.RefreshTokenTTL)
	_, err = r.pgpool.Exec(ctx,
		"INSERT INTO refresh_tokens (user_id, token, expires_at) VALUES ($1, $2, $3)",
		user.ID, newRefreshToken, expiresAt)
	if err != nil {
		return "", "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return accessToken, newRefreshToken, nil
}

// RefreshSession rotates the refresh token and issues a new access token.
func (r *PostgresAuthRepo) RefreshSession(ctx context.Context, refreshToken string) (string, string, error) {
	var userID string
	var expiresAt time.Time
	var revokedAt *time.Time
	err := r.pgpool.QueryRow(ctx,
		"SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token = $1",
		refreshToken).Scan(&userID, &expiresAt, &revokedAt)
	if err != nil {
		return "", "", types.ErrUnauthenticated
	}

	if time.Now().After(expiresAt) || revokedAt != nil {
		return "", "", types.ErrUnauthenticated
	}

	var username, email string
	err = r.pgpool.QueryRow(ctx,
		"SELECT username, email FROM users WHERE id = $1",
		userID).Scan(&username, &email)
	if err != nil {
		return "", "", fmt.Errorf("user not found: %w", err)
	}

	newAccessToken, err := r.generateAccessToken(userID, username, email)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	newRefreshToken := generateRefreshToken()
	_, err = r.pgpool.Exec(ctx,
		"INSERT INTO refresh_tokens (user_id, token, expires_at) VALUES ($1, $2, $3)",
		userID, newRefreshToken, time.Now().Add(r.jwtCfg.RefreshTokenTTL))
	if err != nil {
		return "", "", fmt.Errorf("failed to store new refresh token: %w", err)
	}

	_, err = r.pgpool.Exec(ctx,
		"UPDATE refresh_tokens SET revoked_at = $1 WHERE token = $2",
		time.Now(), refreshToken)
	if err != nil {
		r.logger.WarnContext(ctx, "Failed to revoke old refresh token", slog.Any("error", err))
	}

	return newAccessToken, newRefreshToken, nil
}

// Logout revokes one refresh token.
func (r *PostgresAuthRepo) Logout(ctx context.Context, refreshToken string) error {
	tag, err := r.pgpool.Exec(ctx,
		`UPDATE refresh_tokens SET revoked_at = $1
         WHERE token = $2 AND revoked_at IS NULL`,
		time.Now(), refreshToken)
	if err != nil {
		return fmt.Errorf("invalidate refresh token: db update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Already revoked or unknown; not an error for logout.
		r.logger.DebugContext(ctx, "No refresh token found or already revoked")
	}
	return nil
}

// UpdatePassword verifies the old password, stores a new hash and revokes
// all outstanding refresh tokens.
func (r *PostgresAuthRepo) UpdatePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	var hashedPassword string
	err := r.pgpool.QueryRow(ctx, "SELECT password_hash FROM users WHERE id = $1", userID).Scan(&hashedPassword)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.ErrNotFound
		}
		return fmt.Errorf("update password: query failed: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(oldPassword)); err != nil {
		return types.ErrUnauthenticated
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	_, err = r.pgpool.Exec(ctx,
		"UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3",
		string(newHash), time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	_, err = r.pgpool.Exec(ctx,
		"UPDATE refresh_tokens SET revoked_at = $1 WHERE user_id = $2 AND revoked_at IS NULL",
		time.Now(), userID)
	if err != nil {
		r.logger.WarnContext(ctx, "Failed to revoke refresh tokens after password change", slog.Any("error", err))
	}

	return nil
}
