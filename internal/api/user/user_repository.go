// Package user exposes profile reads and updates for authenticated users.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/FACorreiaa/go-itinerary-planner/internal/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ Repository = (*PostgresUserRepo)(nil)

type Repository interface {
	GetProfile(ctx context.Context, userID string) (*types.UserProfile, error)
	UpdateProfile(ctx context.Context, userID string, params types.UpdateProfileParams) (*types.UserProfile, error)
}

type PostgresUserRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresUserRepo(pgpool *pgxpool.Pool, logger *slog.Logger) *PostgresUserRepo {
	return &PostgresUserRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresUserRepo) GetProfile(ctx context.Context, userID string) (*types.UserProfile, error) {
	var p types.UserProfile
	err := r.pgpool.QueryRow(ctx,
		"SELECT id, username, email, created_at FROM users WHERE id = $1",
		userID).Scan(&p.ID, &p.Username, &p.Email, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return &p, nil
}

// UpdateProfile applies only the fields present in params.
func (r *PostgresUserRepo) UpdateProfile(ctx context.Context, userID string, params types.UpdateProfileParams) (*types.UserProfile, error) {
	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if params.Username != nil {
		_, err = tx.Exec(ctx,
			"UPDATE users SET username = $1, updated_at = $2 WHERE id = $3",
			*params.Username, time.Now(), userID)
		if err != nil {
			return nil, fmt.Errorf("failed to update username: %w", err)
		}
	}
	if params.Email != nil {
		_, err = tx.Exec(ctx,
			"UPDATE users SET email = $1, updated_at = $2 WHERE id = $3",
			*params.Email, time.Now(), userID)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return nil, types.ErrConflict
			}
			return nil, fmt.Errorf("failed to update email: %w", err)
		}
	}

	var p types.UserProfile
	err = tx.QueryRow(ctx,
		"SELECT id, username, email, created_at FROM users WHERE id = $1",
		userID).Scan(&p.ID, &p.Username, &p.Email, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("failed to reload profile: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit profile update: %w", err)
	}
	return &p, nil
}
