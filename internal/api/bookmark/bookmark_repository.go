// Package bookmark lets users save catalogue locations for later trips.
package bookmark

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/go-itinerary-planner/internal/types"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ Repository = (*PostgresBookmarkRepo)(nil)

type Repository interface {
	AddBookmark(ctx context.Context, userID, locationID uuid.UUID) (*types.Bookmark, error)
	RemoveBookmark(ctx context.Context, userID, bookmarkID uuid.UUID) error
	ListBookmarks(ctx context.Context, userID uuid.UUID) ([]types.BookmarkDetail, error)
}

type PostgresBookmarkRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresBookmarkRepo(pgpool *pgxpool.Pool, logger *slog.Logger) *PostgresBookmarkRepo {
	return &PostgresBookmarkRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresBookmarkRepo) AddBookmark(ctx context.Context, userID, locationID uuid.UUID) (*types.Bookmark, error) {
	var b types.Bookmark
	err := r.pgpool.QueryRow(ctx,
		`INSERT INTO bookmarks (user_id, location_id)
         VALUES ($1, $2)
         RETURNING id, user_id, location_id, created_at`,
		userID, locationID).Scan(&b.ID, &b.UserID, &b.LocationID, &b.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505": // unique_violation, already bookmarked
				return nil, types.ErrConflict
			case "23503": // foreign_key_violation, unknown location
				return nil, types.ErrNotFound
			}
		}
		return nil, fmt.Errorf("failed to insert bookmark: %w", err)
	}
	return &b, nil
}

func (r *PostgresBookmarkRepo) RemoveBookmark(ctx context.Context, userID, bookmarkID uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx,
		"DELETE FROM bookmarks WHERE id = $1 AND user_id = $2",
		bookmarkID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}

func (r *PostgresBookmarkRepo) ListBookmarks(ctx context.Context, userID uuid.UUID) ([]types.BookmarkDetail, error) {
	rows, err := r.pgpool.Query(ctx,
		`SELECT b.id, b.created_at,
                l.id, l.name, l.address, l.latitude, l.longitude, l.category, l.city
         FROM bookmarks b
         JOIN locations l ON l.id = b.location_id
         WHERE b.user_id = $1
         ORDER BY b.created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookmarks: %w", err)
	}
	defer rows.Close()

	var details []types.BookmarkDetail
	for rows.Next() {
		var d types.BookmarkDetail
		err := rows.Scan(&d.ID, &d.CreatedAt,
			&d.Location.ID, &d.Location.Name, &d.Location.Address,
			&d.Location.Latitude, &d.Location.Longitude, &d.Location.Category, &d.Location.City)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bookmark row: %w", err)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookmark rows: %w", err)
	}
	return details, nil
}
