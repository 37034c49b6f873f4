// Package location manages the seeded catalogue of places that itineraries
// draw from.
package location

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/go-itinerary-planner/internal/types"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ Repository = (*PostgresLocationRepo)(nil)

type Repository interface {
	GetLocationsByCity(ctx context.Context, city string) ([]types.Location, error)
	GetLocation(ctx context.Context, id uuid.UUID) (*types.Location, error)
	CreateLocation(ctx context.Context, loc types.CreateLocationRequest) (*types.Location, error)
	ImportLocations(ctx context.Context, locs []types.CreateLocationRequest) (int, error)
	ListCities(ctx context.Context) ([]string, error)
}

type PostgresLocationRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresLocationRepo(pgpool *pgxpool.Pool, logger *slog.Logger) *PostgresLocationRepo {
	return &PostgresLocationRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

const locationColumns = "id, name, address, latitude, longitude, category, city"

func scanLocation(row pgx.Row) (*types.Location, error) {
	var l types.Location
	err := row.Scan(&l.ID, &l.Name, &l.Address, &l.Latitude, &l.Longitude, &l.Category, &l.City)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// GetLocationsByCity matches the city case-insensitively.
func (r *PostgresLocationRepo) GetLocationsByCity(ctx context.Context, city string) ([]types.Location, error) {
	rows, err := r.pgpool.Query(ctx,
		"SELECT "+locationColumns+" FROM locations WHERE LOWER(city) = LOWER($1) ORDER BY name",
		city)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations for city %q: %w", city, err)
	}
	defer rows.Close()

	var locations []types.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan location row: %w", err)
		}
		locations = append(locations, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating location rows: %w", err)
	}
	return locations, nil
}

func (r *PostgresLocationRepo) GetLocation(ctx context.Context, id uuid.UUID) (*types.Location, error) {
	l, err := scanLocation(r.pgpool.QueryRow(ctx,
		"SELECT "+locationColumns+" FROM locations WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch location %s: %w", id, err)
	}
	return l, nil
}

func (r *PostgresLocationRepo) CreateLocation(ctx context.Context, loc types.CreateLocationRequest) (*types.Location, error) {
	created, err := scanLocation(r.pgpool.QueryRow(ctx,
		`INSERT INTO locations (name, address, latitude, longitude, category, city)
         VALUES ($1, $2, $3, $4, $5, $6)
         RETURNING `+locationColumns,
		loc.Name, loc.Address, loc.Latitude, loc.Longitude, loc.Category, loc.City))
	if err != nil {
		return nil, fmt.Errorf("failed to insert location: %w", err)
	}
	return created, nil
}

// ImportLocations bulk-inserts a seed batch inside one transaction.
func (r *PostgresLocationRepo) ImportLocations(ctx context.Context, locs []types.CreateLocationRequest) (int, error) {
	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, loc := range locs {
		batch.Queue(
			`INSERT INTO locations (name, address, latitude, longitude, category, city)
             VALUES ($1, $2, $3, $4, $5, $6)`,
			loc.Name, loc.Address, loc.Latitude, loc.Longitude, loc.Category, loc.City)
	}

	br := tx.SendBatch(ctx, batch)
	for i := range locs {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return 0, fmt.Errorf("failed to insert location %d of batch: %w", i, err)
		}
	}
	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit location import: %w", err)
	}
	return len(locs), nil
}

func (r *PostgresLocationRepo) ListCities(ctx context.Context) ([]string, error) {
	rows, err := r.pgpool.Query(ctx, "SELECT DISTINCT city FROM locations ORDER BY city")
	if err != nil {
		return nil, fmt.Errorf("failed to query cities: %w", err)
	}
	defer rows.Close()

	var cities []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan city: %w", err)
		}
		cities = append(cities, c)
	}
	return cities, rows.Err()
}
