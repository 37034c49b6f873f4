// Package itinerary implements trip generation and the day-by-day views
// built on top of the stored schedule.
package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/FACorreiaa/go-itinerary-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-itinerary-planner/internal/types"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var _ Repository = (*PostgresItineraryRepo)(nil)

// DBPool is the subset of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type DBPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository interface {
	CreateItineraryWithActivities(ctx context.Context, it types.Itinerary, activities []types.Activity) error
	GetItinerary(ctx context.Context, userID, itineraryID uuid.UUID) (*types.Itinerary, error)
	ListItineraries(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]types.Itinerary, int, error)
	UpdateItinerary(ctx context.Context, it types.Itinerary) error
	DeleteItinerary(ctx context.Context, userID, itineraryID uuid.UUID) error
	GetActivitiesForItinerary(ctx context.Context, itineraryID uuid.UUID) ([]ActivityRow, error)
}

// ActivityRow is one stored activity joined with its location, ordered by
// date then start time.
type ActivityRow struct {
	Activity types.Activity
	Location types.Location
}

type PostgresItineraryRepo struct {
	logger  *slog.Logger
	pgpool  DBPool
	metrics *metrics.AppMetrics
}

func NewPostgresItineraryRepo(pgpool DBPool, appMetrics *metrics.AppMetrics, logger *slog.Logger) *PostgresItineraryRepo {
	return &PostgresItineraryRepo{
		logger:  logger,
		pgpool:  pgpool,
		metrics: appMetrics,
	}
}

func (r *PostgresItineraryRepo) recordQuery(ctx context.Context, name string, start time.Time, err error) {
	if r.metrics == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("query", name))
	r.metrics.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil {
		r.metrics.DbQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}

// CreateItineraryWithActivities persists the itinerary and every synthesized
// activity in a single transaction. A failed activity insert rolls back the
// itinerary row too.
func (r *PostgresItineraryRepo) CreateItineraryWithActivities(ctx context.Context, it types.Itinerary, activities []types.Activity) (err error) {
	start := time.Now()
	defer func() { r.recordQuery(ctx, "create_itinerary", start, err) }()

	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO itineraries (id, user_id, title, city, start_date, end_date)
         VALUES ($1, $2, $3, $4, $5, $6)`,
		it.ID, it.UserID, it.Title, it.City, it.StartDate, it.EndDate)
	if err != nil {
		return fmt.Errorf("failed to insert itinerary: %w", err)
	}

	batch := &pgx.Batch{}
	for _, a := range activities {
		batch.Queue(
			`INSERT INTO activities
                 (id, itinerary_id, location_id, description, date, start_time, end_time, cost, category, city)
             VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			a.ID, a.ItineraryID, a.LocationID, a.Description, a.Date,
			a.StartTime, a.EndTime, a.Cost, a.Category, a.City)
	}
	br := tx.SendBatch(ctx, batch)
	for i := range activities {
		if _, execErr := br.Exec(); execErr != nil {
			br.Close()
			return fmt.Errorf("failed to insert activity %d: %w", i, execErr)
		}
	}
	if err = br.Close(); err != nil {
		return fmt.Errorf("failed to close activity batch: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit itinerary: %w", err)
	}
	return nil
}

const itineraryColumns = "id, user_id, title, city, start_date, end_date, created_at, updated_at"

func scanItinerary(row pgx.Row) (*types.Itinerary, error) {
	var it types.Itinerary
	err := row.Scan(&it.ID, &it.UserID, &it.Title, &it.City,
		&it.StartDate, &it.EndDate, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// GetItinerary is scoped to the owning user; another user's itinerary reads
// as not found.
func (r *PostgresItineraryRepo) GetItinerary(ctx context.Context, userID, itineraryID uuid.UUID) (*types.Itinerary, error) {
	start := time.Now()
	it, err := scanItinerary(r.pgpool.QueryRow(ctx,
		"SELECT "+itineraryColumns+" FROM itineraries WHERE id = $1 AND user_id = $2",
		itineraryID, userID))
	r.recordQuery(ctx, "get_itinerary", start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch itinerary %s: %w", itineraryID, err)
	}
	return it, nil
}

func (r *PostgresItineraryRepo) ListItineraries(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]types.Itinerary, int, error) {
	start := time.Now()
	var total int
	err := r.pgpool.QueryRow(ctx,
		"SELECT COUNT(*) FROM itineraries WHERE user_id = $1", userID).Scan(&total)
	if err != nil {
		r.recordQuery(ctx, "list_itineraries", start, err)
		return nil, 0, fmt.Errorf("failed to count itineraries: %w", err)
	}

	offset := (page - 1) * pageSize
	rows, err := r.pgpool.Query(ctx,
		"SELECT "+itineraryColumns+` FROM itineraries
         WHERE user_id = $1
         ORDER BY created_at DESC
         LIMIT $2 OFFSET $3`,
		userID, pageSize, offset)
	r.recordQuery(ctx, "list_itineraries", start, err)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query itineraries: %w", err)
	}
	defer rows.Close()

	var itineraries []types.Itinerary
	for rows.Next() {
		it, err := scanItinerary(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan itinerary row: %w", err)
		}
		itineraries = append(itineraries, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating itinerary rows: %w", err)
	}
	return itineraries, total, nil
}

// UpdateItinerary writes title and dates. Activities are left untouched;
// edits never regenerate the schedule.
func (r *PostgresItineraryRepo) UpdateItinerary(ctx context.Context, it types.Itinerary) error {
	start := time.Now()
	tag, err := r.pgpool.Exec(ctx,
		`UPDATE itineraries
         SET title = $1, start_date = $2, end_date = $3, updated_at = $4
         WHERE id = $5 AND user_id = $6`,
		it.Title, it.StartDate, it.EndDate, time.Now(), it.ID, it.UserID)
	r.recordQuery(ctx, "update_itinerary", start, err)
	if err != nil {
		return fmt.Errorf("failed to update itinerary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}

// DeleteItinerary removes the itinerary; activities go with it via the
// foreign key cascade.
func (r *PostgresItineraryRepo) DeleteItinerary(ctx context.Context, userID, itineraryID uuid.UUID) error {
	start := time.Now()
	tag, err := r.pgpool.Exec(ctx,
		"DELETE FROM itineraries WHERE id = $1 AND user_id = $2",
		itineraryID, userID)
	r.recordQuery(ctx, "delete_itinerary", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete itinerary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrNotFound
	}
	return nil
}

func (r *PostgresItineraryRepo) GetActivitiesForItinerary(ctx context.Context, itineraryID uuid.UUID) ([]ActivityRow, error) {
	start := time.Now()
	rows, err := r.pgpool.Query(ctx,
		`SELECT a.id, a.itinerary_id, a.location_id, a.description, a.date,
                a.start_time, a.end_time, a.cost, a.category, a.city,
                l.id, l.name, l.address, l.latitude, l.longitude, l.category, l.city
         FROM activities a
         JOIN locations l ON l.id = a.location_id
         WHERE a.itinerary_id = $1
         ORDER BY a.date, a.start_time`,
		itineraryID)
	r.recordQuery(ctx, "get_activities", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	var result []ActivityRow
	for rows.Next() {
		var row ActivityRow
		err := rows.Scan(
			&row.Activity.ID, &row.Activity.ItineraryID, &row.Activity.LocationID,
			&row.Activity.Description, &row.Activity.Date,
			&row.Activity.StartTime, &row.Activity.EndTime, &row.Activity.Cost,
			&row.Activity.Category, &row.Activity.City,
			&row.Location.ID, &row.Location.Name, &row.Location.Address,
			&row.Location.Latitude, &row.Location.Longitude,
			&row.Location.Category, &row.Location.City)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}
	return result, nil
}
