package location

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/FACorreiaa/go-itinerary-planner/internal/types"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	GetLocationsByCity(ctx context.Context, city string) ([]types.Location, error)
	GetLocation(ctx context.Context, id uuid.UUID) (*types.Location, error)
	CreateLocation(ctx context.Context, loc types.CreateLocationRequest) (*types.Location, error)
	ImportLocations(ctx context.Context, locs []types.CreateLocationRequest) (int, error)
	ListCities(ctx context.Context) ([]string, error)
}

// ServiceImpl caches per-city location pools; generation reads the same city
// repeatedly while an itinerary is being tuned.
type ServiceImpl struct {
	logger    *slog.Logger
	repo      Repository
	cityCache *cache.Cache
}

func NewLocationService(repo Repository, cacheTTL time.Duration, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:    logger,
		repo:      repo,
		cityCache: cache.New(cacheTTL, 2*cacheTTL),
	}
}

func cityKey(city string) string {
	return "city:" + strings.ToLower(strings.TrimSpace(city))
}

func (s *ServiceImpl) GetLocationsByCity(ctx context.Context, city string) ([]types.Location, error) {
	ctx, span := otel.Tracer("LocationService").Start(ctx, "GetLocationsByCity")
	defer span.End()
	span.SetAttributes(attribute.String("location.city", city))

	key := cityKey(city)
	if cached, found := s.cityCache.Get(key); found {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached.([]types.Location), nil
	}

	locations, err := s.repo.GetLocationsByCity(ctx, city)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository fetch failed")
		return nil, fmt.Errorf("fetch locations for city %q: %w", city, err)
	}

	// Only cache non-empty pools so newly seeded cities show up immediately.
	if len(locations) > 0 {
		s.cityCache.Set(key, locations, cache.DefaultExpiration)
	}
	return locations, nil
}

func (s *ServiceImpl) GetLocation(ctx context.Context, id uuid.UUID) (*types.Location, error) {
	ctx, span := otel.Tracer("LocationService").Start(ctx, "GetLocation")
	defer span.End()

	return s.repo.GetLocation(ctx, id)
}

func (s *ServiceImpl) CreateLocation(ctx context.Context, loc types.CreateLocationRequest) (*types.Location, error) {
	ctx, span := otel.Tracer("LocationService").Start(ctx, "CreateLocation")
	defer span.End()

	created, err := s.repo.CreateLocation(ctx, loc)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.cityCache.Delete(cityKey(created.City))
	s.logger.InfoContext(ctx, "Location created",
		slog.String("locationID", created.ID.String()),
		slog.String("city", created.City))
	return created, nil
}

func (s *ServiceImpl) ImportLocations(ctx context.Context, locs []types.CreateLocationRequest) (int, error) {
	ctx, span := otel.Tracer("LocationService").Start(ctx, "ImportLocations")
	defer span.End()
	span.SetAttributes(attribute.Int("location.batch_size", len(locs)))

	imported, err := s.repo.ImportLocations(ctx, locs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "bulk import failed")
		return 0, err
	}
	// The batch can touch many cities; drop every cached pool.
	s.cityCache.Flush()
	s.logger.InfoContext(ctx, "Locations imported", slog.Int("count", imported))
	return imported, nil
}

func (s *ServiceImpl) ListCities(ctx context.Context) ([]string, error) {
	ctx, span := otel.Tracer("LocationService").Start(ctx, "ListCities")
	defer span.End()

	return s.repo.ListCities(ctx)
}
