package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/FACorreiaa/go-itinerary-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-itinerary-planner/config"
	generativeai "github.com/FACorreiaa/go-itinerary-planner/internal/api/generative_ai"
	"github.com/FACorreiaa/go-itinerary-planner/internal/api/location"
	"github.com/FACorreiaa/go-itinerary-planner/internal/planner"
	"github.com/FACorreiaa/go-itinerary-planner/internal/types"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Generate(ctx context.Context, userID uuid.UUID, req types.GenerateItineraryRequest) (*types.ItineraryDetailResponse, error)
	GetItineraryDetail(ctx context.Context, userID, itineraryID uuid.UUID) (*types.ItineraryDetailResponse, error)
	ListItineraries(ctx context.Context, userID uuid.UUID, page, pageSize int) (*types.PaginatedItinerariesResponse, error)
	UpdateItinerary(ctx context.Context, userID, itineraryID uuid.UUID, req types.UpdateItineraryRequest) (*types.ItineraryResponse, error)
	DeleteItinerary(ctx context.Context, userID, itineraryID uuid.UUID) error
	GetMapData(ctx context.Context, userID, itineraryID uuid.UUID) (*types.MapDataResponse, error)
	GetDailyRoutes(ctx context.Context, userID, itineraryID uuid.UUID) (*types.DailyRoutesResponse, error)
}

type ServiceImpl struct {
	logger     *slog.Logger
	repo       Repository
	locations  location.Service
	enricher   generativeai.Enricher
	plannerCfg config.PlannerConfig
	appMetrics *metrics.AppMetrics
	newRand    func() *rand.Rand
}

// NewItineraryService wires the generation pipeline. enricher and appMetrics
// may be nil.
func NewItineraryService(repo Repository, locations location.Service, plannerCfg config.PlannerConfig, enricher generativeai.Enricher, appMetrics *metrics.AppMetrics, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		repo:       repo,
		locations:  locations,
		enricher:   enricher,
		plannerCfg: plannerCfg,
		appMetrics: appMetrics,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

func parseDate(value, field string) (time.Time, error) {
	t, err := time.Parse(types.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be a YYYY-MM-DD date", types.ErrValidation, field)
	}
	return t, nil
}

// tripDays counts days in the inclusive range.
func tripDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

func (s *ServiceImpl) clockBounds() (int, int) {
	dayStart, err := planner.ParseClock(s.plannerCfg.DayStart)
	if err != nil {
		dayStart = planner.DefaultDayStartMinutes
	}
	dayEnd, err := planner.ParseClock(s.plannerCfg.DayEnd)
	if err != nil {
		dayEnd = planner.DefaultDayEndMinutes
	}
	return dayStart, dayEnd
}

// Generate validates the request, distributes the city's locations across the
// trip's days, synthesizes a schedule for each day and persists everything in
// one transaction. The response carries the full day-by-day plan.
func (s *ServiceImpl) Generate(ctx context.Context, userID uuid.UUID, req types.GenerateItineraryRequest) (*types.ItineraryDetailResponse, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "Generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("itinerary.city", req.City),
		attribute.String("user.id", userID.String()),
	)

	started := time.Now()
	status := "error"
	defer func() {
		if s.appMetrics != nil {
			attrs := metric.WithAttributes(attribute.String("status", status))
			s.appMetrics.GenerationRequestsTotal.Add(ctx, 1, attrs)
			s.appMetrics.GenerationDurationSeconds.Record(ctx, time.Since(started).Seconds(), attrs)
		}
	}()

	if req.City == "" {
		return nil, fmt.Errorf("%w: city is required", types.ErrValidation)
	}
	startDate, err := parseDate(req.StartDate, "start_date")
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate(req.EndDate, "end_date")
	if err != nil {
		return nil, err
	}
	if startDate.After(endDate) {
		return nil, fmt.Errorf("%w: start_date must not be after end_date", types.ErrValidation)
	}

	pool, err := s.locations.GetLocationsByCity(ctx, req.City)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "location pool fetch failed")
		return nil, fmt.Errorf("fetch location pool: %w", err)
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: no locations available for city %q", types.ErrNotFound, req.City)
	}

	days := tripDays(startDate, endDate)
	rng := s.newRand()

	var clusterer *planner.Clusterer
	if s.plannerCfg.ProximityBias {
		clusterer = planner.NewClusterer(s.plannerCfg.ClusterThresholdKm)
	}
	distributor := planner.NewDistributor(s.plannerCfg.MinPerDay, s.plannerCfg.MaxPerDay, clusterer, rng)
	dayStart, dayEnd := s.clockBounds()
	synthesizer := planner.NewSynthesizer(dayStart, dayEnd, s.plannerCfg.CostMin, s.plannerCfg.CostMax, rng)

	buckets := distributor.Distribute(pool, days)

	title := req.Title
	if title == "" {
		title = "Trip to " + req.City
	}
	it := types.Itinerary{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		City:      req.City,
		StartDate: startDate,
		EndDate:   endDate,
	}

	var activities []types.Activity
	var details []ActivityRow
	for dayIdx, bucket := range buckets {
		date := startDate.AddDate(0, 0, dayIdx)
		for _, planned := range synthesizer.SynthesizeDay(date, bucket) {
			description := s.enrichDescription(ctx, planned.Location, planned.Description)
			activity := types.Activity{
				ID:          uuid.New(),
				ItineraryID: it.ID,
				LocationID:  planned.Location.ID,
				Description: description,
				Date:        planned.Date,
				StartTime:   planned.StartTime,
				EndTime:     planned.EndTime,
				Cost:        planned.Cost,
				Category:    planned.Category,
				City:        planned.Location.City,
			}
			activities = append(activities, activity)
			details = append(details, ActivityRow{Activity: activity, Location: planned.Location})
		}
	}

	if err := s.repo.CreateItineraryWithActivities(ctx, it, activities); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist failed")
		return nil, fmt.Errorf("persist itinerary: %w", err)
	}

	status = "success"
	if s.appMetrics != nil {
		s.appMetrics.ActivitiesCreatedTotal.Add(ctx, int64(len(activities)))
	}
	span.SetAttributes(attribute.Int("itinerary.activities", len(activities)))
	s.logger.InfoContext(ctx, "Itinerary generated",
		slog.String("itineraryID", it.ID.String()),
		slog.String("city", it.City),
		slog.Int("days", days),
		slog.Int("activities", len(activities)))

	it.CreatedAt = time.Now()
	it.UpdatedAt = it.CreatedAt
	return &types.ItineraryDetailResponse{
		Itinerary: it.ToResponse(),
		Days:      buildDays(it, details),
	}, nil
}

// enrichDescription is best effort; on any enricher failure the template
// rendering stands.
func (s *ServiceImpl) enrichDescription(ctx context.Context, loc types.Location, rendered string) string {
	if s.enricher == nil {
		return rendered
	}
	enriched, err := s.enricher.EnrichDescription(ctx, loc, rendered)
	if err != nil {
		s.logger.WarnContext(ctx, "Description enrichment failed, keeping template text",
			slog.String("location", loc.Name), slog.Any("error", err))
		return rendered
	}
	return enriched
}

// buildDays groups stored activities into 1-based day buckets relative to the
// itinerary start date. Days without activities still appear, empty.
func buildDays(it types.Itinerary, rows []ActivityRow) []types.DayPlan {
	total := tripDays(it.StartDate, it.EndDate)
	if total < 1 {
		total = 1
	}
	days := make([]types.DayPlan, total)
	for i := range days {
		date := it.StartDate.AddDate(0, 0, i)
		days[i] = types.DayPlan{
			Day:        i + 1,
			Date:       date.Format(types.DateLayout),
			Activities: []types.ActivityDetail{},
		}
	}

	for _, row := range rows {
		dayIdx := int(row.Activity.Date.Sub(it.StartDate).Hours() / 24)
		if dayIdx < 0 || dayIdx >= total {
			continue
		}
		days[dayIdx].Activities = append(days[dayIdx].Activities, types.ActivityDetail{
			ID:          row.Activity.ID,
			Description: row.Activity.Description,
			Date:        row.Activity.Date.Format(types.DateLayout),
			StartTime:   row.Activity.StartTime,
			EndTime:     row.Activity.EndTime,
			Cost:        row.Activity.Cost,
			Category:    row.Activity.Category,
			City:        row.Activity.City,
			Location:    row.Location,
		})
	}
	return days
}

// GetItineraryDetail loads the itinerary and its activities concurrently and
// assembles the day-by-day view.
func (s *ServiceImpl) GetItineraryDetail(ctx context.Context, userID, itineraryID uuid.UUID) (*types.ItineraryDetailResponse, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "GetItineraryDetail")
	defer span.End()

	var it *types.Itinerary
	var rows []ActivityRow

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		it, err = s.repo.GetItinerary(gctx, userID, itineraryID)
		return err
	})
	g.Go(func() error {
		var err error
		rows, err = s.repo.GetActivitiesForItinerary(gctx, itineraryID)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	return &types.ItineraryDetailResponse{
		Itinerary: it.ToResponse(),
		Days:      buildDays(*it, rows),
	}, nil
}

func (s *ServiceImpl) ListItineraries(ctx context.Context, userID uuid.UUID, page, pageSize int) (*types.PaginatedItinerariesResponse, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "ListItineraries")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	itineraries, total, err := s.repo.ListItineraries(ctx, userID, page, pageSize)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	responses := make([]types.ItineraryResponse, 0, len(itineraries))
	for _, it := range itineraries {
		responses = append(responses, it.ToResponse())
	}
	return &types.PaginatedItinerariesResponse{
		Itineraries:  responses,
		TotalRecords: total,
		Page:         page,
		PageSize:     pageSize,
	}, nil
}

func (s *ServiceImpl) UpdateItinerary(ctx context.Context, userID, itineraryID uuid.UUID, req types.UpdateItineraryRequest) (*types.ItineraryResponse, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "UpdateItinerary")
	defer span.End()

	it, err := s.repo.GetItinerary(ctx, userID, itineraryID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, fmt.Errorf("%w: title must not be empty", types.ErrValidation)
		}
		it.Title = *req.Title
	}
	if req.StartDate != nil {
		start, err := parseDate(*req.StartDate, "start_date")
		if err != nil {
			return nil, err
		}
		it.StartDate = start
	}
	if req.EndDate != nil {
		end, err := parseDate(*req.EndDate, "end_date")
		if err != nil {
			return nil, err
		}
		it.EndDate = end
	}
	if it.StartDate.After(it.EndDate) {
		return nil, fmt.Errorf("%w: start_date must not be after end_date", types.ErrValidation)
	}

	if err := s.repo.UpdateItinerary(ctx, *it); err != nil {
		span.RecordError(err)
		return nil, err
	}
	it.UpdatedAt = time.Now()
	resp := it.ToResponse()
	return &resp, nil
}

func (s *ServiceImpl) DeleteItinerary(ctx context.Context, userID, itineraryID uuid.UUID) error {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "DeleteItinerary")
	defer span.End()

	err := s.repo.DeleteItinerary(ctx, userID, itineraryID)
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		span.RecordError(err)
	}
	return err
}

// GetMapData flattens every activity into one marker list for map rendering.
func (s *ServiceImpl) GetMapData(ctx context.Context, userID, itineraryID uuid.UUID) (*types.MapDataResponse, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "GetMapData")
	defer span.End()

	detail, err := s.GetItineraryDetail(ctx, userID, itineraryID)
	if err != nil {
		return nil, err
	}

	points := []types.MapPoint{}
	for _, day := range detail.Days {
		for _, a := range day.Activities {
			points = append(points, types.MapPoint{
				ActivityID:  a.ID,
				LocationID:  a.Location.ID,
				Name:        a.Location.Name,
				Latitude:    a.Location.Latitude,
				Longitude:   a.Location.Longitude,
				Description: a.Description,
				Day:         day.Day,
				Date:        day.Date,
				StartTime:   a.StartTime,
			})
		}
	}
	return &types.MapDataResponse{ItineraryID: itineraryID, Points: points}, nil
}

// GetDailyRoutes returns each day's stops in visit order, ready to feed a
// routing layer.
func (s *ServiceImpl) GetDailyRoutes(ctx context.Context, userID, itineraryID uuid.UUID) (*types.DailyRoutesResponse, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "GetDailyRoutes")
	defer span.End()

	detail, err := s.GetItineraryDetail(ctx, userID, itineraryID)
	if err != nil {
		return nil, err
	}

	routes := []types.DailyRoute{}
	for _, day := range detail.Days {
		route := types.DailyRoute{
			Day:       day.Day,
			Date:      day.Date,
			Waypoints: []types.Waypoint{},
		}
		for _, a := range day.Activities {
			route.Waypoints = append(route.Waypoints, types.Waypoint{
				LocationID: a.Location.ID,
				Name:       a.Location.Name,
				Latitude:   a.Location.Latitude,
				Longitude:  a.Location.Longitude,
				StartTime:  a.StartTime,
			})
		}
		routes = append(routes, route)
	}
	return &types.DailyRoutesResponse{ItineraryID: itineraryID, Routes: routes}, nil
}
