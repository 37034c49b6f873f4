package itinerary

import (
	"context"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/FACorreiaa/go-itinerary-planner/config"
	"github.com/FACorreiaa/go-itinerary-planner/internal/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockItineraryRepo struct {
	mock.Mock
}

func (m *MockItineraryRepo) CreateItineraryWithActivities(ctx context.Context, it types.Itinerary, activities []types.Activity) error {
	args := m.Called(ctx, it, activities)
	return args.Error(0)
}

func (m *MockItineraryRepo) GetItinerary(ctx context.Context, userID, itineraryID uuid.UUID) (*types.Itinerary, error) {
	args := m.Called(ctx, userID, itineraryID)
	it, _ := args.Get(0).(*types.Itinerary)
	return it, args.Error(1)
}

func (m *MockItineraryRepo) ListItineraries(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]types.Itinerary, int, error) {
	args := m.Called(ctx, userID, page, pageSize)
	its, _ := args.Get(0).([]types.Itinerary)
	return its, args.Int(1), args.Error(2)
}

func (m *MockItineraryRepo) UpdateItinerary(ctx context.Context, it types.Itinerary) error {
	args := m.Called(ctx, it)
	return args.Error(0)
}

func (m *MockItineraryRepo) DeleteItinerary(ctx context.Context, userID, itineraryID uuid.UUID) error {
	args := m.Called(ctx, userID, itineraryID)
	return args.Error(0)
}

func (m *MockItineraryRepo) GetActivitiesForItinerary(ctx context.Context, itineraryID uuid.UUID) ([]ActivityRow, error) {
	args := m.Called(ctx, itineraryID)
	rows, _ := args.Get(0).([]ActivityRow)
	return rows, args.Error(1)
}

type MockLocationService struct {
	mock.Mock
}

func (m *MockLocationService) GetLocationsByCity(ctx context.Context, city string) ([]types.Location, error) {
	args := m.Called(ctx, city)
	locs, _ := args.Get(0).([]types.Location)
	return locs, args.Error(1)
}

func (m *MockLocationService) GetLocation(ctx context.Context, id uuid.UUID) (*types.Location, error) {
	args := m.Called(ctx, id)
	loc, _ := args.Get(0).(*types.Location)
	return loc, args.Error(1)
}

func (m *MockLocationService) CreateLocation(ctx context.Context, loc types.CreateLocationRequest) (*types.Location, error) {
	args := m.Called(ctx, loc)
	created, _ := args.Get(0).(*types.Location)
	return created, args.Error(1)
}

func (m *MockLocationService) ImportLocations(ctx context.Context, locs []types.CreateLocationRequest) (int, error) {
	args := m.Called(ctx, locs)
	return args.Int(0), args.Error(1)
}

func (m *MockLocationService) ListCities(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	cities, _ := args.Get(0).([]string)
	return cities, args.Error(1)
}

var testLogger = slog.New(slog.DiscardHandler)

func testPlannerConfig() config.PlannerConfig {
	return config.PlannerConfig{
		MinPerDay:          3,
		MaxPerDay:          5,
		ClusterThresholdKm: 15,
		DayStart:           "09:00",
		DayEnd:             "19:00",
		CostMin:            10,
		CostMax:            50,
		ProximityBias:      true,
	}
}

func newTestService(repo *MockItineraryRepo, locs *MockLocationService) *ServiceImpl {
	service := NewItineraryService(repo, locs, testPlannerConfig(), nil, nil, testLogger)
	service.newRand = func() *rand.Rand { return rand.New(rand.NewSource(42)) }
	return service
}

func cityPool(city string, n int) []types.Location {
	pool := make([]types.Location, n)
	for i := range pool {
		pool[i] = types.Location{
			ID:        uuid.New(),
			Name:      "Spot " + string(rune('A'+i)),
			City:      city,
			Category:  "culture",
			Latitude:  38.7 + float64(i)*0.001,
			Longitude: -9.1 + float64(i)*0.001,
		}
	}
	return pool
}

func TestItineraryService_Generate(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("three day trip yields three populated days", func(t *testing.T) {
		mockRepo := new(MockItineraryRepo)
		mockLocs := new(MockLocationService)
		service := newTestService(mockRepo, mockLocs)

		mockLocs.On("GetLocationsByCity", mock.Anything, "Lisbon").
			Return(cityPool("Lisbon", 15), nil).Once()
		mockRepo.On("CreateItineraryWithActivities", mock.Anything, mock.Anything, mock.Anything).
			Return(nil).Once()

		detail, err := service.Generate(ctx, userID, types.GenerateItineraryRequest{
			City:      "Lisbon",
			StartDate: "2026-09-01",
			EndDate:   "2026-09-03",
		})
		require.NoError(t, err)
		require.Len(t, detail.Days, 3)
		for i, day := range detail.Days {
			assert.Equal(t, i+1, day.Day)
			assert.GreaterOrEqual(t, len(day.Activities), 3)
			assert.LessOrEqual(t, len(day.Activities), 5)
			for _, a := range day.Activities {
				assert.Equal(t, day.Date, a.Date)
				assert.NotEmpty(t, a.Description)
				assert.GreaterOrEqual(t, a.Cost, 10.0)
				assert.LessOrEqual(t, a.Cost, 50.0)
			}
		}
		assert.Equal(t, "Trip to Lisbon", detail.Itinerary.Title)
		assert.Equal(t, "2026-09-01", detail.Itinerary.StartDate)
		mockRepo.AssertExpectations(t)
		mockLocs.AssertExpectations(t)
	})

	t.Run("custom title is kept", func(t *testing.T) {
		mockRepo := new(MockItineraryRepo)
		mockLocs := new(MockLocationService)
		service := newTestService(mockRepo, mockLocs)

		mockLocs.On("GetLocationsByCity", mock.Anything, "Lisbon").
			Return(cityPool("Lisbon", 8), nil).Once()
		mockRepo.On("CreateItineraryWithActivities", mock.Anything, mock.Anything, mock.Anything).
			Return(nil).Once()

		detail, err := service.Generate(ctx, userID, types.GenerateItineraryRequest{
			City:      "Lisbon",
			StartDate: "2026-09-01",
			EndDate:   "2026-09-01",
			Title:     "Honeymoon",
		})
		require.NoError(t, err)
		assert.Equal(t, "Honeymoon", detail.Itinerary.Title)
	})

	t.Run("start after end fails before any lookup", func(t *testing.T) {
		mockRepo := new(MockItineraryRepo)
		mockLocs := new(MockLocationService)
		service := newTestService(mockRepo, mockLocs)

		_, err := service.Generate(ctx, userID, types.GenerateItineraryRequest{
			City:      "Lisbon",
			StartDate: "2026-09-05",
			EndDate:   "2026-09-01",
		})
		assert.ErrorIs(t, err, types.ErrValidation)
		mockLocs.AssertNotCalled(t, "GetLocationsByCity", mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "CreateItineraryWithActivities", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed date is a validation error", func(t *testing.T) {
		mockRepo := new(MockItineraryRepo)
		mockLocs := new(MockLocationService)
		service := newTestService(mockRepo, mockLocs)

		_, err := service.Generate(ctx, userID, types.GenerateItineraryRequest{
			City:      "Lisbon",
			StartDate: "01/09/2026",
			EndDate:   "2026-09-03",
		})
		assert.ErrorIs(t, err, types.ErrValidation)
	})

	t.Run("unknown city maps to not found", func(t *testing.T) {
		mockRepo := new(MockItineraryRepo)
		mockLocs := new(MockLocationService)
		service := newTestService(mockRepo, mockLocs)

		mockLocs.On("GetLocationsByCity", mock.Anything, "Atlantis").
			Return([]types.Location{}, nil).Once()

		_, err := service.Generate(ctx, userID, types.GenerateItineraryRequest{
			City:      "Atlantis",
			StartDate: "2026-09-01",
			EndDate:   "2026-09-03",
		})
		assert.ErrorIs(t, err, types.ErrNotFound)
		mockRepo.AssertNotCalled(t, "CreateItineraryWithActivities", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no duplicate location within one day", func(t *testing.T) {
		mockRepo := new(MockItineraryRepo)
		mockLocs := new(MockLocationService)
		service := newTestService(mockRepo, mockLocs)

		// Small pool across many days forces reuse between days.
		mockLocs.On("GetLocationsByCity", mock.Anything, "Faro").
			Return(cityPool("Faro", 4), nil).Once()
		mockRepo.On("CreateItineraryWithActivities", mock.Anything, mock.Anything, mock.Anything).
			Return(nil).Once()

		detail, err := service.Generate(ctx, userID, types.GenerateItineraryRequest{
			City:      "Faro",
			StartDate: "2026-09-01",
			EndDate:   "2026-09-05",
		})
		require.NoError(t, err)
		for _, day := range detail.Days {
			seen := map[uuid.UUID]bool{}
			for _, a := range day.Activities {
				assert.False(t, seen[a.Location.ID], "location repeated within day %d", day.Day)
				seen[a.Location.ID] = true
			}
		}
	})

	t.Run("persist failure surfaces", func(t *testing.T) {
		mockRepo := new(MockItineraryRepo)
		mockLocs := new(MockLocationService)
		service := newTestService(mockRepo, mockLocs)

		mockLocs.On("GetLocationsByCity", mock.Anything, "Lisbon").
			Return(cityPool("Lisbon", 8), nil).Once()
		mockRepo.On("CreateItineraryWithActivities", mock.Anything, mock.Anything, mock.Anything).
			Return(assert.AnError).Once()

		_, err := service.Generate(ctx, userID, types.GenerateItineraryRequest{
			City:      "Lisbon",
			StartDate: "2026-09-01",
			EndDate:   "2026-09-02",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestItineraryService_GetItineraryDetail(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	start, _ := time.Parse(types.DateLayout, "2026-09-01")
	end, _ := time.Parse(types.DateLayout, "2026-09-02")
	it := &types.Itinerary{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     "Trip to Lisbon",
		City:      "Lisbon",
		StartDate: start,
		EndDate:   end,
	}

	t.Run("activities grouped by day with derived numbers", func(t *testing.T) {
		mockRepo := new(MockItineraryRepo)
		mockLocs := new(MockLocationService)
		service := newTestService(mockRepo, mockLocs)

		loc := types.Location{ID: uuid.New(), Name: "Castle", City: "Lisbon"}
		rows := []ActivityRow{
			{
				Activity: types.Activity{ID: uuid.New(), ItineraryID: it.ID, LocationID: loc.ID,
					Date: end, StartTime: "09:00", EndTime: "11:00", Description: "Visit Castle"},
				Location: loc,
			},
			{
				Activity: types.Activity{ID: uuid.New(), ItineraryID: it.ID, LocationID: loc.ID,
					Date: start, StartTime: "10:00", EndTime: "12:00", Description: "Visit Castle"},
				Location: loc,
			},
		}

		mockRepo.On("GetItinerary", mock.Anything, userID, it.ID).Return(it, nil).Once()
		mockRepo.On("GetActivitiesForItinerary", mock.Anything, it.ID).Return(rows, nil).Once()

		detail, err := service.GetItineraryDetail(ctx, userID, it.ID)
		require.NoError(t, err)
		require.Len(t, detail.Days, 2)
		assert.Equal(t, 1, detail.Days[0].Day)
		assert.Equal(t, "2026-09-01", detail.Days[0].Date)
		require.Len(t, detail.Days[0].Activities, 1)
		require.Len(t, detail.Days[1].Activities, 1)
		assert.Equal(t, "2026-09-02", detail.Days[1].Activities[0].Date)
	})

	t.Run("missing itinerary is not found", func(t *testing.T) {
		mockRepo := new(MockItineraryRepo)
		mockLocs := new(MockLocationService)
		service := newTestService(mockRepo, mockLocs)

		unknown := uuid.New()
		mockRepo.On("GetItinerary", mock.Anything, userID, unknown).
			Return(nil, types.ErrNotFound).Once()
		mockRepo.On("GetActivitiesForItinerary", mock.Anything, unknown).
			Return([]ActivityRow{}, nil).Maybe()

		_, err := service.GetItineraryDetail(ctx, userID, unknown)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestItineraryService_UpdateItinerary(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	start, _ := time.Parse(types.DateLayout, "2026-09-01")
	end, _ := time.Parse(types.DateLayout, "2026-09-03")

	t.Run("date edits are validated against existing values", func(t *testing.T) {
		mockRepo := new(MockItineraryRepo)
		mockLocs := new(MockLocationService)
		service := newTestService(mockRepo, mockLocs)

		it := &types.Itinerary{ID: uuid.New(), UserID: userID, Title: "Trip", City: "Lisbon",
			StartDate: start, EndDate: end}
		mockRepo.On("GetItinerary", mock.Anything, userID, it.ID).Return(it, nil).Once()

		badStart := "2026-09-10"
		_, err := service.UpdateItinerary(ctx, userID, it.ID, types.UpdateItineraryRequest{
			StartDate: &badStart,
		})
		assert.ErrorIs(t, err, types.ErrValidation)
		mockRepo.AssertNotCalled(t, "UpdateItinerary", mock.Anything, mock.Anything)
	})

	t.Run("title change persisted", func(t *testing.T) {
		mockRepo := new(MockItineraryRepo)
		mockLocs := new(MockLocationService)
		service := newTestService(mockRepo, mockLocs)

		it := &types.Itinerary{ID: uuid.New(), UserID: userID, Title: "Trip", City: "Lisbon",
			StartDate: start, EndDate: end}
		mockRepo.On("GetItinerary", mock.Anything, userID, it.ID).Return(it, nil).Once()
		mockRepo.On("UpdateItinerary", mock.Anything, mock.MatchedBy(func(updated types.Itinerary) bool {
			return updated.Title == "Renamed"
		})).Return(nil).Once()

		title := "Renamed"
		resp, err := service.UpdateItinerary(ctx, userID, it.ID, types.UpdateItineraryRequest{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", resp.Title)
		mockRepo.AssertExpectations(t)
	})
}

func TestItineraryService_MapDataAndRoutes(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	start, _ := time.Parse(types.DateLayout, "2026-09-01")
	it := &types.Itinerary{ID: uuid.New(), UserID: userID, Title: "Trip", City: "Lisbon",
		StartDate: start, EndDate: start}
	locA := types.Location{ID: uuid.New(), Name: "Castle", Latitude: 38.71, Longitude: -9.13}
	locB := types.Location{ID: uuid.New(), Name: "Museum", Latitude: 38.70, Longitude: -9.15}
	rows := []ActivityRow{
		{Activity: types.Activity{ID: uuid.New(), LocationID: locA.ID, Date: start, StartTime: "09:00", EndTime: "10:00"}, Location: locA},
		{Activity: types.Activity{ID: uuid.New(), LocationID: locB.ID, Date: start, StartTime: "10:30", EndTime: "12:00"}, Location: locB},
	}

	t.Run("map data flattens every activity", func(t *testing.T) {
		mockRepo := new(MockItineraryRepo)
		mockLocs := new(MockLocationService)
		service := newTestService(mockRepo, mockLocs)

		mockRepo.On("GetItinerary", mock.Anything, userID, it.ID).Return(it, nil).Once()
		mockRepo.On("GetActivitiesForItinerary", mock.Anything, it.ID).Return(rows, nil).Once()

		data, err := service.GetMapData(ctx, userID, it.ID)
		require.NoError(t, err)
		require.Len(t, data.Points, 2)
		assert.Equal(t, "Castle", data.Points[0].Name)
		assert.Equal(t, 1, data.Points[0].Day)
	})

	t.Run("daily routes keep visit order", func(t *testing.T) {
		mockRepo := new(MockItineraryRepo)
		mockLocs := new(MockLocationService)
		service := newTestService(mockRepo, mockLocs)

		mockRepo.On("GetItinerary", mock.Anything, userID, it.ID).Return(it, nil).Once()
		mockRepo.On("GetActivitiesForItinerary", mock.Anything, it.ID).Return(rows, nil).Once()

		routes, err := service.GetDailyRoutes(ctx, userID, it.ID)
		require.NoError(t, err)
		require.Len(t, routes.Routes, 1)
		require.Len(t, routes.Routes[0].Waypoints, 2)
		assert.Equal(t, "09:00", routes.Routes[0].Waypoints[0].StartTime)
		assert.Equal(t, "10:30", routes.Routes[0].Waypoints[1].StartTime)
	})
}
