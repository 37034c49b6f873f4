package types

import (
	"time"

	"github.com/google/uuid"
)

// Wire formats for dates and times across the itinerary API.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Itinerary is a user's planned trip to a city over an inclusive date range.
type Itinerary struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	City      string    `json:"city"`
	StartDate time.Time `json:"-"`
	EndDate   time.Time `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ItineraryResponse is the wire shape of an itinerary with formatted dates.
type ItineraryResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	City      string    `json:"city"`
	StartDate string    `json:"start_date"` // YYYY-MM-DD
	EndDate   string    `json:"end_date"`   // YYYY-MM-DD
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (i Itinerary) ToResponse() ItineraryResponse {
	return ItineraryResponse{
		ID:        i.ID,
		Title:     i.Title,
		City:      i.City,
		StartDate: i.StartDate.Format(DateLayout),
		EndDate:   i.EndDate.Format(DateLayout),
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

type GenerateItineraryRequest struct {
	City      string `json:"city"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Title     string `json:"title,omitempty"`
}

// UpdateItineraryRequest allows title and date edits. Edits never regenerate
// the itinerary's activities.
type UpdateItineraryRequest struct {
	Title     *string `json:"title,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
}

// DayPlan groups one day's activities. Day is the 1-based sequence number
// (date - start_date).days + 1; it is derived on read, never stored.
type DayPlan struct {
	Day        int              `json:"day"`
	Date       string           `json:"date"` // YYYY-MM-DD
	Activities []ActivityDetail `json:"activities"`
}

// ItineraryDetailResponse is the canonical day-by-day payload shared by the
// generation response and the detail read endpoint.
type ItineraryDetailResponse struct {
	Itinerary ItineraryResponse `json:"itinerary"`
	Days      []DayPlan         `json:"days"`
}

type PaginatedItinerariesResponse struct {
	Itineraries  []ItineraryResponse `json:"itineraries"`
	TotalRecords int                 `json:"total_records"`
	Page         int                 `json:"page"`
	PageSize     int                 `json:"page_size"`
}

// MapPoint is one flattened per-activity map marker.
type MapPoint struct {
	ActivityID  uuid.UUID `json:"activity_id"`
	LocationID  uuid.UUID `json:"location_id"`
	Name        string    `json:"name"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Description string    `json:"description"`
	Day         int       `json:"day"`
	Date        string    `json:"date"`
	StartTime   string    `json:"start_time"`
}

type MapDataResponse struct {
	ItineraryID uuid.UUID  `json:"itinerary_id"`
	Points      []MapPoint `json:"points"`
}

// Waypoint is one ordered stop within a day's route.
type Waypoint struct {
	LocationID uuid.UUID `json:"location_id"`
	Name       string    `json:"name"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	StartTime  string    `json:"start_time"`
}

type DailyRoute struct {
	Day       int        `json:"day"`
	Date      string     `json:"date"`
	Waypoints []Waypoint `json:"waypoints"`
}

type DailyRoutesResponse struct {
	ItineraryID uuid.UUID    `json:"itinerary_id"`
	Routes      []DailyRoute `json:"routes"`
}
