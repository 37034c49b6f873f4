package types

import (
	"time"

	"github.com/google/uuid"
)

// Activity is a scheduled visit to a Location within one day of an Itinerary.
// Category and city are snapshots taken at synthesis time; they are not kept
// in sync with later edits to the referenced Location.
type Activity struct {
	ID          uuid.UUID `json:"id"`
	ItineraryID uuid.UUID `json:"itinerary_id"`
	LocationID  uuid.UUID `json:"location_id"`
	Description string    `json:"description"`
	Date        time.Time `json:"-"`
	StartTime   string    `json:"start_time"` // HH:MM, 24-hour
	EndTime     string    `json:"end_time"`   // HH:MM, 24-hour
	Cost        float64   `json:"cost"`
	Category    string    `json:"category,omitempty"`
	City        string    `json:"city"`
}

// ActivityDetail is an Activity enriched with its location's details, the
// shape returned by the generation response and all itinerary read views.
type ActivityDetail struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Date        string    `json:"date"` // YYYY-MM-DD
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	Cost        float64   `json:"cost"`
	Category    string    `json:"category,omitempty"`
	City        string    `json:"city"`
	Location    Location  `json:"location"`
}
