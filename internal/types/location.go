package types

import "github.com/google/uuid"

// Location is a point of interest available for scheduling. Reference data:
// rows are seeded or imported out-of-band and never mutated by the planner.
type Location struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Category  string    `json:"category,omitempty"`
	City      string    `json:"city"`
}

type CreateLocationRequest struct {
	Name      string  `json:"name"`
	Address   string  `json:"address,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Category  string  `json:"category,omitempty"`
	City      string  `json:"city"`
}

// ImportLocationsRequest is the bulk seed payload.
type ImportLocationsRequest struct {
	Locations []CreateLocationRequest `json:"locations"`
}

type ImportLocationsResponse struct {
	Imported int `json:"imported"`
}
