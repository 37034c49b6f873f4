// Package planner contains the itinerary generation core: geographic
// distance, proximity clustering, day distribution and activity synthesis.
// Everything here is pure computation; persistence and HTTP live in
// internal/api. Randomized components take an injected *rand.Rand so tests
// can seed them.
package planner

import "math"

const earthRadiusKm = 6371

// Distance returns the great-circle distance in kilometers between two
// coordinates given in degrees, using the haversine formula on a spherical
// Earth. Symmetric, and zero for identical points.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	dlat := (lat2 - lat1) * math.Pi / 180
	dlon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}
