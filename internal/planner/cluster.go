package planner

import (
	"math"

	"github.com/FACorreiaa/go-itinerary-planner/internal/types"
	"github.com/google/uuid"
)

// DefaultClusterThresholdKm is the proximity radius used when no threshold is
// configured.
const DefaultClusterThresholdKm = 15.0

// Clusterer groups locations into proximity clusters.
type Clusterer struct {
	ThresholdKm float64
}

func NewClusterer(thresholdKm float64) *Clusterer {
	if thresholdKm <= 0 {
		thresholdKm = DefaultClusterThresholdKm
	}
	return &Clusterer{ThresholdKm: thresholdKm}
}

// Cluster partitions the input into proximity groups with a single greedy
// pass: each not-yet-clustered location in turn seeds a group and absorbs
// every remaining unclustered location within ThresholdKm of it. Absorbed
// members are never used as secondary seeds, so a group is bounded to one
// hop from its seed. Locations with unusable coordinates skip the pairwise
// comparison and end up in their own singleton group.
func (c *Clusterer) Cluster(locations []types.Location) [][]types.Location {
	clusters := make([][]types.Location, 0, len(locations))
	used := make(map[uuid.UUID]bool, len(locations))

	for _, seed := range locations {
		if used[seed.ID] {
			continue
		}
		used[seed.ID] = true
		group := []types.Location{seed}

		if !hasValidCoordinates(seed) {
			clusters = append(clusters, group)
			continue
		}

		for _, candidate := range locations {
			if used[candidate.ID] || !hasValidCoordinates(candidate) {
				continue
			}
			dist := Distance(seed.Latitude, seed.Longitude, candidate.Latitude, candidate.Longitude)
			if dist < c.ThresholdKm {
				group = append(group, candidate)
				used[candidate.ID] = true
			}
		}
		clusters = append(clusters, group)
	}
	return clusters
}

func hasValidCoordinates(l types.Location) bool {
	if math.IsNaN(l.Latitude) || math.IsNaN(l.Longitude) {
		return false
	}
	return l.Latitude >= -90 && l.Latitude <= 90 && l.Longitude >= -180 && l.Longitude <= 180
}
