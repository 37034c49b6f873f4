package planner

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/FACorreiaa/go-itinerary-planner/internal/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeLocations(n int) []types.Location {
	locations := make([]types.Location, n)
	for i := range locations {
		locations[i] = types.Location{
			ID:        uuid.New(),
			Name:      fmt.Sprintf("location-%d", i),
			Latitude:  41.0 + float64(i)*0.001,
			Longitude: 2.0 + float64(i)*0.001,
			City:      "Test City",
		}
	}
	return locations
}

func TestDistributor_Distribute(t *testing.T) {
	newDistributor := func(seed int64) *Distributor {
		return NewDistributor(3, 5, nil, rand.New(rand.NewSource(seed)))
	}

	t.Run("produces one bucket per day", func(t *testing.T) {
		d := newDistributor(1)
		buckets := d.Distribute(makeLocations(30), 4)
		assert.Len(t, buckets, 4)
	})

	t.Run("bucket sizes stay within bounds when the pool is sufficient", func(t *testing.T) {
		d := newDistributor(2)
		buckets := d.Distribute(makeLocations(30), 5)
		for i, bucket := range buckets {
			assert.GreaterOrEqual(t, len(bucket), 3, "day %d", i+1)
			assert.LessOrEqual(t, len(bucket), 5, "day %d", i+1)
		}
	})

	t.Run("no location repeats before the pool is exhausted", func(t *testing.T) {
		d := newDistributor(3)
		buckets := d.Distribute(makeLocations(30), 3)

		seen := make(map[uuid.UUID]bool)
		for _, bucket := range buckets {
			for _, l := range bucket {
				assert.False(t, seen[l.ID], "location %s assigned twice", l.Name)
				seen[l.ID] = true
			}
		}
	})

	t.Run("undersized pool degrades gracefully", func(t *testing.T) {
		d := newDistributor(4)
		buckets := d.Distribute(makeLocations(4), 3)

		require.Len(t, buckets, 3)
		for i, bucket := range buckets {
			assert.NotEmpty(t, bucket, "day %d", i+1)
			assert.LessOrEqual(t, len(bucket), 5, "day %d", i+1)

			// Repeats across days are allowed once the pool runs out,
			// but never within a single day.
			unique := make(map[uuid.UUID]bool)
			for _, l := range bucket {
				assert.False(t, unique[l.ID], "day %d repeats %s", i+1, l.Name)
				unique[l.ID] = true
			}
		}
	})

	t.Run("single location pool still yields a bucket per day", func(t *testing.T) {
		d := newDistributor(5)
		buckets := d.Distribute(makeLocations(1), 3)
		require.Len(t, buckets, 3)
		for _, bucket := range buckets {
			assert.Len(t, bucket, 1)
		}
	})

	t.Run("empty pool yields empty buckets", func(t *testing.T) {
		d := newDistributor(6)
		buckets := d.Distribute(nil, 2)
		require.Len(t, buckets, 2)
		for _, bucket := range buckets {
			assert.Empty(t, bucket)
		}
	})

	t.Run("non-positive day count yields nothing", func(t *testing.T) {
		d := newDistributor(7)
		assert.Nil(t, d.Distribute(makeLocations(10), 0))
	})

	t.Run("proximity bias keeps the first day geographically tight", func(t *testing.T) {
		// Two well-separated groups of five. The first bucket draws at most
		// five locations, all from a single cluster, so every pair must be
		// within the threshold.
		var locations []types.Location
		for i := 0; i < 5; i++ {
			locations = append(locations, loc(fmt.Sprintf("north-%d", i), 41.38+float64(i)*0.001, 2.17))
		}
		for i := 0; i < 5; i++ {
			locations = append(locations, loc(fmt.Sprintf("south-%d", i), 40.41+float64(i)*0.001, -3.70))
		}

		d := NewDistributor(3, 5, NewClusterer(15), rand.New(rand.NewSource(8)))
		buckets := d.Distribute(locations, 2)
		require.Len(t, buckets, 2)
		require.NotEmpty(t, buckets[0])

		first := buckets[0]
		for i := range first {
			for j := i + 1; j < len(first); j++ {
				dist := Distance(first[i].Latitude, first[i].Longitude, first[j].Latitude, first[j].Longitude)
				assert.Less(t, dist, 15.0)
			}
		}
	})
}
