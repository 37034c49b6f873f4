package planner

import (
	"math/rand"

	"github.com/FACorreiaa/go-itinerary-planner/internal/types"
	"github.com/google/uuid"
)

// Per-day location count bounds.
const (
	DefaultMinPerDay = 3
	DefaultMaxPerDay = 5
)

// Distributor allocates a city's candidate locations across the days of an
// itinerary. Each day receives a uniformly random count of locations in
// [MinPerDay, MaxPerDay], drawn from a pool of locations not yet used in the
// current itinerary. Once fewer than MinPerDay unused locations remain the
// pool is replenished from the full set, so small pools degrade to repeats
// instead of errors. With a Clusterer attached, pool order is biased so that
// geographically close locations are consumed together.
type Distributor struct {
	MinPerDay int
	MaxPerDay int
	clusterer *Clusterer
	rng       *rand.Rand
}

// NewDistributor builds a Distributor. clusterer may be nil to disable
// proximity biasing; rng must not be nil.
func NewDistributor(minPerDay, maxPerDay int, clusterer *Clusterer, rng *rand.Rand) *Distributor {
	if minPerDay <= 0 {
		minPerDay = DefaultMinPerDay
	}
	if maxPerDay < minPerDay {
		maxPerDay = minPerDay
	}
	return &Distributor{
		MinPerDay: minPerDay,
		MaxPerDay: maxPerDay,
		clusterer: clusterer,
		rng:       rng,
	}
}

// Distribute returns exactly `days` buckets of locations. It never fails:
// an undersized pool yields smaller buckets or repeats of earlier locations.
func (d *Distributor) Distribute(locations []types.Location, days int) [][]types.Location {
	if days <= 0 {
		return nil
	}

	buckets := make([][]types.Location, 0, days)
	unused := d.orderPool(locations, nil)

	for day := 0; day < days; day++ {
		if len(unused) < d.MinPerDay && len(locations) > len(unused) {
			// The unused pool is (nearly) exhausted: top it up with every
			// location not already waiting in it.
			unused = append(unused, d.orderPool(locations, unused)...)
		}

		want := d.MinPerDay
		if spread := d.MaxPerDay - d.MinPerDay; spread > 0 {
			want += d.rng.Intn(spread + 1)
		}
		if want > len(unused) {
			want = len(unused)
		}

		bucket := make([]types.Location, want)
		copy(bucket, unused[:want])
		unused = unused[want:]
		buckets = append(buckets, bucket)
	}
	return buckets
}

// orderPool produces the consumption order for locations not present in
// exclude. Without a clusterer it is a plain shuffle; with one, clusters are
// shuffled as units so each day's picks stay geographically close.
func (d *Distributor) orderPool(locations []types.Location, exclude []types.Location) []types.Location {
	excluded := make(map[uuid.UUID]bool, len(exclude))
	for _, loc := range exclude {
		excluded[loc.ID] = true
	}

	pool := make([]types.Location, 0, len(locations))
	for _, loc := range locations {
		if !excluded[loc.ID] {
			pool = append(pool, loc)
		}
	}

	if d.clusterer == nil {
		d.rng.Shuffle(len(pool), func(i, j int) {
			pool[i], pool[j] = pool[j], pool[i]
		})
		return pool
	}

	clusters := d.clusterer.Cluster(pool)
	d.rng.Shuffle(len(clusters), func(i, j int) {
		clusters[i], clusters[j] = clusters[j], clusters[i]
	})

	ordered := make([]types.Location, 0, len(pool))
	for _, cluster := range clusters {
		ordered = append(ordered, cluster...)
	}
	return ordered
}
