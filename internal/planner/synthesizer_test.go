package planner

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/FACorreiaa/go-itinerary-planner/internal/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSynthesizer(seed int64) *Synthesizer {
	return NewSynthesizer(DefaultDayStartMinutes, DefaultDayEndMinutes, 10, 50, rand.New(rand.NewSource(seed)))
}

func TestSynthesizer_SynthesizeDay(t *testing.T) {
	date := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("first activity starts at the configured day start", func(t *testing.T) {
		s := newTestSynthesizer(1)
		activities := s.SynthesizeDay(date, makeLocations(3))
		require.NotEmpty(t, activities)
		assert.Equal(t, "09:00", activities[0].StartTime)
	})

	t.Run("every activity ends after it starts and the clock only moves forward", func(t *testing.T) {
		s := newTestSynthesizer(2)
		activities := s.SynthesizeDay(date, makeLocations(5))
		require.NotEmpty(t, activities)

		prevEnd := 0
		for _, a := range activities {
			start, err := ParseClock(a.StartTime)
			require.NoError(t, err)
			end, err := ParseClock(a.EndTime)
			require.NoError(t, err)

			assert.Greater(t, end, start)
			assert.GreaterOrEqual(t, start, prevEnd+minBreakMinutes,
				"breaks between activities must be at least %d minutes", minBreakMinutes)
			prevEnd = end
		}
	})

	t.Run("locations past the day-end cutoff are dropped", func(t *testing.T) {
		s := newTestSynthesizer(3)
		activities := s.SynthesizeDay(date, makeLocations(12))

		// Ten hours cannot fit twelve visits of at least one hour plus breaks.
		assert.Less(t, len(activities), 12)
		for _, a := range activities {
			start, err := ParseClock(a.StartTime)
			require.NoError(t, err)
			assert.Less(t, start, DefaultDayEndMinutes)
		}
	})

	t.Run("unknown category falls back to the general templates", func(t *testing.T) {
		s := newTestSynthesizer(4)
		mystery := types.Location{ID: uuid.New(), Name: "Mystery Spot", Category: "interdimensional", City: "Test City"}

		activities := s.SynthesizeDay(date, []types.Location{mystery})
		require.Len(t, activities, 1)
		assert.Equal(t, "general", activities[0].Category)
		assert.Contains(t, activities[0].Description, "Mystery Spot")
	})

	t.Run("category templates are used and the name substituted", func(t *testing.T) {
		s := newTestSynthesizer(5)
		museum := types.Location{ID: uuid.New(), Name: "City Museum", Category: "culture", City: "Test City"}

		activities := s.SynthesizeDay(date, []types.Location{museum})
		require.Len(t, activities, 1)
		assert.Equal(t, "culture", activities[0].Category)
		assert.Contains(t, activities[0].Description, "City Museum")
		assert.NotContains(t, activities[0].Description, "{name}")
	})

	t.Run("cost stays within the configured bounds", func(t *testing.T) {
		s := newTestSynthesizer(6)
		for _, a := range s.SynthesizeDay(date, makeLocations(5)) {
			assert.GreaterOrEqual(t, a.Cost, 10.0)
			assert.LessOrEqual(t, a.Cost, 50.0)
		}
	})

	t.Run("a location that cannot be described is skipped, not fatal", func(t *testing.T) {
		s := newTestSynthesizer(7)
		locations := []types.Location{
			{ID: uuid.New(), Name: "First Stop", Category: "nature", City: "Test City"},
			{ID: uuid.New(), Name: "   ", City: "Test City"}, // unnameable
			{ID: uuid.New(), Name: "Last Stop", Category: "food", City: "Test City"},
		}

		activities := s.SynthesizeDay(date, locations)
		require.Len(t, activities, 2)
		assert.True(t, strings.Contains(activities[0].Description, "First Stop"))
		assert.True(t, strings.Contains(activities[1].Description, "Last Stop"))
	})

	t.Run("empty day yields no activities", func(t *testing.T) {
		s := newTestSynthesizer(8)
		assert.Empty(t, s.SynthesizeDay(date, nil))
	})
}

func TestParseClock(t *testing.T) {
	minutes, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, 570, minutes)

	_, err = ParseClock("9am")
	assert.Error(t, err)
}
