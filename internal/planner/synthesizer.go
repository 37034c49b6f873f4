package planner

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/FACorreiaa/go-itinerary-planner/internal/types"
)

// Clock walk defaults: activities start at 09:00, no new activity begins at
// or after 19:00, visits last 1-3 hours with a 30-90 minute break between.
const (
	DefaultDayStartMinutes = 9 * 60
	DefaultDayEndMinutes   = 19 * 60
	minVisitHours          = 1
	maxVisitHours          = 3
	minBreakMinutes        = 30
	maxBreakMinutes        = 90
	DefaultCostMin         = 10
	DefaultCostMax         = 50
)

// PlannedActivity is one synthesized visit, not yet persisted.
type PlannedActivity struct {
	Location    types.Location
	Description string
	Date        time.Time
	StartTime   string // HH:MM
	EndTime     string // HH:MM
	Cost        float64
	Category    string
}

// Synthesizer turns a day's location list into an ordered activity schedule.
type Synthesizer struct {
	DayStart int // minutes from midnight
	DayEnd   int
	CostMin  int
	CostMax  int
	rng      *rand.Rand
}

func NewSynthesizer(dayStart, dayEnd, costMin, costMax int, rng *rand.Rand) *Synthesizer {
	if dayStart <= 0 {
		dayStart = DefaultDayStartMinutes
	}
	if dayEnd <= dayStart {
		dayEnd = DefaultDayEndMinutes
	}
	if costMin < 0 {
		costMin = DefaultCostMin
	}
	if costMax < costMin {
		costMax = DefaultCostMax
	}
	return &Synthesizer{
		DayStart: dayStart,
		DayEnd:   dayEnd,
		CostMin:  costMin,
		CostMax:  costMax,
		rng:      rng,
	}
}

// SynthesizeDay walks forward through the day from DayStart, emitting one
// activity per location in order. Locations that cannot be described are
// skipped without aborting the day; locations remaining once the clock
// reaches DayEnd are dropped.
func (s *Synthesizer) SynthesizeDay(date time.Time, locations []types.Location) []PlannedActivity {
	activities := make([]PlannedActivity, 0, len(locations))
	clock := s.DayStart

	for _, loc := range locations {
		if clock >= s.DayEnd {
			break
		}

		description, category, err := s.describe(loc)
		if err != nil {
			continue
		}

		duration := (minVisitHours + s.rng.Intn(maxVisitHours-minVisitHours+1)) * 60
		start := clock
		end := clock + duration

		activities = append(activities, PlannedActivity{
			Location:    loc,
			Description: description,
			Date:        date,
			StartTime:   formatClock(start),
			EndTime:     formatClock(end),
			Cost:        float64(s.CostMin + s.rng.Intn(s.CostMax-s.CostMin+1)),
			Category:    category,
		})

		clock = end + minBreakMinutes + s.rng.Intn(maxBreakMinutes-minBreakMinutes+1)
	}
	return activities
}

// describe resolves a template for the location's category, falling back to
// the general set for unknown categories.
func (s *Synthesizer) describe(loc types.Location) (string, string, error) {
	if strings.TrimSpace(loc.Name) == "" {
		return "", "", fmt.Errorf("location %s has no name", loc.ID)
	}

	category := strings.ToLower(strings.TrimSpace(loc.Category))
	choices, ok := activityTemplates[category]
	if !ok || len(choices) == 0 {
		category = fallbackCategory
		choices = activityTemplates[fallbackCategory]
	}

	template := choices[s.rng.Intn(len(choices))]
	return strings.ReplaceAll(template, "{name}", loc.Name), category, nil
}

// ParseClock converts "HH:MM" to minutes from midnight.
func ParseClock(value string) (int, error) {
	t, err := time.Parse(types.TimeLayout, value)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", value, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
