package stats

import (
	"math"
	"time"

	"github.com/meltforce/liftlog/internal/models"
)

// SetVolume returns reps × weight for a single set. No bounds checking:
// zero or negative factors pass straight through to the product.
func SetVolume(s models.WorkoutSet) float64 {
	return float64(s.Reps) * s.Weight
}

// TotalVolume sums SetVolume over the collection. Empty → 0.
func TotalVolume(sets []models.WorkoutSet) float64 {
	var sum float64
	for _, s := range sets {
		sum += SetVolume(s)
	}
	return sum
}

// MaxWeight returns the heaviest weight in the collection, or 0 when it
// is empty. Zero is the floor, not a "no data" marker: a collection of
// zero-load sets and an empty collection both report 0.
func MaxWeight(sets []models.WorkoutSet) float64 {
	var max float64
	for _, s := range sets {
		if s.Weight > max {
			max = s.Weight
		}
	}
	return max
}

// SessionDurationMins returns the session length rounded to whole
// minutes. Open sessions (nil EndedAt) are measured against now, so the
// value is live and grows until the session is finished.
func SessionDurationMins(s models.WorkoutSession, now time.Time) int {
	end := now
	if s.EndedAt != nil {
		end = *s.EndedAt
	}
	return int(math.Round(end.Sub(s.StartedAt).Minutes()))
}
