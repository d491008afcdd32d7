package stats

import (
	"testing"
	"time"

	"github.com/meltforce/liftlog/internal/models"
)

func set(reps int, weight float64) models.WorkoutSet {
	return models.WorkoutSet{Reps: reps, Weight: weight}
}

// TestSetVolume verifies the atomic reps × weight product, including the
// zero-factor and negative cases that pass through unchecked.
func TestSetVolume(t *testing.T) {
	tests := []struct {
		name   string
		reps   int
		weight float64
		want   float64
	}{
		{"plain", 10, 5, 50},
		{"zero reps", 0, 100, 0},
		{"zero weight", 5, 0, 0},
		{"fractional weight", 8, 22.5, 180},
		{"negative weight passes through", 3, -10, -30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SetVolume(set(tt.reps, tt.weight)); got != tt.want {
				t.Errorf("SetVolume(%d×%.1f) = %.1f, want %.1f", tt.reps, tt.weight, got, tt.want)
			}
		})
	}
}

// TestTotalVolume verifies summation over collections, empty included.
func TestTotalVolume(t *testing.T) {
	tests := []struct {
		name string
		sets []models.WorkoutSet
		want float64
	}{
		{"empty", nil, 0},
		{"single", []models.WorkoutSet{set(10, 5)}, 50},
		{"zero-weight set contributes nothing", []models.WorkoutSet{set(3, 100), set(5, 0)}, 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TotalVolume(tt.sets); got != tt.want {
				t.Errorf("TotalVolume = %.1f, want %.1f", got, tt.want)
			}
		})
	}
}

// TestMaxWeight verifies the max reduction with 0 as the defined floor
// for empty input.
func TestMaxWeight(t *testing.T) {
	tests := []struct {
		name string
		sets []models.WorkoutSet
		want float64
	}{
		{"empty", nil, 0},
		{"mixed", []models.WorkoutSet{set(1, 40), set(1, 0), set(1, 22.5)}, 40},
		{"all zero load", []models.WorkoutSet{set(10, 0), set(10, 0)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaxWeight(tt.sets); got != tt.want {
				t.Errorf("MaxWeight = %.1f, want %.1f", got, tt.want)
			}
		})
	}
}

// TestSessionDurationMins verifies rounding and the live "now" fallback
// for sessions that are still open.
func TestSessionDurationMins(t *testing.T) {
	start := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)

	ended := start.Add(62*time.Minute + 40*time.Second)
	s := models.WorkoutSession{StartedAt: start, EndedAt: &ended}
	if got := SessionDurationMins(s, start.Add(5*time.Hour)); got != 63 {
		t.Errorf("finished session duration = %d, want 63", got)
	}

	open := models.WorkoutSession{StartedAt: start}
	if got := SessionDurationMins(open, start.Add(30*time.Minute)); got != 30 {
		t.Errorf("open session duration = %d, want 30", got)
	}
}
