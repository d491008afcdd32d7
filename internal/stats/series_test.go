package stats

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

// TestWeekKeySundayStart verifies calendar-week bucketing with Sunday as
// the week-start day.
func TestWeekKeySundayStart(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"sunday maps to itself", time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC), "2026-03-08"},
		{"monday maps back to sunday", time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC), "2026-03-08"},
		{"saturday stays in the same week", time.Date(2026, 3, 14, 23, 0, 0, 0, time.UTC), "2026-03-08"},
		{"next sunday opens a new week", time.Date(2026, 3, 15, 0, 30, 0, 0, time.UTC), "2026-03-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := weekKey(tt.in); got != tt.want {
				t.Errorf("weekKey(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestWeeklySeriesCollapseAndSparsity verifies that sessions in the same
// calendar week collapse into one bucket whose value is the sum of their
// contributions, and that empty weeks never appear in the output.
func TestWeeklySeriesCollapseAndSparsity(t *testing.T) {
	store := newMemStore()
	user := uuid.New()
	cat := store.addCategory("Legs")
	squat := store.addExercise("Squat")

	// Two sessions in the week of 2026-03-02 (Mon + Wed), none the week
	// after, one more in the current week.
	addSession := func(start time.Time, reps int, weight float64) {
		s := store.addSession(user, cat, start, nil)
		we := store.addWorkoutExercise(s, squat)
		store.addSet(we, reps, weight)
	}
	addSession(time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC), 10, 100) // 1000
	addSession(time.Date(2026, 3, 4, 18, 0, 0, 0, time.UTC), 10, 50)  // 500
	addSession(time.Date(2026, 3, 16, 18, 0, 0, 0, time.UTC), 5, 80)  // 400

	e := testEngine(store, time.Date(2026, 3, 17, 12, 0, 0, 0, time.UTC))
	got, err := e.WeeklySeries(context.Background(), user, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got.Volume) != 2 {
		t.Fatalf("volume buckets = %d, want 2 (empty week omitted)", len(got.Volume))
	}
	if got.Volume[0].Label != "03-01" || got.Volume[0].Value != 1500 {
		t.Errorf("bucket 0 = %+v, want {03-01 1500}", got.Volume[0])
	}
	if got.Volume[1].Label != "03-15" || got.Volume[1].Value != 400 {
		t.Errorf("bucket 1 = %+v, want {03-15 400}", got.Volume[1])
	}
	if got.Sessions[0].Value != 2 || got.Sessions[1].Value != 1 {
		t.Errorf("session counts = %.0f/%.0f, want 2/1",
			got.Sessions[0].Value, got.Sessions[1].Value)
	}
}

// TestWeeklySeriesInvalidWeeks verifies that weeks < 1 short-circuits to
// empty series.
func TestWeeklySeriesInvalidWeeks(t *testing.T) {
	e := testEngine(newMemStore(), testNow)
	for _, weeks := range []int{0, -3} {
		got, err := e.WeeklySeries(context.Background(), uuid.New(), weeks)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got.Volume) != 0 || len(got.Sessions) != 0 || len(got.Minutes) != 0 {
			t.Errorf("weeks=%d produced non-empty series", weeks)
		}
	}
}

// TestActivityHeatmap verifies per-day grouping, multi-session days, and
// ascending date order.
func TestActivityHeatmap(t *testing.T) {
	store := newMemStore()
	user := uuid.New()
	cat := store.addCategory("Push")
	press := store.addExercise("Overhead Press")

	day1 := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 12, 18, 0, 0, 0, time.UTC)

	for _, start := range []time.Time{day1, day1.Add(10 * time.Hour), day2} {
		s := store.addSession(user, cat, start, nil)
		we := store.addWorkoutExercise(s, press)
		store.addSet(we, 5, 40) // 200 each
	}

	e := testEngine(store, time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))
	got, err := e.ActivityHeatmap(context.Background(), user, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("days = %d, want 2", len(got))
	}
	if got[0].Date != "2026-03-10" || got[0].Sessions != 2 || got[0].Volume != 400 {
		t.Errorf("day 0 = %+v, want {2026-03-10 2 400}", got[0])
	}
	if got[1].Date != "2026-03-12" || got[1].Sessions != 1 || got[1].Volume != 200 {
		t.Errorf("day 1 = %+v, want {2026-03-12 1 200}", got[1])
	}
}

// TestSessionSetsBulkPath verifies that a window big enough to trip the
// bulk threshold produces the same totals as the nested path would.
func TestSessionSetsBulkPath(t *testing.T) {
	store := newMemStore()
	user := uuid.New()
	cat := store.addCategory("Pull")
	row := store.addExercise("Barbell Row")

	now := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)
	for i := 0; i < bulkFetchThreshold+5; i++ {
		s := store.addSession(user, cat, now.Add(-time.Duration(i)*time.Hour), nil)
		we := store.addWorkoutExercise(s, row)
		store.addSet(we, 10, 10) // 100 each
	}

	e := testEngine(store, now)
	got, err := e.Summary(context.Background(), user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := float64((bulkFetchThreshold + 5) * 100)
	if got.Week.Volume != want {
		t.Errorf("bulk-path week volume = %.0f, want %.0f", got.Week.Volume, want)
	}
}
