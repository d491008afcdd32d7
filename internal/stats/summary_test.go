package stats

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

// A fixed Monday evening; all summary tests hang off this clock.
var testNow = time.Date(2026, 3, 9, 20, 0, 0, 0, time.UTC)

// TestComputeStreak walks the consecutive-day rules: the run must end at
// today, duplicates collapse, and the walk stops at the first gap.
func TestComputeStreak(t *testing.T) {
	day := func(offset int) time.Time { return testNow.AddDate(0, 0, offset) }

	tests := []struct {
		name   string
		starts []time.Time
		want   int
	}{
		{"no sessions", nil, 0},
		{"two sessions today collapse to one day", []time.Time{day(0), day(0)}, 1},
		{"today and yesterday", []time.Time{day(0), day(-1)}, 2},
		{"yesterday only, nothing today", []time.Time{day(-1)}, 0},
		{"gap stops the walk", []time.Time{day(0), day(-1), day(-3)}, 2},
		{"long unbroken run", []time.Time{day(0), day(-1), day(-2), day(-3)}, 4},
		{"same day different hours", []time.Time{day(0).Add(-10 * time.Hour), day(0)}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeStreak(tt.starts, testNow); got != tt.want {
				t.Errorf("ComputeStreak = %d, want %d", got, tt.want)
			}
		})
	}
}

// TestSummaryWindows verifies the trailing 7- and 30-day windows: session
// counts, summed volume across every set, and summed minutes.
func TestSummaryWindows(t *testing.T) {
	store := newMemStore()
	user := uuid.New()
	cat := store.addCategory("Push")
	bench := store.addExercise("Bench Press")

	end := func(t time.Time) *time.Time { e := t.Add(45 * time.Minute); return &e }

	// 3 days ago: inside both windows. Volume 10×50 + 10×55 = 1050.
	s1Start := testNow.AddDate(0, 0, -3)
	s1 := store.addSession(user, cat, s1Start, end(s1Start))
	we1 := store.addWorkoutExercise(s1, bench)
	store.addSet(we1, 10, 50)
	store.addSet(we1, 10, 55)

	// 20 days ago: month window only. Volume 5×100 = 500.
	s2Start := testNow.AddDate(0, 0, -20)
	s2 := store.addSession(user, cat, s2Start, end(s2Start))
	we2 := store.addWorkoutExercise(s2, bench)
	store.addSet(we2, 5, 100)

	// 40 days ago: outside both windows.
	s3Start := testNow.AddDate(0, 0, -40)
	s3 := store.addSession(user, cat, s3Start, end(s3Start))
	we3 := store.addWorkoutExercise(s3, bench)
	store.addSet(we3, 10, 200)

	e := testEngine(store, testNow)
	got, err := e.Summary(context.Background(), user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Week.Sessions != 1 {
		t.Errorf("week sessions = %d, want 1", got.Week.Sessions)
	}
	if got.Week.Volume != 1050 {
		t.Errorf("week volume = %.1f, want 1050", got.Week.Volume)
	}
	if got.Week.Minutes != 45 {
		t.Errorf("week minutes = %d, want 45", got.Week.Minutes)
	}
	if got.Month.Sessions != 2 {
		t.Errorf("month sessions = %d, want 2", got.Month.Sessions)
	}
	if got.Month.Volume != 1550 {
		t.Errorf("month volume = %.1f, want 1550", got.Month.Volume)
	}
	if got.Month.Minutes != 90 {
		t.Errorf("month minutes = %d, want 90", got.Month.Minutes)
	}
	// No session today → streak 0 despite recent activity.
	if got.StreakDays != 0 {
		t.Errorf("streak = %d, want 0", got.StreakDays)
	}
}

// TestSummaryMissingPrerequisites verifies zero values (not errors) for a
// nil store or nil user: callers cannot distinguish "no data" from
// "nothing to compute" at this layer.
func TestSummaryMissingPrerequisites(t *testing.T) {
	e := NewEngine(nil, nil)
	got, err := e.Summary(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *got != (Summary{}) {
		t.Errorf("nil-store summary = %+v, want zero", got)
	}

	e = testEngine(newMemStore(), testNow)
	got, err = e.Summary(context.Background(), uuid.Nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *got != (Summary{}) {
		t.Errorf("nil-user summary = %+v, want zero", got)
	}
}

// TestSummaryIdempotent verifies that recomputing against unchanged store
// contents yields identical output.
func TestSummaryIdempotent(t *testing.T) {
	store := newMemStore()
	user := uuid.New()
	cat := store.addCategory("Pull")
	row := store.addExercise("Barbell Row")

	start := testNow.AddDate(0, 0, -1)
	s := store.addSession(user, cat, start, nil)
	we := store.addWorkoutExercise(s, row)
	store.addSet(we, 8, 60)

	e := testEngine(store, testNow)
	first, err := e.Summary(context.Background(), user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := e.Summary(context.Background(), user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *first != *second {
		t.Errorf("summary not idempotent: %+v vs %+v", first, second)
	}
}
